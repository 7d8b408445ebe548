// errors.go: Error codes for Dryad operations
//
// Copyright (c) 2025 AGILira
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package dryad

// Error codes carried by github.com/agilira/go-errors values. Lookup misses
// are not errors (Get/Exists/Ls report absence through their return values);
// these codes cover argument violations, provider failures and I/O.
const (
	ErrCodeInvalidPath     = "DRYAD_INVALID_PATH"
	ErrCodeSiblingMismatch = "DRYAD_SIBLING_MISMATCH"
	ErrCodeSiblingNotFound = "DRYAD_SIBLING_NOT_FOUND"
	ErrCodeProviderFailed  = "DRYAD_PROVIDER_FAILED"
	ErrCodeInvalidOptions  = "DRYAD_INVALID_OPTIONS"
	ErrCodeParseError      = "DRYAD_PARSE_ERROR"
	ErrCodeIOError         = "DRYAD_IO_ERROR"
	ErrCodeAuditError      = "DRYAD_AUDIT_ERROR"
)
