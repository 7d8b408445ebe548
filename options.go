// options.go: Construction options for the Dryad tree
//
// Copyright (c) 2025 AGILira
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package dryad

import "time"

// Options configures a Tree at construction time.
type Options struct {
	// Audit configures the mutation audit trail. Auditing is opt-in:
	// the zero value leaves it disabled.
	Audit AuditConfig

	// Providers to register up front, in order. RegisterProvider can add
	// more before Init.
	Providers []Provider
}

// WithDefaults applies sensible defaults to the options.
func (o *Options) WithDefaults() *Options {
	opts := *o

	if opts.Audit.Enabled {
		if opts.Audit.BufferSize <= 0 {
			opts.Audit.BufferSize = 1000
		}
		if opts.Audit.FlushInterval <= 0 {
			opts.Audit.FlushInterval = 5 * time.Second
		}
	}

	return &opts
}
