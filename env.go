// env.go: Environment variable configuration for Dryad
//
// Container deployments configure the tree through DRYAD_* environment
// variables instead of code. DRYAD_FILES carries the provider mounts as a
// comma-separated list of "file=mount" pairs, for example:
//
//   DRYAD_FILES=/etc/app.yaml=/files/etc/app,/etc/db.ini=/files/etc/db
//
// Copyright (c) 2025 AGILira
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package dryad

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/agilira/go-errors"
)

// Environment variables understood by LoadOptionsFromEnv.
const (
	EnvAuditEnabled       = "DRYAD_AUDIT_ENABLED"
	EnvAuditOutputFile    = "DRYAD_AUDIT_OUTPUT_FILE"
	EnvAuditMinLevel      = "DRYAD_AUDIT_MIN_LEVEL"
	EnvAuditBufferSize    = "DRYAD_AUDIT_BUFFER_SIZE"
	EnvAuditFlushInterval = "DRYAD_AUDIT_FLUSH_INTERVAL"
	EnvFiles              = "DRYAD_FILES"
)

// LoadOptionsFromEnv builds Options from DRYAD_* environment variables,
// with defaults applied for anything unset.
func LoadOptionsFromEnv() (*Options, error) {
	opts := &Options{}

	if v := os.Getenv(EnvAuditEnabled); v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return nil, errors.Wrap(err, ErrCodeInvalidOptions, "invalid "+EnvAuditEnabled)
		}
		opts.Audit.Enabled = enabled
	}
	opts.Audit.OutputFile = os.Getenv(EnvAuditOutputFile)

	if v := os.Getenv(EnvAuditMinLevel); v != "" {
		level, err := parseAuditLevel(v)
		if err != nil {
			return nil, err
		}
		opts.Audit.MinLevel = level
	}
	if v := os.Getenv(EnvAuditBufferSize); v != "" {
		size, err := strconv.Atoi(v)
		if err != nil || size <= 0 {
			return nil, errors.New(ErrCodeInvalidOptions, "invalid "+EnvAuditBufferSize).
				WithContext("value", v)
		}
		opts.Audit.BufferSize = size
	}
	if v := os.Getenv(EnvAuditFlushInterval); v != "" {
		interval, err := time.ParseDuration(v)
		if err != nil || interval <= 0 {
			return nil, errors.New(ErrCodeInvalidOptions, "invalid "+EnvAuditFlushInterval).
				WithContext("value", v)
		}
		opts.Audit.FlushInterval = interval
	}

	if v := os.Getenv(EnvFiles); v != "" {
		providers, err := ParseFileMounts(v)
		if err != nil {
			return nil, err
		}
		opts.Providers = providers
	}

	return opts.WithDefaults(), nil
}

// ParseFileMounts parses a comma-separated list of "file=mount" pairs into
// file providers, preserving order.
func ParseFileMounts(spec string) ([]Provider, error) {
	var providers []Provider
	for _, pair := range strings.Split(spec, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		parts := strings.SplitN(pair, "=", 2)
		if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
			return nil, errors.New(ErrCodeInvalidOptions, "file mount must be file=mount").
				WithContext("spec", pair)
		}
		providers = append(providers, NewFileProvider(parts[0], parts[1]))
	}
	return providers, nil
}

// parseAuditLevel parses an audit level name.
func parseAuditLevel(v string) (AuditLevel, error) {
	switch strings.ToUpper(strings.TrimSpace(v)) {
	case "INFO":
		return AuditInfo, nil
	case "WARN":
		return AuditWarn, nil
	case "CRITICAL":
		return AuditCritical, nil
	default:
		return AuditInfo, errors.New(ErrCodeInvalidOptions, "invalid audit level").
			WithContext("value", v)
	}
}
