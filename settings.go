// settings.go: Unified bootstrap settings for Dryad tools
//
// Combines FlashFlags command-line parsing with the DRYAD_* environment
// variables into one Options value, flags taking precedence. This is the
// glue the CLI uses to stand up a tree before running commands.
//
// Copyright (c) 2025 AGILira
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package dryad

import (
	"time"

	flashflags "github.com/agilira/flash-flags"

	"github.com/agilira/go-errors"
)

// Settings binds bootstrap flags for a Dryad-based tool.
type Settings struct {
	flags   *flashflags.FlagSet
	appName string
}

// NewSettings creates the bootstrap flag set for appName.
func NewSettings(appName string) *Settings {
	s := &Settings{
		flags:   flashflags.New(appName),
		appName: appName,
	}

	s.flags.String("files", "", "Comma-separated file=mount provider pairs")
	s.flags.Bool("audit", false, "Enable the mutation audit trail")
	s.flags.String("audit-output", "", "Audit output file (.jsonl or .db)")
	s.flags.String("audit-level", "INFO", "Minimum audit level (INFO|WARN|CRITICAL)")
	s.flags.Int("audit-buffer", 1000, "Audit event buffer size")
	s.flags.Duration("audit-flush", 5*time.Second, "Audit flush interval")

	return s
}

// SetDescription sets the tool description for help output.
func (s *Settings) SetDescription(description string) *Settings {
	s.flags.SetDescription(description)
	return s
}

// SetVersion sets the tool version for help output.
func (s *Settings) SetVersion(version string) *Settings {
	s.flags.SetVersion(version)
	return s
}

// Parse parses command-line arguments.
func (s *Settings) Parse(args []string) error {
	if err := s.flags.Parse(args); err != nil {
		return errors.Wrap(err, ErrCodeInvalidOptions, "failed to parse command-line flags")
	}
	return nil
}

// Options resolves the final tree options: environment first, then flag
// values on top.
func (s *Settings) Options() (*Options, error) {
	opts, err := LoadOptionsFromEnv()
	if err != nil {
		return nil, err
	}

	if s.flags.GetBool("audit") {
		opts.Audit.Enabled = true
	}
	if v := s.flags.GetString("audit-output"); v != "" {
		opts.Audit.OutputFile = v
	}
	if v := s.flags.GetString("audit-level"); v != "" {
		level, err := parseAuditLevel(v)
		if err != nil {
			return nil, err
		}
		opts.Audit.MinLevel = level
	}
	if v := s.flags.GetInt("audit-buffer"); v > 0 {
		opts.Audit.BufferSize = v
	}
	if v := s.flags.GetDuration("audit-flush"); v > 0 {
		opts.Audit.FlushInterval = v
	}

	if v := s.flags.GetString("files"); v != "" {
		providers, err := ParseFileMounts(v)
		if err != nil {
			return nil, err
		}
		opts.Providers = providers
	}

	return opts.WithDefaults(), nil
}

// NewTree builds a Tree from the resolved options and initializes it.
func (s *Settings) NewTree() (*Tree, error) {
	opts, err := s.Options()
	if err != nil {
		return nil, err
	}
	tree := New(*opts)
	if err := tree.Init(); err != nil {
		_ = tree.Close()
		return nil, err
	}
	return tree, nil
}
