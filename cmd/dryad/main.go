// Dryad CLI entry point
//
// Audit settings come from the DRYAD_AUDIT_* environment variables so that
// every command invocation leaves the same trail without extra flags.
//
// Copyright (c) 2025 AGILira
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package main

import (
	"fmt"
	"os"

	"github.com/agilira/dryad"
	"github.com/agilira/dryad/cmd/cli"
)

func main() {
	manager := cli.NewManager()

	if opts, err := dryad.LoadOptionsFromEnv(); err == nil && opts.Audit.Enabled {
		manager = manager.WithAudit(opts.Audit)
	}

	if err := manager.Run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
