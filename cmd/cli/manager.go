// Package cli provides the command-line interface for Dryad tree
// management.
//
// Built on the Orpheus framework with git-style subcommands. Every command
// stands up a tree from the file providers named by --files (or the
// DRYAD_FILES environment variable), runs one operation against it and,
// where --save is given, persists the tree back through the providers.
//
// Copyright (c) 2025 AGILira
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package cli

import (
	"github.com/agilira/orpheus/pkg/orpheus"

	"github.com/agilira/dryad"
)

const filesFlagUsage = "Comma-separated file=mount provider pairs (default: $DRYAD_FILES)"

// Manager orchestrates the Dryad CLI commands.
type Manager struct {
	app   *orpheus.App
	audit dryad.AuditConfig
}

// NewManager creates the CLI manager with the full command tree.
func NewManager() *Manager {
	app := orpheus.New("dryad").
		SetDescription("Hierarchical configuration tree store").
		SetVersion("1.0.0")

	manager := &Manager{app: app}
	manager.setupTreeCommands()
	manager.setupQueryCommands()
	manager.setupUtilityCommands()

	return manager
}

// WithAudit enables the mutation audit trail for all CLI operations.
func (m *Manager) WithAudit(audit dryad.AuditConfig) *Manager {
	m.audit = audit
	return m
}

// Run executes the CLI application with the provided arguments.
func (m *Manager) Run(args []string) error {
	return m.app.Run(args)
}

// setupTreeCommands configures the mutating commands.
func (m *Manager) setupTreeCommands() {
	setCmd := orpheus.NewCommand("set", "Set the value at a tree path")
	setCmd.SetHandler(m.handleSet)
	setCmd.AddFlag("files", "f", "", filesFlagUsage)
	setCmd.AddBoolFlag("save", "s", false, "Persist the tree through the providers afterwards")
	m.app.AddCommand(setCmd)

	rmCmd := orpheus.NewCommand("rm", "Remove a path and its whole subtree")
	rmCmd.SetHandler(m.handleRm)
	rmCmd.AddFlag("files", "f", "", filesFlagUsage)
	rmCmd.AddBoolFlag("save", "s", false, "Persist the tree through the providers afterwards")
	m.app.AddCommand(rmCmd)

	insertCmd := orpheus.NewCommand("insert", "Place a path immediately before a sibling")
	insertCmd.SetHandler(m.handleInsert)
	insertCmd.AddFlag("files", "f", "", filesFlagUsage)
	insertCmd.AddBoolFlag("save", "s", false, "Persist the tree through the providers afterwards")
	m.app.AddCommand(insertCmd)

	saveCmd := orpheus.NewCommand("save", "Load and immediately persist every provider")
	saveCmd.SetHandler(m.handleSave)
	saveCmd.AddFlag("files", "f", "", filesFlagUsage)
	m.app.AddCommand(saveCmd)
}

// setupQueryCommands configures the read-only commands.
func (m *Manager) setupQueryCommands() {
	getCmd := orpheus.NewCommand("get", "Get the value at a tree path")
	getCmd.SetHandler(m.handleGet)
	getCmd.AddFlag("files", "f", "", filesFlagUsage)
	m.app.AddCommand(getCmd)

	existsCmd := orpheus.NewCommand("exists", "Test whether a tree path exists")
	existsCmd.SetHandler(m.handleExists)
	existsCmd.AddFlag("files", "f", "", filesFlagUsage)
	m.app.AddCommand(existsCmd)

	lsCmd := orpheus.NewCommand("ls", "List the immediate children of a path")
	lsCmd.SetHandler(m.handleLs)
	lsCmd.AddFlag("files", "f", "", filesFlagUsage)
	m.app.AddCommand(lsCmd)

	matchCmd := orpheus.NewCommand("match", "Match entry paths against a glob pattern")
	matchCmd.SetHandler(m.handleMatch)
	matchCmd.AddFlag("files", "f", "", filesFlagUsage)
	matchCmd.AddIntFlag("limit", "l", -1, "Maximum number of matches to print")
	m.app.AddCommand(matchCmd)

	dumpCmd := orpheus.NewCommand("dump", "Dump the tree (optionally below a path)")
	dumpCmd.SetHandler(m.handleDump)
	dumpCmd.AddFlag("files", "f", "", filesFlagUsage)
	m.app.AddCommand(dumpCmd)
}

// setupUtilityCommands configures diagnostics.
func (m *Manager) setupUtilityCommands() {
	infoCmd := orpheus.NewCommand("info", "Tree statistics and provider information")
	infoCmd.SetHandler(m.handleInfo)
	infoCmd.AddFlag("files", "f", "", filesFlagUsage)
	m.app.AddCommand(infoCmd)
}
