// Utility functions for the Dryad CLI
//
// Copyright (c) 2025 AGILira
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package cli

import (
	"os"

	"github.com/agilira/orpheus/pkg/orpheus"

	"github.com/agilira/dryad"
)

// buildTree stands up an initialized tree for one command invocation. The
// providers come from the --files flag, falling back to $DRYAD_FILES; a
// command without providers still gets a tree with the two sentinels.
func (m *Manager) buildTree(ctx *orpheus.Context) (*dryad.Tree, error) {
	spec := ctx.GetFlagString("files")
	if spec == "" {
		spec = os.Getenv(dryad.EnvFiles)
	}

	opts := dryad.Options{Audit: m.audit}
	if spec != "" {
		providers, err := dryad.ParseFileMounts(spec)
		if err != nil {
			return nil, err
		}
		opts.Providers = providers
	}

	tree := dryad.New(opts)
	if err := tree.Init(); err != nil {
		_ = tree.Close()
		return nil, err
	}
	return tree, nil
}

// maybeSave persists the tree when the command was invoked with --save.
func (m *Manager) maybeSave(ctx *orpheus.Context, tree *dryad.Tree) error {
	if !ctx.GetFlagBool("save") {
		return nil
	}
	return tree.Save()
}

// closeTree releases the tree, ignoring teardown errors on the CLI path.
func closeTree(tree *dryad.Tree) {
	_ = tree.Close()
}
