// provider.go: Provider contract for the Dryad tree
//
// Providers bridge the in-memory tree to real configuration files. The core
// treats them purely through this three-operation capability contract, so
// new formats are added without touching the store: implement the interface
// and register the provider before Init.
//
// Copyright (c) 2025 AGILira
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package dryad

// Provider is the contract between the tree core and a format-specific
// adapter. Init and Save run in registration order; a failure in either
// aborts the surrounding Tree.Init or Tree.Save without rolling back
// providers that already ran.
type Provider interface {
	// Init performs one-time provider setup, such as discovering the
	// backing file. Called by Tree.Init before Load, on every Init call.
	Init() error

	// Load populates the tree from the backing source using the same
	// Set/Insert primitives available to callers.
	Load(t *Tree) error

	// Save persists the tree back to the backing source. Save reads the
	// tree (Get/Ls/Match) and must not mutate it.
	Save(t *Tree) error
}
