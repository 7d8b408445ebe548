// Command handlers for the Dryad CLI
//
// Copyright (c) 2025 AGILira
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package cli

import (
	"fmt"
	"os"

	"github.com/agilira/go-errors"
	"github.com/agilira/orpheus/pkg/orpheus"

	"github.com/agilira/dryad"
)

// handleGet prints the value stored at a path.
func (m *Manager) handleGet(ctx *orpheus.Context) error {
	path := ctx.GetArg(0)
	if path == "" {
		return errors.New(dryad.ErrCodeInvalidPath, "usage: dryad get <path>")
	}

	tree, err := m.buildTree(ctx)
	if err != nil {
		return err
	}
	defer closeTree(tree)

	value, ok := tree.Get(path)
	if !ok {
		return errors.New(dryad.ErrCodeInvalidPath, fmt.Sprintf("no value at '%s'", path))
	}
	fmt.Println(value)
	return nil
}

// handleSet stores a value at a path, creating missing ancestors.
func (m *Manager) handleSet(ctx *orpheus.Context) error {
	path := ctx.GetArg(0)
	value := ctx.GetArg(1)
	if path == "" {
		return errors.New(dryad.ErrCodeInvalidPath, "usage: dryad set <path> <value>")
	}

	tree, err := m.buildTree(ctx)
	if err != nil {
		return err
	}
	defer closeTree(tree)

	if err := tree.Set(path, value); err != nil {
		return err
	}
	if err := m.maybeSave(ctx, tree); err != nil {
		return err
	}

	fmt.Printf("Set %s = %s\n", path, value)
	return nil
}

// handleExists reports path existence through the exit code and output.
func (m *Manager) handleExists(ctx *orpheus.Context) error {
	path := ctx.GetArg(0)
	if path == "" {
		return errors.New(dryad.ErrCodeInvalidPath, "usage: dryad exists <path>")
	}

	tree, err := m.buildTree(ctx)
	if err != nil {
		return err
	}
	defer closeTree(tree)

	if !tree.Exists(path) {
		fmt.Printf("%s does not exist\n", path)
		return errors.New(dryad.ErrCodeInvalidPath, fmt.Sprintf("path '%s' not found", path))
	}
	fmt.Printf("%s exists\n", path)
	return nil
}

// handleInsert places a path immediately before its sibling.
func (m *Manager) handleInsert(ctx *orpheus.Context) error {
	path := ctx.GetArg(0)
	sibling := ctx.GetArg(1)
	if path == "" || sibling == "" {
		return errors.New(dryad.ErrCodeInvalidPath, "usage: dryad insert <path> <sibling>")
	}

	tree, err := m.buildTree(ctx)
	if err != nil {
		return err
	}
	defer closeTree(tree)

	if err := tree.Insert(path, sibling); err != nil {
		return err
	}
	if err := m.maybeSave(ctx, tree); err != nil {
		return err
	}

	fmt.Printf("Inserted %s before %s\n", path, sibling)
	return nil
}

// handleRm removes a subtree and reports how many entries went away.
func (m *Manager) handleRm(ctx *orpheus.Context) error {
	path := ctx.GetArg(0)
	if path == "" {
		return errors.New(dryad.ErrCodeInvalidPath, "usage: dryad rm <path>")
	}

	tree, err := m.buildTree(ctx)
	if err != nil {
		return err
	}
	defer closeTree(tree)

	removed := tree.Rm(path)
	if err := m.maybeSave(ctx, tree); err != nil {
		return err
	}

	fmt.Printf("Removed %d entries under %s\n", removed, path)
	return nil
}

// handleLs lists the immediate children of a path in tree order.
func (m *Manager) handleLs(ctx *orpheus.Context) error {
	path := ctx.GetArg(0)
	if path == "" {
		return errors.New(dryad.ErrCodeInvalidPath, "usage: dryad ls <path>")
	}

	tree, err := m.buildTree(ctx)
	if err != nil {
		return err
	}
	defer closeTree(tree)

	children := tree.Ls(path)
	if len(children) == 0 {
		fmt.Printf("No children under %s\n", path)
		return nil
	}
	for _, child := range children {
		fmt.Println(child)
	}
	return nil
}

// handleMatch prints the entry paths matching a glob pattern; when --limit
// truncates the output, the true total is still reported.
func (m *Manager) handleMatch(ctx *orpheus.Context) error {
	pattern := ctx.GetArg(0)
	if pattern == "" {
		return errors.New(dryad.ErrCodeInvalidPath, "usage: dryad match <pattern>")
	}

	tree, err := m.buildTree(ctx)
	if err != nil {
		return err
	}
	defer closeTree(tree)

	matches, total := tree.Match(pattern, ctx.GetFlagInt("limit"))
	for _, match := range matches {
		fmt.Println(match)
	}
	if len(matches) < total {
		fmt.Printf("... %d of %d matches shown\n", len(matches), total)
	}
	return nil
}

// handleDump prints the whole tree, or the part below the given path.
func (m *Manager) handleDump(ctx *orpheus.Context) error {
	tree, err := m.buildTree(ctx)
	if err != nil {
		return err
	}
	defer closeTree(tree)

	tree.Print(os.Stdout, ctx.GetArg(0))
	return nil
}

// handleSave loads every provider and immediately persists the tree back.
func (m *Manager) handleSave(ctx *orpheus.Context) error {
	tree, err := m.buildTree(ctx)
	if err != nil {
		return err
	}
	defer closeTree(tree)

	if err := tree.Save(); err != nil {
		return err
	}
	fmt.Println("Saved")
	return nil
}

// handleInfo prints tree statistics.
func (m *Manager) handleInfo(ctx *orpheus.Context) error {
	tree, err := m.buildTree(ctx)
	if err != nil {
		return err
	}
	defer closeTree(tree)

	fmt.Printf("Entries:  %d\n", tree.Len())
	fmt.Printf("Children of %s: %d\n", dryad.PathSystem, len(tree.Ls(dryad.PathSystem)))
	if err := tree.Check(); err != nil {
		fmt.Printf("Link check: FAILED (%v)\n", err)
		return err
	}
	fmt.Println("Link check: ok")
	return nil
}
