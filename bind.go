// bind.go: Typed value binding for the Dryad tree
//
// The tree stores strings; applications want typed variables. A Binder
// collects tree-path-to-variable bindings through a fluent API and applies
// them in one pass, so bootstrap code reads as a declaration:
//
//   var host string
//   var port int
//   err := dryad.NewBinder(tree).
//       BindString(&host, "/files/app/server/host", "localhost").
//       BindInt(&port, "/files/app/server/port", 8080).
//       Apply()
//
// Absent paths fall back to the binding's default; a value that does not
// parse as the target type fails Apply with the offending path in context.
//
// Copyright (c) 2025 AGILira
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package dryad

import (
	"strconv"
	"time"

	"github.com/agilira/go-errors"
)

// binding pairs a tree path with a setter that parses into the target.
type binding struct {
	path     string
	defValue string
	set      func(raw string) error
}

// Binder accumulates typed bindings against one tree.
type Binder struct {
	tree     *Tree
	bindings []binding
}

// NewBinder creates a binder reading from tree.
func NewBinder(tree *Tree) *Binder {
	return &Binder{tree: tree}
}

func (b *Binder) add(path, defValue string, set func(string) error) *Binder {
	b.bindings = append(b.bindings, binding{path: path, defValue: defValue, set: set})
	return b
}

// BindString binds the value at path to target, with an optional default.
func (b *Binder) BindString(target *string, path string, defaultValue ...string) *Binder {
	def := ""
	if len(defaultValue) > 0 {
		def = defaultValue[0]
	}
	return b.add(path, def, func(raw string) error {
		*target = raw
		return nil
	})
}

// BindInt binds the value at path to target, with an optional default.
func (b *Binder) BindInt(target *int, path string, defaultValue ...int) *Binder {
	def := "0"
	if len(defaultValue) > 0 {
		def = strconv.Itoa(defaultValue[0])
	}
	return b.add(path, def, func(raw string) error {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return err
		}
		*target = v
		return nil
	})
}

// BindInt64 binds the value at path to target, with an optional default.
func (b *Binder) BindInt64(target *int64, path string, defaultValue ...int64) *Binder {
	def := "0"
	if len(defaultValue) > 0 {
		def = strconv.FormatInt(defaultValue[0], 10)
	}
	return b.add(path, def, func(raw string) error {
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return err
		}
		*target = v
		return nil
	})
}

// BindBool binds the value at path to target, with an optional default.
func (b *Binder) BindBool(target *bool, path string, defaultValue ...bool) *Binder {
	def := "false"
	if len(defaultValue) > 0 {
		def = strconv.FormatBool(defaultValue[0])
	}
	return b.add(path, def, func(raw string) error {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return err
		}
		*target = v
		return nil
	})
}

// BindFloat64 binds the value at path to target, with an optional default.
func (b *Binder) BindFloat64(target *float64, path string, defaultValue ...float64) *Binder {
	def := "0"
	if len(defaultValue) > 0 {
		def = strconv.FormatFloat(defaultValue[0], 'g', -1, 64)
	}
	return b.add(path, def, func(raw string) error {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return err
		}
		*target = v
		return nil
	})
}

// BindDuration binds the value at path to target, with an optional default.
func (b *Binder) BindDuration(target *time.Duration, path string, defaultValue ...time.Duration) *Binder {
	def := "0s"
	if len(defaultValue) > 0 {
		def = defaultValue[0].String()
	}
	return b.add(path, def, func(raw string) error {
		v, err := time.ParseDuration(raw)
		if err != nil {
			return err
		}
		*target = v
		return nil
	})
}

// Apply resolves every binding: the tree value when the path holds one, the
// default otherwise. Stops at the first parse failure.
func (b *Binder) Apply() error {
	for _, bd := range b.bindings {
		raw, ok := b.tree.Get(bd.path)
		if !ok {
			raw = bd.defValue
		}
		if err := bd.set(raw); err != nil {
			return errors.Wrap(err, ErrCodeParseError, "failed to bind tree value").
				WithContext("path", bd.path).
				WithContext("value", raw)
		}
	}
	return nil
}
