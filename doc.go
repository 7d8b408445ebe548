// Package dryad provides a hierarchical key/value store that represents
// configuration state as a tree of slash-separated paths, each optionally
// holding a string value, bridged to real configuration files by pluggable
// format providers.
//
// # Architecture Overview
//
// Dryad consists of four integrated parts:
//  1. **Entry Store**: one circular doubly-linked list of path/value
//     entries, giving tree semantics to a flat structure through
//     separator-bounded path matching
//  2. **Public API**: Get/Set/Exists/Insert/Rm/Ls/Match/Print with
//     automatic ancestor materialization and sentinel protection
//  3. **Provider Registry**: an ordered list of Init/Load/Save adapters
//     that populate the tree from JSON, YAML, INI and properties files
//     and persist it back atomically
//  4. **Audit Trail**: buffered mutation logging with SQLite or JSONL
//     backends and tamper-detection checksums
//
// # Quick Start
//
//	tree := dryad.New(dryad.Options{
//		Providers: []dryad.Provider{
//			dryad.NewFileProvider("/etc/app.yaml", "/files/etc/app"),
//		},
//	})
//	if err := tree.Init(); err != nil {
//		log.Fatal(err)
//	}
//	defer tree.Close()
//
//	port, _ := tree.Get("/files/etc/app/server/port")
//	tree.Set("/files/etc/app/server/port", "8080")
//	if err := tree.Save(); err != nil {
//		log.Fatal(err)
//	}
//
// # The Tree Model
//
// Paths are absolute and '/'-separated. Setting "/a/b/c" materializes "/a"
// and "/a/b" automatically. Two sentinel entries, /system and
// /system/config, always exist and survive any Rm. Entries keep the order
// they were created in; Insert places an entry immediately before a named
// sibling, which is the only ordering guarantee the store makes.
//
// Glob matching uses shell wildcard semantics without escape support:
//
//	matches, total := tree.Match("/files/etc/app/*", 10)
//
// '*' and '?' never cross a separator, so the pattern above names the
// immediate children of the mount, not its whole subtree.
//
// Copyright (c) 2025 AGILira
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0
package dryad
