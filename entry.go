// entry.go: Circular doubly-linked entry list for the Dryad tree
//
// Every path in the store lives on one circular list headed by the /system
// sentinel. The list keeps siblings in the order they were created (or the
// order Insert placed them); it is never sorted and never nested. Tree
// semantics come entirely from the path prefix relations in path.go.
//
// Copyright (c) 2025 AGILira
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package dryad

// entry is one path/value node on the circular list. A node without a value
// is directory-like: it exists purely so that its descendants have every
// strict ancestor materialized (invariant kept by makeWithAncestors).
type entry struct {
	path     string
	value    string
	hasValue bool
	next     *entry
	prev     *entry
}

// find returns the unique entry whose path equals path, or nil. Linear scan
// from the head sentinel; the store models configuration-scale trees, so
// O(n) lookup is acceptable and keeps the structure index-free.
func (t *Tree) find(path string) *entry {
	p := t.head
	for {
		if pathEqual(path, p.path) {
			return p
		}
		p = p.next
		if p == t.head {
			return nil
		}
	}
}

// insertBefore splices a new valueless entry for path immediately before
// anchor.
func (t *Tree) insertBefore(path string, anchor *entry) *entry {
	e := &entry{path: path}
	e.next = anchor
	e.prev = anchor.prev
	e.next.prev = e
	e.prev.next = e
	return e
}

// makeWithAncestors creates an entry for path, materializing every missing
// strict ancestor first. Ancestors are appended before the head sentinel
// (the root region), only the final entry is placed before anchor, so
// Insert can position a new sibling without dragging its ancestry along.
func (t *Tree) makeWithAncestors(path string, anchor *entry) *entry {
	path = path[:pathLen(path)]
	for i := 1; i < len(path); i++ {
		if path[i] != Separator {
			continue
		}
		if ancestor := path[:i]; t.find(ancestor) == nil {
			t.insertBefore(ancestor, t.head)
		}
	}
	return t.insertBefore(path, anchor)
}

// unsplice removes e from the ring by linking its neighbors to each other.
// The head sentinel must never be unspliced: the head pointer is not
// updated here.
func (t *Tree) unsplice(e *entry) {
	e.prev.next = e.next
	e.next.prev = e.prev
	e.next = nil
	e.prev = nil
}
