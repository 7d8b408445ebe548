// path.go: Path primitives for the Dryad configuration tree
//
// Paths are absolute, '/'-separated strings. These helpers give the flat
// entry list its tree semantics: a prefix relation is only meaningful when
// it ends on a separator boundary, so "/a" is an ancestor of "/a/b" but
// not of "/ab".
//
// Copyright (c) 2025 AGILira
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package dryad

// Separator is the path separator for tree paths.
const Separator = '/'

// pathLen returns the length of p excluding a single trailing separator.
// The root path "/" keeps its separator.
func pathLen(p string) int {
	if len(p) > 1 && p[len(p)-1] == Separator {
		return len(p) - 1
	}
	return len(p)
}

// isPathPrefix reports whether a is a prefix of b at a separator boundary:
// b equals a (ignoring a trailing separator on either side), or b continues
// past a with a separator. Combined symmetrically it is the path equality
// test used by find.
func isPathPrefix(a, b string) bool {
	al := pathLen(a)
	if len(b) < al || a[:al] != b[:al] {
		return false
	}
	return pathLen(b) == al || b[al] == Separator
}

// pathEqual reports whether two paths name the same entry, tolerating a
// trailing separator on either side.
func pathEqual(a, b string) bool {
	return isPathPrefix(a, b) && isPathPrefix(b, a)
}

// lastSep returns the index of the last separator in p, or -1 when p has
// none (and therefore cannot take part in sibling placement).
func lastSep(p string) int {
	for i := len(p) - 1; i >= 0; i-- {
		if p[i] == Separator {
			return i
		}
	}
	return -1
}
