// glob.go: Shell-style glob matching for tree paths
//
// Match needs fnmatch-like semantics that the standard library does not
// provide: backslash is an ordinary character (no escaping), a malformed
// pattern simply fails to match instead of raising an error, and an
// unclosed bracket is a literal '['. Wildcards never cross a path
// separator, so "/a/*" names the children of /a, not its whole subtree.
//
// Copyright (c) 2025 AGILira
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package dryad

// globMatch reports whether name matches pattern.
//
// Supported syntax:
//   - '*' matches any run of characters except the separator
//   - '?' matches any single character except the separator
//   - '[...]' matches one character from the class; a leading '!' or '^'
//     negates it, 'a-z' ranges are supported, and a ']' directly after the
//     opening (or after the negation) is a literal member
func globMatch(pattern, name string) bool {
	px, nx := 0, 0
	// Backtracking state for the most recent '*'.
	starPx, starNx := -1, -1

	for nx < len(name) {
		if px < len(pattern) {
			switch c := pattern[px]; c {
			case '*':
				// Remember the star and try to match zero characters first.
				starPx, starNx = px, nx
				px++
				continue
			case '?':
				if name[nx] != Separator {
					px++
					nx++
					continue
				}
			case '[':
				if ok, next := matchClass(pattern, px, name[nx]); ok {
					px = next
					nx++
					continue
				}
			default:
				if c == name[nx] {
					px++
					nx++
					continue
				}
			}
		}
		// Mismatch: backtrack to the last star and let it absorb one more
		// character, unless that character is a separator.
		if starPx >= 0 && name[starNx] != Separator {
			starNx++
			px = starPx + 1
			nx = starNx
			continue
		}
		return false
	}

	// Name consumed; only trailing stars may remain.
	for px < len(pattern) && pattern[px] == '*' {
		px++
	}
	return px == len(pattern)
}

// matchClass matches one character against the bracket class starting at
// pattern[start] (which is '['). It returns whether c is in the class and
// the index just past the closing ']'. An unclosed class never matches: the
// caller then falls through to treating '[' as a literal via backtracking,
// so matchClass also reports false for that case and globMatch handles '['
// literally only when the class is malformed.
func matchClass(pattern string, start int, c byte) (bool, int) {
	i := start + 1
	negate := false
	if i < len(pattern) && (pattern[i] == '!' || pattern[i] == '^') {
		negate = true
		i++
	}

	matched := false
	first := true
	for {
		if i >= len(pattern) {
			// Unclosed class: fall back to a literal '[' comparison.
			return c == '[', start + 1
		}
		if pattern[i] == ']' && !first {
			i++
			break
		}
		first = false

		lo := pattern[i]
		if i+2 < len(pattern) && pattern[i+1] == '-' && pattern[i+2] != ']' {
			hi := pattern[i+2]
			if lo <= c && c <= hi {
				matched = true
			}
			i += 3
		} else {
			if c == lo {
				matched = true
			}
			i++
		}
	}

	if negate {
		matched = !matched && c != Separator
	}
	return matched, i
}
