// path_test.go: Tests for path prefix and equality primitives
//
// Copyright (c) 2025 AGILira
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package dryad

import "testing"

func TestPathLen(t *testing.T) {
	cases := []struct {
		path string
		want int
	}{
		{"/a/b", 4},
		{"/a/b/", 4},
		{"/", 1},
		{"", 0},
		{"/a//", 3},
	}
	for _, tc := range cases {
		if got := pathLen(tc.path); got != tc.want {
			t.Errorf("pathLen(%q) = %d, want %d", tc.path, got, tc.want)
		}
	}
}

func TestIsPathPrefix(t *testing.T) {
	cases := []struct {
		a, b string
		want bool
	}{
		{"/a", "/a/b", true},
		{"/a", "/a", true},
		{"/a", "/ab", false},
		{"/a/", "/a/b", true},
		{"/a", "/a/", true},
		{"/a/b", "/a", false},
		{"/a/b", "/a/b/c/d", true},
	}
	for _, tc := range cases {
		if got := isPathPrefix(tc.a, tc.b); got != tc.want {
			t.Errorf("isPathPrefix(%q, %q) = %v, want %v", tc.a, tc.b, got, tc.want)
		}
	}
}

func TestPathEqual(t *testing.T) {
	cases := []struct {
		a, b string
		want bool
	}{
		{"/a/b", "/a/b", true},
		{"/a/b/", "/a/b", true},
		{"/a/b", "/a/b/", true},
		{"/a", "/ab", false},
		{"/a", "/a/b", false},
	}
	for _, tc := range cases {
		if got := pathEqual(tc.a, tc.b); got != tc.want {
			t.Errorf("pathEqual(%q, %q) = %v, want %v", tc.a, tc.b, got, tc.want)
		}
	}
}

func TestLastSep(t *testing.T) {
	cases := []struct {
		path string
		want int
	}{
		{"/a/b", 2},
		{"/a", 0},
		{"a", -1},
		{"", -1},
	}
	for _, tc := range cases {
		if got := lastSep(tc.path); got != tc.want {
			t.Errorf("lastSep(%q) = %d, want %d", tc.path, got, tc.want)
		}
	}
}
