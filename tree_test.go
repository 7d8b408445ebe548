// tree_test.go - Test suite for the Dryad tree store
//
// Covers the structural invariants of the circular entry list and the
// public operations built on it: ancestor materialization, sentinel
// protection, sibling ordering, separator-bounded removal, two-pass
// listing and glob matching with truncation detection.
//
// Copyright (c) 2025 AGILira
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package dryad

import (
	"bytes"
	"fmt"
	"strings"
	"testing"
)

// newTestTree creates an initialized tree without providers and registers
// cleanup.
func newTestTree(t *testing.T) *Tree {
	t.Helper()

	tree := New(Options{})
	if err := tree.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	t.Cleanup(func() {
		if err := tree.Close(); err != nil {
			t.Errorf("Close failed: %v", err)
		}
	})
	return tree
}

// mustSet fails the test when Set errors.
func mustSet(t *testing.T, tree *Tree, path, value string) {
	t.Helper()
	if err := tree.Set(path, value); err != nil {
		t.Fatalf("Set(%q, %q) failed: %v", path, value, err)
	}
}

func TestInitCreatesSentinels(t *testing.T) {
	tree := newTestTree(t)

	for _, path := range []string{PathSystem, PathSystemConfig} {
		if !tree.Exists(path) {
			t.Errorf("sentinel %s missing after Init", path)
		}
	}
	if got := tree.Len(); got != 2 {
		t.Errorf("expected 2 entries after Init, got %d", got)
	}
	if err := tree.Check(); err != nil {
		t.Errorf("link check failed on fresh tree: %v", err)
	}
}

func TestSetGetRoundTrip(t *testing.T) {
	tree := newTestTree(t)

	mustSet(t, tree, "/files/etc/hosts/1", "127.0.0.1")

	value, ok := tree.Get("/files/etc/hosts/1")
	if !ok {
		t.Fatal("Get returned not-present for a path just set")
	}
	if value != "127.0.0.1" {
		t.Errorf("Get returned %q, want %q", value, "127.0.0.1")
	}
}

func TestSetReplacesValue(t *testing.T) {
	tree := newTestTree(t)

	mustSet(t, tree, "/a", "first")
	mustSet(t, tree, "/a", "second")

	if value, _ := tree.Get("/a"); value != "second" {
		t.Errorf("Get returned %q, want %q", value, "second")
	}
}

func TestSetIdempotentEntryCount(t *testing.T) {
	tree := newTestTree(t)

	mustSet(t, tree, "/a/b", "v")
	before := tree.Len()
	mustSet(t, tree, "/a/b", "w")

	if got := tree.Len(); got != before {
		t.Errorf("second Set changed entry count from %d to %d", before, got)
	}
	if matches, total := tree.Match("/a/b", -1); total != 1 || len(matches) != 1 {
		t.Errorf("expected exactly one entry for /a/b, got %d", total)
	}
}

func TestAncestorMaterialization(t *testing.T) {
	tree := newTestTree(t)

	mustSet(t, tree, "/a/b/c", "x")

	for _, ancestor := range []string{"/a", "/a/b"} {
		if !tree.Exists(ancestor) {
			t.Errorf("ancestor %s not materialized", ancestor)
		}
	}
	// Ancestors are directory-like: present but valueless.
	if _, ok := tree.Get("/a"); ok {
		t.Error("materialized ancestor /a unexpectedly has a value")
	}
	if err := tree.Check(); err != nil {
		t.Errorf("link check failed: %v", err)
	}
}

func TestGetAmbiguityAndExists(t *testing.T) {
	tree := newTestTree(t)

	mustSet(t, tree, "/a/b", "v")

	// Both an absent path and a valueless entry read as not-present.
	if _, ok := tree.Get("/missing"); ok {
		t.Error("Get reported a value for an absent path")
	}
	if _, ok := tree.Get("/a"); ok {
		t.Error("Get reported a value for a valueless entry")
	}

	// Exists disambiguates.
	if tree.Exists("/missing") {
		t.Error("Exists true for absent path")
	}
	if !tree.Exists("/a") {
		t.Error("Exists false for valueless entry")
	}
}

func TestSetRequiresInit(t *testing.T) {
	tree := New(Options{})
	defer tree.Close()

	if err := tree.Set("/a", "v"); err == nil {
		t.Error("Set on uninitialized tree did not fail")
	}
	if err := tree.Set("", "v"); err == nil {
		t.Error("Set with empty path did not fail")
	}
}

func TestSentinelProtection(t *testing.T) {
	tree := newTestTree(t)

	mustSet(t, tree, "/system/config/interfaces/eth0", "dhcp")

	removed := tree.Rm("/system")
	if removed != 2 {
		t.Errorf("Rm(/system) removed %d entries, want 2 (the non-sentinels)", removed)
	}
	for _, path := range []string{PathSystem, PathSystemConfig} {
		if !tree.Exists(path) {
			t.Errorf("sentinel %s removed by Rm", path)
		}
	}
	if got := tree.Rm(PathSystemConfig); got != 0 {
		t.Errorf("Rm(%s) removed %d entries, want 0", PathSystemConfig, got)
	}
}

func TestRmSeparatorBounded(t *testing.T) {
	tree := newTestTree(t)

	mustSet(t, tree, "/a", "1")
	mustSet(t, tree, "/a/b", "2")
	mustSet(t, tree, "/a/bc", "3")

	// "/a/b" must not cover "/a/bc": the prefix ends mid-segment there.
	if removed := tree.Rm("/a/b"); removed != 1 {
		t.Errorf("Rm(/a/b) removed %d entries, want 1", removed)
	}
	if tree.Exists("/a/b") {
		t.Error("/a/b still present after Rm")
	}
	if !tree.Exists("/a/bc") {
		t.Error("/a/bc removed although it is not below /a/b")
	}
	if !tree.Exists("/a") {
		t.Error("/a removed although it is above /a/b")
	}
}

func TestRmSubtree(t *testing.T) {
	tree := newTestTree(t)

	mustSet(t, tree, "/a/b/c", "1")
	mustSet(t, tree, "/a/d", "2")
	mustSet(t, tree, "/ab", "3")

	// /a, /a/b, /a/b/c, /a/d go; /ab stays.
	if removed := tree.Rm("/a"); removed != 4 {
		t.Errorf("Rm(/a) removed %d entries, want 4", removed)
	}
	if tree.Exists("/a") || tree.Exists("/a/b/c") || tree.Exists("/a/d") {
		t.Error("subtree of /a not fully removed")
	}
	if !tree.Exists("/ab") {
		t.Error("/ab removed although /a is not a separator-bounded prefix of it")
	}
	if err := tree.Check(); err != nil {
		t.Errorf("link check failed after Rm: %v", err)
	}
}

func TestRmAbsentPath(t *testing.T) {
	tree := newTestTree(t)

	if removed := tree.Rm("/nothing/here"); removed != 0 {
		t.Errorf("Rm on absent path removed %d entries", removed)
	}
}

func TestLsImmediateChildren(t *testing.T) {
	tree := newTestTree(t)

	mustSet(t, tree, "/a", "v")
	mustSet(t, tree, "/a/b", "v")
	mustSet(t, tree, "/a/b/c", "v")

	children := tree.Ls("/a")
	if len(children) != 1 || children[0] != "/a/b" {
		t.Errorf("Ls(/a) = %v, want [/a/b]", children)
	}
	if got := tree.Ls("/a/b/c"); got != nil {
		t.Errorf("Ls of a leaf = %v, want nil", got)
	}
	if got := tree.Ls("/missing"); got != nil {
		t.Errorf("Ls of absent path = %v, want nil", got)
	}
}

func TestLsTraversalOrder(t *testing.T) {
	tree := newTestTree(t)

	// Creation order is list order for fresh siblings.
	mustSet(t, tree, "/a/one", "1")
	mustSet(t, tree, "/a/two", "2")
	mustSet(t, tree, "/a/three", "3")

	want := []string{"/a/one", "/a/two", "/a/three"}
	got := tree.Ls("/a")
	if len(got) != len(want) {
		t.Fatalf("Ls(/a) = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Ls(/a)[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestInsertOrdering(t *testing.T) {
	tree := newTestTree(t)

	mustSet(t, tree, "/a/y", "vy")
	mustSet(t, tree, "/a/z", "vz")

	if err := tree.Insert("/a/x", "/a/y"); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	children := tree.Ls("/a")
	want := []string{"/a/x", "/a/y", "/a/z"}
	if len(children) != 3 {
		t.Fatalf("Ls(/a) = %v, want %v", children, want)
	}
	for i := range want {
		if children[i] != want[i] {
			t.Errorf("Ls(/a)[%d] = %s, want %s", i, children[i], want[i])
		}
	}
	if err := tree.Check(); err != nil {
		t.Errorf("link check failed after Insert: %v", err)
	}
}

func TestInsertRelocatesExisting(t *testing.T) {
	tree := newTestTree(t)

	mustSet(t, tree, "/a/x", "vx")
	mustSet(t, tree, "/a/y", "vy")
	mustSet(t, tree, "/a/z", "vz")

	// Move z in front of x: pure relink, value untouched.
	if err := tree.Insert("/a/z", "/a/x"); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	children := tree.Ls("/a")
	want := []string{"/a/z", "/a/x", "/a/y"}
	for i := range want {
		if children[i] != want[i] {
			t.Fatalf("Ls(/a) = %v, want %v", children, want)
		}
	}
	if value, _ := tree.Get("/a/z"); value != "vz" {
		t.Errorf("value of relocated entry = %q, want %q", value, "vz")
	}
	if got := tree.Len(); got != 6 {
		t.Errorf("entry count after relink = %d, want 6", got)
	}
}

func TestInsertPreconditions(t *testing.T) {
	tree := newTestTree(t)
	mustSet(t, tree, "/a/y", "v")
	mustSet(t, tree, "/b/y", "v")
	before := tree.Len()

	cases := []struct {
		name    string
		path    string
		sibling string
	}{
		{"identical paths", "/a/y", "/a/y"},
		{"no separator in path", "a", "/a/y"},
		{"no separator in sibling", "/a/x", "b"},
		{"different parents", "/a/x", "/b/y"},
		{"different prefix length", "/aa/x", "/a/y"},
		{"missing sibling", "/a/x", "/a/nope"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := tree.Insert(tc.path, tc.sibling); err == nil {
				t.Errorf("Insert(%q, %q) succeeded, want error", tc.path, tc.sibling)
			}
		})
	}

	if got := tree.Len(); got != before {
		t.Errorf("failed Insert mutated the store: %d entries, want %d", got, before)
	}
	if tree.Exists("/a/x") {
		t.Error("failed Insert created /a/x")
	}
}

func TestInsertTopLevelSiblings(t *testing.T) {
	tree := newTestTree(t)
	mustSet(t, tree, "/b", "v")

	// "/a" and "/b" share the empty directory prefix.
	if err := tree.Insert("/a", "/b"); err != nil {
		t.Fatalf("Insert of top-level siblings failed: %v", err)
	}
	if !tree.Exists("/a") {
		t.Error("/a missing after Insert")
	}
}

func TestMatchSemantics(t *testing.T) {
	tree := newTestTree(t)

	mustSet(t, tree, "/a/b", "1")
	mustSet(t, tree, "/a/c", "2")
	mustSet(t, tree, "/a/b/c", "3")

	matches, total := tree.Match("/a/*", -1)
	if total != 2 {
		t.Fatalf("Match(/a/*) total = %d, want 2 (%v)", total, matches)
	}
	for _, m := range matches {
		if m != "/a/b" && m != "/a/c" {
			t.Errorf("unexpected match %s", m)
		}
	}
}

func TestMatchCountOnly(t *testing.T) {
	tree := newTestTree(t)
	mustSet(t, tree, "/a/b", "1")
	mustSet(t, tree, "/a/c", "2")

	matches, total := tree.Match("/a/*", 0)
	if total != 2 {
		t.Errorf("count-only Match total = %d, want 2", total)
	}
	if len(matches) != 0 {
		t.Errorf("count-only Match wrote %d entries", len(matches))
	}
}

func TestMatchTruncationDetection(t *testing.T) {
	tree := newTestTree(t)
	mustSet(t, tree, "/a/b", "1")
	mustSet(t, tree, "/a/c", "2")
	mustSet(t, tree, "/a/d", "3")

	matches, total := tree.Match("/a/*", 2)
	if len(matches) != 2 {
		t.Errorf("limit 2 returned %d matches", len(matches))
	}
	if total != 3 {
		t.Errorf("truncated Match total = %d, want 3", total)
	}
	if total <= len(matches) {
		t.Error("truncation is not detectable from the returned count")
	}
}

func TestMatchBracketClasses(t *testing.T) {
	tree := newTestTree(t)
	mustSet(t, tree, "/a/b1", "1")
	mustSet(t, tree, "/a/b2", "2")
	mustSet(t, tree, "/a/c1", "3")

	if _, total := tree.Match("/a/b[0-9]", -1); total != 2 {
		t.Errorf("Match(/a/b[0-9]) total = %d, want 2", total)
	}
	if _, total := tree.Match("/a/[!b]1", -1); total != 1 {
		t.Errorf("Match(/a/[!b]1) total = %d, want 1", total)
	}
}

func TestMatchAll(t *testing.T) {
	tree := newTestTree(t)
	mustSet(t, tree, "/x/a", "1")
	mustSet(t, tree, "/x/b", "2")

	got := tree.MatchAll("/x/?")
	if len(got) != 2 {
		t.Errorf("MatchAll returned %v, want two entries", got)
	}
}

func TestPrintOutput(t *testing.T) {
	tree := newTestTree(t)
	mustSet(t, tree, "/a/b", "hello")

	var buf bytes.Buffer
	tree.Print(&buf, "")
	out := buf.String()

	for _, want := range []string{PathSystem + "\n", PathSystemConfig + "\n", "/a\n", "/a/b = hello\n"} {
		if !strings.Contains(out, want) {
			t.Errorf("Print output missing %q:\n%s", want, out)
		}
	}

	buf.Reset()
	tree.Print(&buf, "/a")
	out = buf.String()
	if strings.Contains(out, PathSystem) {
		t.Errorf("scoped Print leaked entries outside /a:\n%s", out)
	}
	if !strings.Contains(out, "/a/b = hello\n") {
		t.Errorf("scoped Print missing /a/b:\n%s", out)
	}
}

func TestCircularInvariant(t *testing.T) {
	tree := newTestTree(t)

	for i := 0; i < 16; i++ {
		mustSet(t, tree, fmt.Sprintf("/stress/n%d/leaf", i), "v")
	}
	tree.Rm("/stress/n3")
	tree.Rm("/stress/n7")
	if err := tree.Insert("/stress/n99", "/stress/n0"); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	if err := tree.Check(); err != nil {
		t.Fatalf("link check failed: %v", err)
	}

	// 2 sentinels + /stress + 16 n*/leaf pairs - two removed pairs + n99.
	if got := tree.Len(); got != 32 {
		t.Errorf("unexpected entry count %d, want 32", got)
	}
}

func TestTrailingSeparatorNormalization(t *testing.T) {
	tree := newTestTree(t)

	mustSet(t, tree, "/a/b/", "v")

	if !tree.Exists("/a/b") {
		t.Error("entry stored with trailing separator not found without it")
	}
	if value, ok := tree.Get("/a/b/"); !ok || value != "v" {
		t.Errorf("Get with trailing separator = (%q, %v), want (v, true)", value, ok)
	}
}
