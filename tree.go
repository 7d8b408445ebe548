// tree.go: Dryad hierarchical configuration tree store
//
// The Tree represents configuration state as slash-separated paths, each
// optionally holding a string value. Entries live on one circular
// doubly-linked list (entry.go); this file is the public operations layer
// that enforces the cross-cutting invariants: sentinel protection, ancestor
// materialization, sibling-only Insert, separator-bounded subtree removal
// and glob matching.
//
// Format-specific providers (provider.go) populate the tree during Init and
// persist it during Save through the same primitives available to callers.
//
// Example Usage:
//   tree := dryad.New(dryad.Options{})
//   tree.RegisterProvider(dryad.NewFileProvider("/etc/app.yaml", "/files/etc/app"))
//   if err := tree.Init(); err != nil {
//       log.Fatal(err)
//   }
//   tree.Set("/files/etc/app/server/port", "8080")
//   tree.Save()
//
// Copyright (c) 2025 AGILira
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package dryad

import (
	"fmt"
	"io"
	"log"
	"sync"

	"github.com/agilira/go-errors"
)

// The two sentinel entries. They are always on the list so that the
// algorithms never deal with an empty ring, and Rm refuses to remove them.
const (
	PathSystem       = "/system"
	PathSystemConfig = "/system/config"
)

// Tree is the in-memory entry store. All public operations serialize on one
// mutex: none of the list algorithms are safe under concurrent mutation, and
// configuration trees do not need finer-grained locking. Results returned by
// Get, Ls and Match are Go strings sharing the store's immutable backing
// data; unlike the aliasing pointers of a systems-language store they stay
// valid across later mutations.
//
// Init and Save run providers outside the mutex (providers call back into
// the public API); neither is safe to call concurrently with itself.
type Tree struct {
	mu        sync.Mutex
	head      *entry
	providers []Provider
	audit     *AuditLogger
}

// New creates a Tree with the given options. The tree is empty until Init
// creates the sentinels and drives the registered providers. If the audit
// logger cannot be set up the tree falls back to disabled auditing rather
// than failing construction.
func New(opts Options) *Tree {
	o := opts.WithDefaults()

	var auditLogger *AuditLogger
	if o.Audit.Enabled {
		var err error
		auditLogger, err = NewAuditLogger(o.Audit)
		if err != nil {
			auditLogger = nil
		}
	}

	t := &Tree{audit: auditLogger}
	for _, p := range o.Providers {
		if p != nil {
			t.providers = append(t.providers, p)
		}
	}
	return t
}

// RegisterProvider appends a provider to the registry. Providers run in
// registration order during Init and Save. Must be called before Init.
func (t *Tree) RegisterProvider(p Provider) error {
	if p == nil {
		return errors.New(ErrCodeInvalidOptions, "provider cannot be nil")
	}
	t.mu.Lock()
	t.providers = append(t.providers, p)
	t.mu.Unlock()
	return nil
}

// Init creates the two sentinel entries on first call (detected by the nil
// head), then runs every registered provider's Init followed by Load, in
// registration order, on EVERY call. The re-run on repeated calls mirrors
// the store's historical behavior: callers must treat repeated Init as
// re-importing configuration. Set is idempotent against existing paths, so
// invariants survive, but work may be repeated. Fails fast on the first
// provider error; already-loaded state is not rolled back.
func (t *Tree) Init() error {
	t.mu.Lock()
	if t.head == nil {
		head := &entry{path: PathSystem}
		cfg := &entry{path: PathSystemConfig}
		head.next, head.prev = cfg, cfg
		cfg.next, cfg.prev = head, head
		t.head = head
	}
	providers := make([]Provider, len(t.providers))
	copy(providers, t.providers)
	t.mu.Unlock()

	for _, p := range providers {
		if err := p.Init(); err != nil {
			return errors.Wrap(err, ErrCodeProviderFailed, "provider init failed").
				WithContext("provider", providerName(p))
		}
		if err := p.Load(t); err != nil {
			return errors.Wrap(err, ErrCodeProviderFailed, "provider load failed").
				WithContext("provider", providerName(p))
		}
	}
	return nil
}

// Get returns the value stored at path. The second return is false both
// when the path is absent and when it exists without a value; callers that
// need to tell the two apart use Exists.
func (t *Tree) Get(path string) (string, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.head == nil {
		return "", false
	}
	e := t.find(path)
	if e == nil || !e.hasValue {
		return "", false
	}
	return e.value, true
}

// Set stores value at path, creating the entry and every missing strict
// ancestor when needed. New top-level entries land in the root region next
// to the head sentinel, not at the tail. Replacing the value of an existing
// entry never touches its list position.
func (t *Tree) Set(path, value string) error {
	if path == "" {
		return errors.New(ErrCodeInvalidPath, "path cannot be empty")
	}

	t.mu.Lock()
	if t.head == nil {
		t.mu.Unlock()
		return errors.New(ErrCodeInvalidPath, "tree not initialized")
	}
	e := t.find(path)
	if e == nil {
		e = t.makeWithAncestors(path, t.head)
	}
	var old interface{}
	if e.hasValue {
		old = e.value
	}
	e.value = value
	e.hasValue = true
	t.mu.Unlock()

	t.audit.LogTreeChange("set", path, old, value)
	return nil
}

// Exists reports whether an entry for path exists, valued or not.
func (t *Tree) Exists(path string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.head != nil && t.find(path) != nil
}

// Insert creates or relocates path so that it immediately precedes sibling
// in list order. Only true siblings can be placed: both paths must contain
// a separator and share a byte-identical directory prefix. Precondition
// violations fail before any mutation. Relocating an existing entry is a
// pure relink; its value and its descendants' positions are untouched (the
// list is flat, descendants do not travel with their parent).
func (t *Tree) Insert(path, sibling string) error {
	if path == sibling {
		return errors.New(ErrCodeSiblingMismatch, "path and sibling are identical")
	}
	pi, si := lastSep(path), lastSep(sibling)
	if pi < 0 || si < 0 {
		return errors.New(ErrCodeInvalidPath, "path and sibling must contain a separator").
			WithContext("path", path).
			WithContext("sibling", sibling)
	}
	if pi != si || path[:pi] != sibling[:si] {
		return errors.New(ErrCodeSiblingMismatch, "path and sibling have different parents").
			WithContext("path", path).
			WithContext("sibling", sibling)
	}

	t.mu.Lock()
	if t.head == nil {
		t.mu.Unlock()
		return errors.New(ErrCodeInvalidPath, "tree not initialized")
	}
	s := t.find(sibling)
	if s == nil {
		t.mu.Unlock()
		return errors.New(ErrCodeSiblingNotFound, "sibling does not exist").
			WithContext("sibling", sibling)
	}
	p := t.find(path)
	if p == nil {
		t.makeWithAncestors(path, s)
	} else {
		p.prev.next = p.next
		p.next.prev = p.prev
		s.prev.next = p
		p.prev = s.prev
		p.next = s
		s.prev = p
	}
	t.mu.Unlock()

	t.audit.LogTreeChange("insert", path, nil, sibling)
	return nil
}

// Rm removes the entry at path and every entry below it. The "subtree" is
// identified purely by separator-bounded string prefix against every entry,
// since the list is flat. The two sentinels are never removed, even when
// path names them directly. Returns the number of entries removed.
func (t *Tree) Rm(path string) int {
	t.mu.Lock()
	if t.head == nil {
		t.mu.Unlock()
		return 0
	}

	var doomed []*entry
	p := t.head
	for {
		if inSubtree(path, p.path) && p.path != PathSystem && p.path != PathSystemConfig {
			doomed = append(doomed, p)
		}
		p = p.next
		if p == t.head {
			break
		}
	}
	for _, e := range doomed {
		t.unsplice(e)
	}
	t.mu.Unlock()

	if len(doomed) > 0 {
		t.audit.LogTreeChange("rm", path, len(doomed), nil)
	}
	return len(doomed)
}

// inSubtree reports whether p lies at or below prefix, bounded by a
// separator: "/a" covers "/a" and "/a/b" but not "/ab".
func inSubtree(prefix, p string) bool {
	pl := pathLen(prefix)
	if len(p) < pl || p[:pl] != prefix[:pl] {
		return false
	}
	return len(p) == pl || p[pl] == Separator
}

// Ls returns the immediate children of path in list traversal order (not
// lexicographic order). Deeper descendants are excluded. Two passes: the
// first counts, the second fills an exactly-sized slice.
func (t *Tree) Ls(path string) []string {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.head == nil {
		return nil
	}
	pl := pathLen(path)

	var children []string
	for pass := 0; pass <= 1; pass++ {
		cnt := 0
		p := t.head
		for {
			if t.isChild(path, pl, p.path) {
				if pass == 1 {
					children[cnt] = p.path
				}
				cnt++
			}
			p = p.next
			if p == t.head {
				break
			}
		}
		if pass == 0 {
			if cnt == 0 {
				return nil
			}
			children = make([]string, cnt)
		}
	}
	return children
}

// isChild reports whether candidate is an immediate child of path: a
// separator-bounded descendant whose remainder holds no further separator.
func (t *Tree) isChild(path string, pl int, candidate string) bool {
	if !isPathPrefix(path, candidate) || len(candidate) <= pl+1 {
		return false
	}
	for i := pl + 1; i < len(candidate); i++ {
		if candidate[i] == Separator {
			return false
		}
	}
	return true
}

// Match scans every entry against a shell-style glob pattern (see glob.go:
// '*', '?' and bracket classes, no backslash escaping, wildcards never cross
// a separator). Up to limit matching paths are collected in list traversal
// order; the return count is always the TOTAL number of matches, so callers
// detect truncation by comparing it with len(matches). A limit of zero is a
// pure count, a negative limit collects everything.
func (t *Tree) Match(pattern string, limit int) ([]string, int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.head == nil {
		return nil, 0
	}

	var matches []string
	total := 0
	p := t.head
	for {
		if globMatch(pattern, p.path) {
			if limit < 0 || len(matches) < limit {
				matches = append(matches, p.path)
			}
			total++
		}
		p = p.next
		if p == t.head {
			break
		}
	}
	return matches, total
}

// MatchAll returns every entry path matching pattern.
func (t *Tree) MatchAll(pattern string) []string {
	matches, _ := t.Match(pattern, -1)
	return matches
}

// Save runs every registered provider's Save in registration order,
// aborting on the first failure; later providers are left unexecuted.
// Providers read the tree during Save but must not mutate it.
func (t *Tree) Save() error {
	t.mu.Lock()
	providers := make([]Provider, len(t.providers))
	copy(providers, t.providers)
	t.mu.Unlock()

	for _, p := range providers {
		if err := p.Save(t); err != nil {
			return errors.Wrap(err, ErrCodeProviderFailed, "provider save failed").
				WithContext("provider", providerName(p))
		}
	}

	t.audit.LogTreeChange("save", "", nil, len(providers))
	return nil
}

// Len returns the number of entries in the store, sentinels included.
func (t *Tree) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.head == nil {
		return 0
	}
	n := 0
	p := t.head
	for {
		n++
		p = p.next
		if p == t.head {
			break
		}
	}
	return n
}

// Print dumps every entry whose path equals or extends path (every entry
// when path is empty) as "path" or "path = value" lines. As a diagnostic it
// also validates that every entry's neighbors link back to it, reporting
// violations without failing; a broken link is a programming error, and
// tests assert the same property through Check.
func (t *Tree) Print(w io.Writer, path string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.head == nil {
		return
	}
	pl := pathLen(path)
	p := t.head
	for {
		if p.prev.next != p {
			log.Printf("dryad: wrong prev->next link for %s", p.path)
		}
		if p.next.prev != p {
			log.Printf("dryad: wrong next->prev link for %s", p.path)
		}

		if path == "" || (len(p.path) >= pl && p.path[:pl] == path[:pl]) {
			if p.hasValue {
				fmt.Fprintf(w, "%s = %s\n", p.path, p.value)
			} else {
				fmt.Fprintln(w, p.path)
			}
		}
		p = p.next
		if p == t.head {
			break
		}
	}
}

// Check validates the structural invariants of the ring: reciprocal
// prev/next links and circularity through the head sentinel. A violation is
// a programming error in the store itself, never a user mistake.
func (t *Tree) Check() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.head == nil {
		return nil
	}
	p := t.head
	for {
		if p.prev.next != p {
			return errors.New(ErrCodeInvalidPath, "wrong prev->next link").
				WithContext("path", p.path)
		}
		if p.next.prev != p {
			return errors.New(ErrCodeInvalidPath, "wrong next->prev link").
				WithContext("path", p.path)
		}
		p = p.next
		if p == t.head {
			return nil
		}
	}
}

// Close flushes and releases the audit logger. The tree itself holds no
// other resources; entries are reclaimed by the garbage collector.
func (t *Tree) Close() error {
	if t.audit != nil {
		if err := t.audit.Close(); err != nil {
			return errors.Wrap(err, ErrCodeAuditError, "failed to close audit logger")
		}
	}
	return nil
}

// providerName resolves a debugging name for a provider.
func providerName(p Provider) string {
	if n, ok := p.(interface{ Name() string }); ok {
		return n.Name()
	}
	return fmt.Sprintf("%T", p)
}
