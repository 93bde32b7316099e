package quill

import (
	"strings"

	"github.com/eapache/queue"
)

// Namespace is a node in the `namespace eval` hierarchy. Quill keeps
// command storage flat (commandTable keys are qualified names without the
// leading "::", like "foo::bar"); Namespace only tracks parent/child
// relationships so `namespace children` can enumerate the tree without
// re-deriving it from command-name string splitting each time.
type Namespace struct {
	name     string // simple name, e.g. "bar"
	fullPath string // fully qualified, e.g. "::foo::bar"
	parent   *Namespace
	children map[string]*Namespace
}

func newGlobalNamespace() *Namespace {
	return &Namespace{name: "", fullPath: "::", children: map[string]*Namespace{}}
}

// child returns (creating if necessary) the namespace named name directly
// under ns.
func (ns *Namespace) child(name string) *Namespace {
	if c, ok := ns.children[name]; ok {
		return c
	}
	full := ns.fullPath
	if full != "::" {
		full += "::"
	}
	full += name
	c := &Namespace{name: name, fullPath: full, parent: ns, children: map[string]*Namespace{}}
	ns.children[name] = c
	return c
}

// resolveNamespace walks an absolute ("::a::b") or relative ("a::b") path
// starting from cur, creating intermediate namespaces as needed (the
// behavior `namespace eval` requires; lookups that must not create use
// findNamespace instead).
func resolveNamespace(global, cur *Namespace, path string) *Namespace {
	start := cur
	if strings.HasPrefix(path, "::") {
		start = global
		path = strings.TrimPrefix(path, "::")
	}
	if path == "" {
		return start
	}
	ns := start
	for _, part := range strings.Split(path, "::") {
		if part == "" {
			continue
		}
		ns = ns.child(part)
	}
	return ns
}

// findNamespace is like resolveNamespace but returns (nil, false) instead
// of creating missing namespaces.
func findNamespace(global, cur *Namespace, path string) (*Namespace, bool) {
	start := cur
	if strings.HasPrefix(path, "::") {
		start = global
		path = strings.TrimPrefix(path, "::")
	}
	if path == "" {
		return start, true
	}
	ns := start
	for _, part := range strings.Split(path, "::") {
		if part == "" {
			continue
		}
		next, ok := ns.children[part]
		if !ok {
			return nil, false
		}
		ns = next
	}
	return ns, true
}

// walkNamespaces performs a breadth-first traversal of the namespace tree
// rooted at root (root included), calling visit for each namespace. BFS
// (rather than a recursive DFS) keeps "namespace children", which lists
// every descendant, in shallow-to-deep order, which matches how a
// host inspecting a large namespace tree usually wants results: nearby
// namespaces first.
func walkNamespaces(root *Namespace, visit func(*Namespace)) {
	q := queue.New()
	q.Add(root)
	for q.Length() > 0 {
		ns := q.Remove().(*Namespace)
		visit(ns)
		for _, c := range ns.children {
			q.Add(c)
		}
	}
}
