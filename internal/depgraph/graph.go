// Package depgraph models the component dependency graph and its
// persistence.
//
// The graph is persisted as a single JSON document and rebuilt on every
// read. Nodes record imports, exports, and dependents; for every edge
// "A imports B", B's dependents must contain A. That bidirectional
// consistency is restored after every mutation, never assumed. Acyclicity
// is the coordinator's responsibility: this package only detects cycles,
// it never rejects writes.
package depgraph

import (
	"sort"
)

// Graph maps component paths to their nodes.
type Graph map[string]*Node

// Node is one component's entry in the dependency graph. All three slices
// carry set semantics: no duplicates, order not significant (kept sorted
// for stable serialization).
type Node struct {
	Imports    []string `json:"imports"`
	Exports    []string `json:"exports"`
	Dependents []string `json:"dependents"`
}

// NewNode builds a node from import and export lists, deduplicated.
func NewNode(imports, exports []string) *Node {
	return &Node{
		Imports:    dedupe(imports),
		Exports:    dedupe(exports),
		Dependents: []string{},
	}
}

// Clone returns a deep copy of the node.
func (n *Node) Clone() *Node {
	return &Node{
		Imports:    append([]string{}, n.Imports...),
		Exports:    append([]string{}, n.Exports...),
		Dependents: append([]string{}, n.Dependents...),
	}
}

// Clone returns a deep copy of the graph.
func (g Graph) Clone() Graph {
	out := make(Graph, len(g))
	for path, node := range g {
		out[path] = node.Clone()
	}
	return out
}

// SetNode inserts or overwrites the node at path and restores dependent
// links: path is appended (set semantics) to the dependents of every import
// target already present in the graph.
func (g Graph) SetNode(path string, node *Node) {
	g[path] = node
	for _, target := range node.Imports {
		if dep, ok := g[target]; ok {
			dep.Dependents = addToSet(dep.Dependents, path)
		}
	}
}

// RebuildDependents recomputes every node's dependents from the import
// edges, restoring bidirectional consistency in full. Needed when a node is
// registered after components that already import it.
func (g Graph) RebuildDependents() {
	for _, node := range g {
		node.Dependents = []string{}
	}
	for path, node := range g {
		for _, target := range node.Imports {
			if dep, ok := g[target]; ok {
				dep.Dependents = addToSet(dep.Dependents, path)
			}
		}
	}
}

// addToSet appends value if absent, keeping the slice sorted.
func addToSet(set []string, value string) []string {
	for _, existing := range set {
		if existing == value {
			return set
		}
	}
	set = append(set, value)
	sort.Strings(set)
	return set
}

// dedupe returns a sorted copy with duplicates removed.
func dedupe(values []string) []string {
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
