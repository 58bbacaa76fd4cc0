package common

import (
	"sort"
	"strings"
	"time"
)

// Document represents a single text in a domain corpus. The Index records
// the position of the document inside the corpus and provides a stable
// ordering for tie-breaking during node selection.
type Document struct {
	ID    string `json:"id"`
	Text  string `json:"text"`
	Index int    `json:"index"`
}

// Node represents a term in a domain graph. DocFrequency counts the number
// of distinct documents the term appears in, Degree counts incident edges,
// and Centrality holds the composite ranking score in [0, 1].
type Node struct {
	Term         string  `json:"term"`
	DocFrequency int     `json:"doc_frequency"`
	Degree       int     `json:"degree"`
	Centrality   float64 `json:"centrality"`
}

// Edge represents an undirected co-occurrence between two terms. Source is
// always lexicographically smaller than Target so every pair has exactly
// one canonical representation. Weight counts co-occurrences across the
// whole corpus.
type Edge struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Weight int    `json:"weight"`
}

// DomainGraph is an immutable snapshot of a built domain graph. Nodes are
// keyed by term. Ranked reports whether centrality scores have been
// computed for the snapshot.
type DomainGraph struct {
	Domain  string           `json:"domain"`
	Nodes   map[string]*Node `json:"nodes"`
	Edges   []Edge           `json:"edges"`
	Ranked  bool             `json:"ranked"`
	BuiltAt time.Time        `json:"built_at"`
}

// EdgeKey returns the canonical key for the edge between two terms,
// ordering the pair so that (a, b) and (b, a) map to the same key.
func EdgeKey(a, b string) (string, string) {
	if a > b {
		return b, a
	}
	return a, b
}

// NormalizeDomain canonicalizes a domain name for lookup. Matching is
// case-insensitive, treats underscores and hyphens as spaces, and ignores
// surrounding and repeated whitespace, so "Cancer_Care" and "cancer care"
// address the same graph.
func NormalizeDomain(domain string) string {
	lowered := strings.ToLower(domain)
	lowered = strings.NewReplacer("_", " ", "-", " ").Replace(lowered)
	return strings.Join(strings.Fields(lowered), " ")
}

// TopNodes returns up to limit nodes sorted by centrality in descending
// order. Ties are broken by term in ascending order so repeated calls on
// the same graph yield the same ordering.
func (g *DomainGraph) TopNodes(limit int) []*Node {
	nodes := make([]*Node, 0, len(g.Nodes))
	for _, node := range g.Nodes {
		nodes = append(nodes, node)
	}
	sort.Slice(nodes, func(i, j int) bool {
		if nodes[i].Centrality != nodes[j].Centrality {
			return nodes[i].Centrality > nodes[j].Centrality
		}
		return nodes[i].Term < nodes[j].Term
	})
	if limit > 0 && len(nodes) > limit {
		nodes = nodes[:limit]
	}
	return nodes
}
