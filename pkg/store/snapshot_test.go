package store

import (
	"bytes"
	"math"
	"testing"
	"time"

	"github.com/newsroom-labs/domaingraph/pkg/common"
)

func rankedTestGraph() *common.DomainGraph {
	return &common.DomainGraph{
		Domain: "cancer care",
		Nodes: map[string]*common.Node{
			"oncology":      {Term: "oncology", DocFrequency: 4, Degree: 2, Centrality: 0.75},
			"immunotherapy": {Term: "immunotherapy", DocFrequency: 2, Degree: 1, Centrality: 0.3333333333},
			"screening":     {Term: "screening", DocFrequency: 1, Degree: 1, Centrality: 0.25},
		},
		Edges: []common.Edge{
			{Source: "immunotherapy", Target: "oncology", Weight: 3},
			{Source: "oncology", Target: "screening", Weight: 2},
		},
		Ranked:  true,
		BuiltAt: time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC),
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	original := rankedTestGraph()

	data, err := EncodeSnapshot(original)
	if err != nil {
		t.Fatalf("EncodeSnapshot failed: %v", err)
	}

	restored, err := DecodeSnapshot(data)
	if err != nil {
		t.Fatalf("DecodeSnapshot failed: %v", err)
	}

	if restored.Domain != original.Domain {
		t.Errorf("domain = %q, expected %q", restored.Domain, original.Domain)
	}
	if !restored.Ranked {
		t.Error("restored graph must be ranked")
	}
	if !restored.BuiltAt.Equal(original.BuiltAt) {
		t.Errorf("built_at = %v, expected %v", restored.BuiltAt, original.BuiltAt)
	}

	if len(restored.Nodes) != len(original.Nodes) {
		t.Fatalf("node count = %d, expected %d", len(restored.Nodes), len(original.Nodes))
	}
	for term, node := range original.Nodes {
		got, ok := restored.Nodes[term]
		if !ok {
			t.Fatalf("missing node %q", term)
		}
		if got.DocFrequency != node.DocFrequency {
			t.Errorf("node %q doc_frequency = %d, expected %d", term, got.DocFrequency, node.DocFrequency)
		}
		if math.Abs(got.Centrality-node.Centrality) > 1e-9 {
			t.Errorf("node %q centrality = %v, expected %v", term, got.Centrality, node.Centrality)
		}
		if got.Degree != node.Degree {
			t.Errorf("node %q degree = %d, expected %d", term, got.Degree, node.Degree)
		}
	}

	if len(restored.Edges) != len(original.Edges) {
		t.Fatalf("edge count = %d, expected %d", len(restored.Edges), len(original.Edges))
	}
	for i, edge := range original.Edges {
		if restored.Edges[i] != edge {
			t.Errorf("edge %d = %+v, expected %+v", i, restored.Edges[i], edge)
		}
	}
}

func TestSnapshotStableEncoding(t *testing.T) {
	first, err := EncodeSnapshot(rankedTestGraph())
	if err != nil {
		t.Fatalf("EncodeSnapshot failed: %v", err)
	}
	second, err := EncodeSnapshot(rankedTestGraph())
	if err != nil {
		t.Fatalf("EncodeSnapshot failed: %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Error("expected identical bytes for repeated saves of the same graph")
	}
}

func TestDecodeSnapshotRejectsMalformed(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{name: "not json", data: "not json at all"},
		{name: "missing domain", data: `{"nodes": [], "edges": []}`},
		{
			name: "dangling edge endpoint",
			data: `{"domain": "d", "nodes": [{"term": "a"}], "edges": [{"source": "a", "target": "b", "weight": 2}]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := DecodeSnapshot([]byte(tt.data)); err == nil {
				t.Fatal("expected decode error")
			}
		})
	}
}
