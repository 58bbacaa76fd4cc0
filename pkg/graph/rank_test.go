package graph

import (
	"math"
	"testing"
	"time"

	"github.com/newsroom-labs/domaingraph/pkg/common"
)

const scoreEpsilon = 1e-9

func unrankedGraph(edges []common.Edge, isolated ...string) *common.DomainGraph {
	nodes := make(map[string]*common.Node)
	addNode := func(term string) {
		if _, ok := nodes[term]; !ok {
			nodes[term] = &common.Node{Term: term, DocFrequency: 1}
		}
	}
	for _, edge := range edges {
		addNode(edge.Source)
		addNode(edge.Target)
		nodes[edge.Source].Degree++
		nodes[edge.Target].Degree++
	}
	for _, term := range isolated {
		addNode(term)
	}
	return &common.DomainGraph{
		Domain:  "test",
		Nodes:   nodes,
		Edges:   edges,
		BuiltAt: time.Now().UTC(),
	}
}

func TestRankPathGraph(t *testing.T) {
	client := NewGraphClient(NewGraphClientParams{})

	// Path a-b-c: b sits on the only shortest path between a and c.
	graph := unrankedGraph([]common.Edge{
		{Source: "a", Target: "b", Weight: 2},
		{Source: "b", Target: "c", Weight: 2},
	})

	ranked := client.Rank(graph)

	if !ranked.Ranked {
		t.Fatal("expected ranked graph")
	}

	// b: degree 2/2 = 1.0, betweenness 1/1 = 1.0, composite 1.0.
	// a, c: degree 1/2 = 0.5, betweenness 0, composite 0.25.
	expected := map[string]float64{"a": 0.25, "b": 1.0, "c": 0.25}
	for term, want := range expected {
		got := ranked.Nodes[term].Centrality
		if math.Abs(got-want) > scoreEpsilon {
			t.Errorf("centrality of %q = %f, expected %f", term, got, want)
		}
	}
}

func TestRankScoresInRange(t *testing.T) {
	client := NewGraphClient(NewGraphClientParams{})

	graph := unrankedGraph([]common.Edge{
		{Source: "a", Target: "b", Weight: 3},
		{Source: "a", Target: "c", Weight: 2},
		{Source: "b", Target: "c", Weight: 2},
		{Source: "c", Target: "d", Weight: 4},
	}, "e")

	ranked := client.Rank(graph)

	for term, node := range ranked.Nodes {
		if node.Centrality < 0 || node.Centrality > 1 {
			t.Errorf("centrality of %q = %f outside [0, 1]", term, node.Centrality)
		}
	}

	if ranked.Nodes["e"].Centrality != 0 {
		t.Errorf("isolated node must score 0, got %f", ranked.Nodes["e"].Centrality)
	}
}

func TestRankDisconnectedComponents(t *testing.T) {
	client := NewGraphClient(NewGraphClientParams{})

	// Two separate paths. Betweenness is computed per component, so the
	// middle node of each path scores the full betweenness of its own
	// component.
	graph := unrankedGraph([]common.Edge{
		{Source: "a", Target: "b", Weight: 2},
		{Source: "b", Target: "c", Weight: 2},
		{Source: "x", Target: "y", Weight: 2},
		{Source: "y", Target: "z", Weight: 2},
	})

	ranked := client.Rank(graph)

	if math.Abs(ranked.Nodes["b"].Centrality-ranked.Nodes["y"].Centrality) > scoreEpsilon {
		t.Errorf("symmetric components must score equally: b=%f y=%f",
			ranked.Nodes["b"].Centrality, ranked.Nodes["y"].Centrality)
	}
}

func TestRankIdempotent(t *testing.T) {
	client := NewGraphClient(NewGraphClientParams{})

	graph := unrankedGraph([]common.Edge{
		{Source: "a", Target: "b", Weight: 2},
		{Source: "b", Target: "c", Weight: 2},
		{Source: "c", Target: "d", Weight: 2},
		{Source: "a", Target: "d", Weight: 2},
	})

	first := client.Rank(graph)
	second := client.Rank(graph)

	for term := range first.Nodes {
		if first.Nodes[term].Centrality != second.Nodes[term].Centrality {
			t.Errorf("ranking not idempotent for %q: %f vs %f",
				term, first.Nodes[term].Centrality, second.Nodes[term].Centrality)
		}
	}
}

func TestRankDoesNotMutateInput(t *testing.T) {
	client := NewGraphClient(NewGraphClientParams{})

	graph := unrankedGraph([]common.Edge{
		{Source: "a", Target: "b", Weight: 2},
	})

	client.Rank(graph)

	if graph.Ranked {
		t.Error("input graph must stay unranked")
	}
	for term, node := range graph.Nodes {
		if node.Centrality != 0 {
			t.Errorf("input node %q was mutated, centrality %f", term, node.Centrality)
		}
	}
}

func TestRankSingleNode(t *testing.T) {
	client := NewGraphClient(NewGraphClientParams{})

	ranked := client.Rank(unrankedGraph(nil, "lonely"))

	if got := ranked.Nodes["lonely"].Centrality; got != 0 {
		t.Errorf("single node graph must score 0, got %f", got)
	}
}
