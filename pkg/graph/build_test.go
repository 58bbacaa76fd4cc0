package graph

import (
	"context"
	"errors"
	"testing"

	"github.com/newsroom-labs/domaingraph/pkg/common"
)

func testDocuments(texts ...string) []common.Document {
	documents := make([]common.Document, len(texts))
	for i, text := range texts {
		documents[i] = common.Document{
			ID:    text[:min(8, len(text))],
			Text:  text,
			Index: i,
		}
	}
	return documents
}

func TestBuildGraph(t *testing.T) {
	client := NewGraphClient(NewGraphClientParams{})

	documents := testDocuments(
		"Precision oncology uses molecular profiling.",
		"Immunotherapy harnesses the immune system to fight cancer.",
	)

	graph, err := client.BuildGraph(context.Background(), "cancer care", documents, BuildGraphParams{
		MaxNodes:      20,
		MinEdgeWeight: 1,
	})
	if err != nil {
		t.Fatalf("BuildGraph failed: %v", err)
	}

	for _, term := range []string{"precision", "oncology", "immunotherapy", "cancer"} {
		if _, ok := graph.Nodes[term]; !ok {
			t.Errorf("expected node %q in graph", term)
		}
	}

	found := false
	for _, edge := range graph.Edges {
		if edge.Source == "oncology" && edge.Target == "precision" {
			found = true
			if edge.Weight < 1 {
				t.Errorf("expected edge weight >= 1, got %d", edge.Weight)
			}
		}
	}
	if !found {
		t.Error("expected co-occurrence edge between precision and oncology")
	}

	if graph.Ranked {
		t.Error("freshly built graph must be unranked")
	}
	if graph.Domain != "cancer care" {
		t.Errorf("expected domain %q, got %q", "cancer care", graph.Domain)
	}
}

func TestBuildGraphEdgeWeightFloor(t *testing.T) {
	client := NewGraphClient(NewGraphClientParams{})

	documents := testDocuments(
		"tumor biopsy tumor biopsy tumor biopsy",
		"biopsy results pending review",
	)

	graph, err := client.BuildGraph(context.Background(), "pathology", documents, BuildGraphParams{
		MaxNodes:      50,
		MinEdgeWeight: 3,
	})
	if err != nil {
		t.Fatalf("BuildGraph failed: %v", err)
	}

	for _, edge := range graph.Edges {
		if edge.Weight < 3 {
			t.Errorf("edge %s-%s has weight %d below minimum", edge.Source, edge.Target, edge.Weight)
		}
	}
}

func TestBuildGraphNodeCap(t *testing.T) {
	client := NewGraphClient(NewGraphClientParams{})

	documents := testDocuments(
		"alpha beta gamma delta epsilon zeta",
		"alpha beta gamma delta",
		"alpha beta",
	)

	graph, err := client.BuildGraph(context.Background(), "test", documents, BuildGraphParams{
		MaxNodes:      3,
		MinEdgeWeight: 1,
	})
	if err != nil {
		t.Fatalf("BuildGraph failed: %v", err)
	}

	if len(graph.Nodes) != 3 {
		t.Fatalf("expected 3 nodes, got %d", len(graph.Nodes))
	}

	// alpha and beta appear in three documents, gamma and delta in two.
	// The bigram "alpha beta" also appears in three, so the cap keeps the
	// three highest-frequency terms with the earliest corpus appearance.
	for _, term := range []string{"alpha", "beta", "alpha beta"} {
		if _, ok := graph.Nodes[term]; !ok {
			t.Errorf("expected node %q to survive the cap", term)
		}
	}

	for _, edge := range graph.Edges {
		if _, ok := graph.Nodes[edge.Source]; !ok {
			t.Errorf("edge source %q missing from node set", edge.Source)
		}
		if _, ok := graph.Nodes[edge.Target]; !ok {
			t.Errorf("edge target %q missing from node set", edge.Target)
		}
	}
}

func TestBuildGraphDocFrequency(t *testing.T) {
	client := NewGraphClient(NewGraphClientParams{})

	documents := testDocuments(
		"screening screening screening",
		"screening prevention",
	)

	graph, err := client.BuildGraph(context.Background(), "test", documents, BuildGraphParams{
		MaxNodes:      10,
		MinEdgeWeight: 1,
	})
	if err != nil {
		t.Fatalf("BuildGraph failed: %v", err)
	}

	node, ok := graph.Nodes["screening"]
	if !ok {
		t.Fatal("expected node screening")
	}
	if node.DocFrequency != 2 {
		t.Errorf("expected doc frequency 2, got %d", node.DocFrequency)
	}
}

func TestBuildGraphErrors(t *testing.T) {
	client := NewGraphClient(NewGraphClientParams{})
	ctx := context.Background()

	_, err := client.BuildGraph(ctx, "test", nil, BuildGraphParams{MaxNodes: 10})
	if !errors.Is(err, common.ErrEmptyCorpus) {
		t.Errorf("expected ErrEmptyCorpus for empty corpus, got %v", err)
	}

	_, err = client.BuildGraph(ctx, "test", testDocuments("some text"), BuildGraphParams{MaxNodes: 0})
	if !errors.Is(err, common.ErrInvalidParameter) {
		t.Errorf("expected ErrInvalidParameter for max_nodes=0, got %v", err)
	}

	_, err = client.BuildGraph(ctx, "test", testDocuments(""), BuildGraphParams{MaxNodes: 10})
	if !errors.Is(err, common.ErrEmptyCorpus) {
		t.Errorf("expected ErrEmptyCorpus for blank documents, got %v", err)
	}
}
