package file

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/newsroom-labs/domaingraph/pkg/common"
)

func sampleGraph() *common.DomainGraph {
	return &common.DomainGraph{
		Domain: "cancer care",
		Nodes: map[string]*common.Node{
			"oncology":  {Term: "oncology", DocFrequency: 3, Degree: 1, Centrality: 0.5},
			"screening": {Term: "screening", DocFrequency: 1, Degree: 1, Centrality: 0.125},
		},
		Edges: []common.Edge{
			{Source: "oncology", Target: "screening", Weight: 2},
		},
		Ranked:  true,
		BuiltAt: time.Date(2026, 5, 2, 12, 0, 0, 0, time.UTC),
	}
}

func TestFilePersisterRoundTrip(t *testing.T) {
	persister, err := NewFilePersister(t.TempDir())
	if err != nil {
		t.Fatalf("NewFilePersister failed: %v", err)
	}
	ctx := context.Background()

	if err := persister.Save(ctx, sampleGraph()); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := persister.Load(ctx, "Cancer_Care")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Domain != "cancer care" {
		t.Errorf("domain = %q, expected %q", loaded.Domain, "cancer care")
	}
	if got := loaded.Nodes["oncology"].Centrality; math.Abs(got-0.5) > 1e-9 {
		t.Errorf("centrality = %v, expected 0.5", got)
	}

	domains, err := persister.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(domains) != 1 || domains[0] != "cancer care" {
		t.Errorf("List = %v, expected [cancer care]", domains)
	}

	if err := persister.Delete(ctx, "cancer care"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := persister.Load(ctx, "cancer care"); !errors.Is(err, common.ErrPersistence) {
		t.Errorf("expected ErrPersistence after delete, got %v", err)
	}
	if err := persister.Delete(ctx, "cancer care"); err != nil {
		t.Errorf("deleting a missing snapshot must not fail, got %v", err)
	}
}

func TestFilePersisterRejectsMalformedSnapshot(t *testing.T) {
	dir := t.TempDir()
	persister, err := NewFilePersister(dir)
	if err != nil {
		t.Fatalf("NewFilePersister failed: %v", err)
	}

	if err := os.WriteFile(filepath.Join(dir, "broken.json"), []byte("{truncated"), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	if _, err := persister.Load(context.Background(), "broken"); !errors.Is(err, common.ErrPersistence) {
		t.Errorf("expected ErrPersistence, got %v", err)
	}
}
