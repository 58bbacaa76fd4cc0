package queue

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/newsroom-labs/domaingraph/pkg/loader"
)

func TestSourceRouterReadsLocalFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "article.txt")
	if err := os.WriteFile(path, []byte("Precision oncology in practice."), 0o644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	router := NewSourceRouter(nil)
	text, err := router.GetText(context.Background(), loader.CorpusSource{ID: "src-0", Path: path})
	if err != nil {
		t.Fatalf("GetText failed: %v", err)
	}
	if string(text) != "Precision oncology in practice." {
		t.Fatalf("unexpected content: %q", text)
	}
}

func TestSourceRouterRejectsS3WithoutClient(t *testing.T) {
	router := NewSourceRouter(nil)
	_, err := router.GetText(context.Background(), loader.CorpusSource{ID: "src-0", Path: "s3://corpus/article.txt"})
	if err == nil {
		t.Fatal("expected error for s3 source without client")
	}
	if !strings.Contains(err.Error(), "no object storage client") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestBuildGraphMsgRoundTrip(t *testing.T) {
	msg := BuildGraphMsg{
		Domain:   "cancer care",
		Sources:  []string{"https://example.org/a", "/data/b.txt"},
		MaxNodes: 30,
	}
	data, err := json.Marshal(msg)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	decoded := new(BuildGraphMsg)
	if err := json.Unmarshal(data, decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if decoded.Domain != "cancer care" {
		t.Errorf("domain = %q, want %q", decoded.Domain, "cancer care")
	}
	if len(decoded.Sources) != 2 || decoded.Sources[0] != "https://example.org/a" {
		t.Errorf("sources = %v", decoded.Sources)
	}
	if decoded.MinEdgeWeight != 0 {
		t.Errorf("min_edge_weight = %d, want 0", decoded.MinEdgeWeight)
	}
}
