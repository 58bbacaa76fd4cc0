package store

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/newsroom-labs/domaingraph/pkg/common"
)

type snapshotNode struct {
	Term         string  `json:"term"`
	DocFrequency int     `json:"doc_frequency"`
	Centrality   float64 `json:"centrality"`
}

type snapshot struct {
	Domain  string         `json:"domain"`
	Nodes   []snapshotNode `json:"nodes"`
	Edges   []common.Edge  `json:"edges"`
	BuiltAt time.Time      `json:"built_at"`
}

// EncodeSnapshot serializes a ranked graph into the persisted JSON
// representation, one object per domain. Nodes and edges are written in a
// stable order so repeated saves of the same graph are byte-identical.
func EncodeSnapshot(graph *common.DomainGraph) ([]byte, error) {
	snap := snapshot{
		Domain:  graph.Domain,
		Nodes:   make([]snapshotNode, 0, len(graph.Nodes)),
		Edges:   make([]common.Edge, len(graph.Edges)),
		BuiltAt: graph.BuiltAt,
	}
	for _, node := range graph.Nodes {
		snap.Nodes = append(snap.Nodes, snapshotNode{
			Term:         node.Term,
			DocFrequency: node.DocFrequency,
			Centrality:   node.Centrality,
		})
	}
	sort.Slice(snap.Nodes, func(i, j int) bool {
		return snap.Nodes[i].Term < snap.Nodes[j].Term
	})
	copy(snap.Edges, graph.Edges)
	sort.Slice(snap.Edges, func(i, j int) bool {
		if snap.Edges[i].Source != snap.Edges[j].Source {
			return snap.Edges[i].Source < snap.Edges[j].Source
		}
		return snap.Edges[i].Target < snap.Edges[j].Target
	})

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrPersistence, err)
	}
	return data, nil
}

// DecodeSnapshot deserializes a persisted graph. Node degrees are
// recomputed from the edge set, centrality scores are restored exactly as
// saved, and no re-ranking occurs.
func DecodeSnapshot(data []byte) (*common.DomainGraph, error) {
	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrPersistence, err)
	}
	if snap.Domain == "" {
		return nil, fmt.Errorf("%w: snapshot is missing a domain", common.ErrPersistence)
	}

	graph := &common.DomainGraph{
		Domain:  snap.Domain,
		Nodes:   make(map[string]*common.Node, len(snap.Nodes)),
		Edges:   snap.Edges,
		Ranked:  true,
		BuiltAt: snap.BuiltAt,
	}
	for _, node := range snap.Nodes {
		graph.Nodes[node.Term] = &common.Node{
			Term:         node.Term,
			DocFrequency: node.DocFrequency,
			Centrality:   node.Centrality,
		}
	}
	for _, edge := range snap.Edges {
		source, ok := graph.Nodes[edge.Source]
		if !ok {
			return nil, fmt.Errorf("%w: edge source %q missing from node set", common.ErrPersistence, edge.Source)
		}
		target, ok := graph.Nodes[edge.Target]
		if !ok {
			return nil, fmt.Errorf("%w: edge target %q missing from node set", common.ErrPersistence, edge.Target)
		}
		source.Degree++
		target.Degree++
	}

	return graph, nil
}
