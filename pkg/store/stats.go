package store

import (
	"math"
	"time"

	"github.com/newsroom-labs/domaingraph/pkg/common"
)

// DomainStats summarizes a published domain graph for reporting.
type DomainStats struct {
	Domain         string         `json:"domain"`
	NodeCount      int            `json:"node_count"`
	EdgeCount      int            `json:"edge_count"`
	AverageDegree  float64        `json:"average_degree"`
	CentralityMin  float64        `json:"centrality_min"`
	CentralityMax  float64        `json:"centrality_max"`
	CentralityMean float64        `json:"centrality_mean"`
	TopTerms       []*common.Node `json:"top_terms"`
	Source         Source         `json:"source"`
	BuiltAt        time.Time      `json:"built_at"`
	LoadedAt       time.Time      `json:"loaded_at"`
}

// Stats returns summary statistics for a domain, including its five most
// central terms.
func (s *DomainStore) Stats(domain string) (*DomainStats, error) {
	entry, err := s.GetEntry(domain)
	if err != nil {
		return nil, err
	}

	graph := entry.Graph
	averageDegree := 0.0
	centralityMin := 0.0
	centralityMax := 0.0
	centralityMean := 0.0
	if len(graph.Nodes) > 0 {
		averageDegree = float64(2*len(graph.Edges)) / float64(len(graph.Nodes))

		centralityMin = math.Inf(1)
		total := 0.0
		for _, node := range graph.Nodes {
			centralityMin = math.Min(centralityMin, node.Centrality)
			centralityMax = math.Max(centralityMax, node.Centrality)
			total += node.Centrality
		}
		centralityMean = total / float64(len(graph.Nodes))
	}

	return &DomainStats{
		Domain:         graph.Domain,
		NodeCount:      len(graph.Nodes),
		EdgeCount:      len(graph.Edges),
		AverageDegree:  averageDegree,
		CentralityMin:  centralityMin,
		CentralityMax:  centralityMax,
		CentralityMean: centralityMean,
		TopTerms:       graph.TopNodes(5),
		Source:         entry.Source,
		BuiltAt:        graph.BuiltAt,
		LoadedAt:       entry.LoadedAt,
	}, nil
}
