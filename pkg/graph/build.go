package graph

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/newsroom-labs/domaingraph/pkg/common"
	"github.com/newsroom-labs/domaingraph/pkg/extract"
	"github.com/newsroom-labs/domaingraph/pkg/logger"

	"golang.org/x/sync/errgroup"
)

// BuildGraphParams defines the per-build parameters for BuildGraph.
//
// MaxNodes caps the node count of the resulting graph and must be
// positive. MinEdgeWeight overrides the client default when positive.
type BuildGraphParams struct {
	MaxNodes      int
	MinEdgeWeight int
}

type termPosition struct {
	docIndex int
	termPos  int
}

func (p termPosition) before(other termPosition) bool {
	if p.docIndex != other.docIndex {
		return p.docIndex < other.docIndex
	}
	return p.termPos < other.termPos
}

// BuildGraph builds an unranked co-occurrence graph for a domain from the
// provided documents. Terms are extracted per document, every pair of
// terms inside the sliding window increments the corresponding edge
// weight, and each term's document frequency counts distinct documents.
//
// Edges below the minimum weight are discarded. When the node count
// exceeds MaxNodes, the nodes with the highest document frequency are
// retained, breaking ties by earliest first appearance in corpus order
// and then by term ascending. Edges with a removed endpoint are dropped
// with their nodes.
func (g *GraphClient) BuildGraph(
	ctx context.Context,
	domain string,
	documents []common.Document,
	params BuildGraphParams,
) (*common.DomainGraph, error) {
	if params.MaxNodes <= 0 {
		return nil, fmt.Errorf("%w: max_nodes must be positive, got %d", common.ErrInvalidParameter, params.MaxNodes)
	}
	if len(documents) == 0 {
		return nil, fmt.Errorf("%w: domain %q", common.ErrEmptyCorpus, domain)
	}

	minEdgeWeight := params.MinEdgeWeight
	if minEdgeWeight <= 0 {
		minEdgeWeight = g.minEdgeWeight
	}

	logger.Info("[Graph] Building", "domain", domain, "total_documents", len(documents))

	termsPerDoc := make([][]string, len(documents))
	eg, gCtx := errgroup.WithContext(ctx)
	eg.SetLimit(g.parallelDocs)

	for i, document := range documents {
		eg.Go(func() error {
			select {
			case <-gCtx.Done():
				return gCtx.Err()
			default:
				termsPerDoc[i] = extract.Extract(document.Text)
				return nil
			}
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, fmt.Errorf("failed to extract terms: %w", err)
	}

	nodes := make(map[string]*common.Node)
	firstSeen := make(map[string]termPosition)
	edgeWeights := make(map[[2]string]int)

	for docIndex, terms := range termsPerDoc {
		seenInDoc := make(map[string]struct{})
		for termPos, term := range terms {
			if _, ok := nodes[term]; !ok {
				nodes[term] = &common.Node{Term: term}
			}
			pos := termPosition{docIndex: docIndex, termPos: termPos}
			if existing, ok := firstSeen[term]; !ok || pos.before(existing) {
				firstSeen[term] = pos
			}
			if _, ok := seenInDoc[term]; !ok {
				seenInDoc[term] = struct{}{}
				nodes[term].DocFrequency++
			}

			windowStart := termPos - g.windowSize + 1
			if windowStart < 0 {
				windowStart = 0
			}
			for j := windowStart; j < termPos; j++ {
				if terms[j] == term {
					continue
				}
				source, target := common.EdgeKey(terms[j], term)
				edgeWeights[[2]string{source, target}]++
			}
		}
	}

	if len(nodes) == 0 {
		return nil, fmt.Errorf("%w: domain %q yielded no terms", common.ErrEmptyCorpus, domain)
	}

	if len(nodes) > params.MaxNodes {
		ordered := make([]string, 0, len(nodes))
		for term := range nodes {
			ordered = append(ordered, term)
		}
		sort.Slice(ordered, func(i, j int) bool {
			a, b := nodes[ordered[i]], nodes[ordered[j]]
			if a.DocFrequency != b.DocFrequency {
				return a.DocFrequency > b.DocFrequency
			}
			posA, posB := firstSeen[a.Term], firstSeen[b.Term]
			if posA != posB {
				return posA.before(posB)
			}
			return a.Term < b.Term
		})
		for _, term := range ordered[params.MaxNodes:] {
			delete(nodes, term)
		}
	}

	var edges []common.Edge
	for pair, weight := range edgeWeights {
		if weight < minEdgeWeight {
			continue
		}
		if _, ok := nodes[pair[0]]; !ok {
			continue
		}
		if _, ok := nodes[pair[1]]; !ok {
			continue
		}
		edges = append(edges, common.Edge{Source: pair[0], Target: pair[1], Weight: weight})
	}
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].Source != edges[j].Source {
			return edges[i].Source < edges[j].Source
		}
		return edges[i].Target < edges[j].Target
	})

	for _, edge := range edges {
		nodes[edge.Source].Degree++
		nodes[edge.Target].Degree++
	}

	logger.Info("[Graph] Build completed", "domain", domain, "nodes", len(nodes), "edges", len(edges))

	return &common.DomainGraph{
		Domain:  domain,
		Nodes:   nodes,
		Edges:   edges,
		Ranked:  false,
		BuiltAt: time.Now().UTC(),
	}, nil
}
