package graph

import (
	"sort"

	"github.com/newsroom-labs/domaingraph/pkg/common"
)

// Rank computes a composite centrality score for every node of the graph
// and returns a new ranked graph. The input graph is not mutated, and
// ranking the same unranked graph twice yields identical scores.
//
// The composite score is the equally weighted mean of degree centrality
// (degree divided by the number of other nodes) and betweenness
// centrality (fraction of shortest paths between other node pairs in the
// node's connected component passing through the node). Both measures lie
// in [0, 1], so the composite does too. Isolated nodes score 0.
func (g *GraphClient) Rank(input *common.DomainGraph) *common.DomainGraph {
	ranked := &common.DomainGraph{
		Domain:  input.Domain,
		Nodes:   make(map[string]*common.Node, len(input.Nodes)),
		Edges:   make([]common.Edge, len(input.Edges)),
		Ranked:  true,
		BuiltAt: input.BuiltAt,
	}
	copy(ranked.Edges, input.Edges)

	terms := make([]string, 0, len(input.Nodes))
	for term, node := range input.Nodes {
		clone := *node
		ranked.Nodes[term] = &clone
		terms = append(terms, term)
	}
	sort.Strings(terms)

	n := len(terms)
	if n < 2 {
		for _, node := range ranked.Nodes {
			node.Centrality = 0
		}
		return ranked
	}

	index := make(map[string]int, n)
	for i, term := range terms {
		index[term] = i
	}

	adjacency := make([][]int, n)
	for _, edge := range input.Edges {
		s, t := index[edge.Source], index[edge.Target]
		adjacency[s] = append(adjacency[s], t)
		adjacency[t] = append(adjacency[t], s)
	}

	betweenness := brandesBetweenness(adjacency)
	componentSizes := componentSizes(adjacency)

	for i, term := range terms {
		node := ranked.Nodes[term]
		if node.Degree == 0 {
			node.Centrality = 0
			continue
		}

		degreeCentrality := float64(node.Degree) / float64(n-1)

		betweennessCentrality := 0.0
		if size := componentSizes[i]; size > 2 {
			pairs := float64(size-1) * float64(size-2) / 2
			betweennessCentrality = betweenness[i] / pairs
		}

		node.Centrality = (degreeCentrality + betweennessCentrality) / 2
	}

	return ranked
}

// brandesBetweenness computes raw betweenness per node over an unweighted
// undirected graph. Each unordered pair is accumulated from both
// endpoints, so the sums are halved before returning.
func brandesBetweenness(adjacency [][]int) []float64 {
	n := len(adjacency)
	betweenness := make([]float64, n)

	for s := range n {
		stack := make([]int, 0, n)
		predecessors := make([][]int, n)
		sigma := make([]float64, n)
		distance := make([]int, n)
		for i := range distance {
			distance[i] = -1
		}
		sigma[s] = 1
		distance[s] = 0

		queue := []int{s}
		for len(queue) > 0 {
			v := queue[0]
			queue = queue[1:]
			stack = append(stack, v)
			for _, w := range adjacency[v] {
				if distance[w] < 0 {
					distance[w] = distance[v] + 1
					queue = append(queue, w)
				}
				if distance[w] == distance[v]+1 {
					sigma[w] += sigma[v]
					predecessors[w] = append(predecessors[w], v)
				}
			}
		}

		delta := make([]float64, n)
		for i := len(stack) - 1; i >= 0; i-- {
			w := stack[i]
			for _, v := range predecessors[w] {
				delta[v] += sigma[v] / sigma[w] * (1 + delta[w])
			}
			if w != s {
				betweenness[w] += delta[w]
			}
		}
	}

	for i := range betweenness {
		betweenness[i] /= 2
	}

	return betweenness
}

func componentSizes(adjacency [][]int) []int {
	n := len(adjacency)
	component := make([]int, n)
	for i := range component {
		component[i] = -1
	}

	sizes := make([]int, n)
	current := 0
	for start := range n {
		if component[start] >= 0 {
			continue
		}
		members := []int{start}
		component[start] = current
		queue := []int{start}
		for len(queue) > 0 {
			v := queue[0]
			queue = queue[1:]
			for _, w := range adjacency[v] {
				if component[w] < 0 {
					component[w] = current
					members = append(members, w)
					queue = append(queue, w)
				}
			}
		}
		for _, m := range members {
			sizes[m] = len(members)
		}
		current++
	}

	return sizes
}
