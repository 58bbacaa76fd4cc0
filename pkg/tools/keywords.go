package tools

import (
	"context"
	"fmt"
	"sort"

	"github.com/newsroom-labs/domaingraph/pkg/common"
	"github.com/newsroom-labs/domaingraph/pkg/extract"
	"github.com/newsroom-labs/domaingraph/pkg/store"
)

// Keyword is a single scored keyword extracted from a text.
type Keyword struct {
	Term  string  `json:"term"`
	Score float64 `json:"score"`
}

// KeywordExtractor scores terms of a text against a domain graph. It
// reads the published graph only and never modifies it.
//
// A KeywordExtractor should be created using NewKeywordExtractor.
type KeywordExtractor struct {
	store *store.DomainStore
}

// NewKeywordExtractor creates a keyword extractor backed by the given
// store.
func NewKeywordExtractor(domainStore *store.DomainStore) *KeywordExtractor {
	return &KeywordExtractor{store: domainStore}
}

// ExtractKeywordsParams defines the parameters for ExtractKeywords.
// MaxKeywords defaults to 10 and MinCentrality to 0.05 when zero.
type ExtractKeywordsParams struct {
	Text          string
	Domain        string
	MaxKeywords   int
	MinCentrality float64
}

// ExtractKeywords extracts candidate terms from the text and returns
// those present in the domain graph with centrality at or above the
// threshold, sorted by centrality descending with alphabetical
// tie-breaks. No candidate clearing the threshold yields an empty
// result, not an error.
func (k *KeywordExtractor) ExtractKeywords(
	ctx context.Context,
	params ExtractKeywordsParams,
) ([]Keyword, error) {
	maxKeywords := params.MaxKeywords
	if maxKeywords == 0 {
		maxKeywords = 10
	}
	if maxKeywords < 0 {
		return nil, fmt.Errorf("%w: max_keywords must be positive, got %d", common.ErrInvalidParameter, maxKeywords)
	}
	minCentrality := params.MinCentrality
	if minCentrality == 0 {
		minCentrality = 0.05
	}
	if minCentrality < 0 || minCentrality > 1 {
		return nil, fmt.Errorf("%w: min_centrality must be in [0, 1], got %v", common.ErrInvalidParameter, minCentrality)
	}

	graph, err := k.store.Get(params.Domain)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	keywords := []Keyword{}
	for _, term := range extract.Extract(params.Text) {
		if _, ok := seen[term]; ok {
			continue
		}
		seen[term] = struct{}{}

		node, ok := graph.Nodes[term]
		if !ok || node.Centrality < minCentrality {
			continue
		}
		keywords = append(keywords, Keyword{Term: node.Term, Score: node.Centrality})
	}

	sort.Slice(keywords, func(i, j int) bool {
		if keywords[i].Score != keywords[j].Score {
			return keywords[i].Score > keywords[j].Score
		}
		return keywords[i].Term < keywords[j].Term
	})

	if len(keywords) > maxKeywords {
		keywords = keywords[:maxKeywords]
	}

	return keywords, nil
}
