package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/newsroom-labs/domaingraph/pkg/ai"
	"github.com/newsroom-labs/domaingraph/pkg/common"
	"github.com/newsroom-labs/domaingraph/pkg/logger"
	"github.com/newsroom-labs/domaingraph/pkg/store"
)

// GlossaryTerm is a single glossary entry. Definition is populated only
// when a text-generation client is configured and the generation
// succeeded; its absence is not an error.
type GlossaryTerm struct {
	Term       string  `json:"term"`
	Score      float64 `json:"score"`
	Definition string  `json:"definition,omitempty"`
}

// GlossaryBuilder selects the most central terms of a whole domain graph
// and optionally enriches them with generated definitions.
//
// A GlossaryBuilder should be created using NewGlossaryBuilder.
type GlossaryBuilder struct {
	store    *store.DomainStore
	aiClient ai.DomainAIClient
}

// NewGlossaryBuilder creates a glossary builder backed by the given
// store. The AI client may be nil; glossaries then carry terms and
// scores only.
func NewGlossaryBuilder(domainStore *store.DomainStore, aiClient ai.DomainAIClient) *GlossaryBuilder {
	return &GlossaryBuilder{store: domainStore, aiClient: aiClient}
}

// BuildGlossaryParams defines the parameters for BuildGlossary. MaxTerms
// defaults to 20 and MinCentrality to 0.1 when zero.
type BuildGlossaryParams struct {
	Domain        string
	MaxTerms      int
	MinCentrality float64
}

// BuildGlossary returns the top graph terms by centrality, sorted
// descending with alphabetical tie-breaks. Unlike keyword extraction it
// ranks the whole domain graph rather than a text excerpt.
func (g *GlossaryBuilder) BuildGlossary(
	ctx context.Context,
	params BuildGlossaryParams,
) ([]GlossaryTerm, error) {
	maxTerms := params.MaxTerms
	if maxTerms == 0 {
		maxTerms = 20
	}
	if maxTerms < 0 {
		return nil, fmt.Errorf("%w: max_terms must be positive, got %d", common.ErrInvalidParameter, maxTerms)
	}
	minCentrality := params.MinCentrality
	if minCentrality == 0 {
		minCentrality = 0.1
	}
	if minCentrality < 0 || minCentrality > 1 {
		return nil, fmt.Errorf("%w: min_centrality must be in [0, 1], got %v", common.ErrInvalidParameter, minCentrality)
	}

	graph, err := g.store.Get(params.Domain)
	if err != nil {
		return nil, err
	}

	terms := []GlossaryTerm{}
	for _, node := range graph.TopNodes(0) {
		if node.Centrality < minCentrality {
			break
		}
		terms = append(terms, GlossaryTerm{Term: node.Term, Score: node.Centrality})
		if len(terms) == maxTerms {
			break
		}
	}

	if g.aiClient != nil && len(terms) > 0 {
		if err := g.addDefinitions(ctx, graph.Domain, terms); err != nil {
			logger.Warn("[Glossary] Definition generation failed", "domain", graph.Domain, "error", err)
		}
	}

	return terms, nil
}

type definitionsResponse struct {
	Definitions []struct {
		Term       string `json:"term"`
		Definition string `json:"definition"`
	} `json:"definitions"`
}

func (g *GlossaryBuilder) addDefinitions(ctx context.Context, domain string, terms []GlossaryTerm) error {
	names := make([]string, len(terms))
	for i, term := range terms {
		names[i] = term.Term
	}

	prompt := fmt.Sprintf(
		"Write a one-sentence definition for each of the following %s terms, "+
			"aimed at a general newspaper audience. Terms: %s",
		domain, strings.Join(names, ", "),
	)

	var response definitionsResponse
	err := g.aiClient.GenerateCompletionWithFormat(
		ctx,
		"glossary_definitions",
		"One definition per requested term",
		prompt,
		&response,
		ai.WithSystemPrompts("You write concise newspaper glossary definitions."),
		ai.WithTemperature(0.2),
	)
	if err != nil {
		// Some OpenAI-compatible backends reject schema-constrained
		// requests. Retry as a plain completion and parse the text.
		raw, plainErr := g.aiClient.GenerateCompletion(
			ctx,
			prompt+"\n\nRespond with a JSON object of the form "+
				`{"definitions": [{"term": "...", "definition": "..."}]}.`,
			ai.WithTemperature(0.2),
		)
		if plainErr != nil {
			return err
		}
		if parseErr := ai.UnmarshalFlexible(raw, &response); parseErr != nil {
			return fmt.Errorf("unparseable definitions response: %w", parseErr)
		}
	}

	byTerm := make(map[string]string, len(response.Definitions))
	for _, def := range response.Definitions {
		byTerm[common.NormalizeDomain(def.Term)] = def.Definition
	}
	for i := range terms {
		if definition, ok := byTerm[common.NormalizeDomain(terms[i].Term)]; ok {
			terms[i].Definition = definition
		}
	}

	return nil
}
