package tools

import (
	"context"
	"fmt"

	"github.com/newsroom-labs/domaingraph/pkg/common"
	"github.com/newsroom-labs/domaingraph/pkg/store"
)

// Documents is deliberately unvalidated here: an empty corpus is the
// builder's ErrEmptyCorpus, not an argument shape problem.
type buildKnowledgeGraphArgs struct {
	Domain        string   `json:"domain" validate:"required"`
	Documents     []string `json:"documents"`
	MaxNodes      int      `json:"max_nodes" validate:"gte=0"`
	MinEdgeWeight int      `json:"min_edge_weight" validate:"gte=0"`
}

type extractKeywordsArgs struct {
	Text          string  `json:"text" validate:"required"`
	Domain        string  `json:"domain"`
	MaxKeywords   int     `json:"max_keywords" validate:"gte=0"`
	MinCentrality float64 `json:"min_centrality" validate:"gte=0,lte=1"`
}

type buildGlossaryArgs struct {
	Domain        string  `json:"domain"`
	MaxTerms      int     `json:"max_terms" validate:"gte=0"`
	MinCentrality float64 `json:"min_centrality" validate:"gte=0,lte=1"`
	Format        string  `json:"format" validate:"omitempty,oneof=json markdown csv"`
}

type generateCoverImageArgs struct {
	EditorialText string `json:"editorial_text" validate:"required"`
	Domain        string `json:"domain"`
	Style         string `json:"style"`
	Dimensions    string `json:"dimensions"`
	ImageEngine   string `json:"image_engine"`
	Render        bool   `json:"render"`
}

type graphStatsArgs struct {
	Domain string `json:"domain" validate:"required"`
}

func (d *Dispatcher) registerTools() {
	d.register(
		"build_knowledge_graph",
		"Build or rebuild the knowledge graph for a domain from a document corpus",
		buildKnowledgeGraphArgs{},
		d.handleBuildKnowledgeGraph,
	)
	d.register(
		"extract_keywords",
		"Extract domain keywords from a text, scored by graph centrality",
		extractKeywordsArgs{},
		d.handleExtractKeywords,
	)
	d.register(
		"build_glossary",
		"Build a glossary of the most central terms of a domain graph",
		buildGlossaryArgs{},
		d.handleBuildGlossary,
	)
	d.register(
		"generate_cover_image",
		"Synthesize a cover image prompt and engine fallback list for an editorial text",
		generateCoverImageArgs{},
		d.handleGenerateCoverImage,
	)
	d.register(
		"list_domains",
		"List all domains with a published knowledge graph",
		struct{}{},
		d.handleListDomains,
	)
	d.register(
		"graph_stats",
		"Report summary statistics for a domain graph",
		graphStatsArgs{},
		d.handleGraphStats,
	)
}

func (d *Dispatcher) handleBuildKnowledgeGraph(ctx context.Context, arguments string) (map[string]any, error) {
	var args buildKnowledgeGraphArgs
	if err := d.parseArguments(arguments, &args); err != nil {
		return nil, err
	}
	if args.MaxNodes == 0 {
		args.MaxNodes = 50
	}

	documents := make([]common.Document, len(args.Documents))
	for i, text := range args.Documents {
		documents[i] = common.Document{
			ID:    fmt.Sprintf("doc-%d", i),
			Text:  text,
			Index: i,
		}
	}

	graph, err := d.store.Rebuild(ctx, args.Domain, documents, store.BuildParams{
		MaxNodes:      args.MaxNodes,
		MinEdgeWeight: args.MinEdgeWeight,
	})
	if err != nil {
		return nil, err
	}

	return map[string]any{
		"domain":     graph.Domain,
		"node_count": len(graph.Nodes),
		"edge_count": len(graph.Edges),
	}, nil
}

func (d *Dispatcher) handleExtractKeywords(ctx context.Context, arguments string) (map[string]any, error) {
	var args extractKeywordsArgs
	if err := d.parseArguments(arguments, &args); err != nil {
		return nil, err
	}
	if args.Domain == "" {
		args.Domain = DefaultDomain
	}

	keywords, err := d.keywords.ExtractKeywords(ctx, ExtractKeywordsParams{
		Text:          args.Text,
		Domain:        args.Domain,
		MaxKeywords:   args.MaxKeywords,
		MinCentrality: args.MinCentrality,
	})
	if err != nil {
		return nil, err
	}

	return map[string]any{
		"domain":   d.store.Resolve(args.Domain),
		"keywords": keywords,
	}, nil
}

func (d *Dispatcher) handleBuildGlossary(ctx context.Context, arguments string) (map[string]any, error) {
	var args buildGlossaryArgs
	if err := d.parseArguments(arguments, &args); err != nil {
		return nil, err
	}
	if args.Domain == "" {
		args.Domain = DefaultDomain
	}

	terms, err := d.glossary.BuildGlossary(ctx, BuildGlossaryParams{
		Domain:        args.Domain,
		MaxTerms:      args.MaxTerms,
		MinCentrality: args.MinCentrality,
	})
	if err != nil {
		return nil, err
	}

	result := map[string]any{
		"domain": d.store.Resolve(args.Domain),
		"terms":  terms,
	}
	if args.Format != "" {
		export, err := ExportGlossary(d.store.Resolve(args.Domain), terms, ExportFormat(args.Format))
		if err != nil {
			return nil, err
		}
		result["format"] = args.Format
		result["export"] = string(export)
	}
	return result, nil
}

func (d *Dispatcher) handleGenerateCoverImage(ctx context.Context, arguments string) (map[string]any, error) {
	var args generateCoverImageArgs
	if err := d.parseArguments(arguments, &args); err != nil {
		return nil, err
	}
	if args.Domain == "" {
		args.Domain = DefaultDomain
	}

	cover, err := d.coverImages.Synthesize(ctx, SynthesizeParams{
		EditorialText:   args.EditorialText,
		Domain:          args.Domain,
		Style:           args.Style,
		Dimensions:      args.Dimensions,
		PreferredEngine: args.ImageEngine,
		Render:          args.Render,
	})
	if err != nil {
		return nil, err
	}

	result := map[string]any{
		"prompt":            cover.Prompt,
		"engine_candidates": cover.EngineCandidates,
	}
	if cover.ImageURL != "" {
		result["image_url"] = cover.ImageURL
		result["engine"] = cover.Engine
	}
	return result, nil
}

func (d *Dispatcher) handleListDomains(ctx context.Context, arguments string) (map[string]any, error) {
	return map[string]any{
		"domains": d.store.Domains(),
	}, nil
}

func (d *Dispatcher) handleGraphStats(ctx context.Context, arguments string) (map[string]any, error) {
	var args graphStatsArgs
	if err := d.parseArguments(arguments, &args); err != nil {
		return nil, err
	}

	stats, err := d.store.Stats(args.Domain)
	if err != nil {
		return nil, err
	}

	return map[string]any{
		"domain": stats.Domain,
		"stats":  stats,
	}, nil
}
