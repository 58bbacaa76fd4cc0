package tools

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"github.com/newsroom-labs/domaingraph/pkg/ai"
	"github.com/newsroom-labs/domaingraph/pkg/common"
	"github.com/newsroom-labs/domaingraph/pkg/logger"
	"github.com/newsroom-labs/domaingraph/pkg/store"

	"github.com/pkoukk/tiktoken-go"
)

// coverKeywordLimit bounds how many high-centrality terms feed the
// prompt.
const coverKeywordLimit = 6

// excerptTokenBudget bounds the editorial excerpt embedded in the
// prompt.
const excerptTokenBudget = 300

var dimensionsPattern = regexp.MustCompile(`^\d{3,4}x\d{3,4}$`)

// CoverImage is the result of a synthesis run. ImageURL and Engine are
// set only when an engine rendered the prompt.
type CoverImage struct {
	Prompt           string   `json:"prompt"`
	EngineCandidates []string `json:"engine_candidates"`
	ImageURL         string   `json:"image_url,omitempty"`
	Engine           string   `json:"engine,omitempty"`
}

// CoverArchive stores a rendered cover image durably and returns a
// download URL for the stored copy. Engine-hosted URLs expire within
// hours; the archived copy outlives them.
type CoverArchive interface {
	ArchiveCover(ctx context.Context, domain string, imageURL string) (string, error)
}

// CoverImageSynthesizer derives an image-generation prompt and an
// ordered engine fallback list from editorial text plus the domain
// graph.
//
// A CoverImageSynthesizer should be created using
// NewCoverImageSynthesizer.
type CoverImageSynthesizer struct {
	store    *store.DomainStore
	keywords *KeywordExtractor
	engines  *ai.EngineRegistry
	covers   CoverArchive
}

// NewCoverImageSynthesizer creates a synthesizer backed by the given
// store and engine registry. The registry may be nil; synthesis then
// produces prompts without rendering. The archive may be nil; rendered
// images then keep their engine-hosted URL.
func NewCoverImageSynthesizer(
	domainStore *store.DomainStore,
	engines *ai.EngineRegistry,
	covers CoverArchive,
) *CoverImageSynthesizer {
	return &CoverImageSynthesizer{
		store:    domainStore,
		keywords: NewKeywordExtractor(domainStore),
		engines:  engines,
		covers:   covers,
	}
}

// SynthesizeParams defines the parameters for Synthesize. Style defaults
// to "professional", Dimensions to "1024x1024", and PreferredEngine to
// "dall-e-3" when empty.
type SynthesizeParams struct {
	EditorialText   string
	Domain          string
	Style           string
	Dimensions      string
	PreferredEngine string
	Render          bool
}

// Synthesize builds the image prompt and engine candidate list for an
// editorial text. Zero extracted keywords is not an error; the prompt
// falls back to the editorial excerpt alone. When Render is set the
// prompt is run through the candidate engines in fallback order, and a
// render failure degrades to a prompt-only result. A rendered image is
// archived when a cover archive is configured; an archive failure keeps
// the engine-hosted URL.
func (s *CoverImageSynthesizer) Synthesize(
	ctx context.Context,
	params SynthesizeParams,
) (*CoverImage, error) {
	style := params.Style
	if style == "" {
		style = "professional"
	}
	dimensions := params.Dimensions
	if dimensions == "" {
		dimensions = "1024x1024"
	}
	if !dimensionsPattern.MatchString(dimensions) {
		return nil, fmt.Errorf("%w: dimensions %q not in WIDTHxHEIGHT form", common.ErrInvalidParameter, params.Dimensions)
	}
	preferred := params.PreferredEngine
	if preferred == "" {
		preferred = "dall-e-3"
	}

	graph, err := s.store.Get(params.Domain)
	if err != nil {
		return nil, err
	}

	keywords, err := s.keywords.ExtractKeywords(ctx, ExtractKeywordsParams{
		Text:        params.EditorialText,
		Domain:      params.Domain,
		MaxKeywords: coverKeywordLimit,
	})
	if err != nil {
		return nil, err
	}

	excerpt, err := truncateByTokens(params.EditorialText, excerptTokenBudget)
	if err != nil {
		return nil, err
	}

	result := &CoverImage{
		Prompt:           buildImagePrompt(graph.Domain, style, excerpt, keywords),
		EngineCandidates: []string{},
	}
	if s.engines != nil {
		if candidates := s.engines.Candidates(preferred); len(candidates) > 0 {
			result.EngineCandidates = candidates
		}
	}

	if !params.Render {
		return result, nil
	}
	if s.engines == nil || len(result.EngineCandidates) == 0 {
		return nil, common.ErrEngineUnavailable
	}

	url, engine, err := s.engines.Generate(ctx, preferred, result.Prompt, dimensions)
	if err != nil {
		if errors.Is(err, common.ErrEngineUnavailable) {
			logger.Warn("[CoverImage] Rendering failed, returning prompt only", "domain", graph.Domain, "error", err)
			return result, nil
		}
		return nil, err
	}
	result.ImageURL = url
	result.Engine = engine

	if s.covers != nil {
		stored, err := s.covers.ArchiveCover(ctx, graph.Domain, url)
		if err != nil {
			logger.Warn("[CoverImage] Failed to archive rendered cover", "domain", graph.Domain, "error", err)
		} else {
			result.ImageURL = stored
		}
	}

	return result, nil
}

// truncateByTokens trims text to roughly budget tokens so prompts stay
// inside engine limits.
func truncateByTokens(text string, budget int) (string, error) {
	enc, err := tiktoken.GetEncoding("o200k_base")
	if err != nil {
		return "", err
	}

	tokens := enc.Encode(text, nil, nil)
	if len(tokens) <= budget {
		return text, nil
	}
	return enc.Decode(tokens[:budget]), nil
}
