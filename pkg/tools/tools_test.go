package tools

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/newsroom-labs/domaingraph/pkg/ai"
	"github.com/newsroom-labs/domaingraph/pkg/common"
	"github.com/newsroom-labs/domaingraph/pkg/store"
)

func seededStore(t *testing.T) *store.DomainStore {
	t.Helper()

	s := store.NewDomainStore(store.NewDomainStoreParams{})
	texts := []string{
		"Precision oncology uses molecular profiling to match tumor mutations with targeted therapy options.",
		"Immunotherapy harnesses the immune system to fight cancer with checkpoint inhibitors and immunotherapy trials.",
		"Early cancer screening improves outcomes, and molecular profiling guides precision oncology decisions.",
	}
	documents := make([]common.Document, len(texts))
	for i, text := range texts {
		documents[i] = common.Document{ID: "doc", Text: text, Index: i}
	}

	_, err := s.GetOrBuild(context.Background(), "cancer care", documents, store.BuildParams{MinEdgeWeight: 1})
	if err != nil {
		t.Fatalf("seeding store failed: %v", err)
	}
	return s
}

func TestExtractKeywords(t *testing.T) {
	extractor := NewKeywordExtractor(seededStore(t))

	keywords, err := extractor.ExtractKeywords(context.Background(), ExtractKeywordsParams{
		Text:   "New trials combine immunotherapy with precision oncology and molecular profiling.",
		Domain: "cancer_care",
	})
	if err != nil {
		t.Fatalf("ExtractKeywords failed: %v", err)
	}
	if len(keywords) == 0 {
		t.Fatal("expected keywords for overlapping text")
	}
	if len(keywords) > 10 {
		t.Errorf("expected at most 10 keywords, got %d", len(keywords))
	}

	graph, err := seededStore(t).Get("cancer care")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	for i, keyword := range keywords {
		if _, ok := graph.Nodes[keyword.Term]; !ok {
			t.Errorf("keyword %q not present in domain graph", keyword.Term)
		}
		if i > 0 {
			prev := keywords[i-1]
			if keyword.Score > prev.Score {
				t.Errorf("keywords not sorted: %q (%f) after %q (%f)", keyword.Term, keyword.Score, prev.Term, prev.Score)
			}
			if keyword.Score == prev.Score && keyword.Term < prev.Term {
				t.Errorf("equal scores not alphabetical: %q after %q", keyword.Term, prev.Term)
			}
		}
	}
}

func TestExtractKeywordsHighThresholdIsEmptySuccess(t *testing.T) {
	extractor := NewKeywordExtractor(seededStore(t))

	keywords, err := extractor.ExtractKeywords(context.Background(), ExtractKeywordsParams{
		Text:          "oncology and immunotherapy",
		Domain:        "cancer_care",
		MinCentrality: 0.9999,
	})
	if err != nil {
		t.Fatalf("expected success with empty result, got %v", err)
	}
	if len(keywords) != 0 {
		t.Errorf("expected no keywords above threshold, got %v", keywords)
	}
}

func TestExtractKeywordsUnknownDomain(t *testing.T) {
	extractor := NewKeywordExtractor(seededStore(t))

	_, err := extractor.ExtractKeywords(context.Background(), ExtractKeywordsParams{
		Text:   "oncology",
		Domain: "unknown_domain",
	})
	if !errors.Is(err, common.ErrGraphNotFound) {
		t.Fatalf("expected ErrGraphNotFound, got %v", err)
	}
}

func TestBuildGlossary(t *testing.T) {
	builder := NewGlossaryBuilder(seededStore(t), nil)

	terms, err := builder.BuildGlossary(context.Background(), BuildGlossaryParams{
		Domain:        "cancer care",
		MaxTerms:      5,
		MinCentrality: 0.01,
	})
	if err != nil {
		t.Fatalf("BuildGlossary failed: %v", err)
	}
	if len(terms) == 0 || len(terms) > 5 {
		t.Fatalf("expected between 1 and 5 terms, got %d", len(terms))
	}

	for i := 1; i < len(terms); i++ {
		if terms[i].Score > terms[i-1].Score {
			t.Errorf("terms not sorted by descending score at %d", i)
		}
		if terms[i].Score == terms[i-1].Score && terms[i].Term < terms[i-1].Term {
			t.Errorf("equal scores not alphabetical at %d", i)
		}
	}
}

type stubAIClient struct {
	formatErr        error
	payload          string
	completion       string
	completionCalled bool
}

func (c *stubAIClient) GenerateCompletion(ctx context.Context, prompt string, opts ...ai.GenerateOption) (string, error) {
	c.completionCalled = true
	return c.completion, nil
}

func (c *stubAIClient) GenerateCompletionWithFormat(ctx context.Context, name, description, prompt string, out any, opts ...ai.GenerateOption) error {
	if c.formatErr != nil {
		return c.formatErr
	}
	return ai.UnmarshalFlexible(c.payload, out)
}

func TestBuildGlossaryDefinitions(t *testing.T) {
	s := seededStore(t)
	params := BuildGlossaryParams{Domain: "cancer care", MaxTerms: 1, MinCentrality: 0.01}

	plain, err := NewGlossaryBuilder(s, nil).BuildGlossary(context.Background(), params)
	if err != nil || len(plain) != 1 {
		t.Fatalf("expected a single plain term, got %v (%v)", plain, err)
	}
	top := plain[0].Term

	client := &stubAIClient{
		payload: fmt.Sprintf(`{"definitions": [{"term": %q, "definition": "A core term of the domain."}]}`, top),
	}
	terms, err := NewGlossaryBuilder(s, client).BuildGlossary(context.Background(), params)
	if err != nil {
		t.Fatalf("BuildGlossary failed: %v", err)
	}
	if terms[0].Definition != "A core term of the domain." {
		t.Errorf("definition = %q, expected the generated one", terms[0].Definition)
	}
	if client.completionCalled {
		t.Error("plain completion must not run when the structured request succeeds")
	}
}

func TestBuildGlossaryDefinitionFallback(t *testing.T) {
	s := seededStore(t)
	params := BuildGlossaryParams{Domain: "cancer care", MaxTerms: 1, MinCentrality: 0.01}

	plain, err := NewGlossaryBuilder(s, nil).BuildGlossary(context.Background(), params)
	if err != nil || len(plain) != 1 {
		t.Fatalf("expected a single plain term, got %v (%v)", plain, err)
	}
	top := plain[0].Term

	client := &stubAIClient{
		formatErr:  errors.New("response_format not supported"),
		completion: fmt.Sprintf(`{"definitions": [{"term": %q, "definition": "A core term of the domain."}]}`, top),
	}
	terms, err := NewGlossaryBuilder(s, client).BuildGlossary(context.Background(), params)
	if err != nil {
		t.Fatalf("BuildGlossary failed: %v", err)
	}
	if !client.completionCalled {
		t.Fatal("expected plain-completion fallback after the structured request failed")
	}
	if terms[0].Definition != "A core term of the domain." {
		t.Errorf("definition = %q, expected the one parsed from the fallback", terms[0].Definition)
	}
}

func TestExportGlossary(t *testing.T) {
	terms := []GlossaryTerm{
		{Term: "oncology", Score: 0.82, Definition: "The study and treatment of tumors."},
		{Term: "screening", Score: 0.41},
	}

	markdown, err := ExportGlossary("cancer care", terms, ExportMarkdown)
	if err != nil {
		t.Fatalf("markdown export failed: %v", err)
	}
	for _, want := range []string{"# cancer care glossary", "## oncology", "The study and treatment of tumors."} {
		if !strings.Contains(string(markdown), want) {
			t.Errorf("markdown export missing %q", want)
		}
	}

	csvOut, err := ExportGlossary("cancer care", terms, ExportCSV)
	if err != nil {
		t.Fatalf("csv export failed: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(csvOut)), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d lines", len(lines))
	}
	if lines[0] != "term,score,definition" {
		t.Errorf("unexpected header %q", lines[0])
	}

	_, err = ExportGlossary("cancer care", terms, ExportFormat("xml"))
	if !errors.Is(err, common.ErrInvalidParameter) {
		t.Errorf("expected ErrInvalidParameter for unsupported format, got %v", err)
	}
}

func TestSynthesizeCoverImage(t *testing.T) {
	synthesizer := NewCoverImageSynthesizer(seededStore(t), nil, nil)

	cover, err := synthesizer.Synthesize(context.Background(), SynthesizeParams{
		EditorialText: "A breakthrough in immunotherapy brings new hope to cancer screening programs.",
		Domain:        "cancer_care",
	})
	if err != nil {
		t.Fatalf("Synthesize failed: %v", err)
	}
	if !strings.Contains(cover.Prompt, "professional") {
		t.Error("expected default style in prompt")
	}
	if !strings.Contains(cover.Prompt, "cancer care") {
		t.Error("expected domain in prompt")
	}
	if !strings.Contains(cover.Prompt, "immunotherapy") {
		t.Error("expected extracted keyword in prompt")
	}

	// Same input must produce the same prompt.
	again, err := synthesizer.Synthesize(context.Background(), SynthesizeParams{
		EditorialText: "A breakthrough in immunotherapy brings new hope to cancer screening programs.",
		Domain:        "cancer_care",
	})
	if err != nil {
		t.Fatalf("Synthesize failed: %v", err)
	}
	if again.Prompt != cover.Prompt {
		t.Error("prompt synthesis is not deterministic")
	}
}

func TestSynthesizeWithoutKeywordsFallsBackToExcerpt(t *testing.T) {
	synthesizer := NewCoverImageSynthesizer(seededStore(t), nil, nil)

	cover, err := synthesizer.Synthesize(context.Background(), SynthesizeParams{
		EditorialText: "Quarterly budget meeting minutes and parking arrangements.",
		Domain:        "cancer care",
	})
	if err != nil {
		t.Fatalf("Synthesize failed: %v", err)
	}
	if !strings.Contains(cover.Prompt, "Editorial excerpt") {
		t.Error("expected excerpt fallback when no keywords matched")
	}
}

func TestSynthesizeInvalidDimensions(t *testing.T) {
	synthesizer := NewCoverImageSynthesizer(seededStore(t), nil, nil)

	_, err := synthesizer.Synthesize(context.Background(), SynthesizeParams{
		EditorialText: "text",
		Domain:        "cancer care",
		Dimensions:    "huge",
	})
	if !errors.Is(err, common.ErrInvalidParameter) {
		t.Fatalf("expected ErrInvalidParameter, got %v", err)
	}
}

func TestSynthesizeRenderWithoutEngines(t *testing.T) {
	synthesizer := NewCoverImageSynthesizer(seededStore(t), ai.NewEngineRegistry(), nil)

	_, err := synthesizer.Synthesize(context.Background(), SynthesizeParams{
		EditorialText: "text about oncology",
		Domain:        "cancer care",
		Render:        true,
	})
	if !errors.Is(err, common.ErrEngineUnavailable) {
		t.Fatalf("expected ErrEngineUnavailable, got %v", err)
	}
}

type stubEngine struct {
	url string
}

func (e *stubEngine) ID() string      { return "dall-e-3" }
func (e *stubEngine) Available() bool { return true }
func (e *stubEngine) GenerateImage(ctx context.Context, prompt, size string) (string, error) {
	return e.url, nil
}

type stubCoverArchive struct {
	stored    string
	err       error
	gotDomain string
	gotURL    string
}

func (a *stubCoverArchive) ArchiveCover(ctx context.Context, domain, imageURL string) (string, error) {
	a.gotDomain = domain
	a.gotURL = imageURL
	return a.stored, a.err
}

func TestSynthesizeArchivesRenderedCover(t *testing.T) {
	registry := ai.NewEngineRegistry()
	registry.Register(&stubEngine{url: "https://engine.example/generated.png"})
	archive := &stubCoverArchive{stored: "https://storage.example/covers/cancer_care/abc.png"}
	synthesizer := NewCoverImageSynthesizer(seededStore(t), registry, archive)

	cover, err := synthesizer.Synthesize(context.Background(), SynthesizeParams{
		EditorialText: "Immunotherapy trials expand cancer screening programs.",
		Domain:        "cancer care",
		Render:        true,
	})
	if err != nil {
		t.Fatalf("Synthesize failed: %v", err)
	}
	if cover.ImageURL != archive.stored {
		t.Errorf("image_url = %q, expected archived copy %q", cover.ImageURL, archive.stored)
	}
	if archive.gotURL != "https://engine.example/generated.png" {
		t.Errorf("archive received %q instead of the engine URL", archive.gotURL)
	}
	if archive.gotDomain != "cancer care" {
		t.Errorf("archive received domain %q", archive.gotDomain)
	}
}

func TestSynthesizeArchiveFailureKeepsEngineURL(t *testing.T) {
	registry := ai.NewEngineRegistry()
	registry.Register(&stubEngine{url: "https://engine.example/generated.png"})
	archive := &stubCoverArchive{err: errors.New("bucket unreachable")}
	synthesizer := NewCoverImageSynthesizer(seededStore(t), registry, archive)

	cover, err := synthesizer.Synthesize(context.Background(), SynthesizeParams{
		EditorialText: "Immunotherapy trials expand cancer screening programs.",
		Domain:        "cancer care",
		Render:        true,
	})
	if err != nil {
		t.Fatalf("Synthesize failed: %v", err)
	}
	if cover.ImageURL != "https://engine.example/generated.png" {
		t.Errorf("image_url = %q, expected engine URL after archive failure", cover.ImageURL)
	}
}

func TestBuildImagePromptPalette(t *testing.T) {
	prompt := buildImagePrompt("cancer care", "professional", "", nil)
	if !strings.Contains(prompt, "Color palette: professional blues, grays, whites") {
		t.Error("expected professional palette line")
	}

	minimalist := buildImagePrompt("cancer care", "minimalist", "", nil)
	if !strings.Contains(minimalist, "Color palette: muted grays with a single accent color") {
		t.Error("expected minimalist palette line")
	}

	unknown := buildImagePrompt("cancer care", "grunge", "", nil)
	if !strings.Contains(unknown, "Color palette: professional blues, grays, whites") {
		t.Error("expected fallback palette for unknown style")
	}
}
