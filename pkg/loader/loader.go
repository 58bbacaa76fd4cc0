package loader

import (
	"context"
	"fmt"
	"strings"

	"github.com/newsroom-labs/domaingraph/pkg/common"

	"golang.org/x/sync/errgroup"
)

// CorpusSource identifies one corpus document by location. Path is a
// local file path, a URL, or an object key depending on the loader.
type CorpusSource struct {
	ID   string
	Path string
}

// CorpusLoader retrieves the raw text of a corpus source.
type CorpusLoader interface {
	GetText(ctx context.Context, source CorpusSource) ([]byte, error)
}

// CacheKey returns a stable cache key for a source.
func CacheKey(source CorpusSource) string {
	return source.ID + ":" + source.Path
}

// LoadDocuments fetches all sources through the loader, up to parallel
// at a time, and returns them as corpus documents in source order. The
// document index records the corpus position for downstream
// tie-breaking.
func LoadDocuments(
	ctx context.Context,
	corpusLoader CorpusLoader,
	sources []CorpusSource,
	parallel int,
) ([]common.Document, error) {
	if parallel <= 0 {
		parallel = 4
	}

	documents := make([]common.Document, len(sources))
	eg, gCtx := errgroup.WithContext(ctx)
	eg.SetLimit(parallel)

	for i, source := range sources {
		eg.Go(func() error {
			text, err := corpusLoader.GetText(gCtx, source)
			if err != nil {
				return fmt.Errorf("failed to load %s: %w", source.Path, err)
			}
			documents[i] = common.Document{
				ID:    source.ID,
				Text:  strings.TrimSpace(string(text)),
				Index: i,
			}
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}

	return documents, nil
}
