package io

import (
	"context"
	"os"
	"sync"

	"github.com/newsroom-labs/domaingraph/pkg/loader"

	"golang.org/x/sync/singleflight"
)

// IOCorpusLoader loads corpus documents directly from the local
// filesystem with caching.
type IOCorpusLoader struct {
	cache   map[string][]byte
	cacheMu sync.RWMutex
	group   singleflight.Group
}

// NewIOCorpusLoader creates a new filesystem-based corpus loader.
func NewIOCorpusLoader() *IOCorpusLoader {
	return &IOCorpusLoader{
		cache: make(map[string][]byte),
	}
}

// GetText reads the document content from the filesystem. Results are
// cached, and concurrent requests for the same source share one read.
func (l *IOCorpusLoader) GetText(ctx context.Context, source loader.CorpusSource) ([]byte, error) {
	key := loader.CacheKey(source)

	l.cacheMu.RLock()
	if cached, ok := l.cache[key]; ok {
		l.cacheMu.RUnlock()
		return cached, nil
	}
	l.cacheMu.RUnlock()

	result, err, _ := l.group.Do(key, func() (any, error) {
		l.cacheMu.RLock()
		if cached, ok := l.cache[key]; ok {
			l.cacheMu.RUnlock()
			return cached, nil
		}
		l.cacheMu.RUnlock()

		content, err := os.ReadFile(source.Path)
		if err != nil {
			return nil, err
		}

		l.cacheMu.Lock()
		l.cache[key] = content
		l.cacheMu.Unlock()

		return content, nil
	})
	if err != nil {
		return nil, err
	}

	return result.([]byte), nil
}
