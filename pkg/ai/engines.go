package ai

import (
	"context"
	"fmt"
	"sync"

	"github.com/newsroom-labs/domaingraph/pkg/common"
)

// enginePriority is the fixed fallback order for image generation.
// Engines not listed here are appended after the known ones in
// registration order.
var enginePriority = []string{
	"dall-e-3",
	"gpt-image-1",
	"sdxl-local",
}

// EngineRegistry holds the configured image engines and produces ordered
// candidate lists filtered by availability.
type EngineRegistry struct {
	mu      sync.RWMutex
	engines map[string]ImageEngine
	order   []string
}

// NewEngineRegistry creates an empty registry.
func NewEngineRegistry() *EngineRegistry {
	return &EngineRegistry{
		engines: make(map[string]ImageEngine),
	}
}

// Register adds an engine to the registry. Registering the same ID twice
// replaces the earlier engine.
func (r *EngineRegistry) Register(engine ImageEngine) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := engine.ID()
	if _, ok := r.engines[id]; !ok {
		r.order = append(r.order, id)
	}
	r.engines[id] = engine
}

// Candidates returns the available engine IDs in fallback order. When
// preferred names an available engine it moves to the front; the rest
// follow the fixed priority table.
func (r *EngineRegistry) Candidates(preferred string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var candidates []string
	add := func(id string) {
		engine, ok := r.engines[id]
		if !ok || !engine.Available() {
			return
		}
		for _, existing := range candidates {
			if existing == id {
				return
			}
		}
		candidates = append(candidates, id)
	}

	add(preferred)
	for _, id := range enginePriority {
		add(id)
	}
	for _, id := range r.order {
		add(id)
	}

	return candidates
}

// Generate runs the prompt through the first candidate engine that
// succeeds, in fallback order. It fails with ErrEngineUnavailable when no
// engine is available or every candidate fails.
func (r *EngineRegistry) Generate(ctx context.Context, preferred, prompt, size string) (string, string, error) {
	candidates := r.Candidates(preferred)
	if len(candidates) == 0 {
		return "", "", common.ErrEngineUnavailable
	}

	var lastErr error
	for _, id := range candidates {
		r.mu.RLock()
		engine := r.engines[id]
		r.mu.RUnlock()

		url, err := engine.GenerateImage(ctx, prompt, size)
		if err != nil {
			lastErr = err
			continue
		}
		return url, id, nil
	}

	return "", "", fmt.Errorf("%w: all candidates failed: %w", common.ErrEngineUnavailable, lastErr)
}
