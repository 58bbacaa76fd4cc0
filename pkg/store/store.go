package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/newsroom-labs/domaingraph/pkg/common"
	"github.com/newsroom-labs/domaingraph/pkg/graph"
	"github.com/newsroom-labs/domaingraph/pkg/logger"
)

// Persister defines the interface for durable graph snapshots. A nil
// Persister disables persistence and keeps graphs in memory only.
type Persister interface {
	Save(ctx context.Context, graph *common.DomainGraph) error
	Load(ctx context.Context, domain string) (*common.DomainGraph, error)
	Delete(ctx context.Context, domain string) error
	List(ctx context.Context) ([]string, error)
}

// Source records how a store entry came to exist.
type Source string

const (
	SourceBuilt    Source = "built"
	SourcePrebuilt Source = "prebuilt"
)

// Entry is a published store entry: an immutable ranked graph plus
// metadata about its origin.
type Entry struct {
	Graph    *common.DomainGraph
	Source   Source
	LoadedAt time.Time
}

// DomainStore owns the mapping from domain name to its built graph. It
// serializes builds per domain, swaps entries atomically on rebuild, and
// resolves domain aliases. Readers never block on builds; they observe
// either the prior complete graph or the new one, never a partial state.
//
// A DomainStore should be created using NewDomainStore.
type DomainStore struct {
	graphClient  *graph.GraphClient
	persister    Persister
	buildTimeout time.Duration
	aliases      map[string]string

	mu      sync.RWMutex
	entries map[string]*Entry

	buildMu  sync.Mutex
	building map[string]struct{}
}

// NewDomainStoreParams defines the configuration parameters for creating
// a new DomainStore.
//
// Persister may be nil to keep graphs in memory only. Aliases maps
// alternative domain names to their canonical form; both sides are
// normalized before use. BuildTimeout bounds a single build, defaulting
// to two minutes.
type NewDomainStoreParams struct {
	GraphClient  *graph.GraphClient
	Persister    Persister
	Aliases      map[string]string
	BuildTimeout time.Duration
}

// NewDomainStore creates and returns a new DomainStore configured with
// the provided parameters.
func NewDomainStore(params NewDomainStoreParams) *DomainStore {
	graphClient := params.GraphClient
	if graphClient == nil {
		graphClient = graph.NewGraphClient(graph.NewGraphClientParams{})
	}
	buildTimeout := params.BuildTimeout
	if buildTimeout <= 0 {
		buildTimeout = 2 * time.Minute
	}

	aliases := make(map[string]string, len(params.Aliases))
	for alias, canonical := range params.Aliases {
		aliases[common.NormalizeDomain(alias)] = common.NormalizeDomain(canonical)
	}

	return &DomainStore{
		graphClient:  graphClient,
		persister:    params.Persister,
		buildTimeout: buildTimeout,
		aliases:      aliases,
		entries:      make(map[string]*Entry),
		building:     make(map[string]struct{}),
	}
}

// Resolve canonicalizes a domain name, consulting the alias table after
// normalization. The returned key addresses the same entry for every
// spelling of the domain.
func (s *DomainStore) Resolve(domain string) string {
	key := common.NormalizeDomain(domain)
	if canonical, ok := s.aliases[key]; ok {
		return canonical
	}
	return key
}

// BuildParams defines the optional build parameters accepted by
// GetOrBuild and Rebuild. Zero values fall back to a fifty node cap and
// the graph client's minimum edge weight.
type BuildParams struct {
	MaxNodes      int
	MinEdgeWeight int
}

func (p BuildParams) withDefaults() BuildParams {
	if p.MaxNodes == 0 {
		p.MaxNodes = 50
	}
	return p
}

// GetOrBuild returns the published graph for a domain. When no entry
// exists and documents are supplied, it builds, ranks, stores, and
// persists a new entry. With no entry and no documents it fails with
// ErrGraphNotFound.
func (s *DomainStore) GetOrBuild(
	ctx context.Context,
	domain string,
	documents []common.Document,
	params BuildParams,
) (*common.DomainGraph, error) {
	key := s.Resolve(domain)

	if entry := s.lookup(key); entry != nil {
		return entry.Graph, nil
	}
	if len(documents) == 0 {
		return nil, fmt.Errorf("%w: %q", common.ErrGraphNotFound, domain)
	}

	return s.buildAndPublish(ctx, key, documents, params)
}

// Rebuild always recomputes the graph for a domain and replaces any
// existing entry atomically. Readers of the prior graph are unaffected
// until the swap. A concurrent build for the same domain is rejected
// with ErrBuildInProgress.
func (s *DomainStore) Rebuild(
	ctx context.Context,
	domain string,
	documents []common.Document,
	params BuildParams,
) (*common.DomainGraph, error) {
	return s.buildAndPublish(ctx, s.Resolve(domain), documents, params)
}

// Get returns the published graph for a domain without ever building.
func (s *DomainStore) Get(domain string) (*common.DomainGraph, error) {
	if entry := s.lookup(s.Resolve(domain)); entry != nil {
		return entry.Graph, nil
	}
	return nil, fmt.Errorf("%w: %q", common.ErrGraphNotFound, domain)
}

// GetEntry returns the published entry with its metadata.
func (s *DomainStore) GetEntry(domain string) (*Entry, error) {
	if entry := s.lookup(s.Resolve(domain)); entry != nil {
		return entry, nil
	}
	return nil, fmt.Errorf("%w: %q", common.ErrGraphNotFound, domain)
}

// Evict removes the entry for a domain and deletes its persisted
// snapshot. It reports whether an entry existed. An entry is removed
// wholesale or not at all.
func (s *DomainStore) Evict(ctx context.Context, domain string) bool {
	key := s.Resolve(domain)

	s.mu.Lock()
	_, existed := s.entries[key]
	delete(s.entries, key)
	s.mu.Unlock()

	if existed && s.persister != nil {
		if err := s.persister.Delete(ctx, key); err != nil {
			logger.Warn("[Store] Failed to delete persisted snapshot", "domain", key, "error", err)
		}
	}

	return existed
}

// Domains returns the canonical names of all published domains in
// ascending order.
func (s *DomainStore) Domains() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	domains := make([]string, 0, len(s.entries))
	for key := range s.entries {
		domains = append(domains, key)
	}
	sort.Strings(domains)
	return domains
}

// LoadPrebuilt loads a persisted snapshot for a domain into the store,
// tagged as prebuilt. No re-ranking occurs. A load failure leaves the
// store unchanged; the caller decides whether that is fatal.
func (s *DomainStore) LoadPrebuilt(ctx context.Context, domain string) error {
	if s.persister == nil {
		return fmt.Errorf("%w: no persister configured", common.ErrPersistence)
	}

	key := s.Resolve(domain)
	loaded, err := s.persister.Load(ctx, key)
	if err != nil {
		return err
	}

	s.publish(key, &Entry{
		Graph:    loaded,
		Source:   SourcePrebuilt,
		LoadedAt: time.Now().UTC(),
	})

	logger.Info("[Store] Loaded prebuilt graph", "domain", key, "nodes", len(loaded.Nodes), "edges", len(loaded.Edges))
	return nil
}

// LoadAllPrebuilt loads every persisted snapshot the persister knows
// about. Individual load failures are logged and skipped so one corrupt
// snapshot cannot block startup. It returns the number of loaded graphs.
func (s *DomainStore) LoadAllPrebuilt(ctx context.Context) int {
	if s.persister == nil {
		return 0
	}

	domains, err := s.persister.List(ctx)
	if err != nil {
		logger.Warn("[Store] Failed to list persisted snapshots", "error", err)
		return 0
	}

	loaded := 0
	for _, domain := range domains {
		if err := s.LoadPrebuilt(ctx, domain); err != nil {
			logger.Warn("[Store] Skipping prebuilt graph", "domain", domain, "error", err)
			continue
		}
		loaded++
	}
	return loaded
}

func (s *DomainStore) lookup(key string) *Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.entries[key]
}

func (s *DomainStore) publish(key string, entry *Entry) {
	s.mu.Lock()
	s.entries[key] = entry
	s.mu.Unlock()
}

func (s *DomainStore) buildAndPublish(
	ctx context.Context,
	key string,
	documents []common.Document,
	params BuildParams,
) (*common.DomainGraph, error) {
	s.buildMu.Lock()
	if _, inFlight := s.building[key]; inFlight {
		s.buildMu.Unlock()
		return nil, fmt.Errorf("%w: %q", common.ErrBuildInProgress, key)
	}
	s.building[key] = struct{}{}
	s.buildMu.Unlock()

	defer func() {
		s.buildMu.Lock()
		delete(s.building, key)
		s.buildMu.Unlock()
	}()

	buildCtx, cancel := context.WithTimeout(ctx, s.buildTimeout)
	defer cancel()

	params = params.withDefaults()
	built, err := s.graphClient.BuildGraph(buildCtx, key, documents, graph.BuildGraphParams{
		MaxNodes:      params.MaxNodes,
		MinEdgeWeight: params.MinEdgeWeight,
	})
	if err != nil {
		return nil, err
	}

	ranked := s.graphClient.Rank(built)

	if s.persister != nil {
		if err := s.persister.Save(buildCtx, ranked); err != nil {
			logger.Warn("[Store] Failed to persist graph", "domain", key, "error", err)
		}
	}

	s.publish(key, &Entry{
		Graph:    ranked,
		Source:   SourceBuilt,
		LoadedAt: time.Now().UTC(),
	})

	return ranked, nil
}
