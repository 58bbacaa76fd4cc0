package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/newsroom-labs/domaingraph/pkg/common"
	"github.com/newsroom-labs/domaingraph/pkg/store"
)

// FilePersister implements store.Persister on a local directory, one JSON
// snapshot file per domain.
type FilePersister struct {
	dir string
}

// NewFilePersister creates a persister rooted at dir, creating the
// directory if it does not exist.
func NewFilePersister(dir string) (*FilePersister, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrPersistence, err)
	}
	return &FilePersister{dir: dir}, nil
}

// Save writes the graph snapshot atomically by renaming a temp file over
// the target, so readers never observe a half-written snapshot.
func (p *FilePersister) Save(ctx context.Context, graph *common.DomainGraph) error {
	data, err := store.EncodeSnapshot(graph)
	if err != nil {
		return err
	}

	target := p.path(graph.Domain)
	tmp, err := os.CreateTemp(p.dir, ".snapshot-*")
	if err != nil {
		return fmt.Errorf("%w: %w", common.ErrPersistence, err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("%w: %w", common.ErrPersistence, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("%w: %w", common.ErrPersistence, err)
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("%w: %w", common.ErrPersistence, err)
	}

	return nil
}

// Load reads and decodes the snapshot for a domain.
func (p *FilePersister) Load(ctx context.Context, domain string) (*common.DomainGraph, error) {
	data, err := os.ReadFile(p.path(domain))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrPersistence, err)
	}
	return store.DecodeSnapshot(data)
}

// Delete removes the snapshot for a domain. A missing snapshot is not an
// error.
func (p *FilePersister) Delete(ctx context.Context, domain string) error {
	if err := os.Remove(p.path(domain)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %w", common.ErrPersistence, err)
	}
	return nil
}

// List returns the domains of all snapshots present in the directory.
func (p *FilePersister) List(ctx context.Context) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(p.dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrPersistence, err)
	}

	domains := make([]string, 0, len(matches))
	for _, match := range matches {
		name := strings.TrimSuffix(filepath.Base(match), ".json")
		domains = append(domains, strings.ReplaceAll(name, "_", " "))
	}
	return domains, nil
}

func (p *FilePersister) path(domain string) string {
	name := strings.ReplaceAll(common.NormalizeDomain(domain), " ", "_")
	return filepath.Join(p.dir, name+".json")
}
