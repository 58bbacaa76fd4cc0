package pgx

import (
	"context"
	"errors"
	"fmt"

	"github.com/newsroom-labs/domaingraph/pkg/common"
	"github.com/newsroom-labs/domaingraph/pkg/store"

	pgxv5 "github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type pgxIConn interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, optionsAndArgs ...any) (pgxv5.Rows, error)
	QueryRow(ctx context.Context, sql string, optionsAndArgs ...any) pgxv5.Row
}

// GraphDBPersister implements store.Persister on PostgreSQL, storing one
// JSON snapshot row per domain.
type GraphDBPersister struct {
	conn pgxIConn
}

// NewGraphDBPersisterWithConnection creates a persister using an existing
// database connection or pool.
func NewGraphDBPersisterWithConnection(conn pgxIConn) *GraphDBPersister {
	return &GraphDBPersister{conn: conn}
}

const saveSQL = `
INSERT INTO domain_graphs (domain, snapshot, built_at, updated_at)
VALUES ($1, $2, $3, now())
ON CONFLICT (domain) DO UPDATE
SET snapshot = EXCLUDED.snapshot,
    built_at = EXCLUDED.built_at,
    updated_at = now()
`

// Save upserts the snapshot row for the graph's domain.
func (p *GraphDBPersister) Save(ctx context.Context, graph *common.DomainGraph) error {
	data, err := store.EncodeSnapshot(graph)
	if err != nil {
		return err
	}

	_, err = p.conn.Exec(ctx, saveSQL, common.NormalizeDomain(graph.Domain), data, graph.BuiltAt)
	if err != nil {
		return fmt.Errorf("%w: %w", common.ErrPersistence, err)
	}
	return nil
}

// Load reads and decodes the snapshot for a domain.
func (p *GraphDBPersister) Load(ctx context.Context, domain string) (*common.DomainGraph, error) {
	var data []byte
	err := p.conn.QueryRow(ctx,
		`SELECT snapshot FROM domain_graphs WHERE domain = $1`,
		common.NormalizeDomain(domain),
	).Scan(&data)
	if errors.Is(err, pgxv5.ErrNoRows) {
		return nil, fmt.Errorf("%w: no snapshot for domain %q", common.ErrPersistence, domain)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrPersistence, err)
	}

	return store.DecodeSnapshot(data)
}

// Delete removes the snapshot row for a domain. A missing row is not an
// error.
func (p *GraphDBPersister) Delete(ctx context.Context, domain string) error {
	_, err := p.conn.Exec(ctx,
		`DELETE FROM domain_graphs WHERE domain = $1`,
		common.NormalizeDomain(domain),
	)
	if err != nil {
		return fmt.Errorf("%w: %w", common.ErrPersistence, err)
	}
	return nil
}

// List returns the domains of all stored snapshots.
func (p *GraphDBPersister) List(ctx context.Context) ([]string, error) {
	rows, err := p.conn.Query(ctx, `SELECT domain FROM domain_graphs ORDER BY domain`)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrPersistence, err)
	}
	defer rows.Close()

	var domains []string
	for rows.Next() {
		var domain string
		if err := rows.Scan(&domain); err != nil {
			return nil, fmt.Errorf("%w: %w", common.ErrPersistence, err)
		}
		domains = append(domains, domain)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrPersistence, err)
	}
	return domains, nil
}
