package store

import (
	"context"
	"fmt"
	"time"

	"atlas-core/internal/domain/entity"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// PostgresStore executes read-only queries against the float metadata and
// hot-status tables (PostGIS schema). The connecting role is expected to be
// read-only; the sqlguard validator is not the sole security boundary.
type PostgresStore struct {
	db      *sqlx.DB
	timeout time.Duration
}

func NewPostgresStore(dsn string, timeout time.Duration) (*PostgresStore, error) {
	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres connect failed: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)
	return &PostgresStore{db: db, timeout: timeout}, nil
}

// NewPostgresStoreFromDB wraps an existing pool, used by tests.
func NewPostgresStoreFromDB(db *sqlx.DB, timeout time.Duration) *PostgresStore {
	return &PostgresStore{db: db, timeout: timeout}
}

func (s *PostgresStore) Query(ctx context.Context, query string) ([]entity.Row, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	rows, err := s.db.QueryxContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("metadata store query failed: %w", err)
	}
	defer rows.Close()

	var out []entity.Row
	for rows.Next() {
		m := map[string]any{}
		if err := rows.MapScan(m); err != nil {
			return nil, fmt.Errorf("metadata store scan failed: %w", err)
		}
		// lib/pq hands back []byte for numerics and text alike.
		for k, v := range m {
			if b, ok := v.([]byte); ok {
				m[k] = string(b)
			}
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("metadata store iteration failed: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}
