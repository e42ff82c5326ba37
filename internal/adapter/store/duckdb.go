package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"atlas-core/internal/domain/entity"

	_ "github.com/marcboeker/go-duckdb/v2"
)

// DuckDBConfig carries the credentials for the remote Parquet bucket.
type DuckDBConfig struct {
	S3AccessKey string
	S3SecretKey string
	S3Endpoint  string
	S3Region    string
}

// DuckDBStore runs analytical queries over per-float Parquet files in
// object storage. Each call opens its own in-memory DuckDB instance,
// installs httpfs and registers the S3 secret, and releases everything on
// every exit path — connection lifetime equals call lifetime.
type DuckDBStore struct {
	cfg     DuckDBConfig
	timeout time.Duration
}

func NewDuckDBStore(cfg DuckDBConfig, timeout time.Duration) *DuckDBStore {
	return &DuckDBStore{cfg: cfg, timeout: timeout}
}

func (s *DuckDBStore) Query(ctx context.Context, query string) ([]entity.Row, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	db, err := sql.Open("duckdb", "")
	if err != nil {
		return nil, fmt.Errorf("analytical engine open failed: %w", err)
	}
	defer db.Close()

	if err := s.setup(ctx, db); err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("analytical engine query failed: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("analytical engine columns failed: %w", err)
	}

	var out []entity.Row
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("analytical engine scan failed: %w", err)
		}
		row := entity.Row{}
		for i, col := range cols {
			row[col] = values[i]
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("analytical engine iteration failed: %w", err)
	}
	return out, nil
}

// setup runs the one-time per-connection extension and credential bootstrap.
func (s *DuckDBStore) setup(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, "INSTALL httpfs; LOAD httpfs;"); err != nil {
		return fmt.Errorf("analytical engine httpfs setup failed: %w", err)
	}
	if s.cfg.S3AccessKey == "" {
		return nil
	}
	secret := fmt.Sprintf(
		`CREATE SECRET atlas_r2 (TYPE s3, KEY_ID '%s', SECRET '%s', ENDPOINT '%s', REGION '%s')`,
		sqlQuote(s.cfg.S3AccessKey), sqlQuote(s.cfg.S3SecretKey),
		sqlQuote(s.cfg.S3Endpoint), sqlQuote(s.cfg.S3Region),
	)
	if _, err := db.ExecContext(ctx, secret); err != nil {
		return fmt.Errorf("analytical engine credential setup failed: %w", err)
	}
	return nil
}

func sqlQuote(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}
