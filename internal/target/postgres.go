package target

import (
	"context"
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/johndauphine/csvlist/internal/logging"
	"github.com/johndauphine/csvlist/internal/typemap"
)

// PostgresWriter writes to PostgreSQL with the COPY protocol.
// List columns are stored as text[].
type PostgresWriter struct {
	pool   *pgxpool.Pool
	schema string
	table  string
}

// NewPostgresWriter opens a connection pool and verifies it with a ping.
func NewPostgresWriter(ctx context.Context, dsn, schema, table string) (*PostgresWriter, error) {
	poolCfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parsing dsn: %w", err)
	}
	poolCfg.MaxConns = 2

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("creating pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	logging.Debug("Connected to PostgreSQL target: %s:%d/%s",
		poolCfg.ConnConfig.Host, poolCfg.ConnConfig.Port, poolCfg.ConnConfig.Database)
	return &PostgresWriter{pool: pool, schema: schema, table: table}, nil
}

// Dialect implements Writer.
func (w *PostgresWriter) Dialect() typemap.Dialect { return typemap.Postgres }

// Prepare implements Writer.
func (w *PostgresWriter) Prepare(ctx context.Context, s *arrow.Schema, truncate bool) error {
	if stmt := CreateSchemaSQL(typemap.Postgres, w.schema); stmt != "" {
		if _, err := w.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("creating schema %s: %w", w.schema, err)
		}
	}
	if _, err := w.pool.Exec(ctx, CreateTableSQL(typemap.Postgres, w.schema, w.table, s)); err != nil {
		return fmt.Errorf("creating table %s.%s: %w", w.schema, w.table, err)
	}
	if truncate {
		if _, err := w.pool.Exec(ctx, TruncateSQL(typemap.Postgres, w.schema, w.table)); err != nil {
			return fmt.Errorf("truncating table %s.%s: %w", w.schema, w.table, err)
		}
	}
	return nil
}

// WriteBatch implements Writer using COPY.
func (w *PostgresWriter) WriteBatch(ctx context.Context, columns []string, rows [][]any) error {
	if len(rows) == 0 {
		return nil
	}
	n, err := w.pool.CopyFrom(ctx, pgx.Identifier{w.schema, w.table}, columns, pgx.CopyFromRows(rows))
	if err != nil {
		return err
	}
	if n != int64(len(rows)) {
		return fmt.Errorf("copy: expected %d rows, got %d", len(rows), n)
	}
	return nil
}

// Close implements Writer.
func (w *PostgresWriter) Close() error {
	w.pool.Close()
	return nil
}
