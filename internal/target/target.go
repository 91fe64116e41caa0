// Package target exports tables to SQL databases.
package target

import (
	"context"
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"

	"github.com/johndauphine/csvlist/internal/config"
	"github.com/johndauphine/csvlist/internal/logging"
	"github.com/johndauphine/csvlist/internal/progress"
	"github.com/johndauphine/csvlist/internal/typemap"
)

// Writer writes rows to one table of a SQL database.
type Writer interface {
	// Dialect returns the SQL dialect of the target.
	Dialect() typemap.Dialect

	// Prepare creates the schema and table if needed, optionally emptying the table.
	Prepare(ctx context.Context, s *arrow.Schema, truncate bool) error

	// WriteBatch inserts rows whose values are in columns order.
	WriteBatch(ctx context.Context, columns []string, rows [][]any) error

	// Close releases the connection.
	Close() error
}

// Open connects to the target described by cfg.
func Open(ctx context.Context, cfg *config.TargetConfig) (Writer, error) {
	dialect, err := cfg.Dialect()
	if err != nil {
		return nil, err
	}
	dsn, err := cfg.DSN()
	if err != nil {
		return nil, err
	}

	switch dialect {
	case typemap.Postgres:
		return NewPostgresWriter(ctx, dsn, cfg.Schema, cfg.Table)
	case typemap.MSSQL:
		return NewMSSQLWriter(ctx, dsn, cfg.Schema, cfg.Table)
	default:
		return NewSQLiteWriter(ctx, dsn, cfg.Table)
	}
}

// ExportOptions controls Export.
type ExportOptions struct {
	BatchSize int
	Truncate  bool
	Tracker   *progress.Tracker
}

// Export prepares the target table and writes every row of tbl in batches.
// It returns the number of rows written.
func Export(ctx context.Context, w Writer, tbl arrow.Table, opts ExportOptions) (int64, error) {
	if opts.BatchSize <= 0 {
		opts.BatchSize = config.DefaultBatchSize
	}
	if err := w.Prepare(ctx, tbl.Schema(), opts.Truncate); err != nil {
		return 0, fmt.Errorf("preparing table: %w", err)
	}

	if opts.Tracker != nil {
		opts.Tracker.SetTotal(tbl.NumRows())
	}

	columns := ColumnNames(tbl.Schema())
	tr := array.NewTableReader(tbl, int64(opts.BatchSize))
	defer tr.Release()

	var written int64
	for tr.Next() {
		if err := ctx.Err(); err != nil {
			return written, err
		}
		rows, err := RecordRows(w.Dialect(), tr.Record())
		if err != nil {
			return written, err
		}
		if err := w.WriteBatch(ctx, columns, rows); err != nil {
			return written, fmt.Errorf("writing rows %d-%d: %w", written, written+int64(len(rows)), err)
		}
		written += int64(len(rows))
		if opts.Tracker != nil {
			opts.Tracker.Add(int64(len(rows)))
		}
		logging.Debug("Wrote batch of %d rows (%d/%d)", len(rows), written, tbl.NumRows())
	}
	if err := tr.Err(); err != nil {
		return written, err
	}
	return written, nil
}
