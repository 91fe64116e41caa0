package target

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
	_ "modernc.org/sqlite"

	"github.com/johndauphine/csvlist/internal/logging"
	"github.com/johndauphine/csvlist/internal/typemap"
)

// SQLiteWriter writes to a SQLite database file.
// List columns are stored as JSON array text.
type SQLiteWriter struct {
	db    *sql.DB
	table string
}

// NewSQLiteWriter opens (creating if needed) the database at path.
func NewSQLiteWriter(ctx context.Context, path, table string) (*SQLiteWriter, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging %s: %w", path, err)
	}

	logging.Debug("Opened SQLite target: %s", path)
	return &SQLiteWriter{db: db, table: table}, nil
}

// Dialect implements Writer.
func (w *SQLiteWriter) Dialect() typemap.Dialect { return typemap.SQLite }

// DB returns the underlying database handle.
func (w *SQLiteWriter) DB() *sql.DB { return w.db }

// Prepare implements Writer.
func (w *SQLiteWriter) Prepare(ctx context.Context, s *arrow.Schema, truncate bool) error {
	if _, err := w.db.ExecContext(ctx, CreateTableSQL(typemap.SQLite, "", w.table, s)); err != nil {
		return fmt.Errorf("creating table %s: %w", w.table, err)
	}
	if truncate {
		if _, err := w.db.ExecContext(ctx, TruncateSQL(typemap.SQLite, "", w.table)); err != nil {
			return fmt.Errorf("clearing table %s: %w", w.table, err)
		}
	}
	return nil
}

// WriteBatch implements Writer with one transaction per batch.
func (w *SQLiteWriter) WriteBatch(ctx context.Context, columns []string, rows [][]any) error {
	if len(rows) == 0 {
		return nil
	}

	tx, err := w.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, InsertSQL(typemap.SQLite, "", w.table, columns))
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, row := range rows {
		if _, err := stmt.ExecContext(ctx, row...); err != nil {
			return fmt.Errorf("inserting row: %w", err)
		}
	}
	return tx.Commit()
}

// Close implements Writer.
func (w *SQLiteWriter) Close() error {
	return w.db.Close()
}
