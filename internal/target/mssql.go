package target

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	mssql "github.com/microsoft/go-mssqldb"

	"github.com/johndauphine/csvlist/internal/logging"
	"github.com/johndauphine/csvlist/internal/typemap"
)

// MSSQLWriter writes to SQL Server with TDS bulk copy.
// List columns are stored as JSON array text in nvarchar(max).
type MSSQLWriter struct {
	db     *sql.DB
	schema string
	table  string
}

// NewMSSQLWriter opens a connection pool and verifies it with a ping.
func NewMSSQLWriter(ctx context.Context, dsn, schema, table string) (*MSSQLWriter, error) {
	db, err := sql.Open("sqlserver", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening connection: %w", err)
	}
	db.SetMaxOpenConns(2)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	logging.Debug("Connected to MSSQL target for %s.%s", schema, table)
	return &MSSQLWriter{db: db, schema: schema, table: table}, nil
}

// Dialect implements Writer.
func (w *MSSQLWriter) Dialect() typemap.Dialect { return typemap.MSSQL }

// Prepare implements Writer.
func (w *MSSQLWriter) Prepare(ctx context.Context, s *arrow.Schema, truncate bool) error {
	if stmt := CreateSchemaSQL(typemap.MSSQL, w.schema); stmt != "" {
		if _, err := w.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("creating schema %s: %w", w.schema, err)
		}
	}
	if _, err := w.db.ExecContext(ctx, CreateTableSQL(typemap.MSSQL, w.schema, w.table, s)); err != nil {
		return fmt.Errorf("creating table %s.%s: %w", w.schema, w.table, err)
	}
	if truncate {
		if _, err := w.db.ExecContext(ctx, TruncateSQL(typemap.MSSQL, w.schema, w.table)); err != nil {
			return fmt.Errorf("truncating table %s.%s: %w", w.schema, w.table, err)
		}
	}
	return nil
}

// WriteBatch implements Writer using TDS bulk copy.
func (w *MSSQLWriter) WriteBatch(ctx context.Context, columns []string, rows [][]any) error {
	if len(rows) == 0 {
		return nil
	}

	conn, err := w.db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("getting connection: %w", err)
	}
	defer conn.Close()

	fullTableName := qualifyTable(typemap.MSSQL, w.schema, w.table)
	err = conn.Raw(func(driverConn any) error {
		mssqlConn, ok := driverConn.(*mssql.Conn)
		if !ok {
			return fmt.Errorf("expected *mssql.Conn, got %T", driverConn)
		}

		bulk := mssqlConn.CreateBulkContext(ctx, fullTableName, columns)
		bulk.Options.Tablock = true
		bulk.Options.RowsPerBatch = len(rows)

		for _, row := range rows {
			if err := bulk.AddRow(row); err != nil {
				return fmt.Errorf("adding row: %w", err)
			}
		}

		rowsAffected, err := bulk.Done()
		if err != nil {
			return fmt.Errorf("finalizing bulk insert: %w", err)
		}
		if rowsAffected != int64(len(rows)) {
			return fmt.Errorf("bulk insert: expected %d rows, got %d", len(rows), rowsAffected)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("bulk copy: %w", err)
	}
	return nil
}

// Close implements Writer.
func (w *MSSQLWriter) Close() error {
	return w.db.Close()
}
