// Package typemap maps Arrow column types to SQL column types per target dialect.
package typemap

import (
	"fmt"
	"strings"

	"github.com/apache/arrow-go/v18/arrow"
)

// Dialect identifies a SQL target.
type Dialect string

const (
	Postgres Dialect = "postgres"
	SQLite   Dialect = "sqlite"
	MSSQL    Dialect = "mssql"
)

// ParseDialect resolves a dialect name or alias.
func ParseDialect(name string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "postgres", "postgresql", "pg":
		return Postgres, nil
	case "sqlite", "sqlite3":
		return SQLite, nil
	case "mssql", "sqlserver":
		return MSSQL, nil
	}
	return "", fmt.Errorf("unknown target type %q (want postgres, sqlite or mssql)", name)
}

// NativeLists reports whether the dialect stores list columns as arrays.
// Dialects without arrays store lists as JSON text.
func (d Dialect) NativeLists() bool {
	return d == Postgres
}

// ArrowToSQL returns the column type used for dt on dialect d.
func ArrowToSQL(d Dialect, dt arrow.DataType) string {
	switch d {
	case Postgres:
		return arrowToPostgres(dt)
	case MSSQL:
		return arrowToMSSQL(dt)
	default:
		return arrowToSQLite(dt)
	}
}

func arrowToPostgres(dt arrow.DataType) string {
	switch dt.ID() {
	case arrow.BOOL:
		return "boolean"
	case arrow.INT8, arrow.INT16, arrow.UINT8:
		return "smallint"
	case arrow.INT32, arrow.UINT16:
		return "integer"
	case arrow.INT64, arrow.UINT32:
		return "bigint"
	case arrow.UINT64:
		return "numeric(20,0)"
	case arrow.FLOAT32:
		return "real"
	case arrow.FLOAT64:
		return "double precision"
	case arrow.DATE32, arrow.DATE64:
		return "date"
	case arrow.TIMESTAMP:
		return "timestamp"
	case arrow.BINARY, arrow.LARGE_BINARY:
		return "bytea"
	case arrow.LIST, arrow.LARGE_LIST:
		elem := dt.(arrow.ListLikeType).Elem()
		return arrowToPostgres(elem) + "[]"
	default:
		return "text"
	}
}

func arrowToMSSQL(dt arrow.DataType) string {
	switch dt.ID() {
	case arrow.BOOL:
		return "bit"
	case arrow.INT8, arrow.UINT8:
		return "tinyint"
	case arrow.INT16:
		return "smallint"
	case arrow.INT32, arrow.UINT16:
		return "int"
	case arrow.INT64, arrow.UINT32:
		return "bigint"
	case arrow.UINT64:
		return "decimal(20,0)"
	case arrow.FLOAT32:
		return "real"
	case arrow.FLOAT64:
		return "float"
	case arrow.DATE32, arrow.DATE64:
		return "date"
	case arrow.TIMESTAMP:
		return "datetime2"
	case arrow.BINARY, arrow.LARGE_BINARY:
		return "varbinary(max)"
	default:
		// Strings and JSON-encoded lists.
		return "nvarchar(max)"
	}
}

func arrowToSQLite(dt arrow.DataType) string {
	switch dt.ID() {
	case arrow.BOOL, arrow.INT8, arrow.INT16, arrow.INT32, arrow.INT64,
		arrow.UINT8, arrow.UINT16, arrow.UINT32, arrow.UINT64:
		return "INTEGER"
	case arrow.FLOAT32, arrow.FLOAT64:
		return "REAL"
	case arrow.BINARY, arrow.LARGE_BINARY:
		return "BLOB"
	default:
		return "TEXT"
	}
}
