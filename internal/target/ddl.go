package target

import (
	"fmt"
	"strings"

	"github.com/apache/arrow-go/v18/arrow"

	"github.com/johndauphine/csvlist/internal/typemap"
)

// CreateTableSQL returns an idempotent CREATE TABLE statement for s.
func CreateTableSQL(d typemap.Dialect, schema, table string, s *arrow.Schema) string {
	cols := make([]string, 0, len(s.Fields()))
	for _, f := range s.Fields() {
		col := quoteIdent(d, f.Name) + " " + typemap.ArrowToSQL(d, f.Type)
		if !f.Nullable {
			col += " NOT NULL"
		}
		cols = append(cols, col)
	}
	qualified := qualifyTable(d, schema, table)
	body := fmt.Sprintf("CREATE TABLE %s (\n    %s\n)", qualified, strings.Join(cols, ",\n    "))

	if d == typemap.MSSQL {
		return fmt.Sprintf("IF OBJECT_ID(N'%s', N'U') IS NULL\n%s",
			strings.ReplaceAll(qualified, "'", "''"), body)
	}
	return strings.Replace(body, "CREATE TABLE", "CREATE TABLE IF NOT EXISTS", 1)
}

// CreateSchemaSQL returns a statement creating schema, or "" if d has no schemas.
func CreateSchemaSQL(d typemap.Dialect, schema string) string {
	switch {
	case schema == "" || d == typemap.SQLite:
		return ""
	case d == typemap.MSSQL:
		return fmt.Sprintf("IF SCHEMA_ID(N'%s') IS NULL EXEC('CREATE SCHEMA %s')",
			strings.ReplaceAll(schema, "'", "''"),
			strings.ReplaceAll(quoteMSSQLIdent(schema), "'", "''"))
	default:
		return "CREATE SCHEMA IF NOT EXISTS " + quotePGIdent(schema)
	}
}

// TruncateSQL returns a statement removing every row of the table.
func TruncateSQL(d typemap.Dialect, schema, table string) string {
	if d == typemap.SQLite {
		return "DELETE FROM " + qualifyTable(d, schema, table)
	}
	return "TRUNCATE TABLE " + qualifyTable(d, schema, table)
}

// InsertSQL returns a parameterized single-row INSERT for the given columns.
func InsertSQL(d typemap.Dialect, schema, table string, columns []string) string {
	params := make([]string, len(columns))
	for i := range params {
		switch d {
		case typemap.Postgres:
			params[i] = fmt.Sprintf("$%d", i+1)
		case typemap.MSSQL:
			params[i] = fmt.Sprintf("@p%d", i+1)
		default:
			params[i] = "?"
		}
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		qualifyTable(d, schema, table), quoteIdents(d, columns), strings.Join(params, ", "))
}
