package target

import (
	"strings"

	"github.com/johndauphine/csvlist/internal/typemap"
)

// quotePGIdent safely quotes a PostgreSQL or SQLite identifier, escaping embedded quotes.
func quotePGIdent(ident string) string {
	return `"` + strings.ReplaceAll(ident, `"`, `""`) + `"`
}

// quoteMSSQLIdent safely quotes a SQL Server identifier, escaping embedded ].
func quoteMSSQLIdent(ident string) string {
	return "[" + strings.ReplaceAll(ident, "]", "]]") + "]"
}

func quoteIdent(d typemap.Dialect, ident string) string {
	if d == typemap.MSSQL {
		return quoteMSSQLIdent(ident)
	}
	return quotePGIdent(ident)
}

// qualifyTable returns schema.table quoted for d. SQLite has no schemas.
func qualifyTable(d typemap.Dialect, schema, table string) string {
	if d == typemap.SQLite || schema == "" {
		return quoteIdent(d, table)
	}
	return quoteIdent(d, schema) + "." + quoteIdent(d, table)
}

func quoteIdents(d typemap.Dialect, idents []string) string {
	quoted := make([]string, len(idents))
	for i, id := range idents {
		quoted[i] = quoteIdent(d, id)
	}
	return strings.Join(quoted, ", ")
}
