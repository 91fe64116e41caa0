package target

import (
	"testing"

	"github.com/apache/arrow-go/v18/arrow"

	"github.com/johndauphine/csvlist/internal/typemap"
)

func splitSchema() *arrow.Schema {
	return arrow.NewSchema([]arrow.Field{
		{Name: "id", Type: arrow.PrimitiveTypes.Int64},
		{Name: "Synoniem", Type: arrow.ListOf(arrow.BinaryTypes.String), Nullable: true},
	}, nil)
}

func TestQuoteIdent(t *testing.T) {
	tests := []struct {
		dialect typemap.Dialect
		in      string
		want    string
	}{
		{typemap.Postgres, "words", `"words"`},
		{typemap.Postgres, `we"ird`, `"we""ird"`},
		{typemap.SQLite, "Synoniem", `"Synoniem"`},
		{typemap.MSSQL, "words", "[words]"},
		{typemap.MSSQL, "a]b", "[a]]b]"},
	}
	for _, tt := range tests {
		if got := quoteIdent(tt.dialect, tt.in); got != tt.want {
			t.Errorf("quoteIdent(%v, %q) = %q, want %q", tt.dialect, tt.in, got, tt.want)
		}
	}
}

func TestQualifyTable(t *testing.T) {
	tests := []struct {
		dialect typemap.Dialect
		schema  string
		want    string
	}{
		{typemap.Postgres, "public", `"public"."words"`},
		{typemap.Postgres, "", `"words"`},
		{typemap.MSSQL, "dbo", "[dbo].[words]"},
		{typemap.SQLite, "main", `"words"`},
	}
	for _, tt := range tests {
		if got := qualifyTable(tt.dialect, tt.schema, "words"); got != tt.want {
			t.Errorf("qualifyTable(%v, %q) = %q, want %q", tt.dialect, tt.schema, got, tt.want)
		}
	}
}

func TestCreateTableSQL(t *testing.T) {
	tests := []struct {
		name    string
		dialect typemap.Dialect
		schema  string
		want    string
	}{
		{
			name:    "postgres",
			dialect: typemap.Postgres,
			schema:  "public",
			want: "CREATE TABLE IF NOT EXISTS \"public\".\"words\" (\n" +
				"    \"id\" bigint NOT NULL,\n" +
				"    \"Synoniem\" text[]\n)",
		},
		{
			name:    "sqlite",
			dialect: typemap.SQLite,
			want: "CREATE TABLE IF NOT EXISTS \"words\" (\n" +
				"    \"id\" INTEGER NOT NULL,\n" +
				"    \"Synoniem\" TEXT\n)",
		},
		{
			name:    "mssql",
			dialect: typemap.MSSQL,
			schema:  "dbo",
			want: "IF OBJECT_ID(N'[dbo].[words]', N'U') IS NULL\n" +
				"CREATE TABLE [dbo].[words] (\n" +
				"    [id] bigint NOT NULL,\n" +
				"    [Synoniem] nvarchar(max)\n)",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CreateTableSQL(tt.dialect, tt.schema, "words", splitSchema())
			if got != tt.want {
				t.Errorf("CreateTableSQL() =\n%s\nwant\n%s", got, tt.want)
			}
		})
	}
}

func TestCreateSchemaSQL(t *testing.T) {
	if got := CreateSchemaSQL(typemap.SQLite, "main"); got != "" {
		t.Errorf("CreateSchemaSQL(sqlite) = %q, want empty", got)
	}
	if got := CreateSchemaSQL(typemap.Postgres, ""); got != "" {
		t.Errorf("CreateSchemaSQL(postgres, \"\") = %q, want empty", got)
	}
	if got, want := CreateSchemaSQL(typemap.Postgres, "lex"), `CREATE SCHEMA IF NOT EXISTS "lex"`; got != want {
		t.Errorf("CreateSchemaSQL(postgres) = %q, want %q", got, want)
	}
	if got, want := CreateSchemaSQL(typemap.MSSQL, "lex"), "IF SCHEMA_ID(N'lex') IS NULL EXEC('CREATE SCHEMA [lex]')"; got != want {
		t.Errorf("CreateSchemaSQL(mssql) = %q, want %q", got, want)
	}
}

func TestTruncateSQL(t *testing.T) {
	if got, want := TruncateSQL(typemap.SQLite, "", "words"), `DELETE FROM "words"`; got != want {
		t.Errorf("TruncateSQL(sqlite) = %q, want %q", got, want)
	}
	if got, want := TruncateSQL(typemap.Postgres, "public", "words"), `TRUNCATE TABLE "public"."words"`; got != want {
		t.Errorf("TruncateSQL(postgres) = %q, want %q", got, want)
	}
}

func TestInsertSQL(t *testing.T) {
	cols := []string{"id", "Synoniem"}
	tests := []struct {
		dialect typemap.Dialect
		want    string
	}{
		{typemap.Postgres, `INSERT INTO "public"."words" ("id", "Synoniem") VALUES ($1, $2)`},
		{typemap.MSSQL, `INSERT INTO [public].[words] ([id], [Synoniem]) VALUES (@p1, @p2)`},
		{typemap.SQLite, `INSERT INTO "words" ("id", "Synoniem") VALUES (?, ?)`},
	}
	for _, tt := range tests {
		if got := InsertSQL(tt.dialect, "public", "words", cols); got != tt.want {
			t.Errorf("InsertSQL(%v) = %q, want %q", tt.dialect, got, tt.want)
		}
	}
}
