package source

import (
	"github.com/apache/arrow-go/v18/arrow"
)

// Table describes a loaded table's shape.
type Table struct {
	Name     string   `json:"name"`
	Columns  []Column `json:"columns"`
	RowCount int64    `json:"row_count"`
	Chunks   int      `json:"chunks"`
}

// Column describes one column of a loaded table.
type Column struct {
	Name       string `json:"name"`
	DataType   string `json:"data_type"`
	IsNullable bool   `json:"is_nullable"`
	NullCount  int    `json:"null_count"`
	OrdinalPos int    `json:"ordinal_position"`
}

// Describe summarizes tbl under the given name.
func Describe(name string, tbl arrow.Table) *Table {
	t := &Table{Name: name, RowCount: tbl.NumRows()}
	for i, f := range tbl.Schema().Fields() {
		data := tbl.Column(i).Data()
		if i == 0 {
			t.Chunks = len(data.Chunks())
		}
		t.Columns = append(t.Columns, Column{
			Name:       f.Name,
			DataType:   f.Type.String(),
			IsNullable: f.Nullable,
			NullCount:  data.NullN(),
			OrdinalPos: i + 1,
		})
	}
	return t
}

// HasColumn reports whether the table has a column called name.
func (t *Table) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if c.Name == name {
			return true
		}
	}
	return false
}
