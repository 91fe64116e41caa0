package column

import (
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
)

// SplitChunked splits every chunk of a string column. name is only used in errors.
// On failure every chunk produced so far is released.
func SplitChunked(mem memory.Allocator, name string, in *arrow.Chunked, delim rune) (*arrow.Chunked, error) {
	if !IsText(in.DataType()) {
		return nil, &TypeMismatchError{Column: name, Type: in.DataType()}
	}

	lists := make([]arrow.Array, 0, len(in.Chunks()))
	defer func() {
		for _, l := range lists {
			l.Release()
		}
	}()

	for i, chunk := range in.Chunks() {
		text, err := AsText(name, chunk)
		if err != nil {
			return nil, err
		}
		list, err := Split(mem, text, delim)
		if err != nil {
			return nil, fmt.Errorf("splitting column %q chunk %d: %w", name, i, err)
		}
		lists = append(lists, list)
	}

	// NewChunked retains each chunk; the deferred loop drops our references.
	return arrow.NewChunked(ListType, lists), nil
}

// SplitTable returns a copy of tbl whose column name is replaced by its split
// list column. Other columns are shared with tbl. The caller owns the result.
func SplitTable(mem memory.Allocator, tbl arrow.Table, name string, delim rune) (arrow.Table, error) {
	schema := tbl.Schema()
	indices := schema.FieldIndices(name)
	if len(indices) == 0 {
		return nil, &TypeMismatchError{Column: name}
	}
	idx := indices[0]
	field := schema.Field(idx)
	if !IsText(field.Type) {
		return nil, &TypeMismatchError{Column: name, Type: field.Type}
	}

	split, err := SplitChunked(mem, name, tbl.Column(idx).Data(), delim)
	if err != nil {
		return nil, err
	}
	defer split.Release()

	fields := make([]arrow.Field, 0, tbl.NumCols())
	cols := make([]arrow.Column, 0, tbl.NumCols())
	for i := 0; i < int(tbl.NumCols()); i++ {
		var col *arrow.Column
		if i == idx {
			f := arrow.Field{Name: field.Name, Type: ListType, Nullable: true, Metadata: field.Metadata}
			col = arrow.NewColumn(f, split)
		} else {
			old := tbl.Column(i)
			col = arrow.NewColumn(old.Field(), old.Data())
		}
		fields = append(fields, col.Field())
		cols = append(cols, *col)
	}

	meta := schema.Metadata()
	out := array.NewTable(arrow.NewSchema(fields, &meta), cols, tbl.NumRows())
	for i := range cols {
		cols[i].Release()
	}
	return out, nil
}

// SplitTableColumns applies SplitTable for each name in order.
func SplitTableColumns(mem memory.Allocator, tbl arrow.Table, names []string, delim rune) (arrow.Table, error) {
	tbl.Retain()
	cur := tbl
	for _, name := range names {
		next, err := SplitTable(mem, cur, name, delim)
		cur.Release()
		if err != nil {
			return nil, err
		}
		cur = next
	}
	return cur, nil
}
