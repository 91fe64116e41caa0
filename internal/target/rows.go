package target

import (
	"encoding/json"
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"

	"github.com/johndauphine/csvlist/internal/typemap"
)

// ColumnNames returns the field names of s in order.
func ColumnNames(s *arrow.Schema) []string {
	names := make([]string, len(s.Fields()))
	for i, f := range s.Fields() {
		names[i] = f.Name
	}
	return names
}

// RecordRows converts rec into driver values for dialect d.
// Nulls become nil. List columns become []string where d has native arrays
// and a JSON array string elsewhere.
func RecordRows(d typemap.Dialect, rec arrow.Record) ([][]any, error) {
	rows := make([][]any, rec.NumRows())
	for i := range rows {
		rows[i] = make([]any, rec.NumCols())
	}
	for j, col := range rec.Columns() {
		for i := range rows {
			v, err := value(d, col, i)
			if err != nil {
				return nil, fmt.Errorf("column %q row %d: %w", rec.ColumnName(j), i, err)
			}
			rows[i][j] = v
		}
	}
	return rows, nil
}

func value(d typemap.Dialect, arr arrow.Array, i int) (any, error) {
	if arr.IsNull(i) {
		return nil, nil
	}
	switch a := arr.(type) {
	case *array.String:
		return a.Value(i), nil
	case *array.LargeString:
		return a.Value(i), nil
	case *array.Int64:
		return a.Value(i), nil
	case *array.Int32:
		return a.Value(i), nil
	case *array.Float64:
		return a.Value(i), nil
	case *array.Boolean:
		return a.Value(i), nil
	case *array.Date32:
		return a.Value(i).ToTime(), nil
	case *array.List:
		tokens, err := listStrings(a, i)
		if err != nil {
			return nil, err
		}
		if d.NativeLists() {
			return tokens, nil
		}
		b, err := json.Marshal(tokens)
		if err != nil {
			return nil, err
		}
		return string(b), nil
	default:
		return arr.ValueStr(i), nil
	}
}

func listStrings(l *array.List, i int) ([]string, error) {
	start, end := l.ValueOffsets(i)
	values := l.ListValues()
	out := make([]string, 0, end-start)
	for j := start; j < end; j++ {
		if values.IsNull(int(j)) {
			return nil, fmt.Errorf("null list element at %d", j)
		}
		switch v := values.(type) {
		case *array.String:
			out = append(out, v.Value(int(j)))
		case *array.LargeString:
			out = append(out, v.Value(int(j)))
		default:
			out = append(out, values.ValueStr(int(j)))
		}
	}
	return out, nil
}
