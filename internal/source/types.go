package source

import (
	"fmt"
	"sort"
	"strings"

	"github.com/apache/arrow-go/v18/arrow"
)

var typeNames = map[string]arrow.DataType{
	"utf8":       arrow.BinaryTypes.String,
	"string":     arrow.BinaryTypes.String,
	"large_utf8": arrow.BinaryTypes.LargeString,
	"int64":      arrow.PrimitiveTypes.Int64,
	"int32":      arrow.PrimitiveTypes.Int32,
	"float64":    arrow.PrimitiveTypes.Float64,
	"bool":       arrow.FixedWidthTypes.Boolean,
	"date32":     arrow.FixedWidthTypes.Date32,
}

// ParseType maps a configured column type name to an Arrow type.
func ParseType(name string) (arrow.DataType, error) {
	if dt, ok := typeNames[strings.ToLower(strings.TrimSpace(name))]; ok {
		return dt, nil
	}
	known := make([]string, 0, len(typeNames))
	for k := range typeNames {
		known = append(known, k)
	}
	sort.Strings(known)
	return nil, fmt.Errorf("unknown column type %q (want one of %s)", name, strings.Join(known, ", "))
}

// ParseTypes maps every entry of names through ParseType.
func ParseTypes(names map[string]string) (map[string]arrow.DataType, error) {
	if len(names) == 0 {
		return nil, nil
	}
	out := make(map[string]arrow.DataType, len(names))
	for col, name := range names {
		dt, err := ParseType(name)
		if err != nil {
			return nil, fmt.Errorf("column %q: %w", col, err)
		}
		out[col] = dt
	}
	return out, nil
}
