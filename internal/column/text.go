// Package column converts delimited string columns into list columns.
//
// Columns are Apache Arrow arrays. A text column is any string-typed array; the
// result of a split is a list<item: utf8> array with one entry per input row.
package column

import (
	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
)

// Text is a read-only, nullable sequence of strings in row order.
type Text interface {
	Len() int
	IsNull(i int) bool
	Value(i int) string
}

var (
	_ Text = (*array.String)(nil)
	_ Text = (*array.LargeString)(nil)
)

// ListType is the Arrow type produced by Split.
var ListType = arrow.ListOf(arrow.BinaryTypes.String)

// IsText reports whether values of dt can be split.
func IsText(dt arrow.DataType) bool {
	switch dt.ID() {
	case arrow.STRING, arrow.LARGE_STRING:
		return true
	}
	return false
}

// AsText returns arr as a Text column, or a TypeMismatchError naming name
// if arr is not string-typed.
func AsText(name string, arr arrow.Array) (Text, error) {
	switch a := arr.(type) {
	case *array.String:
		return a, nil
	case *array.LargeString:
		return a, nil
	}
	return nil, &TypeMismatchError{Column: name, Type: arr.DataType()}
}
