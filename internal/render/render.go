// Package render writes tables to a text stream.
package render

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
)

// Format selects an output encoding.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// Table writes tbl to w in the given format.
func Table(w io.Writer, tbl arrow.Table, format Format) error {
	switch format {
	case FormatJSON:
		return JSON(w, tbl)
	case FormatText, "":
		return Text(w, tbl)
	}
	return fmt.Errorf("unknown output format %q", format)
}

// Text writes the schema followed by every column, one line per chunk.
func Text(w io.Writer, tbl arrow.Table) error {
	var sb strings.Builder
	for _, f := range tbl.Schema().Fields() {
		fmt.Fprintf(&sb, "%s: %s\n", f.Name, f.Type)
	}
	sb.WriteString("----\n")
	for i, f := range tbl.Schema().Fields() {
		fmt.Fprintf(&sb, "%s:\n", f.Name)
		chunks := tbl.Column(i).Data().Chunks()
		if len(chunks) == 0 {
			sb.WriteString("  []\n")
		}
		for _, chunk := range chunks {
			sb.WriteString("  ")
			writeArray(&sb, chunk)
			sb.WriteByte('\n')
		}
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

// Array writes a single array in the same notation Text uses.
func Array(w io.Writer, arr arrow.Array) error {
	var sb strings.Builder
	writeArray(&sb, arr)
	sb.WriteByte('\n')
	_, err := io.WriteString(w, sb.String())
	return err
}

func writeArray(sb *strings.Builder, arr arrow.Array) {
	sb.WriteByte('[')
	for i := 0; i < arr.Len(); i++ {
		if i > 0 {
			sb.WriteString(", ")
		}
		writeValue(sb, arr, i)
	}
	sb.WriteByte(']')
}

func writeValue(sb *strings.Builder, arr arrow.Array, i int) {
	if arr.IsNull(i) {
		sb.WriteString("null")
		return
	}
	switch a := arr.(type) {
	case *array.String:
		sb.WriteString(strconv.Quote(a.Value(i)))
	case *array.LargeString:
		sb.WriteString(strconv.Quote(a.Value(i)))
	case *array.List:
		start, end := a.ValueOffsets(i)
		values := array.NewSlice(a.ListValues(), start, end)
		defer values.Release()
		writeArray(sb, values)
	default:
		sb.WriteString(arr.ValueStr(i))
	}
}

// JSON writes one JSON object per row.
func JSON(w io.Writer, tbl arrow.Table) error {
	tr := array.NewTableReader(tbl, 0)
	defer tr.Release()

	for tr.Next() {
		if err := array.RecordToJSON(tr.Record(), w); err != nil {
			return fmt.Errorf("encoding rows: %w", err)
		}
	}
	return tr.Err()
}
