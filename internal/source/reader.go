// Package source reads delimited text into Arrow tables.
package source

import (
	"bufio"
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	arrowcsv "github.com/apache/arrow-go/v18/arrow/csv"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/johndauphine/csvlist/internal/logging"
)

// DefaultChunkSize is the number of rows per record batch.
const DefaultChunkSize = 4096

// Options controls how delimited input is parsed.
type Options struct {
	// Delimiter separates fields. Defaults to '|'.
	Delimiter rune

	// NullValues lists cell contents read as null. When empty, string cells are
	// never null and only non-string columns treat empty cells as null.
	NullValues []string

	// ColumnTypes overrides the type of named columns. Unlisted columns are utf8.
	ColumnTypes map[string]arrow.DataType

	// ChunkSize is the number of rows per record batch.
	ChunkSize int

	// LazyQuotes allows quotes inside unquoted fields.
	LazyQuotes bool

	// Allocator is used for all column buffers. Defaults to memory.DefaultAllocator.
	Allocator memory.Allocator
}

func (o Options) withDefaults() Options {
	if o.Delimiter == 0 {
		o.Delimiter = '|'
	}
	if o.ChunkSize <= 0 {
		o.ChunkSize = DefaultChunkSize
	}
	if o.Allocator == nil {
		o.Allocator = memory.DefaultAllocator
	}
	return o
}

// ReadFile opens path and reads it with Read.
func ReadFile(ctx context.Context, path string, opts Options) (arrow.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &SourceUnavailableError{Path: path, Err: err}
	}
	defer f.Close()

	tbl, err := Read(ctx, f, opts)
	if err != nil {
		var se *SourceUnavailableError
		if errors.As(err, &se) && se.Path == "" {
			se.Path = path
		}
		return nil, err
	}
	return tbl, nil
}

// Read parses delimited records with a header row from r into a table.
// Blank lines before the header are skipped.
// The caller owns the returned table and must Release it.
func Read(ctx context.Context, r io.Reader, opts Options) (arrow.Table, error) {
	opts = opts.withDefaults()

	br := bufio.NewReader(r)
	if bom, err := br.Peek(3); err == nil && string(bom) == "\ufeff" {
		_, _ = br.Discard(3)
	}

	// The header reader buffers ahead; consumed is replayed to arrow from
	// the end of the header record on.
	var consumed bytes.Buffer
	hr := csv.NewReader(io.TeeReader(br, &consumed))
	hr.Comma = opts.Delimiter
	hr.LazyQuotes = opts.LazyQuotes
	hr.FieldsPerRecord = -1
	names, err := hr.Read()
	if err == io.EOF {
		return nil, &SourceUnavailableError{Err: fmt.Errorf("missing header row")}
	}
	if err != nil {
		return nil, &SourceUnavailableError{Err: fmt.Errorf("parsing header: %w", err)}
	}
	schema, err := headerSchema(names, opts)
	if err != nil {
		return nil, &SourceUnavailableError{Err: err}
	}
	body := io.MultiReader(bytes.NewReader(consumed.Bytes()[hr.InputOffset():]), br)

	readerOpts := []arrowcsv.Option{
		arrowcsv.WithComma(opts.Delimiter),
		arrowcsv.WithHeader(false),
		arrowcsv.WithChunk(opts.ChunkSize),
		arrowcsv.WithAllocator(opts.Allocator),
		arrowcsv.WithLazyQuotes(opts.LazyQuotes),
	}
	if len(opts.NullValues) > 0 {
		readerOpts = append(readerOpts, arrowcsv.WithNullReader(true, opts.NullValues...))
	}

	rdr := arrowcsv.NewReader(body, schema, readerOpts...)
	defer rdr.Release()

	var recs []arrow.Record
	release := func() {
		for _, rec := range recs {
			rec.Release()
		}
	}
	for rdr.Next() {
		if err := ctx.Err(); err != nil {
			release()
			return nil, err
		}
		rec := rdr.Record()
		rec.Retain()
		recs = append(recs, rec)
	}
	if err := rdr.Err(); err != nil {
		release()
		return nil, &SourceUnavailableError{Err: err}
	}

	tbl := array.NewTableFromRecords(schema, recs)
	release()

	logging.Debug("Read %d rows in %d batches (%d columns)", tbl.NumRows(), len(recs), tbl.NumCols())
	return tbl, nil
}

// headerSchema builds the table schema from the header names.
func headerSchema(names []string, opts Options) (*arrow.Schema, error) {
	if len(names) == 1 && strings.TrimSpace(names[0]) == "" {
		return nil, fmt.Errorf("missing header row")
	}

	seen := make(map[string]bool, len(names))
	fields := make([]arrow.Field, len(names))
	for i, name := range names {
		if seen[name] {
			return nil, fmt.Errorf("duplicate column %q in header", name)
		}
		seen[name] = true

		dt := arrow.DataType(arrow.BinaryTypes.String)
		if override, ok := opts.ColumnTypes[name]; ok {
			dt = override
		}
		fields[i] = arrow.Field{Name: name, Type: dt, Nullable: true}
	}
	for name := range opts.ColumnTypes {
		if !seen[name] {
			logging.Warn("Column type override for %q has no matching header column", name)
		}
	}
	return arrow.NewSchema(fields, nil), nil
}
