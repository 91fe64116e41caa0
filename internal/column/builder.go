package column

import (
	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
)

// ListBuilder accumulates a list<item: utf8> column row by row.
//
// The builder owns its inner string builder; sub-tokens are only reachable through
// AppendSubtoken, which adds to the entry opened by the last BeginEntry.
type ListBuilder struct {
	list   *array.ListBuilder
	values *array.StringBuilder
	open   bool
}

// NewListBuilder returns an empty builder allocating from mem.
func NewListBuilder(mem memory.Allocator) *ListBuilder {
	lb := array.NewListBuilder(mem, arrow.BinaryTypes.String)
	return &ListBuilder{
		list:   lb,
		values: lb.ValueBuilder().(*array.StringBuilder),
	}
}

// Reserve ensures room for n more entries.
func (b *ListBuilder) Reserve(n int) {
	b.list.Reserve(n)
}

// AppendNull appends a null entry and closes any open entry.
func (b *ListBuilder) AppendNull() {
	b.list.AppendNull()
	b.open = false
}

// BeginEntry starts a new non-null entry with no sub-tokens.
func (b *ListBuilder) BeginEntry() {
	b.list.Append(true)
	b.open = true
}

// AppendSubtoken adds s to the open entry. It panics if no entry is open.
func (b *ListBuilder) AppendSubtoken(s string) {
	if !b.open {
		panic("column: AppendSubtoken called without BeginEntry")
	}
	b.values.Append(s)
}

// Len returns the number of entries appended so far.
func (b *ListBuilder) Len() int {
	return b.list.Len()
}

// Finish returns the built column and resets the builder.
// The caller owns the returned array and must Release it.
func (b *ListBuilder) Finish() *array.List {
	b.open = false
	return b.list.NewListArray()
}

// Release frees the builder's buffers.
func (b *ListBuilder) Release() {
	b.list.Release()
}
