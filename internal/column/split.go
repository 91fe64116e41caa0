package column

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
)

// Split converts in into a list column by splitting every non-null value on delim.
//
// Consecutive delimiters produce empty tokens, a value without delim produces a
// single token, and "" produces [""]. Null values produce null entries. The caller
// owns the returned array and must Release it.
func Split(mem memory.Allocator, in Text, delim rune) (_ *array.List, err error) {
	if err := checkDelimiter(delim); err != nil {
		return nil, err
	}
	if mem == nil {
		mem = memory.DefaultAllocator
	}

	b := NewListBuilder(mem)
	defer b.Release()
	defer recoverAllocation(&err)

	n := in.Len()
	b.Reserve(n)
	for i := 0; i < n; i++ {
		if in.IsNull(i) {
			b.AppendNull()
			continue
		}
		b.BeginEntry()
		appendTokens(b, in.Value(i), delim)
	}
	return b.Finish(), nil
}

func appendTokens(b *ListBuilder, s string, delim rune) {
	width := utf8.RuneLen(delim)
	for {
		j := strings.IndexRune(s, delim)
		if j < 0 {
			b.AppendSubtoken(s)
			return
		}
		b.AppendSubtoken(s[:j])
		s = s[j+width:]
	}
}

func checkDelimiter(delim rune) error {
	if delim == utf8.RuneError || !utf8.ValidRune(delim) {
		return fmt.Errorf("%w: %q", ErrInvalidDelimiter, delim)
	}
	return nil
}

// Tokens returns the sub-tokens of row i, or nil if the row is null.
func Tokens(list *array.List, i int) []string {
	if list.IsNull(i) {
		return nil
	}
	values := list.ListValues().(*array.String)
	start, end := list.ValueOffsets(i)
	out := make([]string, 0, end-start)
	for j := start; j < end; j++ {
		out = append(out, values.Value(int(j)))
	}
	return out
}

// Join reverses Split for row i. ok is false if the row is null.
func Join(list *array.List, i int, delim rune) (s string, ok bool) {
	if list.IsNull(i) {
		return "", false
	}
	return strings.Join(Tokens(list, i), string(delim)), true
}
