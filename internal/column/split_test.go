package column

import (
	"errors"
	"strings"
	"testing"

	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/google/go-cmp/cmp"
)

type row struct {
	Null   bool
	Tokens []string
}

func str(s string) *string { return &s }

func newText(t *testing.T, mem memory.Allocator, values []*string) *array.String {
	t.Helper()
	b := array.NewStringBuilder(mem)
	defer b.Release()
	for _, v := range values {
		if v == nil {
			b.AppendNull()
			continue
		}
		b.Append(*v)
	}
	return b.NewStringArray()
}

func rows(list *array.List) []row {
	out := make([]row, list.Len())
	for i := range out {
		if list.IsNull(i) {
			out[i] = row{Null: true}
			continue
		}
		out[i] = row{Tokens: Tokens(list, i)}
	}
	return out
}

func TestSplit(t *testing.T) {
	tests := []struct {
		name  string
		input []*string
		delim rune
		want  []row
	}{
		{
			name:  "mixed rows",
			input: []*string{str("a;b;c"), str(""), nil, str("x")},
			delim: ';',
			want: []row{
				{Tokens: []string{"a", "b", "c"}},
				{Tokens: []string{""}},
				{Null: true},
				{Tokens: []string{"x"}},
			},
		},
		{
			name:  "adjacent delimiters",
			input: []*string{str("a;;b")},
			delim: ';',
			want:  []row{{Tokens: []string{"a", "", "b"}}},
		},
		{
			name:  "empty column",
			input: nil,
			delim: ';',
			want:  []row{},
		},
		{
			name:  "leading and trailing delimiters",
			input: []*string{str(";a;")},
			delim: ';',
			want:  []row{{Tokens: []string{"", "a", ""}}},
		},
		{
			name:  "only delimiters",
			input: []*string{str(";;")},
			delim: ';',
			want:  []row{{Tokens: []string{"", "", ""}}},
		},
		{
			name:  "all null",
			input: []*string{nil, nil},
			delim: ';',
			want:  []row{{Null: true}, {Null: true}},
		},
		{
			name:  "field delimiter is plain text",
			input: []*string{str("a|b;c")},
			delim: ';',
			want:  []row{{Tokens: []string{"a|b", "c"}}},
		},
		{
			name:  "multibyte delimiter",
			input: []*string{str("zoë·kat·hond")},
			delim: '·',
			want:  []row{{Tokens: []string{"zoë", "kat", "hond"}}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
			defer mem.AssertSize(t, 0)

			in := newText(t, mem, tt.input)
			defer in.Release()

			got, err := Split(mem, in, tt.delim)
			if err != nil {
				t.Fatalf("Split() error = %v", err)
			}
			defer got.Release()

			if diff := cmp.Diff(tt.want, rows(got)); diff != "" {
				t.Errorf("Split() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSplitProperties(t *testing.T) {
	values := []*string{
		str("alpha;beta"), nil, str(""), str(";"), str("no delimiter here"),
		str("a;;;b"), nil, str("trailing;"), str("x;y;z;w;v"),
	}
	const delim = ';'

	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	defer mem.AssertSize(t, 0)

	in := newText(t, mem, values)
	defer in.Release()

	got, err := Split(mem, in, delim)
	if err != nil {
		t.Fatalf("Split() error = %v", err)
	}
	defer got.Release()

	if got.Len() != in.Len() {
		t.Fatalf("Split() len = %d, want %d", got.Len(), in.Len())
	}
	for i := 0; i < in.Len(); i++ {
		if in.IsNull(i) != got.IsNull(i) {
			t.Errorf("row %d: null = %v, want %v", i, got.IsNull(i), in.IsNull(i))
			continue
		}
		if in.IsNull(i) {
			continue
		}
		joined, ok := Join(got, i, delim)
		if !ok || joined != in.Value(i) {
			t.Errorf("row %d: Join() = %q, want %q", i, joined, in.Value(i))
		}
		want := strings.Count(in.Value(i), string(delim)) + 1
		if n := len(Tokens(got, i)); n != want {
			t.Errorf("row %d: %d tokens, want %d", i, n, want)
		}
	}
}

func TestSplitInvalidDelimiter(t *testing.T) {
	mem := memory.NewGoAllocator()
	in := newText(t, mem, []*string{str("a")})
	defer in.Release()

	for _, d := range []rune{0xFFFD, -1, 0x110000} {
		if _, err := Split(mem, in, d); !errors.Is(err, ErrInvalidDelimiter) {
			t.Errorf("Split(%U) error = %v, want ErrInvalidDelimiter", d, err)
		}
	}
}

func TestSplitAllocationLimit(t *testing.T) {
	tests := []struct {
		name  string
		limit int
		input []*string
	}{
		{
			name:  "offsets do not fit",
			limit: 16,
			input: []*string{str("a;b"), str("c")},
		},
		{
			name:  "values do not fit",
			limit: 1024,
			input: []*string{str(strings.Repeat("token;", 1000))},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checked := memory.NewCheckedAllocator(memory.NewGoAllocator())
			defer checked.AssertSize(t, 0)

			in := newText(t, checked, tt.input)
			defer in.Release()

			lim := NewLimitedAllocator(checked, tt.limit)
			got, err := Split(lim, in, ';')
			if err == nil {
				got.Release()
				t.Fatal("Split() expected allocation error")
			}
			if !errors.Is(err, ErrAllocation) {
				t.Errorf("Split() error = %v, want ErrAllocation", err)
			}
			var ae *AllocationError
			if !errors.As(err, &ae) || ae.Limit != tt.limit {
				t.Errorf("Split() error = %#v, want *AllocationError with limit %d", err, tt.limit)
			}
			if got != nil {
				t.Error("Split() returned partial output")
			}
			if lim.InUse() != 0 {
				t.Errorf("LimitedAllocator.InUse() = %d after failure, want 0", lim.InUse())
			}
		})
	}
}

func TestSplitWithinLimit(t *testing.T) {
	mem := memory.NewGoAllocator()
	in := newText(t, mem, []*string{str("a;b"), nil})
	defer in.Release()

	lim := NewLimitedAllocator(mem, 1<<20)
	got, err := Split(lim, in, ';')
	if err != nil {
		t.Fatalf("Split() error = %v", err)
	}
	if lim.InUse() == 0 {
		t.Error("LimitedAllocator.InUse() = 0 while result is live")
	}
	got.Release()
	if lim.InUse() != 0 {
		t.Errorf("LimitedAllocator.InUse() = %d after release, want 0", lim.InUse())
	}
}
