package jsonpath

import (
	"encoding/json"
	"errors"
	"math"
	"reflect"
	"testing"

	theory "github.com/theory/jsonpath"

	"github.com/jacoelho/jp/internal/document"
	"github.com/jacoelho/jp/internal/function"
)

const storeJSON = `{
  "store": {
    "book": [
      { "category": "reference", "author": "Nigel Rees", "title": "Sayings of the Century", "price": 8.95 },
      { "category": "fiction", "author": "Evelyn Waugh", "title": "Sword of Honour", "price": 12.99 },
      { "category": "fiction", "author": "Herman Melville", "title": "Moby Dick", "isbn": "0-553-21311-3", "price": 8.99 },
      { "category": "fiction", "author": "J. R. R. Tolkien", "title": "The Lord of the Rings", "isbn": "0-395-19395-8", "price": 22.99 }
    ],
    "bicycle": { "color": "red", "price": 19.95 }
  }
}`

func storeDoc(t *testing.T) document.Value {
	t.Helper()

	doc, err := document.Decode([]byte(storeJSON))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	return doc
}

func selectInterface(t *testing.T, doc document.Value, expr string) []any {
	t.Helper()

	q, err := Compile(expr)
	if err != nil {
		t.Fatalf("Compile(%q) error = %v", expr, err)
	}

	got, err := q.SelectInterface(doc)
	if err != nil {
		t.Fatalf("Select(%q) error = %v", expr, err)
	}
	return got
}

func TestSelect(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  []any
	}{
		{
			name:  "root",
			query: "$.store.bicycle.color",
			want:  []any{"red"},
		},
		{
			name:  "bracket_names",
			query: "$['store']['bicycle']['color']",
			want:  []any{"red"},
		},
		{
			name:  "wildcard_authors",
			query: "$.store.book[*].author",
			want:  []any{"Nigel Rees", "Evelyn Waugh", "Herman Melville", "J. R. R. Tolkien"},
		},
		{
			name:  "recursive_authors",
			query: "$..author",
			want:  []any{"Nigel Rees", "Evelyn Waugh", "Herman Melville", "J. R. R. Tolkien"},
		},
		{
			name:  "recursive_prices",
			query: "$.store..price",
			want:  []any{8.95, 12.99, 8.99, 22.99, 19.95},
		},
		{
			name:  "index",
			query: "$..book[2].author",
			want:  []any{"Herman Melville"},
		},
		{
			name:  "negative_index",
			query: "$.store.book[-1].title",
			want:  []any{"The Lord of the Rings"},
		},
		{
			name:  "index_union",
			query: "$..book[0,1].title",
			want:  []any{"Sayings of the Century", "Sword of Honour"},
		},
		{
			name:  "name_union",
			query: "$.store.book[0]['author','title']",
			want:  []any{"Nigel Rees", "Sayings of the Century"},
		},
		{
			name:  "slice_prefix",
			query: "$..book[:2].title",
			want:  []any{"Sayings of the Century", "Sword of Honour"},
		},
		{
			name:  "slice_range",
			query: "$..book[1:3].title",
			want:  []any{"Sword of Honour", "Moby Dick"},
		},
		{
			name:  "slice_step",
			query: "$..book[::2].title",
			want:  []any{"Sayings of the Century", "Moby Dick"},
		},
		{
			name:  "slice_negative_step",
			query: "$..book[3:1:-1].title",
			want:  []any{"The Lord of the Rings", "Moby Dick"},
		},
		{
			name:  "missing_member",
			query: "$..book[2].publisher",
			want:  []any{},
		},
		{
			name:  "filter_less_than",
			query: "$.store.book[?(@.price < 10)].title",
			want:  []any{"Sayings of the Century", "Moby Dick"},
		},
		{
			name:  "filter_equality",
			query: "$.store.book[?(@.category == 'fiction')].author",
			want:  []any{"Evelyn Waugh", "Herman Melville", "J. R. R. Tolkien"},
		},
		{
			name:  "filter_existence",
			query: "$.store.book[?(@.isbn)].title",
			want:  []any{"Moby Dick", "The Lord of the Rings"},
		},
		{
			name:  "filter_regex",
			query: "$.store.book[?(@.author =~ /tolkien/i)].title",
			want:  []any{"The Lord of the Rings"},
		},
	}

	doc := storeDoc(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := selectInterface(t, doc, tt.query)
			if len(got) == 0 && len(tt.want) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Select(%q) = %v, want %v", tt.query, got, tt.want)
			}
		})
	}
}

func TestSelectFunctions(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  float64
	}{
		{name: "max", query: "max($.store.book[*].price)", want: 22.99},
		{name: "min", query: "min($.store.book[*].price)", want: 8.95},
		{name: "sum", query: "sum($.store.book[*].price)", want: 53.92},
		{name: "avg", query: "avg($.store.book[*].price)", want: 13.48},
		{name: "count", query: "count($.store.book[*])", want: 4},
		{name: "prod", query: "prod($.store.book[:2].price)", want: 8.95 * 12.99},
	}

	doc := storeDoc(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := selectInterface(t, doc, tt.query)
			if len(got) != 1 {
				t.Fatalf("Select(%q) returned %d values, want 1", tt.query, len(got))
			}

			n, ok := got[0].(float64)
			if !ok {
				t.Fatalf("Select(%q) = %T, want float64", tt.query, got[0])
			}
			if math.Abs(n-tt.want) > 1e-9 {
				t.Errorf("Select(%q) = %v, want %v", tt.query, n, tt.want)
			}
		})
	}
}

func TestSelectTokenize(t *testing.T) {
	doc, err := document.Decode([]byte(`{"subject": "a,b,,c", "separator": ","}`))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	got := selectInterface(t, doc, "tokenize($.subject, $.separator)")
	want := []any{[]any{"a", "b", "", "c"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("tokenize = %v, want %v", got, want)
	}
}

func TestCompileUnknownFunction(t *testing.T) {
	if _, err := Compile("median($.store.book[*].price)"); !errors.Is(err, function.ErrUnknownFunction) {
		t.Errorf("Compile() error = %v, want ErrUnknownFunction", err)
	}
}

func TestSelectArityMismatch(t *testing.T) {
	q, err := Compile("sum($.store.book[*].price, $.store.bicycle.price)")
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}

	if _, err := q.Select(storeDoc(t)); !errors.Is(err, function.ErrInvalidArgument) {
		t.Errorf("Select() error = %v, want ErrInvalidArgument", err)
	}
}

func TestCompileInvalidSyntax(t *testing.T) {
	tests := []struct {
		name  string
		query string
	}{
		{name: "empty", query: ""},
		{name: "missing_root", query: "store.book"},
		{name: "trailing_dot", query: "$."},
		{name: "unterminated_bracket", query: "$['store'"},
		{name: "empty_bracket", query: "$[]"},
		{name: "bad_index", query: "$[a]"},
		{name: "unterminated_filter", query: "$[?(@.a"},
		{name: "bad_filter_literal", query: "$[?(@.a == nope)]"},
		{name: "unterminated_call", query: "sum($.a"},
		{name: "argument_not_a_path", query: "sum(1)"},
		{name: "trailing_garbage", query: "$.store}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Compile(tt.query); !errors.Is(err, ErrSyntax) {
				t.Errorf("Compile(%q) error = %v, want ErrSyntax", tt.query, err)
			}
		})
	}
}

func TestCompileWithTable(t *testing.T) {
	table := function.NewTable()
	q, err := CompileWithTable("count($.store.book[*])", table)
	if err != nil {
		t.Fatalf("CompileWithTable() error = %v", err)
	}

	got, err := q.SelectInterface(storeDoc(t))
	if err != nil {
		t.Fatalf("Select() error = %v", err)
	}
	if !reflect.DeepEqual(got, []any{4.0}) {
		t.Errorf("count = %v, want [4]", got)
	}
}

// TestAgainstReferenceEngine cross-checks plain path queries against the
// RFC 9535 implementation used elsewhere in the ecosystem.
func TestAgainstReferenceEngine(t *testing.T) {
	queries := []string{
		"$.store.bicycle.color",
		"$.store.book[*].author",
		"$..author",
		"$..book[2].author",
		"$.store.book[-1].title",
		"$..book[0,1].title",
		"$..book[:2].title",
		"$..book[1:3].title",
		"$..book[::2].title",
		"$['store']['bicycle']['color']",
	}

	doc := storeDoc(t)

	var plain any
	if err := json.Unmarshal([]byte(storeJSON), &plain); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	for _, query := range queries {
		t.Run(query, func(t *testing.T) {
			got := selectInterface(t, doc, query)

			ref, err := theory.Parse(query)
			if err != nil {
				t.Fatalf("reference Parse(%q) error = %v", query, err)
			}

			want := make([]any, 0)
			for _, v := range ref.Select(plain) {
				want = append(want, v)
			}

			if len(got) == 0 && len(want) == 0 {
				return
			}
			if !reflect.DeepEqual(got, want) {
				t.Errorf("Select(%q) = %v, reference = %v", query, got, want)
			}
		})
	}
}
