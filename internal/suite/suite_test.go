package suite

import (
	"errors"
	"strings"
	"testing"
)

func TestParse(t *testing.T) {
	input := `
document: testdata/store.json
queries:
  - name: max_price
    path: max($.store.book[*].price)
    expect: 22.99
  - name: authors
    path: $.store.book[*].author
`

	s, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if s.Document != "testdata/store.json" {
		t.Errorf("Document = %q, want %q", s.Document, "testdata/store.json")
	}
	if len(s.Queries) != 2 {
		t.Fatalf("len(Queries) = %d, want 2", len(s.Queries))
	}
	if s.Queries[0].Name != "max_price" {
		t.Errorf("Queries[0].Name = %q, want %q", s.Queries[0].Name, "max_price")
	}
	if s.Queries[0].Expect != 22.99 {
		t.Errorf("Queries[0].Expect = %v, want 22.99", s.Queries[0].Expect)
	}
	if s.Queries[1].Expect != nil {
		t.Errorf("Queries[1].Expect = %v, want nil", s.Queries[1].Expect)
	}
}

func TestParseInvalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{
			name:  "not_yaml",
			input: `{{{`,
		},
		{
			name: "missing_document",
			input: `
queries:
  - name: a
    path: $.a
`,
		},
		{
			name:  "no_queries",
			input: `document: doc.json`,
		},
		{
			name: "unnamed_query",
			input: `
document: doc.json
queries:
  - path: $.a
`,
		},
		{
			name: "duplicate_names",
			input: `
document: doc.json
queries:
  - name: a
    path: $.a
  - name: a
    path: $.b
`,
		},
		{
			name: "missing_path",
			input: `
document: doc.json
queries:
  - name: a
`,
		},
		{
			name: "path_does_not_compile",
			input: `
document: doc.json
queries:
  - name: a
    path: $[
`,
		},
		{
			name: "unknown_function",
			input: `
document: doc.json
queries:
  - name: a
    path: median($.a)
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse(strings.NewReader(tt.input)); !errors.Is(err, ErrSuite) {
				t.Errorf("Parse() error = %v, want ErrSuite", err)
			}
		})
	}
}
