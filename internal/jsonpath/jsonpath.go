package jsonpath

import (
	"fmt"

	"github.com/jacoelho/jp/internal/document"
	"github.com/jacoelho/jp/internal/function"
)

// defaultTable holds the built-in aggregates. It is never mutated.
var defaultTable = function.NewTable()

// Query is a compiled JSONPath expression. A Query is read-only and
// safe for concurrent use.
type Query struct {
	expr     string
	segments []segment

	// Set for the function-call form.
	fnName string
	fn     function.Func
	args   []*Query

	table *function.Table
}

// Compile parses a JSONPath expression against the built-in function
// table.
func Compile(expr string) (*Query, error) {
	return CompileWithTable(expr, defaultTable)
}

// CompileWithTable parses a JSONPath expression resolving function
// names through the given table. Unknown names fail compilation with
// an error wrapping function.ErrUnknownFunction.
func CompileWithTable(expr string, table *function.Table) (*Query, error) {
	p := &parser{input: expr, table: table}
	return p.parse()
}

// String returns the source expression.
func (q *Query) String() string { return q.expr }

// Select evaluates the query against a document. A plain path yields
// the matched nodes; a function call yields a single value. Errors
// come only from function invocation.
func (q *Query) Select(doc document.Value) ([]document.Value, error) {
	if q.fn == nil {
		return q.selectPath(doc), nil
	}

	args := make([]function.NodeSet, 0, len(q.args))
	for _, arg := range q.args {
		args = append(args, function.NodeSetOf(arg.selectPath(doc)))
	}

	v, err := q.fn(args)
	if err != nil {
		return nil, fmt.Errorf("jsonpath: %s: %w", q.fnName, err)
	}
	return []document.Value{v}, nil
}

// SelectNodes evaluates the query and wraps the result as a node-set.
func (q *Query) SelectNodes(doc document.Value) (function.NodeSet, error) {
	nodes, err := q.Select(doc)
	if err != nil {
		return function.NodeSet{}, err
	}
	return function.NodeSetOf(nodes), nil
}

// SelectInterface evaluates the query and returns plain Go values,
// convenient for output and comparisons.
func (q *Query) SelectInterface(doc document.Value) ([]any, error) {
	nodes, err := q.Select(doc)
	if err != nil {
		return nil, err
	}

	out := make([]any, len(nodes))
	for i, n := range nodes {
		out[i] = n.Interface()
	}
	return out, nil
}

func (q *Query) selectPath(doc document.Value) []document.Value {
	current := []document.Value{doc}

	for _, seg := range q.segments {
		nodes := current
		if seg.deep {
			var all []document.Value
			for _, v := range current {
				collect(v, &all)
			}
			nodes = all
		}

		var next []document.Value
		for _, v := range nodes {
			for _, sel := range seg.sels {
				sel.selectInto(v, &next)
			}
		}
		current = next
	}
	return current
}
