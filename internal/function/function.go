// Package function implements the aggregate function table invoked from
// JSONPath expressions. The table is built once and is read-only
// afterwards, so it is safe to share across goroutines.
package function

import (
	"errors"
	"fmt"
	"math"
	"regexp"

	"github.com/jacoelho/jp/internal/document"
)

var (
	// ErrUnknownFunction indicates a lookup for a name that is not
	// registered in the table.
	ErrUnknownFunction = errors.New("function: name not found")

	// ErrInvalidArgument indicates a call with the wrong number of
	// arguments or arguments of an unusable shape.
	ErrInvalidArgument = errors.New("function: invalid argument")
)

// NodeSet is an ordered collection of document values selected by a
// JSONPath argument expression. It is immutable after construction;
// empty sets are legal.
type NodeSet struct {
	nodes []document.Value
}

// NewNodeSet copies the given nodes into a set.
func NewNodeSet(nodes ...document.Value) NodeSet {
	out := make([]document.Value, len(nodes))
	copy(out, nodes)
	return NodeSet{nodes: out}
}

// NodeSetOf takes ownership of the given slice.
func NodeSetOf(nodes []document.Value) NodeSet {
	return NodeSet{nodes: nodes}
}

// Nodes returns the underlying sequence in selection order.
func (s NodeSet) Nodes() []document.Value { return s.nodes }

// Len returns the number of nodes in the set.
func (s NodeSet) Len() int { return len(s.nodes) }

// Func is a pure aggregate over node-sets. It must not mutate or retain
// its arguments.
type Func func(args []NodeSet) (document.Value, error)

// Table maps function names to their implementations. Names are
// case-sensitive.
type Table struct {
	funcs map[string]Func
}

// NewTable builds a table with the built-in aggregates: min, max, avg,
// sum, prod, count and tokenize.
func NewTable() *Table {
	return &Table{
		funcs: map[string]Func{
			"max":      maxFn,
			"min":      minFn,
			"avg":      avgFn,
			"sum":      sumFn,
			"prod":     prodFn,
			"count":    countFn,
			"tokenize": tokenizeFn,
		},
	}
}

// Lookup resolves a function by exact name. Unknown names yield a nil
// Func and ErrUnknownFunction.
func (t *Table) Lookup(name string) (Func, error) {
	f, ok := t.funcs[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFunction, name)
	}
	return f, nil
}

func arity(name string, args []NodeSet, want int) error {
	if len(args) != want {
		return fmt.Errorf("%w: %s expects %d argument(s), got %d", ErrInvalidArgument, name, want, len(args))
	}
	return nil
}

// maxFn starts from the smallest finite float64; an empty set returns
// that sentinel.
func maxFn(args []NodeSet) (document.Value, error) {
	if err := arity("max", args, 1); err != nil {
		return nil, err
	}

	v := -math.MaxFloat64
	for _, node := range args[0].Nodes() {
		if x := node.AsNumber(); x > v {
			v = x
		}
	}
	return document.Number(v), nil
}

// minFn starts from the largest finite float64; an empty set returns
// that sentinel.
func minFn(args []NodeSet) (document.Value, error) {
	if err := arity("min", args, 1); err != nil {
		return nil, err
	}

	v := math.MaxFloat64
	for _, node := range args[0].Nodes() {
		if x := node.AsNumber(); x < v {
			v = x
		}
	}
	return document.Number(v), nil
}

func avgFn(args []NodeSet) (document.Value, error) {
	if err := arity("avg", args, 1); err != nil {
		return nil, err
	}

	arg := args[0]
	if arg.Len() == 0 {
		return document.Null{}, nil
	}

	v := 0.0
	for _, node := range arg.Nodes() {
		v += node.AsNumber()
	}
	return document.Number(v / float64(arg.Len())), nil
}

func sumFn(args []NodeSet) (document.Value, error) {
	if err := arity("sum", args, 1); err != nil {
		return nil, err
	}

	v := 0.0
	for _, node := range args[0].Nodes() {
		v += node.AsNumber()
	}
	return document.Number(v), nil
}

// prodFn seeds the accumulator with zero and lets the first non-zero
// value replace it, so any zero input zeroes the whole product only
// until a non-zero value arrives. This matches the historical behavior
// relied on by callers.
func prodFn(args []NodeSet) (document.Value, error) {
	if err := arity("prod", args, 1); err != nil {
		return nil, err
	}

	v := 0.0
	for _, node := range args[0].Nodes() {
		x := node.AsNumber()
		if v == 0.0 && x != 0.0 {
			v = x
		} else {
			v *= x
		}
	}
	return document.Number(v), nil
}

func countFn(args []NodeSet) (document.Value, error) {
	if err := arity("count", args, 1); err != nil {
		return nil, err
	}
	return document.Number(float64(args[0].Len())), nil
}

// tokenizeFn splits the first node of args[0], coerced to a string, on
// the regular expression held by the first node of args[1]. The regex
// dialect is Go's RE2. Splitting keeps empty tokens, and an empty
// subject yields a single empty token.
func tokenizeFn(args []NodeSet) (document.Value, error) {
	if err := arity("tokenize", args, 2); err != nil {
		return nil, err
	}
	if args[0].Len() == 0 || args[1].Len() == 0 {
		return nil, fmt.Errorf("%w: tokenize arguments must be non-empty node-sets", ErrInvalidArgument)
	}

	subject := args[0].Nodes()[0].AsString()
	separator := args[1].Nodes()[0].AsString()

	re, err := regexp.Compile(separator)
	if err != nil {
		return nil, fmt.Errorf("%w: tokenize separator %q: %v", ErrInvalidArgument, separator, err)
	}

	arr := document.NewArray()
	for _, token := range re.Split(subject, -1) {
		arr.Append(document.String(token))
	}
	return arr, nil
}
