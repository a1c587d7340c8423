package jsonpath

import (
	"regexp"

	"github.com/jacoelho/jp/internal/document"
)

const (
	litNum litKind = iota + 1
	litStr
	litRegex
)

// litKind tags the literal side of a filter comparison.
type litKind uint8

// selector appends the children of v it selects to out.
type selector interface {
	selectInto(v document.Value, out *[]document.Value)
}

// segment is one step of a path: a set of selectors, applied to the
// node itself or, for the '..' operator, to the node and every
// descendant.
type segment struct {
	deep bool
	sels []selector
}

type (
	nameSel     string
	wildcardSel struct{}
	indexSel    int
)

// sliceSel is a start:end:step selection over arrays. Omitted bounds
// follow the usual slice defaults for the sign of step.
type sliceSel struct {
	start, end, step int
	hasStart, hasEnd bool
}

// filterSel selects the children of a node for which the comparison
// holds, or which merely have the target path for existence checks.
type filterSel struct {
	path   []string
	cmp    comparison
	exists bool
}

type comparison struct {
	op    string
	kind  litKind
	num   float64
	str   string
	regex *regexp.Regexp
}
