package jsonpath

import (
	"github.com/jacoelho/jp/internal/document"
)

// children returns the direct children of v: array elements in order,
// or object member values in insertion order. Scalars have none.
func children(v document.Value) []document.Value {
	switch t := v.(type) {
	case *document.Array:
		return t.Elems()
	case *document.Object:
		out := make([]document.Value, 0, t.Len())
		for _, name := range t.Names() {
			m, _ := t.Member(name)
			out = append(out, m)
		}
		return out
	default:
		return nil
	}
}

// collect appends v and all its descendants in document order.
func collect(v document.Value, out *[]document.Value) {
	*out = append(*out, v)
	for _, c := range children(v) {
		collect(c, out)
	}
}

func (n nameSel) selectInto(v document.Value, out *[]document.Value) {
	obj, ok := v.(*document.Object)
	if !ok {
		return
	}
	if m, ok := obj.Member(string(n)); ok {
		*out = append(*out, m)
	}
}

func (wildcardSel) selectInto(v document.Value, out *[]document.Value) {
	*out = append(*out, children(v)...)
}

func (i indexSel) selectInto(v document.Value, out *[]document.Value) {
	arr, ok := v.(*document.Array)
	if !ok {
		return
	}

	idx := int(i)
	if idx < 0 {
		idx += arr.Len()
	}
	if idx >= 0 && idx < arr.Len() {
		*out = append(*out, arr.At(idx))
	}
}

func (s sliceSel) selectInto(v document.Value, out *[]document.Value) {
	arr, ok := v.(*document.Array)
	if !ok || s.step == 0 {
		return
	}

	n := arr.Len()
	if s.step > 0 {
		start, end := 0, n
		if s.hasStart {
			start = clamp(normalize(s.start, n), 0, n)
		}
		if s.hasEnd {
			end = clamp(normalize(s.end, n), 0, n)
		}
		for i := start; i < end; i += s.step {
			*out = append(*out, arr.At(i))
		}
		return
	}

	// Descending slice, e.g. [5:1:-1].
	start, end := n-1, -1
	if s.hasStart {
		start = clamp(normalize(s.start, n), -1, n-1)
	}
	if s.hasEnd {
		end = clamp(normalize(s.end, n), -1, n-1)
	}
	for i := start; i > end; i += s.step {
		*out = append(*out, arr.At(i))
	}
}

func normalize(i, n int) int {
	if i < 0 {
		return i + n
	}
	return i
}

func clamp(i, lo, hi int) int {
	if i < lo {
		return lo
	}
	if i > hi {
		return hi
	}
	return i
}

// filterSel applies its comparison to every child of v.
func (f filterSel) selectInto(v document.Value, out *[]document.Value) {
	for _, c := range children(v) {
		target := f.target(c)
		if target == nil {
			continue
		}
		if f.exists || f.cmp.matches(target) {
			*out = append(*out, c)
		}
	}
}

// target resolves the '@.a.b' member chain inside a candidate node. A
// nil result means the path is absent.
func (f filterSel) target(v document.Value) document.Value {
	current := v
	for _, name := range f.path {
		obj, ok := current.(*document.Object)
		if !ok {
			return nil
		}
		m, ok := obj.Member(name)
		if !ok {
			return nil
		}
		current = m
	}
	return current
}

func (c comparison) matches(v document.Value) bool {
	switch c.kind {
	case litNum:
		n, ok := v.(document.Number)
		if !ok {
			return false
		}
		x := float64(n)
		switch c.op {
		case "==":
			return x == c.num
		case "!=":
			return x != c.num
		case "<":
			return x < c.num
		case "<=":
			return x <= c.num
		case ">":
			return x > c.num
		case ">=":
			return x >= c.num
		}

	case litStr:
		s, ok := v.(document.String)
		if !ok {
			return false
		}
		switch c.op {
		case "==":
			return string(s) == c.str
		case "!=":
			return string(s) != c.str
		case "<":
			return string(s) < c.str
		case "<=":
			return string(s) <= c.str
		case ">":
			return string(s) > c.str
		case ">=":
			return string(s) >= c.str
		}

	case litRegex:
		switch c.op {
		case "=~":
			return c.regex.MatchString(v.AsString())
		case "!~":
			return !c.regex.MatchString(v.AsString())
		}
	}
	return false
}
