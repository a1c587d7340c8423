package jsonpath

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/jacoelho/jp/internal/function"
)

var filterRe = regexp.MustCompile(`^@((?:\.[-\w]+)+)?\s*(==|!=|<=|>=|<|>|=~|!~)?\s*(.*)$`)

type parser struct {
	input string
	pos   int
	table *function.Table
}

func (p *parser) errorf(format string, a ...any) error {
	return fmt.Errorf("%w: %s at offset %d in %q", ErrSyntax, fmt.Sprintf(format, a...), p.pos, p.input)
}

func (p *parser) eof() bool {
	return p.pos >= len(p.input)
}

func (p *parser) skipSpaces() {
	for !p.eof() && p.input[p.pos] == ' ' {
		p.pos++
	}
}

func (p *parser) peek() byte {
	return p.input[p.pos]
}

// parse handles both plain paths and top-level function calls.
func (p *parser) parse() (*Query, error) {
	if p.eof() {
		return nil, p.errorf("empty expression")
	}

	if p.peek() == '$' {
		segments, err := p.parsePath()
		if err != nil {
			return nil, err
		}
		if !p.eof() {
			return nil, p.errorf("unexpected %q", p.peek())
		}
		return &Query{expr: p.input, segments: segments, table: p.table}, nil
	}

	return p.parseCall()
}

func (p *parser) parseCall() (*Query, error) {
	name := p.scanIdent()
	if name == "" {
		return nil, p.errorf("expected '$' or function name")
	}
	if p.eof() || p.peek() != '(' {
		return nil, p.errorf("expected '(' after function name %q", name)
	}
	p.pos++

	fn, err := p.table.Lookup(name)
	if err != nil {
		return nil, fmt.Errorf("jsonpath: %w", err)
	}

	var args []*Query
	for {
		p.skipSpaces()
		if p.eof() {
			return nil, p.errorf("unterminated call of %q", name)
		}
		if p.peek() != '$' {
			return nil, p.errorf("function argument must be a path")
		}

		segments, err := p.parsePath()
		if err != nil {
			return nil, err
		}
		args = append(args, &Query{segments: segments, table: p.table})

		p.skipSpaces()
		if p.eof() {
			return nil, p.errorf("unterminated call of %q", name)
		}
		switch p.peek() {
		case ',':
			p.pos++
		case ')':
			p.pos++
			if !p.eof() {
				return nil, p.errorf("unexpected %q", p.peek())
			}
			return &Query{expr: p.input, fnName: name, fn: fn, args: args, table: p.table}, nil
		default:
			return nil, p.errorf("expected ',' or ')' in call of %q", name)
		}
	}
}

// scanIdent reads a function name: a letter or underscore followed by
// letters, digits or underscores.
func (p *parser) scanIdent() string {
	start := p.pos
	for !p.eof() {
		c := p.peek()
		if c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c == '_' ||
			(p.pos > start && c >= '0' && c <= '9') {
			p.pos++
			continue
		}
		break
	}
	return p.input[start:p.pos]
}

// parsePath consumes '$' and the segments that follow. It stops at the
// first byte that cannot start a segment, leaving it for the caller.
func (p *parser) parsePath() ([]segment, error) {
	p.pos++ // '$'

	var segments []segment
	for !p.eof() {
		switch p.peek() {
		case '.':
			seg, err := p.parseDotSegment()
			if err != nil {
				return nil, err
			}
			segments = append(segments, seg)
		case '[':
			sels, err := p.parseBracket()
			if err != nil {
				return nil, err
			}
			segments = append(segments, segment{sels: sels})
		default:
			return segments, nil
		}
	}
	return segments, nil
}

func (p *parser) parseDotSegment() (segment, error) {
	p.pos++ // '.'

	deep := false
	if !p.eof() && p.peek() == '.' {
		deep = true
		p.pos++
	}

	if p.eof() {
		return segment{}, p.errorf("path ends with '.'")
	}

	switch p.peek() {
	case '*':
		p.pos++
		return segment{deep: deep, sels: []selector{wildcardSel{}}}, nil
	case '[':
		// '..[...]': descendant bracket selection.
		if !deep {
			return segment{}, p.errorf("unexpected '[' after '.'")
		}
		sels, err := p.parseBracket()
		if err != nil {
			return segment{}, err
		}
		return segment{deep: true, sels: sels}, nil
	}

	name := p.scanName()
	if name == "" {
		return segment{}, p.errorf("expected name after '.'")
	}
	return segment{deep: deep, sels: []selector{nameSel(name)}}, nil
}

// scanName reads a dot-segment member name, ending at the next segment
// or the end of the path.
func (p *parser) scanName() string {
	start := p.pos
	for !p.eof() {
		switch p.peek() {
		case '.', '[', ',', ')', ' ':
			return p.input[start:p.pos]
		}
		p.pos++
	}
	return p.input[start:p.pos]
}

func (p *parser) parseBracket() ([]selector, error) {
	p.pos++ // '['

	var sels []selector
	for {
		if p.eof() {
			return nil, p.errorf("unterminated '['")
		}

		sel, err := p.parseBracketItem()
		if err != nil {
			return nil, err
		}
		sels = append(sels, sel)

		if p.eof() {
			return nil, p.errorf("unterminated '['")
		}
		switch p.peek() {
		case ',':
			p.pos++
		case ']':
			p.pos++
			return sels, nil
		default:
			return nil, p.errorf("expected ',' or ']'")
		}
	}
}

func (p *parser) parseBracketItem() (selector, error) {
	switch p.peek() {
	case '\'', '"':
		name, err := p.scanQuoted()
		if err != nil {
			return nil, err
		}
		return nameSel(name), nil
	case '*':
		p.pos++
		return wildcardSel{}, nil
	case '?':
		return p.parseFilter()
	}
	return p.parseIndexOrSlice()
}

func (p *parser) scanQuoted() (string, error) {
	quote := p.peek()
	p.pos++

	var b strings.Builder
	for !p.eof() {
		c := p.peek()
		p.pos++
		switch c {
		case quote:
			return b.String(), nil
		case '\\':
			if p.eof() {
				return "", p.errorf("unterminated escape")
			}
			b.WriteByte(p.peek())
			p.pos++
		default:
			b.WriteByte(c)
		}
	}
	return "", p.errorf("unterminated string")
}

func (p *parser) parseIndexOrSlice() (selector, error) {
	start := p.pos
	for !p.eof() {
		c := p.peek()
		if c == ',' || c == ']' {
			break
		}
		p.pos++
	}
	text := p.input[start:p.pos]
	if text == "" {
		return nil, p.errorf("empty bracket selector")
	}

	if !strings.Contains(text, ":") {
		i, err := strconv.Atoi(text)
		if err != nil {
			return nil, p.errorf("invalid index %q", text)
		}
		return indexSel(i), nil
	}

	parts := strings.Split(text, ":")
	if len(parts) > 3 {
		return nil, p.errorf("invalid slice %q", text)
	}

	var sel sliceSel
	sel.step = 1

	if parts[0] != "" {
		i, err := strconv.Atoi(parts[0])
		if err != nil {
			return nil, p.errorf("invalid slice start %q", parts[0])
		}
		sel.start, sel.hasStart = i, true
	}
	if parts[1] != "" {
		i, err := strconv.Atoi(parts[1])
		if err != nil {
			return nil, p.errorf("invalid slice end %q", parts[1])
		}
		sel.end, sel.hasEnd = i, true
	}
	if len(parts) == 3 && parts[2] != "" {
		i, err := strconv.Atoi(parts[2])
		if err != nil {
			return nil, p.errorf("invalid slice step %q", parts[2])
		}
		sel.step = i
	}
	return sel, nil
}

// parseFilter consumes '?( ... )' and compiles the expression inside.
func (p *parser) parseFilter() (selector, error) {
	p.pos++ // '?'
	if p.eof() || p.peek() != '(' {
		return nil, p.errorf("expected '(' after '?'")
	}
	p.pos++

	// Scan to the matching ')', honoring quotes.
	start := p.pos
	depth := 1
	var quote byte
	for !p.eof() {
		c := p.peek()
		switch {
		case quote != 0:
			if c == '\\' {
				p.pos++
			} else if c == quote {
				quote = 0
			}
		case c == '\'' || c == '"':
			quote = c
		case c == '(':
			depth++
		case c == ')':
			depth--
			if depth == 0 {
				expr := p.input[start:p.pos]
				p.pos++
				return p.compileFilter(expr)
			}
		}
		p.pos++
	}
	return nil, p.errorf("unterminated filter")
}

func (p *parser) compileFilter(expr string) (selector, error) {
	m := filterRe.FindStringSubmatch(strings.TrimSpace(expr))
	if m == nil {
		return nil, p.errorf("invalid filter %q", expr)
	}

	var path []string
	if m[1] != "" {
		path = strings.Split(strings.TrimPrefix(m[1], "."), ".")
	}

	if m[2] == "" {
		if strings.TrimSpace(m[3]) != "" {
			return nil, p.errorf("invalid filter %q", expr)
		}
		return filterSel{path: path, exists: true}, nil
	}

	cmp, err := p.compileComparison(m[2], strings.TrimSpace(m[3]))
	if err != nil {
		return nil, err
	}
	return filterSel{path: path, cmp: cmp}, nil
}

func (p *parser) compileComparison(op, lit string) (comparison, error) {
	if lit == "" {
		return comparison{}, p.errorf("missing literal after %q", op)
	}

	switch {
	case lit[0] == '\'' || lit[0] == '"':
		quote := lit[0]
		if len(lit) < 2 || lit[len(lit)-1] != quote {
			return comparison{}, p.errorf("unterminated string literal %s", lit)
		}
		return comparison{op: op, kind: litStr, str: lit[1 : len(lit)-1]}, nil

	case lit[0] == '/':
		end := strings.LastIndexByte(lit[1:], '/')
		if end < 0 {
			return comparison{}, p.errorf("unterminated regex literal %s", lit)
		}
		pattern, flags := lit[1:end+1], lit[end+2:]
		if flags != "" {
			pattern = "(?" + flags + ")" + pattern
		}
		re, err := regexp.Compile(pattern)
		if err != nil {
			return comparison{}, p.errorf("invalid regex literal %s: %v", lit, err)
		}
		if op != "=~" && op != "!~" {
			return comparison{}, p.errorf("operator %q cannot take a regex literal", op)
		}
		return comparison{op: op, kind: litRegex, regex: re}, nil

	default:
		n, err := strconv.ParseFloat(lit, 64)
		if err != nil {
			return comparison{}, p.errorf("invalid literal %q", lit)
		}
		if op == "=~" || op == "!~" {
			return comparison{}, p.errorf("operator %q requires a regex literal", op)
		}
		return comparison{op: op, kind: litNum, num: n}, nil
	}
}
