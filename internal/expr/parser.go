package expr

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/wippyai/imath-bind/host"
)

var binaryOps = map[string]host.Op{
	"+":  host.OpAdd,
	"-":  host.OpSub,
	"*":  host.OpMul,
	"/":  host.OpDiv,
	"//": host.OpFloorDiv,
	"%":  host.OpMod,
	"**": host.OpPow,
	"==": host.OpEq,
	"!=": host.OpNe,
	"<":  host.OpLt,
	"<=": host.OpLe,
	">":  host.OpGt,
	">=": host.OpGe,
}

var keywords = map[string]bool{
	"and": true, "or": true, "not": true,
	"True": true, "False": true, "None": true,
}

func syntaxError(line, col int, msg string) error {
	return host.Raise(host.SyntaxError, "%s (line %d, column %d)", msg, line, col)
}

type parser struct {
	tokens []token
	pos    int
}

// parse turns src into a list of statements.
func parse(src string) ([]node, error) {
	tokens, err := tokenize(src)
	if err != nil {
		return nil, err
	}
	p := &parser{tokens: tokens}

	var stmts []node
	for {
		for p.peek().Type == tokNewline {
			p.pos++
		}
		if p.peek().Type == tokEOF {
			return stmts, nil
		}
		s, err := p.statement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, s)
		if t := p.peek(); t.Type != tokNewline && t.Type != tokEOF {
			return nil, p.unexpected(t)
		}
	}
}

func (p *parser) peek() token {
	return p.tokens[p.pos]
}

func (p *parser) next() token {
	t := p.tokens[p.pos]
	if t.Type != tokEOF {
		p.pos++
	}
	return t
}

func (p *parser) isOp(op string) bool {
	t := p.peek()
	return t.Type == tokOp && t.Value == op
}

func (p *parser) isKeyword(kw string) bool {
	t := p.peek()
	return t.Type == tokName && t.Value == kw
}

func (p *parser) accept(op string) bool {
	if p.isOp(op) {
		p.pos++
		return true
	}
	return false
}

func (p *parser) expect(op string) error {
	if p.accept(op) {
		return nil
	}
	t := p.peek()
	return syntaxError(t.Line, t.Col, fmt.Sprintf("expected '%s', got %s", op, describe(t)))
}

func (p *parser) unexpected(t token) error {
	return syntaxError(t.Line, t.Col, "unexpected "+describe(t))
}

func describe(t token) string {
	switch t.Type {
	case tokEOF, tokNewline:
		return t.Type.String()
	}
	return fmt.Sprintf("%q", t.Value)
}

func (p *parser) statement() (node, error) {
	lhs, err := p.exprList()
	if err != nil {
		return nil, err
	}

	t := p.peek()
	if t.Type != tokOp {
		return &exprStmt{x: lhs}, nil
	}
	if t.Value == "=" {
		p.pos++
		if err := checkTarget(lhs, t, true); err != nil {
			return nil, err
		}
		value, err := p.exprList()
		if err != nil {
			return nil, err
		}
		return &assign{target: lhs, value: value}, nil
	}
	if op, ok := binaryOps[strings.TrimSuffix(t.Value, "=")]; ok && strings.HasSuffix(t.Value, "=") && len(t.Value) > 1 && !op.IsComparison() {
		p.pos++
		if err := checkTarget(lhs, t, false); err != nil {
			return nil, err
		}
		value, err := p.exprList()
		if err != nil {
			return nil, err
		}
		return &augAssign{target: lhs, op: op, value: value}, nil
	}
	return &exprStmt{x: lhs}, nil
}

func checkTarget(n node, at token, allowTuple bool) error {
	switch n := n.(type) {
	case *name, *attr, *index:
		return nil
	case *tuple:
		if allowTuple {
			for _, item := range n.items {
				if err := checkTarget(item, at, false); err != nil {
					return err
				}
			}
			return nil
		}
	}
	return syntaxError(at.Line, at.Col, "cannot assign to expression")
}

// exprList parses a bare comma separated list, which is a tuple.
func (p *parser) exprList() (node, error) {
	first, err := p.expr()
	if err != nil {
		return nil, err
	}
	if !p.isOp(",") {
		return first, nil
	}
	items := []node{first}
	for p.accept(",") {
		if p.atEndOfList() {
			break
		}
		item, err := p.expr()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return &tuple{items: items}, nil
}

func (p *parser) atEndOfList() bool {
	t := p.peek()
	if t.Type == tokEOF || t.Type == tokNewline {
		return true
	}
	return t.Type == tokOp && (t.Value == "=" || t.Value == ")" || t.Value == "]")
}

func (p *parser) expr() (node, error) {
	return p.or()
}

func (p *parser) or() (node, error) {
	l, err := p.and()
	if err != nil {
		return nil, err
	}
	for p.isKeyword("or") {
		p.pos++
		r, err := p.and()
		if err != nil {
			return nil, err
		}
		l = &boolOp{and: false, l: l, r: r}
	}
	return l, nil
}

func (p *parser) and() (node, error) {
	l, err := p.not()
	if err != nil {
		return nil, err
	}
	for p.isKeyword("and") {
		p.pos++
		r, err := p.not()
		if err != nil {
			return nil, err
		}
		l = &boolOp{and: true, l: l, r: r}
	}
	return l, nil
}

func (p *parser) not() (node, error) {
	if p.isKeyword("not") {
		p.pos++
		x, err := p.not()
		if err != nil {
			return nil, err
		}
		return &not{x: x}, nil
	}
	return p.comparison()
}

func (p *parser) comparison() (node, error) {
	first, err := p.sum()
	if err != nil {
		return nil, err
	}
	c := &compare{first: first}
	for {
		t := p.peek()
		op, ok := binaryOps[t.Value]
		if t.Type != tokOp || !ok || !op.IsComparison() {
			break
		}
		p.pos++
		r, err := p.sum()
		if err != nil {
			return nil, err
		}
		c.ops = append(c.ops, op)
		c.rest = append(c.rest, r)
	}
	if len(c.ops) == 0 {
		return first, nil
	}
	return c, nil
}

func (p *parser) sum() (node, error) {
	return p.leftAssoc(p.term, "+", "-")
}

func (p *parser) term() (node, error) {
	return p.leftAssoc(p.unary, "*", "/", "//", "%")
}

func (p *parser) leftAssoc(operand func() (node, error), ops ...string) (node, error) {
	l, err := operand()
	if err != nil {
		return nil, err
	}
	for {
		t := p.peek()
		if t.Type != tokOp || !contains(ops, t.Value) {
			return l, nil
		}
		p.pos++
		r, err := operand()
		if err != nil {
			return nil, err
		}
		l = &binary{op: binaryOps[t.Value], l: l, r: r}
	}
}

func contains(ops []string, s string) bool {
	for _, op := range ops {
		if op == s {
			return true
		}
	}
	return false
}

func (p *parser) unary() (node, error) {
	var op host.Op
	switch {
	case p.isOp("-"):
		op = host.OpNeg
	case p.isOp("+"):
		op = host.OpPos
	default:
		return p.power()
	}
	p.pos++
	x, err := p.unary()
	if err != nil {
		return nil, err
	}
	// Fold negative literals so -1 is a constant index.
	if lit, ok := x.(*literal); ok && op == host.OpNeg {
		switch v := lit.v.(type) {
		case int64:
			return &literal{v: -v}, nil
		case float64:
			return &literal{v: -v}, nil
		}
	}
	return &unary{op: op, x: x}, nil
}

// power binds tighter than unary minus on its left: -2**2 is -(2**2).
func (p *parser) power() (node, error) {
	base, err := p.postfix()
	if err != nil {
		return nil, err
	}
	if !p.accept("**") {
		return base, nil
	}
	exp, err := p.unary()
	if err != nil {
		return nil, err
	}
	return &binary{op: host.OpPow, l: base, r: exp}, nil
}

func (p *parser) postfix() (node, error) {
	x, err := p.atom()
	if err != nil {
		return nil, err
	}
	for {
		switch {
		case p.accept("("):
			args, err := p.items(")")
			if err != nil {
				return nil, err
			}
			x = &call{fn: x, args: args}
		case p.accept("["):
			key, err := p.subscript()
			if err != nil {
				return nil, err
			}
			if err := p.expect("]"); err != nil {
				return nil, err
			}
			x = &index{obj: x, key: key}
		case p.accept("."):
			t := p.next()
			if t.Type != tokName || keywords[t.Value] {
				return nil, syntaxError(t.Line, t.Col, "expected attribute name, got "+describe(t))
			}
			x = &attr{obj: x, name: t.Value}
		default:
			return x, nil
		}
	}
}

// items parses comma separated expressions up to and including end.
func (p *parser) items(end string) ([]node, error) {
	var out []node
	for !p.accept(end) {
		item, err := p.expr()
		if err != nil {
			return nil, err
		}
		out = append(out, item)
		if p.accept(end) {
			break
		}
		if err := p.expect(","); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (p *parser) subscript() (node, error) {
	var start node
	if !p.isOp(":") {
		x, err := p.exprList()
		if err != nil {
			return nil, err
		}
		start = x
	}
	if !p.accept(":") {
		return start, nil
	}
	s := &slice{start: start}
	if !p.isOp("]") && !p.isOp(":") {
		x, err := p.expr()
		if err != nil {
			return nil, err
		}
		s.stop = x
	}
	if p.accept(":") && !p.isOp("]") {
		x, err := p.expr()
		if err != nil {
			return nil, err
		}
		s.step = x
	}
	return s, nil
}

func (p *parser) atom() (node, error) {
	t := p.next()
	switch t.Type {
	case tokInt:
		v, err := strconv.ParseInt(strings.ReplaceAll(t.Value, "_", ""), 10, 64)
		if err != nil {
			return nil, syntaxError(t.Line, t.Col, fmt.Sprintf("invalid integer literal %q", t.Value))
		}
		return &literal{v: v}, nil
	case tokFloat:
		v, err := strconv.ParseFloat(strings.ReplaceAll(t.Value, "_", ""), 64)
		if err != nil {
			return nil, syntaxError(t.Line, t.Col, fmt.Sprintf("invalid float literal %q", t.Value))
		}
		return &literal{v: v}, nil
	case tokString:
		s := t.Value
		for p.peek().Type == tokString {
			s += p.next().Value
		}
		return &literal{v: s}, nil
	case tokName:
		switch t.Value {
		case "True":
			return &literal{v: true}, nil
		case "False":
			return &literal{v: false}, nil
		case "None":
			return &literal{v: nil}, nil
		}
		if keywords[t.Value] {
			return nil, p.unexpected(t)
		}
		return &name{id: t.Value}, nil
	case tokOp:
		switch t.Value {
		case "(":
			if p.accept(")") {
				return &tuple{}, nil
			}
			x, err := p.exprList()
			if err != nil {
				return nil, err
			}
			if err := p.expect(")"); err != nil {
				return nil, err
			}
			return x, nil
		case "[":
			items, err := p.items("]")
			if err != nil {
				return nil, err
			}
			return &list{items: items}, nil
		}
	}
	return nil, p.unexpected(t)
}
