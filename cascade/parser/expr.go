package parser

// Restriction limits which of the suffix forms sharing a `name` prefix
// may be matched at a call site.
type Restriction uint8

const (
	RestrictNone Restriction = iota
	// RestrictNoContext keeps `:` out of the expression, as in rule
	// operands where `:` separates the class.
	RestrictNoContext
	// RestrictNoRange stops a range operand from starting another range.
	RestrictNoRange
)

func (r Restriction) String() string {
	switch r {
	case RestrictNoContext:
		return "NoContext"
	case RestrictNoRange:
		return "NoRange"
	}
	return "None"
}

// operandPrec is above every binary operator, so parsing at this level
// yields a single operand with its suffix form and nothing more.
const operandPrec = 6

// maxContextParts is user, role, type and an optional range.
const maxContextParts = 4

func binaryPrecedence(kind SyntaxKind) int {
	switch kind {
	case PipePipe:
		return 1
	case AmpAmp:
		return 2
	case Pipe:
		return 3
	case Caret:
		return 4
	case Amp:
		return 5
	}
	return 0
}

// expr parses one expression. It reports false when a diagnostic was
// produced and the caller should stop parsing its remaining parts.
func (p *Parser) expr(r Restriction) bool {
	_, ok := p.exprBP(1, r)
	return ok
}

// exprBP is the precedence-climbing loop. Before any binary operator is
// considered the operand may commit to a context or range suffix; those
// forms are complete expressions on their own.
func (p *Parser) exprBP(minPrec int, r Restriction) (completedMarker, bool) {
	lhs, ok := p.unary(r)
	if !ok {
		return lhs, false
	}
	if wrapped, applied, ok := p.suffix(lhs, r); applied {
		return wrapped, ok
	}
	for {
		prec := binaryPrecedence(p.current())
		if prec == 0 || prec < minPrec {
			return lhs, true
		}
		m := lhs.precede(p)
		p.bump()
		_, ok := p.exprBP(prec+1, r)
		lhs = m.complete(p, KindBinaryExpr)
		if !ok {
			return lhs, false
		}
	}
}

func (p *Parser) unary(r Restriction) (completedMarker, bool) {
	if p.at(Bang) || p.at(Tilde) {
		m := p.mark()
		p.bump()
		_, ok := p.exprBP(operandPrec, r)
		return m.complete(p, KindUnaryExpr), ok
	}
	return p.primary()
}

func (p *Parser) primary() (completedMarker, bool) {
	switch p.current() {
	case Ident:
		return p.pathRef()
	case Number, String:
		return p.literal(), true
	case Star:
		m := p.mark()
		p.bump()
		return m.complete(p, KindWildcard), true
	case LParen:
		return p.group()
	}
	p.errRecover("expected expression")
	return completedMarker{}, false
}

func (p *Parser) literal() completedMarker {
	m := p.mark()
	p.bump()
	return m.complete(p, KindLiteral)
}

// suffix looks at the token after an operand and, when r allows it,
// wraps the operand into a context, level range or category range.
// applied reports whether any suffix form was taken.
func (p *Parser) suffix(lhs completedMarker, r Restriction) (wrapped completedMarker, applied, ok bool) {
	switch {
	case p.at(Colon) && r != RestrictNoContext:
		wrapped, ok = p.context(lhs)
		return wrapped, true, ok
	case p.at(Minus) && r != RestrictNoRange:
		wrapped, ok = p.rangeOf(lhs, KindLevelRange)
		return wrapped, true, ok
	case p.at(DotDot):
		wrapped, ok = p.rangeOf(lhs, KindCategoryRange)
		return wrapped, true, ok
	}
	return lhs, false, true
}

// context parses `user:role:type[:range]` given the already parsed
// user. When the first component after `:` fails to parse, the wrapper
// is abandoned and the operand is returned as it was; the `:` and the
// diagnostic for the missing component stay with the enclosing node.
func (p *Parser) context(lhs completedMarker) (completedMarker, bool) {
	m := lhs.precede(p)
	p.bump()
	if _, ok := p.exprBP(operandPrec, RestrictNoContext); !ok {
		m.abandon(p)
		return lhs, false
	}
	for parts := 2; parts < maxContextParts && p.at(Colon); parts++ {
		p.bump()
		if _, ok := p.exprBP(operandPrec, RestrictNoContext); !ok {
			return m.complete(p, KindContext), false
		}
	}
	return m.complete(p, KindContext), true
}

// rangeOf parses `low-high` or `low..high`. The high end may not start
// another range.
func (p *Parser) rangeOf(lhs completedMarker, kind SyntaxKind) (completedMarker, bool) {
	m := lhs.precede(p)
	p.bump()
	_, ok := p.exprBP(operandPrec, RestrictNoRange)
	return m.complete(p, kind), ok
}

// group parses a parenthesized group. Exactly one element without a
// trailing comma is a Paren; anything else, including `()`, is a List.
func (p *Parser) group() (completedMarker, bool) {
	m := p.mark()
	open := p.currentRange()
	p.bump()
	elements := 0
	sawComma := false
	ok := true
	for !p.at(RParen) && !p.at(EOF) {
		if _, ok = p.exprBP(1, RestrictNoContext); !ok {
			break
		}
		elements++
		if !p.eat(Comma) {
			break
		}
		sawComma = true
	}
	if !p.closeDelimiter(RParen, open) {
		ok = false
	}
	kind := KindList
	if elements == 1 && !sawComma {
		kind = KindParen
	}
	return m.complete(p, kind), ok
}
