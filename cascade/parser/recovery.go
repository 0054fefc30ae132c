package parser

import "fmt"

// recoveryKinds are tokens a failing sub-rule leaves in place because an
// enclosing rule knows what to do with them.
var recoveryKinds = []SyntaxKind{EOF, Semicolon, LBrace, RBrace, RParen, Comma, Colon}

// errRecover reports msg for the current position. Unless the current
// token is a recovery point it is consumed into an error node, so a
// failed rule still makes progress.
func (p *Parser) errRecover(msg string) {
	if p.atAny(recoveryKinds...) {
		p.errorMissing(msg)
		return
	}
	m := p.mark()
	p.errorAt(p.currentRange(), fmt.Sprintf("%s, found %s", msg, p.describeCurrent()))
	p.bump()
	m.complete(p, KindParseError)
}

// recoverItem is used when no item can start at the current token. It
// skips to the end of the broken item: a `;` or the closing brace of
// the enclosing body at nesting depth zero, or end of input. Everything
// skipped becomes one error node and one diagnostic.
func (p *Parser) recoverItem(msg string) {
	m := p.mark()
	p.errorAt(p.currentRange(), fmt.Sprintf("%s, found %s", msg, p.describeCurrent()))
	p.skipToItemEnd()
	m.complete(p, KindParseError)
}

// skipToItemEnd never consumes a `}` closing an enclosing body; item
// loops stop there, so recoverItem always consumes at least one token.
// Braces it consumes that are still open at end of input are reported
// as unclosed, innermost first.
func (p *Parser) skipToItemEnd() {
	var open []Range
	for !p.at(EOF) {
		switch p.current() {
		case LBrace:
			open = append(open, p.currentRange())
		case RBrace:
			if len(open) == 0 {
				// Inside a body this brace closes it; at top level it is
				// stray and becomes part of the error.
				if p.bodyDepth > 0 {
					return
				}
				p.bump()
				return
			}
			open = open[:len(open)-1]
			if len(open) == 0 {
				p.bump()
				return
			}
		case Semicolon:
			if len(open) == 0 {
				p.bump()
				return
			}
		}
		p.bump()
	}
	for i := len(open) - 1; i >= 0; i-- {
		p.errorAt(open[i], "unclosed `{`")
	}
}

// describeCurrent names the current token for diagnostics.
func (p *Parser) describeCurrent() string {
	if p.at(EOF) {
		return "end of input"
	}
	return "`" + p.currentText() + "`"
}
