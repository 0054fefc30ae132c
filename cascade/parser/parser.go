package parser

import (
	"fmt"

	"github.com/tliron/commonlog"
)

type Option func(*Parser)

// WithFile names the source for log output.
func WithFile(path string) Option {
	return func(p *Parser) {
		p.file = path
	}
}

// WithLogger enables a debug summary of every parse.
func WithLogger(log commonlog.Logger) Option {
	return func(p *Parser) {
		p.log = log
	}
}

// Parser drives the grammar over the non-trivia view of a token slice
// and records the result as a flat event log. It holds no tree-shaped
// state; the tree is built once the log is complete.
//
// A Parser serves exactly one parse call and is not safe for concurrent
// use. Separate parses share nothing, so files may be parsed in
// parallel with one Parser each.
type Parser struct {
	file string
	log  commonlog.Logger

	src    string
	tokens []Token
	// sig indexes the non-trivia entries of tokens; the last one is EOF.
	sig []int
	pos int

	events  []event
	errors  []ParseError
	pending map[int]struct{}

	// bodyDepth counts the braced bodies currently open.
	bodyDepth int
}

func newParser(src string, opts ...Option) *Parser {
	p := &Parser{
		src:     src,
		pending: make(map[int]struct{}),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.tokens = Tokenize(src)
	p.sig = make([]int, 0, len(p.tokens))
	for i, tok := range p.tokens {
		if !tok.Kind.IsTrivia() {
			p.sig = append(p.sig, i)
		}
	}
	p.events = make([]event, 0, len(p.sig)*2)
	return p
}

// Parse parses a whole source file. It always returns a tree whose
// text equals src, together with the diagnostics found on the way.
func Parse(src string, opts ...Option) (*Tree, []ParseError) {
	p := newParser(src, opts...)
	p.root()
	return p.finish()
}

// ParseExpression parses src as a single expression with no
// restriction. Anything after the expression is kept in an error node.
func ParseExpression(src string, opts ...Option) (*Tree, []ParseError) {
	p := newParser(src, opts...)
	m := p.mark()
	p.expr(RestrictNone)
	if !p.at(EOF) {
		junk := p.mark()
		p.errorAt(p.currentRange(), "unexpected input after expression")
		for !p.at(EOF) {
			p.bump()
		}
		junk.complete(p, KindParseError)
	}
	m.complete(p, KindRoot)
	return p.finish()
}

func (p *Parser) finish() (*Tree, []ParseError) {
	p.checkMarkers()
	root := buildTree(p.src, p.tokens, p.events)
	if p.log != nil {
		p.log.Debugf("parsed %s: %d tokens, %d events, %d errors",
			p.displayName(), len(p.tokens), len(p.events), len(p.errors))
	}
	return &Tree{root: root, src: p.src}, p.errors
}

func (p *Parser) displayName() string {
	if p.file == "" {
		return "<input>"
	}
	return p.file
}

func (p *Parser) nth(n int) SyntaxKind {
	i := p.pos + n
	if i >= len(p.sig) {
		return EOF
	}
	return p.tokens[p.sig[i]].Kind
}

func (p *Parser) current() SyntaxKind {
	return p.nth(0)
}

func (p *Parser) currentToken() Token {
	if p.pos >= len(p.sig) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[p.sig[p.pos]]
}

func (p *Parser) currentText() string {
	return p.currentToken().Text(p.src)
}

func (p *Parser) currentRange() Range {
	return p.currentToken().Range()
}

// currentKeyword returns the keyword spelled by the current identifier.
func (p *Parser) currentKeyword() (SyntaxKind, bool) {
	if !p.at(Ident) {
		return 0, false
	}
	return LookupKeyword(p.currentText())
}

func (p *Parser) at(kind SyntaxKind) bool {
	return p.current() == kind
}

func (p *Parser) atKeyword(kw SyntaxKind) bool {
	k, ok := p.currentKeyword()
	return ok && k == kw
}

func (p *Parser) atAny(kinds ...SyntaxKind) bool {
	cur := p.current()
	for _, k := range kinds {
		if cur == k {
			return true
		}
	}
	return false
}

func (p *Parser) bump() {
	p.bumpAs(p.current())
}

// bumpAs consumes the current token but records it with another kind,
// which is how identifiers become keywords.
func (p *Parser) bumpAs(kind SyntaxKind) {
	if p.at(EOF) {
		return
	}
	p.events = append(p.events, event{kind: evLeaf, syntax: kind})
	p.pos++
}

func (p *Parser) eat(kind SyntaxKind) bool {
	if !p.at(kind) {
		return false
	}
	p.bump()
	return true
}

func (p *Parser) expect(kind SyntaxKind) bool {
	if p.eat(kind) {
		return true
	}
	p.errorMissing(fmt.Sprintf("expected `%s`", kind))
	return false
}

// prevEnd is the end offset of the last consumed non-trivia token.
func (p *Parser) prevEnd() int {
	if p.pos == 0 || p.pos > len(p.sig) {
		return 0
	}
	return p.tokens[p.sig[p.pos-1]].End
}

func (p *Parser) errorAt(r Range, msg string) {
	p.errors = append(p.errors, ParseError{Range: r, Message: msg})
}

// errorMissing reports something absent; it is anchored right after
// the previous token rather than on whatever follows.
func (p *Parser) errorMissing(msg string) {
	end := p.prevEnd()
	p.errorAt(Range{Start: end, End: end}, msg)
}

// mustProgress returns a function that checks if the parser has advanced.
// Call it at the start of a loop iteration, then call the returned function
// at the end. When nothing was consumed the current token is forced into
// an error node so the loop cannot spin.
func (p *Parser) mustProgress() func() bool {
	saved := p.pos
	return func() bool {
		if p.pos != saved {
			return true
		}
		if !p.at(EOF) {
			m := p.mark()
			p.errorAt(p.currentRange(), fmt.Sprintf("unexpected `%s`", p.currentText()))
			p.bump()
			m.complete(p, KindParseError)
		}
		return false
	}
}

// closeDelimiter consumes the closing token matching an opener at open.
// Reaching the end of input reports the opener as unclosed.
func (p *Parser) closeDelimiter(closing SyntaxKind, open Range) bool {
	if p.eat(closing) {
		return true
	}
	if p.at(EOF) {
		p.errorAt(open, fmt.Sprintf("unclosed `%s`", p.src[open.Start:open.End]))
		return false
	}
	p.errorMissing(fmt.Sprintf("expected `%s`", closing))
	return false
}
