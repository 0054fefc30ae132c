// Package ebnflex tokenizes input with the productions of an EBNF grammar.
//
// It is slow and has no error recovery beyond emitting Illegal tokens, but
// it states the lexical syntax declaratively, which makes it useful as a
// reference for hand-written lexers.
package ebnflex

import (
	"fmt"
	"io"
	"os"
	"unicode/utf8"

	"golang.org/x/exp/ebnf"
)

const (
	// EOF is the kind of the empty token at the end of the input.
	EOF = "EOF"
	// Illegal is the kind of a single character no production matches.
	Illegal = "Illegal"
)

// Token is a lexeme identified by the production that matched it.
type Token struct {
	Kind  string
	Start int
	End   int
}

func (t Token) Text(src string) string {
	return src[t.Start:t.End]
}

func (t Token) String() string {
	return fmt.Sprintf("%s@%d..%d", t.Kind, t.Start, t.End)
}

type memoKey struct {
	name   string
	offset int
}

type match struct {
	n  int
	ok bool
}

// Lexer produces the longest token any token production matches. Ties go
// to the production listed first in the start production.
type Lexer struct {
	grammar  ebnf.Grammar
	kinds    []string
	input    string
	pos      int
	memo     map[memoKey]match
	visiting map[memoKey]bool
}

// NewLexer creates a lexer whose token productions are the ones named by
// start, which must have the form
//
//	Tokens = { A | B | C } .
func NewLexer(grammar ebnf.Grammar, start string, input string) (*Lexer, error) {
	kinds, err := tokenKinds(grammar, start)
	if err != nil {
		return nil, err
	}
	return &Lexer{
		grammar:  grammar,
		kinds:    kinds,
		input:    input,
		memo:     make(map[memoKey]match),
		visiting: make(map[memoKey]bool),
	}, nil
}

func tokenKinds(grammar ebnf.Grammar, start string) ([]string, error) {
	prod, ok := grammar[start]
	if !ok {
		return nil, fmt.Errorf("no start production %s", start)
	}
	rep, ok := prod.Expr.(*ebnf.Repetition)
	if !ok {
		return nil, fmt.Errorf("start production %s must be a repetition", start)
	}

	var names []ebnf.Expression
	switch body := rep.Body.(type) {
	case ebnf.Alternative:
		names = body
	default:
		names = []ebnf.Expression{body}
	}

	kinds := make([]string, 0, len(names))
	for _, expr := range names {
		name, ok := expr.(*ebnf.Name)
		if !ok {
			return nil, fmt.Errorf("%s: start production may only list production names", expr.Pos())
		}
		kinds = append(kinds, name.String)
	}
	return kinds, nil
}

// LoadGrammar reads an EBNF grammar from a file and verifies it against
// its start production.
func LoadGrammar(filename, start string) (ebnf.Grammar, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("open grammar: %w", err)
	}
	defer f.Close()

	return ParseGrammar(filename, f, start)
}

func ParseGrammar(filename string, r io.Reader, start string) (ebnf.Grammar, error) {
	grammar, err := ebnf.Parse(filename, r)
	if err != nil {
		return nil, fmt.Errorf("parse grammar: %w", err)
	}
	if err := ebnf.Verify(grammar, start); err != nil {
		return nil, fmt.Errorf("verify grammar: %w", err)
	}
	return grammar, nil
}

// NextToken returns the next token. At the end of the input it keeps
// returning an EOF token.
func (l *Lexer) NextToken() Token {
	start := l.pos
	if start >= len(l.input) {
		return Token{Kind: EOF, Start: start, End: start}
	}

	bestKind, bestLen := "", 0
	for _, kind := range l.kinds {
		if m := l.matchName(kind, start); m.ok && m.n > bestLen {
			bestKind, bestLen = kind, m.n
		}
	}

	if bestLen == 0 {
		_, size := utf8.DecodeRuneInString(l.input[start:])
		l.pos += size
		return Token{Kind: Illegal, Start: start, End: l.pos}
	}
	l.pos += bestLen
	return Token{Kind: bestKind, Start: start, End: l.pos}
}

// Tokenize returns every token including the final EOF.
func (l *Lexer) Tokenize() []Token {
	var tokens []Token
	for {
		tok := l.NextToken()
		tokens = append(tokens, tok)
		if tok.Kind == EOF {
			return tokens
		}
	}
}

// matchExpr reports whether expr matches at offset and how many bytes it
// consumes. An empty match is a success, unlike no match.
func (l *Lexer) matchExpr(expr ebnf.Expression, offset int) match {
	switch e := expr.(type) {
	case nil:
		return match{ok: true}

	case *ebnf.Token:
		if len(l.input)-offset >= len(e.String) && l.input[offset:offset+len(e.String)] == e.String {
			return match{n: len(e.String), ok: true}
		}
		return match{}

	case *ebnf.Range:
		return l.matchRange(e, offset)

	case ebnf.Sequence:
		total := 0
		for _, item := range e {
			m := l.matchExpr(item, offset+total)
			if !m.ok {
				return match{}
			}
			total += m.n
		}
		return match{n: total, ok: true}

	case ebnf.Alternative:
		best := match{}
		for _, alt := range e {
			if m := l.matchExpr(alt, offset); m.ok && (!best.ok || m.n > best.n) {
				best = m
			}
		}
		return best

	case *ebnf.Repetition:
		total := 0
		for {
			m := l.matchExpr(e.Body, offset+total)
			if !m.ok || m.n == 0 {
				break
			}
			total += m.n
		}
		return match{n: total, ok: true}

	case *ebnf.Option:
		if m := l.matchExpr(e.Body, offset); m.ok {
			return m
		}
		return match{ok: true}

	case *ebnf.Group:
		return l.matchExpr(e.Body, offset)

	case *ebnf.Name:
		return l.matchName(e.String, offset)
	}
	return match{}
}

// matchName matches a production. Results are memoized per offset, and
// left recursion fails instead of looping.
func (l *Lexer) matchName(name string, offset int) match {
	key := memoKey{name: name, offset: offset}
	if m, ok := l.memo[key]; ok {
		return m
	}
	if l.visiting[key] {
		return match{}
	}

	prod, ok := l.grammar[name]
	if !ok {
		l.memo[key] = match{}
		return match{}
	}

	l.visiting[key] = true
	m := l.matchExpr(prod.Expr, offset)
	delete(l.visiting, key)

	l.memo[key] = m
	return m
}

// matchRange matches one character between the bounds. Bytes that are
// not valid UTF-8 never match.
func (l *Lexer) matchRange(r *ebnf.Range, offset int) match {
	if offset >= len(l.input) {
		return match{}
	}
	ch, size := utf8.DecodeRuneInString(l.input[offset:])
	if ch == utf8.RuneError && size == 1 {
		return match{}
	}
	lo, _ := utf8.DecodeRuneInString(r.Begin.String)
	hi, _ := utf8.DecodeRuneInString(r.End.String)
	if ch >= lo && ch <= hi {
		return match{n: size, ok: true}
	}
	return match{}
}
