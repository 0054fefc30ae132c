package parser

type Lexer struct {
	input string
	pos   int
}

func NewLexer(input string) *Lexer {
	return &Lexer{input: input}
}

// Tokenize splits src into tokens covering it exactly, terminated by a
// zero-width EOF token. Adjacent trivia tokens of the same kind are
// merged so long runs do not inflate the token count.
func Tokenize(src string) []Token {
	l := NewLexer(src)
	tokens := make([]Token, 0, max(len(src)/4, 16))
	for {
		tok := l.NextToken()
		if n := len(tokens); n > 0 && tok.Kind.IsTrivia() {
			last := &tokens[n-1]
			if last.Kind == tok.Kind && last.End == tok.Start {
				last.End = tok.End
				continue
			}
		}
		tokens = append(tokens, tok)
		if tok.Kind == EOF {
			return tokens
		}
	}
}

func (l *Lexer) peek() byte {
	if l.pos >= len(l.input) {
		return 0
	}
	return l.input[l.pos]
}

func (l *Lexer) peekN(n int) byte {
	if l.pos+n >= len(l.input) {
		return 0
	}
	return l.input[l.pos+n]
}

func (l *Lexer) atEnd() bool {
	return l.pos >= len(l.input)
}

func (l *Lexer) NextToken() Token {
	start := l.pos
	if l.atEnd() {
		return Token{Kind: EOF, Start: start, End: start}
	}

	ch := l.peek()
	switch {
	case isSpace(ch):
		for !l.atEnd() && isSpace(l.peek()) {
			l.pos++
		}
		return l.token(Whitespace, start)
	case ch == '/' && l.peekN(1) == '/':
		return l.scanLineComment(start)
	case ch == '/' && l.peekN(1) == '*':
		return l.scanBlockComment(start)
	case isIdentStart(ch):
		for !l.atEnd() && isIdentPart(l.peek()) {
			l.pos++
		}
		return l.token(Ident, start)
	case isDigit(ch):
		for !l.atEnd() && isDigit(l.peek()) {
			l.pos++
		}
		return l.token(Number, start)
	case ch == '"':
		return l.scanString(start)
	}
	return l.scanOperator(start)
}

func (l *Lexer) scanLineComment(start int) Token {
	l.pos += 2
	for !l.atEnd() && l.peek() != '\n' {
		l.pos++
	}
	return l.token(LineComment, start)
}

func (l *Lexer) scanBlockComment(start int) Token {
	l.pos += 2
	for !l.atEnd() {
		if l.peek() == '*' && l.peekN(1) == '/' {
			l.pos += 2
			break
		}
		l.pos++
	}
	return l.token(BlockComment, start)
}

// scanString stops at the closing quote or, for unterminated literals,
// before the end of the line.
func (l *Lexer) scanString(start int) Token {
	l.pos++
	for !l.atEnd() {
		ch := l.peek()
		if ch == '\n' {
			break
		}
		l.pos++
		if ch == '\\' && !l.atEnd() && l.peek() != '\n' {
			l.pos++
			continue
		}
		if ch == '"' {
			break
		}
	}
	return l.token(String, start)
}

func (l *Lexer) scanOperator(start int) Token {
	ch := l.peek()
	next := l.peekN(1)

	two := func(kind SyntaxKind) Token {
		l.pos += 2
		return l.token(kind, start)
	}
	one := func(kind SyntaxKind) Token {
		l.pos++
		return l.token(kind, start)
	}

	switch ch {
	case '{':
		return one(LBrace)
	case '}':
		return one(RBrace)
	case '(':
		return one(LParen)
	case ')':
		return one(RParen)
	case ';':
		return one(Semicolon)
	case ',':
		return one(Comma)
	case ':':
		return one(Colon)
	case '.':
		if next == '.' {
			return two(DotDot)
		}
		return one(Dot)
	case '-':
		if next == '=' {
			return two(MinusEq)
		}
		return one(Minus)
	case '+':
		if next == '=' {
			return two(PlusEq)
		}
	case '=':
		return one(Eq)
	case '!':
		return one(Bang)
	case '~':
		return one(Tilde)
	case '&':
		if next == '&' {
			return two(AmpAmp)
		}
		return one(Amp)
	case '|':
		if next == '|' {
			return two(PipePipe)
		}
		return one(Pipe)
	case '^':
		return one(Caret)
	case '*':
		return one(Star)
	}

	// Consume a whole UTF-8 sequence so an illegal token never splits a
	// multi-byte character.
	l.pos++
	for !l.atEnd() && l.peek()&0xC0 == 0x80 {
		l.pos++
	}
	return l.token(Illegal, start)
}

func (l *Lexer) token(kind SyntaxKind, start int) Token {
	return Token{Kind: kind, Start: start, End: l.pos}
}

func isSpace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n'
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isIdentStart(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || ch == '_'
}

func isIdentPart(ch byte) bool {
	return isIdentStart(ch) || isDigit(ch)
}
