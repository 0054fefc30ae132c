package parser

import (
	"strings"
	"testing"
)

func tokenKinds(tokens []Token) []SyntaxKind {
	kinds := make([]SyntaxKind, len(tokens))
	for i, tok := range tokens {
		kinds[i] = tok.Kind
	}
	return kinds
}

func TestTokenizeKinds(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []SyntaxKind
	}{
		{"empty", "", []SyntaxKind{EOF}},
		{"container", "block a {}", []SyntaxKind{Ident, Whitespace, Ident, Whitespace, LBrace, RBrace, EOF}},
		{"number", "portcon 80", []SyntaxKind{Ident, Whitespace, Number, EOF}},
		{"string", `"/usr/bin"`, []SyntaxKind{String, EOF}},
		{"context", "u:r:t", []SyntaxKind{Ident, Colon, Ident, Colon, Ident, EOF}},
		{"dotted", "a.b", []SyntaxKind{Ident, Dot, Ident, EOF}},
		{"category range", "c0..c9", []SyntaxKind{Ident, DotDot, Ident, EOF}},
		{"level range", "s0-s1", []SyntaxKind{Ident, Minus, Ident, EOF}},
		{"modifiers", "= += -=", []SyntaxKind{Eq, Whitespace, PlusEq, Whitespace, MinusEq, EOF}},
		{"logical", "&& || & | ^ ! ~", []SyntaxKind{
			AmpAmp, Whitespace, PipePipe, Whitespace, Amp, Whitespace, Pipe,
			Whitespace, Caret, Whitespace, Bang, Whitespace, Tilde, EOF,
		}},
		{"punctuation", "(),;*", []SyntaxKind{LParen, RParen, Comma, Semicolon, Star, EOF}},
		{"line comment", "// hi\nx", []SyntaxKind{LineComment, Whitespace, Ident, EOF}},
		{"block comment", "/* hi */x", []SyntaxKind{BlockComment, Ident, EOF}},
		{"lone plus", "+", []SyntaxKind{Illegal, EOF}},
		{"illegal", "?#", []SyntaxKind{Illegal, Illegal, EOF}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tokenKinds(Tokenize(tt.input))
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("token %d: got %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestTokenizeCoversInput(t *testing.T) {
	inputs := []string{
		"",
		"block a { type t; }",
		"  \t\n",
		"/* unterminated",
		"\"unterminated\nnext",
		"héllo wörld",
		"allow a b : file (read write);",
		"\x00\xff\xfe",
	}

	for _, input := range inputs {
		tokens := Tokenize(input)
		var b strings.Builder
		prev := 0
		for _, tok := range tokens {
			if tok.Start != prev {
				t.Errorf("%q: gap before token at %d", input, tok.Start)
			}
			b.WriteString(tok.Text(input))
			prev = tok.End
		}
		if b.String() != input {
			t.Errorf("%q: reconstructed %q", input, b.String())
		}
		last := tokens[len(tokens)-1]
		if last.Kind != EOF || last.Start != len(input) || last.End != len(input) {
			t.Errorf("%q: last token %v %d..%d, want zero-width EOF", input, last.Kind, last.Start, last.End)
		}
	}
}

func TestTokenizeCoalescesTrivia(t *testing.T) {
	tokens := Tokenize("/*a*//*b*/x")
	if len(tokens) != 3 {
		t.Fatalf("got %d tokens, want 3", len(tokens))
	}
	if tokens[0].Kind != BlockComment || tokens[0].End != 10 {
		t.Errorf("got %v ending at %d, want BlockComment ending at 10", tokens[0].Kind, tokens[0].End)
	}
}

func TestTokenizeStrings(t *testing.T) {
	tests := []struct {
		input string
		end   int
	}{
		{`"abc"`, 5},
		{`"a\"b" x`, 6},
		{"\"abc\nx", 4},
		{`"abc`, 4},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			tok := NewLexer(tt.input).NextToken()
			if tok.Kind != String {
				t.Fatalf("got %v, want String", tok.Kind)
			}
			if tok.End != tt.end {
				t.Errorf("End = %d, want %d", tok.End, tt.end)
			}
		})
	}
}

func TestTokenizeIllegalMultibyte(t *testing.T) {
	tokens := Tokenize("é")
	if len(tokens) != 2 {
		t.Fatalf("got %d tokens, want 2", len(tokens))
	}
	if tokens[0].Kind != Illegal || tokens[0].Range().Len() != 2 {
		t.Errorf("got %v of length %d, want Illegal of length 2", tokens[0].Kind, tokens[0].Range().Len())
	}
}

func TestKeywordsAreIdentifiers(t *testing.T) {
	for text := range keywords {
		tokens := Tokenize(text)
		if tokens[0].Kind != Ident {
			t.Errorf("%q lexed as %v, want Ident", text, tokens[0].Kind)
		}
	}
}
