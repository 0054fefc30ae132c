package parser

import "fmt"

// Range is a half-open byte range into the source text.
type Range struct {
	Start int
	End   int
}

func (r Range) Len() int {
	return r.End - r.Start
}

func (r Range) IsEmpty() bool {
	return r.Start == r.End
}

// Contains reports whether offset lies inside r. The end offset counts
// as inside so a cursor placed right after a token still finds it.
func (r Range) Contains(offset int) bool {
	return offset >= r.Start && offset <= r.End
}

func (r Range) String() string {
	return fmt.Sprintf("%d..%d", r.Start, r.End)
}

// Token is one lexeme of the source text. Tokens carry no text of
// their own; the text is recovered by slicing the source.
type Token struct {
	Kind  SyntaxKind
	Start int
	End   int
}

func (t Token) Range() Range {
	return Range{Start: t.Start, End: t.End}
}

func (t Token) Text(src string) string {
	return src[t.Start:t.End]
}

// ParseError is a diagnostic attached to the result of a parse. The
// message is meant for humans; only its presence and range are stable.
type ParseError struct {
	Range   Range
	Message string
}

func (e ParseError) Error() string {
	return fmt.Sprintf("%s: %s", e.Range, e.Message)
}
