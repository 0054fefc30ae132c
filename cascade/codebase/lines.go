package codebase

import (
	"sort"
	"unicode/utf16"
	"unicode/utf8"
)

// Position is a zero-based line and character. Characters are counted
// in UTF-16 code units, as the language server protocol expects.
type Position struct {
	Line      int
	Character int
}

// LineIndex converts between byte offsets and positions.
type LineIndex struct {
	src    string
	starts []int
}

func NewLineIndex(src string) *LineIndex {
	starts := []int{0}
	for i := 0; i < len(src); i++ {
		if src[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &LineIndex{src: src, starts: starts}
}

func (li *LineIndex) LineCount() int {
	return len(li.starts)
}

// Position converts a byte offset. Offsets past the end are clamped and
// an offset inside a multi-byte character maps to that character.
func (li *LineIndex) Position(offset int) Position {
	offset = max(0, min(offset, len(li.src)))
	line := sort.Search(len(li.starts), func(i int) bool { return li.starts[i] > offset }) - 1

	char := 0
	for i := li.starts[line]; i < offset; {
		r, size := utf8.DecodeRuneInString(li.src[i:])
		if i+size > offset {
			break
		}
		char += utf16Len(r)
		i += size
	}
	return Position{Line: line, Character: char}
}

// Offset converts a position back to a byte offset. Characters beyond
// the end of the line map to the line end.
func (li *LineIndex) Offset(pos Position) int {
	if pos.Line < 0 {
		return 0
	}
	if pos.Line >= len(li.starts) {
		return len(li.src)
	}
	i := li.starts[pos.Line]
	for char := 0; char < pos.Character && i < len(li.src) && li.src[i] != '\n'; {
		r, size := utf8.DecodeRuneInString(li.src[i:])
		char += utf16Len(r)
		i += size
	}
	return i
}

func utf16Len(r rune) int {
	if n := utf16.RuneLen(r); n > 0 {
		return n
	}
	return 1
}
