package format

import (
	"fmt"
	"io"
	"strings"
)

// TextEncoder writes the indented tree dump followed by one
// "file:line:col: message" line per diagnostic.
type TextEncoder struct {
	w   io.Writer
	doc *Document
	// Trivia includes whitespace and comment tokens in the dump.
	Trivia bool
}

func NewTextEncoder(w io.Writer) *TextEncoder {
	return &TextEncoder{w: w}
}

func (e *TextEncoder) Encode(doc *Document) error {
	e.doc = doc
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *TextEncoder) MarshalText() ([]byte, error) {
	var sb strings.Builder
	root := e.doc.Tree.Root()
	if e.Trivia {
		sb.WriteString(root.String())
	} else {
		sb.WriteString(root.StringWithoutTrivia())
	}
	for _, err := range e.doc.Errors {
		line, col := e.doc.position(err.Range.Start)
		fmt.Fprintf(&sb, "%s:%d:%d: %s\n", e.doc.name(), line, col, err.Message)
	}
	return []byte(sb.String()), nil
}
