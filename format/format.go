// Package format renders parsed documents for the command line.
package format

import (
	"encoding"

	"github.com/dhamidi/casc/cascade/codebase"
	"github.com/dhamidi/casc/cascade/parser"
)

type Encoder interface {
	encoding.TextMarshaler
	Encode(doc *Document) error
}

// Document is one parsed source together with its diagnostics.
type Document struct {
	// Path names the source in diagnostics; "-" is used when empty.
	Path   string
	Tree   *parser.Tree
	Errors []parser.ParseError

	lines *codebase.LineIndex
}

func NewDocument(path string, tree *parser.Tree, errs []parser.ParseError) *Document {
	return &Document{Path: path, Tree: tree, Errors: errs}
}

func (d *Document) name() string {
	if d.Path == "" {
		return "-"
	}
	return d.Path
}

// position converts a byte offset to a one-based line and column.
// Columns count UTF-16 units, matching what editors report.
func (d *Document) position(offset int) (line, column int) {
	if d.lines == nil {
		d.lines = codebase.NewLineIndex(d.Tree.Source())
	}
	p := d.lines.Position(offset)
	return p.Line + 1, p.Character + 1
}
