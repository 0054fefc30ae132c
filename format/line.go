package format

import (
	"fmt"
	"io"
	"strings"

	"github.com/dhamidi/casc/cascade/parser"
)

// LineEncoder writes the token stream of a source, one token per line:
// range, kind and quoted text separated by tabs. The final EOF token is
// included.
type LineEncoder struct {
	w   io.Writer
	src string
}

func NewLineEncoder(w io.Writer) *LineEncoder {
	return &LineEncoder{w: w}
}

func (e *LineEncoder) Encode(doc *Document) error {
	return e.EncodeSource(doc.Tree.Source())
}

// EncodeSource tokenizes src without parsing it.
func (e *LineEncoder) EncodeSource(src string) error {
	e.src = src
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *LineEncoder) MarshalText() ([]byte, error) {
	var sb strings.Builder
	for _, tok := range parser.Tokenize(e.src) {
		fmt.Fprintf(&sb, "%s\t%s\t%q\n", tok.Range(), tok.Kind, tok.Text(e.src))
	}
	return []byte(sb.String()), nil
}
