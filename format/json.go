package format

import (
	"encoding/json"
	"io"
)

// JSONEncoder writes the tree and its diagnostics as one JSON object.
type JSONEncoder struct {
	w   io.Writer
	doc *Document
	// Trivia includes whitespace and comment tokens in the tree.
	Trivia bool
}

func NewJSONEncoder(w io.Writer) *JSONEncoder {
	return &JSONEncoder{w: w}
}

func (e *JSONEncoder) Encode(doc *Document) error {
	e.doc = doc
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	if _, err := e.w.Write(text); err != nil {
		return err
	}
	_, err = io.WriteString(e.w, "\n")
	return err
}

type jsonDocument struct {
	Path        string           `json:"path"`
	Tree        *astJSONNode     `json:"tree"`
	Diagnostics []jsonDiagnostic `json:"diagnostics"`
}

type jsonDiagnostic struct {
	Range   astJSONRange `json:"range"`
	Span    astJSONSpan  `json:"span"`
	Message string       `json:"message"`
}

func (e *JSONEncoder) MarshalText() ([]byte, error) {
	d := e.doc
	data := jsonDocument{
		Path:        d.name(),
		Tree:        d.elementToJSON(d.Tree.Root(), e.Trivia),
		Diagnostics: make([]jsonDiagnostic, len(d.Errors)),
	}
	for i, err := range d.Errors {
		data.Diagnostics[i] = jsonDiagnostic{
			Range:   astJSONRange{Start: err.Range.Start, End: err.Range.End},
			Span:    d.span(err.Range),
			Message: err.Message,
		}
	}
	return json.MarshalIndent(data, "", "  ")
}
