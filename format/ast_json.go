package format

import "github.com/dhamidi/casc/cascade/parser"

type astJSONNode struct {
	Kind     string         `json:"kind"`
	Range    astJSONRange   `json:"range"`
	Span     astJSONSpan    `json:"span"`
	Text     string         `json:"text,omitempty"`
	Children []*astJSONNode `json:"children,omitempty"`
}

// astJSONRange is in byte offsets, astJSONSpan in lines and columns.
type astJSONRange struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

type astJSONSpan struct {
	Start astJSONPosition `json:"start"`
	End   astJSONPosition `json:"end"`
}

type astJSONPosition struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

func (d *Document) span(r parser.Range) astJSONSpan {
	var s astJSONSpan
	s.Start.Line, s.Start.Column = d.position(r.Start)
	s.End.Line, s.End.Column = d.position(r.End)
	return s
}

func (d *Document) elementToJSON(el parser.Element, trivia bool) *astJSONNode {
	r := el.Range()
	jn := &astJSONNode{
		Kind:  el.Kind().String(),
		Range: astJSONRange{Start: r.Start, End: r.End},
		Span:  d.span(r),
	}

	switch el := el.(type) {
	case *parser.Leaf:
		jn.Text = el.Text()
	case *parser.Node:
		for _, child := range el.Children() {
			if leaf, ok := child.(*parser.Leaf); ok && leaf.IsTrivia() && !trivia {
				continue
			}
			jn.Children = append(jn.Children, d.elementToJSON(child, trivia))
		}
	}
	return jn
}
