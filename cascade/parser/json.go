package parser

import "encoding/json"

type jsonElement struct {
	Kind     string         `json:"kind"`
	Range    jsonRange      `json:"range"`
	Text     string         `json:"text,omitempty"`
	Children []*jsonElement `json:"children,omitempty"`
}

type jsonRange struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

func (n *Node) MarshalJSON() ([]byte, error) {
	return json.Marshal(n.toJSON())
}

func (n *Node) toJSON() *jsonElement {
	jn := &jsonElement{
		Kind:  n.kind.String(),
		Range: jsonRange{Start: n.rng.Start, End: n.rng.End},
	}
	if len(n.children) > 0 {
		jn.Children = make([]*jsonElement, len(n.children))
		for i, child := range n.children {
			switch c := child.(type) {
			case *Node:
				jn.Children[i] = c.toJSON()
			case *Leaf:
				jn.Children[i] = &jsonElement{
					Kind:  c.kind.String(),
					Range: jsonRange{Start: c.rng.Start, End: c.rng.End},
					Text:  c.text,
				}
			}
		}
	}
	return jn
}
