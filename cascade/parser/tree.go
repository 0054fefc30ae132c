package parser

import (
	"fmt"
	"strings"
)

// Element is either a *Node or a *Leaf of the syntax tree.
type Element interface {
	Kind() SyntaxKind
	Range() Range
	Parent() *Node
	// Index is the position of the element among its parent's children.
	Index() int
	Text() string
}

// Node is an interior element of the syntax tree. Trees are immutable
// once built; slices returned by accessors must not be modified.
type Node struct {
	kind     SyntaxKind
	rng      Range
	parent   *Node
	index    int
	children []Element
}

// Leaf is a token in the syntax tree, trivia included.
type Leaf struct {
	kind   SyntaxKind
	rng    Range
	text   string
	parent *Node
	index  int
}

func (n *Node) Kind() SyntaxKind    { return n.kind }
func (n *Node) Range() Range        { return n.rng }
func (n *Node) Parent() *Node       { return n.parent }
func (n *Node) Index() int          { return n.index }
func (n *Node) Children() []Element { return n.children }

func (l *Leaf) Kind() SyntaxKind { return l.kind }
func (l *Leaf) Range() Range     { return l.rng }
func (l *Leaf) Parent() *Node    { return l.parent }
func (l *Leaf) Index() int       { return l.index }
func (l *Leaf) Text() string     { return l.text }

func (l *Leaf) IsTrivia() bool {
	return l.kind.IsTrivia()
}

// Text reconstructs the exact source covered by the node.
func (n *Node) Text() string {
	var b strings.Builder
	b.Grow(n.rng.Len())
	n.writeText(&b)
	return b.String()
}

func (n *Node) writeText(b *strings.Builder) {
	for _, child := range n.children {
		switch c := child.(type) {
		case *Leaf:
			b.WriteString(c.text)
		case *Node:
			c.writeText(b)
		}
	}
}

func (n *Node) IsError() bool {
	return n.kind == KindParseError
}

func (n *Node) ChildNodes() []*Node {
	var result []*Node
	for _, child := range n.children {
		if c, ok := child.(*Node); ok {
			result = append(result, c)
		}
	}
	return result
}

// ChildLeaves returns the non-trivia tokens directly under n.
func (n *Node) ChildLeaves() []*Leaf {
	var result []*Leaf
	for _, child := range n.children {
		if c, ok := child.(*Leaf); ok && !c.IsTrivia() {
			result = append(result, c)
		}
	}
	return result
}

func (n *Node) FirstChildOfKind(kind SyntaxKind) *Node {
	for _, child := range n.children {
		if c, ok := child.(*Node); ok && c.kind == kind {
			return c
		}
	}
	return nil
}

func (n *Node) ChildrenOfKind(kind SyntaxKind) []*Node {
	var result []*Node
	for _, child := range n.children {
		if c, ok := child.(*Node); ok && c.kind == kind {
			result = append(result, c)
		}
	}
	return result
}

func (n *Node) FirstLeafOfKind(kind SyntaxKind) *Leaf {
	for _, child := range n.children {
		if c, ok := child.(*Leaf); ok && c.kind == kind {
			return c
		}
	}
	return nil
}

// FirstLeaf returns the first non-trivia token inside n at any depth.
func (n *Node) FirstLeaf() *Leaf {
	var found *Leaf
	n.Walk(func(e Element) bool {
		if found != nil {
			return false
		}
		if l, ok := e.(*Leaf); ok && !l.IsTrivia() {
			found = l
			return false
		}
		return true
	})
	return found
}

// Walk visits n and its descendants in source order. Returning false
// from fn skips the children of the visited node.
func (n *Node) Walk(fn func(Element) bool) {
	if !fn(n) {
		return
	}
	for _, child := range n.children {
		switch c := child.(type) {
		case *Node:
			c.Walk(fn)
		case *Leaf:
			fn(c)
		}
	}
}

// Descendants returns every node of the given kind below n, in source
// order.
func (n *Node) Descendants(kind SyntaxKind) []*Node {
	var result []*Node
	for _, c := range n.ChildNodes() {
		c.Walk(func(e Element) bool {
			if d, ok := e.(*Node); ok && d.kind == kind {
				result = append(result, d)
			}
			return true
		})
	}
	return result
}

// LeafAt returns the token covering offset, preferring a non-trivia
// token that ends exactly at offset over trivia that starts there.
func (n *Node) LeafAt(offset int) *Leaf {
	var found *Leaf
	n.Walk(func(e Element) bool {
		if !e.Range().Contains(offset) {
			return false
		}
		if l, ok := e.(*Leaf); ok {
			if found == nil || (found.IsTrivia() && !l.IsTrivia()) {
				found = l
			}
		}
		return true
	})
	return found
}

func nextSibling(parent *Node, index int) Element {
	if parent == nil || index+1 >= len(parent.children) {
		return nil
	}
	return parent.children[index+1]
}

func prevSibling(parent *Node, index int) Element {
	if parent == nil || index == 0 {
		return nil
	}
	return parent.children[index-1]
}

func (n *Node) NextSibling() Element { return nextSibling(n.parent, n.index) }
func (n *Node) PrevSibling() Element { return prevSibling(n.parent, n.index) }
func (l *Leaf) NextSibling() Element { return nextSibling(l.parent, l.index) }
func (l *Leaf) PrevSibling() Element { return prevSibling(l.parent, l.index) }

// Ancestors returns the chain of enclosing nodes, innermost first.
func (n *Node) Ancestors() []*Node {
	var result []*Node
	for p := n.parent; p != nil; p = p.parent {
		result = append(result, p)
	}
	return result
}

func (n *Node) String() string {
	var b strings.Builder
	n.writeIndent(&b, 0, true)
	return b.String()
}

// StringWithoutTrivia dumps the tree skipping whitespace and comments.
func (n *Node) StringWithoutTrivia() string {
	var b strings.Builder
	n.writeIndent(&b, 0, false)
	return b.String()
}

func (n *Node) writeIndent(b *strings.Builder, indent int, trivia bool) {
	prefix := strings.Repeat("  ", indent)
	fmt.Fprintf(b, "%s%s@%s\n", prefix, n.kind, n.rng)
	for _, child := range n.children {
		switch c := child.(type) {
		case *Node:
			c.writeIndent(b, indent+1, trivia)
		case *Leaf:
			if c.IsTrivia() && !trivia {
				continue
			}
			fmt.Fprintf(b, "%s  %s@%s %q\n", prefix, c.kind, c.rng, c.text)
		}
	}
}

// Equal reports whether two trees have the same shape, kinds and token
// text. Ranges are not compared.
func Equal(a, b *Node) bool {
	if a.kind != b.kind || len(a.children) != len(b.children) {
		return false
	}
	for i := range a.children {
		switch ac := a.children[i].(type) {
		case *Node:
			bc, ok := b.children[i].(*Node)
			if !ok || !Equal(ac, bc) {
				return false
			}
		case *Leaf:
			bc, ok := b.children[i].(*Leaf)
			if !ok || ac.kind != bc.kind || ac.text != bc.text {
				return false
			}
		}
	}
	return true
}

// Tree is the result of one parse: a lossless syntax tree over the
// source it was parsed from.
type Tree struct {
	root *Node
	src  string
}

func (t *Tree) Root() *Node {
	return t.root
}

func (t *Tree) Source() string {
	return t.src
}

func (t *Tree) String() string {
	return t.root.String()
}

// treeBuilder assembles nodes from start/token/finish calls.
type treeBuilder struct {
	stack  []*Node
	root   *Node
	offset int
}

func (b *treeBuilder) startNode(kind SyntaxKind) {
	n := &Node{kind: kind, rng: Range{Start: b.offset, End: b.offset}}
	if len(b.stack) > 0 {
		parent := b.stack[len(b.stack)-1]
		n.parent = parent
		n.index = len(parent.children)
		parent.children = append(parent.children, n)
	}
	b.stack = append(b.stack, n)
}

func (b *treeBuilder) token(kind SyntaxKind, r Range, text string) {
	parent := b.stack[len(b.stack)-1]
	parent.children = append(parent.children, &Leaf{
		kind:   kind,
		rng:    r,
		text:   text,
		parent: parent,
		index:  len(parent.children),
	})
	b.offset = r.End
}

func (b *treeBuilder) finishNode() {
	n := b.stack[len(b.stack)-1]
	b.stack = b.stack[:len(b.stack)-1]
	n.rng.End = b.offset
	if len(b.stack) == 0 {
		b.root = n
	}
}
