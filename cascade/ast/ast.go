// Package ast is a typed, read-only view over the cascade syntax tree.
//
// Wrappers are created by kind. A wrapper never copies the tree; every
// accessor reads the underlying node and returns the zero value or nil
// when the part is missing, which is common while a file is being
// edited.
package ast

import (
	"strings"

	"github.com/dhamidi/casc/cascade/parser"
)

// File is the typed view of a Root node.
type File struct {
	node *parser.Node
}

func NewFile(tree *parser.Tree) *File {
	return &File{node: tree.Root()}
}

func (f *File) Node() *parser.Node {
	return f.node
}

// Items returns the top-level items, error nodes included.
func (f *File) Items() []*parser.Node {
	return f.node.ChildNodes()
}

func (f *File) Containers() []*Container {
	var result []*Container
	for _, n := range f.node.ChildrenOfKind(parser.KindContainer) {
		result = append(result, &Container{node: n})
	}
	return result
}

// Container is a block, optional or in statement.
type Container struct {
	node *parser.Node
}

func AsContainer(n *parser.Node) *Container {
	if n == nil || n.Kind() != parser.KindContainer {
		return nil
	}
	return &Container{node: n}
}

func (c *Container) Node() *parser.Node { return c.node }

// Keyword is "block", "optional" or "in".
func (c *Container) Keyword() string {
	for _, l := range c.node.ChildLeaves() {
		switch l.Kind() {
		case parser.KwBlock, parser.KwOptional, parser.KwIn:
			return l.Text()
		}
	}
	return ""
}

func (c *Container) Name() string {
	return nameOf(c.node)
}

func (c *Container) IsAbstract() bool {
	return c.node.FirstLeafOfKind(parser.KwAbstract) != nil
}

// Extends returns the referenced parents in source order.
func (c *Container) Extends() []string {
	list := c.node.FirstChildOfKind(parser.KindExtendsList)
	if list == nil {
		return nil
	}
	var result []string
	for _, ref := range list.ChildNodes() {
		if ref.Kind() == parser.KindNameRef || ref.Kind() == parser.KindPath {
			result = append(result, Text(ref))
		}
	}
	return result
}

func (c *Container) Body() *parser.Node {
	return c.node.FirstChildOfKind(parser.KindBody)
}

func (c *Container) Items() []*parser.Node {
	return bodyItems(c.Body())
}

// MacroDef is a macro definition.
type MacroDef struct {
	node *parser.Node
}

func AsMacroDef(n *parser.Node) *MacroDef {
	if n == nil || n.Kind() != parser.KindMacroDef {
		return nil
	}
	return &MacroDef{node: n}
}

func (m *MacroDef) Node() *parser.Node { return m.node }

func (m *MacroDef) Name() string {
	return nameOf(m.node)
}

// Param is one macro parameter, e.g. `type t`.
type Param struct {
	Kind string
	Name string
}

func (m *MacroDef) Params() []Param {
	list := m.node.FirstChildOfKind(parser.KindParamList)
	if list == nil {
		return nil
	}
	var result []Param
	for _, p := range list.ChildrenOfKind(parser.KindParam) {
		result = append(result, Param{Kind: leadingText(p), Name: nameOf(p)})
	}
	return result
}

func (m *MacroDef) Items() []*parser.Node {
	return bodyItems(m.node.FirstChildOfKind(parser.KindBody))
}

// VarDecl declares a type, role, user, attribute, sensitivity, category
// or level range.
type VarDecl struct {
	node *parser.Node
}

func AsVarDecl(n *parser.Node) *VarDecl {
	if n == nil || n.Kind() != parser.KindVarDecl {
		return nil
	}
	return &VarDecl{node: n}
}

func (v *VarDecl) Node() *parser.Node { return v.node }

func (v *VarDecl) Keyword() string {
	return keywordOf(v.node)
}

func (v *VarDecl) Name() string {
	return nameOf(v.node)
}

// Init is the expression after `=`, or nil.
func (v *VarDecl) Init() *parser.Node {
	if v.node.FirstLeafOfKind(parser.Eq) == nil {
		return nil
	}
	for _, n := range operands(v.node) {
		if n.Kind() != parser.KindName {
			return n
		}
	}
	return nil
}

// AvRule is an access vector rule such as allow.
type AvRule struct {
	node *parser.Node
}

func AsAvRule(n *parser.Node) *AvRule {
	if n == nil || n.Kind() != parser.KindAvRule {
		return nil
	}
	return &AvRule{node: n}
}

func (r *AvRule) Node() *parser.Node   { return r.node }
func (r *AvRule) Keyword() string      { return keywordOf(r.node) }
func (r *AvRule) Source() *parser.Node { return operand(r.node, 0) }
func (r *AvRule) Target() *parser.Node { return operand(r.node, 1) }
func (r *AvRule) Class() *parser.Node  { return operand(r.node, 2) }
func (r *AvRule) Perms() *parser.Node  { return operand(r.node, 3) }

// Context is a `user:role:type[:range]` expression.
type Context struct {
	node *parser.Node
}

func AsContext(n *parser.Node) *Context {
	if n == nil || n.Kind() != parser.KindContext {
		return nil
	}
	return &Context{node: n}
}

func (c *Context) Node() *parser.Node { return c.node }

func (c *Context) Components() []*parser.Node {
	return operands(c.node)
}

func (c *Context) User() *parser.Node { return operand(c.node, 0) }
func (c *Context) Role() *parser.Node { return operand(c.node, 1) }
func (c *Context) Type() *parser.Node { return operand(c.node, 2) }

// Level is the optional fourth component.
func (c *Context) Level() *parser.Node { return operand(c.node, 3) }

// Range is a level range `low-high` or a category range `low..high`.
type Range struct {
	node *parser.Node
}

func AsRange(n *parser.Node) *Range {
	if n == nil {
		return nil
	}
	if n.Kind() != parser.KindLevelRange && n.Kind() != parser.KindCategoryRange {
		return nil
	}
	return &Range{node: n}
}

func (r *Range) Node() *parser.Node { return r.node }
func (r *Range) Low() *parser.Node  { return operand(r.node, 0) }
func (r *Range) High() *parser.Node { return operand(r.node, 1) }
func (r *Range) IsCategory() bool   { return r.node.Kind() == parser.KindCategoryRange }

// IfStmt is a conditional with optional elseif and else branches.
type IfStmt struct {
	node *parser.Node
}

func AsIfStmt(n *parser.Node) *IfStmt {
	if n == nil || n.Kind() != parser.KindIfStmt {
		return nil
	}
	return &IfStmt{node: n}
}

func (s *IfStmt) Node() *parser.Node { return s.node }

func (s *IfStmt) Condition() *parser.Node {
	cond := operand(s.node, 0)
	if cond == nil || cond.Kind() == parser.KindBody {
		return nil
	}
	return cond
}

func (s *IfStmt) Then() *parser.Node {
	return s.node.FirstChildOfKind(parser.KindBody)
}

// Branches returns every body of the statement in source order,
// following `else if` chains.
func (s *IfStmt) Branches() []*parser.Node {
	var result []*parser.Node
	if body := s.Then(); body != nil {
		result = append(result, body)
	}
	for _, c := range s.node.ChildrenOfKind(parser.KindElseIfClause) {
		if body := c.FirstChildOfKind(parser.KindBody); body != nil {
			result = append(result, body)
		}
	}
	if els := s.node.FirstChildOfKind(parser.KindElseClause); els != nil {
		if nested := AsIfStmt(els.FirstChildOfKind(parser.KindIfStmt)); nested != nil {
			result = append(result, nested.Branches()...)
		} else if body := els.FirstChildOfKind(parser.KindBody); body != nil {
			result = append(result, body)
		}
	}
	return result
}

// ClassDef is a class or common definition.
type ClassDef struct {
	node *parser.Node
}

func AsClassDef(n *parser.Node) *ClassDef {
	if n == nil || (n.Kind() != parser.KindClassDef && n.Kind() != parser.KindCommonDef) {
		return nil
	}
	return &ClassDef{node: n}
}

func (c *ClassDef) Node() *parser.Node { return c.node }

func (c *ClassDef) IsCommon() bool {
	return c.node.Kind() == parser.KindCommonDef
}

func (c *ClassDef) Name() string {
	return nameOf(c.node)
}

func (c *ClassDef) Inherits() string {
	clause := c.node.FirstChildOfKind(parser.KindInheritsClause)
	if clause == nil {
		return ""
	}
	if ref := operand(clause, 0); ref != nil {
		return Text(ref)
	}
	return ""
}

func (c *ClassDef) Perms() []string {
	block := c.node.FirstChildOfKind(parser.KindPermBlock)
	if block == nil {
		return nil
	}
	var result []string
	for _, n := range block.ChildrenOfKind(parser.KindName) {
		result = append(result, Text(n))
	}
	return result
}

// Text returns the source of n without any trivia.
func Text(n *parser.Node) string {
	var b strings.Builder
	n.Walk(func(e parser.Element) bool {
		if l, ok := e.(*parser.Leaf); ok && !l.IsTrivia() {
			b.WriteString(l.Text())
		}
		return true
	})
	return b.String()
}

// Span returns the range of n from its first to its last non-trivia
// token. A node without tokens yields its own range.
func Span(n *parser.Node) parser.Range {
	var first, last *parser.Leaf
	n.Walk(func(e parser.Element) bool {
		if l, ok := e.(*parser.Leaf); ok && !l.IsTrivia() {
			if first == nil {
				first = l
			}
			last = l
		}
		return true
	})
	if first == nil {
		return n.Range()
	}
	return parser.Range{Start: first.Range().Start, End: last.Range().End}
}

func nameOf(n *parser.Node) string {
	name := n.FirstChildOfKind(parser.KindName)
	if name == nil {
		return ""
	}
	return Text(name)
}

// leadingText is the text of the first token directly under n.
func leadingText(n *parser.Node) string {
	if leaves := n.ChildLeaves(); len(leaves) > 0 {
		return leaves[0].Text()
	}
	return ""
}

func keywordOf(n *parser.Node) string {
	for _, l := range n.ChildLeaves() {
		if l.Kind().IsKeyword() {
			return l.Text()
		}
	}
	return ""
}

// operands returns the child nodes of n that are not error nodes.
func operands(n *parser.Node) []*parser.Node {
	var result []*parser.Node
	for _, c := range n.ChildNodes() {
		if !c.IsError() {
			result = append(result, c)
		}
	}
	return result
}

func operand(n *parser.Node, i int) *parser.Node {
	ops := operands(n)
	if i >= len(ops) {
		return nil
	}
	return ops[i]
}

func bodyItems(body *parser.Node) []*parser.Node {
	if body == nil {
		return nil
	}
	return body.ChildNodes()
}
