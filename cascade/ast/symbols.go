package ast

import "github.com/dhamidi/casc/cascade/parser"

type SymbolKind string

const (
	SymbolContainer    SymbolKind = "container"
	SymbolMacro        SymbolKind = "macro"
	SymbolParam        SymbolKind = "param"
	SymbolType         SymbolKind = "type"
	SymbolAttribute    SymbolKind = "attribute"
	SymbolRole         SymbolKind = "role"
	SymbolUser         SymbolKind = "user"
	SymbolSensitivity  SymbolKind = "sensitivity"
	SymbolCategory     SymbolKind = "category"
	SymbolLevelRange   SymbolKind = "level_range"
	SymbolClass        SymbolKind = "class"
	SymbolCommon       SymbolKind = "common"
	SymbolAttributeSet SymbolKind = "attribute_set"
)

// Symbol is one named declaration for document outlines.
type Symbol struct {
	Name string
	Kind SymbolKind
	// Detail is the declaring keyword, e.g. "optional" or "role_attribute".
	Detail string
	// Range covers the whole declaration, SelectionRange only its name.
	Range          parser.Range
	SelectionRange parser.Range
	Children       []Symbol
}

var varSymbolKinds = map[string]SymbolKind{
	"type":           SymbolType,
	"type_attribute": SymbolAttribute,
	"role":           SymbolRole,
	"role_attribute": SymbolAttribute,
	"user":           SymbolUser,
	"user_attribute": SymbolAttribute,
	"sensitivity":    SymbolSensitivity,
	"category":       SymbolCategory,
	"level_range":    SymbolLevelRange,
}

// Symbols returns the declarations below root as a tree that mirrors
// container and macro nesting. Declarations inside conditionals are
// reported as if they were written in the enclosing body. Items whose
// name is missing are skipped.
func Symbols(root *parser.Node) []Symbol {
	return symbolsOf(root.ChildNodes())
}

func symbolsOf(items []*parser.Node) []Symbol {
	var result []Symbol
	for _, n := range items {
		switch n.Kind() {
		case parser.KindContainer:
			c := AsContainer(n)
			result = appendSymbol(result, n, c.Name(), SymbolContainer, c.Keyword(), symbolsOf(c.Items()))
		case parser.KindMacroDef:
			m := AsMacroDef(n)
			var children []Symbol
			if list := n.FirstChildOfKind(parser.KindParamList); list != nil {
				for _, p := range list.ChildrenOfKind(parser.KindParam) {
					children = appendSymbol(children, p, nameOf(p), SymbolParam, leadingText(p), nil)
				}
			}
			children = append(children, symbolsOf(m.Items())...)
			result = appendSymbol(result, n, m.Name(), SymbolMacro, "macro", children)
		case parser.KindVarDecl:
			v := AsVarDecl(n)
			kind, ok := varSymbolKinds[v.Keyword()]
			if !ok {
				continue
			}
			result = appendSymbol(result, n, v.Name(), kind, v.Keyword(), nil)
		case parser.KindClassDef, parser.KindCommonDef:
			c := AsClassDef(n)
			kind := SymbolClass
			if c.IsCommon() {
				kind = SymbolCommon
			}
			result = appendSymbol(result, n, c.Name(), kind, keywordOf(n), nil)
		case parser.KindAttributeSet:
			result = appendSymbol(result, n, nameOf(n), SymbolAttributeSet, "attribute_set", nil)
		case parser.KindIfStmt:
			for _, body := range AsIfStmt(n).Branches() {
				result = append(result, symbolsOf(bodyItems(body))...)
			}
		}
	}
	return result
}

func appendSymbol(symbols []Symbol, n *parser.Node, name string, kind SymbolKind, detail string, children []Symbol) []Symbol {
	if name == "" {
		return symbols
	}
	return append(symbols, Symbol{
		Name:           name,
		Kind:           kind,
		Detail:         detail,
		Range:          Span(n),
		SelectionRange: Span(n.FirstChildOfKind(parser.KindName)),
		Children:       children,
	})
}
