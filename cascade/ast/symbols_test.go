package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhamidi/casc/cascade/parser"
)

func TestSymbols(t *testing.T) {
	src := `block web {
	type httpd_t;
	role_attribute admins;
	macro serve(type t) {
		type helper_t;
	}
	if enabled {
		user staff_u;
	} else {
		category c0;
	}
	class file { read }
	attribute_set all = (a | b);
	allow a b : c (d);
}
`
	tree, errs := parser.Parse(src)
	require.Empty(t, errs)

	symbols := Symbols(tree.Root())
	require.Len(t, symbols, 1)
	web := symbols[0]
	assert.Equal(t, "web", web.Name)
	assert.Equal(t, SymbolContainer, web.Kind)
	assert.Equal(t, "block", web.Detail)
	assert.Equal(t, parser.Range{Start: 0, End: len(src) - 1}, web.Range)
	assert.Equal(t, parser.Range{Start: 6, End: 9}, web.SelectionRange)

	var names []string
	var kinds []SymbolKind
	for _, s := range web.Children {
		names = append(names, s.Name)
		kinds = append(kinds, s.Kind)
	}
	assert.Equal(t, []string{"httpd_t", "admins", "serve", "staff_u", "c0", "file", "all"}, names)
	assert.Equal(t, []SymbolKind{
		SymbolType, SymbolAttribute, SymbolMacro, SymbolUser,
		SymbolCategory, SymbolClass, SymbolAttributeSet,
	}, kinds)

	serve := web.Children[2]
	require.Len(t, serve.Children, 2)
	assert.Equal(t, Symbol{
		Name:           "t",
		Kind:           SymbolParam,
		Detail:         "type",
		Range:          serve.Children[0].Range,
		SelectionRange: serve.Children[0].SelectionRange,
	}, serve.Children[0])
	assert.Equal(t, "helper_t", serve.Children[1].Name)
}

func TestSymbolsSkipUnnamed(t *testing.T) {
	tree, _ := parser.Parse("type ;\nblock { type ok_t; }")
	symbols := Symbols(tree.Root())
	assert.Empty(t, symbols)
}

func TestSymbolRangesIgnoreComments(t *testing.T) {
	src := "// doc\ntype t;"
	tree, _ := parser.Parse(src)
	symbols := Symbols(tree.Root())
	require.Len(t, symbols, 1)
	assert.Equal(t, parser.Range{Start: 7, End: 14}, symbols[0].Range)
	assert.Equal(t, parser.Range{Start: 12, End: 13}, symbols[0].SelectionRange)
}
