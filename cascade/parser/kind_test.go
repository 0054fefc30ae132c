package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindPartitions(t *testing.T) {
	for k := tokenKindBase; k < tokenKindEnd; k++ {
		assert.True(t, k.IsToken(), "%d", k)
		assert.False(t, k.IsNode(), "%d", k)
		assert.False(t, k.IsKeyword(), "%d", k)
		assert.NotEqual(t, "Unknown", k.String(), "%d", k)
	}
	for k := nodeKindBase; k < nodeKindEnd; k++ {
		assert.True(t, k.IsNode(), "%d", k)
		assert.False(t, k.IsToken(), "%d", k)
		assert.False(t, k.IsKeyword(), "%d", k)
		assert.NotEqual(t, "Unknown", k.String(), "%d", k)
	}
	for k := keywordKindBase; k < keywordKindEnd; k++ {
		assert.True(t, k.IsKeyword(), "%d", k)
		assert.False(t, k.IsToken(), "%d", k)
		assert.False(t, k.IsNode(), "%d", k)
		assert.NotEqual(t, "Unknown", k.String(), "%d", k)
	}

	assert.Less(t, uint16(tokenKindEnd), uint16(nodeKindBase))
	assert.Less(t, uint16(nodeKindEnd), uint16(keywordKindBase))
	assert.LessOrEqual(t, uint16(keywordKindEnd), uint16(kindLimit))

	assert.False(t, kindLimit.IsToken())
	assert.False(t, kindLimit.IsNode())
	assert.False(t, kindLimit.IsKeyword())
	assert.Equal(t, "Unknown", kindLimit.String())
}

func TestKindNames(t *testing.T) {
	tests := []struct {
		kind SyntaxKind
		want string
	}{
		{EOF, "EOF"},
		{Semicolon, ";"},
		{PlusEq, "+="},
		{KindRoot, "Root"},
		{KindLevelRange, "LevelRange"},
		{KwBlock, "block"},
		{KwTypeTransition, "type_transition"},
		{SyntaxKind(999), "Unknown"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.kind.String())
	}
}

func TestLookupKeyword(t *testing.T) {
	kind, ok := LookupKeyword("allow")
	assert.True(t, ok)
	assert.Equal(t, KwAllow, kind)

	_, ok = LookupKeyword("Allow")
	assert.False(t, ok, "keywords are case sensitive")

	_, ok = LookupKeyword("httpd_t")
	assert.False(t, ok)

	assert.Len(t, keywords, int(keywordKindEnd-keywordKindBase))
	for text, kind := range keywords {
		assert.Equal(t, text, kind.String())
	}
}

func TestTriviaKinds(t *testing.T) {
	assert.True(t, Whitespace.IsTrivia())
	assert.True(t, LineComment.IsTrivia())
	assert.True(t, BlockComment.IsTrivia())
	assert.False(t, Ident.IsTrivia())
	assert.False(t, EOF.IsTrivia())

	assert.True(t, LineComment.IsComment())
	assert.False(t, Whitespace.IsComment())
}
