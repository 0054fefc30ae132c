package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnresolvedMarkerPanics(t *testing.T) {
	p := newParser("a")
	p.mark()
	assert.PanicsWithValue(t, "parser: unresolved markers at events [0]", p.checkMarkers)
}

func TestMarkerResolvedTwicePanics(t *testing.T) {
	p := newParser("a")
	m := p.mark()
	p.bump()
	m.complete(p, KindNameRef)
	assert.Panics(t, func() { m.complete(p, KindNameRef) })
	assert.Panics(t, func() { m.abandon(p) })
}

func TestAbandonLastMarkerPops(t *testing.T) {
	p := newParser("a")
	m := p.mark()
	m.abandon(p)
	assert.Empty(t, p.events)
	assert.NotPanics(t, p.checkMarkers)
}

func TestAbandonInnerMarkerTombstones(t *testing.T) {
	p := newParser("a")
	m := p.mark()
	p.bump()
	m.abandon(p)
	require.Len(t, p.events, 2)
	assert.Equal(t, evTombstone, p.events[0].kind)
	assert.Equal(t, evLeaf, p.events[1].kind)
}

func TestAbandonPrecedeClearsForwardParent(t *testing.T) {
	p := newParser("a")
	m := p.mark()
	p.bump()
	cm := m.complete(p, KindNameRef)
	w := cm.precede(p)
	assert.Equal(t, 3, p.events[cm.pos].forwardParent)
	w.abandon(p)
	assert.Zero(t, p.events[cm.pos].forwardParent)
	assert.Len(t, p.events, 3)
}

func TestPrecedeForwardParent(t *testing.T) {
	p := newParser("a | b")
	root := p.mark()
	p.expr(RestrictNone)
	root.complete(p, KindRoot)

	want := []string{
		"Begin(Root)",
		"Begin(NameRef, +3)",
		"Leaf(Ident)",
		"End",
		"Begin(BinaryExpr)",
		"Leaf(|)",
		"Begin(NameRef)",
		"Leaf(Ident)",
		"End",
		"End",
		"End",
	}
	got := make([]string, len(p.events))
	for i, ev := range p.events {
		got[i] = ev.String()
	}
	require.Equal(t, want, got)

	tree, errs := p.finish()
	require.Empty(t, errs)
	bin := tree.Root().FirstChildOfKind(KindBinaryExpr)
	require.NotNil(t, bin)
	assert.Equal(t, "a | b", bin.Text())
	assert.Equal(t, []SyntaxKind{KindNameRef, KindNameRef}, nodeKinds(bin))
}

func TestForwardParentChain(t *testing.T) {
	tree, errs := ParseExpression("a | b | c | d")
	require.Empty(t, errs)

	// Three nested BinaryExpr nodes all start at the same offset.
	n := tree.Root().FirstChildOfKind(KindBinaryExpr)
	depth := 0
	for n != nil {
		assert.Equal(t, 0, n.Range().Start)
		depth++
		n = n.FirstChildOfKind(KindBinaryExpr)
	}
	assert.Equal(t, 3, depth)
}

func TestTombstonedParentIsSkipped(t *testing.T) {
	p := newParser("a:")
	root := p.mark()
	p.expr(RestrictNone)
	root.complete(p, KindRoot)

	assert.Equal(t, evTombstone, p.events[4].kind)
	assert.Equal(t, 3, p.events[1].forwardParent)

	tree, _ := p.finish()
	assert.Equal(t, "Root@0..2\n  NameRef@0..1\n    Ident@0..1 \"a\"\n  :@1..2 \":\"\n", tree.String())
}
