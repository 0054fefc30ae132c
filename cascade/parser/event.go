package parser

import (
	"fmt"
	"slices"
)

type eventKind uint8

const (
	// evBeginMarker is a node start whose kind is not decided yet.
	evBeginMarker eventKind = iota
	evBegin
	evLeaf
	evEnd
	evTombstone
)

// event is one entry of the append-only log the grammar produces.
// forwardParent is an offset to a later evBegin that must become the
// ancestor of this node; zero means none.
type event struct {
	kind          eventKind
	syntax        SyntaxKind
	forwardParent int
}

func (e event) String() string {
	switch e.kind {
	case evBeginMarker:
		return "BeginMarker"
	case evBegin:
		if e.forwardParent != 0 {
			return fmt.Sprintf("Begin(%s, +%d)", e.syntax, e.forwardParent)
		}
		return fmt.Sprintf("Begin(%s)", e.syntax)
	case evLeaf:
		return fmt.Sprintf("Leaf(%s)", e.syntax)
	case evEnd:
		return "End"
	}
	return "Tombstone"
}

// marker points at an evBeginMarker in the log. Every marker must be
// completed or abandoned before the parse returns.
type marker struct {
	pos int
	// precededFrom is the position of the completed node this marker was
	// created to wrap, or -1.
	precededFrom int
}

// completedMarker points at a finished evBegin/evEnd pair.
type completedMarker struct {
	pos  int
	kind SyntaxKind
}

func (p *Parser) mark() marker {
	pos := len(p.events)
	p.events = append(p.events, event{kind: evBeginMarker})
	p.pending[pos] = struct{}{}
	return marker{pos: pos, precededFrom: -1}
}

func (p *Parser) resolve(m marker) {
	if _, ok := p.pending[m.pos]; !ok {
		panic(fmt.Sprintf("parser: marker at event %d resolved twice", m.pos))
	}
	delete(p.pending, m.pos)
}

func (m marker) complete(p *Parser, kind SyntaxKind) completedMarker {
	p.resolve(m)
	p.events[m.pos] = event{kind: evBegin, syntax: kind}
	p.events = append(p.events, event{kind: evEnd})
	return completedMarker{pos: m.pos, kind: kind}
}

// abandon drops the marker. When nothing was logged after it the slot
// is popped, otherwise it is left as a tombstone so later positions
// stay valid.
func (m marker) abandon(p *Parser) {
	p.resolve(m)
	if m.pos == len(p.events)-1 {
		p.events = p.events[:m.pos]
		if m.precededFrom >= 0 {
			p.events[m.precededFrom].forwardParent = 0
		}
		return
	}
	p.events[m.pos] = event{kind: evTombstone}
}

// precede starts a new node that will enclose cm once completed. The
// new node begins where cm begins and ends wherever the caller
// completes it.
func (cm completedMarker) precede(p *Parser) marker {
	m := p.mark()
	m.precededFrom = cm.pos
	p.events[cm.pos].forwardParent = m.pos - cm.pos
	return m
}

// checkMarkers panics when a marker escaped without being resolved.
// That is a grammar bug, never a property of the input.
func (p *Parser) checkMarkers() {
	if len(p.pending) == 0 {
		return
	}
	positions := make([]int, 0, len(p.pending))
	for pos := range p.pending {
		positions = append(positions, pos)
	}
	slices.Sort(positions)
	panic(fmt.Sprintf("parser: unresolved markers at events %v", positions))
}
