package parser

// sink replays the event log against the full token slice, putting the
// trivia the grammar never saw back into the tree.
type sink struct {
	src     string
	tokens  []Token
	pos     int
	depth   int
	builder treeBuilder
}

// buildTree consumes events in one pass. Forward-parent chains are
// resolved when their first node is reached: the kinds are collected
// innermost first and the nodes started outermost first. Visited slots
// are overwritten with tombstones so the later positions are skipped.
func buildTree(src string, tokens []Token, events []event) *Node {
	s := &sink{src: src, tokens: tokens}
	var kinds []SyntaxKind
	for i := range events {
		ev := events[i]
		events[i] = event{kind: evTombstone}
		switch ev.kind {
		case evBegin:
			kinds = append(kinds[:0], ev.syntax)
			idx, fp := i, ev.forwardParent
			for fp != 0 {
				idx += fp
				if idx >= len(events) || events[idx].kind != evBegin {
					break
				}
				parent := events[idx]
				events[idx] = event{kind: evTombstone}
				kinds = append(kinds, parent.syntax)
				fp = parent.forwardParent
			}
			for j := len(kinds) - 1; j >= 0; j-- {
				s.startNode(kinds[j])
			}
		case evLeaf:
			s.leaf(ev.syntax)
		case evEnd:
			s.finishNode()
		}
	}
	if s.builder.root == nil {
		// Only reachable with an empty log; keep the contract of always
		// returning a tree covering the input.
		s.startNode(KindRoot)
		s.finishNode()
	}
	return s.builder.root
}

// startNode decides where the trivia in front of the next token goes.
// Everything from the last comment of the run onwards moves inside the
// new node, so a comment directly above an item belongs to the item.
// Whitespace before that comment, or a run without comments, stays
// with the previous sibling.
func (s *sink) startNode(kind SyntaxKind) {
	if s.depth == 0 {
		s.builder.startNode(kind)
		s.depth++
		return
	}
	n := s.triviaRun()
	split := n
	for i := n - 1; i >= 0; i-- {
		if s.tokens[s.pos+i].Kind.IsComment() {
			split = i
			break
		}
	}
	s.emitTokens(split)
	s.builder.startNode(kind)
	s.depth++
	s.emitTokens(n - split)
}

func (s *sink) leaf(kind SyntaxKind) {
	s.emitTokens(s.triviaRun())
	if s.pos >= len(s.tokens) || s.tokens[s.pos].Kind == EOF {
		return
	}
	tok := s.tokens[s.pos]
	s.builder.token(kind, tok.Range(), tok.Text(s.src))
	s.pos++
}

// finishNode closes the innermost node. Inner nodes do not flush
// trivia on close; it stays pending for the next startNode, which may
// pull a comment into the following item. Closing the outermost node
// first flushes everything left, so trailing trivia lands in the root.
func (s *sink) finishNode() {
	s.depth--
	if s.depth == 0 {
		for s.pos < len(s.tokens) && s.tokens[s.pos].Kind != EOF {
			s.emitTokens(1)
		}
	}
	s.builder.finishNode()
}

// triviaRun counts trivia tokens starting at the cursor.
func (s *sink) triviaRun() int {
	n := 0
	for s.pos+n < len(s.tokens) && s.tokens[s.pos+n].Kind.IsTrivia() {
		n++
	}
	return n
}

func (s *sink) emitTokens(n int) {
	for ; n > 0; n-- {
		tok := s.tokens[s.pos]
		s.builder.token(tok.Kind, tok.Range(), tok.Text(s.src))
		s.pos++
	}
}
