// Package parser provides a lossless, error-tolerant parser for the
// cascade policy language.
//
// # Overview
//
// The parser turns source text into a concrete syntax tree that keeps
// every byte of the input, whitespace and comments included. It is
// designed for editor tooling where incomplete or malformed input is
// the normal case: parsing never fails and the tree always spans the
// whole input.
//
// # Architecture
//
//	┌─────────────┐     ┌─────────────┐     ┌─────────────┐     ┌─────────────┐
//	│   Lexer     │────▶│   Grammar   │────▶│  Event log  │────▶│    Sink     │
//	│  (tokens)   │     │ (non-trivia)│     │   (flat)    │     │   (tree)    │
//	└─────────────┘     └─────────────┘     └─────────────┘     └─────────────┘
//
// The lexer covers the text with tokens and never fails; characters it
// does not know become single Illegal tokens. The grammar is recursive
// descent over the non-trivia tokens only. Instead of building nodes it
// appends Begin, Leaf and End events to a log. Once the grammar is done
// the sink replays the log over the full token slice and reattaches the
// trivia.
//
// # Markers
//
// Grammar rules open a node with mark and close it with complete or
// abandon. A completed node can later be wrapped by a new parent with
// precede, which stores only an offset to the parent's Begin event in
// the child's Begin event. This is how
//
//	user:role:type:s0-s1
//
// becomes a Context node after user has already been parsed as a
// NameRef, without backtracking and without rewriting anything.
//
// # Expressions
//
// Binary operators are parsed by precedence climbing:
//
//	||  1
//	&&  2
//	|   3
//	^   4
//	&   5
//
// all left associative, with unary ! and ~ binding tighter. An operand
// may instead take one of three suffix forms that share a name prefix:
// a context (`a:b:c[:range]`), a level range (`s0-s1`) or a category
// range (`c0..c9`). A Restriction passed down the expression functions
// decides which forms are allowed: rule operands are parsed with
// RestrictNoContext so the `:` before the class is not swallowed, and
// the upper end of a range with RestrictNoRange.
//
// # Error Recovery
//
// Diagnostics are collected in a list returned next to the tree. When
// no item can start at the current token the parser skips to the next
// `;` or closing brace at the same nesting depth and wraps the skipped
// tokens in a ParseError node. Unclosed braces and parentheses are
// reported once, at the opener.
//
// # Trivia
//
// Trivia in front of a node normally stays with the previous sibling.
// When the run contains a comment, the last comment and everything
// after it moves into the new node, so
//
//	// Web server domain.
//	type httpd_t;
//
// yields a VarDecl whose first child is the comment.
//
// # Example Usage
//
//	tree, errs := parser.Parse("block web { type httpd_t; }")
//	for _, err := range errs {
//	    fmt.Println(err.Range, err.Message)
//	}
//	fmt.Print(tree.Root().String())
//
// # Thread Safety
//
// Each call to Parse uses its own private state. Trees are immutable
// and may be shared between goroutines.
package parser
