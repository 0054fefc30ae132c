package parser

import (
	"encoding/json"
	"testing"
)

func TestNodeNavigation(t *testing.T) {
	tree, _ := Parse("block a { type t; role r; }")
	root := tree.Root()

	body := root.FirstChildOfKind(KindContainer).FirstChildOfKind(KindBody)
	if body == nil {
		t.Fatal("missing body")
	}
	decls := body.ChildrenOfKind(KindVarDecl)
	if len(decls) != 2 {
		t.Fatalf("got %d decls, want 2", len(decls))
	}

	if got := decls[0].Parent(); got != body {
		t.Errorf("parent = %v, want body", got)
	}
	if got := decls[0].Ancestors(); len(got) != 3 || got[2] != root {
		t.Errorf("ancestors = %v", got)
	}

	next := decls[0].NextSibling()
	if next == nil || next.Kind() != Whitespace {
		t.Errorf("next sibling = %v, want whitespace", next)
	}
	if prev := decls[1].PrevSibling(); prev != next {
		t.Errorf("prev sibling of second decl = %v, want %v", prev, next)
	}
	if got := root.PrevSibling(); got != nil {
		t.Errorf("root has sibling %v", got)
	}

	if got := decls[1].FirstLeaf(); got.Kind() != KwRole {
		t.Errorf("first leaf = %v, want role", got.Kind())
	}
	if got := len(root.Descendants(KindName)); got != 3 {
		t.Errorf("got %d Name descendants, want 3", got)
	}
}

func TestLeafAt(t *testing.T) {
	tree, _ := Parse("type abc;")
	root := tree.Root()

	tests := []struct {
		offset int
		want   string
	}{
		{0, "type"},
		{4, "type"},
		{5, "abc"},
		{8, "abc"},
		{9, ";"},
	}
	for _, tt := range tests {
		leaf := root.LeafAt(tt.offset)
		if leaf == nil {
			t.Errorf("LeafAt(%d) = nil", tt.offset)
			continue
		}
		if leaf.Text() != tt.want {
			t.Errorf("LeafAt(%d) = %q, want %q", tt.offset, leaf.Text(), tt.want)
		}
	}
}

func TestStringWithoutTrivia(t *testing.T) {
	tree, _ := Parse("// x\ntype t;")
	want := "Root@0..12\n" +
		"  VarDecl@0..12\n" +
		"    type@5..9 \"type\"\n" +
		"    Name@10..11\n" +
		"      Ident@10..11 \"t\"\n" +
		"    ;@11..12 \";\"\n"
	if got := tree.Root().StringWithoutTrivia(); got != want {
		t.Errorf("got\n%s\nwant\n%s", got, want)
	}
}

func TestEqual(t *testing.T) {
	a, _ := Parse("type t;")
	b, _ := Parse("type t;")
	c, _ := Parse("type u;")
	if !Equal(a.Root(), b.Root()) {
		t.Error("identical sources produced different trees")
	}
	if Equal(a.Root(), c.Root()) {
		t.Error("different sources produced equal trees")
	}
}

func TestNodeMarshalJSON(t *testing.T) {
	tree, _ := Parse("type t;")
	data, err := json.Marshal(tree.Root())
	if err != nil {
		t.Fatal(err)
	}

	var got struct {
		Kind     string `json:"kind"`
		Children []struct {
			Kind     string `json:"kind"`
			Children []struct {
				Kind string `json:"kind"`
				Text string `json:"text"`
			} `json:"children"`
		} `json:"children"`
	}
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatal(err)
	}
	if got.Kind != "Root" || len(got.Children) != 1 || got.Children[0].Kind != "VarDecl" {
		t.Fatalf("unexpected shape: %s", data)
	}
	if first := got.Children[0].Children[0]; first.Kind != "type" || first.Text != "type" {
		t.Errorf("first leaf = %+v", first)
	}
}

func TestRange(t *testing.T) {
	r := Range{Start: 2, End: 5}
	if r.Len() != 3 || r.IsEmpty() {
		t.Errorf("Len/IsEmpty wrong for %v", r)
	}
	if !r.Contains(5) || r.Contains(6) || r.Contains(1) {
		t.Errorf("Contains wrong for %v", r)
	}
	if r.String() != "2..5" {
		t.Errorf("String() = %q", r.String())
	}
}
