package domain

import (
	"reflect"
	"testing"
)

func headings(levels ...int64) []FileHeading {
	hs := make([]FileHeading, len(levels))
	for i, level := range levels {
		hs[i] = FileHeading{
			ID:    int64(i + 1),
			Order: int64(i),
			Level: level,
			Text:  "h" + string(rune('a'+i)),
		}
	}
	return hs
}

func TestAnnotateOutline_Depths(t *testing.T) {
	tests := []struct {
		name   string
		levels []int64
		depths []int
	}{
		{"flat", []int64{1, 1, 1}, []int{0, 0, 0}},
		{"simple nesting", []int64{1, 2, 2}, []int{0, 1, 1}},
		{"deep then shallow", []int64{1, 2, 3, 4, 2, 1}, []int{0, 1, 2, 3, 1, 0}},
		{"starts deep", []int64{3, 1, 2}, []int{0, 0, 1}},
		{"skipped levels", []int64{1, 3, 4, 3, 1}, []int{0, 1, 2, 1, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nodes := AnnotateOutline(headings(tt.levels...))
			for i, want := range tt.depths {
				if nodes[i].Depth != want {
					t.Errorf("heading %d: depth = %d, want %d", i, nodes[i].Depth, want)
				}
			}
		})
	}
}

func TestAnnotateOutline_DepthNeverDecreasesOnRisingLevels(t *testing.T) {
	nodes := AnnotateOutline(headings(1, 2, 3, 4))
	for i := 1; i < len(nodes); i++ {
		if nodes[i].Depth < nodes[i-1].Depth {
			t.Errorf("depth decreased across rising level run at %d: %d < %d",
				i, nodes[i].Depth, nodes[i-1].Depth)
		}
	}
}

func TestAnnotateOutline_HasChildren(t *testing.T) {
	// h0(1) has children h1,h2; h1(2) has child h2? No: h2 is level 2, a
	// sibling of h1. h3(1) closes everything.
	nodes := AnnotateOutline(headings(1, 2, 2, 1))
	want := []bool{true, false, false, false}
	for i, w := range want {
		if nodes[i].HasChildren != w {
			t.Errorf("heading %d: hasChildren = %v, want %v", i, nodes[i].HasChildren, w)
		}
	}

	nodes = AnnotateOutline(headings(1, 2, 3, 2))
	want = []bool{true, true, false, false}
	for i, w := range want {
		if nodes[i].HasChildren != w {
			t.Errorf("heading %d: hasChildren = %v, want %v", i, nodes[i].HasChildren, w)
		}
	}
}

func TestOutlineVisibility_CollapseHidesSubtree(t *testing.T) {
	hs := headings(1, 2, 2, 1)
	none := func(int) bool { return false }

	visible := OutlineVisibility(hs, none)
	for i, v := range visible {
		if !v {
			t.Fatalf("heading %d hidden with nothing collapsed", i)
		}
	}

	// Collapsing h0 hides exactly its descendants h1 and h2.
	visible = OutlineVisibility(hs, func(i int) bool { return i == 0 })
	want := []bool{true, false, false, true}
	if !reflect.DeepEqual(visible, want) {
		t.Errorf("visibility = %v, want %v", visible, want)
	}

	// Re-expanding restores the original visibility (round trip).
	visible = OutlineVisibility(hs, none)
	for i, v := range visible {
		if !v {
			t.Errorf("heading %d still hidden after expand", i)
		}
	}
}

func TestOutlineVisibility_CollapsedChainPropagates(t *testing.T) {
	// h0(1) > h1(2) > h2(3): collapsing h0 must hide h2 even though h1's
	// own collapsed flag is false.
	hs := headings(1, 2, 3, 1)
	visible := OutlineVisibility(hs, func(i int) bool { return i == 0 })
	want := []bool{true, false, false, true}
	if !reflect.DeepEqual(visible, want) {
		t.Errorf("visibility = %v, want %v", visible, want)
	}

	// Collapsing a mid heading hides only its own subtree.
	visible = OutlineVisibility(hs, func(i int) bool { return i == 1 })
	want = []bool{true, true, false, true}
	if !reflect.DeepEqual(visible, want) {
		t.Errorf("visibility = %v, want %v", visible, want)
	}
}

func TestAncestorChain(t *testing.T) {
	hs := []FileHeading{
		{Order: 0, Level: 1, Text: "Aff"},
		{Order: 1, Level: 2, Text: "Contention 1"},
		{Order: 2, Level: 2, Text: "Contention 2"},
	}

	if got := AncestorChain(hs, 1); !reflect.DeepEqual(got, []int{0, 1}) {
		t.Errorf("chain for Contention 1 = %v, want [0 1]", got)
	}
	if got := AncestorChain(hs, 2); !reflect.DeepEqual(got, []int{0, 2}) {
		t.Errorf("chain for Contention 2 = %v, want [0 2]", got)
	}
	if got := AncestorChain(hs, 0); !reflect.DeepEqual(got, []int{0}) {
		t.Errorf("chain for Aff = %v, want [0]", got)
	}
	if got := AncestorChain(hs, -1); got != nil {
		t.Errorf("chain for missing target = %v, want nil", got)
	}
	if got := AncestorChain(hs, 7); got != nil {
		t.Errorf("chain for out-of-range target = %v, want nil", got)
	}
}

func TestFindHeading(t *testing.T) {
	hs := []FileHeading{
		{Order: 10, Level: 1, Text: "Aff"},
		{Order: 20, Level: 2, Text: "Contention 1"},
	}

	if got := FindHeading(hs, 20, 0, ""); got != 1 {
		t.Errorf("order match = %d, want 1", got)
	}
	// Stale order falls back to level+text.
	if got := FindHeading(hs, 99, 2, "Contention 1"); got != 1 {
		t.Errorf("level+text fallback = %d, want 1", got)
	}
	if got := FindHeading(hs, 99, 3, "nope"); got != -1 {
		t.Errorf("missing heading = %d, want -1", got)
	}
}
