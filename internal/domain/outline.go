package domain

// OutlineNode is the derived shape of one heading within its file: the
// nesting depth relative to the file root and whether any later heading is
// nested beneath it. Headings carry no parent pointers; the outline is
// reconstructed from the flat, level-tagged sequence on every use.
type OutlineNode struct {
	Depth       int
	HasChildren bool
}

// AnnotateOutline computes depth and has-children flags for a heading list
// sorted by order. It runs one linear pass over the list with a stack of
// open heading indices: before heading i is processed, entries whose level
// is >= the current level are popped (closing siblings and uncles), the
// remaining stack length is the depth, and the surviving top gains a child.
func AnnotateOutline(headings []FileHeading) []OutlineNode {
	nodes := make([]OutlineNode, len(headings))
	stack := make([]int, 0, 8)

	for i, h := range headings {
		for len(stack) > 0 && headings[stack[len(stack)-1]].Level >= h.Level {
			stack = stack[:len(stack)-1]
		}
		nodes[i].Depth = len(stack)
		if len(stack) > 0 {
			nodes[stack[len(stack)-1]].HasChildren = true
		}
		stack = append(stack, i)
	}
	return nodes
}

// OutlineVisibility reports, per heading, whether the heading survives the
// given collapse state. A heading is suppressed iff its nearest still-open
// ancestor carries a collapsed chain, where a chain is the ancestor's own
// collapsed flag OR-ed with its parent's chain. Collapsing a heading
// therefore hides its entire subtree regardless of depth, and suppressed
// headings still participate in descendant accounting.
func OutlineVisibility(headings []FileHeading, collapsed func(i int) bool) []bool {
	type frame struct {
		level int64
		chain bool
	}
	visible := make([]bool, len(headings))
	stack := make([]frame, 0, 8)

	for i, h := range headings {
		for len(stack) > 0 && stack[len(stack)-1].level >= h.Level {
			stack = stack[:len(stack)-1]
		}
		chain := false
		if len(stack) > 0 {
			chain = stack[len(stack)-1].chain
		}
		visible[i] = !chain
		stack = append(stack, frame{level: h.Level, chain: chain || collapsed(i)})
	}
	return visible
}

// FindHeading locates a heading by order, falling back to the first
// level+text match. Returns -1 when neither matches.
func FindHeading(headings []FileHeading, order int64, level int64, text string) int {
	for i, h := range headings {
		if h.Order == order {
			return i
		}
	}
	for i, h := range headings {
		if h.Level == level && h.Text == text {
			return i
		}
	}
	return -1
}

// AncestorChain replays the outline stack up to the target index and
// returns the indices of the full ancestor path from the file root down to
// and including the target. A negative or out-of-range target yields nil;
// callers treat that as the degenerate single-row fallback, not an error.
func AncestorChain(headings []FileHeading, target int) []int {
	if target < 0 || target >= len(headings) {
		return nil
	}
	stack := make([]int, 0, 8)
	for i := range headings[:target+1] {
		for len(stack) > 0 && headings[stack[len(stack)-1]].Level >= headings[i].Level {
			stack = stack[:len(stack)-1]
		}
		if i == target {
			chain := make([]int, len(stack)+1)
			copy(chain, stack)
			chain[len(stack)] = target
			return chain
		}
		stack = append(stack, i)
	}
	return nil
}
