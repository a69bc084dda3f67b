package application

// Window is the contiguous slice of rows to render plus the spacer heights
// that preserve the scrollable area's total height. Only rows in
// [Start, End) are rendered regardless of total row count.
type Window struct {
	Start        int
	End          int
	TopSpacer    int
	BottomSpacer int
}

// ComputeWindow maps a scroll offset and viewport onto the visible row
// range with overscan rows above and below. It must be recomputed on every
// scroll event and whenever the row count changes. Invariants:
// 0 <= Start <= End <= total and
// TopSpacer + (End-Start)*rowHeight + BottomSpacer == total*rowHeight.
func ComputeWindow(total, rowHeight, scrollOffset, viewportHeight, overscan int) Window {
	if total <= 0 || rowHeight <= 0 {
		return Window{}
	}
	if scrollOffset < 0 {
		scrollOffset = 0
	}

	start := scrollOffset/rowHeight - overscan
	start = clamp(start, 0, total)

	end := (scrollOffset+viewportHeight+rowHeight-1)/rowHeight + overscan
	end = clamp(end, start, total)

	return Window{
		Start:        start,
		End:          end,
		TopSpacer:    start * rowHeight,
		BottomSpacer: (total - end) * rowHeight,
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
