package application

import "testing"

func TestComputeWindow(t *testing.T) {
	tests := []struct {
		name                              string
		total, rowHeight, offset, vh, over int
		wantStart, wantEnd                int
	}{
		{"top of list", 100, 10, 0, 50, 2, 0, 7},
		{"mid scroll", 100, 10, 200, 50, 2, 18, 27},
		{"bottom clamp", 100, 10, 990, 50, 2, 97, 100},
		{"overscan clamps at zero", 100, 10, 5, 50, 4, 0, 10},
		{"viewport taller than list", 3, 10, 0, 500, 2, 0, 3},
		{"empty list", 0, 10, 0, 50, 2, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := ComputeWindow(tt.total, tt.rowHeight, tt.offset, tt.vh, tt.over)
			if w.Start != tt.wantStart || w.End != tt.wantEnd {
				t.Errorf("window = [%d,%d), want [%d,%d)", w.Start, w.End, tt.wantStart, tt.wantEnd)
			}
		})
	}
}

func TestComputeWindow_Invariants(t *testing.T) {
	const rowHeight = 8
	for total := 0; total <= 200; total += 13 {
		for offset := 0; offset <= total*rowHeight+100; offset += 37 {
			w := ComputeWindow(total, rowHeight, offset, 60, 3)
			if w.Start < 0 || w.Start > w.End || w.End > total {
				t.Fatalf("total=%d offset=%d: bounds violated: [%d,%d)", total, offset, w.Start, w.End)
			}
			sum := w.TopSpacer + (w.End-w.Start)*rowHeight + w.BottomSpacer
			if sum != total*rowHeight {
				t.Fatalf("total=%d offset=%d: spacer sum %d != %d", total, offset, sum, total*rowHeight)
			}
		}
	}
}

func TestComputeWindow_NegativeOffset(t *testing.T) {
	w := ComputeWindow(10, 10, -50, 30, 0)
	if w.Start != 0 {
		t.Errorf("start = %d, want 0 for negative offset", w.Start)
	}
}
