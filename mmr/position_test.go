package mmr

import "testing"

func TestPeakHeightMap(t *testing.T) {
	type want struct {
		peakMap uint64
		height  uint64
	}
	tests := []struct {
		idx  uint64
		want want
	}{
		{0, want{0b00, 0}},
		{1, want{0b1, 0}},
		{2, want{0b1, 1}},
		{3, want{0b10, 0}},
		{4, want{0b11, 0}},
		{5, want{0b11, 1}},
		{6, want{0b11, 2}},
		{7, want{0b100, 0}},
		{18, want{0b1010, 0}},
	}
	for _, tt := range tests {
		peakMap, height := peakHeightMap(tt.idx)
		if peakMap != tt.want.peakMap || height != tt.want.height {
			t.Errorf("peakHeightMap(%d) = (%b, %d), want (%b, %d)", tt.idx, peakMap, height, tt.want.peakMap, tt.want.height)
		}
	}
}

func TestNodeHeight(t *testing.T) {
	tests := []struct {
		idx  uint64
		want uint64
	}{
		{0, 0}, {1, 0}, {2, 1}, {3, 0}, {4, 0}, {5, 1}, {6, 2}, {7, 0},
		{8, 0}, {10, 0}, {15, 0}, {16, 0}, {18, 0}, {19, 0},
		{28, 2}, {29, 3}, {30, 4}, {31, 0},
	}
	for _, tt := range tests {
		if got := nodeHeight(tt.idx); got != tt.want {
			t.Errorf("nodeHeight(%d) = %d, want %d", tt.idx, got, tt.want)
		}
	}
}

func TestIsLeaf(t *testing.T) {
	leaves := map[uint64]bool{
		0: true, 1: true, 2: false, 3: true, 4: true, 5: false, 6: false,
		7: true, 8: true, 9: false, 10: true, 11: true, 14: false,
		15: true, 16: true, 17: false, 18: true,
		27: false, 28: false, 29: false, 30: false,
	}
	for idx, want := range leaves {
		if got := isLeaf(idx); got != want {
			t.Errorf("isLeaf(%d) = %v, want %v", idx, got, want)
		}
	}
}

func TestIsLeft(t *testing.T) {
	tests := []struct {
		pos  uint64
		want bool
	}{
		{1, true}, {2, false}, {3, true}, {4, true}, {5, false},
	}
	for _, tt := range tests {
		if got := isLeft(tt.pos); got != tt.want {
			t.Errorf("isLeft(%d) = %v, want %v", tt.pos, got, tt.want)
		}
	}
}

func TestFamily(t *testing.T) {
	tests := []struct {
		pos            uint64
		parent, sibling uint64
	}{
		{1, 3, 2},
		{2, 3, 1},
		{3, 7, 6},
		{6, 7, 3},
		{7, 15, 14},
		{14, 15, 7},
		{11, 13, 12},
		{12, 13, 11},
	}
	for _, tt := range tests {
		parent, sibling := family(tt.pos)
		if parent != tt.parent || sibling != tt.sibling {
			t.Errorf("family(%d) = (%d, %d), want (%d, %d)", tt.pos, parent, sibling, tt.parent, tt.sibling)
		}
	}
}

func TestFamilyPath(t *testing.T) {
	tests := []struct {
		pos, endPos uint64
		want        []familyPair
	}{
		{1, 3, []familyPair{{3, 2}}},
		{1, 7, []familyPair{{3, 2}, {7, 6}}},
		{1, 15, []familyPair{{3, 2}, {7, 6}, {15, 14}}},
		{8, 15, []familyPair{{10, 9}, {14, 13}, {15, 7}}},
		{1, 2, nil},
		{0, 0, nil},
		{12, 2, nil},
	}
	for _, tt := range tests {
		got := familyPath(tt.pos, tt.endPos)
		if len(got) != len(tt.want) {
			t.Fatalf("familyPath(%d, %d) = %v, want %v", tt.pos, tt.endPos, got, tt.want)
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("familyPath(%d, %d)[%d] = %v, want %v", tt.pos, tt.endPos, i, got[i], tt.want[i])
			}
		}
	}
}

func TestPeaks(t *testing.T) {
	tests := []struct {
		size uint64
		want []uint64
	}{
		{0, nil},
		{1, []uint64{1}},
		{2, nil},
		{3, []uint64{3}},
		{4, []uint64{3, 4}},
		{5, nil},
		{6, nil},
		{7, []uint64{7}},
		{8, []uint64{7, 8}},
		{9, nil},
		{10, []uint64{7, 10}},
		{11, []uint64{7, 10, 11}},
		{19, []uint64{15, 18, 19}},
	}
	for _, tt := range tests {
		got := peaks(tt.size)
		if len(got) != len(tt.want) {
			t.Fatalf("peaks(%d) = %v, want %v", tt.size, got, tt.want)
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("peaks(%d)[%d] = %d, want %d", tt.size, i, got[i], tt.want[i])
			}
		}
	}
}
