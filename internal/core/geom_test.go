package core

import "testing"

func TestRectEdges(t *testing.T) {
	r := NewRect(2, 3, 10, 4)

	if r.Right() != 12 {
		t.Errorf("Right() = %d, expected 12", r.Right())
	}
	if r.Bottom() != 7 {
		t.Errorf("Bottom() = %d, expected 7", r.Bottom())
	}
}

func TestWrap(t *testing.T) {
	tests := []struct {
		val, n, expected int
	}{
		{0, 7, 0},
		{6, 7, 6},
		{7, 7, 0},
		{-1, 7, 6},
		{-8, 7, 6},
		{3, 0, 0},
	}

	for _, tt := range tests {
		if got := Wrap(tt.val, tt.n); got != tt.expected {
			t.Errorf("Wrap(%d, %d) = %d, expected %d", tt.val, tt.n, got, tt.expected)
		}
	}
}
