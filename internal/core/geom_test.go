package core

import "testing"

func TestRectContains(t *testing.T) {
	r := NewRect(10, 10, 20, 15)

	tests := []struct {
		name     string
		c        Coord
		expected bool
	}{
		{"inside", C(15, 15), true},
		{"top-left corner", C(10, 10), true},
		{"bottom-right edge (exclusive)", C(30, 25), false},
		{"outside left", C(5, 15), false},
		{"outside right", C(35, 15), false},
		{"outside top", C(15, 5), false},
		{"outside bottom", C(15, 30), false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result := r.Contains(tc.c)
			if result != tc.expected {
				t.Errorf("Contains(%v) = %v, expected %v", tc.c, result, tc.expected)
			}
		})
	}
}

func TestRectEdges(t *testing.T) {
	r := NewRect(5, 10, 20, 15)

	if r.Right() != 25 {
		t.Errorf("Right() = %d, expected 25", r.Right())
	}
	if r.Bottom() != 25 {
		t.Errorf("Bottom() = %d, expected 25", r.Bottom())
	}
}

func TestBoundsOf(t *testing.T) {
	cells := []Coord{C(2, -1), C(0, 0), C(1, 3)}
	got := BoundsOf(cells)
	want := NewRect(0, -1, 3, 5)
	if got != want {
		t.Errorf("BoundsOf() = %+v, expected %+v", got, want)
	}
	for _, c := range cells {
		if !got.Contains(c) {
			t.Errorf("bounds %+v should contain %v", got, c)
		}
	}

	if BoundsOf(nil) != (Rect{}) {
		t.Error("BoundsOf(nil) should be the zero Rect")
	}
}
