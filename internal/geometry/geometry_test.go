package geometry

import "testing"

func TestBoundsContains(t *testing.T) {
	b := NewBounds(2, 3, 4, 5) // rows [2,7) cols [3,7)

	cases := []struct {
		p    Position
		want bool
	}{
		{Position{2, 3}, true},
		{Position{6, 6}, true},
		{Position{7, 3}, false},
		{Position{2, 7}, false},
		{Position{1, 3}, false},
	}

	for _, c := range cases {
		if got := b.Contains(c.p); got != c.want {
			t.Errorf("Contains(%+v) = %v, want %v", c.p, got, c.want)
		}
	}
}

func TestBoundsIntersects(t *testing.T) {
	a := NewBounds(0, 0, 10, 10)
	overlapping := NewBounds(5, 5, 10, 10)
	disjoint := NewBounds(20, 20, 5, 5)
	touching := NewBounds(10, 0, 5, 5) // shares an edge, half-open so no overlap

	if !a.Intersects(overlapping) {
		t.Errorf("expected overlap")
	}
	if a.Intersects(disjoint) {
		t.Errorf("expected no overlap")
	}
	if a.Intersects(touching) {
		t.Errorf("half-open bounds sharing only an edge should not intersect")
	}
}

func TestBoundsContainsBounds(t *testing.T) {
	outer := NewBounds(0, 0, 20, 20)
	inner := NewBounds(2, 2, 5, 5)
	overlapNotContained := NewBounds(15, 15, 10, 10)

	if !outer.ContainsBounds(inner) {
		t.Errorf("expected outer to contain inner")
	}
	if outer.ContainsBounds(overlapNotContained) {
		t.Errorf("overlapping-but-not-contained bounds should not be contained")
	}
}

func TestBoundsArea(t *testing.T) {
	if got := NewBounds(0, 0, 4, 3).Area(); got != 12 {
		t.Errorf("Area() = %d, want 12", got)
	}
}
