package geom

import (
	"math"
	"testing"
)

func almostEqual(a, b, eps float64) bool {
	return math.Abs(a-b) <= eps
}

func TestCircleSupport(t *testing.T) {
	c := &Circle{Radius: 2}
	p := c.Support(Vector2{1, 0})
	if !almostEqual(p.X(), 2, 1e-9) || !almostEqual(p.Y(), 0, 1e-9) {
		t.Fatalf("expected (2,0), got %v", p)
	}
}

func TestCircleMassAndInertia(t *testing.T) {
	c := &Circle{Radius: 1}
	mass := c.Mass(1.0)
	if !almostEqual(mass, math.Pi, 1e-9) {
		t.Fatalf("expected mass=pi, got %v", mass)
	}
	inertia := c.Inertia(mass)
	if !almostEqual(inertia, mass*0.5, 1e-9) {
		t.Fatalf("expected inertia=m*r^2/2, got %v", inertia)
	}
}

func TestBoxSupport(t *testing.T) {
	box := NewBox(1, 2)
	tests := []struct {
		dir  Vector2
		want Vector2
	}{
		{Vector2{1, 0}, Vector2{1, -2}},
		{Vector2{1, 1}, Vector2{1, 2}},
		{Vector2{-1, -1}, Vector2{-1, -2}},
	}
	for _, tc := range tests {
		got := box.Support(tc.dir)
		if !almostEqual(got.Dot(tc.dir), tc.want.Dot(tc.dir), 1e-9) {
			t.Errorf("dir %v: got %v, want same support value as %v", tc.dir, got, tc.want)
		}
	}
}

func TestBoxMassAndInertia(t *testing.T) {
	box := NewBox(1, 1) // 2x2 square
	mass := box.Mass(1.0)
	if !almostEqual(mass, 4.0, 1e-9) {
		t.Fatalf("expected area 4, got %v", mass)
	}
	// Inertia of a 2x2 square about its centroid: m*(w^2+h^2)/12 = 4*8/12
	inertia := box.Inertia(mass)
	want := mass * (4 + 4) / 12
	if !almostEqual(inertia, want, 1e-6) {
		t.Fatalf("expected %v, got %v", want, inertia)
	}
}

func TestPolygonContainsExcludesOutside(t *testing.T) {
	box := NewBox(1, 1)
	if !box.Contains(Vector2{0, 0}) {
		t.Error("expected origin to be contained")
	}
	if box.Contains(Vector2{2, 2}) {
		t.Error("expected (2,2) to be outside")
	}
}

func TestEllipseSupportMatchesCircleWhenAxesEqual(t *testing.T) {
	e := &Ellipse{RadiusX: 3, RadiusY: 3}
	c := &Circle{Radius: 3}
	for _, dir := range []Vector2{{1, 0}, {0, 1}, {1, 1}, {-1, 2}} {
		pe := e.Support(dir)
		pc := c.Support(dir)
		if !almostEqual(pe.X(), pc.X(), 1e-9) || !almostEqual(pe.Y(), pc.Y(), 1e-9) {
			t.Errorf("dir %v: ellipse %v != circle %v", dir, pe, pc)
		}
	}
}

func TestAABBOverlaps(t *testing.T) {
	a := AABB{Min: Vector2{0, 0}, Max: Vector2{1, 1}}
	b := AABB{Min: Vector2{0.5, 0.5}, Max: Vector2{2, 2}}
	c := AABB{Min: Vector2{10, 10}, Max: Vector2{11, 11}}
	if !a.Overlaps(b) {
		t.Error("expected overlap")
	}
	if a.Overlaps(c) {
		t.Error("expected no overlap")
	}
}
