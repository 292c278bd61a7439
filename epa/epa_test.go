package epa

import (
	"math"
	"testing"

	"github.com/akmonengine/plume/geom"
	"github.com/akmonengine/plume/gjk"
)

func overlappingFixtures(ax, ay, bx, by float64) (geom.Fixture, geom.Fixture) {
	a := geom.Fixture{Shape: geom.NewBox(2, 2), Transform: geom.NewTransformAt(geom.Vector2{ax, ay}, 0)}
	b := geom.Fixture{Shape: geom.NewBox(2, 2), Transform: geom.NewTransformAt(geom.Vector2{bx, by}, 0)}
	return a, b
}

func TestExpand_OverlappingBoxesAlongX(t *testing.T) {
	a, b := overlappingFixtures(0, 0, 1, 0)

	simplex := &gjk.Simplex{}
	if !gjk.Intersect(a, b, gjk.DefaultSettings(), simplex) {
		t.Fatal("expected boxes to overlap")
	}

	pen, err := Expand(a, b, simplex, gjk.DefaultSettings())
	if err != nil {
		t.Fatalf("Expand returned error: %v", err)
	}

	if pen.Depth <= 0 {
		t.Errorf("expected positive penetration depth, got %v", pen.Depth)
	}
	// The boxes are 4x4 (half-extents 2) centered 1 unit apart on X:
	// expected penetration along X is 4 - 1 = 3.
	if math.Abs(math.Abs(pen.Normal.X())-1) > 0.1 {
		t.Errorf("expected normal roughly along X axis, got %v", pen.Normal)
	}
	if math.Abs(pen.Depth-3) > 0.1 {
		t.Errorf("expected penetration depth ~3, got %v", pen.Depth)
	}
}

func TestExpand_DeepOverlapCircles(t *testing.T) {
	a := geom.Fixture{Shape: &geom.Circle{Radius: 2}, Transform: geom.NewTransformAt(geom.Vector2{0, 0}, 0)}
	b := geom.Fixture{Shape: &geom.Circle{Radius: 2}, Transform: geom.NewTransformAt(geom.Vector2{1, 0}, 0)}

	simplex := &gjk.Simplex{}
	if !gjk.Intersect(a, b, gjk.DefaultSettings(), simplex) {
		t.Fatal("expected circles to overlap")
	}

	pen, err := Expand(a, b, simplex, gjk.DefaultSettings())
	if err != nil {
		t.Fatalf("Expand returned error: %v", err)
	}

	// Circles of radius 2, centers 1 apart: penetration depth = 2+2-1 = 3.
	if math.Abs(pen.Depth-3) > 0.2 {
		t.Errorf("expected penetration depth ~3, got %v", pen.Depth)
	}
}

// TestExpand_UnitCirclesDepth1_5 pins spec.md §8's named EPA scenario:
// two unit circles centered at (0,0) and (0.5,0) penetrate by
// 1+1-0.5 = 1.5 along the x axis.
func TestExpand_UnitCirclesDepth1_5(t *testing.T) {
	a := geom.Fixture{Shape: &geom.Circle{Radius: 1}, Transform: geom.NewTransformAt(geom.Vector2{0, 0}, 0)}
	b := geom.Fixture{Shape: &geom.Circle{Radius: 1}, Transform: geom.NewTransformAt(geom.Vector2{0.5, 0}, 0)}

	simplex := &gjk.Simplex{}
	if !gjk.Intersect(a, b, gjk.DefaultSettings(), simplex) {
		t.Fatal("expected circles to overlap")
	}

	pen, err := Expand(a, b, simplex, gjk.DefaultSettings())
	if err != nil {
		t.Fatalf("Expand returned error: %v", err)
	}

	if math.Abs(pen.Depth-1.5) > 0.05 {
		t.Errorf("expected penetration depth ~1.5, got %v", pen.Depth)
	}
	if math.Abs(math.Abs(pen.Normal.X())-1) > 0.05 {
		t.Errorf("expected normal along X axis, got %v", pen.Normal)
	}
}

func TestExpand_NormalPointsFromAToB(t *testing.T) {
	a, b := overlappingFixtures(0, 0, 0, 1.5)

	simplex := &gjk.Simplex{}
	if !gjk.Intersect(a, b, gjk.DefaultSettings(), simplex) {
		t.Fatal("expected boxes to overlap")
	}

	pen, err := Expand(a, b, simplex, gjk.DefaultSettings())
	if err != nil {
		t.Fatalf("Expand returned error: %v", err)
	}

	if pen.Normal.Y() <= 0 {
		t.Errorf("expected normal pointing from A toward B (positive Y), got %v", pen.Normal)
	}
}

func TestDegeneratePenetration_FallsBackToCenterDirection(t *testing.T) {
	a := geom.Fixture{Shape: &geom.Circle{Radius: 1}, Transform: geom.NewTransformAt(geom.Vector2{0, 0}, 0)}
	b := geom.Fixture{Shape: &geom.Circle{Radius: 1}, Transform: geom.NewTransformAt(geom.Vector2{2, 0}, 0)}

	pen := degeneratePenetration(a, b)

	if math.Abs(pen.Normal.X()-1) > 1e-9 {
		t.Errorf("expected normal pointing along +X, got %v", pen.Normal)
	}
}
