package gjk

import (
	"math"
	"testing"

	"github.com/akmonengine/plume/geom"
)

func fixtureAt(shape geom.Shape, x, y float64) geom.Fixture {
	return geom.Fixture{Shape: shape, Transform: geom.NewTransformAt(geom.Vector2{x, y}, 0)}
}

func TestIntersect_OverlappingCircles(t *testing.T) {
	a := fixtureAt(&geom.Circle{Radius: 1}, 0, 0)
	b := fixtureAt(&geom.Circle{Radius: 1}, 1, 0)

	simplex := &Simplex{}
	if !Intersect(a, b, DefaultSettings(), simplex) {
		t.Error("expected overlapping circles to intersect")
	}
}

func TestIntersect_SeparatedCircles(t *testing.T) {
	a := fixtureAt(&geom.Circle{Radius: 1}, 0, 0)
	b := fixtureAt(&geom.Circle{Radius: 1}, 10, 0)

	simplex := &Simplex{}
	if Intersect(a, b, DefaultSettings(), simplex) {
		t.Error("expected far-apart circles to not intersect")
	}
}

func TestIntersect_OverlappingBoxes(t *testing.T) {
	a := fixtureAt(geom.NewBox(1, 1), 0, 0)
	b := fixtureAt(geom.NewBox(1, 1), 1.5, 0)

	simplex := &Simplex{}
	if !Intersect(a, b, DefaultSettings(), simplex) {
		t.Error("expected overlapping boxes to intersect")
	}
}

func TestIntersect_SeparatedBoxes(t *testing.T) {
	a := fixtureAt(geom.NewBox(1, 1), 0, 0)
	b := fixtureAt(geom.NewBox(1, 1), 5, 0)

	simplex := &Simplex{}
	if Intersect(a, b, DefaultSettings(), simplex) {
		t.Error("expected separated boxes to not intersect")
	}
}

func TestDistance_SeparatedCircles(t *testing.T) {
	a := fixtureAt(&geom.Circle{Radius: 1}, 0, 0)
	b := fixtureAt(&geom.Circle{Radius: 1}, 5, 0)

	sep := Distance(a, b, DefaultSettings())

	want := 3.0 // gap between the two circle boundaries
	if math.Abs(sep.Distance-want) > 1e-3 {
		t.Errorf("Distance = %v, want ~%v", sep.Distance, want)
	}
}

func TestContains_BoxInsideBiggerBox(t *testing.T) {
	outer := fixtureAt(geom.NewBox(10, 10), 0, 0)
	inner := fixtureAt(geom.NewBox(1, 1), 0, 0)

	if !Contains(outer, inner, DefaultSettings()) {
		t.Error("expected small box to be contained in larger box")
	}
}

func TestContains_EqualShapesNotContained(t *testing.T) {
	a := fixtureAt(geom.NewBox(1, 1), 0, 0)
	b := fixtureAt(geom.NewBox(1, 1), 0, 0)

	if Contains(a, b, DefaultSettings()) {
		t.Error("equal shapes should not report containment")
	}
}

func TestRaycast_HitsCircle(t *testing.T) {
	target := fixtureAt(&geom.Circle{Radius: 1}, 10, 0)

	hit, ok := Raycast(target, geom.Vector2{0, 0}, geom.Vector2{1, 0}, 100, DefaultSettings())
	if !ok {
		t.Fatal("expected ray to hit circle")
	}
	if math.Abs(hit.Distance-9) > 1e-2 {
		t.Errorf("hit distance = %v, want ~9", hit.Distance)
	}
}

// TestRaycast_HitsLineSegment pins spec.md §8's named raycast scenario:
// ray origin (-0.85,0.48) at angle π/4 against the segment
// ((-0.68,0.68),(-0.53,0.68)) — hit at (-0.649,0.680), normal (0,-1),
// distance 0.282.
func TestRaycast_HitsLineSegment(t *testing.T) {
	segment := fixtureAt(&geom.Segment{A: geom.Vector2{-0.68, 0.68}, B: geom.Vector2{-0.53, 0.68}}, 0, 0)

	origin := geom.Vector2{-0.85, 0.48}
	direction := geom.Vector2{math.Cos(math.Pi / 4), math.Sin(math.Pi / 4)}

	hit, ok := Raycast(segment, origin, direction, 2.0, DefaultSettings())
	if !ok {
		t.Fatal("expected ray to hit the segment")
	}
	if math.Abs(hit.Distance-0.282) > 0.01 {
		t.Errorf("hit distance = %v, want ~0.282", hit.Distance)
	}
	if hit.Point.Sub(geom.Vector2{-0.649, 0.680}).Len() > 0.01 {
		t.Errorf("hit point = %v, want ~(-0.649, 0.680)", hit.Point)
	}
	if hit.Normal.Sub(geom.Vector2{0, -1}).Len() > 0.05 {
		t.Errorf("hit normal = %v, want ~(0,-1)", hit.Normal)
	}
}

func TestRaycast_Misses(t *testing.T) {
	target := fixtureAt(&geom.Circle{Radius: 1}, 10, 10)

	_, ok := Raycast(target, geom.Vector2{0, 0}, geom.Vector2{1, 0}, 5, DefaultSettings())
	if ok {
		t.Error("expected short ray in wrong direction to miss")
	}
}
