package geom

// Fixture pairs a convex shape with the transform placing it in world
// space. CCD and the narrowphase both need to query a shape at a
// transform that may not belong to any live body (an interpolated
// sweep position), so Fixture — not a body reference — is the
// currency C1-C6 operate on.
type Fixture struct {
	Shape     Shape
	Transform Transform
}

// SupportWorld returns the world-space support point of f along a
// world-space direction d.
func (f Fixture) SupportWorld(d Vector2) Vector2 {
	local := f.Transform.InverseRotate(d)
	return f.Transform.ToWorld(f.Shape.Support(local))
}

// ContactFeatureWorld returns the world-space vertices of f's contact
// feature most aligned with world-space direction d.
func (f Fixture) ContactFeatureWorld(d Vector2) []Vector2 {
	local := f.Transform.InverseRotate(d)
	feature := f.Shape.ContactFeature(local)
	world := make([]Vector2, len(feature))
	for i, v := range feature {
		world[i] = f.Transform.ToWorld(v)
	}
	return world
}

// MinkowskiSupport computes a support point in the Minkowski difference
// A - B along world-space direction d (§4.1, C1): the extreme point of
// A along d minus the extreme point of B along -d.
func MinkowskiSupport(a, b Fixture, d Vector2) SupportPoint {
	pa := a.SupportWorld(d)
	pb := b.SupportWorld(d.Mul(-1))
	return SupportPoint{A: pa, B: pb, Diff: pa.Sub(pb)}
}
