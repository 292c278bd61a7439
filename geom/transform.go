package geom

import "github.com/go-gl/mathgl/mgl64"

// Transform is a 2D rigid transform: a rotation plus a translation.
// Rotation is cached as a matrix (mirroring a quaternion cache in a 3D
// engine) so repeated Rotate/InverseRotate calls in the GJK/EPA inner
// loop avoid recomputing sine/cosine.
type Transform struct {
	Position Vector2
	Angle    float64
	rotation mgl64.Mat2
}

// NewTransform returns the identity transform.
func NewTransform() Transform {
	return Transform{Position: Vector2{0, 0}, Angle: 0, rotation: mgl64.Ident2()}
}

// NewTransformAt builds a transform at the given position and angle (radians).
func NewTransformAt(position Vector2, angle float64) Transform {
	return Transform{Position: position, Angle: angle, rotation: mgl64.Rotate2D(angle)}
}

// SetAngle updates the rotation, recomputing the cached rotation matrix.
func (t *Transform) SetAngle(angle float64) {
	t.Angle = angle
	t.rotation = mgl64.Rotate2D(angle)
}

// Rotate applies only the rotation to a local-space vector.
func (t Transform) Rotate(v Vector2) Vector2 {
	return t.rotation.Mul2x1(v)
}

// InverseRotate applies the inverse rotation. Rotation matrices built
// from an angle are orthonormal, so the inverse is the transpose.
func (t Transform) InverseRotate(v Vector2) Vector2 {
	return t.rotation.Transpose().Mul2x1(v)
}

// ToWorld transforms a local-space point to world space.
func (t Transform) ToWorld(v Vector2) Vector2 {
	return t.Position.Add(t.Rotate(v))
}

// ToLocal transforms a world-space point to this transform's local space.
func (t Transform) ToLocal(v Vector2) Vector2 {
	return t.InverseRotate(v.Sub(t.Position))
}

// Lerp linearly advances a transform by a displacement dp and an angular
// displacement dAngle over fraction frac ∈ [0,1]. Used by conservative
// advancement to interpolate a body's swept motion to a candidate time
// of impact without mutating the body itself.
func Lerp(tx Transform, dp Vector2, dAngle float64, frac float64) Transform {
	return NewTransformAt(tx.Position.Add(dp.Mul(frac)), tx.Angle+dAngle*frac)
}
