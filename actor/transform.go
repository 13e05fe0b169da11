package actor

import "github.com/go-gl/mathgl/mgl64"

// Local axes of a body. Forward follows the right-handed convention where a
// body looks down -Z.
var (
	AxisRight   = mgl64.Vec3{1, 0, 0}
	AxisUp      = mgl64.Vec3{0, 1, 0}
	AxisForward = mgl64.Vec3{0, 0, -1}
)

// Transform represents a position in 3D space
type Transform struct {
	Position        mgl64.Vec3
	Rotation        mgl64.Quat
	InverseRotation mgl64.Quat
}

// NewTransform creates an identity transform
func NewTransform() Transform {
	return Transform{
		Position:        mgl64.Vec3{0, 0, 0},
		Rotation:        mgl64.QuatIdent(),
		InverseRotation: mgl64.QuatIdent(),
	}
}

// normalized fixes up a zero quaternion left by a literal Transform{} and
// refreshes the cached inverse.
func (t Transform) normalized() Transform {
	if t.Rotation.Len() == 0 {
		t.Rotation = mgl64.QuatIdent()
	}
	t.Rotation = t.Rotation.Normalize()
	t.InverseRotation = t.Rotation.Inverse()
	return t
}

// Basis returns the world-space right, up and forward directions.
func (t Transform) Basis() (right, up, forward mgl64.Vec3) {
	return t.Rotation.Rotate(AxisRight), t.Rotation.Rotate(AxisUp), t.Rotation.Rotate(AxisForward)
}

// Interpolate blends two transforms, alpha in [0, 1].
func (t Transform) Interpolate(to Transform, alpha float64) Transform {
	alpha = mgl64.Clamp(alpha, 0, 1)
	target := to.Rotation
	// q and -q are the same rotation, take the short way round
	if t.Rotation.Dot(target) < 0 {
		target = target.Scale(-1)
	}
	out := Transform{
		Position: t.Position.Add(to.Position.Sub(t.Position).Mul(alpha)),
		Rotation: mgl64.QuatNlerp(t.Rotation, target, alpha),
	}
	return out.normalized()
}
