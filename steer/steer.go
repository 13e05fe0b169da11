// Package steer computes the angular velocity that turns a body toward a
// target within one step.
//
// LookFollow is the general form: it rotates about whatever axis joins the two
// directions. LookFollowAxis is the planar fast path for bodies that only turn
// about one fixed axis (yaw about up for ground vehicles and turrets); it is
// only correct when that constraint holds.
package steer

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// epsilon under which a vector is treated as zero, or two unit vectors as equal
const epsilon = 1e-9

// LookFollow returns the angular velocity that rotates curDir onto targetDir in
// dt. Inputs need not be normalized. The result is zero when a direction is
// degenerate, when dt is not positive, or when the directions already match.
func LookFollow(curDir, targetDir mgl64.Vec3, dt float64) mgl64.Vec3 {
	cur, ok := direction(curDir)
	if !ok {
		return mgl64.Vec3{}
	}
	target, ok := direction(targetDir)
	if !ok || !validStep(dt) {
		return mgl64.Vec3{}
	}

	axis, angle := AxisAngle(cur, target)
	if angle < epsilon {
		return mgl64.Vec3{}
	}
	return axis.Mul(angle / dt)
}

// AxisAngle returns the unit rotation axis and the angle in [0, π] that take
// the unit vector from onto the unit vector to. Opposite vectors turn about an
// arbitrary perpendicular axis, chosen deterministically.
func AxisAngle(from, to mgl64.Vec3) (mgl64.Vec3, float64) {
	cross := from.Cross(to)
	sin := cross.Len()
	cos := from.Dot(to)
	angle := math.Atan2(sin, cos)

	if sin > epsilon {
		return cross.Mul(1 / sin), angle
	}
	if cos > 0 {
		return mgl64.Vec3{}, 0
	}
	return perpendicular(from), math.Pi
}

// LookFollowAxis is the single-axis fast path: both directions are projected
// onto the plane normal to axis and the signed angle between the projections
// becomes a rotation about axis. Tilt out of that plane is ignored.
func LookFollowAxis(curDir, targetDir, axis mgl64.Vec3, dt float64) mgl64.Vec3 {
	up, ok := direction(axis)
	if !ok || !validStep(dt) {
		return mgl64.Vec3{}
	}
	cur, ok := direction(project(curDir, up))
	if !ok {
		return mgl64.Vec3{}
	}
	target, ok := direction(project(targetDir, up))
	if !ok {
		return mgl64.Vec3{}
	}

	angle := SignedAngle(cur, target, up)
	if math.Abs(angle) < epsilon {
		return mgl64.Vec3{}
	}
	return up.Mul(angle / dt)
}

// SignedAngle returns the angle in (-π, π] from a to b, positive when the turn
// is counter-clockwise seen from the tip of axis.
func SignedAngle(a, b, axis mgl64.Vec3) float64 {
	return math.Atan2(axis.Dot(a.Cross(b)), a.Dot(b))
}

// LookAt derives the current direction from a body rotation and its local
// forward axis, and the target direction from the two positions, then calls
// LookFollow. A target at the body origin yields zero.
func LookAt(rotation mgl64.Quat, forward, origin, target mgl64.Vec3, dt float64) mgl64.Vec3 {
	return LookFollow(rotation.Rotate(forward), target.Sub(origin), dt)
}

// LookAtAxis is LookAt restricted to rotation about axis.
func LookAtAxis(rotation mgl64.Quat, forward, origin, target, axis mgl64.Vec3, dt float64) mgl64.Vec3 {
	return LookFollowAxis(rotation.Rotate(forward), target.Sub(origin), axis, dt)
}

func direction(v mgl64.Vec3) (mgl64.Vec3, bool) {
	for _, c := range v {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return mgl64.Vec3{}, false
		}
	}
	length := v.Len()
	if length < epsilon {
		return mgl64.Vec3{}, false
	}
	return v.Mul(1 / length), true
}

func validStep(dt float64) bool {
	return dt > 0 && !math.IsInf(dt, 1)
}

func project(v, normal mgl64.Vec3) mgl64.Vec3 {
	return v.Sub(normal.Mul(v.Dot(normal)))
}

// perpendicular prefers the up axis so that a half turn of a level body is a yaw
func perpendicular(v mgl64.Vec3) mgl64.Vec3 {
	candidate := mgl64.Vec3{0, 1, 0}
	if math.Abs(v.Dot(candidate)) > 0.9 {
		candidate = mgl64.Vec3{1, 0, 0}
	}
	return project(candidate, v).Normalize()
}
