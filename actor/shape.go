package actor

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// ShapeType represents the type of a body shape
type ShapeType int

const (
	ShapeTypeSphere ShapeType = iota
	ShapeTypeBox
	ShapeTypeCapsule
)

func (t ShapeType) String() string {
	switch t {
	case ShapeTypeSphere:
		return "sphere"
	case ShapeTypeBox:
		return "box"
	case ShapeTypeCapsule:
		return "capsule"
	}
	return "unknown"
}

// ShapeInterface is the interface that all body shapes must implement.
// Shapes are centred on the body origin.
type ShapeInterface interface {
	Type() ShapeType
	// ComputeMass calculates mass data for the shape given a density
	ComputeMass(density float64) float64
	// ComputeInertia returns the local inertia tensor for the given mass
	ComputeInertia(mass float64) mgl64.Mat3
}

// Box represents an oriented box shape
// The box is defined by its half-extents (half-width, half-height, half-depth)
type Box struct {
	HalfExtents mgl64.Vec3
}

func (b *Box) Type() ShapeType {
	return ShapeTypeBox
}

// ComputeMass calculates mass data for the box
func (b *Box) ComputeMass(density float64) float64 {
	// Volume = 8 * hx * hy * hz (full dimensions are 2*halfExtents)
	volume := 8.0 * b.HalfExtents.X() * b.HalfExtents.Y() * b.HalfExtents.Z()

	return density * volume
}

func (b *Box) ComputeInertia(mass float64) mgl64.Mat3 {
	x := b.HalfExtents.X() * 2
	y := b.HalfExtents.Y() * 2
	z := b.HalfExtents.Z() * 2

	// I = (m/12) * (d1² + d2²)
	factor := mass / 12.0

	return mgl64.Diag3(mgl64.Vec3{
		factor * (y*y + z*z),
		factor * (x*x + z*z),
		factor * (x*x + y*y),
	})
}

// Sphere represents a spherical shape
type Sphere struct {
	Radius float64
}

func (s *Sphere) Type() ShapeType {
	return ShapeTypeSphere
}

// ComputeMass calculates mass data for the sphere
func (s *Sphere) ComputeMass(density float64) float64 {
	// Volume of sphere = (4/3) * π * r³
	volume := (4.0 / 3.0) * math.Pi * math.Pow(s.Radius, 3)

	return density * volume
}

func (s *Sphere) ComputeInertia(mass float64) mgl64.Mat3 {
	// I = (2/5) * m * r²
	i := (2.0 / 5.0) * mass * s.Radius * s.Radius

	return mgl64.Diag3(mgl64.Vec3{i, i, i})
}

// Capsule is a cylinder capped by two hemispheres, aligned on the local Y axis.
// HalfHeight is half the length of the cylindrical part.
type Capsule struct {
	Radius     float64
	HalfHeight float64
}

func (c *Capsule) Type() ShapeType {
	return ShapeTypeCapsule
}

func (c *Capsule) volumes() (cylinder, caps float64) {
	r2 := c.Radius * c.Radius
	cylinder = math.Pi * r2 * 2 * c.HalfHeight
	caps = (4.0 / 3.0) * math.Pi * r2 * c.Radius
	return cylinder, caps
}

func (c *Capsule) ComputeMass(density float64) float64 {
	cylinder, caps := c.volumes()

	return density * (cylinder + caps)
}

func (c *Capsule) ComputeInertia(mass float64) mgl64.Mat3 {
	cylinder, caps := c.volumes()
	if cylinder+caps == 0 {
		return mgl64.Mat3{}
	}

	// split the mass between the cylinder and the two caps by volume
	mc := mass * cylinder / (cylinder + caps)
	ms := mass * caps / (cylinder + caps)
	r2 := c.Radius * c.Radius
	h := 2 * c.HalfHeight

	iy := mc*r2/2 + ms*2*r2/5
	ix := mc*(h*h/12+r2/4) + ms*(2*r2/5+h*h/4+3*h*c.Radius/8)

	return mgl64.Diag3(mgl64.Vec3{ix, iy, ix})
}
