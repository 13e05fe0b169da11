package actor

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// BodyType represents the type of rigid body
type BodyType int

const (
	// BodyTypeDynamic bodies are affected by forces, gravity and callbacks.
	// Their transform and velocities belong to the simulation.
	BodyTypeDynamic BodyType = iota

	// BodyTypeStatic bodies are immovable and have infinite mass
	// They are not affected by forces or gravity (e.g., ground, walls)
	BodyTypeStatic

	// BodyTypeKinematic is the "character" mode: linear motion is simulated,
	// rotation is locked and only ever set from outside the step.
	BodyTypeKinematic
)

func (t BodyType) String() string {
	switch t {
	case BodyTypeDynamic:
		return "dynamic"
	case BodyTypeStatic:
		return "static"
	case BodyTypeKinematic:
		return "kinematic"
	}
	return "unknown"
}

// Material holds the surface and damping properties of a body. The core only
// reads it.
type Material struct {
	Density float64
	mass    float64

	Friction  float64 // 0 = frictionless, 1 = full friction
	Bounce    float64 // 0 = no rebound, 1 = perfect restitution
	Absorbent bool    // subtract bounce from colliders instead of adding it
	Rough     bool    // use the highest friction of a contact pair

	LinearDamping  float64 // typical: 0.01
	AngularDamping float64 // typical: 0.05
	GravityScale   float64
}

func (material Material) GetMass() float64 {
	return material.mass
}

// RigidBody represents a rigid body in the physics simulation
type RigidBody struct {
	Id any

	previousTransform Transform
	transform         Transform

	velocity        mgl64.Vec3 // m/s
	angularVelocity mgl64.Vec3 // rad/s

	InertiaLocal        mgl64.Mat3
	InverseInertiaLocal mgl64.Mat3

	CanSleep   bool
	IsSleeping bool
	SleepTimer float64

	Material Material
	BodyType BodyType
	Shapes   []ShapeInterface

	integrator IntegrateForcesFunc
}

// NewRigidBody creates a new rigid body with the given properties
// density is used to calculate mass for dynamic and kinematic bodies (ignored for static)
func NewRigidBody(transform Transform, bodyType BodyType, density float64, shapes ...ShapeInterface) *RigidBody {
	transform = transform.normalized()
	rb := &RigidBody{
		previousTransform: transform,
		transform:         transform,
		Shapes:            shapes,
		BodyType:          bodyType,
		CanSleep:          true,
	}

	if bodyType == BodyTypeStatic {
		rb.Material = Material{
			mass:         math.Inf(1),
			GravityScale: 1,
		}
		return rb
	}

	rb.Material = Material{
		Density:      density,
		Friction:     1,
		GravityScale: 1,
	}
	for _, shape := range shapes {
		mass := shape.ComputeMass(density)
		rb.Material.mass += mass
		rb.InertiaLocal = rb.InertiaLocal.Add(shape.ComputeInertia(mass))
	}
	rb.InverseInertiaLocal = rb.InertiaLocal.Inv()

	return rb
}

// Transform returns the current transform.
func (rb *RigidBody) Transform() Transform {
	return rb.transform
}

// PreviousTransform returns the transform at the start of the last step.
func (rb *RigidBody) PreviousTransform() Transform {
	return rb.previousTransform
}

func (rb *RigidBody) LinearVelocity() mgl64.Vec3 {
	return rb.velocity
}

func (rb *RigidBody) AngularVelocity() mgl64.Vec3 {
	return rb.angularVelocity
}

// InverseMass is 0 for static bodies and for bodies without a positive finite mass.
func (rb *RigidBody) InverseMass() float64 {
	mass := rb.Material.GetMass()
	if rb.BodyType == BodyTypeStatic || mass <= 0 || math.IsInf(mass, 1) {
		return 0
	}
	return 1.0 / mass
}

// SetIntegrator registers the per-step callback of the body, replacing any
// previous one. nil removes it.
func (rb *RigidBody) SetIntegrator(fn IntegrateForcesFunc) {
	rb.integrator = fn
}

// HasIntegrator reports whether a per-step callback is registered.
func (rb *RigidBody) HasIntegrator() bool {
	return rb.integrator != nil
}

// SetTransform places a static or kinematic body. Dynamic bodies are moved by
// the simulation only and return ErrSimulationOwned.
func (rb *RigidBody) SetTransform(transform Transform) error {
	if rb.BodyType == BodyTypeDynamic {
		return ErrSimulationOwned
	}
	if !isFinite(transform.Position) || !isFinite(transform.Rotation.V) || !isFinite(mgl64.Vec3{transform.Rotation.W}) {
		return ErrNonFinite
	}

	rb.transform = transform.normalized()
	rb.previousTransform = rb.transform
	return nil
}

// SetLinearVelocity drives a kinematic body from outside the step.
func (rb *RigidBody) SetLinearVelocity(velocity mgl64.Vec3) error {
	switch rb.BodyType {
	case BodyTypeDynamic:
		return ErrSimulationOwned
	case BodyTypeStatic:
		return ErrStaticBody
	}
	if !isFinite(velocity) {
		return ErrNonFinite
	}

	rb.Awake()
	rb.velocity = velocity
	return nil
}

// SetAngularVelocity is never allowed from outside the step: dynamic bodies
// are owned by the simulation and kinematic bodies do not spin.
func (rb *RigidBody) SetAngularVelocity(velocity mgl64.Vec3) error {
	switch rb.BodyType {
	case BodyTypeDynamic:
		return ErrSimulationOwned
	case BodyTypeStatic:
		return ErrStaticBody
	}
	return ErrKinematicMutation
}

func (rb *RigidBody) TrySleep(dt float64, timethreshold float64, velocityThreshold float64) {
	if rb.BodyType == BodyTypeStatic || !rb.CanSleep {
		return
	}

	if rb.velocity.Len() < velocityThreshold && rb.angularVelocity.Len() < velocityThreshold {
		rb.SleepTimer += dt
		if rb.SleepTimer >= timethreshold {
			rb.Sleep()
		}
	} else {
		rb.Awake()
	}
}

func (rb *RigidBody) Sleep() {
	rb.IsSleeping = true
	rb.SleepTimer = 0.0

	rb.velocity = mgl64.Vec3{}
	rb.angularVelocity = mgl64.Vec3{}
}

func (rb *RigidBody) Awake() {
	rb.IsSleeping = false
	rb.SleepTimer = 0.0
}

// BeginStep records the transform the step starts from, for interpolation.
func (rb *RigidBody) BeginStep() {
	rb.previousTransform = rb.transform
}

// Integrate advances the body by dt with semi-implicit Euler. Velocities set
// by the integrate-forces commit are used as they are.
func (rb *RigidBody) Integrate(dt float64, gravity mgl64.Vec3) {
	if rb.BodyType == BodyTypeStatic || rb.IsSleeping || !ValidStep(dt) {
		return
	}

	// ========== LINEAR ==========
	if rb.InverseMass() > 0 {
		rb.velocity = rb.velocity.Add(gravity.Mul(rb.Material.GravityScale * dt))
	}
	rb.velocity = rb.velocity.Mul(math.Exp(-rb.Material.LinearDamping * dt))
	rb.transform.Position = rb.transform.Position.Add(rb.velocity.Mul(dt))

	if rb.BodyType == BodyTypeKinematic {
		rb.angularVelocity = mgl64.Vec3{}
		return
	}

	// ========== ANGULAR ==========
	rb.angularVelocity = rb.angularVelocity.Mul(math.Exp(-rb.Material.AngularDamping * dt))

	omegaQuat := mgl64.Quat{V: rb.angularVelocity, W: 0}
	qDot := omegaQuat.Mul(rb.transform.Rotation).Scale(0.5)
	rb.transform.Rotation = rb.transform.Rotation.Add(qDot.Scale(dt)).Normalize()
	rb.transform.InverseRotation = rb.transform.Rotation.Inverse()
}

// GetInertiaWorld returns the inertia tensor in world space
func (rb *RigidBody) GetInertiaWorld() mgl64.Mat3 {
	// I_world = R * I_local * R^T
	R := rb.transform.Rotation.Mat4().Mat3()
	return R.Mul3(rb.InertiaLocal).Mul3(R.Transpose())
}

// GetInverseInertiaWorld returns the inverse inertia tensor in world space
func (rb *RigidBody) GetInverseInertiaWorld() mgl64.Mat3 {
	if rb.BodyType != BodyTypeDynamic {
		return mgl64.Mat3{}
	}

	// I_world^(-1) = R * I_local^(-1) * R^T
	R := rb.transform.Rotation.Mat4().Mat3()
	return R.Mul3(rb.InverseInertiaLocal).Mul3(R.Transpose())
}

// ValidStep reports whether dt is a usable step duration: positive and finite.
func ValidStep(dt float64) bool {
	return dt > 0 && !math.IsInf(dt, 1)
}

func isFinite(v mgl64.Vec3) bool {
	for _, c := range v {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}
