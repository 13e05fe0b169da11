package actor

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"
)

// State is the read view of a body handed to its integrate-forces callback.
// It is a copy taken at the start of the step and is only meaningful during
// that call.
type State struct {
	Transform       Transform
	LinearVelocity  mgl64.Vec3
	AngularVelocity mgl64.Vec3
	// Step is the duration of the step being prepared, in seconds.
	Step float64
	// Gravity is the gravity acceleration the body will receive, scale included.
	Gravity        mgl64.Vec3
	InverseMass    float64
	InverseInertia mgl64.Mat3
	BodyType       BodyType
	Sleeping       bool
}

func (s State) Forward() mgl64.Vec3 {
	return s.Transform.Rotation.Rotate(AxisForward)
}

func (s State) Up() mgl64.Vec3 {
	return s.Transform.Rotation.Rotate(AxisUp)
}

func (s State) Right() mgl64.Vec3 {
	return s.Transform.Rotation.Rotate(AxisRight)
}

// VelocityAtPoint returns the velocity of a point given as an offset from the
// body origin, in world orientation.
func (s State) VelocityAtPoint(offset mgl64.Vec3) mgl64.Vec3 {
	return s.LinearVelocity.Add(s.AngularVelocity.Cross(offset))
}

// Application is a vector applied at an offset from the body origin.
type Application struct {
	Vector mgl64.Vec3
	Point  mgl64.Vec3
}

// Accumulator collects the changes a callback requests for one body during
// one step. It is the only way to change a dynamic body's velocity and it
// stops accepting calls once the step has committed it.
//
// An Accumulator is not safe for concurrent use.
type Accumulator struct {
	bodyType BodyType
	expired  bool

	linearOverride  *mgl64.Vec3
	angularOverride *mgl64.Vec3
	forces          []Application
	impulses        []Application
	torques         mgl64.Vec3
	torqueImpulses  mgl64.Vec3
}

func newAccumulator(bodyType BodyType) *Accumulator {
	return &Accumulator{bodyType: bodyType}
}

func (a *Accumulator) check(vectors ...mgl64.Vec3) error {
	if a.expired {
		return ErrExpiredHandle
	}
	for _, v := range vectors {
		if !isFinite(v) {
			return errors.Wrapf(ErrNonFinite, "%v", v)
		}
	}
	return nil
}

// checkDriven also refuses the request on kinematic bodies, which take
// neither velocity overrides nor torques.
func (a *Accumulator) checkDriven(vectors ...mgl64.Vec3) error {
	if err := a.check(vectors...); err != nil {
		return err
	}
	if a.bodyType == BodyTypeKinematic {
		return ErrKinematicMutation
	}
	return nil
}

// SetLinearVelocity replaces the body's linear velocity for this step.
// Forces and impulses are added on top of it.
func (a *Accumulator) SetLinearVelocity(velocity mgl64.Vec3) error {
	if err := a.checkDriven(velocity); err != nil {
		return err
	}
	a.linearOverride = &velocity
	return nil
}

// SetAngularVelocity replaces the body's angular velocity for this step.
func (a *Accumulator) SetAngularVelocity(velocity mgl64.Vec3) error {
	if err := a.checkDriven(velocity); err != nil {
		return err
	}
	a.angularOverride = &velocity
	return nil
}

// ApplyCentralForce applies a force (N) at the centre of mass for the whole step.
func (a *Accumulator) ApplyCentralForce(force mgl64.Vec3) error {
	return a.ApplyForce(force, mgl64.Vec3{})
}

// ApplyForce applies a force (N) at an offset from the body origin for the
// whole step. On kinematic bodies only the linear part is kept.
func (a *Accumulator) ApplyForce(force, point mgl64.Vec3) error {
	if err := a.check(force, point); err != nil {
		return err
	}
	a.forces = append(a.forces, Application{Vector: force, Point: point})
	return nil
}

// ApplyTorque applies a torque (N⋅m) for the whole step.
func (a *Accumulator) ApplyTorque(torque mgl64.Vec3) error {
	if err := a.checkDriven(torque); err != nil {
		return err
	}
	a.torques = a.torques.Add(torque)
	return nil
}

// ApplyCentralImpulse applies an impulse (N⋅s) at the centre of mass.
func (a *Accumulator) ApplyCentralImpulse(impulse mgl64.Vec3) error {
	return a.ApplyImpulse(impulse, mgl64.Vec3{})
}

// ApplyImpulse applies an impulse (N⋅s) at an offset from the body origin.
// On kinematic bodies only the linear part is kept.
func (a *Accumulator) ApplyImpulse(impulse, point mgl64.Vec3) error {
	if err := a.check(impulse, point); err != nil {
		return err
	}
	a.impulses = append(a.impulses, Application{Vector: impulse, Point: point})
	return nil
}

// ApplyTorqueImpulse applies an angular impulse (N⋅m⋅s).
func (a *Accumulator) ApplyTorqueImpulse(impulse mgl64.Vec3) error {
	if err := a.checkDriven(impulse); err != nil {
		return err
	}
	a.torqueImpulses = a.torqueImpulses.Add(impulse)
	return nil
}

// Reset drops everything requested so far in this step.
func (a *Accumulator) Reset() error {
	if a.expired {
		return ErrExpiredHandle
	}
	*a = Accumulator{bodyType: a.bodyType}
	return nil
}

// Forces returns a copy of the pending forces.
func (a *Accumulator) Forces() []Application {
	return append([]Application(nil), a.forces...)
}

// Impulses returns a copy of the pending impulses.
func (a *Accumulator) Impulses() []Application {
	return append([]Application(nil), a.impulses...)
}

func (a *Accumulator) empty() bool {
	return a.linearOverride == nil && a.angularOverride == nil &&
		len(a.forces) == 0 && len(a.impulses) == 0 &&
		a.torques == (mgl64.Vec3{}) && a.torqueImpulses == (mgl64.Vec3{})
}
