package actor

import (
	"github.com/go-gl/mathgl/mgl64"
)

// IntegrateForcesFunc is the per-step callback of a body. It reads the state
// and requests changes through the accumulator. A returned error or a panic
// discards every request of the call.
type IntegrateForcesFunc func(state State, acc *Accumulator) error

// State builds the read view of the body for a step of duration dt.
func (rb *RigidBody) State(dt float64, gravity mgl64.Vec3) State {
	return State{
		Transform:       rb.transform,
		LinearVelocity:  rb.velocity,
		AngularVelocity: rb.angularVelocity,
		Step:            dt,
		Gravity:         gravity.Mul(rb.Material.GravityScale),
		InverseMass:     rb.InverseMass(),
		InverseInertia:  rb.GetInverseInertiaWorld(),
		BodyType:        rb.BodyType,
		Sleeping:        rb.IsSleeping,
	}
}

// IntegrateForces runs the registered callback for a step of duration dt and
// commits what it requested. committed is false when there is no callback,
// when the body is static, when dt is not a valid step, when nothing was
// requested, or on error. On error the body is left exactly as it was.
func (rb *RigidBody) IntegrateForces(dt float64, gravity mgl64.Vec3) (committed bool, err error) {
	if rb.BodyType == BodyTypeStatic || rb.integrator == nil || !ValidStep(dt) {
		return false, nil
	}

	acc := newAccumulator(rb.BodyType)
	defer func() { acc.expired = true }()

	if err := invoke(rb.integrator, rb.State(dt, gravity), acc); err != nil {
		return false, err
	}
	if acc.empty() {
		return false, nil
	}

	rb.commit(acc, dt)
	return true, nil
}

func invoke(fn IntegrateForcesFunc, state State, acc *Accumulator) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &CallbackPanicError{Value: r}
		}
	}()

	return fn(state, acc)
}

// commit folds the accumulator into the velocities: overrides first, then
// impulses and dt-scaled forces as a velocity change.
func (rb *RigidBody) commit(acc *Accumulator, dt float64) {
	velocity := rb.velocity
	if acc.linearOverride != nil {
		velocity = *acc.linearOverride
	}
	angularVelocity := rb.angularVelocity
	if acc.angularOverride != nil {
		angularVelocity = *acc.angularOverride
	}

	var linearImpulse, angularImpulse mgl64.Vec3
	for _, impulse := range acc.impulses {
		linearImpulse = linearImpulse.Add(impulse.Vector)
		angularImpulse = angularImpulse.Add(impulse.Point.Cross(impulse.Vector))
	}
	for _, force := range acc.forces {
		linearImpulse = linearImpulse.Add(force.Vector.Mul(dt))
		angularImpulse = angularImpulse.Add(force.Point.Cross(force.Vector).Mul(dt))
	}
	angularImpulse = angularImpulse.Add(acc.torqueImpulses).Add(acc.torques.Mul(dt))

	rb.velocity = velocity.Add(linearImpulse.Mul(rb.InverseMass()))
	if rb.BodyType == BodyTypeDynamic {
		rb.angularVelocity = angularVelocity.Add(rb.GetInverseInertiaWorld().Mul3x1(angularImpulse))
	}

	rb.Awake()
}
