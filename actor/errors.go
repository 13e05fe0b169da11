package actor

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrSimulationOwned is returned when code outside the integrate-forces
	// window tries to move or spin a dynamic body.
	ErrSimulationOwned = errors.New("dynamic body state is owned by the simulation")
	// ErrKinematicMutation is returned when a velocity override or a torque is
	// requested for a kinematic body, whose rotation is driven from outside.
	ErrKinematicMutation = errors.New("kinematic body rejects velocity overrides and torques")
	// ErrStaticBody is returned when a velocity is set on a static body.
	ErrStaticBody = errors.New("static body cannot move")
	// ErrExpiredHandle is returned by an Accumulator used after its step.
	ErrExpiredHandle = errors.New("accumulator used outside its integrate-forces call")
	// ErrNonFinite is returned for NaN or infinite input vectors.
	ErrNonFinite = errors.New("non-finite vector")
)

// CallbackPanicError wraps a value recovered from a panicking callback.
type CallbackPanicError struct {
	Value any
}

func (e *CallbackPanicError) Error() string {
	return fmt.Sprintf("integrate-forces callback panicked: %v", e.Value)
}
