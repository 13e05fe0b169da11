package helm

import (
	"log/slog"

	"github.com/akmonengine/helm/actor"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"
)

const (
	DEFAULT_WORKERS   = 1
	DEFAULT_TIME_STEP = 1.0 / 60.0

	sleepTimeThreshold     = 0.5
	sleepVelocityThreshold = 0.05
)

type World struct {
	// List of all rigid bodies in the world
	Bodies []*actor.RigidBody
	// Gravity acceleration (m/s², or N/kg)
	Gravity  mgl64.Vec3
	Substeps int
	Workers  int
	// TimeStep is the fixed step used by Advance and Run
	TimeStep float64
	// MaxCatchUp bounds the steps Advance runs for one call; 0 means 5
	MaxCatchUp int

	Logger *slog.Logger
	Events Events

	steps       uint64
	accumulator float64
}

// NewWorld returns a world with earth gravity, one substep and a 60 Hz step.
func NewWorld() *World {
	return &World{
		Gravity:  mgl64.Vec3{0, -9.81, 0},
		Substeps: 1,
		Workers:  DEFAULT_WORKERS,
		TimeStep: DEFAULT_TIME_STEP,
		Events:   NewEvents(),
	}
}

// AddBody adds a rigid body to the world
func (w *World) AddBody(body *actor.RigidBody) {
	w.Bodies = append(w.Bodies, body)
}

// RemoveBody removes a rigid body from the world
func (w *World) RemoveBody(body *actor.RigidBody) {
	k := -1
	for i, b := range w.Bodies {
		if b == body {
			k = i
			break
		}
	}

	if k != -1 {
		w.Bodies = append(w.Bodies[:k], w.Bodies[k+1:]...)
	}

	w.Events.forget(body)
}

// Steps returns the number of steps run so far.
func (w *World) Steps() uint64 {
	return w.steps
}

// Step advances the world by dt. Each body's integrate-forces callback runs
// once, on the calling goroutine, before any motion is integrated. A failing
// callback only loses its own requests for this step. A dt that is not
// positive and finite is ignored.
func (w *World) Step(dt float64) {
	if !actor.ValidStep(dt) {
		return
	}
	w.Workers = max(DEFAULT_WORKERS, w.Workers)
	substeps := max(1, w.Substeps)
	h := dt / float64(substeps)
	w.steps++

	for _, body := range w.Bodies {
		body.BeginStep()
	}

	// Phase 1: integrate-forces callbacks, sequential
	w.integrateForces(dt)

	// Phase 2: motion
	for range substeps {
		w.integrate(h)
	}

	w.trySleep(dt)

	w.Events.processSleepEvents(w.Bodies)
	w.Events.emit(StepEvent{Step: w.steps, Dt: dt})
	w.Events.flush()
}

func (w *World) integrateForces(dt float64) {
	for _, body := range w.Bodies {
		if _, err := body.IntegrateForces(dt, w.Gravity); err != nil {
			err = errors.Wrapf(err, "body %v", body.Id)
			w.logger().Warn("integrate-forces callback failed, step requests discarded",
				slog.Any("body", body.Id),
				slog.Uint64("step", w.steps),
				slog.Any("err", err),
			)
			w.Events.emit(CallbackFailedEvent{Body: body, Step: w.steps, Err: err})
		}
	}
}

func (w *World) integrate(h float64) {
	task(w.Workers, w.Bodies, func(body *actor.RigidBody) {
		body.Integrate(h, w.Gravity)
	})
}

// trySleep sets the body to sleep if its velocity is lower than the threshold, for a given duration
// this method is too simple to use a task, it slows down in multiple goroutines
func (w *World) trySleep(dt float64) {
	for _, body := range w.Bodies {
		body.TrySleep(dt, sleepTimeThreshold, sleepVelocityThreshold)
	}
}

// Interpolated blends a body between the start and the end of the last step,
// alpha in [0, 1]. Use Advance's remainder to render between fixed steps.
func (w *World) Interpolated(body *actor.RigidBody, alpha float64) actor.Transform {
	return body.PreviousTransform().Interpolate(body.Transform(), alpha)
}

func (w *World) logger() *slog.Logger {
	if w.Logger == nil {
		return slog.Default()
	}
	return w.Logger
}
