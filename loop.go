package helm

import (
	"context"
	"log/slog"
	"math"
	"time"

	"github.com/akmonengine/helm/actor"
)

const defaultMaxCatchUp = 5

// timeStep falls back to the default when TimeStep is not positive and finite,
// or does not fit a time.Duration of at least a nanosecond.
func (w *World) timeStep() float64 {
	if !actor.ValidStep(w.TimeStep) {
		return DEFAULT_TIME_STEP
	}
	if ns := w.TimeStep * float64(time.Second); ns < 1 || ns >= math.MaxInt64 {
		return DEFAULT_TIME_STEP
	}
	return w.TimeStep
}

// Advance feeds elapsed wall time into the fixed-step accumulator and runs as
// many TimeStep steps as fit, at most MaxCatchUp. It returns the number of
// steps run and the fraction of a step left over, for Interpolated.
func (w *World) Advance(elapsed float64) (steps int, alpha float64) {
	step := w.timeStep()
	if elapsed > 0 && !math.IsInf(elapsed, 1) {
		w.accumulator += elapsed
	}

	maxSteps := w.MaxCatchUp
	if maxSteps <= 0 {
		maxSteps = defaultMaxCatchUp
	}

	for w.accumulator >= step && steps < maxSteps {
		w.Step(step)
		w.accumulator -= step
		steps++
	}

	if w.accumulator >= step {
		w.logger().Debug("simulation behind, dropping time",
			slog.Float64("dropped", w.accumulator-math.Mod(w.accumulator, step)),
			slog.Uint64("step", w.steps),
		)
		w.accumulator = math.Mod(w.accumulator, step)
	}

	return steps, w.accumulator / step
}

// Run steps the world in real time until ctx is done. A step in progress is
// always completed; ctx is checked between ticks.
func (w *World) Run(ctx context.Context) error {
	ticker := time.NewTicker(time.Duration(w.timeStep() * float64(time.Second)))
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			w.Advance(now.Sub(last).Seconds())
			last = now
		}
	}
}
