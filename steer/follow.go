package steer

import (
	"github.com/akmonengine/helm/actor"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"
)

// NodeLookup resolves a scene node path to its world position.
type NodeLookup interface {
	Position(path string) (mgl64.Vec3, error)
}

// Follow returns an integrate-forces callback that keeps turning the body's
// local forward axis toward the node at path. A failed lookup fails the
// callback, so the body keeps its velocity for that step.
func Follow(lookup NodeLookup, path string, forward mgl64.Vec3) actor.IntegrateForcesFunc {
	return func(state actor.State, acc *actor.Accumulator) error {
		target, err := lookup.Position(path)
		if err != nil {
			return errors.Wrapf(err, "follow %q", path)
		}

		omega := LookAt(state.Transform.Rotation, forward, state.Transform.Position, target, state.Step)
		return acc.SetAngularVelocity(omega)
	}
}

// FollowAxis is Follow restricted to rotation about axis.
func FollowAxis(lookup NodeLookup, path string, forward, axis mgl64.Vec3) actor.IntegrateForcesFunc {
	return func(state actor.State, acc *actor.Accumulator) error {
		target, err := lookup.Position(path)
		if err != nil {
			return errors.Wrapf(err, "follow %q", path)
		}

		omega := LookAtAxis(state.Transform.Rotation, forward, state.Transform.Position, target, axis, state.Step)
		return acc.SetAngularVelocity(omega)
	}
}
