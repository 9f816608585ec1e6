// Copyright 2026 The Rigid2D Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package solver

import (
	"math"

	"github.com/rigid2d/rigid2d/math2"
)

// MotionLocks zeroes out selected velocity axes during integration
// (spec.md §4.6 step 1 "enforce motion locks").
type MotionLocks struct {
	LockLinearX  bool
	LockLinearY  bool
	LockAngular  bool
}

// BodyState is the per-substep mutable state the solver reads and writes:
// current velocity plus the position/rotation delta accumulated since the
// step began (spec.md §4.6 steps 1, 5, 6). Kept separate from BodySim's
// mostly-constant-over-the-step fields so the hot substep loop touches a
// smaller, more cache-friendly struct, mirroring the
// array-of-small-structs layout the teacher's GaussSeidel.Solve uses for
// VelocityDeltas/AngularVelocityDeltas.
type BodyState struct {
	LinearVelocity  math2.Vec2
	AngularVelocity float64

	// DeltaPosition/DeltaRotation accumulate the motion since the sweep's
	// starting transform, so constraints can recompute anchors against the
	// current (mid-step) pose without re-deriving a full Transform each
	// substep.
	DeltaPosition math2.Vec2
	DeltaRotation math2.Rot
}

// BodySim is the solver's view of one dynamic or kinematic body: mass
// properties, damping, and flags that stay fixed for the duration of a
// step.
type BodySim struct {
	Center      math2.Vec2 // center of mass, world space, at step start
	Rotation    math2.Rot
	LocalCenter math2.Vec2

	InvMass    float64
	InvInertia float64

	LinearDamping  float64
	AngularDamping float64
	GravityScale   float64
	MaxLinearSpeed float64

	Locks MotionLocks

	IsBullet    bool
	EnableSleep bool

	// SleepTime accumulates while the body is below the sleep velocity
	// thresholds; reset to 0 on any motion above threshold (spec.md §4.4
	// "Sleeping").
	SleepTime float64
}

// Transform returns the body's current (mid-step) center-of-mass
// transform given its accumulated BodyState delta.
func (b BodySim) Transform(state BodyState) math2.Transform {
	q := b.Rotation.MulRot(state.DeltaRotation)
	c := b.Center.Add(state.DeltaPosition)
	return math2.Transform{P: c.Sub(q.RotateVector(b.LocalCenter)), Q: q}
}

// IntegrateVelocity applies spec.md §4.6 step 1 to one body for one
// substep of length h.
func IntegrateVelocity(sim BodySim, state BodyState, gravity math2.Vec2, force math2.Vec2, torque float64, h float64) BodyState {
	if sim.InvMass > 0 {
		v := state.LinearVelocity
		v = v.MulAdd(gravity, h*sim.GravityScale)
		v = v.MulAdd(force, h*sim.InvMass)
		v = v.Scale(1 / (1 + h*sim.LinearDamping))

		w := state.AngularVelocity
		w += h * sim.InvInertia * torque
		w /= 1 + h*sim.AngularDamping

		if sim.Locks.LockLinearX {
			v.X = 0
		}
		if sim.Locks.LockLinearY {
			v.Y = 0
		}
		if sim.Locks.LockAngular {
			w = 0
		}

		if max := sim.MaxLinearSpeed; max > 0 {
			if speed2 := v.LengthSquared(); speed2 > max*max {
				v = v.Scale(max / math.Sqrt(speed2))
			}
		}

		state.LinearVelocity = v
		state.AngularVelocity = w
	}
	return state
}

// IntegratePosition applies spec.md §4.6 step 6: advance the body's
// accumulated pose delta by its current velocity over one substep of
// length h. DeltaPosition/DeltaRotation are relative to BodySim's fixed
// Center/Rotation, so this never touches BodySim itself.
func IntegratePosition(state BodyState, h float64) BodyState {
	state.DeltaPosition = state.DeltaPosition.MulAdd(state.LinearVelocity, h)
	state.DeltaRotation = math2.IntegrateRot(state.DeltaRotation, state.AngularVelocity, h)
	return state
}
