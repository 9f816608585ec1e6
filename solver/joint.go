// Copyright 2026 The Rigid2D Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package solver

import (
	"github.com/rigid2d/rigid2d/id"
	"github.com/rigid2d/rigid2d/math2"
)

// JointKind enumerates the eight joint variants spec.md §3/§4.6 names.
type JointKind int

const (
	JointDistance JointKind = iota
	JointFilter
	JointMotor
	JointMouse
	JointPrismatic
	JointRevolute
	JointWeld
	JointWheel
)

// JointSolver is satisfied by every constrained joint variant (all but
// FilterJoint, which carries no equations) so step.go can drive the
// constraint graph's joint color groups polymorphically. simA/stateA and
// simB/stateB are always body A and body B of the joint regardless of
// whether a particular joint type's math uses both.
type JointSolver interface {
	Prepare(simA, simB BodySim, stateA, stateB BodyState, h float64)
	WarmStart(simA, simB BodySim, stateA, stateB *BodyState)
	SolveVelocity(simA, simB BodySim, stateA, stateB *BodyState, h float64, useBias bool)
}

// JointBase holds the fields every joint variant shares: its endpoints,
// local anchor frames, and the force/torque accounting used for joint
// events. Step emits a JointEvent for every non-filter joint whose force
// or torque for the step is positive; no threshold is applied.
type JointBase struct {
	ID    id.ID
	Kind  JointKind
	BodyA id.ID
	BodyB id.ID

	LocalAnchorA math2.Vec2
	LocalAnchorB math2.Vec2
	LocalAxisA   math2.Vec2 // meaningful for Prismatic/Wheel/Motor

	ReferenceAngle float64 // initial relative angle, for Weld/Revolute

	CollideConnected bool

	// accumulated this step, consumed by event emission and zeroed each
	// PrepareJoint.
	LinearImpulseAccum  math2.Vec2
	AngularImpulseAccum float64
}

// pointMass returns the 2x2 effective mass matrix for a point-to-point
// constraint between anchors rA (on A, world-rotated, relative to A's
// COM) and rB (on B), following the same Jacobian-transpose-times-
// inverse-mass-times-Jacobian construction the teacher's equation package
// uses per scalar row (_teacher_seed/physics/equation/equation.go), just
// assembled as a 2x2 block instead of one scalar at a time.
func pointMass(simA, simB BodySim, rA, rB math2.Vec2) math2.Mat22 {
	mA, iA := simA.InvMass, simA.InvInertia
	mB, iB := simB.InvMass, simB.InvInertia

	k11 := mA + mB + iA*rA.Y*rA.Y + iB*rB.Y*rB.Y
	k12 := -iA*rA.X*rA.Y - iB*rB.X*rB.Y
	k22 := mA + mB + iA*rA.X*rA.X + iB*rB.X*rB.X

	return math2.Mat22{
		Col1: math2.Vec2{X: k11, Y: k12},
		Col2: math2.Vec2{X: k12, Y: k22},
	}
}

// pointVelocity returns the world velocity of the material point at
// anchor r (relative to COM) on a body with center velocity v and
// angular velocity w.
func pointVelocity(v math2.Vec2, w float64, r math2.Vec2) math2.Vec2 {
	return v.Add(math2.CrossSV(w, r))
}

func applyPointImpulse(simA, simB BodySim, stateA, stateB *BodyState, rA, rB, impulse math2.Vec2) {
	applyImpulse(simA, stateA, rA, impulse.Neg())
	applyImpulse(simB, stateB, rB, impulse)
}
