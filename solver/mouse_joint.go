// Copyright 2026 The Rigid2D Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package solver

import "github.com/rigid2d/rigid2d/math2"

// MouseJoint softly pulls a point on BodyB toward a world-space Target,
// typically used for interactive dragging. BodyA is conventionally the
// world/ground body and is accepted only for interface uniformity with
// the other joint solvers; it contributes no mass or velocity.
type MouseJoint struct {
	JointBase

	Target       math2.Vec2
	Hertz        float64
	DampingRatio float64
	MaxForce     float64

	anchorB  math2.Vec2
	centerB  math2.Vec2
	mass     math2.Mat22
	softness Softness
	impulse  math2.Vec2
}

func (j *MouseJoint) Prepare(simA, simB BodySim, stateA, stateB BodyState, h float64) {
	qB := simB.Rotation.MulRot(stateB.DeltaRotation)
	j.anchorB = qB.RotateVector(j.LocalAnchorB)
	j.centerB = simB.Center.Add(stateB.DeltaPosition)
	j.softness = MakeSoft(j.Hertz, j.DampingRatio, h)

	k11 := simB.InvMass + simB.InvInertia*j.anchorB.Y*j.anchorB.Y
	k12 := -simB.InvInertia * j.anchorB.X * j.anchorB.Y
	k22 := simB.InvMass + simB.InvInertia*j.anchorB.X*j.anchorB.X
	j.mass = math2.Mat22{Col1: math2.Vec2{X: k11, Y: k12}, Col2: math2.Vec2{X: k12, Y: k22}}.Invert()

	j.LinearImpulseAccum = math2.Vec2{}
}

func (j *MouseJoint) WarmStart(simA, simB BodySim, stateA, stateB *BodyState) {
	applyImpulse(simB, stateB, j.anchorB, j.impulse)
}

func (j *MouseJoint) SolveVelocity(simA, simB BodySim, stateA, stateB *BodyState, h float64, useBias bool) {
	rB := stateB.DeltaRotation.RotateVector(j.anchorB)
	c := j.centerB.Add(rB).Sub(j.Target)
	bias := c.Scale(j.softness.BiasRate)

	vr := pointVelocity(stateB.LinearVelocity, stateB.AngularVelocity, rB)
	impulse := j.mass.MulVec(vr.Add(bias).Scale(j.softness.MassScale).Neg()).Sub(j.impulse.Scale(j.softness.ImpulseScale))

	oldImpulse := j.impulse
	j.impulse = j.impulse.Add(impulse)
	maxImpulse := j.MaxForce * h
	if j.impulse.LengthSquared() > maxImpulse*maxImpulse {
		j.impulse = j.impulse.Scale(maxImpulse / j.impulse.Length())
	}
	impulse = j.impulse.Sub(oldImpulse)
	j.LinearImpulseAccum = j.LinearImpulseAccum.Add(impulse)

	applyImpulse(simB, stateB, rB, impulse)
}
