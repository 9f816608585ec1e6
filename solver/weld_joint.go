// Copyright 2026 The Rigid2D Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package solver

import "github.com/rigid2d/rigid2d/math2"

// WeldJoint rigidly locks both the relative position and relative angle
// of two bodies, each row optionally softened into a spring. Grounded
// directly on _examples/original_source/src/weld_joint.c, the source the
// Softness derivation in softness.go already follows.
type WeldJoint struct {
	JointBase

	LinearHertz   float64
	LinearDamping float64
	AngularHertz   float64
	AngularDamping float64

	anchorA, anchorB math2.Vec2
	pivotMass        math2.Mat22
	pivotImpulse     math2.Vec2
	linearSoftness   Softness

	angle          float64
	axialMass      float64
	angularImpulse float64
	angularSoftness Softness
}

func (j *WeldJoint) Prepare(simA, simB BodySim, stateA, stateB BodyState, h float64) {
	qA := simA.Rotation.MulRot(stateA.DeltaRotation)
	qB := simB.Rotation.MulRot(stateB.DeltaRotation)
	j.anchorA = qA.RotateVector(j.LocalAnchorA)
	j.anchorB = qB.RotateVector(j.LocalAnchorB)
	j.pivotMass = pointMass(simA, simB, j.anchorA, j.anchorB).Invert()
	j.linearSoftness = MakeSoft(j.LinearHertz, j.LinearDamping, h)

	j.angle = math2.RelativeAngle(qA, qB) - j.ReferenceAngle
	if k := simA.InvInertia + simB.InvInertia; k > 0 {
		j.axialMass = 1 / k
	}
	j.angularSoftness = MakeSoft(j.AngularHertz, j.AngularDamping, h)

	j.LinearImpulseAccum = math2.Vec2{}
	j.AngularImpulseAccum = 0
}

func (j *WeldJoint) WarmStart(simA, simB BodySim, stateA, stateB *BodyState) {
	applyPointImpulse(simA, simB, stateA, stateB, j.anchorA, j.anchorB, j.pivotImpulse)
	stateA.AngularVelocity -= simA.InvInertia * j.angularImpulse
	stateB.AngularVelocity += simB.InvInertia * j.angularImpulse
}

func (j *WeldJoint) SolveVelocity(simA, simB BodySim, stateA, stateB *BodyState, h float64, useBias bool) {
	// Angular row.
	{
		cdot := stateB.AngularVelocity - stateA.AngularVelocity
		var bias, massScale, impulseScale float64
		massScale, impulseScale = 1, 0
		if useBias {
			bias = j.angularSoftness.BiasRate * j.angle
			massScale = j.angularSoftness.MassScale
			impulseScale = j.angularSoftness.ImpulseScale
		}
		impulse := -j.axialMass*massScale*(cdot+bias) - impulseScale*j.angularImpulse
		j.angularImpulse += impulse
		j.AngularImpulseAccum += impulse
		stateA.AngularVelocity -= simA.InvInertia * impulse
		stateB.AngularVelocity += simB.InvInertia * impulse
	}

	// Linear (point) row.
	rA := stateA.DeltaRotation.RotateVector(j.anchorA)
	rB := stateB.DeltaRotation.RotateVector(j.anchorB)
	vr := pointVelocity(stateB.LinearVelocity, stateB.AngularVelocity, rB).
		Sub(pointVelocity(stateA.LinearVelocity, stateA.AngularVelocity, rA))

	var bias math2.Vec2
	massScale, impulseScale := 1.0, 0.0
	if useBias {
		pA := simA.Center.Add(stateA.DeltaPosition).Add(rA)
		pB := simB.Center.Add(stateB.DeltaPosition).Add(rB)
		c := pB.Sub(pA)
		bias = c.Scale(j.linearSoftness.BiasRate)
		massScale = j.linearSoftness.MassScale
		impulseScale = j.linearSoftness.ImpulseScale
	}
	impulse := j.pivotMass.MulVec(vr.Add(bias).Scale(massScale).Neg()).Sub(j.pivotImpulse.Scale(impulseScale))
	j.pivotImpulse = j.pivotImpulse.Add(impulse)
	j.LinearImpulseAccum = j.LinearImpulseAccum.Add(impulse)
	applyPointImpulse(simA, simB, stateA, stateB, rA, rB, impulse)
}
