// Copyright 2026 The Rigid2D Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package solver

import "github.com/rigid2d/rigid2d/math2"

// RevoluteJoint pins two bodies together at a shared point and allows
// free relative rotation, optionally bounded by an angle limit and/or
// driven by a motor.
type RevoluteJoint struct {
	JointBase

	EnableLimit  bool
	LowerAngle   float64
	UpperAngle   float64

	EnableMotor  bool
	MotorSpeed   float64
	MaxMotorTorque float64

	anchorA, anchorB math2.Vec2
	pivotMass        math2.Mat22
	pivotImpulse     math2.Vec2

	angle             float64
	axialMass         float64
	motorImpulse      float64
	lowerImpulse      float64
	upperImpulse      float64
}

func (j *RevoluteJoint) Prepare(simA, simB BodySim, stateA, stateB BodyState, h float64) {
	qA := simA.Rotation.MulRot(stateA.DeltaRotation)
	qB := simB.Rotation.MulRot(stateB.DeltaRotation)
	j.anchorA = qA.RotateVector(j.LocalAnchorA)
	j.anchorB = qB.RotateVector(j.LocalAnchorB)
	j.pivotMass = pointMass(simA, simB, j.anchorA, j.anchorB).Invert()

	j.angle = math2.RelativeAngle(qA, qB) - j.ReferenceAngle
	j.axialMass = 0
	if k := simA.InvInertia + simB.InvInertia; k > 0 {
		j.axialMass = 1 / k
	}
	j.LinearImpulseAccum = math2.Vec2{}
	j.AngularImpulseAccum = 0
}

func (j *RevoluteJoint) WarmStart(simA, simB BodySim, stateA, stateB *BodyState) {
	applyPointImpulse(simA, simB, stateA, stateB, j.anchorA, j.anchorB, j.pivotImpulse)
	total := j.motorImpulse + j.lowerImpulse - j.upperImpulse
	stateA.AngularVelocity -= simA.InvInertia * total
	stateB.AngularVelocity += simB.InvInertia * total
}

func (j *RevoluteJoint) SolveVelocity(simA, simB BodySim, stateA, stateB *BodyState, h float64, useBias bool) {
	if j.EnableMotor {
		cdot := stateB.AngularVelocity - stateA.AngularVelocity - j.MotorSpeed
		impulse := -j.axialMass * cdot
		old := j.motorImpulse
		maxImpulse := j.MaxMotorTorque * h
		j.motorImpulse = clampFloat(old+impulse, -maxImpulse, maxImpulse)
		impulse = j.motorImpulse - old
		stateA.AngularVelocity -= simA.InvInertia * impulse
		stateB.AngularVelocity += simB.InvInertia * impulse
	}

	if j.EnableLimit {
		{
			c := j.angle - j.LowerAngle
			cdot := stateB.AngularVelocity - stateA.AngularVelocity
			bias := maxFloatSolver(c, 0) / h
			if c < 0 && useBias {
				bias = c / h
			}
			impulse := -j.axialMass * (cdot + bias)
			old := j.lowerImpulse
			j.lowerImpulse = maxFloatSolver(old+impulse, 0)
			impulse = j.lowerImpulse - old
			stateA.AngularVelocity -= simA.InvInertia * impulse
			stateB.AngularVelocity += simB.InvInertia * impulse
		}
		{
			c := j.UpperAngle - j.angle
			cdot := -(stateB.AngularVelocity - stateA.AngularVelocity)
			bias := maxFloatSolver(c, 0) / h
			if c < 0 && useBias {
				bias = c / h
			}
			impulse := -j.axialMass * (cdot + bias)
			old := j.upperImpulse
			j.upperImpulse = maxFloatSolver(old+impulse, 0)
			impulse = j.upperImpulse - old
			stateA.AngularVelocity += simA.InvInertia * impulse
			stateB.AngularVelocity -= simB.InvInertia * impulse
		}
	}

	rA := stateA.DeltaRotation.RotateVector(j.anchorA)
	rB := stateB.DeltaRotation.RotateVector(j.anchorB)
	vr := pointVelocity(stateB.LinearVelocity, stateB.AngularVelocity, rB).
		Sub(pointVelocity(stateA.LinearVelocity, stateA.AngularVelocity, rA))

	var bias math2.Vec2
	if useBias {
		pA := simA.Center.Add(stateA.DeltaPosition).Add(rA)
		pB := simB.Center.Add(stateB.DeltaPosition).Add(rB)
		c := pB.Sub(pA)
		bias = c.Scale(1 / h)
	}
	impulse := j.pivotMass.MulVec(vr.Add(bias).Neg())
	j.pivotImpulse = j.pivotImpulse.Add(impulse)
	j.LinearImpulseAccum = j.LinearImpulseAccum.Add(impulse)
	applyPointImpulse(simA, simB, stateA, stateB, rA, rB, impulse)
}
