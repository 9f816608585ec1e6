// Copyright 2026 The Rigid2D Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package solver

import "github.com/rigid2d/rigid2d/math2"

// MotorJoint drives the relative position and angle between two bodies'
// centers toward LinearOffset/AngularOffset with a bounded force/torque,
// rather than rigidly constraining them — useful for animating a body
// relative to another (e.g. a character riding a platform).
type MotorJoint struct {
	JointBase

	LinearOffset     math2.Vec2
	AngularOffset    float64
	MaxForce         float64
	MaxTorque        float64
	CorrectionFactor float64

	linearMass  float64
	angularMass float64

	linearError  math2.Vec2
	angularError float64

	linearImpulse  math2.Vec2
	angularImpulse float64
}

func (j *MotorJoint) Prepare(simA, simB BodySim, stateA, stateB BodyState, h float64) {
	if k := simA.InvMass + simB.InvMass; k > 0 {
		j.linearMass = 1 / k
	}
	if k := simA.InvInertia + simB.InvInertia; k > 0 {
		j.angularMass = 1 / k
	}

	qA := simA.Rotation.MulRot(stateA.DeltaRotation)
	cA := simA.Center.Add(stateA.DeltaPosition)
	cB := simB.Center.Add(stateB.DeltaPosition)
	j.linearError = cB.Sub(cA).Sub(qA.RotateVector(j.LinearOffset))

	qB := simB.Rotation.MulRot(stateB.DeltaRotation)
	j.angularError = math2.RelativeAngle(qA, qB) - j.AngularOffset

	j.LinearImpulseAccum = math2.Vec2{}
	j.AngularImpulseAccum = 0
}

func (j *MotorJoint) WarmStart(simA, simB BodySim, stateA, stateB *BodyState) {
	stateA.LinearVelocity = stateA.LinearVelocity.MulAdd(j.linearImpulse, -simA.InvMass)
	stateA.AngularVelocity -= simA.InvInertia * j.angularImpulse
	stateB.LinearVelocity = stateB.LinearVelocity.MulAdd(j.linearImpulse, simB.InvMass)
	stateB.AngularVelocity += simB.InvInertia * j.angularImpulse
}

func (j *MotorJoint) SolveVelocity(simA, simB BodySim, stateA, stateB *BodyState, h float64, useBias bool) {
	correction := j.CorrectionFactor
	if correction == 0 {
		correction = 1
	}

	{
		cdot := stateB.AngularVelocity - stateA.AngularVelocity
		bias := correction * j.angularError / h
		impulse := -j.angularMass * (cdot + bias)
		old := j.angularImpulse
		maxImpulse := j.MaxTorque * h
		j.angularImpulse = clampFloat(old+impulse, -maxImpulse, maxImpulse)
		impulse = j.angularImpulse - old
		j.AngularImpulseAccum += impulse
		stateA.AngularVelocity -= simA.InvInertia * impulse
		stateB.AngularVelocity += simB.InvInertia * impulse
	}

	{
		cdot := stateB.LinearVelocity.Sub(stateA.LinearVelocity)
		bias := j.linearError.Scale(correction / h)
		impulse := cdot.Add(bias).Scale(-j.linearMass)
		old := j.linearImpulse
		j.linearImpulse = j.linearImpulse.Add(impulse)
		maxImpulse := j.MaxForce * h
		if j.linearImpulse.LengthSquared() > maxImpulse*maxImpulse {
			j.linearImpulse = j.linearImpulse.Scale(maxImpulse / j.linearImpulse.Length())
		}
		impulse = j.linearImpulse.Sub(old)
		j.LinearImpulseAccum = j.LinearImpulseAccum.Add(impulse)
		stateA.LinearVelocity = stateA.LinearVelocity.MulAdd(impulse, -simA.InvMass)
		stateB.LinearVelocity = stateB.LinearVelocity.MulAdd(impulse, simB.InvMass)
	}
}
