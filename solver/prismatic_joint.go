// Copyright 2026 The Rigid2D Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package solver

import "github.com/rigid2d/rigid2d/math2"

// PrismaticJoint constrains two bodies to translate relative to each
// other along a single shared axis (fixed relative angle, free relative
// translation along LocalAxisA), optionally bounded by a translation
// limit and/or driven by a motor along the axis.
type PrismaticJoint struct {
	JointBase

	EnableLimit bool
	LowerTranslation float64
	UpperTranslation float64

	EnableMotor    bool
	MotorSpeed     float64
	MaxMotorForce  float64

	anchorA, anchorB math2.Vec2
	axis, perp       math2.Vec2
	s1, s2           float64 // perp-row cross terms
	a1, a2           float64 // axial-row cross terms

	perpAngleMass math2.Mat22 // 2x2: (perp translation, relative angle)
	perpImpulse   math2.Vec2

	axialMass     float64
	motorImpulse  float64
	lowerImpulse  float64
	upperImpulse  float64

	translation float64
	angle       float64
	cPerp       float64
}

func (j *PrismaticJoint) Prepare(simA, simB BodySim, stateA, stateB BodyState, h float64) {
	qA := simA.Rotation.MulRot(stateA.DeltaRotation)
	qB := simB.Rotation.MulRot(stateB.DeltaRotation)
	j.anchorA = qA.RotateVector(j.LocalAnchorA)
	j.anchorB = qB.RotateVector(j.LocalAnchorB)
	j.axis = qA.RotateVector(j.LocalAxisA)
	j.perp = j.axis.Perp()

	pA := simA.Center.Add(stateA.DeltaPosition).Add(j.anchorA)
	pB := simB.Center.Add(stateB.DeltaPosition).Add(j.anchorB)
	d := pB.Sub(pA)

	j.s1 = d.Add(j.anchorA).Cross(j.perp)
	j.s2 = j.anchorB.Cross(j.perp)
	j.a1 = d.Add(j.anchorA).Cross(j.axis)
	j.a2 = j.anchorB.Cross(j.axis)

	mA, iA := simA.InvMass, simA.InvInertia
	mB, iB := simB.InvMass, simB.InvInertia

	k11 := mA + mB + iA*j.s1*j.s1 + iB*j.s2*j.s2
	k12 := iA*j.s1 + iB*j.s2
	k22 := iA + iB
	if k22 == 0 {
		k22 = 1
	}
	j.perpAngleMass = math2.Mat22{Col1: math2.Vec2{X: k11, Y: k12}, Col2: math2.Vec2{X: k12, Y: k22}}.Invert()

	axialK := mA + mB + iA*j.a1*j.a1 + iB*j.a2*j.a2
	if axialK > 0 {
		j.axialMass = 1 / axialK
	}

	j.translation = d.Dot(j.axis)
	j.cPerp = d.Dot(j.perp)
	j.angle = math2.RelativeAngle(qA, qB) - j.ReferenceAngle

	j.LinearImpulseAccum = math2.Vec2{}
	j.AngularImpulseAccum = 0
}

func (j *PrismaticJoint) WarmStart(simA, simB BodySim, stateA, stateB *BodyState) {
	axial := j.motorImpulse + j.lowerImpulse - j.upperImpulse
	p := j.perp.Scale(j.perpImpulse.X).Add(j.axis.Scale(axial))
	lA := j.s1*j.perpImpulse.X + j.a1*axial + j.perpImpulse.Y
	lB := j.s2*j.perpImpulse.X + j.a2*axial + j.perpImpulse.Y

	stateA.LinearVelocity = stateA.LinearVelocity.MulAdd(p, -simA.InvMass)
	stateA.AngularVelocity -= simA.InvInertia * lA
	stateB.LinearVelocity = stateB.LinearVelocity.MulAdd(p, simB.InvMass)
	stateB.AngularVelocity += simB.InvInertia * lB
}

func (j *PrismaticJoint) SolveVelocity(simA, simB BodySim, stateA, stateB *BodyState, h float64, useBias bool) {
	vA, wA := stateA.LinearVelocity, stateA.AngularVelocity
	vB, wB := stateB.LinearVelocity, stateB.AngularVelocity

	if j.EnableMotor {
		cdot := j.axis.Dot(vB.Sub(vA)) + j.a2*wB - j.a1*wA - j.MotorSpeed
		impulse := -j.axialMass * cdot
		old := j.motorImpulse
		maxImpulse := j.MaxMotorForce * h
		j.motorImpulse = clampFloat(old+impulse, -maxImpulse, maxImpulse)
		impulse = j.motorImpulse - old
		applyAxial(simA, simB, stateA, stateB, j.axis, j.a1, j.a2, impulse)
	}

	if j.EnableLimit {
		{
			c := j.translation - j.LowerTranslation
			cdot := j.axis.Dot(vB.Sub(vA)) + j.a2*wB - j.a1*wA
			bias := maxFloatSolver(c, 0) / h
			if c < 0 && useBias {
				bias = c / h
			}
			impulse := -j.axialMass * (cdot + bias)
			old := j.lowerImpulse
			j.lowerImpulse = maxFloatSolver(old+impulse, 0)
			impulse = j.lowerImpulse - old
			applyAxial(simA, simB, stateA, stateB, j.axis, j.a1, j.a2, impulse)
		}
		{
			c := j.UpperTranslation - j.translation
			cdot := -(j.axis.Dot(vB.Sub(vA)) + j.a2*wB - j.a1*wA)
			bias := maxFloatSolver(c, 0) / h
			if c < 0 && useBias {
				bias = c / h
			}
			impulse := -j.axialMass * (cdot + bias)
			old := j.upperImpulse
			j.upperImpulse = maxFloatSolver(old+impulse, 0)
			impulse = j.upperImpulse - old
			applyAxial(simA, simB, stateA, stateB, j.axis, j.a1, j.a2, -impulse)
		}
	}

	cdotPerp := j.perp.Dot(stateB.LinearVelocity.Sub(stateA.LinearVelocity)) + j.s2*stateB.AngularVelocity - j.s1*stateA.AngularVelocity
	cdotAngle := stateB.AngularVelocity - stateA.AngularVelocity

	var biasVec math2.Vec2
	if useBias {
		biasVec = math2.V2(j.cPerp, j.angle).Scale(1 / h)
	}
	cdot := math2.V2(cdotPerp, cdotAngle)
	impulse := j.perpAngleMass.MulVec(cdot.Add(biasVec).Neg())
	j.perpImpulse = j.perpImpulse.Add(impulse)

	lA := j.s1*impulse.X + impulse.Y
	lB := j.s2*impulse.X + impulse.Y
	p := j.perp.Scale(impulse.X)
	stateA.LinearVelocity = stateA.LinearVelocity.MulAdd(p, -simA.InvMass)
	stateA.AngularVelocity -= simA.InvInertia * lA
	stateB.LinearVelocity = stateB.LinearVelocity.MulAdd(p, simB.InvMass)
	stateB.AngularVelocity += simB.InvInertia * lB
}

func applyAxial(simA, simB BodySim, stateA, stateB *BodyState, axis math2.Vec2, a1, a2, impulse float64) {
	p := axis.Scale(impulse)
	stateA.LinearVelocity = stateA.LinearVelocity.MulAdd(p, -simA.InvMass)
	stateA.AngularVelocity -= simA.InvInertia * a1 * impulse
	stateB.LinearVelocity = stateB.LinearVelocity.MulAdd(p, simB.InvMass)
	stateB.AngularVelocity += simB.InvInertia * a2 * impulse
}
