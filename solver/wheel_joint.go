// Copyright 2026 The Rigid2D Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package solver

import "github.com/rigid2d/rigid2d/math2"

// WheelJoint constrains relative translation to a single axis (like
// Prismatic) but leaves relative rotation free, adds an optional spring
// along the axis (suspension), an optional translation limit, and an
// optional motor driving relative angular velocity (wheel spin).
type WheelJoint struct {
	JointBase

	EnableSpring bool
	Hertz        float64
	DampingRatio float64

	EnableLimit      bool
	LowerTranslation float64
	UpperTranslation float64

	EnableMotor    bool
	MotorSpeed     float64
	MaxMotorTorque float64

	axis, perp math2.Vec2
	anchorA, anchorB math2.Vec2
	s1, s2, a1, a2 float64

	perpMass    float64
	perpImpulse float64

	springMass     float64
	springSoftness Softness
	springImpulse  float64

	axialMass float64

	motorMass    float64
	motorImpulse float64
	lowerImpulse float64
	upperImpulse float64

	translation float64
	cPerp       float64
}

func (j *WheelJoint) Prepare(simA, simB BodySim, stateA, stateB BodyState, h float64) {
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

	perpK := mA + mB + iA*j.s1*j.s1 + iB*j.s2*j.s2
	if perpK > 0 {
		j.perpMass = 1 / perpK
	}
	axialK := mA + mB + iA*j.a1*j.a1 + iB*j.a2*j.a2
	if axialK > 0 {
		j.axialMass = 1 / axialK
		j.springMass = j.axialMass
	}
	motorK := iA + iB
	if motorK > 0 {
		j.motorMass = 1 / motorK
	}

	j.springSoftness = MakeSoft(j.Hertz, j.DampingRatio, h)
	j.translation = d.Dot(j.axis)
	j.cPerp = d.Dot(j.perp)

	j.LinearImpulseAccum = math2.Vec2{}
	j.AngularImpulseAccum = 0
}

func (j *WheelJoint) WarmStart(simA, simB BodySim, stateA, stateB *BodyState) {
	axial := j.springImpulse + j.lowerImpulse - j.upperImpulse
	p := j.perp.Scale(j.perpImpulse).Add(j.axis.Scale(axial))
	lA := j.s1*j.perpImpulse + j.a1*axial
	lB := j.s2*j.perpImpulse + j.a2*axial

	stateA.LinearVelocity = stateA.LinearVelocity.MulAdd(p, -simA.InvMass)
	stateA.AngularVelocity -= simA.InvInertia * (lA + j.motorImpulse)
	stateB.LinearVelocity = stateB.LinearVelocity.MulAdd(p, simB.InvMass)
	stateB.AngularVelocity += simB.InvInertia * (lB + j.motorImpulse)
}

func (j *WheelJoint) SolveVelocity(simA, simB BodySim, stateA, stateB *BodyState, h float64, useBias bool) {
	vA, wA := stateA.LinearVelocity, stateA.AngularVelocity
	vB, wB := stateB.LinearVelocity, stateB.AngularVelocity

	if j.EnableSpring {
		cdot := j.axis.Dot(vB.Sub(vA)) + j.a2*wB - j.a1*wA
		bias := j.springSoftness.BiasRate * j.translation
		impulse := -j.springMass*j.springSoftness.MassScale*(cdot+bias) - j.springSoftness.ImpulseScale*j.springImpulse
		j.springImpulse += impulse
		applyAxial(simA, simB, stateA, stateB, j.axis, j.a1, j.a2, impulse)
	}

	if j.EnableMotor {
		cdot := stateB.AngularVelocity - stateA.AngularVelocity - j.MotorSpeed
		impulse := -j.motorMass * cdot
		old := j.motorImpulse
		maxImpulse := j.MaxMotorTorque * h
		j.motorImpulse = clampFloat(old+impulse, -maxImpulse, maxImpulse)
		impulse = j.motorImpulse - old
		stateA.AngularVelocity -= simA.InvInertia * impulse
		stateB.AngularVelocity += simB.InvInertia * impulse
	}

	if j.EnableLimit {
		{
			c := j.translation - j.LowerTranslation
			cdot := j.axis.Dot(stateB.LinearVelocity.Sub(stateA.LinearVelocity)) + j.a2*stateB.AngularVelocity - j.a1*stateA.AngularVelocity
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
			cdot := -(j.axis.Dot(stateB.LinearVelocity.Sub(stateA.LinearVelocity)) + j.a2*stateB.AngularVelocity - j.a1*stateA.AngularVelocity)
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
	var bias float64
	if useBias {
		bias = j.cPerp / h
	}
	impulse := -j.perpMass * (cdotPerp + bias)
	j.perpImpulse += impulse

	p := j.perp.Scale(impulse)
	lA := j.s1 * impulse
	lB := j.s2 * impulse
	stateA.LinearVelocity = stateA.LinearVelocity.MulAdd(p, -simA.InvMass)
	stateA.AngularVelocity -= simA.InvInertia * lA
	stateB.LinearVelocity = stateB.LinearVelocity.MulAdd(p, simB.InvMass)
	stateB.AngularVelocity += simB.InvInertia * lB
}
