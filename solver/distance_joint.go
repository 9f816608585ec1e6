// Copyright 2026 The Rigid2D Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package solver

import "github.com/rigid2d/rigid2d/math2"

// DistanceJoint holds two anchor points at a fixed (or spring-soft, or
// limited) separation.
type DistanceJoint struct {
	JointBase

	RestLength float64
	MinLength  float64
	MaxLength  float64

	EnableLimit  bool
	EnableSpring bool
	Hertz        float64
	DampingRatio float64

	// prepared per-step:
	axis           math2.Vec2
	anchorA        math2.Vec2
	anchorB        math2.Vec2
	mass           float64
	softness       Softness
	length         float64

	impulse      float64
	lowerImpulse float64
	upperImpulse float64
}

// Prepare computes the current axis, anchors, and effective mass
// for the step's substeps (spec.md §4.6 step 2).
func (j *DistanceJoint) Prepare(simA, simB BodySim, stateA, stateB BodyState, h float64) {
	j.anchorA = simA.Rotation.MulRot(stateA.DeltaRotation).RotateVector(j.LocalAnchorA)
	j.anchorB = simB.Rotation.MulRot(stateB.DeltaRotation).RotateVector(j.LocalAnchorB)

	pA := simA.Center.Add(stateA.DeltaPosition).Add(j.anchorA)
	pB := simB.Center.Add(stateB.DeltaPosition).Add(j.anchorB)
	d := pB.Sub(pA)
	j.length = d.Length()
	if j.length > 1e-9 {
		j.axis = d.Scale(1 / j.length)
	} else {
		j.axis = math2.V2(1, 0)
	}

	j.mass = effectiveMass(simA, simB, j.anchorA, j.anchorB, j.axis)
	if j.EnableSpring {
		j.softness = MakeSoft(j.Hertz, j.DampingRatio, h)
	}
	j.LinearImpulseAccum = math2.Vec2{}
}

// WarmStart applies the previous step's stored impulses.
func (j *DistanceJoint) WarmStart(simA, simB BodySim, stateA, stateB *BodyState) {
	total := j.impulse + j.lowerImpulse - j.upperImpulse
	impulse := j.axis.Scale(total)
	applyPointImpulse(simA, simB, stateA, stateB, j.anchorA, j.anchorB, impulse)
}

// SolveVelocity implements the spring/rigid row plus the min/max length
// limit rows (spec.md §4.6 step 4; §3's Distance joint "limits").
func (j *DistanceJoint) SolveVelocity(simA, simB BodySim, stateA, stateB *BodyState, h float64, useBias bool) {
	vA, wA := stateA.LinearVelocity, stateA.AngularVelocity
	vB, wB := stateB.LinearVelocity, stateB.AngularVelocity

	if j.EnableSpring {
		vr := pointVelocity(vB, wB, j.anchorB).Sub(pointVelocity(vA, wA, j.anchorA)).Dot(j.axis)
		c := j.length - j.RestLength
		bias := j.softness.BiasRate * c
		impulse := -j.mass*j.softness.MassScale*(vr+bias) - j.softness.ImpulseScale*j.impulse
		j.impulse += impulse
		applyPointImpulse(simA, simB, stateA, stateB, j.anchorA, j.anchorB, j.axis.Scale(impulse))
		j.LinearImpulseAccum = j.LinearImpulseAccum.Add(j.axis.Scale(impulse))
	} else {
		// Rigid rest-length row.
		vr := pointVelocity(stateB.LinearVelocity, stateB.AngularVelocity, j.anchorB).
			Sub(pointVelocity(stateA.LinearVelocity, stateA.AngularVelocity, j.anchorA)).Dot(j.axis)
		c := j.length - j.RestLength
		var bias float64
		if useBias {
			bias = clampFloat(c, -0.2, 0.2) / h
		}
		impulse := -j.mass * (vr + bias)
		j.impulse += impulse
		applyPointImpulse(simA, simB, stateA, stateB, j.anchorA, j.anchorB, j.axis.Scale(impulse))
		j.LinearImpulseAccum = j.LinearImpulseAccum.Add(j.axis.Scale(impulse))
	}

	if j.EnableLimit {
		// Lower limit: length >= MinLength.
		{
			c := j.length - j.MinLength
			vr := pointVelocity(stateB.LinearVelocity, stateB.AngularVelocity, j.anchorB).
				Sub(pointVelocity(stateA.LinearVelocity, stateA.AngularVelocity, j.anchorA)).Dot(j.axis)
			bias := maxFloatSolver(c, 0) / h
			if c < 0 && useBias {
				bias = c / h
			}
			impulse := -j.mass * (vr + bias)
			newImpulse := maxFloatSolver(j.lowerImpulse+impulse, 0)
			impulse = newImpulse - j.lowerImpulse
			j.lowerImpulse = newImpulse
			applyPointImpulse(simA, simB, stateA, stateB, j.anchorA, j.anchorB, j.axis.Scale(impulse))
		}
		// Upper limit: length <= MaxLength.
		{
			c := j.MaxLength - j.length
			vr := -pointVelocity(stateB.LinearVelocity, stateB.AngularVelocity, j.anchorB).
				Sub(pointVelocity(stateA.LinearVelocity, stateA.AngularVelocity, j.anchorA)).Dot(j.axis)
			bias := maxFloatSolver(c, 0) / h
			if c < 0 && useBias {
				bias = c / h
			}
			impulse := -j.mass * (vr + bias)
			newImpulse := maxFloatSolver(j.upperImpulse+impulse, 0)
			impulse = newImpulse - j.upperImpulse
			j.upperImpulse = newImpulse
			applyPointImpulse(simA, simB, stateA, stateB, j.anchorA, j.anchorB, j.axis.Scale(-impulse))
		}
	}
}
