// Copyright 2026 The Rigid2D Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package solver

import (
	"github.com/rigid2d/rigid2d/id"
	"github.com/rigid2d/rigid2d/manifold"
	"github.com/rigid2d/rigid2d/math2"
)

// ContactConstraintPoint is the per-point prepared data the velocity and
// position solves iterate over (spec.md §4.6 steps 2-6).
type ContactConstraintPoint struct {
	AnchorA, AnchorB math2.Vec2 // relative to each body's center of mass
	BaseSeparation   float64    // separation with the anchor offsets baked in, so position bias can be recomputed from the live anchors each substep
	NormalMass       float64
	TangentMass      float64
	RelativeVelocity float64 // approach speed at prepare time, for the restitution pass

	NormalImpulse    float64
	TangentImpulse   float64
	MaxNormalImpulse float64 // largest normal impulse seen this step, for hit-event and friction-bound stability
}

// ContactConstraint is one contact's prepared solver state, persisted
// across a step's substeps and warm-started from the previous step's
// Manifold via feature id (manifold.Point.ID).
type ContactConstraint struct {
	ID       id.ID
	BodyA    id.ID
	BodyB    id.ID
	IndexA   int // local index within its solver set
	IndexB   int

	Normal      math2.Vec2
	Friction    float64
	Restitution float64
	Softness    Softness

	Points     [2]ContactConstraintPoint
	PointCount int
}

// restitutionThreshold default per spec.md §4.6 "approach speed exceeds
// restitutionThreshold".
const defaultRestitutionThreshold = 1.0

// PrepareContact builds a ContactConstraint from a narrow-phase manifold
// and the two bodies' current solver state (spec.md §4.6 step 2
// "Prepare constraints"). contactSoftness should be stiffer (higher
// hertz) when one side is static, matching the teacher's distinction
// between body-body and body-world equations only in spirit — the
// teacher itself applies one fixed GaussSeidel pass with no softness
// split.
func PrepareContact(contactID id.ID, bodyA, bodyB id.ID, m manifold.Manifold, simA, simB BodySim, stateA, stateB BodyState, friction, restitution float64, contactSoftness Softness) ContactConstraint {
	c := ContactConstraint{
		ID: contactID, BodyA: bodyA, BodyB: bodyB,
		Normal: m.Normal, Friction: friction, Restitution: restitution,
		Softness: contactSoftness, PointCount: m.PointCount,
	}
	tangent := m.Normal.RightPerp()

	vA, wA := stateA.LinearVelocity, stateA.AngularVelocity
	vB, wB := stateB.LinearVelocity, stateB.AngularVelocity

	for i := 0; i < m.PointCount; i++ {
		mp := m.Points[i]
		rA := mp.Point.Sub(simA.Center)
		rB := mp.Point.Sub(simB.Center)

		normalMass := effectiveMass(simA, simB, rA, rB, m.Normal)
		tangentMass := effectiveMass(simA, simB, rA, rB, tangent)

		relVel := m.Normal.Dot(relativeVelocity(vA, wA, rA, vB, wB, rB))

		c.Points[i] = ContactConstraintPoint{
			AnchorA:          rA,
			AnchorB:          rB,
			BaseSeparation:   mp.Separation - rB.Sub(rA).Dot(m.Normal),
			NormalMass:       normalMass,
			TangentMass:      tangentMass,
			RelativeVelocity: relVel,
			NormalImpulse:    mp.NormalImpulse,
			TangentImpulse:   mp.TangentImpulse,
		}
	}
	return c
}

func relativeVelocity(vA math2.Vec2, wA float64, rA math2.Vec2, vB math2.Vec2, wB float64, rB math2.Vec2) math2.Vec2 {
	pA := vA.Add(math2.CrossSV(wA, rA))
	pB := vB.Add(math2.CrossSV(wB, rB))
	return pB.Sub(pA)
}

func effectiveMass(simA, simB BodySim, rA, rB, dir math2.Vec2) float64 {
	rnA := rA.Cross(dir)
	rnB := rB.Cross(dir)
	k := simA.InvMass + simB.InvMass + simA.InvInertia*rnA*rnA + simB.InvInertia*rnB*rnB
	if k <= 0 {
		return 0
	}
	return 1 / k
}

// WarmStart applies each point's stored impulses to the two bodies'
// velocities (spec.md §4.6 step 3).
func (c *ContactConstraint) WarmStart(simA, simB BodySim, stateA, stateB *BodyState) {
	for i := 0; i < c.PointCount; i++ {
		p := &c.Points[i]
		impulse := c.Normal.Scale(p.NormalImpulse).Add(c.Normal.RightPerp().Scale(p.TangentImpulse))
		applyImpulse(simA, stateA, p.AnchorA, impulse.Neg())
		applyImpulse(simB, stateB, p.AnchorB, impulse)
	}
}

func applyImpulse(sim BodySim, state *BodyState, anchor, impulse math2.Vec2) {
	state.LinearVelocity = state.LinearVelocity.MulAdd(impulse, sim.InvMass)
	state.AngularVelocity += sim.InvInertia * anchor.Cross(impulse)
}

// SolveVelocity performs one velocity-constraint pass (spec.md §4.6 step
// 4): the non-negative normal impulse first, then friction bounded by
// mu times the normal impulse this same pass produced; friction is not
// solved ahead of the normal rows. useBias is false during the relax pass
// RunStep makes after IntegratePosition: penetrating points then get no
// position bias or softness, while speculative points (separation > 0)
// are biased in either pass.
func (c *ContactConstraint) SolveVelocity(simA, simB BodySim, stateA, stateB *BodyState, h float64, useBias bool) {
	tangent := c.Normal.RightPerp()

	for i := 0; i < c.PointCount; i++ {
		p := &c.Points[i]

		rA := rotateAnchor(simA, stateA, p.AnchorA)
		rB := rotateAnchor(simB, stateB, p.AnchorB)
		relVel := relativeVelocity(stateA.LinearVelocity, stateA.AngularVelocity, rA, stateB.LinearVelocity, stateB.AngularVelocity, rB)

		separation := p.BaseSeparation + stateB.DeltaPosition.Sub(stateA.DeltaPosition).Add(rB.Sub(rA)).Dot(c.Normal)

		var bias, massScale, impulseScale float64
		massScale, impulseScale = 1, 0
		if separation > 0 {
			// Speculative contact: treat as a velocity constraint only,
			// biased by how far apart the points still are over h.
			bias = separation / h
		} else if useBias {
			bias = maxFloatSolver(c.Softness.BiasRate*separation, -4.0)
			massScale = c.Softness.MassScale
			impulseScale = c.Softness.ImpulseScale
		}

		vn := relVel.Dot(c.Normal)
		impulse := -p.NormalMass*massScale*(vn+bias) - impulseScale*p.NormalImpulse
		newImpulse := maxFloatSolver(p.NormalImpulse+impulse, 0)
		impulse = newImpulse - p.NormalImpulse
		p.NormalImpulse = newImpulse
		if newImpulse > p.MaxNormalImpulse {
			p.MaxNormalImpulse = newImpulse
		}

		applyImpulse(simA, stateA, rA, c.Normal.Scale(-impulse))
		applyImpulse(simB, stateB, rB, c.Normal.Scale(impulse))
	}

	for i := 0; i < c.PointCount; i++ {
		p := &c.Points[i]
		rA := rotateAnchor(simA, stateA, p.AnchorA)
		rB := rotateAnchor(simB, stateB, p.AnchorB)
		relVel := relativeVelocity(stateA.LinearVelocity, stateA.AngularVelocity, rA, stateB.LinearVelocity, stateB.AngularVelocity, rB)

		vt := relVel.Dot(tangent)
		impulse := -p.TangentMass * vt
		maxFriction := c.Friction * p.NormalImpulse
		newImpulse := clampFloat(p.TangentImpulse+impulse, -maxFriction, maxFriction)
		impulse = newImpulse - p.TangentImpulse
		p.TangentImpulse = newImpulse

		applyImpulse(simA, stateA, rA, tangent.Scale(-impulse))
		applyImpulse(simB, stateB, rB, tangent.Scale(impulse))
	}
}

func rotateAnchor(sim BodySim, state *BodyState, anchor math2.Vec2) math2.Vec2 {
	return state.DeltaRotation.RotateVector(anchor)
}

// ApplyRestitution implements spec.md §4.6 step 7: on the last substep,
// points whose prepared approach speed exceeded restitutionThreshold get
// a bounce impulse of -e*approachSpeed layered onto the normal impulse.
func (c *ContactConstraint) ApplyRestitution(simA, simB BodySim, stateA, stateB *BodyState, threshold float64) {
	if c.Restitution == 0 {
		return
	}
	for i := 0; i < c.PointCount; i++ {
		p := &c.Points[i]
		if p.RelativeVelocity > -threshold || p.MaxNormalImpulse == 0 {
			continue
		}
		rA := rotateAnchor(simA, stateA, p.AnchorA)
		rB := rotateAnchor(simB, stateB, p.AnchorB)
		relVel := relativeVelocity(stateA.LinearVelocity, stateA.AngularVelocity, rA, stateB.LinearVelocity, stateB.AngularVelocity, rB)
		vn := relVel.Dot(c.Normal)

		impulse := -p.NormalMass * (vn + c.Restitution*p.RelativeVelocity)
		newImpulse := maxFloatSolver(p.NormalImpulse+impulse, 0)
		impulse = newImpulse - p.NormalImpulse
		p.NormalImpulse = newImpulse
		if newImpulse > p.MaxNormalImpulse {
			p.MaxNormalImpulse = newImpulse
		}

		applyImpulse(simA, stateA, rA, c.Normal.Scale(-impulse))
		applyImpulse(simB, stateB, rB, c.Normal.Scale(impulse))
	}
}

// StoreImpulses copies the converged impulses back onto the manifold
// points, index by index, so next step's PrepareContact can warm-start
// from them (spec.md §4.6 step 8). Matching by feature id against the next
// step's manifold is done by the world's matchWarmStart, not here.
func (c *ContactConstraint) StoreImpulses(m *manifold.Manifold) {
	for i := 0; i < c.PointCount && i < m.PointCount; i++ {
		m.Points[i].NormalImpulse = c.Points[i].NormalImpulse
		m.Points[i].TangentImpulse = c.Points[i].TangentImpulse
		m.Points[i].MaxNormalImpulse = c.Points[i].MaxNormalImpulse
	}
}

func maxFloatSolver(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
