// Copyright 2026 The Rigid2D Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package math2

// Transform is a rigid transform: rotation then translation.
type Transform struct {
	P Vec2
	Q Rot
}

// IdentityTransform is the identity rigid transform.
var IdentityTransform = Transform{Q: Identity}

// TransformPoint maps a local point to world space.
func (t Transform) TransformPoint(v Vec2) Vec2 {
	return t.Q.RotateVector(v).Add(t.P)
}

// InvTransformPoint maps a world point to local space.
func (t Transform) InvTransformPoint(v Vec2) Vec2 {
	return t.Q.InvRotateVector(v.Sub(t.P))
}

// TransformVector rotates (but does not translate) a local vector.
func (t Transform) TransformVector(v Vec2) Vec2 {
	return t.Q.RotateVector(v)
}

func (t Transform) InvTransformVector(v Vec2) Vec2 {
	return t.Q.InvRotateVector(v)
}

// Mul composes two transforms: applying the result is equivalent to
// applying b then a (a∘b).
func Mul(a, b Transform) Transform {
	return Transform{
		Q: a.Q.MulRot(b.Q),
		P: a.Q.RotateVector(b.P).Add(a.P),
	}
}

// InvMul returns a⁻¹∘b, the transform from frame a to frame b.
func InvMul(a, b Transform) Transform {
	return Transform{
		Q: a.Q.InvMulRot(b.Q),
		P: a.Q.InvRotateVector(b.P.Sub(a.P)),
	}
}

// Sweep describes a body's motion across a step for continuous collision:
// the center of mass and rotation at the start (c0/q0) and end (c1/q1) of
// the sweep, plus the local center used to recover the body origin from the
// center of mass.
type Sweep struct {
	LocalCenter Vec2
	C0, C1      Vec2
	Q0, Q1      Rot
}

// Transform returns the interpolated transform at fraction t in [0,1].
func (s Sweep) Transform(t float64) Transform {
	c := s.C0.Lerp(s.C1, t)
	q := Rot{
		S: s.Q0.S + (s.Q1.S-s.Q0.S)*t,
		C: s.Q0.C + (s.Q1.C-s.Q0.C)*t,
	}.Normalize()
	// Recover the body-origin transform from the center-of-mass transform.
	p := c.Sub(q.RotateVector(s.LocalCenter))
	return Transform{P: p, Q: q}
}

// Advance moves the sweep's starting point to fraction alpha, used by TOI
// resolution to discard the portion of the step before the impact.
func (s Sweep) Advance(alpha float64) Sweep {
	t := s.Transform(alpha)
	return Sweep{
		LocalCenter: s.LocalCenter,
		C0:          t.P.Add(t.Q.RotateVector(s.LocalCenter)),
		Q0:          t.Q,
		C1:          s.C1,
		Q1:          s.Q1,
	}
}
