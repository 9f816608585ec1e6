// Copyright 2026 The Rigid2D Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package math2

import "math"

// Rot is a 2D rotation stored as (sin, cos) rather than an angle, which is
// the representation the solver integrates directly (see Integrate) and
// avoids repeated trig during the substep loop. It plays the role the
// teacher engine's Quaternion plays for 3D bodies.
type Rot struct {
	S, C float64 // sin, cos
}

// Identity is the zero rotation.
var Identity = Rot{S: 0, C: 1}

// NewRot builds a Rot from an angle in radians.
func NewRot(angle float64) Rot {
	return Rot{S: math.Sin(angle), C: math.Cos(angle)}
}

// Angle returns the angle in radians.
func (r Rot) Angle() float64 { return math.Atan2(r.S, r.C) }

// MulRot composes two rotations: q followed by r (r∘q).
func (r Rot) MulRot(q Rot) Rot {
	return Rot{
		S: r.S*q.C + r.C*q.S,
		C: r.C*q.C - r.S*q.S,
	}
}

// InvMulRot returns r⁻¹ ∘ q, the relative rotation from r to q.
func (r Rot) InvMulRot(q Rot) Rot {
	return Rot{
		S: r.C*q.S - r.S*q.C,
		C: r.C*q.C + r.S*q.S,
	}
}

// RotateVector rotates v by r.
func (r Rot) RotateVector(v Vec2) Vec2 {
	return Vec2{X: r.C*v.X - r.S*v.Y, Y: r.S*v.X + r.C*v.Y}
}

// InvRotateVector rotates v by the inverse of r.
func (r Rot) InvRotateVector(v Vec2) Vec2 {
	return Vec2{X: r.C*v.X + r.S*v.Y, Y: -r.S*v.X + r.C*v.Y}
}

// Normalize renormalizes r so that S²+C²=1, correcting the drift that
// accumulates from IntegrateRot's first-order update.
func (r Rot) Normalize() Rot {
	mag := math.Sqrt(r.S*r.S + r.C*r.C)
	if mag < epsilon {
		return Identity
	}
	inv := 1.0 / mag
	return Rot{S: r.S * inv, C: r.C * inv}
}

// IntegrateRot advances r by angular velocity omega over dt using the
// complex-multiplication update q' = (q.C - omega*dt*q.S, q.S + omega*dt*q.C),
// then renormalizes. This is the 2D analogue of the teacher engine's
// quaternion integration in Body.Integrate (which perturbs each quaternion
// component by the angular velocity cross term and renormalizes).
func IntegrateRot(r Rot, omega, dt float64) Rot {
	next := Rot{
		S: r.S + dt*omega*r.C,
		C: r.C - dt*omega*r.S,
	}
	return next.Normalize()
}

// RelativeAngle returns the signed angle from a to b in (-pi, pi].
func RelativeAngle(a, b Rot) float64 {
	s := a.C*b.S - a.S*b.C
	c := a.C*b.C + a.S*b.S
	return math.Atan2(s, c)
}

// UnwindAngle wraps angle into (-pi, pi].
func UnwindAngle(angle float64) float64 {
	const twoPi = 2 * math.Pi
	if angle < -math.Pi {
		n := math.Floor((math.Pi-angle)/twoPi)
		return angle + n*twoPi
	}
	if angle > math.Pi {
		n := math.Floor((angle+math.Pi)/twoPi)
		return angle - n*twoPi
	}
	return angle
}
