// Copyright 2026 The Rigid2D Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package solver implements spec.md §4.4-§4.6: solver sets, islands,
// constraint graph coloring, and the TGS substepped velocity/position
// solver for contacts and joints. The teacher engine's solver package
// (_teacher_seed/physics/solver) is a single global Gauss-Seidel pass over
// every equation with no islands, coloring, or substepping; this package
// keeps its soft-constraint iterate-and-clamp idiom (see ContactConstraint
// and the joint solvers) but restructures the outer loop entirely around
// spec.md's graph-colored TGS scheme, since the teacher has no such
// structure to adapt.
package solver

import "math"

// Softness holds the three derived coefficients the TGS solver uses to
// implicitly integrate a critically-or-otherwise damped spring instead of
// a hard constraint (spec.md §4.6 "soft-constraint parameters... Hertz +
// damping ratio"). This formulation is grounded in
// _examples/original_source/src/weld_joint.c, which derives biasRate,
// massScale, and impulseScale from omega=2*pi*hertz and zeta=damping the
// same way.
type Softness struct {
	BiasRate    float64
	MassScale   float64
	ImpulseScale float64
}

// MakeSoft derives a Softness from a spring frequency (hertz) and damping
// ratio (zeta) for a substep of length h. hertz == 0 produces a rigid
// (hard) constraint with no position bias (BiasRate 0), full mass scale
// and no impulse scale.
func MakeSoft(hertz, zeta, h float64) Softness {
	if hertz == 0 {
		return Softness{BiasRate: 0, MassScale: 1, ImpulseScale: 0}
	}
	omega := 2 * math.Pi * hertz
	a1 := 2*zeta + h*omega
	a2 := h * omega * a1
	a3 := 1 / (1 + a2)
	return Softness{
		BiasRate:     omega / a1,
		MassScale:    a2 * a3,
		ImpulseScale: a3,
	}
}

// RigidSoftness is the identity softness used for hard (non-springy)
// constraint rows: position error is corrected at BiasRate computed by
// the caller (e.g. contact Baumgarte-style bias), with full mass scale
// and no impulse scale.
func RigidSoftness(biasRate float64) Softness {
	return Softness{BiasRate: biasRate, MassScale: 1, ImpulseScale: 0}
}
