// Copyright 2026 The Rigid2D Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package distance

import (
	"github.com/rigid2d/rigid2d/math2"
	"github.com/rigid2d/rigid2d/shape"
)

// maxShapeCastIterations bounds conservative advancement (spec.md §4.2
// "Shape cast ... bounded iteration cap").
const maxShapeCastIterations = 20

// ShapeCastInput describes a swept proxy A translating by Translation
// against a stationary proxy B, both already placed at their respective
// transforms.
type ShapeCastInput struct {
	ProxyA, ProxyB         shape.Proxy
	TransformA, TransformB math2.Transform
	Translation            math2.Vec2
	MaxFraction             float64
}

// ShapeCastOutput reports the first time of impact and contact data, or
// Hit=false if the shapes never come within target separation over the
// translation.
type ShapeCastOutput struct {
	Point, Normal math2.Vec2
	Fraction      float64
	Iterations    int
	Hit           bool
}

// target is the separation conservative advancement converges to: a small
// positive margin rather than exact contact, per spec.md §4.2 "target =
// max(linearSlop, rA+rB - 3*linearSlop)".
const linearSlop = 0.005

// ShapeCast performs conservative advancement: repeatedly computes the GJK
// distance between A (translated by the current fraction) and B, and
// advances the fraction by the separation divided by the support speed
// along the closing normal, until separation reaches the target band or
// the translation is exhausted (spec.md §4.2 "Shape cast").
func ShapeCast(input ShapeCastInput) ShapeCastOutput {
	radius := input.ProxyA.Radius + input.ProxyB.Radius
	target := maxFloat(linearSlop, radius-3*linearSlop)
	tolerance := 0.25 * linearSlop

	lower := 0.0
	upper := input.MaxFraction
	if upper <= 0 {
		upper = 1
	}

	var cache Cache
	xfA := input.TransformA

	iter := 0
	for ; iter < maxShapeCastIterations; iter++ {
		out := Distance(Input{
			ProxyA: input.ProxyA, ProxyB: input.ProxyB,
			TransformA: xfA, TransformB: input.TransformB,
			UseRadii: false,
		}, &cache)

		if out.Distance < target+tolerance {
			return finishShapeCast(out, input, lower, radius, iter)
		}

		// Support speed: how fast the separation along Normal closes per
		// unit fraction of Translation, using the support point of A in
		// the -Normal direction (the point that advances fastest toward B).
		n := out.Normal
		supportSpeed := n.Dot(input.Translation)
		if supportSpeed <= 1e-10 {
			return ShapeCastOutput{Hit: false, Iterations: iter + 1}
		}

		deltaFraction := (out.Distance - target) / supportSpeed
		lower += deltaFraction
		if lower >= upper {
			return ShapeCastOutput{Hit: false, Iterations: iter + 1}
		}
		xfA = math2.Transform{P: input.TransformA.P.MulAdd(input.Translation, lower), Q: input.TransformA.Q}
	}

	out := Distance(Input{
		ProxyA: input.ProxyA, ProxyB: input.ProxyB,
		TransformA: xfA, TransformB: input.TransformB,
		UseRadii: false,
	}, &cache)
	return finishShapeCast(out, input, lower, radius, iter)
}

func finishShapeCast(out Output, input ShapeCastInput, fraction, radius float64, iter int) ShapeCastOutput {
	n := out.Normal
	point := out.PointB.MulAdd(n, -input.ProxyB.Radius)
	return ShapeCastOutput{
		Point:      point,
		Normal:     n,
		Fraction:   fraction,
		Iterations: iter + 1,
		Hit:        true,
	}
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
