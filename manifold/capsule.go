// Copyright 2026 The Rigid2D Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package manifold

import (
	"github.com/rigid2d/rigid2d/math2"
	"github.com/rigid2d/rigid2d/shape"
)

// CollideCapsules implements spec.md §4.3 "Capsule–Capsule": find the
// closest pair of points between the two segment axes, then treat the
// result as circle–circle using the two capsule radii.
func CollideCapsules(a shape.Capsule, xfA math2.Transform, b shape.Capsule, xfB math2.Transform) Manifold {
	p1 := xfA.TransformPoint(a.Point1)
	q1 := xfA.TransformPoint(a.Point2)
	p2 := xfB.TransformPoint(b.Point1)
	q2 := xfB.TransformPoint(b.Point2)

	closestA, closestB := closestPointsSegmentSegment(p1, q1, p2, q2)
	return circleCirclePoint(closestA, a.Radius, closestB, b.Radius)
}

// closestPointsSegmentSegment returns the closest pair of points between
// segments (p1,q1) and (p2,q2), handling the near-parallel case by
// falling back to endpoint projections.
func closestPointsSegmentSegment(p1, q1, p2, q2 math2.Vec2) (math2.Vec2, math2.Vec2) {
	d1 := q1.Sub(p1)
	d2 := q2.Sub(p2)
	r := p1.Sub(p2)

	a := d1.Dot(d1)
	e := d2.Dot(d2)
	f := d2.Dot(r)

	var s, t float64
	const eps = 1e-12

	if a <= eps && e <= eps {
		return p1, p2
	}
	if a <= eps {
		s = 0
		t = clamp01(f / e)
	} else {
		c := d1.Dot(r)
		if e <= eps {
			t = 0
			s = clamp01(-c / a)
		} else {
			b := d1.Dot(d2)
			denom := a*e - b*b
			if denom != 0 {
				s = clamp01((b*f - c*e) / denom)
			} else {
				s = 0
			}
			t = (b*s + f) / e
			if t < 0 {
				t = 0
				s = clamp01(-c / a)
			} else if t > 1 {
				t = 1
				s = clamp01((b - c) / a)
			}
		}
	}

	closestA := p1.MulAdd(d1, s)
	closestB := p2.MulAdd(d2, t)
	return closestA, closestB
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
