// Copyright 2026 The Rigid2D Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package manifold

import (
	"github.com/rigid2d/rigid2d/math2"
	"github.com/rigid2d/rigid2d/shape"
)

// CollideCircles implements spec.md §4.3 "Circle–Circle": one point,
// normal = normalized center difference, separation = distance − (rA+rB).
func CollideCircles(a shape.Circle, xfA math2.Transform, b shape.Circle, xfB math2.Transform) Manifold {
	centerA := xfA.TransformPoint(a.Center)
	centerB := xfB.TransformPoint(b.Center)
	return circleCirclePoint(centerA, a.Radius, centerB, b.Radius)
}

func circleCirclePoint(centerA math2.Vec2, radiusA float64, centerB math2.Vec2, radiusB float64) Manifold {
	diff := centerB.Sub(centerA)
	dist := diff.Length()
	var normal math2.Vec2
	if dist > 1e-9 {
		normal = diff.Scale(1 / dist)
	} else {
		normal = math2.V2(0, 1)
	}
	separation := dist - (radiusA + radiusB)
	pointA := centerA.MulAdd(normal, radiusA)
	pointB := centerB.MulAdd(normal, -radiusB)
	mid := pointA.Lerp(pointB, 0.5)

	var m Manifold
	m.Normal = normal
	m.PointCount = 1
	m.Points[0] = Point{
		Point:      mid,
		Separation: separation,
		ID:         makeFeatureID(0, 0),
	}
	return m
}

// CollideCapsuleCircle implements spec.md §4.3 "Capsule–Circle": project
// the circle center onto the capsule axis, clamp to the segment, and
// reduce to circle–circle using the clamped point as the capsule's
// effective center.
func CollideCapsuleCircle(a shape.Capsule, xfA math2.Transform, b shape.Circle, xfB math2.Transform) Manifold {
	p1 := xfA.TransformPoint(a.Point1)
	p2 := xfA.TransformPoint(a.Point2)
	center := xfB.TransformPoint(b.Center)

	closest := closestPointOnSegment(p1, p2, center)
	return circleCirclePoint(closest, a.Radius, center, b.Radius)
}

// CollideSegmentCircle implements spec.md §4.3 "Segment–Circle" the same
// way, with a zero-radius segment.
func CollideSegmentCircle(a shape.Segment, xfA math2.Transform, b shape.Circle, xfB math2.Transform) Manifold {
	p1 := xfA.TransformPoint(a.Point1)
	p2 := xfA.TransformPoint(a.Point2)
	center := xfB.TransformPoint(b.Center)

	closest := closestPointOnSegment(p1, p2, center)
	return circleCirclePoint(closest, 0, center, b.Radius)
}

func closestPointOnSegment(p1, p2, point math2.Vec2) math2.Vec2 {
	e := p2.Sub(p1)
	len2 := e.LengthSquared()
	if len2 < 1e-12 {
		return p1
	}
	t := point.Sub(p1).Dot(e) / len2
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return p1.Lerp(p2, t)
}
