// Copyright 2026 The Rigid2D Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package shape

import (
	"math"

	"github.com/rigid2d/rigid2d/math2"
)

// RayCastInput describes a ray as origin + t*translation for t in
// [0, MaxFraction], matching the broad-phase tree's ray parameterization
// (spec.md §4.1) so a World-level ray cast can reuse one fraction clip
// across both the tree prune and the exact per-shape test.
type RayCastInput struct {
	Origin      math2.Vec2
	Translation math2.Vec2
	MaxFraction float64
}

// RayCastOutput reports the closest hit against one shape, if any.
type RayCastOutput struct {
	Point    math2.Vec2
	Normal   math2.Vec2
	Fraction float64
	Hit      bool
}

// RayCast intersects a ray (in world space, via xf) against a shape
// variant, returning the closest entry point within input.MaxFraction.
func RayCast(kind Kind, c Circle, cap Capsule, seg Segment, cs ChainSegment, poly Polygon, xf math2.Transform, input RayCastInput) RayCastOutput {
	// Work in the shape's local frame: transform the ray instead of the
	// geometry, then rotate the resulting normal back to world space.
	localOrigin := xf.InvTransformPoint(input.Origin)
	localTranslation := xf.InvTransformVector(input.Translation)

	var out RayCastOutput
	switch kind {
	case KindCircle:
		out = rayCastCircle(c.Center, c.Radius, localOrigin, localTranslation, input.MaxFraction)
	case KindCapsule:
		out = rayCastCapsule(cap.Point1, cap.Point2, cap.Radius, localOrigin, localTranslation, input.MaxFraction)
	case KindSegment:
		out, _ = rayCastSegmentLine(seg.Point1, seg.Point2, localOrigin, localTranslation, input.MaxFraction)
	case KindChainSegment:
		out = rayCastChainSegment(cs, localOrigin, localTranslation, input.MaxFraction)
	case KindPolygon:
		out = rayCastPolygon(poly, localOrigin, localTranslation, input.MaxFraction)
	}
	if !out.Hit {
		return RayCastOutput{}
	}
	out.Point = xf.TransformPoint(out.Point)
	out.Normal = xf.TransformVector(out.Normal)
	return out
}

// rayCastCircle follows box2d's b2RayCastCircle: shift so the circle is
// centered at the origin, find the ray parameter closest to the origin,
// then solve the perpendicular-offset quadratic for the entry point.
func rayCastCircle(center math2.Vec2, radius float64, origin, translation math2.Vec2, maxFraction float64) RayCastOutput {
	dir, length := translation.Normalize()
	if length == 0 {
		return RayCastOutput{}
	}
	s := origin.Sub(center)
	t1 := -s.Dot(dir)
	closest := s.MulAdd(dir, t1)
	crossSq := closest.LengthSquared()
	radiusSq := radius * radius
	if crossSq > radiusSq {
		return RayCastOutput{}
	}
	h := math.Sqrt(radiusSq - crossSq)
	t := t1 - h
	if t < 0 || maxFraction*length < t {
		return RayCastOutput{}
	}
	hitLocal := s.MulAdd(dir, t)
	normal, _ := hitLocal.Normalize()
	return RayCastOutput{
		Point:    center.Add(normal.Scale(radius)),
		Normal:   normal,
		Fraction: t / length,
		Hit:      true,
	}
}

// rayCastSegmentLine intersects a ray against the infinite line through
// v1->v2, clipped to the segment's own extent (box2d's b2RayCastSegment,
// without the one-sided veto, since callers decide sidedness themselves).
func rayCastSegmentLine(v1, v2, origin, translation math2.Vec2, maxFraction float64) (RayCastOutput, bool) {
	e := v2.Sub(v1)
	eUnit, length := e.Normalize()
	if length == 0 {
		return RayCastOutput{}, false
	}
	normal := eUnit.RightPerp()

	numerator := normal.Dot(v1.Sub(origin))
	denominator := normal.Dot(translation)
	if denominator == 0 {
		return RayCastOutput{}, false
	}
	t := numerator / denominator
	if t < 0 || t > maxFraction {
		return RayCastOutput{}, false
	}
	p := origin.MulAdd(translation, t)
	s := p.Sub(v1).Dot(eUnit)
	if s < 0 || s > length {
		return RayCastOutput{}, false
	}
	if numerator > 0 {
		normal = normal.Neg()
	}
	return RayCastOutput{Point: p, Normal: normal, Fraction: t, Hit: true}, true
}

// rayCastChainSegment behaves like rayCastSegmentLine but rejects hits on
// the back face, matching the one-sided collision rule chain edges use for
// manifold generation (spec.md §3, §4.3): only a ray starting on or to the
// right of Point1→Point2 can report a hit; the ghost vertices are not
// consulted.
func rayCastChainSegment(cs ChainSegment, origin, translation math2.Vec2, maxFraction float64) RayCastOutput {
	offset := cs.Segment.Point1.Sub(origin)
	edge := cs.Segment.Point2.Sub(cs.Segment.Point1)
	if offset.Cross(edge) > 0 {
		// Ray starts on the back (ghost) side; a one-sided chain edge never
		// reports a hit from there.
		return RayCastOutput{}
	}
	out, ok := rayCastSegmentLine(cs.Segment.Point1, cs.Segment.Point2, origin, translation, maxFraction)
	if !ok {
		return RayCastOutput{}
	}
	return out
}

// rayCastCapsule reduces to the minimum of: the two end-cap circles, and
// the two line segments offset by ±radius along the axis normal (the
// "rounded rectangle" decomposition), rather than box2d's closed-form
// Cramer's-rule solution — simpler to get right by inspection with no
// compiler to check it, at the cost of a few redundant candidate tests
// (documented in DESIGN.md).
func rayCastCapsule(p1, p2 math2.Vec2, radius float64, origin, translation math2.Vec2, maxFraction float64) RayCastOutput {
	axis := p2.Sub(p1)
	unit, length := axis.Normalize()
	if length == 0 {
		return rayCastCircle(p1, radius, origin, translation, maxFraction)
	}
	normal := unit.RightPerp()

	best := RayCastOutput{}
	consider := func(o RayCastOutput) {
		if o.Hit && (!best.Hit || o.Fraction < best.Fraction) {
			best = o
		}
	}

	consider(rayCastCircle(p1, radius, origin, translation, maxFraction))
	consider(rayCastCircle(p2, radius, origin, translation, maxFraction))

	for _, sign := range [2]float64{1, -1} {
		offset := normal.Scale(radius * sign)
		s1, s2 := p1.Add(offset), p2.Add(offset)
		if out, ok := rayCastSegmentLine(s1, s2, origin, translation, maxFraction); ok {
			out.Normal = normal.Scale(sign)
			consider(out)
		}
	}
	return best
}

// rayCastPolygon follows box2d's b2RayCastPolygon sharp-corner case: clip
// the ray's fraction interval against each edge's outward half-plane.
// Rounded polygons (Radius > 0) additionally test each vertex as a circle,
// approximating the rounded-corner case rather than shape-casting a point
// proxy against the Minkowski-padded hull (documented simplification).
func rayCastPolygon(poly Polygon, origin, translation math2.Vec2, maxFraction float64) RayCastOutput {
	lower, upper := 0.0, maxFraction
	index := -1

	for i, v := range poly.Vertices {
		n := poly.Normals[i]
		numerator := n.Dot(v.Sub(origin))
		denominator := n.Dot(translation)
		if denominator == 0 {
			if numerator < 0 {
				return polygonCornerFallback(poly, origin, translation, maxFraction)
			}
			continue
		}
		if denominator < 0 && numerator < lower*denominator {
			lower = numerator / denominator
			index = i
		} else if denominator > 0 && numerator < upper*denominator {
			upper = numerator / denominator
		}
		if upper < lower {
			return polygonCornerFallback(poly, origin, translation, maxFraction)
		}
	}

	if index < 0 {
		return polygonCornerFallback(poly, origin, translation, maxFraction)
	}
	out := RayCastOutput{
		Point:    origin.MulAdd(translation, lower),
		Normal:   poly.Normals[index],
		Fraction: lower,
		Hit:      true,
	}
	if poly.Radius > 0 {
		if corner := polygonCornerFallback(poly, origin, translation, maxFraction); corner.Hit && corner.Fraction < out.Fraction {
			return corner
		}
	}
	return out
}

func polygonCornerFallback(poly Polygon, origin, translation math2.Vec2, maxFraction float64) RayCastOutput {
	if poly.Radius <= 0 {
		return RayCastOutput{}
	}
	best := RayCastOutput{}
	for _, v := range poly.Vertices {
		if out := rayCastCircle(v, poly.Radius, origin, translation, maxFraction); out.Hit {
			if !best.Hit || out.Fraction < best.Fraction {
				best = out
			}
		}
	}
	return best
}
