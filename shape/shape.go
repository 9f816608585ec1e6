// Copyright 2026 The Rigid2D Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package shape implements the primitive collision shapes from spec.md §3
// (Circle, Capsule, Segment, Polygon, ChainSegment) and the GJK support
// proxy they all reduce to for distance/manifold computation. This
// generalizes the teacher engine's graphic-geometry-derived mass
// properties (Body.UpdateMassProperties calling GetGeometry().RotationalInertia())
// into a standalone, render-independent shape model, since this module has
// no Graphic/Geometry to borrow from (rendering is out of scope).
package shape

import (
	"math"

	"github.com/rigid2d/rigid2d/aabb"
	"github.com/rigid2d/rigid2d/math2"
)

// Kind identifies a shape's variant.
type Kind int

const (
	KindCircle Kind = iota
	KindCapsule
	KindSegment
	KindPolygon
	KindChainSegment
)

// MaxPolygonVertices bounds polygon vertex count per spec.md §3.
const MaxPolygonVertices = 8

// Circle is defined by a local center and radius.
type Circle struct {
	Center math2.Vec2
	Radius float64
}

// Capsule is a rounded segment: the Minkowski sum of a segment and a disk.
type Capsule struct {
	Point1, Point2 math2.Vec2
	Radius         float64
}

// Segment is a zero-thickness line segment (one-sided collision face).
type Segment struct {
	Point1, Point2 math2.Vec2
}

// ChainSegment is one edge of a chain with ghost neighbor points used to
// restrict which incident normals produce a contact, eliminating internal
// ghost collisions between coplanar chain edges (spec.md §3, §4.3).
type ChainSegment struct {
	Ghost1 math2.Vec2
	Segment
	Ghost2 math2.Vec2
}

// Polygon holds up to MaxPolygonVertices CCW vertices and outward normals,
// plus a centroid and an outer Radius used to round corners (so a
// "polygon with radius" is the Minkowski sum of the hull and a disk, per
// spec.md §3).
type Polygon struct {
	Vertices []math2.Vec2
	Normals  []math2.Vec2
	Centroid math2.Vec2
	Radius   float64
}

// NewPolygon builds a Polygon from CCW hull vertices, computing normals
// and centroid. Panics if given fewer than 3 or more than
// MaxPolygonVertices points — a precondition violation (spec.md §7);
// CreatePolygonShape takes an already-built Polygon and does not check
// the vertex count again.
func NewPolygon(vertices []math2.Vec2, radius float64) Polygon {
	n := len(vertices)
	if n < 3 || n > MaxPolygonVertices {
		panic("shape: polygon vertex count out of range")
	}
	normals := make([]math2.Vec2, n)
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		edge := vertices[j].Sub(vertices[i])
		normal, _ := edge.RightPerp().Normalize()
		normals[i] = normal
	}
	return Polygon{
		Vertices: vertices,
		Normals:  normals,
		Centroid: polygonCentroid(vertices),
		Radius:   radius,
	}
}

// NewBox returns an axis-aligned box polygon centered at the origin.
func NewBox(halfWidth, halfHeight, radius float64) Polygon {
	verts := []math2.Vec2{
		{X: halfWidth, Y: -halfHeight},
		{X: halfWidth, Y: halfHeight},
		{X: -halfWidth, Y: halfHeight},
		{X: -halfWidth, Y: -halfHeight},
	}
	return NewPolygon(verts, radius)
}

func polygonCentroid(vertices []math2.Vec2) math2.Vec2 {
	var area float64
	center := math2.Vec2{}
	origin := vertices[0]
	const inv3 = 1.0 / 3.0
	for i := 1; i+1 < len(vertices); i++ {
		e1 := vertices[i].Sub(origin)
		e2 := vertices[i+1].Sub(origin)
		a := e1.Cross(e2)
		triArea := 0.5 * a
		area += triArea
		center = center.Add(e1.Add(e2).Scale(triArea * inv3))
	}
	if math.Abs(area) < 1e-12 {
		return origin
	}
	return center.Scale(1 / area).Add(origin)
}

// MassData is the density-independent-shape-dependent mass, center of
// mass, and rotational inertia about that center, matching the fields the
// teacher engine's Body.UpdateMassProperties consumes (mass, rotInertia).
type MassData struct {
	Mass    float64
	Center  math2.Vec2
	Inertia float64 // about Center
}

// ComputeMass returns density-scaled mass data for a shape variant.
func ComputeMass(kind Kind, c Circle, cap Capsule, poly Polygon, density float64) MassData {
	switch kind {
	case KindCircle:
		return circleMass(c, density)
	case KindCapsule:
		return capsuleMass(cap, density)
	case KindPolygon:
		return polygonMass(poly, density)
	default:
		// Segments and chain segments are infinitely thin and carry no
		// mass of their own; they're only ever attached to static bodies.
		return MassData{}
	}
}

func circleMass(c Circle, density float64) MassData {
	mass := density * math.Pi * c.Radius * c.Radius
	inertia := mass * 0.5 * c.Radius * c.Radius
	return MassData{Mass: mass, Center: c.Center, Inertia: inertia}
}

func capsuleMass(cap Capsule, density float64) MassData {
	radius := cap.Radius
	length := cap.Point1.Distance(cap.Point2)
	// Rectangle part (length x 2radius) plus two half-disks == one disk.
	rectArea := length * 2 * radius
	circleArea := math.Pi * radius * radius
	mass := density * (rectArea + circleArea)
	center := cap.Point1.Lerp(cap.Point2, 0.5)

	// Rectangle inertia about its own center plus circle inertia about its
	// own center, both shifted to the combined center via parallel axis.
	h := length / 2
	rectMass := density * rectArea
	rectInertia := rectMass * (length*length + (2*radius)*(2*radius)) / 12

	circleMassPart := density * circleArea
	// Two half disks offset by h from center, parallel-axis-shifted.
	circleInertia := circleMassPart*0.5*radius*radius + circleMassPart*h*h

	inertia := rectInertia + circleInertia
	return MassData{Mass: mass, Center: center, Inertia: inertia}
}

func polygonMass(poly Polygon, density float64) MassData {
	if len(poly.Vertices) < 3 {
		return MassData{}
	}
	origin := poly.Vertices[0]
	var area, inertiaNum float64
	center := math2.Vec2{}
	const inv3 = 1.0 / 3.0

	for i := 1; i+1 < len(poly.Vertices); i++ {
		e1 := poly.Vertices[i].Sub(origin)
		e2 := poly.Vertices[i+1].Sub(origin)
		d := e1.Cross(e2)
		triArea := 0.5 * d
		area += triArea
		center = center.Add(e1.Add(e2).Scale(triArea * inv3))

		intx2 := e1.X*e1.X + e1.X*e2.X + e2.X*e2.X
		inty2 := e1.Y*e1.Y + e1.Y*e2.Y + e2.Y*e2.Y
		inertiaNum += (0.25 * inv3 * d) * (intx2 + inty2)
	}

	mass := density * area
	if area > 1e-12 {
		center = center.Scale(1 / area)
	}
	centerWorld := center.Add(origin)

	inertia := density * inertiaNum
	// Shift from origin-relative to center-relative via parallel axis.
	inertia -= mass * center.LengthSquared()
	return MassData{Mass: mass, Center: centerWorld, Inertia: inertia}
}

// ComputeAABB returns the world-space AABB of a shape given its body's
// transform.
func ComputeAABB(kind Kind, c Circle, cap Capsule, seg Segment, poly Polygon, xf math2.Transform) aabb.AABB {
	switch kind {
	case KindCircle:
		center := xf.TransformPoint(c.Center)
		return aabb.New(
			math2.V2(center.X-c.Radius, center.Y-c.Radius),
			math2.V2(center.X+c.Radius, center.Y+c.Radius),
		)
	case KindCapsule:
		p1 := xf.TransformPoint(cap.Point1)
		p2 := xf.TransformPoint(cap.Point2)
		lower := p1.Min(p2).Sub(math2.V2(cap.Radius, cap.Radius))
		upper := p1.Max(p2).Add(math2.V2(cap.Radius, cap.Radius))
		return aabb.New(lower, upper)
	case KindSegment, KindChainSegment:
		p1 := xf.TransformPoint(seg.Point1)
		p2 := xf.TransformPoint(seg.Point2)
		return aabb.New(p1.Min(p2), p1.Max(p2))
	case KindPolygon:
		first := xf.TransformPoint(poly.Vertices[0])
		lower, upper := first, first
		for _, v := range poly.Vertices[1:] {
			w := xf.TransformPoint(v)
			lower = lower.Min(w)
			upper = upper.Max(w)
		}
		r := math2.V2(poly.Radius, poly.Radius)
		return aabb.New(lower.Sub(r), upper.Add(r))
	default:
		return aabb.Empty
	}
}
