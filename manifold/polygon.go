// Copyright 2026 The Rigid2D Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package manifold

import (
	"github.com/rigid2d/rigid2d/math2"
	"github.com/rigid2d/rigid2d/shape"
)

// worldPoly is a convex polygon (2..8 vertices) already placed in world
// space, with an associated rounding radius. Capsules and segments are
// represented as degenerate 2-vertex worldPolys so the SAT+clip routine
// below serves every polygon-like pair, per spec.md §4.3 "Polygon–Capsule:
// convert capsule to a degenerate 2-vertex polygon with radius and reuse
// polygon–polygon."
type worldPoly struct {
	vertices []math2.Vec2
	normals  []math2.Vec2
	radius   float64
	oneSided bool // segment/chain-segment: only normals[0] is a valid face
}

func worldPolyFromPolygon(p shape.Polygon, xf math2.Transform) worldPoly {
	verts := make([]math2.Vec2, len(p.Vertices))
	norms := make([]math2.Vec2, len(p.Normals))
	for i, v := range p.Vertices {
		verts[i] = xf.TransformPoint(v)
	}
	for i, n := range p.Normals {
		norms[i] = xf.TransformVector(n)
	}
	return worldPoly{vertices: verts, normals: norms, radius: p.Radius}
}

func worldPolyFromCapsule(c shape.Capsule, xf math2.Transform) worldPoly {
	p1 := xf.TransformPoint(c.Point1)
	p2 := xf.TransformPoint(c.Point2)
	axis, _ := p2.Sub(p1).Normalize()
	n := axis.RightPerp()
	return worldPoly{
		vertices: []math2.Vec2{p1, p2},
		normals:  []math2.Vec2{n, n.Neg()},
		radius:   c.Radius,
	}
}

func worldPolyFromSegment(s shape.Segment, xf math2.Transform) worldPoly {
	p1 := xf.TransformPoint(s.Point1)
	p2 := xf.TransformPoint(s.Point2)
	axis, _ := p2.Sub(p1).Normalize()
	n := axis.RightPerp()
	return worldPoly{
		vertices: []math2.Vec2{p1, p2},
		normals:  []math2.Vec2{n, n.Neg()},
		oneSided: true,
	}
}

// findMaxSeparation returns the index of poly A's face with the greatest
// separation from poly B (the best separating axis candidate from A's
// side) and that separation value.
func findMaxSeparation(a, b worldPoly) (bestIndex int, bestSeparation float64) {
	bestSeparation = -maxFloatManifold
	limit := len(a.normals)
	if a.oneSided {
		limit = 1
	}
	for i := 0; i < limit; i++ {
		n := a.normals[i]
		v := a.vertices[i]
		min := maxFloatManifold
		for _, w := range b.vertices {
			d := n.Dot(w.Sub(v))
			if d < min {
				min = d
			}
		}
		if min > bestSeparation {
			bestSeparation = min
			bestIndex = i
		}
	}
	return bestIndex, bestSeparation
}

const maxFloatManifold = 1e30

// incidentEdge finds the edge on poly B whose normal is most anti-parallel
// to the reference normal — the face that will be clipped.
func incidentEdge(refNormal math2.Vec2, b worldPoly) int {
	best := 0
	bestDot := maxFloatManifold
	for i, n := range b.normals {
		d := refNormal.Dot(n)
		if d < bestDot {
			bestDot = d
			best = i
		}
	}
	return best
}

func edgeVertices(p worldPoly, index int) (v1, v2 math2.Vec2) {
	n := len(p.vertices)
	v1 = p.vertices[index]
	v2 = p.vertices[(index+1)%n]
	return v1, v2
}

// collidePolygons implements spec.md §4.3 "Polygon–Polygon (SAT +
// clipping)": find each side's best separating face, choose the
// reference face as the one with the larger (less negative) separation
// (a small bias favors A to stabilize near-tie cases and approximate the
// spec's "tolerance bias that prefers persistent feature ids"), clip the
// incident face against the reference face's side planes, and keep up to
// two points with negative separation.
func collidePolygons(a, b worldPoly) Manifold {
	edgeA, sepA := findMaxSeparation(a, b)
	edgeB, sepB := findMaxSeparation(b, a)

	const absoluteTolerance = 0.001

	flip := sepB > sepA+absoluteTolerance
	var ref, inc worldPoly
	var refEdge int
	if flip {
		ref, inc = b, a
		refEdge = edgeB
	} else {
		ref, inc = a, b
		refEdge = edgeA
	}

	if sepA > 0.1 || sepB > 0.1 {
		// Separated enough that clipping isn't meaningful; report no contact
		// points (PointCount 0), leaving the separating-axis distance in
		// Points[0].Separation so callers can still see "how far apart".
		sep := sepA
		normal := a.normals[edgeA]
		if flip {
			sep = sepB
			normal = b.normals[edgeB].Neg()
		}
		return Manifold{Normal: normal, PointCount: 0, Points: [maxManifoldPoints]Point{{Separation: sep}}}
	}

	refNormal := ref.normals[refEdge]
	incEdge := incidentEdge(refNormal, inc)
	i1, i2 := edgeVertices(inc, incEdge)

	r1, r2 := edgeVertices(ref, refEdge)
	tangent := r2.Sub(r1)
	tangent, _ = tangent.Normalize()

	// Clip the incident segment against the two side planes of the
	// reference edge (Sutherland-Hodgman, 2 points -> at most 2 points).
	points := []math2.Vec2{i1, i2}
	points = clipSegmentToLine(points, tangent.Neg(), -tangent.Dot(r1))
	if len(points) < 2 {
		return Manifold{Normal: refNormal}
	}
	points = clipSegmentToLine(points, tangent, tangent.Dot(r2))
	if len(points) < 2 {
		return Manifold{Normal: refNormal}
	}

	totalRadius := a.radius + b.radius

	var m Manifold
	normal := refNormal
	if flip {
		normal = refNormal.Neg()
	}
	m.Normal = normal

	count := 0
	for k, p := range points {
		sep := refNormal.Dot(p.Sub(r1)) - totalRadius
		if sep <= 0 {
			contactPoint := p.MulAdd(refNormal, -0.5*(sep+totalRadius))
			featA, featB := refEdge, incEdge
			if flip {
				featA, featB = incEdge, refEdge
			}
			m.Points[count] = Point{
				Point:      contactPoint,
				Separation: sep,
				ID:         makeFeatureID(uint8(featA*2+k), uint8(featB)),
			}
			count++
		}
		if count >= maxManifoldPoints {
			break
		}
	}
	m.PointCount = count
	return m
}

// clipSegmentToLine keeps the portion of the 2-point segment inside the
// half-plane {x : normal·x <= offset}, inserting the
// boundary-crossing point when the segment straddles it.
func clipSegmentToLine(points []math2.Vec2, normal math2.Vec2, offset float64) []math2.Vec2 {
	d0 := normal.Dot(points[0]) - offset
	d1 := normal.Dot(points[1]) - offset

	var out []math2.Vec2
	if d0 <= 0 {
		out = append(out, points[0])
	}
	if d1 <= 0 {
		out = append(out, points[1])
	}
	if d0*d1 < 0 {
		t := d0 / (d0 - d1)
		out = append(out, points[0].Lerp(points[1], t))
	}
	return out
}
