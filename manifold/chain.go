// Copyright 2026 The Rigid2D Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package manifold

import (
	"github.com/rigid2d/rigid2d/math2"
	"github.com/rigid2d/rigid2d/shape"
)

// applyGhostRejection implements spec.md §4.3's chain-segment ghost-vertex
// rule: a contact whose normal falls into the Voronoi region already
// covered by a convex neighboring edge is a ghost collision (an artifact
// of testing each chain edge independently) and is dropped. Only contacts
// whose normal lies within the arc swept between this edge's normal and
// the adjoining edge's normal, at each convex vertex, survive.
func applyGhostRejection(m Manifold, cs shape.ChainSegment, xf math2.Transform) Manifold {
	if m.PointCount == 0 {
		return m
	}

	p1 := xf.TransformPoint(cs.Point1)
	p2 := xf.TransformPoint(cs.Point2)
	g1 := xf.TransformPoint(cs.Ghost1)
	g2 := xf.TransformPoint(cs.Ghost2)

	edge, edgeLen := p2.Sub(p1).Normalize()
	if edgeLen == 0 {
		return Manifold{Normal: m.Normal}
	}
	prevEdge, prevLen := p1.Sub(g1).Normalize()
	nextEdge, nextLen := g2.Sub(p2).Normalize()

	// A neighbor edge turning the same way as a left turn (cross > 0)
	// produces a convex vertex on the shape's outward side; at a convex
	// vertex, the neighbor edge's own face already owns the portion of
	// the Voronoi region nearest the shared point, so contacts whose
	// normal leans into that region here are ghosts.
	convexAtP1 := prevLen > 0 && edge.Cross(prevEdge) > 0
	convexAtP2 := nextLen > 0 && nextEdge.Cross(edge) > 0

	out := Manifold{Normal: m.Normal}
	for i := 0; i < m.PointCount; i++ {
		pt := m.Points[i]
		nearP1 := pt.Point.DistanceSquared(p1) < pt.Point.DistanceSquared(p2)

		if nearP1 && convexAtP1 {
			if m.Normal.Cross(prevEdge) < 0 {
				continue // ghost: previous edge's face already covers this normal direction
			}
		}
		if !nearP1 && convexAtP2 {
			if nextEdge.Cross(m.Normal) < 0 {
				continue
			}
		}
		out.Points[out.PointCount] = pt
		out.PointCount++
	}
	return out
}
