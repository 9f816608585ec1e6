// Copyright 2026 The Rigid2D Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package manifold

import (
	"github.com/rigid2d/rigid2d/math2"
	"github.com/rigid2d/rigid2d/shape"
)

// CollidePolygonCircle implements spec.md §4.3 "Polygon–Circle": find the
// polygon edge with greatest separation from the circle center; if the
// center projects onto that edge's span, the contact is face-based,
// otherwise it falls to the nearer of the edge's two vertices
// (edge-vertex case).
func CollidePolygonCircle(poly shape.Polygon, xfA math2.Transform, c shape.Circle, xfB math2.Transform) Manifold {
	center := xfB.TransformPoint(c.Center)
	localCenter := xfA.InvTransformPoint(center)

	n := len(poly.Vertices)
	bestIndex := 0
	bestSeparation := -maxFloatManifold
	for i := 0; i < n; i++ {
		d := poly.Normals[i].Dot(localCenter.Sub(poly.Vertices[i]))
		if d > bestSeparation {
			bestSeparation = d
			bestIndex = i
		}
	}

	v1 := poly.Vertices[bestIndex]
	v2 := poly.Vertices[(bestIndex+1)%n]

	var localPoint math2.Vec2
	if bestSeparation < 1e-9 {
		// Circle center is inside the polygon: face contact on the
		// deepest-penetration edge.
		localPoint = v1.Lerp(v2, 0.5)
	} else {
		u1 := localCenter.Sub(v1).Dot(v2.Sub(v1))
		u2 := localCenter.Sub(v2).Dot(v1.Sub(v2))
		switch {
		case u1 <= 0:
			localPoint = v1
		case u2 <= 0:
			localPoint = v2
		default:
			localPoint = closestPointOnSegment(v1, v2, localCenter)
		}
	}

	worldPoint := xfA.TransformPoint(localPoint)
	return circleCirclePoint(worldPoint, poly.Radius, center, c.Radius)
}
