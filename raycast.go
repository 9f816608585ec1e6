// Copyright 2026 The Rigid2D Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rigid2d

import (
	"github.com/rigid2d/rigid2d/math2"
	"github.com/rigid2d/rigid2d/shape"
)

// RayCastResult reports the closest shape a ray hit, in world space.
type RayCastResult struct {
	Shape    ShapeID
	Point    math2.Vec2
	Normal   math2.Vec2
	Fraction float64
}

// RayCastClosest casts a ray from origin along translation (fraction 1
// lands at origin+translation) and returns the closest shape it hits
// whose category bits intersect maskBits, per spec.md §8 "ray cast
// closest". The broad-phase tree's own RayCast prunes candidates via the
// AABB slab test; each surviving candidate is then tested exactly against
// its shape's geometry, and the tree's running max-fraction cutoff is
// shrunk to the best exact hit found so far so later candidates can be
// rejected by the prune alone.
func (w *World) RayCastClosest(origin, translation math2.Vec2, maskBits uint64) (RayCastResult, bool) {
	var (
		best    RayCastResult
		hasHit  bool
		bestOut shape.RayCastOutput
	)

	w.tree.RayCast(origin, translation, 1.0, maskBits, func(proxyID int32, userData uint64, _ math2.Vec2, _ math2.Vec2, _ float64) float64 {
		sid := shapeFromUserData(userData)
		sr, ok := w.shapes[sid]
		if !ok {
			return -1
		}
		xf := w.Transform(sr.BodyID)
		maxFraction := 1.0
		if hasHit {
			maxFraction = bestOut.Fraction
		}
		out := shape.RayCast(sr.Kind, sr.Circle, sr.Capsule, sr.Segment, sr.ChainSegment, sr.Polygon, xf, shape.RayCastInput{
			Origin:      origin,
			Translation: translation,
			MaxFraction: maxFraction,
		})
		if !out.Hit {
			return -1
		}
		bestOut = out
		hasHit = true
		best = RayCastResult{Shape: sid, Point: out.Point, Normal: out.Normal, Fraction: out.Fraction}
		return out.Fraction
	})

	return best, hasHit
}
