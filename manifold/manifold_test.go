// Copyright 2026 The Rigid2D Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package manifold

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rigid2d/rigid2d/math2"
	"github.com/rigid2d/rigid2d/shape"
)

func TestCollideCircles_Penetrating(t *testing.T) {
	a := shape.Circle{Radius: 1}
	b := shape.Circle{Radius: 1}
	m := CollideCircles(a, math2.IdentityTransform, b, math2.Transform{P: math2.V2(1.5, 0), Q: math2.Identity})
	assert.Equal(t, 1, m.PointCount)
	assert.InDelta(t, -0.5, m.Points[0].Separation, 1e-9)
	assert.InDelta(t, 1, m.Normal.X, 1e-9)
}

func TestCollideCircles_Separated(t *testing.T) {
	a := shape.Circle{Radius: 1}
	b := shape.Circle{Radius: 1}
	m := CollideCircles(a, math2.IdentityTransform, b, math2.Transform{P: math2.V2(3, 0), Q: math2.Identity})
	assert.InDelta(t, 1, m.Points[0].Separation, 1e-9)
}

func TestCollideCapsuleCircle_ProjectsOntoAxis(t *testing.T) {
	cap := shape.Capsule{Point1: math2.V2(-1, 0), Point2: math2.V2(1, 0), Radius: 0.5}
	c := shape.Circle{Radius: 0.5}
	m := CollideCapsuleCircle(cap, math2.IdentityTransform, c, math2.Transform{P: math2.V2(0, 0.8), Q: math2.Identity})
	assert.InDelta(t, -0.2, m.Points[0].Separation, 1e-9)
}

func TestCollidePolygonPolygon_BoxOnBox(t *testing.T) {
	boxA := shape.NewBox(1, 1, 0)
	boxB := shape.NewBox(1, 1, 0)
	wa := worldPolyFromPolygon(boxA, math2.IdentityTransform)
	wb := worldPolyFromPolygon(boxB, math2.Transform{P: math2.V2(0, 1.5), Q: math2.Identity})
	m := collidePolygons(wa, wb)
	assert.GreaterOrEqual(t, m.PointCount, 1)
	for i := 0; i < m.PointCount; i++ {
		assert.Less(t, m.Points[i].Separation, 0.0)
	}
}

func TestCollidePolygonPolygon_Separated(t *testing.T) {
	boxA := shape.NewBox(1, 1, 0)
	boxB := shape.NewBox(1, 1, 0)
	wa := worldPolyFromPolygon(boxA, math2.IdentityTransform)
	wb := worldPolyFromPolygon(boxB, math2.Transform{P: math2.V2(0, 5), Q: math2.Identity})
	m := collidePolygons(wa, wb)
	assert.Equal(t, 0, m.PointCount)
}

func TestCollideCapsules_ParallelOverlap(t *testing.T) {
	a := shape.Capsule{Point1: math2.V2(-1, 0), Point2: math2.V2(1, 0), Radius: 0.5}
	b := shape.Capsule{Point1: math2.V2(-1, 0.5), Point2: math2.V2(1, 0.5), Radius: 0.5}
	m := CollideCapsules(a, math2.IdentityTransform, b, math2.IdentityTransform)
	assert.Less(t, m.Points[0].Separation, 0.0)
}

func TestApplyGhostRejection_KeepsContactWithColinearNeighbors(t *testing.T) {
	// Colinear chain edges along the X axis: ghost1=-2, p1=-1, p2=0 is the
	// segment under test here, ghost2=1. A circle resting on top, centered
	// over the segment's midpoint (x=-0.5), should not be rejected: with
	// colinear neighbors neither vertex is convex, so no contact is dropped.
	cs := shape.ChainSegment{
		Ghost1:  math2.V2(-2, 0),
		Segment: shape.Segment{Point1: math2.V2(-1, 0), Point2: math2.V2(0, 0)},
		Ghost2:  math2.V2(1, 0),
	}
	c := shape.Circle{Radius: 0.5}
	m := CollideSegmentCircle(cs.Segment, math2.IdentityTransform, c, math2.Transform{P: math2.V2(-0.5, 0.4), Q: math2.Identity})
	out := applyGhostRejection(m, cs, math2.IdentityTransform)
	assert.Equal(t, m.PointCount, out.PointCount)
}
