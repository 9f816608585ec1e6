// Copyright 2026 The Rigid2D Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package manifold

import (
	"github.com/rigid2d/rigid2d/math2"
	"github.com/rigid2d/rigid2d/shape"
)

// Pair bundles everything a generator needs for one ordered shape pair:
// the two shapes' geometry (only the fields relevant to Kind are
// populated) and their world transforms.
type Pair struct {
	KindA, KindB                 shape.Kind
	CircleA, CircleB             shape.Circle
	CapsuleA, CapsuleB           shape.Capsule
	SegmentA, SegmentB           shape.Segment
	ChainSegmentA, ChainSegmentB shape.ChainSegment
	PolygonA, PolygonB           shape.Polygon
	TransformA, TransformB       math2.Transform
}

// Generate dispatches to the dedicated generator for (KindA, KindB),
// matching spec.md §4.3's pair table. Pairs are only ever constructed with
// shape A being the kind that comes first in the order ChainSegment >
// Segment > Polygon > Capsule > Circle; callers
// that discover a pair in the opposite order must swap A/B and negate
// the resulting normal, since every generator's convention is "normal
// points from A to B".
func Generate(p Pair) Manifold {
	m := generate(p)
	for i := 0; i < m.PointCount; i++ {
		m.Points[i].AnchorA, m.Points[i].AnchorB = worldAnchors(m.Points[i].Point, p.TransformA.P, p.TransformB.P)
	}
	return m
}

func generate(p Pair) Manifold {
	switch {
	case p.KindA == shape.KindCircle && p.KindB == shape.KindCircle:
		return CollideCircles(p.CircleA, p.TransformA, p.CircleB, p.TransformB)
	case p.KindA == shape.KindCapsule && p.KindB == shape.KindCircle:
		return CollideCapsuleCircle(p.CapsuleA, p.TransformA, p.CircleB, p.TransformB)
	case p.KindA == shape.KindSegment && p.KindB == shape.KindCircle:
		return CollideSegmentCircle(p.SegmentA, p.TransformA, p.CircleB, p.TransformB)
	case p.KindA == shape.KindPolygon && p.KindB == shape.KindCircle:
		return CollidePolygonCircle(p.PolygonA, p.TransformA, p.CircleB, p.TransformB)
	case p.KindA == shape.KindCapsule && p.KindB == shape.KindCapsule:
		return CollideCapsules(p.CapsuleA, p.TransformA, p.CapsuleB, p.TransformB)
	case p.KindA == shape.KindPolygon && p.KindB == shape.KindPolygon:
		wa := worldPolyFromPolygon(p.PolygonA, p.TransformA)
		wb := worldPolyFromPolygon(p.PolygonB, p.TransformB)
		return collidePolygons(wa, wb)
	case p.KindA == shape.KindPolygon && p.KindB == shape.KindCapsule:
		wa := worldPolyFromPolygon(p.PolygonA, p.TransformA)
		wb := worldPolyFromCapsule(p.CapsuleB, p.TransformB)
		return collidePolygons(wa, wb)
	case p.KindA == shape.KindSegment && p.KindB == shape.KindPolygon:
		wa := worldPolyFromSegment(p.SegmentA, p.TransformA)
		wb := worldPolyFromPolygon(p.PolygonB, p.TransformB)
		return collidePolygons(wa, wb)
	case p.KindA == shape.KindChainSegment && p.KindB == shape.KindCircle:
		m := CollideSegmentCircle(p.ChainSegmentA.Segment, p.TransformA, p.CircleB, p.TransformB)
		return applyGhostRejection(m, p.ChainSegmentA, p.TransformA)
	case p.KindA == shape.KindChainSegment && p.KindB == shape.KindCapsule:
		wa := worldPolyFromSegment(p.ChainSegmentA.Segment, p.TransformA)
		wb := worldPolyFromCapsule(p.CapsuleB, p.TransformB)
		m := collidePolygons(wa, wb)
		return applyGhostRejection(m, p.ChainSegmentA, p.TransformA)
	case p.KindA == shape.KindChainSegment && p.KindB == shape.KindPolygon:
		wa := worldPolyFromSegment(p.ChainSegmentA.Segment, p.TransformA)
		wb := worldPolyFromPolygon(p.PolygonB, p.TransformB)
		m := collidePolygons(wa, wb)
		return applyGhostRejection(m, p.ChainSegmentA, p.TransformA)
	default:
		return Manifold{}
	}
}
