// Copyright 2026 The Rigid2D Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package aabb wraps github.com/golang/geo/r2.Rect for the axis-aligned
// bounding boxes shared by shapes and the broad-phase tree, rather than
// hand-rolling rectangle union/containment/overlap arithmetic. Grounded on
// viamrobotics-rdk's spatialmath package, which builds its BVH over
// golang/geo/r3-based bounds; here the geometry is 2D so r2.Rect is the
// right-sized analogue.
package aabb

import (
	"math"

	"github.com/golang/geo/r1"
	"github.com/golang/geo/r2"

	"github.com/rigid2d/rigid2d/math2"
)

// AABB is an axis-aligned bounding box in world space.
type AABB struct {
	rect r2.Rect
}

// Empty is an AABB with no extent, suitable as a fold starting point.
var Empty = AABB{rect: r2.EmptyRect()}

// New builds an AABB from its lower and upper corners.
func New(lower, upper math2.Vec2) AABB {
	return AABB{rect: r2.Rect{
		X: r1.Interval{Lo: lower.X, Hi: upper.X},
		Y: r1.Interval{Lo: lower.Y, Hi: upper.Y},
	}}
}

// FromPoint builds a degenerate AABB containing a single point.
func FromPoint(p math2.Vec2) AABB {
	return New(p, p)
}

func (a AABB) Lower() math2.Vec2 { return math2.Vec2{X: a.rect.X.Lo, Y: a.rect.Y.Lo} }
func (a AABB) Upper() math2.Vec2 { return math2.Vec2{X: a.rect.X.Hi, Y: a.rect.Y.Hi} }

func (a AABB) Center() math2.Vec2 {
	c := a.rect.Center()
	return math2.Vec2{X: c.X, Y: c.Y}
}

func (a AABB) Extents() math2.Vec2 {
	sz := a.rect.Size()
	return math2.Vec2{X: sz.X / 2, Y: sz.Y / 2}
}

// Perimeter returns twice the sum of the box's width and height, the 2D
// stand-in for surface area used by the SAH cost function.
func (a AABB) Perimeter() float64 {
	sz := a.rect.Size()
	return 2 * (sz.X + sz.Y)
}

func (a AABB) Area() float64 {
	sz := a.rect.Size()
	return sz.X * sz.Y
}

// Union returns the smallest AABB containing both a and b.
func Union(a, b AABB) AABB {
	return AABB{rect: a.rect.Union(b.rect)}
}

// Contains reports whether a fully contains b.
func Contains(a, b AABB) bool {
	return a.rect.ContainsRect(b.rect)
}

// Overlaps reports whether a and b intersect (including touching).
func Overlaps(a, b AABB) bool {
	return a.rect.Intersects(b.rect)
}

// Fatten returns a grown by margin on every side.
func (a AABB) Fatten(margin float64) AABB {
	r := a.rect.Expanded(r2.Point{X: margin, Y: margin})
	return AABB{rect: r}
}

// FattenPredictive grows the tight AABB by a fixed margin plus a
// velocity-proportional term, per spec.md §4.1's MoveProxy predictive
// margin rule.
func FattenPredictive(tight AABB, displacement math2.Vec2, margin float64) AABB {
	lower := tight.Lower()
	upper := tight.Upper()
	if displacement.X < 0 {
		lower.X += displacement.X
	} else {
		upper.X += displacement.X
	}
	if displacement.Y < 0 {
		lower.Y += displacement.Y
	} else {
		upper.Y += displacement.Y
	}
	return New(lower, upper).Fatten(margin)
}

// RayIntersects performs a slab test of the segment origin->origin+maxFraction*translation
// against the AABB, returning the entry fraction and whether it hits within [0, maxFraction].
func (a AABB) RayIntersects(origin, translation math2.Vec2, maxFraction float64) (float64, bool) {
	tmin, tmax := 0.0, maxFraction
	lower, upper := a.Lower(), a.Upper()

	for axis := 0; axis < 2; axis++ {
		var o, d, lo, hi float64
		if axis == 0 {
			o, d, lo, hi = origin.X, translation.X, lower.X, upper.X
		} else {
			o, d, lo, hi = origin.Y, translation.Y, lower.Y, upper.Y
		}
		if math.Abs(d) < 1e-12 {
			if o < lo || o > hi {
				return 0, false
			}
			continue
		}
		inv := 1.0 / d
		t1 := (lo - o) * inv
		t2 := (hi - o) * inv
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		if t1 > tmin {
			tmin = t1
		}
		if t2 < tmax {
			tmax = t2
		}
		if tmin > tmax {
			return 0, false
		}
	}
	return tmin, true
}
