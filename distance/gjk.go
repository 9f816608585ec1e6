// Copyright 2026 The Rigid2D Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package distance implements GJK closest-point distance with simplex-cache
// warm-starting, conservative-advancement shape casting, and
// bilateral-advancement time-of-impact, per spec.md §4.2. The teacher
// engine has no narrow-phase distance query at all (its narrowphase.go
// goes straight from AABB overlap to analytic per-pair manifold
// functions), so this package is modeled directly on spec.md's algorithm
// description and original_source's sample_collision.cpp exercise matrix
// rather than adapted from teacher code.
package distance

import (
	"github.com/rigid2d/rigid2d/math2"
	"github.com/rigid2d/rigid2d/shape"
)

// maxGJKIterations bounds the simplex-refinement loop (spec.md §4.2
// "terminate ... after a bounded iteration cap (default 20)").
const maxGJKIterations = 20

// Cache stores the final simplex vertex indices from the last Distance
// call so the next call (with nearby transforms) can reconstruct the
// simplex and converge in very few iterations (spec.md §4.2 "Cache").
type Cache struct {
	Count   int
	IndexA  [3]int
	IndexB  [3]int
	metric  float64
	hasMetric bool
}

// simplexVertex is one point of the working simplex: the Minkowski
// difference wᵢ = supportA(indexA) − supportB(indexB), transformed into a
// common (world) frame, with its barycentric weight.
type simplexVertex struct {
	wA, wB math2.Vec2 // support points in world space
	w      math2.Vec2 // wA - wB
	a      float64    // barycentric weight
	indexA, indexB int
}

type simplex struct {
	v     [3]simplexVertex
	count int
}

// Input bundles the two shape proxies and their world transforms.
type Input struct {
	ProxyA, ProxyB shape.Proxy
	TransformA, TransformB math2.Transform
	UseRadii bool
}

// Output is the result of a Distance call.
type Output struct {
	PointA, PointB math2.Vec2 // closest points, before radius shift
	Normal         math2.Vec2 // unit vector from A to B
	Distance       float64
	Iterations     int
}

func worldSupport(proxy shape.Proxy, xf math2.Transform, dir math2.Vec2) (point math2.Vec2, index int) {
	localDir := xf.InvTransformVector(dir)
	index = proxy.Support(localDir)
	return xf.TransformPoint(proxy.Vertex(index)), index
}

// Distance computes the closest points and separation between two convex
// proxies using GJK, warm-starting from cache when it validates, and
// writes the final simplex back into cache on exit (spec.md §4.2).
func Distance(input Input, cache *Cache) Output {
	s := simplexFromCache(input, cache)
	if s.count == 0 {
		s = initialSimplex(input)
	}

	saveA := [3]int{}
	saveB := [3]int{}
	iter := 0
	for ; iter < maxGJKIterations; iter++ {
		saveCount := s.count
		for i := 0; i < saveCount; i++ {
			saveA[i] = s.v[i].indexA
			saveB[i] = s.v[i].indexB
		}

		s = reduceSimplex(s)

		if s.count == 3 {
			break // origin enclosed: shapes overlap
		}

		d := searchDirection(s)
		if d.LengthSquared() < 1e-18 {
			break
		}

		wA, ia := worldSupport(input.ProxyA, input.TransformA, d)
		wB, ib := worldSupport(input.ProxyB, input.TransformB, d.Neg())
		newVertex := simplexVertex{wA: wA, wB: wB, w: wA.Sub(wB), indexA: ia, indexB: ib}

		// Terminate if the new vertex duplicates a vertex of the simplex
		// from the start of this iteration (same support indices on both
		// proxies); no separate distance-improvement test is made.
		duplicate := false
		for i := 0; i < saveCount; i++ {
			if saveA[i] == ia && saveB[i] == ib {
				duplicate = true
				break
			}
		}
		if duplicate {
			break
		}

		s.v[s.count] = newVertex
		s.count++
	}

	out := finishDistance(s, input)
	out.Iterations = iter + 1

	writeCache(cache, s)
	return out
}

func initialSimplex(input Input) simplex {
	wA, ia := worldSupport(input.ProxyA, input.TransformA, math2.V2(1, 0))
	wB, ib := worldSupport(input.ProxyB, input.TransformB, math2.V2(-1, 0))
	v := simplexVertex{wA: wA, wB: wB, w: wA.Sub(wB), a: 1, indexA: ia, indexB: ib}
	return simplex{v: [3]simplexVertex{v}, count: 1}
}

func simplexFromCache(input Input, cache *Cache) simplex {
	if cache == nil || cache.Count == 0 || cache.Count > 3 {
		return simplex{}
	}
	var s simplex
	for i := 0; i < cache.Count; i++ {
		ia, ib := cache.IndexA[i], cache.IndexB[i]
		if ia < 0 || ia >= input.ProxyA.Count || ib < 0 || ib >= input.ProxyB.Count {
			return simplex{}
		}
		wA := input.TransformA.TransformPoint(input.ProxyA.Vertex(ia))
		wB := input.TransformB.TransformPoint(input.ProxyB.Vertex(ib))
		s.v[i] = simplexVertex{wA: wA, wB: wB, w: wA.Sub(wB), indexA: ia, indexB: ib}
	}
	s.count = cache.Count
	return s
}

func writeCache(cache *Cache, s simplex) {
	if cache == nil {
		return
	}
	cache.Count = s.count
	for i := 0; i < s.count; i++ {
		cache.IndexA[i] = s.v[i].indexA
		cache.IndexB[i] = s.v[i].indexB
	}
	cache.metric = simplexClosestPoint(s).Length()
	cache.hasMetric = true
}

// searchDirection returns the negative of the simplex's closest point to
// the origin — the next support query direction.
func searchDirection(s simplex) math2.Vec2 {
	return simplexClosestPoint(s).Neg()
}

func simplexClosestPoint(s simplex) math2.Vec2 {
	switch s.count {
	case 1:
		return s.v[0].w
	case 2:
		return s.v[0].w.Lerp(s.v[1].w, s.v[1].a)
	case 3:
		return math2.Vec2{}
	default:
		return math2.Vec2{}
	}
}

// reduceSimplex applies Johnson's algorithm: given the raw simplex (1, 2,
// or 3 points), find the closest feature (vertex, edge, or the full
// triangle if the origin is enclosed) and discard vertices not on that
// feature, assigning barycentric weights to the survivors.
func reduceSimplex(s simplex) simplex {
	switch s.count {
	case 1:
		s.v[0].a = 1
		return s
	case 2:
		return reduceSegment(s)
	case 3:
		return reduceTriangle(s)
	default:
		return s
	}
}

func reduceSegment(s simplex) simplex {
	a, b := s.v[0].w, s.v[1].w
	ab := b.Sub(a)
	t := -a.Dot(ab)
	if t <= 0 {
		s.v[0].a = 1
		s.count = 1
		return s
	}
	denom := ab.LengthSquared()
	if t >= denom {
		s.v[0] = s.v[1]
		s.v[0].a = 1
		s.count = 1
		return s
	}
	frac := t / denom
	s.v[1].a = frac
	s.v[0].a = 1 - frac
	return s
}

func reduceTriangle(s simplex) simplex {
	a, b, c := s.v[0].w, s.v[1].w, s.v[2].w

	// Barycentric coordinates of the origin w.r.t. triangle (a,b,c) via
	// signed sub-triangle areas.
	areaABC := (b.Sub(a)).Cross(c.Sub(a))
	uBC := b.Cross(c)
	uCA := c.Cross(a)
	uAB := a.Cross(b)

	if areaABC == 0 {
		// Degenerate: fall back to treating it as the best edge.
		s.count = 2
		return reduceSegment(s)
	}

	wA := uBC / areaABC
	wB := uCA / areaABC
	wC := uAB / areaABC

	if wA >= 0 && wB >= 0 && wC >= 0 {
		// Origin is inside the triangle: shapes overlap.
		s.v[0].a, s.v[1].a, s.v[2].a = wA, wB, wC
		s.count = 3
		return s
	}

	// Otherwise reduce to the nearest of the three edges.
	best := simplex{v: [3]simplexVertex{s.v[0], s.v[1]}, count: 2}
	best = reduceSegment(best)
	bestDist := simplexClosestPoint(best).LengthSquared()

	tryEdge := func(i, j int) {
		cand := simplex{v: [3]simplexVertex{s.v[i], s.v[j]}, count: 2}
		cand = reduceSegment(cand)
		d := simplexClosestPoint(cand).LengthSquared()
		if d < bestDist {
			best = cand
			bestDist = d
		}
	}
	tryEdge(1, 2)
	tryEdge(2, 0)

	return best
}

// finishDistance converts the simplex into world-space closest points,
// separation normal, and distance, applying radius shrinkage when
// requested (spec.md §4.2 "Radii").
func finishDistance(s simplex, input Input) Output {
	var pointA, pointB math2.Vec2
	switch s.count {
	case 1:
		pointA, pointB = s.v[0].wA, s.v[0].wB
	case 2:
		pointA = s.v[0].wA.Lerp(s.v[1].wA, s.v[1].a)
		pointB = s.v[0].wB.Lerp(s.v[1].wB, s.v[1].a)
	case 3:
		pointA = s.v[0].wA.Scale(s.v[0].a).Add(s.v[1].wA.Scale(s.v[1].a)).Add(s.v[2].wA.Scale(s.v[2].a))
		pointB = pointA
	}

	diff := pointB.Sub(pointA)
	dist := diff.Length()
	var normal math2.Vec2
	if dist > 1e-9 {
		normal = diff.Scale(1 / dist)
	} else {
		normal = math2.V2(1, 0)
	}

	if input.UseRadii {
		rA, rB := input.ProxyA.Radius, input.ProxyB.Radius
		if dist > rA+rB {
			dist -= rA + rB
			pointA = pointA.MulAdd(normal, rA)
			pointB = pointB.MulAdd(normal, -rB)
		} else {
			// spec.md §4.2 "Initial overlap": distance 0, arbitrary point.
			mid := pointA.Lerp(pointB, 0.5)
			pointA, pointB = mid, mid
			dist = 0
		}
	}

	return Output{PointA: pointA, PointB: pointB, Normal: normal, Distance: dist}
}
