// Copyright 2026 The Rigid2D Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package broadphase

import (
	"github.com/rigid2d/rigid2d/aabb"
	"github.com/rigid2d/rigid2d/math2"
)

// QueryCallback is invoked for each overlapping leaf; returning false stops
// the query early (spec.md §4.1 Query API).
type QueryCallback func(proxyID int32, userData uint64) bool

// Query visits every leaf whose AABB overlaps box and whose categoryBits
// intersect maskBits.
func (t *Tree) Query(box aabb.AABB, maskBits uint64, cb QueryCallback) Stats {
	var stats Stats
	if t.root == nullNode {
		return stats
	}
	stack := []int32{t.root}
	for len(stack) > 0 {
		idx := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if idx == nullNode {
			continue
		}
		n := &t.nodes[idx]
		stats.NodeVisits++
		if !aabb.Overlaps(n.box, box) {
			continue
		}
		if n.isLeaf() {
			stats.LeafVisits++
			if n.categoryBits&maskBits != 0 {
				if !cb(idx, n.userData) {
					return stats
				}
			}
			continue
		}
		stack = append(stack, n.child1, n.child2)
	}
	return stats
}

// RayCallback reports a hit at fraction along origin->origin+translation
// and returns the new max fraction to continue searching with (a negative
// value skips this candidate without clipping, 0 terminates the cast).
type RayCallback func(proxyID int32, userData uint64, point math2.Vec2, normal math2.Vec2, fraction float64) float64

// RayCast visits candidates using slab-test pruning against the inverse
// direction, a LIFO stack, and near-child-first traversal (spec.md §4.1).
func (t *Tree) RayCast(origin, translation math2.Vec2, maxFraction float64, maskBits uint64, cb RayCallback) Stats {
	var stats Stats
	if t.root == nullNode {
		return stats
	}

	current := maxFraction
	type frame struct{ idx int32 }
	stack := []frame{{t.root}}

	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if f.idx == nullNode {
			continue
		}
		n := &t.nodes[f.idx]
		stats.NodeVisits++

		tHit, hit := n.box.RayIntersects(origin, translation, current)
		if !hit {
			continue
		}

		if n.isLeaf() {
			stats.LeafVisits++
			if n.categoryBits&maskBits == 0 {
				continue
			}
			point := origin.MulAdd(translation, tHit)
			normal := rayNormal(n.box, origin, translation, tHit)
			newFraction := cb(f.idx, n.userData, point, normal, tHit)
			if newFraction == 0 {
				return stats
			}
			if newFraction > 0 && newFraction < current {
				current = newFraction
			}
			continue
		}

		// Push both children; since we don't know which is nearer without
		// extra bookkeeping, order by the entry fraction of the quick
		// intersection test so the closer one pops first (LIFO = last
		// pushed is visited first).
		t1, ok1 := t.nodes[n.child1].box.RayIntersects(origin, translation, current)
		t2, ok2 := t.nodes[n.child2].box.RayIntersects(origin, translation, current)
		switch {
		case ok1 && ok2 && t1 < t2:
			stack = append(stack, frame{n.child2}, frame{n.child1})
		case ok1 && ok2:
			stack = append(stack, frame{n.child1}, frame{n.child2})
		case ok1:
			stack = append(stack, frame{n.child1})
		case ok2:
			stack = append(stack, frame{n.child2})
		}
	}
	return stats
}

// rayNormal approximates the surface normal at the AABB entry point by
// picking the axis whose slab boundary was hit.
func rayNormal(box aabb.AABB, origin, translation math2.Vec2, t float64) math2.Vec2 {
	p := origin.MulAdd(translation, t)
	lower, upper := box.Lower(), box.Upper()
	const eps = 1e-6
	switch {
	case abs(p.X-lower.X) < eps:
		return math2.Vec2{X: -1}
	case abs(p.X-upper.X) < eps:
		return math2.Vec2{X: 1}
	case abs(p.Y-lower.Y) < eps:
		return math2.Vec2{Y: -1}
	case abs(p.Y-upper.Y) < eps:
		return math2.Vec2{Y: 1}
	default:
		return math2.Vec2{}
	}
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

// ShapeCastCallback is called for each candidate leaf of a ShapeCast, always
// with the cast's maxFraction. Returning 0 stops the cast; any other value
// continues it, and the swept volume is never clipped.
type ShapeCastCallback func(proxyID int32, userData uint64, fraction float64) float64

// ShapeCast visits candidates whose fat AABB overlaps the swept volume
// aabb(proxy) ⊕ segment(origin→origin+translation), approximated here as
// the union of the proxy's box translated along the sweep (spec.md §4.1).
func (t *Tree) ShapeCast(proxyBox aabb.AABB, translation math2.Vec2, maxFraction float64, maskBits uint64, cb ShapeCastCallback) Stats {
	lower := proxyBox.Lower()
	upper := proxyBox.Upper()
	sweptLower := lower.Min(lower.Add(translation.Scale(maxFraction)))
	sweptUpper := upper.Max(upper.Add(translation.Scale(maxFraction)))
	swept := aabb.New(sweptLower, sweptUpper)

	return t.Query(swept, maskBits, func(proxyID int32, userData uint64) bool {
		return cb(proxyID, userData, maxFraction) != 0
	})
}
