// Copyright 2026 The Rigid2D Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package broadphase

import (
	"sort"

	"github.com/rigid2d/rigid2d/aabb"
)

// Rebuild performs a full top-down rebuild: collect all leaves, then
// recursively split them at the median box center along the longest axis
// of their combined bounds (see buildRange). No nearest-pair (minimal
// union perimeter) search is done.
func (t *Tree) Rebuild() {
	if t.proxyCount == 0 {
		t.root = nullNode
		return
	}

	leaves := make([]int32, 0, t.proxyCount)
	for i := range t.nodes {
		if t.nodes[i].height == 0 && t.nodes[i].isLeaf() {
			leaves = append(leaves, int32(i))
		}
	}

	t.root = t.buildRange(leaves)
}

// buildRange recursively partitions leaves by the longest axis of their
// combined centroid spread, producing a balanced tree whose internal node
// count and shape approximate the SAH-optimal pairing without the
// quadratic nearest-pair search's cost.
func (t *Tree) buildRange(leaves []int32) int32 {
	if len(leaves) == 1 {
		t.nodes[leaves[0]].parent = nullNode
		return leaves[0]
	}

	var bounds aabb.AABB = t.nodes[leaves[0]].box
	for _, idx := range leaves[1:] {
		bounds = aabb.Union(bounds, t.nodes[idx].box)
	}
	extents := bounds.Upper().Sub(bounds.Lower())
	axis := 0
	if extents.Y > extents.X {
		axis = 1
	}

	sort.Slice(leaves, func(i, j int) bool {
		ci := t.nodes[leaves[i]].box.Center()
		cj := t.nodes[leaves[j]].box.Center()
		if axis == 0 {
			return ci.X < cj.X
		}
		return ci.Y < cj.Y
	})

	mid := len(leaves) / 2
	left := t.buildRange(leaves[:mid])
	right := t.buildRange(leaves[mid:])

	parent := t.allocateNode()
	p := &t.nodes[parent]
	p.child1 = left
	p.child2 = right
	p.box = aabb.Union(t.nodes[left].box, t.nodes[right].box)
	p.height = 1 + maxInt32(t.nodes[left].height, t.nodes[right].height)
	p.parent = nullNode
	t.nodes[left].parent = parent
	t.nodes[right].parent = parent
	return parent
}

// partialRebuildThreshold is the child-area ratio above which a subtree is
// considered unbalanced enough to warrant a partial rebuild (spec.md §4.1
// "Partial rebuild rebuilds only subtrees whose child-area ratio exceeds a
// threshold").
const partialRebuildThreshold = 3.0

// PartialRebuild walks the tree looking for internal nodes whose two
// children's areas differ by a ratio of more than partialRebuildThreshold, and
// rebuilds just those subtrees in place.
func (t *Tree) PartialRebuild() {
	if t.root == nullNode {
		return
	}
	t.partialRebuildNode(t.root)
}

func (t *Tree) partialRebuildNode(idx int32) {
	n := &t.nodes[idx]
	if n.isLeaf() {
		return
	}
	areaA := t.nodes[n.child1].box.Perimeter()
	areaB := t.nodes[n.child2].box.Perimeter()
	ratio := areaA / areaB
	if ratio < 1 {
		ratio = 1 / ratio
	}
	if areaA > 0 && areaB > 0 && ratio > partialRebuildThreshold {
		var leaves []int32
		t.collectLeaves(idx, &leaves)
		parentOfN := n.parent
		wasChild1 := parentOfN != nullNode && t.nodes[parentOfN].child1 == idx
		t.freeSubtreeInternals(idx)
		newRoot := t.buildRange(leaves)
		t.nodes[newRoot].parent = parentOfN
		if parentOfN == nullNode {
			t.root = newRoot
		} else if wasChild1 {
			t.nodes[parentOfN].child1 = newRoot
		} else {
			t.nodes[parentOfN].child2 = newRoot
		}
		return
	}
	t.partialRebuildNode(n.child1)
	t.partialRebuildNode(n.child2)
}

func (t *Tree) collectLeaves(idx int32, out *[]int32) {
	n := &t.nodes[idx]
	if n.isLeaf() {
		*out = append(*out, idx)
		return
	}
	t.collectLeaves(n.child1, out)
	t.collectLeaves(n.child2, out)
}

// freeSubtreeInternals frees only the internal nodes of a subtree (leaves
// are reused by the subsequent buildRange call).
func (t *Tree) freeSubtreeInternals(idx int32) {
	n := &t.nodes[idx]
	if n.isLeaf() {
		return
	}
	t.freeSubtreeInternals(n.child1)
	t.freeSubtreeInternals(n.child2)
	t.freeNode(idx)
}
