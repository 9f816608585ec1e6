// Copyright 2026 The Rigid2D Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package broadphase

import (
	"github.com/rigid2d/rigid2d/aabb"
)

// insertLeaf implements spec.md §4.1 Insertion: descend choosing the child
// that minimizes the SAH cost (union-area of the new leaf with the
// candidate plus the inheritance cost it would force on ancestors), pair
// the chosen sibling with the new leaf under a fresh internal node, then
// walk back to the root refitting AABBs, updating heights, and rebalancing.
func (t *Tree) insertLeaf(leaf int32) {
	if t.root == nullNode {
		t.root = leaf
		t.nodes[leaf].parent = nullNode
		return
	}

	leafBox := t.nodes[leaf].box
	index := t.root

	for !t.nodes[index].isLeaf() {
		child1 := t.nodes[index].child1
		child2 := t.nodes[index].child2

		area := t.nodes[index].box.Perimeter()
		combined := aabb.Union(t.nodes[index].box, leafBox)
		combinedArea := combined.Perimeter()

		// Cost of creating a new parent for this node and the new leaf.
		cost := 2 * combinedArea
		// Minimum cost of pushing the leaf further down the tree.
		inheritanceCost := 2 * (combinedArea - area)

		cost1 := t.descendCost(child1, leafBox, inheritanceCost)
		cost2 := t.descendCost(child2, leafBox, inheritanceCost)

		if cost < cost1 && cost < cost2 {
			break
		}

		// Tie-break deterministically toward the lower child index, per
		// spec.md §9's open-question resolution for SAH insertion ties.
		if cost1 < cost2 || (cost1 == cost2 && child1 <= child2) {
			index = child1
		} else {
			index = child2
		}
	}

	sibling := index
	oldParent := t.nodes[sibling].parent
	newParent := t.allocateNode()
	t.nodes[newParent].parent = oldParent
	t.nodes[newParent].box = aabb.Union(leafBox, t.nodes[sibling].box)
	t.nodes[newParent].height = t.nodes[sibling].height + 1

	if oldParent != nullNode {
		if t.nodes[oldParent].child1 == sibling {
			t.nodes[oldParent].child1 = newParent
		} else {
			t.nodes[oldParent].child2 = newParent
		}
		t.nodes[newParent].child1 = sibling
		t.nodes[newParent].child2 = leaf
		t.nodes[sibling].parent = newParent
		t.nodes[leaf].parent = newParent
	} else {
		t.nodes[newParent].child1 = sibling
		t.nodes[newParent].child2 = leaf
		t.nodes[sibling].parent = newParent
		t.nodes[leaf].parent = newParent
		t.root = newParent
	}

	t.refitAndRebalance(t.nodes[leaf].parent)
}

// descendCost returns the SAH cost of descending into a subtree rooted at
// idx: for a leaf it's the union area plus the inherited cost; for an
// internal node the union area grows but only the *delta* it forces below
// is inherited, matching the classic Box2D dynamic-tree cost split.
func (t *Tree) descendCost(idx int32, leafBox aabb.AABB, inheritanceCost float64) float64 {
	n := &t.nodes[idx]
	combined := aabb.Union(leafBox, n.box)
	if n.isLeaf() {
		return combined.Perimeter() + inheritanceCost
	}
	oldArea := n.box.Perimeter()
	newArea := combined.Perimeter()
	return (newArea - oldArea) + inheritanceCost
}

// removeLeaf detaches a leaf, collapsing its parent into the grandparent's
// slot (spec.md §4.1 Removal), then refits and rebalances along the path.
func (t *Tree) removeLeaf(leaf int32) {
	if t.root == leaf {
		t.root = nullNode
		return
	}

	parent := t.nodes[leaf].parent
	grandParent := t.nodes[parent].parent
	var sibling int32
	if t.nodes[parent].child1 == leaf {
		sibling = t.nodes[parent].child2
	} else {
		sibling = t.nodes[parent].child1
	}

	if grandParent != nullNode {
		if t.nodes[grandParent].child1 == parent {
			t.nodes[grandParent].child1 = sibling
		} else {
			t.nodes[grandParent].child2 = sibling
		}
		t.nodes[sibling].parent = grandParent
		t.freeNode(parent)
		t.refitAndRebalance(grandParent)
	} else {
		t.root = sibling
		t.nodes[sibling].parent = nullNode
		t.freeNode(parent)
	}
}

// refitAncestors grows every ancestor AABB from idx up to the root to
// contain box, without touching heights or rotating (used by
// EnlargeProxy, which by contract only ever needs to grow).
func (t *Tree) refitAncestors(idx int32, box aabb.AABB) {
	for idx != nullNode {
		n := &t.nodes[idx]
		if aabb.Contains(n.box, box) {
			return
		}
		n.box = aabb.Union(n.box, box)
		idx = n.parent
	}
}

// refitAndRebalance walks from idx to the root, recomputing each ancestor's
// AABB and height from its children, then lets balance rotate that
// ancestor when its children's heights differ by more than 1 (see balance).
func (t *Tree) refitAndRebalance(idx int32) {
	for idx != nullNode {
		idx = t.balance(idx)

		n := &t.nodes[idx]
		child1 := n.child1
		child2 := n.child2
		n.height = 1 + maxInt32(t.nodes[child1].height, t.nodes[child2].height)
		n.box = aabb.Union(t.nodes[child1].box, t.nodes[child2].box)

		idx = n.parent
	}
}

func maxInt32(a, b int32) int32 {
	if a > b {
		return a
	}
	return b
}
