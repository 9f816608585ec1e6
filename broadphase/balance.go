// Copyright 2026 The Rigid2D Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package broadphase

import "github.com/rigid2d/rigid2d/aabb"

// balance rotates at node iA only when its two children's heights differ
// by more than 1, lifting the taller child (see rotate). It does not
// compare all four grandchild swaps, and it does not check that the
// rotation reduces the summed sibling area. Returns the index that should now be treated as the subtree root (iA
// unless a rotation replaced it).
func (t *Tree) balance(iA int32) int32 {
	a := &t.nodes[iA]
	if a.isLeaf() || a.height < 2 {
		return iA
	}

	iB := a.child1
	iC := a.child2
	b := &t.nodes[iB]
	c := &t.nodes[iC]

	balanceFactor := c.height - b.height

	// Rotate C up if C is heavier.
	if balanceFactor > 1 {
		return t.rotate(iA, iC, iB)
	}
	// Rotate B up if B is heavier.
	if balanceFactor < -1 {
		return t.rotate(iA, iB, iC)
	}
	return iA
}

// rotate lifts heavy into iA's place with iA as its child. iA keeps light
// and takes whichever of heavy's two children has the smaller union
// perimeter with light; the other child stays under heavy. Only these two
// arrangements are compared.
func (t *Tree) rotate(iA, iHeavy, iLight int32) int32 {
	a := &t.nodes[iA]
	heavy := &t.nodes[iHeavy]

	iF := heavy.child1
	iG := heavy.child2
	f := &t.nodes[iF]
	g := &t.nodes[iG]

	// Swap A and heavy.
	heavy.child1 = iA
	heavy.parent = a.parent
	a.parent = iHeavy

	if heavy.parent != nullNode {
		if t.nodes[heavy.parent].child1 == iA {
			t.nodes[heavy.parent].child1 = iHeavy
		} else {
			t.nodes[heavy.parent].child2 = iHeavy
		}
	} else {
		t.root = iHeavy
	}

	// Decide whether F or G should become heavy's second child, picking
	// whichever leaves the lighter subtree's box paired with the lower
	// combined area.
	lightBox := t.nodes[iLight].box
	costKeepF := aabb.Union(lightBox, g.box).Perimeter()
	costKeepG := aabb.Union(lightBox, f.box).Perimeter()

	if costKeepF <= costKeepG {
		heavy.child2 = iF
		a.child1 = iLight
		a.child2 = iG
		g.parent = iA
		a.box = aabb.Union(t.nodes[iLight].box, g.box)
		a.height = 1 + maxInt32(t.nodes[iLight].height, g.height)
		heavy.box = aabb.Union(a.box, f.box)
		heavy.height = 1 + maxInt32(a.height, f.height)
	} else {
		heavy.child2 = iG
		a.child1 = iLight
		a.child2 = iF
		f.parent = iA
		a.box = aabb.Union(t.nodes[iLight].box, f.box)
		a.height = 1 + maxInt32(t.nodes[iLight].height, f.height)
		heavy.box = aabb.Union(a.box, g.box)
		heavy.height = 1 + maxInt32(a.height, g.height)
	}

	t.nodes[iLight].parent = iA
	return iHeavy
}
