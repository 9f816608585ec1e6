// Copyright 2026 The Rigid2D Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package broadphase implements the dynamic AABB bounding-volume hierarchy
// described in spec.md §4.1. It replaces the teacher engine's
// physics/collision.Broadphase, which was only a naive O(n²) all-pairs
// stub ("FindCollisionPairs (naive implementation)"); the structure here
// (dense node array, free list, parent/child/height fields, SAH insertion,
// rotation-based rebalancing) is original to this module but follows the
// same "small struct, exported constructor with defaults" shape teacher
// uses throughout physics/.
package broadphase

import (
	"github.com/rigid2d/rigid2d/aabb"
	"github.com/rigid2d/rigid2d/math2"
)

const nullNode = -1

// Config tunes fattening behavior.
type Config struct {
	Margin          float64 // fixed fat-AABB margin
	PredictiveFactor float64 // velocity-proportional term multiplier
}

// DefaultConfig matches the teacher/original_source convention of a small
// fixed margin (b2_aabbMargin-equivalent) plus a one-step predictive term.
func DefaultConfig() Config {
	return Config{Margin: 0.1, PredictiveFactor: 1.0}
}

// node is one entry of the dense node array. Leaves have child1==child2==nullNode.
// A free node reuses the parent field as the free-list "next" pointer, the
// same space-saving trick documented for b2DynamicTree in
// original_source/include/box2d/types.h.
type node struct {
	box        aabb.AABB
	parent     int32 // also doubles as "next free" when this node is on the free list
	child1     int32
	child2     int32
	height     int32 // -1 marks a free node
	categoryBits uint64
	userData   uint64
	moved      bool
}

func (n *node) isLeaf() bool { return n.child1 == nullNode }

// Tree is a dynamic AABB BVH over broad-phase proxies.
type Tree struct {
	cfg      Config
	nodes    []node
	root     int32
	freeList int32
	proxyCount int
}

// NewTree creates an empty tree.
func NewTree(cfg Config) *Tree {
	return &Tree{cfg: cfg, root: nullNode, freeList: nullNode}
}

// Stats is returned by Query/RayCast/ShapeCast for diagnostics, per
// spec.md §4.1 "All queries return stats {nodeVisits, leafVisits}".
type Stats struct {
	NodeVisits int
	LeafVisits int
}

// TreeStats summarizes the current tree shape for tests/debugging.
type TreeStats struct {
	ProxyCount int
	NodeCount  int
	Height     int
	AreaRatio  float64 // sum of internal-node perimeters / root perimeter
}

func (t *Tree) allocateNode() int32 {
	if t.freeList != nullNode {
		idx := t.freeList
		t.freeList = t.nodes[idx].parent
		t.nodes[idx] = node{parent: nullNode, child1: nullNode, child2: nullNode, height: 0}
		return idx
	}
	t.nodes = append(t.nodes, node{parent: nullNode, child1: nullNode, child2: nullNode, height: -1})
	return int32(len(t.nodes) - 1)
}

func (t *Tree) freeNode(idx int32) {
	t.nodes[idx] = node{parent: t.freeList, child1: nullNode, child2: nullNode, height: -1}
	t.freeList = idx
}

// CreateProxy inserts a new leaf for tightBox, fattened per cfg, and
// returns its proxy id (the node index).
func (t *Tree) CreateProxy(tightBox aabb.AABB, categoryBits uint64, userData uint64) int32 {
	idx := t.allocateNode()
	n := &t.nodes[idx]
	n.box = tightBox.Fatten(t.cfg.Margin)
	n.categoryBits = categoryBits
	n.userData = userData
	n.height = 0
	n.child1 = nullNode
	n.child2 = nullNode
	t.insertLeaf(idx)
	t.proxyCount++
	return idx
}

// DestroyProxy removes a leaf.
func (t *Tree) DestroyProxy(proxyID int32) {
	t.removeLeaf(proxyID)
	t.freeNode(proxyID)
	t.proxyCount--
}

// MoveProxy updates a leaf's AABB. If the new tight AABB is still contained
// by the stored fat AABB, this is a no-op (returns false). Otherwise the
// leaf is removed and reinserted with a predictive margin computed from
// displacement (spec.md §4.1 MoveProxy).
func (t *Tree) MoveProxy(proxyID int32, tightBox aabb.AABB, displacement math2.Vec2) bool {
	n := &t.nodes[proxyID]
	if aabb.Contains(n.box, tightBox) {
		return false
	}
	t.removeLeaf(proxyID)
	n.box = aabb.FattenPredictive(tightBox, displacement.Scale(t.cfg.PredictiveFactor), t.cfg.Margin)
	n.moved = true
	t.insertLeaf(proxyID)
	return true
}

// EnlargeProxy grows a leaf's fat AABB to contain tightBox without doing a
// remove/reinsert, used when the caller already applied the margin
// (spec.md §4.1 EnlargeProxy).
func (t *Tree) EnlargeProxy(proxyID int32, tightBox aabb.AABB) {
	n := &t.nodes[proxyID]
	if aabb.Contains(n.box, tightBox) {
		return
	}
	n.box = aabb.Union(n.box, tightBox)
	n.moved = true
	t.refitAncestors(n.parent, n.box)
}

// FatAABB returns the stored fat AABB of a proxy.
func (t *Tree) FatAABB(proxyID int32) aabb.AABB { return t.nodes[proxyID].box }

func (t *Tree) UserData(proxyID int32) uint64 { return t.nodes[proxyID].userData }

func (t *Tree) CategoryBits(proxyID int32) uint64 { return t.nodes[proxyID].categoryBits }

// WasMoved reports whether a proxy moved since its flag was last cleared
// with ClearMoved, used by the world to build the move-set each step (spec.md §2 data flow).
func (t *Tree) WasMoved(proxyID int32) bool { return t.nodes[proxyID].moved }
func (t *Tree) ClearMoved(proxyID int32)    { t.nodes[proxyID].moved = false }

func (t *Tree) ProxyCount() int { return t.proxyCount }

// Stats reports the current tree's shape for debugging and the §3 "area
// ratio stays bounded" invariant.
func (t *Tree) Stats() TreeStats {
	stats := TreeStats{ProxyCount: t.proxyCount}
	if t.root == nullNode {
		return stats
	}
	stats.Height = int(t.nodes[t.root].height)
	var internalPerimeter float64
	for i := range t.nodes {
		n := &t.nodes[i]
		if n.height < 0 {
			continue // free slot
		}
		stats.NodeCount++
		if !n.isLeaf() {
			internalPerimeter += n.box.Perimeter()
		}
	}
	rootPerimeter := t.nodes[t.root].box.Perimeter()
	if rootPerimeter > 0 {
		stats.AreaRatio = internalPerimeter / rootPerimeter
	}
	return stats
}
