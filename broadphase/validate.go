// Copyright 2026 The Rigid2D Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package broadphase

import (
	"fmt"

	"github.com/rigid2d/rigid2d/aabb"
)

// Validate checks parent links, AABB containment of each node's children,
// height consistency, and that every leaf is reachable from root (spec.md
// §4.1 "Validation (debug)"). It is intended for tests and debug builds,
// not the hot step path.
func (t *Tree) Validate() error {
	if t.root == nullNode {
		if t.proxyCount != 0 {
			return fmt.Errorf("broadphase: empty root but proxyCount=%d", t.proxyCount)
		}
		return nil
	}
	if t.nodes[t.root].parent != nullNode {
		return fmt.Errorf("broadphase: root has non-nil parent")
	}

	reachableLeaves := 0
	if err := t.validateNode(t.root, &reachableLeaves); err != nil {
		return err
	}
	if reachableLeaves != t.proxyCount {
		return fmt.Errorf("broadphase: reachable leaves %d != proxyCount %d", reachableLeaves, t.proxyCount)
	}
	return nil
}

func (t *Tree) validateNode(idx int32, leafCount *int) error {
	n := &t.nodes[idx]
	if n.isLeaf() {
		*leafCount++
		return nil
	}

	c1, c2 := n.child1, n.child2
	if t.nodes[c1].parent != idx || t.nodes[c2].parent != idx {
		return fmt.Errorf("broadphase: node %d children have wrong parent link", idx)
	}
	if !aabb.Contains(n.box, t.nodes[c1].box) || !aabb.Contains(n.box, t.nodes[c2].box) {
		return fmt.Errorf("broadphase: node %d does not contain both children's AABBs", idx)
	}
	wantHeight := 1 + maxInt32(t.nodes[c1].height, t.nodes[c2].height)
	if n.height != wantHeight {
		return fmt.Errorf("broadphase: node %d height %d != expected %d", idx, n.height, wantHeight)
	}

	if err := t.validateNode(c1, leafCount); err != nil {
		return err
	}
	return t.validateNode(c2, leafCount)
}
