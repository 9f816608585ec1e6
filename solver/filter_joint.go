// Copyright 2026 The Rigid2D Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package solver

// FilterJoint carries no constraint equations: its sole purpose is to
// suppress collision between its two bodies (spec.md §4.4 "shared
// joints (except filter joints used only for collision suppression)"
// explicitly excludes it from island connectivity too). CollideConnected
// is always false for a filter joint; the broad/narrow phase consult it
// directly rather than via the constraint graph.
type FilterJoint struct {
	JointBase
}
