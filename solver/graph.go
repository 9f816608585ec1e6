// Copyright 2026 The Rigid2D Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package solver

import "github.com/rigid2d/rigid2d/id"

// MaxColors bounds the number of parallel-solvable colors (spec.md §4.5
// "default ≤ 24").
const MaxColors = 24

// ConstraintRef identifies one constraint (contact or joint) placed into
// the graph, keeping enough information for the solver to dispatch to
// the right prepare/solve routine without a second lookup.
type ConstraintRef struct {
	ID       id.ID
	IsJoint  bool
	BodyA    id.ID
	BodyB    id.ID
}

// Color is one of the graph's parallel-safe buckets: within a color no
// two constraints share a dynamic body (spec.md §4.5's core invariant).
type Color struct {
	Constraints []ConstraintRef
}

// Graph distributes contacts and joints into colors greedily as they
// become active. Constraints that can't fit any of the MaxColors bounded
// colors fall into Overflow, solved single-threaded (spec.md §4.5).
type Graph struct {
	Colors   [MaxColors]Color
	Overflow Color

	// bodyColorMask tracks, per dynamic body, which color indices already
	// contain a constraint touching that body (bit i set => Colors[i]
	// used). Static/kinematic bodies are never masked: the invariant only
	// restricts dynamic-body sharing, so many constraints against the
	// same static anchor may coexist in one color.
	bodyColorMask map[id.ID]uint32
}

// NewGraph returns an empty constraint graph.
func NewGraph() *Graph {
	return &Graph{bodyColorMask: make(map[id.ID]uint32)}
}

// Reset empties every color, keeping allocated slice capacity (mirrors
// the teacher's ClearEquations/Reset idiom of truncating rather than
// reallocating per step).
func (g *Graph) Reset() {
	for i := range g.Colors {
		g.Colors[i].Constraints = g.Colors[i].Constraints[:0]
	}
	g.Overflow.Constraints = g.Overflow.Constraints[:0]
	for k := range g.bodyColorMask {
		delete(g.bodyColorMask, k)
	}
}

// Add assigns one constraint to the lowest-index color where neither of
// its dynamic-body endpoints is already represented, falling back to the
// overflow color (spec.md §4.5 "Assignment is greedy"). dynamicA/dynamicB
// report whether each endpoint is a dynamic body (static/kinematic
// endpoints never block a color).
func (g *Graph) Add(ref ConstraintRef, dynamicA, dynamicB bool) (colorIndex int, overflowed bool) {
	var maskA, maskB uint32
	if dynamicA {
		maskA = g.bodyColorMask[ref.BodyA]
	}
	if dynamicB {
		maskB = g.bodyColorMask[ref.BodyB]
	}
	used := maskA | maskB

	for i := 0; i < MaxColors; i++ {
		bit := uint32(1) << uint(i)
		if used&bit == 0 {
			g.Colors[i].Constraints = append(g.Colors[i].Constraints, ref)
			if dynamicA {
				g.bodyColorMask[ref.BodyA] |= bit
			}
			if dynamicB {
				g.bodyColorMask[ref.BodyB] |= bit
			}
			return i, false
		}
	}

	g.Overflow.Constraints = append(g.Overflow.Constraints, ref)
	return -1, true
}

// Stats reports per-color constraint counts for the step counters spec.md
// §4.5 requires ("Color counts per step are exposed in counters").
type Stats struct {
	PerColor       [MaxColors]int
	OverflowCount  int
	ColorsUsed     int
}

func (g *Graph) Stats() Stats {
	var s Stats
	for i := range g.Colors {
		n := len(g.Colors[i].Constraints)
		s.PerColor[i] = n
		if n > 0 {
			s.ColorsUsed++
		}
	}
	s.OverflowCount = len(g.Overflow.Constraints)
	return s
}
