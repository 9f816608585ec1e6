// Copyright 2026 The Rigid2D Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package solver

import (
	"github.com/rigid2d/rigid2d/id"
	"github.com/rigid2d/rigid2d/math2"
)

// BodyAccessor is how Step reaches the BodySim/BodyState belonging to a
// constraint's endpoint without caring which solver set actually owns the
// backing storage. Every body, static and kinematic ones included, has a
// BodySim/BodyState entry in its set (a static body's BodySim has zero
// InvMass/InvInertia); the world's accessor returns that entry, and falls
// back to a zero BodySim and a scratch BodyState only for an id it cannot
// resolve.
type BodyAccessor interface {
	Sim(b id.ID) BodySim
	State(b id.ID) *BodyState
}

// JointInstance pairs a joint's shared bookkeeping fields with the
// concrete solver implementation satisfying JointSolver, so Step can
// dispatch through the graph without a type switch.
type JointInstance struct {
	Base   *JointBase
	Solver JointSolver
}

// StepInput is everything one TGS substep pipeline run needs: the
// prepared constraints for this step's awake island(s), the graph
// coloring already built over them, and the integration parameters.
// Every ContactConstraint must already be built via PrepareContact and
// every joint's Prepare already called once for this step before
// RunStep is invoked; RunStep only runs the per-substep warm-start/
// solve/integrate loop and the final restitution pass.
type StepInput struct {
	Bodies BodyAccessor

	Contacts []*ContactConstraint
	Joints   []JointInstance
	Graph    *Graph

	Gravity              math2.Vec2
	H                    float64 // full step duration
	SubStepCount         int
	RestitutionThreshold float64
	EnableWarmStarting   bool
}

// contactsByID / jointsByID let Step resolve a graph ConstraintRef back
// to the concrete constraint object in O(1).
type constraintIndex struct {
	contacts map[id.ID]*ContactConstraint
	joints   map[id.ID]JointInstance
}

func buildConstraintIndex(in *StepInput) constraintIndex {
	idx := constraintIndex{
		contacts: make(map[id.ID]*ContactConstraint, len(in.Contacts)),
		joints:   make(map[id.ID]JointInstance, len(in.Joints)),
	}
	for _, c := range in.Contacts {
		idx.contacts[c.ID] = c
	}
	for _, j := range in.Joints {
		idx.joints[j.Base.ID] = j
	}
	return idx
}

// RunStep executes spec.md §4.6's TGS substep pipeline over one
// solver-set worth of prepared constraints, walking each graph color in
// turn and every constraint (joint or contact) within it in insertion
// order. This generalizes the teacher's GaussSeidel idiom of iterating
// every equation in a fixed array order each pass
// (_teacher_seed/physics/solver/solver.go) to iterate per graph color
// instead of one flat array, so same-colored constraints could be
// dispatched concurrently by a caller without a data race (the coloring
// invariant guarantees no two constraints in a color share a dynamic
// body); RunStep itself solves them sequentially.
func RunStep(in StepInput) {
	if in.SubStepCount <= 0 {
		in.SubStepCount = 1
	}
	idx := buildConstraintIndex(&in)
	h := in.H / float64(in.SubStepCount)

	dynamicBodies := collectDynamicBodies(in)

	for substep := 0; substep < in.SubStepCount; substep++ {
		for _, b := range dynamicBodies {
			sim := in.Bodies.Sim(b)
			state := in.Bodies.State(b)
			*state = IntegrateVelocity(sim, *state, in.Gravity, math2.Vec2{}, 0, h)
		}

		if in.EnableWarmStarting {
			warmStartAll(in, idx)
		}

		solveAll(in, idx, h, true)

		for _, b := range dynamicBodies {
			state := in.Bodies.State(b)
			*state = IntegratePosition(*state, h)
		}

		solveAll(in, idx, h, false)
	}

	applyRestitutionAll(in)

	// Storing converged impulses back onto each contact's Manifold (spec.md
	// §4.6 step 8) is left to the caller: the root package owns the
	// persistent Manifold alongside its contact cache entry and calls
	// ContactConstraint.StoreImpulses(m) for each of in.Contacts right after
	// RunStep returns, before the next step's PrepareContact.
}

func collectDynamicBodies(in StepInput) []id.ID {
	seen := make(map[id.ID]bool)
	var out []id.ID
	add := func(b id.ID) {
		if b == id.Nil || seen[b] {
			return
		}
		if in.Bodies.Sim(b).InvMass == 0 && in.Bodies.Sim(b).InvInertia == 0 {
			return
		}
		seen[b] = true
		out = append(out, b)
	}
	for _, c := range in.Contacts {
		add(c.BodyA)
		add(c.BodyB)
	}
	for _, j := range in.Joints {
		add(j.Base.BodyA)
		add(j.Base.BodyB)
	}
	return out
}

func warmStartAll(in StepInput, idx constraintIndex) {
	for i := 0; i <= MaxColors; i++ {
		color := colorAt(in.Graph, i)
		for _, ref := range color.Constraints {
			if ref.IsJoint {
				j := idx.joints[ref.ID]
				simA, simB := in.Bodies.Sim(ref.BodyA), in.Bodies.Sim(ref.BodyB)
				stateA, stateB := in.Bodies.State(ref.BodyA), in.Bodies.State(ref.BodyB)
				j.Solver.WarmStart(simA, simB, stateA, stateB)
			} else {
				c := idx.contacts[ref.ID]
				simA, simB := in.Bodies.Sim(ref.BodyA), in.Bodies.Sim(ref.BodyB)
				stateA, stateB := in.Bodies.State(ref.BodyA), in.Bodies.State(ref.BodyB)
				c.WarmStart(simA, simB, stateA, stateB)
			}
		}
	}
}

func solveAll(in StepInput, idx constraintIndex, h float64, useBias bool) {
	for i := 0; i <= MaxColors; i++ {
		color := colorAt(in.Graph, i)
		for _, ref := range color.Constraints {
			simA, simB := in.Bodies.Sim(ref.BodyA), in.Bodies.Sim(ref.BodyB)
			stateA, stateB := in.Bodies.State(ref.BodyA), in.Bodies.State(ref.BodyB)
			if ref.IsJoint {
				j := idx.joints[ref.ID]
				j.Solver.SolveVelocity(simA, simB, stateA, stateB, h, useBias)
			} else {
				c := idx.contacts[ref.ID]
				c.SolveVelocity(simA, simB, stateA, stateB, h, useBias)
			}
		}
	}
}

// colorAt returns Graph.Colors[i] for i < MaxColors, or the Overflow
// color for i == MaxColors, so warmStartAll/solveAll can walk colors and
// overflow with one loop.
func colorAt(g *Graph, i int) Color {
	if i == MaxColors {
		return g.Overflow
	}
	return g.Colors[i]
}

func applyRestitutionAll(in StepInput) {
	threshold := in.RestitutionThreshold
	if threshold == 0 {
		threshold = defaultRestitutionThreshold
	}
	for _, c := range in.Contacts {
		simA, simB := in.Bodies.Sim(c.BodyA), in.Bodies.Sim(c.BodyB)
		stateA, stateB := in.Bodies.State(c.BodyA), in.Bodies.State(c.BodyB)
		c.ApplyRestitution(simA, simB, stateA, stateB, threshold)
	}
}

