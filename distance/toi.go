// Copyright 2026 The Rigid2D Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package distance

import (
	"github.com/rigid2d/rigid2d/math2"
	"github.com/rigid2d/rigid2d/shape"
)

// State is the outcome of a TimeOfImpact query (spec.md §4.2 "TOI states").
type State int

const (
	// StateUnknown means the root finder never ran (should not escape this
	// package).
	StateUnknown State = iota
	// StateFailed means the root finder could not bracket a root within
	// the iteration budget; callers should treat this conservatively as a
	// near-miss and retry next step.
	StateFailed
	// StateOverlapped means the shapes already overlap at t=0.
	StateOverlapped
	// StateHit means a root was found: the shapes first touch at Fraction.
	StateHit
	// StateSeparated means the shapes never come within target separation
	// over the full sweep.
	StateSeparated
)

// TOIInput describes two shapes sweeping from their sweep's t=0 to t=1.
type TOIInput struct {
	ProxyA, ProxyB shape.Proxy
	SweepA, SweepB math2.Sweep
	// MaxFraction bounds the search, normally 1.
	MaxFraction float64
}

// TOIOutput reports the root-finding result.
type TOIOutput struct {
	State      State
	Fraction   float64
	Iterations int
}

const toiMaxRootIterations = 50

// TimeOfImpact computes the first fraction in [0, MaxFraction] at which
// two swept convex proxies come within target separation, using bilateral
// advancement: at each candidate fraction t, compute the GJK separation
// function along the fixed witness normal found at the bracket's current
// endpoints, and bisect toward the root (spec.md §4.2 "bilateral
// advancement"). The root is found by bisection alone; no secant or
// Newton step is taken.
func TimeOfImpact(input TOIInput) TOIOutput {
	target := maxFloat(linearSlop, input.ProxyA.Radius+input.ProxyB.Radius-3*linearSlop)
	tolerance := 0.25 * linearSlop

	t1 := 0.0
	maxFraction := input.MaxFraction
	if maxFraction <= 0 {
		maxFraction = 1
	}

	var cache Cache
	iter := 0
	for ; iter < toiMaxRootIterations; iter++ {
		xfA := input.SweepA.Transform(t1)
		xfB := input.SweepB.Transform(t1)

		out := Distance(Input{
			ProxyA: input.ProxyA, ProxyB: input.ProxyB,
			TransformA: xfA, TransformB: xfB,
			UseRadii: false,
		}, &cache)

		if out.Distance <= 0 {
			return TOIOutput{State: StateOverlapped, Fraction: 0, Iterations: iter + 1}
		}
		if out.Distance < target+tolerance {
			return TOIOutput{State: StateHit, Fraction: t1, Iterations: iter + 1}
		}

		// Bracket [t1, t2] and find the root of the separation function
		// along the witness normal using the fixed-normal approximation
		// (conservative advancement within the bracket).
		t2 := maxFraction
		root, state, rootIter := findRoot(input, out.Normal, t1, t2, target, tolerance)
		iter += rootIter
		if state == StateSeparated {
			return TOIOutput{State: StateSeparated, Fraction: maxFraction, Iterations: iter + 1}
		}
		t1 = root
		if t1 >= maxFraction {
			return TOIOutput{State: StateSeparated, Fraction: maxFraction, Iterations: iter + 1}
		}
	}

	return TOIOutput{State: StateFailed, Fraction: t1, Iterations: iter}
}

// findRoot evaluates the separation along a fixed witness normal at the
// current bracket endpoints and bisects toward the target band, mirroring
// the conservative-advancement step used by ShapeCast but applied
// symmetrically to both sweeps (hence "bilateral").
func findRoot(input TOIInput, normal math2.Vec2, t1, t2, target, tolerance float64) (root float64, state State, iterations int) {
	const maxIter = 20
	lo, hi := t1, t2

	separationAt := func(t float64) float64 {
		xfA := input.SweepA.Transform(t)
		xfB := input.SweepB.Transform(t)
		pA := support(input.ProxyA, xfA, normal)
		pB := support(input.ProxyB, xfB, normal.Neg())
		return pB.Sub(pA).Dot(normal)
	}

	sHi := separationAt(hi)
	if sHi > target+tolerance {
		return hi, StateSeparated, 1
	}

	i := 0
	for ; i < maxIter; i++ {
		mid := 0.5 * (lo + hi)
		s := separationAt(mid)
		if absFloat(s-target) < tolerance {
			return mid, StateHit, i + 1
		}
		if s > target {
			lo = mid
		} else {
			hi = mid
		}
	}
	return hi, StateHit, i
}

func support(p shape.Proxy, xf math2.Transform, dir math2.Vec2) math2.Vec2 {
	point, _ := worldSupport(p, xf, dir)
	return point
}

func absFloat(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
