// Copyright 2026 The Rigid2D Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package rigid2d implements the CORE of a 2D rigid-body physics engine
// (spec.md §1): a World that owns bodies, shapes, contacts, and joints and
// advances them with Step, built on the broadphase/distance/manifold/solver
// packages. This generalizes the teacher engine's physics.Simulation, which
// owns a flat []*RigidBody plus a single GaussSeidel solver pass and a naive
// O(n²) broadphase stub, into the full pipeline spec.md §2 describes: a
// dynamic BVH, GJK-based narrow phase, island partitioning, constraint graph
// coloring, and a TGS substepped solver.
package rigid2d

import (
	"errors"
	"log"
)

// debugBuild gates internalInvariant checks and verbose logging, matching
// teacher's pattern of guarding diagnostic-only work (e.g. Simulation's
// commented-out debug dispatches) behind a compile-time switch rather than
// paying the cost in release builds.
const debugBuild = false

// Sentinel errors for the four-class taxonomy of spec.md §7. InvalidId and
// InternalInvariantFailure conditions are usually absorbed silently (a
// public getter on a stale id returns a zero value, not an error) per
// spec.md "Public getters/setters are idempotent and safe on destroyed
// ids". No function in this package currently returns these sentinels:
// the shape constructors and CreateJoint report an invalid body id by
// returning id.Nil, and CreateBody always succeeds.
var (
	// ErrInvalidID denotes a stale or zero id passed to an API that cannot
	// proceed without a valid entity (spec.md §7 "InvalidId").
	ErrInvalidID = errors.New("rigid2d: invalid id")

	// ErrPrecondition denotes user input that violates a precondition
	// (NaN/Inf, non-positive density, degenerate geometry) that must be
	// rejected at entry with no state change (spec.md §7
	// "PreconditionViolation").
	ErrPrecondition = errors.New("rigid2d: precondition violation")

	// ErrCapacityExhausted denotes an API failing to grow against a
	// caller-supplied capacity cap; ordinary id-pool
	// growth and graph-color overflow are NOT errors (spec.md §7
	// "CapacityExhausted... is handled by the overflow color (not an
	// error); id-pool growth reallocates").
	ErrCapacityExhausted = errors.New("rigid2d: capacity exhausted")
)

// logger is the ambient structured-ish logger: teacher (g3n-engine) carries
// no third-party logging library anywhere in physics/, relying on bare
// fmt/core.Dispatcher, so this module stays on the standard library's
// log.Logger rather than reaching for a dependency with no teacher
// precedent.
var logger = log.New(log.Writer(), "rigid2d: ", log.LstdFlags)

// internalInvariant panics in debug builds when cond is false, and is a
// no-op otherwise (spec.md §7 "InternalInvariantFailure — debug-only
// assertion; release builds carry on with clamped values").
func internalInvariant(cond bool, msg string) {
	if debugBuild && !cond {
		panic("rigid2d: internal invariant violated: " + msg)
	}
}
