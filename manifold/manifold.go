// Copyright 2026 The Rigid2D Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package manifold implements the pairwise contact-manifold generators of
// spec.md §4.3: for every ordered shape-kind pair it produces up to two
// contact points with a shared normal (A→B), per-body anchor offsets, a
// penetration separation, and a persistent feature id for warm-starting.
// The teacher engine's narrowphase.go resolves collisions the same
// way — a per-pair-type dispatch table calling dedicated geometric
// routines — but only for 3D sphere/box/plane pairs; this package
// generalizes that dispatch idiom to the 2D shape set spec.md requires.
package manifold

import "github.com/rigid2d/rigid2d/math2"

// maxManifoldPoints bounds every generator's output (spec.md §4.3
// "points[≤2]").
const maxManifoldPoints = 2

// Point is one contact point within a Manifold.
type Point struct {
	Point      math2.Vec2 // world-space contact position
	AnchorA    math2.Vec2 // offset from shape A's transform origin (not necessarily the body's center of mass; the solver re-derives a center-of-mass-relative anchor in PrepareContact)
	AnchorB    math2.Vec2 // offset from shape B's transform origin
	Separation float64    // negative means penetrating
	ID         uint16     // persists across steps for warm-starting

	// NormalImpulse, TangentImpulse, and MaxNormalImpulse are populated and
	// consumed by the solver; they live here so a manifold doubles as the
	// solver's per-contact-point persistent state across steps.
	NormalImpulse    float64
	TangentImpulse   float64
	MaxNormalImpulse float64
	RelativeVelocity float64 // approach speed at prepare time, for restitution
}

// Manifold is the result of a narrow-phase pair test: a shared normal
// (pointing from shape A toward shape B) and up to two contact points.
type Manifold struct {
	Normal     math2.Vec2
	Points     [maxManifoldPoints]Point
	PointCount int
}

// makeFeatureID packs two small feature indices (e.g. vertex/edge indices
// on A and B) into one persistent id. The exact packing doesn't matter,
// only that it is stable across steps for the same geometric feature
// pair, which is what warm-starting depends on (spec.md §4.3).
func makeFeatureID(indexA, indexB uint8) uint16 {
	return uint16(indexA)<<8 | uint16(indexB)
}

// worldAnchors converts a world contact point into offsets from the two
// given points; Generate passes the shapes' transform origins, so these are
// not center-of-mass-relative (see Point.AnchorA).
func worldAnchors(point, centerA, centerB math2.Vec2) (anchorA, anchorB math2.Vec2) {
	return point.Sub(centerA), point.Sub(centerB)
}
