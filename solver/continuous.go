// Copyright 2026 The Rigid2D Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package solver

import (
	"github.com/rigid2d/rigid2d/distance"
	"github.com/rigid2d/rigid2d/id"
	"github.com/rigid2d/rigid2d/math2"
	"github.com/rigid2d/rigid2d/shape"
)

// CCDTarget is one candidate a bullet body is swept against: its own
// proxy and the sweep describing its motion (or a stationary sweep for a
// static/kinematic body) over the step.
type CCDTarget struct {
	BodyID id.ID
	Proxy  shape.Proxy
	Sweep  math2.Sweep
}

// CCDResult reports the earliest impact found for one bullet, or
// Hit=false if nothing was struck before the end of the step.
type CCDResult struct {
	OtherBody id.ID
	Fraction  float64
	Hit       bool
}

// SolveContinuous implements spec.md §4.6 "Continuous collision
// (bullets)": compute TOI between the bullet's proxy/sweep and every
// candidate target (dynamic and kinematic bodies in its predicted swept
// AABB, supplied by the caller after a broad-phase query; bullets never
// CCD against other bullets, so the caller excludes them), and return the
// earliest fraction found so the body's sweep can be advanced and
// clamped there.
func SolveContinuous(bulletProxy shape.Proxy, bulletSweep math2.Sweep, targets []CCDTarget) CCDResult {
	best := CCDResult{Fraction: 1}
	for _, target := range targets {
		out := distance.TimeOfImpact(distance.TOIInput{
			ProxyA: bulletProxy, ProxyB: target.Proxy,
			SweepA: bulletSweep, SweepB: target.Sweep,
			MaxFraction: best.Fraction,
		})
		if out.State == distance.StateHit && out.Fraction < best.Fraction {
			best = CCDResult{OtherBody: target.BodyID, Fraction: out.Fraction, Hit: true}
		}
	}
	return best
}
