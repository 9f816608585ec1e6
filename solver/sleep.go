// Copyright 2026 The Rigid2D Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package solver

import (
	"math"

	"github.com/rigid2d/rigid2d/id"
)

// Default sleep thresholds (spec.md §4.4 "Sleeping": bodies below
// sleepLinearVelocity/sleepAngularVelocity for sleepTimeThreshold
// accumulate sleep time; an island sleeps once every dynamic member has
// reached the threshold).
const (
	DefaultSleepLinearVelocity  = 0.01
	DefaultSleepAngularVelocity = 2.0 / 180.0 * math.Pi
	DefaultSleepTimeThreshold   = 0.5
)

// UpdateSleepTime advances or resets one body's accumulated SleepTime for
// a step of length h, given its velocity at the end of the step. Bodies
// with EnableSleep false never accumulate (their SleepTime is pinned at
// 0, so they can never make an island's MinSleepTime cross threshold).
func UpdateSleepTime(sim *BodySim, state BodyState, h, linearThreshold, angularThreshold float64) {
	if !sim.EnableSleep {
		sim.SleepTime = 0
		return
	}
	if state.LinearVelocity.LengthSquared() > linearThreshold*linearThreshold ||
		math.Abs(state.AngularVelocity) > angularThreshold {
		sim.SleepTime = 0
		return
	}
	sim.SleepTime += h
}

// ReadyToSleep reports whether every dynamic body in the island has
// accumulated at least sleepTimeThreshold seconds of low motion.
func (isl *Island) ReadyToSleep(sleepTimeThreshold float64) bool {
	return len(isl.Bodies) > 0 && isl.MinSleepTime >= sleepTimeThreshold
}

// PutIslandToSleep moves every body in the island from the Awake set
// into a freshly allocated sleeping set, zeroing velocities so a sleeping
// body's BodyState never drifts (spec.md §4.4 "move to a new sleeping
// set, zero velocities"). It returns the new set's kind, or SetAwake if
// the island had no bodies to move.
//
// RemoveSwap relocates whatever body was last in Awake into the slot just
// vacated, which can be a body belonging to a different island entirely;
// onMoved is invoked with that body's id and its new index so the caller
// can fix up whatever external id->index cache it keeps for the Awake
// set. onMoved may be nil if the caller keeps no such cache.
func PutIslandToSleep(reg *Registry, isl *Island, onMoved func(movedBody id.ID, newIndex int)) SetKind {
	if len(isl.Bodies) == 0 {
		return SetAwake
	}
	kind := reg.NewSleepingSet()
	sleeping := reg.SetByKind(kind)

	for _, b := range isl.Bodies {
		localIndex := reg.Awake.IndexOf(b)
		if localIndex < 0 {
			continue
		}
		sim := reg.Awake.Sims[localIndex]
		sim.SleepTime = 0

		sleeping.Add(b, sim, BodyState{})
		if moved := reg.Awake.RemoveSwap(localIndex); moved != id.Nil && onMoved != nil {
			onMoved(moved, localIndex)
		}
	}
	return kind
}

// WakeIsland moves every body in a sleeping set back into the Awake set,
// preserving its (zeroed) velocity state, and clears the now-empty
// sleeping set's contents. The caller is responsible for discarding the
// now-empty Set from Registry.Sleeping if it wants to reclaim the index
// slot; SetByKind keeps returning a valid empty Set either way.
func WakeIsland(reg *Registry, kind SetKind) {
	set := reg.SetByKind(kind)
	if set == nil {
		return
	}
	for i, b := range set.BodyIDs {
		reg.Awake.Add(b, set.Sims[i], set.States[i])
	}
	set.BodyIDs = set.BodyIDs[:0]
	set.Sims = set.Sims[:0]
	set.States = set.States[:0]
}

// TouchIslandAwake resets the sleep-time clock for every dynamic body in
// the island; called whenever new contact/joint activity or an external
// velocity change (e.g. a user force application) might invalidate an
// in-progress sleep countdown.
func TouchIslandAwake(reg *Registry, isl *Island) {
	for _, b := range isl.Bodies {
		if idx := reg.Awake.IndexOf(b); idx >= 0 {
			reg.Awake.Sims[idx].SleepTime = 0
		}
	}
}
