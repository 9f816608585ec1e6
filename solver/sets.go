// Copyright 2026 The Rigid2D Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package solver

import "github.com/rigid2d/rigid2d/id"

// SetKind identifies which of the fixed solver sets a body currently
// belongs to (spec.md §4.4; the data-model section enumerates
// Static/Disabled/Awake/Sleeping[i]).
type SetKind int32

const (
	SetStatic SetKind = iota
	SetDisabled
	SetAwake
	// SetSleepingBase is the first of the dynamically-allocated sleeping
	// sets; sleeping set index i is SetSleepingBase+i.
	SetSleepingBase
)

// Set holds one solver set's bodies in struct-of-arrays form: BodySim is
// the solver-facing mass/damping data, BodyState the per-step mutable
// velocity/delta-pose data. Every set, Static and Disabled included, holds
// a BodySim and BodyState for each of its bodies.
type Set struct {
	Kind SetKind

	BodyIDs []id.ID
	Sims    []BodySim
	States  []BodyState
}

// IndexOf returns the local index of b within the set, or -1.
func (s *Set) IndexOf(b id.ID) int {
	for i, candidate := range s.BodyIDs {
		if candidate == b {
			return i
		}
	}
	return -1
}

// Add appends a body with its sim/state data and returns its local index.
func (s *Set) Add(b id.ID, sim BodySim, state BodyState) int {
	s.BodyIDs = append(s.BodyIDs, b)
	s.Sims = append(s.Sims, sim)
	s.States = append(s.States, state)
	return len(s.BodyIDs) - 1
}

// RemoveSwap removes the body at localIndex using swap-with-last, as the
// teacher's equation/constraint slices do (see
// _teacher_seed/physics/solver/solver.go's RemoveEquation), returning the
// id.ID of whichever body was moved into localIndex (or id.Nil if
// localIndex was already last).
func (s *Set) RemoveSwap(localIndex int) id.ID {
	last := len(s.BodyIDs) - 1
	moved := id.Nil
	if localIndex != last {
		s.BodyIDs[localIndex] = s.BodyIDs[last]
		s.Sims[localIndex] = s.Sims[last]
		s.States[localIndex] = s.States[last]
		moved = s.BodyIDs[localIndex]
	}
	s.BodyIDs = s.BodyIDs[:last]
	s.Sims = s.Sims[:last]
	s.States = s.States[:last]
	return moved
}

// Registry owns every solver set and the allocation of sleeping-set
// indices.
type Registry struct {
	Static   Set
	Disabled Set
	Awake    Set
	Sleeping []Set
}

// NewRegistry returns a Registry with the three fixed sets initialized.
func NewRegistry() *Registry {
	return &Registry{
		Static:   Set{Kind: SetStatic},
		Disabled: Set{Kind: SetDisabled},
		Awake:    Set{Kind: SetAwake},
	}
}

// NewSleepingSet allocates a fresh sleeping set and returns its SetKind.
func (r *Registry) NewSleepingSet() SetKind {
	kind := SetSleepingBase + SetKind(len(r.Sleeping))
	r.Sleeping = append(r.Sleeping, Set{Kind: kind})
	return kind
}

// SetByKind returns a pointer to the set identified by kind.
func (r *Registry) SetByKind(kind SetKind) *Set {
	switch {
	case kind == SetStatic:
		return &r.Static
	case kind == SetDisabled:
		return &r.Disabled
	case kind == SetAwake:
		return &r.Awake
	case kind >= SetSleepingBase:
		idx := int(kind - SetSleepingBase)
		if idx < 0 || idx >= len(r.Sleeping) {
			return nil
		}
		return &r.Sleeping[idx]
	default:
		return nil
	}
}
