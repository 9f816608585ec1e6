// Copyright 2026 The Rigid2D Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package id implements the stable {index, generation, worldSlot} handle
// scheme described in spec.md §3 and the "Handle-based references across
// moveable storage" design note in §9: a sparse id maps to (setIndex,
// localIndex), generation counters detect staleness after index recycling.
package id

// ID is a stable, user-visible handle. The zero value is never a valid id
// (Index 0 is reserved as a sentinel), matching teacher's pattern of using
// -1/zero sentinels (e.g. Body.index, Simulation.nilBodies) rather than a
// separate "ok" flag threaded through every lookup.
type ID struct {
	Index      uint32
	Generation uint16
	WorldSlot  uint16
}

// Nil is the invalid id.
var Nil = ID{}

func (i ID) Valid() bool { return i.Index != 0 }

// entry is the pool's per-slot bookkeeping: current generation and, for a
// free slot, the index of the next free slot (a free list threaded through
// the same array the live entries live in, the same trick the teacher
// engine's Simulation.nilBodies list uses for body-array slot reuse).
type entry struct {
	generation uint16
	setIndex   int32 // which solver set currently owns this id, -1 if free
	localIndex int32 // index within that set's arrays
}

// Pool allocates, recycles, and resolves IDs for one category of entity
// (bodies, shapes, joints, or contacts) within one world slot.
type Pool struct {
	worldSlot uint16
	entries   []entry
	freeHead  int32 // index of first free entry, -1 if none
}

// NewPool creates a pool for the given world slot (each World owns one
// pool per entity category; worldSlot disambiguates ids across worlds that
// might otherwise collide in a long-running embedder process).
func NewPool(worldSlot uint16) *Pool {
	p := &Pool{worldSlot: worldSlot, freeHead: -1}
	// Reserve index 0 so ID{} (Index==0) is never valid.
	p.entries = append(p.entries, entry{generation: 0, setIndex: -1, localIndex: -1})
	return p
}

// Alloc reserves a new id pointing at (setIndex, localIndex).
func (p *Pool) Alloc(setIndex, localIndex int) ID {
	if p.freeHead >= 0 {
		idx := p.freeHead
		e := &p.entries[idx]
		p.freeHead = e.localIndex // free-list next, reusing the field
		e.setIndex = int32(setIndex)
		e.localIndex = int32(localIndex)
		return ID{Index: uint32(idx), Generation: e.generation, WorldSlot: p.worldSlot}
	}
	idx := uint32(len(p.entries))
	p.entries = append(p.entries, entry{generation: 0, setIndex: int32(setIndex), localIndex: int32(localIndex)})
	return ID{Index: idx, Generation: 0, WorldSlot: p.worldSlot}
}

// Free recycles the id's slot, bumping its generation so stale copies of
// this id are detectable, and threads it onto the free list.
func (p *Pool) Free(i ID) {
	if !p.resolvableSlot(i) {
		return
	}
	e := &p.entries[i.Index]
	e.generation++
	e.setIndex = -1
	e.localIndex = p.freeHead
	p.freeHead = int32(i.Index)
}

// Relocate updates the (setIndex, localIndex) an id resolves to, used after
// a solver-set migration or a swap-remove within a set.
func (p *Pool) Relocate(i ID, setIndex, localIndex int) {
	if !p.resolvableSlot(i) {
		return
	}
	e := &p.entries[i.Index]
	if e.generation != i.Generation {
		return
	}
	e.setIndex = int32(setIndex)
	e.localIndex = int32(localIndex)
}

// Resolve returns the (setIndex, localIndex) an id currently points at, and
// whether the id is valid (correct world slot, in range, matching
// generation, and not on the free list).
func (p *Pool) Resolve(i ID) (setIndex, localIndex int, ok bool) {
	if !p.resolvableSlot(i) {
		return 0, 0, false
	}
	e := p.entries[i.Index]
	if e.generation != i.Generation || e.setIndex < 0 {
		return 0, 0, false
	}
	return int(e.setIndex), int(e.localIndex), true
}

func (p *Pool) resolvableSlot(i ID) bool {
	return i.Valid() && i.WorldSlot == p.worldSlot && int(i.Index) < len(p.entries)
}
