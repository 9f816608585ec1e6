// Copyright 2026 The Rigid2D Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package id

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZeroIDIsInvalid(t *testing.T) {
	assert.False(t, ID{}.Valid())
	assert.Equal(t, ID{}, Nil)
}

func TestAllocResolveRelocate(t *testing.T) {
	p := NewPool(7)
	a := p.Alloc(0, 3)
	require.True(t, a.Valid())
	assert.Equal(t, uint16(7), a.WorldSlot)

	setIndex, localIndex, ok := p.Resolve(a)
	require.True(t, ok)
	assert.Equal(t, 0, setIndex)
	assert.Equal(t, 3, localIndex)

	p.Relocate(a, 1, 9)
	setIndex, localIndex, ok = p.Resolve(a)
	require.True(t, ok)
	assert.Equal(t, 1, setIndex)
	assert.Equal(t, 9, localIndex)
}

func TestFreeInvalidatesAndBumpsGeneration(t *testing.T) {
	p := NewPool(0)
	a := p.Alloc(0, 0)
	p.Free(a)

	_, _, ok := p.Resolve(a)
	assert.False(t, ok, "a freed id must not resolve")

	b := p.Alloc(0, 0)
	assert.Equal(t, a.Index, b.Index, "the freed slot should be recycled")
	assert.NotEqual(t, a.Generation, b.Generation, "recycling must bump the generation")

	_, _, ok = p.Resolve(a)
	assert.False(t, ok, "the stale id must still not resolve after its slot is reused")
}

func TestResolveRejectsWrongWorldSlot(t *testing.T) {
	p := NewPool(1)
	a := p.Alloc(0, 0)
	a.WorldSlot = 2
	_, _, ok := p.Resolve(a)
	assert.False(t, ok, "an id from a different world slot must never resolve")
}

func TestFreeListReusesSlotsInLIFOOrder(t *testing.T) {
	p := NewPool(0)
	a := p.Alloc(0, 0)
	b := p.Alloc(0, 0)
	p.Free(a)
	p.Free(b)

	c := p.Alloc(0, 0)
	assert.Equal(t, b.Index, c.Index, "the most recently freed slot should be reused first")
}
