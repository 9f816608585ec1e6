// Copyright 2026 The Rigid2D Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package broadphase

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rigid2d/rigid2d/aabb"
	"github.com/rigid2d/rigid2d/math2"
)

func box(x, y, hx, hy float64) aabb.AABB {
	return aabb.New(math2.V2(x-hx, y-hy), math2.V2(x+hx, y+hy))
}

func TestTree_InsertAndValidate(t *testing.T) {
	tree := NewTree(DefaultConfig())
	var proxies []int32
	for i := 0; i < 50; i++ {
		p := tree.CreateProxy(box(float64(i), float64(i%7), 0.5, 0.5), 1, uint64(i))
		proxies = append(proxies, p)
		require.NoError(t, tree.Validate())
	}
	assert.Equal(t, 50, tree.ProxyCount())
}

func TestTree_RoundTripRemoveLeavesTreeConsistent(t *testing.T) {
	tree := NewTree(DefaultConfig())
	for i := 0; i < 10; i++ {
		tree.CreateProxy(box(float64(i)*2, 0, 0.5, 0.5), 1, uint64(i))
	}
	statsBefore := tree.Stats()

	p := tree.CreateProxy(box(100, 100, 0.5, 0.5), 1, 999)
	tree.DestroyProxy(p)

	require.NoError(t, tree.Validate())
	statsAfter := tree.Stats()
	assert.Equal(t, statsBefore.ProxyCount, statsAfter.ProxyCount)
	assert.Equal(t, statsBefore.NodeCount, statsAfter.NodeCount)
}

func TestTree_QueryFindsOverlapping(t *testing.T) {
	tree := NewTree(DefaultConfig())
	tree.CreateProxy(box(0, 0, 0.5, 0.5), 1, 1)
	tree.CreateProxy(box(10, 10, 0.5, 0.5), 1, 2)
	tree.CreateProxy(box(0.4, 0, 0.5, 0.5), 1, 3)

	var hits []uint64
	tree.Query(box(0, 0, 1, 1), ^uint64(0), func(proxyID int32, userData uint64) bool {
		hits = append(hits, userData)
		return true
	})

	assert.ElementsMatch(t, []uint64{1, 3}, hits)
}

func TestTree_QueryRespectsCategoryMask(t *testing.T) {
	tree := NewTree(DefaultConfig())
	tree.CreateProxy(box(0, 0, 0.5, 0.5), 0b001, 1)
	tree.CreateProxy(box(0, 0, 0.5, 0.5), 0b010, 2)

	var hits []uint64
	tree.Query(box(0, 0, 1, 1), 0b010, func(proxyID int32, userData uint64) bool {
		hits = append(hits, userData)
		return true
	})
	assert.Equal(t, []uint64{2}, hits)
}

func TestTree_RayCastClosest(t *testing.T) {
	// Mirrors spec.md §8 scenario 5: three circles' bounding boxes on the
	// x-axis at x=1,3,5; a ray along +X should report the nearest first
	// and allow the callback to shrink the search fraction.
	tree := NewTree(DefaultConfig())
	tree.CreateProxy(box(1, 0, 0.5, 0.5), 1, 1)
	tree.CreateProxy(box(3, 0, 0.5, 0.5), 1, 2)
	tree.CreateProxy(box(5, 0, 0.5, 0.5), 1, 3)

	var closestFraction = 1.0
	var closestID uint64
	tree.RayCast(math2.V2(0, 0), math2.V2(10, 0), 1.0, ^uint64(0), func(proxyID int32, userData uint64, point, normal math2.Vec2, fraction float64) float64 {
		if fraction < closestFraction {
			closestFraction = fraction
			closestID = userData
		}
		return fraction
	})

	assert.Equal(t, uint64(1), closestID)
	assert.InDelta(t, 0.05, closestFraction, 0.01)
}

func TestTree_RebuildPreservesProxyCountAndValidity(t *testing.T) {
	tree := NewTree(DefaultConfig())
	for i := 0; i < 100; i++ {
		tree.CreateProxy(box(float64(i%10), float64(i/10), 0.4, 0.4), 1, uint64(i))
	}
	tree.Rebuild()
	require.NoError(t, tree.Validate())
	assert.Equal(t, 100, tree.ProxyCount())

	statsBefore := tree.Stats()
	assert.Less(t, statsBefore.AreaRatio, 50.0) // generous bound; mainly guards against pathological blowup
}

func TestTree_MoveProxyNoopWhenWithinFatBox(t *testing.T) {
	tree := NewTree(DefaultConfig())
	p := tree.CreateProxy(box(0, 0, 0.5, 0.5), 1, 1)
	moved := tree.MoveProxy(p, box(0.01, 0, 0.5, 0.5), math2.V2(0.01, 0))
	assert.False(t, moved)
}
