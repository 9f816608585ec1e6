// Copyright 2026 The Rigid2D Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package solver

import "github.com/rigid2d/rigid2d/id"

// Island groups bodies connected by awake, non-sensor touching contacts
// or non-filter joints (spec.md §4.4 "Island membership"). Only bodies in
// the Awake solver set belong to a live Island; a Sleeping set's members
// are implicitly one frozen island.
type Island struct {
	ID int32

	Bodies   []id.ID
	Contacts []id.ID
	Joints   []id.ID

	// SplitCandidate marks an island whose connectivity may have been
	// broken by a just-removed contact or joint (spec.md §4.4 "Island
	// split"); at most one flagged island is actually split per step.
	SplitCandidate bool

	// MinSleepTime is the minimum BodySim.SleepTime across the island's
	// dynamic bodies; the island sleeps once this reaches
	// sleepTimeThreshold (spec.md §4.4 "Sleeping").
	MinSleepTime float64
}

// Forest is a union-find over body handles used to merge islands in
// amortized-constant time when a contact or joint connects two bodies
// (spec.md §4.4 "A disjoint-set (union-find)... merges islands on
// contact/joint creation"). Splitting is handled separately by Split,
// since union-find has no efficient native "undo union" operation.
type Forest struct {
	parent map[id.ID]id.ID
	rank   map[id.ID]int
}

// NewForest returns an empty union-find forest.
func NewForest() *Forest {
	return &Forest{parent: make(map[id.ID]id.ID), rank: make(map[id.ID]int)}
}

// MakeSet registers a body as its own island root if not already present.
func (f *Forest) MakeSet(b id.ID) {
	if _, ok := f.parent[b]; !ok {
		f.parent[b] = b
		f.rank[b] = 0
	}
}

// Find returns the representative root of b's island, path-compressing
// along the way.
func (f *Forest) Find(b id.ID) id.ID {
	f.MakeSet(b)
	root := b
	for f.parent[root] != root {
		root = f.parent[root]
	}
	for f.parent[b] != root {
		f.parent[b], b = root, f.parent[b]
	}
	return root
}

// Union merges the islands containing a and b, by rank, returning the
// resulting root.
func (f *Forest) Union(a, b id.ID) id.ID {
	ra, rb := f.Find(a), f.Find(b)
	if ra == rb {
		return ra
	}
	if f.rank[ra] < f.rank[rb] {
		ra, rb = rb, ra
	}
	f.parent[rb] = ra
	if f.rank[ra] == f.rank[rb] {
		f.rank[ra]++
	}
	return ra
}

// AdjacencyBuilder accumulates island-graph edges (body<->body via a
// shared contact or joint) used by Split's BFS. The solver populates one
// per step from the active contact/joint list of the island being split.
type AdjacencyBuilder struct {
	edges map[id.ID][]id.ID
}

func NewAdjacencyBuilder() *AdjacencyBuilder {
	return &AdjacencyBuilder{edges: make(map[id.ID][]id.ID)}
}

func (a *AdjacencyBuilder) AddEdge(x, y id.ID) {
	a.edges[x] = append(a.edges[x], y)
	a.edges[y] = append(a.edges[y], x)
}

// Split performs a BFS from each of the island's bodies over the
// adjacency graph, assigning a new island id to every connected
// component found; the component containing the BFS's first unvisited
// body keeps the original island id (spec.md §4.4 "Splitting does a BFS
// from each still-connected body, assigning new island ids; O(n+m)").
// nextID is called to allocate each additional component's id.
func Split(bodies []id.ID, adjacency *AdjacencyBuilder, originalID int32, nextID func() int32) map[id.ID]int32 {
	assignment := make(map[id.ID]int32, len(bodies))
	visited := make(map[id.ID]bool, len(bodies))

	first := true
	for _, start := range bodies {
		if visited[start] {
			continue
		}
		componentID := originalID
		if !first {
			componentID = nextID()
		}
		first = false

		queue := []id.ID{start}
		visited[start] = true
		for len(queue) > 0 {
			cur := queue[0]
			queue = queue[1:]
			assignment[cur] = componentID
			for _, neighbor := range adjacency.edges[cur] {
				if !visited[neighbor] {
					visited[neighbor] = true
					queue = append(queue, neighbor)
				}
			}
		}
	}
	return assignment
}
