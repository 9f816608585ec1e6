// Copyright 2026 The Rigid2D Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rigid2d

import (
	"math"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// TaskCallback is one parallel-for body: it processes items [start, end)
// and may use workerIndex to select its worker-local scratch slot (spec.md
// §5 "a workerIndex in [0, workerCount) that uniquely identifies a
// worker's scratch storage slot").
type TaskCallback func(start, end, workerIndex int)

// Task is the opaque handle EnqueueTask returns; FinishTask joins it. A nil
// Task means EnqueueTask already ran the callback synchronously (spec.md
// §6 "A null return signals synchronous execution"), so Step never calls
// FinishTask(nil).
type Task any

// Executor is the embedder-supplied task system (spec.md §6, §9 "Task
// parallelism"). World falls back to NewDefaultTaskExecutor when the
// WorldDef does not supply one.
type Executor interface {
	EnqueueTask(cb TaskCallback, itemCount, minRange int) Task
	FinishTask(t Task)
}

// TaskExecutor is the module's standalone default Executor, built on
// golang.org/x/sync/errgroup rather than a hand-rolled worker pool, grounded
// on SolarLune-tetra3d's go.mod carrying golang.org/x/sync in this pack's
// game-engine dependency cluster. Its per-call range-splitting mirrors
// pthm-soup's game/parallel.go worker-pool pattern (split an item range
// into workerCount contiguous chunks, one goroutine per chunk, join with a
// single wait group/errgroup rather than a persistent pool of long-lived
// goroutines).
type TaskExecutor struct {
	workerCount int
}

// NewDefaultTaskExecutor returns a TaskExecutor that splits each task
// across workerCount goroutines (at least 1). Embedders that care about
// thread placement, pinning, or a persistent pool should supply their own
// Executor instead; TaskExecutor exists so the module runs standalone in
// tests and examples.
func NewDefaultTaskExecutor(workerCount int) *TaskExecutor {
	if workerCount <= 0 {
		workerCount = runtime.GOMAXPROCS(0)
	}
	return &TaskExecutor{workerCount: workerCount}
}

type errgroupTask struct {
	g *errgroup.Group
}

// EnqueueTask splits [0, itemCount) into up to workerCount contiguous
// chunks, using no more than ceil(itemCount/minRange) chunks, and runs one
// goroutine per chunk; a chunk can still hold fewer than minRange items. Small
// workloads (itemCount <= minRange, or a single available worker) run
// synchronously and return a nil Task.
func (e *TaskExecutor) EnqueueTask(cb TaskCallback, itemCount, minRange int) Task {
	if itemCount <= 0 {
		return nil
	}
	workers := e.workerCount
	if minRange > 0 {
		if maxWorkers := int(math.Ceil(float64(itemCount) / float64(minRange))); maxWorkers < workers {
			workers = maxWorkers
		}
	}
	if workers <= 1 {
		cb(0, itemCount, 0)
		return nil
	}

	chunk := (itemCount + workers - 1) / workers
	var g errgroup.Group
	for w := 0; w < workers; w++ {
		start := w * chunk
		if start >= itemCount {
			break
		}
		end := start + chunk
		if end > itemCount {
			end = itemCount
		}
		workerIndex := w
		g.Go(func() error {
			cb(start, end, workerIndex)
			return nil
		})
	}
	return &errgroupTask{g: &g}
}

// FinishTask joins the goroutines EnqueueTask launched. Called with nil
// only never happens: callers must skip FinishTask when EnqueueTask
// returned nil (spec.md §6 "not called when EnqueueTask returned null").
func (e *TaskExecutor) FinishTask(t Task) {
	if t == nil {
		return
	}
	if eg, ok := t.(*errgroupTask); ok {
		_ = eg.g.Wait()
	}
}

// FrictionMixFunc combines two shapes' friction coefficients (spec.md §6
// "Mixing callbacks (worker-safe, no world mutation)").
type FrictionMixFunc func(frictionA float64, materialIDA uint32, frictionB float64, materialIDB uint32) float64

// RestitutionMixFunc combines two shapes' restitution coefficients.
type RestitutionMixFunc func(restitutionA float64, materialIDA uint32, restitutionB float64, materialIDB uint32) float64

// DefaultFrictionMix is sqrt(fA*fB) per spec.md §6.
func DefaultFrictionMix(frictionA float64, _ uint32, frictionB float64, _ uint32) float64 {
	return math.Sqrt(frictionA * frictionB)
}

// DefaultRestitutionMix is max(rA,rB) per spec.md §6.
func DefaultRestitutionMix(restitutionA float64, _ uint32, restitutionB float64, _ uint32) float64 {
	return math.Max(restitutionA, restitutionB)
}

// CustomFilterFunc is a per-pair collision veto (spec.md §6 "User
// callbacks (world-mutation forbidden)"). A nil CustomFilterFunc accepts
// every pair that passes the bitmask/group Filter test.
type CustomFilterFunc func(shapeA, shapeB ShapeID) bool

// PreSolveFunc is a last-chance contact veto evaluated right before the
// velocity solve consumes a manifold point; it must not mutate world
// state. A nil PreSolveFunc accepts every point.
type PreSolveFunc func(shapeA, shapeB ShapeID, point, normal [2]float64) bool
