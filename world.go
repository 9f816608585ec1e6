// Copyright 2026 The Rigid2D Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rigid2d

import (
	"github.com/google/uuid"

	"github.com/rigid2d/rigid2d/broadphase"
	"github.com/rigid2d/rigid2d/distance"
	"github.com/rigid2d/rigid2d/id"
	"github.com/rigid2d/rigid2d/manifold"
	"github.com/rigid2d/rigid2d/math2"
	"github.com/rigid2d/rigid2d/shape"
	"github.com/rigid2d/rigid2d/solver"
)

// BodyID, ShapeID, and JointID are the stable user-visible handles spec.md
// §3 describes; they are all the same {index, generation, worldSlot}
// handle type, kept as distinct names only to document intent at call
// sites (mirroring teacher's convention of a single index type reused
// across Body/Geometry/Material with descriptive parameter names).
type (
	BodyID  = id.ID
	ShapeID = id.ID
	JointID = id.ID
)

// worldSlot disambiguates ids across worlds that might otherwise collide
// handles in a long-running embedder process hosting more than one World
// (id.Pool doc: "worldSlot disambiguates ids across worlds").
var nextWorldSlot uint16 = 1

// bodyRecord is the World-owned bookkeeping a body needs beyond the hot
// solver.BodySim/BodyState pair: its kind, owned shapes, force/torque
// accumulators (consumed and zeroed once per step by commitAwakeBodies),
// and the island it currently belongs to. Kept in a map rather than a
// second SoA array mirroring each solver.Set's swap-remove churn — an
// explicit, documented simplification (DESIGN.md "World body bookkeeping")
// trading some cache locality for a much smaller surface to get right
// without a compiler to check it.
type bodyRecord struct {
	ID     BodyID
	Kind   BodyKind
	Shapes []ShapeID

	Force  math2.Vec2
	Torque float64

	UserData interface{}
	Name     string
}

// shapeRecord is the World-owned geometry, material, and broad-phase
// linkage for one shape.
type shapeRecord struct {
	ID     ShapeID
	BodyID BodyID

	Kind         shape.Kind
	Circle       shape.Circle
	Capsule      shape.Capsule
	Segment      shape.Segment
	ChainSegment shape.ChainSegment
	Polygon      shape.Polygon

	Density     float64
	Friction    float64
	Restitution float64

	IsSensor            bool
	EnableContactEvents bool
	EnableSensorEvents  bool
	EnableHitEvents     bool

	Filter Filter

	UserData interface{}

	ProxyID int32
}

// jointRecord pairs a concrete solver joint implementation with its shared
// JointBase, so Step can dispatch through solver.JointSolver polymorphically
// (see solver/joint.go's JointInstance).
type jointRecord struct {
	Base   *solver.JointBase
	Solver solver.JointSolver
}

// contactKey identifies a shape pair in canonical (lower-id-first) order,
// so (A,B) and (B,A) always land on the same map entry.
type contactKey struct {
	ShapeA, ShapeB ShapeID
}

func makeContactKey(a, b ShapeID) contactKey {
	if a.Index > b.Index || (a.Index == b.Index && a.Generation > b.Generation) {
		a, b = b, a
	}
	return contactKey{ShapeA: a, ShapeB: b}
}

// contactRecord is one shape pair's persistent narrow-phase + solver state,
// matching spec.md §3 "Contacts": a manifold, a GJK simplex cache for
// warm-starting distance queries, derived friction/restitution, and the
// touching flag event emission diffs against.
type contactRecord struct {
	ShapeA, ShapeB ShapeID
	BodyA, BodyB   BodyID

	Manifold manifold.Manifold
	Cache    distance.Cache

	Friction    float64
	Restitution float64

	IsSensor bool
	Touching bool
}

// StepStats reports per-step counters (spec.md §4.6 supplement,
// original_source's physics_world.h "contactCount, jointCount, islandCount,
// staleIslandCount").
type StepStats struct {
	BodyCount    int
	ContactCount int
	TouchingCount int
	JointCount   int
	IslandCount  int
	StaleIslandCount int

	ColorStats solver.Stats
	TreeStats  broadphase.TreeStats
}

// World owns every body, shape, joint, and contact and advances them with
// Step. It generalizes the teacher engine's Simulation (a flat []*RigidBody
// plus one GaussSeidel pass) into the full pipeline of spec.md §2: a
// dynamic BVH, GJK narrow phase, island partitioning, constraint graph
// coloring, and a TGS substepped solver.
type World struct {
	def WorldDef

	// DebugID is a random per-World identifier set by NewWorld, for telling
	// Worlds in the same process apart; it is not written into StepStats or
	// any log line (not part of the id/handle system in spec.md §3; see
	// SPEC_FULL.md §3).
	DebugID uuid.UUID

	bodyIDs  *id.Pool
	shapeIDs *id.Pool
	jointIDs *id.Pool

	registry *solver.Registry
	bodies   map[BodyID]*bodyRecord

	tree   *broadphase.Tree
	shapes map[ShapeID]*shapeRecord

	joints map[JointID]*jointRecord

	contacts map[contactKey]*contactRecord

	graph *solver.Graph

	// pendingSleep marks bodies SetAwake(b, false) asked to sleep; Step's
	// sleep-evaluation phase reads these so forced sleep participates in the
	// same island-wide PutIslandToSleep path as timer-driven sleep, and
	// deletes the entries of the bodies it puts to sleep.
	pendingSleep map[BodyID]bool

	events eventBuffers

	taskExecutor Executor

	StepStats StepStats
}

// NewWorld returns a World configured by def, filling in zero-valued
// FrictionMix, RestitutionMix, SubStepCount (4), BroadphaseConfig, and the
// three sleep thresholds with defaults. Other zero-valued fields, such as
// Gravity or ContactHertz, are kept as given.
func NewWorld(def WorldDef) *World {
	zero := WorldDef{}
	if def.FrictionMix == nil {
		def.FrictionMix = DefaultFrictionMix
	}
	if def.RestitutionMix == nil {
		def.RestitutionMix = DefaultRestitutionMix
	}
	if def.SubStepCount == 0 {
		def.SubStepCount = 4
	}
	if def.BroadphaseConfig == zero.BroadphaseConfig {
		def.BroadphaseConfig = broadphase.DefaultConfig()
	}
	if def.SleepLinearVelocity == 0 {
		def.SleepLinearVelocity = solver.DefaultSleepLinearVelocity
	}
	if def.SleepAngularVelocity == 0 {
		def.SleepAngularVelocity = solver.DefaultSleepAngularVelocity
	}
	if def.SleepTimeThreshold == 0 {
		def.SleepTimeThreshold = solver.DefaultSleepTimeThreshold
	}

	bodySlot := nextWorldSlot
	shapeSlot := nextWorldSlot + 1
	jointSlot := nextWorldSlot + 2
	nextWorldSlot += 3

	executor := def.TaskExecutor
	if executor == nil {
		executor = NewDefaultTaskExecutor(0)
	}

	return &World{
		def:          def,
		DebugID:      uuid.New(),
		bodyIDs:      id.NewPool(bodySlot),
		shapeIDs:     id.NewPool(shapeSlot),
		jointIDs:     id.NewPool(jointSlot),
		registry:     solver.NewRegistry(),
		bodies:       make(map[BodyID]*bodyRecord),
		tree:         broadphase.NewTree(def.BroadphaseConfig),
		shapes:       make(map[ShapeID]*shapeRecord),
		joints:       make(map[JointID]*jointRecord),
		contacts:     make(map[contactKey]*contactRecord),
		graph:        solver.NewGraph(),
		pendingSleep: make(map[BodyID]bool),
		taskExecutor: executor,
	}
}

// shouldCollide applies the Filter bitmask/group rule plus the embedder's
// CustomFilter callback (spec.md §6 "CustomFilter(shapeA, shapeB, ctx) →
// bool — per-pair collision veto").
func (w *World) shouldCollide(a, b *shapeRecord) bool {
	fa, fb := a.Filter, b.Filter
	if fa.GroupIndex == fb.GroupIndex && fa.GroupIndex != 0 {
		if fa.GroupIndex < 0 {
			return false
		}
	} else if fa.Category&fb.Mask == 0 || fb.Category&fa.Mask == 0 {
		return false
	}
	if w.def.CustomFilter != nil && !w.def.CustomFilter(a.ID, b.ID) {
		return false
	}
	return true
}

// bodyIsDynamic reports whether id currently names a dynamic body (the
// only kind that ever blocks a constraint-graph color or accumulates sleep
// time); used throughout Step to distinguish dynamic endpoints from
// static/kinematic ones.
func (w *World) bodyIsDynamic(b BodyID) bool {
	rec, ok := w.bodies[b]
	return ok && rec.Kind == BodyDynamic
}
