// Copyright 2026 The Rigid2D Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package solver

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rigid2d/rigid2d/id"
	"github.com/rigid2d/rigid2d/manifold"
	"github.com/rigid2d/rigid2d/math2"
	"github.com/rigid2d/rigid2d/shape"
)

var nextTestID uint32 = 1

// testID returns a fresh, distinct id.ID for use as a test fixture; the
// real id.Pool is the production allocator, but these tests only need
// unique handles to exercise the graph/island/solver logic.
func testID() id.ID {
	nextTestID++
	return id.ID{Index: nextTestID}
}

func dynamicBody(mass, inertia float64) BodySim {
	return BodySim{
		InvMass: 1 / mass, InvInertia: 1 / inertia,
		EnableSleep: true,
	}
}

func staticBody() BodySim { return BodySim{} }

func TestGraph_SeparatesConstraintsSharingABody(t *testing.T) {
	g := NewGraph()
	bodyShared := testID()
	bodyX := testID()
	bodyY := testID()

	idx1, overflow1 := g.Add(ConstraintRef{ID: testID(), BodyA: bodyShared, BodyB: bodyX}, true, true)
	idx2, overflow2 := g.Add(ConstraintRef{ID: testID(), BodyA: bodyShared, BodyB: bodyY}, true, true)

	assert.False(t, overflow1)
	assert.False(t, overflow2)
	assert.NotEqual(t, idx1, idx2, "two constraints sharing a dynamic body must land in different colors")
}

func TestGraph_StaticEndpointNeverBlocksAColor(t *testing.T) {
	g := NewGraph()
	ground := testID()

	for i := 0; i < 5; i++ {
		colorIndex, overflowed := g.Add(ConstraintRef{ID: testID(), BodyA: ground, BodyB: testID()}, false, true)
		assert.False(t, overflowed)
		assert.Equal(t, 0, colorIndex, "a static endpoint must never be masked, so every constraint packs into color 0")
	}
}

func TestGraph_OverflowsPastMaxColors(t *testing.T) {
	g := NewGraph()
	shared := testID()
	for i := 0; i < MaxColors; i++ {
		_, overflowed := g.Add(ConstraintRef{ID: testID(), BodyA: shared, BodyB: testID()}, true, true)
		assert.False(t, overflowed)
	}
	_, overflowed := g.Add(ConstraintRef{ID: testID(), BodyA: shared, BodyB: testID()}, true, true)
	assert.True(t, overflowed, "a 25th constraint on the same dynamic body must overflow")
}

func TestForest_MergesConnectedBodiesIntoOneRoot(t *testing.T) {
	f := NewForest()
	a, b, c := testID(), testID(), testID()
	f.Union(a, b)
	f.Union(b, c)
	assert.Equal(t, f.Find(a), f.Find(c))
}

func TestSplit_SeparatesDisconnectedComponents(t *testing.T) {
	a, b, c, d := testID(), testID(), testID(), testID()
	adjacency := NewAdjacencyBuilder()
	adjacency.AddEdge(a, b) // {a,b} one component
	// c, d left with no edges: each its own component

	next := int32(100)
	assignment := Split([]id.ID{a, b, c, d}, adjacency, 1, func() int32 {
		next++
		return next
	})

	assert.Equal(t, assignment[a], assignment[b])
	assert.NotEqual(t, assignment[a], assignment[c])
	assert.NotEqual(t, assignment[c], assignment[d])
}

func TestSleep_AccumulatesAndResetsWithMotion(t *testing.T) {
	sim := &BodySim{EnableSleep: true}
	atRest := BodyState{}
	UpdateSleepTime(sim, atRest, 0.1, DefaultSleepLinearVelocity, DefaultSleepAngularVelocity)
	UpdateSleepTime(sim, atRest, 0.1, DefaultSleepLinearVelocity, DefaultSleepAngularVelocity)
	assert.InDelta(t, 0.2, sim.SleepTime, 1e-9)

	moving := BodyState{LinearVelocity: math2.V2(10, 0)}
	UpdateSleepTime(sim, moving, 0.1, DefaultSleepLinearVelocity, DefaultSleepAngularVelocity)
	assert.Equal(t, 0.0, sim.SleepTime)
}

func TestPutIslandToSleepAndWake_RoundTrips(t *testing.T) {
	reg := NewRegistry()
	bodyA, bodyB := testID(), testID()
	reg.Awake.Add(bodyA, dynamicBody(1, 1), BodyState{LinearVelocity: math2.V2(1, 2)})
	reg.Awake.Add(bodyB, dynamicBody(1, 1), BodyState{})

	isl := &Island{Bodies: []id.ID{bodyA, bodyB}}
	kind := PutIslandToSleep(reg, isl, nil)

	assert.Equal(t, -1, reg.Awake.IndexOf(bodyA))
	assert.Equal(t, -1, reg.Awake.IndexOf(bodyB))
	sleeping := reg.SetByKind(kind)
	assert.Len(t, sleeping.BodyIDs, 2)

	WakeIsland(reg, kind)
	assert.GreaterOrEqual(t, reg.Awake.IndexOf(bodyA), 0)
	assert.GreaterOrEqual(t, reg.Awake.IndexOf(bodyB), 0)
	assert.Empty(t, reg.SetByKind(kind).BodyIDs)
}

func TestContactConstraint_StopsApproachVelocity(t *testing.T) {
	circleA := shape.Circle{Radius: 0.5}
	circleB := shape.Circle{Radius: 0.5}
	xfA := math2.IdentityTransform
	xfB := math2.Transform{P: math2.V2(0.9, 0), Q: math2.Identity} // overlapping by 0.1

	m := manifold.Generate(manifold.Pair{
		KindA: shape.KindCircle, KindB: shape.KindCircle,
		CircleA: circleA, CircleB: circleB,
		TransformA: xfA, TransformB: xfB,
	})
	assert.Equal(t, 1, m.PointCount)

	simA, simB := staticBody(), dynamicBody(1, 1)
	stateA := BodyState{}
	stateB := BodyState{LinearVelocity: math2.V2(-1, 0)} // B approaching A

	c := PrepareContact(testID(), testID(), testID(), m, simA, simB, stateA, stateB, 0.3, 0, MakeSoft(0, 0, 1.0/60.0))

	h := 1.0 / 60.0
	for i := 0; i < 4; i++ {
		c.SolveVelocity(simA, simB, &stateA, &stateB, h, true)
	}

	relVel := m.Normal.Dot(stateB.LinearVelocity.Sub(stateA.LinearVelocity))
	assert.GreaterOrEqual(t, relVel, -1e-6, "normal velocity solve must remove approach velocity along the contact normal")
}

func TestDistanceJoint_RigidHoldsRestLength(t *testing.T) {
	j := &DistanceJoint{
		JointBase:  JointBase{LocalAnchorA: math2.Vec2{}, LocalAnchorB: math2.Vec2{}},
		RestLength: 2.0,
	}
	simA := staticBody()
	simB := dynamicBody(1, 1)
	stateA := BodyState{}
	stateB := BodyState{DeltaPosition: math2.V2(2.5, 0), LinearVelocity: math2.V2(1, 0)}

	h := 1.0 / 60.0
	j.Prepare(simA, simB, stateA, stateB, h)
	for i := 0; i < 8; i++ {
		j.SolveVelocity(simA, simB, &stateA, &stateB, h, true)
	}

	assert.Less(t, stateB.LinearVelocity.X, 1.0, "the rigid distance row must resist further stretching")
}

func TestWeldJoint_SatisfiesJointSolverInterface(t *testing.T) {
	var _ JointSolver = (*WeldJoint)(nil)
	var _ JointSolver = (*DistanceJoint)(nil)
	var _ JointSolver = (*RevoluteJoint)(nil)
	var _ JointSolver = (*PrismaticJoint)(nil)
	var _ JointSolver = (*WheelJoint)(nil)
	var _ JointSolver = (*MouseJoint)(nil)
	var _ JointSolver = (*MotorJoint)(nil)
}
