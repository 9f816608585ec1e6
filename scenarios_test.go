// Copyright 2026 The Rigid2D Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rigid2d

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rigid2d/rigid2d/math2"
	"github.com/rigid2d/rigid2d/shape"
	"github.com/rigid2d/rigid2d/solver"
)

// newTestWorld returns a World with a single-threaded task executor, so
// step behavior is deterministic across runs (spec.md §8 "single-threaded
// determinism").
func newTestWorld() *World {
	def := DefaultWorldDef()
	def.TaskExecutor = NewDefaultTaskExecutor(1)
	return NewWorld(def)
}

func groundBody(w *World) BodyID {
	ground := w.CreateBody(BodyDef{Kind: BodyStatic, Position: math2.V2(0, 0)})
	w.CreatePolygonShape(ground, DefaultShapeDef(), shape.NewBox(50, 1, 0))
	return ground
}

// Scenario 1: a falling box settles on the ground and eventually sleeps.
func TestScenario_FallingBoxSettlesAndSleeps(t *testing.T) {
	w := newTestWorld()
	groundBody(w)

	box := w.CreateBody(BodyDef{
		Kind: BodyDynamic, Position: math2.V2(0, 5),
		GravityScale: 1, EnableSleep: true, IsAwake: true, IsEnabled: true,
	})
	w.CreatePolygonShape(box, DefaultShapeDef(), shape.NewBox(0.5, 0.5, 0))

	const dt = 1.0 / 60.0
	asleep := false
	for i := 0; i < 600; i++ {
		w.Step(dt)
		if !w.IsAwake(box) {
			asleep = true
			break
		}
	}
	require.True(t, asleep, "box should fall asleep once it settles on the ground")

	xf := w.Transform(box)
	assert.InDelta(t, 1.5, xf.P.Y, 0.05, "box should rest with its bottom touching the ground top (y=1) plus its half-height (0.5)")
}

// Scenario 2: a fast bullet circle should not tunnel through a thin static
// wall even though the wall is thinner than the bullet's per-step travel
// distance.
func TestScenario_BulletDoesNotTunnelThroughThinWall(t *testing.T) {
	w := newTestWorld()

	wall := w.CreateBody(BodyDef{Kind: BodyStatic, Position: math2.V2(0, 0)})
	w.CreateSegmentShape(wall, DefaultShapeDef(), shape.Segment{
		Point1: math2.V2(0, -10), Point2: math2.V2(0, 10),
	})

	bullet := w.CreateBody(BodyDef{
		Kind: BodyDynamic, Position: math2.V2(-1, 0),
		LinearVelocity: math2.V2(200, 0),
		IsBullet:       true, IsAwake: true, IsEnabled: true, GravityScale: 0,
	})
	w.CreateCircleShape(bullet, DefaultShapeDef(), shape.Circle{Radius: 0.1})

	w.Step(1.0 / 60.0)

	xf := w.Transform(bullet)
	assert.Less(t, xf.P.X, 0.0, "continuous collision should stop the bullet at or before the wall, not tunnel past x=0")
}

// Scenario 3: a sleeping body wakes when an external impulse is applied.
func TestScenario_SleepThenWake(t *testing.T) {
	w := newTestWorld()
	groundBody(w)

	box := w.CreateBody(BodyDef{
		Kind: BodyDynamic, Position: math2.V2(0, 1.5),
		EnableSleep: true, IsAwake: true, IsEnabled: true, GravityScale: 1,
	})
	w.CreatePolygonShape(box, DefaultShapeDef(), shape.NewBox(0.5, 0.5, 0))

	for i := 0; i < 300 && w.IsAwake(box); i++ {
		w.Step(1.0 / 60.0)
	}
	require.False(t, w.IsAwake(box), "box should have settled and slept")

	w.ApplyLinearImpulse(box, math2.V2(0, 10))
	assert.True(t, w.IsAwake(box), "applying an impulse must wake the body immediately")
}

// Scenario 4: a revolute joint's angle limit holds a pendulum from
// swinging past its configured bound.
func TestScenario_RevoluteJointLimitHoldsPendulum(t *testing.T) {
	w := newTestWorld()

	anchor := w.CreateBody(BodyDef{Kind: BodyStatic, Position: math2.V2(0, 0)})
	arm := w.CreateBody(BodyDef{
		Kind: BodyDynamic, Position: math2.V2(2, 0),
		IsAwake: true, IsEnabled: true, GravityScale: 1,
	})
	w.CreatePolygonShape(arm, DefaultShapeDef(), shape.NewBox(1, 0.1, 0))

	jointDef := DefaultJointDef(solver.JointRevolute)
	jointDef.BodyA, jointDef.BodyB = anchor, arm
	jointDef.LocalAnchorA = math2.V2(0, 0)
	jointDef.LocalAnchorB = math2.V2(-1, 0)
	jointDef.EnableLimit = true
	jointDef.LowerAngle = -0.5
	jointDef.UpperAngle = 0.5
	j := w.CreateJoint(jointDef)
	require.NotEqual(t, BodyID{}, j)

	for i := 0; i < 600; i++ {
		w.Step(1.0 / 60.0)
	}

	angle := w.Transform(arm).Q.Angle()
	assert.GreaterOrEqual(t, angle, jointDef.LowerAngle-0.05, "pendulum should not swing past its lower angle limit")
	assert.LessOrEqual(t, angle, jointDef.UpperAngle+0.05, "pendulum should not swing past its upper angle limit")
}

// Scenario 5: a ray cast finds the closest of several candidate circles.
func TestScenario_RayCastClosest(t *testing.T) {
	w := newTestWorld()
	for _, x := range []float64{1, 3, 5} {
		b := w.CreateBody(BodyDef{Kind: BodyStatic, Position: math2.V2(x, 0)})
		w.CreateCircleShape(b, DefaultShapeDef(), shape.Circle{Radius: 0.5})
	}

	result, hit := w.RayCastClosest(math2.V2(0, 0), math2.V2(10, 0), ^uint64(0))
	require.True(t, hit, "ray should hit the nearest circle")
	assert.InDelta(t, 0.05, result.Fraction, 0.02, "closest hit should land near fraction 0.05 (circle at x=1, radius 0.5)")
}

// Scenario 6: a chain's interior ghost-bounded edges reject a manifold
// that would otherwise register a spurious internal collision.
func TestScenario_ChainGhostRejectsInternalCollision(t *testing.T) {
	w := newTestWorld()

	chain := w.CreateBody(BodyDef{Kind: BodyStatic, Position: math2.V2(0, 0)})
	// Two collinear segments: a flat floor made of chain edges. A ball
	// resting exactly on the shared vertex between two coplanar edges must
	// not generate two redundant/conflicting manifolds from the "inside"
	// ghost-rejected normal.
	w.CreateChainSegmentShape(chain, DefaultShapeDef(), shape.ChainSegment{
		Ghost1:  math2.V2(-4, 0),
		Segment: shape.Segment{Point1: math2.V2(-2, 0), Point2: math2.V2(0, 0)},
		Ghost2:  math2.V2(2, 0),
	})
	w.CreateChainSegmentShape(chain, DefaultShapeDef(), shape.ChainSegment{
		Ghost1:  math2.V2(-2, 0),
		Segment: shape.Segment{Point1: math2.V2(0, 0), Point2: math2.V2(2, 0)},
		Ghost2:  math2.V2(4, 0),
	})

	ball := w.CreateBody(BodyDef{
		Kind: BodyDynamic, Position: math2.V2(0, 0.5),
		IsAwake: true, IsEnabled: true, GravityScale: 1,
	})
	w.CreateCircleShape(ball, DefaultShapeDef(), shape.Circle{Radius: 0.5})

	for i := 0; i < 120; i++ {
		w.Step(1.0 / 60.0)
	}

	xf := w.Transform(ball)
	assert.InDelta(t, 0.5, xf.P.Y, 0.1, "ball should rest on the chain floor, not fall through or get ejected by a spurious ghost-side manifold")
}

// Invariant: a dynamic body's linear speed never exceeds MaximumLinearSpeed.
func TestInvariant_MaxLinearSpeedClamp(t *testing.T) {
	w := newTestWorld()
	body := w.CreateBody(BodyDef{
		Kind: BodyDynamic, Position: math2.V2(0, 0),
		IsAwake: true, IsEnabled: true, GravityScale: 0,
	})
	w.CreateCircleShape(body, DefaultShapeDef(), shape.Circle{Radius: 0.5})
	w.ApplyLinearImpulse(body, math2.V2(1e9, 0))

	for i := 0; i < 10; i++ {
		w.Step(1.0 / 60.0)
	}
	speed := w.LinearVelocity(body).Length()
	assert.LessOrEqual(t, speed, w.def.MaximumLinearSpeed*1.01, "linear speed must stay clamped to MaximumLinearSpeed")
}

// Invariant: a sleeping body does not move.
func TestInvariant_SleepingBodyStaysStill(t *testing.T) {
	w := newTestWorld()
	groundBody(w)
	box := w.CreateBody(BodyDef{
		Kind: BodyDynamic, Position: math2.V2(0, 1.5),
		EnableSleep: true, IsAwake: true, IsEnabled: true, GravityScale: 1,
	})
	w.CreatePolygonShape(box, DefaultShapeDef(), shape.NewBox(0.5, 0.5, 0))

	for i := 0; i < 300 && w.IsAwake(box); i++ {
		w.Step(1.0 / 60.0)
	}
	require.False(t, w.IsAwake(box))

	before := w.Transform(box).P
	for i := 0; i < 60; i++ {
		w.Step(1.0 / 60.0)
	}
	after := w.Transform(box).P
	assert.Equal(t, before, after, "a sleeping body must not move while asleep")
}
