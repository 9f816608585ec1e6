// Copyright 2026 The Rigid2D Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rigid2d

import (
	"github.com/rigid2d/rigid2d/id"
	"github.com/rigid2d/rigid2d/math2"
	"github.com/rigid2d/rigid2d/solver"
)

// initialSetKind maps a body def to the solver set a freshly created body
// starts in (spec.md §3 "Solver sets"): static bodies live in StaticSet
// forever; a kinematic/dynamic body starts Disabled when IsEnabled is
// false, or when IsAwake is false and EnableSleep is set, and starts Awake
// otherwise. No body starts in a sleeping set.
func initialSetKind(def BodyDef) solver.SetKind {
	if def.Kind == BodyStatic {
		return solver.SetStatic
	}
	if !def.IsEnabled {
		return solver.SetDisabled
	}
	if !def.IsAwake && def.EnableSleep {
		return solver.SetDisabled
	}
	return solver.SetAwake
}

// CreateBody adds a new body to the world and returns its id. Mass
// properties are zero until shapes are attached via CreateShape (mirroring
// teacher's RigidBody, whose inertia tensor is only meaningful once a
// Geometry is set).
func (w *World) CreateBody(def BodyDef) BodyID {
	sim := solver.BodySim{
		Center:         def.Position,
		Rotation:       math2.NewRot(def.Angle),
		LinearDamping:  def.LinearDamping,
		AngularDamping: def.AngularDamping,
		GravityScale:   def.GravityScale,
		MaxLinearSpeed: w.def.MaximumLinearSpeed,
		Locks:          def.Locks,
		IsBullet:       def.IsBullet,
		EnableSleep:    def.EnableSleep,
	}
	if def.Kind != BodyDynamic {
		sim.InvMass, sim.InvInertia = 0, 0
	}
	state := solver.BodyState{
		LinearVelocity:  def.LinearVelocity,
		AngularVelocity: def.AngularVelocity,
	}

	kind := initialSetKind(def)
	set := w.registry.SetByKind(kind)
	localIndex := len(set.BodyIDs)
	bodyID := w.bodyIDs.Alloc(int(kind), localIndex)
	set.Add(bodyID, sim, state)

	w.bodies[bodyID] = &bodyRecord{
		ID: bodyID, Kind: def.Kind,
		UserData: def.UserData, Name: def.Name,
	}
	return bodyID
}

// DestroyBody removes a body, every shape it owns (detaching their
// broad-phase proxies and any contacts referencing them), and every joint
// touching it.
func (w *World) DestroyBody(b BodyID) {
	rec, ok := w.bodies[b]
	if !ok {
		return
	}

	for _, s := range append([]ShapeID(nil), rec.Shapes...) {
		w.DestroyShape(s)
	}
	for jointID, jr := range w.joints {
		if jr.Base.BodyA == b || jr.Base.BodyB == b {
			delete(w.joints, jointID)
			w.jointIDs.Free(jointID)
		}
	}

	setIndex, localIndex, ok := w.bodyIDs.Resolve(b)
	if ok {
		kind := solver.SetKind(setIndex)
		set := w.registry.SetByKind(kind)
		if set != nil {
			if moved := set.RemoveSwap(localIndex); moved != id.Nil {
				w.bodyIDs.Relocate(moved, setIndex, localIndex)
			}
		}
	}
	w.bodyIDs.Free(b)
	delete(w.bodies, b)
}

// bodySimState resolves a BodyID to pointers into the Sims and States
// entries of whichever solver set currently holds it (awake, sleeping,
// disabled or static), or returns ok=false if the id is invalid.
func (w *World) bodySimState(b BodyID) (*solver.BodySim, *solver.BodyState, bool) {
	setIndex, localIndex, ok := w.bodyIDs.Resolve(b)
	if !ok {
		return nil, nil, false
	}
	set := w.registry.SetByKind(solver.SetKind(setIndex))
	if set == nil || localIndex < 0 || localIndex >= len(set.Sims) {
		return nil, nil, false
	}
	return &set.Sims[localIndex], &set.States[localIndex], true
}

// Transform returns the body's current world transform (its origin, not
// its center of mass), or the identity transform for an invalid id.
func (w *World) Transform(b BodyID) math2.Transform {
	sim, state, ok := w.bodySimState(b)
	if !ok {
		return math2.IdentityTransform
	}
	return sim.Transform(*state)
}

// SetTransform teleports a body to a new position/angle, resets its
// pose-delta bookkeeping, and immediately resyncs its shapes' broad-phase
// proxies (a teleport must not wait for the next Step's refit) and wakes
// its island.
func (w *World) SetTransform(b BodyID, position math2.Vec2, angle float64) {
	sim, state, ok := w.bodySimState(b)
	if !ok {
		return
	}
	sim.Center = position
	sim.Rotation = math2.NewRot(angle)
	state.DeltaPosition = math2.Vec2{}
	state.DeltaRotation = math2.Identity
	w.WakeBody(b)
	w.syncBodyProxies(b)
}

// LinearVelocity returns the body's current linear velocity (zero for an
// invalid, static, or sleeping id).
func (w *World) LinearVelocity(b BodyID) math2.Vec2 {
	_, state, ok := w.bodySimState(b)
	if !ok {
		return math2.Vec2{}
	}
	return state.LinearVelocity
}

// SetLinearVelocity sets a body's linear velocity and wakes its island
// (spec.md §4.4 "Waking. Any external mutation that affects a sleeping
// body... wakes its island").
func (w *World) SetLinearVelocity(b BodyID, v math2.Vec2) {
	w.WakeBody(b)
	if _, state, ok := w.bodySimState(b); ok {
		state.LinearVelocity = v
	}
}

func (w *World) AngularVelocity(b BodyID) float64 {
	_, state, ok := w.bodySimState(b)
	if !ok {
		return 0
	}
	return state.AngularVelocity
}

func (w *World) SetAngularVelocity(b BodyID, omega float64) {
	w.WakeBody(b)
	if _, state, ok := w.bodySimState(b); ok {
		state.AngularVelocity = omega
	}
}

// ApplyForce accumulates a world-space force applied at the center of mass,
// consumed and zeroed by the next Step's velocity integration.
func (w *World) ApplyForce(b BodyID, force math2.Vec2) {
	rec, ok := w.bodies[b]
	if !ok || rec.Kind != BodyDynamic {
		return
	}
	w.WakeBody(b)
	rec.Force = rec.Force.Add(force)
}

// ApplyTorque accumulates a torque, consumed and zeroed by the next Step.
func (w *World) ApplyTorque(b BodyID, torque float64) {
	rec, ok := w.bodies[b]
	if !ok || rec.Kind != BodyDynamic {
		return
	}
	w.WakeBody(b)
	rec.Torque += torque
}

// ApplyLinearImpulse applies an instantaneous impulse at the center of mass.
func (w *World) ApplyLinearImpulse(b BodyID, impulse math2.Vec2) {
	sim, state, ok := w.bodySimState(b)
	if !ok {
		return
	}
	w.WakeBody(b)
	state.LinearVelocity = state.LinearVelocity.MulAdd(impulse, sim.InvMass)
}

// IsAwake reports whether b currently belongs to the Awake solver set.
func (w *World) IsAwake(b BodyID) bool {
	setIndex, _, ok := w.bodyIDs.Resolve(b)
	return ok && solver.SetKind(setIndex) == solver.SetAwake
}

// SetAwake forces a body (and its whole island) awake or to sleep,
// bypassing the usual timer-based transition; waking is immediate, putting
// to sleep happens at the start of the next Step's sleep-evaluation phase
// to keep island membership consistent with that step's contacts/joints.
func (w *World) SetAwake(b BodyID, awake bool) {
	if awake {
		w.WakeBody(b)
		return
	}
	if rec, ok := w.bodies[b]; ok && rec.Kind != BodyStatic {
		w.pendingSleep[b] = true
	}
}

// WakeBody moves b's entire current island (every body transitively
// connected via touching contacts or non-filter joints) back into the
// Awake set if it was sleeping, per spec.md §4.4 "Waking... moves all
// members back to the awake set". No-op for static/disabled/already-awake
// bodies.
func (w *World) WakeBody(b BodyID) {
	setIndex, _, ok := w.bodyIDs.Resolve(b)
	if !ok {
		return
	}
	kind := solver.SetKind(setIndex)
	if kind < solver.SetSleepingBase {
		return
	}
	w.wakeSleepingSet(kind)
}

func (w *World) wakeSleepingSet(kind solver.SetKind) {
	set := w.registry.SetByKind(kind)
	if set == nil || len(set.BodyIDs) == 0 {
		return
	}
	ids := append([]BodyID(nil), set.BodyIDs...)
	awakeStart := len(w.registry.Awake.BodyIDs)
	solver.WakeIsland(w.registry, kind)
	for i, bodyID := range ids {
		w.bodyIDs.Relocate(bodyID, int(solver.SetAwake), awakeStart+i)
		delete(w.pendingSleep, bodyID)
	}
}

func (w *World) Kind(b BodyID) BodyKind {
	if rec, ok := w.bodies[b]; ok {
		return rec.Kind
	}
	return BodyStatic
}

func (w *World) UserData(b BodyID) interface{} {
	if rec, ok := w.bodies[b]; ok {
		return rec.UserData
	}
	return nil
}
