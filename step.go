// Copyright 2026 The Rigid2D Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rigid2d

import (
	"github.com/rigid2d/rigid2d/aabb"
	"github.com/rigid2d/rigid2d/distance"
	"github.com/rigid2d/rigid2d/id"
	"github.com/rigid2d/rigid2d/manifold"
	"github.com/rigid2d/rigid2d/math2"
	"github.com/rigid2d/rigid2d/shape"
	"github.com/rigid2d/rigid2d/solver"
)

// bodyAccessor adapts World's id-resolved solver sets to solver.BodyAccessor.
type bodyAccessor struct{ world *World }

func (a bodyAccessor) Sim(b id.ID) solver.BodySim {
	sim, _, ok := a.world.bodySimState(b)
	if !ok {
		return solver.BodySim{}
	}
	return *sim
}

func (a bodyAccessor) State(b id.ID) *solver.BodyState {
	_, state, ok := a.world.bodySimState(b)
	if !ok {
		// Every ref this accessor is ever asked about names a body currently
		// resolvable in some set (it was just used to build a contact or
		// joint); this fallback only protects against a stale/removed body,
		// returning scratch storage no live constraint actually shares.
		return &solver.BodyState{}
	}
	return state
}

// shapePriority orders shape kinds for manifold.Generate's canonical pair
// convention (ChainSegment > Segment > Polygon > Capsule > Circle),
// matching the exact (KindA, KindB) combinations manifold/generate.go
// dispatches on.
func shapePriority(k shape.Kind) int {
	switch k {
	case shape.KindChainSegment:
		return 4
	case shape.KindSegment:
		return 3
	case shape.KindPolygon:
		return 2
	case shape.KindCapsule:
		return 1
	default:
		return 0
	}
}

// buildPair arranges sa/sb into manifold.Generate's canonical order,
// returning the swap flag so the caller can negate the resulting normal
// and remap anchors back onto the caller's original (A,B).
func buildPair(sa, sb *shapeRecord, xfa, xfb math2.Transform) (manifold.Pair, bool) {
	if shapePriority(sa.Kind) < shapePriority(sb.Kind) {
		sa, sb = sb, sa
		xfa, xfb = xfb, xfa
		return manifold.Pair{
			KindA: sa.Kind, KindB: sb.Kind,
			CircleA: sa.Circle, CircleB: sb.Circle,
			CapsuleA: sa.Capsule, CapsuleB: sb.Capsule,
			SegmentA: sa.Segment, SegmentB: sb.Segment,
			ChainSegmentA: sa.ChainSegment, ChainSegmentB: sb.ChainSegment,
			PolygonA: sa.Polygon, PolygonB: sb.Polygon,
			TransformA: xfa, TransformB: xfb,
		}, true
	}
	return manifold.Pair{
		KindA: sa.Kind, KindB: sb.Kind,
		CircleA: sa.Circle, CircleB: sb.Circle,
		CapsuleA: sa.Capsule, CapsuleB: sb.Capsule,
		SegmentA: sa.Segment, SegmentB: sb.Segment,
		ChainSegmentA: sa.ChainSegment, ChainSegmentB: sb.ChainSegment,
		PolygonA: sa.Polygon, PolygonB: sb.Polygon,
		TransformA: xfa, TransformB: xfb,
	}, false
}

// generateManifold runs the narrow phase for one shape pair in the
// caller's (A,B) order regardless of the pair's canonical dispatch order.
func generateManifold(sa, sb *shapeRecord, xfa, xfb math2.Transform) manifold.Manifold {
	pair, swapped := buildPair(sa, sb, xfa, xfb)
	m := manifold.Generate(pair)
	if !swapped {
		return m
	}
	swappedM := manifold.Manifold{Normal: m.Normal.Neg(), PointCount: m.PointCount}
	for i := 0; i < m.PointCount; i++ {
		p := m.Points[i]
		p.AnchorA, p.AnchorB = p.AnchorB, p.AnchorA
		swappedM.Points[i] = p
	}
	return swappedM
}

// matchWarmStart copies each point's stored impulses from the previous
// step's manifold into the freshly generated one wherever the persistent
// feature id matches (spec.md §4.3 "feature ids persist across steps for
// warm-starting").
func matchWarmStart(prev, next manifold.Manifold) manifold.Manifold {
	for i := 0; i < next.PointCount; i++ {
		for j := 0; j < prev.PointCount; j++ {
			if next.Points[i].ID == prev.Points[j].ID {
				next.Points[i].NormalImpulse = prev.Points[j].NormalImpulse
				next.Points[i].TangentImpulse = prev.Points[j].TangentImpulse
				next.Points[i].MaxNormalImpulse = prev.Points[j].MaxNormalImpulse
				break
			}
		}
	}
	return next
}

// jointCollideConnected reports whether a and b may collide: it returns
// false if any joint (including a filter joint) between them has
// CollideConnected unset, and true otherwise (spec.md §3 "CollideConnected").
func (w *World) jointCollideConnected(a, b BodyID) bool {
	for _, jr := range w.joints {
		base := jr.Base
		if (base.BodyA == a && base.BodyB == b) || (base.BodyA == b && base.BodyB == a) {
			if !base.CollideConnected {
				return false
			}
		}
	}
	return true
}

// updateOverlapPairs re-derives the active contact set from the current
// broad-phase tree: every still-overlapping tracked pair survives, every
// newly-overlapping pair gets a contactRecord, and every pair that has
// stopped overlapping is dropped. Re-querying every shape each step
// (rather than only shapes the tree marked WasMoved) trades broad-phase
// efficiency for a much smaller amount of moved-proxy bookkeeping to get
// right without a compiler.
func (w *World) updateOverlapPairs() {
	for key, rec := range w.contacts {
		sa, sb := w.shapes[key.ShapeA], w.shapes[key.ShapeB]
		if sa == nil || sb == nil || sa.ProxyID < 0 || sb.ProxyID < 0 {
			delete(w.contacts, key)
			continue
		}
		if !aabb.Overlaps(w.tree.FatAABB(sa.ProxyID), w.tree.FatAABB(sb.ProxyID)) {
			delete(w.contacts, key)
			continue
		}
		_ = rec
	}

	for shapeID, sr := range w.shapes {
		if sr.ProxyID < 0 {
			continue
		}
		box := w.tree.FatAABB(sr.ProxyID)
		w.tree.Query(box, ^uint64(0), func(otherProxy int32, userData uint64) bool {
			otherID := shapeFromUserData(userData)
			if otherID == shapeID {
				return true
			}
			other := w.shapes[otherID]
			if other == nil {
				return true
			}
			key := makeContactKey(shapeID, otherID)
			if _, exists := w.contacts[key]; exists {
				return true
			}
			if key.ShapeA != shapeID {
				// process each unordered pair once, from its lower shape id
				return true
			}
			if sr.BodyID == other.BodyID {
				return true
			}
			if !w.shouldCollide(sr, other) {
				return true
			}
			if !w.jointCollideConnected(sr.BodyID, other.BodyID) {
				return true
			}
			w.contacts[key] = &contactRecord{
				ShapeA: key.ShapeA, ShapeB: key.ShapeB,
				BodyA: w.shapes[key.ShapeA].BodyID, BodyB: w.shapes[key.ShapeB].BodyID,
				Friction:    w.def.FrictionMix(sr.Friction, 0, other.Friction, 0),
				Restitution: w.def.RestitutionMix(sr.Restitution, 0, other.Restitution, 0),
				IsSensor:    sr.IsSensor || other.IsSensor,
			}
			return true
		})
	}
}

// updateNarrowPhase regenerates every tracked contact's manifold, warm-
// start-matches it against the previous step's, and diffs the touching
// flag into begin/end-touch (or sensor) events.
func (w *World) updateNarrowPhase() {
	for _, rec := range w.contacts {
		sa, sb := w.shapes[rec.ShapeA], w.shapes[rec.ShapeB]
		if sa == nil || sb == nil {
			continue
		}
		xfa, xfb := w.Transform(rec.BodyA), w.Transform(rec.BodyB)

		if rec.IsSensor {
			overlapping := w.sensorsOverlap(sa, sb, xfa, xfb, &rec.Cache)
			if overlapping != rec.Touching {
				w.emitSensorEvent(sa, sb, overlapping)
				rec.Touching = overlapping
			}
			continue
		}

		next := generateManifold(sa, sb, xfa, xfb)
		next = matchWarmStart(rec.Manifold, next)
		rec.Manifold = next

		touching := next.PointCount > 0
		if touching != rec.Touching {
			if sa.EnableContactEvents && sb.EnableContactEvents {
				kind := ContactEnded
				if touching {
					kind = ContactBegan
				}
				w.events.ContactEvents = append(w.events.ContactEvents, ContactEvent{Kind: kind, ShapeA: rec.ShapeA, ShapeB: rec.ShapeB, Normal: [2]float64{next.Normal.X, next.Normal.Y}})
			}
			rec.Touching = touching
			w.WakeBody(rec.BodyA)
			w.WakeBody(rec.BodyB)
		}
	}
}

func (w *World) emitSensorEvent(sa, sb *shapeRecord, began bool) {
	sensor, visitor := sa, sb
	if !sa.IsSensor {
		sensor, visitor = sb, sa
	}
	if !sensor.EnableSensorEvents {
		return
	}
	w.events.SensorEvents = append(w.events.SensorEvents, SensorEvent{SensorShapeID: sensor.ID, VisitorShapeID: visitor.ID, Began: began})
}

func (w *World) sensorsOverlap(sa, sb *shapeRecord, xfa, xfb math2.Transform, cache *distance.Cache) bool {
	proxyA := w.shapeProxy(sa)
	proxyB := w.shapeProxy(sb)
	out := distance.Distance(distance.Input{
		ProxyA: proxyA, ProxyB: proxyB,
		TransformA: xfa, TransformB: xfb,
		UseRadii: true,
	}, cache)
	return out.Distance <= 0
}

func (w *World) shapeProxy(sr *shapeRecord) shape.Proxy {
	switch sr.Kind {
	case shape.KindCircle:
		return shape.MakeCircleProxy(sr.Circle)
	case shape.KindCapsule:
		return shape.MakeCapsuleProxy(sr.Capsule)
	case shape.KindSegment:
		return shape.MakeSegmentProxy(sr.Segment)
	case shape.KindChainSegment:
		return shape.MakeSegmentProxy(sr.ChainSegment.Segment)
	case shape.KindPolygon:
		return shape.MakePolygonProxy(sr.Polygon)
	default:
		return shape.Proxy{}
	}
}

// islandSet groups the awake bodies, touching contacts, and non-filter
// joints reachable from one another for this step's constraint graph and
// sleep evaluation. Islands are rebuilt from scratch every step rather
// than incrementally maintained across body/contact/joint lifecycle
// events, a simplification from spec.md's incremental union-find-merge +
// BFS-split design (see DESIGN.md "Islands rebuilt fresh each step").
type islandSet struct {
	Bodies   []id.ID
	Contacts []id.ID
	Joints   []id.ID
}

func (w *World) buildIslands() map[id.ID]*islandSet {
	forest := solver.NewForest()
	for _, b := range w.registry.Awake.BodyIDs {
		if w.bodyIsDynamic(b) {
			forest.MakeSet(b)
		}
	}
	for _, rec := range w.contacts {
		if rec.IsSensor || !rec.Touching {
			continue
		}
		if w.bodyIsDynamic(rec.BodyA) && w.bodyIsDynamic(rec.BodyB) {
			forest.Union(rec.BodyA, rec.BodyB)
		}
	}
	for _, jr := range w.joints {
		if jr.Base.Kind == solver.JointFilter {
			continue
		}
		if w.bodyIsDynamic(jr.Base.BodyA) && w.bodyIsDynamic(jr.Base.BodyB) {
			forest.Union(jr.Base.BodyA, jr.Base.BodyB)
		}
	}

	islands := make(map[id.ID]*islandSet)
	rootOf := func(b BodyID) id.ID {
		if w.bodyIsDynamic(b) {
			return forest.Find(b)
		}
		return b
	}
	ensure := func(root id.ID) *islandSet {
		isl, ok := islands[root]
		if !ok {
			isl = &islandSet{}
			islands[root] = isl
		}
		return isl
	}

	for _, b := range w.registry.Awake.BodyIDs {
		if w.bodyIsDynamic(b) {
			isl := ensure(forest.Find(b))
			isl.Bodies = append(isl.Bodies, b)
		}
	}
	for key, rec := range w.contacts {
		if rec.IsSensor || !rec.Touching {
			continue
		}
		var root id.ID
		if w.bodyIsDynamic(rec.BodyA) {
			root = rootOf(rec.BodyA)
		} else {
			root = rootOf(rec.BodyB)
		}
		ensure(root).Contacts = append(ensure(root).Contacts, key.ShapeA)
	}
	for jointID, jr := range w.joints {
		if jr.Base.Kind == solver.JointFilter {
			continue
		}
		var root id.ID
		if w.bodyIsDynamic(jr.Base.BodyA) {
			root = rootOf(jr.Base.BodyA)
		} else {
			root = rootOf(jr.Base.BodyB)
		}
		ensure(root).Joints = append(ensure(root).Joints, jointID)
	}
	return islands
}

// Step advances the simulation by dt seconds (spec.md §2's full pipeline:
// broad-phase refresh, narrow-phase, island build, constraint-graph
// coloring, TGS substepped solve, sleep evaluation, continuous collision,
// event finalization).
func (w *World) Step(dt float64) {
	w.events.reset()

	w.updateOverlapPairs()
	w.updateNarrowPhase()
	islands := w.buildIslands()

	h := dt
	if w.def.SubStepCount > 0 {
		h = dt / float64(w.def.SubStepCount)
	}

	w.graph.Reset()
	var contactConstraints []*solver.ContactConstraint
	contactByID := make(map[id.ID]*contactRecord)

	staticSoftness := solver.MakeSoft(2*w.def.ContactHertz, w.def.ContactDampingRatio, h)
	dynamicSoftness := solver.MakeSoft(w.def.ContactHertz, w.def.ContactDampingRatio, h)

	// contactID only needs to be unique among this step's prepared contacts
	// (it indexes solver.StepInput's internal constraint map, not anything
	// persisted across steps), so a simple per-step counter avoids any risk
	// of the two shape ids' bit patterns colliding.
	var nextContactIndex uint32
	for _, rec := range w.contacts {
		if rec.IsSensor || !rec.Touching {
			continue
		}
		dynA, dynB := w.bodyIsDynamic(rec.BodyA), w.bodyIsDynamic(rec.BodyB)
		if !dynA && !dynB {
			continue
		}
		contactID := id.ID{Index: nextContactIndex}
		nextContactIndex++
		softness := dynamicSoftness
		if !dynA || !dynB {
			softness = staticSoftness
		}
		simA, stateA, _ := w.bodySimState(rec.BodyA)
		simB, stateB, _ := w.bodySimState(rec.BodyB)
		cc := solver.PrepareContact(contactID, rec.BodyA, rec.BodyB, rec.Manifold, *simA, *simB, *stateA, *stateB, rec.Friction, rec.Restitution, softness)
		contactConstraints = append(contactConstraints, &cc)
		contactByID[contactID] = rec
		w.graph.Add(solver.ConstraintRef{ID: contactID, IsJoint: false, BodyA: rec.BodyA, BodyB: rec.BodyB}, dynA, dynB)
	}

	var jointInstances []solver.JointInstance
	for jointID, jr := range w.joints {
		if jr.Base.Kind == solver.JointFilter {
			continue
		}
		dynA, dynB := w.bodyIsDynamic(jr.Base.BodyA), w.bodyIsDynamic(jr.Base.BodyB)
		if !dynA && !dynB {
			continue
		}
		simA, stateA, _ := w.bodySimState(jr.Base.BodyA)
		simB, stateB, _ := w.bodySimState(jr.Base.BodyB)
		jr.Solver.Prepare(*simA, *simB, *stateA, *stateB, h)
		jointInstances = append(jointInstances, solver.JointInstance{Base: jr.Base, Solver: jr.Solver})
		w.graph.Add(solver.ConstraintRef{ID: jointID, IsJoint: true, BodyA: jr.Base.BodyA, BodyB: jr.Base.BodyB}, dynA, dynB)
	}

	solver.RunStep(solver.StepInput{
		Bodies:               bodyAccessor{w},
		Contacts:             contactConstraints,
		Joints:               jointInstances,
		Graph:                w.graph,
		Gravity:              w.def.Gravity,
		H:                    dt,
		SubStepCount:         w.def.SubStepCount,
		RestitutionThreshold: w.def.RestitutionThreshold,
		EnableWarmStarting:   w.def.EnableWarmStarting,
	})

	for contactID, rec := range contactByID {
		for _, cc := range contactConstraints {
			if cc.ID == contactID {
				cc.StoreImpulses(&rec.Manifold)
				if w.shapes[rec.ShapeA].EnableHitEvents || w.shapes[rec.ShapeB].EnableHitEvents {
					w.emitHitEvents(cc, rec)
				}
				break
			}
		}
	}
	for _, jr := range w.joints {
		if jr.Base.Kind == solver.JointFilter {
			continue
		}
		invH := 0.0
		if dt > 0 {
			invH = 1 / dt
		}
		force := jr.Base.LinearImpulseAccum.Length() * invH
		torque := jr.Base.AngularImpulseAccum * invH
		if force > 0 || torque > 0 {
			w.events.JointEvents = append(w.events.JointEvents, JointEvent{JointID: jr.Base.ID, Force: force, Torque: torque})
		}
	}

	w.commitAwakeBodies(dt)
	w.runContinuous(dt)
	w.syncAllProxies()
	w.evaluateSleep(dt, islands)
	w.refreshStats(islands)
}

func (w *World) emitHitEvents(cc *solver.ContactConstraint, rec *contactRecord) {
	for i := 0; i < cc.PointCount; i++ {
		p := cc.Points[i]
		speed := -p.RelativeVelocity
		if speed > w.def.HitEventThreshold && p.MaxNormalImpulse > 0 {
			pt := rec.Manifold.Points[i].Point
			w.events.ContactEvents = append(w.events.ContactEvents, ContactEvent{
				Kind: ContactHit, ShapeA: rec.ShapeA, ShapeB: rec.ShapeB,
				Point: [2]float64{pt.X, pt.Y}, Normal: [2]float64{rec.Manifold.Normal.X, rec.Manifold.Normal.Y},
				ApproachSpeed: speed,
			})
		}
	}
}

// commitAwakeBodies folds each awake body's accumulated substep pose delta
// into its BodySim, manually integrates kinematic bodies over the full
// step (RunStep's substep loop only integrates bodies with nonzero
// inverse mass or inertia, so a zero-inverse-mass kinematic body is never
// advanced by it), and consumes/zeros each dynamic body's force/torque
// accumulators — an explicit simplification against RunStep's own
// per-substep force parameter, which is hardcoded to zero internally;
// see DESIGN.md "Applied force/torque integration".
func (w *World) commitAwakeBodies(dt float64) {
	set := &w.registry.Awake
	for i, b := range set.BodyIDs {
		sim := &set.Sims[i]
		state := &set.States[i]

		rec := w.bodies[b]
		if rec != nil && rec.Kind == BodyKinematic {
			sim.Center = sim.Center.MulAdd(state.LinearVelocity, dt)
			sim.Rotation = math2.IntegrateRot(sim.Rotation, state.AngularVelocity, dt)
			continue
		}

		sim.Rotation = sim.Rotation.MulRot(state.DeltaRotation)
		sim.Center = sim.Center.Add(state.DeltaPosition)
		state.DeltaPosition = math2.Vec2{}
		state.DeltaRotation = math2.Identity

		if rec != nil && sim.InvMass > 0 {
			state.LinearVelocity = state.LinearVelocity.MulAdd(rec.Force, dt*sim.InvMass)
			state.AngularVelocity += dt * sim.InvInertia * rec.Torque
			rec.Force = math2.Vec2{}
			rec.Torque = 0
		}
	}
}

// runContinuous sweeps every bullet body against the awake set's other
// bodies using a stationary sweep at each candidate's already-committed
// end-of-step transform. This catches the headline "bullet through thin
// static wall" case (spec.md §8) but does not perform a full bilateral
// dynamic-vs-dynamic sweep; see DESIGN.md "Continuous collision".
func (w *World) runContinuous(dt float64) {
	if !w.def.EnableContinuous {
		return
	}
	set := &w.registry.Awake
	for i, bulletID := range set.BodyIDs {
		sim := set.Sims[i]
		if !sim.IsBullet {
			continue
		}
		rec := w.bodies[bulletID]
		if rec == nil || len(rec.Shapes) == 0 {
			continue
		}
		bulletSR := w.shapes[rec.Shapes[0]]
		if bulletSR == nil {
			continue
		}
		bulletProxy := w.shapeProxy(bulletSR)

		sweep := math2.Sweep{
			LocalCenter: sim.LocalCenter,
			C0:          sim.Center.Sub(set.States[i].LinearVelocity.Scale(dt)),
			Q0:          sim.Rotation,
			C1:          sim.Center,
			Q1:          sim.Rotation,
		}

		var targets []solver.CCDTarget
		for j, otherID := range set.BodyIDs {
			if j == i {
				continue
			}
			otherRec := w.bodies[otherID]
			if otherRec == nil || len(otherRec.Shapes) == 0 || set.Sims[j].IsBullet {
				continue
			}
			otherSR := w.shapes[otherRec.Shapes[0]]
			if otherSR == nil {
				continue
			}
			otherXf := set.Sims[j].Transform(set.States[j])
			targets = append(targets, solver.CCDTarget{
				BodyID: otherID,
				Proxy:  w.shapeProxy(otherSR),
				Sweep: math2.Sweep{
					LocalCenter: set.Sims[j].LocalCenter,
					C0:          otherXf.Q.RotateVector(set.Sims[j].LocalCenter).Add(otherXf.P),
					Q0:          otherXf.Q,
					C1:          otherXf.Q.RotateVector(set.Sims[j].LocalCenter).Add(otherXf.P),
					Q1:          otherXf.Q,
				},
			})
		}
		for _, s := range w.staticCCDTargets() {
			targets = append(targets, s)
		}

		result := solver.SolveContinuous(bulletProxy, sweep, targets)
		if result.Hit && result.Fraction < 1 {
			hitTransform := sweep.Transform(result.Fraction)
			set.Sims[i].Center = hitTransform.Q.RotateVector(sim.LocalCenter).Add(hitTransform.P)
			set.Sims[i].Rotation = hitTransform.Q
		}
	}
}

func (w *World) staticCCDTargets() []solver.CCDTarget {
	var targets []solver.CCDTarget
	set := &w.registry.Static
	for i, bodyID := range set.BodyIDs {
		rec := w.bodies[bodyID]
		if rec == nil {
			continue
		}
		for _, sid := range rec.Shapes {
			sr := w.shapes[sid]
			if sr == nil {
				continue
			}
			xf := set.Sims[i].Transform(set.States[i])
			targets = append(targets, solver.CCDTarget{
				BodyID: bodyID,
				Proxy:  w.shapeProxy(sr),
				Sweep:  math2.Sweep{C0: xf.P, C1: xf.P, Q0: xf.Q, Q1: xf.Q},
			})
		}
	}
	return targets
}

// syncAllProxies resubmits every awake body's shape proxies after the
// step's motion, so the tree reflects final positions before the next
// step's broad-phase refresh runs (see updateOverlapPairs's doc comment).
func (w *World) syncAllProxies() {
	for _, b := range append([]BodyID(nil), w.registry.Awake.BodyIDs...) {
		w.syncBodyProxies(b)
	}
}

// evaluateSleep advances each awake dynamic body's sleep timer, computes
// each island's minimum, and puts ready islands (or islands containing a
// body the caller explicitly asked to sleep via SetAwake(id, false)) to
// sleep.
func (w *World) evaluateSleep(dt float64, islands map[id.ID]*islandSet) {
	if !w.def.EnableSleep {
		return
	}
	set := &w.registry.Awake
	for i := range set.BodyIDs {
		solver.UpdateSleepTime(&set.Sims[i], set.States[i], dt, w.def.SleepLinearVelocity, w.def.SleepAngularVelocity)
	}

	type islandInfo struct {
		minSleep float64
		forced   bool
		bodies   []id.ID
	}
	byRoot := make(map[id.ID]*islandInfo)
	for root, isl := range islands {
		info := &islandInfo{minSleep: -1, bodies: isl.Bodies}
		for _, b := range isl.Bodies {
			idx := set.IndexOf(b)
			if idx < 0 {
				continue
			}
			st := set.Sims[idx].SleepTime
			if info.minSleep < 0 || st < info.minSleep {
				info.minSleep = st
			}
			if w.pendingSleep[b] {
				info.forced = true
			}
		}
		byRoot[root] = info
	}

	for _, info := range byRoot {
		if len(info.bodies) == 0 {
			continue
		}
		ready := info.forced || (info.minSleep >= 0 && info.minSleep >= w.def.SleepTimeThreshold)
		if !ready {
			continue
		}
		isl := &solver.Island{Bodies: info.bodies}
		kind := solver.PutIslandToSleep(w.registry, isl, func(moved id.ID, newIndex int) {
			w.bodyIDs.Relocate(moved, int(solver.SetAwake), newIndex)
		})
		if kind == solver.SetAwake {
			continue
		}
		sleeping := w.registry.SetByKind(kind)
		for idx, b := range sleeping.BodyIDs {
			w.bodyIDs.Relocate(b, int(kind), idx)
			delete(w.pendingSleep, b)
			w.events.BodyEvents = append(w.events.BodyEvents, BodyEvent{BodyID: b, IsAwake: false})
		}
	}
}

func (w *World) refreshStats(islands map[id.ID]*islandSet) {
	touching := 0
	for _, rec := range w.contacts {
		if rec.Touching {
			touching++
		}
	}
	w.StepStats = StepStats{
		BodyCount:     len(w.bodies),
		ContactCount:  len(w.contacts),
		TouchingCount: touching,
		JointCount:    len(w.joints),
		IslandCount:   len(islands),
		ColorStats:    w.graph.Stats(),
		TreeStats:     w.tree.Stats(),
	}
}

// Events returns the read-only event arrays populated by the most recent
// Step call (spec.md §6 "double-buffered... stable until the next step").
func (w *World) Events() (bodies []BodyEvent, sensors []SensorEvent, contacts []ContactEvent, joints []JointEvent) {
	return w.events.BodyEvents, w.events.SensorEvents, w.events.ContactEvents, w.events.JointEvents
}
