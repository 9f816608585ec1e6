// Copyright 2026 The Rigid2D Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rigid2d

import (
	"github.com/rigid2d/rigid2d/aabb"
	"github.com/rigid2d/rigid2d/id"
	"github.com/rigid2d/rigid2d/math2"
	"github.com/rigid2d/rigid2d/shape"
)

// shapeUserData packs a ShapeID into the uint64 the broadphase tree stores
// per-proxy and hands back on every query, avoiding a second proxyID->shape
// lookup table.
func shapeUserData(s ShapeID) uint64 {
	return uint64(s.Index)<<32 | uint64(s.Generation)<<16 | uint64(s.WorldSlot)
}

func shapeFromUserData(u uint64) ShapeID {
	return id.ID{
		Index:      uint32(u >> 32),
		Generation: uint16(u >> 16),
		WorldSlot:  uint16(u),
	}
}

// CreateCircleShape attaches a circle to bodyID and returns its id.
func (w *World) CreateCircleShape(bodyID BodyID, def ShapeDef, c shape.Circle) ShapeID {
	return w.createShape(bodyID, def, shapeGeometryDef{Kind: shape.KindCircle, Circle: c})
}

// CreateCapsuleShape attaches a capsule to bodyID and returns its id.
func (w *World) CreateCapsuleShape(bodyID BodyID, def ShapeDef, c shape.Capsule) ShapeID {
	return w.createShape(bodyID, def, shapeGeometryDef{Kind: shape.KindCapsule, Capsule: c})
}

// CreateSegmentShape attaches a one-sided segment to bodyID. Segments
// carry no mass and are only meaningful on static bodies (spec.md §3).
func (w *World) CreateSegmentShape(bodyID BodyID, def ShapeDef, s shape.Segment) ShapeID {
	return w.createShape(bodyID, def, shapeGeometryDef{Kind: shape.KindSegment, Segment: s})
}

// CreateChainSegmentShape attaches one ghost-vertex-bounded chain edge
// (spec.md §3, §4.3 "Chain ghost-vertex rejection").
func (w *World) CreateChainSegmentShape(bodyID BodyID, def ShapeDef, cs shape.ChainSegment) ShapeID {
	return w.createShape(bodyID, def, shapeGeometryDef{Kind: shape.KindChainSegment, ChainSegment: cs})
}

// CreatePolygonShape attaches a (possibly rounded) convex polygon to
// bodyID.
func (w *World) CreatePolygonShape(bodyID BodyID, def ShapeDef, poly shape.Polygon) ShapeID {
	return w.createShape(bodyID, def, shapeGeometryDef{Kind: shape.KindPolygon, Polygon: poly})
}

func (w *World) createShape(bodyID BodyID, def ShapeDef, geom shapeGeometryDef) ShapeID {
	bodyRec, ok := w.bodies[bodyID]
	if !ok {
		return id.Nil
	}
	if def.Filter == (Filter{}) {
		def.Filter = DefaultFilter()
	}

	localIndex := -1 // shapes have no solver-set home; see DESIGN.md "Shape ids carry no solver-set membership".
	shapeID := w.shapeIDs.Alloc(0, localIndex)

	rec := &shapeRecord{
		ID:                  shapeID,
		BodyID:              bodyID,
		Kind:                geom.Kind,
		Circle:              geom.Circle,
		Capsule:             geom.Capsule,
		Segment:             geom.Segment,
		ChainSegment:        geom.ChainSegment,
		Polygon:             geom.Polygon,
		Density:             def.Density,
		Friction:            def.Friction,
		Restitution:         def.Restitution,
		IsSensor:            def.IsSensor,
		EnableContactEvents: def.EnableContactEvents,
		EnableSensorEvents:  def.EnableSensorEvents,
		EnableHitEvents:     def.EnableHitEvents,
		Filter:              def.Filter,
		UserData:            def.UserData,
		ProxyID:             -1,
	}
	w.shapes[shapeID] = rec
	bodyRec.Shapes = append(bodyRec.Shapes, shapeID)

	xf := w.Transform(bodyID)
	box := w.shapeAABB(rec, xf)
	fatBox := box
	if bodyRec.Kind == BodyDynamic {
		fatBox = fatBox.Fatten(w.def.BroadphaseConfig.Margin)
	}
	rec.ProxyID = w.tree.CreateProxy(fatBox, def.Filter.Category, shapeUserData(shapeID))

	if geom.Kind == shape.KindCircle || geom.Kind == shape.KindCapsule || geom.Kind == shape.KindPolygon {
		w.recomputeMass(bodyID)
	}
	return shapeID
}

func (w *World) shapeAABB(rec *shapeRecord, xf math2.Transform) aabb.AABB {
	seg := rec.Segment
	if rec.Kind == shape.KindChainSegment {
		seg = rec.ChainSegment.Segment
	}
	return shape.ComputeAABB(rec.Kind, rec.Circle, rec.Capsule, seg, rec.Polygon, xf)
}

// DestroyShape detaches a shape from its body, removing its broad-phase
// proxy and every contact that referenced it, then recomputes the owning
// body's mass properties.
func (w *World) DestroyShape(s ShapeID) {
	rec, ok := w.shapes[s]
	if !ok {
		return
	}

	for key := range w.contacts {
		if key.ShapeA == s || key.ShapeB == s {
			delete(w.contacts, key)
		}
	}

	if rec.ProxyID >= 0 {
		w.tree.DestroyProxy(rec.ProxyID)
	}

	if bodyRec, ok := w.bodies[rec.BodyID]; ok {
		for i, sid := range bodyRec.Shapes {
			if sid == s {
				bodyRec.Shapes = append(bodyRec.Shapes[:i], bodyRec.Shapes[i+1:]...)
				break
			}
		}
	}

	w.shapeIDs.Free(s)
	delete(w.shapes, s)
	w.recomputeMass(rec.BodyID)
}

// recomputeMass rebuilds a body's composite mass, center of mass, and
// rotational inertia from its currently attached shapes (spec.md §3 "a
// body's mass properties are the sum of its attached shapes'"), preserving
// the body's origin transform (teacher's Body.UpdateMassProperties keeps
// the same invariant: changing Geometry never teleports the body).
func (w *World) recomputeMass(b BodyID) {
	rec, ok := w.bodies[b]
	if !ok || rec.Kind != BodyDynamic {
		return
	}
	sim, state, ok := w.bodySimState(b)
	if !ok {
		return
	}
	origin := sim.Transform(*state).P

	var totalMass float64
	center := math2.Vec2{}
	for _, sid := range rec.Shapes {
		sr := w.shapes[sid]
		if sr == nil || sr.IsSensor {
			continue
		}
		md := shape.ComputeMass(sr.Kind, sr.Circle, sr.Capsule, sr.Polygon, sr.Density)
		totalMass += md.Mass
		center = center.MulAdd(md.Center, md.Mass)
	}

	if totalMass <= 0 {
		sim.InvMass = 0
		sim.InvInertia = 0
		sim.LocalCenter = math2.Vec2{}
		sim.Center = origin
		return
	}
	center = center.Scale(1 / totalMass)

	var inertia float64
	for _, sid := range rec.Shapes {
		sr := w.shapes[sid]
		if sr == nil || sr.IsSensor {
			continue
		}
		md := shape.ComputeMass(sr.Kind, sr.Circle, sr.Capsule, sr.Polygon, sr.Density)
		offset := md.Center.Sub(center)
		inertia += md.Inertia + md.Mass*offset.LengthSquared()
	}

	sim.InvMass = 1 / totalMass
	if inertia > 0 {
		sim.InvInertia = 1 / inertia
	} else {
		sim.InvInertia = 0
	}
	sim.LocalCenter = center
	sim.Center = origin.Add(sim.Rotation.RotateVector(center))
}

// syncBodyProxies recomputes and resubmits the broad-phase AABB of every
// shape attached to b, called after a teleport (SetTransform) since a
// discontinuous jump must not wait for the incremental per-step refit.
func (w *World) syncBodyProxies(b BodyID) {
	rec, ok := w.bodies[b]
	if !ok {
		return
	}
	xf := w.Transform(b)
	for _, sid := range rec.Shapes {
		sr := w.shapes[sid]
		if sr == nil || sr.ProxyID < 0 {
			continue
		}
		box := w.shapeAABB(sr, xf)
		fatBox := box
		if rec.Kind == BodyDynamic {
			fatBox = fatBox.Fatten(w.def.BroadphaseConfig.Margin)
		}
		if !aabb.Contains(w.tree.FatAABB(sr.ProxyID), box) {
			w.tree.MoveProxy(sr.ProxyID, fatBox, math2.Vec2{})
		}
	}
}

// Shape accessors.

func (w *World) ShapeBody(s ShapeID) BodyID {
	if rec, ok := w.shapes[s]; ok {
		return rec.BodyID
	}
	return id.Nil
}

func (w *World) ShapeUserData(s ShapeID) interface{} {
	if rec, ok := w.shapes[s]; ok {
		return rec.UserData
	}
	return nil
}

func (w *World) IsSensor(s ShapeID) bool {
	rec, ok := w.shapes[s]
	return ok && rec.IsSensor
}
