// Copyright 2026 The Rigid2D Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package solver

import "github.com/rigid2d/rigid2d/id"

// TouchEvent reports a contact's touching-state transition during a step
// (spec.md §4.6 "record... begin/end touch").
type TouchEvent struct {
	ContactID id.ID
	ShapeA    id.ID
	ShapeB    id.ID
	Began     bool // false means end-touch
}

// HitEvent reports a contact point whose approach speed exceeded the
// configured hit-event threshold (spec.md §4.6 "hit events").
type HitEvent struct {
	ContactID    id.ID
	ShapeA       id.ID
	ShapeB       id.ID
	Point        [2]float64
	Normal       [2]float64
	ApproachSpeed float64
}

// SensorEvent reports a sensor shape's overlap-state transition.
type SensorEvent struct {
	SensorShapeID id.ID
	VisitorShapeID id.ID
	Began         bool
}

// JointEvent fires when a joint's accumulated impulse implies a force or
// torque over the configured thresholds (spec.md §4.6 "Joint events fire
// when |linearImpulse|*invH > forceThreshold or |angularImpulse|*invH >
// torqueThreshold").
type JointEvent struct {
	JointID id.ID
	Force   float64
	Torque  float64
}

// EventSink collects the step's read-only event arrays; the root package
// owns the persistent arrays and passes pointers to these slices in.
type EventSink struct {
	TouchEvents  []TouchEvent
	HitEvents    []HitEvent
	SensorEvents []SensorEvent
	JointEvents  []JointEvent
}

func (e *EventSink) Reset() {
	e.TouchEvents = e.TouchEvents[:0]
	e.HitEvents = e.HitEvents[:0]
	e.SensorEvents = e.SensorEvents[:0]
	e.JointEvents = e.JointEvents[:0]
}

// EmitHitEvents scans a contact constraint's points after the velocity
// solve and records a HitEvent for any point whose prepared approach
// speed exceeded threshold, matching spec.md's hit-event rule.
func EmitHitEvents(sink *EventSink, c *ContactConstraint, shapeA, shapeB id.ID, threshold float64) {
	for i := 0; i < c.PointCount; i++ {
		p := c.Points[i]
		speed := -p.RelativeVelocity
		if speed > threshold && p.MaxNormalImpulse > 0 {
			sink.HitEvents = append(sink.HitEvents, HitEvent{
				ContactID: c.ID, ShapeA: shapeA, ShapeB: shapeB,
				ApproachSpeed: speed,
			})
		}
	}
}

// EmitJointEvent checks a joint's accumulated impulses against the force
// and torque thresholds and records a JointEvent if either trips.
func EmitJointEvent(sink *EventSink, jointID id.ID, linearImpulse float64, angularImpulse, invH, forceThreshold, torqueThreshold float64) {
	force := linearImpulse * invH
	torque := angularImpulse * invH
	if force > forceThreshold || torque > torqueThreshold {
		sink.JointEvents = append(sink.JointEvents, JointEvent{JointID: jointID, Force: force, Torque: torque})
	}
}
