// Copyright 2026 The Rigid2D Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rigid2d

// ContactEventKind distinguishes the touching-transition and hit
// sub-categories the solver package reports separately (solver.TouchEvent,
// solver.HitEvent) but spec.md §6 exposes as one ContactEvents array.
type ContactEventKind int

const (
	ContactBegan ContactEventKind = iota
	ContactEnded
	ContactHit
)

// BodyEvent reports a body-level transition (currently: sleep/wake) during
// the step that just finished.
type BodyEvent struct {
	BodyID  BodyID
	IsAwake bool
}

// SensorEvent reports a sensor shape's overlap-state transition.
type SensorEvent struct {
	SensorShapeID  ShapeID
	VisitorShapeID ShapeID
	Began          bool
}

// ContactEvent reports one contact's activity during the step: a
// begin/end-touch transition, or (Kind == ContactHit) a point whose
// approach speed exceeded HitEventThreshold.
type ContactEvent struct {
	Kind          ContactEventKind
	ShapeA        ShapeID
	ShapeB        ShapeID
	Point         [2]float64
	Normal        [2]float64
	ApproachSpeed float64
}

// JointEvent fires when a joint's accumulated impulse implies a force or
// torque over its configured thresholds.
type JointEvent struct {
	JointID JointID
	Force   float64
	Torque  float64
}

// eventBuffers holds the four double-buffered read-only arrays spec.md §6
// and §5 describe ("End-touch event arrays are double-buffered: the array
// exposed after step N reflects events generated during step N, and
// remains stable until the next step"). World.Step resets and repopulates
// these at the end of each step; the arrays returned to callers between
// steps are never mutated in place.
type eventBuffers struct {
	BodyEvents    []BodyEvent
	SensorEvents  []SensorEvent
	ContactEvents []ContactEvent
	JointEvents   []JointEvent
}

func (e *eventBuffers) reset() {
	e.BodyEvents = e.BodyEvents[:0]
	e.SensorEvents = e.SensorEvents[:0]
	e.ContactEvents = e.ContactEvents[:0]
	e.JointEvents = e.JointEvents[:0]
}
