// Copyright 2026 The Rigid2D Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rigid2d

import (
	"github.com/rigid2d/rigid2d/broadphase"
	"github.com/rigid2d/rigid2d/id"
	"github.com/rigid2d/rigid2d/math2"
	"github.com/rigid2d/rigid2d/shape"
	"github.com/rigid2d/rigid2d/solver"
)

// WorldDef configures a new World (spec.md §6 "Public defaults"). Matching
// teacher's NewBody/NewContactMaterial idiom, the constructor sets sane
// defaults and every field stays exported for override.
type WorldDef struct {
	Gravity math2.Vec2

	ContactHertz        float64
	ContactDampingRatio float64
	JointHertz          float64
	JointDampingRatio   float64

	RestitutionThreshold float64
	HitEventThreshold    float64
	MaximumLinearSpeed   float64

	SubStepCount int

	EnableSleep      bool
	EnableContinuous bool
	EnableWarmStarting bool

	SleepLinearVelocity  float64
	SleepAngularVelocity float64
	SleepTimeThreshold   float64

	BroadphaseConfig broadphase.Config

	TaskExecutor    Executor
	FrictionMix     FrictionMixFunc
	RestitutionMix  RestitutionMixFunc
	CustomFilter    CustomFilterFunc
	PreSolve        PreSolveFunc
}

// DefaultWorldDef returns the tunables documented in spec.md §6: gravity
// (0,-10), contact hertz 30, damping ratio 10, restitution threshold 1.0,
// hit threshold 1.0, max linear speed 400, sleep and continuous enabled.
func DefaultWorldDef() WorldDef {
	return WorldDef{
		Gravity:              math2.V2(0, -10),
		ContactHertz:         30,
		ContactDampingRatio:  10,
		JointHertz:           60,
		JointDampingRatio:    2,
		RestitutionThreshold: 1.0,
		HitEventThreshold:    1.0,
		MaximumLinearSpeed:   400,
		SubStepCount:         4,
		EnableSleep:          true,
		EnableContinuous:     true,
		EnableWarmStarting:   true,
		SleepLinearVelocity:  solver.DefaultSleepLinearVelocity,
		SleepAngularVelocity: solver.DefaultSleepAngularVelocity,
		SleepTimeThreshold:   solver.DefaultSleepTimeThreshold,
		BroadphaseConfig:     broadphase.DefaultConfig(),
		FrictionMix:          DefaultFrictionMix,
		RestitutionMix:       DefaultRestitutionMix,
	}
}

// BodyKind is one of {static, kinematic, dynamic} (spec.md §3 "Bodies").
type BodyKind int

const (
	BodyStatic BodyKind = iota
	BodyKinematic
	BodyDynamic
)

// BodyDef configures a new body.
type BodyDef struct {
	Kind BodyKind

	Position math2.Vec2
	Angle    float64

	LinearVelocity  math2.Vec2
	AngularVelocity float64

	LinearDamping  float64
	AngularDamping float64
	GravityScale   float64

	Locks solver.MotionLocks

	EnableSleep bool
	IsBullet    bool
	IsAwake     bool
	IsEnabled   bool

	UserData interface{}
	Name     string
}

// DefaultBodyDef returns a dynamic body definition with unit gravity scale,
// no damping, awake and enabled, matching teacher's NewBody default of
// "zeroed kinematic state, mass computed later from attached geometry".
func DefaultBodyDef() BodyDef {
	return BodyDef{
		Kind:         BodyDynamic,
		GravityScale: 1,
		EnableSleep:  true,
		IsAwake:      true,
		IsEnabled:    true,
	}
}

// Filter controls which shape pairs may collide (spec.md §3 "collision
// filter"). Two shapes collide iff (a.Category & b.Mask) != 0 &&
// (b.Category & a.Mask) != 0, unless they share a non-zero GroupIndex, in
// which case the sign of GroupIndex overrides the bitmask test.
type Filter struct {
	Category   uint64
	Mask       uint64
	GroupIndex int32
}

// DefaultFilter collides with everything and belongs to category 1.
func DefaultFilter() Filter {
	return Filter{Category: 1, Mask: ^uint64(0)}
}

// ShapeDef configures a new shape attached to a body.
type ShapeDef struct {
	Density     float64
	Friction    float64
	Restitution float64

	IsSensor            bool
	EnableContactEvents bool
	EnableSensorEvents  bool
	EnableHitEvents     bool

	Filter Filter

	UserData interface{}
}

// DefaultShapeDef matches teacher's NewContactMaterial default of
// moderate friction, no bounce, and a positive unit density so an
// unconfigured shape still contributes sane mass.
func DefaultShapeDef() ShapeDef {
	return ShapeDef{
		Density:             1.0,
		Friction:            0.6,
		Restitution:         0,
		EnableContactEvents: true,
		EnableHitEvents:     false,
		Filter:              DefaultFilter(),
	}
}

// JointDef configures a new joint. Every variant's parameters live on one
// struct (matching box2d's per-kind-def-union convention carried through
// original_source); DefaultJointDef(kind) seeds the fields that variant
// actually reads, leaving the rest at their zero value.
type JointDef struct {
	Kind solver.JointKind

	BodyA, BodyB id.ID

	LocalAnchorA math2.Vec2
	LocalAnchorB math2.Vec2
	LocalAxisA   math2.Vec2

	ReferenceAngle   float64
	CollideConnected bool

	// Distance
	RestLength, MinLength, MaxLength float64
	EnableLimit                      bool
	EnableSpring                     bool
	Hertz, DampingRatio              float64

	// Revolute / Prismatic / Wheel
	LowerAngle, UpperAngle             float64
	LowerTranslation, UpperTranslation float64
	EnableMotor                        bool
	MotorSpeed                         float64
	MaxMotorTorque, MaxMotorForce      float64

	// Weld
	LinearHertz, LinearDamping   float64
	AngularHertz, AngularDamping float64

	// Mouse
	Target   math2.Vec2
	MaxForce float64

	// Motor joint
	LinearOffset     math2.Vec2
	AngularOffset    float64
	MaxTorque        float64
	CorrectionFactor float64
}

// DefaultJointDef seeds the parameters the given variant actually consumes;
// callers still must set BodyA/BodyB and the anchor frames.
func DefaultJointDef(kind solver.JointKind) JointDef {
	def := JointDef{Kind: kind}
	switch kind {
	case solver.JointDistance:
		def.RestLength = 1
		def.MaxLength = 1e9
	case solver.JointRevolute:
		def.LowerAngle, def.UpperAngle = -0.25*3.141592653589793, 0.25*3.141592653589793
	case solver.JointPrismatic:
		def.LocalAxisA = math2.V2(1, 0)
	case solver.JointWheel:
		def.LocalAxisA = math2.V2(0, 1)
		def.Hertz = 4
		def.DampingRatio = 0.7
	case solver.JointWeld:
		def.LinearHertz, def.AngularHertz = 0, 0
	case solver.JointMouse:
		def.Hertz = 5
		def.DampingRatio = 0.7
		def.MaxForce = 1000
	case solver.JointMotor:
		def.MaxForce = 1
		def.MaxTorque = 1
		def.CorrectionFactor = 0.3
	}
	return def
}

// shapeGeometryDef bundles the one geometry variant a ShapeDef-based
// constructor actually populates, keeping CreateShape's call sites
// (CreateCircleShape, CreateCapsuleShape, ...) thin wrappers around one
// shared path.
type shapeGeometryDef struct {
	Kind         shape.Kind
	Circle       shape.Circle
	Capsule      shape.Capsule
	Segment      shape.Segment
	ChainSegment shape.ChainSegment
	Polygon      shape.Polygon
}
