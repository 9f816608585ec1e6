// Copyright 2026 The Rigid2D Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rigid2d

import (
	"github.com/rigid2d/rigid2d/id"
	"github.com/rigid2d/rigid2d/solver"
)

// CreateJoint constructs the concrete solver.JointSolver def.Kind names,
// seeds its JointBase, and registers it in the world. Returns id.Nil if
// either endpoint is unknown.
func (w *World) CreateJoint(def JointDef) JointID {
	if _, ok := w.bodies[def.BodyA]; !ok {
		return id.Nil
	}
	if _, ok := w.bodies[def.BodyB]; !ok {
		return id.Nil
	}

	jointID := w.jointIDs.Alloc(0, -1)
	base := solver.JointBase{
		ID:               jointID,
		Kind:             def.Kind,
		BodyA:            def.BodyA,
		BodyB:            def.BodyB,
		LocalAnchorA:     def.LocalAnchorA,
		LocalAnchorB:     def.LocalAnchorB,
		LocalAxisA:       def.LocalAxisA,
		ReferenceAngle:   def.ReferenceAngle,
		CollideConnected: def.CollideConnected,
	}

	if def.Kind == solver.JointFilter {
		// FilterJoint carries no Prepare/WarmStart/Solve methods (it exists
		// purely to veto collision between its two bodies) and so does not
		// satisfy solver.JointSolver; store it directly rather than through
		// the shared js variable below, and keep it out of jointBaseOf's
		// type switch as well (see step.go, which special-cases
		// JointFilter before ever touching jr.Solver).
		fj := &solver.FilterJoint{JointBase: base}
		fj.CollideConnected = false
		w.joints[jointID] = &jointRecord{Base: &fj.JointBase, Solver: nil}
		w.WakeBody(def.BodyA)
		w.WakeBody(def.BodyB)
		return jointID
	}

	var js solver.JointSolver
	switch def.Kind {
	case solver.JointDistance:
		j := &solver.DistanceJoint{
			JointBase:    base,
			RestLength:   def.RestLength,
			MinLength:    def.MinLength,
			MaxLength:    def.MaxLength,
			EnableLimit:  def.EnableLimit,
			EnableSpring: def.EnableSpring,
			Hertz:        def.Hertz,
			DampingRatio: def.DampingRatio,
		}
		js = j
	case solver.JointMotor:
		j := &solver.MotorJoint{
			JointBase:        base,
			LinearOffset:     def.LinearOffset,
			AngularOffset:    def.AngularOffset,
			MaxForce:         def.MaxForce,
			MaxTorque:        def.MaxTorque,
			CorrectionFactor: def.CorrectionFactor,
		}
		js = j
	case solver.JointMouse:
		j := &solver.MouseJoint{
			JointBase:    base,
			Target:       def.Target,
			Hertz:        def.Hertz,
			DampingRatio: def.DampingRatio,
			MaxForce:     def.MaxForce,
		}
		js = j
	case solver.JointPrismatic:
		j := &solver.PrismaticJoint{
			JointBase:        base,
			EnableLimit:      def.EnableLimit,
			LowerTranslation: def.LowerTranslation,
			UpperTranslation: def.UpperTranslation,
			EnableMotor:      def.EnableMotor,
			MotorSpeed:       def.MotorSpeed,
			MaxMotorForce:    def.MaxMotorForce,
		}
		js = j
	case solver.JointRevolute:
		j := &solver.RevoluteJoint{
			JointBase:      base,
			EnableLimit:    def.EnableLimit,
			LowerAngle:     def.LowerAngle,
			UpperAngle:     def.UpperAngle,
			EnableMotor:    def.EnableMotor,
			MotorSpeed:     def.MotorSpeed,
			MaxMotorTorque: def.MaxMotorTorque,
		}
		js = j
	case solver.JointWeld:
		j := &solver.WeldJoint{
			JointBase:      base,
			LinearHertz:    def.LinearHertz,
			LinearDamping:  def.LinearDamping,
			AngularHertz:   def.AngularHertz,
			AngularDamping: def.AngularDamping,
		}
		js = j
	case solver.JointWheel:
		j := &solver.WheelJoint{
			JointBase:        base,
			EnableSpring:     def.EnableSpring,
			Hertz:            def.Hertz,
			DampingRatio:     def.DampingRatio,
			EnableLimit:      def.EnableLimit,
			LowerTranslation: def.LowerTranslation,
			UpperTranslation: def.UpperTranslation,
			EnableMotor:      def.EnableMotor,
			MotorSpeed:       def.MotorSpeed,
			MaxMotorTorque:   def.MaxMotorTorque,
		}
		js = j
	default:
		w.jointIDs.Free(jointID)
		return id.Nil
	}

	w.joints[jointID] = &jointRecord{Base: jointBaseOf(js), Solver: js}
	w.WakeBody(def.BodyA)
	w.WakeBody(def.BodyB)
	return jointID
}

// jointBaseOf returns the *solver.JointBase embedded in a concrete joint,
// so step.go can read BodyA/BodyB/CollideConnected/impulse-accumulators
// uniformly without a type switch. FilterJoint never reaches this
// function — it does not implement solver.JointSolver and is handled as
// a special case directly in CreateJoint.
func jointBaseOf(js solver.JointSolver) *solver.JointBase {
	switch j := js.(type) {
	case *solver.DistanceJoint:
		return &j.JointBase
	case *solver.MotorJoint:
		return &j.JointBase
	case *solver.MouseJoint:
		return &j.JointBase
	case *solver.PrismaticJoint:
		return &j.JointBase
	case *solver.RevoluteJoint:
		return &j.JointBase
	case *solver.WeldJoint:
		return &j.JointBase
	case *solver.WheelJoint:
		return &j.JointBase
	default:
		return nil
	}
}

// DestroyJoint removes a joint.
func (w *World) DestroyJoint(j JointID) {
	rec, ok := w.joints[j]
	if !ok {
		return
	}
	w.WakeBody(rec.Base.BodyA)
	w.WakeBody(rec.Base.BodyB)
	delete(w.joints, j)
	w.jointIDs.Free(j)
}

func (w *World) JointBodies(j JointID) (BodyID, BodyID) {
	if rec, ok := w.joints[j]; ok {
		return rec.Base.BodyA, rec.Base.BodyB
	}
	return id.Nil, id.Nil
}
