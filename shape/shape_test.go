// Copyright 2026 The Rigid2D Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package shape

import (
	"math"
	"testing"

	"github.com/rigid2d/rigid2d/math2"
)

func approxEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func TestCircleMass(t *testing.T) {
	c := Circle{Center: math2.V2(1, 2), Radius: 2}
	md := ComputeMass(KindCircle, c, Capsule{}, Polygon{}, 1)
	wantMass := math.Pi * 4
	if !approxEqual(md.Mass, wantMass, 1e-9) {
		t.Fatalf("mass = %v, want %v", md.Mass, wantMass)
	}
	if md.Center != c.Center {
		t.Fatalf("center = %v, want %v", md.Center, c.Center)
	}
	wantInertia := md.Mass * 0.5 * 4
	if !approxEqual(md.Inertia, wantInertia, 1e-9) {
		t.Fatalf("inertia = %v, want %v", md.Inertia, wantInertia)
	}
}

func TestSegmentHasNoMass(t *testing.T) {
	md := ComputeMass(KindSegment, Circle{}, Capsule{}, Polygon{}, 5)
	if md.Mass != 0 || md.Inertia != 0 {
		t.Fatalf("segment should carry no mass, got %+v", md)
	}
}

func TestBoxMassMatchesAnalyticFormula(t *testing.T) {
	hw, hh := 1.0, 2.0
	box := NewBox(hw, hh, 0)
	md := ComputeMass(KindPolygon, Circle{}, Capsule{}, box, 3)
	wantMass := 3 * (2 * hw) * (2 * hh)
	if !approxEqual(md.Mass, wantMass, 1e-9) {
		t.Fatalf("mass = %v, want %v", md.Mass, wantMass)
	}
	if !approxEqual(md.Center.X, 0, 1e-9) || !approxEqual(md.Center.Y, 0, 1e-9) {
		t.Fatalf("center = %v, want origin", md.Center)
	}
	wantInertia := wantMass * ((2*hw)*(2*hw) + (2*hh)*(2*hh)) / 12
	if !approxEqual(md.Inertia, wantInertia, 1e-6) {
		t.Fatalf("inertia = %v, want %v", md.Inertia, wantInertia)
	}
}

func TestCapsuleMassReducesToCircleWhenDegenerate(t *testing.T) {
	cap := Capsule{Point1: math2.V2(0, 0), Point2: math2.V2(0, 0), Radius: 1.5}
	md := ComputeMass(KindCapsule, Circle{}, cap, Polygon{}, 1)
	wantMass := math.Pi * 1.5 * 1.5
	if !approxEqual(md.Mass, wantMass, 1e-9) {
		t.Fatalf("mass = %v, want %v", md.Mass, wantMass)
	}
}

func TestNewPolygonRejectsBadVertexCounts(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for too few vertices")
		}
	}()
	NewPolygon([]math2.Vec2{{X: 0, Y: 0}, {X: 1, Y: 0}}, 0)
}

func TestComputeAABBCircle(t *testing.T) {
	c := Circle{Center: math2.V2(0, 0), Radius: 1}
	xf := math2.Transform{P: math2.V2(5, 5), Q: math2.Identity}
	box := ComputeAABB(KindCircle, c, Capsule{}, Segment{}, Polygon{}, xf)
	if !approxEqual(box.Lower().X, 4, 1e-9) || !approxEqual(box.Upper().X, 6, 1e-9) {
		t.Fatalf("unexpected AABB %+v", box)
	}
}

func TestComputeAABBPolygonIncludesRadius(t *testing.T) {
	box1 := NewBox(1, 1, 0)
	box2 := NewBox(1, 1, 0.5)
	xf := math2.IdentityTransform
	b1 := ComputeAABB(KindPolygon, Circle{}, Capsule{}, Segment{}, box1, xf)
	b2 := ComputeAABB(KindPolygon, Circle{}, Capsule{}, Segment{}, box2, xf)
	if !(b2.Upper().X > b1.Upper().X) {
		t.Fatalf("rounded polygon AABB should be larger: %+v vs %+v", b2, b1)
	}
}

func TestPolygonProxySupport(t *testing.T) {
	box := NewBox(1, 1, 0)
	proxy := MakePolygonProxy(box)
	idx := proxy.Support(math2.V2(1, 0))
	v := proxy.Vertex(idx)
	if v.X != 1 {
		t.Fatalf("support point in +X direction should have X=1, got %+v", v)
	}
}

func TestCircleProxySupportIsAlwaysTheCenter(t *testing.T) {
	c := Circle{Center: math2.V2(3, 4), Radius: 2}
	proxy := MakeCircleProxy(c)
	if proxy.Count != 1 || proxy.Radius != 2 {
		t.Fatalf("unexpected proxy %+v", proxy)
	}
	idx := proxy.Support(math2.V2(1, 1))
	if proxy.Vertex(idx) != c.Center {
		t.Fatalf("circle proxy support should be its center")
	}
}
