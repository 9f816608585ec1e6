// Copyright 2026 The Rigid2D Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package distance

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rigid2d/rigid2d/math2"
	"github.com/rigid2d/rigid2d/shape"
)

func circleProxy(radius float64) shape.Proxy {
	return shape.MakeCircleProxy(shape.Circle{Radius: radius})
}

func boxProxy(hx, hy float64) shape.Proxy {
	return shape.MakePolygonProxy(shape.NewBox(hx, hy, 0))
}

func TestDistance_SeparatedCircles(t *testing.T) {
	a := circleProxy(1)
	b := circleProxy(1)
	input := Input{
		ProxyA: a, ProxyB: b,
		TransformA: math2.IdentityTransform,
		TransformB: math2.Transform{P: math2.V2(5, 0), Q: math2.Identity},
		UseRadii: true,
	}
	var cache Cache
	out := Distance(input, &cache)
	assert.InDelta(t, 3.0, out.Distance, 1e-6)
	assert.InDelta(t, 1.0, out.Normal.X, 1e-6)
}

func TestDistance_OverlappingBoxes(t *testing.T) {
	a := boxProxy(1, 1)
	b := boxProxy(1, 1)
	input := Input{
		ProxyA: a, ProxyB: b,
		TransformA: math2.IdentityTransform,
		TransformB: math2.Transform{P: math2.V2(0.5, 0), Q: math2.Identity},
	}
	var cache Cache
	out := Distance(input, &cache)
	assert.InDelta(t, 0, out.Distance, 1e-6)
}

func TestDistance_CacheWarmStartConverges(t *testing.T) {
	a := boxProxy(1, 1)
	b := boxProxy(1, 1)
	var cache Cache
	input := Input{
		ProxyA: a, ProxyB: b,
		TransformA: math2.IdentityTransform,
		TransformB: math2.Transform{P: math2.V2(3, 0), Q: math2.Identity},
	}
	first := Distance(input, &cache)

	input.TransformB.P = math2.V2(3.01, 0)
	second := Distance(input, &cache)

	assert.Less(t, second.Iterations, 10)
	assert.InDelta(t, first.Distance, second.Distance, 0.1)
}

func TestShapeCast_CirclesMeet(t *testing.T) {
	a := circleProxy(0.5)
	b := circleProxy(0.5)
	out := ShapeCast(ShapeCastInput{
		ProxyA: a, ProxyB: b,
		TransformA: math2.IdentityTransform,
		TransformB: math2.Transform{P: math2.V2(5, 0), Q: math2.Identity},
		Translation: math2.V2(10, 0),
		MaxFraction: 1,
	})
	assert.True(t, out.Hit)
	assert.InDelta(t, 0.4, out.Fraction, 0.05)
}

func TestShapeCast_NeverMeets(t *testing.T) {
	a := circleProxy(0.5)
	b := circleProxy(0.5)
	out := ShapeCast(ShapeCastInput{
		ProxyA: a, ProxyB: b,
		TransformA: math2.IdentityTransform,
		TransformB: math2.Transform{P: math2.V2(0, 5), Q: math2.Identity},
		Translation: math2.V2(10, 0),
		MaxFraction: 1,
	})
	assert.False(t, out.Hit)
}

func TestTimeOfImpact_HeadOnCircles(t *testing.T) {
	a := circleProxy(0.5)
	b := circleProxy(0.5)
	input := TOIInput{
		ProxyA: a, ProxyB: b,
		SweepA: math2.Sweep{C0: math2.V2(0, 0), C1: math2.V2(5, 0), Q0: math2.Identity, Q1: math2.Identity},
		SweepB: math2.Sweep{C0: math2.V2(5.5, 0), C1: math2.V2(5.5, 0), Q0: math2.Identity, Q1: math2.Identity},
		MaxFraction: 1,
	}
	out := TimeOfImpact(input)
	assert.Equal(t, StateHit, out.State)
	assert.Greater(t, out.Fraction, 0.0)
	assert.Less(t, out.Fraction, 1.0)
}

func TestTimeOfImpact_Separated(t *testing.T) {
	a := circleProxy(0.5)
	b := circleProxy(0.5)
	input := TOIInput{
		ProxyA: a, ProxyB: b,
		SweepA: math2.Sweep{C0: math2.V2(0, 0), C1: math2.V2(1, 0), Q0: math2.Identity, Q1: math2.Identity},
		SweepB: math2.Sweep{C0: math2.V2(20, 0), C1: math2.V2(20, 0), Q0: math2.Identity, Q1: math2.Identity},
		MaxFraction: 1,
	}
	out := TimeOfImpact(input)
	assert.Equal(t, StateSeparated, out.State)
}
