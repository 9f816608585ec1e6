// Copyright 2026 The Rigid2D Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package shape

import "github.com/rigid2d/rigid2d/math2"

// Proxy is the GJK support-function input shared by every shape variant:
// up to 8 local-space points plus a rounding radius (spec.md §4.2
// "Proxy: {points[≤8], count, radius}"). A polygon's vertices ARE its
// proxy points; a circle/capsule/segment reduce to 1/2/2 points.
type Proxy struct {
	Points [MaxPolygonVertices]math2.Vec2
	Count  int
	Radius float64
}

// MakeCircleProxy returns the 1-point proxy for a circle.
func MakeCircleProxy(c Circle) Proxy {
	p := Proxy{Count: 1, Radius: c.Radius}
	p.Points[0] = c.Center
	return p
}

// MakeCapsuleProxy returns the 2-point proxy for a capsule.
func MakeCapsuleProxy(c Capsule) Proxy {
	p := Proxy{Count: 2, Radius: c.Radius}
	p.Points[0] = c.Point1
	p.Points[1] = c.Point2
	return p
}

// MakeSegmentProxy returns the 2-point, zero-radius proxy for a segment.
func MakeSegmentProxy(s Segment) Proxy {
	p := Proxy{Count: 2}
	p.Points[0] = s.Point1
	p.Points[1] = s.Point2
	return p
}

// MakePolygonProxy returns the n-point proxy for a polygon, carrying its
// rounding radius.
func MakePolygonProxy(poly Polygon) Proxy {
	p := Proxy{Count: len(poly.Vertices), Radius: poly.Radius}
	copy(p.Points[:], poly.Vertices)
	return p
}

// Support returns the index of the proxy vertex maximizing dot(v, direction).
func (p Proxy) Support(direction math2.Vec2) int {
	bestIndex := 0
	bestValue := p.Points[0].Dot(direction)
	for i := 1; i < p.Count; i++ {
		v := p.Points[i].Dot(direction)
		if v > bestValue {
			bestValue = v
			bestIndex = i
		}
	}
	return bestIndex
}

func (p Proxy) Vertex(i int) math2.Vec2 { return p.Points[i] }
