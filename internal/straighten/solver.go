/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package straighten solves the rotate-and-recrop geometry of the straighten
// tool and applies the resulting clip rectangle to a scene.
package straighten

import (
	"math"

	"imagecraft/internal/geom"
)

// minSide is the smallest side length reported as a real rectangle.
const minSide = 1e-9

// RotatedBoundingBox is the size of the axis-aligned box around a w x h
// rectangle rotated by angleDeg about its centre. It projects the four
// corners, so it agrees with scene objects carrying a full transform.
func RotatedBoundingBox(w, h, angleDeg float64) geom.Size {
	c := geom.Pt{X: w / 2, Y: h / 2}
	m := geom.RotateAbout(angleDeg, c)
	corners := [4]geom.Pt{
		m.Apply(geom.Pt{}),
		m.Apply(geom.Pt{X: w}),
		m.Apply(geom.Pt{X: w, Y: h}),
		m.Apply(geom.Pt{Y: h}),
	}
	minX, minY := corners[0].X, corners[0].Y
	for _, p := range corners[1:] {
		minX = math.Min(minX, p.X)
		minY = math.Min(minY, p.Y)
	}
	var size geom.Size
	for _, p := range corners {
		size.W = math.Max(size.W, p.X-minX)
		size.H = math.Max(size.H, p.Y-minY)
	}
	return size
}

// LargestInscribedRect returns the size of the largest axis-aligned
// rectangle with the source aspect ratio ow/oh that stays inside the image
// footprint after rotating by angleDeg; rw x rh is the rotated bounding box.
// The angle is folded into [0, 90] first, since the footprint of a rotation
// by t and by 180-t only differ by a mirror. Results that are not finite or
// below minSide come back as the zero size.
func LargestInscribedRect(ow, oh, rw, rh, angleDeg float64) geom.Size {
	if !(ow > 0) || !(oh > 0) || !(rw > 0) || !(rh > 0) {
		return geom.Size{}
	}
	deg := math.Mod(math.Abs(angleDeg), 180)
	if deg > 90 {
		deg = 180 - deg
	}
	cos, sin := geom.CosSin(deg)

	aspect := ow / oh
	total := oh
	if aspect < 1 {
		total = ow / (rw / rh)
	}
	h := total / (aspect*sin + cos)
	w := h * aspect
	if !sane(w) || !sane(h) {
		return geom.Size{}
	}
	return geom.Size{W: w, H: h}
}

func sane(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= minSide
}

// CenteredIn places a rectangle of size inner in the middle of outer.
func CenteredIn(outer, inner geom.Size) geom.Rect {
	return geom.Rect{
		Left:   (outer.W - inner.W) / 2,
		Top:    (outer.H - inner.H) / 2,
		Width:  inner.W,
		Height: inner.H,
	}
}
