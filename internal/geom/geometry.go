/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package geom

// Basic 2D geometry shared by the crop and straighten engines.
// All values are canvas pixels in float64.

import "math"

// Precision is the number of decimal digits kept by FixFloatingPoint.
const Precision = 5

// Pt is a 2D point.
type Pt struct{ X, Y float64 }

// Size is a width/height pair.
type Size struct{ W, H float64 }

// IsZero reports whether the size has no area.
func (s Size) IsZero() bool { return s.W <= 0 || s.H <= 0 }

// Rect is an axis-aligned rectangle defined by its top-left corner and size.
type Rect struct {
	Left, Top     float64
	Width, Height float64
}

func R(left, top, width, height float64) Rect {
	return Rect{Left: left, Top: top, Width: width, Height: height}
}

func (r Rect) Right() float64  { return r.Left + r.Width }
func (r Rect) Bottom() float64 { return r.Top + r.Height }
func (r Rect) Size() Size      { return Size{W: r.Width, H: r.Height} }
func (r Rect) Center() Pt      { return Pt{X: r.Left + r.Width/2, Y: r.Top + r.Height/2} }

// Aspect returns width/height, or 0 for a degenerate rectangle.
func (r Rect) Aspect() float64 {
	if r.Height == 0 {
		return 0
	}
	return r.Width / r.Height
}

// Within reports whether r lies inside [0,w]x[0,h], allowing for the
// rounding error FixFloatingPoint introduces.
func (r Rect) Within(w, h float64) bool {
	const eps = 1e-4
	return r.Left >= -eps && r.Top >= -eps && r.Right() <= w+eps && r.Bottom() <= h+eps
}

// Fixed returns r with every field passed through FixFloatingPoint.
func (r Rect) Fixed() Rect {
	return Rect{
		Left:   FixFloatingPoint(r.Left),
		Top:    FixFloatingPoint(r.Top),
		Width:  FixFloatingPoint(r.Width),
		Height: FixFloatingPoint(r.Height),
	}
}

// Affine2D represents a 2D affine transform as matrix:
// | a c e |
// | b d f |
// | 0 0 1 |
type Affine2D struct{ A, B, C, D, E, F float64 }

var Identity = Affine2D{A: 1, D: 1}

func (m Affine2D) Mul(n Affine2D) Affine2D {
	return Affine2D{
		A: m.A*n.A + m.C*n.B,
		B: m.B*n.A + m.D*n.B,
		C: m.A*n.C + m.C*n.D,
		D: m.B*n.C + m.D*n.D,
		E: m.A*n.E + m.C*n.F + m.E,
		F: m.B*n.E + m.D*n.F + m.F,
	}
}

func (m Affine2D) Apply(p Pt) Pt {
	return Pt{
		X: m.A*p.X + m.C*p.Y + m.E,
		Y: m.B*p.X + m.D*p.Y + m.F,
	}
}

func Translate(tx, ty float64) Affine2D { return Affine2D{A: 1, D: 1, E: tx, F: ty} }
func Scale(sx, sy float64) Affine2D     { return Affine2D{A: sx, D: sy} }

// Rotate returns a rotation by deg degrees (clockwise on a y-down canvas).
// Multiples of 90 degrees produce exact matrices.
func Rotate(deg float64) Affine2D {
	c, s := CosSin(deg)
	return Affine2D{A: c, B: s, C: -s, D: c}
}

// RotateAbout rotates by deg degrees around the point p.
func RotateAbout(deg float64, p Pt) Affine2D {
	return Translate(p.X, p.Y).Mul(Rotate(deg)).Mul(Translate(-p.X, -p.Y))
}

// CosSin returns cos and sin of an angle in degrees, snapping quarter turns
// so that 90/180/270 do not leak 1e-16 residues into bounding boxes.
func CosSin(deg float64) (float64, float64) {
	d := math.Mod(deg, 360)
	if d < 0 {
		d += 360
	}
	switch d {
	case 0:
		return 1, 0
	case 90:
		return 0, 1
	case 180:
		return -1, 0
	case 270:
		return 0, -1
	}
	rad := d * math.Pi / 180
	return math.Cos(rad), math.Sin(rad)
}

// Bounds transforms the four corners of r by m and returns their bounding box.
func (m Affine2D) Bounds(r Rect) Rect {
	corners := [4]Pt{
		{r.Left, r.Top},
		{r.Right(), r.Top},
		{r.Left, r.Bottom()},
		{r.Right(), r.Bottom()},
	}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, c := range corners {
		p := m.Apply(c)
		minX = math.Min(minX, p.X)
		minY = math.Min(minY, p.Y)
		maxX = math.Max(maxX, p.X)
		maxY = math.Max(maxY, p.Y)
	}
	return Rect{Left: minX, Top: minY, Width: maxX - minX, Height: maxY - minY}
}

// FixFloatingPoint rounds v to Precision decimal places so that repeated
// aspect recalculations do not drift.
func FixFloatingPoint(v float64) float64 {
	return FloatRound(v, Precision)
}

// FloatRound rounds v to n decimal places deterministically.
func FloatRound(v float64, places int) float64 {
	if places < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	pow := math.Pow(10, float64(places))
	return math.Round(v*pow) / pow
}

// Clamp limits v to [lo, hi]. When lo > hi the bounds are swapped.
func Clamp(v, lo, hi float64) float64 {
	if lo > hi {
		lo, hi = hi, lo
	}
	return math.Max(lo, math.Min(v, hi))
}

// Positive returns v, or 1 when v is not a positive finite number.
func Positive(v float64) float64 {
	if !(v > 0) || math.IsInf(v, 1) {
		return 1
	}
	return v
}

// Invert computes the inverse of an affine matrix, or Identity when m is singular.
func (m Affine2D) Invert() Affine2D {
	det := m.A*m.D - m.B*m.C
	if det == 0 {
		return Identity
	}
	invDet := 1 / det
	return Affine2D{
		A: m.D * invDet,
		B: -m.B * invDet,
		C: -m.C * invDet,
		D: m.A * invDet,
		E: (m.C*m.F - m.D*m.E) * invDet,
		F: (m.B*m.E - m.A*m.F) * invDet,
	}
}
