/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package straighten

import (
	"log/slog"
	"math"

	"imagecraft/internal/geom"
	applog "imagecraft/internal/log"
	"imagecraft/internal/scene"
)

// Options tune the overlay grid.
type Options struct {
	HCells  int
	VCells  int
	Circles bool
}

// DefaultOptions is a 6x6 grid with guide circles.
func DefaultOptions() Options { return Options{HCells: 6, VCells: 6, Circles: true} }

// Result describes the scene after a Straighten call.
type Result struct {
	Angle    float64
	Base     float64
	Image    geom.Size // bounding box at the base rotation
	Rotated  geom.Size // bounding box at angle+base; the new canvas size
	ClipRect geom.Rect
	Grid     *GridHint // nil outside a Start/End session
}

// Straightener rotates the main image of a scene and clips every object to
// the largest same-aspect rectangle inside the rotated footprint. It is not
// safe for concurrent use.
type Straightener struct {
	canvas scene.Canvas
	opts   Options
	angle  float64
	clip   geom.Rect
	grid   *Grid
	log    *slog.Logger
}

// New binds a straightener to canvas. Non-positive cell counts take the
// defaults.
func New(canvas scene.Canvas, opts Options) *Straightener {
	def := DefaultOptions()
	if opts.HCells <= 0 {
		opts.HCells = def.HCells
	}
	if opts.VCells <= 0 {
		opts.VCells = def.VCells
	}
	d := canvas.Dimensions()
	return &Straightener{
		canvas: canvas,
		opts:   opts,
		clip:   geom.Rect{Width: d.W, Height: d.H},
		log:    applog.WithComponent(applog.CompStraighten),
	}
}

// Start adds the overlay grid and disables pointer events on other objects.
func (s *Straightener) Start() {
	if s.grid != nil {
		return
	}
	s.canvas.ForEach(func(o scene.Object) {
		if sel, ok := o.(scene.Selectable); ok {
			sel.SetEvented(false)
		}
	})
	s.grid = &Grid{}
	s.grid.SetClipRect(s.clip)
	s.canvas.DiscardActiveObject()
	s.canvas.Add(s.grid)
}

// End removes the grid and restores pointer events.
func (s *Straightener) End() {
	if s.grid == nil {
		return
	}
	s.canvas.Remove(s.grid)
	s.canvas.ForEach(func(o scene.Object) {
		if sel, ok := o.(scene.Selectable); ok {
			sel.SetEvented(true)
		}
	})
	s.grid = nil
}

// Angle is the angle of the last Straighten call.
func (s *Straightener) Angle() float64 { return s.angle }

// ClipRect is the clip rectangle of the last Straighten call, or the whole
// canvas before the first.
func (s *Straightener) ClipRect() geom.Rect { return s.clip }

// Grid returns the overlay object while a session is active.
func (s *Straightener) Grid() *Grid { return s.grid }

// Straighten rotates the main image to angle+baseRotation (degrees), resizes
// the canvas to the rotated bounding box and clips every object except the
// grid to the largest rectangle of the base-rotated aspect centred in it.
// The angle is reduced mod 360 and returned. The outcome depends only on
// (angle, baseRotation), so replaying an earlier pair restores that state
// exactly.
func (s *Straightener) Straighten(angle, baseRotation float64) (float64, Result) {
	angle = math.Mod(angle, 360)

	imageSize := s.rotate(baseRotation)
	rotated := s.rotate(angle + baseRotation)
	inner := LargestInscribedRect(imageSize.W, imageSize.H, rotated.W, rotated.H, angle)
	clip := CenteredIn(rotated, inner)

	s.angle = angle
	s.clip = clip
	s.canvas.ForEach(func(o scene.Object) {
		if o == scene.Object(s.grid) {
			return
		}
		if _, ok := o.(scene.ClipTargetable); ok {
			s.canvas.SetClipRegion(o, clip)
		}
	})

	res := Result{Angle: angle, Base: baseRotation, Image: imageSize, Rotated: rotated, ClipRect: clip}
	if s.grid != nil {
		s.grid.SetClipRect(clip)
		res.Grid = buildHint(rotated, imageSize, clip, s.opts.HCells, s.opts.VCells, s.opts.Circles)
	}
	s.log.Debug("straightened",
		slog.Float64("angle", angle),
		slog.Float64("base", baseRotation),
		slog.Any("clip", clip))
	return angle, res
}

// rotate turns the main image to deg about its centre, moves it so its
// bounding box starts at the origin and resizes the canvas to that box.
// Without a rotatable main image only the size is computed, from the canvas.
func (s *Straightener) rotate(deg float64) geom.Size {
	natural := s.canvas.Dimensions()
	var img scene.Object
	if h, ok := s.canvas.(scene.ImageHolder); ok {
		img = h.MainImage()
	}
	if sz, ok := img.(scene.Sized); ok {
		natural = sz.NaturalSize()
	}
	box := RotatedBoundingBox(natural.W, natural.H, deg)

	p, ok := img.(scene.Positionable)
	if !ok {
		return box
	}
	p.SetAngle(deg)
	p.SetPosition(geom.Pt{X: (box.W - natural.W) / 2, Y: (box.H - natural.H) / 2})
	if r, ok := s.canvas.(scene.Resizable); ok {
		r.SetDimensions(box)
	}
	return box
}
