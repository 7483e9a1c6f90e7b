/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package crop

import (
	"log/slog"
	"math"

	"imagecraft/internal/geom"
	applog "imagecraft/internal/log"
	"imagecraft/internal/scene"
)

// DefaultMoveThreshold is the Manhattan distance in canvas pixels a pointer
// must travel from the anchor before a drag resizes the zone.
const DefaultMoveThreshold = 10

// undefinedZone marks a zone that has not been drawn yet.
var undefinedZone = geom.Rect{Left: -10, Top: -10, Width: 1, Height: 1}

// State of a Controller.
type State int

const (
	Idle State = iota
	Dragging
	Defined
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Dragging:
		return "dragging"
	case Defined:
		return "defined"
	}
	return "unknown"
}

// Zone is the crop rectangle as it sits in the scene.
type Zone struct {
	scene.Base
	rect  geom.Rect
	ratio float64
}

func (z *Zone) Kind() string { return "cropzone" }

// Rect returns the zone's rectangle, which may be the undefined marker.
func (z *Zone) Rect() geom.Rect { return z.rect }

// PresetRatio is the locked ratio the zone was created with, or 0.
func (z *Zone) PresetRatio() float64 { return z.ratio }

// Valid reports whether the zone has been placed on the canvas.
func (z *Zone) Valid() bool { return z.rect.Left >= 0 && z.rect.Top >= 0 }

func (z *Zone) set(r geom.Rect) {
	z.rect = r
	z.SetPosition(geom.Pt{X: r.Left, Y: r.Top})
}

// Options tune a Controller.
type Options struct {
	MoveThreshold float64
	PresetSize    float64
}

// DragSession is the pointer-down anchor of an in-progress drag.
type DragSession struct {
	StartX, StartY float64
}

// Controller drives crop zone definition from pointer input against a scene.
// It is not safe for concurrent use.
type Controller struct {
	canvas  scene.Canvas
	opts    Options
	zone    *Zone
	state   State
	session *DragSession
	locked  float64
	log     *slog.Logger
}

// NewController binds a controller to canvas. Zero options take defaults.
func NewController(canvas scene.Canvas, opts Options) *Controller {
	if !(opts.MoveThreshold > 0) {
		opts.MoveThreshold = DefaultMoveThreshold
	}
	if !(opts.PresetSize > 0) || opts.PresetSize > 1 {
		opts.PresetSize = DefaultPresetSize
	}
	return &Controller{canvas: canvas, opts: opts, log: applog.WithComponent(applog.CompCrop)}
}

// Start enters crop mode: other objects stop receiving pointer events and an
// undefined zone is added to the scene. Calling Start twice is a no-op.
func (c *Controller) Start() {
	if c.zone != nil {
		return
	}
	c.canvas.ForEach(func(o scene.Object) {
		if s, ok := o.(scene.Selectable); ok {
			s.SetEvented(false)
		}
	})
	c.zone = &Zone{}
	c.zone.set(undefinedZone)
	c.canvas.DiscardActiveObject()
	c.canvas.Add(c.zone)
	c.state = Idle
	c.log.Debug("crop started", slog.Any("canvas", c.canvas.Dimensions()))
}

// End leaves crop mode, removing the zone from the scene.
func (c *Controller) End() {
	if c.zone == nil {
		return
	}
	c.canvas.Remove(c.zone)
	c.canvas.ForEach(func(o scene.Object) {
		if s, ok := o.(scene.Selectable); ok {
			s.SetEvented(true)
		}
	})
	c.zone = nil
	c.session = nil
	c.locked = 0
	c.state = Idle
	c.log.Debug("crop ended")
}

// Cancel drops the drag session and the zone drawn so far but stays in crop
// mode.
func (c *Controller) Cancel() {
	if c.zone == nil {
		return
	}
	c.session = nil
	c.zone.set(undefinedZone)
	c.state = Idle
}

// State returns the interaction state.
func (c *Controller) State() State { return c.state }

// Session returns the active drag anchor, or nil.
func (c *Controller) Session() *DragSession { return c.session }

// Zone returns the scene object while cropping, or nil.
func (c *Controller) Zone() *Zone { return c.zone }

// PointerDown maps p (viewport coordinates) to the canvas. A press inside a
// defined zone selects it; anywhere else it anchors a new drag.
func (c *Controller) PointerDown(p geom.Pt) {
	if c.zone == nil {
		return
	}
	pt := c.canvas.PointerToCanvas(p)
	if c.zone.Valid() && contains(c.zone.rect, pt) {
		c.selectZone()
		return
	}
	c.session = &DragSession{StartX: pt.X, StartY: pt.Y}
	c.state = Dragging
}

// PointerMove resizes the zone once the pointer is more than the move
// threshold away from the anchor. It reports whether the zone changed.
func (c *Controller) PointerMove(p geom.Pt) bool {
	if c.state != Dragging || c.session == nil {
		return false
	}
	pt := c.canvas.PointerToCanvas(p)
	start := geom.Pt{X: c.session.StartX, Y: c.session.StartY}
	if math.Abs(pt.X-start.X)+math.Abs(pt.Y-start.Y) <= c.opts.MoveThreshold {
		return false
	}
	dim := c.canvas.Dimensions()
	r := dragRect(start, pt, c.locked, dim.W, dim.H)
	if r == c.zone.rect {
		return false
	}
	c.zone.set(r)
	c.selectZone()
	return true
}

// PointerUp ends the drag. The zone may still be undefined if the pointer
// never passed the threshold.
func (c *Controller) PointerUp() {
	if c.state != Dragging {
		return
	}
	c.session = nil
	c.state = Defined
	c.canvas.SetActiveObject(c.zone)
	c.log.Debug("crop zone drawn", slog.Bool("valid", c.zone.Valid()), slog.Any("rect", c.zone.rect))
}

// SetAspectRatio replaces the zone with a centred preset of ratio covering
// sizeFraction of the canvas (the configured default when zero). A ratio of
// zero resets the zone to undefined. With lock set, later drags keep ratio.
func (c *Controller) SetAspectRatio(ratio float64, lock bool, sizeFraction float64) {
	if c.zone == nil {
		return
	}
	if sizeFraction == 0 {
		sizeFraction = c.opts.PresetSize
	}
	c.render(ratio, lock, func() geom.Rect {
		if !(ratio > 0) {
			return undefinedZone
		}
		dim := c.canvas.Dimensions()
		return PresetRect(ratio, sizeFraction, dim.W, dim.H)
	})
}

// UpdateAspectRatio reshapes a defined zone to ratio around its centre, or
// seeds a preset (ratio 1 when zero) when no zone is defined yet.
func (c *Controller) UpdateAspectRatio(ratio float64, lock bool) {
	if c.zone == nil {
		return
	}
	if !c.zone.Valid() {
		if !(ratio > 0) {
			ratio = 1
		}
		c.SetAspectRatio(ratio, lock, 0)
		return
	}
	cur := c.zone.rect
	if !(ratio > 0) {
		ratio = cur.Width / cur.Height
	}
	c.render(ratio, lock, func() geom.Rect {
		dim := c.canvas.Dimensions()
		return RecenterForNewRatio(cur, ratio, dim.W, dim.H)
	})
}

func (c *Controller) render(ratio float64, lock bool, next func() geom.Rect) {
	c.locked = 0
	if lock && ratio > 0 {
		c.locked = ratio
	}
	c.session = nil
	c.canvas.DiscardActiveObject()
	c.canvas.Remove(c.zone)
	c.zone.ratio = c.locked
	c.zone.set(next())
	c.canvas.Add(c.zone)
	c.canvas.SetActiveObject(c.zone)
	if c.zone.Valid() {
		c.state = Defined
	} else {
		c.state = Idle
	}
	c.log.Debug("crop zone reshaped", slog.Float64("ratio", ratio), slog.Bool("lock", lock), slog.Any("rect", c.zone.rect))
}

// Rect returns the crop rectangle, or false when no valid zone exists.
func (c *Controller) Rect() (geom.Rect, bool) {
	if c.zone == nil || !c.zone.Valid() {
		return geom.Rect{}, false
	}
	return c.zone.rect, true
}

func (c *Controller) selectZone() {
	c.canvas.Remove(c.zone)
	c.canvas.Add(c.zone)
	c.canvas.SetActiveObject(c.zone)
}

func contains(r geom.Rect, p geom.Pt) bool {
	return p.X >= r.Left && p.X <= r.Right() && p.Y >= r.Top && p.Y <= r.Bottom()
}
