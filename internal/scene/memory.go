/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package scene

import (
	"slices"

	"imagecraft/internal/geom"
)

// Base implements Positionable, ClipTargetable and Selectable and is meant to
// be embedded by concrete objects.
type Base struct {
	pos     geom.Pt
	angle   float64
	clip    geom.Rect
	hasClip bool
	evented bool
}

func (b *Base) Position() geom.Pt             { return b.pos }
func (b *Base) SetPosition(p geom.Pt)         { b.pos = p }
func (b *Base) Angle() float64                { return b.angle }
func (b *Base) SetAngle(deg float64)          { b.angle = deg }
func (b *Base) Evented() bool                 { return b.evented }
func (b *Base) SetEvented(v bool)             { b.evented = v }
func (b *Base) ClipRegion() (geom.Rect, bool) { return b.clip, b.hasClip }
func (b *Base) SetClipRegion(r geom.Rect)     { b.clip, b.hasClip = r, true }
func (b *Base) ClearClipRegion()              { b.clip, b.hasClip = geom.Rect{}, false }

// Image is the main raster image placed on the canvas.
type Image struct {
	Base
	natural geom.Size
}

// NewImage creates an image object of the given natural size at the origin.
func NewImage(w, h float64) *Image {
	return &Image{Base: Base{evented: true}, natural: geom.Size{W: w, H: h}}
}

func (i *Image) Kind() string           { return "image" }
func (i *Image) NaturalSize() geom.Size { return i.natural }

// Transform maps natural image coordinates to canvas coordinates: rotation
// about the image centre followed by the translation to Position.
func (i *Image) Transform() geom.Affine2D {
	c := geom.Pt{X: i.natural.W / 2, Y: i.natural.H / 2}
	return geom.Translate(i.pos.X, i.pos.Y).Mul(geom.RotateAbout(i.angle, c))
}

// Corners returns the canvas-space corners tl, tr, br, bl.
func (i *Image) Corners() [4]geom.Pt {
	m := i.Transform()
	return [4]geom.Pt{
		m.Apply(geom.Pt{}),
		m.Apply(geom.Pt{X: i.natural.W}),
		m.Apply(geom.Pt{X: i.natural.W, Y: i.natural.H}),
		m.Apply(geom.Pt{Y: i.natural.H}),
	}
}

// Shape is a generic evented object, standing in for text, icons and shapes.
type Shape struct {
	Base
	name string
}

func NewShape(name string) *Shape { return &Shape{Base: Base{evented: true}, name: name} }

func (s *Shape) Kind() string { return s.name }

// Viewport maps pointer positions to canvas pixels: canvas = (p - Offset) / Zoom.
type Viewport struct {
	Offset geom.Pt
	Zoom   float64
}

// Memory is an in-memory Canvas.
type Memory struct {
	size    geom.Size
	objects []Object
	active  Object
	image   *Image
	View    Viewport
}

var (
	_ Canvas      = (*Memory)(nil)
	_ Resizable   = (*Memory)(nil)
	_ ImageHolder = (*Memory)(nil)
)

// NewMemory creates a canvas sized to a main image of w x h pixels.
func NewMemory(w, h float64) *Memory {
	img := NewImage(w, h)
	return &Memory{
		size:    geom.Size{W: w, H: h},
		objects: []Object{img},
		image:   img,
		View:    Viewport{Zoom: 1},
	}
}

func (m *Memory) MainImage() Object { return m.image }

// Image returns the main image with its concrete type.
func (m *Memory) Image() *Image { return m.image }

func (m *Memory) Add(obj Object) {
	if obj == nil || m.Contains(obj) {
		return
	}
	m.objects = append(m.objects, obj)
}

func (m *Memory) Remove(obj Object) {
	if i := slices.Index(m.objects, obj); i >= 0 {
		m.objects = slices.Delete(m.objects, i, i+1)
	}
	if m.active == obj {
		m.active = nil
	}
}

func (m *Memory) Contains(obj Object) bool { return slices.Contains(m.objects, obj) }

func (m *Memory) ActiveObject() Object { return m.active }

func (m *Memory) SetActiveObject(obj Object) {
	if m.Contains(obj) {
		m.active = obj
	}
}

func (m *Memory) DiscardActiveObject() { m.active = nil }

func (m *Memory) ForEach(fn func(Object)) {
	for _, o := range slices.Clone(m.objects) {
		fn(o)
	}
}

// Len returns the number of objects on the canvas.
func (m *Memory) Len() int { return len(m.objects) }

func (m *Memory) PointerToCanvas(p geom.Pt) geom.Pt {
	zoom := m.View.Zoom
	if zoom <= 0 {
		zoom = 1
	}
	return geom.Pt{X: (p.X - m.View.Offset.X) / zoom, Y: (p.Y - m.View.Offset.Y) / zoom}
}

func (m *Memory) SetClipRegion(obj Object, r geom.Rect) {
	if ct, ok := obj.(ClipTargetable); ok {
		ct.SetClipRegion(r)
	}
}

func (m *Memory) Dimensions() geom.Size { return m.size }

func (m *Memory) SetDimensions(s geom.Size) {
	m.size = geom.Size{W: geom.Positive(s.W), H: geom.Positive(s.H)}
}
