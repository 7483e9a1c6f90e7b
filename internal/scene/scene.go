/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package scene describes the scene-graph collaborator the editing engines
// drive, as a set of small capability interfaces, and ships an in-memory
// implementation used by the CLI and tests.
package scene

import "imagecraft/internal/geom"

// Object is any item held by a Canvas. Engines discover what an object can do
// through the capability interfaces below.
type Object interface {
	Kind() string
}

// Positionable objects have a position (top-left) and a rotation in degrees.
type Positionable interface {
	Position() geom.Pt
	SetPosition(geom.Pt)
	Angle() float64
	SetAngle(deg float64)
}

// ClipTargetable objects accept an absolutely positioned clip rectangle.
type ClipTargetable interface {
	ClipRegion() (geom.Rect, bool)
	SetClipRegion(geom.Rect)
	ClearClipRegion()
}

// Selectable objects can opt in or out of pointer interaction.
type Selectable interface {
	Evented() bool
	SetEvented(bool)
}

// Sized objects report their unrotated, natural dimensions.
type Sized interface {
	NaturalSize() geom.Size
}

// Canvas is the scene-graph collaborator.
type Canvas interface {
	Add(obj Object)
	Remove(obj Object)
	Contains(obj Object) bool
	ActiveObject() Object
	SetActiveObject(obj Object)
	DiscardActiveObject()
	// ForEach visits objects in stacking order, bottom first.
	ForEach(fn func(Object))
	// PointerToCanvas maps a viewport pointer position to canvas pixels.
	PointerToCanvas(p geom.Pt) geom.Pt
	SetClipRegion(obj Object, r geom.Rect)
	Dimensions() geom.Size
}

// Resizable canvases follow the bounding box of a rotated main image.
type Resizable interface {
	SetDimensions(geom.Size)
}

// ImageHolder canvases expose the main image being edited.
type ImageHolder interface {
	MainImage() Object
}
