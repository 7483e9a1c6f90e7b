/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package crop sizes and clamps crop rectangles and drives interactive crop
// zone definition from pointer input.
package crop

import (
	"math"

	"imagecraft/internal/geom"
)

// DefaultPresetSize is the fraction of the canvas a preset crop zone covers.
const DefaultPresetSize = 0.5

// canvasSide treats zero, negative or sub-pixel canvas dimensions as 1 px.
func canvasSide(v float64) float64 {
	return math.Max(geom.Positive(v), 1)
}

// ClampDrag returns the rectangle anchored at start and extending toward
// current, clamped to [0,canvasW]x[0,canvasH]. Each side is at least 1 px.
func ClampDrag(start, current geom.Pt, canvasW, canvasH float64) geom.Rect {
	return dragRect(start, current, 0, canvasW, canvasH)
}

// ApplyAspectLock forces r to ratio (width/height) when ratio > 0 and scales
// it down uniformly so it fits the room between the anchor start and the
// canvas edge in the direction of current. Left and top are re-derived from
// the anchor.
func ApplyAspectLock(start, current geom.Pt, r geom.Rect, ratio, canvasW, canvasH float64) geom.Rect {
	W, H := canvasSide(canvasW), canvasSide(canvasH)
	start = geom.Pt{X: geom.Clamp(start.X, 0, W), Y: geom.Clamp(start.Y, 0, H)}
	return anchored(start, current, math.Max(r.Width, 1), math.Max(r.Height, 1), ratio, W, H)
}

func dragRect(start, current geom.Pt, ratio, canvasW, canvasH float64) geom.Rect {
	W, H := canvasSide(canvasW), canvasSide(canvasH)
	start = geom.Pt{X: geom.Clamp(start.X, 0, W), Y: geom.Clamp(start.Y, 0, H)}
	w := math.Max(math.Abs(geom.Clamp(current.X, start.X, edge(current.X >= start.X, W))-start.X), 1)
	h := math.Max(math.Abs(geom.Clamp(current.Y, start.Y, edge(current.Y >= start.Y, H))-start.Y), 1)
	return anchored(start, current, w, h, ratio, W, H)
}

// edge is the canvas edge the drag is heading for.
func edge(forward bool, side float64) float64 {
	if forward {
		return side
	}
	return 0
}

func anchored(start, current geom.Pt, w, h, ratio, W, H float64) geom.Rect {
	right := current.X >= start.X
	down := current.Y >= start.Y
	maxW := math.Max(math.Abs(edge(right, W)-start.X), 1)
	maxH := math.Max(math.Abs(edge(down, H)-start.Y), 1)

	if ratio > 0 {
		if geom.FixFloatingPoint(w/h) >= ratio {
			h = w / ratio
		} else {
			w = h * ratio
		}
	}
	f := math.Max(math.Max(w/maxW, h/maxH), 1)
	w, h = w/f, h/f

	left, top := start.X, start.Y
	if !right {
		left -= w
	}
	if !down {
		top -= h
	}
	// An anchor sitting on the canvas edge leaves a 1 px room that may point
	// outside; slide the rect back in.
	left = geom.Clamp(left, 0, W-w)
	top = geom.Clamp(top, 0, H-h)
	return geom.Rect{Left: left, Top: top, Width: w, Height: h}
}

// PresetRect returns a rectangle of the given ratio centred on the canvas.
// Its height starts at the longer canvas side, is scaled down until the rect
// fits and is then multiplied by sizeFraction (DefaultPresetSize when not in
// (0,1]).
func PresetRect(ratio, sizeFraction, canvasW, canvasH float64) geom.Rect {
	W, H := canvasSide(canvasW), canvasSide(canvasH)
	ratio = geom.Positive(ratio)
	if !(sizeFraction > 0) || sizeFraction > 1 {
		sizeFraction = DefaultPresetSize
	}
	standard := math.Max(W, H)
	w, h := standard*ratio, standard
	if s := fitScale(w, W); s < 1 {
		w, h = w*s, h*s
	}
	if s := fitScale(h, H); s < 1 {
		w, h = w*s, h*s
	}
	w = geom.FixFloatingPoint(w) * sizeFraction
	h = geom.FixFloatingPoint(h) * sizeFraction
	return geom.Rect{Left: (W - w) / 2, Top: (H - h) / 2, Width: w, Height: h}
}

func fitScale(v, limit float64) float64 {
	if v > limit {
		return limit / v
	}
	return 1
}

// RecenterForNewRatio reshapes current to newRatio around its centre. The
// longer side is kept unless the orientation flips between portrait and
// landscape, in which case the rect shrinks by how far that side exceeds the
// canvas. The shorter side is grown to at least 1 px and the result is
// clamped into the canvas. A non-positive newRatio keeps the current aspect.
func RecenterForNewRatio(current geom.Rect, newRatio, canvasW, canvasH float64) geom.Rect {
	W, H := canvasSide(canvasW), canvasSide(canvasH)
	cw, ch := geom.Positive(current.Width), geom.Positive(current.Height)
	aspect := cw / ch
	if !(newRatio > 0) || math.IsInf(newRatio, 1) {
		newRatio = aspect
	}
	maxSize := math.Max(cw, ch)
	wr, hr := maxSize/W, maxSize/H

	scale := 1.0
	if (newRatio < 1) != (aspect < 1) {
		scale = math.Max(math.Max(wr, hr), 1)
	}
	if scale <= 1 {
		wr, hr = 1, 1
	}

	var w, h float64
	if newRatio >= 1 {
		w = maxSize / scale
		h = w / newRatio
	} else {
		h = maxSize / scale
		w = h * newRatio
	}
	if m := math.Min(w, h); m < 1 {
		w, h = w/m, h/m
	}
	// Keeping the longer side can still overflow the shorter canvas side.
	if f := math.Max(w/W, h/H); f > 1 {
		w, h = w/f, h/f
	}

	top := current.Top + (ch-h)/2
	if hr > 1 {
		top = 0
	}
	left := current.Left + (cw-w)/2
	if wr > 1 {
		left = 0
	}
	return geom.Rect{
		Left:   geom.Clamp(left, 0, W-w),
		Top:    geom.Clamp(top, 0, H-h),
		Width:  w,
		Height: h,
	}
}
