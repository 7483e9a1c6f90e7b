/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package straighten

import (
	"math"

	"imagecraft/internal/geom"
	"imagecraft/internal/scene"
)

// Segment is a grid line in canvas pixels. Weight is 2 for the centre lines
// and 1 otherwise.
type Segment struct {
	From, To geom.Pt
	Weight   float64
}

// Circle is a guide circle in canvas pixels.
type Circle struct {
	Center geom.Pt
	Radius float64
}

// GridHint is the overlay a renderer draws while straightening.
type GridHint struct {
	Clip    geom.Rect
	Lines   []Segment
	Circles []Circle
}

// Grid is the transient overlay object kept in the scene during a straighten
// session. It never receives the clip region itself; it is handed the clip
// rectangle to draw within.
type Grid struct {
	scene.Base
	clip geom.Rect
}

func (g *Grid) Kind() string { return "straighten-grid" }

// ClipRect is the rectangle the grid is drawn inside.
func (g *Grid) ClipRect() geom.Rect { return g.clip }

// SetClipRect hands the grid a new clip rectangle and resets its placement.
func (g *Grid) SetClipRect(r geom.Rect) {
	g.SetAngle(0)
	g.SetPosition(geom.Pt{})
	g.clip = r
}

// buildHint lays out a cols x rows grid centred on the canvas with cells
// sized from the (unrotated) image, clipped to clip.
func buildHint(canvas, image geom.Size, clip geom.Rect, cols, rows int, circles bool) *GridHint {
	hint := &GridHint{Clip: clip}
	if cols <= 0 || rows <= 0 || clip.Width <= 0 || clip.Height <= 0 {
		return hint
	}
	cellW := image.W / float64(cols)
	cellH := image.H / float64(rows)
	cx, cy := canvas.W/2, canvas.H/2

	for _, f := range []float64{1, -1} {
		for i := 0; i < rows; i++ {
			if i == 0 && f < 0 {
				continue
			}
			y := cy + f*float64(i)*cellH
			if y < clip.Top || y > clip.Bottom() {
				continue
			}
			hint.Lines = append(hint.Lines, Segment{
				From:   geom.Pt{X: clip.Left, Y: y},
				To:     geom.Pt{X: clip.Right(), Y: y},
				Weight: weight(i),
			})
		}
		for i := 0; i < cols; i++ {
			if i == 0 && f < 0 {
				continue
			}
			x := cx + f*float64(i)*cellW
			if x < clip.Left || x > clip.Right() {
				continue
			}
			hint.Lines = append(hint.Lines, Segment{
				From:   geom.Pt{X: x, Y: clip.Top},
				To:     geom.Pt{X: x, Y: clip.Bottom()},
				Weight: weight(i),
			})
		}
	}
	if circles {
		cell := math.Min(cellW, cellH)
		c := geom.Pt{X: cx, Y: cy}
		hint.Circles = []Circle{{Center: c, Radius: cell / 2}, {Center: c, Radius: cell * 2}}
	}
	return hint
}

func weight(i int) float64 {
	if i == 0 {
		return 2
	}
	return 1
}
