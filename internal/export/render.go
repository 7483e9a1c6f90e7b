/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package export renders crop, straighten and filter results into images and
// writes them as PNG, JPEG or PDF.
package export

import (
	"errors"
	"fmt"
	"image"
	"math"

	"github.com/disintegration/imaging"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/math/f64"

	"imagecraft/internal/filter"
	"imagecraft/internal/geom"
	"imagecraft/internal/straighten"
)

// ErrNoCropZone is returned when a crop is requested without a valid zone.
var ErrNoCropZone = errors.New("no crop zone defined")

// pixelRect rounds r to whole pixels and intersects it with b.
func pixelRect(r geom.Rect, b image.Rectangle) image.Rectangle {
	pr := image.Rect(
		int(math.Round(r.Left)), int(math.Round(r.Top)),
		int(math.Round(r.Right())), int(math.Round(r.Bottom())),
	)
	return pr.Add(b.Min).Intersect(b)
}

// Crop cuts r (canvas pixels, origin at the image's top-left) out of img.
func Crop(img image.Image, r geom.Rect) (*image.NRGBA, error) {
	if r.Left < 0 || r.Top < 0 || !(r.Width > 0) || !(r.Height > 0) {
		return nil, ErrNoCropZone
	}
	pr := pixelRect(r, img.Bounds())
	if pr.Empty() {
		return nil, fmt.Errorf("crop %+v outside %v: %w", r, img.Bounds(), ErrNoCropZone)
	}
	return imaging.Crop(img, pr), nil
}

// aff3 converts m to the row-major form x/image/draw expects.
func aff3(m geom.Affine2D) f64.Aff3 {
	return f64.Aff3{m.A, m.C, m.E, m.B, m.D, m.F}
}

// Straighten renders img rotated by res.Angle+res.Base onto a canvas the
// size of res.Rotated, the same way the scene places it, and returns the
// part inside res.ClipRect. A zero clip yields ErrNoCropZone.
func Straighten(img image.Image, res straighten.Result) (*image.NRGBA, error) {
	b := img.Bounds()
	w, h := float64(b.Dx()), float64(b.Dy())
	box := res.Rotated
	if box.IsZero() {
		box = straighten.RotatedBoundingBox(w, h, res.Angle+res.Base)
	}
	cw, ch := int(math.Ceil(box.W-1e-9)), int(math.Ceil(box.H-1e-9))
	canvas := image.NewNRGBA(image.Rect(0, 0, cw, ch))

	m := geom.Translate((box.W-w)/2, (box.H-h)/2).
		Mul(geom.RotateAbout(res.Angle+res.Base, geom.Pt{X: w / 2, Y: h / 2})).
		Mul(geom.Translate(-float64(b.Min.X), -float64(b.Min.Y)))
	xdraw.CatmullRom.Transform(canvas, aff3(m), img, b, xdraw.Over, nil)

	if res.ClipRect.Width <= 0 || res.ClipRect.Height <= 0 {
		return nil, ErrNoCropZone
	}
	return Crop(canvas, res.ClipRect)
}

// Filter returns a filtered copy of img.
func Filter(img image.Image, spec filter.Spec) (*image.NRGBA, error) {
	buf := filter.FromImage(img)
	if err := filter.ApplyFilter(buf, spec); err != nil {
		return nil, err
	}
	return buf.Image(), nil
}
