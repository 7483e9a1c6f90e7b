/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package filter

import (
	"fmt"
	"image"

	xdraw "golang.org/x/image/draw"

	"imagecraft/internal/blend"
)

// ErrShapeMismatch is returned when a buffer's declared dimensions do not
// match the length of its pixel slice.
var ErrShapeMismatch = blend.ErrShapeMismatch

// PixelBuffer is a width x height array of interleaved, non-premultiplied
// RGBA bytes in row-major order.
type PixelBuffer struct {
	Width, Height int
	Pix           []uint8
}

// NewBuffer allocates a zeroed buffer.
func NewBuffer(w, h int) *PixelBuffer {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	return &PixelBuffer{Width: w, Height: h, Pix: make([]uint8, w*h*4)}
}

// Uniform allocates a buffer filled with a single colour.
func Uniform(w, h int, r, g, b, a uint8) *PixelBuffer {
	buf := NewBuffer(w, h)
	for i := 0; i < len(buf.Pix); i += 4 {
		buf.Pix[i], buf.Pix[i+1], buf.Pix[i+2], buf.Pix[i+3] = r, g, b, a
	}
	return buf
}

// Empty reports whether the buffer has no pixels.
func (b *PixelBuffer) Empty() bool { return b == nil || b.Width <= 0 || b.Height <= 0 }

// Validate checks that Pix holds exactly Width*Height*4 bytes.
func (b *PixelBuffer) Validate() error {
	if b == nil {
		return fmt.Errorf("nil buffer: %w", ErrShapeMismatch)
	}
	if b.Width < 0 || b.Height < 0 {
		return fmt.Errorf("negative dimensions %dx%d: %w", b.Width, b.Height, ErrShapeMismatch)
	}
	if want := b.Width * b.Height * 4; len(b.Pix) != want {
		return fmt.Errorf("%dx%d buffer holds %d bytes, want %d: %w", b.Width, b.Height, len(b.Pix), want, ErrShapeMismatch)
	}
	return nil
}

// At returns the RGBA bytes of pixel (x, y).
func (b *PixelBuffer) At(x, y int) [4]uint8 {
	i := (y*b.Width + x) * 4
	return [4]uint8{b.Pix[i], b.Pix[i+1], b.Pix[i+2], b.Pix[i+3]}
}

// Clone returns a deep copy.
func (b *PixelBuffer) Clone() *PixelBuffer {
	return &PixelBuffer{Width: b.Width, Height: b.Height, Pix: append([]uint8(nil), b.Pix...)}
}

// FromImage copies img into a new buffer anchored at the origin.
func FromImage(img image.Image) *PixelBuffer {
	r := img.Bounds()
	if n, ok := img.(*image.NRGBA); ok && n.Stride == r.Dx()*4 && r.Min == (image.Point{}) {
		return &PixelBuffer{Width: r.Dx(), Height: r.Dy(), Pix: append([]uint8(nil), n.Pix[:r.Dy()*n.Stride]...)}
	}
	dst := image.NewNRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
	xdraw.Draw(dst, dst.Bounds(), img, r.Min, xdraw.Src)
	return &PixelBuffer{Width: r.Dx(), Height: r.Dy(), Pix: dst.Pix}
}

// Image wraps the buffer as an *image.NRGBA sharing the same pixels.
func (b *PixelBuffer) Image() *image.NRGBA {
	return &image.NRGBA{Pix: b.Pix, Stride: b.Width * 4, Rect: image.Rect(0, 0, b.Width, b.Height)}
}
