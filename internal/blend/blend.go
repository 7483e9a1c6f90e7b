/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package blend implements the separable per-channel blend modes used by the
// photographic filters. Every op maps a bottom and a top channel value in
// 0..255 to a result in 0..255; alpha is never touched.
package blend

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
)

// ErrShapeMismatch reports buffers whose sizes do not line up.
var ErrShapeMismatch = errors.New("buffer shape mismatch")

// Op combines a bottom (background) and a top (foreground) channel value.
type Op func(bottom, top uint8) uint8

// ToByte rounds half to even and clamps to 0..255, the way a clamped byte
// array stores a float. NaN maps to 0.
func ToByte(v float64) uint8 {
	if math.IsNaN(v) || v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(math.RoundToEven(v))
}

func Multiply(b, t uint8) uint8 {
	return ToByte(float64(b) * float64(t) / 255)
}

func Screen(b, t uint8) uint8 {
	return ToByte(255 - (255-float64(t))*(255-float64(b))/255)
}

func Overlay(b, t uint8) uint8 {
	fb, ft := float64(b), float64(t)
	if b < 128 {
		return ToByte(2 * fb * ft / 255)
	}
	return ToByte(255 - 2*(255-ft)*(255-fb)/255)
}

// ColorDodge saturates to 255 when the top value is 255.
func ColorDodge(b, t uint8) uint8 {
	if t == 255 {
		return 255
	}
	return ToByte(float64(b) * 255 / (255 - float64(t)))
}

func SoftLight(b, t uint8) uint8 {
	fb, ft := float64(b), float64(t)
	if t < 128 {
		return ToByte(2*ft*fb/255 + fb*fb*(255-2*ft)/65025)
	}
	return ToByte(2*fb*(255-ft)/255 + math.Sqrt(fb/255)*(2*ft-255))
}

func Darken(b, t uint8) uint8  { return min(b, t) }
func Lighten(b, t uint8) uint8 { return max(b, t) }

var registry = map[string]Op{
	"multiply":    Multiply,
	"screen":      Screen,
	"overlay":     Overlay,
	"color-dodge": ColorDodge,
	"soft-light":  SoftLight,
	"darken":      Darken,
	"lighten":     Lighten,
}

// Lookup resolves a blend op by name. Names are case-insensitive and accept
// underscores in place of dashes.
func Lookup(name string) (Op, error) {
	key := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "_", "-")
	op, ok := registry[key]
	if !ok {
		return nil, fmt.Errorf("unknown blend op %q", name)
	}
	return op, nil
}

// Names lists the registered op names in sorted order.
func Names() []string {
	out := make([]string, 0, len(registry))
	for k := range registry {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Blend applies op to the R, G and B channels of every pixel of background
// using the matching pixel of foreground. Both slices hold interleaved RGBA.
// background is mutated in place and returned.
func Blend(background, foreground []uint8, op Op) ([]uint8, error) {
	if len(background) != len(foreground) || len(background)%4 != 0 {
		return background, fmt.Errorf("blend %d bytes with %d bytes: %w", len(background), len(foreground), ErrShapeMismatch)
	}
	if op == nil {
		return background, errors.New("blend: nil op")
	}
	for i := 0; i < len(background); i += 4 {
		background[i] = op(background[i], foreground[i])
		background[i+1] = op(background[i+1], foreground[i+1])
		background[i+2] = op(background[i+2], foreground[i+2])
	}
	return background, nil
}
