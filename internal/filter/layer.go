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

	"github.com/gogpu/gg"
)

// LayerKind selects how a synthetic layer is generated.
type LayerKind string

const (
	LayerSolid  LayerKind = "solid"
	LayerRadial LayerKind = "radial"
	LayerLinear LayerKind = "linear"
)

// Stop is a gradient colour stop; Offset is in [0, 1].
type Stop struct {
	Offset float64 `yaml:"offset" json:"offset"`
	Color  string  `yaml:"color" json:"color"`
}

// Layer describes a generated buffer the same size as the image.
//
// Radial gradients are centred on the image with an inner radius of zero and
// an outer radius of RadiusFactor*width. Linear gradients run from From to To,
// both expressed as fractions of (width, height). Colours are sampled at pixel
// centres.
type Layer struct {
	Kind         LayerKind  `yaml:"kind" json:"kind"`
	Color        string     `yaml:"color,omitempty" json:"color,omitempty"`
	Stops        []Stop     `yaml:"stops,omitempty" json:"stops,omitempty"`
	RadiusFactor float64    `yaml:"radius,omitempty" json:"radius,omitempty"`
	From         [2]float64 `yaml:"from,omitempty" json:"from,omitempty"`
	To           [2]float64 `yaml:"to,omitempty" json:"to,omitempty"`
}

func Solid(color string) Layer { return Layer{Kind: LayerSolid, Color: color} }

func Radial(radius float64, stops ...Stop) Layer {
	return Layer{Kind: LayerRadial, RadiusFactor: radius, Stops: stops}
}

func Linear(from, to [2]float64, stops ...Stop) Layer {
	return Layer{Kind: LayerLinear, From: from, To: to, Stops: stops}
}

// colorAt is satisfied by the gg gradient brushes.
type colorAt interface {
	ColorAt(x, y float64) gg.RGBA
}

type generator func(w, h int) *PixelBuffer

func (l Layer) compile() (generator, error) {
	switch l.Kind {
	case LayerSolid:
		c, err := ParseColor(l.Color)
		if err != nil {
			return nil, err
		}
		return func(w, h int) *PixelBuffer { return Uniform(w, h, c.R, c.G, c.B, 255) }, nil
	case LayerRadial, LayerLinear:
		if len(l.Stops) < 2 {
			return nil, fmt.Errorf("%s layer needs at least two stops, got %d", l.Kind, len(l.Stops))
		}
		if l.Kind == LayerRadial && !(l.RadiusFactor > 0) {
			return nil, fmt.Errorf("radial layer needs a positive radius, got %v", l.RadiusFactor)
		}
		stops := make([]gg.ColorStop, len(l.Stops))
		for i, s := range l.Stops {
			c, err := parseGG(s.Color)
			if err != nil {
				return nil, err
			}
			if s.Offset < 0 || s.Offset > 1 {
				return nil, fmt.Errorf("stop offset %v outside [0,1]", s.Offset)
			}
			stops[i] = gg.ColorStop{Offset: s.Offset, Color: c}
		}
		return func(w, h int) *PixelBuffer { return sample(l.brush(w, h, stops), w, h) }, nil
	default:
		return nil, fmt.Errorf("unknown layer kind %q", l.Kind)
	}
}

func (l Layer) brush(w, h int, stops []gg.ColorStop) colorAt {
	fw, fh := float64(w), float64(h)
	if l.Kind == LayerRadial {
		g := gg.NewRadialGradientBrush(fw/2, fh/2, 0, l.RadiusFactor*fw)
		for _, s := range stops {
			g.AddColorStop(s.Offset, s.Color)
		}
		return g
	}
	g := gg.NewLinearGradientBrush(l.From[0]*fw, l.From[1]*fh, l.To[0]*fw, l.To[1]*fh)
	for _, s := range stops {
		g.AddColorStop(s.Offset, s.Color)
	}
	return g
}

func sample(b colorAt, w, h int) *PixelBuffer {
	buf := NewBuffer(w, h)
	i := 0
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := b.ColorAt(float64(x)+0.5, float64(y)+0.5)
			buf.Pix[i] = unit(c.R)
			buf.Pix[i+1] = unit(c.G)
			buf.Pix[i+2] = unit(c.B)
			buf.Pix[i+3] = 255
			i += 4
		}
	}
	return buf
}
