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
	"math"

	"gonum.org/v1/gonum/mat"

	"imagecraft/internal/blend"
)

// Kind identifies an operation in a filter table.
type Kind string

const (
	KindBrightness  Kind = "brightness"
	KindContrast    Kind = "contrast"
	KindSaturation  Kind = "saturation"
	KindHueRotation Kind = "hue-rotation"
	KindGrayscale   Kind = "grayscale"
	KindBlendColor  Kind = "blend-color"
	KindLayer       Kind = "layer"
)

// Operation is one declarative step of a filter.
//
// Tone adjustments (brightness, contrast, saturation, hue-rotation) read
// Value. blend-color reads Color, Mode and Alpha. layer reads Layer and Blend.
type Operation struct {
	Kind  Kind     `yaml:"kind" json:"kind"`
	Value float64  `yaml:"value,omitempty" json:"value,omitempty"`
	Color string   `yaml:"color,omitempty" json:"color,omitempty"`
	Mode  string   `yaml:"mode,omitempty" json:"mode,omitempty"`
	Alpha *float64 `yaml:"alpha,omitempty" json:"alpha,omitempty"`
	Layer *Layer   `yaml:"layer,omitempty" json:"layer,omitempty"`
	Blend string   `yaml:"blend,omitempty" json:"blend,omitempty"`
}

func Brightness(v float64) Operation  { return Operation{Kind: KindBrightness, Value: v} }
func Contrast(v float64) Operation    { return Operation{Kind: KindContrast, Value: v} }
func Saturation(v float64) Operation  { return Operation{Kind: KindSaturation, Value: v} }
func HueRotation(v float64) Operation { return Operation{Kind: KindHueRotation, Value: v} }
func Grayscale() Operation            { return Operation{Kind: KindGrayscale} }

// BlendColor combines every pixel with a solid colour scaled by alpha.
func BlendColor(color, mode string, alpha float64) Operation {
	return Operation{Kind: KindBlendColor, Color: color, Mode: mode, Alpha: &alpha}
}

// LayerBlend generates a synthetic layer and blends it with op.
func LayerBlend(l Layer, op string) Operation {
	return Operation{Kind: KindLayer, Layer: &l, Blend: op}
}

// step is a compiled operation.
type step func(buf *PixelBuffer) error

func toByte(v float64) uint8 { return blend.ToByte(v) }

// compile validates op and binds its parameters.
func (op Operation) compile() (step, error) {
	switch op.Kind {
	case KindBrightness:
		return brightness(op.Value), nil
	case KindContrast:
		return contrast(op.Value), nil
	case KindSaturation:
		return saturation(op.Value), nil
	case KindHueRotation:
		return colorMatrix(hueMatrix(op.Value)), nil
	case KindGrayscale:
		return colorMatrix(luminosityMatrix()), nil
	case KindBlendColor:
		return blendColor(op)
	case KindLayer:
		if op.Layer == nil {
			return nil, fmt.Errorf("layer operation without layer")
		}
		bop, err := blend.Lookup(op.Blend)
		if err != nil {
			return nil, err
		}
		gen, err := op.Layer.compile()
		if err != nil {
			return nil, err
		}
		return func(buf *PixelBuffer) error {
			top := gen(buf.Width, buf.Height)
			_, err := blend.Blend(buf.Pix, top.Pix, bop)
			return err
		}, nil
	default:
		return nil, fmt.Errorf("unknown operation kind %q", op.Kind)
	}
}

func eachRGB(buf *PixelBuffer, fn func(px []uint8)) {
	for i := 0; i < len(buf.Pix); i += 4 {
		fn(buf.Pix[i : i+3 : i+3])
	}
}

// brightness shifts every channel by round(v*255), v in [-1, 1].
func brightness(v float64) step {
	delta := math.Round(v * 255)
	return func(buf *PixelBuffer) error {
		eachRGB(buf, func(px []uint8) {
			for c := range px {
				px[c] = toByte(float64(px[c]) + delta)
			}
		})
		return nil
	}
}

// contrast scales channels around 128 with the usual 259-based factor.
func contrast(v float64) step {
	k := math.Floor(v * 255)
	f := 259 * (k + 255) / (255 * (259 - k))
	return func(buf *PixelBuffer) error {
		eachRGB(buf, func(px []uint8) {
			for c := range px {
				px[c] = toByte(f*(float64(px[c])-128) + 128)
			}
		})
		return nil
	}
}

// saturation moves every channel away from (or toward) the pixel's maximum.
func saturation(v float64) step {
	adjust := -v
	return func(buf *PixelBuffer) error {
		eachRGB(buf, func(px []uint8) {
			m := max(px[0], px[1], px[2])
			for c := range px {
				if px[c] != m {
					px[c] = toByte(float64(px[c]) + float64(m-px[c])*adjust)
				}
			}
		})
		return nil
	}
}

// hueMatrix rotates hue by rotation*pi radians around the grey axis.
func hueMatrix(rotation float64) *mat.Dense {
	rad := rotation * math.Pi
	cos, sin := math.Cos(rad), math.Sin(rad)
	third := 1.0 / 3
	sqrtSin := math.Sqrt(third) * sin
	oneMinusCos := 1 - cos
	return mat.NewDense(3, 3, []float64{
		cos + oneMinusCos/3, third*oneMinusCos - sqrtSin, third*oneMinusCos + sqrtSin,
		third*oneMinusCos + sqrtSin, cos + third*oneMinusCos, third*oneMinusCos - sqrtSin,
		third*oneMinusCos - sqrtSin, third*oneMinusCos + sqrtSin, cos + third*oneMinusCos,
	})
}

// luminosityMatrix maps every channel to 0.21r + 0.72g + 0.07b.
func luminosityMatrix() *mat.Dense {
	row := []float64{0.21, 0.72, 0.07}
	m := mat.NewDense(3, 3, nil)
	for i := 0; i < 3; i++ {
		m.SetRow(i, row)
	}
	return m
}

// colorMatrix multiplies every pixel's RGB vector by m.
func colorMatrix(m *mat.Dense) step {
	return func(buf *PixelBuffer) error {
		in := mat.NewVecDense(3, nil)
		out := mat.NewVecDense(3, nil)
		eachRGB(buf, func(px []uint8) {
			for c := range px {
				in.SetVec(c, float64(px[c]))
			}
			out.MulVec(m, in)
			for c := range px {
				px[c] = toByte(out.AtVec(c))
			}
		})
		return nil
	}
}

// colorModes combine a channel with the alpha-scaled source channel s;
// inv is 1-alpha.
var colorModes = map[string]func(c, s, inv float64) float64{
	"multiply": func(c, s, _ float64) float64 { return c * s / 255 },
	"screen":   func(c, s, _ float64) float64 { return 255 - (255-c)*(255-s)/255 },
	"add":      func(c, s, _ float64) float64 { return c + s },
	"difference": func(c, s, _ float64) float64 {
		return math.Abs(c - s)
	},
	"subtract": func(c, s, _ float64) float64 { return c - s },
	"darken":   func(c, s, _ float64) float64 { return math.Min(c, s) },
	"lighten":  func(c, s, _ float64) float64 { return math.Max(c, s) },
	"overlay": func(c, s, _ float64) float64 {
		if s < 128 {
			return 2 * c * s / 255
		}
		return 255 - 2*(255-c)*(255-s)/255
	},
	"exclusion": func(c, s, _ float64) float64 { return s + c - 2*s*c/255 },
	"tint":      func(c, s, inv float64) float64 { return s + c*inv },
}

func blendColor(op Operation) (step, error) {
	mode, ok := colorModes[op.Mode]
	if !ok {
		return nil, fmt.Errorf("unknown blend-color mode %q", op.Mode)
	}
	col, err := ParseColor(op.Color)
	if err != nil {
		return nil, err
	}
	alpha := 1.0
	if op.Alpha != nil {
		alpha = *op.Alpha
	}
	src := [3]float64{float64(col.R) * alpha, float64(col.G) * alpha, float64(col.B) * alpha}
	inv := 1 - alpha
	return func(buf *PixelBuffer) error {
		eachRGB(buf, func(px []uint8) {
			for c := range px {
				px[c] = toByte(mode(float64(px[c]), src[c], inv))
			}
		})
		return nil
	}, nil
}
