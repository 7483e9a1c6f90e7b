/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package filter

import (
	"errors"
	"image"
	"image/color"
	"strings"
	"testing"
)

func midGray() *PixelBuffer { return Uniform(1, 1, 128, 128, 128, 255) }

func applyPreset(t *testing.T, name string, buf *PixelBuffer) {
	t.Helper()
	spec, err := Preset(name)
	if err != nil {
		t.Fatalf("Preset(%q): %v", name, err)
	}
	if err := ApplyFilter(buf, spec); err != nil {
		t.Fatalf("ApplyFilter(%s): %v", name, err)
	}
}

func TestToasterMidGray(t *testing.T) {
	buf := midGray()
	applyPreset(t, "Toaster", buf)
	if got, want := buf.At(0, 0), [4]uint8{108, 39, 0, 255}; got != want {
		t.Fatalf("Toaster(128 gray) = %v, want %v", got, want)
	}
}

func TestKelvinMidGray(t *testing.T) {
	buf := midGray()
	applyPreset(t, "kelvin", buf)
	if got, want := buf.At(0, 0), [4]uint8{234, 152, 43, 255}; got != want {
		t.Fatalf("Kelvin(128 gray) = %v, want %v", got, want)
	}
}

func TestInkwellIsGray(t *testing.T) {
	buf := midGray()
	applyPreset(t, "Inkwell", buf)
	if got, want := buf.At(0, 0), [4]uint8{164, 164, 164, 255}; got != want {
		t.Fatalf("Inkwell(128 gray) = %v, want %v", got, want)
	}
}

func TestPresetsPreserveAlpha(t *testing.T) {
	for _, spec := range Presets() {
		buf := Uniform(5, 3, 90, 140, 200, 77)
		if err := ApplyFilter(buf, spec); err != nil {
			t.Fatalf("%s: %v", spec.Name, err)
		}
		for i := 3; i < len(buf.Pix); i += 4 {
			if buf.Pix[i] != 77 {
				t.Fatalf("%s changed alpha at byte %d to %d", spec.Name, i, buf.Pix[i])
			}
		}
	}
}

func TestPresetsCompile(t *testing.T) {
	specs := Presets()
	if len(specs) != 14 {
		t.Fatalf("want 14 presets, got %d", len(specs))
	}
	for _, s := range specs {
		if _, err := s.Compile(); err != nil {
			t.Errorf("%s: %v", s.Name, err)
		}
	}
	if _, err := Preset("nope"); err == nil {
		t.Fatalf("expected error for unknown preset")
	}
}

func TestZeroSizeIsNoop(t *testing.T) {
	buf := &PixelBuffer{Width: 0, Height: 4}
	spec := Spec{Name: "broken", Ops: []Operation{{Kind: "bogus"}}}
	if err := ApplyFilter(buf, spec); err != nil {
		t.Fatalf("zero-size buffer should be a no-op, got %v", err)
	}
	stale := &PixelBuffer{Width: 0, Height: 3, Pix: make([]uint8, 12)}
	if err := ApplyFilter(stale, Spec{Ops: []Operation{Brightness(0.1)}}); !errors.Is(err, ErrShapeMismatch) {
		t.Fatalf("zero width with pixels: want ErrShapeMismatch, got %v", err)
	}
}

func TestShapeMismatch(t *testing.T) {
	buf := &PixelBuffer{Width: 2, Height: 2, Pix: make([]uint8, 12)}
	err := ApplyFilter(buf, Spec{Ops: []Operation{Brightness(0.5)}})
	if !errors.Is(err, ErrShapeMismatch) {
		t.Fatalf("want ErrShapeMismatch, got %v", err)
	}
	for _, b := range buf.Pix {
		if b != 0 {
			t.Fatalf("buffer modified despite error")
		}
	}
}

func TestCompileErrors(t *testing.T) {
	cases := []Operation{
		{Kind: "bogus"},
		BlendColor("#fff", "nope", 1),
		BlendColor("#ggg", "screen", 1),
		LayerBlend(Solid("#000"), "nope"),
		LayerBlend(Radial(0.5, Stop{0, "#000"}), "overlay"),
		LayerBlend(Radial(0, Stop{0, "#000"}, Stop{1, "#fff"}), "overlay"),
		LayerBlend(Linear([2]float64{}, [2]float64{1, 1}, Stop{-1, "#000"}, Stop{1, "#fff"}), "overlay"),
		{Kind: KindLayer, Blend: "overlay"},
	}
	for i, op := range cases {
		if _, err := (Spec{Name: "x", Ops: []Operation{op}}).Compile(); err == nil {
			t.Errorf("case %d: expected compile error for %+v", i, op)
		}
	}
}

func TestToneOps(t *testing.T) {
	cases := []struct {
		name string
		op   Operation
		in   [4]uint8
		want [4]uint8
	}{
		{"brightness-clamp", Brightness(0.5), [4]uint8{200, 10, 0, 9}, [4]uint8{255, 138, 128, 9}},
		{"brightness-down", Brightness(-1), [4]uint8{200, 10, 0, 9}, [4]uint8{0, 0, 0, 9}},
		{"contrast-zero", Contrast(0), [4]uint8{1, 128, 254, 255}, [4]uint8{1, 128, 254, 255}},
		{"saturation-desat", Saturation(-1), [4]uint8{200, 100, 50, 255}, [4]uint8{200, 200, 200, 255}},
		{"saturation-boost", Saturation(0.5), [4]uint8{200, 100, 50, 255}, [4]uint8{200, 50, 0, 255}},
		{"hue-zero", HueRotation(0), [4]uint8{12, 34, 56, 255}, [4]uint8{12, 34, 56, 255}},
		{"grayscale", Grayscale(), [4]uint8{100, 100, 100, 1}, [4]uint8{100, 100, 100, 1}},
		{"tint-full", BlendColor("#ff0000", "tint", 1), [4]uint8{9, 9, 9, 255}, [4]uint8{255, 0, 0, 255}},
		{"multiply", BlendColor("black", "multiply", 1), [4]uint8{9, 90, 250, 255}, [4]uint8{0, 0, 0, 255}},
		{"difference", BlendColor("#646464", "difference", 1), [4]uint8{50, 100, 150, 255}, [4]uint8{50, 0, 50, 255}},
	}
	for _, c := range cases {
		buf := Uniform(1, 1, c.in[0], c.in[1], c.in[2], c.in[3])
		if err := ApplyFilter(buf, Spec{Name: c.name, Ops: []Operation{c.op}}); err != nil {
			t.Fatalf("%s: %v", c.name, err)
		}
		if got := buf.At(0, 0); got != c.want {
			t.Errorf("%s: got %v, want %v", c.name, got, c.want)
		}
	}
}

func TestHueRotationQuarterTurn(t *testing.T) {
	cases := []struct {
		name string
		ops  []Operation
		in   [4]uint8
		want [4]uint8
	}{
		{"red", []Operation{HueRotation(0.5)}, [4]uint8{255, 0, 0, 255}, [4]uint8{85, 232, 0, 255}},
		{"blue", []Operation{HueRotation(0.5)}, [4]uint8{0, 0, 255, 255}, [4]uint8{232, 0, 85, 255}},
		{"gray-stays", []Operation{HueRotation(0.5)}, [4]uint8{90, 90, 90, 7}, [4]uint8{90, 90, 90, 7}},
		// Each matrix op clamps before the next one sees the pixel.
		{"then-grayscale", []Operation{HueRotation(0.5), Grayscale()}, [4]uint8{255, 0, 0, 255}, [4]uint8{185, 185, 185, 255}},
	}
	for _, c := range cases {
		buf := Uniform(1, 1, c.in[0], c.in[1], c.in[2], c.in[3])
		if err := ApplyFilter(buf, Spec{Name: c.name, Ops: c.ops}); err != nil {
			t.Fatalf("%s: %v", c.name, err)
		}
		if got := buf.At(0, 0); got != c.want {
			t.Errorf("%s: got %v, want %v", c.name, got, c.want)
		}
	}
}

func TestAmaroRotatesHue(t *testing.T) {
	spec, err := Preset("amaro")
	if err != nil {
		t.Fatal(err)
	}
	red, blue := Uniform(1, 1, 200, 60, 60, 255), Uniform(1, 1, 60, 60, 200, 255)
	for _, b := range []*PixelBuffer{red, blue} {
		if err := ApplyFilter(b, spec); err != nil {
			t.Fatal(err)
		}
	}
	// A -10 degree turn pushes red toward magenta and blue toward cyan.
	if r := red.At(0, 0); r[2] <= r[1] {
		t.Errorf("red pixel %v: blue should exceed green", r)
	}
	if b := blue.At(0, 0); b[1] <= b[0] {
		t.Errorf("blue pixel %v: green should exceed red", b)
	}
}

func TestLinearLayerInterpolatesInLinearLight(t *testing.T) {
	gen, err := Linear([2]float64{0, 0}, [2]float64{1, 0}, Stop{0, "#000"}, Stop{1, "#fff"}).compile()
	if err != nil {
		t.Fatal(err)
	}
	buf := gen(2, 1)
	// Samples at t=0.25 and t=0.75; sRGB blending would give 64 and 191.
	if got := buf.At(0, 0); got != [4]uint8{137, 137, 137, 255} {
		t.Errorf("quarter = %v", got)
	}
	if got := buf.At(1, 0); got != [4]uint8{225, 225, 225, 255} {
		t.Errorf("three quarters = %v", got)
	}
}

func TestLinearLayerConstantStops(t *testing.T) {
	buf := Uniform(4, 2, 255, 255, 255, 255)
	op := LayerBlend(Linear([2]float64{0, 0}, [2]float64{1, 0}, Stop{0, "#ff0000"}, Stop{1, "#ff0000"}), "multiply")
	if err := ApplyFilter(buf, Spec{Name: "red", Ops: []Operation{op}}); err != nil {
		t.Fatal(err)
	}
	for y := 0; y < 2; y++ {
		for x := 0; x < 4; x++ {
			if got := buf.At(x, y); got != [4]uint8{255, 0, 0, 255} {
				t.Fatalf("pixel (%d,%d) = %v", x, y, got)
			}
		}
	}
}

func TestParseColor(t *testing.T) {
	c, err := ParseColor("Lavender")
	if err != nil || c != (RGB{230, 230, 250}) {
		t.Fatalf("lavender = %v, %v", c, err)
	}
	if c, err := ParseColor("#abc"); err != nil || c != (RGB{0xaa, 0xbb, 0xcc}) {
		t.Fatalf("#abc = %v, %v", c, err)
	}
	for _, bad := range []string{"", "#12", "#12345g", "chartreuse"} {
		if _, err := ParseColor(bad); err == nil {
			t.Errorf("ParseColor(%q) should fail", bad)
		}
	}
}

func TestImageConversion(t *testing.T) {
	src := image.NewRGBA(image.Rect(2, 3, 4, 5))
	src.Set(2, 3, color.RGBA{R: 10, G: 20, B: 30, A: 255})
	buf := FromImage(src)
	if buf.Width != 2 || buf.Height != 2 {
		t.Fatalf("size = %dx%d", buf.Width, buf.Height)
	}
	if got := buf.At(0, 0); got != [4]uint8{10, 20, 30, 255} {
		t.Fatalf("origin pixel = %v", got)
	}
	parent := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	parent.SetNRGBA(3, 1, color.NRGBA{R: 1, G: 2, B: 3, A: 4})
	top := FromImage(parent.SubImage(image.Rect(0, 0, 4, 2)))
	if err := top.Validate(); err != nil {
		t.Fatalf("sub-image buffer: %v", err)
	}
	if got := top.At(3, 1); got != [4]uint8{1, 2, 3, 4} {
		t.Fatalf("sub-image pixel = %v", got)
	}

	img := buf.Image()
	buf.Pix[0] = 99
	if img.Pix[0] != 99 {
		t.Fatalf("Image must share pixels")
	}
}

const sampleTable = `
version: 1
filters:
  - name: Dusk
    description: warm fade
    ops:
      - kind: blend-color
        color: "#ff8800"
        mode: screen
        alpha: 0.25
      - kind: layer
        blend: overlay
        layer:
          kind: radial
          radius: 0.5
          stops:
            - {offset: 0, color: "#804e0f"}
            - {offset: 1, color: "#3b003b"}
      - kind: brightness
        value: -0.05
  - name: Toaster
    ops:
      - kind: grayscale
`

func TestLoadSpecs(t *testing.T) {
	specs, err := LoadSpecs(strings.NewReader(sampleTable))
	if err != nil {
		t.Fatalf("LoadSpecs: %v", err)
	}
	if len(specs) != 2 || specs[0].Name != "Dusk" || len(specs[0].Ops) != 3 {
		t.Fatalf("unexpected specs: %+v", specs)
	}
	if a := specs[0].Ops[0].Alpha; a == nil || *a != 0.25 {
		t.Fatalf("alpha not decoded: %v", a)
	}
	if l := specs[0].Ops[1].Layer; l == nil || l.RadiusFactor != 0.5 || len(l.Stops) != 2 {
		t.Fatalf("layer not decoded: %+v", l)
	}

	cat := NewCatalog(specs)
	toaster, err := cat.Lookup("toaster")
	if err != nil || len(toaster.Ops) != 1 || toaster.Ops[0].Kind != KindGrayscale {
		t.Fatalf("table should override preset: %+v %v", toaster, err)
	}
	if len(cat.Names()) != 15 {
		t.Fatalf("want 15 names, got %d", len(cat.Names()))
	}
}

func TestLoadSpecsRejects(t *testing.T) {
	cases := map[string]string{
		"not yaml":      "filters: [",
		"missing ops":   "filters:\n  - name: a\n",
		"unknown kind":  "filters:\n  - name: a\n    ops:\n      - kind: sharpen\n",
		"unknown field": "filters:\n  - name: a\n    ops: []\n    extra: 1\n",
		"missing mode":  "filters:\n  - name: a\n    ops:\n      - kind: blend-color\n        color: red\n",
		"bad colour":    "filters:\n  - name: a\n    ops:\n      - kind: blend-color\n        color: nope\n        mode: screen\n",
		"bad blend":     "filters:\n  - name: a\n    ops:\n      - kind: layer\n        blend: hard-mix\n        layer: {kind: solid, color: '#000'}\n",
	}
	for name, doc := range cases {
		if _, err := LoadSpecs(strings.NewReader(doc)); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
	_, err := LoadSpecs(strings.NewReader(cases["unknown kind"]))
	if !errors.Is(err, ErrInvalidTable) {
		t.Fatalf("want ErrInvalidTable, got %v", err)
	}
}

func TestMarshalTableRoundTrip(t *testing.T) {
	data, err := MarshalTable(Presets())
	if err != nil {
		t.Fatal(err)
	}
	specs, err := LoadSpecs(strings.NewReader(string(data)))
	if err != nil {
		t.Fatalf("presets do not satisfy the table schema: %v", err)
	}
	if len(specs) != len(Presets()) {
		t.Fatalf("got %d specs back", len(specs))
	}
}
