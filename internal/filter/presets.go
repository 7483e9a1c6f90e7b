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
	"sort"
	"strings"
)

// tenDegrees is a hue rotation of -10 degrees expressed as a fraction of pi.
const tenDegrees = -10.0 / 180

var presets = []Spec{
	{Name: "1977", Ops: []Operation{
		BlendColor("#f36abc", "screen", 0.3),
		Contrast(0.15),
		Brightness(0.05),
	}},
	{Name: "Amaro", Ops: []Operation{
		HueRotation(tenDegrees),
		Contrast(-0.02),
		Brightness(0.1),
		Saturation(0.35),
	}},
	{Name: "Brooklyn", Ops: []Operation{
		LayerBlend(Radial(0.7, Stop{0, "#a8dfc1"}, Stop{1, "#c4b7c8"}), "overlay"),
		Contrast(0.02),
		Brightness(-0.04),
	}},
	{Name: "Clarendon", Ops: []Operation{
		BlendColor("#7fbbe3", "screen", 0.2),
		Contrast(0.15),
		Saturation(0.5),
	}},
	{Name: "Gingham", Ops: []Operation{
		BlendColor("lavender", "screen", 0.35),
		Brightness(0.03),
		HueRotation(tenDegrees),
		Contrast(0.03),
	}},
	{Name: "Inkwell", Ops: []Operation{
		Contrast(0.17),
		Brightness(0.14),
		Grayscale(),
	}},
	{Name: "Kelvin", Ops: []Operation{
		LayerBlend(Solid("#b77d21"), "overlay"),
		LayerBlend(Solid("#382c34"), "color-dodge"),
	}},
	{Name: "Lark", Ops: []Operation{
		LayerBlend(Solid("#22253f"), "color-dodge"),
		BlendColor("#f2f2f2", "darken", 1),
	}},
	{Name: "Lofi", Ops: []Operation{
		LayerBlend(Radial(1, Stop{0.45, "white"}, Stop{1, "#222222"}), "multiply"),
		Contrast(0.25),
		Saturation(0.1),
	}},
	{Name: "Moon", Ops: []Operation{
		LayerBlend(Solid("#a0a0a0"), "soft-light"),
		BlendColor("#383838", "lighten", 1),
		Grayscale(),
		Contrast(0.1),
		Brightness(0.1),
	}},
	{Name: "Nashville", Ops: []Operation{
		BlendColor("#f7b099", "darken", 1.25),
		BlendColor("#004696", "lighten", 0.7),
		Contrast(0.06),
		Brightness(0.06),
		Saturation(0.1),
	}},
	{Name: "Perpetua", Ops: []Operation{
		LayerBlend(Linear([2]float64{0, -0.5}, [2]float64{0, 2}, Stop{0, "#005b9a"}, Stop{1, "#e6c13d"}), "soft-light"),
	}},
	{Name: "Toaster", Ops: []Operation{
		LayerBlend(Radial(0.6, Stop{0, "#804e0f"}, Stop{1, "#3b003b"}), "overlay"),
		Contrast(0.17),
		Brightness(-0.08),
	}},
	{Name: "Walden", Ops: []Operation{
		BlendColor("#0044cc", "screen", 0.3),
		Brightness(0.06),
		HueRotation(tenDegrees),
		Saturation(0.2),
	}},
}

// Presets returns the built-in filter table. The slice is a copy.
func Presets() []Spec {
	out := make([]Spec, len(presets))
	copy(out, presets)
	return out
}

// Preset finds a built-in filter by case-insensitive name.
func Preset(name string) (Spec, error) {
	return find(presets, name)
}

func find(specs []Spec, name string) (Spec, error) {
	for _, s := range specs {
		if strings.EqualFold(s.Name, strings.TrimSpace(name)) {
			return s, nil
		}
	}
	return Spec{}, fmt.Errorf("unknown filter %q", name)
}

// Names lists the names of specs, sorted.
func Names(specs []Spec) []string {
	out := make([]string, 0, len(specs))
	for _, s := range specs {
		out = append(out, s.Name)
	}
	sort.Strings(out)
	return out
}
