/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"fmt"
	"sort"
	"strings"
)

// PresetName represents a named export preset.
type PresetName string

const (
	PresetWeb   PresetName = "web"
	PresetPrint PresetName = "print"
	PresetFull  PresetName = "full"
)

// presets maps a name to encoding defaults.
var presets = map[PresetName]Options{
	PresetWeb:   {JPEGQuality: 82, PDFDPI: 96, MaxSide: 2048},
	PresetPrint: {JPEGQuality: 95, PDFDPI: 300},
	PresetFull:  {JPEGQuality: 90, PDFDPI: 96},
}

// PresetOptions resolves a preset by name. An empty name is PresetFull.
func PresetOptions(name string) (Options, error) {
	n := PresetName(strings.ToLower(strings.TrimSpace(name)))
	if n == "" {
		n = PresetFull
	}
	o, ok := presets[n]
	if !ok {
		return Options{}, fmt.Errorf("unknown export preset %q (have %s)", name, strings.Join(PresetNames(), ", "))
	}
	return o, nil
}

// PresetNames lists the preset names, sorted.
func PresetNames() []string {
	out := make([]string, 0, len(presets))
	for n := range presets {
		out = append(out, string(n))
	}
	sort.Strings(out)
	return out
}
