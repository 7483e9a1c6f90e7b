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
	"strings"

	"github.com/gogpu/gg"
)

// RGB is an opaque colour in byte channels.
type RGB struct{ R, G, B uint8 }

var namedColors = map[string]string{
	"white":    "#ffffff",
	"black":    "#000000",
	"lavender": "#e6e6fa",
	"gray":     "#808080",
	"grey":     "#808080",
}

// ParseColor accepts #rgb, #rrggbb (with or without '#') and a few CSS
// colour names used by the preset tables.
func ParseColor(s string) (RGB, error) {
	c, err := parseGG(s)
	if err != nil {
		return RGB{}, err
	}
	return RGB{R: unit(c.R), G: unit(c.G), B: unit(c.B)}, nil
}

func parseGG(s string) (gg.RGBA, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	if hex, ok := namedColors[v]; ok {
		v = hex
	}
	h := strings.TrimPrefix(v, "#")
	if len(h) != 3 && len(h) != 6 {
		return gg.RGBA{}, fmt.Errorf("invalid colour %q", s)
	}
	for _, c := range h {
		if !('0' <= c && c <= '9' || 'a' <= c && c <= 'f') {
			return gg.RGBA{}, fmt.Errorf("invalid colour %q", s)
		}
	}
	return gg.Hex(h), nil
}

// unit converts a 0..1 channel to a byte.
func unit(v float64) uint8 {
	return toByte(v * 255)
}
