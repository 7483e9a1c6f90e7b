/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package crop

import (
	"math"
	"math/rand/v2"
	"testing"

	"imagecraft/internal/geom"
)

func approx(a, b, eps float64) bool { return math.Abs(a-b) <= eps }

func rectApprox(a, b geom.Rect, eps float64) bool {
	return approx(a.Left, b.Left, eps) && approx(a.Top, b.Top, eps) &&
		approx(a.Width, b.Width, eps) && approx(a.Height, b.Height, eps)
}

func TestClampDragExample(t *testing.T) {
	r := ClampDrag(geom.Pt{X: 50, Y: 50}, geom.Pt{X: 200, Y: 10}, 300, 300)
	want := geom.Rect{Left: 50, Top: 10, Width: 150, Height: 40}
	if !rectApprox(r, want, 1e-9) {
		t.Fatalf("ClampDrag = %+v, want %+v", r, want)
	}
}

func TestClampDragClampsToCanvas(t *testing.T) {
	cases := []struct {
		name           string
		start, current geom.Pt
		w, h           float64
		want           geom.Rect
	}{
		{"past bottom-right", geom.Pt{X: 100, Y: 100}, geom.Pt{X: 900, Y: 900}, 300, 200, geom.Rect{Left: 100, Top: 100, Width: 200, Height: 100}},
		{"past top-left", geom.Pt{X: 100, Y: 100}, geom.Pt{X: -50, Y: -70}, 300, 200, geom.Rect{Left: 0, Top: 0, Width: 100, Height: 100}},
		{"no movement", geom.Pt{X: 10, Y: 10}, geom.Pt{X: 10, Y: 10}, 300, 200, geom.Rect{Left: 10, Top: 10, Width: 1, Height: 1}},
		{"anchor on edge", geom.Pt{X: 300, Y: 200}, geom.Pt{X: 310, Y: 210}, 300, 200, geom.Rect{Left: 299, Top: 199, Width: 1, Height: 1}},
		{"degenerate canvas", geom.Pt{X: 5, Y: 5}, geom.Pt{X: 50, Y: 50}, 0, -3, geom.Rect{Left: 0, Top: 0, Width: 1, Height: 1}},
	}
	for _, c := range cases {
		got := ClampDrag(c.start, c.current, c.w, c.h)
		if !rectApprox(got, c.want, 1e-9) {
			t.Errorf("%s: got %+v, want %+v", c.name, got, c.want)
		}
	}
}

func TestClampDragAlwaysInside(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	for i := 0; i < 5000; i++ {
		w := 1 + rng.Float64()*2000
		h := 1 + rng.Float64()*2000
		start := geom.Pt{X: rng.Float64()*3000 - 500, Y: rng.Float64()*3000 - 500}
		cur := geom.Pt{X: rng.Float64()*3000 - 500, Y: rng.Float64()*3000 - 500}
		r := ClampDrag(start, cur, w, h)
		if !r.Within(w, h) {
			t.Fatalf("ClampDrag(%v,%v,%v,%v) = %+v escapes canvas", start, cur, w, h, r)
		}
		if r.Width < 1 || r.Height < 1 {
			t.Fatalf("ClampDrag produced a sub-pixel rect %+v", r)
		}
	}
}

func TestApplyAspectLockHoldsRatio(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 4))
	ratios := []float64{0.5, 1, 1.5, 16.0 / 9, 3}
	for i := 0; i < 5000; i++ {
		w := 10 + rng.Float64()*2000
		h := 10 + rng.Float64()*2000
		ratio := ratios[i%len(ratios)]
		start := geom.Pt{X: rng.Float64() * w, Y: rng.Float64() * h}
		cur := geom.Pt{X: rng.Float64() * w, Y: rng.Float64() * h}
		r := ApplyAspectLock(start, cur, ClampDrag(start, cur, w, h), ratio, w, h)
		if got := r.Width / r.Height; math.Abs(got-ratio) > 1e-9*ratio {
			t.Fatalf("ratio %v not held: %+v (aspect %v)", ratio, r, got)
		}
		if !r.Within(w, h) {
			t.Fatalf("locked rect %+v escapes %vx%v", r, w, h)
		}
	}
}

func TestApplyAspectLockShrinksToRoom(t *testing.T) {
	// Anchor at (250,50) dragging right has only 50 px of room.
	r := ApplyAspectLock(geom.Pt{X: 250, Y: 50}, geom.Pt{X: 290, Y: 150}, geom.Rect{Width: 40, Height: 100}, 2, 300, 300)
	want := geom.Rect{Left: 250, Top: 50, Width: 50, Height: 25}
	if !rectApprox(r, want, 1e-9) {
		t.Fatalf("got %+v, want %+v", r, want)
	}
}

func TestPresetRect(t *testing.T) {
	cases := []struct {
		ratio, size, w, h float64
		want              geom.Rect
	}{
		{1, 0.5, 400, 300, geom.Rect{Left: 125, Top: 75, Width: 150, Height: 150}},
		{2, 1, 400, 300, geom.Rect{Left: 0, Top: 50, Width: 400, Height: 200}},
		{0.5, 0, 300, 400, geom.Rect{Left: 100, Top: 100, Width: 100, Height: 200}},
	}
	for _, c := range cases {
		got := PresetRect(c.ratio, c.size, c.w, c.h)
		if !rectApprox(got, c.want, 1e-9) {
			t.Errorf("PresetRect(%v,%v,%v,%v) = %+v, want %+v", c.ratio, c.size, c.w, c.h, got, c.want)
		}
		if !got.Within(c.w, c.h) {
			t.Errorf("preset %+v escapes canvas", got)
		}
	}
}

func TestRecenterForNewRatio(t *testing.T) {
	got := RecenterForNewRatio(geom.Rect{Left: 100, Top: 100, Width: 200, Height: 100}, 1, 400, 300)
	if want := (geom.Rect{Left: 100, Top: 50, Width: 200, Height: 200}); !rectApprox(got, want, 1e-9) {
		t.Fatalf("same orientation: got %+v, want %+v", got, want)
	}
	got = RecenterForNewRatio(geom.Rect{Left: 0, Top: 0, Width: 400, Height: 200}, 0.5, 400, 300)
	if want := (geom.Rect{Left: 125, Top: 0, Width: 150, Height: 300}); !rectApprox(got, want, 1e-9) {
		t.Fatalf("orientation flip: got %+v, want %+v", got, want)
	}
}

func TestRecenterKeepsMinimumSide(t *testing.T) {
	r := ClampDrag(geom.Pt{X: 50, Y: 50}, geom.Pt{X: 50, Y: 50}, 300, 300)
	got := RecenterForNewRatio(r, 2, 300, 300)
	if want := (geom.Rect{Left: 49.5, Top: 50, Width: 2, Height: 1}); !rectApprox(got, want, 1e-9) {
		t.Fatalf("RecenterForNewRatio(%+v, 2) = %+v, want %+v", r, got, want)
	}
	locked := ApplyAspectLock(geom.Pt{X: got.Left, Y: got.Top}, geom.Pt{X: got.Right(), Y: got.Bottom()}, got, 2, 300, 300)
	if !rectApprox(got, locked, 1e-9) {
		t.Fatalf("aspect lock moved %+v to %+v", got, locked)
	}

	tall := RecenterForNewRatio(geom.Rect{Left: 10, Top: 10, Width: 1.335, Height: 0.937}, 0.4, 300, 300)
	if tall.Width < 1-1e-9 || tall.Height < 1-1e-9 {
		t.Fatalf("side below 1 px: %+v", tall)
	}
}

func TestRecenterIsFixedPoint(t *testing.T) {
	rng := rand.New(rand.NewPCG(5, 6))
	for i := 0; i < 2000; i++ {
		W := 50 + rng.Float64()*1500
		H := 50 + rng.Float64()*1500
		r := ClampDrag(geom.Pt{X: rng.Float64() * W, Y: rng.Float64() * H}, geom.Pt{X: rng.Float64() * W, Y: rng.Float64() * H}, W, H)
		ratio := 0.25 + rng.Float64()*3
		once := RecenterForNewRatio(r, ratio, W, H)
		twice := RecenterForNewRatio(once, ratio, W, H)
		if !rectApprox(once, twice, 1e-6) {
			t.Fatalf("not idempotent for ratio %v: %+v then %+v", ratio, once, twice)
		}
		if !once.Within(W, H) {
			t.Fatalf("recentred rect %+v escapes %vx%v", once, W, H)
		}
		if math.Abs(once.Width/once.Height-ratio) > 1e-9*ratio {
			t.Fatalf("ratio %v not held: %+v", ratio, once)
		}
		locked := ApplyAspectLock(
			geom.Pt{X: once.Left, Y: once.Top},
			geom.Pt{X: once.Right(), Y: once.Bottom()},
			once, ratio, W, H)
		if !rectApprox(once, locked, 1e-6) {
			t.Fatalf("aspect lock moved recentred rect: %+v -> %+v", once, locked)
		}
	}
}
