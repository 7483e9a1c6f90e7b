/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package geom

import (
	"math"
	"testing"
)

func TestAffineBasic(t *testing.T) {
	m := Translate(10, 5).Mul(Scale(2, 3))
	p := m.Apply(Pt{1, 1})
	if p.X != 12 || p.Y != 8 {
		t.Fatalf("unexpected transform result: %+v", p)
	}
}

func TestRotateQuarterTurnsAreExact(t *testing.T) {
	for _, deg := range []float64{90, -270, 450} {
		p := Rotate(deg).Apply(Pt{1, 0})
		if p.X != 0 || p.Y != 1 {
			t.Fatalf("Rotate(%v) (1,0) = %+v, want (0,1)", deg, p)
		}
	}
	p := Rotate(180).Apply(Pt{2, 3})
	if p.X != -2 || p.Y != -3 {
		t.Fatalf("Rotate(180) = %+v", p)
	}
}

func TestRotateAboutKeepsPivot(t *testing.T) {
	c := Pt{50, 20}
	p := RotateAbout(37, c).Apply(c)
	if math.Abs(p.X-c.X) > 1e-9 || math.Abs(p.Y-c.Y) > 1e-9 {
		t.Fatalf("pivot moved: %+v", p)
	}
}

func TestBoundsOfRotatedRect(t *testing.T) {
	b := RotateAbout(90, Pt{200, 150}).Bounds(R(0, 0, 400, 300))
	if b.Width != 300 || b.Height != 400 {
		t.Fatalf("unexpected bounds: %+v", b)
	}
}

func TestFixFloatingPoint(t *testing.T) {
	cases := []struct{ in, want float64 }{
		{1.0 / 3, 0.33333},
		{2.000004, 2},
		{-1.234567, -1.23457},
	}
	for _, c := range cases {
		if got := FixFloatingPoint(c.in); got != c.want {
			t.Errorf("FixFloatingPoint(%v) = %v, want %v", c.in, got, c.want)
		}
	}
	if !math.IsNaN(FixFloatingPoint(math.NaN())) {
		t.Errorf("NaN should pass through")
	}
}

func TestClampAndPositive(t *testing.T) {
	if Clamp(5, 0, 3) != 3 || Clamp(-1, 0, 3) != 0 || Clamp(2, 3, 0) != 2 {
		t.Fatalf("clamp mismatch")
	}
	if Positive(0) != 1 || Positive(-4) != 1 || Positive(math.NaN()) != 1 || Positive(2.5) != 2.5 {
		t.Fatalf("positive mismatch")
	}
}

func TestRectHelpers(t *testing.T) {
	r := R(10, 20, 100, 50)
	if r.Right() != 110 || r.Bottom() != 70 || r.Aspect() != 2 {
		t.Fatalf("unexpected helpers: %+v", r)
	}
	if c := r.Center(); c.X != 60 || c.Y != 45 {
		t.Fatalf("center = %+v", c)
	}
	if !r.Within(110, 70) || r.Within(100, 70) {
		t.Fatalf("within mismatch")
	}
}

func TestInvertRoundTrip(t *testing.T) {
	m := Translate(10, -4).Mul(Rotate(30)).Mul(Scale(2, 0.5))
	p := Pt{7, 9}
	q := m.Invert().Apply(m.Apply(p))
	if math.Abs(q.X-p.X) > 1e-9 || math.Abs(q.Y-p.Y) > 1e-9 {
		t.Fatalf("round trip = %+v, want %+v", q, p)
	}
	if Scale(0, 1).Invert() != Identity {
		t.Fatalf("singular matrix should invert to identity")
	}
}
