/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package undo

import (
	"testing"
	"time"

	"imagecraft/internal/scene"
	"imagecraft/internal/straighten"
)

type fakeTarget struct {
	angle float64
	calls [][2]float64
}

func (f *fakeTarget) Angle() float64 { return f.angle }

func (f *fakeTarget) Straighten(angle, base float64) (float64, straighten.Result) {
	f.angle = angle
	f.calls = append(f.calls, [2]float64{angle, base})
	return angle, straighten.Result{Angle: angle, Base: base}
}

// clock returns a now func advancing by step on every call.
func clock(step time.Duration) func() time.Time {
	t := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	return func() time.Time {
		t = t.Add(step)
		return t
	}
}

func TestUndoRedoBasic(t *testing.T) {
	ft := &fakeTarget{}
	h := NewHistory(ft, Config{MinInterval: 10 * time.Millisecond})
	h.now = clock(20 * time.Millisecond)
	h.Straighten(5, 0)
	h.Straighten(15, 0)
	if u, r := h.Stats(); u != 2 || r != 0 {
		t.Fatalf("expected 2 undo steps, got undo=%d redo=%d", u, r)
	}
	res, ok := h.Undo()
	if !ok || res.Angle != 5 || ft.angle != 5 {
		t.Fatalf("undo expected angle 5, got ok=%v angle=%v", ok, res.Angle)
	}
	res, ok = h.Redo()
	if !ok || res.Angle != 15 {
		t.Fatalf("redo expected angle 15, got ok=%v angle=%v", ok, res.Angle)
	}
	if _, ok := h.Redo(); ok {
		t.Fatalf("redo stack should be empty")
	}
}

func TestCoalesce(t *testing.T) {
	ft := &fakeTarget{angle: 2}
	h := NewHistory(ft, Config{MinInterval: 50 * time.Millisecond})
	h.now = clock(10 * time.Millisecond)
	for _, a := range []float64{3, 4, 5, 6} {
		h.Straighten(a, 0)
	}
	if u, _ := h.Stats(); u != 1 {
		t.Fatalf("expected slider drag coalesced to 1 step, got %d", u)
	}
	res, ok := h.Undo()
	if !ok || res.Angle != 2 {
		t.Fatalf("undo should return to the angle before the drag, got ok=%v angle=%v", ok, res.Angle)
	}
	res, _ = h.Redo()
	if res.Angle != 6 {
		t.Fatalf("redo should land on the last drag angle, got %v", res.Angle)
	}
}

func TestBaseChangeDoesNotCoalesce(t *testing.T) {
	ft := &fakeTarget{}
	h := NewHistory(ft, Config{MinInterval: time.Hour})
	h.now = clock(time.Millisecond)
	h.Straighten(3, 0)
	h.Straighten(3, 90)
	if u, _ := h.Stats(); u != 2 {
		t.Fatalf("steps at different base rotations must stay separate, got %d", u)
	}
	h.Undo()
	if last := ft.calls[len(ft.calls)-1]; last != [2]float64{3, 90} {
		t.Fatalf("undo should replay at the step's base rotation, got %v", last)
	}
}

func TestPushClearsRedoAndCaps(t *testing.T) {
	ft := &fakeTarget{}
	h := NewHistory(ft, Config{MaxDepth: 2})
	h.now = clock(time.Second)
	for i := 1; i <= 5; i++ {
		h.Straighten(float64(i), 0)
	}
	if u, _ := h.Stats(); u != 2 {
		t.Fatalf("MaxDepth should cap to 2, got %d", u)
	}
	h.Undo()
	h.Straighten(42, 0)
	if _, r := h.Stats(); r != 0 {
		t.Fatalf("a new step must clear redo, got %d", r)
	}
	h.Clear()
	if u, r := h.Stats(); u != 0 || r != 0 {
		t.Fatalf("Clear left undo=%d redo=%d", u, r)
	}
	if _, ok := h.Undo(); ok {
		t.Fatalf("undo on empty history should fail")
	}
}

func TestUndoRestoresClipExactly(t *testing.T) {
	c := scene.NewMemory(800, 533)
	s := straighten.New(c, straighten.DefaultOptions())
	h := NewHistory(s, Config{})
	_, before := h.Straighten(7.25, 0)
	dims := c.Dimensions()
	h.Straighten(-21, 0)
	res, ok := h.Undo()
	if !ok {
		t.Fatalf("undo failed")
	}
	if res.ClipRect != before.ClipRect || s.ClipRect() != before.ClipRect || c.Dimensions() != dims {
		t.Fatalf("undo did not restore state bit-for-bit: %+v vs %+v", res.ClipRect, before.ClipRect)
	}
	clip, _ := c.Image().ClipRegion()
	if clip != before.ClipRect {
		t.Fatalf("image clip not restored: %+v", clip)
	}
}
