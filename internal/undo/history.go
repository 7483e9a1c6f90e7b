/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package undo keeps the straighten history. Steps are replayed by calling
// Straighten again with the recorded angle rather than restoring pixels.
package undo

import (
	"log/slog"
	"sync"
	"time"

	applog "imagecraft/internal/log"
	"imagecraft/internal/straighten"
)

// Target is the straighten engine a History drives.
type Target interface {
	Angle() float64
	Straighten(angle, baseRotation float64) (float64, straighten.Result)
}

// Step is one straighten change: the angle before and after, and the base
// rotation it was made at. TS is when the step was last updated.
type Step struct {
	From float64
	To   float64
	Base float64
	TS   time.Time
}

// Config controls depth and coalescing.
type Config struct {
	// MaxDepth limits the number of undo steps kept (0 means unlimited).
	MaxDepth int
	// MinInterval merges steps recorded within the interval at the same base
	// rotation, so a slider drag undoes in one go.
	MinInterval time.Duration
}

// History is an undo/redo stack of straighten steps. It is safe for
// concurrent use; the target itself is not, so callers serialise access to it.
type History struct {
	cfg    Config
	target Target
	now    func() time.Time
	mu     sync.Mutex
	undo   []Step
	redo   []Step
	log    *slog.Logger
}

func NewHistory(target Target, cfg Config) *History {
	if cfg.MinInterval < 0 {
		cfg.MinInterval = 0
	}
	return &History{
		cfg:    cfg,
		target: target,
		now:    time.Now,
		log:    applog.WithComponent(applog.CompUndo),
	}
}

// Straighten records the current angle and straightens to angle.
func (h *History) Straighten(angle, baseRotation float64) (float64, straighten.Result) {
	from := h.target.Angle()
	got, res := h.target.Straighten(angle, baseRotation)
	h.Push(Step{From: from, To: got, Base: baseRotation, TS: h.now()})
	return got, res
}

// Push records a step. A step within MinInterval of the previous one at the
// same base rotation extends it instead: the first From is kept and To is
// replaced. Any push clears the redo stack.
func (h *History) Push(s Step) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.redo = nil
	if n := len(h.undo); n > 0 {
		last := &h.undo[n-1]
		if last.Base == s.Base && s.TS.Sub(last.TS) < h.cfg.MinInterval {
			last.To = s.To
			last.TS = s.TS
			return
		}
	}
	h.undo = append(h.undo, s)
	if h.cfg.MaxDepth > 0 && len(h.undo) > h.cfg.MaxDepth {
		drop := len(h.undo) - h.cfg.MaxDepth
		h.undo = append([]Step{}, h.undo[drop:]...)
	}
}

// Undo replays the From angle of the newest step.
func (h *History) Undo() (straighten.Result, bool) {
	h.mu.Lock()
	n := len(h.undo)
	if n == 0 {
		h.mu.Unlock()
		return straighten.Result{}, false
	}
	s := h.undo[n-1]
	h.undo = h.undo[:n-1]
	h.redo = append(h.redo, s)
	h.mu.Unlock()

	_, res := h.target.Straighten(s.From, s.Base)
	h.log.Debug("undo straighten", slog.Float64("angle", s.From), slog.Float64("base", s.Base))
	return res, true
}

// Redo replays the To angle of the most recently undone step.
func (h *History) Redo() (straighten.Result, bool) {
	h.mu.Lock()
	n := len(h.redo)
	if n == 0 {
		h.mu.Unlock()
		return straighten.Result{}, false
	}
	s := h.redo[n-1]
	h.redo = h.redo[:n-1]
	h.undo = append(h.undo, s)
	h.mu.Unlock()

	_, res := h.target.Straighten(s.To, s.Base)
	h.log.Debug("redo straighten", slog.Float64("angle", s.To), slog.Float64("base", s.Base))
	return res, true
}

// Clear drops both stacks.
func (h *History) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.undo, h.redo = nil, nil
}

// Stats returns the current stack depths.
func (h *History) Stats() (undo, redo int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.undo), len(h.redo)
}
