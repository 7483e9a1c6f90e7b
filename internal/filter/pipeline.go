/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package filter applies declarative photographic filters to RGBA pixel
// buffers. A filter is an ordered table of operations: closed-form tone
// adjustments, solid-colour blends and synthetic gradient layers combined
// through the blend package. Filters hold no state between calls.
package filter

import (
	"fmt"
	"log/slog"
	"time"

	applog "imagecraft/internal/log"
)

// Spec is a named, ordered list of operations.
type Spec struct {
	Name        string      `yaml:"name" json:"name"`
	Description string      `yaml:"description,omitempty" json:"description,omitempty"`
	Ops         []Operation `yaml:"ops" json:"ops"`
}

// Compile validates every operation of the spec without touching pixels.
func (s Spec) Compile() (func(*PixelBuffer) error, error) {
	steps := make([]step, 0, len(s.Ops))
	for i, op := range s.Ops {
		st, err := op.compile()
		if err != nil {
			return nil, fmt.Errorf("filter %q op %d (%s): %w", s.Name, i, op.Kind, err)
		}
		steps = append(steps, st)
	}
	return func(buf *PixelBuffer) error {
		for i, st := range steps {
			if err := st(buf); err != nil {
				return fmt.Errorf("filter %q op %d: %w", s.Name, i, err)
			}
		}
		return nil
	}, nil
}

// ApplyFilter runs spec's operations in declared order on buf, in place.
// Alpha is never modified. A buffer with a zero dimension and no pixels is
// left alone; a buffer whose pixel slice does not match its dimensions fails
// with ErrShapeMismatch before anything is written. ApplyFilter must not be called
// concurrently on the same buffer.
func ApplyFilter(buf *PixelBuffer, spec Spec) error {
	if buf != nil && (buf.Width == 0 || buf.Height == 0) && len(buf.Pix) == 0 {
		return nil
	}
	if err := buf.Validate(); err != nil {
		return err
	}
	run, err := spec.Compile()
	if err != nil {
		return err
	}
	l := applog.WithOperation(applog.WithComponent(applog.CompFilter), "apply")
	start := time.Now()
	if err := run(buf); err != nil {
		l.Error("filter failed", slog.String("filter", spec.Name), slog.Any("err", err))
		return err
	}
	l.Debug("filter applied",
		slog.String("filter", spec.Name),
		slog.Int("ops", len(spec.Ops)),
		slog.Int("w", buf.Width), slog.Int("h", buf.Height),
		slog.Duration("took", time.Since(start)))
	return nil
}
