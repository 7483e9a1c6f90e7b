/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package filter

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	gojsonschema "github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"

	applog "imagecraft/internal/log"
)

//go:embed schema.json
var tableSchema []byte

// ErrInvalidTable is returned when a filter table does not match the schema.
var ErrInvalidTable = errors.New("invalid filter table")

// Table is the on-disk format of a filter table file.
type Table struct {
	Version int    `yaml:"version,omitempty"`
	Filters []Spec `yaml:"filters"`
}

// LoadSpecs reads a YAML filter table, validates it against the embedded
// schema and compiles every spec once so that bad colours or blend names are
// reported at load time.
func LoadSpecs(r io.Reader) ([]Spec, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read filter table: %w", err)
	}
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse filter table: %w", err)
	}
	res, err := gojsonschema.Validate(gojsonschema.NewBytesLoader(tableSchema), gojsonschema.NewGoLoader(doc))
	if err != nil {
		return nil, fmt.Errorf("validate filter table: %w", err)
	}
	if !res.Valid() {
		msgs := make([]string, 0, len(res.Errors()))
		for _, e := range res.Errors() {
			msgs = append(msgs, e.String())
		}
		return nil, fmt.Errorf("%w: %s", ErrInvalidTable, strings.Join(msgs, "; "))
	}

	var t Table
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&t); err != nil {
		return nil, fmt.Errorf("decode filter table: %w", err)
	}
	for _, s := range t.Filters {
		if _, err := s.Compile(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidTable, err)
		}
	}
	return t.Filters, nil
}

// LoadFile reads a filter table from path.
func LoadFile(path string) ([]Spec, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	specs, err := LoadSpecs(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	applog.WithOperation(applog.WithComponent(applog.CompFilter), "load_table").
		Info("filter table loaded", slog.String("path", path), slog.Int("filters", len(specs)))
	return specs, nil
}

// MarshalTable renders specs in the table file format.
func MarshalTable(specs []Spec) ([]byte, error) {
	return yaml.Marshal(Table{Version: 1, Filters: specs})
}

// Catalog resolves filter names against the built-in presets and any number
// of loaded tables; later tables override earlier ones by name.
type Catalog struct {
	specs []Spec
}

// NewCatalog starts from the built-in presets.
func NewCatalog(tables ...[]Spec) *Catalog {
	c := &Catalog{specs: Presets()}
	for _, t := range tables {
		c.Add(t...)
	}
	return c
}

// Add inserts or replaces specs by case-insensitive name.
func (c *Catalog) Add(specs ...Spec) {
	for _, s := range specs {
		replaced := false
		for i := range c.specs {
			if strings.EqualFold(c.specs[i].Name, s.Name) {
				c.specs[i] = s
				replaced = true
				break
			}
		}
		if !replaced {
			c.specs = append(c.specs, s)
		}
	}
}

func (c *Catalog) Lookup(name string) (Spec, error) { return find(c.specs, name) }

func (c *Catalog) Names() []string { return Names(c.specs) }
