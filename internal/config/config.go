/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	applog "imagecraft/internal/log"
)

// AppConfig is the user-editable configuration persisted to a YAML file in the user scope.
// Environment variables are treated as read-only overrides at runtime.
//
// config_version: bump when the structure changes in a backward-incompatible way.
// Unknown fields are ignored on unmarshal.

type CropConfig struct {
	// MoveThreshold is the Manhattan distance in canvas pixels before a drag resizes the zone.
	MoveThreshold float64 `yaml:"move_threshold"`
	// PresetSize is the canvas fraction a preset crop zone covers, in (0,1].
	PresetSize float64 `yaml:"preset_size"`
}

type StraightenConfig struct {
	GridCells int  `yaml:"grid_cells"`
	Circles   bool `yaml:"circles"`
}

type FiltersConfig struct {
	// Table is an optional YAML filter table merged over the built-in presets.
	Table string `yaml:"table"`
}

type ExportConfig struct {
	JPEGQuality int     `yaml:"jpeg_quality"`
	PDFDPI      float64 `yaml:"pdf_dpi"`
}

type LoggingConfig struct {
	Level      string `yaml:"level"`
	Format     string `yaml:"format"`
	Source     bool   `yaml:"source"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
}

type AppConfig struct {
	ConfigVersion int              `yaml:"config_version"`
	Crop          CropConfig       `yaml:"crop"`
	Straighten    StraightenConfig `yaml:"straighten"`
	Filters       FiltersConfig    `yaml:"filters"`
	Export        ExportConfig     `yaml:"export"`
	Logging       LoggingConfig    `yaml:"logging"`
}

// Defaults returns the application defaults.
func Defaults() AppConfig {
	return AppConfig{
		ConfigVersion: 1,
		Crop:          CropConfig{MoveThreshold: 10, PresetSize: 0.5},
		Straighten:    StraightenConfig{GridCells: 6, Circles: true},
		Export:        ExportConfig{JPEGQuality: 90, PDFDPI: 96},
		Logging:       LoggingConfig{Level: "info", Format: "console", Source: false, File: ""},
	}
}

// Env var names used as overrides.
const (
	EnvConfigPath        = "ICR_CONFIG"
	EnvCropMoveThreshold = "ICR_CROP_MOVE_THRESHOLD"
	EnvFilterTable       = "ICR_FILTER_TABLE"
	EnvJPEGQuality       = "ICR_JPEG_QUALITY"
	// EnvLogLevel Logging envs
	EnvLogLevel  = "ICR_LOG_LEVEL"
	EnvLogFormat = "ICR_LOG_FORMAT"
	EnvLogSource = "ICR_LOG_SOURCE"
	EnvLogFile   = "ICR_LOG_FILE"
)

// ConfigPath returns the per-user config file path. ICR_CONFIG wins when set.
func ConfigPath() (string, error) {
	if p := strings.TrimSpace(os.Getenv(EnvConfigPath)); p != "" {
		return p, nil
	}
	var base string
	switch runtime.GOOS {
	case "windows":
		base = os.Getenv("AppData")
		if base == "" { // fallback
			base = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		base = filepath.Join(base, "ImageCraft")
	case "darwin":
		base = filepath.Join(os.Getenv("HOME"), "Library", "Application Support", "ImageCraft")
	default: // linux and others
		base = filepath.Join(os.Getenv("HOME"), ".config", "imagecraft")
	}
	if base == "" {
		return "", errors.New("cannot resolve config directory")
	}
	return filepath.Join(base, "config.yaml"), nil
}

// Load reads the user config file (if present), applies defaults, and merges environment overrides.
// A malformed file is reported together with the defaults-plus-env config, so callers may warn and go on.
func Load() (AppConfig, error) {
	cfg := Defaults()
	path, err := ConfigPath()
	if err != nil {
		return cfg, err
	}
	var parseErr error
	if data, err := os.ReadFile(path); err == nil {
		fileCfg := Defaults()
		if err := yaml.Unmarshal(data, &fileCfg); err != nil {
			parseErr = fmt.Errorf("parse %s: %w", path, err)
		} else {
			mergeInto(&cfg, &fileCfg)
		}
	}
	applyEnvOverrides(&cfg)
	return cfg, parseErr
}

// Save writes the user config YAML.
func Save(cfg AppConfig) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

func mergeInto(dst *AppConfig, src *AppConfig) {
	if src.ConfigVersion != 0 {
		dst.ConfigVersion = src.ConfigVersion
	}
	if src.Crop.MoveThreshold > 0 {
		dst.Crop.MoveThreshold = src.Crop.MoveThreshold
	}
	if src.Crop.PresetSize > 0 && src.Crop.PresetSize <= 1 {
		dst.Crop.PresetSize = src.Crop.PresetSize
	}
	if src.Straighten.GridCells > 0 {
		dst.Straighten.GridCells = src.Straighten.GridCells
	}
	// booleans: copy directly from src (file) so user preferences persist
	dst.Straighten.Circles = src.Straighten.Circles
	if strings.TrimSpace(src.Filters.Table) != "" {
		dst.Filters.Table = strings.TrimSpace(src.Filters.Table)
	}
	if src.Export.JPEGQuality >= 1 && src.Export.JPEGQuality <= 100 {
		dst.Export.JPEGQuality = src.Export.JPEGQuality
	}
	if src.Export.PDFDPI > 0 {
		dst.Export.PDFDPI = src.Export.PDFDPI
	}
	// logging
	if strings.TrimSpace(src.Logging.Level) != "" {
		dst.Logging.Level = strings.ToLower(strings.TrimSpace(src.Logging.Level))
	}
	if strings.TrimSpace(src.Logging.Format) != "" {
		dst.Logging.Format = strings.ToLower(strings.TrimSpace(src.Logging.Format))
	}
	dst.Logging.Source = src.Logging.Source
	if strings.TrimSpace(src.Logging.File) != "" {
		dst.Logging.File = strings.TrimSpace(src.Logging.File)
	}
	if src.Logging.MaxSizeMB > 0 {
		dst.Logging.MaxSizeMB = src.Logging.MaxSizeMB
	}
	if src.Logging.MaxBackups > 0 {
		dst.Logging.MaxBackups = src.Logging.MaxBackups
	}
}

func truthy(v string) bool {
	lv := strings.ToLower(v)
	return lv == "1" || lv == "true" || lv == "on" || lv == "yes"
}

func applyEnvOverrides(cfg *AppConfig) {
	if v := strings.TrimSpace(os.Getenv(EnvCropMoveThreshold)); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			cfg.Crop.MoveThreshold = f
		}
	}
	if v := strings.TrimSpace(os.Getenv(EnvFilterTable)); v != "" {
		cfg.Filters.Table = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvJPEGQuality)); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 1 && n <= 100 {
			cfg.Export.JPEGQuality = n
		}
	}
	// logging overrides
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFormat)); v != "" {
		cfg.Logging.Format = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogSource)); v != "" {
		cfg.Logging.Source = truthy(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFile)); v != "" {
		cfg.Logging.File = v
	}
}

// EnvOverrideFor returns the env var name if the field is overridden by environment variables.
func EnvOverrideFor(key string) (string, bool) {
	env := map[string]string{
		"crop.move_threshold": EnvCropMoveThreshold,
		"filters.table":       EnvFilterTable,
		"export.jpeg_quality": EnvJPEGQuality,
		"logging.level":       EnvLogLevel,
		"logging.format":      EnvLogFormat,
		"logging.source":      EnvLogSource,
		"logging.file":        EnvLogFile,
	}[key]
	if env != "" && os.Getenv(env) != "" {
		return env, true
	}
	return "", false
}

// LogOptions maps the logging section onto logger options.
func (c AppConfig) LogOptions() applog.Options {
	return applog.Options{
		Level:      c.Logging.Level,
		Format:     c.Logging.Format,
		AddSource:  c.Logging.Source,
		File:       c.Logging.File,
		MaxSizeMB:  c.Logging.MaxSizeMB,
		MaxBackups: c.Logging.MaxBackups,
	}
}
