// Copyright 2026 Esteban Alvarez. All Rights Reserved.
//
// Created: August 2026
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package config loads the optional YAML configuration file for the demo
// binary. Command-line flags override anything set here.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config mirrors the YAML layout.
type Config struct {
	// Debounce is the quiet period before a batch is flushed.
	Debounce time.Duration `yaml:"debounce"`

	// Backend selects the queue store: "sqlite" (default), "pebble",
	// or "redis".
	Backend string `yaml:"backend"`

	SQLitePath string `yaml:"sqlite_path"`
	PebblePath string `yaml:"pebble_path"`
	RedisAddr  string `yaml:"redis_addr"`

	// MetricsAddr, when non-empty, serves /metrics and /healthz there.
	MetricsAddr string `yaml:"metrics_addr"`

	// LogLevel is a logrus level name ("debug", "info", ...).
	LogLevel string `yaml:"log_level"`
}

// UnmarshalYAML decodes the file representation, parsing debounce from a
// duration string ("750ms", "5s"). Keys absent from the file leave the
// receiver untouched, so unmarshalling over Default() gives overlay
// semantics.
func (c *Config) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		Debounce    string `yaml:"debounce"`
		Backend     string `yaml:"backend"`
		SQLitePath  string `yaml:"sqlite_path"`
		PebblePath  string `yaml:"pebble_path"`
		RedisAddr   string `yaml:"redis_addr"`
		MetricsAddr string `yaml:"metrics_addr"`
		LogLevel    string `yaml:"log_level"`
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}
	if raw.Debounce != "" {
		d, err := time.ParseDuration(raw.Debounce)
		if err != nil {
			return fmt.Errorf("parse debounce: %w", err)
		}
		c.Debounce = d
	}
	if raw.Backend != "" {
		c.Backend = raw.Backend
	}
	if raw.SQLitePath != "" {
		c.SQLitePath = raw.SQLitePath
	}
	if raw.PebblePath != "" {
		c.PebblePath = raw.PebblePath
	}
	if raw.RedisAddr != "" {
		c.RedisAddr = raw.RedisAddr
	}
	if raw.MetricsAddr != "" {
		c.MetricsAddr = raw.MetricsAddr
	}
	if raw.LogLevel != "" {
		c.LogLevel = raw.LogLevel
	}
	return nil
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Debounce:   5 * time.Second,
		Backend:    "sqlite",
		SQLitePath: "data/changeq.db",
		PebblePath: "data/changeq-pebble",
		LogLevel:   "info",
	}
}

// Load reads path and overlays it on the defaults. A missing file is an
// error: the caller chose to pass a path.
func Load(path string) (Config, error) {
	cfg := Default()
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}
