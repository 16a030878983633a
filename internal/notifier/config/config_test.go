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

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_OverlaysOnDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	raw := "debounce: 2s\nbackend: redis\nredis_addr: \"127.0.0.1:6379\"\n"
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Debounce != 2*time.Second {
		t.Fatalf("Debounce = %v, want 2s", cfg.Debounce)
	}
	if cfg.Backend != "redis" || cfg.RedisAddr != "127.0.0.1:6379" {
		t.Fatalf("Backend = %q, RedisAddr = %q", cfg.Backend, cfg.RedisAddr)
	}
	// Keys absent from the file keep their defaults.
	if cfg.SQLitePath != Default().SQLitePath {
		t.Fatalf("SQLitePath = %q, want default", cfg.SQLitePath)
	}
	if cfg.LogLevel != "info" {
		t.Fatalf("LogLevel = %q, want info", cfg.LogLevel)
	}
}

func TestLoad_MissingFileIsAnError(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("missing config file accepted")
	}
}

func TestLoad_MalformedYAMLIsAnError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("debounce: [not a duration"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("malformed config accepted")
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Debounce != 5*time.Second {
		t.Fatalf("default Debounce = %v, want 5s", cfg.Debounce)
	}
	if cfg.Backend != "sqlite" {
		t.Fatalf("default Backend = %q, want sqlite", cfg.Backend)
	}
}
