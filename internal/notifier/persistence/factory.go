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

package persistence

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
)

// Options holds the per-backend construction knobs.
type Options struct {
	SQLitePath string // file path of the SQLite database
	PebblePath string // directory of the Pebble database
	RedisAddr  string // host:port; empty selects the logging demo client
}

// Build constructs a Store for the given backend selector:
//   - "" or "sqlite": embedded SQLite file database (default)
//   - "pebble":       embedded Pebble key-value store
//   - "redis":        shared Redis server; falls back to a logging client
//     when no address is configured, for infrastructure-free demo runs
//
// Construction is all-or-nothing: any open or schema failure is returned
// to the caller, which must refuse to activate the notifier.
func Build(ctx context.Context, backend string, opts Options, log *logrus.Entry) (Store, error) {
	switch backend {
	case "", "sqlite":
		if opts.SQLitePath == "" {
			return nil, fmt.Errorf("sqlite backend requires a database path")
		}
		return NewSQLiteStore(opts.SQLitePath, log)
	case "pebble":
		if opts.PebblePath == "" {
			return nil, fmt.Errorf("pebble backend requires a database directory")
		}
		return NewPebbleStore(opts.PebblePath, log)
	case "redis":
		if opts.RedisAddr == "" {
			log.Warn("no redis address configured; using logging demo client")
			return NewRedisStore(LoggingSetAdder{}), nil
		}
		adder, err := NewGoRedisAdder(ctx, opts.RedisAddr)
		if err != nil {
			return nil, err
		}
		return NewRedisStore(adder), nil
	default:
		return nil, fmt.Errorf("unknown queue backend: %s", backend)
	}
}
