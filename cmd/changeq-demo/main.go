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

// Package main runs an end-to-end demonstration of the library change
// notifier: an in-memory host library publishes bursts of item mutations,
// the notifier coalesces them behind a trailing-edge debounce, and each
// flush fans out per-user deduplicated records into the chosen queue
// backend.
//
// This file is responsible for orchestrating the whole pipeline:
//  1. Loading configuration (optional YAML file, flags override).
//  2. Building the queue store (fatal if the backend cannot initialize).
//  3. Wiring and starting the notifier and the metrics endpoint.
//  4. Generating synthetic library churn until interrupted.
//  5. Graceful shutdown: unsubscribe, drop any still-pending batch,
//     close the store, print a queue summary.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"changeq/internal/notifier/api"
	"changeq/internal/notifier/config"
	"changeq/internal/notifier/core"
	"changeq/internal/notifier/library"
	"changeq/internal/notifier/persistence"
)

func main() {
	configPath := flag.String("config", "", "Optional YAML config file; flags override its values")
	debounce := flag.Duration("debounce", 0, "Quiet period before a batch is flushed (default 5s)")
	backend := flag.String("backend", "", "Queue backend: sqlite (default), pebble, or redis")
	sqlitePath := flag.String("sqlite_path", "", "SQLite database file for the sqlite backend")
	pebblePath := flag.String("pebble_path", "", "Pebble database directory for the pebble backend")
	redisAddr := flag.String("redis_addr", "", "Redis address for the redis backend; empty uses a logging demo client")
	metricsAddr := flag.String("metrics_addr", "", "Serve Prometheus /metrics on this address (e.g. :9090); empty disables")
	logLevel := flag.String("log_level", "", "Log level: debug, info, warn, error")
	users := flag.Int("users", 3, "Number of simulated users (the last one has restricted visibility)")
	burstSize := flag.Int("burst_size", 20, "Items added per synthetic burst")
	burstEvery := flag.Duration("burst_every", 8*time.Second, "Interval between synthetic bursts")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		var err error
		cfg, err = config.Load(*configPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}
	if *debounce != 0 {
		cfg.Debounce = *debounce
	}
	if *backend != "" {
		cfg.Backend = *backend
	}
	if *sqlitePath != "" {
		cfg.SQLitePath = *sqlitePath
	}
	if *pebblePath != "" {
		cfg.PebblePath = *pebblePath
	}
	if *redisAddr != "" {
		cfg.RedisAddr = *redisAddr
	}
	if *metricsAddr != "" {
		cfg.MetricsAddr = *metricsAddr
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}

	logger := logrus.New()
	if lvl, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logger.SetLevel(lvl)
	}
	log := logger.WithField("component", "changeq-demo")

	// Queue store construction is all-or-nothing: a backend that cannot
	// open or create its tables refuses to activate the notifier.
	store, err := persistence.Build(context.Background(), cfg.Backend, persistence.Options{
		SQLitePath: cfg.SQLitePath,
		PebblePath: cfg.PebblePath,
		RedisAddr:  cfg.RedisAddr,
	}, log.WithField("component", "queue-store"))
	if err != nil {
		log.WithError(err).Fatal("queue store initialization failed")
	}
	defer store.Close()

	// Simulated host library: a physical root, per-user personal roots,
	// and one user who cannot see "restricted" items.
	provider := library.NewMemoryProvider("lib-root")
	restrictedUser := ""
	for i := 1; i <= *users; i++ {
		u := &library.MemUser{
			UserID: fmt.Sprintf("user-%d", i),
			RootID: fmt.Sprintf("user-%d-root", i),
		}
		provider.AddUser(u)
		provider.AddSession(&library.MemSession{
			SessionID: fmt.Sprintf("session-%d", i),
			User:      u.UserID,
		})
		restrictedUser = u.UserID
	}

	notifier, err := core.New(core.Config{
		Provider: provider,
		Store:    store,
		Delay:    cfg.Debounce,
		Logger:   log.WithField("component", "notifier"),
	})
	if err != nil {
		log.WithError(err).Fatal("notifier construction failed")
	}
	notifier.Start()
	defer notifier.Stop()

	if cfg.MetricsAddr != "" {
		ops := api.New(cfg.MetricsAddr, log.WithField("component", "metrics"))
		ops.Start()
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			_ = ops.Shutdown(ctx)
		}()
	}

	stopGen := make(chan struct{})
	go generateChurn(provider, restrictedUser, *burstSize, *burstEvery, stopGen)

	log.WithFields(logrus.Fields{
		"backend":  cfg.Backend,
		"debounce": cfg.Debounce,
		"users":    *users,
	}).Info("demo running; press Ctrl+C to stop")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	close(stopGen)
	log.Info("shutting down; a second signal aborts in-flight flushes")
	go func() {
		<-sigCh
		notifier.Interrupt()
	}()

	notifier.Stop()
	printSummary(store, log)
}

// generateChurn publishes synthetic library mutations: each burst creates a
// folder with a run of items (a few of them virtual or channel-sourced to
// exercise the filter, a few restricted to exercise visibility fan-out),
// then updates and removes a couple of them within the same debounce
// window.
func generateChurn(p *library.MemoryProvider, restrictedUser string, burstSize int, every time.Duration, stop <-chan struct{}) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	burst := 0
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
		}
		burst++
		folder := &library.MemItem{ItemID: fmt.Sprintf("folder-%d", burst)}
		var last *library.MemItem
		for i := 0; i < burstSize; i++ {
			item := &library.MemItem{
				ItemID:     fmt.Sprintf("item-%d-%d", burst, i),
				ParentItem: folder,
			}
			switch i % 7 {
			case 3:
				item.Virtual = true
			case 5:
				item.FromChannel = true
			case 6:
				item.HiddenFrom = []string{restrictedUser}
			}
			p.PublishAdded(item)
			if !item.Virtual && !item.FromChannel {
				last = item
			}
		}
		if last != nil {
			// Same-window update of an added item: suppressed from the
			// updated queue at flush time.
			p.PublishUpdated(last)
			p.PublishRemoved(last)
		}
	}
}

// printSummary reports the per-category backlog for backends that can
// enumerate it.
func printSummary(store persistence.Store, log *logrus.Entry) {
	s, ok := store.(*persistence.SQLiteStore)
	if !ok {
		return
	}
	counts, err := s.PendingCounts(context.Background())
	if err != nil {
		log.WithError(err).Warn("could not read queue summary")
		return
	}
	for cat, n := range counts {
		log.WithFields(logrus.Fields{"category": cat, "pending": n}).Info("queue backlog")
	}
}
