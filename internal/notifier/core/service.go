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

package core

import (
	"errors"
	"time"

	"github.com/juju/clock"
	"github.com/sirupsen/logrus"

	"changeq/internal/notifier/library"
	"changeq/internal/notifier/persistence"
)

// DefaultDelay is the debounce quiet period applied when the config leaves
// Delay zero.
const DefaultDelay = 5 * time.Second

// Config assembles the collaborators of a Notifier.
type Config struct {
	Provider library.Provider
	Store    persistence.Store

	// Clock drives the debounce timer; nil selects the wall clock.
	Clock clock.Clock

	// Delay is the debounce quiet period; zero selects DefaultDelay.
	Delay time.Duration

	Logger *logrus.Entry
}

// Validate returns an error if config cannot drive a Notifier.
func (c Config) Validate() error {
	if c.Provider == nil {
		return errors.New("nil Provider not valid")
	}
	if c.Store == nil {
		return errors.New("nil Store not valid")
	}
	if c.Delay < 0 {
		return errors.New("negative Delay not valid")
	}
	return nil
}

// Notifier owns the full pipeline: listener, accumulator, dispatcher,
// queue store. The store itself is owned by the caller (it may outlive the
// notifier, e.g. for the delivery consumer) and is not closed on Stop.
type Notifier struct {
	listener *Listener
	acc      *Accumulator
	log      *logrus.Entry
}

// New builds a Notifier from config. It does not subscribe to anything
// until Start.
func New(cfg Config) (*Notifier, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Clock == nil {
		cfg.Clock = clock.WallClock
	}
	if cfg.Delay == 0 {
		cfg.Delay = DefaultDelay
	}
	if cfg.Logger == nil {
		cfg.Logger = logrus.NewEntry(logrus.StandardLogger())
	}

	trans := NewTranslator(cfg.Provider.RootID())
	disp := NewDispatcher(cfg.Provider, cfg.Store, trans, cfg.Logger)
	acc, err := NewAccumulator(AccumulatorConfig{
		Clock:  cfg.Clock,
		Delay:  cfg.Delay,
		Flush:  disp.Flush,
		Logger: cfg.Logger,
	})
	if err != nil {
		return nil, err
	}
	return &Notifier{
		listener: NewListener(cfg.Provider, acc, cfg.Logger),
		acc:      acc,
		log:      cfg.Logger,
	}, nil
}

// Start subscribes to the host's mutation stream.
func (n *Notifier) Start() {
	n.listener.Start()
	n.log.Info("library change notifier started")
}

// Stop unsubscribes from the mutation stream, disarms the debounce timer
// without a final flush, and waits for any in-flight flush to complete.
func (n *Notifier) Stop() {
	n.listener.Stop()
	n.acc.Stop()
	n.log.Info("library change notifier stopped")
}

// Interrupt cancels in-flight flush I/O. Use before Stop when shutdown
// latency matters more than finishing the current cycle.
func (n *Notifier) Interrupt() {
	n.acc.Interrupt()
}

// Pending reports how many raw changes are buffered awaiting the next
// debounce expiry.
func (n *Notifier) Pending() int {
	return n.acc.Pending()
}
