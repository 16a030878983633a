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
	"context"
	"errors"
	"sync"
	"time"

	"github.com/juju/clock"
	"github.com/sirupsen/logrus"

	"changeq"
	"changeq/internal/notifier/library"
)

// FlushFunc consumes a drained snapshot. It runs outside the accumulator
// lock and may perform I/O; the context is cancelled by Interrupt.
type FlushFunc func(ctx context.Context, snap changeq.Snapshot[library.Item])

// AccumulatorConfig defines the operation of an Accumulator.
type AccumulatorConfig struct {
	Clock  clock.Clock
	Delay  time.Duration
	Flush  FlushFunc
	Logger *logrus.Entry
}

// Validate returns an error if the config cannot drive an Accumulator.
func (c AccumulatorConfig) Validate() error {
	if c.Clock == nil {
		return errors.New("nil Clock not valid")
	}
	if c.Delay <= 0 {
		return errors.New("non-positive Delay not valid")
	}
	if c.Flush == nil {
		return errors.New("nil Flush not valid")
	}
	if c.Logger == nil {
		return errors.New("nil Logger not valid")
	}
	return nil
}

// Accumulator buffers raw library changes and flushes them after a quiet
// period: a pure trailing-edge debounce. Every Record re-arms the timer,
// so a burst of events (a bulk library scan, say) collapses into one
// flush that happens Delay after the last event in the burst, never
// earlier. Under continuous churn the flush is deferred indefinitely; that
// is the intended tradeoff, not a bug.
//
// A single mutex serializes every mutation of the pending batch and the
// snapshot/clear transition. The lock is held only for in-memory set and
// timer manipulation, never across I/O: the flush callback runs after the
// lock is released, on the timer goroutine, and is tracked so Stop can
// wait it out.
type Accumulator struct {
	cfg AccumulatorConfig

	mu       sync.Mutex
	pending  *changeq.Batch[library.Item]
	timer    clock.Timer
	deadline time.Time
	stopped  bool

	flushes   sync.WaitGroup
	flushCtx  context.Context
	interrupt context.CancelFunc
}

// NewAccumulator creates an Accumulator from config.
func NewAccumulator(cfg AccumulatorConfig) (*Accumulator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Accumulator{
		cfg:       cfg,
		pending:   changeq.NewBatch[library.Item](),
		flushCtx:  ctx,
		interrupt: cancel,
	}, nil
}

// Record adds item to the pending set for cat and re-arms the debounce
// timer. Safe for concurrent use from any number of host notification
// threads. Any Record that returns before a flush acquires the lock is
// included in that flush's snapshot; a Record that starts after the
// snapshot is taken opens the next debounce cycle.
func (a *Accumulator) Record(cat changeq.Category, item library.Item) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.stopped {
		return
	}
	if a.pending.Record(cat, item) {
		eventsRecordedTotal.WithLabelValues(string(cat)).Inc()
	}
	a.deadline = a.cfg.Clock.Now().Add(a.cfg.Delay)
	if a.timer == nil {
		a.timer = a.cfg.Clock.AfterFunc(a.cfg.Delay, a.onDebounce)
	} else {
		a.timer.Reset(a.cfg.Delay)
	}
}

// onDebounce runs on the timer goroutine when the debounce delay elapses.
func (a *Accumulator) onDebounce() {
	a.mu.Lock()
	if a.stopped {
		a.mu.Unlock()
		return
	}
	if remaining := a.deadline.Sub(a.cfg.Clock.Now()); remaining > 0 {
		// A Record re-armed the timer while this fire was waiting on
		// the lock. Honor the full quiet period.
		if a.timer != nil {
			a.timer.Reset(remaining)
		}
		a.mu.Unlock()
		return
	}
	snap := a.pending.Drain()
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
	if !snap.Empty() {
		a.flushes.Add(1)
	}
	a.mu.Unlock()

	if snap.Empty() {
		return
	}
	defer a.flushes.Done()
	flushesTotal.Inc()
	flushSize.Observe(float64(snap.Size()))
	a.cfg.Logger.WithField("entities", snap.Size()).Debug("debounce expired, flushing batch")
	a.cfg.Flush(a.flushCtx, snap)
}

// Pending returns the number of entries currently buffered. Intended for
// tests and the demo's shutdown summary.
func (a *Accumulator) Pending() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.pending.Len()
}

// Interrupt cancels the context passed to in-flight (and any future)
// flushes. Stop alone lets flushes run to completion; Interrupt bounds
// shutdown latency when the store is slow or unreachable.
func (a *Accumulator) Interrupt() {
	a.interrupt()
}

// Stop disarms the timer without forcing a final flush; a batch still
// pending at shutdown is dropped with a warning. Stop waits for any flush
// already in flight to finish.
func (a *Accumulator) Stop() {
	a.mu.Lock()
	if a.stopped {
		a.mu.Unlock()
		return
	}
	a.stopped = true
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
	dropped := a.pending.Len()
	a.mu.Unlock()

	if dropped > 0 {
		a.cfg.Logger.WithField("entities", dropped).Warn("discarding unflushed batch at shutdown")
	}
	a.flushes.Wait()
}
