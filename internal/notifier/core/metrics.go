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

// Package core implements the change-coalescing pipeline: the debounced
// accumulator, the per-user fan-out dispatcher, the visibility translator,
// and the listener feeding raw host events in. This file holds the
// Prometheus collectors; label cardinality is bounded (category only).
package core

import "github.com/prometheus/client_golang/prometheus"

var (
	eventsRecordedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "changeq_events_recorded_total",
		Help: "Raw library change events accepted into the pending batch, by category",
	}, []string{"category"})
	eventsFilteredTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "changeq_events_filtered_total",
		Help: "Raw library change events rejected by the virtual/channel filter",
	})
	flushesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "changeq_flushes_total",
		Help: "Debounce expirations that produced a non-empty snapshot",
	})
	flushSize = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "changeq_flush_snapshot_size",
		Help:    "Distribution of entities per flushed snapshot (all categories)",
		Buckets: []float64{1, 2, 4, 8, 16, 32, 64, 128, 256, 512, 1024},
	})
	enqueuedRowsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "changeq_enqueued_rows_total",
		Help: "Newly persisted queue records (duplicates excluded), by category",
	}, []string{"category"})
	enqueueErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "changeq_enqueue_errors_total",
		Help: "Failed per-user per-category enqueue calls, by category",
	}, []string{"category"})
	userEnumErrorsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "changeq_user_enumeration_errors_total",
		Help: "Flush cycles abandoned because the host user enumeration failed",
	})
)

func init() {
	// Register eagerly. If no Prometheus endpoint is exposed, the
	// registration is harmless.
	prometheus.MustRegister(
		eventsRecordedTotal,
		eventsFilteredTotal,
		flushesTotal,
		flushSize,
		enqueuedRowsTotal,
		enqueueErrorsTotal,
		userEnumErrorsTotal,
	)
}
