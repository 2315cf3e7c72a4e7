/**
 * Copyright 2025-present Coinbase Global, Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *  http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package config collects the recognized options of spec section 6 into a
// single functional-options Config, the way fixclient builds its FIX
// session settings from a chain of With* calls over a shared struct.
package config

import (
	"time"

	"github.com/dxfeed-samples/mdcore-go/event"
)

// Config is the resolved set of options governing one subscription or
// depth-model instance. The zero value, after applying Defaults(), matches
// spec section 6's stated defaults exactly.
type Config struct {
	AggregationPeriod  time.Duration
	EventsBatchLimit   int
	DepthLimit         int
	BatchProcessing    bool
	SnapshotProcessing bool
	FromTime           int64
	HasFromTime        bool
	Sources            []event.Source
	WildcardEnable     bool
}

// Option mutates a Config under construction.
type Option func(*Config)

// Defaults returns the spec-mandated default configuration:
// aggregationPeriod=0, eventsBatchLimit=0 (disabled), depthLimit=0
// (unbounded), batchProcessing=true, snapshotProcessing=false, fromTime
// unset, sources=all, wildcardEnable=false.
func Defaults() Config {
	return Config{
		BatchProcessing:    true,
		SnapshotProcessing: false,
	}
}

// New builds a Config starting from Defaults() and applying opts in order.
func New(opts ...Option) Config {
	c := Defaults()
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// WithAggregationPeriod sets the notification throttle.
func WithAggregationPeriod(d time.Duration) Option {
	return func(c *Config) { c.AggregationPeriod = d }
}

// WithEventsBatchLimit sets the maximum per-callback batch size; n <= 0
// disables splitting.
func WithEventsBatchLimit(n int) Option {
	return func(c *Config) { c.EventsBatchLimit = n }
}

// WithDepthLimit sets the visible-window bound for a MarketDepthModel; n
// <= 0 means unbounded.
func WithDepthLimit(n int) Option {
	return func(c *Config) { c.DepthLimit = n }
}

// WithBatchProcessing toggles whether a completed transaction is delivered
// as one batch callback or one callback per event.
func WithBatchProcessing(enabled bool) Option {
	return func(c *Config) { c.BatchProcessing = enabled }
}

// WithSnapshotProcessing toggles whether a completed snapshot transaction
// is delivered as one batch callback regardless of BatchProcessing.
func WithSnapshotProcessing(enabled bool) Option {
	return func(c *Config) { c.SnapshotProcessing = enabled }
}

// WithFromTime sets the time-series replay cursor (milliseconds since
// epoch). Only meaningful for time-series event types.
func WithFromTime(t int64) Option {
	return func(c *Config) {
		c.FromTime = t
		c.HasFromTime = true
	}
}

// WithSources restricts processing to the given sources; an empty set
// (the default) means all sources are accepted.
func WithSources(sources ...event.Source) Option {
	return func(c *Config) { c.Sources = sources }
}

// WithWildcardEnable permits subscribing to event.Wildcard in addition to
// concrete symbols.
func WithWildcardEnable(enabled bool) Option {
	return func(c *Config) { c.WildcardEnable = enabled }
}
