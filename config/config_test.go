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

package config

import (
	"testing"
	"time"

	"github.com/dxfeed-samples/mdcore-go/event"
)

func TestDefaultsMatchSpecDefaults(t *testing.T) {
	c := Defaults()
	if c.AggregationPeriod != 0 {
		t.Errorf("AggregationPeriod = %v, want 0", c.AggregationPeriod)
	}
	if c.EventsBatchLimit != 0 {
		t.Errorf("EventsBatchLimit = %d, want 0", c.EventsBatchLimit)
	}
	if c.DepthLimit != 0 {
		t.Errorf("DepthLimit = %d, want 0", c.DepthLimit)
	}
	if !c.BatchProcessing {
		t.Error("BatchProcessing = false, want true")
	}
	if c.SnapshotProcessing {
		t.Error("SnapshotProcessing = true, want false")
	}
	if c.HasFromTime {
		t.Error("HasFromTime = true, want false (unset by default)")
	}
	if len(c.Sources) != 0 {
		t.Errorf("Sources = %v, want empty (all sources)", c.Sources)
	}
	if c.WildcardEnable {
		t.Error("WildcardEnable = true, want false")
	}
}

func TestNewAppliesOptionsOverDefaults(t *testing.T) {
	c := New(
		WithAggregationPeriod(250*time.Millisecond),
		WithEventsBatchLimit(100),
		WithDepthLimit(10),
		WithBatchProcessing(false),
		WithSnapshotProcessing(true),
		WithFromTime(1000),
		WithSources(event.OrderSourceNTV),
		WithWildcardEnable(true),
	)

	if c.AggregationPeriod != 250*time.Millisecond {
		t.Errorf("AggregationPeriod = %v, want 250ms", c.AggregationPeriod)
	}
	if c.EventsBatchLimit != 100 {
		t.Errorf("EventsBatchLimit = %d, want 100", c.EventsBatchLimit)
	}
	if c.DepthLimit != 10 {
		t.Errorf("DepthLimit = %d, want 10", c.DepthLimit)
	}
	if c.BatchProcessing {
		t.Error("BatchProcessing = true, want false")
	}
	if !c.SnapshotProcessing {
		t.Error("SnapshotProcessing = false, want true")
	}
	if !c.HasFromTime || c.FromTime != 1000 {
		t.Errorf("FromTime = %d (has=%v), want 1000 (has=true)", c.FromTime, c.HasFromTime)
	}
	if len(c.Sources) != 1 || c.Sources[0] != event.OrderSourceNTV {
		t.Errorf("Sources = %v, want [NTV]", c.Sources)
	}
	if !c.WildcardEnable {
		t.Error("WildcardEnable = false, want true")
	}
}
