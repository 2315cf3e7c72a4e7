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

package depth

import (
	"sync"
	"time"

	"github.com/dxfeed-samples/mdcore-go/errs"
	"github.com/dxfeed-samples/mdcore-go/event"
	"github.com/dxfeed-samples/mdcore-go/feed"
	"github.com/dxfeed-samples/mdcore-go/timer"
	"github.com/dxfeed-samples/mdcore-go/txmodel"
)

// Listener receives the current truncated snapshot of both sides whenever
// the book changes (subject to the aggregation-period throttle). The
// slices are value copies; the model never mutates them after delivery.
type Listener[O OrderLike] func(buy, sell []O)

// MarketDepthModel tracks two sorted sides of an order-family book for one
// symbol, fed by an IndexedTxModel, and notifies a Listener either
// immediately or on an aggregation-period throttle. See spec section 4.4.
type MarketDepthModel[O OrderLike] struct {
	mu                   sync.Mutex
	ordersByIndex        map[int64]O
	buyOrders            *sortedOrderSet[O]
	sellOrders           *sortedOrderSet[O]
	tx                   *txmodel.IndexedTxModel[O]
	listener             Listener[O]
	depthLimit           int
	aggregationPeriodMs  int64
	taskScheduled        bool
	taskTimer            *timer.Timer
}

// Builder constructs a MarketDepthModel via the fluent API ported from
// MarketDepthModel.hpp's Builder struct.
type Builder[O OrderLike] struct {
	eventType  event.Type
	symbol     event.Symbol
	sources    []event.Source
	listener   Listener[O]
	depthLimit int
	aggMs      int64
}

// NewBuilder starts a builder for a MarketDepthModel over order-family
// event type eventType (e.g. event.Order, event.SpreadOrd, referring to the
// package-level Type tags, not the struct types).
func NewBuilder[O OrderLike](eventType event.Type) *Builder[O] {
	return &Builder[O]{eventType: eventType}
}

func (b *Builder[O]) WithSymbol(symbol event.Symbol) *Builder[O] {
	b.symbol = symbol
	return b
}

func (b *Builder[O]) WithSources(sources ...event.Source) *Builder[O] {
	b.sources = sources
	return b
}

func (b *Builder[O]) WithListener(l Listener[O]) *Builder[O] {
	b.listener = l
	return b
}

func (b *Builder[O]) WithDepthLimit(depthLimit int) *Builder[O] {
	b.depthLimit = depthLimit
	return b
}

func (b *Builder[O]) WithAggregationPeriod(d time.Duration) *Builder[O] {
	b.aggMs = d.Milliseconds()
	return b
}

// Build constructs the MarketDepthModel, wiring its internal IndexedTxModel
// so every completed transaction flows into the book via eventsReceived.
func (b *Builder[O]) Build() (*MarketDepthModel[O], error) {
	if b.listener == nil {
		return nil, errs.InvalidArgument("depth.Build", "listener must be set")
	}
	if b.symbol == nil {
		return nil, errs.InvalidArgument("depth.Build", "symbol must be set")
	}

	m := &MarketDepthModel[O]{
		ordersByIndex:       make(map[int64]O),
		buyOrders:           newSortedOrderSet[O](buyLess[O]),
		sellOrders:          newSortedOrderSet[O](sellLess[O]),
		listener:            b.listener,
		depthLimit:          b.depthLimit,
		aggregationPeriodMs: b.aggMs,
	}
	m.buyOrders.SetDepthLimit(b.depthLimit)
	m.sellOrders.SetDepthLimit(b.depthLimit)

	tx, err := txmodel.NewBuilder[O](b.eventType).
		WithSymbol(b.symbol).
		WithSources(b.sources...).
		WithBatchProcessing(true).
		WithSnapshotProcessing(true).
		WithListener(m.eventsReceived).
		Build()
	if err != nil {
		return nil, err
	}
	m.tx = tx

	return m, nil
}

// Attach binds the model's internal IndexedTxModel to a feed gateway.
func (m *MarketDepthModel[O]) Attach(gw feed.FeedGateway) error {
	return m.tx.Attach(gw)
}

// DepthLimit returns the current visible-window bound (<=0 means
// unbounded).
func (m *MarketDepthModel[O]) DepthLimit() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.depthLimit
}

// SetDepthLimit updates the visible-window bound on both sides, cancels
// any pending aggregation task, and notifies listeners synchronously with
// the new bound already in effect (ported verbatim from
// MarketDepthModel.hpp's setDepthLimit).
func (m *MarketDepthModel[O]) SetDepthLimit(depthLimit int) {
	m.mu.Lock()
	if depthLimit == m.depthLimit {
		m.mu.Unlock()
		return
	}
	m.depthLimit = depthLimit
	m.buyOrders.SetDepthLimit(depthLimit)
	m.sellOrders.SetDepthLimit(depthLimit)
	m.tryCancelTaskLocked()
	m.mu.Unlock()

	m.notifyListeners()
}

// AggregationPeriod returns the current notification throttle in
// milliseconds.
func (m *MarketDepthModel[O]) AggregationPeriod() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.aggregationPeriodMs
}

// SetAggregationPeriod updates the throttle. If a task was pending, it is
// cancelled and, if the new period is non-zero, rescheduled — ported from
// MarketDepthModel.hpp's rescheduleTaskIfNeeded.
func (m *MarketDepthModel[O]) SetAggregationPeriod(d time.Duration) {
	ms := d.Milliseconds()

	m.mu.Lock()
	defer m.mu.Unlock()
	if ms == m.aggregationPeriodMs {
		return
	}
	m.aggregationPeriodMs = ms
	if m.tryCancelTaskLocked() && ms != 0 {
		m.scheduleTaskIfNeededLocked(time.Duration(ms) * time.Millisecond)
	}
}

// Close cancels any pending timer and closes the underlying IndexedTxModel,
// so no further transactions reach the book. The listener is not dropped: a
// later SetDepthLimit still rebuilds the book and notifies it.
func (m *MarketDepthModel[O]) Close() error {
	m.mu.Lock()
	m.tryCancelTaskLocked()
	m.mu.Unlock()
	return m.tx.Close()
}

// eventsReceived is the IndexedTxModel listener callback: it applies a
// completed transaction to the book and decides whether/when to notify.
func (m *MarketDepthModel[O]) eventsReceived(source event.Source, events []O, isSnapshot bool) {
	m.mu.Lock()
	changed := m.updateLocked(source, events, isSnapshot)
	if !changed {
		m.mu.Unlock()
		return
	}

	if isSnapshot || m.aggregationPeriodMs == 0 {
		m.tryCancelTaskLocked()
		m.mu.Unlock()
		m.notifyListeners()
		return
	}

	m.scheduleTaskIfNeededLocked(time.Duration(m.aggregationPeriodMs) * time.Millisecond)
	m.mu.Unlock()
}

// updateLocked applies one completed transaction to the book. Caller must
// hold m.mu.
func (m *MarketDepthModel[O]) updateLocked(source event.Source, events []O, isSnapshot bool) bool {
	if isSnapshot {
		m.clearBySourceLocked(source)
	}

	for _, order := range events {
		if removed, ok := m.ordersByIndex[order.Index()]; ok {
			delete(m.ordersByIndex, order.Index())
			if removed.GetSide() == event.SideBuy {
				m.buyOrders.Erase(removed)
			} else {
				m.sellOrders.Erase(removed)
			}
		}

		if shallAdd(order) {
			m.ordersByIndex[order.Index()] = order
			if order.GetSide() == event.SideBuy {
				m.buyOrders.Insert(order)
			} else {
				m.sellOrders.Insert(order)
			}
		}
	}

	return m.buyOrders.IsChanged() || m.sellOrders.IsChanged()
}

// clearBySourceLocked discards all held orders from source, for the start
// of a fresh snapshot. Caller must hold m.mu.
func (m *MarketDepthModel[O]) clearBySourceLocked(source event.Source) {
	for idx, order := range m.ordersByIndex {
		if order.EventSource() == source {
			delete(m.ordersByIndex, idx)
		}
	}
	m.buyOrders.ClearBySource(source)
	m.sellOrders.ClearBySource(source)
}

func (m *MarketDepthModel[O]) notifyListeners() {
	buy := m.buyOrders.ToSlice()
	sell := m.sellOrders.ToSlice()

	m.mu.Lock()
	listener := m.listener
	m.taskScheduled = false
	m.mu.Unlock()

	listener(buy, sell)
}

// scheduleTaskIfNeededLocked starts the aggregation timer if one is not
// already pending. Caller must hold m.mu.
func (m *MarketDepthModel[O]) scheduleTaskIfNeededLocked(delay time.Duration) {
	if m.taskScheduled {
		return
	}
	m.taskScheduled = true
	m.taskTimer = timer.RunOnce(m.notifyListeners, delay)
}

// tryCancelTaskLocked stops a pending timer if one exists, reporting
// whether it actually cancelled one. Caller must hold m.mu.
func (m *MarketDepthModel[O]) tryCancelTaskLocked() bool {
	if m.taskScheduled && m.taskTimer != nil && m.taskTimer.IsRunning() {
		m.taskTimer.Stop()
		m.taskTimer = nil
		m.taskScheduled = false
		return true
	}
	return false
}
