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

package txmodel

import (
	"sync"

	"github.com/dxfeed-samples/mdcore-go/errs"
	"github.com/dxfeed-samples/mdcore-go/event"
	"github.com/dxfeed-samples/mdcore-go/feed"
)

// TimeSeriesTxModel is IndexedTxModel's sibling for time-series event
// families: the same per-source transaction state machine, plus a fromTime
// cursor. Changing fromTime re-subscribes the underlying symbol from the
// new cursor, per spec section 4.2's "time-series flavor".
type TimeSeriesTxModel[E event.TimeSeriesEvent] struct {
	inner *IndexedTxModel[E]

	mu       sync.Mutex
	gw       feed.FeedGateway
	baseSym  event.Symbol
	fromTime int64
}

// TimeSeriesBuilder builds a TimeSeriesTxModel.
type TimeSeriesBuilder[E event.TimeSeriesEvent] struct {
	inner    *Builder[E]
	fromTime int64
}

// NewTimeSeriesBuilder starts a builder for transactions of eventType.
func NewTimeSeriesBuilder[E event.TimeSeriesEvent](eventType event.Type) *TimeSeriesBuilder[E] {
	return &TimeSeriesBuilder[E]{inner: NewBuilder[E](eventType)}
}

func (b *TimeSeriesBuilder[E]) WithSymbol(symbol event.Symbol) *TimeSeriesBuilder[E] {
	b.inner.WithSymbol(symbol)
	return b
}

func (b *TimeSeriesBuilder[E]) WithListener(l Listener[E]) *TimeSeriesBuilder[E] {
	b.inner.WithListener(l)
	return b
}

func (b *TimeSeriesBuilder[E]) WithFromTime(fromTime int64) *TimeSeriesBuilder[E] {
	b.fromTime = fromTime
	return b
}

func (b *TimeSeriesBuilder[E]) WithBatchProcessing(v bool) *TimeSeriesBuilder[E] {
	b.inner.WithBatchProcessing(v)
	return b
}

func (b *TimeSeriesBuilder[E]) WithSnapshotProcessing(v bool) *TimeSeriesBuilder[E] {
	b.inner.WithSnapshotProcessing(v)
	return b
}

// Build constructs the TimeSeriesTxModel, still detached from any feed.
func (b *TimeSeriesBuilder[E]) Build() (*TimeSeriesTxModel[E], error) {
	if b.inner.symbol == nil {
		return nil, errs.InvalidArgument("txmodel.TimeSeriesBuild", "symbol must be set")
	}
	baseSym := b.inner.symbol
	b.inner.symbol = event.TimeSeriesSubscriptionSymbol{Inner: baseSym, FromTime: b.fromTime}

	inner, err := b.inner.Build()
	if err != nil {
		return nil, err
	}
	return &TimeSeriesTxModel[E]{inner: inner, baseSym: baseSym, fromTime: b.fromTime}, nil
}

// Attach binds this model to a feed gateway.
func (m *TimeSeriesTxModel[E]) Attach(gw feed.FeedGateway) error {
	m.mu.Lock()
	m.gw = gw
	m.mu.Unlock()
	return m.inner.Attach(gw)
}

// Detach unsubscribes from the current feed, if any.
func (m *TimeSeriesTxModel[E]) Detach() error {
	return m.inner.Detach()
}

// Close releases resources and makes the model permanently unusable.
func (m *TimeSeriesTxModel[E]) Close() error {
	return m.inner.Close()
}

// FromTime returns the current replay cursor.
func (m *TimeSeriesTxModel[E]) FromTime() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.fromTime
}

// SetFromTime changes the replay cursor, re-subscribing all symbols from
// the new cursor if currently attached (spec section 4.2).
func (m *TimeSeriesTxModel[E]) SetFromTime(fromTime int64) error {
	m.mu.Lock()
	if fromTime == m.fromTime {
		m.mu.Unlock()
		return nil
	}
	m.fromTime = fromTime
	gw := m.gw
	wasAttached := m.inner.attached
	m.mu.Unlock()

	m.inner.mu.Lock()
	m.inner.symbol = event.TimeSeriesSubscriptionSymbol{Inner: m.baseSym, FromTime: fromTime}
	m.inner.mu.Unlock()

	if wasAttached && gw != nil {
		if err := m.inner.Detach(); err != nil {
			return err
		}
		return m.inner.Attach(gw)
	}
	return nil
}
