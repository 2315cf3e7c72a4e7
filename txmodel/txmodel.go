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

// Package txmodel implements the transactional event model of spec section
// 4.3: a per-source transaction/snapshot state machine sitting between a
// Subscription's raw event stream and a higher-level consumer (the depth
// model, or an application's own listener) that wants to see completed
// transactions rather than individual flagged events.
package txmodel

import (
	"log"
	"sync"

	"github.com/dxfeed-samples/mdcore-go/errs"
	"github.com/dxfeed-samples/mdcore-go/event"
	"github.com/dxfeed-samples/mdcore-go/feed"
)

// Listener receives a completed transaction for one source: events in
// arrival order, and whether this transaction was a snapshot.
type Listener[E event.IndexedEvent] func(source event.Source, events []E, isSnapshot bool)

// sourceState is the per-source buffer set described in spec section 4.3.
type sourceState[E event.IndexedEvent] struct {
	buffer         []E
	inSnapshot     bool
	snapshotBuffer []E
}

// IndexedTxModel is the builder-constructed transaction state machine for
// a single (event type, symbol) pair, partitioned internally by source.
type IndexedTxModel[E event.IndexedEvent] struct {
	eventType          event.Type
	symbol             event.Symbol
	listener           Listener[E]
	sources            map[event.Source]bool // empty means "all sources"
	batchProcessing    bool
	snapshotProcessing bool

	mu     sync.Mutex
	state  map[event.Source]*sourceState[E]
	closed bool

	gw       feed.FeedGateway
	sub      feed.Subscription
	attached bool
}

// Builder constructs an IndexedTxModel. build fails with InvalidArgument if
// the listener or symbol has not been set, per spec section 4.3.
type Builder[E event.IndexedEvent] struct {
	eventType          event.Type
	symbol             event.Symbol
	listener           Listener[E]
	sources            []event.Source
	batchProcessing    bool
	snapshotProcessing bool
}

// NewBuilder starts a builder for transactions of eventType.
func NewBuilder[E event.IndexedEvent](eventType event.Type) *Builder[E] {
	return &Builder[E]{eventType: eventType}
}

func (b *Builder[E]) WithSymbol(symbol event.Symbol) *Builder[E] {
	b.symbol = symbol
	return b
}

func (b *Builder[E]) WithListener(l Listener[E]) *Builder[E] {
	b.listener = l
	return b
}

func (b *Builder[E]) WithSources(sources ...event.Source) *Builder[E] {
	b.sources = sources
	return b
}

func (b *Builder[E]) WithBatchProcessing(v bool) *Builder[E] {
	b.batchProcessing = v
	return b
}

func (b *Builder[E]) WithSnapshotProcessing(v bool) *Builder[E] {
	b.snapshotProcessing = v
	return b
}

// Build constructs the IndexedTxModel, still detached from any feed.
func (b *Builder[E]) Build() (*IndexedTxModel[E], error) {
	if b.listener == nil {
		return nil, errs.InvalidArgument("txmodel.Build", "listener must be set")
	}
	if b.symbol == nil {
		return nil, errs.InvalidArgument("txmodel.Build", "symbol must be set")
	}

	sources := make(map[event.Source]bool, len(b.sources))
	for _, s := range b.sources {
		sources[s] = true
	}

	return &IndexedTxModel[E]{
		eventType:          b.eventType,
		symbol:             b.symbol,
		listener:           b.listener,
		sources:            sources,
		batchProcessing:    b.batchProcessing,
		snapshotProcessing: b.snapshotProcessing,
		state:              make(map[event.Source]*sourceState[E]),
	}, nil
}

// Attach binds this model to a feed gateway, subscribing to its symbol and
// event type and routing inbound batches through ingest.
func (m *IndexedTxModel[E]) Attach(gw feed.FeedGateway) error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return errs.IllegalState("IndexedTxModel.Attach", "model is closed")
	}
	if m.attached {
		m.mu.Unlock()
		return nil
	}
	m.mu.Unlock()

	sub, err := gw.Subscribe(m.eventType, m.symbol, func(batch []feed.InboundEvent) {
		m.ingest(batch)
	})
	if err != nil {
		return err
	}

	m.mu.Lock()
	m.gw = gw
	m.sub = sub
	m.attached = true
	m.mu.Unlock()
	return nil
}

// Detach unsubscribes from the current feed, if any.
func (m *IndexedTxModel[E]) Detach() error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return errs.IllegalState("IndexedTxModel.Detach", "model is closed")
	}
	sub := m.sub
	m.attached = false
	m.sub = nil
	m.mu.Unlock()

	if sub != nil {
		return sub.Close()
	}
	return nil
}

// Close releases pending buffers without emission, detaches, and makes the
// model permanently unusable. Idempotent.
func (m *IndexedTxModel[E]) Close() error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil
	}
	m.closed = true
	sub := m.sub
	m.sub = nil
	m.attached = false
	m.state = make(map[event.Source]*sourceState[E])
	m.mu.Unlock()

	if sub != nil {
		return sub.Close()
	}
	return nil
}

func (m *IndexedTxModel[E]) allowsSource(src event.Source) bool {
	if len(m.sources) == 0 {
		return true
	}
	return m.sources[src]
}

// ingest walks a raw inbound batch, converting and feeding each event
// through the transaction state machine in order.
func (m *IndexedTxModel[E]) ingest(batch []feed.InboundEvent) {
	for _, raw := range batch {
		e, ok := raw.Event.(E)
		if !ok {
			continue
		}
		m.processEvent(e)
	}
}

// processEvent implements the per-event transition of spec section 4.3.
func (m *IndexedTxModel[E]) processEvent(e E) {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}

	src := e.EventSource()
	if !m.allowsSource(src) {
		m.mu.Unlock()
		return
	}

	st, ok := m.state[src]
	if !ok {
		st = &sourceState[E]{}
		m.state[src] = st
	}

	f := e.EventFlags()
	var (
		toEmitSnapshot []E
		toEmitBatch    []E
		emitSnapshot   bool
		emitBatch      bool
	)

	switch {
	case !st.inSnapshot && f.SnapshotBegin():
		st.buffer = nil
		if f.SnapshotEnd() {
			// A single event carrying both SNAPSHOT_BEGIN and SNAPSHOT_END
			// is a complete snapshot on its own.
			toEmitSnapshot = []E{e}
			emitSnapshot = true
		} else {
			st.inSnapshot = true
			st.snapshotBuffer = []E{e}
		}

	case st.inSnapshot:
		st.snapshotBuffer = append(st.snapshotBuffer, e)
		if f.SnapshotEnd() || !f.TxPending() {
			toEmitSnapshot = st.snapshotBuffer
			emitSnapshot = true
			st.snapshotBuffer = nil
			st.inSnapshot = false
		}

	default:
		st.buffer = append(st.buffer, e)
		if !f.TxPending() {
			toEmitBatch = st.buffer
			emitBatch = true
			st.buffer = nil
		}
	}

	listener := m.listener
	batching := m.batchProcessing
	snapshotting := m.snapshotProcessing
	m.mu.Unlock()

	switch {
	case emitSnapshot:
		m.emit(listener, src, toEmitSnapshot, true, snapshotting)
	case emitBatch:
		m.emit(listener, src, toEmitBatch, false, batching)
	}
}

// emit delivers a completed transaction, catching and logging listener
// panics so one faulty listener never breaks delivery for others (spec
// section 4.2's failure semantics, applied identically here).
func (m *IndexedTxModel[E]) emit(listener Listener[E], src event.Source, events []E, isSnapshot, asBatch bool) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("txmodel: listener panicked: %v", r)
		}
	}()

	if asBatch {
		listener(src, events, isSnapshot)
		return
	}
	for _, e := range events {
		listener(src, []E{e}, isSnapshot)
	}
}
