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

// Package subscription implements DXFeedSubscription, spec section 4.2:
// the symbol-set/listener-table surface an application uses to receive
// typed event batches from a FeedGateway, with aggregation-period
// throttling and an events-batch-limit split.
package subscription

import (
	"log"
	"sync"
	"time"

	"github.com/dxfeed-samples/mdcore-go/errs"
	"github.com/dxfeed-samples/mdcore-go/event"
	"github.com/dxfeed-samples/mdcore-go/feed"
	"github.com/dxfeed-samples/mdcore-go/timer"
)

// EventListener receives one delivered batch, already split according to
// the subscription's events-batch-limit.
type EventListener func(batch []feed.InboundEvent)

// ChangeListener observes symbol-set and lifecycle changes. Any field may
// be left nil; nil fields are simply not invoked.
type ChangeListener struct {
	OnSymbolsAdded       func(added []event.Symbol)
	OnSymbolsRemoved     func(removed []event.Symbol)
	OnSubscriptionClosed func()
}

// noListenerID is the sentinel id returned when the listener table is full.
const noListenerID = -1

const maxListeners = 1 << 16

// DXFeedSubscription is a symbol set plus listener tables for a fixed set
// of event types. It is safe for concurrent use.
type DXFeedSubscription struct {
	mu sync.Mutex

	eventTypes map[event.Type]bool
	symbols    map[string]event.Symbol // keyed by Symbol.String() of the symbol as added

	eventListeners  map[int]EventListener
	changeListeners map[int]ChangeListener
	nextListenerID  int

	aggregationPeriod time.Duration
	eventsBatchLimit  int

	fromTime    int64
	hasFromTime bool

	gw       feed.FeedGateway
	feedSubs map[string]feed.Subscription // keyed by subKey: (event type name, decorated symbol string)

	pending      []feed.InboundEvent
	pendingTimer *timer.Timer

	closed bool
}

// New creates an unattached subscription for eventTypes. Fails with
// InvalidArgument if eventTypes is empty.
func New(eventTypes ...event.Type) (*DXFeedSubscription, error) {
	if len(eventTypes) == 0 {
		return nil, errs.InvalidArgument("subscription.New", "event type set must not be empty")
	}
	types := make(map[event.Type]bool, len(eventTypes))
	for _, t := range eventTypes {
		types[t] = true
	}
	return &DXFeedSubscription{
		eventTypes:      types,
		symbols:         make(map[string]event.Symbol),
		eventListeners:  make(map[int]EventListener),
		changeListeners: make(map[int]ChangeListener),
		feedSubs:        make(map[string]feed.Subscription),
	}, nil
}

func (s *DXFeedSubscription) checkOpenLocked(op string) error {
	if s.closed {
		return errs.IllegalState(op, "subscription is closed")
	}
	return nil
}

// AddSymbols adds symbols to the subscription's symbol set, subscribing on
// the attached feed (if any) and notifying change listeners with the net
// added set.
func (s *DXFeedSubscription) AddSymbols(symbols ...event.Symbol) error {
	s.mu.Lock()
	if err := s.checkOpenLocked("DXFeedSubscription.AddSymbols"); err != nil {
		s.mu.Unlock()
		return err
	}

	var added []event.Symbol
	for _, sym := range symbols {
		key := sym.String()
		if _, exists := s.symbols[key]; exists {
			continue
		}
		decorated := sym
		if s.hasFromTime {
			decorated = event.TimeSeriesSubscriptionSymbol{Inner: event.UnwrapSymbol(sym), FromTime: s.fromTime}
		}
		s.symbols[key] = decorated
		added = append(added, sym)
	}
	gw := s.gw
	decoratedAdded := make([]event.Symbol, 0, len(added))
	for _, sym := range added {
		decoratedAdded = append(decoratedAdded, s.symbols[sym.String()])
	}
	s.mu.Unlock()

	if gw != nil {
		for _, sym := range decoratedAdded {
			s.subscribeOne(gw, sym)
		}
	}

	if len(added) > 0 {
		s.notifyAdded(added)
	}
	return nil
}

// RemoveSymbols removes symbols from the set, detaching from the feed and
// notifying change listeners with the net removed set.
func (s *DXFeedSubscription) RemoveSymbols(symbols ...event.Symbol) error {
	s.mu.Lock()
	if err := s.checkOpenLocked("DXFeedSubscription.RemoveSymbols"); err != nil {
		s.mu.Unlock()
		return err
	}

	var removed []event.Symbol
	var decoratedRemoved []event.Symbol
	for _, sym := range symbols {
		key := sym.String()
		decorated, exists := s.symbols[key]
		if !exists {
			continue
		}
		delete(s.symbols, key)
		removed = append(removed, sym)
		decoratedRemoved = append(decoratedRemoved, decorated)
	}
	s.mu.Unlock()

	for _, sym := range decoratedRemoved {
		s.unsubscribeOne(sym)
	}

	if len(removed) > 0 {
		s.notifyRemoved(removed)
	}
	return nil
}

// SetSymbols replaces the entire symbol set, reporting the net added and
// removed sets to change listeners.
func (s *DXFeedSubscription) SetSymbols(symbols ...event.Symbol) error {
	s.mu.Lock()
	if err := s.checkOpenLocked("DXFeedSubscription.SetSymbols"); err != nil {
		s.mu.Unlock()
		return err
	}
	current := s.GetSymbolsLocked()
	s.mu.Unlock()

	wanted := make(map[string]event.Symbol, len(symbols))
	for _, sym := range symbols {
		wanted[sym.String()] = sym
	}

	var toRemove []event.Symbol
	for _, sym := range current {
		if _, ok := wanted[sym.String()]; !ok {
			toRemove = append(toRemove, sym)
		}
	}
	var toAdd []event.Symbol
	for key, sym := range wanted {
		found := false
		for _, c := range current {
			if c.String() == key {
				found = true
				break
			}
		}
		if !found {
			toAdd = append(toAdd, sym)
		}
	}

	if len(toRemove) > 0 {
		if err := s.RemoveSymbols(toRemove...); err != nil {
			return err
		}
	}
	if len(toAdd) > 0 {
		if err := s.AddSymbols(toAdd...); err != nil {
			return err
		}
	}
	return nil
}

// Clear removes every symbol.
func (s *DXFeedSubscription) Clear() error {
	return s.SetSymbols()
}

// GetSymbolsLocked returns the unwrapped symbol set. Caller must hold s.mu.
func (s *DXFeedSubscription) GetSymbolsLocked() []event.Symbol {
	out := make([]event.Symbol, 0, len(s.symbols))
	for _, sym := range s.symbols {
		out = append(out, event.UnwrapSymbol(sym))
	}
	return out
}

// GetSymbols returns the current unwrapped symbol set.
func (s *DXFeedSubscription) GetSymbols() []event.Symbol {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.GetSymbolsLocked()
}

// GetDecoratedSymbols returns the current symbol set in its full
// subscription-time form (with any from-time/source wrapper intact).
func (s *DXFeedSubscription) GetDecoratedSymbols() []event.Symbol {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]event.Symbol, 0, len(s.symbols))
	for _, sym := range s.symbols {
		out = append(out, sym)
	}
	return out
}

// AddEventListener registers an event listener, returning a monotonic id.
func (s *DXFeedSubscription) AddEventListener(l EventListener) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.eventListeners) >= maxListeners {
		return noListenerID
	}
	id := s.nextListenerID
	s.nextListenerID++
	s.eventListeners[id] = l
	return id
}

// RemoveEventListener unregisters an event listener by id.
func (s *DXFeedSubscription) RemoveEventListener(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.eventListeners, id)
}

// AddChangeListener registers a change listener, returning a monotonic id,
// or noListenerID if the listener table is full.
func (s *DXFeedSubscription) AddChangeListener(l ChangeListener) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.changeListeners) >= maxListeners {
		return noListenerID
	}
	id := s.nextListenerID
	s.nextListenerID++
	s.changeListeners[id] = l
	return id
}

// RemoveChangeListener unregisters a change listener by id.
func (s *DXFeedSubscription) RemoveChangeListener(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.changeListeners, id)
}

// SetAggregationPeriod sets the delivery throttle; takes effect for
// subsequent batches.
func (s *DXFeedSubscription) SetAggregationPeriod(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.aggregationPeriod = d
}

// SetEventsBatchLimit sets the maximum batch size delivered to a listener
// in one call; n <= 0 disables splitting.
func (s *DXFeedSubscription) SetEventsBatchLimit(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.eventsBatchLimit = n
}

// Attach binds this subscription to gw, subscribing every current symbol
// for every configured event type. Attaching while already attached to a
// feed (the same or another) is a no-op; attaching a closed subscription
// fails.
func (s *DXFeedSubscription) Attach(gw feed.FeedGateway) error {
	s.mu.Lock()
	if err := s.checkOpenLocked("DXFeedSubscription.Attach"); err != nil {
		s.mu.Unlock()
		return err
	}
	if s.gw != nil {
		s.mu.Unlock()
		return nil
	}
	s.gw = gw
	decorated := make([]event.Symbol, 0, len(s.symbols))
	for _, sym := range s.symbols {
		decorated = append(decorated, sym)
	}
	s.mu.Unlock()

	for _, sym := range decorated {
		s.subscribeOne(gw, sym)
	}
	return nil
}

// Detach unsubscribes every symbol from the attached feed, if any.
func (s *DXFeedSubscription) Detach() error {
	s.mu.Lock()
	if s.gw == nil {
		s.mu.Unlock()
		return nil
	}
	subs := s.feedSubs
	s.feedSubs = make(map[string]feed.Subscription)
	s.gw = nil
	s.mu.Unlock()

	for _, fs := range subs {
		if err := fs.Close(); err != nil {
			log.Printf("subscription: error closing feed subscription: %v", err)
		}
	}
	return nil
}

// Close idempotently detaches, fires onSubscriptionClosed, and releases
// all listeners.
func (s *DXFeedSubscription) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	changeListeners := s.changeListeners
	s.changeListeners = nil
	s.eventListeners = nil
	if s.pendingTimer != nil {
		s.pendingTimer.Stop()
		s.pendingTimer = nil
	}
	s.mu.Unlock()

	if err := s.Detach(); err != nil {
		return err
	}

	for _, l := range changeListeners {
		if l.OnSubscriptionClosed != nil {
			safeCall(func() { l.OnSubscriptionClosed() })
		}
	}
	return nil
}

func (s *DXFeedSubscription) subscribeOne(gw feed.FeedGateway, sym event.Symbol) {
	s.mu.Lock()
	types := make([]event.Type, 0, len(s.eventTypes))
	for t := range s.eventTypes {
		types = append(types, t)
	}
	s.mu.Unlock()

	for _, t := range types {
		key := subKey(t, sym)
		fs, err := gw.Subscribe(t, sym, s.deliver)
		if err != nil {
			log.Printf("subscription: Subscribe(%s, %s) failed: %v", t, sym, err)
			continue
		}
		s.mu.Lock()
		s.feedSubs[key] = fs
		s.mu.Unlock()
	}
}

func (s *DXFeedSubscription) unsubscribeOne(sym event.Symbol) {
	s.mu.Lock()
	var toClose []feed.Subscription
	for t := range s.eventTypes {
		key := subKey(t, sym)
		if fs, ok := s.feedSubs[key]; ok {
			toClose = append(toClose, fs)
			delete(s.feedSubs, key)
		}
	}
	s.mu.Unlock()

	for _, fs := range toClose {
		if err := fs.Close(); err != nil {
			log.Printf("subscription: error closing feed subscription: %v", err)
		}
	}
}

func subKey(t event.Type, sym event.Symbol) string {
	return t.Name() + "\x00" + sym.String()
}

// deliver is the feed.Handler passed to every underlying gateway
// subscription. With no aggregation period it dispatches immediately;
// otherwise it buffers until the pending timer fires, coalescing several
// inbound batches into one delivery (spec section 4.2 delivery contract).
func (s *DXFeedSubscription) deliver(batch []feed.InboundEvent) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	if s.aggregationPeriod <= 0 {
		s.mu.Unlock()
		s.dispatch(batch)
		return
	}

	s.pending = append(s.pending, batch...)
	if s.pendingTimer == nil {
		s.pendingTimer = timer.RunOnce(s.flush, s.aggregationPeriod)
	}
	s.mu.Unlock()
}

// flush is the pending timer's callback: it drains the buffered events and
// dispatches them as one batch.
func (s *DXFeedSubscription) flush() {
	s.mu.Lock()
	batch := s.pending
	s.pending = nil
	s.pendingTimer = nil
	s.mu.Unlock()

	if len(batch) > 0 {
		s.dispatch(batch)
	}
}

// dispatch splits batch per the events-batch-limit and invokes every event
// listener with each chunk, in order, recovering from listener panics.
func (s *DXFeedSubscription) dispatch(batch []feed.InboundEvent) {
	s.mu.Lock()
	limit := s.eventsBatchLimit
	listeners := make([]EventListener, 0, len(s.eventListeners))
	for _, l := range s.eventListeners {
		listeners = append(listeners, l)
	}
	s.mu.Unlock()

	for _, chunk := range splitBatch(batch, limit) {
		for _, l := range listeners {
			ll, c := l, chunk
			safeCall(func() { ll(c) })
		}
	}
}

// splitBatch divides batch into chunks of at most limit events each,
// preserving relative order. limit <= 0 disables splitting.
func splitBatch(batch []feed.InboundEvent, limit int) [][]feed.InboundEvent {
	if limit <= 0 || len(batch) <= limit {
		return [][]feed.InboundEvent{batch}
	}
	var out [][]feed.InboundEvent
	for len(batch) > 0 {
		n := limit
		if n > len(batch) {
			n = len(batch)
		}
		out = append(out, batch[:n])
		batch = batch[n:]
	}
	return out
}

func (s *DXFeedSubscription) notifyAdded(added []event.Symbol) {
	s.mu.Lock()
	listeners := make([]ChangeListener, 0, len(s.changeListeners))
	for _, l := range s.changeListeners {
		listeners = append(listeners, l)
	}
	s.mu.Unlock()

	for _, l := range listeners {
		if l.OnSymbolsAdded != nil {
			ll := l
			safeCall(func() { ll.OnSymbolsAdded(added) })
		}
	}
}

func (s *DXFeedSubscription) notifyRemoved(removed []event.Symbol) {
	s.mu.Lock()
	listeners := make([]ChangeListener, 0, len(s.changeListeners))
	for _, l := range s.changeListeners {
		listeners = append(listeners, l)
	}
	s.mu.Unlock()

	for _, l := range listeners {
		if l.OnSymbolsRemoved != nil {
			ll := l
			safeCall(func() { ll.OnSymbolsRemoved(removed) })
		}
	}
}

// safeCall invokes f, catching and logging a panic so one faulty listener
// never breaks delivery for others (spec section 4.2 failure semantics).
func safeCall(f func()) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("subscription: listener panicked: %v", r)
		}
	}()
	f()
}
