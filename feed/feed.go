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

// Package feed defines the transport-agnostic boundary named in spec
// section 6: the FeedGateway contract that Subscription, IndexedTxModel and
// MarketDepthModel consume, without any of them knowing whether events
// arrive over FIX, WebSocket, or an in-process test double.
package feed

import "github.com/dxfeed-samples/mdcore-go/event"

// InboundEvent pairs a decoded event value with the raw flags a transport
// observed on the wire, for callers that want flags before or instead of
// what the event value itself carries (lasting events have no EventFlags
// method since they are not IndexedEvent).
type InboundEvent struct {
	Event event.Event
	Flags event.Flags
}

// Handler receives one inbound batch, in wire order, for a single
// (event type, symbol) registration.
type Handler func(batch []InboundEvent)

// Subscription is a single (event type, symbol) registration against a
// FeedGateway. Closing it stops further delivery to its Handler.
type Subscription interface {
	Close() error
}

// FeedGateway is the abstract transport boundary: something that can
// stream typed, per-symbol event batches. fixfeed and wsfeed are concrete
// implementations; the core packages (subscription, txmodel, depth) only
// ever see this interface.
type FeedGateway interface {
	// Subscribe registers interest in eventType events for symbol, invoking
	// handler with each inbound batch until the returned Subscription is
	// closed or the gateway itself is closed.
	Subscribe(eventType event.Type, symbol event.Symbol, handler Handler) (Subscription, error)

	// Close tears down the gateway and every subscription registered
	// through it.
	Close() error
}
