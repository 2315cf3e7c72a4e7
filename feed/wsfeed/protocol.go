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

// Package wsfeed is a second feed.FeedGateway, a JSON/WebSocket market-data
// transport standing next to fixfeed's FIX one. Neither subscription,
// txmodel nor depth know which of the two they're talking to.
package wsfeed

import (
	"encoding/json"
	"fmt"

	"github.com/dxfeed-samples/mdcore-go/errs"
	"github.com/dxfeed-samples/mdcore-go/event"
	"github.com/dxfeed-samples/mdcore-go/feed"
	"github.com/shopspring/decimal"
)

// controlMessage is what this client sends: a subscribe/unsubscribe request
// naming one channel and the symbols it covers.
type controlMessage struct {
	Action  string   `json:"action"`
	Channel string   `json:"channel"`
	Symbols []string `json:"symbols"`
}

const (
	actionSubscribe   = "subscribe"
	actionUnsubscribe = "unsubscribe"
)

// wireFlags mirrors the subset of event.Flags bits a venue can carry over
// the wire for order-family events; lasting events (quote, trade) never
// set this field.
type wireFlags struct {
	SnapshotBegin bool `json:"snapshotBegin,omitempty"`
	SnapshotEnd   bool `json:"snapshotEnd,omitempty"`
	TxPending     bool `json:"txPending,omitempty"`
	SnapshotMode  bool `json:"snapshotMode,omitempty"`
	RemoveEvent   bool `json:"removeEvent,omitempty"`
	RemoveSymbol  bool `json:"removeSymbol,omitempty"`
}

func (f *wireFlags) toFlags() event.Flags {
	if f == nil {
		return 0
	}
	var out event.Flags
	if f.SnapshotBegin {
		out |= event.SnapshotBegin
	}
	if f.SnapshotEnd {
		out |= event.SnapshotEnd
	}
	if f.TxPending {
		out |= event.TxPending
	}
	if f.SnapshotMode {
		out |= event.SnapshotMode
	}
	if f.RemoveEvent {
		out |= event.RemoveEvent
	}
	if f.RemoveSymbol {
		out |= event.RemoveSymbol
	}
	return out
}

// wireMessage is one event as the venue serializes it. A single frame off
// the wire is a JSON array of these, batched the way a venue would batch a
// snapshot or a burst of incremental updates into one WebSocket message.
type wireMessage struct {
	Channel  string     `json:"channel"`
	Symbol   string     `json:"symbol"`
	Side     string     `json:"side,omitempty"`
	Price    string     `json:"price,omitempty"`
	Size     float64    `json:"size,omitempty"`
	BidPrice string     `json:"bidPrice,omitempty"`
	BidSize  float64    `json:"bidSize,omitempty"`
	AskPrice string     `json:"askPrice,omitempty"`
	AskSize  float64    `json:"askSize,omitempty"`
	Time     int64      `json:"time,omitempty"`
	Sequence int32      `json:"sequence,omitempty"`
	Index    int64      `json:"index,omitempty"`
	Flags    *wireFlags `json:"flags,omitempty"`
}

const (
	channelTrade = "trade"
	channelQuote = "quote"
	channelOrder = "order"
)

// channelFor maps an event.Type to the channel name this transport
// subscribes under. Candle and the analytic/time-series families have no
// home on this transport yet; Subscribe rejects them.
func channelFor(t event.Type) (string, error) {
	switch t {
	case event.Trade:
		return channelTrade, nil
	case event.Quote:
		return channelQuote, nil
	case event.Order:
		return channelOrder, nil
	default:
		return "", errs.InvalidArgument("wsfeed.channelFor", fmt.Sprintf("event type %s has no wsfeed channel", t))
	}
}

func sideFromWire(s string) event.Side {
	switch s {
	case "buy":
		return event.SideBuy
	case "sell":
		return event.SideSell
	default:
		return event.SideUndefined
	}
}

// decodeFrame parses one WebSocket text frame into its constituent wire
// messages. A frame is always a JSON array, even a single-element one, so
// a venue can pack a snapshot burst into one read.
func decodeFrame(raw []byte) ([]wireMessage, error) {
	var msgs []wireMessage
	if err := json.Unmarshal(raw, &msgs); err != nil {
		return nil, errs.InvalidArgument("wsfeed.decodeFrame", fmt.Sprintf("malformed frame: %v", err))
	}
	return msgs, nil
}

// toEvent converts one wireMessage into the event.Event its channel
// implies, copying the wire flags onto order-family events. (decodeOrders
// instead synthesizes the flags for FIX, which carries none.)
func toEvent(channel string, symbol event.Symbol, m wireMessage) (feed.InboundEvent, error) {
	switch channel {
	case channelTrade:
		tr := event.NewTrade(symbol)
		tr.Time = m.Time
		if m.Price != "" {
			p, err := decimal.NewFromString(m.Price)
			if err != nil {
				return feed.InboundEvent{}, errs.InvalidArgument("wsfeed.toEvent", fmt.Sprintf("trade price %q: %v", m.Price, err))
			}
			tr.Price = p
		}
		tr.Size = m.Size
		return feed.InboundEvent{Event: tr}, nil

	case channelQuote:
		q := event.NewQuote(symbol)
		q.Time = m.Time
		if m.BidPrice != "" {
			p, err := decimal.NewFromString(m.BidPrice)
			if err != nil {
				return feed.InboundEvent{}, errs.InvalidArgument("wsfeed.toEvent", fmt.Sprintf("bid price %q: %v", m.BidPrice, err))
			}
			q.BidPrice = p
		}
		q.BidSize = m.BidSize
		if m.AskPrice != "" {
			p, err := decimal.NewFromString(m.AskPrice)
			if err != nil {
				return feed.InboundEvent{}, errs.InvalidArgument("wsfeed.toEvent", fmt.Sprintf("ask price %q: %v", m.AskPrice, err))
			}
			q.AskPrice = p
		}
		q.AskSize = m.AskSize
		return feed.InboundEvent{Event: q}, nil

	case channelOrder:
		o := event.NewOrder(symbol)
		o.Side = sideFromWire(m.Side)
		o.Scope = event.ScopeOrder
		o.Time = m.Time
		o.Sequence = m.Sequence
		if m.Price != "" {
			p, err := decimal.NewFromString(m.Price)
			if err != nil {
				return feed.InboundEvent{}, errs.InvalidArgument("wsfeed.toEvent", fmt.Sprintf("order price %q: %v", m.Price, err))
			}
			o.Price = p
		}
		o.Size = m.Size
		o.SetIndex(m.Index)
		o.SetSource(event.DefaultSource)
		flags := m.Flags.toFlags()
		o.SetEventFlags(flags)
		return feed.InboundEvent{Event: o, Flags: flags}, nil

	default:
		return feed.InboundEvent{}, errs.InvalidArgument("wsfeed.toEvent", "unknown channel "+channel)
	}
}
