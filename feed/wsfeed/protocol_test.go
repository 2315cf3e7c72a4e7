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

package wsfeed

import (
	"testing"

	"github.com/dxfeed-samples/mdcore-go/event"
)

func TestDecodeFrameParsesJSONArray(t *testing.T) {
	raw := []byte(`[{"channel":"trade","symbol":"BTC-USD","price":"100.50","size":1.2,"time":1700000000000}]`)
	msgs, err := decodeFrame(raw)
	if err != nil {
		t.Fatalf("decodeFrame: %v", err)
	}
	if len(msgs) != 1 || msgs[0].Symbol != "BTC-USD" {
		t.Fatalf("decodeFrame = %+v", msgs)
	}
}

func TestDecodeFrameRejectsMalformedJSON(t *testing.T) {
	if _, err := decodeFrame([]byte(`not json`)); err == nil {
		t.Fatal("expected error for malformed frame")
	}
}

func TestToEventBuildsTrade(t *testing.T) {
	m := wireMessage{Channel: channelTrade, Symbol: "BTC-USD", Price: "100.50", Size: 1.2, Time: 42}
	ie, err := toEvent(channelTrade, event.PlainSymbol("BTC-USD"), m)
	if err != nil {
		t.Fatalf("toEvent: %v", err)
	}
	tr, ok := ie.Event.(*event.TradeEvent)
	if !ok {
		t.Fatalf("toEvent returned %T, want *event.TradeEvent", ie.Event)
	}
	if !tr.Price.Equal(mustDecimal("100.50")) || tr.Size != 1.2 || tr.Time != 42 {
		t.Errorf("toEvent trade = %+v", tr)
	}
}

func TestToEventBuildsQuote(t *testing.T) {
	m := wireMessage{Channel: channelQuote, Symbol: "BTC-USD", BidPrice: "99.00", BidSize: 2, AskPrice: "101.00", AskSize: 3}
	ie, err := toEvent(channelQuote, event.PlainSymbol("BTC-USD"), m)
	if err != nil {
		t.Fatalf("toEvent: %v", err)
	}
	q, ok := ie.Event.(*event.QuoteEvent)
	if !ok {
		t.Fatalf("toEvent returned %T, want *event.QuoteEvent", ie.Event)
	}
	if !q.BidPrice.Equal(mustDecimal("99.00")) || !q.AskPrice.Equal(mustDecimal("101.00")) {
		t.Errorf("toEvent quote = %+v", q)
	}
}

func TestToEventBuildsOrderWithFlagsAndSide(t *testing.T) {
	m := wireMessage{
		Channel: channelOrder, Symbol: "BTC-USD", Side: "sell", Price: "101.00", Size: 4, Index: 7,
		Flags: &wireFlags{SnapshotBegin: true, TxPending: true},
	}
	ie, err := toEvent(channelOrder, event.PlainSymbol("BTC-USD"), m)
	if err != nil {
		t.Fatalf("toEvent: %v", err)
	}
	o, ok := ie.Event.(*event.OrderEvent)
	if !ok {
		t.Fatalf("toEvent returned %T, want *event.OrderEvent", ie.Event)
	}
	if o.Side != event.SideSell {
		t.Errorf("o.Side = %v, want SideSell", o.Side)
	}
	if !ie.Flags.SnapshotBegin() || !ie.Flags.TxPending() {
		t.Errorf("ie.Flags = %v, want SnapshotBegin|TxPending", ie.Flags)
	}
	if o.Index() != 7 {
		t.Errorf("o.Index() = %d, want 7", o.Index())
	}
}

func TestToEventRejectsUnknownChannel(t *testing.T) {
	if _, err := toEvent("quux", event.PlainSymbol("BTC-USD"), wireMessage{}); err == nil {
		t.Fatal("expected error for unknown channel")
	}
}

func TestChannelForMapsKnownEventTypes(t *testing.T) {
	cases := map[event.Type]string{event.Trade: channelTrade, event.Quote: channelQuote, event.Order: channelOrder}
	for et, want := range cases {
		got, err := channelFor(et)
		if err != nil || got != want {
			t.Errorf("channelFor(%v) = %q, %v; want %q, nil", et, got, err, want)
		}
	}
	if _, err := channelFor(event.Candle); err == nil {
		t.Error("expected error for unsupported event type Candle")
	}
}
