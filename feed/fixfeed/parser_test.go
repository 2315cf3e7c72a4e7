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

package fixfeed

import (
	"testing"

	"github.com/dxfeed-samples/mdcore-go/event"
	"github.com/quickfixgo/quickfix"
	"github.com/shopspring/decimal"
)

func mustDecimal(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestSplitEntriesFindsEachSegment(t *testing.T) {
	raw := "269=0\x01270=100.00\x01271=5\x01269=1\x01270=101.00\x01271=3\x01"
	segs := splitEntries(raw)
	if len(segs) != 2 {
		t.Fatalf("len(segs) = %d, want 2", len(segs))
	}
	if segs[0] != "269=0\x01270=100.00\x01271=5\x01" {
		t.Errorf("segs[0] = %q", segs[0])
	}
	if segs[1] != "269=1\x01270=101.00\x01271=3\x01" {
		t.Errorf("segs[1] = %q", segs[1])
	}
}

func TestParseEntryExtractsAllKnownTags(t *testing.T) {
	seg := "269=2\x01270=50000.00\x01271=1.5\x01273=20250101-12:00:00\x01290=3\x01"
	e := parseEntry(seg)
	if e.entryType != "2" || e.price != "50000.00" || e.size != "1.5" || e.time != "20250101-12:00:00" || e.position != "3" {
		t.Errorf("parseEntry = %+v", e)
	}
}

// buildOrderMessage constructs a realistic snapshot message with bid/offer
// entries, the way a venue's FIX engine would serialize a Market Data
// Snapshot/Full Refresh.
func buildOrderMessage(bids, offers [][2]string) *quickfix.Message {
	m := quickfix.NewMessage()
	buildHeader(&m.Header, msgTypeMarketDataSnapshot, "SENDER", "TARGET")
	setString(&m.Body, tagSymbol, "BTC-USD")

	group := quickfix.NewRepeatingGroup(
		tagNoMdEntries,
		quickfix.GroupTemplate{
			quickfix.GroupElement(tagMdEntryType),
			quickfix.GroupElement(tagMdEntryPx),
			quickfix.GroupElement(tagMdEntrySize),
		},
	)
	for _, b := range bids {
		inst := group.Add()
		setString(inst, tagMdEntryType, mdEntryTypeBid)
		setString(inst, tagMdEntryPx, b[0])
		setString(inst, tagMdEntrySize, b[1])
	}
	for _, o := range offers {
		inst := group.Add()
		setString(inst, tagMdEntryType, mdEntryTypeOffer)
		setString(inst, tagMdEntryPx, o[0])
		setString(inst, tagMdEntrySize, o[1])
	}
	m.Body.SetGroup(group)
	return m
}

func TestDecodeOrdersSnapshotSetsBeginAndEndFlags(t *testing.T) {
	msg := buildOrderMessage([][2]string{{"100.00", "5"}}, [][2]string{{"101.00", "3"}})

	batch, err := decodeOrders(msg, event.PlainSymbol("BTC-USD"), event.DefaultSource, true)
	if err != nil {
		t.Fatalf("decodeOrders: %v", err)
	}
	if len(batch) != 2 {
		t.Fatalf("len(batch) = %d, want 2", len(batch))
	}

	first := batch[0].Event.(*event.OrderEvent)
	last := batch[len(batch)-1].Event.(*event.OrderEvent)

	if !first.EventFlags().SnapshotBegin() {
		t.Error("first order missing SnapshotBegin")
	}
	if !last.EventFlags().SnapshotEnd() {
		t.Error("last order missing SnapshotEnd")
	}
	if !first.EventFlags().TxPending() {
		t.Error("non-final order in a multi-entry snapshot should carry TxPending")
	}
	if last.EventFlags().TxPending() {
		t.Error("final order should not carry TxPending")
	}
}

func TestDecodeOrdersAssignsSideFromEntryType(t *testing.T) {
	msg := buildOrderMessage([][2]string{{"100.00", "5"}}, [][2]string{{"101.00", "3"}})
	batch, _ := decodeOrders(msg, event.PlainSymbol("BTC-USD"), event.DefaultSource, false)

	bid := batch[0].Event.(*event.OrderEvent)
	offer := batch[1].Event.(*event.OrderEvent)
	if bid.Side != event.SideBuy {
		t.Errorf("bid.Side = %v, want SideBuy", bid.Side)
	}
	if offer.Side != event.SideSell {
		t.Errorf("offer.Side = %v, want SideSell", offer.Side)
	}
}

func TestDecodeOrdersIncrementalHasNoSnapshotFlags(t *testing.T) {
	msg := buildOrderMessage([][2]string{{"100.00", "5"}}, nil)
	batch, _ := decodeOrders(msg, event.PlainSymbol("BTC-USD"), event.DefaultSource, false)

	o := batch[0].Event.(*event.OrderEvent)
	if o.EventFlags().SnapshotBegin() || o.EventFlags().SnapshotEnd() {
		t.Errorf("incremental order carries snapshot flags: %v", o.EventFlags())
	}
}

func TestDecodeTradesOnlyExtractsTradeEntries(t *testing.T) {
	m := quickfix.NewMessage()
	buildHeader(&m.Header, msgTypeMarketDataIncremental, "SENDER", "TARGET")
	setString(&m.Body, tagSymbol, "BTC-USD")

	group := quickfix.NewRepeatingGroup(
		tagNoMdEntries,
		quickfix.GroupTemplate{
			quickfix.GroupElement(tagMdEntryType),
			quickfix.GroupElement(tagMdEntryPx),
			quickfix.GroupElement(tagMdEntrySize),
		},
	)
	bid := group.Add()
	setString(bid, tagMdEntryType, mdEntryTypeBid)
	setString(bid, tagMdEntryPx, "100.00")
	setString(bid, tagMdEntrySize, "5")
	trade := group.Add()
	setString(trade, tagMdEntryType, mdEntryTypeTrade)
	setString(trade, tagMdEntryPx, "100.50")
	setString(trade, tagMdEntrySize, "1.2")
	m.Body.SetGroup(group)

	batch, err := decodeTrades(m, event.PlainSymbol("BTC-USD"))
	if err != nil {
		t.Fatalf("decodeTrades: %v", err)
	}
	if len(batch) != 1 {
		t.Fatalf("len(batch) = %d, want 1 (only the trade entry)", len(batch))
	}
	tr := batch[0].Event.(*event.TradeEvent)
	if !tr.Price.Equal(mustDecimal("100.50")) {
		t.Errorf("tr.Price = %v, want 100.50", tr.Price)
	}
}

func TestEntryTypesForMapsKnownEventTypes(t *testing.T) {
	if got := entryTypesFor(event.Trade); len(got) != 1 || got[0] != mdEntryTypeTrade {
		t.Errorf("entryTypesFor(Trade) = %v", got)
	}
	if got := entryTypesFor(event.Order); len(got) != 2 {
		t.Errorf("entryTypesFor(Order) = %v, want 2 entries", got)
	}
	if got := entryTypesFor(event.Candle); got != nil {
		t.Errorf("entryTypesFor(Candle) = %v, want nil (unsupported by this transport)", got)
	}
}
