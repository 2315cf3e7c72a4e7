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
	"strconv"
	"strings"
	"time"

	"github.com/dxfeed-samples/mdcore-go/event"
	"github.com/dxfeed-samples/mdcore-go/feed"
	"github.com/quickfixgo/quickfix"
	"github.com/shopspring/decimal"
)

// mdEntry is one parsed 269=...290= repeating-group segment. Field
// extraction is a single pass over the segment, the way parser.go's
// parseTradeFromSegmentFast walks a FIX entry.
type mdEntry struct {
	entryType string
	price     string
	size      string
	time      string
	position  string
}

// splitEntries locates every MDEntryType group occurrence in rawMsg and
// returns each segment between consecutive occurrences, mirroring
// findEntryBoundaries/getEntryEndPos.
func splitEntries(rawMsg string) []string {
	count := strings.Count(rawMsg, "269=")
	if count == 0 {
		return nil
	}
	starts := make([]int, 0, count)
	searchFrom := 0
	for {
		pos := strings.Index(rawMsg[searchFrom:], "269=")
		if pos == -1 {
			break
		}
		starts = append(starts, searchFrom+pos)
		searchFrom += pos + 4
	}

	segments := make([]string, len(starts))
	msgLen := len(rawMsg)
	for i, start := range starts {
		end := msgLen
		if i < len(starts)-1 {
			end = starts[i+1]
		}
		segments[i] = rawMsg[start:end]
	}
	return segments
}

func parseEntry(segment string) mdEntry {
	var e mdEntry
	pos, segLen := 0, len(segment)
	for pos < segLen {
		eqPos := strings.IndexByte(segment[pos:], '=')
		if eqPos == -1 {
			break
		}
		eqPos += pos
		tag := segment[pos:eqPos]
		valueStart := eqPos + 1
		sohPos := strings.IndexByte(segment[valueStart:], '\x01')
		var value string
		var next int
		if sohPos == -1 {
			value = segment[valueStart:]
			next = segLen
		} else {
			value = segment[valueStart : valueStart+sohPos]
			next = valueStart + sohPos + 1
		}
		switch tag {
		case "269":
			e.entryType = value
		case "270":
			e.price = value
		case "271":
			e.size = value
		case "273":
			e.time = value
		case "290":
			e.position = value
		}
		pos = next
	}
	return e
}

func entryTimeMillis(raw string) int64 {
	if raw == "" {
		return 0
	}
	t, err := time.Parse(fixTimeFormat, raw)
	if err != nil {
		return 0
	}
	return t.UnixMilli()
}

// orderIndex packs a stable per-entry identity into the low 32 bits of the
// event index: position (from MDEntryPositionNo, defaulting to the entry's
// ordinal within the message) combined with side so bid/offer entries at
// the same position never collide.
func orderIndex(entry mdEntry, ordinal int, side event.Side) int64 {
	pos := ordinal
	if entry.position != "" {
		if p, err := strconv.Atoi(entry.position); err == nil {
			pos = p
		}
	}
	sideBit := uint32(0)
	if side == event.SideSell {
		sideBit = 1
	}
	low := uint32(pos)<<1 | sideBit
	return int64(low)
}

// decodeOrders converts every Bid/Offer entry in msg into an event.OrderEvent,
// setting EventFlags so the batch satisfies TxModel's transaction invariants:
// a Snapshot message opens with SNAPSHOT_BEGIN and closes with SNAPSHOT_END,
// and every non-final entry of a multi-entry message carries TX_PENDING.
func decodeOrders(msg *quickfix.Message, symbol event.Symbol, source event.Source, isSnapshot bool) ([]feed.InboundEvent, error) {
	rawMsg := msg.String()
	segments := splitEntries(rawMsg)

	var orders []*event.OrderEvent
	for i, seg := range segments {
		entry := parseEntry(seg)
		var side event.Side
		switch entry.entryType {
		case mdEntryTypeBid:
			side = event.SideBuy
		case mdEntryTypeOffer:
			side = event.SideSell
		default:
			continue
		}

		o := event.NewOrder(symbol)
		o.Side = side
		o.Scope = event.ScopeOrder
		o.Time = entryTimeMillis(entry.time)
		o.Sequence = int32(i)
		if entry.price != "" {
			if p, err := decimal.NewFromString(entry.price); err == nil {
				o.Price = p
			}
		}
		if entry.size != "" {
			if sz, err := strconv.ParseFloat(entry.size, 64); err == nil {
				o.Size = sz
			}
		}
		o.SetIndex(orderIndex(entry, i, side))
		o.SetSource(source)
		orders = append(orders, o)
	}

	if len(orders) == 0 {
		return nil, nil
	}

	for i, o := range orders {
		var flags event.Flags
		if isSnapshot && i == 0 {
			flags |= event.SnapshotBegin
		}
		if i < len(orders)-1 {
			flags |= event.TxPending
		}
		if isSnapshot && i == len(orders)-1 {
			flags |= event.SnapshotEnd
		}
		o.SetEventFlags(flags)
	}

	out := make([]feed.InboundEvent, len(orders))
	for i, o := range orders {
		out[i] = feed.InboundEvent{Event: o, Flags: o.EventFlags()}
	}
	return out, nil
}

// decodeTrades converts every Trade entry in msg into an event.TradeEvent.
// TradeEvent is a lasting event (not indexed), so no flags are synthesized.
func decodeTrades(msg *quickfix.Message, symbol event.Symbol) ([]feed.InboundEvent, error) {
	rawMsg := msg.String()
	segments := splitEntries(rawMsg)

	var out []feed.InboundEvent
	for _, seg := range segments {
		entry := parseEntry(seg)
		if entry.entryType != mdEntryTypeTrade {
			continue
		}

		tr := event.NewTrade(symbol)
		tr.Time = entryTimeMillis(entry.time)
		if entry.price != "" {
			if p, err := decimal.NewFromString(entry.price); err == nil {
				tr.Price = p
			}
		}
		if entry.size != "" {
			if sz, err := strconv.ParseFloat(entry.size, 64); err == nil {
				tr.Size = sz
			}
		}
		out = append(out, feed.InboundEvent{Event: tr})
	}
	return out, nil
}
