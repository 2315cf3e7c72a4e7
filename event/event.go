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

package event

import (
	"fmt"

	"github.com/dxfeed-samples/mdcore-go/errs"
)

func seqRangeError(seq int32) error {
	return errs.InvalidArgument("event.SetSequence", fmt.Sprintf("sequence %d out of range [0,%d]", seq, maxSeq))
}

// Event is the root marker interface implemented by every value type this
// package defines.
type Event interface {
	EventType() Type
}

// MarketEvent is an event tied to a single symbol.
type MarketEvent interface {
	Event
	EventSymbol() Symbol
}

// LastingEvent is a MarketEvent with latest-value (non-indexed) semantics:
// a new event simply replaces the previous one for its symbol.
type LastingEvent interface {
	MarketEvent
}

// IndexedEvent is a MarketEvent that carries a 64-bit index and a Source,
// and participates in the transaction/snapshot protocol of section 4.
type IndexedEvent interface {
	MarketEvent
	Index() int64
	SetIndex(index int64)
	EventSource() Source
	SetSource(src Source)
	EventFlags() Flags
	SetEventFlags(f Flags)
}

// TimeSeriesEvent is an IndexedEvent whose index encodes a (time, sequence)
// pair per section 3: bits 63-32 hold whole seconds since epoch (arithmetic
// shift, sign-preserving), bits 31-22 hold milliseconds (10 bits), and bits
// 21-0 hold an intra-millisecond sequence number (22 bits).
type TimeSeriesEvent interface {
	IndexedEvent
	Time() int64
	SetTime(ms int64)
	Sequence() int32
	SetSequence(seq int32) error
}

const (
	seqBits  = 22
	seqMask  = 1<<seqBits - 1
	msBits   = 10
	msMask   = 1<<msBits - 1
	maxSeq   = seqMask
	millisPS = 1000
)

// indexToTime decodes the (time-in-ms, sequence) pair packed into a
// time-series index.
func indexToTime(index int64) (timeMillis int64, seq int32) {
	seconds := index >> 32 // arithmetic shift: preserves sign for pre-epoch times
	ms := (index >> seqBits) & msMask
	seq = int32(index & seqMask)
	timeMillis = seconds*millisPS + ms
	return timeMillis, seq
}

// timeToIndex packs a (time-in-ms, sequence) pair into a time-series index.
// It is the caller's responsibility to validate seq against maxSeq first.
func timeToIndex(timeMillis int64, seq int32) int64 {
	seconds := timeMillis / millisPS
	ms := timeMillis % millisPS
	if ms < 0 {
		// Go's integer division truncates toward zero; normalize so ms stays
		// in [0,999] for times before the epoch.
		ms += millisPS
		seconds--
	}
	return (seconds << 32) | (ms << seqBits) | int64(seq)
}

// indexedBase is embedded by every non-time-series indexed event. It stores
// the index and source directly, applying the "top 32 bits of the index
// encode the source" invariant whenever the source is set explicitly.
type indexedBase struct {
	index int64
	src   Source
	flags Flags
}

func (b *indexedBase) Index() int64       { return b.index }
func (b *indexedBase) EventSource() Source { return b.src }
func (b *indexedBase) EventFlags() Flags   { return b.flags }
func (b *indexedBase) SetEventFlags(f Flags) { b.flags = f }

// SetIndex stores a raw index as received from a feed and derives b.src
// from its top 32 bits, where order-family gateways pack the source.
// SetSource works the other way, re-packing those bits from a Source.
func (b *indexedBase) SetIndex(index int64) {
	b.index = index
	b.src = sourceByID(int32(index >> 32))
}

// SetSource re-packs the index's top 32 bits to match src, preserving the
// low 32 bits (the per-source sequence/slot portion).
func (b *indexedBase) SetSource(src Source) {
	b.src = src
	b.index = (int64(src.id) << 32) | (b.index & 0xFFFFFFFF)
}

// timeSeriesBase is embedded by time-series events. Per the resolution of
// the apparent tension between the general indexed-event source-bits
// invariant and the time-series time/sequence encoding, time-series events
// use the full 64 bits of the index for time and sequence and keep their
// source pinned to DefaultSource rather than deriving it from index bits.
type timeSeriesBase struct {
	index int64
	flags Flags
}

func (b *timeSeriesBase) Index() int64        { return b.index }
func (b *timeSeriesBase) SetIndex(index int64) { b.index = index }
func (b *timeSeriesBase) EventSource() Source  { return DefaultSource }
func (b *timeSeriesBase) SetSource(Source)     {} // no-op: time-series sources are always DEFAULT
func (b *timeSeriesBase) EventFlags() Flags    { return b.flags }
func (b *timeSeriesBase) SetEventFlags(f Flags) { b.flags = f }

func (b *timeSeriesBase) Time() int64 {
	t, _ := indexToTime(b.index)
	return t
}

func (b *timeSeriesBase) Sequence() int32 {
	_, seq := indexToTime(b.index)
	return seq
}

func (b *timeSeriesBase) SetTime(ms int64) {
	_, seq := indexToTime(b.index)
	b.index = timeToIndex(ms, seq)
}

func (b *timeSeriesBase) SetSequence(seq int32) error {
	if seq < 0 || seq > maxSeq {
		return seqRangeError(seq)
	}
	t, _ := indexToTime(b.index)
	b.index = timeToIndex(t, seq)
	return nil
}
