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

import "testing"

// TestTimeSeriesIndexRoundTrip verifies that SetTime/SetSequence and
// Time/Sequence agree for a range of times spanning the epoch in both
// directions, including times with a sub-second millisecond part.
func TestTimeSeriesIndexRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		ms   int64
		seq  int32
	}{
		{"zero", 0, 0},
		{"positive", 1_700_000_000_123, 42},
		{"max sequence", 1_700_000_000_999, maxSeq},
		{"pre-epoch", -1_700_000_000_456, 7},
		{"pre-epoch exact second", -5_000, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCandle(PlainSymbol("AAPL"))
			c.SetTime(tt.ms)
			if err := c.SetSequence(tt.seq); err != nil {
				t.Fatalf("SetSequence: %v", err)
			}
			if got := c.Time(); got != tt.ms {
				t.Errorf("Time() = %d, want %d", got, tt.ms)
			}
			if got := c.Sequence(); got != tt.seq {
				t.Errorf("Sequence() = %d, want %d", got, tt.seq)
			}
		})
	}
}

// TestTimeSeriesSetSequenceRejectsOutOfRange verifies the 22-bit sequence
// bound is enforced.
func TestTimeSeriesSetSequenceRejectsOutOfRange(t *testing.T) {
	c := NewCandle(PlainSymbol("AAPL"))
	if err := c.SetSequence(-1); err == nil {
		t.Error("expected error for negative sequence")
	}
	if err := c.SetSequence(maxSeq + 1); err == nil {
		t.Error("expected error for sequence above 22-bit range")
	}
	if err := c.SetSequence(maxSeq); err != nil {
		t.Errorf("SetSequence(maxSeq): unexpected error %v", err)
	}
}

// TestTimeSeriesSourceIsAlwaysDefault verifies the resolution that
// time-series events never derive a source from their index bits.
func TestTimeSeriesSourceIsAlwaysDefault(t *testing.T) {
	c := NewCandle(PlainSymbol("AAPL"))
	c.SetTime(1_700_000_000_000)
	c.SetSource(OrderSourceNTV)
	if got := c.EventSource(); got != DefaultSource {
		t.Errorf("EventSource() = %v, want DefaultSource", got)
	}
	if got := c.Time(); got != 1_700_000_000_000 {
		t.Errorf("SetSource corrupted the time encoding: Time() = %d", got)
	}
}

// TestIndexedEventSetSourcePacksTopBits verifies the Order-family invariant
// that SetSource rewrites the top 32 bits of the index while preserving the
// low 32 bits.
func TestIndexedEventSetSourcePacksTopBits(t *testing.T) {
	o := NewOrder(PlainSymbol("AAPL"))
	o.SetIndex(0x00000000_0000002A) // low bits only, source defaults to 0
	o.SetSource(OrderSourceNTV)

	if got := o.EventSource(); got != OrderSourceNTV {
		t.Errorf("EventSource() = %v, want %v", got, OrderSourceNTV)
	}
	if low := o.Index() & 0xFFFFFFFF; low != 0x2A {
		t.Errorf("low 32 bits changed: got %#x", low)
	}
	if top := int32(o.Index() >> 32); top != OrderSourceNTV.ID() {
		t.Errorf("top 32 bits = %#x, want %#x", top, OrderSourceNTV.ID())
	}
}

// TestIndexedEventSetIndexDerivesSource verifies that SetIndex recovers the
// source from a raw index as a decoder would receive it off the wire.
func TestIndexedEventSetIndexDerivesSource(t *testing.T) {
	raw := (int64(OrderSourceNTV.ID()) << 32) | 0x99
	o := NewOrder(PlainSymbol("AAPL"))
	o.SetIndex(raw)

	if got := o.EventSource(); got.Name() != "NTV" {
		t.Errorf("EventSource().Name() = %q, want NTV", got.Name())
	}
}

// TestOrderIsRemoval verifies the NaN/zero-as-deletion-marker sentinel.
func TestOrderIsRemoval(t *testing.T) {
	tests := []struct {
		size float64
		want bool
	}{
		{0, true},
		{1, false},
		{-1, false},
		{nan(), true},
	}
	for _, tt := range tests {
		o := NewOrder(PlainSymbol("AAPL"))
		o.Size = tt.size
		if got := o.IsRemoval(); got != tt.want {
			t.Errorf("IsRemoval() with size=%v = %v, want %v", tt.size, got, tt.want)
		}
	}
}

func nan() float64 {
	var zero float64
	return zero / zero
}
