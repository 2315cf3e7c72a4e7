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

func TestUnwrapSymbolStripsAllLayers(t *testing.T) {
	inner := PlainSymbol("AAPL")
	wrapped := TimeSeriesSubscriptionSymbol{
		Inner:    IndexedEventSubscriptionSymbol{Inner: inner, Source: OrderSourceNTV},
		FromTime: 1000,
	}

	if got := UnwrapSymbol(wrapped); got != inner {
		t.Errorf("UnwrapSymbol() = %v, want %v", got, inner)
	}
}

func TestSourceOfAndFromTimeOfLookThroughWrappers(t *testing.T) {
	inner := PlainSymbol("AAPL")
	wrapped := TimeSeriesSubscriptionSymbol{
		Inner:    IndexedEventSubscriptionSymbol{Inner: inner, Source: OrderSourceNTV},
		FromTime: 1234,
	}

	if got := SourceOf(wrapped); got != OrderSourceNTV {
		t.Errorf("SourceOf() = %v, want %v", got, OrderSourceNTV)
	}
	if got := FromTimeOf(wrapped); got != 1234 {
		t.Errorf("FromTimeOf() = %d, want 1234", got)
	}
}

func TestSourceOfDefaultsWhenUnwrapped(t *testing.T) {
	if got := SourceOf(PlainSymbol("AAPL")); got != DefaultSource {
		t.Errorf("SourceOf(plain) = %v, want DefaultSource", got)
	}
	if got := FromTimeOf(PlainSymbol("AAPL")); got != 0 {
		t.Errorf("FromTimeOf(plain) = %d, want 0", got)
	}
}

func TestCandleSymbolDefaultsPeriod(t *testing.T) {
	cs := NewCandleSymbol("AAPL", "")
	if cs.Period != "1d" {
		t.Errorf("Period = %q, want 1d", cs.Period)
	}
	if cs.String() != "AAPL{=1d}" {
		t.Errorf("String() = %q", cs.String())
	}
}

func TestSymbolKeyDistinguishesWrappedFromPlain(t *testing.T) {
	plain := PlainSymbol("AAPL")
	wrapped := IndexedEventSubscriptionSymbol{Inner: plain, Source: OrderSourceNTV}
	if plain.symbolKey() == wrapped.symbolKey() {
		t.Error("wrapped symbol key collided with its inner plain symbol key")
	}
}
