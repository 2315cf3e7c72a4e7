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

func TestTypeByNameKnownTypes(t *testing.T) {
	tests := []struct {
		name string
		want Type
	}{
		{"Quote", Quote},
		{"Order", Order},
		{"Candle", Candle},
		{"TimeAndSale", TimeAndSale},
	}
	for _, tt := range tests {
		got, err := TypeByName(tt.name)
		if err != nil {
			t.Fatalf("TypeByName(%q): unexpected error %v", tt.name, err)
		}
		if got != tt.want {
			t.Errorf("TypeByName(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestTypeByNameUnknown(t *testing.T) {
	if _, err := TypeByName("NotAnEvent"); err == nil {
		t.Error("expected error for unknown event type name")
	}
}

func TestCategoryClassification(t *testing.T) {
	if !Quote.IsLasting() || Quote.IsIndexed() {
		t.Errorf("Quote categories wrong: lasting=%v indexed=%v", Quote.IsLasting(), Quote.IsIndexed())
	}
	if !Order.IsIndexed() || Order.IsTimeSeries() {
		t.Errorf("Order categories wrong: indexed=%v timeSeries=%v", Order.IsIndexed(), Order.IsTimeSeries())
	}
	if !Candle.IsIndexed() || !Candle.IsTimeSeries() {
		t.Errorf("Candle categories wrong: indexed=%v timeSeries=%v", Candle.IsIndexed(), Candle.IsTimeSeries())
	}
	if !Candle.IsMarket() {
		t.Error("Candle should be a MarketEvent category: it carries a symbol via marketBase")
	}
}
