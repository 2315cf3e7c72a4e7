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

package depth

import (
	"testing"

	"github.com/dxfeed-samples/mdcore-go/event"
)

func TestCompareOrdersAggregateBeforeIndividual(t *testing.T) {
	individual := mkOrder(1, event.SideBuy, "10.00", 1, event.ScopeOrder)
	aggregate := mkOrder(2, event.SideBuy, "10.00", 1, event.ScopeAggregate)

	if compareOrders(individual, aggregate) <= 0 {
		t.Error("individual order should sort after aggregate under compareOrders (1 means 'not less')")
	}
	if compareOrders(aggregate, individual) >= 0 {
		t.Error("aggregate order should sort before individual under compareOrders")
	}
}

func TestCompareOrdersMarketMakerTieBreakOnlyForOrderSubtype(t *testing.T) {
	a := mkOrder(10, event.SideBuy, "10.00", 5, event.ScopeAggregate)
	a.MarketMaker = "ZZZZ"
	b := mkOrder(11, event.SideBuy, "10.00", 5, event.ScopeAggregate)
	b.MarketMaker = "AAAA"

	if c := compareOrders(a, b); c <= 0 {
		t.Errorf("compareOrders = %d, want > 0 (ZZZZ should sort after AAAA)", c)
	}
}

func TestShallAddRejectsZeroSizeAndRemoveFlag(t *testing.T) {
	zero := mkOrder(1, event.SideBuy, "10.00", 0, event.ScopeOrder)
	if shallAdd(zero) {
		t.Error("shallAdd(zero-size order) = true, want false")
	}

	removed := mkOrder(2, event.SideBuy, "10.00", 1, event.ScopeOrder)
	removed.SetEventFlags(event.RemoveEvent)
	if shallAdd(removed) {
		t.Error("shallAdd(REMOVE_EVENT order) = true, want false")
	}

	ok := mkOrder(3, event.SideBuy, "10.00", 1, event.ScopeOrder)
	if !shallAdd(ok) {
		t.Error("shallAdd(normal order) = false, want true")
	}
}
