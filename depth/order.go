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

// Package depth implements the market-depth order book of spec section
// 4.4: two sorted sides of an order-family IndexedEvent type, kept current
// by an IndexedTxModel and notified to a listener either immediately or on
// an aggregation-period throttle.
package depth

import (
	"github.com/dxfeed-samples/mdcore-go/event"
	"github.com/shopspring/decimal"
)

// OrderLike is the constraint every type parameter O of MarketDepthModel[O]
// must satisfy: an order-family IndexedEvent with the fields the comparator
// and book maintenance need. event.OrderEvent, event.AnalyticOrder,
// event.SpreadOrder and event.OtcMarketsOrder all satisfy it.
type OrderLike interface {
	event.IndexedEvent
	GetPrice() decimal.Decimal
	GetSize() float64
	GetSide() event.Side
	GetScope() event.Scope
	GetExchangeCode() byte
	GetTime() int64
	GetSequence() int32
	HasSize() bool
}

// marketMakerOrder is satisfied by order subtypes that carry a MarketMaker
// field; only those subtypes participate in the comparator's market-maker
// tie-break leg (section 4 SUPPLEMENTED FEATURES: ported from the
// original's `o1->template is<Order>()` special case).
type marketMakerOrder interface {
	GetMarketMaker() string
}

// shallAdd reports whether order should be present in the book: it must
// carry a non-zero, non-NaN size and must not be a removal event.
func shallAdd[O OrderLike](order O) bool {
	return order.HasSize() && !order.EventFlags().RemoveEvent()
}

// compareOrders implements OrderComparator::operator() from the original:
// individual (Scope == ORDER) orders sort after aggregate ones. Two
// individual orders compare by time/sequence, then index. Two aggregate
// orders compare by size desc, then time/sequence, scope code asc, exchange
// code asc, and (Order subtype only) market maker asc before falling back
// to index.
func compareOrders[O OrderLike](o1, o2 O) int {
	ind1 := o1.GetScope() == event.ScopeOrder
	ind2 := o2.GetScope() == event.ScopeOrder

	if ind1 && ind2 {
		if c := compareTimeSequence(o1, o2); c != 0 {
			return c
		}
		return compareIndex(o1, o2)
	}
	if ind1 {
		return 1
	}
	if ind2 {
		return -1
	}

	// Both are aggregate/regional/composite orders.
	if c := compareFloat(o2.GetSize(), o1.GetSize()); c != 0 { // desc
		return c
	}
	if c := compareTimeSequence(o1, o2); c != 0 {
		return c
	}
	if c := compareInt(int(o1.GetScope()), int(o2.GetScope())); c != 0 {
		return c
	}
	if c := compareInt(int(o1.GetExchangeCode()), int(o2.GetExchangeCode())); c != 0 {
		return c
	}

	mm1, ok1 := any(o1).(marketMakerOrder)
	mm2, ok2 := any(o2).(marketMakerOrder)
	if ok1 && ok2 {
		if c := compareString(mm1.GetMarketMaker(), mm2.GetMarketMaker()); c != 0 {
			return c
		}
	}

	return compareIndex(o1, o2)
}

func compareTimeSequence[O OrderLike](o1, o2 O) int {
	if c := compareInt64(o1.GetTime(), o2.GetTime()); c != 0 {
		return c
	}
	return compareInt(int(o1.GetSequence()), int(o2.GetSequence()))
}

func compareIndex[O OrderLike](o1, o2 O) int {
	return compareInt64(o1.Index(), o2.Index())
}

func compareInt64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func compareInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func compareString(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// buyLess orders the buy side: higher price first, then compareOrders.
func buyLess[O OrderLike](o1, o2 O) bool {
	p1, p2 := o1.GetPrice(), o2.GetPrice()
	if p1.LessThan(p2) {
		return false // lower price sorts after: desc by price
	}
	if p1.GreaterThan(p2) {
		return true
	}
	return compareOrders(o1, o2) < 0
}

// sellLess orders the sell side: lower price first, then compareOrders.
func sellLess[O OrderLike](o1, o2 O) bool {
	p1, p2 := o1.GetPrice(), o2.GetPrice()
	if p1.LessThan(p2) {
		return true
	}
	if p1.GreaterThan(p2) {
		return false
	}
	return compareOrders(o1, o2) < 0
}
