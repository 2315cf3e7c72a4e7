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
	"math"

	"github.com/shopspring/decimal"
)

// Side is the market side an order rests on.
type Side uint8

const (
	SideUndefined Side = iota
	SideBuy
	SideSell
)

func (s Side) String() string {
	switch s {
	case SideBuy:
		return "Buy"
	case SideSell:
		return "Sell"
	default:
		return "Undefined"
	}
}

// Scope is the granularity an order-family event represents, from a single
// resting order up to an aggregate across an entire exchange's composite
// book. The depth-model comparator treats Scope == Order specially: at an
// equal price, order records sort after aggregate records and among
// themselves by arrival (time, sequence); aggregate records sort by size,
// largest first, before arrival.
type Scope uint8

const (
	ScopeComposite Scope = iota
	ScopeRegional
	ScopeAggregate
	ScopeOrder
)

// indexedEventBase is embedded by every order-family value type.
type indexedEventBase struct {
	marketBase
	indexedBase
}

// OrderEvent is a single line in a price-based order book.
type OrderEvent struct {
	indexedEventBase
	Price        decimal.Decimal
	Size         float64 // NaN marks deletion of this order's index
	Side         Side
	Scope        Scope
	Time         int64
	Sequence     int32
	ExchangeCode byte
	MarketMaker  string
}

func NewOrder(symbol Symbol) *OrderEvent {
	return &OrderEvent{indexedEventBase: indexedEventBase{marketBase: marketBase{symbol}}}
}
func (*OrderEvent) EventType() Type { return Order }

// IsRemoval reports the NaN-as-deletion-marker sentinel of section 3: a
// zero-or-NaN size on an order-family event removes that index from the
// book rather than updating it.
func (o *OrderEvent) IsRemoval() bool { return math.IsNaN(o.Size) || o.Size == 0 }

// The Get* accessors below satisfy depth.OrderLike, letting the depth
// package's comparator operate on any order-family event generically.

func (o *OrderEvent) GetPrice() decimal.Decimal { return o.Price }
func (o *OrderEvent) GetSize() float64          { return o.Size }
func (o *OrderEvent) GetSide() Side             { return o.Side }
func (o *OrderEvent) GetScope() Scope           { return o.Scope }
func (o *OrderEvent) GetExchangeCode() byte     { return o.ExchangeCode }
func (o *OrderEvent) GetTime() int64            { return o.Time }
func (o *OrderEvent) GetSequence() int32        { return o.Sequence }
func (o *OrderEvent) GetMarketMaker() string    { return o.MarketMaker }
func (o *OrderEvent) HasSize() bool             { return !math.IsNaN(o.Size) && o.Size != 0 }

// AnalyticOrder extends OrderEvent with iceberg-detection statistics.
type AnalyticOrder struct {
	OrderEvent
	IcebergPeakSize   float64
	IcebergHiddenSize float64
}

func NewAnalyticOrder(symbol Symbol) *AnalyticOrder {
	return &AnalyticOrder{OrderEvent: *NewOrder(symbol)}
}
func (*AnalyticOrder) EventType() Type { return AnalyticOrd }

// SpreadOrder is an order on a multi-leg spread instrument.
type SpreadOrder struct {
	indexedEventBase
	Price        decimal.Decimal
	Size         float64
	Side         Side
	Scope        Scope
	Time         int64
	Sequence     int32
	SpreadSymbol string
}

func NewSpreadOrder(symbol Symbol) *SpreadOrder {
	return &SpreadOrder{indexedEventBase: indexedEventBase{marketBase: marketBase{symbol}}}
}
func (*SpreadOrder) EventType() Type   { return SpreadOrd }
func (o *SpreadOrder) IsRemoval() bool { return math.IsNaN(o.Size) || o.Size == 0 }

func (o *SpreadOrder) GetPrice() decimal.Decimal { return o.Price }
func (o *SpreadOrder) GetSize() float64          { return o.Size }
func (o *SpreadOrder) GetSide() Side             { return o.Side }
func (o *SpreadOrder) GetScope() Scope           { return o.Scope }
func (o *SpreadOrder) GetExchangeCode() byte     { return 0 }
func (o *SpreadOrder) GetTime() int64            { return o.Time }
func (o *SpreadOrder) GetSequence() int32        { return o.Sequence }
func (o *SpreadOrder) HasSize() bool             { return !math.IsNaN(o.Size) && o.Size != 0 }

// OtcMarketsOrder is an order sourced from OTC Markets Group feeds, carrying
// their NMS and non-quote marker bits.
type OtcMarketsOrder struct {
	OrderEvent
	QuoteAccessPayment int32
	NmsConditional     bool
	OpenOrClose        bool
}

func NewOtcMarketsOrder(symbol Symbol) *OtcMarketsOrder {
	return &OtcMarketsOrder{OrderEvent: *NewOrder(symbol)}
}
func (*OtcMarketsOrder) EventType() Type { return OtcMarkets }
