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

import "github.com/shopspring/decimal"

// timeSeriesEventBase is embedded by every time-series value type.
type timeSeriesEventBase struct {
	marketBase
	timeSeriesBase
}

// CandleEvent is an OHLC bar for a CandleSymbol.
type CandleEvent struct {
	timeSeriesEventBase
	Open   decimal.Decimal
	High   decimal.Decimal
	Low    decimal.Decimal
	Close  decimal.Decimal
	Volume decimal.Decimal
	Count  int64
}

func NewCandle(symbol Symbol) *CandleEvent {
	return &CandleEvent{timeSeriesEventBase: timeSeriesEventBase{marketBase: marketBase{symbol}}}
}
func (*CandleEvent) EventType() Type { return Candle }

// SeriesEvent carries put/call volatility-smile statistics for an option expiry.
type SeriesEvent struct {
	timeSeriesEventBase
	Expiration   int32
	Volatility   float64
	PutCallRatio float64
}

func NewSeries(symbol Symbol) *SeriesEvent {
	return &SeriesEvent{timeSeriesEventBase: timeSeriesEventBase{marketBase: marketBase{symbol}}}
}
func (*SeriesEvent) EventType() Type { return Series }

// TimeAndSaleEvent is a single reported trade, distinct from TradeEvent in
// that a source may republish or correct one by index.
type TimeAndSaleEvent struct {
	timeSeriesEventBase
	Price          decimal.Decimal
	Size           float64
	ExchangeCode   byte
	SaleConditions string
}

func NewTimeAndSale(symbol Symbol) *TimeAndSaleEvent {
	return &TimeAndSaleEvent{timeSeriesEventBase: timeSeriesEventBase{marketBase: marketBase{symbol}}}
}
func (*TimeAndSaleEvent) EventType() Type { return TimeAndSale }

// OptionSaleEvent is a TimeAndSaleEvent variant scoped to option-series trade reporting.
type OptionSaleEvent struct {
	TimeAndSaleEvent
	OptionSymbol    string
	UnderlyingPrice decimal.Decimal
}

func NewOptionSale(symbol Symbol) *OptionSaleEvent {
	return &OptionSaleEvent{TimeAndSaleEvent: *NewTimeAndSale(symbol)}
}
func (*OptionSaleEvent) EventType() Type { return OptionSale }

// GreeksEvent carries an option's theoretical sensitivities, published as a
// time-series so a subscriber can replay the volatility history of a series.
type GreeksEvent struct {
	timeSeriesEventBase
	Price      decimal.Decimal
	Volatility float64
	Delta      float64
	Gamma      float64
	Theta      float64
	Rho        float64
	Vega       float64
}

func NewGreeks(symbol Symbol) *GreeksEvent {
	return &GreeksEvent{timeSeriesEventBase: timeSeriesEventBase{marketBase: marketBase{symbol}}}
}
func (*GreeksEvent) EventType() Type { return Greeks }
