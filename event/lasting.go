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

// marketBase is embedded by every lasting event: just a symbol.
type marketBase struct {
	symbol Symbol
}

func (b marketBase) EventSymbol() Symbol { return b.symbol }

// QuoteEvent is the best bid/ask for a symbol.
type QuoteEvent struct {
	marketBase
	BidPrice decimal.Decimal
	BidSize  float64
	AskPrice decimal.Decimal
	AskSize  float64
	Time     int64 // ms since epoch
}

func NewQuote(symbol Symbol) *QuoteEvent { return &QuoteEvent{marketBase: marketBase{symbol}} }
func (*QuoteEvent) EventType() Type      { return Quote }

// TradeEvent is the last trade for a symbol.
type TradeEvent struct {
	marketBase
	Price     decimal.Decimal
	Size      float64
	Time      int64
	DayVolume decimal.Decimal
}

func NewTrade(symbol Symbol) *TradeEvent { return &TradeEvent{marketBase: marketBase{symbol}} }
func (*TradeEvent) EventType() Type      { return Trade }

// SummaryEvent carries OHLC and open-interest figures for the current trading day.
type SummaryEvent struct {
	marketBase
	DayOpenPrice decimal.Decimal
	DayHighPrice decimal.Decimal
	DayLowPrice  decimal.Decimal
	PrevDayClose decimal.Decimal
	OpenInterest float64
}

func NewSummary(symbol Symbol) *SummaryEvent { return &SummaryEvent{marketBase: marketBase{symbol}} }
func (*SummaryEvent) EventType() Type        { return Summary }

// ProfileEvent carries descriptive, slow-changing reference data for a symbol.
type ProfileEvent struct {
	marketBase
	Description   string
	TradingStatus string
	HaltStartTime int64
	HaltEndTime   int64
}

func NewProfile(symbol Symbol) *ProfileEvent { return &ProfileEvent{marketBase: marketBase{symbol}} }
func (*ProfileEvent) EventType() Type        { return Profile }

// TheoPriceEvent carries a theoretical option price and its sensitivities.
type TheoPriceEvent struct {
	marketBase
	Price decimal.Decimal
	Delta float64
	Gamma float64
	Time  int64
}

func NewTheoPrice(symbol Symbol) *TheoPriceEvent {
	return &TheoPriceEvent{marketBase: marketBase{symbol}}
}
func (*TheoPriceEvent) EventType() Type { return TheoPrice }

// UnderlyingEvent carries implied-volatility statistics for an option's underlying.
type UnderlyingEvent struct {
	marketBase
	Volatility      float64
	FrontVolatility float64
	BackVolatility  float64
}

func NewUnderlying(symbol Symbol) *UnderlyingEvent {
	return &UnderlyingEvent{marketBase: marketBase{symbol}}
}
func (*UnderlyingEvent) EventType() Type { return Underlying }
