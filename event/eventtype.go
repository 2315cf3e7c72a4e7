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

// Package event defines the immutable-after-construct market event value
// types delivered by a feed: the lasting/indexed/time-series families, their
// flags, sources, and symbol wrappers described by the subscription model.
package event

import "github.com/dxfeed-samples/mdcore-go/errs"

// Category is a bitset describing which event families a Type belongs to.
type Category uint8

const (
	CategoryMarket Category = 1 << iota
	CategoryLasting
	CategoryIndexed
	CategoryTimeSeries
)

func (c Category) has(flag Category) bool {
	return c&flag != 0
}

// Type is an event-type tag: a numeric id plus the category flags that
// determine how a subscription and TxModel treat events of this kind.
type Type struct {
	id       int
	name     string
	category Category
}

// ID returns the numeric event-type id, stable across a process lifetime.
func (t Type) ID() int { return t.id }

// Name returns the human-readable event-type name (e.g. "Quote", "Order").
func (t Type) Name() string { return t.name }

// IsMarket reports whether events of this type carry a symbol.
func (t Type) IsMarket() bool { return t.category.has(CategoryMarket) }

// IsLasting reports whether events of this type have latest-value semantics.
func (t Type) IsLasting() bool { return t.category.has(CategoryLasting) }

// IsIndexed reports whether events of this type carry a 64-bit index and a source.
func (t Type) IsIndexed() bool { return t.category.has(CategoryIndexed) }

// IsTimeSeries reports whether the index encodes a (time, sequence) pair.
func (t Type) IsTimeSeries() bool { return t.category.has(CategoryTimeSeries) }

func (t Type) String() string { return t.name }

func newType(id int, name string, category Category) Type {
	return Type{id: id, name: name, category: category}
}

// Well-known event types. IDs are stable and dense; a real transport tags
// each inbound batch entry with one of these via Name()/ID().
var (
	Quote       = newType(1, "Quote", CategoryMarket|CategoryLasting)
	Trade       = newType(2, "Trade", CategoryMarket|CategoryLasting)
	Profile     = newType(3, "Profile", CategoryMarket|CategoryLasting)
	Summary     = newType(4, "Summary", CategoryMarket|CategoryLasting)
	TheoPrice   = newType(5, "TheoPrice", CategoryMarket|CategoryLasting)
	Underlying  = newType(6, "Underlying", CategoryMarket|CategoryLasting)
	Greeks      = newType(7, "Greeks", CategoryMarket|CategoryIndexed|CategoryTimeSeries)
	Order       = newType(8, "Order", CategoryMarket|CategoryIndexed)
	AnalyticOrd = newType(9, "AnalyticOrder", CategoryMarket|CategoryIndexed)
	SpreadOrd   = newType(10, "SpreadOrder", CategoryMarket|CategoryIndexed)
	OtcMarkets  = newType(11, "OtcMarketsOrder", CategoryMarket|CategoryIndexed)
	Series      = newType(12, "Series", CategoryMarket|CategoryIndexed|CategoryTimeSeries)
	TimeAndSale = newType(13, "TimeAndSale", CategoryMarket|CategoryIndexed|CategoryTimeSeries)
	OptionSale  = newType(14, "OptionSale", CategoryMarket|CategoryIndexed|CategoryTimeSeries)
	Candle      = newType(15, "Candle", CategoryMarket|CategoryIndexed|CategoryTimeSeries)
)

var byName = map[string]Type{
	Quote.name: Quote, Trade.name: Trade, Profile.name: Profile, Summary.name: Summary,
	TheoPrice.name: TheoPrice, Underlying.name: Underlying, Greeks.name: Greeks,
	Order.name: Order, AnalyticOrd.name: AnalyticOrd, SpreadOrd.name: SpreadOrd,
	OtcMarkets.name: OtcMarkets, Series.name: Series, TimeAndSale.name: TimeAndSale,
	OptionSale.name: OptionSale, Candle.name: Candle,
}

// TypeByName looks up a well-known event type by name, as used when a
// subscription is created from a list of textual type names.
func TypeByName(name string) (Type, error) {
	t, ok := byName[name]
	if !ok {
		return Type{}, errs.InvalidArgument("event.TypeByName", "unknown event type "+name)
	}
	return t, nil
}
