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

package fixfeed

import (
	"strconv"
	"time"

	"github.com/dxfeed-samples/mdcore-go/event"
	"github.com/quickfixgo/quickfix"
)

func setString(fs interface {
	SetField(tag quickfix.Tag, field quickfix.FieldValueWriter) *quickfix.FieldMap
}, tag quickfix.Tag, value string) {
	fs.SetField(tag, quickfix.FIXString(value))
}

func buildHeader(header *quickfix.Header, msgType, senderCompId, targetCompId string) {
	setString(header, tagBeginString, fixBeginString)
	setString(header, tagMsgType, msgType)
	setString(header, tagSenderCompId, senderCompId)
	setString(header, tagTargetCompId, targetCompId)
	setString(header, tagSendingTime, time.Now().UTC().Format(fixTimeFormat))
}

// entryTypesFor maps an event.Type to the MDEntryType codes a Market Data
// Request must ask for in order to receive events of that type.
func entryTypesFor(eventType event.Type) []string {
	switch eventType {
	case event.Trade:
		return []string{mdEntryTypeTrade}
	case event.Order:
		return []string{mdEntryTypeBid, mdEntryTypeOffer}
	case event.Quote:
		return []string{mdEntryTypeBid, mdEntryTypeOffer}
	default:
		return nil
	}
}

// buildMarketDataRequest builds a Market Data Request (V) for one symbol
// and event type, the way builder.BuildMarketDataRequest composes the
// header, MDEntryTypes group, and RelatedSym group.
func buildMarketDataRequest(mdReqId, symbol string, eventType event.Type, depth int, senderCompId, targetCompId string) *quickfix.Message {
	m := quickfix.NewMessage()
	buildHeader(&m.Header, msgTypeMarketDataRequest, senderCompId, targetCompId)

	setString(&m.Body, tagMdReqId, mdReqId)
	setString(&m.Body, tagSubscriptionRequestType, subscriptionRequestTypeSubscribe)
	setString(&m.Body, tagMarketDepth, strconv.Itoa(depth))
	setString(&m.Body, tagMdUpdateType, mdUpdateTypeIncremental)

	entryGroup := quickfix.NewRepeatingGroup(
		tagNoMdEntryTypes,
		quickfix.GroupTemplate{quickfix.GroupElement(tagMdEntryType)},
	)
	for _, et := range entryTypesFor(eventType) {
		setString(entryGroup.Add(), tagMdEntryType, et)
	}
	m.Body.SetGroup(entryGroup)

	symGroup := quickfix.NewRepeatingGroup(
		tagNoRelatedSym,
		quickfix.GroupTemplate{quickfix.GroupElement(tagSymbol)},
	)
	setString(symGroup.Add(), tagSymbol, symbol)
	m.Body.SetGroup(symGroup)

	return m
}

// buildUnsubscribeRequest re-sends the original request with
// SubscriptionRequestType=2 (disable previous snapshot+updates request),
// the standard FIX way to cancel a market data subscription.
func buildUnsubscribeRequest(mdReqId, symbol string, senderCompId, targetCompId string) *quickfix.Message {
	m := quickfix.NewMessage()
	buildHeader(&m.Header, msgTypeMarketDataRequest, senderCompId, targetCompId)
	setString(&m.Body, tagMdReqId, mdReqId)
	setString(&m.Body, tagSubscriptionRequestType, subscriptionRequestTypeUnsubscribe)

	symGroup := quickfix.NewRepeatingGroup(
		tagNoRelatedSym,
		quickfix.GroupTemplate{quickfix.GroupElement(tagSymbol)},
	)
	setString(symGroup.Add(), tagSymbol, symbol)
	m.Body.SetGroup(symGroup)

	return m
}

