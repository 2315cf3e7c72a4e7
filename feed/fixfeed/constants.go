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

// Package fixfeed implements a feed.FeedGateway backed by a quickfixgo FIX
// session, decoding Market Data Snapshot/Full Refresh (W) and Incremental
// Refresh (X) messages into event-package values.
package fixfeed

import "github.com/quickfixgo/quickfix"

const (
	msgTypeMarketDataRequest     = "V"
	msgTypeMarketDataSnapshot    = "W"
	msgTypeMarketDataIncremental = "X"
	msgTypeMarketDataReject      = "Y"

	fixTimeFormat  = "20060102-15:04:05.000"
	fixBeginString = "FIXT.1.1"

	subscriptionRequestTypeUnsubscribe = "2"
	subscriptionRequestTypeSubscribe   = "1"
	mdUpdateTypeIncremental            = "1"

	mdEntryTypeBid   = "0"
	mdEntryTypeOffer = "1"
	mdEntryTypeTrade = "2"
)

var (
	tagBeginString             = quickfix.Tag(8)
	tagMsgSeqNum               = quickfix.Tag(34)
	tagMsgType                 = quickfix.Tag(35)
	tagSenderCompId            = quickfix.Tag(49)
	tagSendingTime             = quickfix.Tag(52)
	tagTargetCompId            = quickfix.Tag(56)
	tagSymbol                  = quickfix.Tag(55)
	tagText                    = quickfix.Tag(58)
	tagMdReqId                 = quickfix.Tag(262)
	tagSubscriptionRequestType = quickfix.Tag(263)
	tagMarketDepth             = quickfix.Tag(264)
	tagMdUpdateType            = quickfix.Tag(265)
	tagNoMdEntryTypes          = quickfix.Tag(267)
	tagNoMdEntries             = quickfix.Tag(268)
	tagMdEntryType             = quickfix.Tag(269)
	tagMdEntryPx               = quickfix.Tag(270)
	tagMdEntrySize             = quickfix.Tag(271)
	tagMdEntryTime             = quickfix.Tag(273)
	tagMdReqRejReason          = quickfix.Tag(281)
	tagMdEntryPositionNo       = quickfix.Tag(290)
	tagNoRelatedSym            = quickfix.Tag(146)
)
