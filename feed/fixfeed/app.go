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
	"log"
	"sync"
	"time"

	"github.com/quickfixgo/quickfix"
)

// fixApp implements quickfix.Application, the way FixApp did: it routes
// inbound messages by MsgType, tracks the session for outbound sends, and
// leaves request bookkeeping to the owning Gateway.
type fixApp struct {
	gateway *Gateway

	mu            sync.Mutex
	sid           quickfix.SessionID
	lastLogonTime time.Time
}

func (a *fixApp) sessionID() quickfix.SessionID {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.sid
}

func (a *fixApp) OnCreate(sid quickfix.SessionID) {
	a.mu.Lock()
	a.sid = sid
	a.mu.Unlock()
}

func (a *fixApp) OnLogon(sid quickfix.SessionID) {
	a.mu.Lock()
	a.sid = sid
	a.lastLogonTime = time.Now()
	a.mu.Unlock()
	log.Printf("fixfeed: logon %s", sid)
}

func (a *fixApp) OnLogout(sid quickfix.SessionID) {
	a.mu.Lock()
	sinceLogon := time.Since(a.lastLogonTime)
	neverLoggedOn := a.lastLogonTime.IsZero()
	a.mu.Unlock()

	log.Printf("fixfeed: logout %s", sid)
	if neverLoggedOn || sinceLogon < lastLogonGracePeriod {
		log.Printf("fixfeed: logout within %s of logon, likely an auth failure", lastLogonGracePeriod)
	}
}

func (a *fixApp) FromAdmin(_ *quickfix.Message, _ quickfix.SessionID) quickfix.MessageRejectError {
	return nil
}

func (a *fixApp) ToApp(_ *quickfix.Message, _ quickfix.SessionID) error {
	return nil
}

func (a *fixApp) ToAdmin(msg *quickfix.Message, _ quickfix.SessionID) {
	t, _ := msg.Header.GetString(tagMsgType)
	if t != "A" {
		return
	}
	cfg := a.gateway.config
	setString(&msg.Body, quickfix.Tag(553), cfg.ApiKey)
	setString(&msg.Body, quickfix.Tag(554), cfg.Passphrase)
	setString(&msg.Body, quickfix.Tag(1), cfg.PortfolioId)
}

// FromApp routes every application-level message by MsgType, the way
// FixApp.FromApp does: market data snapshots/incrementals go to the
// gateway's decode-and-deliver path, rejects unregister the request.
func (a *fixApp) FromApp(msg *quickfix.Message, _ quickfix.SessionID) quickfix.MessageRejectError {
	t, _ := msg.Header.GetString(tagMsgType)
	mdReqId, _ := msg.Body.GetString(tagMdReqId)

	switch t {
	case msgTypeMarketDataSnapshot:
		a.gateway.deliver(mdReqId, msg, true)
	case msgTypeMarketDataIncremental:
		a.gateway.deliver(mdReqId, msg, false)
	case msgTypeMarketDataReject:
		reason, _ := msg.Body.GetString(tagMdReqRejReason)
		text, _ := msg.Body.GetString(tagText)
		a.gateway.reject(mdReqId, reason, text)
	default:
		log.Printf("fixfeed: unhandled application message type %s", t)
	}
	return nil
}
