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
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/dxfeed-samples/mdcore-go/errs"
	"github.com/dxfeed-samples/mdcore-go/event"
	"github.com/dxfeed-samples/mdcore-go/feed"
	"github.com/google/uuid"
	"github.com/quickfixgo/quickfix"
)

// SessionConfig carries the FIX session identity and credentials, the way
// FixApp.Config did, generalized to any symmetric-key FIX market-data
// venue rather than one hardcoded broker.
type SessionConfig struct {
	ApiKey       string
	ApiSecret    string
	Passphrase   string
	SenderCompId string
	TargetCompId string
	PortfolioId  string
}

type liveRequest struct {
	eventType event.Type
	symbol    event.Symbol
	source    event.Source
	handler   feed.Handler
}

// Gateway is a feed.FeedGateway backed by a quickfixgo FIX session. Each
// Subscribe call sends a Market Data Request and registers the handler
// under a freshly minted MDReqID; decoded batches are routed back to that
// handler from FromApp.
type Gateway struct {
	config    SessionConfig
	initiator *quickfix.Initiator
	app       *fixApp

	mu       sync.Mutex
	requests map[string]*liveRequest
	closed   bool
}

// NewGateway starts a FIX initiator using settings (a quickfix session
// settings document, typically parsed from a .cfg file by the caller) and
// config for logon credentials.
func NewGateway(settings *quickfix.Settings, config SessionConfig) (*Gateway, error) {
	g := &Gateway{config: config, requests: make(map[string]*liveRequest)}
	g.app = &fixApp{gateway: g}

	storeFactory := quickfix.NewMemoryStoreFactory()
	logFactory := quickfix.NewNullLogFactory()

	initiator, err := quickfix.NewInitiator(g.app, storeFactory, settings, logFactory)
	if err != nil {
		return nil, errs.IllegalState("fixfeed.NewGateway", fmt.Sprintf("creating initiator: %v", err))
	}
	g.initiator = initiator

	if err := initiator.Start(); err != nil {
		return nil, errs.IllegalState("fixfeed.NewGateway", fmt.Sprintf("starting initiator: %v", err))
	}
	return g, nil
}

// Subscribe sends a Market Data Request for symbol/eventType and registers
// handler to receive decoded batches until the returned Subscription is
// closed.
func (g *Gateway) Subscribe(eventType event.Type, symbol event.Symbol, handler feed.Handler) (feed.Subscription, error) {
	g.mu.Lock()
	if g.closed {
		g.mu.Unlock()
		return nil, errs.IllegalState("fixfeed.Subscribe", "gateway is closed")
	}
	sessionID := g.app.sessionID()
	g.mu.Unlock()

	if entryTypesFor(eventType) == nil {
		return nil, errs.InvalidArgument("fixfeed.Subscribe", fmt.Sprintf("event type %s has no FIX market-data mapping", eventType))
	}

	mdReqId := uuid.NewString()
	source := event.DefaultSource

	g.mu.Lock()
	g.requests[mdReqId] = &liveRequest{eventType: eventType, symbol: symbol, source: source, handler: handler}
	g.mu.Unlock()

	req := buildMarketDataRequest(mdReqId, symbol.String(), eventType, 0, g.config.SenderCompId, g.config.TargetCompId)
	if err := quickfix.SendToTarget(req, sessionID); err != nil {
		g.mu.Lock()
		delete(g.requests, mdReqId)
		g.mu.Unlock()
		return nil, errs.IllegalState("fixfeed.Subscribe", fmt.Sprintf("sending market data request: %v", err))
	}

	return &fixSubscription{gateway: g, mdReqId: mdReqId, symbol: symbol.String()}, nil
}

// Close stops the underlying FIX initiator and unregisters every live
// request.
func (g *Gateway) Close() error {
	g.mu.Lock()
	if g.closed {
		g.mu.Unlock()
		return nil
	}
	g.closed = true
	g.requests = make(map[string]*liveRequest)
	g.mu.Unlock()

	g.initiator.Stop()
	return nil
}

func (g *Gateway) deliver(mdReqId string, msg *quickfix.Message, isSnapshot bool) {
	g.mu.Lock()
	req, ok := g.requests[mdReqId]
	g.mu.Unlock()
	if !ok {
		return
	}

	var batch []feed.InboundEvent
	var err error
	switch req.eventType {
	case event.Order, event.Quote:
		batch, err = decodeOrders(msg, req.symbol, req.source, isSnapshot)
	case event.Trade:
		batch, err = decodeTrades(msg, req.symbol)
	default:
		return
	}
	if err != nil {
		log.Printf("fixfeed: decode error for %s: %v", mdReqId, err)
		return
	}
	if len(batch) == 0 {
		return
	}
	req.handler(batch)
}

func (g *Gateway) reject(mdReqId, reason, text string) {
	log.Printf("fixfeed: market data request %s rejected: reason=%s text=%s", mdReqId, reason, text)
	g.mu.Lock()
	delete(g.requests, mdReqId)
	g.mu.Unlock()
}

type fixSubscription struct {
	gateway *Gateway
	mdReqId string
	symbol  string
}

func (s *fixSubscription) Close() error {
	s.gateway.mu.Lock()
	req, ok := s.gateway.requests[s.mdReqId]
	if ok {
		delete(s.gateway.requests, s.mdReqId)
	}
	sessionID := s.gateway.app.sessionID()
	closed := s.gateway.closed
	s.gateway.mu.Unlock()

	if !ok || closed {
		return nil
	}
	_ = req
	unsub := buildUnsubscribeRequest(s.mdReqId, s.symbol, s.gateway.config.SenderCompId, s.gateway.config.TargetCompId)
	if err := quickfix.SendToTarget(unsub, sessionID); err != nil {
		return errs.IllegalState("fixfeed.fixSubscription.Close", fmt.Sprintf("sending unsubscribe: %v", err))
	}
	return nil
}

// lastLogonGracePeriod mirrors FixApp.OnLogout's reconnection-loop guard.
const lastLogonGracePeriod = 5 * time.Second
