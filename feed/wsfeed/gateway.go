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

package wsfeed

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/dxfeed-samples/mdcore-go/errs"
	"github.com/dxfeed-samples/mdcore-go/event"
	"github.com/dxfeed-samples/mdcore-go/feed"
	"github.com/gorilla/websocket"
)

const (
	writeWait         = 10 * time.Second
	pongWait          = 60 * time.Second
	pingPeriod        = (pongWait * 9) / 10
	maxConnectRetries = 5
)

// subKey identifies one (channel, symbol) registration, the unit this
// transport subscribes and routes by.
type subKey struct {
	channel string
	symbol  string
}

type liveSub struct {
	eventType event.Type
	symbol    event.Symbol
	handler   feed.Handler
}

// Gateway is a feed.FeedGateway backed by a single WebSocket connection,
// the way rtds.Client manages one connection to a market-data channel:
// dial with retry, ping to keep the connection alive, reconnect and
// resubscribe on drop.
type Gateway struct {
	url    string
	dialer *websocket.Dialer

	mu      sync.Mutex
	conn    *websocket.Conn
	subs    map[subKey]*liveSub
	closed  bool
	done    chan struct{}
	writeMu sync.Mutex

	reconnectMu  sync.Mutex
	reconnecting bool
}

// NewGateway dials url and starts the read/ping loops. url is a ws:// or
// wss:// endpoint serving the JSON protocol decoded by protocol.go.
func NewGateway(url string) (*Gateway, error) {
	g := &Gateway{
		url:    url,
		dialer: websocket.DefaultDialer,
		subs:   make(map[subKey]*liveSub),
		done:   make(chan struct{}),
	}
	if err := g.connectWithRetry(); err != nil {
		return nil, err
	}
	return g, nil
}

func (g *Gateway) connectWithRetry() error {
	var err error
	backoff := 1 * time.Second

	for i := 0; i < maxConnectRetries; i++ {
		select {
		case <-g.done:
			return errs.IllegalState("wsfeed.connectWithRetry", "gateway is closed")
		default:
		}

		var conn *websocket.Conn
		conn, _, err = g.dialer.Dial(g.url, nil)
		if err == nil {
			g.mu.Lock()
			g.conn = conn
			existing := make([]*liveSub, 0, len(g.subs))
			for _, s := range g.subs {
				existing = append(existing, s)
			}
			g.mu.Unlock()

			for _, s := range existing {
				channel, _ := channelFor(s.eventType)
				g.send(controlMessage{Action: actionSubscribe, Channel: channel, Symbols: []string{s.symbol.String()}})
			}

			go g.readLoop()
			go g.pingLoop()
			return nil
		}

		log.Printf("wsfeed: connect to %s failed: %v, retrying in %s", g.url, err, backoff)
		time.Sleep(backoff)
		backoff *= 2
	}
	return errs.IllegalState("wsfeed.connectWithRetry", fmt.Sprintf("failed to connect after %d attempts: %v", maxConnectRetries, err))
}

func (g *Gateway) send(msg controlMessage) error {
	g.mu.Lock()
	conn := g.conn
	g.mu.Unlock()
	if conn == nil {
		return errs.IllegalState("wsfeed.send", "no active connection")
	}
	g.writeMu.Lock()
	defer g.writeMu.Unlock()
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(msg)
}

// Subscribe registers handler for eventType events on symbol and sends a
// subscribe control message for its channel.
func (g *Gateway) Subscribe(eventType event.Type, symbol event.Symbol, handler feed.Handler) (feed.Subscription, error) {
	channel, err := channelFor(eventType)
	if err != nil {
		return nil, err
	}

	g.mu.Lock()
	if g.closed {
		g.mu.Unlock()
		return nil, errs.IllegalState("wsfeed.Subscribe", "gateway is closed")
	}
	key := subKey{channel: channel, symbol: symbol.String()}
	g.subs[key] = &liveSub{eventType: eventType, symbol: symbol, handler: handler}
	g.mu.Unlock()

	if err := g.send(controlMessage{Action: actionSubscribe, Channel: channel, Symbols: []string{symbol.String()}}); err != nil {
		g.mu.Lock()
		delete(g.subs, key)
		g.mu.Unlock()
		return nil, errs.IllegalState("wsfeed.Subscribe", fmt.Sprintf("sending subscribe: %v", err))
	}

	return &wsSubscription{gateway: g, key: key}, nil
}

// Close tears down the connection and every registration.
func (g *Gateway) Close() error {
	g.mu.Lock()
	if g.closed {
		g.mu.Unlock()
		return nil
	}
	g.closed = true
	conn := g.conn
	g.subs = make(map[subKey]*liveSub)
	g.mu.Unlock()

	close(g.done)
	if conn != nil {
		return conn.Close()
	}
	return nil
}

func (g *Gateway) dispatch(raw []byte) {
	msgs, err := decodeFrame(raw)
	if err != nil {
		log.Printf("wsfeed: %v", err)
		return
	}

	grouped := make(map[subKey][]feed.InboundEvent)
	for _, m := range msgs {
		key := subKey{channel: m.Channel, symbol: m.Symbol}
		g.mu.Lock()
		sub, ok := g.subs[key]
		g.mu.Unlock()
		if !ok {
			continue
		}
		ev, err := toEvent(m.Channel, sub.symbol, m)
		if err != nil {
			log.Printf("wsfeed: %v", err)
			continue
		}
		grouped[key] = append(grouped[key], ev)
	}

	for key, batch := range grouped {
		g.mu.Lock()
		sub, ok := g.subs[key]
		g.mu.Unlock()
		if ok {
			sub.handler(batch)
		}
	}
}

func (g *Gateway) readLoop() {
	g.mu.Lock()
	conn := g.conn
	g.mu.Unlock()
	if conn == nil {
		return
	}

	conn.SetReadLimit(10 * 1024 * 1024)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	defer g.handleDisconnect(conn)

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			select {
			case <-g.done:
			default:
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
					log.Printf("wsfeed: read error: %v", err)
				}
			}
			return
		}
		g.dispatch(message)
	}
}

func (g *Gateway) handleDisconnect(conn *websocket.Conn) {
	g.mu.Lock()
	if g.conn == conn {
		g.conn = nil
	}
	closed := g.closed
	g.mu.Unlock()
	conn.Close()

	if closed {
		return
	}

	g.reconnectMu.Lock()
	if g.reconnecting {
		g.reconnectMu.Unlock()
		return
	}
	g.reconnecting = true
	g.reconnectMu.Unlock()

	go func() {
		defer func() {
			g.reconnectMu.Lock()
			g.reconnecting = false
			g.reconnectMu.Unlock()
		}()
		if err := g.connectWithRetry(); err != nil {
			log.Printf("wsfeed: reconnect failed: %v", err)
		}
	}()
}

func (g *Gateway) pingLoop() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-g.done:
			return
		case <-ticker.C:
			g.mu.Lock()
			conn := g.conn
			g.mu.Unlock()
			if conn == nil {
				return
			}
			g.writeMu.Lock()
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			err := conn.WriteMessage(websocket.PingMessage, nil)
			g.writeMu.Unlock()
			if err != nil {
				return
			}
		}
	}
}

type wsSubscription struct {
	gateway *Gateway
	key     subKey
}

func (s *wsSubscription) Close() error {
	s.gateway.mu.Lock()
	_, ok := s.gateway.subs[s.key]
	if ok {
		delete(s.gateway.subs, s.key)
	}
	closed := s.gateway.closed
	s.gateway.mu.Unlock()

	if !ok || closed {
		return nil
	}
	return s.gateway.send(controlMessage{Action: actionUnsubscribe, Channel: s.key.channel, Symbols: []string{s.key.symbol}})
}
