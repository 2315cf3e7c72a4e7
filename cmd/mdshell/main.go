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

// Command mdshell is an interactive shell over a market-data subscription,
// the way fixclient's Repl drove a live FIX session: it dials one
// transport, lets the operator subscribe/unsubscribe symbols and watch a
// depth book fill in, all from a readline prompt.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/dxfeed-samples/mdcore-go/depth"
	"github.com/dxfeed-samples/mdcore-go/event"
	"github.com/dxfeed-samples/mdcore-go/feed"
	"github.com/dxfeed-samples/mdcore-go/feed/fixfeed"
	"github.com/dxfeed-samples/mdcore-go/feed/wsfeed"
	"github.com/dxfeed-samples/mdcore-go/subscription"
	"github.com/quickfixgo/quickfix"
)

type shell struct {
	gw       feed.FeedGateway
	sub      *subscription.DXFeedSubscription
	books    map[string]*depth.MarketDepthModel[*event.OrderEvent]
	rl       *readline.Instance
}

func main() {
	transport := flag.String("transport", "ws", "feed transport: ws or fix")
	wsURL := flag.String("ws-url", "ws://localhost:8080/md", "WebSocket market-data endpoint (transport=ws)")
	fixConfig := flag.String("fix-config", "", "quickfix session settings file (transport=fix)")
	senderCompID := flag.String("sender-comp-id", "MDSHELL", "FIX SenderCompID (transport=fix)")
	targetCompID := flag.String("target-comp-id", "VENUE", "FIX TargetCompID (transport=fix)")
	flag.Parse()

	gw, err := connect(*transport, *wsURL, *fixConfig, *senderCompID, *targetCompID)
	if err != nil {
		log.Fatalf("mdshell: %v", err)
	}
	defer gw.Close()

	sub, err := subscription.New(event.Trade, event.Quote, event.Order)
	if err != nil {
		log.Fatalf("mdshell: %v", err)
	}
	defer sub.Close()

	sh := &shell{gw: gw, sub: sub, books: make(map[string]*depth.MarketDepthModel[*event.OrderEvent])}
	sub.AddEventListener(sh.printBatch)
	if err := sub.Attach(gw); err != nil {
		log.Fatalf("mdshell: attach: %v", err)
	}

	sh.run()
}

func connect(transport, wsURL, fixConfig, senderCompID, targetCompID string) (feed.FeedGateway, error) {
	switch transport {
	case "ws":
		return wsfeed.NewGateway(wsURL)
	case "fix":
		if fixConfig == "" {
			return nil, fmt.Errorf("-fix-config is required for transport=fix")
		}
		f, err := os.Open(fixConfig)
		if err != nil {
			return nil, fmt.Errorf("opening fix config: %w", err)
		}
		defer f.Close()
		settings, err := quickfix.ParseSettings(f)
		if err != nil {
			return nil, fmt.Errorf("parsing fix config: %w", err)
		}
		return fixfeed.NewGateway(settings, fixfeed.SessionConfig{
			SenderCompId: senderCompID,
			TargetCompId: targetCompID,
		})
	default:
		return nil, fmt.Errorf("unknown transport %q, want ws or fix", transport)
	}
}

func (sh *shell) printBatch(batch []feed.InboundEvent) {
	for _, ie := range batch {
		switch e := ie.Event.(type) {
		case *event.TradeEvent:
			fmt.Printf("TRADE  %-10s price=%s size=%.4f\n", e.EventSymbol(), e.Price, e.Size)
		case *event.QuoteEvent:
			fmt.Printf("QUOTE  %-10s bid=%s@%.4f ask=%s@%.4f\n", e.EventSymbol(), e.BidPrice, e.BidSize, e.AskPrice, e.AskSize)
		case *event.OrderEvent:
			fmt.Printf("ORDER  %-10s side=%s price=%s size=%.4f flags=%s\n", e.EventSymbol(), e.Side, e.Price, e.Size, e.EventFlags())
		}
	}
}

func (sh *shell) run() {
	completer := readline.NewPrefixCompleter(
		readline.PcItem("subscribe"),
		readline.PcItem("unsubscribe"),
		readline.PcItem("depth"),
		readline.PcItem("undepth"),
		readline.PcItem("symbols"),
		readline.PcItem("status"),
		readline.PcItem("help"),
		readline.PcItem("exit"),
	)

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "mdshell> ",
		HistoryFile:     "/tmp/mdshell_history",
		AutoComplete:    completer,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		log.Printf("mdshell: failed to create readline: %v", err)
		return
	}
	defer rl.Close()
	sh.rl = rl

	sh.displayHelp()
	for {
		line, err := rl.Readline()
		if err != nil {
			break
		}
		parts := strings.Fields(strings.TrimSpace(line))
		if len(parts) == 0 {
			continue
		}

		switch strings.ToLower(parts[0]) {
		case "subscribe":
			sh.handleSubscribe(parts)
		case "unsubscribe":
			sh.handleUnsubscribe(parts)
		case "depth":
			sh.handleDepth(parts)
		case "undepth":
			sh.handleUndepth(parts)
		case "symbols":
			sh.handleSymbols()
		case "status":
			fmt.Printf("symbols=%d books=%d\n", len(sh.sub.GetSymbols()), len(sh.books))
		case "help":
			sh.displayHelp()
		case "exit":
			return
		default:
			fmt.Println("unknown command, type 'help' for available commands")
		}
	}
}

func (sh *shell) handleSubscribe(parts []string) {
	if len(parts) < 2 {
		fmt.Println("usage: subscribe SYMBOL")
		return
	}
	if err := sh.sub.AddSymbols(event.PlainSymbol(parts[1])); err != nil {
		fmt.Printf("subscribe failed: %v\n", err)
	}
}

func (sh *shell) handleUnsubscribe(parts []string) {
	if len(parts) < 2 {
		fmt.Println("usage: unsubscribe SYMBOL")
		return
	}
	if err := sh.sub.RemoveSymbols(event.PlainSymbol(parts[1])); err != nil {
		fmt.Printf("unsubscribe failed: %v\n", err)
	}
}

func (sh *shell) handleDepth(parts []string) {
	if len(parts) < 2 {
		fmt.Println("usage: depth SYMBOL [limit]")
		return
	}
	symbol := parts[1]
	if _, exists := sh.books[symbol]; exists {
		fmt.Printf("already tracking depth for %s\n", symbol)
		return
	}

	limit := 0
	if len(parts) >= 3 {
		n, err := strconv.Atoi(parts[2])
		if err != nil {
			fmt.Printf("invalid limit %q: %v\n", parts[2], err)
			return
		}
		limit = n
	}

	model, err := depth.NewBuilder[*event.OrderEvent](event.Order).
		WithSymbol(event.PlainSymbol(symbol)).
		WithDepthLimit(limit).
		WithListener(func(buy, sell []*event.OrderEvent) {
			fmt.Printf("DEPTH %-10s buy=%d sell=%d\n", symbol, len(buy), len(sell))
			for i, o := range buy {
				fmt.Printf("  bid[%d] %s @ %.4f\n", i, o.Price, o.Size)
			}
			for i, o := range sell {
				fmt.Printf("  ask[%d] %s @ %.4f\n", i, o.Price, o.Size)
			}
		}).
		Build()
	if err != nil {
		fmt.Printf("depth failed: %v\n", err)
		return
	}
	if err := model.Attach(sh.gw); err != nil {
		fmt.Printf("depth attach failed: %v\n", err)
		return
	}
	sh.books[symbol] = model
}

func (sh *shell) handleUndepth(parts []string) {
	if len(parts) < 2 {
		fmt.Println("usage: undepth SYMBOL")
		return
	}
	model, ok := sh.books[parts[1]]
	if !ok {
		fmt.Printf("not tracking depth for %s\n", parts[1])
		return
	}
	if err := model.Close(); err != nil {
		fmt.Printf("undepth failed: %v\n", err)
	}
	delete(sh.books, parts[1])
}

func (sh *shell) handleSymbols() {
	for _, sym := range sh.sub.GetSymbols() {
		fmt.Println(sym)
	}
}

func (sh *shell) displayHelp() {
	fmt.Println(`commands:
  subscribe SYMBOL        start receiving trade/quote/order events for SYMBOL
  unsubscribe SYMBOL      stop receiving events for SYMBOL
  depth SYMBOL [limit]    track an aggregated order book for SYMBOL
  undepth SYMBOL          stop tracking SYMBOL's order book
  symbols                 list subscribed symbols
  status                  show symbol and book counts
  help                    show this message
  exit                    quit`)
}
