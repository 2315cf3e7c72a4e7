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

package subscription

import (
	"github.com/dxfeed-samples/mdcore-go/event"
)

// SetFromTime re-subscribes every symbol currently held by the
// subscription under a new TimeSeriesSubscriptionSymbol cursor. Symbols
// added after this call also pick up fromTime. Subsequent calls only
// affect symbols not already wrapped with an equal cursor.
//
// Per spec section 4.2, changing the cursor on an attached, already
// time-series subscription detaches and re-attaches each affected symbol
// so the gateway issues a fresh subscribe request from the new point.
func (s *DXFeedSubscription) SetFromTime(fromTime int64) error {
	s.mu.Lock()
	if err := s.checkOpenLocked("DXFeedSubscription.SetFromTime"); err != nil {
		s.mu.Unlock()
		return err
	}
	if s.hasFromTime && s.fromTime == fromTime {
		s.mu.Unlock()
		return nil
	}
	s.fromTime = fromTime
	s.hasFromTime = true
	current := make([]event.Symbol, 0, len(s.symbols))
	previous := make([]event.Symbol, 0, len(s.symbols))
	for _, sym := range s.symbols {
		current = append(current, event.UnwrapSymbol(sym))
		previous = append(previous, sym)
	}
	gw := s.gw
	s.mu.Unlock()

	if len(current) == 0 {
		return nil
	}

	if gw != nil {
		for _, sym := range previous {
			s.unsubscribeOne(sym)
		}
	}

	s.mu.Lock()
	for _, sym := range current {
		wrapped := event.TimeSeriesSubscriptionSymbol{Inner: sym, FromTime: fromTime}
		s.symbols[sym.String()] = wrapped
	}
	s.mu.Unlock()

	if gw != nil {
		s.mu.Lock()
		decorated := make([]event.Symbol, 0, len(current))
		for _, sym := range current {
			decorated = append(decorated, s.symbols[sym.String()])
		}
		s.mu.Unlock()
		for _, sym := range decorated {
			s.subscribeOne(gw, sym)
		}
	}
	return nil
}
