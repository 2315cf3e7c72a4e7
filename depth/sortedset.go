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

package depth

import (
	"sort"
	"sync"

	"github.com/dxfeed-samples/mdcore-go/event"
)

// sortedOrderSet is one side of a MarketDepthModel's book: a slice kept
// sorted by less, ported from the original's std::set<shared_ptr<O>, Less>.
// Orders are unique by Index(); a duplicate Index() insert is a no-op, the
// same behavior std::set gives a Less that totally orders distinct orders.
type sortedOrderSet[O OrderLike] struct {
	mu         sync.Mutex
	orders     []O
	less       func(O, O) bool
	snapshot   []O
	depthLimit int
	changed    bool
}

func newSortedOrderSet[O OrderLike](less func(O, O) bool) *sortedOrderSet[O] {
	return &sortedOrderSet[O]{less: less}
}

func (s *sortedOrderSet[O]) isDepthLimitUnbounded() bool {
	return s.depthLimit <= 0
}

func (s *sortedOrderSet[O]) isOrderCountWithinDepthLimit() bool {
	return len(s.orders) <= s.depthLimit
}

// isOrderWithinDepthLimit reports whether order sorts at or before the
// current last visible snapshot entry.
func (s *sortedOrderSet[O]) isOrderWithinDepthLimit(order O) bool {
	if len(s.snapshot) == 0 {
		return true
	}
	last := s.snapshot[len(s.snapshot)-1]
	return !s.less(last, order)
}

func (s *sortedOrderSet[O]) updateSnapshotLocked() {
	s.changed = false
	limit := len(s.orders)
	if !s.isDepthLimitUnbounded() && s.depthLimit < limit {
		limit = s.depthLimit
	}
	s.snapshot = append(s.snapshot[:0], s.orders[:limit]...)
}

func (s *sortedOrderSet[O]) markChangedIfNeededLocked(order O) {
	if s.changed {
		return
	}
	if s.isDepthLimitUnbounded() || s.isOrderCountWithinDepthLimit() || s.isOrderWithinDepthLimit(order) {
		s.changed = true
	}
}

// IsChanged reports whether the set has pending changes not yet reflected
// in its last snapshot.
func (s *sortedOrderSet[O]) IsChanged() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.changed
}

// SetDepthLimit updates the visible-window bound.
func (s *sortedOrderSet[O]) SetDepthLimit(depthLimit int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if depthLimit == s.depthLimit {
		return
	}
	s.depthLimit = depthLimit
	s.changed = true
}

func (s *sortedOrderSet[O]) indexOfLocked(idx int64) int {
	for i, o := range s.orders {
		if o.Index() == idx {
			return i
		}
	}
	return -1
}

// Insert adds order to the set, reporting whether it was newly added
// (false if an order with the same Index() was already present).
func (s *sortedOrderSet[O]) Insert(order O) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.indexOfLocked(order.Index()) >= 0 {
		return false
	}

	pos := sort.Search(len(s.orders), func(i int) bool { return s.less(order, s.orders[i]) })
	s.orders = append(s.orders, order)
	copy(s.orders[pos+1:], s.orders[pos:])
	s.orders[pos] = order

	s.markChangedIfNeededLocked(order)
	return true
}

// Erase removes order (matched by Index()) from the set, reporting whether
// it was present.
func (s *sortedOrderSet[O]) Erase(order O) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOfLocked(order.Index())
	if i < 0 {
		return false
	}
	s.orders = append(s.orders[:i], s.orders[i+1:]...)
	s.markChangedIfNeededLocked(order)
	return true
}

// ClearBySource removes every order from source, marking the set changed
// if anything was actually removed.
func (s *sortedOrderSet[O]) ClearBySource(source event.Source) {
	s.mu.Lock()
	defer s.mu.Unlock()

	before := len(s.orders)
	kept := s.orders[:0]
	for _, o := range s.orders {
		if o.EventSource() != source {
			kept = append(kept, o)
		}
	}
	s.orders = kept
	if len(s.orders) != before {
		s.changed = true
	}
}

// ToSlice returns the current visible window, refreshing the snapshot
// first if the set has pending changes.
func (s *sortedOrderSet[O]) ToSlice() []O {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.changed {
		s.updateSnapshotLocked()
	}
	out := make([]O, len(s.snapshot))
	copy(out, s.snapshot)
	return out
}
