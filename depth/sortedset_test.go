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
	"testing"

	"github.com/dxfeed-samples/mdcore-go/event"
)

func TestSortedOrderSetInsertIsUniqueByIndex(t *testing.T) {
	s := newSortedOrderSet[*event.OrderEvent](buyLess[*event.OrderEvent])
	o := mkOrder(1, event.SideBuy, "10.00", 1, event.ScopeOrder)

	if !s.Insert(o) {
		t.Fatal("first Insert returned false")
	}
	if s.Insert(o) {
		t.Error("second Insert of the same index returned true, want false")
	}
}

func TestSortedOrderSetDirtyTailOfBookSuppressesNotification(t *testing.T) {
	s := newSortedOrderSet[*event.OrderEvent](buyLess[*event.OrderEvent])
	s.SetDepthLimit(1)

	top := mkOrder(1, event.SideBuy, "10.00", 1, event.ScopeOrder)
	s.Insert(top)
	s.ToSlice() // consume the change, resets IsChanged()

	// Inserting a lower-priced order beyond the depth-1 visible window
	// should not mark the set dirty (spec section 4.4 dirty accounting).
	tail := mkOrder(2, event.SideBuy, "1.00", 1, event.ScopeOrder)
	s.Insert(tail)

	if s.IsChanged() {
		t.Error("inserting beyond the visible window marked the set dirty")
	}
}

func TestSortedOrderSetClearBySource(t *testing.T) {
	s := newSortedOrderSet[*event.OrderEvent](buyLess[*event.OrderEvent])

	a := mkOrder(1, event.SideBuy, "10.00", 1, event.ScopeOrder)
	a.SetSource(event.OrderSourceNTV)
	b := mkOrder(2, event.SideBuy, "9.00", 1, event.ScopeOrder)
	b.SetSource(event.OrderSourceBATS)

	s.Insert(a)
	s.Insert(b)
	s.ClearBySource(event.OrderSourceNTV)

	remaining := s.ToSlice()
	if len(remaining) != 1 || remaining[0].Index() != b.Index() {
		t.Errorf("ClearBySource left %v, want only b", remaining)
	}
}

func TestSortedOrderSetEraseReturnsFalseForMissing(t *testing.T) {
	s := newSortedOrderSet[*event.OrderEvent](buyLess[*event.OrderEvent])
	o := mkOrder(1, event.SideBuy, "10.00", 1, event.ScopeOrder)
	if s.Erase(o) {
		t.Error("Erase of a never-inserted order returned true")
	}
}
