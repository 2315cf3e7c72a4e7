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

package event

// Flags is the per-event bitmask described in spec section 4.1. It rides
// alongside every indexed event and drives transaction/snapshot boundary
// detection in the TxModel.
type Flags uint8

const (
	// TxPending marks an event as mid-transaction; TxModel buffers it
	// instead of emitting until the run completes.
	TxPending Flags = 1 << iota
	// RemoveEvent marks an event as a deletion of its index.
	RemoveEvent
	// SnapshotBegin marks the first event of a snapshot transaction.
	SnapshotBegin
	// SnapshotEnd marks the last event of a snapshot transaction.
	SnapshotEnd
	// SnapshotMode is a legacy full-snapshot marker carried for
	// compatibility with feeds that never set SnapshotBegin/SnapshotEnd.
	SnapshotMode
	// RemoveSymbol is an unsubscribe-side marker. TxModel and Subscription
	// do not filter on it; events carrying it reach listeners like any other.
	RemoveSymbol
)

func (f Flags) has(bit Flags) bool { return f&bit != 0 }

// TxPending reports whether this event is mid-transaction.
func (f Flags) TxPending() bool { return f.has(TxPending) }

// RemoveEvent reports whether this event deletes its index.
func (f Flags) RemoveEvent() bool { return f.has(RemoveEvent) }

// SnapshotBegin reports whether this event opens a snapshot.
func (f Flags) SnapshotBegin() bool { return f.has(SnapshotBegin) }

// SnapshotEnd reports whether this event closes a snapshot.
func (f Flags) SnapshotEnd() bool { return f.has(SnapshotEnd) }

// SnapshotMode reports the legacy full-snapshot marker.
func (f Flags) SnapshotMode() bool { return f.has(SnapshotMode) }

// RemoveSymbol reports the unsubscribe-side marker.
func (f Flags) RemoveSymbol() bool { return f.has(RemoveSymbol) }

func (f Flags) String() string {
	if f == 0 {
		return "-"
	}
	s := ""
	add := func(bit Flags, c byte) {
		if f.has(bit) {
			s += string(c)
		}
	}
	add(TxPending, 'P')
	add(RemoveEvent, 'R')
	add(SnapshotBegin, 'B')
	add(SnapshotEnd, 'E')
	add(SnapshotMode, 'M')
	add(RemoveSymbol, 'X')
	return s
}
