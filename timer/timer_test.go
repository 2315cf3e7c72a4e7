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

package timer

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestRunOnceFiresExactlyOnce(t *testing.T) {
	var calls atomic.Int32
	tm := RunOnce(func() { calls.Add(1) }, 20*time.Millisecond)
	tm.Wait()

	if got := calls.Load(); got != 1 {
		t.Errorf("calls = %d, want 1", got)
	}
	if tm.IsRunning() {
		t.Error("IsRunning() = true after RunOnce completed")
	}
}

func TestScheduleFiresPeriodically(t *testing.T) {
	var calls atomic.Int32
	tm := Schedule(func() { calls.Add(1) }, 5*time.Millisecond, 15*time.Millisecond)
	defer tm.Stop()

	time.Sleep(70 * time.Millisecond)
	tm.Stop()
	tm.Wait()

	if got := calls.Load(); got < 2 {
		t.Errorf("calls = %d, want at least 2", got)
	}
}

func TestStopIsIdempotent(t *testing.T) {
	tm := RunOnce(func() {}, time.Hour)
	tm.Stop()
	tm.Stop() // must not panic or block
	tm.Wait()
}

func TestStopBeforeDelayElapsesPreventsFiring(t *testing.T) {
	var fired atomic.Bool
	tm := RunOnce(func() { fired.Store(true) }, 200*time.Millisecond)
	tm.Stop()
	tm.Wait()

	if fired.Load() {
		t.Error("f fired despite Stop before the delay elapsed")
	}
}
