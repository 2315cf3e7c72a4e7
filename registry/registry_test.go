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

package registry

import (
	"sync"
	"testing"
)

type widget struct{ name string }

func TestRegisterIsIdempotentByIdentity(t *testing.T) {
	r := New[widget]()
	w := &widget{name: "a"}

	id1 := r.Register(w)
	id2 := r.Register(w)

	if id1 != id2 {
		t.Errorf("Register called twice on the same pointer returned different ids: %v != %v", id1, id2)
	}
}

func TestRegisterDistinctEntitiesGetDenseIDs(t *testing.T) {
	r := New[widget]()
	a := &widget{name: "a"}
	b := &widget{name: "b"}

	idA := r.Register(a)
	idB := r.Register(b)

	if idA == idB {
		t.Error("distinct entities got the same id")
	}
	if idB.Value() != idA.Value()+1 {
		t.Errorf("ids are not dense/monotonic: %d then %d", idA.Value(), idB.Value())
	}
}

func TestLookupMiss(t *testing.T) {
	r := New[widget]()
	if _, ok := r.Lookup(Unknown[widget]()); ok {
		t.Error("Lookup(Unknown) should miss")
	}
}

func TestUnregisterRemovesBothDirections(t *testing.T) {
	r := New[widget]()
	w := &widget{name: "a"}
	id := r.Register(w)

	if !r.Unregister(w) {
		t.Fatal("Unregister returned false for a registered entity")
	}
	if _, ok := r.Lookup(id); ok {
		t.Error("entity still reachable by id after Unregister")
	}
	if _, ok := r.IDOf(w); ok {
		t.Error("entity still reachable by identity after Unregister")
	}
	if r.Unregister(w) {
		t.Error("second Unregister of the same entity should report false")
	}
}

func TestRegistryConcurrentRegister(t *testing.T) {
	r := New[widget]()
	var wg sync.WaitGroup
	n := 200
	ws := make([]*widget, n)
	for i := range ws {
		ws[i] = &widget{name: "w"}
	}

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			r.Register(ws[i])
		}(i)
	}
	wg.Wait()

	seen := map[uint64]bool{}
	for _, w := range ws {
		id, ok := r.IDOf(w)
		if !ok {
			t.Fatalf("entity %p missing after concurrent registration", w)
		}
		if seen[id.Value()] {
			t.Fatalf("duplicate id %d minted under concurrency", id.Value())
		}
		seen[id.Value()] = true
	}
}
