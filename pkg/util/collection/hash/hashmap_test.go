// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package hash

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_HashMap_01(t *testing.T) {
	items := []uint{1, 2, 3, 4, 3, 2, 1}
	check_HashMap(t, items)
}

func Test_HashMap_02(t *testing.T) {
	check_HashMap(t, randomUints(10, 32))
}

func Test_HashMap_03(t *testing.T) {
	check_HashMap(t, randomUints(100, 32))
}

func Test_HashMap_04(t *testing.T) {
	check_HashMap(t, randomUints(1000, 1024))
}

func Test_HashMap_05(t *testing.T) {
	hmap := NewMap[testKey, uint](0)
	hmap.Insert(testKey{1}, 1)
	hmap.Insert(testKey{9}, 9)
	hmap.Clear()
	assert.Equal(t, uint(0), hmap.Size())
	assert.False(t, hmap.ContainsKey(testKey{1}))
}

func Test_HashCombine_01(t *testing.T) {
	assert.Equal(t, Combine(1, 2), Combine(1, 2))
	assert.NotEqual(t, Combine(1, 2), Combine(2, 1))
	assert.Equal(t, String("Int"), String("Int"))
	assert.NotEqual(t, String("Int"), String("Long"))
}

// ===================================================================
// Test Helpers
// ===================================================================

// testKey deliberately hashes into a handful of buckets so that collisions are
// exercised.
type testKey struct {
	value uint
}

func (p testKey) Equals(other testKey) bool {
	return p.value == other.value
}

func (p testKey) Hash() uint64 {
	return uint64(p.value % 8)
}

func check_HashMap(t *testing.T, items []uint) {
	gmap := initGoMap(items)
	hmap := NewMap[testKey, uint](0)
	// Insert items
	for key, val := range gmap {
		hmap.Insert(testKey{key}, val)
	}
	// Sanity check number of unique items
	if hmap.Size() != uint(len(gmap)) {
		t.Errorf("expected %d items, got %d: %s", len(gmap), hmap.Size(), hmap.String())
	}
	// Sanity check containership
	for key, val := range gmap {
		if !hmap.ContainsKey(testKey{key}) {
			t.Errorf("missing key %d: %s", key, hmap.String())
		} else if v, ok := hmap.Get(testKey{key}); !ok {
			t.Errorf("missing item %d=>%d: %s", key, val, hmap.String())
		} else if v != val {
			t.Errorf("expecting %d=>%d, got %d=>%d: %s", key, val, key, v, hmap.String())
		}
	}
}

func initGoMap(items []uint) map[uint]uint {
	gmap := make(map[uint]uint)
	//
	for _, v := range items {
		if w, ok := gmap[v]; ok {
			gmap[v] = w + 1
		} else {
			gmap[v] = 1
		}
	}
	//
	return gmap
}

func randomUints(n uint, bound uint) []uint {
	rng := rand.New(rand.NewSource(int64(n)))
	items := make([]uint, n)
	//
	for i := range items {
		items[i] = uint(rng.Intn(int(bound)))
	}
	//
	return items
}
