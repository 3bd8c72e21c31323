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

// A reasonably simple hash map implementation which permits collisions.  The
// hash function of a key is not assumed to uniquely identify it, hence every
// bucket falls back on equality.

// Hasher provides a generic definition of a hashing function suitable for use
// within the hash map.  It additionally includes equality, since distinct keys
// may share a hashcode.
type Hasher[T any] interface {
	// Check whether two items are equal (or not).
	Equals(T) bool
	// Return a suitable hashcode.
	Hash() uint64
}

const (
	offset64 uint64 = 14695981039346656037
	prime64  uint64 = 1099511628211
)

// Combine folds zero or more hashcodes into one, using the FNV-1a mixing
// step.  The order of the hashcodes matters.
func Combine(hashes ...uint64) uint64 {
	hash := offset64
	//
	for _, h := range hashes {
		for i := 0; i < 8; i++ {
			hash ^= (h >> (8 * i)) & 0xff
			hash *= prime64
		}
	}
	//
	return hash
}

// String computes a hashcode for a given string.
func String(s string) uint64 {
	hash := offset64
	//
	for i := 0; i < len(s); i++ {
		hash ^= uint64(s[i])
		hash *= prime64
	}
	//
	return hash
}
