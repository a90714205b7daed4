// Copyright 2023 Sneller, Inc.
//
//  Licensed under the Apache License, Version 2.0 (the "License");
//  you may not use this file except in compliance with the License.
//  You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
//  Unless required by applicable law or agreed to in writing, software
//  distributed under the License is distributed on an "AS IS" BASIS,
//  WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
//  See the License for the specific language governing permissions and
//  limitations under the License.

package sorting

import (
	"math/rand"
	"reflect"
	"testing"
)

func lessInt(a, b *int) bool { return *a < *b }

func randomInts(r *rand.Rand, n, span int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = r.Intn(span)
	}
	return out
}

func TestChunked(t *testing.T) {
	r := rand.New(rand.NewSource(0))
	for _, n := range []int{0, 1, 2, 31, 100, 1000, 65537} {
		for _, threads := range []int{1, 2, 3, 8, 16} {
			items := randomInts(r, n, 1000)
			counts := histogram(items)
			Chunked(items, lessInt, threads)
			if !IsSorted(items, lessInt) {
				t.Fatalf("n=%d threads=%d: not sorted", n, threads)
			}
			if !reflect.DeepEqual(histogram(items), counts) {
				t.Fatalf("n=%d threads=%d: element multiset changed", n, threads)
			}
		}
	}
}

func TestMergeSort(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	for _, n := range []int{0, 1, 31, 32, 1000, 1 << 15} {
		for _, threads := range []int{1, 4, 8} {
			items := randomInts(r, n, 500)
			counts := histogram(items)
			MergeSort(items, lessInt, threads)
			if !IsSorted(items, lessInt) {
				t.Fatalf("n=%d threads=%d: not sorted", n, threads)
			}
			if !reflect.DeepEqual(histogram(items), counts) {
				t.Fatalf("n=%d threads=%d: element multiset changed", n, threads)
			}
		}
	}
}

// sorting an already-sorted input must be the identity
func TestSortIdempotent(t *testing.T) {
	r := rand.New(rand.NewSource(2))
	items := randomInts(r, 4096, 64)
	Chunked(items, lessInt, 4)
	first := append([]int(nil), items...)
	Chunked(items, lessInt, 4)
	if !reflect.DeepEqual(items, first) {
		t.Fatal("Chunked is not idempotent on sorted input")
	}
	MergeSort(items, lessInt, 4)
	if !reflect.DeepEqual(items, first) {
		t.Fatal("MergeSort changed a sorted input")
	}
}

func TestKwayMergeMatchesPairwise(t *testing.T) {
	r := rand.New(rand.NewSource(3))
	for _, threads := range []int{3, 5, 7} {
		items := randomInts(r, 999, 100)
		ref := append([]int(nil), items...)
		Chunked(items, lessInt, threads)
		Chunked(ref, lessInt, 2)
		if !reflect.DeepEqual(items, ref) {
			t.Fatalf("threads=%d: k-way and pairwise merges disagree", threads)
		}
	}
}

func histogram(items []int) map[int]int {
	h := make(map[int]int)
	for _, v := range items {
		h[v]++
	}
	return h
}
