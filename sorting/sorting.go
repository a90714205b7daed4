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

// Package sorting implements the parallel sorts the join
// strategies rely on: a chunked sort that divides the input
// into contiguous runs sorted concurrently and then merged,
// and a recursive parallel merge sort.
//
// Neither sort is stable; the join contracts only require a
// strict weak order on the join key.
package sorting

import (
	"sync"

	"golang.org/x/exp/slices"

	"github.com/SnellerInc/reljoin/ints"
)

// Chunked sorts items using less with up to threads
// concurrent workers. The input is split into contiguous
// near-equal runs, each run is sorted independently, and the
// sorted runs are merged back into items.
func Chunked[T any](items []T, less func(a, b *T) bool, threads int) {
	if threads < 1 {
		threads = 1
	}
	cmp := func(a, b T) int {
		if less(&a, &b) {
			return -1
		}
		if less(&b, &a) {
			return 1
		}
		return 0
	}
	chunks := ints.Chunks(len(items), threads)
	if len(chunks) <= 1 {
		slices.SortFunc(items, cmp)
		return
	}
	var wg sync.WaitGroup
	wg.Add(len(chunks))
	for _, in := range chunks {
		in := in
		go func() {
			defer wg.Done()
			slices.SortFunc(items[in.Start:in.End], cmp)
		}()
	}
	wg.Wait()
	mergeRuns(items, chunks, less)
}

// mergeRuns merges the sorted runs described by chunks back
// into items. Two runs take a single binary merge; more runs
// take the k-way heap merge, which does the same work as the
// P-1 successive pairwise merges in one pass.
func mergeRuns[T any](items []T, chunks []ints.Interval, less func(a, b *T) bool) {
	if len(chunks) == 2 {
		scratch := make([]T, len(items))
		mergeInto(scratch, items[chunks[0].Start:chunks[0].End], items[chunks[1].Start:chunks[1].End], less)
		copy(items, scratch)
		return
	}
	kwayMerge(items, chunks, less)
}

// mergeInto merges sorted a and b into dst.
// len(dst) must equal len(a)+len(b).
func mergeInto[T any](dst, a, b []T, less func(x, y *T) bool) {
	i, j, k := 0, 0, 0
	for i < len(a) && j < len(b) {
		if less(&b[j], &a[i]) {
			dst[k] = b[j]
			j++
		} else {
			dst[k] = a[i]
			i++
		}
		k++
	}
	k += copy(dst[k:], a[i:])
	copy(dst[k:], b[j:])
}

// IsSorted reports whether items is ordered by less.
func IsSorted[T any](items []T, less func(a, b *T) bool) bool {
	for i := 1; i < len(items); i++ {
		if less(&items[i], &items[i-1]) {
			return false
		}
	}
	return true
}
