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

package join

import (
	"sync"

	"golang.org/x/exp/slices"

	"github.com/SnellerInc/reljoin/relation"
	"github.com/SnellerInc/reljoin/sorting"
)

// SortMerge sorts private copies of both relations by their
// join keys and merges them. With more than one thread the
// left relation is sliced into contiguous chunks, each worker
// seeks its right-side start with a binary lower bound, and
// the per-worker result buffers are concatenated at the end.
//
// When the left side has fewer records than workers the
// strategy degrades to the nested-loop baseline.
func SortMerge(casts []relation.Cast, titles []relation.Title, opts *Options) []relation.Result {
	if len(casts) == 0 || len(titles) == 0 {
		return nil
	}
	threads := opts.threads()
	if threads > len(casts) {
		opts.logf("sort-merge: %d workers for %d left records, using nested loop", threads, len(casts))
		return NestedLoop(casts, titles)
	}

	// the inputs stay immutable; sort local copies
	left := append([]relation.Cast(nil), casts...)
	right := append([]relation.Title(nil), titles...)
	sorting.Chunked(left, (*relation.Cast).Less, threads)
	sorting.Chunked(right, (*relation.Title).Less, threads)

	if threads == 1 {
		var out []relation.Result
		mergeJoin(left, right, &out)
		return out
	}

	bounds := chunkBounds(left, threads)
	buffers := make([][]relation.Result, len(bounds)-1)
	var wg sync.WaitGroup
	wg.Add(len(buffers))
	for w := 0; w < len(buffers); w++ {
		w := w
		go func() {
			defer wg.Done()
			chunk := left[bounds[w]:bounds[w+1]]
			// skip right records below this chunk's first key
			from, _ := slices.BinarySearchFunc(right, chunk[0].MovieID,
				func(t relation.Title, key int32) int {
					if t.TitleID < key {
						return -1
					}
					if t.TitleID > key {
						return 1
					}
					return 0
				})
			mergeJoin(chunk, right[from:], &buffers[w])
		}()
	}
	wg.Wait()

	total := 0
	for _, b := range buffers {
		total += len(b)
	}
	out := make([]relation.Result, 0, total)
	for _, b := range buffers {
		out = append(out, b...)
	}
	return out
}

// chunkBounds returns the left-side chunk boundaries for p
// workers. Each nominal boundary moves forward to the first
// strictly greater key so that every key group is owned by
// exactly one chunk; boundaries collapsing onto each other
// leave fewer, never overlapping, chunks.
func chunkBounds(left []relation.Cast, p int) []int {
	size := len(left) / p
	bounds := []int{0}
	for w := 1; w < p; w++ {
		b := w * size
		if b <= bounds[len(bounds)-1] {
			continue
		}
		for b < len(left) && left[b].MovieID == left[b-1].MovieID {
			b++
		}
		if b > bounds[len(bounds)-1] && b < len(left) {
			bounds = append(bounds, b)
		}
	}
	return append(bounds, len(left))
}

// mergeJoin merges two key-sorted relations into dst. Equal
// keys on both sides form a block; the full Cartesian product
// of the block is emitted. Advancing only one side per match
// would drop pairs and is therefore not an option here.
func mergeJoin(left []relation.Cast, right []relation.Title, dst *[]relation.Result) {
	l, r := 0, 0
	for l < len(left) && r < len(right) {
		switch {
		case left[l].MovieID < right[r].TitleID:
			l++
		case left[l].MovieID > right[r].TitleID:
			r++
		default:
			key := left[l].MovieID
			lEnd := l
			for lEnd < len(left) && left[lEnd].MovieID == key {
				lEnd++
			}
			rEnd := r
			for rEnd < len(right) && right[rEnd].TitleID == key {
				rEnd++
			}
			for i := l; i < lEnd; i++ {
				for j := r; j < rEnd; j++ {
					*dst = append(*dst, relation.MakeResult(&left[i], &right[j]))
				}
			}
			l, r = lEnd, rEnd
		}
	}
}
