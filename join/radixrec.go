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

	"golang.org/x/sync/errgroup"

	"github.com/SnellerInc/reljoin/relation"
)

// RadixRecursive is the in-place co-partitioning variant: it
// splits each side one key bit per recursion level using a
// two-cursor swap partition, and at leaf depth joins each
// non-empty bucket with the same-index bucket of the other
// side. Buckets with no counterpart contribute nothing.
func RadixRecursive(casts []relation.Cast, titles []relation.Title, opts *Options) ([]relation.Result, error) {
	if len(casts) == 0 || len(titles) == 0 {
		return nil, nil
	}
	part := newPartitioner(opts)

	castPtrs := make([]*relation.Cast, len(casts))
	for i := range casts {
		castPtrs[i] = &casts[i]
	}
	titlePtrs := make([]*relation.Title, len(titles))
	for i := range titles {
		titlePtrs[i] = &titles[i]
	}

	lbuckets := make(map[int][]*relation.Cast)
	partitionBits(castPtrs, &part, castKey, 0, 0, func(idx int, span []*relation.Cast) {
		lbuckets[idx] = span
	})
	rbuckets := make(map[int][]*relation.Title)
	partitionBits(titlePtrs, &part, titleKey, 0, 0, func(idx int, span []*relation.Title) {
		rbuckets[idx] = span
	})

	var bufMu sync.Mutex
	var buffers [][]relation.Result
	var g errgroup.Group
	g.SetLimit(opts.threads())
	for idx, lspan := range lbuckets {
		rspan := rbuckets[idx]
		if len(rspan) == 0 {
			continue
		}
		lspan, rspan := lspan, rspan
		g.Go(func() error {
			appendBuffer(buildProbe(lspan, rspan), &buffers, &bufMu)
			return nil
		})
	}
	g.Wait()

	total := 0
	for _, b := range buffers {
		total += len(b)
	}
	out := make([]relation.Result, 0, total)
	for _, b := range buffers {
		out = append(out, b...)
	}
	return out, nil
}

// partitionBits recursively splits span on bit number depth
// of the partition value, clear bits first, until the bit
// depth reaches the partitioner's width; emit receives each
// non-empty leaf with its accumulated bucket index.
func partitionBits[T any](span []*T, part *partitioner, key func(*T) int32, depth, index int, emit func(int, []*T)) {
	if depth == part.bits {
		if len(span) > 0 {
			emit(index, span)
		}
		return
	}
	pivot := swapPartition(span, func(rec *T) bool {
		return part.bucket(key(rec))&(1<<depth) != 0
	})
	partitionBits(span[:pivot], part, key, depth+1, index, emit)
	partitionBits(span[pivot:], part, key, depth+1, index|1<<depth, emit)
}

// swapPartition reorders span so records for which bitSet
// reports false precede the rest, by exchanging offenders
// found by two cursors walking in from both ends. Returns the
// index of the first bitSet record.
func swapPartition[T any](span []*T, bitSet func(*T) bool) int {
	i, j := 0, len(span)-1
	for {
		for i <= j && !bitSet(span[i]) {
			i++
		}
		for i < j && bitSet(span[j]) {
			j--
		}
		if i >= j {
			return i
		}
		span[i], span[j] = span[j], span[i]
		i++
		j--
	}
}
