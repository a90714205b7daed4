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
	"fmt"
	"sync"

	"golang.org/x/exp/slices"

	"github.com/SnellerInc/reljoin/ints"
	"github.com/SnellerInc/reljoin/relation"
)

// Hash dispatches to one hash-join family member. Duplicate
// keys on the build side are kept as index lists so a key
// with multiplicity m on the left and n on the right yields
// all m*n pairs.
func Hash(casts []relation.Cast, titles []relation.Title, opts *Options) ([]relation.Result, error) {
	if len(casts) == 0 || len(titles) == 0 {
		return nil, nil
	}
	variant := HashUnordered
	if opts != nil {
		variant = opts.Variant
	}
	switch variant {
	case HashUnordered:
		return hashUnordered(casts, titles), nil
	case HashOrdered:
		return hashOrdered(casts, titles), nil
	case HashChunked:
		return hashChunked(casts, titles, opts.threads()), nil
	case HashCacheSized:
		return hashCacheSized(casts, titles, opts), nil
	}
	return nil, fmt.Errorf("unknown hash variant %d", int(variant))
}

// hashUnordered is the single-threaded build/probe on a Go
// map from key to the indices carrying it.
func hashUnordered(casts []relation.Cast, titles []relation.Title) []relation.Result {
	table := make(map[int32][]int32, len(titles))
	for i := range titles {
		table[titles[i].TitleID] = append(table[titles[i].TitleID], int32(i))
	}
	var out []relation.Result
	for i := range casts {
		for _, j := range table[casts[i].MovieID] {
			out = append(out, relation.MakeResult(&casts[i], &titles[j]))
		}
	}
	return out
}

// hashOrdered replaces the map with a key-sorted index probed
// by binary search, the analogue of an ordered map.
func hashOrdered(casts []relation.Cast, titles []relation.Title) []relation.Result {
	type entry struct {
		key int32
		idx int32
	}
	index := make([]entry, len(titles))
	for i := range titles {
		index[i] = entry{key: titles[i].TitleID, idx: int32(i)}
	}
	slices.SortFunc(index, func(a, b entry) int { return int(a.key) - int(b.key) })

	var out []relation.Result
	for i := range casts {
		key := casts[i].MovieID
		first, found := slices.BinarySearchFunc(index, key, func(e entry, k int32) int {
			return int(e.key) - int(k)
		})
		if !found {
			continue
		}
		// BinarySearchFunc lands on the first equal entry
		for j := first; j < len(index) && index[j].key == key; j++ {
			out = append(out, relation.MakeResult(&casts[i], &titles[index[j].idx]))
		}
	}
	return out
}

// hashChunked divides the build side into one contiguous
// range per worker. Every worker probes the entire left
// relation against its own table; the ranges are disjoint on
// the right, so each matching pair is found exactly once.
// Matches land in a mutex-guarded shared result.
func hashChunked(casts []relation.Cast, titles []relation.Title, threads int) []relation.Result {
	chunks := ints.Chunks(len(titles), threads)
	out := make([]relation.Result, 0, len(casts))
	var outMu sync.Mutex
	var wg sync.WaitGroup
	wg.Add(len(chunks))
	for _, in := range chunks {
		in := in
		go func() {
			defer wg.Done()
			probeSpan(casts, titles, in, &out, &outMu)
		}()
	}
	wg.Wait()
	return out
}

// probeSpan builds a table over titles[span] and probes every
// cast record against it.
func probeSpan(casts []relation.Cast, titles []relation.Title, span ints.Interval, out *[]relation.Result, outMu *sync.Mutex) {
	table := make(map[int32][]int32, span.Len())
	for i := span.Start; i < span.End; i++ {
		table[titles[i].TitleID] = append(table[titles[i].TitleID], int32(i))
	}
	var local []relation.Result
	for i := range casts {
		for _, j := range table[casts[i].MovieID] {
			local = append(local, relation.MakeResult(&casts[i], &titles[j]))
		}
	}
	if len(local) > 0 {
		outMu.Lock()
		*out = append(*out, local...)
		outMu.Unlock()
	}
}

// hashCacheSized slices the build side into chunks small
// enough for a per-worker table to stay L2-resident and feeds
// them through a bounded queue. When the build side cannot
// produce at least one cache-sized chunk per worker the
// strategy degrades to the plain chunked build.
func hashCacheSized(casts []relation.Cast, titles []relation.Title, opts *Options) []relation.Result {
	threads := opts.threads()
	capacity := opts.capacity()
	if len(titles)/threads < capacity {
		opts.logf("cache-sized hash: %d build records cannot fill %d chunks of %d, using chunked build",
			len(titles), threads, capacity)
		return hashChunked(casts, titles, threads)
	}

	out := make([]relation.Result, 0, len(casts))
	var outMu sync.Mutex
	spans := make(chan ints.Interval, threads)
	var wg sync.WaitGroup
	wg.Add(threads)
	for w := 0; w < threads; w++ {
		go func() {
			defer wg.Done()
			for span := range spans {
				probeSpan(casts, titles, span, &out, &outMu)
			}
		}()
	}
	for start := 0; start < len(titles); start += capacity {
		end := ints.Min(start+capacity, len(titles))
		spans <- ints.Interval{Start: start, End: end}
	}
	close(spans)
	wg.Wait()
	return out
}
