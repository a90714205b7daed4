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
	"encoding/binary"
	"fmt"
	"sync"

	"github.com/dchest/siphash"
	"golang.org/x/sync/errgroup"

	"github.com/SnellerInc/reljoin/ints"
	"github.com/SnellerInc/reljoin/pool"
	"github.com/SnellerInc/reljoin/relation"
)

// partitioner maps a join key to its bucket. The same
// function must be used on both sides of a join; Radix scatters
// both relations with one partitioner and rejects the join when
// the two sides report different bucket counts.
type partitioner struct {
	bits   int
	mask   uint64
	hashed bool
	k0, k1 uint64
}

func newPartitioner(opts *Options) partitioner {
	b := 0
	if opts != nil {
		b = opts.RadixBits
	}
	if b <= 0 {
		b = ints.Log2Ceil(opts.threads())
	}
	if b < 1 {
		b = 1
	}
	p := partitioner{bits: b, mask: uint64(1)<<b - 1}
	if opts != nil && opts.Hashed {
		p.hashed = true
		p.k0, p.k1 = opts.Seed0, opts.Seed1
	}
	return p
}

func (p *partitioner) buckets() int { return 1 << p.bits }

// bucket returns the partition index of key. The bare mask
// suffices for well-distributed integer keys; hashing defends
// against inputs skewed in their low-order bits.
func (p *partitioner) bucket(key int32) int {
	if !p.hashed {
		return int(uint64(uint32(key)) & p.mask)
	}
	var raw [4]byte
	binary.LittleEndian.PutUint32(raw[:], uint32(key))
	return int(siphash.Hash(p.k0, p.k1, raw[:]) & p.mask)
}

// Radix is the co-partitioning join: both relations are
// scattered into 2^b buckets of the same function of the key,
// so each bucket pair can be joined independently. Oversized
// right-side buckets are joined in cache-sized sub-chunks,
// each submitted as its own pool task by the bucket's task.
func Radix(casts []relation.Cast, titles []relation.Title, opts *Options) ([]relation.Result, error) {
	if len(casts) == 0 || len(titles) == 0 {
		return nil, nil
	}
	threads := opts.threads()
	part := newPartitioner(opts)

	castPtrs, castStarts := scatter(casts, castKey, &part, threads)
	titlePtrs, titleStarts := scatter(titles, titleKey, &part, threads)
	if len(castStarts) != len(titleStarts) {
		return nil, fmt.Errorf("co-partition mismatch: %d vs %d buckets",
			len(castStarts)-1, len(titleStarts)-1)
	}

	capacity := opts.capacity()
	var bufMu sync.Mutex
	var buffers [][]relation.Result

	workers := pool.New(threads)
	defer workers.Close()
	for i := 0; i < part.buckets(); i++ {
		lspan := castPtrs[castStarts[i]:castStarts[i+1]]
		rspan := titlePtrs[titleStarts[i]:titleStarts[i+1]]
		if len(lspan) == 0 || len(rspan) == 0 {
			continue
		}
		lspan, rspan := lspan, rspan
		workers.Submit(func() {
			if len(rspan) <= capacity {
				appendBuffer(buildProbe(lspan, rspan), &buffers, &bufMu)
				return
			}
			// sub-divide; the sub-tasks run on the same pool
			for s := 0; s < len(rspan); s += capacity {
				sub := rspan[s:ints.Min(s+capacity, len(rspan))]
				workers.Submit(func() {
					appendBuffer(buildProbe(lspan, sub), &buffers, &bufMu)
				})
			}
		})
	}
	workers.Wait()

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

func castKey(c *relation.Cast) int32   { return c.MovieID }
func titleKey(t *relation.Title) int32 { return t.TitleID }

// scatter co-locates the records of each bucket. The first
// pass tallies bucket sizes with one private count array per
// worker; prefix sums over the combined counts give every
// worker an exclusive write cursor per bucket, so the scatter
// pass needs no synchronization. starts has one extra entry:
// bucket i occupies out[starts[i]:starts[i+1]].
func scatter[T any](recs []T, key func(*T) int32, part *partitioner, threads int) ([]*T, []int) {
	nparts := part.buckets()
	chunks := ints.Chunks(len(recs), threads)

	counts := make([][]int, len(chunks))
	var g errgroup.Group
	for w := range chunks {
		w := w
		g.Go(func() error {
			local := make([]int, nparts)
			for i := chunks[w].Start; i < chunks[w].End; i++ {
				local[part.bucket(key(&recs[i]))]++
			}
			counts[w] = local
			return nil
		})
	}
	g.Wait()

	starts := make([]int, nparts+1)
	for b := 0; b < nparts; b++ {
		starts[b+1] = starts[b]
		for w := range counts {
			starts[b+1] += counts[w][b]
		}
	}

	out := make([]*T, len(recs))
	for w := range chunks {
		w := w
		// cursor[b]: where worker w writes its first record of
		// bucket b (bucket start plus earlier workers' shares)
		cursor := make([]int, nparts)
		for b := 0; b < nparts; b++ {
			cursor[b] = starts[b]
			for prev := 0; prev < w; prev++ {
				cursor[b] += counts[prev][b]
			}
		}
		g.Go(func() error {
			for i := chunks[w].Start; i < chunks[w].End; i++ {
				b := part.bucket(key(&recs[i]))
				out[cursor[b]] = &recs[i]
				cursor[b]++
			}
			return nil
		})
	}
	g.Wait()
	return out, starts
}

// buildProbe joins one bucket pair: table over the right
// span, probe with the left span.
func buildProbe(lspan []*relation.Cast, rspan []*relation.Title) []relation.Result {
	table := make(map[int32][]*relation.Title, len(rspan))
	for _, t := range rspan {
		table[t.TitleID] = append(table[t.TitleID], t)
	}
	var out []relation.Result
	for _, c := range lspan {
		for _, t := range table[c.MovieID] {
			out = append(out, relation.MakeResult(c, t))
		}
	}
	return out
}

func appendBuffer(buf []relation.Result, buffers *[][]relation.Result, mu *sync.Mutex) {
	if len(buf) == 0 {
		return
	}
	mu.Lock()
	*buffers = append(*buffers, buf)
	mu.Unlock()
}
