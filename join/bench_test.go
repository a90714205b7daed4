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
	"runtime"
	"testing"
)

func BenchmarkJoins(b *testing.B) {
	threads := runtime.GOMAXPROCS(0)
	for _, n := range []int{1 << 10, 1 << 14} {
		casts, titles := randRelations(42, n, n, n/2)
		cases := []struct {
			name string
			algo Algorithm
			opts *Options
		}{
			{"nested-loop", NestedLoopJoin, nil},
			{"sort-merge", SortMergeJoin, &Options{Threads: threads}},
			{"hash-unordered", HashJoin, &Options{Variant: HashUnordered}},
			{"hash-ordered", HashJoin, &Options{Variant: HashOrdered}},
			{"hash-chunked", HashJoin, &Options{Variant: HashChunked, Threads: threads}},
			{"hash-cache-sized", HashJoin, &Options{Variant: HashCacheSized, Threads: threads}},
			{"radix", RadixJoin, &Options{Threads: threads}},
			{"radix-hashed", RadixJoin, &Options{Threads: threads, Hashed: true}},
		}
		for _, c := range cases {
			if c.algo == NestedLoopJoin && n > 1<<10 {
				continue // quadratic; one size is plenty
			}
			b.Run(fmt.Sprintf("%s/%d", c.name, n), func(b *testing.B) {
				b.ReportAllocs()
				for i := 0; i < b.N; i++ {
					if _, err := Run(c.algo, casts, titles, c.opts); err != nil {
						b.Fatal(err)
					}
				}
			})
		}
	}
}

func BenchmarkTriePrefix(b *testing.B) {
	threads := runtime.GOMAXPROCS(0)
	left, right := randRelations(43, 1<<12, 1<<12, 100)
	for i := range left {
		copy(left[i].Note[:], fmt.Sprintf("note-%d", left[i].MovieID))
	}
	for i := range right {
		copy(right[i].Title[:], fmt.Sprintf("note-%d suffix material", right[i].TitleID))
	}
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		TriePrefix(left, right, &Options{Threads: threads})
	}
}
