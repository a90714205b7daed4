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

import "github.com/SnellerInc/reljoin/ints"

// cursor points at the next unconsumed element of one run.
type cursor struct {
	pos, end int
}

// kwayMerge merges the sorted runs described by chunks using
// a min-heap of run cursors, writing through a scratch buffer
// that is copied back at the end.
func kwayMerge[T any](items []T, chunks []ints.Interval, less func(a, b *T) bool) {
	heap := make([]cursor, 0, len(chunks))
	for _, in := range chunks {
		if !in.Empty() {
			heap = append(heap, cursor{pos: in.Start, end: in.End})
		}
	}
	headLess := func(x, y cursor) bool {
		return less(&items[x.pos], &items[y.pos])
	}
	for i := len(heap) - 1; i >= 0; i-- {
		siftDown(heap, i, headLess)
	}

	scratch := make([]T, 0, len(items))
	for len(heap) > 0 {
		c := &heap[0]
		scratch = append(scratch, items[c.pos])
		c.pos++
		if c.pos == c.end {
			heap[0] = heap[len(heap)-1]
			heap = heap[:len(heap)-1]
		}
		if len(heap) > 0 {
			siftDown(heap, 0, headLess)
		}
	}
	copy(items, scratch)
}

func siftDown[T any](x []T, index int, less func(a, b T) bool) {
	for {
		left := index*2 + 1
		right := left + 1
		if left >= len(x) {
			return
		}
		c := left
		if right < len(x) && less(x[right], x[left]) {
			c = right
		}
		if !less(x[c], x[index]) {
			return
		}
		x[c], x[index] = x[index], x[c]
		index = c
	}
}
