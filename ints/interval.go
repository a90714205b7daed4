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

package ints

// Interval is a half-open interval [start, end)
// (start is always less than or equal to end)
type Interval struct {
	Start, End int
}

// Empty returns whether [in] is an empty
// interval.
func (in Interval) Empty() bool {
	return in.Start >= in.End
}

// Len returns the length of the interval.
func (in Interval) Len() int {
	if in.End <= in.Start {
		return 0
	}
	return in.End - in.Start
}

// Chunks splits [0, n) into at most p contiguous
// intervals of near-equal length. The trailing interval
// absorbs the remainder. Fewer than p intervals are
// returned when n < p so that no interval is empty;
// n == 0 yields no intervals.
func Chunks(n, p int) []Interval {
	if n <= 0 {
		return nil
	}
	if p <= 0 {
		p = 1
	}
	if p > n {
		p = n
	}
	size := n / p
	out := make([]Interval, p)
	start := 0
	for i := range out {
		end := start + size
		if i == p-1 {
			end = n
		}
		out[i] = Interval{Start: start, End: end}
		start = end
	}
	return out
}
