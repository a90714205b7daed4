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

package trie

import "strconv"

// RunSentinel marks keys eligible for run-length compression.
// Synthetic benchmark keys are generated with this first byte
// and extremely long character runs; compressing them keeps
// the tree shallow. The transform must be applied to both
// sides of a join or to neither.
const RunSentinel = '1'

// CompressRuns rewrites each maximal run of k > 1 equal bytes
// c as c '*' <k in decimal>. Keys not starting with
// RunSentinel are returned unchanged.
func CompressRuns(key []byte) []byte {
	if len(key) == 0 || key[0] != RunSentinel {
		return key
	}
	out := make([]byte, 0, len(key))
	for i := 0; i < len(key); {
		c := key[i]
		j := i + 1
		for j < len(key) && key[j] == c {
			j++
		}
		out = append(out, c)
		if n := j - i; n > 1 {
			out = append(out, '*')
			out = strconv.AppendInt(out, int64(n), 10)
		}
		i = j
	}
	return out
}
