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

	"github.com/SnellerInc/reljoin/ints"
	"github.com/SnellerInc/reljoin/relation"
	"github.com/SnellerInc/reljoin/trie"
)

// TriePrefix is the string join: it emits one result per
// (cast, title) pair in which cast.Note is a prefix of
// title.Title. Left notes are inserted into a concurrent
// trie in parallel; right titles are then probed in parallel,
// collecting every populated node along the walk so shorter
// matching notes are not shadowed by longer ones.
//
// Keys starting with the run-length sentinel are compressed
// on both sides symmetrically. Records with an empty note
// never match (the trie holds no empty keys).
func TriePrefix(casts []relation.Cast, titles []relation.Title, opts *Options) []relation.Result {
	if len(casts) == 0 || len(titles) == 0 {
		return nil
	}
	threads := opts.threads()
	tr := trie.New[relation.Cast]()

	var wg sync.WaitGroup
	chunks := ints.Chunks(len(casts), threads)
	wg.Add(len(chunks))
	for _, in := range chunks {
		in := in
		go func() {
			defer wg.Done()
			for i := in.Start; i < in.End; i++ {
				note := trie.CompressRuns(casts[i].NoteBytes())
				if len(note) == 0 {
					continue
				}
				tr.Insert(note, &casts[i])
			}
		}()
	}
	wg.Wait()

	chunks = ints.Chunks(len(titles), threads)
	buffers := make([][]relation.Result, len(chunks))
	wg.Add(len(chunks))
	for w, in := range chunks {
		w, in := w, in
		go func() {
			defer wg.Done()
			for i := in.Start; i < in.End; i++ {
				query := trie.CompressRuns(titles[i].TitleBytes())
				tr.WalkPrefixes(query, func(data []*relation.Cast) {
					for _, c := range data {
						buffers[w] = append(buffers[w], relation.MakeResult(c, &titles[i]))
					}
				})
			}
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
