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
	"bytes"
	"fmt"
	"log"
	"math/rand"
	"reflect"
	"strings"
	"testing"

	"github.com/SnellerInc/reljoin/relation"
	"github.com/SnellerInc/reljoin/trie"
)

func newTestLogger(sb *strings.Builder) *log.Logger {
	return log.New(sb, "", 0)
}

func mkNoteCast(note string, tag int32) relation.Cast {
	c := relation.Cast{CastInfoID: tag}
	copy(c.Note[:], note)
	return c
}

// nested-loop prefix oracle
func prefixOracle(casts []relation.Cast, titles []relation.Title) map[string]int {
	m := make(map[string]int)
	for i := range casts {
		note := casts[i].NoteBytes()
		if len(note) == 0 {
			continue
		}
		for j := range titles {
			if bytes.HasPrefix(titles[j].TitleBytes(), note) {
				r := relation.MakeResult(&casts[i], &titles[j])
				m[r.String()]++
			}
		}
	}
	return m
}

// spec scenario: both notes are prefixes of the title
func TestTriePrefixScenario(t *testing.T) {
	casts := []relation.Cast{
		mkNoteCast("Don't", 1),
		mkNoteCast("Don't Be", 2),
	}
	titles := []relation.Title{mkTitle(1, "Don't Be a Menace (1996)")}
	res := TriePrefix(casts, titles, &Options{Threads: 4})
	if len(res) != 2 {
		t.Fatalf("emitted %d results, want 2", len(res))
	}
}

func TestTriePrefixOracle(t *testing.T) {
	words := []string{"a", "ab", "abc", "abd", "b", "ba", "cast", "ca", "", "x"}
	r := rand.New(rand.NewSource(11))
	var casts []relation.Cast
	for i := 0; i < 200; i++ {
		casts = append(casts, mkNoteCast(words[r.Intn(len(words))], int32(i)))
	}
	var titles []relation.Title
	for i := 0; i < 150; i++ {
		titles = append(titles, mkTitle(int32(i), words[r.Intn(len(words))]+words[r.Intn(len(words))]))
	}
	want := prefixOracle(casts, titles)
	for _, threads := range []int{1, 4, 8} {
		got := multiset(TriePrefix(casts, titles, &Options{Threads: threads}))
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("threads=%d: trie join disagrees with the prefix oracle", threads)
		}
	}
}

// keys carrying the run-length sentinel compress identically
// on both sides, so run-aligned matches survive the transform
func TestTriePrefixCompressedKeys(t *testing.T) {
	var casts []relation.Cast
	var titles []relation.Title
	for i := 0; i < 20; i++ {
		run := strings.Repeat("a", 30+i)
		casts = append(casts, mkNoteCast("1"+run, int32(i)))
		titles = append(titles, mkTitle(int32(i), "1"+run))
	}
	res := TriePrefix(casts, titles, &Options{Threads: 4})
	// each note matches exactly the equal-run title
	if len(res) != 20 {
		t.Fatalf("emitted %d results, want 20", len(res))
	}
	for i := range res {
		if res[i].CastInfoID != res[i].TitleID {
			t.Errorf("mismatched pair: cast %d with title %d", res[i].CastInfoID, res[i].TitleID)
		}
	}
}

func TestTriePrefixEmptyNote(t *testing.T) {
	casts := []relation.Cast{mkNoteCast("", 1)}
	titles := []relation.Title{mkTitle(1, "anything")}
	if res := TriePrefix(casts, titles, nil); len(res) != 0 {
		t.Fatalf("empty notes must not match; got %d results", len(res))
	}
}

// the trie doubles as an exact-match string join: probing
// with Search instead of the prefix walk must agree with a
// full-equality nested loop
func TestTrieExactMatch(t *testing.T) {
	words := []string{"alpha", "beta", "gamma", "alphabet", "al"}
	r := rand.New(rand.NewSource(17))
	var casts []relation.Cast
	for i := 0; i < 100; i++ {
		casts = append(casts, mkNoteCast(words[r.Intn(len(words))], int32(i)))
	}
	var titles []relation.Title
	for i := 0; i < 100; i++ {
		titles = append(titles, mkTitle(int32(i), words[r.Intn(len(words))]))
	}

	tr := trie.New[relation.Cast]()
	for i := range casts {
		if err := tr.Insert(casts[i].NoteBytes(), &casts[i]); err != nil {
			t.Fatal(err)
		}
	}
	got := make(map[string]int)
	for j := range titles {
		for _, c := range tr.Search(titles[j].TitleBytes()) {
			r := relation.MakeResult(c, &titles[j])
			got[r.String()]++
		}
	}

	want := make(map[string]int)
	for i := range casts {
		for j := range titles {
			if bytes.Equal(casts[i].NoteBytes(), titles[j].TitleBytes()) {
				r := relation.MakeResult(&casts[i], &titles[j])
				want[r.String()]++
			}
		}
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatal("exact-match trie join disagrees with the equality oracle")
	}
}

func TestTriePrefixViaDispatcher(t *testing.T) {
	casts := []relation.Cast{mkNoteCast("ti", 1)}
	titles := []relation.Title{mkTitle(9, "title nine")}
	res, err := Run(TriePrefixJoin, casts, titles, &Options{Threads: 2})
	if err != nil {
		t.Fatal(err)
	}
	if len(res) != 1 {
		t.Fatalf("emitted %d results, want 1", len(res))
	}
	want := fmt.Sprintf("%d", 9)
	if got := fmt.Sprintf("%d", res[0].TitleID); got != want {
		t.Errorf("joined with title %s, want %s", got, want)
	}
}
