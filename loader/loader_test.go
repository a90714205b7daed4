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

package loader

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/klauspost/compress/zstd"

	"github.com/SnellerInc/reljoin/relation"
)

// writeCastCSV writes a synthetic cast file and returns its
// path together with the multiset of expected records.
func writeCastCSV(t testing.TB, lines int, mangle bool) (string, map[string]int) {
	t.Helper()
	r := rand.New(rand.NewSource(int64(lines)))
	var sb strings.Builder
	sb.WriteString("cast_info_id,person_id,movie_id,person_role_id,note,nr_order,role_id\n")
	want := make(map[string]int)
	for i := 0; i < lines; i++ {
		if mangle && i%97 == 13 {
			sb.WriteString("this,is,not,a,cast,line\n")
			continue
		}
		line := fmt.Sprintf("%d,%d,%d,%d,note %d,%d,%d",
			i, r.Intn(1000), r.Intn(500), r.Intn(50), i, r.Intn(10), r.Intn(12))
		sb.WriteString(line)
		sb.WriteByte('\n')
		want[line]++
	}
	path := filepath.Join(t.TempDir(), "cast.csv")
	if err := os.WriteFile(path, []byte(sb.String()), 0644); err != nil {
		t.Fatal(err)
	}
	return path, want
}

func multiset(recs []relation.Cast) map[string]int {
	m := make(map[string]int)
	for i := range recs {
		m[recs[i].String()]++
	}
	return m
}

func TestLoadSequential(t *testing.T) {
	path, want := writeCastCSV(t, 500, false)
	recs, err := LoadCast(path, 0)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(multiset(recs), want) {
		t.Fatal("sequential load changed the record multiset")
	}
}

func TestLoadLimit(t *testing.T) {
	path, _ := writeCastCSV(t, 500, false)
	recs, err := LoadCast(path, 17)
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 17 {
		t.Fatalf("loaded %d records, want 17", len(recs))
	}
}

func TestLoadMissingFile(t *testing.T) {
	recs, err := LoadCast(filepath.Join(t.TempDir(), "nope.csv"), 0)
	if err == nil {
		t.Fatal("expected an error for a missing file")
	}
	if len(recs) != 0 {
		t.Fatal("missing file must yield an empty relation")
	}
}

// parallel and sequential loads must agree on the multiset
func TestParallelRoundTrip(t *testing.T) {
	path, want := writeCastCSV(t, 3000, false)
	for _, block := range []int{64, 256, 4096, DefaultBlockSize} {
		for _, threads := range []int{1, 2, 8} {
			recs, err := ParallelCast(path, &Options{BlockSize: block, Threads: threads})
			if err != nil {
				t.Fatal(err)
			}
			if !reflect.DeepEqual(multiset(recs), want) {
				t.Fatalf("block=%d threads=%d: parallel load disagrees with sequential", block, threads)
			}
		}
	}
}

func TestParallelSkipsMalformed(t *testing.T) {
	path, want := writeCastCSV(t, 1000, true)
	recs, err := ParallelCast(path, &Options{BlockSize: 128, Threads: 4})
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(multiset(recs), want) {
		t.Fatal("malformed lines must be skipped, not fatal")
	}
}

func TestSeekRoundTrip(t *testing.T) {
	path, want := writeCastCSV(t, 2000, false)
	for _, threads := range []int{1, 3, 7} {
		recs, err := SeekCast(path, &Options{Threads: threads})
		if err != nil {
			t.Fatal(err)
		}
		if !reflect.DeepEqual(multiset(recs), want) {
			t.Fatalf("threads=%d: seek load disagrees with sequential", threads)
		}
	}
}

func TestZstdInput(t *testing.T) {
	plain, want := writeCastCSV(t, 800, false)
	raw, err := os.ReadFile(plain)
	if err != nil {
		t.Fatal(err)
	}
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "cast.csv.zst")
	if err := os.WriteFile(path, enc.EncodeAll(raw, nil), 0644); err != nil {
		t.Fatal(err)
	}
	recs, err := ParallelCast(path, &Options{BlockSize: 512, Threads: 4})
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(multiset(recs), want) {
		t.Fatal("zstd input disagrees with plain input")
	}
}

func TestTitleLoad(t *testing.T) {
	var sb strings.Builder
	sb.WriteString("id,title,imdb_index,kind_id,production_year,imdb_id,phonetic_code,episode_of_id,season_nr,episode_nr,series_years,md5sum\n")
	for i := 0; i < 100; i++ {
		fmt.Fprintf(&sb, "%d,Title %d,I,1,%d,%d,ph,0,1,2,2000-2004,md5%d\n", i, i, 1990+i%30, i, i)
	}
	path := filepath.Join(t.TempDir(), "title.csv")
	if err := os.WriteFile(path, []byte(sb.String()), 0644); err != nil {
		t.Fatal(err)
	}
	seq, err := LoadTitle(path, 0)
	if err != nil {
		t.Fatal(err)
	}
	par, err := ParallelTitle(path, &Options{BlockSize: 96, Threads: 3})
	if err != nil {
		t.Fatal(err)
	}
	if len(seq) != 100 || len(par) != 100 {
		t.Fatalf("loaded %d/%d records, want 100", len(seq), len(par))
	}
}
