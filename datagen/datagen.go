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

// Package datagen writes synthetic cast and title CSV files
// for benchmarking the join strategies. Join keys can be
// drawn uniformly or from a zipfian distribution (the skewed
// shape the radix join's opt-in hashed partition function
// targets; the radix join does not switch to it on its own), and
// note/title strings can be generated run-heavy to exercise
// the trie's run-length compression.
package datagen

import (
	"bufio"
	"fmt"
	"io"
	"math/rand"
	"strings"
)

// KeySource draws join keys.
type KeySource interface {
	Next() int32
}

// Uniform draws keys uniformly from [0, Max).
type Uniform struct {
	Max int32
	rng *rand.Rand
}

// NewUniform returns a uniform key source.
func NewUniform(max int32, seed int64) *Uniform {
	return &Uniform{Max: max, rng: rand.New(rand.NewSource(seed))}
}

func (u *Uniform) Next() int32 { return u.rng.Int31n(u.Max) }

// Zipfian draws keys zipf-distributed over [0, Max), so a
// handful of keys carry most of the rows.
type Zipfian struct {
	zipf *rand.Zipf
}

// NewZipfian returns a zipfian key source; s > 1 controls the
// skew (larger is more skewed).
func NewZipfian(max int32, s float64, seed int64) *Zipfian {
	rng := rand.New(rand.NewSource(seed))
	return &Zipfian{zipf: rand.NewZipf(rng, s, 1, uint64(max-1))}
}

func (z *Zipfian) Next() int32 { return int32(z.zipf.Uint64()) }

// Strings configures the generated text fields.
type Strings struct {
	// RunHeavy generates notes/titles as sentinel-prefixed
	// character runs, the shape the trie compresses.
	RunHeavy bool
	// MaxLen caps the run length of run-heavy strings (the
	// sentinel byte comes on top); 0 means 40. Plain strings
	// ignore it.
	MaxLen int
}

func (s *Strings) text(rng *rand.Rand, tag int) string {
	maxLen := s.MaxLen
	if maxLen <= 0 {
		maxLen = 40
	}
	if s.RunHeavy {
		n := 2 + rng.Intn(maxLen-1)
		return "1" + strings.Repeat(string(rune('a'+tag%4)), n)
	}
	return fmt.Sprintf("text %d %d", tag, rng.Intn(1000))
}

// WriteCast writes a header and n cast records drawn from
// keys.
func WriteCast(w io.Writer, n int, keys KeySource, str Strings, seed int64) error {
	bw := bufio.NewWriter(w)
	rng := rand.New(rand.NewSource(seed))
	if _, err := bw.WriteString("cast_info_id,person_id,movie_id,person_role_id,note,nr_order,role_id\n"); err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		_, err := fmt.Fprintf(bw, "%d,%d,%d,%d,%s,%d,%d\n",
			i, rng.Intn(1_000_000), keys.Next(), rng.Intn(100),
			str.text(rng, i), rng.Intn(50), rng.Intn(12))
		if err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WriteTitle writes a header and n title records drawn from
// keys.
func WriteTitle(w io.Writer, n int, keys KeySource, str Strings, seed int64) error {
	bw := bufio.NewWriter(w)
	rng := rand.New(rand.NewSource(seed))
	if _, err := bw.WriteString("id,title,imdb_index,kind_id,production_year,imdb_id,phonetic_code,episode_of_id,season_nr,episode_nr,series_years,md5sum\n"); err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		_, err := fmt.Fprintf(bw, "%d,%s,%s,%d,%d,%d,%s,%d,%d,%d,%d-%d,%08x\n",
			keys.Next(), str.text(rng, i), "I", 1+rng.Intn(7),
			1900+rng.Intn(125), rng.Intn(1_000_000), "phon",
			rng.Intn(1000), rng.Intn(30), rng.Intn(500),
			1990+rng.Intn(10), 2000+rng.Intn(10), rng.Uint32())
		if err != nil {
			return err
		}
	}
	return bw.Flush()
}
