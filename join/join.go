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

// Package join implements the equi-join strategies of the
// engine: a nested-loop oracle, sort-merge, a hash-join
// family, a radix co-partitioning join, and a trie-based
// string prefix join.
//
// Every strategy emits the same result multiset as
// NestedLoop on the same input; only throughput and the
// (unspecified) result order differ. The join key is
// cast.MovieID == title.TitleID throughout.
package join

import (
	"fmt"
	"log"

	"github.com/SnellerInc/reljoin/cacheinfo"
	"github.com/SnellerInc/reljoin/relation"
)

// Algorithm selects a join strategy.
type Algorithm int

const (
	NestedLoopJoin Algorithm = iota
	SortMergeJoin
	HashJoin
	RadixJoin
	TriePrefixJoin
)

func (a Algorithm) String() string {
	switch a {
	case NestedLoopJoin:
		return "nested-loop"
	case SortMergeJoin:
		return "sort-merge"
	case HashJoin:
		return "hash"
	case RadixJoin:
		return "radix"
	case TriePrefixJoin:
		return "trie-prefix"
	}
	return fmt.Sprintf("algorithm(%d)", int(a))
}

// HashVariant selects a member of the hash-join family.
type HashVariant int

const (
	// HashUnordered probes a plain Go map. The default.
	HashUnordered HashVariant = iota
	// HashOrdered probes a sorted key index.
	HashOrdered
	// HashChunked divides the build side between workers;
	// every worker probes the whole left relation.
	HashChunked
	// HashCacheSized feeds L2-sized build chunks through a
	// bounded queue.
	HashCacheSized
)

func (v HashVariant) String() string {
	switch v {
	case HashUnordered:
		return "unordered"
	case HashOrdered:
		return "ordered"
	case HashChunked:
		return "chunked"
	case HashCacheSized:
		return "cache-sized"
	}
	return fmt.Sprintf("variant(%d)", int(v))
}

// Options carries the per-invocation knobs. The zero value
// selects one worker, the default hash variant, bare-mask
// partitioning and the discovered cache sizing. Nothing in
// here is global state; concurrent joins with distinct
// Options do not interfere.
type Options struct {
	// Threads is the worker count; below 1 means 1.
	Threads int
	// Variant selects the hash-join family member.
	Variant HashVariant
	// RadixBits is the number of low-order key bits the
	// radix join partitions by; 0 derives ceil(log2 Threads)
	// with a minimum of 1.
	RadixBits int
	// Hashed switches the radix partition function from
	// key&mask to siphash(key)&mask, for skewed key spaces.
	Hashed bool
	// Seed0, Seed1 key the siphash partition function.
	Seed0, Seed1 uint64
	// HashmapCapacity caps per-worker hash tables in records;
	// 0 means the L2-derived default.
	HashmapCapacity int
	// Logger, when set, receives fallback decisions.
	Logger *log.Logger
}

func (o *Options) threads() int {
	if o == nil || o.Threads < 1 {
		return 1
	}
	return o.Threads
}

func (o *Options) capacity() int {
	if o == nil || o.HashmapCapacity <= 0 {
		return cacheinfo.HashmapCapacity()
	}
	return o.HashmapCapacity
}

func (o *Options) logf(format string, args ...any) {
	if o != nil && o.Logger != nil {
		o.Logger.Printf(format, args...)
	}
}

// Run executes one join with the selected algorithm. The
// inputs are treated as immutable; strategies that need a
// different order sort private copies. Errors carry the
// algorithm name; the result multiset of a successful run is
// the nested-loop multiset.
func Run(algo Algorithm, casts []relation.Cast, titles []relation.Title, opts *Options) ([]relation.Result, error) {
	var res []relation.Result
	var err error
	switch algo {
	case NestedLoopJoin:
		res = NestedLoop(casts, titles)
	case SortMergeJoin:
		res = SortMerge(casts, titles, opts)
	case HashJoin:
		res, err = Hash(casts, titles, opts)
	case RadixJoin:
		res, err = Radix(casts, titles, opts)
	case TriePrefixJoin:
		res = TriePrefix(casts, titles, opts)
	default:
		err = fmt.Errorf("unknown algorithm %d", int(algo))
	}
	if err != nil {
		return nil, fmt.Errorf("join failed (%s): %w", algo, err)
	}
	return res, nil
}
