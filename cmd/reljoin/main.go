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

// reljoin loads a cast and a title relation from CSV and
// joins them with a selectable strategy, reporting load and
// join wall time. Intended for benchmarking the engine on
// real datasets.
//
// Usage:
//
//	reljoin -cast cast_info.csv -title title_info.csv -algo radix
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/SnellerInc/reljoin/config"
	"github.com/SnellerInc/reljoin/join"
	"github.com/SnellerInc/reljoin/loader"
	"github.com/SnellerInc/reljoin/relation"
)

var (
	dashcast  string
	dashtitle string
	dashalgo  string
	dashload  string
	dashconf  string
	dashn     int
	dashlimit int
	dashprint bool
	dashv     bool
)

func init() {
	flag.StringVar(&dashcast, "cast", "", "cast relation CSV (required)")
	flag.StringVar(&dashtitle, "title", "", "title relation CSV (required)")
	flag.StringVar(&dashalgo, "algo", "hash",
		"join algorithm: nested, sortmerge, hash, hash:ordered, hash:chunked, hash:cachesized, radix, radix:hashed, trie")
	flag.StringVar(&dashload, "load", "parallel", "loader: seq, parallel, seek")
	flag.StringVar(&dashconf, "config", "", "optional YAML configuration file")
	flag.IntVar(&dashn, "j", 0, "worker count (0 = hardware concurrency)")
	flag.IntVar(&dashlimit, "limit", 0, "load at most this many records per relation (seq loader only)")
	flag.BoolVar(&dashprint, "print", false, "print result records to stdout")
	flag.BoolVar(&dashv, "v", false, "verbose loader logging")
}

func main() {
	flag.Parse()
	logger := log.New(os.Stderr, fmt.Sprintf("reljoin[%s] ", uuid.New().String()[:8]), log.Ltime)
	if dashcast == "" || dashtitle == "" {
		flag.Usage()
		os.Exit(1)
	}

	cfg := config.Default()
	if dashconf != "" {
		var err error
		cfg, err = config.Load(dashconf)
		if err != nil {
			logger.Fatal(err)
		}
	}
	if dashn > 0 {
		cfg.Threads = dashn
	}

	algo, variant, hashed, err := parseAlgo(dashalgo)
	if err != nil {
		logger.Fatal(err)
	}

	lopts := cfg.LoaderOptions()
	if dashv {
		lopts.Logger = logger
	}

	start := time.Now()
	casts, titles, err := load(cfg, lopts)
	if err != nil {
		logger.Fatal(err)
	}
	logger.Printf("loaded %d cast and %d title records in %v",
		len(casts), len(titles), time.Since(start))

	jopts := cfg.JoinOptions(variant)
	jopts.Hashed = jopts.Hashed || hashed
	jopts.Logger = logger

	start = time.Now()
	results, err := join.Run(algo, casts, titles, jopts)
	if err != nil {
		logger.Fatal(err)
	}
	logger.Printf("%s join: %d results in %v (%d workers)",
		algo, len(results), time.Since(start), jopts.Threads)

	if dashprint {
		for i := range results {
			fmt.Println(results[i].String())
		}
	}
}

func parseAlgo(name string) (join.Algorithm, join.HashVariant, bool, error) {
	switch strings.ToLower(name) {
	case "nested":
		return join.NestedLoopJoin, 0, false, nil
	case "sortmerge":
		return join.SortMergeJoin, 0, false, nil
	case "hash", "hash:unordered":
		return join.HashJoin, join.HashUnordered, false, nil
	case "hash:ordered":
		return join.HashJoin, join.HashOrdered, false, nil
	case "hash:chunked":
		return join.HashJoin, join.HashChunked, false, nil
	case "hash:cachesized":
		return join.HashJoin, join.HashCacheSized, false, nil
	case "radix":
		return join.RadixJoin, 0, false, nil
	case "radix:hashed":
		return join.RadixJoin, 0, true, nil
	case "trie":
		return join.TriePrefixJoin, 0, false, nil
	}
	return 0, 0, false, fmt.Errorf("unknown algorithm %q", name)
}

func load(cfg *config.Config, lopts *loader.Options) ([]relation.Cast, []relation.Title, error) {
	castPath := cfg.Path(dashcast)
	titlePath := cfg.Path(dashtitle)
	switch strings.ToLower(dashload) {
	case "seq":
		casts, err := loader.LoadCast(castPath, dashlimit)
		if err != nil {
			return nil, nil, err
		}
		titles, err := loader.LoadTitle(titlePath, dashlimit)
		return casts, titles, err
	case "parallel":
		casts, err := loader.ParallelCast(castPath, lopts)
		if err != nil {
			return nil, nil, err
		}
		titles, err := loader.ParallelTitle(titlePath, lopts)
		return casts, titles, err
	case "seek":
		casts, err := loader.SeekCast(castPath, lopts)
		if err != nil {
			return nil, nil, err
		}
		titles, err := loader.SeekTitle(titlePath, lopts)
		return casts, titles, err
	}
	return nil, nil, fmt.Errorf("unknown loader %q", dashload)
}
