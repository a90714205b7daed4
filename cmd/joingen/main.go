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

// joingen writes synthetic cast/title CSV files for the
// reljoin benchmarks. Output names ending in ".zst" are
// zstd-compressed.
//
// Usage:
//
//	joingen -kind cast -n 1000000 -dist zipf -o cast_info_zipfian.csv.zst
package main

import (
	"flag"
	"io"
	"log"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"

	"github.com/SnellerInc/reljoin/datagen"
)

var (
	dashkind string
	dasho    string
	dashn    int
	dashkeys int
	dashdist string
	dashskew float64
	dashseed int64
	dashruns bool
)

func init() {
	flag.StringVar(&dashkind, "kind", "cast", "relation kind: cast or title")
	flag.StringVar(&dasho, "o", "", "output file (required; .zst compresses)")
	flag.IntVar(&dashn, "n", 100000, "record count")
	flag.IntVar(&dashkeys, "keys", 100000, "join key space size")
	flag.StringVar(&dashdist, "dist", "uniform", "key distribution: uniform or zipf")
	flag.Float64Var(&dashskew, "skew", 1.5, "zipf skew parameter (> 1)")
	flag.Int64Var(&dashseed, "seed", 1, "random seed")
	flag.BoolVar(&dashruns, "runs", false, "generate run-heavy strings for the trie join")
}

func main() {
	flag.Parse()
	if dasho == "" {
		flag.Usage()
		os.Exit(1)
	}

	var keys datagen.KeySource
	switch dashdist {
	case "uniform":
		keys = datagen.NewUniform(int32(dashkeys), dashseed)
	case "zipf":
		keys = datagen.NewZipfian(int32(dashkeys), dashskew, dashseed)
	default:
		log.Fatalf("unknown distribution %q", dashdist)
	}

	f, err := os.Create(dasho)
	if err != nil {
		log.Fatal(err)
	}
	var w io.Writer = f
	var enc *zstd.Encoder
	if strings.HasSuffix(dasho, ".zst") {
		enc, err = zstd.NewWriter(f)
		if err != nil {
			log.Fatal(err)
		}
		w = enc
	}

	str := datagen.Strings{RunHeavy: dashruns}
	switch dashkind {
	case "cast":
		err = datagen.WriteCast(w, dashn, keys, str, dashseed+1)
	case "title":
		err = datagen.WriteTitle(w, dashn, keys, str, dashseed+1)
	default:
		log.Fatalf("unknown relation kind %q", dashkind)
	}
	if err != nil {
		log.Fatal(err)
	}
	if enc != nil {
		if err := enc.Close(); err != nil {
			log.Fatal(err)
		}
	}
	if err := f.Close(); err != nil {
		log.Fatal(err)
	}
	log.Printf("wrote %d %s records to %s", dashn, dashkind, dasho)
}
