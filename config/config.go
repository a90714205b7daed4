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

// Package config holds the per-invocation engine
// configuration. Everything that early versions of the
// engine kept in file-scope mutable state (partition bit
// width, expected partition counts, block sizes) lives here
// instead and travels with each call.
package config

import (
	"fmt"
	"os"
	"runtime"

	"sigs.k8s.io/yaml"

	"github.com/SnellerInc/reljoin/join"
	"github.com/SnellerInc/reljoin/loader"
)

// Config is the decoded engine configuration.
type Config struct {
	// DataDirectory is the filesystem prefix input file
	// names are resolved against.
	DataDirectory string `json:"data_directory,omitempty"`
	// Threads is the worker count for every parallel stage;
	// Default sets it to the hardware concurrency. An explicit
	// 0 reaches the joins as one worker and the loaders as
	// GOMAXPROCS.
	Threads int `json:"num_threads,omitempty"`
	// BlockSize is the loader read size in bytes; 0 means
	// the loader default. It must be at least as large as
	// the longest input line.
	BlockSize int `json:"block_size,omitempty"`
	// RadixBits overrides the radix partition bit width.
	RadixBits int `json:"radix_bits,omitempty"`
	// HashedPartition selects siphash(key)&mask instead of
	// key&mask for radix partitioning.
	HashedPartition bool `json:"hashed_partition,omitempty"`
	// Seed0, Seed1 key the hashed partition function.
	Seed0 uint64 `json:"seed0,omitempty"`
	Seed1 uint64 `json:"seed1,omitempty"`
	// HashmapCapacity overrides the L2-derived per-worker
	// hash table size, in records.
	HashmapCapacity int `json:"hashmap_capacity,omitempty"`
	// LockRelations pins loaded relations in memory
	// (best effort).
	LockRelations bool `json:"lock_relations,omitempty"`
}

// Default returns the configuration used when no file is
// given.
func Default() *Config {
	return &Config{Threads: runtime.GOMAXPROCS(0)}
}

// Load reads a YAML (or JSON: every JSON file is YAML)
// configuration file.
func Load(path string) (*Config, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	c := Default()
	if err := yaml.Unmarshal(buf, c); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return c, nil
}

// Path resolves name against the data directory.
func (c *Config) Path(name string) string {
	if c.DataDirectory == "" {
		return name
	}
	return c.DataDirectory + string(os.PathSeparator) + name
}

// JoinOptions translates the configuration into join options.
func (c *Config) JoinOptions(variant join.HashVariant) *join.Options {
	return &join.Options{
		Threads:         c.Threads,
		Variant:         variant,
		RadixBits:       c.RadixBits,
		Hashed:          c.HashedPartition,
		Seed0:           c.Seed0,
		Seed1:           c.Seed1,
		HashmapCapacity: c.HashmapCapacity,
	}
}

// LoaderOptions translates the configuration into loader
// options.
func (c *Config) LoaderOptions() *loader.Options {
	return &loader.Options{
		BlockSize: c.BlockSize,
		Threads:   c.Threads,
		Lock:      c.LockRelations,
	}
}
