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

package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "engine.yaml")
	body := `
data_directory: /var/data
num_threads: 6
block_size: 131072
radix_bits: 4
hashed_partition: true
seed0: 1
seed1: 2
`
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	c, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if c.Threads != 6 || c.BlockSize != 131072 || c.RadixBits != 4 || !c.HashedPartition {
		t.Errorf("bad decode: %+v", c)
	}
	if got := c.Path("cast.csv"); got != "/var/data/cast.csv" {
		t.Errorf("Path() = %q", got)
	}
	opts := c.JoinOptions(0)
	if opts.Threads != 6 || !opts.Hashed || opts.Seed0 != 1 || opts.Seed1 != 2 {
		t.Errorf("bad join options: %+v", opts)
	}
}

func TestDefaults(t *testing.T) {
	c := Default()
	if c.Threads < 1 {
		t.Error("default thread count must be positive")
	}
	if got := c.Path("x.csv"); got != "x.csv" {
		t.Errorf("empty data directory must leave names alone, got %q", got)
	}
}

func TestLoadMissing(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected an error")
	}
}
