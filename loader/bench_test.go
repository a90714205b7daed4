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
	"os"
	"runtime"
	"testing"
)

func BenchmarkLoaders(b *testing.B) {
	path, _ := writeCastCSV(b, 50000, false)
	fi, err := os.Stat(path)
	if err != nil {
		b.Fatal(err)
	}
	opts := &Options{Threads: runtime.GOMAXPROCS(0)}

	b.Run("sequential", func(b *testing.B) {
		b.SetBytes(fi.Size())
		for i := 0; i < b.N; i++ {
			if _, err := LoadCast(path, 0); err != nil {
				b.Fatal(err)
			}
		}
	})
	b.Run("blocks", func(b *testing.B) {
		b.SetBytes(fi.Size())
		for i := 0; i < b.N; i++ {
			if _, err := ParallelCast(path, opts); err != nil {
				b.Fatal(err)
			}
		}
	})
	b.Run("seek", func(b *testing.B) {
		b.SetBytes(fi.Size())
		for i := 0; i < b.N; i++ {
			if _, err := SeekCast(path, opts); err != nil {
				b.Fatal(err)
			}
		}
	})
}
