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

// Package loader converts CSV files into in-memory relations.
//
// Three strategies coexist: a sequential reference loader, a
// block loader with one producer reading newline-aligned
// chunks and a pool of parsing workers, and a seek loader
// that divides the file by offset. All three skip the header
// line, skip (and count) malformed lines, and agree on the
// resulting record multiset; only the record order differs.
//
// Files ending in ".zst" are decompressed on the fly.
package loader

import (
	"bufio"
	"bytes"
	"fmt"
	"log"
	"runtime"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/SnellerInc/reljoin/relation"
)

// DefaultBlockSize is the producer read size of the block
// loader. Any value at least as large as the longest input
// line is correct.
const DefaultBlockSize = 64 << 10

// Options configures the parallel loaders.
// The zero value is usable.
type Options struct {
	// BlockSize is the producer read size in bytes;
	// 0 means DefaultBlockSize.
	BlockSize int
	// Threads is the parser worker count;
	// 0 means GOMAXPROCS.
	Threads int
	// Lock asks for the loaded relation to be pinned in
	// memory (best effort, linux only). Not part of any
	// join contract.
	Lock bool
	// Logger, when set, receives the load summary and
	// per-line parse failures.
	Logger *log.Logger
}

func (o *Options) blockSize() int {
	if o == nil || o.BlockSize <= 0 {
		return DefaultBlockSize
	}
	return o.BlockSize
}

func (o *Options) threads() int {
	if o == nil || o.Threads <= 0 {
		return runtime.GOMAXPROCS(0)
	}
	return o.Threads
}

func (o *Options) logger() *log.Logger {
	if o == nil {
		return nil
	}
	return o.Logger
}

// LoadCast reads a cast relation sequentially. A limit above
// zero stops after that many records. An unopenable file
// yields an empty relation and the error.
func LoadCast(path string, limit int) ([]relation.Cast, error) {
	return loadSeq(path, limit, nil, relation.ParseCast)
}

// LoadTitle is LoadCast for the title relation.
func LoadTitle(path string, limit int) ([]relation.Title, error) {
	return loadSeq(path, limit, nil, relation.ParseTitle)
}

// ParallelCast loads a cast relation with the block loader.
func ParallelCast(path string, opts *Options) ([]relation.Cast, error) {
	return loadBlocks(path, opts, relation.ParseCast)
}

// ParallelTitle loads a title relation with the block loader.
func ParallelTitle(path string, opts *Options) ([]relation.Title, error) {
	return loadBlocks(path, opts, relation.ParseTitle)
}

func loadSeq[T any](path string, limit int, opts *Options, parse func([]byte) (T, error)) ([]T, error) {
	in, err := openInput(path)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	defer in.Close()

	var out []T
	bad := 0
	sc := bufio.NewScanner(in)
	sc.Buffer(make([]byte, DefaultBlockSize), DefaultBlockSize)
	first := true
	for sc.Scan() {
		if first {
			first = false // header
			continue
		}
		line := sc.Bytes()
		if len(line) == 0 {
			continue
		}
		rec, err := parse(line)
		if err != nil {
			bad++
			logBadLine(opts.logger(), line, err)
			continue
		}
		out = append(out, rec)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	if err := sc.Err(); err != nil {
		return out, fmt.Errorf("load %s: %w", path, err)
	}
	summarize(opts.logger(), path, len(out), bad, in.Digest())
	return out, nil
}

func loadBlocks[T any](path string, opts *Options, parse func([]byte) (T, error)) ([]T, error) {
	in, err := openInput(path)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	defer in.Close()

	br := bufio.NewReaderSize(in, opts.blockSize())
	if _, err := br.ReadBytes('\n'); err != nil {
		// empty or header-only file
		return nil, nil
	}

	threads := opts.threads()
	chunks := make(chan []byte, threads)

	var out []T
	var outMu sync.Mutex
	var bad int64

	var g errgroup.Group
	for i := 0; i < threads; i++ {
		g.Go(func() error {
			var local []T
			for chunk := range chunks {
				local = local[:0]
				for len(chunk) > 0 {
					var line []byte
					if i := bytes.IndexByte(chunk, '\n'); i >= 0 {
						line, chunk = chunk[:i], chunk[i+1:]
					} else {
						line, chunk = chunk, nil
					}
					if len(line) == 0 {
						continue
					}
					rec, err := parse(line)
					if err != nil {
						atomic.AddInt64(&bad, 1)
						logBadLine(opts.logger(), line, err)
						continue
					}
					local = append(local, rec)
				}
				outMu.Lock()
				out = append(out, local...)
				outMu.Unlock()
			}
			return nil
		})
	}

	// producer: read fixed-size blocks, chop each at its last
	// newline, and carry the partial trailing line into the
	// next block
	var leftover []byte
	buf := make([]byte, opts.blockSize())
	for {
		n, rerr := readFull(br, buf)
		if n > 0 {
			block := append(append([]byte(nil), leftover...), buf[:n]...)
			leftover = leftover[:0]
			if i := bytes.LastIndexByte(block, '\n'); i >= 0 {
				leftover = append(leftover, block[i+1:]...)
				block = block[:i+1]
			} else {
				leftover, block = block, nil
			}
			if len(block) > 0 {
				chunks <- block
			}
		}
		if rerr != nil {
			break
		}
	}
	if len(leftover) > 0 {
		chunks <- leftover
	}
	close(chunks)
	if err := g.Wait(); err != nil {
		return out, fmt.Errorf("load %s: %w", path, err)
	}

	if opts != nil && opts.Lock {
		if err := pin(out); err != nil {
			if lg := opts.logger(); lg != nil {
				lg.Printf("loader: cannot pin %s: %v", path, err)
			}
		}
	}
	summarize(opts.logger(), path, len(out), int(atomic.LoadInt64(&bad)), in.Digest())
	return out, nil
}

// readFull fills buf as far as the reader allows; the error
// is non-nil only when no further reads can succeed.
func readFull(r *bufio.Reader, buf []byte) (int, error) {
	total := 0
	for total < len(buf) {
		n, err := r.Read(buf[total:])
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

func logBadLine(lg *log.Logger, line []byte, err error) {
	if lg != nil {
		lg.Printf("loader: skipping line %q: %v", line, err)
	}
}

func summarize(lg *log.Logger, path string, good, bad int, digest []byte) {
	if lg != nil {
		lg.Printf("loader: %s: %d records, %d malformed lines, blake2b %x", path, good, bad, digest)
	}
}
