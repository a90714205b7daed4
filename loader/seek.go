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
	"bufio"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/SnellerInc/reljoin/relation"
)

// SeekCast loads a cast relation by dividing the file into
// byte ranges, one per worker. Each worker re-aligns its
// range to line boundaries: a line belongs to the worker
// whose range contains its first byte, and a worker finishes
// the line its range ends in.
func SeekCast(path string, opts *Options) ([]relation.Cast, error) {
	return loadSeek(path, opts, relation.ParseCast)
}

// SeekTitle is SeekCast for the title relation.
func SeekTitle(path string, opts *Options) ([]relation.Title, error) {
	return loadSeek(path, opts, relation.ParseTitle)
}

func loadSeek[T any](path string, opts *Options, parse func([]byte) (T, error)) ([]T, error) {
	if strings.HasSuffix(path, ".zst") {
		// compressed inputs are not seekable; the block
		// loader handles them
		return loadBlocks(path, opts, parse)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	defer f.Close()
	fi, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	size := fi.Size()
	if size == 0 {
		return nil, nil
	}
	threads := int64(opts.threads())
	if threads > size {
		threads = 1
	}
	chunk := size / threads

	var out []T
	var outMu sync.Mutex
	var bad int64

	var g errgroup.Group
	for i := int64(0); i < threads; i++ {
		start := i * chunk
		end := start + chunk
		if i == threads-1 {
			end = size
		}
		g.Go(func() error {
			local, n, err := scanRange(f, start, end, size, parse, opts.logger())
			atomic.AddInt64(&bad, n)
			if err != nil {
				return err
			}
			outMu.Lock()
			out = append(out, local...)
			outMu.Unlock()
			return nil
		})
	}
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
	summarize(opts.logger(), path, len(out), int(atomic.LoadInt64(&bad)), nil)
	return out, nil
}

// scanRange parses the lines whose first byte lies inside
// [start, end). The header line belongs to no one.
func scanRange[T any](f *os.File, start, end, size int64, parse func([]byte) (T, error), lg *log.Logger) ([]T, int64, error) {
	sc := bufio.NewScanner(io.NewSectionReader(f, start, size-start))
	sc.Buffer(make([]byte, DefaultBlockSize), DefaultBlockSize)
	pos := start

	// ranges starting mid-line discard that partial line: the
	// worker owning its first byte consumed it already. A
	// range starting right after a newline owns its first
	// line. Range zero additionally discards the header.
	skipFirst := start == 0
	if start > 0 {
		var prev [1]byte
		if _, err := f.ReadAt(prev[:], start-1); err != nil {
			return nil, 0, err
		}
		skipFirst = prev[0] != '\n'
	}
	if skipFirst {
		if !sc.Scan() {
			return nil, 0, sc.Err()
		}
		pos += int64(len(sc.Bytes())) + 1
	}

	var out []T
	var bad int64
	for pos < end && sc.Scan() {
		line := sc.Bytes()
		pos += int64(len(line)) + 1
		if len(line) == 0 {
			continue
		}
		rec, err := parse(line)
		if err != nil {
			bad++
			logBadLine(lg, line, err)
			continue
		}
		out = append(out, rec)
	}
	return out, bad, sc.Err()
}
