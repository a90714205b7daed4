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
	"hash"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"
	"golang.org/x/crypto/blake2b"
)

// input is a readable CSV source. The raw file bytes are
// digested as they are consumed, before any decompression.
type input struct {
	r    io.Reader
	f    *os.File
	dec  *zstd.Decoder
	hash hash.Hash
}

// openInput opens path for reading, arranging transparent
// decompression for ".zst" files.
func openInput(path string) (*input, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	h, _ := blake2b.New256(nil)
	in := &input{f: f, hash: h}
	in.r = io.TeeReader(f, h)
	if strings.HasSuffix(path, ".zst") {
		dec, err := zstd.NewReader(in.r)
		if err != nil {
			f.Close()
			return nil, err
		}
		in.dec = dec
		in.r = dec
	}
	return in, nil
}

func (in *input) Read(p []byte) (int, error) { return in.r.Read(p) }

// Digest returns the blake2b-256 sum of the bytes consumed
// so far.
func (in *input) Digest() []byte { return in.hash.Sum(nil) }

func (in *input) Close() error {
	if in.dec != nil {
		in.dec.Close()
	}
	return in.f.Close()
}
