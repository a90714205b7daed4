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

// Package relation defines the fixed-shape cast and title
// records the join engine operates on, plus the CSV line
// parsers that produce them.
//
// Records are plain value types. Bounded text fields are
// fixed-size byte arrays padded with zero bytes; input bytes
// past a field's cap are discarded, never reported as an
// error.
package relation

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
)

// ErrFieldCount is returned by the line parsers when the
// number of comma-separated fields does not match the
// declared schema arity.
var ErrFieldCount = errors.New("unexpected field count")

// setText copies src into the fixed-width destination,
// truncating silently at the cap and zero-padding the rest.
func setText(dst []byte, src []byte) {
	n := copy(dst, src)
	for i := n; i < len(dst); i++ {
		dst[i] = 0
	}
}

// text returns the meaningful prefix of a zero-padded field.
func text(src []byte) []byte {
	if i := bytes.IndexByte(src, 0); i >= 0 {
		return src[:i]
	}
	return src
}

func parseI32(field []byte) (int32, error) {
	v, err := strconv.ParseInt(string(field), 10, 32)
	if err != nil {
		return 0, fmt.Errorf("bad integer field %q: %w", field, err)
	}
	return int32(v), nil
}

// splitFields splits line on single-comma delimiters into
// dst. It returns ErrFieldCount unless the line has exactly
// len(dst) fields. Commas inside text fields are not handled;
// the inputs are assumed to be comma-free (an upstream
// limitation the engine inherits).
func splitFields(dst [][]byte, line []byte) error {
	n := 0
	for {
		i := bytes.IndexByte(line, ',')
		if i < 0 {
			break
		}
		if n >= len(dst)-1 {
			return fmt.Errorf("%w: more than %d fields", ErrFieldCount, len(dst))
		}
		dst[n] = line[:i]
		line = line[i+1:]
		n++
	}
	dst[n] = line
	n++
	if n != len(dst) {
		return fmt.Errorf("%w: got %d, want %d", ErrFieldCount, n, len(dst))
	}
	return nil
}
