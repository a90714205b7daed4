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
	"unsafe"

	"golang.org/x/sys/unix"
)

// pin locks the backing array of a loaded relation into RAM.
// Purely an experiment carried over from early benchmarking;
// callers must tolerate failure (RLIMIT_MEMLOCK is tiny by
// default).
func pin[T any](recs []T) error {
	if len(recs) == 0 {
		return nil
	}
	var t T
	size := len(recs) * int(unsafe.Sizeof(t))
	mem := unsafe.Slice((*byte)(unsafe.Pointer(&recs[0])), size)
	return unix.Mlock(mem)
}
