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

// Package cacheinfo discovers the data cache sizes of the
// machine the engine runs on. Discovery happens once, on
// first access; when the hardware refuses to tell, the
// conservative defaults below are used instead.
package cacheinfo

import (
	"sync"
	"unsafe"

	"github.com/klauspost/cpuid/v2"
)

// Conservative fallback sizes in bytes.
const (
	DefaultL1 = 32 << 10
	DefaultL2 = 256 << 10
	DefaultL3 = 4 << 20
)

var (
	once       sync.Once
	l1, l2, l3 int
)

func detect() {
	l1, l2, l3 = DefaultL1, DefaultL2, DefaultL3
	if n := cpuid.CPU.Cache.L1D; n > 0 {
		l1 = n
	} else if n := sysfsCacheSize(1); n > 0 {
		l1 = n
	}
	if n := cpuid.CPU.Cache.L2; n > 0 {
		l2 = n
	} else if n := sysfsCacheSize(2); n > 0 {
		l2 = n
	}
	if n := cpuid.CPU.Cache.L3; n > 0 {
		l3 = n
	} else if n := sysfsCacheSize(3); n > 0 {
		l3 = n
	}
}

// L1 returns the per-core L1 data cache size in bytes.
func L1() int {
	once.Do(detect)
	return l1
}

// L2 returns the per-core L2 cache size in bytes.
func L2() int {
	once.Do(detect)
	return l2
}

// L3 returns the shared L3 cache size in bytes.
func L3() int {
	once.Do(detect)
	return l3
}

// HashmapCapacity is the number of (key, pointer) entries a
// per-worker hash table may hold and still be expected to
// stay L2-resident. Derived sizing uses L2 only.
func HashmapCapacity() int {
	const entry = int(unsafe.Sizeof(uintptr(0)) + unsafe.Sizeof(int32(0)))
	n := L2() / entry
	if n < 1 {
		n = 1
	}
	return n
}
