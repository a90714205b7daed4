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

package cacheinfo

import (
	"os"
	"strconv"
	"strings"
)

// sysfsCacheSize reads the size of the given cache level for
// cpu0 from sysfs. Unified and data caches qualify;
// instruction caches do not. Returns 0 when unavailable.
func sysfsCacheSize(level int) int {
	const base = "/sys/devices/system/cpu/cpu0/cache"
	for i := 0; ; i++ {
		dir := base + "/index" + strconv.Itoa(i)
		lvl, err := os.ReadFile(dir + "/level")
		if err != nil {
			return 0
		}
		if n, _ := strconv.Atoi(strings.TrimSpace(string(lvl))); n != level {
			continue
		}
		typ, err := os.ReadFile(dir + "/type")
		if err != nil {
			return 0
		}
		switch strings.TrimSpace(string(typ)) {
		case "Data", "Unified":
		default:
			continue
		}
		raw, err := os.ReadFile(dir + "/size")
		if err != nil {
			return 0
		}
		return parseSize(strings.TrimSpace(string(raw)))
	}
}

// parseSize parses the sysfs "64K"/"8M"/"512" size syntax.
func parseSize(s string) int {
	mult := 1
	switch {
	case strings.HasSuffix(s, "K"):
		mult, s = 1<<10, strings.TrimSuffix(s, "K")
	case strings.HasSuffix(s, "M"):
		mult, s = 1<<20, strings.TrimSuffix(s, "M")
	case strings.HasSuffix(s, "G"):
		mult, s = 1<<30, strings.TrimSuffix(s, "G")
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0
	}
	return n * mult
}
