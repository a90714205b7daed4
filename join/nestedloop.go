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

package join

import "github.com/SnellerInc/reljoin/relation"

// NestedLoop is the sequential baseline every other strategy
// is measured against: it emits exactly one result per
// (cast, title) pair with equal keys.
func NestedLoop(casts []relation.Cast, titles []relation.Title) []relation.Result {
	var out []relation.Result
	for i := range casts {
		for j := range titles {
			if casts[i].MovieID == titles[j].TitleID {
				out = append(out, relation.MakeResult(&casts[i], &titles[j]))
			}
		}
	}
	return out
}
