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

package relation

import (
	"fmt"
	"strings"
)

// TitleFields is the arity of a title CSV record.
const TitleFields = 12

// Byte caps of the bounded text fields of Title.
const (
	TitleLen       = 200
	ImdbIndexLen   = 12
	PhoneticLen    = 5
	SeriesYearsLen = 49
	Md5Len         = 32
)

// Title is one row of the title relation. TitleID is the
// equi-join key. ImdbID is a data column, not a key: some
// historical sources joined against it by mistake.
type Title struct {
	TitleID        int32
	Title          [TitleLen]byte
	ImdbIndex      [ImdbIndexLen]byte
	KindID         int32
	ProductionYear int32
	ImdbID         int32
	PhoneticCode   [PhoneticLen]byte
	EpisodeOfID    int32
	SeasonNr       int32
	EpisodeNr      int32
	SeriesYears    [SeriesYearsLen]byte
	Md5sum         [Md5Len]byte
}

// ParseTitle parses one comma-separated title line.
func ParseTitle(line []byte) (Title, error) {
	var t Title
	var fields [TitleFields][]byte
	if err := splitFields(fields[:], line); err != nil {
		return t, err
	}
	var err error
	if t.TitleID, err = parseI32(fields[0]); err != nil {
		return t, err
	}
	setText(t.Title[:], fields[1])
	setText(t.ImdbIndex[:], fields[2])
	if t.KindID, err = parseI32(fields[3]); err != nil {
		return t, err
	}
	if t.ProductionYear, err = parseI32(fields[4]); err != nil {
		return t, err
	}
	if t.ImdbID, err = parseI32(fields[5]); err != nil {
		return t, err
	}
	setText(t.PhoneticCode[:], fields[6])
	if t.EpisodeOfID, err = parseI32(fields[7]); err != nil {
		return t, err
	}
	if t.SeasonNr, err = parseI32(fields[8]); err != nil {
		return t, err
	}
	if t.EpisodeNr, err = parseI32(fields[9]); err != nil {
		return t, err
	}
	setText(t.SeriesYears[:], fields[10])
	setText(t.Md5sum[:], fields[11])
	return t, nil
}

// TitleBytes returns the title field without zero padding.
func (t *Title) TitleBytes() []byte { return text(t.Title[:]) }

// Less is the strict weak order on the join key;
// every sort of a title relation uses it.
func (t *Title) Less(other *Title) bool { return t.TitleID < other.TitleID }

// String renders the record in its CSV shape.
func (t *Title) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d,%s,%s,%d,%d,%d,%s,%d,%d,%d,%s,%s",
		t.TitleID, t.TitleBytes(), text(t.ImdbIndex[:]), t.KindID,
		t.ProductionYear, t.ImdbID, text(t.PhoneticCode[:]),
		t.EpisodeOfID, t.SeasonNr, t.EpisodeNr,
		text(t.SeriesYears[:]), text(t.Md5sum[:]))
	return sb.String()
}
