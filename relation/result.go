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

// Result is the field-wise concatenation of one title record
// followed by one cast record. The schema is fixed; absent
// bounded-text bytes stay zero.
type Result struct {
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
	CastInfoID     int32
	PersonID       int32
	MovieID        int32
	PersonRoleID   int32
	Note           [NoteLen]byte
	NrOrder        int32
	RoleID         int32
}

// MakeResult builds the joined tuple for one (cast, title)
// pair. It is a memberwise copy; no allocation happens beyond
// the returned value itself.
func MakeResult(c *Cast, t *Title) Result {
	return Result{
		TitleID:        t.TitleID,
		Title:          t.Title,
		ImdbIndex:      t.ImdbIndex,
		KindID:         t.KindID,
		ProductionYear: t.ProductionYear,
		ImdbID:         t.ImdbID,
		PhoneticCode:   t.PhoneticCode,
		EpisodeOfID:    t.EpisodeOfID,
		SeasonNr:       t.SeasonNr,
		EpisodeNr:      t.EpisodeNr,
		SeriesYears:    t.SeriesYears,
		Md5sum:         t.Md5sum,
		CastInfoID:     c.CastInfoID,
		PersonID:       c.PersonID,
		MovieID:        c.MovieID,
		PersonRoleID:   c.PersonRoleID,
		Note:           c.Note,
		NrOrder:        c.NrOrder,
		RoleID:         c.RoleID,
	}
}

// String renders the record in its CSV shape.
func (r *Result) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d,%s,%s,%d,%d,%d,%s,%d,%d,%d,%s,%s,%d,%d,%d,%d,%s,%d,%d",
		r.TitleID, text(r.Title[:]), text(r.ImdbIndex[:]), r.KindID,
		r.ProductionYear, r.ImdbID, text(r.PhoneticCode[:]),
		r.EpisodeOfID, r.SeasonNr, r.EpisodeNr,
		text(r.SeriesYears[:]), text(r.Md5sum[:]),
		r.CastInfoID, r.PersonID, r.MovieID, r.PersonRoleID,
		text(r.Note[:]), r.NrOrder, r.RoleID)
	return sb.String()
}
