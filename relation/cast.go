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

// CastFields is the arity of a cast CSV record.
const CastFields = 7

// NoteLen is the byte cap of Cast.Note.
const NoteLen = 100

// Cast is one row of the cast_info relation.
// MovieID is the equi-join key; Note is the key
// of the string prefix join.
type Cast struct {
	CastInfoID   int32
	PersonID     int32
	MovieID      int32
	PersonRoleID int32
	Note         [NoteLen]byte
	NrOrder      int32
	RoleID       int32
}

// ParseCast parses one comma-separated cast line.
func ParseCast(line []byte) (Cast, error) {
	var c Cast
	var fields [CastFields][]byte
	if err := splitFields(fields[:], line); err != nil {
		return c, err
	}
	var err error
	if c.CastInfoID, err = parseI32(fields[0]); err != nil {
		return c, err
	}
	if c.PersonID, err = parseI32(fields[1]); err != nil {
		return c, err
	}
	if c.MovieID, err = parseI32(fields[2]); err != nil {
		return c, err
	}
	if c.PersonRoleID, err = parseI32(fields[3]); err != nil {
		return c, err
	}
	setText(c.Note[:], fields[4])
	if c.NrOrder, err = parseI32(fields[5]); err != nil {
		return c, err
	}
	if c.RoleID, err = parseI32(fields[6]); err != nil {
		return c, err
	}
	return c, nil
}

// NoteBytes returns the note field without zero padding.
func (c *Cast) NoteBytes() []byte { return text(c.Note[:]) }

// Less is the strict weak order on the join key;
// every sort of a cast relation uses it.
func (c *Cast) Less(other *Cast) bool { return c.MovieID < other.MovieID }

// String renders the record in its CSV shape.
func (c *Cast) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d,%d,%d,%d,%s,%d,%d",
		c.CastInfoID, c.PersonID, c.MovieID, c.PersonRoleID,
		c.NoteBytes(), c.NrOrder, c.RoleID)
	return sb.String()
}
