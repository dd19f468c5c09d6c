// wlse-go: Westmarch Legacy save edit suite
// Copyright (C) 2025  The wlse-go authors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package wlse

import (
	"fmt"
	"sort"
)

// CountRule says how a seq's element count is stored.
type CountRule uint8

const (
	// CountFixed: the schema states the count; nothing is stored.
	CountFixed CountRule = iota
	// CountPrefixed: a little-endian count prefix precedes the elements.
	CountPrefixed
	// CountUntilEnd: elements run to the end of the buffer.
	CountUntilEnd
)

// FieldSpec describes one field of the save layout: its key, kind, and
// width/encoding rules. Record and seq fields nest recursively.
type FieldSpec struct {
	Key    string
	Kind   Kind
	Width  uint8 // int/float width in bytes
	Signed bool

	// Strings: PrefixWidth-byte used-length prefix followed by a SlotLen
	// byte slot; unused slot bytes are padding. Blobs: PrefixWidth-byte
	// length prefix, or a fixed SlotLen when PrefixWidth is 0.
	PrefixWidth uint8
	SlotLen     int

	// Seqs
	Count      CountRule
	FixedCount int
	Elem       *FieldSpec

	// Records
	Fields []FieldSpec
}

// Schema is the fixed field sequence of one data category for one save
// format revision.
type Schema struct {
	Category string
	Version  int
	Fields   []FieldSpec
}

// Category names of the supported save revision.
const (
	CatPlayerData  = "PlayerData"
	CatMissionData = "MissionData"
	CatSlotInfo    = "SlotInfo"
)

// schemas holds the descriptor tables for save revision 4, derived from
// inspection of sample saves. Per-category decode rules live here, not in
// code branches; one generic walker consumes them.
var schemas = map[string]*Schema{
	CatPlayerData: {
		Category: CatPlayerData,
		Version:  4,
		Fields: []FieldSpec{
			{Key: "money", Kind: KindInt, Width: 4},
			{Key: "level", Kind: KindInt, Width: 2},
			{Key: "health", Kind: KindFloat, Width: 4},
			{Key: "hardcore", Kind: KindBool},
			{Key: "name", Kind: KindString, PrefixWidth: 2, SlotLen: 16},
			{
				Key: "party", Kind: KindSeq, Count: CountPrefixed, PrefixWidth: 1,
				Elem: &FieldSpec{
					Kind: KindRecord,
					Fields: []FieldSpec{
						{Key: "id", Kind: KindInt, Width: 4},
						{Key: "name", Kind: KindString, PrefixWidth: 1, SlotLen: 12},
						{Key: "bond", Kind: KindInt, Width: 1},
					},
				},
			},
			{
				Key: "inventory", Kind: KindSeq, Count: CountPrefixed, PrefixWidth: 2,
				Elem: &FieldSpec{
					Kind: KindRecord,
					Fields: []FieldSpec{
						{Key: "itemId", Kind: KindInt, Width: 4},
						{Key: "qty", Kind: KindInt, Width: 2},
					},
				},
			},
		},
	},
	CatMissionData: {
		Category: CatMissionData,
		Version:  4,
		Fields: []FieldSpec{
			{Key: "act", Kind: KindInt, Width: 1},
			{
				Key: "missions", Kind: KindSeq, Count: CountPrefixed, PrefixWidth: 2,
				Elem: &FieldSpec{
					Kind: KindRecord,
					Fields: []FieldSpec{
						{Key: "id", Kind: KindInt, Width: 4},
						{Key: "state", Kind: KindInt, Width: 1},
						{Key: "progress", Kind: KindFloat, Width: 4},
					},
				},
			},
		},
	},
	CatSlotInfo: {
		Category: CatSlotInfo,
		Version:  4,
		Fields: []FieldSpec{
			{Key: "lastSelectedPlayerSlot", Kind: KindInt, Width: 4, Signed: true},
			{Key: "dateTime", Kind: KindString, PrefixWidth: 1, SlotLen: 24},
			{Key: "smallImageData", Kind: KindBlob, PrefixWidth: 4},
		},
	},
}

// SchemaFor returns the schema descriptor for a category, or
// ErrSchemaUnsupported when the category variant is not recognized.
func SchemaFor(category string) (*Schema, error) {
	s, ok := schemas[category]
	if !ok {
		return nil, fmt.Errorf("%q: %w", category, ErrSchemaUnsupported)
	}
	return s, nil
}

// Categories returns the known category names, sorted.
func Categories() []string {
	out := make([]string, 0, len(schemas))
	for name := range schemas {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
