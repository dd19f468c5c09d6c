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

package wlse_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wlse/wlse-go/pkg/wlse"
)

func decodeCategory(t *testing.T, category string, buf []byte) *wlse.Value {
	t.Helper()
	schema, err := wlse.SchemaFor(category)
	require.NoError(t, err)
	root, consumed, err := wlse.Decode(buf, schema)
	require.NoError(t, err)
	require.Equal(t, len(buf), consumed, "decode must account for every byte")
	return root
}

func TestDecodePlayerData(t *testing.T) {
	root := decodeCategory(t, wlse.CatPlayerData, samplePlayerData())

	assert.Equal(t, wlse.KindRecord, root.Kind())
	assert.Equal(t, uint64(500), root.Field("money").Uint())
	assert.Equal(t, uint64(7), root.Field("level").Uint())
	assert.Equal(t, 72.5, root.Field("health").Float())
	assert.Equal(t, true, root.Field("hardcore").Bool())
	assert.Equal(t, "Alice", root.Field("name").Str())

	party := root.Field("party")
	require.Equal(t, 2, party.Len())
	assert.Equal(t, "Rook", party.At(0).Field("name").Str())
	assert.Equal(t, uint64(77), party.At(0).Field("bond").Uint())
	assert.Equal(t, "Ivy", party.At(1).Field("name").Str())

	inv := root.Field("inventory")
	require.Equal(t, 1, inv.Len())
	assert.Equal(t, uint64(9001), inv.At(0).Field("itemId").Uint())
	assert.Equal(t, uint64(3), inv.At(0).Field("qty").Uint())
}

func TestDecodeMissionData(t *testing.T) {
	root := decodeCategory(t, wlse.CatMissionData, sampleMissionData())

	assert.Equal(t, uint64(2), root.Field("act").Uint())
	missions := root.Field("missions")
	require.Equal(t, 2, missions.Len())
	assert.Equal(t, uint64(301), missions.At(0).Field("id").Uint())
	assert.InDelta(t, 0.25, missions.At(0).Field("progress").Float(), 1e-9)
	assert.Equal(t, uint64(0), missions.At(1).Field("state").Uint())
}

func TestDecodeSlotInfo(t *testing.T) {
	image := []byte{1, 2, 3, 4, 5, 6}
	root := decodeCategory(t, wlse.CatSlotInfo, sampleSlotInfo(image))

	assert.Equal(t, int64(2), root.Field("lastSelectedPlayerSlot").Int())
	assert.Equal(t, "2025-09-22 12:00", root.Field("dateTime").Str())
	assert.Equal(t, image, root.Field("smallImageData").Bytes())
}

func TestDecodeSignedField(t *testing.T) {
	buf := sampleSlotInfo(nil)
	// lastSelectedPlayerSlot is the first four bytes; make it -1.
	copy(buf, []byte{0xff, 0xff, 0xff, 0xff})

	root := decodeCategory(t, wlse.CatSlotInfo, buf)
	assert.Equal(t, int64(-1), root.Field("lastSelectedPlayerSlot").Int())
	assert.Equal(t, "-1", root.Field("lastSelectedPlayerSlot").Render())
}

func TestDecodeTrailingBytesKept(t *testing.T) {
	tail := []byte{0xde, 0xad, 0xbe, 0xef}
	buf := append(samplePlayerData(), tail...)

	root := decodeCategory(t, wlse.CatPlayerData, buf)

	trailing := root.Field(wlse.TrailingKey)
	require.NotNil(t, trailing, "unknown trailing bytes must be captured, not dropped")
	assert.Equal(t, wlse.KindUnparsed, trailing.Kind())
	assert.Equal(t, tail, trailing.Bytes())

	out, err := wlse.Encode(root)
	require.NoError(t, err)
	assert.Equal(t, buf, out)
}

func TestDecodeTruncated(t *testing.T) {
	full := samplePlayerData()
	schema, err := wlse.SchemaFor(wlse.CatPlayerData)
	require.NoError(t, err)

	tests := []struct {
		name string
		cut  int
		path string
	}{
		{"inside money", 2, "/money"},
		{"inside level", 5, "/level"},
		{"inside name slot", 14, "/name"},
		{"inside party element", 35, "/party/0/name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := wlse.Decode(full[:tt.cut], schema)
			require.Error(t, err)
			assert.ErrorIs(t, err, wlse.ErrOutOfBounds)

			var derr *wlse.DecodeError
			require.ErrorAs(t, err, &derr)
			assert.Equal(t, tt.path, derr.Path.String())
			assert.LessOrEqual(t, derr.Offset, tt.cut)
		})
	}
}

func TestDecodeBadStringPrefix(t *testing.T) {
	buf := samplePlayerData()
	// The name prefix sits after money+level+health+hardcore (11 bytes).
	buf[11] = 200
	buf[12] = 0

	schema, err := wlse.SchemaFor(wlse.CatPlayerData)
	require.NoError(t, err)
	_, _, err = wlse.Decode(buf, schema)
	require.Error(t, err)

	var derr *wlse.DecodeError
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, "/name", derr.Path.String())
	assert.Contains(t, derr.Error(), "slot")
}

func TestDecodeBadCountPrefix(t *testing.T) {
	buf := samplePlayerData()
	// party count byte is at offset 29; far more elements than bytes remain.
	buf[29] = 255

	schema, err := wlse.SchemaFor(wlse.CatPlayerData)
	require.NoError(t, err)
	_, _, err = wlse.Decode(buf, schema)
	require.Error(t, err)

	var derr *wlse.DecodeError
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, "/party", derr.Path.String())
}

func TestDecodeInvalidUTF8String(t *testing.T) {
	buf := samplePlayerData()
	// Corrupt the first byte of "Alice" (after the 2-byte prefix at 11).
	buf[13] = 0xff

	schema, err := wlse.SchemaFor(wlse.CatPlayerData)
	require.NoError(t, err)
	_, _, err = wlse.Decode(buf, schema)
	assert.ErrorIs(t, err, wlse.ErrInvalidUTF8)
}

func TestDecodeIndependentOfCallerBuffer(t *testing.T) {
	image := []byte{9, 9, 9, 9}
	buf := sampleSlotInfo(image)
	root := decodeCategory(t, wlse.CatSlotInfo, buf)

	for i := range buf {
		buf[i] = 0
	}
	assert.Equal(t, image, root.Field("smallImageData").Bytes(),
		"tree must not alias the caller's buffer")
	assert.Equal(t, "2025-09-22 12:00", root.Field("dateTime").Str())
}
