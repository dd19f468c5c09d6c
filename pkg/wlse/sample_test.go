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
	"bytes"
	"encoding/binary"
)

// Sample category buffers matching the built-in revision 4 schemas.

var le = binary.LittleEndian

func put(buf *bytes.Buffer, v any) {
	// binary.Write on a bytes.Buffer cannot fail for fixed-size values.
	_ = binary.Write(buf, le, v)
}

// writeSlotString writes a used-length prefix of prefixWidth bytes, the
// text, and padding up to slotLen.
func writeSlotString(buf *bytes.Buffer, prefixWidth uint8, slotLen int, text string, pad byte) {
	switch prefixWidth {
	case 1:
		put(buf, uint8(len(text)))
	case 2:
		put(buf, uint16(len(text)))
	case 4:
		put(buf, uint32(len(text)))
	}
	buf.WriteString(text)
	buf.Write(bytes.Repeat([]byte{pad}, slotLen-len(text)))
}

// samplePlayerData builds a PlayerData buffer:
//
//	money=500 level=7 health=72.5 hardcore=true name="Alice"
//	party=[{11,"Rook",77},{12,"Ivy",50}] inventory=[{9001,3}]
func samplePlayerData() []byte {
	var buf bytes.Buffer
	put(&buf, uint32(500))
	put(&buf, uint16(7))
	put(&buf, float32(72.5))
	buf.WriteByte(1)
	writeSlotString(&buf, 2, 16, "Alice", 0)

	buf.WriteByte(2) // party count
	put(&buf, uint32(11))
	writeSlotString(&buf, 1, 12, "Rook", 0)
	buf.WriteByte(77)
	put(&buf, uint32(12))
	writeSlotString(&buf, 1, 12, "Ivy", 0)
	buf.WriteByte(50)

	put(&buf, uint16(1)) // inventory count
	put(&buf, uint32(9001))
	put(&buf, uint16(3))
	return buf.Bytes()
}

// samplePlayerDataDirtyPad is samplePlayerData with nonzero bytes in the
// name slot padding, as shipped saves sometimes have.
func samplePlayerDataDirtyPad() []byte {
	var buf bytes.Buffer
	put(&buf, uint32(500))
	put(&buf, uint16(7))
	put(&buf, float32(72.5))
	buf.WriteByte(1)
	writeSlotString(&buf, 2, 16, "Alice", 0xAA)

	buf.WriteByte(0) // party count
	put(&buf, uint16(0))
	return buf.Bytes()
}

func sampleMissionData() []byte {
	var buf bytes.Buffer
	buf.WriteByte(2)     // act
	put(&buf, uint16(2)) // mission count
	put(&buf, uint32(301))
	buf.WriteByte(1)
	put(&buf, float32(0.25))
	put(&buf, uint32(302))
	buf.WriteByte(0)
	put(&buf, float32(0))
	return buf.Bytes()
}

func sampleSlotInfo(image []byte) []byte {
	var buf bytes.Buffer
	put(&buf, int32(2))
	writeSlotString(&buf, 1, 24, "2025-09-22 12:00", 0)
	put(&buf, uint32(len(image)))
	buf.Write(image)
	return buf.Bytes()
}
