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
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/cespare/xxhash/v2"
	"github.com/pierrec/lz4"
)

const (
	// Magic is the magic number for Westmarch Legacy save files ("wls2").
	Magic int32 = 0x32736c77
	// Ver is the save format revision this package understands.
	Ver int32 = 0x00000004

	// maxFrameSize bounds a frame's declared raw size; anything larger is
	// a corrupt header, not a real save.
	maxFrameSize = 1 << 30
)

// CategoryBlob is one category's raw decoded bytes as stored in a save
// file. The codec core only ever sees these buffers; file placement and
// backup sequencing stay with the caller.
type CategoryBlob struct {
	Name string
	Data []byte
}

// ReadInt32 reads a little-endian int32 from a stream.
func ReadInt32(r io.Reader) (int32, error) {
	var v int32
	if err := binary.Read(r, binary.LittleEndian, &v); err != nil {
		return 0, err
	}
	return v, nil
}

// WriteInt32 writes a little-endian int32 to a stream.
func WriteInt32(w io.Writer, v int32) error {
	return binary.Write(w, binary.LittleEndian, v)
}

// ReadContainer reads a save file: magic, version, frame count, then one
// lz4 block frame per category. Each frame carries the category name, the
// compressed and raw sizes, and an xxhash64 of the raw bytes that is
// verified before the category is handed out.
func ReadContainer(r io.Reader) ([]CategoryBlob, error) {
	m, err := ReadInt32(r)
	if err != nil {
		return nil, fmt.Errorf("reading magic number: %w", err)
	}
	if m != Magic {
		return nil, fmt.Errorf("%#x: %w", m, ErrBadMagic)
	}
	v, err := ReadInt32(r)
	if err != nil {
		return nil, fmt.Errorf("reading version: %w", err)
	}
	if v != Ver {
		return nil, fmt.Errorf("%#x: %w", v, ErrBadVersion)
	}
	count, err := ReadInt32(r)
	if err != nil {
		return nil, fmt.Errorf("reading frame count: %w", err)
	}
	if count < 0 || count > 64 {
		return nil, fmt.Errorf("frame count %d out of range", count)
	}
	blobs := make([]CategoryBlob, 0, count)
	for i := int32(0); i < count; i++ {
		blob, err := readFrame(r)
		if err != nil {
			return nil, fmt.Errorf("frame %d: %w", i, err)
		}
		blobs = append(blobs, blob)
	}
	return blobs, nil
}

func readFrame(r io.Reader) (CategoryBlob, error) {
	var nameLen uint8
	if err := binary.Read(r, binary.LittleEndian, &nameLen); err != nil {
		return CategoryBlob{}, fmt.Errorf("reading name length: %w", err)
	}
	name := make([]byte, nameLen)
	if _, err := io.ReadFull(r, name); err != nil {
		return CategoryBlob{}, fmt.Errorf("reading name: %w", err)
	}
	sizeCom, err := ReadInt32(r)
	if err != nil {
		return CategoryBlob{}, fmt.Errorf("reading compressed size: %w", err)
	}
	sizeRaw, err := ReadInt32(r)
	if err != nil {
		return CategoryBlob{}, fmt.Errorf("reading raw size: %w", err)
	}
	if sizeCom < 0 || sizeRaw < 0 || sizeRaw > maxFrameSize || sizeCom > maxFrameSize {
		return CategoryBlob{}, fmt.Errorf("frame sizes %d/%d out of range", sizeCom, sizeRaw)
	}
	var sum uint64
	if err := binary.Read(r, binary.LittleEndian, &sum); err != nil {
		return CategoryBlob{}, fmt.Errorf("reading checksum: %w", err)
	}
	com := make([]byte, sizeCom)
	if _, err := io.ReadFull(r, com); err != nil {
		return CategoryBlob{}, fmt.Errorf("reading frame body: %w", err)
	}

	var raw []byte
	if sizeCom == sizeRaw {
		// lz4.CompressBlock returns 0 for incompressible data; such
		// frames are stored raw.
		raw = com
	} else {
		raw = make([]byte, sizeRaw)
		n, err := lz4.UncompressBlock(com, raw)
		if err != nil {
			return CategoryBlob{}, fmt.Errorf("decompressing frame: %w", err)
		}
		if int32(n) != sizeRaw {
			return CategoryBlob{}, fmt.Errorf("expecting %d bytes, read %d", sizeRaw, n)
		}
	}
	if xxhash.Sum64(raw) != sum {
		return CategoryBlob{}, fmt.Errorf("%q: %w", name, ErrChecksum)
	}
	return CategoryBlob{Name: string(name), Data: raw}, nil
}

// WriteContainer writes a save file from category buffers. It only
// produces new bytes on w; archiving the previous file is the caller's
// concern.
func WriteContainer(w io.Writer, blobs []CategoryBlob) error {
	if err := WriteInt32(w, Magic); err != nil {
		return fmt.Errorf("writing magic number: %w", err)
	}
	if err := WriteInt32(w, Ver); err != nil {
		return fmt.Errorf("writing version: %w", err)
	}
	if err := WriteInt32(w, int32(len(blobs))); err != nil {
		return fmt.Errorf("writing frame count: %w", err)
	}
	for _, blob := range blobs {
		if err := writeFrame(w, blob); err != nil {
			return fmt.Errorf("frame %q: %w", blob.Name, err)
		}
	}
	return nil
}

func writeFrame(w io.Writer, blob CategoryBlob) error {
	if len(blob.Name) > 255 {
		return fmt.Errorf("category name %d bytes long", len(blob.Name))
	}
	if len(blob.Data) > maxFrameSize {
		return fmt.Errorf("frame body %d bytes long", len(blob.Data))
	}
	com := make([]byte, len(blob.Data))
	n, err := lz4.CompressBlock(blob.Data, com, make([]int, 1<<16))
	if err != nil {
		return fmt.Errorf("compressing frame: %w", err)
	}
	if n == 0 {
		// Not compressible; store raw with sizeCom == sizeRaw.
		com = blob.Data
	} else {
		com = com[:n]
	}

	if err := binary.Write(w, binary.LittleEndian, uint8(len(blob.Name))); err != nil {
		return fmt.Errorf("writing name length: %w", err)
	}
	if _, err := io.WriteString(w, blob.Name); err != nil {
		return fmt.Errorf("writing name: %w", err)
	}
	if err := WriteInt32(w, int32(len(com))); err != nil {
		return fmt.Errorf("writing compressed size: %w", err)
	}
	if err := WriteInt32(w, int32(len(blob.Data))); err != nil {
		return fmt.Errorf("writing raw size: %w", err)
	}
	if err := binary.Write(w, binary.LittleEndian, xxhash.Sum64(blob.Data)); err != nil {
		return fmt.Errorf("writing checksum: %w", err)
	}
	if _, err := w.Write(com); err != nil {
		return fmt.Errorf("writing frame body: %w", err)
	}
	return nil
}

// OpenContainer reads a save stream and opens a document over its
// categories. Categories without a schema descriptor are skipped rather
// than failing the whole slot, so one unknown variant does not block the
// readable ones; their names come back in the second return value.
func OpenContainer(r io.Reader) (*Document, []string, error) {
	blobs, err := ReadContainer(r)
	if err != nil {
		return nil, nil, err
	}
	doc := NewDocument()
	var skipped []string
	for _, blob := range blobs {
		if err := doc.AddCategory(blob.Name, blob.Data); err != nil {
			if errors.Is(err, ErrSchemaUnsupported) {
				skipped = append(skipped, blob.Name)
				continue
			}
			return nil, nil, err
		}
	}
	return doc, skipped, nil
}
