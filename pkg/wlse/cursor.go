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
	"math"
	"unicode/utf8"
)

// Reader is a sequential cursor over a byte buffer. All multi-byte reads
// are little-endian, the byte order of the save format. A short read fails
// with ErrOutOfBounds and leaves the position unchanged.
type Reader struct {
	buf []byte
	pos int
}

// NewReader returns a Reader positioned at the start of buf.
func NewReader(buf []byte) *Reader {
	return &Reader{buf: buf}
}

// Pos returns the current absolute position.
func (r *Reader) Pos() int {
	return r.pos
}

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int {
	return len(r.buf) - r.pos
}

// Seek moves the cursor to an absolute position.
func (r *Reader) Seek(off int) error {
	if off < 0 || off > len(r.buf) {
		return ErrOutOfBounds
	}
	r.pos = off
	return nil
}

func (r *Reader) need(n int) error {
	if len(r.buf)-r.pos < n {
		return ErrOutOfBounds
	}
	return nil
}

// Peek returns the next byte without advancing.
func (r *Reader) Peek() (uint8, error) {
	if err := r.need(1); err != nil {
		return 0, err
	}
	return r.buf[r.pos], nil
}

// U8 reads one byte.
func (r *Reader) U8() (uint8, error) {
	if err := r.need(1); err != nil {
		return 0, err
	}
	b := r.buf[r.pos]
	r.pos++
	return b, nil
}

// U16 reads a little-endian uint16.
func (r *Reader) U16() (uint16, error) {
	if err := r.need(2); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint16(r.buf[r.pos:])
	r.pos += 2
	return v, nil
}

// U32 reads a little-endian uint32.
func (r *Reader) U32() (uint32, error) {
	if err := r.need(4); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint32(r.buf[r.pos:])
	r.pos += 4
	return v, nil
}

// U64 reads a little-endian uint64.
func (r *Reader) U64() (uint64, error) {
	if err := r.need(8); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint64(r.buf[r.pos:])
	r.pos += 8
	return v, nil
}

// I8 reads a signed byte.
func (r *Reader) I8() (int8, error) {
	v, err := r.U8()
	return int8(v), err
}

// I16 reads a little-endian int16.
func (r *Reader) I16() (int16, error) {
	v, err := r.U16()
	return int16(v), err
}

// I32 reads a little-endian int32.
func (r *Reader) I32() (int32, error) {
	v, err := r.U32()
	return int32(v), err
}

// I64 reads a little-endian int64.
func (r *Reader) I64() (int64, error) {
	v, err := r.U64()
	return int64(v), err
}

// F32 reads a little-endian IEEE 754 float32.
func (r *Reader) F32() (float32, error) {
	v, err := r.U32()
	return math.Float32frombits(v), err
}

// F64 reads a little-endian IEEE 754 float64.
func (r *Reader) F64() (float64, error) {
	v, err := r.U64()
	return math.Float64frombits(v), err
}

// Uint reads an unsigned integer of the given byte width (1, 2, 4 or 8).
func (r *Reader) Uint(width uint8) (uint64, error) {
	switch width {
	case 1:
		v, err := r.U8()
		return uint64(v), err
	case 2:
		v, err := r.U16()
		return uint64(v), err
	case 4:
		v, err := r.U32()
		return uint64(v), err
	case 8:
		return r.U64()
	default:
		return 0, ErrOutOfBounds
	}
}

// Bytes reads n raw bytes. The returned slice aliases the underlying
// buffer; callers that retain it must copy.
func (r *Reader) Bytes(n int) ([]byte, error) {
	if n < 0 {
		return nil, ErrOutOfBounds
	}
	if err := r.need(n); err != nil {
		return nil, err
	}
	b := r.buf[r.pos : r.pos+n]
	r.pos += n
	return b, nil
}

// LPString reads a length-prefixed UTF-8 string. lenWidth is the byte
// width of the little-endian length prefix.
func (r *Reader) LPString(lenWidth uint8) (string, error) {
	mark := r.pos
	n, err := r.Uint(lenWidth)
	if err != nil {
		return "", err
	}
	if n > uint64(r.Remaining()) {
		r.pos = mark
		return "", ErrOutOfBounds
	}
	b, err := r.Bytes(int(n))
	if err != nil {
		r.pos = mark
		return "", err
	}
	if !utf8.Valid(b) {
		r.pos = mark
		return "", ErrInvalidUTF8
	}
	return string(b), nil
}

// Writer is the write-mode counterpart of Reader. In append mode the
// buffer grows as needed; in fixed mode writes beyond the preallocated
// capacity fail with ErrBufferExhausted. Seek allows overwriting earlier
// positions for formats with forward references.
type Writer struct {
	buf   []byte
	pos   int
	high  int
	fixed bool
}

// NewWriter returns a growing append-mode Writer.
func NewWriter() *Writer {
	return &Writer{}
}

// NewFixedWriter returns a Writer over a fixed-capacity buffer of n bytes.
func NewFixedWriter(n int) *Writer {
	return &Writer{buf: make([]byte, 0, n), fixed: true}
}

// Bytes returns the written bytes up to the high-water mark.
func (w *Writer) Bytes() []byte {
	return w.buf[:w.high]
}

// Pos returns the current write position.
func (w *Writer) Pos() int {
	return w.pos
}

// Seek moves the write position. Seeking beyond the high-water mark fails.
func (w *Writer) Seek(off int) error {
	if off < 0 || off > w.high {
		return ErrOutOfBounds
	}
	w.pos = off
	return nil
}

func (w *Writer) ensure(n int) error {
	end := w.pos + n
	if end <= len(w.buf) {
		return nil
	}
	if w.fixed {
		if end > cap(w.buf) {
			return ErrBufferExhausted
		}
		w.buf = w.buf[:end]
		return nil
	}
	if end > cap(w.buf) {
		c := cap(w.buf)
		if c < 16 {
			c = 16
		}
		for end > c {
			c <<= 1
		}
		grown := make([]byte, end, c)
		copy(grown, w.buf)
		w.buf = grown
	} else {
		w.buf = w.buf[:end]
	}
	return nil
}

func (w *Writer) put(b []byte) error {
	if err := w.ensure(len(b)); err != nil {
		return err
	}
	copy(w.buf[w.pos:], b)
	w.pos += len(b)
	if w.pos > w.high {
		w.high = w.pos
	}
	return nil
}

// U8 writes one byte.
func (w *Writer) U8(v uint8) error {
	return w.put([]byte{v})
}

// U16 writes a little-endian uint16.
func (w *Writer) U16(v uint16) error {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	return w.put(b[:])
}

// U32 writes a little-endian uint32.
func (w *Writer) U32(v uint32) error {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	return w.put(b[:])
}

// U64 writes a little-endian uint64.
func (w *Writer) U64(v uint64) error {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	return w.put(b[:])
}

// I8 writes a signed byte.
func (w *Writer) I8(v int8) error { return w.U8(uint8(v)) }

// I16 writes a little-endian int16.
func (w *Writer) I16(v int16) error { return w.U16(uint16(v)) }

// I32 writes a little-endian int32.
func (w *Writer) I32(v int32) error { return w.U32(uint32(v)) }

// I64 writes a little-endian int64.
func (w *Writer) I64(v int64) error { return w.U64(uint64(v)) }

// F32 writes a little-endian IEEE 754 float32.
func (w *Writer) F32(v float32) error { return w.U32(math.Float32bits(v)) }

// F64 writes a little-endian IEEE 754 float64.
func (w *Writer) F64(v float64) error { return w.U64(math.Float64bits(v)) }

// Uint writes an unsigned integer of the given byte width (1, 2, 4 or 8).
func (w *Writer) Uint(width uint8, v uint64) error {
	switch width {
	case 1:
		return w.U8(uint8(v))
	case 2:
		return w.U16(uint16(v))
	case 4:
		return w.U32(uint32(v))
	case 8:
		return w.U64(v)
	default:
		return ErrBufferExhausted
	}
}

// Raw writes raw bytes verbatim.
func (w *Writer) Raw(b []byte) error {
	return w.put(b)
}

// LPString writes a length-prefixed UTF-8 string. The string must fit the
// prefix's numeric range.
func (w *Writer) LPString(lenWidth uint8, s string) error {
	if lenWidth < 8 && uint64(len(s)) >= 1<<(8*uint(lenWidth)) {
		return ErrValueTooLarge
	}
	if err := w.Uint(lenWidth, uint64(len(s))); err != nil {
		return err
	}
	return w.put([]byte(s))
}
