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

import "fmt"

// Encode re-serializes a tree produced by Decode, mirroring the decode
// traversal and the stored layout metadata so that an unedited tree
// reproduces its original bytes exactly. A value whose edited payload
// cannot fit its original slot fails with ErrValueTooLarge; the format
// has no relocation support, so resizing or truncating would shift every
// later offset. Encode never mutates the tree.
func Encode(root *Value) ([]byte, error) {
	if root.Kind() != KindRecord {
		return nil, fmt.Errorf("encode root: %w", ErrTypeMismatch)
	}
	w := NewWriter()
	if err := encodeValue(w, root); err != nil {
		return nil, err
	}
	return w.Bytes(), nil
}

func encodeValue(w *Writer, v *Value) error {
	switch v.kind {
	case KindInt:
		if v.bits&^intMask(v.lay.width) != 0 {
			return fmt.Errorf("integer %d exceeds %d-byte width: %w", v.bits, v.lay.width, ErrValueTooLarge)
		}
		return w.Uint(v.lay.width, v.bits)
	case KindFloat:
		if v.lay.width == 4 {
			return w.F32(float32(v.f))
		}
		return w.F64(v.f)
	case KindBool:
		return w.U8(v.lay.rawBool)
	case KindString:
		return encodeString(w, v)
	case KindBlob:
		return encodeBlob(w, v)
	case KindSeq:
		return encodeSeq(w, v)
	case KindRecord:
		for _, f := range v.fields {
			if err := encodeValue(w, f.Val); err != nil {
				return err
			}
		}
		return nil
	case KindUnparsed:
		return w.Raw(v.raw)
	default:
		return fmt.Errorf("encode: invalid kind %v: %w", v.kind, ErrTypeMismatch)
	}
}

func encodeString(w *Writer, v *Value) error {
	used := len(v.s)
	if used > v.lay.slotLen {
		return fmt.Errorf("string %d bytes in %d-byte slot: %w", used, v.lay.slotLen, ErrValueTooLarge)
	}
	if used+len(v.lay.pad) != v.lay.slotLen {
		return fmt.Errorf("string slot bookkeeping off (%d used, %d pad, %d slot): %w",
			used, len(v.lay.pad), v.lay.slotLen, ErrValueTooLarge)
	}
	if err := w.Uint(v.lay.prefixWidth, uint64(used)); err != nil {
		return err
	}
	if err := w.Raw([]byte(v.s)); err != nil {
		return err
	}
	return w.Raw(v.lay.pad)
}

func encodeBlob(w *Writer, v *Value) error {
	if len(v.raw) != v.lay.slotLen {
		return fmt.Errorf("blob %d bytes, slot holds %d: %w", len(v.raw), v.lay.slotLen, ErrValueTooLarge)
	}
	if v.lay.prefixWidth > 0 {
		if err := w.Uint(v.lay.prefixWidth, uint64(len(v.raw))); err != nil {
			return err
		}
	}
	return w.Raw(v.raw)
}

func encodeSeq(w *Writer, v *Value) error {
	if v.lay.prefixWidth > 0 {
		if err := w.Uint(v.lay.prefixWidth, uint64(len(v.elems))); err != nil {
			return err
		}
	}
	for _, e := range v.elems {
		if err := encodeValue(w, e); err != nil {
			return err
		}
	}
	return nil
}
