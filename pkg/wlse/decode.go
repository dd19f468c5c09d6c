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
	"strconv"
	"unicode/utf8"
)

// TrailingKey is the reserved record key under which bytes past the last
// schema field are kept as an Unparsed value, so category variants the
// schema does not fully describe still round-trip byte-for-byte.
const TrailingKey = "@trailing"

// Decode walks one category's byte buffer with its schema descriptor and
// returns the decoded record plus the consumed byte count. Malformed
// input fails with a *DecodeError carrying the offset and field path; no
// partially built tree is ever returned.
func Decode(buf []byte, schema *Schema) (*Value, int, error) {
	d := &decoder{r: NewReader(buf)}
	root, err := d.record(schema.Fields)
	if err != nil {
		return nil, 0, err
	}
	if rest := d.r.Remaining(); rest > 0 {
		start := d.r.Pos()
		raw, _ := d.r.Bytes(rest)
		tail := &Value{
			kind: KindUnparsed,
			raw:  append([]byte(nil), raw...),
			lay:  layout{offset: start, size: rest},
		}
		root.fields = append(root.fields, Field{Key: TrailingKey, Val: tail})
		root.lay.size += rest
	}
	return root, d.r.Pos(), nil
}

type decoder struct {
	r    *Reader
	path Path
}

func (d *decoder) errf(err error, format string, args ...any) error {
	return decodeErrf(d.r.Pos(), d.path, err, format, args...)
}

func (d *decoder) record(specs []FieldSpec) (*Value, error) {
	start := d.r.Pos()
	v := &Value{kind: KindRecord, fields: make([]Field, 0, len(specs))}
	for i := range specs {
		spec := &specs[i]
		d.path = append(d.path, spec.Key)
		fv, err := d.field(spec)
		if err != nil {
			return nil, err
		}
		d.path = d.path[:len(d.path)-1]
		v.fields = append(v.fields, Field{Key: spec.Key, Val: fv})
	}
	v.lay.offset = start
	v.lay.size = d.r.Pos() - start
	return v, nil
}

func (d *decoder) field(spec *FieldSpec) (*Value, error) {
	switch spec.Kind {
	case KindInt:
		return d.integer(spec)
	case KindFloat:
		return d.float(spec)
	case KindBool:
		return d.boolean()
	case KindString:
		return d.str(spec)
	case KindBlob:
		return d.blob(spec)
	case KindSeq:
		return d.seq(spec)
	case KindRecord:
		return d.record(spec.Fields)
	default:
		return nil, d.errf(nil, "schema field has invalid kind %v", spec.Kind)
	}
}

func (d *decoder) integer(spec *FieldSpec) (*Value, error) {
	start := d.r.Pos()
	bits, err := d.r.Uint(spec.Width)
	if err != nil {
		return nil, d.errf(err, "reading %d-byte integer", spec.Width)
	}
	return &Value{
		kind: KindInt,
		bits: bits,
		lay: layout{
			offset: start,
			size:   int(spec.Width),
			width:  spec.Width,
			signed: spec.Signed,
		},
	}, nil
}

func (d *decoder) float(spec *FieldSpec) (*Value, error) {
	start := d.r.Pos()
	var f float64
	var err error
	switch spec.Width {
	case 4:
		var f32 float32
		f32, err = d.r.F32()
		f = float64(f32)
	case 8:
		f, err = d.r.F64()
	default:
		return nil, d.errf(nil, "schema float width %d unsupported", spec.Width)
	}
	if err != nil {
		return nil, d.errf(err, "reading %d-byte float", spec.Width)
	}
	return &Value{
		kind: KindFloat,
		f:    f,
		lay:  layout{offset: start, size: int(spec.Width), width: spec.Width},
	}, nil
}

func (d *decoder) boolean() (*Value, error) {
	start := d.r.Pos()
	b, err := d.r.U8()
	if err != nil {
		return nil, d.errf(err, "reading bool")
	}
	return &Value{
		kind: KindBool,
		b:    b != 0,
		lay:  layout{offset: start, size: 1, rawBool: b},
	}, nil
}

// str decodes a slotted string: a used-length prefix, then a fixed slot
// of SlotLen bytes. The bytes past the used length are padding and are
// retained verbatim for re-encoding.
func (d *decoder) str(spec *FieldSpec) (*Value, error) {
	start := d.r.Pos()
	used, err := d.r.Uint(spec.PrefixWidth)
	if err != nil {
		return nil, d.errf(err, "reading string length prefix")
	}
	if used > uint64(spec.SlotLen) {
		return nil, d.errf(nil, "string length %d exceeds %d-byte slot", used, spec.SlotLen)
	}
	slot, err := d.r.Bytes(spec.SlotLen)
	if err != nil {
		return nil, d.errf(err, "reading %d-byte string slot", spec.SlotLen)
	}
	text := slot[:used]
	if !utf8.Valid(text) {
		return nil, d.errf(ErrInvalidUTF8, "decoding string")
	}
	return &Value{
		kind: KindString,
		s:    string(text),
		lay: layout{
			offset:      start,
			size:        int(spec.PrefixWidth) + spec.SlotLen,
			prefixWidth: spec.PrefixWidth,
			slotLen:     spec.SlotLen,
			pad:         append([]byte(nil), slot[used:]...),
		},
	}, nil
}

func (d *decoder) blob(spec *FieldSpec) (*Value, error) {
	start := d.r.Pos()
	n := spec.SlotLen
	if spec.PrefixWidth > 0 {
		ln, err := d.r.Uint(spec.PrefixWidth)
		if err != nil {
			return nil, d.errf(err, "reading blob length prefix")
		}
		if ln > uint64(d.r.Remaining()) {
			return nil, d.errf(nil, "blob length %d exceeds %d remaining bytes", ln, d.r.Remaining())
		}
		n = int(ln)
	}
	raw, err := d.r.Bytes(n)
	if err != nil {
		return nil, d.errf(err, "reading %d-byte blob", n)
	}
	return &Value{
		kind: KindBlob,
		raw:  append([]byte(nil), raw...),
		lay: layout{
			offset:      start,
			size:        d.r.Pos() - start,
			prefixWidth: spec.PrefixWidth,
			slotLen:     n,
		},
	}, nil
}

func (d *decoder) seq(spec *FieldSpec) (*Value, error) {
	start := d.r.Pos()
	var count int
	untilEnd := false
	switch spec.Count {
	case CountFixed:
		count = spec.FixedCount
	case CountPrefixed:
		n, err := d.r.Uint(spec.PrefixWidth)
		if err != nil {
			return nil, d.errf(err, "reading element count prefix")
		}
		// Each element occupies at least one byte, so a count beyond the
		// remaining bytes can only be a corrupt prefix.
		if n > uint64(d.r.Remaining()) {
			return nil, d.errf(nil, "element count %d exceeds %d remaining bytes", n, d.r.Remaining())
		}
		count = int(n)
	case CountUntilEnd:
		untilEnd = true
	}
	v := &Value{kind: KindSeq}
	for i := 0; !untilEnd && i < count || untilEnd && d.r.Remaining() > 0; i++ {
		d.path = append(d.path, strconv.Itoa(i))
		ev, err := d.field(spec.Elem)
		if err != nil {
			return nil, err
		}
		d.path = d.path[:len(d.path)-1]
		v.elems = append(v.elems, ev)
	}
	v.lay = layout{
		offset:      start,
		size:        d.r.Pos() - start,
		prefixWidth: spec.PrefixWidth,
		untilEnd:    untilEnd,
	}
	return v, nil
}
