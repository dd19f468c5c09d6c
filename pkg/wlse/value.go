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
	"strings"
)

// Kind identifies a Value variant.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindInt
	KindFloat
	KindBool
	KindString
	KindBlob
	KindSeq
	KindRecord
	KindUnparsed
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	case KindString:
		return "string"
	case KindBlob:
		return "blob"
	case KindSeq:
		return "seq"
	case KindRecord:
		return "record"
	case KindUnparsed:
		return "unparsed"
	default:
		return "invalid"
	}
}

// IsLeaf reports whether the kind is a non-container value.
func (k Kind) IsLeaf() bool {
	switch k {
	case KindInt, KindFloat, KindBool, KindString, KindBlob:
		return true
	}
	return false
}

// Field is one key/value member of a record. Keys are unique within a
// record and keep their declaration order.
type Field struct {
	Key string
	Val *Value
}

// layout is the per-node bookkeeping needed to re-encode a node's exact
// original byte representation: offsets, widths, prefixes, padding.
// Edits never touch it.
type layout struct {
	offset      int    // absolute offset within the category buffer
	size        int    // total encoded size, prefixes and padding included
	width       uint8  // int/float width in bytes
	signed      bool   // int signedness
	prefixWidth uint8  // length/count prefix width in bytes, 0 = none
	slotLen     int    // string slot capacity or blob length in bytes
	rawBool     byte   // bool's on-disk byte (the format accepts any nonzero)
	pad         []byte // string slot bytes past the used length
	untilEnd    bool   // seq length is implicit (runs to end of buffer)
}

// Value is one node of a decoded category tree: a tagged union over the
// closed set of variants the save format can hold, plus the layout
// metadata required to reproduce its original bytes.
type Value struct {
	kind   Kind
	bits   uint64 // int payload as raw little-endian bits
	f      float64
	b      bool
	s      string
	raw    []byte  // blob and unparsed payload
	elems  []*Value // seq
	fields []Field  // record
	lay    layout
}

// NewInt returns a signed integer edit value.
func NewInt(v int64) *Value {
	return &Value{kind: KindInt, bits: uint64(v), lay: layout{signed: true, width: 8}}
}

// NewUint returns an unsigned integer edit value.
func NewUint(v uint64) *Value {
	return &Value{kind: KindInt, bits: v, lay: layout{width: 8}}
}

// NewFloat returns a float edit value.
func NewFloat(v float64) *Value {
	return &Value{kind: KindFloat, f: v, lay: layout{width: 8}}
}

// NewBool returns a bool edit value.
func NewBool(v bool) *Value {
	var raw byte
	if v {
		raw = 1
	}
	return &Value{kind: KindBool, b: v, lay: layout{rawBool: raw}}
}

// NewString returns a string edit value.
func NewString(s string) *Value {
	return &Value{kind: KindString, s: s}
}

// NewBlob returns a blob edit value.
func NewBlob(b []byte) *Value {
	return &Value{kind: KindBlob, raw: append([]byte(nil), b...)}
}

// Kind returns the value's variant.
func (v *Value) Kind() Kind {
	return v.kind
}

// Offset returns the node's original byte offset within its category buffer.
func (v *Value) Offset() int {
	return v.lay.offset
}

// Size returns the node's total encoded size in bytes.
func (v *Value) Size() int {
	return v.lay.size
}

func intMask(width uint8) uint64 {
	if width >= 8 {
		return ^uint64(0)
	}
	return 1<<(8*uint(width)) - 1
}

// Int returns the integer payload sign-extended from its declared width.
func (v *Value) Int() int64 {
	if !v.lay.signed {
		return int64(v.bits)
	}
	w := v.lay.width
	if w >= 8 {
		return int64(v.bits)
	}
	shift := 64 - 8*uint(w)
	return int64(v.bits<<shift) >> shift
}

// Uint returns the integer payload as raw unsigned bits.
func (v *Value) Uint() uint64 {
	return v.bits
}

// Float returns the float payload.
func (v *Value) Float() float64 {
	return v.f
}

// Bool returns the bool payload.
func (v *Value) Bool() bool {
	return v.b
}

// Str returns the string payload.
func (v *Value) Str() string {
	return v.s
}

// Bytes returns the blob or unparsed payload. Callers must not mutate it.
func (v *Value) Bytes() []byte {
	return v.raw
}

// Len returns the element count of a seq or field count of a record.
func (v *Value) Len() int {
	if v.kind == KindSeq {
		return len(v.elems)
	}
	return len(v.fields)
}

// At returns the i-th element of a seq, or nil.
func (v *Value) At(i int) *Value {
	if v.kind != KindSeq || i < 0 || i >= len(v.elems) {
		return nil
	}
	return v.elems[i]
}

// Fields returns a record's members in declaration order.
func (v *Value) Fields() []Field {
	return v.fields
}

// Field returns the record member with the given key, or nil.
func (v *Value) Field(key string) *Value {
	for i := range v.fields {
		if v.fields[i].Key == key {
			return v.fields[i].Val
		}
	}
	return nil
}

// Render returns the canonical string form of a leaf for search and
// display: integers and floats in decimal, booleans as literal words,
// strings as their decoded text. Containers and opaque bytes render empty.
func (v *Value) Render() string {
	switch v.kind {
	case KindInt:
		if v.lay.signed {
			return strconv.FormatInt(v.Int(), 10)
		}
		return strconv.FormatUint(v.bits, 10)
	case KindFloat:
		if v.lay.width == 4 {
			return strconv.FormatFloat(v.f, 'g', -1, 32)
		}
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case KindBool:
		if v.b {
			return "true"
		}
		return "false"
	case KindString:
		return v.s
	default:
		return ""
	}
}

// Path addresses a node within a category tree: record keys and decimal
// seq indexes, one token per level.
type Path []string

// String renders the path in JSON pointer form.
func (p Path) String() string {
	if len(p) == 0 {
		return "/"
	}
	var b strings.Builder
	for _, tok := range p {
		b.WriteByte('/')
		b.WriteString(strings.ReplaceAll(strings.ReplaceAll(tok, "~", "~0"), "/", "~1"))
	}
	return b.String()
}

// ParsePath parses a JSON pointer style path. The empty string and "/"
// address the root record.
func ParsePath(s string) Path {
	s = strings.TrimPrefix(s, "/")
	if s == "" {
		return nil
	}
	toks := strings.Split(s, "/")
	p := make(Path, len(toks))
	for i, tok := range toks {
		tok = strings.ReplaceAll(tok, "~1", "/")
		p[i] = strings.ReplaceAll(tok, "~0", "~")
	}
	return p
}

// resolve walks a path from root, returning the addressed node.
func resolve(root *Value, path Path) (*Value, error) {
	cur := root
	for _, tok := range path {
		switch cur.kind {
		case KindRecord:
			next := cur.Field(tok)
			if next == nil {
				return nil, ErrPathNotFound
			}
			cur = next
		case KindSeq:
			i, err := strconv.Atoi(tok)
			if err != nil || i < 0 || i >= len(cur.elems) {
				return nil, ErrPathNotFound
			}
			cur = cur.elems[i]
		default:
			return nil, ErrPathNotFound
		}
	}
	return cur, nil
}
