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
	"errors"
	"fmt"
)

// Cursor errors
var (
	// ErrOutOfBounds indicates a read past the end of the buffer.
	ErrOutOfBounds = errors.New("read past end of buffer")

	// ErrBufferExhausted indicates a write past the end of a fixed-capacity buffer.
	ErrBufferExhausted = errors.New("write past end of fixed buffer")

	// ErrInvalidUTF8 indicates that string bytes do not decode as UTF-8.
	ErrInvalidUTF8 = errors.New("invalid UTF-8 sequence")
)

// Edit errors
var (
	// ErrTypeMismatch indicates an edit whose value kind differs from the leaf's kind.
	ErrTypeMismatch = errors.New("value kind does not match leaf kind")

	// ErrValueTooLarge indicates an edited value that cannot fit the leaf's original slot.
	ErrValueTooLarge = errors.New("value does not fit original slot")

	// ErrPathNotFound indicates that a path addresses no node in the tree.
	ErrPathNotFound = errors.New("no value at path")

	// ErrNotALeaf indicates that a path addresses a container, not a leaf.
	ErrNotALeaf = errors.New("path does not address a leaf value")
)

// Schema and document errors
var (
	// ErrSchemaUnsupported indicates a category with no known schema descriptor.
	ErrSchemaUnsupported = errors.New("no schema for category")

	// ErrCategoryUnknown indicates a category not present in the document.
	ErrCategoryUnknown = errors.New("category not open in document")
)

// Container errors
var (
	// ErrBadMagic indicates a save file that does not start with the expected magic number.
	ErrBadMagic = errors.New("incorrect magic number")

	// ErrBadVersion indicates an unsupported save format revision.
	ErrBadVersion = errors.New("unsupported save version")

	// ErrChecksum indicates that a category frame's content hash does not match.
	ErrChecksum = errors.New("category checksum mismatch")
)

// DecodeError reports a schema/byte mismatch during decode, carrying the
// byte offset within the category buffer and the field path reached.
type DecodeError struct {
	Offset int
	Path   Path
	Msg    string
	Err    error
}

func decodeErrf(off int, path Path, err error, format string, args ...any) error {
	p := make(Path, len(path))
	copy(p, path)
	return &DecodeError{Offset: off, Path: p, Msg: fmt.Sprintf(format, args...), Err: err}
}

func (e *DecodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("decode %s at %#x: %s: %v", e.Path, e.Offset, e.Msg, e.Err)
	}
	return fmt.Sprintf("decode %s at %#x: %s", e.Path, e.Offset, e.Msg)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
