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
	"math"
	"sync"
)

// Document owns the decoded trees of one open save slot, one per data
// category. Categories decode lazily on first access and stay immutable
// until SetValue; all mutation goes through the Document, which is the
// single writer. A failed decode, edit, or encode leaves the document
// unchanged.
type Document struct {
	mu    sync.RWMutex
	cats  map[string]*category
	order []string
	dirty bool
}

type category struct {
	name   string
	schema *Schema
	saved  []byte // last-saved bytes, the revert source
	tree   *Value // nil until first decode
}

// NewDocument returns an empty document for a freshly opened slot.
func NewDocument() *Document {
	return &Document{cats: make(map[string]*category)}
}

// AddCategory registers a category's raw bytes with the document. The
// bytes are copied; decoding happens on first access. A category variant
// without a schema descriptor fails with ErrSchemaUnsupported.
func (d *Document) AddCategory(name string, raw []byte) error {
	schema, err := SchemaFor(name)
	if err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.cats[name]; ok {
		return fmt.Errorf("category %q already added", name)
	}
	d.cats[name] = &category{
		name:   name,
		schema: schema,
		saved:  append([]byte(nil), raw...),
	}
	d.order = append(d.order, name)
	return nil
}

// Categories returns the document's category names in added order.
func (d *Document) Categories() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return append([]string(nil), d.order...)
}

// Dirty reports whether any leaf has been edited since the last save.
func (d *Document) Dirty() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.dirty
}

// Tree returns a category's decoded tree, decoding it on first access.
// The returned tree is a read-only view; edit through SetValue.
func (d *Document) Tree(name string) (*Value, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.tree(name)
}

func (d *Document) tree(name string) (*Value, error) {
	c, ok := d.cats[name]
	if !ok {
		return nil, fmt.Errorf("%q: %w", name, ErrCategoryUnknown)
	}
	if c.tree == nil {
		root, _, err := Decode(c.saved, c.schema)
		if err != nil {
			return nil, err
		}
		c.tree = root
	}
	return c.tree, nil
}

// Get returns the node a path addresses within a category.
func (d *Document) Get(name string, path Path) (*Value, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	root, err := d.tree(name)
	if err != nil {
		return nil, err
	}
	v, err := resolve(root, path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return v, nil
}

// SetValue replaces the leaf at path with nv's payload, keeping the
// leaf's layout metadata. The kinds must match (ErrTypeMismatch) and the
// new payload must fit the leaf's original slot (ErrValueTooLarge); on
// any failure the tree is left byte-identical to before the call.
func (d *Document) SetValue(name string, path Path, nv *Value) error {
	if nv == nil || !nv.Kind().IsLeaf() {
		return fmt.Errorf("%s: replacement is not a leaf value: %w", path, ErrTypeMismatch)
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	root, err := d.tree(name)
	if err != nil {
		return err
	}
	target, err := resolve(root, path)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	if !target.Kind().IsLeaf() {
		return fmt.Errorf("%s is a %v: %w", path, target.Kind(), ErrNotALeaf)
	}
	if target.Kind() != nv.Kind() {
		return fmt.Errorf("%s holds %v, got %v: %w", path, target.Kind(), nv.Kind(), ErrTypeMismatch)
	}
	if err := replaceLeaf(target, nv); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	d.dirty = true
	return nil
}

// replaceLeaf validates fit and swaps the payload in place. It must not
// touch target until every check has passed.
func replaceLeaf(target, nv *Value) error {
	switch target.kind {
	case KindInt:
		bits, err := fitInt(target, nv)
		if err != nil {
			return err
		}
		target.bits = bits
	case KindFloat:
		target.f = nv.f
	case KindBool:
		target.b = nv.b
		target.lay.rawBool = nv.lay.rawBool
	case KindString:
		if len(nv.s) > target.lay.slotLen {
			return fmt.Errorf("string %d bytes in %d-byte slot: %w", len(nv.s), target.lay.slotLen, ErrValueTooLarge)
		}
		target.s = nv.s
		// Edited slots pad with zeros; the original padding only survives
		// while the original string does.
		target.lay.pad = make([]byte, target.lay.slotLen-len(nv.s))
	case KindBlob:
		if len(nv.raw) != target.lay.slotLen {
			return fmt.Errorf("blob %d bytes, slot holds %d: %w", len(nv.raw), target.lay.slotLen, ErrValueTooLarge)
		}
		target.raw = append([]byte(nil), nv.raw...)
	}
	return nil
}

// fitInt checks that nv's integer fits target's declared width and
// signedness, and returns the payload truncated to the stored width.
func fitInt(target, nv *Value) (uint64, error) {
	w := target.lay.width
	if target.lay.signed {
		v := int64(nv.bits)
		if !nv.lay.signed && nv.bits > math.MaxInt64 {
			return 0, fmt.Errorf("%d exceeds signed %d-byte field: %w", nv.bits, w, ErrValueTooLarge)
		}
		if w < 8 {
			limit := int64(1) << (8*uint(w) - 1)
			if v < -limit || v >= limit {
				return 0, fmt.Errorf("%d exceeds signed %d-byte field: %w", v, w, ErrValueTooLarge)
			}
		}
		return uint64(v) & intMask(w), nil
	}
	if nv.lay.signed && int64(nv.bits) < 0 {
		return 0, fmt.Errorf("%d is negative, field is unsigned: %w", int64(nv.bits), ErrValueTooLarge)
	}
	if w < 8 && nv.bits > intMask(w) {
		return 0, fmt.Errorf("%d exceeds unsigned %d-byte field: %w", nv.bits, w, ErrValueTooLarge)
	}
	return nv.bits, nil
}

// Revert discards a category's in-memory edits by re-decoding its
// last-saved bytes.
func (d *Document) Revert(name string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	c, ok := d.cats[name]
	if !ok {
		return fmt.Errorf("%q: %w", name, ErrCategoryUnknown)
	}
	if c.tree == nil {
		return nil
	}
	root, _, err := Decode(c.saved, c.schema)
	if err != nil {
		return err
	}
	c.tree = root
	return nil
}

// Encode re-serializes one category. The document and its tree are left
// untouched, so a failed encode cannot corrupt in-memory state.
func (d *Document) Encode(name string) ([]byte, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	c, ok := d.cats[name]
	if !ok {
		return nil, fmt.Errorf("%q: %w", name, ErrCategoryUnknown)
	}
	if c.tree == nil {
		// Never decoded, never edited: the saved bytes are current.
		return append([]byte(nil), c.saved...), nil
	}
	return Encode(c.tree)
}

// Save encodes every category and, only once all of them encoded cleanly,
// commits the buffers as the new last-saved bytes and clears the dirty
// flag. On any failure nothing is committed and the error is returned, so
// the caller must not write anything to disk.
func (d *Document) Save() ([]CategoryBlob, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	blobs := make([]CategoryBlob, 0, len(d.order))
	for _, name := range d.order {
		c := d.cats[name]
		data := c.saved
		if c.tree != nil {
			encoded, err := Encode(c.tree)
			if err != nil {
				return nil, fmt.Errorf("encoding %q: %w", name, err)
			}
			data = encoded
		}
		blobs = append(blobs, CategoryBlob{Name: name, Data: data})
	}
	for i, name := range d.order {
		d.cats[name].saved = append([]byte(nil), blobs[i].Data...)
	}
	d.dirty = false
	return blobs, nil
}

// Close releases the document's state, discarding unsaved edits.
func (d *Document) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cats = make(map[string]*category)
	d.order = nil
	d.dirty = false
}
