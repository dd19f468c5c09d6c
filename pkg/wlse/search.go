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

// Match is one search hit: the category, the path of the matched node,
// and the text that matched (a field key or a rendered leaf value).
type Match struct {
	Category string
	Path     Path
	Text     string
}

// Matches is an ordered result sequence. Order is decode order
// (depth-first, pre-order), so jump navigation is stable across repeated
// searches of an unedited tree.
type Matches []Match

// First returns the first match, if any.
func (m Matches) First() (Match, bool) {
	if len(m) == 0 {
		return Match{}, false
	}
	return m[0], true
}

// Next returns the match after the last-visited index, wrapping to the
// start. It is a pure function of the sequence and the index.
func (m Matches) Next(last int) (Match, int, bool) {
	if len(m) == 0 {
		return Match{}, 0, false
	}
	i := last + 1
	if i < 0 || i >= len(m) {
		i = 0
	}
	return m[i], i, true
}

// Search scans the given categories (or every open category when none are
// named) for case-insensitive substring matches of query against field
// keys and rendered leaf values. Results come back in decode order. The
// result is a derived view: it is recomputed per call and owns no state,
// so it can never drift from the document.
func (d *Document) Search(query string, categories ...string) (Matches, error) {
	if query == "" {
		return nil, nil
	}
	needle := strings.ToLower(query)

	d.mu.Lock()
	defer d.mu.Unlock()
	scope := categories
	if len(scope) == 0 {
		// "All open categories": only those already decoded.
		for _, name := range d.order {
			if d.cats[name].tree != nil {
				scope = append(scope, name)
			}
		}
	}
	var out Matches
	for _, name := range scope {
		root, err := d.tree(name)
		if err != nil {
			return nil, err
		}
		out = searchValue(out, name, nil, "", root, needle)
	}
	return out, nil
}

// searchValue appends matches for one node and its children, pre-order.
// key is the node's record key, or "" for the root and seq elements.
func searchValue(out Matches, cat string, path Path, key string, v *Value, needle string) Matches {
	if key != "" && strings.Contains(strings.ToLower(key), needle) {
		out = append(out, Match{Category: cat, Path: clonePath(path), Text: key})
	}
	switch v.Kind() {
	case KindRecord:
		for _, f := range v.Fields() {
			out = searchValue(out, cat, append(path, f.Key), f.Key, f.Val, needle)
		}
	case KindSeq:
		for i := 0; i < v.Len(); i++ {
			out = searchValue(out, cat, append(path, strconv.Itoa(i)), "", v.At(i), needle)
		}
	default:
		if text := v.Render(); text != "" && strings.Contains(strings.ToLower(text), needle) {
			out = append(out, Match{Category: cat, Path: clonePath(path), Text: text})
		}
	}
	return out
}

func clonePath(p Path) Path {
	if len(p) == 0 {
		return nil
	}
	return append(Path(nil), p...)
}
