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
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// Dump writes an indented human-readable rendering of a tree.
func Dump(w io.Writer, root *Value) error {
	return dumpValue(w, root, 0)
}

func dumpValue(w io.Writer, v *Value, indent int) error {
	pad := strings.Repeat("  ", indent)
	switch v.Kind() {
	case KindRecord:
		if _, err := fmt.Fprintln(w, "{"); err != nil {
			return err
		}
		for _, f := range v.Fields() {
			if _, err := fmt.Fprintf(w, "%s  %s: ", pad, f.Key); err != nil {
				return err
			}
			if err := dumpValue(w, f.Val, indent+1); err != nil {
				return err
			}
		}
		_, err := fmt.Fprintf(w, "%s}\n", pad)
		return err
	case KindSeq:
		if _, err := fmt.Fprintln(w, "["); err != nil {
			return err
		}
		for i := 0; i < v.Len(); i++ {
			if _, err := fmt.Fprintf(w, "%s  ", pad); err != nil {
				return err
			}
			if err := dumpValue(w, v.At(i), indent+1); err != nil {
				return err
			}
		}
		_, err := fmt.Fprintf(w, "%s]\n", pad)
		return err
	case KindString:
		_, err := fmt.Fprintf(w, "%q\n", v.Str())
		return err
	case KindBlob, KindUnparsed:
		_, err := fmt.Fprintf(w, "<%d bytes>\n", len(v.Bytes()))
		return err
	default:
		_, err := fmt.Fprintln(w, v.Render())
		return err
	}
}

// ToJSON renders a tree as indented JSON for export. Only values survive;
// layout metadata is dropped, and opaque bytes become a length summary,
// so the output is for inspection, not re-import.
func ToJSON(root *Value) ([]byte, error) {
	return json.MarshalIndent(jsonValue(root), "", "  ")
}

func jsonValue(v *Value) any {
	switch v.Kind() {
	case KindInt:
		if v.lay.signed {
			return v.Int()
		}
		return v.Uint()
	case KindFloat:
		return v.Float()
	case KindBool:
		return v.Bool()
	case KindString:
		return v.Str()
	case KindBlob, KindUnparsed:
		return map[string]any{"$type": "bytes", "len": len(v.Bytes())}
	case KindSeq:
		out := make([]any, v.Len())
		for i := 0; i < v.Len(); i++ {
			out[i] = jsonValue(v.At(i))
		}
		return out
	case KindRecord:
		// An ordered rendering needs a custom marshaller; records keep
		// declaration order on the wire but JSON objects do not, so a
		// key-ordered map is acceptable for an inspection dump.
		out := make(map[string]any, v.Len())
		for _, f := range v.Fields() {
			out[f.Key] = jsonValue(f.Val)
		}
		return out
	default:
		return nil
	}
}
