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

package main

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/wlse/wlse-go/pkg/wlse"
)

var usg = `Usage: %[1]s dump <savefile>
Or:	%[1]s get <savefile> <category> <path>
Or:	%[1]s set <savefile> <outfile> <category> <path> <value>
Or:	%[1]s search <savefile> <query>
`

func open(fn string) (*wlse.Document, []string) {
	f, err := os.Open(fn)
	if err != nil {
		log.Fatalf("Unable to open %s: %s", fn, err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			log.Fatalf("Unable to close %s: %s", fn, err)
		}
	}()

	doc, skipped, err := wlse.OpenContainer(f)
	if err != nil {
		log.Fatalf("Unable to read %s: %s", fn, err)
	}
	return doc, skipped
}

func dump(fn string) {
	doc, skipped := open(fn)
	for _, name := range doc.Categories() {
		root, err := doc.Tree(name)
		if err != nil {
			// One unreadable category does not block the rest.
			fmt.Printf("%s: unavailable (%s)\n", name, err)
			continue
		}
		fmt.Printf("%s: ", name)
		if err := wlse.Dump(os.Stdout, root); err != nil {
			log.Fatalf("Unable to dump %s: %s", name, err)
		}
	}
	for _, name := range skipped {
		fmt.Printf("%s: unavailable (no schema)\n", name)
	}
}

func get(fn, cat, path string) {
	doc, _ := open(fn)
	v, err := doc.Get(cat, wlse.ParsePath(path))
	if err != nil {
		log.Fatalf("Unable to read %s%s: %s", cat, path, err)
	}
	if v.Kind().IsLeaf() {
		fmt.Println(v.Render())
		return
	}
	if err := wlse.Dump(os.Stdout, v); err != nil {
		log.Fatalf("Unable to dump %s%s: %s", cat, path, err)
	}
}

// parseValue builds an edit value of the same kind as the existing leaf.
func parseValue(cur *wlse.Value, raw string) (*wlse.Value, error) {
	switch cur.Kind() {
	case wlse.KindInt:
		if i, err := strconv.ParseInt(raw, 10, 64); err == nil {
			return wlse.NewInt(i), nil
		}
		u, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%q is not an integer", raw)
		}
		return wlse.NewUint(u), nil
	case wlse.KindFloat:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("%q is not a number", raw)
		}
		return wlse.NewFloat(f), nil
	case wlse.KindBool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("%q is not a bool", raw)
		}
		return wlse.NewBool(b), nil
	case wlse.KindString:
		return wlse.NewString(raw), nil
	default:
		return nil, fmt.Errorf("%v values cannot be edited from the command line", cur.Kind())
	}
}

func set(fn, out, cat, path, raw string) {
	doc, _ := open(fn)
	p := wlse.ParsePath(path)

	cur, err := doc.Get(cat, p)
	if err != nil {
		log.Fatalf("Unable to read %s%s: %s", cat, path, err)
	}
	nv, err := parseValue(cur, raw)
	if err != nil {
		log.Fatalf("Unable to parse value: %s", err)
	}
	if err := doc.SetValue(cat, p, nv); err != nil {
		log.Fatalf("Unable to set %s%s: %s", cat, path, err)
	}

	blobs, err := doc.Save()
	if err != nil {
		// A failed encode means nothing may be written to disk.
		log.Fatalf("Unable to encode %s: %s", fn, err)
	}
	f, err := os.Create(out)
	if err != nil {
		log.Fatalf("Unable to create %s: %s", out, err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			log.Fatalf("Unable to close %s: %s", out, err)
		}
	}()
	if err := wlse.WriteContainer(f, blobs); err != nil {
		log.Fatalf("Unable to write %s: %s", out, err)
	}
}

func search(fn, query string) {
	doc, _ := open(fn)
	matches, err := doc.Search(query, doc.Categories()...)
	if err != nil {
		log.Fatalf("Unable to search %s: %s", fn, err)
	}
	for _, m := range matches {
		fmt.Printf("%s%s\t%s\n", m.Category, m.Path, m.Text)
	}
}

func main() {
	switch {
	case len(os.Args) == 3 && os.Args[1] == "dump":
		dump(os.Args[2])
	case len(os.Args) == 5 && os.Args[1] == "get":
		get(os.Args[2], os.Args[3], os.Args[4])
	case len(os.Args) == 7 && os.Args[1] == "set":
		set(os.Args[2], os.Args[3], os.Args[4], os.Args[5], os.Args[6])
	case len(os.Args) == 4 && os.Args[1] == "search":
		search(os.Args[2], os.Args[3])
	default:
		fmt.Printf(usg, os.Args[0])
	}
}
