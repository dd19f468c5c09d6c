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

/*
wlse inspects and edits the save files from Westmarch Legacy.

A save file holds one lz4 frame per data category (player data, mission
data, slot info). wlse decodes a category into a typed tree, lets a leaf
value be replaced in place, and writes the file back byte-identical
outside the edited values.

Usage:
	wlse dump <savefile>
	wlse get <savefile> <category> <path>
	wlse set <savefile> <outfile> <category> <path> <value>
	wlse search <savefile> <query>

Paths address tree nodes the JSON pointer way, e.g. /party/0/name.
*/
package wlse
