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

package wlse_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wlse/wlse-go/pkg/wlse"
)

func TestSearchFieldKey(t *testing.T) {
	doc := playerDoc(t)

	matches, err := doc.Search("money", wlse.CatPlayerData)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, wlse.CatPlayerData, matches[0].Category)
	assert.Equal(t, "/money", matches[0].Path.String())
	assert.Equal(t, "money", matches[0].Text)
}

func TestSearchLeafValue(t *testing.T) {
	doc := playerDoc(t)

	matches, err := doc.Search("500", wlse.CatPlayerData)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "/money", matches[0].Path.String())
	assert.Equal(t, "500", matches[0].Text)

	matches, err = doc.Search("77", wlse.CatPlayerData)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "/party/0/bond", matches[0].Path.String())
}

func TestSearchCaseInsensitive(t *testing.T) {
	doc := playerDoc(t)

	matches, err := doc.Search("ALICE", wlse.CatPlayerData)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "/name", matches[0].Path.String())
	assert.Equal(t, "Alice", matches[0].Text)

	matches, err = doc.Search("HARD", wlse.CatPlayerData)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "/hardcore", matches[0].Path.String())
}

// Matches come back in decode order: parent keys before descendants,
// siblings in field order, seq elements by index.
func TestSearchPreOrder(t *testing.T) {
	doc := playerDoc(t)

	matches, err := doc.Search("name", wlse.CatPlayerData)
	require.NoError(t, err)

	paths := make([]string, 0, len(matches))
	for _, m := range matches {
		paths = append(paths, m.Path.String())
	}
	assert.Equal(t, []string{"/name", "/party/0/name", "/party/1/name"}, paths)
}

func TestSearchDeterministic(t *testing.T) {
	doc := playerDoc(t)

	first, err := doc.Search("name", wlse.CatPlayerData)
	require.NoError(t, err)
	second, err := doc.Search("name", wlse.CatPlayerData)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestSearchEmptyQueryAndNoHits(t *testing.T) {
	doc := playerDoc(t)

	matches, err := doc.Search("", wlse.CatPlayerData)
	require.NoError(t, err)
	assert.Empty(t, matches)

	matches, err = doc.Search("zzzz", wlse.CatPlayerData)
	require.NoError(t, err)
	assert.Empty(t, matches)

	_, ok := matches.First()
	assert.False(t, ok)
	_, _, ok = matches.Next(0)
	assert.False(t, ok)
}

// An unscoped search only covers categories someone has already opened.
func TestSearchDefaultScope(t *testing.T) {
	doc := wlse.NewDocument()
	require.NoError(t, doc.AddCategory(wlse.CatPlayerData, samplePlayerData()))
	require.NoError(t, doc.AddCategory(wlse.CatMissionData, sampleMissionData()))

	matches, err := doc.Search("id")
	require.NoError(t, err)
	assert.Empty(t, matches, "nothing decoded yet, nothing to search")

	_, err = doc.Tree(wlse.CatPlayerData)
	require.NoError(t, err)

	matches, err = doc.Search("id")
	require.NoError(t, err)
	for _, m := range matches {
		assert.Equal(t, wlse.CatPlayerData, m.Category)
	}
	assert.NotEmpty(t, matches)
}

func TestSearchExplicitScopeDecodes(t *testing.T) {
	doc := wlse.NewDocument()
	require.NoError(t, doc.AddCategory(wlse.CatMissionData, sampleMissionData()))

	matches, err := doc.Search("missions", wlse.CatMissionData)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "/missions", matches[0].Path.String())

	_, err = doc.Search("missions", "CheevoData")
	assert.ErrorIs(t, err, wlse.ErrCategoryUnknown)
}

func TestSearchSeesEdits(t *testing.T) {
	doc := playerDoc(t)

	matches, err := doc.Search("Fern", wlse.CatPlayerData)
	require.NoError(t, err)
	assert.Empty(t, matches)

	require.NoError(t, doc.SetValue(wlse.CatPlayerData, wlse.ParsePath("/party/1/name"), wlse.NewString("Fern")))

	matches, err = doc.Search("Fern", wlse.CatPlayerData)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "/party/1/name", matches[0].Path.String())
}

// Jump navigation: Next walks forward and wraps past the last hit.
func TestMatchesNextWraps(t *testing.T) {
	doc := playerDoc(t)
	matches, err := doc.Search("name", wlse.CatPlayerData)
	require.NoError(t, err)
	require.Len(t, matches, 3)

	first, ok := matches.First()
	require.True(t, ok)
	assert.Equal(t, "/name", first.Path.String())

	m, i, ok := matches.Next(0)
	require.True(t, ok)
	assert.Equal(t, 1, i)
	assert.Equal(t, "/party/0/name", m.Path.String())

	m, i, ok = matches.Next(2)
	require.True(t, ok)
	assert.Equal(t, 0, i, "advancing past the last match wraps to the first")
	assert.Equal(t, "/name", m.Path.String())
}
