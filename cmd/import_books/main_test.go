package main

import (
	"context"
	"path/filepath"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/require"

	"github.com/prasdif/library-system/library"
)

func TestSeedWritesLoadableFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "library.db")
	require.NoError(t, seed(path, true))
	// A second fresh run replaces rather than appends.
	require.NoError(t, seed(path, true))

	store, err := library.NewSeedStore(path)
	require.NoError(t, err)
	defer store.Close()

	c := library.NewCatalog()
	stats, err := store.LoadInto(context.Background(), c)
	require.NoError(t, err)
	require.Equal(t, len(classics), stats.Books)
	require.Equal(t, len(library.SampleBorrowers), stats.Borrowers)
	require.Len(t, c.Search("tolkien", library.FieldAuthor), 3)
}

func TestTruncateStringKeepsRunes(t *testing.T) {
	got := truncateString("Преступление и наказание", 14)
	require.Equal(t, "Преступлен...", got)
	require.True(t, utf8.ValidString(got))
	require.Equal(t, "1984", truncateString("1984", 40))
}
