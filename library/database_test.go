package library

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tempSeed(t *testing.T) *SeedStore {
	t.Helper()
	dir := t.TempDir()
	s, err := NewSeedStore(filepath.Join(dir, "seed", "library.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSeedLoadInto(t *testing.T) {
	s := tempSeed(t)
	for _, b := range SampleBooks {
		_, err := s.AddBook(b)
		require.NoError(t, err)
	}
	for _, b := range SampleBorrowers {
		_, err := s.AddBorrower(b)
		require.NoError(t, err)
	}

	c := newCatalog(t)
	// Pre-existing entries push the seed rows to later identities.
	addCleanCode(t, c, 1)

	stats, err := s.LoadInto(context.Background(), c)
	require.NoError(t, err)
	assert.Equal(t, SeedStats{Books: 2, Borrowers: 2}, stats)

	books := c.ListBooks()
	require.Len(t, books, 3)
	assert.Equal(t, int64(2), books[1].ID)
	assert.Equal(t, "The Pragmatic Programmer", books[1].Title)
	assert.Equal(t, 3, books[1].Quantity)

	borrowers := c.ListBorrowers()
	require.Len(t, borrowers, 2)
	assert.Equal(t, "MEM002", borrowers[1].MembershipID)
}

func TestSeedRejectsNegativeQuantity(t *testing.T) {
	s := tempSeed(t)
	_, err := s.AddBook(BookFields{Title: "Bad", Quantity: -1})
	require.Error(t, err, "schema CHECK constraint should reject negative quantity")
}

func TestSeedReopenKeepsRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "library.db")

	s, err := NewSeedStore(path)
	require.NoError(t, err)
	_, err = s.AddBook(BookFields{Title: "Dune", Author: "Frank Herbert", Quantity: 1})
	require.NoError(t, err)
	require.NoError(t, s.Close())

	// Migrations are skipped on the second open.
	s, err = NewSeedStore(path)
	require.NoError(t, err)
	defer s.Close()

	books, err := s.Books(context.Background())
	require.NoError(t, err)
	require.Len(t, books, 1)
	assert.Equal(t, "Dune", books[0].Title)
}

func TestLoadSample(t *testing.T) {
	c := newCatalog(t)
	require.NoError(t, LoadSample(c))

	got := c.Search("clean", FieldTitle)
	require.Len(t, got, 1)
	assert.Equal(t, int64(2), got[0].ID)
	assert.Len(t, c.ListBorrowers(), 2)
}
