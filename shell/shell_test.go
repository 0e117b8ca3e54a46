package shell

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prasdif/library-system/library"
)

var fixedNow = time.Date(2024, time.March, 1, 9, 0, 0, 0, time.UTC)

func newTestShell(t *testing.T, input []string, opts ...Option) (*Shell, *library.Catalog, *bytes.Buffer) {
	t.Helper()
	c := library.NewCatalog(library.WithClock(func() time.Time { return fixedNow }))
	require.NoError(t, library.LoadSample(c))

	var out bytes.Buffer
	in := strings.NewReader(strings.Join(input, "\n") + "\n")
	opts = append([]Option{WithClock(func() time.Time { return fixedNow })}, opts...)
	return New(c, in, &out, opts...), c, &out
}

func TestShellBorrowAndReturn(t *testing.T) {
	sh, c, out := newTestShell(t, []string{
		"9", "1", "2", // Alice borrows Clean Code
		"11", "1", // list her loans
		"10", "1", "2", // return it
		"0",
	})

	require.NoError(t, sh.Run(context.Background()))

	text := out.String()
	assert.Contains(t, text, "Book borrowed. Due date: 2024-03-15")
	assert.Contains(t, text, "Clean Code")
	assert.Contains(t, text, "Book returned.")
	assert.Contains(t, text, "Goodbye!")

	book, err := c.GetBook(2)
	require.NoError(t, err)
	assert.Equal(t, 2, book.Quantity)
}

func TestShellAddAndUpdateBook(t *testing.T) {
	sh, c, out := newTestShell(t, []string{
		"1", "Refactoring", "Martin Fowler", "9780134757599", "Programming", "4",
		"2", "3", "", "", "", "Software", "", // only the genre changes
		"0",
	})

	require.NoError(t, sh.Run(context.Background()))
	assert.Contains(t, out.String(), "Book added with id 3")
	assert.Contains(t, out.String(), "Book updated successfully.")

	book, err := c.GetBook(3)
	require.NoError(t, err)
	assert.Equal(t, library.Book{
		ID:       3,
		Title:    "Refactoring",
		Author:   "Martin Fowler",
		ISBN:     "9780134757599",
		Genre:    "Software",
		Quantity: 4,
	}, book)
}

func TestShellRejectsBadInput(t *testing.T) {
	sh, c, out := newTestShell(t, []string{
		"42",
		"abc",
		"1", "X", "Y", "Z", "W", "many",
		"1", "X", "Y", "Z", "W", "-2",
		"3", "one",
		"0",
	})

	require.NoError(t, sh.Run(context.Background()))

	text := out.String()
	assert.Equal(t, 2, strings.Count(text, "Invalid option!"))
	assert.Contains(t, text, "Invalid quantity.")
	assert.Contains(t, text, "Error adding book:")
	assert.Contains(t, text, "Invalid ID: one")
	assert.Len(t, c.ListBooks(), 2)
}

func TestShellRemoveGuards(t *testing.T) {
	sh, _, out := newTestShell(t, []string{
		"9", "2", "1", // Bob borrows The Pragmatic Programmer
		"3", "1",
		"7", "2",
		"3", "99",
		"10", "2", "1",
		"3", "1",
		"7", "2",
		"0",
	})

	require.NoError(t, sh.Run(context.Background()))

	text := out.String()
	assert.Contains(t, text, "Cannot remove book: copies are still on loan.")
	assert.Contains(t, text, "Cannot remove borrower: still borrowing.")
	assert.Contains(t, text, "Book not found.")
	assert.Contains(t, text, "Book removed.")
	assert.Contains(t, text, "Borrower removed.")
}

func TestShellSearch(t *testing.T) {
	sh, _, out := newTestShell(t, []string{
		"12", "2", "hunt",
		"12", "9", "clean",
		"0",
	})

	require.NoError(t, sh.Run(context.Background()))

	text := out.String()
	assert.Contains(t, text, "Found 1 book(s) matching 'hunt':")
	assert.Contains(t, text, "The Pragmatic Programmer")
	assert.Contains(t, text, "Found 1 book(s) matching 'clean':")
}

func TestShellJSONListing(t *testing.T) {
	sh, _, out := newTestShell(t, []string{"4", "8", "0"}, WithJSON(true))

	require.NoError(t, sh.Run(context.Background()))
	assert.Contains(t, out.String(), `"title"`)
	assert.Contains(t, out.String(), `"Clean Code"`)
	assert.Contains(t, out.String(), `"membership_id"`)
}

func TestShellEndOfInput(t *testing.T) {
	// Input ends mid-command; Run returns cleanly.
	sh, c, _ := newTestShell(t, []string{"1", "Half a book"})

	require.NoError(t, sh.Run(context.Background()))
	assert.Len(t, c.ListBooks(), 2)
}

func TestShellStopsOnCancelledContext(t *testing.T) {
	sh, _, _ := newTestShell(t, []string{"4", "0"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.ErrorIs(t, sh.Run(ctx), context.Canceled)
}

func TestShellCancelWhileWaitingForInput(t *testing.T) {
	c := library.NewCatalog(library.WithClock(func() time.Time { return fixedNow }))
	require.NoError(t, library.LoadSample(c))

	pr, pw := io.Pipe()
	t.Cleanup(func() { pw.Close() })

	var out bytes.Buffer
	sh := New(c, pr, &out)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- sh.Run(ctx) }()

	// Start adding a book, then stop sending input halfway through.
	_, err := io.WriteString(pw, "1\nHalf a book\n")
	require.NoError(t, err)
	cancel()

	select {
	case err := <-done:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
	assert.Len(t, c.ListBooks(), 2)
}

func TestShellInteractiveReprintsMenu(t *testing.T) {
	sh, _, out := newTestShell(t, []string{"8", "0"}, WithInteractive(true))

	require.NoError(t, sh.Run(context.Background()))
	assert.Equal(t, 2, strings.Count(out.String(), "===== Library Menu ====="))
	assert.Contains(t, out.String(), "MEM002")
}

func TestFormatDue(t *testing.T) {
	sh, _, _ := newTestShell(t, nil)

	assert.Equal(t, "N/A", sh.formatDue(time.Time{}))
	assert.True(t, strings.HasPrefix(sh.formatDue(fixedNow.AddDate(0, 0, 14)), "2024-03-15 ("))
	assert.Contains(t, sh.formatDue(fixedNow.AddDate(0, 0, -3)), "overdue")
}

func TestTruncateString(t *testing.T) {
	tests := []struct {
		name string
		in   string
		max  int
		want string
	}{
		{name: "short", in: "Clean Code", max: 30, want: "Clean Code"},
		{name: "ascii cut", in: "The Pragmatic Programmer", max: 10, want: "The Pra..."},
		{name: "multibyte cut", in: "Преступление и наказание", max: 14, want: "Преступлен..."},
		{name: "tiny width", in: "Война и мир", max: 3, want: "Вой"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := truncateString(tt.in, tt.max)
			assert.Equal(t, tt.want, got)
			assert.True(t, utf8.ValidString(got))
		})
	}
}
