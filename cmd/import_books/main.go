package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/prasdif/library-system/library"
)

// classics is the built-in seed list (title, author, isbn, genre, copies).
var classics = []library.BookFields{
	{Title: "1984", Author: "George Orwell", ISBN: "9780451524935", Genre: "Dystopia", Quantity: 4},
	{Title: "Animal Farm", Author: "George Orwell", ISBN: "9780451526342", Genre: "Satire", Quantity: 3},
	{Title: "The Diary of a Young Girl", Author: "Anne Frank", ISBN: "9780553296983", Genre: "Memoir", Quantity: 2},
	{Title: "The Art of War", Author: "Sun Tzu", ISBN: "9781599869773", Genre: "Strategy", Quantity: 2},
	{Title: "The Fellowship of the Ring", Author: "J.R.R. Tolkien", ISBN: "9780547928210", Genre: "Fantasy", Quantity: 3},
	{Title: "The Two Towers", Author: "J.R.R. Tolkien", ISBN: "9780547928203", Genre: "Fantasy", Quantity: 3},
	{Title: "The Return of the King", Author: "J.R.R. Tolkien", ISBN: "9780547928197", Genre: "Fantasy", Quantity: 3},
	{Title: "Romeo and Juliet", Author: "William Shakespeare", ISBN: "9780743477116", Genre: "Drama", Quantity: 2},
	{Title: "The Three Musketeers", Author: "Alexandre Dumas", ISBN: "9780140449266", Genre: "Adventure", Quantity: 1},
	{Title: "The Pragmatic Programmer", Author: "Andrew Hunt", ISBN: "9780201616224", Genre: "Programming", Quantity: 3},
	{Title: "Clean Code", Author: "Robert Martin", ISBN: "9780132350884", Genre: "Programming", Quantity: 2},
}

func main() {
	var (
		out   string
		fresh bool
	)
	cmd := &cobra.Command{
		Use:          "import_books",
		Short:        "Write a SQLite seed file the library shell can start from",
		SilenceUsage: true,
		RunE: func(*cobra.Command, []string) error {
			return seed(out, fresh)
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "library.db", "seed file to write")
	cmd.Flags().BoolVar(&fresh, "fresh", true, "remove an existing seed file first")

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func seed(path string, fresh bool) error {
	if fresh {
		fmt.Println("Cleaning up existing seed files...")
		for _, file := range []string{path, path + "-shm", path + "-wal"} {
			if err := os.Remove(file); err != nil && !os.IsNotExist(err) {
				fmt.Printf("Warning: Could not remove %s: %v\n", file, err)
			}
		}
	}

	store, err := library.NewSeedStore(path)
	if err != nil {
		return fmt.Errorf("open seed file: %w", err)
	}
	defer store.Close()

	successCount, errorCount := 0, 0
	for _, b := range classics {
		fmt.Printf("Importing: %s by %s... ", b.Title, b.Author)
		id, err := store.AddBook(b)
		if err != nil {
			fmt.Printf("ERROR - %v\n", err)
			errorCount++
			continue
		}
		fmt.Printf("SUCCESS (row %d)\n", id)
		successCount++
	}
	for _, b := range library.SampleBorrowers {
		if _, err := store.AddBorrower(b); err != nil {
			fmt.Printf("Borrower %s: ERROR - %v\n", b.Name, err)
			errorCount++
		}
	}

	fmt.Printf("\nImport complete!\n")
	fmt.Printf("Successfully imported: %d books\n", successCount)
	fmt.Printf("Errors: %d\n", errorCount)

	if successCount > 0 {
		fmt.Printf("\n%-40s %-25s %s\n", "Title", "Author", "Copies")
		fmt.Println(strings.Repeat("-", 75))
		for _, b := range classics {
			fmt.Printf("%-40s %-25s %d\n", truncateString(b.Title, 40), truncateString(b.Author, 25), b.Quantity)
		}
	}
	if errorCount > 0 {
		return fmt.Errorf("%d rows failed", errorCount)
	}
	return nil
}

func truncateString(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}
