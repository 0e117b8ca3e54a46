package shell

import (
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	jsoniter "github.com/json-iterator/go"

	"github.com/prasdif/library-system/library"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const dateLayout = "2006-01-02"

func (s *Shell) writeJSON(v any) error {
	enc := json.NewEncoder(s.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (s *Shell) printBooks(books []library.Book, full bool) {
	if full {
		s.printf("%-5s %-30s %-25s %-15s %-15s %s\n", "ID", "Title", "Author", "ISBN", "Genre", "Qty")
		s.println(strings.Repeat("-", 100))
		for _, b := range books {
			s.printf("%-5d %-30s %-25s %-15s %-15s %d\n",
				b.ID,
				truncateString(b.Title, 30),
				truncateString(b.Author, 25),
				truncateString(b.ISBN, 15),
				truncateString(b.Genre, 15),
				b.Quantity)
		}
		return
	}

	s.printf("%-5s %-30s %-25s %s\n", "ID", "Title", "Author", "Qty")
	s.println(strings.Repeat("-", 70))
	for _, b := range books {
		s.printf("%-5d %-30s %-25s %d\n", b.ID, truncateString(b.Title, 30), truncateString(b.Author, 25), b.Quantity)
	}
}

func (s *Shell) printBorrowers(borrowers []library.Borrower) {
	s.printf("%-5s %-25s %-30s %s\n", "ID", "Name", "Contact", "Membership")
	s.println(strings.Repeat("-", 80))
	for _, b := range borrowers {
		s.printf("%-5d %-25s %-30s %s\n", b.ID, truncateString(b.Name, 25), truncateString(b.Contact, 30), b.MembershipID)
	}
}

func (s *Shell) printLoans(loans []library.BorrowedBook) {
	s.println("\nBorrowed Books:")
	for _, l := range loans {
		s.printf("%-5d %-30s %s\n", l.Book.ID, truncateString(l.Book.Title, 30), s.formatDue(l.DueDate))
	}
}

// formatDue renders a due date as "2024-03-15 (1 week left)".
func (s *Shell) formatDue(due time.Time) string {
	if due.IsZero() {
		return "N/A"
	}
	return due.Format(dateLayout) + " (" + humanize.RelTime(due, s.now(), "overdue", "left") + ")"
}

// truncateString cuts s to maxLength runes, marking the cut with "...".
func truncateString(s string, maxLength int) string {
	r := []rune(s)
	if len(r) <= maxLength {
		return s
	}
	if maxLength <= 3 {
		return string(r[:maxLength])
	}
	return string(r[:maxLength-3]) + "..."
}
