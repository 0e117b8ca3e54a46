package shell

import (
	"strconv"

	"github.com/pkg/errors"

	"github.com/prasdif/library-system/library"
)

// ------------------ Books ------------------

func (s *Shell) addBook() error {
	var f library.BookFields
	for _, field := range []struct {
		prompt string
		dst    *string
	}{
		{"Title: ", &f.Title},
		{"Author: ", &f.Author},
		{"ISBN: ", &f.ISBN},
		{"Genre: ", &f.Genre},
	} {
		v, err := s.prompt(field.prompt)
		if err != nil {
			return err
		}
		*field.dst = v
	}

	line, err := s.prompt("Quantity: ")
	if err != nil {
		return err
	}
	qty, perr := strconv.Atoi(line)
	if perr != nil {
		s.println("Invalid quantity.")
		return nil
	}
	f.Quantity = qty

	id, err := s.cmds.AddBook(f)
	if err != nil {
		s.printf("Error adding book: %v\n", err)
		return nil
	}
	s.printf("Book added with id %d\n", id)
	return nil
}

func (s *Shell) updateBook() error {
	id, ok, err := s.promptID("Book ID: ")
	if err != nil || !ok {
		return err
	}
	book, err := s.cmds.GetBook(id)
	if err != nil {
		s.println("Book not found.")
		return nil
	}

	s.println("Leave field blank to keep original value.")
	var p library.BookPatch
	if p.Title, err = s.optional("Title (" + book.Title + "): "); err != nil {
		return err
	}
	if p.Author, err = s.optional("Author (" + book.Author + "): "); err != nil {
		return err
	}
	if p.ISBN, err = s.optional("ISBN (" + book.ISBN + "): "); err != nil {
		return err
	}
	if p.Genre, err = s.optional("Genre (" + book.Genre + "): "); err != nil {
		return err
	}
	qty, err := s.optional("Quantity (" + strconv.Itoa(book.Quantity) + "): ")
	if err != nil {
		return err
	}
	if qty != nil {
		n, perr := strconv.Atoi(*qty)
		if perr != nil {
			s.println("Invalid quantity.")
			return nil
		}
		p.Quantity = &n
	}

	if err := s.cmds.UpdateBook(id, p); err != nil {
		s.printf("Error updating book: %v\n", err)
		return nil
	}
	s.println("Book updated successfully.")
	return nil
}

func (s *Shell) removeBook() error {
	id, ok, err := s.promptID("Book ID: ")
	if err != nil || !ok {
		return err
	}
	switch err := s.cmds.RemoveBook(id); {
	case err == nil:
		s.println("Book removed.")
	case errors.Is(err, library.ErrActiveLoans):
		s.println("Cannot remove book: copies are still on loan.")
	default:
		s.println("Book not found.")
	}
	return nil
}

func (s *Shell) listBooks() error {
	books := s.cmds.ListBooks()
	if s.json {
		return s.writeJSON(books)
	}
	if len(books) == 0 {
		s.println("No books found.")
		return nil
	}
	s.printBooks(books, true)
	return nil
}

// ------------------ Borrowers ------------------

func (s *Shell) addBorrower() error {
	var f library.BorrowerFields
	var err error
	if f.Name, err = s.prompt("Name: "); err != nil {
		return err
	}
	if f.Contact, err = s.prompt("Contact: "); err != nil {
		return err
	}
	if f.MembershipID, err = s.prompt("Membership ID (blank to generate): "); err != nil {
		return err
	}

	id, err := s.cmds.AddBorrower(f)
	if err != nil {
		s.printf("Error adding borrower: %v\n", err)
		return nil
	}
	s.printf("Borrower added with id %d\n", id)
	return nil
}

func (s *Shell) updateBorrower() error {
	id, ok, err := s.promptID("Borrower ID: ")
	if err != nil || !ok {
		return err
	}
	b, err := s.cmds.GetBorrower(id)
	if err != nil {
		s.println("Borrower not found.")
		return nil
	}

	s.println("Leave field blank to keep original value.")
	var p library.BorrowerPatch
	if p.Name, err = s.optional("Name (" + b.Name + "): "); err != nil {
		return err
	}
	if p.Contact, err = s.optional("Contact (" + b.Contact + "): "); err != nil {
		return err
	}
	if p.MembershipID, err = s.optional("Membership ID (" + b.MembershipID + "): "); err != nil {
		return err
	}

	if err := s.cmds.UpdateBorrower(id, p); err != nil {
		s.printf("Error updating borrower: %v\n", err)
		return nil
	}
	s.println("Borrower updated.")
	return nil
}

func (s *Shell) removeBorrower() error {
	id, ok, err := s.promptID("Borrower ID: ")
	if err != nil || !ok {
		return err
	}
	switch err := s.cmds.RemoveBorrower(id); {
	case err == nil:
		s.println("Borrower removed.")
	case errors.Is(err, library.ErrActiveLoans):
		s.println("Cannot remove borrower: still borrowing.")
	default:
		s.println("Borrower not found.")
	}
	return nil
}

func (s *Shell) listBorrowers() error {
	borrowers := s.cmds.ListBorrowers()
	if s.json {
		return s.writeJSON(borrowers)
	}
	if len(borrowers) == 0 {
		s.println("No borrowers registered.")
		return nil
	}
	s.printBorrowers(borrowers)
	return nil
}

// ------------------ Circulation ------------------

func (s *Shell) promptPair() (borrowerID, bookID int64, ok bool, err error) {
	if borrowerID, ok, err = s.promptID("Borrower ID: "); err != nil || !ok {
		return
	}
	bookID, ok, err = s.promptID("Book ID: ")
	return
}

func (s *Shell) borrowBook() error {
	borrowerID, bookID, ok, err := s.promptPair()
	if err != nil || !ok {
		return err
	}
	due, err := s.cmds.Borrow(borrowerID, bookID)
	switch {
	case err == nil:
		s.printf("Book borrowed. Due date: %s\n", s.formatDue(due))
	case errors.Is(err, library.ErrUnavailable):
		s.println("Borrow failed: no copies available.")
	default:
		s.println("Borrow failed: unknown borrower or book.")
	}
	return nil
}

func (s *Shell) returnBook() error {
	borrowerID, bookID, ok, err := s.promptPair()
	if err != nil || !ok {
		return err
	}
	if err := s.cmds.Return(borrowerID, bookID); err != nil {
		s.println("Return failed: no such loan.")
		return nil
	}
	s.println("Book returned.")
	return nil
}

func (s *Shell) borrowerLoans() error {
	id, ok, err := s.promptID("Borrower ID: ")
	if err != nil || !ok {
		return err
	}
	loans := s.cmds.LoansForBorrower(id)
	if s.json {
		return s.writeJSON(loans)
	}
	if len(loans) == 0 {
		s.println("No borrowed books.")
		return nil
	}
	s.printLoans(loans)
	return nil
}

// ------------------ Search ------------------

var searchFields = map[string]library.SearchField{
	"1": library.FieldTitle,
	"2": library.FieldAuthor,
	"3": library.FieldGenre,
	"4": library.FieldISBN,
}

func (s *Shell) searchBooks() error {
	s.println("Search by: 1-title 2-author 3-genre 4-isbn")
	choice, err := s.prompt("Choice: ")
	if err != nil {
		return err
	}
	field, ok := searchFields[choice]
	if !ok {
		field = library.FieldTitle
	}
	query, err := s.prompt("Enter search text: ")
	if err != nil {
		return err
	}

	books := s.cmds.Search(query, field)
	if s.json {
		return s.writeJSON(books)
	}
	if len(books) == 0 {
		s.println("No books found.")
		return nil
	}
	s.printf("Found %d book(s) matching '%s':\n", len(books), query)
	s.printBooks(books, false)
	return nil
}
