package library

import "time"

// Book is one catalogued title. Quantity counts the copies currently on the
// shelf; lent copies are tracked as loans, not as separate items.
type Book struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	Author   string `json:"author"`
	ISBN     string `json:"isbn"`
	Genre    string `json:"genre"`
	Quantity int    `json:"quantity"`
}

// Available reports whether at least one copy can be lent.
func (b Book) Available() bool { return b.Quantity > 0 }

// Borrower represents a registered library member.
type Borrower struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Contact      string `json:"contact"`
	MembershipID string `json:"membership_id"`
}

// Loan is one outstanding borrowed copy.
type Loan struct {
	BookID     int64     `json:"book_id"`
	BorrowerID int64     `json:"borrower_id"`
	DueDate    time.Time `json:"due_date"`
}

// BorrowedBook pairs a book with the due date of one loan of it.
type BorrowedBook struct {
	Book    Book      `json:"book"`
	DueDate time.Time `json:"due_date"`
}

// BookFields holds the caller-supplied fields of a new book.
type BookFields struct {
	Title    string `json:"title"`
	Author   string `json:"author"`
	ISBN     string `json:"isbn"`
	Genre    string `json:"genre"`
	Quantity int    `json:"quantity" validate:"gte=0"`
}

// BookPatch is a partial update; nil fields are left untouched.
type BookPatch struct {
	Title    *string
	Author   *string
	ISBN     *string
	Genre    *string
	Quantity *int `validate:"omitempty,gte=0"`
}

// BorrowerFields holds the caller-supplied fields of a new borrower.
type BorrowerFields struct {
	Name         string `json:"name"`
	Contact      string `json:"contact"`
	MembershipID string `json:"membership_id"`
}

// BorrowerPatch is a partial update; nil fields are left untouched.
type BorrowerPatch struct {
	Name         *string
	Contact      *string
	MembershipID *string
}

// SearchField names the book attribute a search matches against.
type SearchField string

const (
	FieldTitle  SearchField = "title"
	FieldAuthor SearchField = "author"
	FieldGenre  SearchField = "genre"
	FieldISBN   SearchField = "isbn"
)

// ParseSearchField maps a user-supplied name onto a SearchField, falling back
// to FieldTitle for anything unrecognised.
func ParseSearchField(s string) SearchField {
	switch f := SearchField(s); f {
	case FieldTitle, FieldAuthor, FieldGenre, FieldISBN:
		return f
	}
	return FieldTitle
}

func (b Book) field(f SearchField) string {
	switch f {
	case FieldAuthor:
		return b.Author
	case FieldGenre:
		return b.Genre
	case FieldISBN:
		return b.ISBN
	default:
		return b.Title
	}
}

// String helps build patches from literals.
func String(s string) *string { return &s }

// Int helps build patches from literals.
func Int(n int) *int { return &n }
