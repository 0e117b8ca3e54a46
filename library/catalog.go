package library

import (
	"maps"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// DefaultLoanDays is the loan period used when none is configured.
const DefaultLoanDays = 14

var validate = validator.New()

// Catalog owns every book, borrower and active loan. All access goes through
// its methods; returned values are copies.
type Catalog struct {
	mu sync.RWMutex

	books     map[int64]*Book
	borrowers map[int64]*Borrower
	loans     map[int64][]Loan // keyed by book id

	nextBookID     int64
	nextBorrowerID int64

	loanDays int
	now      func() time.Time
	log      *zap.Logger
}

// Option configures a Catalog.
type Option func(*Catalog)

// WithLoanPeriod sets the number of days a loan lasts.
func WithLoanPeriod(days int) Option {
	return func(c *Catalog) { c.loanDays = days }
}

// WithClock replaces time.Now as the source of the current date.
func WithClock(now func() time.Time) Option {
	return func(c *Catalog) { c.now = now }
}

// WithLogger sets the logger used for mutation tracing. A nil logger keeps
// the no-op default.
func WithLogger(log *zap.Logger) Option {
	return func(c *Catalog) {
		if log != nil {
			c.log = log.Named("catalog")
		}
	}
}

// NewCatalog returns an empty catalog.
func NewCatalog(opts ...Option) *Catalog {
	c := &Catalog{
		books:     make(map[int64]*Book),
		borrowers: make(map[int64]*Borrower),
		loans:     make(map[int64][]Loan),
		loanDays:  DefaultLoanDays,
		now:       time.Now,
		log:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// LoanDays reports the configured loan period.
func (c *Catalog) LoanDays() int { return c.loanDays }

// ------------------ Books ------------------

// AddBook stores a new book and returns its identity.
func (c *Catalog) AddBook(f BookFields) (int64, error) {
	if err := validate.Struct(f); err != nil {
		c.log.Info("add book rejected", zap.Error(err))
		return 0, errors.Wrap(ErrInvalid, err.Error())
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.nextBookID++
	id := c.nextBookID
	c.books[id] = &Book{
		ID:       id,
		Title:    f.Title,
		Author:   f.Author,
		ISBN:     f.ISBN,
		Genre:    f.Genre,
		Quantity: f.Quantity,
	}
	c.log.Debug("book added", zap.Int64("book_id", id), zap.String("title", f.Title), zap.Int("quantity", f.Quantity))
	return id, nil
}

// GetBook returns the book with the given id.
func (c *Catalog) GetBook(id int64) (Book, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	b, ok := c.books[id]
	if !ok {
		return Book{}, errors.Wrapf(ErrNotFound, "book %d", id)
	}
	return *b, nil
}

// UpdateBook applies the present fields of p to an existing book. Quantity is
// not reconciled against outstanding loans.
func (c *Catalog) UpdateBook(id int64, p BookPatch) error {
	if err := validate.Struct(p); err != nil {
		c.log.Info("update book rejected", zap.Int64("book_id", id), zap.Error(err))
		return errors.Wrap(ErrInvalid, err.Error())
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	b, ok := c.books[id]
	if !ok {
		return errors.Wrapf(ErrNotFound, "book %d", id)
	}
	if p.Title != nil {
		b.Title = *p.Title
	}
	if p.Author != nil {
		b.Author = *p.Author
	}
	if p.ISBN != nil {
		b.ISBN = *p.ISBN
	}
	if p.Genre != nil {
		b.Genre = *p.Genre
	}
	if p.Quantity != nil {
		b.Quantity = *p.Quantity
	}
	c.log.Debug("book updated", zap.Int64("book_id", id))
	return nil
}

// RemoveBook deletes a book that has no active loans.
func (c *Catalog) RemoveBook(id int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.books[id]; !ok {
		return errors.Wrapf(ErrNotFound, "book %d", id)
	}
	if n := len(c.loans[id]); n > 0 {
		c.log.Info("remove book rejected", zap.Int64("book_id", id), zap.Int("active_loans", n))
		return errors.Wrapf(ErrActiveLoans, "book %d: %d copies out", id, n)
	}
	delete(c.books, id)
	delete(c.loans, id)
	c.log.Debug("book removed", zap.Int64("book_id", id))
	return nil
}

// ListBooks returns every book in identity order.
func (c *Catalog) ListBooks() []Book {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.booksInOrder()
}

func (c *Catalog) booksInOrder() []Book {
	out := make([]Book, 0, len(c.books))
	for _, id := range slices.Sorted(maps.Keys(c.books)) {
		out = append(out, *c.books[id])
	}
	return out
}

// ------------------ Borrowers ------------------

// AddBorrower registers a borrower and returns its identity. A blank
// membership id is replaced with a generated one.
func (c *Catalog) AddBorrower(f BorrowerFields) (int64, error) {
	if strings.TrimSpace(f.MembershipID) == "" {
		f.MembershipID = newMembershipID()
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.nextBorrowerID++
	id := c.nextBorrowerID
	c.borrowers[id] = &Borrower{
		ID:           id,
		Name:         f.Name,
		Contact:      f.Contact,
		MembershipID: f.MembershipID,
	}
	c.log.Debug("borrower added", zap.Int64("borrower_id", id), zap.String("membership_id", f.MembershipID))
	return id, nil
}

func newMembershipID() string {
	return "MEM-" + strings.ToUpper(uuid.NewString()[:8])
}

// GetBorrower returns the borrower with the given id.
func (c *Catalog) GetBorrower(id int64) (Borrower, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	b, ok := c.borrowers[id]
	if !ok {
		return Borrower{}, errors.Wrapf(ErrNotFound, "borrower %d", id)
	}
	return *b, nil
}

// UpdateBorrower applies the present fields of p to an existing borrower.
func (c *Catalog) UpdateBorrower(id int64, p BorrowerPatch) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	b, ok := c.borrowers[id]
	if !ok {
		return errors.Wrapf(ErrNotFound, "borrower %d", id)
	}
	if p.Name != nil {
		b.Name = *p.Name
	}
	if p.Contact != nil {
		b.Contact = *p.Contact
	}
	if p.MembershipID != nil {
		b.MembershipID = *p.MembershipID
	}
	c.log.Debug("borrower updated", zap.Int64("borrower_id", id))
	return nil
}

// RemoveBorrower deletes a borrower who holds no loans.
func (c *Catalog) RemoveBorrower(id int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.borrowers[id]; !ok {
		return errors.Wrapf(ErrNotFound, "borrower %d", id)
	}
	for bookID, group := range c.loans {
		for _, l := range group {
			if l.BorrowerID == id {
				c.log.Info("remove borrower rejected", zap.Int64("borrower_id", id), zap.Int64("book_id", bookID))
				return errors.Wrapf(ErrActiveLoans, "borrower %d holds book %d", id, bookID)
			}
		}
	}
	delete(c.borrowers, id)
	c.log.Debug("borrower removed", zap.Int64("borrower_id", id))
	return nil
}

// ListBorrowers returns every borrower in identity order.
func (c *Catalog) ListBorrowers() []Borrower {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]Borrower, 0, len(c.borrowers))
	for _, id := range slices.Sorted(maps.Keys(c.borrowers)) {
		out = append(out, *c.borrowers[id])
	}
	return out
}

// ------------------ Circulation ------------------

// Borrow lends one copy of a book and returns the due date.
func (c *Catalog) Borrow(borrowerID, bookID int64) (time.Time, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.borrowers[borrowerID]; !ok {
		return time.Time{}, errors.Wrapf(ErrNotFound, "borrower %d", borrowerID)
	}
	b, ok := c.books[bookID]
	if !ok {
		return time.Time{}, errors.Wrapf(ErrNotFound, "book %d", bookID)
	}
	if b.Quantity <= 0 {
		c.log.Info("borrow rejected", zap.Int64("book_id", bookID), zap.Int64("borrower_id", borrowerID))
		return time.Time{}, errors.Wrapf(ErrUnavailable, "book %d", bookID)
	}

	due := c.today().AddDate(0, 0, c.loanDays)
	b.Quantity--
	c.loans[bookID] = append(c.loans[bookID], Loan{
		BookID:     bookID,
		BorrowerID: borrowerID,
		DueDate:    due,
	})
	c.log.Debug("book lent",
		zap.Int64("book_id", bookID),
		zap.Int64("borrower_id", borrowerID),
		zap.Time("due", due),
		zap.Int("remaining", b.Quantity))
	return due, nil
}

func (c *Catalog) today() time.Time {
	now := c.now()
	y, m, d := now.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, now.Location())
}

// Return closes one loan of the book held by the borrower. When the same
// borrower holds several copies, one call returns exactly one of them.
func (c *Catalog) Return(borrowerID, bookID int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	group := c.loans[bookID]
	i := slices.IndexFunc(group, func(l Loan) bool { return l.BorrowerID == borrowerID })
	if i < 0 {
		return errors.Wrapf(ErrNoLoan, "borrower %d, book %d", borrowerID, bookID)
	}

	group = slices.Delete(group, i, i+1)
	if len(group) == 0 {
		delete(c.loans, bookID)
	} else {
		c.loans[bookID] = group
	}
	if b, ok := c.books[bookID]; ok {
		b.Quantity++
	}
	c.log.Debug("book returned", zap.Int64("book_id", bookID), zap.Int64("borrower_id", borrowerID))
	return nil
}

// LoansForBorrower lists the borrower's loans ordered by book id, then by the
// order the copies were lent.
func (c *Catalog) LoansForBorrower(borrowerID int64) []BorrowedBook {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var out []BorrowedBook
	for _, bookID := range slices.Sorted(maps.Keys(c.loans)) {
		for _, l := range c.loans[bookID] {
			if l.BorrowerID != borrowerID {
				continue
			}
			var b Book
			if p, ok := c.books[bookID]; ok {
				b = *p
			}
			out = append(out, BorrowedBook{Book: b, DueDate: l.DueDate})
		}
	}
	return out
}

// ActiveLoans reports the number of outstanding loans of a book.
func (c *Catalog) ActiveLoans(bookID int64) int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.loans[bookID])
}

// ------------------ Search ------------------

// Search returns books whose field contains query, ignoring case and
// surrounding whitespace. An empty query matches every book.
func (c *Catalog) Search(query string, field SearchField) []Book {
	q := strings.ToLower(strings.TrimSpace(query))
	field = ParseSearchField(string(field))

	c.mu.RLock()
	defer c.mu.RUnlock()

	var out []Book
	for _, b := range c.booksInOrder() {
		if strings.Contains(strings.ToLower(b.field(field)), q) {
			out = append(out, b)
		}
	}
	return out
}
