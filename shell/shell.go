// Package shell is the numbered text menu in front of a library catalog. It
// parses input and formats output; every decision is left to Commands.
package shell

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/prasdif/library-system/library"
)

// Commands is the operation set the shell dispatches to.
type Commands interface {
	AddBook(f library.BookFields) (int64, error)
	GetBook(id int64) (library.Book, error)
	UpdateBook(id int64, p library.BookPatch) error
	RemoveBook(id int64) error
	ListBooks() []library.Book

	AddBorrower(f library.BorrowerFields) (int64, error)
	GetBorrower(id int64) (library.Borrower, error)
	UpdateBorrower(id int64, p library.BorrowerPatch) error
	RemoveBorrower(id int64) error
	ListBorrowers() []library.Borrower

	Borrow(borrowerID, bookID int64) (time.Time, error)
	Return(borrowerID, bookID int64) error
	LoansForBorrower(borrowerID int64) []library.BorrowedBook

	Search(query string, field library.SearchField) []library.Book
}

type Shell struct {
	cmds Commands
	sc   *bufio.Scanner
	out  io.Writer

	// lines is fed by a single reader goroutine so a prompt can give up
	// when ctx is cancelled while the read is still blocked.
	lines chan inputLine
	ctx   context.Context

	json        bool
	interactive bool
	now         func() time.Time
}

type Option func(*Shell)

// WithJSON renders listings as JSON instead of text tables.
func WithJSON(on bool) Option {
	return func(s *Shell) { s.json = on }
}

// WithInteractive reprints the menu before every choice.
func WithInteractive(on bool) Option {
	return func(s *Shell) { s.interactive = on }
}

// WithClock sets the reference time for relative due dates.
func WithClock(now func() time.Time) Option {
	return func(s *Shell) { s.now = now }
}

func New(cmds Commands, in io.Reader, out io.Writer, opts ...Option) *Shell {
	s := &Shell{
		cmds: cmds,
		sc:   bufio.NewScanner(in),
		out:  out,
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type inputLine struct {
	text string
	err  error
}

type menuItem struct {
	label string
	run   func(*Shell) error
}

var menu = []menuItem{
	1:  {"Add book", (*Shell).addBook},
	2:  {"Update book", (*Shell).updateBook},
	3:  {"Remove book", (*Shell).removeBook},
	4:  {"List books", (*Shell).listBooks},
	5:  {"Add borrower", (*Shell).addBorrower},
	6:  {"Update borrower", (*Shell).updateBorrower},
	7:  {"Remove borrower", (*Shell).removeBorrower},
	8:  {"List borrowers", (*Shell).listBorrowers},
	9:  {"Borrow book", (*Shell).borrowBook},
	10: {"Return book", (*Shell).returnBook},
	11: {"Borrower loans", (*Shell).borrowerLoans},
	12: {"Search books", (*Shell).searchBooks},
}

// Run reads menu choices until the user exits, input ends, or ctx is done.
func (s *Shell) Run(ctx context.Context) error {
	s.ctx = ctx
	if s.lines == nil {
		s.lines = make(chan inputLine)
		go s.readLines()
	}
	if !s.interactive {
		s.printMenu()
	}
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if s.interactive {
			s.printMenu()
		}

		line, err := s.prompt("Choose: ")
		if err != nil {
			return endOfInput(err)
		}
		choice, err := strconv.Atoi(line)
		if err != nil || choice < 0 || choice >= len(menu) {
			s.println("Invalid option!")
			continue
		}
		if choice == 0 {
			s.println("Goodbye!")
			return nil
		}
		if err := menu[choice].run(s); err != nil {
			return endOfInput(err)
		}
	}
}

func endOfInput(err error) error {
	if err == io.EOF {
		return nil
	}
	return err
}

func (s *Shell) printMenu() {
	s.println("\n===== Library Menu =====")
	for i, item := range menu {
		if i == 0 {
			continue
		}
		s.printf("%d. %s\n", i, item.label)
	}
	s.println("0. Exit")
}

// ------------------ Input helpers ------------------

func (s *Shell) readLines() {
	defer close(s.lines)
	for s.sc.Scan() {
		s.lines <- inputLine{text: s.sc.Text()}
	}
	if err := s.sc.Err(); err != nil {
		s.lines <- inputLine{err: err}
	}
}

// prompt prints p and returns the next trimmed input line. It returns io.EOF
// when input ends and ctx.Err() when the run is cancelled mid-read.
func (s *Shell) prompt(p string) (string, error) {
	fmt.Fprint(s.out, p)
	select {
	case <-s.ctx.Done():
		return "", s.ctx.Err()
	case l, ok := <-s.lines:
		if !ok {
			return "", io.EOF
		}
		if l.err != nil {
			return "", l.err
		}
		return strings.TrimSpace(l.text), nil
	}
}

// promptID reads a positive integer identity. ok is false when the input was
// not a number; the caller has already been told.
func (s *Shell) promptID(p string) (id int64, ok bool, err error) {
	line, err := s.prompt(p)
	if err != nil {
		return 0, false, err
	}
	id, perr := strconv.ParseInt(line, 10, 64)
	if perr != nil {
		s.printf("Invalid ID: %s\n", line)
		return 0, false, nil
	}
	return id, true, nil
}

// optional returns a pointer to the input, or nil when it was left blank.
func (s *Shell) optional(p string) (*string, error) {
	line, err := s.prompt(p)
	if err != nil || line == "" {
		return nil, err
	}
	return &line, nil
}

func (s *Shell) printf(format string, args ...any) {
	fmt.Fprintf(s.out, format, args...)
}

func (s *Shell) println(args ...any) {
	fmt.Fprintln(s.out, args...)
}
