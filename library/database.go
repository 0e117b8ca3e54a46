package library

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
)

// SeedStore reads and writes the SQLite seed file a catalog can be
// populated from at startup. The catalog never writes back to it.
type SeedStore struct {
	db *sql.DB

	addBookStmt     *sql.Stmt
	addBorrowerStmt *sql.Stmt
}

// SeedStats counts what LoadInto added to a catalog.
type SeedStats struct {
	Books     int
	Borrowers int
}

// NewSeedStore opens (or creates) the SQLite file at path, applies schema
// migrations, and prepares the insert statements.
func NewSeedStore(path string) (*SeedStore, error) {
	// Ensure directory exists so first-run succeeds.
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create seed dir: %w", err)
		}
	}

	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if err := applyMigrations(db); err != nil {
		db.Close()
		return nil, err
	}

	s := &SeedStore{db: db}
	if err := s.prepareStatements(); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

// Close releases prepared statements and closes the DB.
func (s *SeedStore) Close() error {
	if s.addBookStmt != nil {
		s.addBookStmt.Close()
	}
	if s.addBorrowerStmt != nil {
		s.addBorrowerStmt.Close()
	}
	return s.db.Close()
}

// ---------------------------------------------------------------------------
// Schema migration
// ---------------------------------------------------------------------------

const schemaVersion = 1

func applyMigrations(db *sql.DB) error {
	if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		return fmt.Errorf("enable WAL: %w", err)
	}

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS meta (key TEXT PRIMARY KEY, value TEXT);`); err != nil {
		return err
	}

	var current int
	_ = db.QueryRow(`SELECT value FROM meta WHERE key='schema_version';`).Scan(&current)
	if current >= schemaVersion {
		return nil
	}

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmts := []string{
		`CREATE TABLE IF NOT EXISTS books (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            title TEXT NOT NULL,
            author TEXT NOT NULL DEFAULT '',
            isbn TEXT NOT NULL DEFAULT '',
            genre TEXT NOT NULL DEFAULT '',
            quantity INTEGER NOT NULL DEFAULT 1 CHECK (quantity >= 0)
        );`,
		`CREATE TABLE IF NOT EXISTS borrowers (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            name TEXT NOT NULL,
            contact TEXT NOT NULL DEFAULT '',
            membership_id TEXT NOT NULL DEFAULT ''
        );`,
	}
	for _, stmt := range stmts {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("apply migration: %w", err)
		}
	}
	if _, err := tx.Exec(`INSERT INTO meta(key,value) VALUES('schema_version',?)
            ON CONFLICT(key) DO UPDATE SET value=excluded.value;`, schemaVersion); err != nil {
		return fmt.Errorf("record schema version: %w", err)
	}

	return tx.Commit()
}

// ---------------------------------------------------------------------------
// Prepared statements
// ---------------------------------------------------------------------------

func (s *SeedStore) prepareStatements() error {
	var err error
	if s.addBookStmt, err = s.db.Prepare(`INSERT INTO books(title,author,isbn,genre,quantity) VALUES(?,?,?,?,?)`); err != nil {
		return err
	}
	if s.addBorrowerStmt, err = s.db.Prepare(`INSERT INTO borrowers(name,contact,membership_id) VALUES(?,?,?)`); err != nil {
		return err
	}
	return nil
}

// ---------------------------------------------------------------------------
// Seed rows
// ---------------------------------------------------------------------------

// AddBook inserts a seed book row.
func (s *SeedStore) AddBook(f BookFields) (int64, error) {
	res, err := s.addBookStmt.Exec(f.Title, f.Author, f.ISBN, f.Genre, f.Quantity)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// AddBorrower inserts a seed borrower row.
func (s *SeedStore) AddBorrower(f BorrowerFields) (int64, error) {
	res, err := s.addBorrowerStmt.Exec(f.Name, f.Contact, f.MembershipID)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// Books returns every seed book in row order.
func (s *SeedStore) Books(ctx context.Context) ([]BookFields, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT title,author,isbn,genre,quantity FROM books ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var books []BookFields
	for rows.Next() {
		var b BookFields
		if err := rows.Scan(&b.Title, &b.Author, &b.ISBN, &b.Genre, &b.Quantity); err != nil {
			return nil, err
		}
		books = append(books, b)
	}
	return books, rows.Err()
}

// Borrowers returns every seed borrower in row order.
func (s *SeedStore) Borrowers(ctx context.Context) ([]BorrowerFields, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name,contact,membership_id FROM borrowers ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var borrowers []BorrowerFields
	for rows.Next() {
		var b BorrowerFields
		if err := rows.Scan(&b.Name, &b.Contact, &b.MembershipID); err != nil {
			return nil, err
		}
		borrowers = append(borrowers, b)
	}
	return borrowers, rows.Err()
}

// LoadInto adds every seed row to c. Identities are assigned by the catalog,
// so seed row ids are not preserved.
func (s *SeedStore) LoadInto(ctx context.Context, c *Catalog) (SeedStats, error) {
	var stats SeedStats

	books, err := s.Books(ctx)
	if err != nil {
		return stats, errors.Wrap(err, "read seed books")
	}
	borrowers, err := s.Borrowers(ctx)
	if err != nil {
		return stats, errors.Wrap(err, "read seed borrowers")
	}

	for _, b := range books {
		if _, err := c.AddBook(b); err != nil {
			return stats, errors.Wrapf(err, "seed book %q", b.Title)
		}
		stats.Books++
	}
	for _, b := range borrowers {
		if _, err := c.AddBorrower(b); err != nil {
			return stats, errors.Wrapf(err, "seed borrower %q", b.Name)
		}
		stats.Borrowers++
	}
	return stats, nil
}

// SampleBooks and SampleBorrowers are the small demo data set the shell can
// start with.
var (
	SampleBooks = []BookFields{
		{Title: "The Pragmatic Programmer", Author: "Andrew Hunt", ISBN: "9780201616224", Genre: "Programming", Quantity: 3},
		{Title: "Clean Code", Author: "Robert Martin", ISBN: "9780132350884", Genre: "Programming", Quantity: 2},
	}
	SampleBorrowers = []BorrowerFields{
		{Name: "Alice", Contact: "alice@mail.com", MembershipID: "MEM001"},
		{Name: "Bob", Contact: "bob@mail.com", MembershipID: "MEM002"},
	}
)

// LoadSample adds the demo data set to c.
func LoadSample(c *Catalog) error {
	for _, b := range SampleBooks {
		if _, err := c.AddBook(b); err != nil {
			return err
		}
	}
	for _, b := range SampleBorrowers {
		if _, err := c.AddBorrower(b); err != nil {
			return err
		}
	}
	return nil
}
