package library

import "github.com/pkg/errors"

var (
	ErrNotFound    = errors.New("not found")
	ErrActiveLoans = errors.New("has active loans")
	ErrUnavailable = errors.New("no copies available")
	ErrNoLoan      = errors.New("no matching loan")
	ErrInvalid     = errors.New("invalid input")
)
