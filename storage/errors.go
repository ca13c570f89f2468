package storage

import (
	"errors"
	"fmt"
)

var (
	// ErrFileUnreadable means the backing file or database could not be read.
	// Callers start with an empty ledger.
	ErrFileUnreadable = errors.New("data source unreadable")
	ErrFileUnwritable = errors.New("data destination unwritable")
	ErrMalformedData  = errors.New("malformed data")
)

// MalformedDataError locates a decoding failure. Line is 1-based, or the
// row number for the database store.
type MalformedDataError struct {
	Line   int
	Reason string
	Err    error
}

func (e *MalformedDataError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed data at line %d: %s: %v", e.Line, e.Reason, e.Err)
	}
	return fmt.Sprintf("malformed data at line %d: %s", e.Line, e.Reason)
}

func (e *MalformedDataError) Is(target error) bool {
	return target == ErrMalformedData
}

func (e *MalformedDataError) Unwrap() error {
	return e.Err
}
