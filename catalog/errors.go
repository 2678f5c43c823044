package catalog

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound        = errors.New("book ID not found")
	ErrAlreadyBorrowed = errors.New("book already borrowed")
	ErrNotBorrowed     = errors.New("book was not borrowed")
)

// PersistError is returned by Store.SaveErr when the catalog file
// couldn't be written (or logged when it couldn't be read)
type PersistError struct {
	// "load" or "save"
	Op   string
	Path string
	Err  error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("%s '%s' failed: %s", e.Op, e.Path, e.Err)
}

func (e *PersistError) Unwrap() error {
	return e.Err
}
