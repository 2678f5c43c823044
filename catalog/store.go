package catalog

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/kjk/booklib/atomicfile"
)

// Logger receives debug messages, warnings about malformed lines
// and errors about failed saves. log.Default implements it.
type Logger interface {
	Verbosef(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Verbosef(string, ...any) {}
func (nopLogger) Warnf(string, ...any)    {}
func (nopLogger) Errorf(string, ...any)   {}

// Store is a catalog of books backed by a file.
// It's safe for concurrent use but only one Store should use a given file.
type Store struct {
	// Path of the catalog file. Must be set before OpenStore
	Path string
	// Log is optional
	Log Logger
	// OnEvent, if set, is called after every change with event name
	// and key / value pairs describing the change, e.g.
	// "book.borrow", "id", 3
	OnEvent func(name string, vals ...any)

	books  map[int]*Book
	nextID int
	// error from the last save, nil if it succeeded
	saveErr error
	mu      sync.Mutex
}

// OpenStore loads books from s.Path. A missing or unreadable file
// means an empty catalog, malformed lines are skipped. Only returns
// an error if s.Path is not set.
func OpenStore(s *Store) error {
	if s.Path == "" {
		return fmt.Errorf("catalog path is not set")
	}
	if s.Log == nil {
		s.Log = nopLogger{}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.load()
	return nil
}

// Open is a shortcut for OpenStore(&Store{Path: path, Log: logger})
func Open(path string, logger Logger) (*Store, error) {
	s := &Store{
		Path: path,
		Log:  logger,
	}
	if err := OpenStore(s); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) event(name string, vals ...any) {
	if s.OnEvent != nil {
		s.OnEvent(name, vals...)
	}
}

func (s *Store) load() {
	s.books = map[int]*Book{}
	s.nextID = 1

	f, err := os.Open(s.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			s.Log.Verbosef("catalog '%s' doesn't exist, starting empty", s.Path)
			return
		}
		s.Log.Warnf("%s, starting with empty catalog", &PersistError{Op: "load", Path: s.Path, Err: err})
		return
	}
	defer f.Close()

	maxID := 0
	err = parseBooks(f, func(lineNo int, b *Book, err error) {
		if err != nil {
			s.Log.Warnf("%s:%d: %s, skipping line", s.Path, lineNo, err)
			return
		}
		if _, dup := s.books[b.ID]; dup {
			s.Log.Warnf("%s:%d: duplicate id %d, replaces earlier line", s.Path, lineNo, b.ID)
		}
		s.books[b.ID] = b
		maxID = max(maxID, b.ID)
	})
	if err != nil {
		s.Log.Warnf("%s, starting with empty catalog", &PersistError{Op: "load", Path: s.Path, Err: err})
		s.books = map[int]*Book{}
		return
	}
	s.nextID = maxID + 1
	s.Log.Verbosef("loaded %d books from '%s', next id: %d", len(s.books), s.Path, s.nextID)
}

// sortedBooks returns books ordered by id
func (s *Store) sortedBooks() []*Book {
	res := make([]*Book, 0, len(s.books))
	for _, b := range s.books {
		res = append(res, b)
	}
	sort.Slice(res, func(i, j int) bool {
		return res[i].ID < res[j].ID
	})
	return res
}

func (s *Store) writeFile() error {
	d, err := marshalBooks(s.sortedBooks())
	if err != nil {
		return err
	}
	return atomicfile.WriteFile(s.Path, d)
}

// save writes all books to the file. A failed save is logged and
// remembered in saveErr, the in-memory change is kept.
func (s *Store) save() {
	if err := s.writeFile(); err != nil {
		s.saveErr = &PersistError{Op: "save", Path: s.Path, Err: err}
		s.Log.Errorf("%s", s.saveErr)
		return
	}
	s.saveErr = nil
	s.Log.Verbosef("saved %d books to '%s'", len(s.books), s.Path)
}

// SaveErr returns the error from the last save, nil if the file
// reflects the catalog in memory
func (s *Store) SaveErr() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveErr
}

// Add adds a book and returns its id. The book is added even if
// saving fails, check SaveErr.
func (s *Store) Add(title, author string, year int) int {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.books[id] = &Book{
		ID:     id,
		Title:  title,
		Author: author,
		Year:   year,
	}
	s.Log.Verbosef("Add: id=%d title='%s'", id, title)
	s.save()
	s.mu.Unlock()

	s.event("book.add", "id", id, "title", title, "author", author, "year", year)
	return id
}

// Remove removes a book, returns ErrNotFound if there's no book with this id
func (s *Store) Remove(id int) error {
	s.mu.Lock()
	b, ok := s.books[id]
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	delete(s.books, id)
	s.Log.Verbosef("Remove: id=%d", id)
	s.save()
	s.mu.Unlock()

	s.event("book.remove", "id", id, "title", b.Title)
	return nil
}

// Get returns a book with a given id
func (s *Store) Get(id int) (Book, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.books[id]
	if !ok {
		return Book{}, false
	}
	return *b, true
}

// Len returns number of books
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.books)
}

// filter returns copies of books matching fn, ordered by id
func (s *Store) filter(fn func(b *Book) bool) []Book {
	s.mu.Lock()
	defer s.mu.Unlock()
	res := make([]Book, 0, len(s.books))
	for _, b := range s.sortedBooks() {
		if fn(b) {
			res = append(res, *b)
		}
	}
	return res
}

// List returns all books ordered by id
func (s *Store) List() []Book {
	return s.filter(func(*Book) bool { return true })
}

// SearchByTitle returns books whose title contains sub (case-sensitive).
// Empty sub matches all books.
func (s *Store) SearchByTitle(sub string) []Book {
	return s.filter(func(b *Book) bool {
		return strings.Contains(b.Title, sub)
	})
}

// SearchByAuthor returns books whose author contains sub (case-sensitive).
// Empty sub matches all books.
func (s *Store) SearchByAuthor(sub string) []Book {
	return s.filter(func(b *Book) bool {
		return strings.Contains(b.Author, sub)
	})
}

// SearchByYear returns books published in year
func (s *Store) SearchByYear(year int) []Book {
	return s.filter(func(b *Book) bool {
		return b.Year == year
	})
}

// Borrow marks a book as borrowed.
// Returns ErrNotFound or ErrAlreadyBorrowed.
func (s *Store) Borrow(id int) error {
	return s.setBorrowed(id, true)
}

// Return marks a borrowed book as available.
// Returns ErrNotFound or ErrNotBorrowed.
func (s *Store) Return(id int) error {
	return s.setBorrowed(id, false)
}

func (s *Store) setBorrowed(id int, borrowed bool) error {
	s.mu.Lock()
	b, ok := s.books[id]
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	if b.Borrowed == borrowed {
		s.mu.Unlock()
		if borrowed {
			return fmt.Errorf("%w: %d", ErrAlreadyBorrowed, id)
		}
		return fmt.Errorf("%w: %d", ErrNotBorrowed, id)
	}
	b.Borrowed = borrowed
	s.Log.Verbosef("setBorrowed: id=%d borrowed=%v", id, borrowed)
	s.save()
	s.mu.Unlock()

	name := "book.return"
	if borrowed {
		name = "book.borrow"
	}
	s.event(name, "id", id)
	return nil
}
