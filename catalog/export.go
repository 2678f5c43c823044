package catalog

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/tidwall/pretty"
)

// Marshal returns the catalog serialized the same way as in the catalog file
func (s *Store) Marshal() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return marshalBooks(s.sortedBooks())
}

// WriteTo writes the catalog to w in the catalog file format
func (s *Store) WriteTo(w io.Writer) (int64, error) {
	d, err := s.Marshal()
	if err != nil {
		return 0, err
	}
	n, err := w.Write(d)
	return int64(n), err
}

// Width 0: arrays are never collapsed into a single line
var jsonOptions = &pretty.Options{
	Width:  0,
	Prefix: "",
	Indent: "  ",
}

// ExportJSON returns all books as indented JSON array, ordered by id
func (s *Store) ExportJSON() ([]byte, error) {
	d, err := json.Marshal(s.List())
	if err != nil {
		return nil, err
	}
	return pretty.PrettyOptions(d, jsonOptions), nil
}

// Import adds books read from r, in the catalog file format, with new ids.
// Borrowed status is preserved. Malformed lines are skipped. source
// is only used in log messages.
// Returns number of imported books.
func (s *Store) Import(r io.Reader, source string) (int, error) {
	var books []*Book
	err := parseBooks(r, func(lineNo int, b *Book, err error) {
		if err != nil {
			s.Log.Warnf("%s:%d: %s, skipping line", source, lineNo, err)
			return
		}
		books = append(books, b)
	})
	if err != nil {
		return 0, fmt.Errorf("import from '%s' failed: %w", source, err)
	}
	if len(books) == 0 {
		return 0, nil
	}

	s.mu.Lock()
	for _, b := range books {
		b.ID = s.nextID
		s.nextID++
		s.books[b.ID] = b
	}
	s.Log.Verbosef("Import: %d books from '%s'", len(books), source)
	s.save()
	s.mu.Unlock()

	s.event("catalog.import", "source", source, "count", len(books))
	return len(books), nil
}
