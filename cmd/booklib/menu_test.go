package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alecthomas/assert"
	"github.com/kjk/booklib/catalog"
)

func runMenu(t *testing.T, store *catalog.Store, input ...string) string {
	t.Helper()
	var out bytes.Buffer
	in := strings.NewReader(strings.Join(input, "\n") + "\n")
	NewMenu(store, in, &out).Run()
	return out.String()
}

func openStore(t *testing.T) *catalog.Store {
	t.Helper()
	s, err := catalog.Open(filepath.Join(t.TempDir(), "library.csv"), nil)
	assert.NoError(t, err)
	return s
}

func TestMenuEndToEnd(t *testing.T) {
	s := openStore(t)
	out := runMenu(t, s,
		"1", "C++ Primer", "Collins Mahigi", "2020",
		"1", "Effective C++", "James Kipsoi", "2021",
		"7", "2",
		"3",
		"0",
	)
	assert.Contains(t, out, "Book added with ID 1.")
	assert.Contains(t, out, "Book added with ID 2.")
	assert.Contains(t, out, "Borrowed: 2. Effective C++ by James Kipsoi (2021) [Borrowed]")
	assert.Contains(t, out, "1. C++ Primer by Collins Mahigi (2020) [Available]\n2. Effective C++ by James Kipsoi (2021) [Borrowed]\n")
	assert.True(t, strings.HasSuffix(out, "Exiting and saving data... Goodbye!\n"))

	s, err := catalog.Open(s.Path, nil)
	assert.NoError(t, err)
	out = runMenu(t, s, "4", "C++", "8", "2", "8", "2", "0")
	assert.Contains(t, out, "1. C++ Primer by Collins Mahigi (2020) [Available]\n2. Effective C++ by James Kipsoi (2021) [Borrowed]\n")
	assert.Contains(t, out, "Returned: 2. Effective C++ by James Kipsoi (2021) [Available]")
	assert.Contains(t, out, "Error: book was not borrowed: 2")
}

func TestMenuEmptyAndNotFound(t *testing.T) {
	s := openStore(t)
	out := runMenu(t, s, "3", "4", "Dune", "5", "", "6", "1965", "2", "5", "7", "5", "0")
	assert.Contains(t, out, "No books available in the library.")
	assert.Equal(t, 3, strings.Count(out, "No books found."))
	assert.Equal(t, 2, strings.Count(out, "Error: book ID not found: 5"))
}

func TestMenuInvalidInput(t *testing.T) {
	s := openStore(t)
	out := runMenu(t, s, "abc", "9", "1", "Dune", "Frank Herbert", "nineteen", "7", "x", "0")
	assert.Contains(t, out, "Invalid number 'abc'.")
	assert.Contains(t, out, "Invalid option. Try again.")
	assert.Contains(t, out, "Invalid number 'nineteen'.")
	assert.Contains(t, out, "Invalid number 'x'.")
	assert.Equal(t, 0, s.Len())
	assert.Contains(t, out, "Goodbye!")
}

func TestMenuEOF(t *testing.T) {
	s := openStore(t)
	var out bytes.Buffer
	NewMenu(s, strings.NewReader("1\nDune\n"), &out).Run()
	assert.Equal(t, 0, s.Len())
	assert.True(t, strings.HasSuffix(out.String(), "Goodbye!\n"))

	out.Reset()
	NewMenu(s, strings.NewReader(""), &out).Run()
	assert.True(t, strings.HasSuffix(out.String(), "Goodbye!\n"))
}

func TestMenuSaveWarning(t *testing.T) {
	s, err := catalog.Open(filepath.Join(t.TempDir(), "missing", "library.csv"), nil)
	assert.NoError(t, err)
	out := runMenu(t, s, "1", "Dune", "Frank Herbert", "1965", "3", "0")
	assert.Contains(t, out, "Book added with ID 1.")
	assert.Contains(t, out, "Warning: changes were not saved")
	assert.Contains(t, out, "1. Dune by Frank Herbert (1965) [Available]")
}

func TestMenuLongInput(t *testing.T) {
	s := openStore(t)
	title := strings.Repeat("x", 100*1024)
	out := runMenu(t, s, "1", title, "Someone", "2000", "0")
	assert.Contains(t, out, "Book added with ID 1.")
	b, ok := s.Get(1)
	assert.True(t, ok)
	assert.Equal(t, title, b.Title)

	// input longer than we accept is reported
	title = strings.Repeat("x", maxInputLen+1)
	out = runMenu(t, s, "1", title, "Someone", "2000", "0")
	assert.Contains(t, out, "Error: reading input failed: bufio.Scanner: token too long")
	assert.True(t, strings.HasSuffix(out, "Goodbye!\n"))
	assert.Equal(t, 1, s.Len())
}
