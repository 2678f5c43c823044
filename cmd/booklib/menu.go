package main

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/kjk/booklib/catalog"
)

const menuText = `
Library Management System
1. Add Book
2. Remove Book
3. List All Books
4. Search by Title
5. Search by Author
6. Search by Year
7. Borrow Book
8. Return Book
0. Exit
Choose an option: `

// longest line of input we accept
const maxInputLen = 1024 * 1024

// Menu is the interactive text menu over a catalog
type Menu struct {
	Store *catalog.Store
	in    *bufio.Scanner
	out   io.Writer
}

func NewMenu(store *catalog.Store, in io.Reader, out io.Writer) *Menu {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), maxInputLen)
	return &Menu{
		Store: store,
		in:    scanner,
		out:   out,
	}
}

func (m *Menu) printf(format string, args ...any) {
	fmt.Fprintf(m.out, format, args...)
}

// readLine prompts and reads a line. ok is false at end of input
// or if reading failed.
func (m *Menu) readLine(prompt string) (string, bool) {
	m.printf("%s", prompt)
	if !m.in.Scan() {
		if err := m.in.Err(); err != nil {
			m.printf("\nError: reading input failed: %s", err)
		}
		return "", false
	}
	return strings.TrimSpace(m.in.Text()), true
}

// readInt prompts for a number. A line that is not a number
// is reported and returns ok = false with eof = false.
func (m *Menu) readInt(prompt string) (n int, ok bool, eof bool) {
	s, ok := m.readLine(prompt)
	if !ok {
		return 0, false, true
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		m.printf("Invalid number '%s'.\n", s)
		return 0, false, false
	}
	return n, true, false
}

func (m *Menu) printBooks(books []catalog.Book, emptyMsg string) {
	if len(books) == 0 {
		m.printf("%s\n", emptyMsg)
		return
	}
	for _, b := range books {
		m.printf("%s\n", b.String())
	}
}

func (m *Menu) reportErr(err error) {
	m.printf("Error: %s\n", err)
}

// checkSaved warns if the last change couldn't be saved
func (m *Menu) checkSaved() {
	if err := m.Store.SaveErr(); err != nil {
		m.printf("Warning: changes were not saved: %s\n", err)
	}
}

// Run shows the menu until the user picks Exit or the input ends
func (m *Menu) Run() {
	for {
		choice, ok, eof := m.readInt(menuText)
		if eof {
			m.printf("\n")
			break
		}
		if !ok {
			continue
		}
		if choice == 0 {
			break
		}
		if !m.handle(choice) {
			m.printf("\n")
			break
		}
	}
	m.printf("Exiting and saving data... Goodbye!\n")
}

// handle runs a single menu option. Returns false at end of input.
func (m *Menu) handle(choice int) bool {
	switch choice {
	case 1:
		return m.addBook()
	case 2:
		return m.withID("Enter Book ID to remove: ", func(id int) error {
			if err := m.Store.Remove(id); err != nil {
				return err
			}
			m.printf("Book %d removed.\n", id)
			return nil
		})
	case 3:
		books := m.Store.List()
		if len(books) > 0 {
			m.printf("\nAll Books:\n")
		}
		m.printBooks(books, "No books available in the library.")
	case 4:
		s, ok := m.readLine("Enter title to search: ")
		if !ok {
			return false
		}
		m.printBooks(m.Store.SearchByTitle(s), "No books found.")
	case 5:
		s, ok := m.readLine("Enter author to search: ")
		if !ok {
			return false
		}
		m.printBooks(m.Store.SearchByAuthor(s), "No books found.")
	case 6:
		year, ok, eof := m.readInt("Enter year to search: ")
		if eof {
			return false
		}
		if ok {
			m.printBooks(m.Store.SearchByYear(year), "No books found.")
		}
	case 7:
		return m.withID("Enter Book ID to borrow: ", func(id int) error {
			return m.changeBorrowed(id, "Borrowed", m.Store.Borrow)
		})
	case 8:
		return m.withID("Enter Book ID to return: ", func(id int) error {
			return m.changeBorrowed(id, "Returned", m.Store.Return)
		})
	default:
		m.printf("Invalid option. Try again.\n")
	}
	return true
}

func (m *Menu) addBook() bool {
	title, ok := m.readLine("Enter title: ")
	if !ok {
		return false
	}
	author, ok := m.readLine("Enter author: ")
	if !ok {
		return false
	}
	year, ok, eof := m.readInt("Enter year: ")
	if eof {
		return false
	}
	if !ok {
		return true
	}
	id := m.Store.Add(title, author, year)
	m.printf("Book added with ID %d.\n", id)
	m.checkSaved()
	return true
}

func (m *Menu) withID(prompt string, fn func(id int) error) bool {
	id, ok, eof := m.readInt(prompt)
	if eof {
		return false
	}
	if !ok {
		return true
	}
	if err := fn(id); err != nil {
		m.reportErr(err)
		return true
	}
	m.checkSaved()
	return true
}

func (m *Menu) changeBorrowed(id int, verb string, fn func(id int) error) error {
	if err := fn(id); err != nil {
		return err
	}
	b, _ := m.Store.Get(id)
	m.printf("%s: %s\n", verb, b.String())
	return nil
}
