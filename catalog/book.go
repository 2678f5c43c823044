package catalog

import (
	"fmt"
)

type Book struct {
	ID       int    `json:"id"`
	Title    string `json:"title"`
	Author   string `json:"author"`
	Year     int    `json:"year"`
	Borrowed bool   `json:"borrowed"`
}

// Status returns "Borrowed" or "Available"
func (b Book) Status() string {
	if b.Borrowed {
		return "Borrowed"
	}
	return "Available"
}

// String formats the book as shown in listings:
// 2. Effective C++ by James Kipsoi (2021) [Borrowed]
func (b Book) String() string {
	return fmt.Sprintf("%d. %s by %s (%d) [%s]", b.ID, b.Title, b.Author, b.Year, b.Status())
}
