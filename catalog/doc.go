// Package catalog is a book catalog persisted to a flat text file.
//
// The file has one book per line:
//
//	id,title,author,year,borrowed
//
// borrowed is 1 or 0 and is optional (files written by older versions
// don't have it). Fields that contain a comma or a quote are quoted
// CSV-style, other lines are written as is.
//
// The whole catalog is kept in memory and the file is re-written
// after every change.
//
// # Basic Usage
//
//	s, err := catalog.Open("library.csv", log.Default)
//	if err != nil {
//	    return err
//	}
//	id := s.Add("Effective C++", "James Kipsoi", 2021)
//	if err := s.Borrow(id); err != nil {
//	    // catalog.ErrNotFound or catalog.ErrAlreadyBorrowed
//	}
//	if err := s.SaveErr(); err != nil {
//	    // the change is in memory but not in the file
//	}
package catalog
