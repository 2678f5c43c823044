package catalog

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// line format: id,title,author,year[,borrowed]
const (
	fieldID = iota
	fieldTitle
	fieldAuthor
	fieldYear
	fieldBorrowed
	maxFields
)

// maximum length of a line in catalog file
const maxLineLen = 1024 * 1024

// ids must fit in 32 bits so that nextID can't overflow
const maxID = math.MaxInt32

var newlineReplacer = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ")

// removeNewlines replaces newlines with a space so that
// a book always takes a single line
func removeNewlines(s string) string {
	return newlineReplacer.Replace(s)
}

func formatBorrowed(borrowed bool) string {
	if borrowed {
		return "1"
	}
	return "0"
}

func parseBorrowed(s string) bool {
	switch s {
	case "1", "true", "True":
		return true
	}
	return false
}

// marshalBooks serializes books, one per line
func marshalBooks(books []*Book) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	rec := make([]string, maxFields)
	for _, b := range books {
		rec[fieldID] = strconv.Itoa(b.ID)
		rec[fieldTitle] = removeNewlines(b.Title)
		rec[fieldAuthor] = removeNewlines(b.Author)
		rec[fieldYear] = strconv.Itoa(b.Year)
		rec[fieldBorrowed] = formatBorrowed(b.Borrowed)
		if err := w.Write(rec); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// splitLine splits a line into fields. Quoted fields are unquoted,
// stray quotes in unquoted fields (from older files) are kept as is.
// Lines that don't parse as CSV are split on every comma.
func splitLine(line string) []string {
	r := csv.NewReader(strings.NewReader(line))
	r.LazyQuotes = true
	r.FieldsPerRecord = -1
	fields, err := r.Read()
	if err != nil || len(fields) <= fieldYear {
		// e.g. older file with a title that starts with a quote
		fields = strings.Split(line, ",")
	}
	if len(fields) > maxFields {
		fields = fields[:maxFields]
	}
	for i, f := range fields {
		fields[i] = strings.TrimSpace(f)
	}
	return fields
}

func getField(fields []string, i int) string {
	if i < len(fields) {
		return fields[i]
	}
	return ""
}

// ParseLine parses a single line of catalog file
func ParseLine(line string) (*Book, error) {
	fields := splitLine(line)
	idStr := getField(fields, fieldID)
	yearStr := getField(fields, fieldYear)
	if idStr == "" || yearStr == "" {
		return nil, fmt.Errorf("missing id or year")
	}
	id, err := strconv.Atoi(idStr)
	if err != nil || id <= 0 || id > maxID {
		return nil, fmt.Errorf("invalid id '%s'", idStr)
	}
	year, err := strconv.Atoi(yearStr)
	if err != nil {
		return nil, fmt.Errorf("invalid year '%s'", yearStr)
	}
	return &Book{
		ID:       id,
		Title:    getField(fields, fieldTitle),
		Author:   getField(fields, fieldAuthor),
		Year:     year,
		Borrowed: parseBorrowed(getField(fields, fieldBorrowed)),
	}, nil
}

// readLine reads a line, including the trailing newline.
// A line longer than maxLineLen is read to the end but not returned
// and tooLong is true.
func readLine(br *bufio.Reader) (line []byte, tooLong bool, err error) {
	for {
		var chunk []byte
		chunk, err = br.ReadSlice('\n')
		if !tooLong {
			if len(line)+len(chunk) > maxLineLen+1 {
				tooLong = true
				line = nil
			} else {
				line = append(line, chunk...)
			}
		}
		if err != bufio.ErrBufferFull {
			return line, tooLong, err
		}
	}
}

// parseBooks calls fn for every non-empty line in r with either
// parsed book or a parse error. lineNo is 1-based.
// Returns error only if reading from r fails.
func parseBooks(r io.Reader, fn func(lineNo int, b *Book, err error)) error {
	br := bufio.NewReaderSize(r, 64*1024)
	lineNo := 0
	for {
		line, tooLong, err := readLine(br)
		if err != nil && err != io.EOF {
			return fmt.Errorf("error reading line %d: %w", lineNo+1, err)
		}
		eof := err == io.EOF
		if eof && len(line) == 0 && !tooLong {
			return nil
		}
		lineNo++
		if tooLong {
			fn(lineNo, nil, fmt.Errorf("line longer than %d bytes", maxLineLen))
		} else if s := strings.TrimRight(string(line), "\r\n"); strings.TrimSpace(s) != "" {
			b, err := ParseLine(s)
			fn(lineNo, b, err)
		}
		if eof {
			return nil
		}
	}
}
