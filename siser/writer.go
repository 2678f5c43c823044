// Package siser frames blocks of data so that many of them can be appended
// to a single file and read back one by one.
//
// Each block is preceded by a header line:
//
//	--- ${size} ${timestamp_in_unix_epoch_ms} ${name}\n
//
// Timestamp and name are optional. For readability a newline is added
// after data that doesn't end with one.
package siser

import (
	"bytes"
	"io"
	"strconv"
	"sync"
	"time"
)

var hdrPrefix = []byte("--- ")

// Writer writes framed blocks of data
type Writer struct {
	w io.Writer
	// NoTimestamp disables writing timestamp, which
	// makes serialized data not depend on when they were written
	NoTimestamp bool

	writeBuf bytes.Buffer
	mu       sync.Mutex
}

// NewWriter creates a writer
func NewWriter(w io.Writer) *Writer {
	return &Writer{
		w: w,
	}
}

// Write writes a block of data with optional timestamp and name.
// Returns number of bytes written (length of d + length of header)
// and an error
func (w *Writer) Write(d []byte, t time.Time, name string) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	// most writes are small. if buffer gets big, don't keep it around
	if w.writeBuf.Cap() > 100*1024 && len(d) < 50*1024 {
		w.writeBuf = bytes.Buffer{}
	}

	if w.NoTimestamp {
		t = time.Time{}
	} else if t.IsZero() {
		t = time.Now()
	}

	d2 := MarshalLine(name, t, d, &w.writeBuf)
	return w.w.Write(d2)
}

// MarshalLine frames d. If t is zero time, timestamp is not written.
// wb is optional and re-used if given.
func MarshalLine(name string, t time.Time, d []byte, wb *bytes.Buffer) []byte {
	if wb == nil {
		wb = &bytes.Buffer{}
	} else {
		wb.Reset()
	}
	// it's ok to estimate more, estimating less will require an alloc
	wb.Grow(len(hdrPrefix) + len(name) + len(d) + 32)

	wb.Write(hdrPrefix)
	dataLen := len(d)
	wb.WriteString(strconv.Itoa(dataLen))
	if !t.IsZero() {
		wb.WriteByte(' ')
		wb.WriteString(strconv.FormatInt(TimeToUnixMillisecond(t), 10))
	}
	if name != "" {
		wb.WriteByte(' ')
		wb.WriteString(name)
	}
	wb.WriteByte('\n')
	if dataLen > 0 {
		wb.Write(d)
		if d[dataLen-1] != '\n' {
			wb.WriteByte('\n')
		}
	}
	return wb.Bytes()
}
