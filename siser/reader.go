package siser

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strconv"
	"time"
)

// Reader reads blocks written by Writer
type Reader struct {
	r *bufio.Reader

	// hints that the data was written without a timestamp
	// (see Writer.NoTimestamp). We're permissive i.e. we'll
	// read timestamp if it's written even if NoTimestamp is true
	NoTimestamp bool

	// Data / Name / Timestamp are available after ReadNextData.
	// They are over-written in next ReadNextData.
	Data      []byte
	Name      string
	Timestamp time.Time

	// position of the current and next block within the reader
	CurrRecordPos int64
	NextRecordPos int64

	err error
	// true if reached end of file with io.EOF
	done bool
}

// NewReader creates a new reader
func NewReader(r *bufio.Reader) *Reader {
	return &Reader{
		r: r,
	}
}

// Done returns true if we're finished reading from the reader
func (r *Reader) Done() bool {
	return r.err != nil || r.done
}

// Err returns error from last read. io.EOF is swallowed.
func (r *Reader) Err() error {
	return r.err
}

func (r *Reader) fail(hdr []byte) bool {
	r.err = fmt.Errorf("unexpected header '%s' at offset %d", string(bytes.TrimSpace(hdr)), r.CurrRecordPos)
	return false
}

// ReadNextData reads next block, returns false when there are no more.
// If it returns false, check Err() to see if there were errors.
func (r *Reader) ReadNextData() bool {
	if r.Done() {
		return false
	}
	r.Name = ""
	r.Timestamp = time.Time{}
	r.CurrRecordPos = r.NextRecordPos

	hdr, err := r.r.ReadBytes('\n')
	if err != nil {
		if err == io.EOF && len(hdr) == 0 {
			r.done = true
		} else if err == io.EOF {
			// truncated header, most likely a partial write
			r.err = fmt.Errorf("truncated header '%s' at offset %d", string(hdr), r.CurrRecordPos)
		} else {
			r.err = err
		}
		return false
	}
	recSize := len(hdr)

	// for backwards compatibility, "--- " prefix is optional
	rest := bytes.TrimPrefix(hdr, hdrPrefix)
	rest = rest[:len(rest)-1]

	var dataSize, timestamp, name []byte
	dataSize, rest, _ = bytes.Cut(rest, []byte{' '})
	if len(rest) > 0 {
		if r.NoTimestamp {
			name = rest
		} else {
			timestamp, name, _ = bytes.Cut(rest, []byte{' '})
		}
	} else if !r.NoTimestamp {
		return r.fail(hdr)
	}

	size, err := strconv.ParseInt(string(dataSize), 10, 64)
	if err != nil || size < 0 {
		return r.fail(hdr)
	}
	if len(timestamp) > 0 {
		timeMs, err := strconv.ParseInt(string(timestamp), 10, 64)
		if err != nil {
			return r.fail(hdr)
		}
		r.Timestamp = TimeFromUnixMillisecond(timeMs)
	}
	r.Name = string(name)

	// re-use r.Data as long as it doesn't grow above 1 MB
	if cap(r.Data) > 1024*1024 {
		r.Data = nil
	}
	if size > int64(cap(r.Data)) {
		r.Data = make([]byte, size)
	} else {
		r.Data = r.Data[:size]
	}
	n, err := io.ReadFull(r.r, r.Data)
	if err != nil {
		r.err = err
		return false
	}
	panicIf(n != len(r.Data), "short read")
	recSize += n

	// Writer pads data that doesn't end with '\n'
	if n > 0 && r.Data[n-1] != '\n' {
		if _, err = r.r.Discard(1); err != nil {
			r.err = err
			return false
		}
		recSize++
	}
	r.NextRecordPos += int64(recSize)
	return true
}
