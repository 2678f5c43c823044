package siserlogger

import (
	"bufio"
	"os"
	"testing"

	"github.com/alecthomas/assert"
	"github.com/kjk/booklib/siser"
)

func TestWriteDaily(t *testing.T) {
	l, err := NewDaily(t.TempDir(), "events", nil)
	assert.NoError(t, err)
	assert.NoError(t, l.Write([]byte("id: 1")))
	assert.NoError(t, l.WriteNamed("book.borrow", []byte("id: 1\n")))
	path := l.Path()
	assert.NoError(t, l.Close())
	// writes after Close are dropped
	assert.NoError(t, l.Write([]byte("dropped")))

	f, err := os.Open(path)
	assert.NoError(t, err)
	defer f.Close()
	r := siser.NewReader(bufio.NewReader(f))
	var names, data []string
	for r.ReadNextData() {
		names = append(names, r.Name)
		data = append(data, string(r.Data))
	}
	assert.NoError(t, r.Err())
	assert.Equal(t, []string{"events", "book.borrow"}, names)
	assert.Equal(t, []string{"id: 1", "id: 1\n"}, data)
}

func TestNilFile(t *testing.T) {
	var l *File
	assert.NoError(t, l.Write([]byte("x")))
	assert.NoError(t, l.Close())
	assert.Equal(t, "", l.Path())
}
