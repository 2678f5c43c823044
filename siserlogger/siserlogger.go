// Package siserlogger writes siser-framed records to a daily rotated file
package siserlogger

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/kjk/booklib/filerotate"
	"github.com/kjk/booklib/siser"
)

type File struct {
	siser *siser.Writer
	file  *filerotate.File
	mu    sync.Mutex
	// RecName is the default record name used by Write
	RecName string
}

// NewDaily creates a logger writing to ${dir}/${name}-YYYY-MM-DD.txt
func NewDaily(dir string, name string, didRotateFn func(path string)) (*File, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	res := &File{
		RecName: name,
	}

	didClose := func(path string, didRotate bool) {
		if didRotate && didRotateFn != nil {
			didRotateFn(path)
		}
	}

	res.file, err = filerotate.NewDaily(absDir, name, didClose)
	if err != nil {
		return nil, err
	}
	res.siser = siser.NewWriter(res.file)
	return res, nil
}

// Write writes d as a record named RecName
// it's safe to call on nil receiver
func (l *File) Write(d []byte) error {
	if l == nil {
		return nil
	}
	return l.WriteNamed(l.RecName, d)
}

// WriteNamed writes d as a record with a given name
// it's safe to call on nil receiver
func (l *File) WriteNamed(name string, d []byte) error {
	if l == nil {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.siser == nil {
		return nil
	}
	_, err := l.siser.Write(d, time.Now(), name)
	return err
}

// Path returns path of the current file
func (l *File) Path() string {
	if l == nil {
		return ""
	}
	l.file.Lock()
	defer l.file.Unlock()
	return l.file.Path
}

// Close closes the file, it's safe to call on nil receiver
func (l *File) Close() error {
	if l == nil {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.siser == nil {
		return nil
	}
	l.siser = nil
	return l.file.Close()
}
