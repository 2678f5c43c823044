package atomicfile

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// Some references:
// - https://www.slideshare.net/nan1nan1/eat-my-data
// - https://lwn.net/Articles/457667/

const defaultPerm fs.FileMode = 0644

var (
	// ErrCancelled is returned by calls subsequent to RemoveIfNotClosed()
	ErrCancelled = errors.New("cancelled")

	_ io.WriteCloser  = &File{}
	_ io.StringWriter = &File{}
)

// File writes to a temporary file in the destination directory
// and renames it over the destination on a successful Close.
// Readers of the destination never see a partially written file.
type File struct {
	dstPath string
	dir     string
	tmpFile *os.File
	err     error

	tmpPath string
}

// New creates a File that will replace path on Close.
// The file gets the permissions of the file it replaces
// or 0644 if path doesn't exist yet.
func New(path string) (*File, error) {
	dir, fName := filepath.Split(path)
	dir, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	if fName == "" {
		return nil, &os.PathError{Op: "open", Path: path, Err: os.ErrInvalid}
	}

	perm := defaultPerm
	if st, err := os.Stat(path); err == nil {
		perm = st.Mode().Perm()
	}

	tmpFile, err := os.CreateTemp(dir, fName+".tmp-*")
	if err != nil {
		return nil, err
	}
	// CreateTemp uses 0600
	if err = tmpFile.Chmod(perm); err != nil {
		_ = tmpFile.Close()
		_ = os.Remove(tmpFile.Name())
		return nil, err
	}

	return &File{
		dstPath: path,
		dir:     dir,
		tmpFile: tmpFile,
		tmpPath: tmpFile.Name(),
	}, nil
}

// WriteFile is like os.WriteFile but atomic
func WriteFile(path string, data []byte) error {
	f, err := New(path)
	if err != nil {
		return err
	}
	// calling Close() twice is a no-op
	defer f.RemoveIfNotClosed()
	if _, err = f.Write(data); err != nil {
		return err
	}
	return f.Close()
}

func (f *File) handleError(err error) error {
	if err == nil {
		return nil
	}
	// remember the first error
	if f.err == nil {
		f.err = err
	}
	_ = f.Close()
	return err
}

// Write writes data to the temporary file
func (f *File) Write(d []byte) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	n, err := f.tmpFile.Write(d)
	return n, f.handleError(err)
}

func (f *File) WriteString(s string) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	n, err := f.tmpFile.WriteString(s)
	return n, f.handleError(err)
}

func (f *File) alreadyClosed() bool {
	return f.tmpFile == nil
}

// RemoveIfNotClosed removes the temp file if we didn't Close
// the file yet. Destination file is left untouched.
// Use it with defer to clean up after an early return or a panic.
// RemoveIfNotClosed after Close is a no-op.
func (f *File) RemoveIfNotClosed() {
	if f == nil || f.alreadyClosed() {
		return
	}
	f.err = ErrCancelled
	_ = f.Close()
}

// Close syncs the temporary file and renames it to the destination.
// Can be called multiple times, returns the first error.
func (f *File) Close() error {
	if f.alreadyClosed() {
		return f.err
	}
	tmpFile := f.tmpFile
	f.tmpFile = nil

	// https://www.joeshaw.org/dont-defer-close-on-writable-files/
	errSync := tmpFile.Sync()
	errClose := tmpFile.Close()

	didRename := false
	defer func() {
		if !didRename {
			_ = os.Remove(f.tmpPath)
		}
	}()

	if f.err != nil {
		return f.err
	}

	err := errSync
	if err == nil {
		err = errClose
	}
	if err == nil {
		err = os.Rename(f.tmpPath, f.dstPath)
		didRename = (err == nil)
		// sync directory so that the rename survives a crash
		fdir, _ := os.Open(f.dir)
		if fdir != nil {
			_ = fdir.Sync()
			_ = fdir.Close()
		}
	}

	f.err = err
	return f.err
}
