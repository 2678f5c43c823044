package log

import (
	"bufio"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/kjk/booklib/filerotate"
	"github.com/kjk/booklib/siser"
)

var filePrefixes = []string{"log", "errors", "events"}

// EventFiles returns paths of event log files in dir, oldest first
func EventFiles(dir string) ([]string, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "events-*.txt"))
	if err != nil {
		return nil, err
	}
	// names are events-YYYY-MM-DD.txt so they sort by date
	sort.Strings(paths)
	return paths, nil
}

func readEventsFile(path string, fn func(*EventRecord) bool) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer f.Close()

	r := siser.NewReader(bufio.NewReader(f))
	for r.ReadNextData() {
		e := &EventRecord{
			Name: r.Name,
			Time: r.Timestamp,
			Data: append([]byte(nil), r.Data...),
		}
		if !fn(e) {
			return false, nil
		}
	}
	return true, r.Err()
}

// ReadEvents calls fn for every event logged in dir, oldest first.
// Stops when fn returns false.
func ReadEvents(dir string, fn func(*EventRecord) bool) error {
	paths, err := EventFiles(dir)
	if err != nil {
		return err
	}
	for _, path := range paths {
		more, err := readEventsFile(path, fn)
		if err != nil {
			return err
		}
		if !more {
			return nil
		}
	}
	return nil
}

// PastFiles returns paths of log files in dir from days before now.
// Those are no longer written to.
func PastFiles(dir string, now time.Time) ([]string, error) {
	var res []string
	for _, prefix := range filePrefixes {
		paths, err := filepath.Glob(filepath.Join(dir, prefix+"-*.txt"))
		if err != nil {
			return nil, err
		}
		current := filerotate.DailyFileName(prefix, now)
		for _, path := range paths {
			if filepath.Base(path) != current {
				res = append(res, path)
			}
		}
	}
	sort.Strings(res)
	return res, nil
}
