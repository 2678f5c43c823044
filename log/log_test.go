package log

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alecthomas/assert"
	"github.com/kjk/booklib/filerotate"
)

func captureConsole(t *testing.T) *bytes.Buffer {
	var buf bytes.Buffer
	prev := Console
	Console = &buf
	t.Cleanup(func() {
		Close()
		Console = prev
		Verbose = false
	})
	return &buf
}

func TestLogToFiles(t *testing.T) {
	console := captureConsole(t)
	dir := t.TempDir()
	var onLogMsgs []string
	err := Init(&Config{
		Dir:   dir,
		OnLog: func(s string) { onLogMsgs = append(onLogMsgs, s) },
	})
	assert.NoError(t, err)
	assert.Equal(t, dir, Dir())

	Logf("opened %d books", 2)
	Verbosef("not logged")
	Verbose = true
	Verbosef("loaded line %d", 3)
	Warnf("skipping line %d", 4)
	Errorf("save failed")
	Event("book.add", "id", 1, "title", "Dune")
	Close()
	assert.Equal(t, "", Dir())

	out := console.String()
	assert.True(t, strings.Contains(out, "opened 2 books\n"), out)
	assert.False(t, strings.Contains(out, "not logged"), out)
	assert.True(t, strings.Contains(out, "debug: loaded line 3\n"), out)
	assert.True(t, strings.Contains(out, "warning: skipping line 4\n"), out)
	assert.True(t, strings.Contains(out, "error: save failed\n"), out)
	// callstack only goes to files
	assert.False(t, strings.Contains(out, "log_test.go"), out)
	assert.Equal(t, 5, len(onLogMsgs))

	now := time.Now()
	d, err := os.ReadFile(filepath.Join(dir, filerotate.DailyFileName("log", now)))
	assert.NoError(t, err)
	s := string(d)
	assert.True(t, strings.HasPrefix(s, "opened 2 books\n"), s)
	assert.True(t, strings.Contains(s, "log_test.go"), s)

	d, err = os.ReadFile(filepath.Join(dir, filerotate.DailyFileName("errors", now)))
	assert.NoError(t, err)
	assert.True(t, strings.Contains(string(d), "error: save failed"))

	var events []*EventRecord
	err = ReadEvents(dir, func(e *EventRecord) bool {
		events = append(events, e)
		return true
	})
	assert.NoError(t, err)
	assert.Equal(t, 1, len(events))
	e := events[0]
	assert.Equal(t, "book.add", e.Name)
	assert.False(t, e.Time.IsZero())
	summary := e.Summary()
	assert.False(t, strings.Contains(summary, "\n"), summary)
	assert.True(t, strings.Contains(summary, "Dune"), summary)
	assert.True(t, strings.Contains(summary, "id"), summary)
}

func TestLogWithoutInit(t *testing.T) {
	console := captureConsole(t)
	Logf("no files")
	Event("book.remove", "id", 7)
	assert.Equal(t, "no files\n", console.String())
}

func TestEventOddValsPanics(t *testing.T) {
	captureConsole(t)
	defer func() {
		assert.NotNil(t, recover())
	}()
	Event("book.add", "id")
}

func TestIfErrf(t *testing.T) {
	console := captureConsole(t)
	assert.False(t, IfErrf(nil))
	assert.True(t, IfErrf(errors.New("disk full")))
	assert.True(t, IfErrf(errors.New("disk full"), "saving '%s' failed", "library.csv"))
	out := console.String()
	assert.True(t, strings.Contains(out, "error: disk full\n"), out)
	assert.True(t, strings.Contains(out, "error: saving 'library.csv' failed\n"), out)
}

// firstFrame returns the first frame of the callstack logged with an error
func firstFrame(t *testing.T, full string) string {
	t.Helper()
	lines := strings.Split(full, "\n")
	assert.True(t, len(lines) > 1, full)
	return lines[1]
}

func TestErrorCallstackStartsAtCaller(t *testing.T) {
	captureConsole(t)
	var msgs []string
	err := Init(&Config{
		OnLog: func(s string) { msgs = append(msgs, s) },
	})
	assert.NoError(t, err)

	Errorf("direct")
	Default.Errorf("through %s", "Logger")
	assert.Equal(t, 2, len(msgs))
	assert.True(t, strings.HasPrefix(msgs[1], "error: through Logger\n"), msgs[1])
	for _, msg := range msgs {
		frame := firstFrame(t, msg)
		assert.True(t, strings.Contains(frame, "log_test.go"), frame)
	}
}

func TestReadEventsStops(t *testing.T) {
	captureConsole(t)
	dir := t.TempDir()
	assert.NoError(t, Init(&Config{Dir: dir}))
	for i := 0; i < 3; i++ {
		Event("book.borrow", "id", i)
	}
	Close()

	n := 0
	err := ReadEvents(dir, func(e *EventRecord) bool {
		n++
		return false
	})
	assert.NoError(t, err)
	assert.Equal(t, 1, n)

	// no events at all is not an error
	err = ReadEvents(t.TempDir(), func(e *EventRecord) bool {
		t.Fatalf("unexpected event %s", e.Name)
		return true
	})
	assert.NoError(t, err)
}

func TestPastFiles(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2025, 10, 6, 12, 0, 0, 0, time.Local)
	names := []string{
		"log-2025-10-05.txt",
		"log-2025-10-06.txt",
		"events-2025-10-04.txt",
		"events-2025-10-06.txt",
		"errors-2025-10-06.txt",
		"library.csv",
	}
	for _, name := range names {
		err := os.WriteFile(filepath.Join(dir, name), nil, 0644)
		assert.NoError(t, err)
	}
	paths, err := PastFiles(dir, now)
	assert.NoError(t, err)
	exp := []string{
		filepath.Join(dir, "events-2025-10-04.txt"),
		filepath.Join(dir, "log-2025-10-05.txt"),
	}
	assert.Equal(t, exp, paths)
}

func TestRemote(t *testing.T) {
	captureConsole(t)
	var mu sync.Mutex
	var paths []string
	var keys []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		paths = append(paths, r.Method+" "+r.URL.Path)
		keys = append(keys, r.Header.Get("X-Api-Key"))
		mu.Unlock()
	}))
	defer srv.Close()

	err := Init(&Config{
		Server: strings.TrimPrefix(srv.URL, "http://"),
		ApiKey: "secret",
	})
	assert.NoError(t, err)
	Logf("hello")
	Event("book.return", "id", 2)
	// Close waits until queued logs are sent
	Close()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"POST /api/v1/log", "POST /api/v1/event"}, paths)
	assert.Equal(t, []string{"secret", "secret"}, keys)
}
