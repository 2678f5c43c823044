package filerotate

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alecthomas/assert"
)

func TestDailyFileName(t *testing.T) {
	day := time.Date(2025, 1, 30, 23, 59, 0, 0, time.UTC)
	assert.Equal(t, "events-2025-01-30.txt", DailyFileName("events", day))
	assert.Equal(t, "2025-01-30.txt", DailyFileName("", day))
}

func TestDailyRotate(t *testing.T) {
	rotate := MakeDailyRotateInDir("logs", "log")
	day1 := time.Date(2025, 1, 30, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, "", rotate(day1, day1.Add(time.Hour)))
	assert.Equal(t, filepath.Join("logs", "log-2025-01-31.txt"), rotate(day1, day1.Add(24*time.Hour)))
	// same day of year but a different year
	assert.Equal(t, filepath.Join("logs", "log-2026-01-30.txt"), rotate(day1, day1.AddDate(1, 0, 0)))
}

func TestWriteAndClose(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")
	var closed []string
	didClose := func(path string, didRotate bool) {
		assert.False(t, didRotate)
		closed = append(closed, path)
	}
	f, err := NewDaily(dir, "log", didClose)
	assert.NoError(t, err)
	expPath := filepath.Join(dir, DailyFileName("log", time.Now()))
	assert.Equal(t, expPath, f.Path)

	_, err = f.Write([]byte("first\n"))
	assert.NoError(t, err)
	path, off, n, err := f.Write2([]byte("second\n"), true)
	assert.NoError(t, err)
	assert.Equal(t, expPath, path)
	assert.Equal(t, int64(6), off)
	assert.Equal(t, 7, n)

	assert.NoError(t, f.Close())
	assert.Equal(t, []string{expPath}, closed)

	// writing after Close re-opens and appends
	_, err = f.Write([]byte("third\n"))
	assert.NoError(t, err)
	assert.NoError(t, f.Close())

	d, err := os.ReadFile(expPath)
	assert.NoError(t, err)
	assert.Equal(t, "first\nsecond\nthird\n", string(d))
}
