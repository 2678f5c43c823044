package u

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/assert"
)

const testCatalog = `1,C++ Primer,Collins Mahigi,2020,0
2,Effective C++,James Kipsoi,2021,1
`

func TestCompressRoundTrip(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.csv", "a.csv.gz", "a.csv.zst", "a.csv.br"} {
		path := filepath.Join(dir, name)
		err := WriteFileMaybeCompressed(path, []byte(testCatalog))
		assert.NoError(t, err, name)
		d, err := ReadFileMaybeCompressed(path)
		assert.NoError(t, err, name)
		assert.Equal(t, testCatalog, string(d), name)
	}
}

func TestCompressDataForPath(t *testing.T) {
	d := []byte(testCatalog)
	got, err := CompressDataForPath("backup.csv", d)
	assert.NoError(t, err)
	assert.Equal(t, d, got)

	got, err = CompressDataForPath("backup.csv.br", d)
	assert.NoError(t, err)
	d2, err := BrDecompressData(got)
	assert.NoError(t, err)
	assert.Equal(t, d, d2)

	got, err = CompressDataForPath("backup.csv.ZST", d)
	assert.NoError(t, err)
	assert.NotEqual(t, d, got)
	path := filepath.Join(t.TempDir(), "backup.csv.zst")
	err = os.WriteFile(path, got, 0644)
	assert.NoError(t, err)
	d2, err = ReadFileMaybeCompressed(path)
	assert.NoError(t, err)
	assert.Equal(t, d, d2)
}
