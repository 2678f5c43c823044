package u

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/assert"
)

func TestParseEnv(t *testing.T) {
	d := []byte("# comment\r\nBOOKLIB_S3_BUCKET=books\r\n\r\nexport BOOKLIB_S3_REGION = \"eu-central\"\nEMPTY=\nQUOTED='a=b'\n")
	m, err := ParseEnv(d)
	assert.NoError(t, err)
	assert.Equal(t, map[string]string{
		"BOOKLIB_S3_BUCKET": "books",
		"BOOKLIB_S3_REGION": "eu-central",
		"EMPTY":             "",
		"QUOTED":            "a=b",
	}, m)

	_, err = ParseEnv([]byte("NOEQUALS\n"))
	assert.Error(t, err)
	_, err = ParseEnv([]byte("=value\n"))
	assert.Error(t, err)
}

func TestLoadEnvFile(t *testing.T) {
	set, err := LoadEnvFile(filepath.Join(t.TempDir(), "missing.env"))
	assert.NoError(t, err)
	assert.Equal(t, 0, len(set))

	path := filepath.Join(t.TempDir(), ".env")
	err = os.WriteFile(path, []byte("BOOKLIB_TEST_FROM_FILE=file\nBOOKLIB_TEST_PRESET=file\n"), 0644)
	assert.NoError(t, err)
	t.Setenv("BOOKLIB_TEST_PRESET", "env")
	t.Setenv("BOOKLIB_TEST_FROM_FILE", "")
	os.Unsetenv("BOOKLIB_TEST_FROM_FILE")

	set, err = LoadEnvFile(path)
	assert.NoError(t, err)
	assert.Equal(t, []string{"BOOKLIB_TEST_FROM_FILE"}, set)
	assert.Equal(t, "file", os.Getenv("BOOKLIB_TEST_FROM_FILE"))
	// real environment wins over .env
	assert.Equal(t, "env", os.Getenv("BOOKLIB_TEST_PRESET"))
}
