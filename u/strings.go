package u

import (
	"fmt"
	"os"
	"strings"
)

// NormalizeNewlinesInPlace changes CRLF (Windows) and
// CR (Mac) to LF (Unix)
// Optimized for speed, modifies data in place
func NormalizeNewlinesInPlace(d []byte) []byte {
	wi := 0
	n := len(d)
	for i := 0; i < n; i++ {
		c := d[i]
		// 13 is CR
		if c != 13 {
			d[wi] = c
			wi++
			continue
		}
		// replace CR (mac / win) with LF (unix)
		d[wi] = 10
		wi++
		if i < n-1 && d[i+1] == 10 {
			// this was CRLF, so skip the LF
			i++
		}
	}
	return d[:wi]
}

// NormalizeNewlines is like NormalizeNewlinesInPlace but
// makes a copy of data
func NormalizeNewlines(d []byte) []byte {
	d = append([]byte{}, d...)
	return NormalizeNewlinesInPlace(d)
}

// ParseEnv parses .env style KEY=VALUE lines.
// Empty lines and lines starting with # are skipped.
// Values can be wrapped in single or double quotes.
func ParseEnv(d []byte) (map[string]string, error) {
	d = NormalizeNewlines(d)
	lines := strings.Split(string(d), "\n")
	m := make(map[string]string)
	for i, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.TrimPrefix(line, "export ")
		key, val, ok := strings.Cut(line, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid line %d '%s' in .env", i+1, line)
		}
		val = strings.TrimSpace(val)
		if n := len(val); n >= 2 && (val[0] == '"' || val[0] == '\'') && val[n-1] == val[0] {
			val = val[1 : n-1]
		}
		m[key] = val
	}
	return m, nil
}

// LoadEnvFile reads .env file at path and sets variables that are
// not already set in the environment. Missing file is not an error.
// Returns names of variables that were set.
func LoadEnvFile(path string) ([]string, error) {
	d, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	m, err := ParseEnv(d)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	var set []string
	for k, v := range m {
		if _, exists := os.LookupEnv(k); exists {
			continue
		}
		if err = os.Setenv(k, v); err != nil {
			return set, err
		}
		set = append(set, k)
	}
	return set, nil
}

func ExpandTildeInPath(s string) string {
	if strings.HasPrefix(s, "~") {
		dir, err := os.UserHomeDir()
		Must(err)
		return dir + s[1:]
	}
	return s
}
