package safeio

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// CleanUserPath cleans a user-provided path and rejects traversal attempts.
func CleanUserPath(p string) (string, error) {
	c := filepath.Clean(p)
	if strings.Contains(c, "..") {
		return "", errors.New("path traversal detected")
	}
	return c, nil
}

// IsText performs a heuristic check to determine if content is likely text.
// NUL bytes or invalid UTF-8 mark the content as binary.
func IsText(content []byte) bool {
	if len(content) == 0 {
		return true
	}
	if bytes.Contains(content, []byte{0}) {
		return false
	}
	return utf8.Valid(content)
}

// ReadTextFile reads path fully and rejects content that is not valid
// UTF-8 text, so callers never line-process binary data.
func ReadTextFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- path comes from user-requested roots
	if err != nil {
		return nil, err
	}
	if !IsText(data) {
		return nil, fmt.Errorf("%s: not valid UTF-8 text", path)
	}
	return data, nil
}

// WriteFilePreservePerms writes data to path preserving existing file mode when possible.
// When the file does not exist, it uses a sane default of 0644.
func WriteFilePreservePerms(path string, data []byte) error {
	var mode os.FileMode = 0o644
	if st, err := os.Stat(path); err == nil {
		mode = st.Mode() & 0o777
		if mode == 0 {
			mode = 0o644
		}
	}
	return os.WriteFile(path, data, mode)
}
