package replica

import (
	"bytes"
	"io"
	"os"
	"strings"
)

const (
	// MinFileSize is the smallest accepted database file.
	MinFileSize = 100
	// Header is the 16-byte signature opening every SQLite 3 database file.
	Header = "SQLite format 3\x00"
)

// sidecarSuffixes mark files SQLite keeps next to a database.
var sidecarSuffixes = []string{"-wal", "-shm", "-journal"}

// isCandidate reports whether a directory entry should be considered a
// replica at all. Hidden files (partial downloads) and SQLite sidecar files
// are ignored without error.
func isCandidate(name string) bool {
	if strings.HasPrefix(name, ".") {
		return false
	}
	for _, suffix := range sidecarSuffixes {
		if strings.HasSuffix(name, suffix) {
			return false
		}
	}
	return true
}

// validate checks size and header of the file at path.
func validate(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return &ValidationError{Path: path, Reason: err.Error()}
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return &ValidationError{Path: path, Reason: err.Error()}
	}
	if !info.Mode().IsRegular() {
		return &ValidationError{Path: path, Reason: "not a regular file"}
	}
	if info.Size() < MinFileSize {
		return &ValidationError{Path: path, Reason: "file too small"}
	}
	header := make([]byte, len(Header))
	if _, err := io.ReadFull(f, header); err != nil {
		return &ValidationError{Path: path, Reason: err.Error()}
	}
	if !bytes.Equal(header, []byte(Header)) {
		return &ValidationError{Path: path, Reason: "missing SQLite header"}
	}
	return nil
}

// IsDatabaseFile reports whether path is at least MinFileSize bytes long
// and starts with the SQLite header.
func IsDatabaseFile(path string) bool {
	return validate(path) == nil
}
