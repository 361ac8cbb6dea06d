package testutil

import (
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"
)

// CreateTestFile creates a file with the given content, making parent
// directories as needed. name may contain slashes.
func CreateTestFile(t *testing.T, dir, name string, content []byte) string {
	t.Helper()

	path := filepath.Join(dir, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("failed to create parent dir: %v", err)
	}
	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatalf("failed to create test file: %v", err)
	}

	return path
}

// CreateTestFileWithSize creates a file of exactly size random bytes
func CreateTestFileWithSize(t *testing.T, dir, name string, size int64) string {
	t.Helper()

	buf := make([]byte, size)
	rand.Read(buf)
	return CreateTestFile(t, dir, name, buf)
}

// CreateTree builds a directory tree under dir. Keys are slash-separated
// relative paths; a key ending in "/" is an empty directory, any other key
// is a file of the given size.
func CreateTree(t *testing.T, dir string, tree map[string]int64) {
	t.Helper()

	names := make([]string, 0, len(tree))
	for name := range tree {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if name[len(name)-1] == '/' {
			if err := os.MkdirAll(filepath.Join(dir, filepath.FromSlash(name)), 0755); err != nil {
				t.Fatalf("failed to create dir: %v", err)
			}
			continue
		}
		CreateTestFileWithSize(t, dir, name, tree[name])
	}
}

// SetModTime sets both access and modification time of path
func SetModTime(t *testing.T, path string, mod time.Time) {
	t.Helper()

	if err := os.Chtimes(path, mod, mod); err != nil {
		t.Fatalf("failed to set mod time: %v", err)
	}
}

// RandomString generates a random string of the given length
func RandomString(length int) string {
	const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	b := make([]byte, length)
	for i := range b {
		b[i] = charset[rand.Intn(len(charset))]
	}
	return string(b)
}
