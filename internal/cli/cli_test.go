package cli

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ning0612/foldercrawler/internal/testutil"
)

type env struct {
	config  string
	storage string
}

func newEnv(t *testing.T) env {
	t.Helper()

	storage := filepath.Join(t.TempDir(), "saved")
	cfg := fmt.Sprintf(`
storage:
  root: %q
  differences: %q
history:
  enabled: true
log:
  level: error
`, storage, filepath.Join(storage, "differences"))

	path := testutil.CreateTestFile(t, t.TempDir(), "config.yaml", []byte(cfg))
	return env{config: path, storage: storage}
}

func (e env) run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	err := run(append([]string{"--config", e.config}, args...), &out)
	return out.String(), err
}

func TestCrawl_PrintsFilesAndTotal(t *testing.T) {
	e := newEnv(t)
	root := t.TempDir()
	testutil.CreateTree(t, root, map[string]int64{
		"a.txt":     100,
		"sub/b.txt": 200,
		"empty/":    0,
	})

	out, err := e.run(t, "crawl", root)
	require.NoError(t, err)

	assert.Contains(t, out, "FILES")
	assert.Contains(t, out, filepath.Join(root, "a.txt"))
	assert.Contains(t, out, filepath.Join(root, "sub", "b.txt"))
	assert.Contains(t, out, "2 items, total 300 B (300 bytes)")
	assert.Contains(t, out, "THE WHOLE PROCESS TOOK:")
	assert.NotContains(t, out, "FOLDERS")

	assert.FileExists(t, filepath.Join(e.storage, "files.txt"))
	assert.FileExists(t, filepath.Join(e.storage, "folders.txt"))
	assert.FileExists(t, filepath.Join(e.storage, "skipped_items.txt"))
}

func TestCrawl_ShallowFoldersShowTotal(t *testing.T) {
	e := newEnv(t)
	root := t.TempDir()
	testutil.CreateTree(t, root, map[string]int64{
		"top.txt":   10,
		"sub/x.txt": 40,
	})

	out, err := e.run(t, "crawl", root, "--shallow", "--folders")
	require.NoError(t, err)

	assert.Contains(t, out, "FOLDERS")
	assert.Contains(t, out, "1 items, total 40 B (40 bytes)")
	assert.NotContains(t, out, "x.txt")
}

func TestCrawl_RootNotFound(t *testing.T) {
	e := newEnv(t)

	_, err := e.run(t, "crawl", filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}

func TestCrawl_InvalidSign(t *testing.T) {
	e := newEnv(t)

	_, err := e.run(t, "crawl", t.TempDir(), "--fsizesgn", "<")
	assert.Error(t, err)
}

func TestShow_FiltersSavedSnapshot(t *testing.T) {
	e := newEnv(t)
	root := t.TempDir()
	testutil.CreateTree(t, root, map[string]int64{
		"Small.txt": 10,
		"big.bin":   5000,
		"sub/":      0,
	})

	_, err := e.run(t, "crawl", root)
	require.NoError(t, err)

	out, err := e.run(t, "show", "--fsize", "1024")
	require.NoError(t, err)
	assert.Contains(t, out, "big.bin")
	assert.NotContains(t, out, "Small.txt")

	out, err = e.run(t, "show", "--fpath", "small")
	require.NoError(t, err)
	assert.Contains(t, out, "Small.txt")
	assert.NotContains(t, out, "big.bin")

	out, err = e.run(t, "show", "--folders")
	require.NoError(t, err)
	assert.Contains(t, out, filepath.Join(root, "sub"))
	assert.Contains(t, out, "1 items\n")
}

func TestShow_DateFilter(t *testing.T) {
	e := newEnv(t)
	root := t.TempDir()
	old := testutil.CreateTestFile(t, root, "old.txt", []byte("o"))
	testutil.SetModTime(t, old, time.Date(2001, 5, 1, 0, 0, 0, 0, time.Local))
	testutil.CreateTestFile(t, root, "new.txt", []byte("n"))

	_, err := e.run(t, "crawl", root)
	require.NoError(t, err)

	out, err := e.run(t, "show", "--fchanged", "2010", "--fchangedsgn", "<=")
	require.NoError(t, err)
	assert.Contains(t, out, "old.txt")
	assert.NotContains(t, out, "new.txt")

	_, err = e.run(t, "show", "--fchanged", "not a date")
	assert.Error(t, err)
}

func TestCompare_ListsAndCopiesDifferences(t *testing.T) {
	e := newEnv(t)
	snapshots := t.TempDir()

	rootA := t.TempDir()
	testutil.CreateTree(t, rootA, map[string]int64{"same.txt": 1, "only_a.txt": 2})
	rootB := t.TempDir()
	testutil.CreateTree(t, rootB, map[string]int64{"only_b.txt": 3})
	same := time.Date(2020, 1, 1, 12, 0, 0, 0, time.Local)
	testutil.SetModTime(t, filepath.Join(rootA, "same.txt"), same)
	testutil.CreateTestFile(t, rootB, "same.txt", []byte("x"))
	testutil.SetModTime(t, filepath.Join(rootB, "same.txt"), same)

	snapshot := func(root, name string) string {
		_, err := e.run(t, "crawl", root)
		require.NoError(t, err)
		data, err := os.ReadFile(filepath.Join(e.storage, "files.txt"))
		require.NoError(t, err)
		return testutil.CreateTestFile(t, snapshots, name, data)
	}
	a := snapshot(rootA, "a.txt")
	b := snapshot(rootB, "b.txt")

	dest := filepath.Join(t.TempDir(), "diff")
	out, err := e.run(t, "compare", a, b, "--copy-to", dest)
	require.NoError(t, err)
	assert.Contains(t, out, "only_a.txt")
	assert.Contains(t, out, "only_b.txt")
	assert.NotContains(t, out, "same.txt")
	assert.Contains(t, out, "Number of files copied to '"+dest+"': 2")
	assert.FileExists(t, filepath.Join(dest, "only_a.txt"))
	assert.FileExists(t, filepath.Join(dest, "only_b.txt"))

	out, err = e.run(t, "compare", a, b, "--one-sided")
	require.NoError(t, err)
	assert.Contains(t, out, "only_a.txt")
	assert.NotContains(t, out, "only_b.txt")

	out, err = e.run(t, "compare", a, b, "--unified")
	require.NoError(t, err)
	assert.Contains(t, out, "-only_a.txt")
	assert.Contains(t, out, "+only_b.txt")
}

func TestCompare_MissingSnapshot(t *testing.T) {
	e := newEnv(t)

	_, err := e.run(t, "compare", filepath.Join(t.TempDir(), "a.txt"), filepath.Join(t.TempDir(), "b.txt"))
	assert.Error(t, err)
}

func TestGrep_PrintsMatchingRows(t *testing.T) {
	e := newEnv(t)
	root := t.TempDir()
	testutil.CreateTestFile(t, root, "notes.txt", []byte("first line\nHello World\nlast\n"))
	testutil.CreateTestFile(t, root, "data.bin", []byte("hello world"))

	_, err := e.run(t, "crawl", root)
	require.NoError(t, err)

	out, err := e.run(t, "grep", "hello")
	require.NoError(t, err)
	assert.Contains(t, out, filepath.Join(root, "notes.txt"))
	assert.Contains(t, out, "Row 2: Hello World")
	assert.NotContains(t, out, "data.bin")
}

func TestHistory_ListsRuns(t *testing.T) {
	e := newEnv(t)
	root := t.TempDir()
	testutil.CreateTree(t, root, map[string]int64{"a.txt": 1})

	_, err := e.run(t, "crawl", root)
	require.NoError(t, err)
	_, err = e.run(t, "crawl", root, "--shallow")
	require.NoError(t, err)

	out, err := e.run(t, "history")
	require.NoError(t, err)
	assert.Contains(t, out, "deep")
	assert.Contains(t, out, "shallow")
	assert.Contains(t, out, "success")
	assert.Contains(t, out, "(2 rows)")
}

func TestConfig_MissingFile(t *testing.T) {
	var out bytes.Buffer
	err := run([]string{"--config", filepath.Join(t.TempDir(), "nope.yaml"), "history"}, &out)
	assert.Error(t, err)
}

func TestLogLevelOverride_Invalid(t *testing.T) {
	e := newEnv(t)

	_, err := e.run(t, "--log-level", "loud", "history")
	assert.Error(t, err)
}

func TestShow_BeforeAnyCrawl(t *testing.T) {
	e := newEnv(t)

	out, err := e.run(t, "show", "--files", "--folders", "--skipped")
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.FileExists(t, filepath.Join(e.storage, "files.txt"))
}
