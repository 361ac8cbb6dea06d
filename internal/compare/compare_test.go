package compare

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ning0612/foldercrawler/internal/domain"
)

var (
	jan1 = time.Date(2024, 1, 1, 12, 0, 0, 0, time.Local)
	feb1 = time.Date(2024, 2, 1, 12, 0, 0, 0, time.Local)
	mar1 = time.Date(2024, 3, 1, 12, 0, 0, 0, time.Local)
)

func snap(entries ...domain.Entry) domain.Partition {
	return domain.NewPartition(domain.KindFiles, entries)
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "x.txt", FileName("/a/b/x.txt"))
	assert.Equal(t, "x.txt", FileName(`C:\a\b\x.txt`))
	assert.Equal(t, "x.txt", FileName("x.txt"))
	assert.Equal(t, "b", FileName("/a/b/"))
}

func TestCompare_SymmetricNewestWins(t *testing.T) {
	a := snap(domain.Resolved("/left/fileX", false, 10, jan1))
	b := snap(domain.Resolved("/right/fileX", false, 12, feb1))

	got := Compare(a, b, true)
	require.Len(t, got, 1)
	assert.Equal(t, "fileX", got[0].FileName)
	assert.Equal(t, "/right/fileX", got[0].Path)
	assert.True(t, got[0].changed().Equal(feb1))
}

func TestCompare_SymmetricDropsCommonRows(t *testing.T) {
	a := snap(
		domain.Resolved("/left/same.txt", false, 1, jan1),
		domain.Resolved("/left/only-left.txt", false, 1, feb1),
	)
	b := snap(
		domain.Resolved("/right/same.txt", false, 1, jan1),
		domain.Resolved("/right/only-right.txt", false, 1, mar1),
	)

	got := Compare(a, b, true)
	require.Len(t, got, 2)
	assert.Equal(t, "only-left.txt", got[0].FileName)
	assert.Equal(t, "only-right.txt", got[1].FileName)
}

func TestCompare_SymmetricIdentical(t *testing.T) {
	a := snap(domain.Resolved("/x/a", false, 1, jan1), domain.Resolved("/x/b", false, 1, feb1))
	assert.Empty(t, Compare(a, a, true))
}

func TestCompare_OneSided(t *testing.T) {
	a := snap(
		domain.Resolved("/left/same.txt", false, 1, jan1),
		domain.Resolved("/left/changed.txt", false, 1, feb1),
		domain.Resolved("/left/new.txt", false, 1, mar1),
	)
	b := snap(
		domain.Resolved("/right/same.txt", false, 1, jan1),
		domain.Resolved("/right/changed.txt", false, 1, jan1),
		domain.Resolved("/right/extra.txt", false, 1, jan1),
	)

	got := Compare(a, b, false)
	names := make([]string, len(got))
	for i, r := range got {
		names[i] = r.FileName
	}
	assert.Equal(t, []string{"changed.txt", "new.txt"}, names)
}

func TestCompare_OneSidedNoCollapse(t *testing.T) {
	a := snap(
		domain.Resolved("/l/dup.txt", false, 1, jan1),
		domain.Resolved("/l/sub/dup.txt", false, 1, feb1),
	)
	assert.Len(t, Compare(a, snap(), false), 2)
}

func TestMaterialize(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "/src/a/one.txt", []byte("one"), 0644))
	require.NoError(t, afero.WriteFile(fsys, "/src/b/two.txt", []byte("two"), 0644))
	dest := "/out/differences"
	require.NoError(t, afero.WriteFile(fsys, filepath.Join(dest, "stale.txt"), []byte("old"), 0644))

	recs := Compare(snap(
		domain.Resolved("/src/a/one.txt", false, 3, jan1),
		domain.Resolved("/src/b/two.txt", false, 3, feb1),
	), snap(), false)

	n, err := Materialize(fsys, recs, dest)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	data, err := afero.ReadFile(fsys, filepath.Join(dest, "one.txt"))
	require.NoError(t, err)
	assert.Equal(t, "one", string(data))

	stale, err := afero.Exists(fsys, filepath.Join(dest, "stale.txt"))
	require.NoError(t, err)
	assert.False(t, stale)
}

func TestMaterialize_MissingSourceIsFatal(t *testing.T) {
	fsys := afero.NewMemMapFs()
	recs := Compare(snap(domain.Resolved("/gone.txt", false, 1, jan1)), snap(), false)

	n, err := Materialize(fsys, recs, "/out")
	assert.Error(t, err)
	assert.Equal(t, 0, n)
}

func TestMaterialize_DestinationFailure(t *testing.T) {
	fsys := afero.NewReadOnlyFs(afero.NewMemMapFs())
	_, err := Materialize(fsys, nil, "/out")
	assert.True(t, errors.Is(err, domain.ErrDestination))
}

func TestUnified(t *testing.T) {
	a := snap(domain.Resolved("/l/a.txt", false, 1, jan1), domain.Resolved("/l/b.txt", false, 1, jan1))
	b := snap(domain.Resolved("/r/b.txt", false, 1, jan1), domain.Resolved("/r/a.txt", false, 1, feb1))

	out, err := Unified(a, b, "left", "right")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "--- left\n+++ right\n"))
	assert.Contains(t, out, "-a.txt\t2024-01-01 12:00:00.000000\n")
	assert.Contains(t, out, "+a.txt\t2024-02-01 12:00:00.000000\n")
}

func TestUnified_Identical(t *testing.T) {
	a := snap(domain.Resolved("/l/a.txt", false, 1, jan1))
	out, err := Unified(a, a, "left", "right")
	require.NoError(t, err)
	assert.Empty(t, out)
}
