package store

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ning0612/foldercrawler/internal/domain"
)

func newMemStore() *Store {
	return New("saved_crawls", WithFs(afero.NewMemMapFs()))
}

func sampleTime() time.Time {
	return time.Date(2024, 3, 15, 9, 30, 12, 123456000, time.Local)
}

func TestStore_SaveLoadRoundTrip(t *testing.T) {
	s := newMemStore()
	mod := sampleTime()

	files := domain.NewPartition(domain.KindFiles, []domain.Entry{
		domain.Resolved("/data/a.txt", false, 37, mod),
		domain.Resolved("/data/sub/b, with comma.txt", false, 1536, mod.Add(time.Hour)),
	})
	require.NoError(t, s.Save(files))

	got, err := s.Load(domain.KindFiles, domain.Partition{})
	require.NoError(t, err)
	require.Equal(t, 2, got.Len())
	assert.Equal(t, domain.KindFiles, got.Kind)

	for i, e := range got.Entries {
		want := files.Entries[i]
		assert.Equal(t, want.Path, e.Path)
		size, ok := e.Size()
		require.True(t, ok)
		assert.Equal(t, want.Props.Size, size)
		assert.True(t, want.Props.ModTime.Equal(e.Props.ModTime))
	}
}

func TestStore_SaveReplacesPreviousContent(t *testing.T) {
	s := newMemStore()
	mod := sampleTime()

	require.NoError(t, s.Save(domain.NewPartition(domain.KindFiles, []domain.Entry{
		domain.Resolved("/old/1", false, 1, mod),
		domain.Resolved("/old/2", false, 2, mod),
	})))
	require.NoError(t, s.Save(domain.NewPartition(domain.KindFiles, []domain.Entry{
		domain.Resolved("/new/1", false, 3, mod),
	})))

	got, err := s.Load(domain.KindFiles, domain.Partition{})
	require.NoError(t, err)
	assert.Equal(t, []string{"/new/1"}, got.Paths())
}

func TestStore_SkippedRowsHaveEmptyCells(t *testing.T) {
	s := newMemStore()
	require.NoError(t, s.Save(domain.NewPartition(domain.KindSkipped, []domain.Entry{
		domain.Unresolved("/data/locked", true),
	})))

	raw, err := afero.ReadFile(s.Fs(), s.Path(domain.KindSkipped))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "Path,Changed,Size readable,Size bytes", lines[0])
	assert.Equal(t, "/data/locked,,,", lines[1])

	got, err := s.Load(domain.KindSkipped, domain.Partition{})
	require.NoError(t, err)
	require.Equal(t, 1, got.Len())
	assert.False(t, got.Entries[0].IsResolved())
}

func TestStore_LoadReturnsCurrentWhenNonEmpty(t *testing.T) {
	s := newMemStore()
	current := domain.NewPartition(domain.KindFiles, []domain.Entry{
		domain.Resolved("/in/memory", false, 5, sampleTime()),
	})

	// Nothing persisted: a read would fail, so success proves no read happened.
	got, err := s.Load(domain.KindFiles, current)
	require.NoError(t, err)
	assert.Equal(t, current, got)
}

func TestStore_LoadMissingFile(t *testing.T) {
	s := newMemStore()
	_, err := s.Load(domain.KindFolders, domain.Partition{})
	require.Error(t, err)
	assert.Equal(t, 1, strings.Count(err.Error(), s.Path(domain.KindFolders)), err.Error())
}

func TestStore_InitCreatesEmptyPartitions(t *testing.T) {
	s := newMemStore()
	require.NoError(t, s.Init())

	inv, err := s.LoadAll(domain.NewInventory())
	require.NoError(t, err)
	assert.Equal(t, 0, inv.Total())
	for _, kind := range domain.Kinds() {
		exists, err := afero.Exists(s.Fs(), s.Path(kind))
		require.NoError(t, err)
		assert.True(t, exists, kind)
	}
}

func TestStore_InitKeepsExistingFiles(t *testing.T) {
	s := newMemStore()
	require.NoError(t, s.Save(domain.NewPartition(domain.KindFiles, []domain.Entry{
		domain.Resolved("/keep", false, 1, sampleTime()),
	})))
	require.NoError(t, s.Init())

	got, err := s.Load(domain.KindFiles, domain.Partition{})
	require.NoError(t, err)
	assert.Equal(t, 1, got.Len())
}

func TestStore_SaveAllLoadAll(t *testing.T) {
	s := newMemStore()
	mod := sampleTime()
	inv := domain.NewInventory()
	inv.Set(domain.NewPartition(domain.KindFiles, []domain.Entry{domain.Resolved("/r/a.txt", false, 37, mod)}))
	inv.Set(domain.NewPartition(domain.KindFolders, []domain.Entry{domain.Resolved("/r/sub", true, 37, mod)}))
	inv.Set(domain.NewPartition(domain.KindSkipped, []domain.Entry{domain.Unresolved("/r/gone", false)}))
	require.NoError(t, s.SaveAll(inv))

	got, err := s.LoadAll(domain.NewInventory())
	require.NoError(t, err)
	assert.Equal(t, 3, got.Total())
	assert.True(t, got.Folders.Entries[0].IsDir)
	assert.False(t, got.Files.Entries[0].IsDir)
}

func TestStore_SaveInvalidKind(t *testing.T) {
	s := newMemStore()
	err := s.Save(domain.NewPartition("bogus", nil))
	assert.True(t, errors.Is(err, domain.ErrInvalidKind))
}

func TestDecode_Empty(t *testing.T) {
	p, err := Decode(strings.NewReader(""), domain.KindFiles)
	require.NoError(t, err)
	assert.True(t, p.IsEmpty())
	assert.Equal(t, domain.KindFiles, p.Kind)
}

func TestDecode_HeaderOnly(t *testing.T) {
	p, err := Decode(strings.NewReader("Path,Changed,Size readable,Size bytes\n"), domain.KindFiles)
	require.NoError(t, err)
	assert.True(t, p.IsEmpty())
}

func TestDecode_LegacyDecoratedSize(t *testing.T) {
	input := "Path,Changed,Size readable,Size bytes\n" +
		"/a,2024-01-01 10:00:00.000000,1.0 KiB,\x1b[33m 1024 \x1b[0m\n" +
		"/b,2024-01-01 10:00:00,2.0 KiB, 2048 \n"

	p, err := Decode(strings.NewReader(input), domain.KindFiles)
	require.NoError(t, err)
	require.Equal(t, 2, p.Len())

	size, _ := p.Entries[0].Size()
	assert.Equal(t, uint64(1024), size)
	size, _ = p.Entries[1].Size()
	assert.Equal(t, uint64(2048), size)
}

func TestDecode_BadHeader(t *testing.T) {
	_, err := Decode(strings.NewReader("a,b,c,d\n"), domain.KindFiles)
	assert.True(t, errors.Is(err, domain.ErrSnapshotFormat))
}

func TestDecode_BadSize(t *testing.T) {
	input := "Path,Changed,Size readable,Size bytes\n/a,2024-01-01 10:00:00,?,many\n"
	_, err := Decode(strings.NewReader(input), domain.KindFiles)
	assert.True(t, errors.Is(err, domain.ErrSnapshotFormat))
}

func TestEncode_Format(t *testing.T) {
	var buf bytes.Buffer
	p := domain.NewPartition(domain.KindFiles, []domain.Entry{
		domain.Resolved("/a", false, 1024, time.Date(2024, 1, 1, 10, 0, 0, 0, time.Local)),
	})
	require.NoError(t, Encode(&buf, p, func(uint64) string { return "1.0 KiB" }))
	assert.Equal(t, "Path,Changed,Size readable,Size bytes\n/a,2024-01-01 10:00:00.000000,1.0 KiB,1024\n", buf.String())
}

func TestParseSizeBytes(t *testing.T) {
	tests := []struct {
		in      string
		want    uint64
		wantErr bool
	}{
		{"1024", 1024, false},
		{" 1024 ", 1024, false},
		{"\x1b[31m 12 \x1b[0m", 12, false},
		{"", 0, true},
		{"1.5", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseSizeBytes(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}
}
