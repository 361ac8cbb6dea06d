package store

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/Ning0612/foldercrawler/internal/domain"
)

// Header is the fixed first row of every persisted partition
var Header = []string{"Path", "Changed", "Size readable", "Size bytes"}

// TimeLayout is the layout of the Changed column
const TimeLayout = "2006-01-02 15:04:05.000000"

const (
	colPath = iota
	colChanged
	colSizeReadable
	colSizeBytes
)

// SizeFormatter renders a byte count for the "Size readable" column
type SizeFormatter func(size uint64) string

// Encode writes p as CSV: the header row, then one row per entry.
// Unresolved entries keep their path and leave the other cells empty.
func Encode(w io.Writer, p domain.Partition, formatSize SizeFormatter) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return err
	}

	row := make([]string, len(Header))
	for _, e := range p.Entries {
		row[colPath] = e.Path
		if e.Props == nil {
			row[colChanged], row[colSizeReadable], row[colSizeBytes] = "", "", ""
		} else {
			row[colChanged] = e.Props.ModTime.In(time.Local).Format(TimeLayout)
			row[colSizeReadable] = formatSize(e.Props.Size)
			row[colSizeBytes] = strconv.FormatUint(e.Props.Size, 10)
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// Decode reads a partition written by Encode. An empty input yields an
// empty partition. Entries of the folders kind are marked as directories;
// the format does not record directory-ness for the other kinds.
func Decode(r io.Reader, kind domain.Kind) (domain.Partition, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(Header)

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return domain.NewPartition(kind, nil), nil
	}
	if err != nil {
		return domain.Partition{}, fmt.Errorf("%w: %v", domain.ErrSnapshotFormat, err)
	}
	if err := checkHeader(header); err != nil {
		return domain.Partition{}, err
	}

	var entries []domain.Entry
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return domain.Partition{}, fmt.Errorf("%w: %v", domain.ErrSnapshotFormat, err)
		}

		entry, err := decodeRow(rec, kind == domain.KindFolders)
		if err != nil {
			line, _ := cr.FieldPos(0)
			return domain.Partition{}, fmt.Errorf("%w: line %d: %v", domain.ErrSnapshotFormat, line, err)
		}
		entries = append(entries, entry)
	}

	return domain.NewPartition(kind, entries), nil
}

func checkHeader(header []string) error {
	for i, want := range Header {
		if strings.TrimSpace(strings.TrimPrefix(header[i], "\ufeff")) != want {
			return fmt.Errorf("%w: unexpected header %q", domain.ErrSnapshotFormat, header)
		}
	}
	return nil
}

func decodeRow(rec []string, isDir bool) (domain.Entry, error) {
	path := rec[colPath]
	changed := strings.TrimSpace(rec[colChanged])
	rawSize := rec[colSizeBytes]

	if changed == "" && strings.TrimSpace(rawSize) == "" {
		return domain.Unresolved(path, isDir), nil
	}

	modTime, err := ParseChanged(changed)
	if err != nil {
		return domain.Entry{}, err
	}
	size, err := ParseSizeBytes(rawSize)
	if err != nil {
		return domain.Entry{}, err
	}
	return domain.Resolved(path, isDir, size, modTime), nil
}

// ParseChanged parses a Changed cell. Fractional seconds are optional and
// the value is read in local time; RFC 3339 is accepted as well.
func ParseChanged(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.ParseInLocation("2006-01-02 15:04:05", s, time.Local); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("unparsable time %q", s)
}

var ansiEscape = regexp.MustCompile(`\x1b\[[0-9;]*m`)

// ParseSizeBytes extracts the byte count from a "Size bytes" cell. Plain
// integers are the normal case; the older decorated form with colour
// codes and padding (e.g. "\x1b[33m 1024 \x1b[0m") is accepted too.
func ParseSizeBytes(s string) (uint64, error) {
	token := strings.TrimSpace(ansiEscape.ReplaceAllString(s, ""))
	n, err := strconv.ParseUint(token, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("unparsable size %q", s)
	}
	return n, nil
}
