package query

import (
	"fmt"
	"strings"
	"time"

	"github.com/Ning0612/foldercrawler/internal/domain"
)

// dateLayouts are tried in order; each accepts a prefix of the full
// "YYYY-MM-DD hh:mm:ss" form
var dateLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02 15",
	"2006-01-02",
	"2006-01",
	"2006",
}

// ParseDate parses a date threshold in local time. Any prefix of
// "YYYY-MM-DD hh:mm:ss" is accepted; missing parts take their lowest
// value. Fractional seconds are allowed after the seconds field. An empty
// string yields the zero time, which every resolved entry satisfies with
// AtLeast.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", domain.ErrInvalidDate, s)
}
