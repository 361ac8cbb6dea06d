package format

import (
	"fmt"
	"strings"
	"time"
)

var durationUnits = []struct {
	name    string
	seconds float64
}{
	{"Year", 365 * 24 * 3600},
	{"Day", 24 * 3600},
	{"Hour", 3600},
	{"Minute", 60},
}

// FormatDuration spells out d in years, days, hours and minutes with the
// remainder in seconds to four decimals. Zero units are omitted and the
// seconds part is always present, e.g. "1 Hour 2 Minutes 5.0000 Seconds".
func FormatDuration(d time.Duration) string {
	remaining := d.Seconds()
	if remaining < 0 {
		remaining = 0
	}

	var parts []string
	for _, u := range durationUnits {
		n := int64(remaining / u.seconds)
		if n == 0 {
			continue
		}
		remaining -= float64(n) * u.seconds
		parts = append(parts, fmt.Sprintf("%d %s", n, plural(u.name, n > 1)))
	}
	parts = append(parts, fmt.Sprintf("%.4f %s", remaining, plural("Second", remaining > 1)))

	return strings.Join(parts, " ")
}

func plural(unit string, many bool) string {
	if many {
		return unit + "s"
	}
	return unit
}
