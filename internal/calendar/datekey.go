package calendar

import "time"

const dateKeyLayout = "2006-01-02"

// timestampLayouts are tried in order when normalizing free-form input.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	dateKeyLayout,
}

// DateKey returns the YYYY-MM-DD key for the local calendar date of t. The
// key is always derived from the instant converted to local time, never by
// splitting a UTC string, so a late-evening local timestamp cannot drift
// into the next day.
func DateKey(t time.Time) string {
	return t.In(time.Local).Format(dateKeyLayout)
}

// DateKeyOf normalizes a raw timestamp string into a date key. It is total:
// unparsable input yields ok == false, never a panic or a partial key.
func DateKeyOf(raw string) (string, bool) {
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, raw, time.Local); err == nil {
			return DateKey(t), true
		}
	}
	return "", false
}

// ParseDateKey parses a YYYY-MM-DD key as local midnight of that day.
func ParseDateKey(key string) (time.Time, bool) {
	t, err := time.ParseInLocation(dateKeyLayout, key, time.Local)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
