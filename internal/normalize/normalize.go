package normalize

import (
	"strconv"
	"strings"
	"time"

	"jobsift-engine/internal/domain"
)

// Layouts we have actually seen provider dates arrive in. Greenhouse sends
// RFC3339 with offsets, Lever sends epoch millis, email alerts carry RFC1123.
var layouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	time.RFC1123Z,
	time.RFC1123,
	time.RFC822Z,
	time.RFC822,
	"Jan 2, 2006",
	"2 Jan 2006",
	"01/02/2006",
}

// CanonicalTime parses an arbitrary provider date representation into a UTC
// timestamp. It returns nil for anything it cannot parse; a missing or
// mangled date must never drop an otherwise-valid job.
func CanonicalTime(raw string) *time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return epochTime(n)
	}

	for _, layout := range layouts {
		if t, err := time.Parse(layout, raw); err == nil {
			u := t.UTC()
			return &u
		}
	}
	return nil
}

func epochTime(n int64) *time.Time {
	if n <= 0 {
		return nil
	}
	t := time.Unix(n, 0)
	if n >= 1_000_000_000_000 { // millis, not seconds
		t = time.UnixMilli(n)
	}
	u := t.UTC()
	return &u
}

// Collapse lower-cases s and squeezes whitespace runs (including NBSP) down
// to single spaces.
func Collapse(s string) string {
	s = strings.ReplaceAll(s, " ", " ")
	s = strings.ToLower(s)
	return strings.Join(strings.Fields(s), " ")
}

// MatchText builds the normalized text view the filter engine evaluates:
// title, location and description concatenated, lower-cased, whitespace
// collapsed. Missing fields contribute nothing.
func MatchText(j domain.Job) string {
	return Collapse(j.Title + " " + j.Location + " " + j.Description)
}
