package cli

import (
	"fmt"
	"time"

	naturaldate "github.com/tj/go-naturaldate"
)

const dateFormat = "2006-01-02"

// parseWindow resolves --since and --until into an inclusive time range.
//
// Both accept an exact date (YYYY-MM-DD) or a natural language expression
// such as "yesterday" or "2 weeks ago", resolved against now. since is moved
// to the start of its day and until to the end of its day. An empty value
// leaves that side of the window open (zero time).
func parseWindow(sinceStr, untilStr string, now time.Time) (time.Time, time.Time, error) {
	var since, until time.Time

	if sinceStr != "" {
		t, err := parseDate(sinceStr, now)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid --since value %q: %w", sinceStr, err)
		}
		since = startOfDay(t)
	}

	if untilStr != "" {
		t, err := parseDate(untilStr, now)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid --until value %q: %w", untilStr, err)
		}
		until = endOfDay(t)
	}

	if !since.IsZero() && !until.IsZero() && since.After(until) {
		return time.Time{}, time.Time{}, fmt.Errorf("--since (%s) must be before --until (%s)",
			since.Format(dateFormat), until.Format(dateFormat))
	}

	return since, until, nil
}

// parseDate tries YYYY-MM-DD first, then falls back to natural language
// relative to ref.
func parseDate(s string, ref time.Time) (time.Time, error) {
	if t, err := time.ParseInLocation(dateFormat, s, ref.Location()); err == nil {
		return t, nil
	}
	return naturaldate.Parse(s, ref)
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), t.Location())
}
