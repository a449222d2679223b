package service

import (
	"fmt"
	"time"
)

// DisplayLayout is the wall-clock format exchanged with date/time widgets.
const DisplayLayout = "2006-01-02T15:04:05.000"

var displayInputLayouts = []string{
	DisplayLayout,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

// TimeAdapter converts between epoch milliseconds and minute-truncated local
// wall-clock strings. The zone offset is looked up for each instant.
//
// During a fall-back transition the repeated hour has two instants per
// display string; FromDisplay picks the earlier one. A wall time skipped by a
// spring-forward change is read with the offset in effect before it.
type TimeAdapter struct {
	loc *time.Location
	now func() time.Time
}

// NewTimeAdapter returns an adapter for loc (time.Local when nil).
func NewTimeAdapter(loc *time.Location) *TimeAdapter {
	if loc == nil {
		loc = time.Local
	}
	return &TimeAdapter{loc: loc, now: time.Now}
}

// Location is the zone display strings are read and written in.
func (a *TimeAdapter) Location() *time.Location { return a.loc }

// TruncateToMinute zeroes seconds and sub-second parts of the local wall clock.
func (a *TimeAdapter) TruncateToMinute(epochMs int64) int64 {
	t := time.UnixMilli(epochMs).In(a.loc)
	t = t.Add(-time.Duration(t.Second())*time.Second - time.Duration(t.Nanosecond()))
	return t.UnixMilli()
}

// Now is the current instant, minute-truncated.
func (a *TimeAdapter) Now() int64 {
	return a.TruncateToMinute(a.now().UnixMilli())
}

// ToDisplay renders epochMs in the adapter's zone, seconds zeroed.
func (a *TimeAdapter) ToDisplay(epochMs int64) string {
	return time.UnixMilli(a.TruncateToMinute(epochMs)).In(a.loc).Format(DisplayLayout)
}

// FromDisplay parses a local wall-clock string back to epoch milliseconds.
func (a *TimeAdapter) FromDisplay(s string) (int64, error) {
	for _, layout := range displayInputLayouts {
		if t, err := time.ParseInLocation(layout, s, a.loc); err == nil {
			return a.TruncateToMinute(earliestInstant(t).UnixMilli()), nil
		}
	}
	return 0, fmt.Errorf("%w: %q, expected YYYY-MM-DDTHH:MM", ErrInvalidTime, s)
}

// earliestInstant returns the first instant showing t's wall clock. It only
// differs from t inside the hour repeated after a fall-back change.
func earliestInstant(t time.Time) time.Time {
	start, _ := t.ZoneBounds()
	if start.IsZero() {
		return t
	}
	_, off := t.Zone()
	_, prevOff := start.Add(-time.Second).Zone()
	shift := time.Duration(prevOff-off) * time.Second
	if shift <= 0 {
		return t
	}
	if earlier := t.Add(-shift); earlier.Before(start) && sameWallClock(earlier, t) {
		return earlier
	}
	return t
}

func sameWallClock(a, b time.Time) bool {
	a = a.In(b.Location())
	return a.Format(time.DateTime) == b.Format(time.DateTime) && a.Nanosecond() == b.Nanosecond()
}
