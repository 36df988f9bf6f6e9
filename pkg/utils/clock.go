package utils

import (
	"fmt"
	"time"
)

// Layouts used for attendance records
const (
	DATE_LAYOUT = "2006-01-02"
	TIME_LAYOUT = "15:04"
)

// ReportingClock computes calendar dates in a fixed timezone, regardless of the
// process timezone.
type ReportingClock struct {
	loc *time.Location
	now func() time.Time
}

// NewReportingClock loads the named IANA timezone
func NewReportingClock(timezone string) (*ReportingClock, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("failed to load timezone %q: %w", timezone, err)
	}
	return &ReportingClock{loc: loc, now: time.Now}, nil
}

// NewReportingClockAt builds a clock with an explicit time source, for tests and replay
func NewReportingClockAt(loc *time.Location, now func() time.Time) *ReportingClock {
	return &ReportingClock{loc: loc, now: now}
}

// Now returns the current instant
func (c *ReportingClock) Now() time.Time {
	return c.now()
}

// Location returns the reporting timezone
func (c *ReportingClock) Location() *time.Location {
	return c.loc
}

// DateOf returns the YYYY-MM-DD date of t in the reporting timezone
func (c *ReportingClock) DateOf(t time.Time) string {
	return t.In(c.loc).Format(DATE_LAYOUT)
}

// Today returns the current date in the reporting timezone
func (c *ReportingClock) Today() string {
	return c.DateOf(c.now())
}

// TimeOfDay renders t as HH:MM in the reporting timezone
func (c *ReportingClock) TimeOfDay(t time.Time) string {
	return t.In(c.loc).Format(TIME_LAYOUT)
}
