// Package timewindow computes the report date windows (yesterday, recent
// minutes, month-to-date, year-to-date) in the configured timezone. All
// functions are pure; the reference clock is injected.
package timewindow

import "time"

// Window is a closed time interval.
type Window struct {
	Start time.Time
	End   time.Time
}

// Epochs returns the window bounds as UTC epoch seconds, the form the
// invoicing API's starttmp/endtmp parameters expect.
func (w Window) Epochs() (start, end int64) {
	return w.Start.UTC().Unix(), w.End.UTC().Unix()
}

// Yesterday returns the full previous local day: 00:00:00 to 23:59:59 in loc.
func Yesterday(now time.Time, loc *time.Location) Window {
	local := now.In(loc)
	y := local.AddDate(0, 0, -1)
	start := time.Date(y.Year(), y.Month(), y.Day(), 0, 0, 0, 0, loc)
	end := time.Date(y.Year(), y.Month(), y.Day(), 23, 59, 59, 0, loc)
	return Window{Start: start, End: end}
}

// LastMinutes returns the window covering the last n minutes up to now.
func LastMinutes(now time.Time, loc *time.Location, n int) Window {
	local := now.In(loc)
	return Window{Start: local.Add(-time.Duration(n) * time.Minute), End: local}
}

// MonthToDate returns the window from the first of the current local month
// to now.
func MonthToDate(now time.Time, loc *time.Location) Window {
	local := now.In(loc)
	start := time.Date(local.Year(), local.Month(), 1, 0, 0, 0, 0, loc)
	return Window{Start: start, End: local}
}

// YearToDate returns the window from January 1st of the current local year
// to now.
func YearToDate(now time.Time, loc *time.Location) Window {
	local := now.In(loc)
	start := time.Date(local.Year(), time.January, 1, 0, 0, 0, 0, loc)
	return Window{Start: start, End: local}
}

// YesterdayLabel renders the previous local day as dd/mm/yyyy for report
// headings.
func YesterdayLabel(now time.Time, loc *time.Location) string {
	return now.In(loc).AddDate(0, 0, -1).Format("02/01/2006")
}
