package period

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/assistidads/assist-lead-hub-sub000/internal/domain"
)

// Granularity selects how a report window is built.
type Granularity string

const (
	GranularityDay   Granularity = "day"
	GranularityMonth Granularity = "month"
	GranularityRange Granularity = "range"
)

const dateLayout = "2006-01-02"

// Window is a half-open interval [Start, End).
type Window struct {
	Start       time.Time
	End         time.Time
	Granularity Granularity
}

// DayOf returns the calendar day containing t in loc.
func DayOf(t time.Time, loc *time.Location) Window {
	t = t.In(loc)
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
	return Window{Start: start, End: start.AddDate(0, 0, 1), Granularity: GranularityDay}
}

// MonthOf returns the calendar month containing t in loc.
func MonthOf(t time.Time, loc *time.Location) Window {
	t = t.In(loc)
	start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, loc)
	return Window{Start: start, End: start.AddDate(0, 1, 0), Granularity: GranularityMonth}
}

// RangeOf covers whole days from `from` through `to`, both inclusive.
func RangeOf(from, to time.Time, loc *time.Location) (Window, error) {
	start := DayOf(from, loc).Start
	end := DayOf(to, loc).End
	if !end.After(start) {
		return Window{}, domain.NewValidationError("to", "must not be before from")
	}
	return Window{Start: start, End: end, Granularity: GranularityRange}, nil
}

// Previous returns the window immediately before w: the preceding day, the
// preceding calendar month, or a preceding range with the same number of days.
func (w Window) Previous() Window {
	switch w.Granularity {
	case GranularityDay:
		return Window{Start: w.Start.AddDate(0, 0, -1), End: w.Start, Granularity: w.Granularity}
	case GranularityMonth:
		// Start is always the 1st, so AddDate never normalizes into another month.
		return Window{Start: w.Start.AddDate(0, -1, 0), End: w.Start, Granularity: w.Granularity}
	default:
		days := w.DayCount()
		return Window{Start: w.Start.AddDate(0, 0, -days), End: w.Start, Granularity: w.Granularity}
	}
}

// DayCount is the number of calendar days in w.
func (w Window) DayCount() int {
	return int(math.Round(w.End.Sub(w.Start).Hours() / 24))
}

// Contains reports whether t falls in [Start, End).
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

// Days enumerates the first instant of every calendar day in w.
func (w Window) Days() []time.Time {
	days := make([]time.Time, 0, w.DayCount())
	for d := w.Start; d.Before(w.End); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

// Report converts w and its predecessor into the report window header.
func (w Window) Report() domain.ReportWindow {
	prev := w.Previous()
	return domain.ReportWindow{
		Granularity:   string(w.Granularity),
		Start:         w.Start,
		End:           w.End,
		PreviousStart: prev.Start,
		PreviousEnd:   prev.End,
	}
}

// Parse builds a window from query-string values. An empty granularity means
// "month"; an empty date means now.
func Parse(granularity, date, from, to string, now time.Time, loc *time.Location) (Window, error) {
	switch Granularity(strings.ToLower(strings.TrimSpace(granularity))) {
	case "", GranularityMonth:
		t, err := parseDateOr(date, "date", now, loc)
		if err != nil {
			return Window{}, err
		}
		return MonthOf(t, loc), nil
	case GranularityDay:
		t, err := parseDateOr(date, "date", now, loc)
		if err != nil {
			return Window{}, err
		}
		return DayOf(t, loc), nil
	case GranularityRange:
		if from == "" || to == "" {
			return Window{}, domain.NewValidationError("from", "from and to are required for range periods")
		}
		f, err := parseDateOr(from, "from", now, loc)
		if err != nil {
			return Window{}, err
		}
		t, err := parseDateOr(to, "to", now, loc)
		if err != nil {
			return Window{}, err
		}
		return RangeOf(f, t, loc)
	default:
		return Window{}, domain.NewValidationError("period", fmt.Sprintf("unsupported period %q", granularity))
	}
}

func parseDateOr(value, field string, fallback time.Time, loc *time.Location) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return fallback.In(loc), nil
	}
	// Accept "2006-01" for month pickers.
	if len(value) == len("2006-01") {
		if t, err := time.ParseInLocation("2006-01", value, loc); err == nil {
			return t, nil
		}
	}
	t, err := time.ParseInLocation(dateLayout, value, loc)
	if err != nil {
		return time.Time{}, domain.NewValidationError(field, "must be a date in YYYY-MM-DD format")
	}
	return t, nil
}

// FormatDate renders t as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(dateLayout)
}

// LoadLocation resolves a timezone name, falling back to UTC+7 when the tz
// database is unavailable.
func LoadLocation(name string) *time.Location {
	if name == "" {
		name = "Asia/Jakarta"
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.FixedZone(name, 7*60*60)
	}
	return loc
}
