// internal/app/analytics/range.go
package analytics

import "time"

// DefaultRange is the window applied when the client sends no range token.
const DefaultRange = "4w"

// rangeWeeks maps the accepted range tokens to their length in weeks.
var rangeWeeks = map[string]int{
	"1w":  1,
	"2w":  2,
	"4w":  4,
	"8w":  8,
	"12w": 12,
}

// Window is a half-open-ish aggregation window [Start, End]; End is "now"
// at request time.
type Window struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Contains reports whether t falls inside the window.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

// Previous returns the immediately preceding window of equal length,
// used for trend comparison.
func (w Window) Previous() Window {
	d := w.End.Sub(w.Start)
	return Window{Start: w.Start.Add(-d), End: w.Start}
}

// ParseRange normalizes a range token and resolves it to a window ending at
// now. Unknown or empty tokens fall back to DefaultRange rather than
// erroring; the range is a presentation knob, not a precondition.
func ParseRange(token string, now time.Time) (string, Window) {
	weeks, ok := rangeWeeks[token]
	if !ok {
		token = DefaultRange
		weeks = rangeWeeks[DefaultRange]
	}
	end := now.UTC()
	return token, Window{Start: end.AddDate(0, 0, -7*weeks), End: end}
}
