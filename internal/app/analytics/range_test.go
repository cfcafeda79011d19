// internal/app/analytics/range_test.go
package analytics

import (
	"testing"
	"time"
)

func TestParseRange(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		token     string
		wantToken string
		wantDays  int
	}{
		{"1w", "1w", 7},
		{"2w", "2w", 14},
		{"4w", "4w", 28},
		{"8w", "8w", 56},
		{"12w", "12w", 84},
		{"", "4w", 28},
		{"6w", "4w", 28},
		{"bogus", "4w", 28},
	}
	for _, tc := range cases {
		t.Run("token "+tc.token, func(t *testing.T) {
			token, w := ParseRange(tc.token, now)
			if token != tc.wantToken {
				t.Fatalf("token = %q, want %q", token, tc.wantToken)
			}
			if !w.End.Equal(now) {
				t.Fatalf("End = %v, want %v", w.End, now)
			}
			if days := int(w.End.Sub(w.Start).Hours() / 24); days != tc.wantDays {
				t.Fatalf("window length = %d days, want %d", days, tc.wantDays)
			}
		})
	}
}

func TestWindowPrevious(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	_, w := ParseRange("2w", now)
	prev := w.Previous()

	if !prev.End.Equal(w.Start) {
		t.Fatalf("previous window must end where the current one starts")
	}
	if prev.End.Sub(prev.Start) != w.End.Sub(w.Start) {
		t.Fatalf("previous window must have equal length")
	}
}

func TestWindowContains(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	_, w := ParseRange("1w", now)

	if !w.Contains(w.Start) || !w.Contains(w.End) {
		t.Fatal("window bounds are inclusive")
	}
	if w.Contains(w.Start.Add(-time.Second)) || w.Contains(w.End.Add(time.Second)) {
		t.Fatal("instants outside the bounds must not be contained")
	}
}
