// internal/app/features/export/filename_test.go
package export

import (
	"testing"
	"time"
)

func TestFilename(t *testing.T) {
	at := time.Date(2026, 3, 10, 15, 4, 5, 0, time.UTC)

	cases := []struct {
		scope, name, rng string
		want             string
	}{
		{"global", "all-facilities", "4w", "nexora-analytics-global-all-facilities-4w-2026-03-10.pdf"},
		{"facility", "North Wing / Ops", "2w", "nexora-analytics-facility-north-wing-ops-2w-2026-03-10.pdf"},
		{"member", "Dana O'Neil", "12w", "nexora-analytics-member-dana-o-neil-12w-2026-03-10.pdf"},
		{"member", "  ", "4w", "nexora-analytics-member-report-4w-2026-03-10.pdf"},
	}
	for _, tc := range cases {
		if got := Filename(tc.scope, tc.name, tc.rng, at); got != tc.want {
			t.Errorf("Filename(%q, %q, %q) = %q, want %q", tc.scope, tc.name, tc.rng, got, tc.want)
		}
	}
}

func TestSanitizeName(t *testing.T) {
	cases := []struct{ in, want string }{
		{"Alpha", "alpha"},
		{"Alpha Beta", "alpha-beta"},
		{"__weird--name__", "weird-name"},
		{"<script>x</script>", "script-x-script"},
		{"", "report"},
	}
	for _, tc := range cases {
		if got := sanitizeName(tc.in); got != tc.want {
			t.Errorf("sanitizeName(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
