// internal/app/analytics/trend_test.go
package analytics

import "testing"

func TestTrend(t *testing.T) {
	cases := []struct {
		name                 string
		cur, prev, totalCur  int
		want                 int
	}{
		{"drop to zero is full negative", 0, 5, 3, -100},
		{"plain percentage change", 6, 5, 10, 20},
		{"decline", 3, 6, 10, -50},
		{"growth clamps at hundred", 30, 5, 40, 100},
		{"fresh start with totals", 3, 0, 10, 30},
		{"fresh start with totals caps at fifty", 9, 0, 10, 50},
		{"fresh start without totals", 3, 0, 0, 15},
		{"fresh start without totals caps at twenty-five", 8, 0, 0, 25},
		{"idle with work outstanding", 0, 0, 4, -12},
		{"idle floor", 0, 0, 10, -15},
		{"nothing anywhere", 0, 0, 0, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Trend(tc.cur, tc.prev, tc.totalCur); got != tc.want {
				t.Fatalf("Trend(%d, %d, %d) = %d, want %d", tc.cur, tc.prev, tc.totalCur, got, tc.want)
			}
		})
	}
}
