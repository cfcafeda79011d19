// internal/app/analytics/trend.go
package analytics

import "math"

// Trend caps for the zero-previous-period fallback branches.
const (
	trendCapWithTotals = 50  // prev = 0, cur > 0, current period has tasks
	trendCapFlatBonus  = 25  // prev = 0, cur > 0, no tasks at all
	trendFloorIdle     = -15 // prev = 0, cur = 0, but tasks exist
)

// Trend returns the percentage change in completed-task count versus the
// immediately preceding period of equal length.
//
// The zero-previous-period branches are an asymmetric fallback ladder:
// dividing by zero or reporting a +N00% jump off an empty baseline would be
// misleading, so each branch produces a bounded estimate instead. The result
// always lands in [-100, 100].
func Trend(completedCur, completedPrev, totalCur int) int {
	switch {
	case completedPrev > 0 && completedCur == 0:
		return -100

	case completedPrev > 0:
		pct := float64(completedCur-completedPrev) / float64(completedPrev) * 100
		return clampTrend(int(math.Round(pct)))

	case completedCur > 0 && totalCur > 0:
		pct := int(math.Round(float64(completedCur) / float64(totalCur) * 100))
		return minInt(trendCapWithTotals, pct)

	case completedCur > 0:
		return minInt(trendCapFlatBonus, completedCur*5)

	case totalCur > 0:
		// Nothing completed either period, but work exists: gently negative.
		return maxInt(trendFloorIdle, -3*totalCur)

	default:
		return 0
	}
}

func clampTrend(v int) int {
	if v > 100 {
		return 100
	}
	if v < -100 {
		return -100
	}
	return v
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
