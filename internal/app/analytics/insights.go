// internal/app/analytics/insights.go
package analytics

import (
	"fmt"
	"sort"
)

// Insight types, in decreasing order of alarm.
const (
	InsightDanger  = "danger"
	InsightWarning = "warning"
	InsightInfo    = "info"
	InsightSuccess = "success"
)

// maxInsights bounds how many insights a report carries.
const maxInsights = 4

// Insight is a rule-engine observation plus a recommended action.
type Insight struct {
	ID       string `json:"id"`
	Type     string `json:"type"`
	Severity int    `json:"severity"`
	Message  string `json:"message"`
	Action   string `json:"action"`
}

// Snapshot is the assembled KPI surface the rules scan. Scope-specific
// fields are zero for the scopes they don't apply to.
type Snapshot struct {
	Scope string // "global" | "facility" | "member"

	Utilization    float64
	CompletionRate float64
	OngoingRatio   float64
	TotalTasks     int
	OverdueCount   int

	// Global scope only.
	CriticalFacilities int
	LowFacilities      int

	// Facility scope only.
	OverloadedMembers int
}

// BuildInsights runs every rule against the snapshot independently, ranks
// the hits by severity, and truncates to the top four. The list is never
// empty: a synthesized fallback insight covers the all-quiet case.
func BuildInsights(s Snapshot) []Insight {
	var out []Insight
	add := func(in Insight) { out = append(out, in) }

	if s.OverdueCount > 0 {
		add(Insight{
			ID:       "overdue-tasks",
			Type:     InsightDanger,
			Severity: 90,
			Message:  fmt.Sprintf("%d task(s) are past their due date.", s.OverdueCount),
			Action:   "Reassign or reschedule overdue work before it stalls dependent tasks.",
		})
	}

	switch {
	case s.Utilization >= 100:
		add(Insight{
			ID:       "overload",
			Type:     InsightDanger,
			Severity: 95,
			Message:  "Workload is at or beyond full capacity.",
			Action:   "Redistribute tasks or extend deadlines to relieve pressure.",
		})
	case s.Utilization >= 90:
		add(Insight{
			ID:       "high-utilization",
			Type:     InsightWarning,
			Severity: 80,
			Message:  fmt.Sprintf("Utilization is at %.0f%%, close to capacity.", s.Utilization),
			Action:   "Review upcoming deadlines and hold off on new assignments.",
		})
	}

	if s.Scope == "global" && s.CriticalFacilities > 0 {
		add(Insight{
			ID:       "critical-facilities",
			Type:     InsightWarning,
			Severity: 85,
			Message:  fmt.Sprintf("%d facilit(ies) are running at critical utilization (>= 90%%).", s.CriticalFacilities),
			Action:   "Rebalance work toward facilities with spare capacity.",
		})
	}

	if s.Scope == "global" && s.LowFacilities > 0 {
		add(Insight{
			ID:       "low-facilities",
			Type:     InsightInfo,
			Severity: 40,
			Message:  fmt.Sprintf("%d facilit(ies) are under 40%% utilization.", s.LowFacilities),
			Action:   "Consider routing new projects to underutilized facilities.",
		})
	}

	if s.Scope == "facility" && s.OverloadedMembers > 0 {
		add(Insight{
			ID:       "overloaded-members",
			Type:     InsightWarning,
			Severity: 75,
			Message:  fmt.Sprintf("%d member(s) are overloaded.", s.OverloadedMembers),
			Action:   "Shift tasks from overloaded members to balanced ones.",
		})
	}

	if lowCompletion(s) {
		add(Insight{
			ID:       "low-completion",
			Type:     InsightWarning,
			Severity: 70,
			Message:  fmt.Sprintf("Completion rate is %.0f%%.", s.CompletionRate),
			Action:   "Break large tasks down and clear blockers to restore throughput.",
		})
	}

	if highOngoing(s) {
		add(Insight{
			ID:       "high-ongoing",
			Type:     InsightInfo,
			Severity: 60,
			Message:  fmt.Sprintf("%.0f%% of tasks are in progress simultaneously.", s.OngoingRatio),
			Action:   "Limit work in progress so started tasks get finished.",
		})
	}

	if len(out) == 0 {
		out = append(out, fallbackInsight(s))
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Severity > out[j].Severity })
	if len(out) > maxInsights {
		out = out[:maxInsights]
	}
	return out
}

// lowCompletion applies the per-scope completion-rate thresholds.
// Rates are only meaningful once there is work to complete.
func lowCompletion(s Snapshot) bool {
	if s.TotalTasks == 0 {
		return false
	}
	if s.Scope == "global" {
		return s.CompletionRate < 50
	}
	return s.CompletionRate < 60
}

// highOngoing applies the per-scope work-in-progress thresholds.
func highOngoing(s Snapshot) bool {
	if s.TotalTasks == 0 {
		return false
	}
	if s.Scope == "global" {
		return s.OngoingRatio > 40
	}
	return s.OngoingRatio > 50
}

// fallbackInsight guarantees a non-empty list when no rule fires.
func fallbackInsight(s Snapshot) Insight {
	if s.TotalTasks == 0 || s.Utilization < 40 {
		return Insight{
			ID:       "underutilized",
			Type:     InsightInfo,
			Severity: 10,
			Message:  "Capacity is available; workload is light.",
			Action:   "Good time to schedule new projects or backlog items.",
		}
	}
	return Insight{
		ID:       "stable",
		Type:     InsightSuccess,
		Severity: 10,
		Message:  "Operations are running smoothly.",
		Action:   "Keep the current pace; no intervention needed.",
	}
}
