// internal/app/analytics/utilization.go
package analytics

import (
	"time"

	"github.com/nexorahq/nexora/internal/domain/models"
)

// Member-level status classifications.
const (
	StatusBalanced   = "balanced"
	StatusCaution    = "caution"
	StatusOverloaded = "overloaded"
)

// Facility-level status classifications (independent scale).
const (
	FacilityStatusCritical = "critical"
	FacilityStatusLow      = "low"
	FacilityStatusNormal   = "normal"
)

// Classification weights. Overdue work weighs more than completed work so a
// backlog of missed deadlines pushes utilization up, not down.
const (
	weightCompleted  = 1.0
	weightInProgress = 0.8
	weightOverdue    = 1.2
	weightPending    = 0.2
)

// upcomingWindow is how far ahead a due date counts as an upcoming deadline.
const upcomingWindow = 7 * 24 * time.Hour

// taskClass is the exclusive bucket a task lands in.
type taskClass int

const (
	classCompleted taskClass = iota
	classInProgress
	classOverdue
	classPending
)

// classify puts a task into exactly one bucket. Overdue takes priority over
// in-progress and pending; only completion shields a task from it.
func classify(f taskFacts, now time.Time) taskClass {
	switch f.status {
	case "completed", "done":
		return classCompleted
	}
	if f.due.ok && f.due.t.Before(now) {
		return classOverdue
	}
	switch f.status {
	case "in-progress", "review":
		return classInProgress
	}
	// todo, pending, not-started, and any free-form variant we don't know.
	return classPending
}

// Breakdown is the per-bucket census of a task set.
type Breakdown struct {
	Completed  int `json:"completed"`
	InProgress int `json:"inProgress"`
	Overdue    int `json:"overdue"`
	Pending    int `json:"pending"`
}

// Total returns the number of classified tasks.
func (b Breakdown) Total() int {
	return b.Completed + b.InProgress + b.Overdue + b.Pending
}

// WeightedScore returns the raw weighted completion-pressure score.
func (b Breakdown) WeightedScore() float64 {
	return float64(b.Completed)*weightCompleted +
		float64(b.InProgress)*weightInProgress +
		float64(b.Overdue)*weightOverdue +
		float64(b.Pending)*weightPending
}

// Utilization returns the 0-100 utilization percentage.
// An empty task set is 0, not an error.
func (b Breakdown) Utilization() float64 {
	total := b.Total()
	if total == 0 {
		return 0
	}
	u := b.WeightedScore() / float64(total) * 100
	if u > 100 {
		return 100
	}
	return u
}

// CompletionRate returns completed tasks as a 0-100 percentage of the set.
func (b Breakdown) CompletionRate() float64 {
	total := b.Total()
	if total == 0 {
		return 0
	}
	return float64(b.Completed) / float64(total) * 100
}

// OngoingRatio returns in-progress tasks as a 0-100 percentage of the set.
func (b Breakdown) OngoingRatio() float64 {
	total := b.Total()
	if total == 0 {
		return 0
	}
	return float64(b.InProgress) / float64(total) * 100
}

// ComputeBreakdown classifies a raw task set against the given "now".
// Pure: no I/O, deterministic for the same tasks and instant.
func ComputeBreakdown(tasks []models.Task, now time.Time) Breakdown {
	return breakdownOf(normalizeTasks(tasks), now)
}

// UpcomingDeadlines counts raw tasks due within the next seven days that
// are neither completed nor already overdue.
func UpcomingDeadlines(tasks []models.Task, now time.Time) int {
	return upcomingDeadlines(normalizeTasks(tasks), now)
}

func normalizeTasks(tasks []models.Task) []taskFacts {
	out := make([]taskFacts, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, normalizeTask(t))
	}
	return out
}

// breakdownOf classifies every task in the set.
func breakdownOf(tasks []taskFacts, now time.Time) Breakdown {
	var b Breakdown
	for _, f := range tasks {
		switch classify(f, now) {
		case classCompleted:
			b.Completed++
		case classInProgress:
			b.InProgress++
		case classOverdue:
			b.Overdue++
		case classPending:
			b.Pending++
		}
	}
	return b
}

// upcomingDeadlines counts tasks due within the next seven days that are
// neither completed nor already overdue.
func upcomingDeadlines(tasks []taskFacts, now time.Time) int {
	n := 0
	for _, f := range tasks {
		if !f.due.ok {
			continue
		}
		if classify(f, now) == classCompleted || f.due.t.Before(now) {
			continue
		}
		if f.due.t.Sub(now) <= upcomingWindow {
			n++
		}
	}
	return n
}

// MemberStatus classifies a member's workload.
//
// The caution constants (deadlines > 2, ongoing > 5 with total > 10,
// utilization >= 80) are product-tuned values reproduced as given.
func MemberStatus(b Breakdown, upcoming int) string {
	if b.Overdue > 0 {
		return StatusOverloaded
	}
	if upcoming > 2 || (b.InProgress > 5 && b.Total() > 10) || b.Utilization() >= 80 {
		return StatusCaution
	}
	return StatusBalanced
}

// FacilityStatus classifies a facility on its own scale.
func FacilityStatus(utilization float64) string {
	switch {
	case utilization >= 90:
		return FacilityStatusCritical
	case utilization < 40:
		return FacilityStatusLow
	default:
		return FacilityStatusNormal
	}
}
