// internal/app/analytics/normalize.go
package analytics

import (
	"strings"
	"time"

	"github.com/nexorahq/nexora/internal/app/system/timeutil"
	"github.com/nexorahq/nexora/internal/domain/models"
)

// taskFacts is the normalized view of a task the scoring stages work on.
// All date fields have been through timeutil.Coerce exactly once; nothing
// downstream touches the raw document shapes again.
type taskFacts struct {
	id        string
	projectID string
	title     string
	status    string // folded: lowercase, underscores/spaces as hyphens
	priority  string

	assignees     []string // direct assignment signals (ObjectID hex or auth UID)
	projAssignees []string // inherited from the parent project's assignee list

	due     timeOpt
	created timeOpt
	updated timeOpt
}

type timeOpt struct {
	t  time.Time
	ok bool
}

// normalizeTask converts a raw task document into taskFacts.
func normalizeTask(t models.Task) taskFacts {
	f := taskFacts{
		id:        t.ID.Hex(),
		projectID: t.ProjectID.Hex(),
		title:     t.Title,
		status:    foldStatus(t.Status),
		priority:  strings.ToLower(strings.TrimSpace(t.Priority)),
	}

	f.assignees = append(f.assignees, t.AssigneeIDs...)
	switch a := t.AssigneeID.(type) {
	case string:
		if a != "" {
			f.assignees = append(f.assignees, a)
		}
	case []string:
		f.assignees = append(f.assignees, a...)
	case []any:
		for _, v := range a {
			if s, ok := v.(string); ok && s != "" {
				f.assignees = append(f.assignees, s)
			}
		}
	}

	if ts, ok := timeutil.Coerce(t.DueDate); ok {
		f.due = timeOpt{t: ts, ok: true}
	}
	if ts, ok := timeutil.Coerce(t.CreatedAt); ok {
		f.created = timeOpt{t: ts, ok: true}
	}
	if ts, ok := timeutil.Coerce(t.UpdatedAt); ok {
		f.updated = timeOpt{t: ts, ok: true}
	}
	return f
}

// relevantAt returns the task's most recent activity timestamp:
// updated when known, else created.
func (f taskFacts) relevantAt() (time.Time, bool) {
	if f.updated.ok {
		return f.updated.t, true
	}
	if f.created.ok {
		return f.created.t, true
	}
	return time.Time{}, false
}

// assignedTo reports whether any of the given identity keys matches the
// task's assignment signals. Direct signals are checked first; a task with
// none inherits the parent project's assignee list.
func (f taskFacts) assignedTo(keys []string) bool {
	if matchesAny(f.assignees, keys) {
		return true
	}
	return matchesAny(f.projAssignees, keys)
}

func matchesAny(signals, keys []string) bool {
	for _, a := range signals {
		for _, k := range keys {
			if k != "" && a == k {
				return true
			}
		}
	}
	return false
}

// unassigned reports whether the task carries no assignment signal at all,
// neither direct nor inherited from its project.
func (f taskFacts) unassigned() bool {
	return len(f.assignees) == 0 && len(f.projAssignees) == 0
}

// projectAssigneeIndex maps project ID hex to the project's assignee list,
// skipping projects with none.
func projectAssigneeIndex(projects []models.Project) map[string][]string {
	idx := make(map[string][]string, len(projects))
	for _, p := range projects {
		if len(p.Assignees) > 0 {
			idx[p.ID.Hex()] = p.Assignees
		}
	}
	return idx
}

// attachProjectAssignees stamps each fact with its project's assignee list
// so assignment matching can fall through to the project level.
func attachProjectAssignees(facts []taskFacts, idx map[string][]string) []taskFacts {
	if len(idx) == 0 {
		return facts
	}
	for i := range facts {
		facts[i].projAssignees = idx[facts[i].projectID]
	}
	return facts
}

// foldStatus flattens the free-form status variants into a comparable form.
func foldStatus(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, "_", "-")
	s = strings.ReplaceAll(s, " ", "-")
	return s
}
