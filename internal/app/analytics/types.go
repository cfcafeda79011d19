// internal/app/analytics/types.go
package analytics

import "time"

// Meta describes the window a report was computed over.
type Meta struct {
	GeneratedAt time.Time `json:"generatedAt"`
	Range       string    `json:"range"`
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
}

// TaskCounts is the shared status breakdown carried on every scope.
type TaskCounts struct {
	Done       int `json:"done"`
	InProgress int `json:"inProgress"`
	Review     int `json:"review"`
	Pending    int `json:"pending"`
	Overdue    int `json:"overdue"`
	Total      int `json:"total"`
}

// GlobalKPIs is the top card row of the cross-facility report.
type GlobalKPIs struct {
	TotalFacilities    int     `json:"totalFacilities"`
	TotalMembers       int     `json:"totalMembers"`
	TotalProjects      int     `json:"totalProjects"`
	TotalTasks         int     `json:"totalTasks"`
	AvgUtilization     float64 `json:"avgUtilization"`
	CompletionRate     float64 `json:"completionRate"`
	OverdueTasks       int     `json:"overdueTasks"`
	CriticalFacilities int     `json:"criticalFacilities"`
}

// FacilitySummary is one row of the global facility table.
type FacilitySummary struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Utilization float64    `json:"utilization"`
	Status      string     `json:"status"`
	Trend       int        `json:"trend"`
	Members     int        `json:"members"`
	Projects    int        `json:"projects"`
	TaskCounts  TaskCounts `json:"taskCounts"`
}

// MemberSummary is one row of a member table; rows are per
// (user, facility) pair, so a user appears once per facility.
type MemberSummary struct {
	UserID            string  `json:"userId"`
	Name              string  `json:"name"`
	Email             string  `json:"email"`
	FacilityID        string  `json:"facilityId"`
	FacilityName      string  `json:"facilityName"`
	Role              string  `json:"role"`
	Utilization       float64 `json:"utilization"`
	Status            string  `json:"status"`
	ActiveTasks       int     `json:"activeTasks"`
	CompletedTasks    int     `json:"completedTasks"`
	OverdueTasks      int     `json:"overdueTasks"`
	UpcomingDeadlines int     `json:"upcomingDeadlines"`
}

// GlobalReport aggregates every facility the requesting user belongs to.
type GlobalReport struct {
	Meta       Meta              `json:"meta"`
	KPIs       GlobalKPIs        `json:"kpis"`
	Facilities []FacilitySummary `json:"facilities"`
	Members    []MemberSummary   `json:"members"`
	TaskCounts TaskCounts        `json:"taskCounts"`
	Insights   []Insight         `json:"insights"`
}

// FacilityKPIs is the card row of a single-facility report.
type FacilityKPIs struct {
	Utilization    float64 `json:"utilization"`
	Status         string  `json:"status"`
	Trend          int     `json:"trend"`
	CompletionRate float64 `json:"completionRate"`
	ActiveProjects int     `json:"activeProjects"`
	TotalMembers   int     `json:"totalMembers"`
	OverdueTasks   int     `json:"overdueTasks"`
}

// WeekBucket is one column of the weekly throughput chart.
type WeekBucket struct {
	Label     string `json:"label"`
	Completed int    `json:"completed"`
	Created   int    `json:"created"`
}

// DayBucket is one day of the calendar workload series: tasks due that
// day, with the day scored by the weighted utilization formula.
type DayBucket struct {
	Date        string  `json:"date"` // YYYY-MM-DD
	Tasks       int     `json:"tasks"`
	Utilization float64 `json:"utilization"`
}

// ProjectSlice is one wedge of the per-project distribution chart.
type ProjectSlice struct {
	ProjectID string `json:"projectId"`
	Name      string `json:"name"`
	Tasks     int    `json:"tasks"`
}

// FacilityCharts groups the chart payloads of a facility report.
type FacilityCharts struct {
	StatusDistribution TaskCounts     `json:"statusDistribution"`
	Calendar           []DayBucket    `json:"calendar"`
	WeeklyThroughput   []WeekBucket   `json:"weeklyThroughput"`
	ProjectBreakdown   []ProjectSlice `json:"projectBreakdown"`
}

// TaskRef is a minimal task pointer used by unassigned lists and
// member timelines.
type TaskRef struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	ProjectID   string     `json:"projectId"`
	ProjectName string     `json:"projectName"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
}

// FacilityReport is the single-facility drill-down.
type FacilityReport struct {
	Meta            Meta            `json:"meta"`
	FacilityID      string          `json:"facilityId"`
	FacilityName    string          `json:"facilityName"`
	KPIs            FacilityKPIs    `json:"kpis"`
	Charts          FacilityCharts  `json:"charts"`
	Members         []MemberSummary `json:"members"`
	UnassignedTasks []TaskRef       `json:"unassignedTasks"`
	Insights        []Insight       `json:"insights"`
}

// MemberKPIs is the card row of a per-member report.
type MemberKPIs struct {
	Utilization       float64 `json:"utilization"`
	Status            string  `json:"status"`
	Trend             int     `json:"trend"`
	CompletionRate    float64 `json:"completionRate"`
	ActiveTasks       int     `json:"activeTasks"`
	CompletedTasks    int     `json:"completedTasks"`
	OverdueTasks      int     `json:"overdueTasks"`
	UpcomingDeadlines int     `json:"upcomingDeadlines"`
}

// MemberCharts groups the chart payloads of a member report.
type MemberCharts struct {
	StatusDistribution TaskCounts   `json:"statusDistribution"`
	Daily              []DayBucket  `json:"daily"`
	WeeklyThroughput   []WeekBucket `json:"weeklyThroughput"`
}

// MemberReport is the per-member drill-down.
type MemberReport struct {
	Meta     Meta         `json:"meta"`
	UserID   string       `json:"userId"`
	Name     string       `json:"name"`
	Email    string       `json:"email"`
	KPIs     MemberKPIs   `json:"kpis"`
	Charts   MemberCharts `json:"charts"`
	Timeline []TaskRef    `json:"timeline"`
	Insights []Insight    `json:"insights"`
}
