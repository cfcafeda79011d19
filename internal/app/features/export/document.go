// internal/app/features/export/document.go
package export

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	"github.com/microcosm-cc/bluemonday"

	"github.com/nexorahq/nexora/internal/app/analytics"
)

//go:embed templates/*.gohtml
var templateFS embed.FS

var reportTmpl = template.Must(template.ParseFS(templateFS, "templates/*.gohtml"))

// scrub strips any markup from user-supplied display names before they
// enter the document.
var scrub = bluemonday.StrictPolicy()

type kpiCell struct {
	Label string
	Value string
}

// documentData is the template input shared by all three scopes; scope
// sections the report doesn't carry stay nil and render nothing.
type documentData struct {
	Title       string
	Range       string
	Start       string
	End         string
	GeneratedAt string

	KPIs          []kpiCell
	Facilities    []analytics.FacilitySummary
	Members       []analytics.MemberSummary
	TimelineTitle string
	Timeline      []analytics.TaskRef
	Insights      []analytics.Insight
}

func metaFields(d *documentData, m analytics.Meta) {
	d.Range = m.Range
	d.Start = m.Start.Format("Jan 2, 2006")
	d.End = m.End.Format("Jan 2, 2006")
	d.GeneratedAt = m.GeneratedAt.Format("Jan 2, 2006 15:04 MST")
}

func pct(v float64) string { return fmt.Sprintf("%.1f%%", v) }

func scrubMembers(rows []analytics.MemberSummary) []analytics.MemberSummary {
	out := make([]analytics.MemberSummary, len(rows))
	for i, r := range rows {
		r.Name = scrub.Sanitize(r.Name)
		r.FacilityName = scrub.Sanitize(r.FacilityName)
		out[i] = r
	}
	return out
}

func scrubFacilities(rows []analytics.FacilitySummary) []analytics.FacilitySummary {
	out := make([]analytics.FacilitySummary, len(rows))
	for i, r := range rows {
		r.Name = scrub.Sanitize(r.Name)
		out[i] = r
	}
	return out
}

// GlobalHTML renders the cross-facility report document.
func GlobalHTML(rep *analytics.GlobalReport) (string, error) {
	d := documentData{
		Title: "Workload Analytics — All Facilities",
		KPIs: []kpiCell{
			{"Facilities", fmt.Sprint(rep.KPIs.TotalFacilities)},
			{"Members", fmt.Sprint(rep.KPIs.TotalMembers)},
			{"Tasks", fmt.Sprint(rep.KPIs.TotalTasks)},
			{"Avg Utilization", pct(rep.KPIs.AvgUtilization)},
			{"Completion", pct(rep.KPIs.CompletionRate)},
			{"Overdue", fmt.Sprint(rep.KPIs.OverdueTasks)},
		},
		Facilities: scrubFacilities(rep.Facilities),
		Members:    scrubMembers(rep.Members),
		Insights:   rep.Insights,
	}
	metaFields(&d, rep.Meta)
	return execute(d)
}

// FacilityHTML renders the single-facility report document.
func FacilityHTML(rep *analytics.FacilityReport) (string, error) {
	d := documentData{
		Title: "Facility Analytics — " + scrub.Sanitize(rep.FacilityName),
		KPIs: []kpiCell{
			{"Utilization", pct(rep.KPIs.Utilization)},
			{"Status", rep.KPIs.Status},
			{"Completion", pct(rep.KPIs.CompletionRate)},
			{"Projects", fmt.Sprint(rep.KPIs.ActiveProjects)},
			{"Members", fmt.Sprint(rep.KPIs.TotalMembers)},
			{"Overdue", fmt.Sprint(rep.KPIs.OverdueTasks)},
		},
		Members:       scrubMembers(rep.Members),
		TimelineTitle: "Unassigned tasks",
		Timeline:      rep.UnassignedTasks,
		Insights:      rep.Insights,
	}
	metaFields(&d, rep.Meta)
	return execute(d)
}

// MemberHTML renders the per-member report document.
func MemberHTML(rep *analytics.MemberReport) (string, error) {
	d := documentData{
		Title: "Member Analytics — " + scrub.Sanitize(rep.Name),
		KPIs: []kpiCell{
			{"Utilization", pct(rep.KPIs.Utilization)},
			{"Status", rep.KPIs.Status},
			{"Completion", pct(rep.KPIs.CompletionRate)},
			{"Active", fmt.Sprint(rep.KPIs.ActiveTasks)},
			{"Completed", fmt.Sprint(rep.KPIs.CompletedTasks)},
			{"Overdue", fmt.Sprint(rep.KPIs.OverdueTasks)},
		},
		TimelineTitle: "Recent tasks",
		Timeline:      rep.Timeline,
		Insights:      rep.Insights,
	}
	metaFields(&d, rep.Meta)
	return execute(d)
}

func execute(d documentData) (string, error) {
	var buf bytes.Buffer
	if err := reportTmpl.ExecuteTemplate(&buf, "report.gohtml", d); err != nil {
		return "", fmt.Errorf("render report document: %w", err)
	}
	return buf.String(), nil
}
