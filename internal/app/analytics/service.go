// internal/app/analytics/service.go
package analytics

import (
	"context"
	"errors"
	"math"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/nexorahq/nexora/internal/app/system/identity"
	"github.com/nexorahq/nexora/internal/domain/models"
)

// Sentinel errors surfaced to the HTTP layer.
var (
	ErrAccessDenied     = errors.New("analytics: access denied")
	ErrFacilityNotFound = errors.New("analytics: facility not found")
)

// Service computes the three report scopes on top of the read stores,
// memoizing assembled payloads in a short-TTL cache.
type Service struct {
	stores   Stores
	cache    *ReportCache
	resolver *identity.Resolver
	log      *zap.Logger
	now      func() time.Time
}

func NewService(stores Stores, cache *ReportCache, log *zap.Logger) *Service {
	if cache == nil {
		cache = NewReportCache(DefaultCacheTTL)
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		stores:   stores,
		cache:    cache,
		resolver: identity.NewResolver(stores.Users),
		log:      log,
		now:      time.Now,
	}
}

// identityKeys returns every string a task document may use to reference
// this user as an assignee.
func identityKeys(u models.User) []string {
	keys := []string{u.ID.Hex()}
	if u.FirebaseUID != "" {
		keys = append(keys, u.FirebaseUID)
	}
	return keys
}

// Global assembles the cross-facility report for every facility the user
// belongs to.
func (s *Service) Global(ctx context.Context, userID primitive.ObjectID, rangeToken string) (*GlobalReport, error) {
	now := s.now().UTC()
	token, window := ParseRange(rangeToken, now)

	key := CacheKey("global", userID.Hex(), token)
	if v, ok := s.cache.Get(key); ok {
		if rep, ok := v.(*GlobalReport); ok {
			return rep, nil
		}
	}

	mems, err := s.stores.Memberships.ByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	roleByFacility := make(map[primitive.ObjectID]string, len(mems))
	facilityIDs := make([]primitive.ObjectID, 0, len(mems))
	for _, m := range mems {
		if _, dup := roleByFacility[m.FacilityID]; dup {
			continue
		}
		roleByFacility[m.FacilityID] = m.Role
		facilityIDs = append(facilityIDs, m.FacilityID)
	}

	rep := &GlobalReport{
		Meta:       Meta{GeneratedAt: now, Range: token, Start: window.Start, End: window.End},
		Facilities: []FacilitySummary{},
		Members:    []MemberSummary{},
	}

	if len(facilityIDs) == 0 {
		rep.Insights = BuildInsights(Snapshot{Scope: "global"})
		s.cache.Set(key, rep)
		return rep, nil
	}

	facilities, err := s.stores.Facilities.ByIDs(ctx, facilityIDs)
	if err != nil {
		return nil, err
	}
	projectsByFacility := s.fetchProjectsForFacilities(ctx, facilityIDs)

	viewer, verr := s.stores.Users.GetByID(ctx, userID)
	if verr != nil {
		s.log.Warn("viewer lookup failed", zap.String("user", userID.Hex()), zap.Error(verr))
	}
	viewerKeys := identityKeys(viewer)

	var (
		allFacts     []taskFacts
		utilSum      float64
		completedCur int
		overdueTotal int
		memberSet    = make(map[primitive.ObjectID]bool)
		totalProj    int
	)

	for _, fac := range facilities {
		projects := projectsByFacility[fac.ID]
		tasks := s.fetchTasksForProjects(ctx, projects)
		facts := attachProjectAssignees(normalizeFiltered(tasks, window, now), projectAssigneeIndex(projects))

		// Members and guests only see their own slice of the facility.
		role := roleByFacility[fac.ID]
		managerial := role == models.RoleOwner || role == models.RoleManager
		if !managerial {
			facts = filterAssigned(facts, viewerKeys)
		}

		facMems, merr := s.stores.Memberships.ByFacility(ctx, fac.ID)
		if merr != nil {
			s.log.Warn("facility membership lookup failed", zap.String("facility", fac.ID.Hex()), zap.Error(merr))
		}

		b := breakdownOf(facts, now)
		util := b.Utilization()
		counts := countStatuses(facts, now)

		rep.Facilities = append(rep.Facilities, FacilitySummary{
			ID:          fac.ID.Hex(),
			Name:        fac.Name,
			Utilization: round1(util),
			Status:      FacilityStatus(util),
			Trend:       s.windowTrend(tasks, window, now),
			Members:     len(facMems),
			Projects:    len(projects),
			TaskCounts:  counts,
		})

		// Managerial viewers get the full member table; plain members and
		// guests still get their own row so every membership is represented.
		rowMems := facMems
		if !managerial {
			rowMems = []models.UserFacility{{UserID: userID, FacilityID: fac.ID, Role: role}}
		}
		rep.Members = append(rep.Members, s.memberRows(ctx, fac, rowMems, facts, now)...)

		for _, m := range facMems {
			memberSet[m.UserID] = true
		}
		utilSum += util
		completedCur += b.Completed
		overdueTotal += b.Overdue
		totalProj += len(projects)
		allFacts = append(allFacts, facts...)
	}

	allFacts = dedupFacts(allFacts)
	total := breakdownOf(allFacts, now)
	rep.TaskCounts = countStatuses(allFacts, now)

	kpis := GlobalKPIs{
		TotalFacilities: len(facilities),
		TotalMembers:    len(memberSet),
		TotalProjects:   totalProj,
		TotalTasks:      total.Total(),
		CompletionRate:  round1(total.CompletionRate()),
		OverdueTasks:    total.Overdue,
	}
	if len(facilities) > 0 {
		kpis.AvgUtilization = round1(utilSum / float64(len(facilities)))
	}
	for _, f := range rep.Facilities {
		if f.Status == FacilityStatusCritical {
			kpis.CriticalFacilities++
		}
	}
	rep.KPIs = kpis

	lowFacilities := 0
	for _, f := range rep.Facilities {
		if f.Status == FacilityStatusLow {
			lowFacilities++
		}
	}
	rep.Insights = BuildInsights(Snapshot{
		Scope:              "global",
		Utilization:        kpis.AvgUtilization,
		CompletionRate:     kpis.CompletionRate,
		OngoingRatio:       total.OngoingRatio(),
		TotalTasks:         total.Total(),
		OverdueCount:       total.Overdue,
		CriticalFacilities: kpis.CriticalFacilities,
		LowFacilities:      lowFacilities,
	})

	s.cache.Set(key, rep)
	return rep, nil
}

// Facility assembles the drill-down report for one facility. The viewer
// must be a member; non-managerial viewers see only their own tasks and
// their own member row.
func (s *Service) Facility(ctx context.Context, userID, facilityID primitive.ObjectID, rangeToken string) (*FacilityReport, error) {
	now := s.now().UTC()
	token, window := ParseRange(rangeToken, now)

	key := CacheKey("facility", userID.Hex(), facilityID.Hex(), token)
	if v, ok := s.cache.Get(key); ok {
		if rep, ok := v.(*FacilityReport); ok {
			return rep, nil
		}
	}

	mem, err := s.stores.Memberships.Get(ctx, userID, facilityID)
	if err != nil {
		return nil, ErrAccessDenied
	}
	managerial := mem.IsManagerial()

	fac, err := s.stores.Facilities.GetByID(ctx, facilityID)
	if err != nil {
		return nil, ErrFacilityNotFound
	}

	projects, err := s.stores.Projects.ByFacility(ctx, facilityID)
	if err != nil {
		return nil, err
	}
	tasks := s.fetchTasksForProjects(ctx, projects)
	facts := attachProjectAssignees(normalizeFiltered(tasks, window, now), projectAssigneeIndex(projects))

	viewer, verr := s.stores.Users.GetByID(ctx, userID)
	if verr != nil {
		s.log.Warn("viewer lookup failed", zap.String("user", userID.Hex()), zap.Error(verr))
	}
	if !managerial {
		facts = filterAssigned(facts, identityKeys(viewer))
	}

	facMems, merr := s.stores.Memberships.ByFacility(ctx, facilityID)
	if merr != nil {
		s.log.Warn("facility membership lookup failed", zap.String("facility", facilityID.Hex()), zap.Error(merr))
	}
	rowMems := facMems
	if !managerial {
		rowMems = []models.UserFacility{mem}
	}

	b := breakdownOf(facts, now)
	util := b.Utilization()

	projectNames := make(map[string]string, len(projects))
	for _, p := range projects {
		projectNames[p.ID.Hex()] = p.Name
	}

	rep := &FacilityReport{
		Meta:         Meta{GeneratedAt: now, Range: token, Start: window.Start, End: window.End},
		FacilityID:   facilityID.Hex(),
		FacilityName: fac.Name,
		KPIs: FacilityKPIs{
			Utilization:    round1(util),
			Status:         FacilityStatus(util),
			Trend:          s.windowTrend(tasks, window, now),
			CompletionRate: round1(b.CompletionRate()),
			ActiveProjects: len(projects),
			TotalMembers:   len(facMems),
			OverdueTasks:   b.Overdue,
		},
		Charts: FacilityCharts{
			StatusDistribution: countStatuses(facts, now),
			Calendar:           calendarBuckets(facts, now),
			WeeklyThroughput:   weeklyBuckets(facts, window, now),
			ProjectBreakdown:   projectSlices(facts, projectNames),
		},
		Members:         s.memberRows(ctx, fac, rowMems, facts, now),
		UnassignedTasks: unassignedRefs(facts, projectNames),
	}

	overloaded := 0
	for _, r := range rep.Members {
		if r.Status == StatusOverloaded {
			overloaded++
		}
	}
	rep.Insights = BuildInsights(Snapshot{
		Scope:             "facility",
		Utilization:       rep.KPIs.Utilization,
		CompletionRate:    rep.KPIs.CompletionRate,
		OngoingRatio:      b.OngoingRatio(),
		TotalTasks:        b.Total(),
		OverdueCount:      b.Overdue,
		OverloadedMembers: overloaded,
	})

	s.cache.Set(key, rep)
	return rep, nil
}

// Member assembles the per-member report. The target may be referenced by
// ObjectID hex, external auth UID, or email; an unresolvable reference
// yields an empty stub report rather than an error. A non-zero facilityID
// narrows the task lookup to that facility; NilObjectID keeps the
// cross-facility view.
func (s *Service) Member(ctx context.Context, viewerID primitive.ObjectID, targetRef string, facilityID primitive.ObjectID, rangeToken string) (*MemberReport, error) {
	now := s.now().UTC()
	token, window := ParseRange(rangeToken, now)

	keyParts := []string{"member", viewerID.Hex(), targetRef}
	if !facilityID.IsZero() {
		keyParts = append(keyParts, facilityID.Hex())
	}
	key := CacheKey(append(keyParts, token)...)
	if v, ok := s.cache.Get(key); ok {
		if rep, ok := v.(*MemberReport); ok {
			return rep, nil
		}
	}

	target, err := s.resolver.Resolve(ctx, targetRef)
	if err != nil {
		s.log.Warn("member reference unresolvable", zap.String("ref", targetRef))
		rep := s.stubMemberReport(targetRef, token, window, now)
		s.cache.Set(key, rep)
		return rep, nil
	}

	if !s.CanAccessMemberAnalytics(ctx, viewerID, target.ID) {
		return nil, ErrAccessDenied
	}

	keys := identityKeys(target)
	tasks, projectNames, assigneeIdx := s.memberTasks(ctx, target, keys, facilityID)
	facts := filterAssigned(attachProjectAssignees(normalizeFiltered(tasks, window, now), assigneeIdx), keys)

	b := breakdownOf(facts, now)
	upcoming := upcomingDeadlines(facts, now)

	rep := &MemberReport{
		Meta:   Meta{GeneratedAt: now, Range: token, Start: window.Start, End: window.End},
		UserID: target.ID.Hex(),
		Name:   target.DisplayName(),
		Email:  target.Email,
		KPIs: MemberKPIs{
			Utilization:       round1(b.Utilization()),
			Status:            MemberStatus(b, upcoming),
			Trend:             s.memberTrend(tasks, keys, assigneeIdx, window, now),
			CompletionRate:    round1(b.CompletionRate()),
			ActiveTasks:       b.InProgress + b.Pending,
			CompletedTasks:    b.Completed,
			OverdueTasks:      b.Overdue,
			UpcomingDeadlines: upcoming,
		},
		Charts: MemberCharts{
			StatusDistribution: countStatuses(facts, now),
			Daily:              calendarBuckets(facts, now),
			WeeklyThroughput:   weeklyBuckets(facts, window, now),
		},
		Timeline: timelineRefs(ctx, s, facts, projectNames),
	}

	rep.Insights = BuildInsights(Snapshot{
		Scope:          "member",
		Utilization:    rep.KPIs.Utilization,
		CompletionRate: rep.KPIs.CompletionRate,
		OngoingRatio:   b.OngoingRatio(),
		TotalTasks:     b.Total(),
		OverdueCount:   b.Overdue,
	})

	s.cache.Set(key, rep)
	return rep, nil
}

// memberTasks gathers the target's candidate tasks. A non-zero facilityID
// restricts the walk to that facility's projects. Otherwise the primary
// path walks all of the target's facilities; when that yields nothing (no
// memberships, or the fan-out came back empty) the direct assignee index
// is the cross-facility fallback.
func (s *Service) memberTasks(ctx context.Context, target models.User, keys []string, facilityID primitive.ObjectID) ([]models.Task, map[string]string, map[string][]string) {
	projectNames := make(map[string]string)
	assigneeIdx := make(map[string][]string)

	collect := func(projects []models.Project) []models.Task {
		for _, p := range projects {
			projectNames[p.ID.Hex()] = p.Name
			if len(p.Assignees) > 0 {
				assigneeIdx[p.ID.Hex()] = p.Assignees
			}
		}
		return s.fetchTasksForProjects(ctx, projects)
	}

	if !facilityID.IsZero() {
		projects, err := s.stores.Projects.ByFacility(ctx, facilityID)
		if err != nil {
			s.log.Warn("facility project lookup failed", zap.String("facility", facilityID.Hex()), zap.Error(err))
		}
		return dedupTasks(collect(projects)), projectNames, assigneeIdx
	}

	mems, err := s.stores.Memberships.ByUser(ctx, target.ID)
	if err != nil {
		s.log.Warn("target membership lookup failed", zap.String("user", target.ID.Hex()), zap.Error(err))
	}

	var tasks []models.Task
	if len(mems) > 0 {
		ids := make([]primitive.ObjectID, 0, len(mems))
		for _, m := range mems {
			ids = append(ids, m.FacilityID)
		}
		for _, projects := range s.fetchProjectsForFacilities(ctx, ids) {
			tasks = append(tasks, collect(projects)...)
		}
	}

	if len(tasks) == 0 {
		direct, derr := s.stores.Tasks.ByAssignee(ctx, keys)
		if derr != nil {
			s.log.Warn("assignee task lookup failed", zap.String("user", target.ID.Hex()), zap.Error(derr))
		}
		tasks = direct
	}
	return dedupTasks(tasks), projectNames, assigneeIdx
}

// stubMemberReport is the zeroed payload returned for unresolvable member
// references.
func (s *Service) stubMemberReport(ref, token string, window Window, now time.Time) *MemberReport {
	return &MemberReport{
		Meta:   Meta{GeneratedAt: now, Range: token, Start: window.Start, End: window.End},
		UserID: "",
		Name:   ref,
		KPIs:   MemberKPIs{Status: StatusBalanced},
		Charts: MemberCharts{
			Daily:            []DayBucket{},
			WeeklyThroughput: []WeekBucket{},
		},
		Timeline: []TaskRef{},
		Insights: BuildInsights(Snapshot{Scope: "member"}),
	}
}

// memberRows computes one summary row per facility membership.
func (s *Service) memberRows(ctx context.Context, fac models.Facility, mems []models.UserFacility, facts []taskFacts, now time.Time) []MemberSummary {
	if len(mems) == 0 {
		return []MemberSummary{}
	}

	ids := make([]primitive.ObjectID, 0, len(mems))
	for _, m := range mems {
		ids = append(ids, m.UserID)
	}
	users, err := s.stores.Users.ByIDs(ctx, ids)
	if err != nil {
		s.log.Warn("member user lookup failed", zap.String("facility", fac.ID.Hex()), zap.Error(err))
	}
	byID := make(map[primitive.ObjectID]models.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}

	rows := make([]MemberSummary, 0, len(mems))
	for _, m := range mems {
		u, known := byID[m.UserID]
		if !known {
			u = models.User{ID: m.UserID}
		}
		mine := filterAssigned(facts, identityKeys(u))
		b := breakdownOf(mine, now)
		upcoming := upcomingDeadlines(mine, now)

		rows = append(rows, MemberSummary{
			UserID:            m.UserID.Hex(),
			Name:              u.DisplayName(),
			Email:             u.Email,
			FacilityID:        fac.ID.Hex(),
			FacilityName:      fac.Name,
			Role:              m.Role,
			Utilization:       round1(b.Utilization()),
			Status:            MemberStatus(b, upcoming),
			ActiveTasks:       b.InProgress + b.Pending,
			CompletedTasks:    b.Completed,
			OverdueTasks:      b.Overdue,
			UpcomingDeadlines: upcoming,
		})
	}

	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Utilization > rows[j].Utilization })
	return rows
}

// windowTrend compares completed counts in the current window against the
// preceding one, over the raw (unfiltered) task set.
func (s *Service) windowTrend(tasks []models.Task, window Window, now time.Time) int {
	facts := normalizeTasks(tasks)
	cur := completedIn(facts, window, now)
	prev := completedIn(facts, window.Previous(), now)
	totalCur := len(filterWindow(facts, window, now))
	return Trend(cur, prev, totalCur)
}

// memberTrend is windowTrend restricted to the member's assignments,
// direct or inherited through the project assignee index.
func (s *Service) memberTrend(tasks []models.Task, keys []string, assigneeIdx map[string][]string, window Window, now time.Time) int {
	facts := filterAssigned(attachProjectAssignees(normalizeTasks(tasks), assigneeIdx), keys)
	cur := completedIn(facts, window, now)
	prev := completedIn(facts, window.Previous(), now)
	totalCur := len(filterWindow(facts, window, now))
	return Trend(cur, prev, totalCur)
}

// --- pure helpers ---

// normalizeFiltered normalizes a raw task set and applies the window
// filter in one step.
func normalizeFiltered(tasks []models.Task, window Window, now time.Time) []taskFacts {
	return filterWindow(normalizeTasks(tasks), window, now)
}

// filterWindow keeps tasks active in the window: anything not yet
// completed always counts, completed tasks only when their last activity
// falls inside the window.
func filterWindow(facts []taskFacts, window Window, now time.Time) []taskFacts {
	out := make([]taskFacts, 0, len(facts))
	for _, f := range facts {
		if classify(f, now) != classCompleted {
			out = append(out, f)
			continue
		}
		if at, ok := f.relevantAt(); ok && window.Contains(at) {
			out = append(out, f)
		}
	}
	return out
}

// completedIn counts tasks completed with last activity inside w.
func completedIn(facts []taskFacts, w Window, now time.Time) int {
	n := 0
	for _, f := range facts {
		if classify(f, now) != classCompleted {
			continue
		}
		if at, ok := f.relevantAt(); ok && w.Contains(at) {
			n++
		}
	}
	return n
}

// filterAssigned keeps tasks carrying one of the given identity keys.
func filterAssigned(facts []taskFacts, keys []string) []taskFacts {
	out := make([]taskFacts, 0, len(facts))
	for _, f := range facts {
		if f.assignedTo(keys) {
			out = append(out, f)
		}
	}
	return out
}

// dedupFacts drops repeated task IDs, keeping first occurrence.
func dedupFacts(facts []taskFacts) []taskFacts {
	seen := make(map[string]bool, len(facts))
	out := make([]taskFacts, 0, len(facts))
	for _, f := range facts {
		if seen[f.id] {
			continue
		}
		seen[f.id] = true
		out = append(out, f)
	}
	return out
}

// dedupTasks drops repeated task IDs from a raw slice.
func dedupTasks(tasks []models.Task) []models.Task {
	seen := make(map[primitive.ObjectID]bool, len(tasks))
	out := make([]models.Task, 0, len(tasks))
	for _, t := range tasks {
		if seen[t.ID] {
			continue
		}
		seen[t.ID] = true
		out = append(out, t)
	}
	return out
}

// countStatuses maps the task set onto the wire-level status distribution.
// Review stays its own column here even though utilization scoring folds
// it into in-progress.
func countStatuses(facts []taskFacts, now time.Time) TaskCounts {
	var c TaskCounts
	for _, f := range facts {
		switch classify(f, now) {
		case classCompleted:
			c.Done++
		case classOverdue:
			c.Overdue++
		case classInProgress:
			if f.status == "review" {
				c.Review++
			} else {
				c.InProgress++
			}
		default:
			c.Pending++
		}
		c.Total++
	}
	return c
}

// weeklyBuckets splits the window into 7-day columns.
func weeklyBuckets(facts []taskFacts, window Window, now time.Time) []WeekBucket {
	weeks := int(window.End.Sub(window.Start).Hours() / (24 * 7))
	if weeks <= 0 {
		weeks = 1
	}
	buckets := make([]WeekBucket, weeks)
	for i := range buckets {
		start := window.Start.AddDate(0, 0, 7*i)
		buckets[i].Label = start.Format("Jan 2")
	}

	idx := func(t time.Time) int {
		if t.Before(window.Start) || t.After(window.End) {
			return -1
		}
		i := int(t.Sub(window.Start).Hours() / (24 * 7))
		if i >= weeks {
			i = weeks - 1
		}
		return i
	}

	for _, f := range facts {
		if f.created.ok {
			if i := idx(f.created.t); i >= 0 {
				buckets[i].Created++
			}
		}
		if classify(f, now) == classCompleted {
			if at, ok := f.relevantAt(); ok {
				if i := idx(at); i >= 0 {
					buckets[i].Completed++
				}
			}
		}
	}
	return buckets
}

// calendarBuckets builds the day-by-day workload series for the current
// month: tasks grouped by due date, each day scored with the weighted
// utilization formula. Days without due tasks stay at zero so the series
// always spans the whole month.
func calendarBuckets(facts []taskFacts, now time.Time) []DayBucket {
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	next := first.AddDate(0, 1, 0)
	days := int(next.Sub(first).Hours() / 24)

	byDay := make(map[int][]taskFacts)
	for _, f := range facts {
		if !f.due.ok {
			continue
		}
		d := f.due.t.UTC()
		if d.Before(first) || !d.Before(next) {
			continue
		}
		byDay[d.Day()-1] = append(byDay[d.Day()-1], f)
	}

	out := make([]DayBucket, days)
	for i := range out {
		day := first.AddDate(0, 0, i)
		dayFacts := byDay[i]
		out[i] = DayBucket{
			Date:        day.Format("2006-01-02"),
			Tasks:       len(dayFacts),
			Utilization: round1(breakdownOf(dayFacts, now).Utilization()),
		}
	}
	return out
}

// projectSlices counts tasks per project for the distribution chart.
func projectSlices(facts []taskFacts, projectNames map[string]string) []ProjectSlice {
	counts := make(map[string]int)
	for _, f := range facts {
		counts[f.projectID]++
	}
	out := make([]ProjectSlice, 0, len(counts))
	for id, n := range counts {
		out = append(out, ProjectSlice{ProjectID: id, Name: projectNames[id], Tasks: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Tasks != out[j].Tasks {
			return out[i].Tasks > out[j].Tasks
		}
		return out[i].ProjectID < out[j].ProjectID
	})
	return out
}

// unassignedRefs lists tasks with no assignment signal, surfaced on the
// facility report instead of being silently spread across members.
func unassignedRefs(facts []taskFacts, projectNames map[string]string) []TaskRef {
	out := []TaskRef{}
	for _, f := range facts {
		if !f.unassigned() {
			continue
		}
		out = append(out, taskRef(f, projectNames[f.projectID]))
	}
	return out
}

// timelineCap bounds the member timeline length.
const timelineCap = 20

// timelineRefs returns the member's most recently active tasks, newest
// first, resolving project names not already known.
func timelineRefs(ctx context.Context, s *Service, facts []taskFacts, projectNames map[string]string) []TaskRef {
	sorted := make([]taskFacts, len(facts))
	copy(sorted, facts)
	sort.SliceStable(sorted, func(i, j int) bool {
		ai, iok := sorted[i].relevantAt()
		aj, jok := sorted[j].relevantAt()
		if iok != jok {
			return iok
		}
		return ai.After(aj)
	})
	if len(sorted) > timelineCap {
		sorted = sorted[:timelineCap]
	}

	out := make([]TaskRef, 0, len(sorted))
	for _, f := range sorted {
		name, ok := projectNames[f.projectID]
		if !ok {
			if oid, err := primitive.ObjectIDFromHex(f.projectID); err == nil {
				if p, err := s.stores.Projects.GetByID(ctx, oid); err == nil {
					name = p.Name
				}
			}
			projectNames[f.projectID] = name
		}
		out = append(out, taskRef(f, name))
	}
	return out
}

func taskRef(f taskFacts, projectName string) TaskRef {
	ref := TaskRef{
		ID:          f.id,
		Title:       f.title,
		ProjectID:   f.projectID,
		ProjectName: projectName,
		Status:      f.status,
		Priority:    f.priority,
	}
	if f.due.ok {
		d := f.due.t
		ref.DueDate = &d
	}
	return ref
}

// round1 rounds to one decimal place for wire payloads.
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
