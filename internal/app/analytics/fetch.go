// internal/app/analytics/fetch.go
package analytics

import (
	"context"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/nexorahq/nexora/internal/domain/models"
)

// fetchTasksForProjects fans out one task query per project and merges
// the results, deduplicating by task ID. A failed per-project query is
// logged and contributes nothing; the merged slice is still returned so
// a single slow or broken shard doesn't sink the whole report.
func (s *Service) fetchTasksForProjects(ctx context.Context, projects []models.Project) []models.Task {
	if len(projects) == 0 {
		return nil
	}

	results := make([][]models.Task, len(projects))
	var wg sync.WaitGroup
	for i, p := range projects {
		wg.Add(1)
		go func(i int, id primitive.ObjectID) {
			defer wg.Done()
			tasks, err := s.stores.Tasks.ByProject(ctx, id)
			if err != nil {
				s.log.Warn("task fetch failed", zap.String("project", id.Hex()), zap.Error(err))
				return
			}
			results[i] = tasks
		}(i, p.ID)
	}
	wg.Wait()

	seen := make(map[primitive.ObjectID]bool)
	var merged []models.Task
	for _, batch := range results {
		for _, t := range batch {
			if seen[t.ID] {
				continue
			}
			seen[t.ID] = true
			merged = append(merged, t)
		}
	}
	return merged
}

// fetchProjectsForFacilities fans out one project query per facility.
// Failures degrade to empty per facility, same policy as task fetches.
func (s *Service) fetchProjectsForFacilities(ctx context.Context, facilityIDs []primitive.ObjectID) map[primitive.ObjectID][]models.Project {
	out := make(map[primitive.ObjectID][]models.Project, len(facilityIDs))
	if len(facilityIDs) == 0 {
		return out
	}

	var mu sync.Mutex
	var wg sync.WaitGroup
	for _, fid := range facilityIDs {
		wg.Add(1)
		go func(fid primitive.ObjectID) {
			defer wg.Done()
			projects, err := s.stores.Projects.ByFacility(ctx, fid)
			if err != nil {
				s.log.Warn("project fetch failed", zap.String("facility", fid.Hex()), zap.Error(err))
				return
			}
			mu.Lock()
			out[fid] = projects
			mu.Unlock()
		}(fid)
	}
	wg.Wait()
	return out
}
