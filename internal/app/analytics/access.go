// internal/app/analytics/access.go
package analytics

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// CanAccessMemberAnalytics decides whether viewer may see target's
// analytics. The checks are layered from most to least specific:
//
//  1. self-access is always allowed;
//  2. any facility membership grants broad analytics visibility; the
//     global dashboard already exposes cross-facility member rows, so
//     member reports are intentionally no stricter;
//  3. a facility shared with the target, regardless of role;
//  4. an owner or manager role held anywhere.
//
// When the viewer's membership enumeration succeeds, layer 2 subsumes
// layers 3 and 4: both require at least one membership. The later layers
// exist for degraded lookups: if enumeration fails, direct
// (viewer, facility) pair lookups against the target's facilities stand in
// for the shared-facility check before the final deny.
func (s *Service) CanAccessMemberAnalytics(ctx context.Context, viewer, target primitive.ObjectID) bool {
	if viewer == target {
		return true
	}

	viewerMems, verr := s.stores.Memberships.ByUser(ctx, viewer)
	if verr == nil {
		if len(viewerMems) > 0 {
			return true
		}
		// No memberships at all: nothing shared, no managerial role.
		return false
	}
	s.log.Warn("viewer membership lookup failed", zap.String("user", viewer.Hex()), zap.Error(verr))

	targetMems, terr := s.stores.Memberships.ByUser(ctx, target)
	if terr != nil {
		s.log.Warn("target membership lookup failed", zap.String("user", target.Hex()), zap.Error(terr))
		return false
	}
	for _, m := range targetMems {
		if _, err := s.stores.Memberships.Get(ctx, viewer, m.FacilityID); err == nil {
			return true
		}
	}

	return false
}
