package recommendation

import (
	"context"

	types "github.com/yungbote/mindbridge-backend/internal/domain"
)

// ActivityFilters narrow the candidate set before scoring. Eligibility,
// exclusion, and duration filtering are registry responsibilities; the scorer
// assumes its input is already filtered.
type ActivityFilters struct {
	MaxDuration int      // minutes; 0 means unconstrained
	AvoidTypes  []string // activity types the user asked to skip
}

// Registry is the external activity catalog the engine consumes. Authoring
// and curation of activities live behind this interface.
type Registry interface {
	GetSuitableActivities(ctx context.Context, user types.UserContext, filters ActivityFilters) ([]types.ActivityDescriptor, error)
	GetCrisisActivities(ctx context.Context, user types.UserContext) ([]types.ActivityDescriptor, error)
}
