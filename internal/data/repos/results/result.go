package results

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/mindbridge-backend/internal/domain"
	"github.com/yungbote/mindbridge-backend/internal/modules/recommendation"
	"github.com/yungbote/mindbridge-backend/internal/platform/logger"
)

// ActivityResultRepo persists finished-engagement rows. The engine's bounded
// in-process window stays authoritative for scoring; this is the durable
// record.
type ActivityResultRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

var _ recommendation.ResultStore = (*ActivityResultRepo)(nil)

func NewActivityResultRepo(db *gorm.DB, baseLog *logger.Logger) *ActivityResultRepo {
	return &ActivityResultRepo{
		db:  db,
		log: baseLog.With("repo", "ActivityResultRepo"),
	}
}

func (r *ActivityResultRepo) SaveResult(ctx context.Context, result types.ActivityResult) error {
	if result.ID == uuid.Nil {
		result.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(&result).Error
}

// ListResultsByUser returns the user's most recent results, oldest first,
// capped at limit.
func (r *ActivityResultRepo) ListResultsByUser(ctx context.Context, userID uuid.UUID, limit int) ([]types.ActivityResult, error) {
	var rows []types.ActivityResult
	q := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("recorded_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	// reverse into oldest-first to match the in-process window
	for i, j := 0, len(rows)-1; i < j; i, j = i+1, j-1 {
		rows[i], rows[j] = rows[j], rows[i]
	}
	return rows, nil
}
