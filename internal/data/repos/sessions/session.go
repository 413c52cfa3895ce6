package sessions

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/mindbridge-backend/internal/domain"
	"github.com/yungbote/mindbridge-backend/internal/modules/session"
	"github.com/yungbote/mindbridge-backend/internal/platform/logger"
)

// SessionRepo is the gorm-backed session.Store. Production storage; tests
// and local runs can use session.MemoryStore instead.
type SessionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

var _ session.Store = (*SessionRepo)(nil)

func NewSessionRepo(db *gorm.DB, baseLog *logger.Logger) *SessionRepo {
	return &SessionRepo{
		db:  db,
		log: baseLog.With("repo", "SessionRepo"),
	}
}

func (r *SessionRepo) Save(ctx context.Context, s *types.ActivitySession) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *SessionRepo) Load(ctx context.Context, id uuid.UUID) (*types.ActivitySession, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	var row types.ActivitySession
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		Limit(1).
		Find(&row).Error; err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, nil
	}
	return &row, nil
}

func (r *SessionRepo) Update(ctx context.Context, s *types.ActivitySession) error {
	res := r.db.WithContext(ctx).
		Model(&types.ActivitySession{}).
		Where("id = ?", s.ID).
		Select("*").
		Omit("id", "created_at").
		Updates(s)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("update session %s: %w", s.ID, session.ErrSessionNotFound)
	}
	return nil
}

func (r *SessionRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&types.ActivitySession{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("delete session %s: %w", id, session.ErrSessionNotFound)
	}
	return nil
}

func (r *SessionRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]*types.ActivitySession, error) {
	var rows []*types.ActivitySession
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *SessionRepo) ListNonTerminal(ctx context.Context) ([]*types.ActivitySession, error) {
	var rows []*types.ActivitySession
	if err := r.db.WithContext(ctx).
		Where("status NOT IN ?", []types.SessionStatus{types.SessionCompleted, types.SessionAbandoned}).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
