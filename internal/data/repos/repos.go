package repos

import (
	"gorm.io/gorm"

	"github.com/yungbote/mindbridge-backend/internal/data/repos/results"
	"github.com/yungbote/mindbridge-backend/internal/data/repos/sessions"
	"github.com/yungbote/mindbridge-backend/internal/platform/logger"
)

type SessionRepo = sessions.SessionRepo
type ActivityResultRepo = results.ActivityResultRepo

func NewSessionRepo(db *gorm.DB, baseLog *logger.Logger) *SessionRepo {
	return sessions.NewSessionRepo(db, baseLog)
}

func NewActivityResultRepo(db *gorm.DB, baseLog *logger.Logger) *ActivityResultRepo {
	return results.NewActivityResultRepo(db, baseLog)
}
