package therapy

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type SessionStatus string

const (
	SessionNotStarted SessionStatus = "not_started"
	SessionActive     SessionStatus = "active"
	SessionPaused     SessionStatus = "paused"
	SessionCompleted  SessionStatus = "completed"
	SessionAbandoned  SessionStatus = "abandoned"
)

// Terminal reports whether no further transitions are allowed from s.
func (s SessionStatus) Terminal() bool {
	return s == SessionCompleted || s == SessionAbandoned
}

// SessionConfiguration is the caller-supplied setup for one session.
type SessionConfiguration struct {
	EstimatedDuration int            `json:"estimated_duration,omitempty"` // minutes
	DifficultyLevel   string         `json:"difficulty_level,omitempty"`
	Language          string         `json:"language,omitempty"`
	Settings          map[string]any `json:"settings,omitempty"`
}

// SessionInteraction is one append-only log entry of a user or system event
// inside a session.
type SessionInteraction struct {
	At      time.Time `json:"at"`
	Source  string    `json:"source"` // user | system
	Kind    string    `json:"kind"`
	Content string    `json:"content,omitempty"`
}

// SessionAdaptation records a mid-session adjustment (pace, difficulty, …).
type SessionAdaptation struct {
	At     time.Time `json:"at"`
	Field  string    `json:"field"`
	From   string    `json:"from,omitempty"`
	To     string    `json:"to,omitempty"`
	Reason string    `json:"reason,omitempty"`
}

// SessionResult is attached exactly once, on completion.
type SessionResult struct {
	CompletedSteps   int                `json:"completed_steps"`
	EngagementScore  float64            `json:"engagement_score"`
	SelfReportedMood string             `json:"self_reported_mood,omitempty"`
	Notes            string             `json:"notes,omitempty"`
	Metrics          map[string]float64 `json:"metrics,omitempty"`
}

// ActivitySession is one tracked instance of a user engaging with a single
// activity type. Status transitions are owned by the session lifecycle
// manager; nothing else mutates rows of this table.
type ActivitySession struct {
	ID           uuid.UUID     `gorm:"type:uuid;primaryKey" json:"id"`
	UserID       uuid.UUID     `gorm:"type:uuid;not null;index" json:"user_id"`
	ActivityType string        `gorm:"column:activity_type;not null;index" json:"activity_type"`
	Status       SessionStatus `gorm:"column:status;not null;index" json:"status"`

	Configuration datatypes.JSONType[SessionConfiguration] `gorm:"column:configuration;type:jsonb" json:"configuration"`

	StartTime *time.Time `gorm:"column:start_time;index" json:"start_time,omitempty"`
	EndTime   *time.Time `gorm:"column:end_time" json:"end_time,omitempty"`

	CurrentStep          int     `gorm:"column:current_step;not null;default:0" json:"current_step"`
	TotalSteps           int     `gorm:"column:total_steps;not null" json:"total_steps"`
	UserEngagement       float64 `gorm:"column:user_engagement;not null;default:5" json:"user_engagement"`
	CompletionPercentage float64 `gorm:"column:completion_percentage;not null;default:0" json:"completion_percentage"`

	Adaptations  datatypes.JSONSlice[SessionAdaptation]  `gorm:"column:adaptations;type:jsonb" json:"adaptations,omitempty"`
	Interactions datatypes.JSONSlice[SessionInteraction] `gorm:"column:interactions;type:jsonb" json:"interactions,omitempty"`

	Result *SessionResult `gorm:"column:session_result;type:jsonb;serializer:json" json:"session_result,omitempty"`

	// LastActivityAt is bumped on every mutating call; idle expiry is computed
	// from it, there is no per-session timer handle.
	LastActivityAt time.Time `gorm:"column:last_activity_at;not null;index" json:"last_activity_at"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (ActivitySession) TableName() string { return "activity_session" }

// IdleExpired reports whether the session has seen no mutating call for at
// least timeout as of now. Terminal sessions never expire.
func (s *ActivitySession) IdleExpired(now time.Time, timeout time.Duration) bool {
	if s.Status.Terminal() {
		return false
	}
	return now.Sub(s.LastActivityAt) >= timeout
}
