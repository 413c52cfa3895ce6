package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	types "github.com/yungbote/mindbridge-backend/internal/domain"
)

// ErrSessionNotFound is returned for lookups and mutations of unknown
// session ids. Sessions are never implicitly created.
var ErrSessionNotFound = errors.New("session not found")

// InvalidTransitionError reports a lifecycle operation attempted from a
// status that does not allow it. No partial mutation happens.
type InvalidTransitionError struct {
	SessionID uuid.UUID
	Status    types.SessionStatus
	Operation string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("session %s: cannot %s from status %q", e.SessionID, e.Operation, e.Status)
}

// Store is the durable session storage consumed by the manager. Load returns
// (nil, nil) when the id is unknown; the manager turns that into
// ErrSessionNotFound.
type Store interface {
	Save(ctx context.Context, s *types.ActivitySession) error
	Load(ctx context.Context, id uuid.UUID) (*types.ActivitySession, error)
	Update(ctx context.Context, s *types.ActivitySession) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*types.ActivitySession, error)
	// ListNonTerminal feeds the idle sweep.
	ListNonTerminal(ctx context.Context) ([]*types.ActivitySession, error)
}

// Event is one lifecycle transition, published for companion services.
type Event struct {
	Type         string    `json:"type"`
	SessionID    uuid.UUID `json:"session_id"`
	UserID       uuid.UUID `json:"user_id"`
	ActivityType string    `json:"activity_type"`
	At           time.Time `json:"at"`
	Reason       string    `json:"reason,omitempty"`
}

const (
	EventCreated       = "session_created"
	EventStarted       = "session_started"
	EventPaused        = "session_paused"
	EventResumed       = "session_resumed"
	EventCompleted     = "session_completed"
	EventAbandoned     = "session_abandoned"
	EventAutoAbandoned = "session_auto_abandoned"
	EventEvicted       = "session_evicted"
)

// EventPublisher fans lifecycle events out to interested services. Optional;
// a nil publisher disables eventing.
type EventPublisher interface {
	PublishSessionEvent(ctx context.Context, ev Event) error
}
