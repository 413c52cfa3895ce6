package session

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/yungbote/mindbridge-backend/internal/config"
	types "github.com/yungbote/mindbridge-backend/internal/domain"
	"github.com/yungbote/mindbridge-backend/internal/platform/logger"
)

const evictionReason = "Exceeded maximum concurrent sessions"
const idleReason = "Auto-abandoned due to inactivity"

// baseStepsByType estimates session length per activity type. Unknown types
// fall back to defaultBaseSteps.
var baseStepsByType = map[string]int{
	"breathing_exercise":     6,
	"grounding_technique":    5,
	"guided_meditation":      8,
	"progressive_relaxation": 10,
	"journaling":             5,
	"gratitude_practice":     4,
	"guided_conversation":    12,
	"behavioral_activation":  8,
	"self_assessment":        10,
	"crisis_grounding":       4,
	"crisis_breathing":       4,
}

const (
	defaultBaseSteps  = 6
	minTotalSteps     = 3
	defaultEngagement = 5
)

// ProgressUpdate is a mid-session mutation. Nil fields are left untouched.
type ProgressUpdate struct {
	CurrentStep     *int
	EngagementScore *float64
	Adaptation      *types.SessionAdaptation
}

// Statistics summarize a user's sessions.
type Statistics struct {
	Total          int                         `json:"total"`
	ByStatus       map[types.SessionStatus]int `json:"by_status"`
	CompletionRate float64                     `json:"completion_rate"`
	AvgEngagement  float64                     `json:"avg_engagement"`
	AvgDurationMin float64                     `json:"avg_duration_min"` // completed sessions only
}

// Manager owns the session state machine: per-user concurrency capping,
// idle-timeout auto-abandon, and every legal transition. All mutations to
// activity_session rows go through it.
type Manager struct {
	log    *logger.Logger
	store  Store
	clock  Clock
	cfg    config.Session
	events EventPublisher // nil disables eventing

	lockMu    sync.Mutex
	userLocks map[uuid.UUID]*sync.Mutex
}

func NewManager(log *logger.Logger, store Store, clock Clock, cfg config.Session, events EventPublisher) *Manager {
	if clock == nil {
		clock = RealClock()
	}
	return &Manager{
		log:       log.With("service", "SessionLifecycleManager"),
		store:     store,
		clock:     clock,
		cfg:       cfg,
		events:    events,
		userLocks: make(map[uuid.UUID]*sync.Mutex),
	}
}

// userLock serializes the check-then-create sequence and transition races
// per user.
func (m *Manager) userLock(userID uuid.UUID) *sync.Mutex {
	m.lockMu.Lock()
	defer m.lockMu.Unlock()
	mu, ok := m.userLocks[userID]
	if !ok {
		mu = &sync.Mutex{}
		m.userLocks[userID] = mu
	}
	return mu
}

// CreateSession creates a not_started session. If the user already holds the
// concurrency cap in {active, paused} sessions, the oldest one (by start
// time) is abandoned first; that eviction is a logged side effect, not a
// failure.
func (m *Manager) CreateSession(ctx context.Context, userID uuid.UUID, activityType string, cfg types.SessionConfiguration, _ types.UserContext) (*types.ActivitySession, error) {
	if activityType == "" {
		return nil, fmt.Errorf("activity type is required")
	}

	mu := m.userLock(userID)
	mu.Lock()
	defer mu.Unlock()

	now := m.clock.Now()
	inFlight, err := m.inFlightLocked(ctx, userID, now)
	if err != nil {
		return nil, err
	}
	for len(inFlight) >= m.cfg.MaxConcurrent {
		oldest := oldestByStart(inFlight)
		if err := m.abandonLocked(ctx, oldest, now, evictionReason, EventEvicted); err != nil {
			return nil, fmt.Errorf("evict session %s: %w", oldest.ID, err)
		}
		m.log.Info("Evicted oldest session to respect concurrency cap",
			"user_id", userID, "evicted_session_id", oldest.ID)
		inFlight = removeSession(inFlight, oldest.ID)
	}

	s := &types.ActivitySession{
		ID:                   uuid.New(),
		UserID:               userID,
		ActivityType:         activityType,
		Status:               types.SessionNotStarted,
		CurrentStep:          0,
		TotalSteps:           estimateTotalSteps(activityType, cfg),
		UserEngagement:       defaultEngagement,
		CompletionPercentage: 0,
		LastActivityAt:       now,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
	s.Configuration = datatypes.NewJSONType(cfg)

	if err := m.store.Save(ctx, s); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	m.publish(ctx, s, EventCreated, "")
	m.log.Debug("Created session", "session_id", s.ID, "user_id", userID,
		"activity_type", activityType, "total_steps", s.TotalSteps)
	return s, nil
}

// StartSession moves not_started → active and arms the idle timer.
func (m *Manager) StartSession(ctx context.Context, id uuid.UUID) (*types.ActivitySession, error) {
	return m.mutate(ctx, id, "start", func(s *types.ActivitySession, now time.Time) (string, error) {
		if s.Status != types.SessionNotStarted {
			return "", &InvalidTransitionError{SessionID: s.ID, Status: s.Status, Operation: "start"}
		}
		s.Status = types.SessionActive
		start := now
		s.StartTime = &start
		return EventStarted, nil
	})
}

// PauseSession moves active → paused. The idle timer keeps running while
// paused.
func (m *Manager) PauseSession(ctx context.Context, id uuid.UUID) (*types.ActivitySession, error) {
	return m.mutate(ctx, id, "pause", func(s *types.ActivitySession, _ time.Time) (string, error) {
		if s.Status != types.SessionActive {
			return "", &InvalidTransitionError{SessionID: s.ID, Status: s.Status, Operation: "pause"}
		}
		s.Status = types.SessionPaused
		return EventPaused, nil
	})
}

// ResumeSession moves paused → active and re-arms the idle timer.
func (m *Manager) ResumeSession(ctx context.Context, id uuid.UUID) (*types.ActivitySession, error) {
	return m.mutate(ctx, id, "resume", func(s *types.ActivitySession, _ time.Time) (string, error) {
		if s.Status != types.SessionPaused {
			return "", &InvalidTransitionError{SessionID: s.ID, Status: s.Status, Operation: "resume"}
		}
		s.Status = types.SessionActive
		return EventResumed, nil
	})
}

// CompleteSession is allowed from any non-terminal state and attaches the
// result.
func (m *Manager) CompleteSession(ctx context.Context, id uuid.UUID, result types.SessionResult) (*types.ActivitySession, error) {
	return m.mutate(ctx, id, "complete", func(s *types.ActivitySession, now time.Time) (string, error) {
		if s.Status.Terminal() {
			return "", &InvalidTransitionError{SessionID: s.ID, Status: s.Status, Operation: "complete"}
		}
		s.Status = types.SessionCompleted
		end := now
		s.EndTime = &end
		s.CompletionPercentage = 100
		s.CurrentStep = s.TotalSteps
		r := result
		s.Result = &r
		return EventCompleted, nil
	})
}

// AbandonSession is allowed from any non-terminal state. A non-empty reason
// is appended as a system interaction.
func (m *Manager) AbandonSession(ctx context.Context, id uuid.UUID, reason string) (*types.ActivitySession, error) {
	return m.mutate(ctx, id, "abandon", func(s *types.ActivitySession, now time.Time) (string, error) {
		if s.Status.Terminal() {
			return "", &InvalidTransitionError{SessionID: s.ID, Status: s.Status, Operation: "abandon"}
		}
		terminateAbandoned(s, now, reason)
		return EventAbandoned, nil
	})
}

// UpdateProgress advances step/engagement state mid-session. Only active
// sessions accept progress; completion percentage saturates below 100, which
// is reserved for CompleteSession.
func (m *Manager) UpdateProgress(ctx context.Context, id uuid.UUID, upd ProgressUpdate) (*types.ActivitySession, error) {
	return m.mutate(ctx, id, "update progress", func(s *types.ActivitySession, now time.Time) (string, error) {
		if s.Status != types.SessionActive {
			return "", &InvalidTransitionError{SessionID: s.ID, Status: s.Status, Operation: "update progress"}
		}
		if upd.CurrentStep != nil {
			step := *upd.CurrentStep
			if step < 0 {
				step = 0
			}
			if step > s.TotalSteps {
				step = s.TotalSteps
			}
			s.CurrentStep = step
			pct := 100 * float64(step) / float64(s.TotalSteps)
			if pct >= 100 {
				pct = 99
			}
			s.CompletionPercentage = pct
		}
		if upd.EngagementScore != nil {
			s.UserEngagement = blendEngagement(s.UserEngagement, *upd.EngagementScore)
		}
		if upd.Adaptation != nil {
			a := *upd.Adaptation
			a.At = now
			s.Adaptations = append(s.Adaptations, a)
		}
		return "", nil
	})
}

// RecordInteraction appends to the append-only interaction log of a
// non-terminal session.
func (m *Manager) RecordInteraction(ctx context.Context, id uuid.UUID, interaction types.SessionInteraction) (*types.ActivitySession, error) {
	return m.mutate(ctx, id, "record interaction", func(s *types.ActivitySession, now time.Time) (string, error) {
		if s.Status.Terminal() {
			return "", &InvalidTransitionError{SessionID: s.ID, Status: s.Status, Operation: "record interaction"}
		}
		interaction.At = now
		if interaction.Source == "" {
			interaction.Source = "user"
		}
		s.Interactions = append(s.Interactions, interaction)
		return "", nil
	})
}

// GetSession loads one session, applying lazy idle expiry first.
func (m *Manager) GetSession(ctx context.Context, id uuid.UUID) (*types.ActivitySession, error) {
	peek, err := m.peek(ctx, id)
	if err != nil {
		return nil, err
	}

	mu := m.userLock(peek.UserID)
	mu.Lock()
	defer mu.Unlock()

	s, err := m.reload(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := m.expireIfIdleLocked(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

// GetUserSessions lists a user's sessions, newest start first. Status and
// type filters are optional.
func (m *Manager) GetUserSessions(ctx context.Context, userID uuid.UUID, statusFilter []types.SessionStatus, typeFilter string) ([]*types.ActivitySession, error) {
	mu := m.userLock(userID)
	mu.Lock()
	defer mu.Unlock()

	sessions, err := m.store.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list sessions for user %s: %w", userID, err)
	}
	for _, s := range sessions {
		if err := m.expireIfIdleLocked(ctx, s); err != nil {
			return nil, err
		}
	}

	out := make([]*types.ActivitySession, 0, len(sessions))
	for _, s := range sessions {
		if len(statusFilter) > 0 && !statusIn(s.Status, statusFilter) {
			continue
		}
		if typeFilter != "" && s.ActivityType != typeFilter {
			continue
		}
		out = append(out, s)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return effectiveStart(out[i]).After(effectiveStart(out[j]))
	})
	return out, nil
}

// GetActiveUserSessions lists the user's in-flight ({active, paused})
// sessions.
func (m *Manager) GetActiveUserSessions(ctx context.Context, userID uuid.UUID) ([]*types.ActivitySession, error) {
	return m.GetUserSessions(ctx, userID,
		[]types.SessionStatus{types.SessionActive, types.SessionPaused}, "")
}

// GetSessionStatistics aggregates over every session of the user.
func (m *Manager) GetSessionStatistics(ctx context.Context, userID uuid.UUID) (Statistics, error) {
	sessions, err := m.GetUserSessions(ctx, userID, nil, "")
	if err != nil {
		return Statistics{}, err
	}

	stats := Statistics{
		Total:    len(sessions),
		ByStatus: make(map[types.SessionStatus]int),
	}
	if len(sessions) == 0 {
		return stats, nil
	}

	engagementSum := 0.0
	durationSum := 0.0
	completedWithDuration := 0
	for _, s := range sessions {
		stats.ByStatus[s.Status]++
		engagementSum += s.UserEngagement
		if s.Status == types.SessionCompleted && s.StartTime != nil && s.EndTime != nil {
			durationSum += s.EndTime.Sub(*s.StartTime).Minutes()
			completedWithDuration++
		}
	}
	stats.CompletionRate = float64(stats.ByStatus[types.SessionCompleted]) / float64(stats.Total)
	stats.AvgEngagement = engagementSum / float64(stats.Total)
	if completedWithDuration > 0 {
		stats.AvgDurationMin = durationSum / float64(completedWithDuration)
	}
	return stats, nil
}

// CleanupExpiredSessions abandons every non-terminal session past the idle
// timeout and returns how many it closed. Used by the periodic sweep and
// callable directly.
func (m *Manager) CleanupExpiredSessions(ctx context.Context) (int, error) {
	candidates, err := m.store.ListNonTerminal(ctx)
	if err != nil {
		return 0, fmt.Errorf("list non-terminal sessions: %w", err)
	}

	cleaned := 0
	now := m.clock.Now()
	for _, candidate := range candidates {
		if !candidate.IdleExpired(now, m.cfg.IdleTimeout) {
			continue
		}

		mu := m.userLock(candidate.UserID)
		mu.Lock()
		s, err := m.reload(ctx, candidate.ID)
		if err != nil {
			mu.Unlock()
			continue // deleted between list and reload
		}
		// Re-check under the lock: a racing complete/abandon must win.
		if !s.Status.Terminal() && s.IdleExpired(m.clock.Now(), m.cfg.IdleTimeout) {
			if err := m.abandonLocked(ctx, s, m.clock.Now(), idleReason, EventAutoAbandoned); err != nil {
				mu.Unlock()
				return cleaned, err
			}
			cleaned++
		}
		mu.Unlock()
	}
	if cleaned > 0 {
		m.log.Info("Cleaned up idle sessions", "count", cleaned)
	}
	return cleaned, nil
}

// --- internals ---

func (m *Manager) mutate(ctx context.Context, id uuid.UUID, op string, fn func(*types.ActivitySession, time.Time) (string, error)) (*types.ActivitySession, error) {
	peek, err := m.peek(ctx, id)
	if err != nil {
		return nil, err
	}

	mu := m.userLock(peek.UserID)
	mu.Lock()
	defer mu.Unlock()

	s, err := m.reload(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := m.expireIfIdleLocked(ctx, s); err != nil {
		return nil, err
	}

	now := m.clock.Now()
	eventType, err := fn(s, now)
	if err != nil {
		return nil, err
	}

	s.LastActivityAt = now
	s.UpdatedAt = now
	if err := m.store.Update(ctx, s); err != nil {
		return nil, fmt.Errorf("%s session %s: %w", op, id, err)
	}
	if eventType != "" {
		m.publish(ctx, s, eventType, "")
	}
	return s, nil
}

func (m *Manager) peek(ctx context.Context, id uuid.UUID) (*types.ActivitySession, error) {
	s, err := m.store.Load(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load session %s: %w", id, err)
	}
	if s == nil {
		return nil, fmt.Errorf("session %s: %w", id, ErrSessionNotFound)
	}
	return s, nil
}

// reload re-reads under the user lock so decisions are made on fresh state.
func (m *Manager) reload(ctx context.Context, id uuid.UUID) (*types.ActivitySession, error) {
	return m.peek(ctx, id)
}

// expireIfIdleLocked applies lazy idle expiry. Caller holds the user lock.
func (m *Manager) expireIfIdleLocked(ctx context.Context, s *types.ActivitySession) error {
	now := m.clock.Now()
	if !s.IdleExpired(now, m.cfg.IdleTimeout) {
		return nil
	}
	if err := m.abandonLocked(ctx, s, now, idleReason, EventAutoAbandoned); err != nil {
		return fmt.Errorf("auto-abandon session %s: %w", s.ID, err)
	}
	return nil
}

// abandonLocked performs the terminal abandon transition and persists it.
// Caller holds the user lock and has verified the session is non-terminal.
func (m *Manager) abandonLocked(ctx context.Context, s *types.ActivitySession, now time.Time, reason, eventType string) error {
	terminateAbandoned(s, now, reason)
	s.UpdatedAt = now
	if err := m.store.Update(ctx, s); err != nil {
		return err
	}
	m.publish(ctx, s, eventType, reason)
	m.log.Info("Abandoned session", "session_id", s.ID, "user_id", s.UserID, "reason", reason)
	return nil
}

func (m *Manager) inFlightLocked(ctx context.Context, userID uuid.UUID, now time.Time) ([]*types.ActivitySession, error) {
	sessions, err := m.store.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list sessions for user %s: %w", userID, err)
	}
	inFlight := []*types.ActivitySession{}
	for _, s := range sessions {
		if s.Status != types.SessionActive && s.Status != types.SessionPaused {
			continue
		}
		// Idle ones are swept here rather than counted against the cap.
		if s.IdleExpired(now, m.cfg.IdleTimeout) {
			if err := m.abandonLocked(ctx, s, now, idleReason, EventAutoAbandoned); err != nil {
				return nil, err
			}
			continue
		}
		inFlight = append(inFlight, s)
	}
	return inFlight, nil
}

func (m *Manager) publish(ctx context.Context, s *types.ActivitySession, eventType, reason string) {
	if m.events == nil {
		return
	}
	ev := Event{
		Type:         eventType,
		SessionID:    s.ID,
		UserID:       s.UserID,
		ActivityType: s.ActivityType,
		At:           m.clock.Now(),
		Reason:       reason,
	}
	if err := m.events.PublishSessionEvent(ctx, ev); err != nil {
		m.log.Warn("Failed to publish session event", "event", eventType,
			"session_id", s.ID, "error", err)
	}
}

func terminateAbandoned(s *types.ActivitySession, now time.Time, reason string) {
	s.Status = types.SessionAbandoned
	end := now
	s.EndTime = &end
	if reason != "" {
		s.Interactions = append(s.Interactions, types.SessionInteraction{
			At:      now,
			Source:  "system",
			Kind:    "abandon_reason",
			Content: reason,
		})
	}
}

// estimateTotalSteps scales the per-type base step count by difficulty and
// requested duration, with a hard floor.
func estimateTotalSteps(activityType string, cfg types.SessionConfiguration) int {
	base, ok := baseStepsByType[activityType]
	if !ok {
		base = defaultBaseSteps
	}
	steps := float64(base)

	switch cfg.DifficultyLevel {
	case "beginner":
		steps *= 0.8
	case "advanced":
		steps *= 1.3
	}

	if cfg.EstimatedDuration > 30 {
		steps *= 1.5
	} else if cfg.EstimatedDuration > 0 && cfg.EstimatedDuration < 10 {
		steps *= 0.7
	}

	total := int(math.Round(steps))
	if total < minTotalSteps {
		total = minTotalSteps
	}
	return total
}

// blendEngagement folds a new observation into the running 0-10 score.
func blendEngagement(current, observed float64) float64 {
	v := 0.7*current + 0.3*observed
	if v < 0 {
		v = 0
	}
	if v > 10 {
		v = 10
	}
	return v
}

func oldestByStart(sessions []*types.ActivitySession) *types.ActivitySession {
	oldest := sessions[0]
	for _, s := range sessions[1:] {
		if effectiveStart(s).Before(effectiveStart(oldest)) {
			oldest = s
		}
	}
	return oldest
}

func effectiveStart(s *types.ActivitySession) time.Time {
	if s.StartTime != nil {
		return *s.StartTime
	}
	return s.CreatedAt
}

func removeSession(sessions []*types.ActivitySession, id uuid.UUID) []*types.ActivitySession {
	out := sessions[:0]
	for _, s := range sessions {
		if s.ID != id {
			out = append(out, s)
		}
	}
	return out
}

func statusIn(status types.SessionStatus, list []types.SessionStatus) bool {
	for _, s := range list {
		if s == status {
			return true
		}
	}
	return false
}
