package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	types "github.com/yungbote/mindbridge-backend/internal/domain"
)

// MemoryStore is an in-process Store for tests and local runs. Production
// wires the gorm-backed repo instead.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]types.ActivitySession
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[uuid.UUID]types.ActivitySession)}
}

func (m *MemoryStore) Save(_ context.Context, s *types.ActivitySession) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.sessions[s.ID]; exists {
		return fmt.Errorf("session %s already exists", s.ID)
	}
	m.sessions[s.ID] = *s
	return nil
}

func (m *MemoryStore) Load(_ context.Context, id uuid.UUID) (*types.ActivitySession, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, nil
	}
	copied := s
	return &copied, nil
}

func (m *MemoryStore) Update(_ context.Context, s *types.ActivitySession) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[s.ID]; !ok {
		return fmt.Errorf("update session %s: %w", s.ID, ErrSessionNotFound)
	}
	m.sessions[s.ID] = *s
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[id]; !ok {
		return fmt.Errorf("delete session %s: %w", id, ErrSessionNotFound)
	}
	delete(m.sessions, id)
	return nil
}

func (m *MemoryStore) ListByUser(_ context.Context, userID uuid.UUID) ([]*types.ActivitySession, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []*types.ActivitySession{}
	for _, s := range m.sessions {
		if s.UserID == userID {
			copied := s
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (m *MemoryStore) ListNonTerminal(_ context.Context) ([]*types.ActivitySession, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []*types.ActivitySession{}
	for _, s := range m.sessions {
		if !s.Status.Terminal() {
			copied := s
			out = append(out, &copied)
		}
	}
	return out, nil
}
