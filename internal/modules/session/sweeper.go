package session

import (
	"context"
	"time"
)

// StartSweeper runs CleanupExpiredSessions on the configured interval until
// ctx is cancelled. Lazy expiry on access remains the primary mechanism; the
// sweep catches sessions nobody touches again.
func (m *Manager) StartSweeper(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(m.cfg.SweepInterval)
		defer ticker.Stop()
		m.log.Info("Session sweeper started", "interval", m.cfg.SweepInterval)
		for {
			select {
			case <-ctx.Done():
				m.log.Info("Session sweeper stopped")
				return
			case <-ticker.C:
				if _, err := m.CleanupExpiredSessions(ctx); err != nil {
					m.log.Warn("Session sweep failed", "error", err)
				}
			}
		}
	}()
}
