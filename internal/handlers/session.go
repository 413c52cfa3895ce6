package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	types "github.com/yungbote/mindbridge-backend/internal/domain"
	"github.com/yungbote/mindbridge-backend/internal/modules/session"
	"github.com/yungbote/mindbridge-backend/internal/platform/logger"
	"github.com/yungbote/mindbridge-backend/internal/requestdata"
)

type SessionHandler struct {
	log *logger.Logger
	mgr *session.Manager
}

func NewSessionHandler(log *logger.Logger, mgr *session.Manager) *SessionHandler {
	return &SessionHandler{
		log: log.With("handler", "SessionHandler"),
		mgr: mgr,
	}
}

type createSessionRequest struct {
	ActivityType  string                     `json:"activity_type"`
	Configuration types.SessionConfiguration `json:"configuration"`
	UserContext   types.UserContext          `json:"user_context"`
}

// POST /api/sessions
func (h *SessionHandler) Create(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}

	var req createSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	if req.ActivityType == "" {
		RespondError(c, http.StatusBadRequest, "bad_request", errMissingField("activity_type"))
		return
	}
	req.UserContext.UserID = rd.UserID

	s, err := h.mgr.CreateSession(c.Request.Context(), rd.UserID, req.ActivityType, req.Configuration, req.UserContext)
	if err != nil {
		respondSessionError(c, err)
		return
	}
	c.JSON(http.StatusCreated, s)
}

// GET /api/sessions/:id
func (h *SessionHandler) Get(c *gin.Context) {
	s, ok := h.ownedSession(c)
	if !ok {
		return
	}
	RespondOK(c, s)
}

// GET /api/sessions
func (h *SessionHandler) List(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}

	var statusFilter []types.SessionStatus
	if raw := c.Query("status"); raw != "" {
		statusFilter = append(statusFilter, types.SessionStatus(raw))
	}
	sessions, err := h.mgr.GetUserSessions(c.Request.Context(), rd.UserID, statusFilter, c.Query("type"))
	if err != nil {
		respondSessionError(c, err)
		return
	}
	RespondOK(c, gin.H{"sessions": sessions})
}

// GET /api/sessions/active
func (h *SessionHandler) ListActive(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	sessions, err := h.mgr.GetActiveUserSessions(c.Request.Context(), rd.UserID)
	if err != nil {
		respondSessionError(c, err)
		return
	}
	RespondOK(c, gin.H{"sessions": sessions})
}

// GET /api/sessions/stats
func (h *SessionHandler) Stats(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	stats, err := h.mgr.GetSessionStatistics(c.Request.Context(), rd.UserID)
	if err != nil {
		respondSessionError(c, err)
		return
	}
	RespondOK(c, stats)
}

// POST /api/sessions/:id/start
func (h *SessionHandler) Start(c *gin.Context) {
	s, ok := h.ownedSession(c)
	if !ok {
		return
	}
	updated, err := h.mgr.StartSession(c.Request.Context(), s.ID)
	if err != nil {
		respondSessionError(c, err)
		return
	}
	RespondOK(c, updated)
}

// POST /api/sessions/:id/pause
func (h *SessionHandler) Pause(c *gin.Context) {
	s, ok := h.ownedSession(c)
	if !ok {
		return
	}
	updated, err := h.mgr.PauseSession(c.Request.Context(), s.ID)
	if err != nil {
		respondSessionError(c, err)
		return
	}
	RespondOK(c, updated)
}

// POST /api/sessions/:id/resume
func (h *SessionHandler) Resume(c *gin.Context) {
	s, ok := h.ownedSession(c)
	if !ok {
		return
	}
	updated, err := h.mgr.ResumeSession(c.Request.Context(), s.ID)
	if err != nil {
		respondSessionError(c, err)
		return
	}
	RespondOK(c, updated)
}

// POST /api/sessions/:id/complete
func (h *SessionHandler) Complete(c *gin.Context) {
	s, ok := h.ownedSession(c)
	if !ok {
		return
	}
	var result types.SessionResult
	if err := c.ShouldBindJSON(&result); err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	updated, err := h.mgr.CompleteSession(c.Request.Context(), s.ID, result)
	if err != nil {
		respondSessionError(c, err)
		return
	}
	RespondOK(c, updated)
}

type abandonRequest struct {
	Reason string `json:"reason"`
}

// POST /api/sessions/:id/abandon
func (h *SessionHandler) Abandon(c *gin.Context) {
	s, ok := h.ownedSession(c)
	if !ok {
		return
	}
	var req abandonRequest
	_ = c.ShouldBindJSON(&req) // reason is optional; an empty body is fine
	updated, err := h.mgr.AbandonSession(c.Request.Context(), s.ID, req.Reason)
	if err != nil {
		respondSessionError(c, err)
		return
	}
	RespondOK(c, updated)
}

type progressRequest struct {
	CurrentStep     *int                     `json:"current_step,omitempty"`
	EngagementScore *float64                 `json:"engagement_score,omitempty"`
	Adaptation      *types.SessionAdaptation `json:"adaptation,omitempty"`
}

// PATCH /api/sessions/:id/progress
func (h *SessionHandler) UpdateProgress(c *gin.Context) {
	s, ok := h.ownedSession(c)
	if !ok {
		return
	}
	var req progressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	updated, err := h.mgr.UpdateProgress(c.Request.Context(), s.ID, session.ProgressUpdate{
		CurrentStep:     req.CurrentStep,
		EngagementScore: req.EngagementScore,
		Adaptation:      req.Adaptation,
	})
	if err != nil {
		respondSessionError(c, err)
		return
	}
	RespondOK(c, updated)
}

// POST /api/sessions/:id/interactions
func (h *SessionHandler) RecordInteraction(c *gin.Context) {
	s, ok := h.ownedSession(c)
	if !ok {
		return
	}
	var interaction types.SessionInteraction
	if err := c.ShouldBindJSON(&interaction); err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	updated, err := h.mgr.RecordInteraction(c.Request.Context(), s.ID, interaction)
	if err != nil {
		respondSessionError(c, err)
		return
	}
	RespondOK(c, updated)
}

// ownedSession resolves :id, loads the session, and enforces that it belongs
// to the authenticated user. Foreign sessions read as not found.
func (h *SessionHandler) ownedSession(c *gin.Context) (*types.ActivitySession, bool) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return nil, false
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return nil, false
	}
	s, err := h.mgr.GetSession(c.Request.Context(), id)
	if err != nil {
		respondSessionError(c, err)
		return nil, false
	}
	if s.UserID != rd.UserID {
		RespondError(c, http.StatusNotFound, "session_not_found", session.ErrSessionNotFound)
		return nil, false
	}
	return s, true
}
