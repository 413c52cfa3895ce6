package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	types "github.com/yungbote/mindbridge-backend/internal/domain"
	"github.com/yungbote/mindbridge-backend/internal/modules/recommendation"
	"github.com/yungbote/mindbridge-backend/internal/platform/logger"
	"github.com/yungbote/mindbridge-backend/internal/requestdata"
)

type RecommendationHandler struct {
	log    *logger.Logger
	engine *recommendation.Engine
}

func NewRecommendationHandler(log *logger.Logger, engine *recommendation.Engine) *RecommendationHandler {
	return &RecommendationHandler{
		log:    log.With("handler", "RecommendationHandler"),
		engine: engine,
	}
}

// POST /api/recommendations
func (h *RecommendationHandler) Generate(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}

	var req types.RecommendationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	req.UserContext.UserID = rd.UserID

	resp, err := h.engine.GenerateRecommendations(c.Request.Context(), req)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "recommendation_failed", err)
		return
	}
	RespondOK(c, resp)
}

// POST /api/activity-results
func (h *RecommendationHandler) RecordResult(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}

	var result types.ActivityResult
	if err := c.ShouldBindJSON(&result); err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	if result.ActivityType == "" {
		RespondError(c, http.StatusBadRequest, "bad_request", errMissingField("activity_type"))
		return
	}
	if result.RecordedAt.IsZero() {
		result.RecordedAt = time.Now().UTC()
	}

	h.engine.RecordActivityResult(c.Request.Context(), rd.UserID, result)
	c.Status(http.StatusNoContent)
}

// GET /api/activity-results
func (h *RecommendationHandler) GetHistory(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	RespondOK(c, gin.H{"results": h.engine.GetUserActivityHistory(c.Request.Context(), rd.UserID)})
}
