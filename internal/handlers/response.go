package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/mindbridge-backend/internal/modules/session"
	"github.com/yungbote/mindbridge-backend/internal/platform/apierr"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	respondAPIError(c, apierr.New(status, code, err))
}

func respondAPIError(c *gin.Context, e *apierr.Error) {
	status := e.Status
	if status == 0 {
		status = http.StatusInternalServerError
	}
	c.JSON(status, ErrorEnvelope{
		Error: APIError{
			Message: e.Error(),
			Code:    e.Code,
		},
	})
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

func errMissingField(field string) error {
	return fmt.Errorf("%s is required", field)
}

// respondSessionError maps session module errors onto HTTP statuses.
func respondSessionError(c *gin.Context, err error) {
	var transition *session.InvalidTransitionError
	switch {
	case errors.Is(err, session.ErrSessionNotFound):
		respondAPIError(c, apierr.NotFound("session_not_found", err))
	case errors.As(err, &transition):
		respondAPIError(c, apierr.Conflict("invalid_transition", err))
	default:
		respondAPIError(c, apierr.Internal(err))
	}
}
