package server

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	apperrors "github.com/rzajanckauskas/voice-web/internal/errors"
)

type voteRequest struct {
	IsValid bool `json:"isValid"`
}

// handleSaveVote records a validity judgement on a clip. A malformed clip id
// cannot name any stored clip, so it is reported the same way as an unknown
// one.
func (s *Server) handleSaveVote(c echo.Context) error {
	clipID, err := uuid.Parse(c.Param("clipId"))
	if err != nil {
		return apperrors.NotFoundError("clip not found")
	}

	var req voteRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ValidationError("invalid request body").WithField("isValid", "must be a boolean")
	}

	glob, err := s.app.SaveVote(c.Request().Context(), clipID, clientID(c), req.IsValid)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, glob)
}
