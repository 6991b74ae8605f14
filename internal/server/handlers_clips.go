package server

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/rzajanckauskas/voice-web/internal/app"
	apperrors "github.com/rzajanckauskas/voice-web/internal/errors"
)

// handleSaveClip ingests a recording. The audio travels in the request body,
// the descriptive metadata in headers. A Content-Type mentioning base64
// signals that the body is a base64 payload rather than raw audio bytes.
func (s *Server) handleSaveClip(c echo.Context) error {
	req := c.Request()
	req.Body = http.MaxBytesReader(c.Response(), req.Body, s.config.MaxUploadBytes)

	sentence, err := url.QueryUnescape(req.Header.Get("sentence"))
	if err != nil {
		return apperrors.ValidationError("invalid sentence header").WithField("sentence", "must be URL-encoded")
	}

	upload := app.UploadRequest{
		ClientID:   clientID(c),
		Locale:     c.Param("locale"),
		SentenceID: req.Header.Get("sentence_id"),
		Sentence:   sentence,
		Body:       req.Body,
		Base64:     strings.Contains(req.Header.Get(echo.HeaderContentType), "base64"),
	}

	sentenceID, err := s.app.SaveClip(req.Context(), upload)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, sentenceID)
}

// handleRandomClips serves a batch of clips the requesting contributor has
// not voted on yet.
func (s *Server) handleRandomClips(c echo.Context) error {
	count := 1
	if raw := c.QueryParam("count"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return apperrors.ValidationError("invalid count").WithField("count", "must be an integer")
		}
		count = n
	}

	clips, err := s.app.RandomClips(c.Request().Context(), clientID(c), c.Param("locale"), count)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, clips)
}
