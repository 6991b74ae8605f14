package server

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/rzajanckauskas/voice-web/internal/domain"
)

func (s *Server) handleClipsLeaderboard(c echo.Context) error {
	return s.handleLeaderboard(c, domain.LeaderboardClips)
}

func (s *Server) handleVotesLeaderboard(c echo.Context) error {
	return s.handleLeaderboard(c, domain.LeaderboardVotes)
}

func (s *Server) handleLeaderboard(c echo.Context, kind domain.LeaderboardKind) error {
	page, err := s.app.Leaderboard(c.Request().Context(), kind, c.Param("locale"), clientID(c), c.QueryParam("cursor"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, page)
}

func (s *Server) handleClipsStats(c echo.Context) error {
	stats, err := s.app.ClipsStats(c.Request().Context(), c.Param("locale"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stats)
}

func (s *Server) handleVoicesStats(c echo.Context) error {
	stats, err := s.app.VoicesStats(c.Request().Context(), c.Param("locale"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stats)
}

func (s *Server) handleDailyClipsCount(c echo.Context) error {
	count, err := s.app.DailyClipsCount(c.Request().Context(), c.Param("locale"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, count)
}

func (s *Server) handleDailyVotesCount(c echo.Context) error {
	count, err := s.app.DailyVotesCount(c.Request().Context(), c.Param("locale"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, count)
}

func (s *Server) handleValidatedHours(c echo.Context) error {
	hours, err := s.app.ValidatedHours(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, hours)
}
