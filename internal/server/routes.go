package server

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (s *Server) registerRoutes() {
	s.echo.GET("/health/live", s.handleLiveness)
	s.echo.GET("/health/ready", s.handleReadiness)
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	s.echo.GET("/stream", s.handleStream)

	g := s.echo.Group("/api/v1/:locale", s.activityMiddleware)
	g.POST("/clips", s.handleSaveClip)
	g.GET("/clips", s.handleRandomClips)
	g.POST("/clips/:clipId/votes", s.handleSaveVote)
	g.GET("/clips/leaderboard", s.handleClipsLeaderboard)
	g.GET("/clips/votes/leaderboard", s.handleVotesLeaderboard)
	g.GET("/clips/stats", s.handleClipsStats)
	g.GET("/clips/voices", s.handleVoicesStats)
	g.GET("/clips/daily_count", s.handleDailyClipsCount)
	g.GET("/clips/votes/daily_count", s.handleDailyVotesCount)
	g.GET("/clips/validated_hours", s.handleValidatedHours)
}

// activityMiddleware records a contribution heartbeat for every request a
// known contributor makes under a locale. Recording is fire and forget and
// never blocks or fails the request.
func (s *Server) activityMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if id := clientID(c); id != "" {
			s.app.RecordActivity(id, c.Param("locale"))
		}
		return next(c)
	}
}
