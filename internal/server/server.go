// Package server exposes the clip pipeline over HTTP.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	goredis "github.com/redis/go-redis/v9"

	"github.com/rzajanckauskas/voice-web/internal/app"
	"github.com/rzajanckauskas/voice-web/internal/config"
	"github.com/rzajanckauskas/voice-web/internal/domain"
	apperrors "github.com/rzajanckauskas/voice-web/internal/errors"
	"github.com/rzajanckauskas/voice-web/internal/storage"
)

// AppService is the application-layer surface the handlers consume.
// *app.Service satisfies it; tests substitute doubles.
type AppService interface {
	SaveClip(ctx context.Context, req app.UploadRequest) (string, error)
	SaveVote(ctx context.Context, clipID uuid.UUID, clientID string, isValid bool) (string, error)
	RandomClips(ctx context.Context, clientID, locale string, count int) ([]domain.EligibleClip, error)
	Leaderboard(ctx context.Context, kind domain.LeaderboardKind, locale, clientID, cursor string) (*domain.LeaderboardPage, error)
	ClipsStats(ctx context.Context, locale string) ([]domain.ClipStat, error)
	VoicesStats(ctx context.Context, locale string) ([]domain.VoiceStat, error)
	DailyClipsCount(ctx context.Context, locale string) (int64, error)
	DailyVotesCount(ctx context.Context, locale string) (int64, error)
	ValidatedHours(ctx context.Context) (float64, error)
	RecordActivity(clientID, locale string)
}

// postgresHealthChecker is a minimal interface for PostgreSQL health checks.
type postgresHealthChecker interface {
	Ping(ctx context.Context) error
}

type Server struct {
	echo      *echo.Echo
	config    *config.Config
	app       AppService
	store     storage.Backend
	db        postgresHealthChecker
	redis     *goredis.Client
	startTime time.Time
}

// NewServer wires the HTTP surface. redis may be nil when caching is not
// configured; the readiness check then skips it.
func NewServer(cfg *config.Config, appSvc AppService, store storage.Backend, db postgresHealthChecker, redis *goredis.Client) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(apperrors.Middleware())

	srv := &Server{
		echo:      e,
		config:    cfg,
		app:       appSvc,
		store:     store,
		db:        db,
		redis:     redis,
		startTime: time.Now(),
	}

	srv.registerRoutes()
	return srv
}

func (s *Server) Start() error {
	slog.Info("Starting server", "port", s.config.Port)
	return s.echo.Start(fmt.Sprintf(":%s", s.config.Port))
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// clientID extracts the contributor identifier from the request. Session
// management is out of scope here; upstream auth injects the header.
func clientID(c echo.Context) string {
	if id := c.Request().Header.Get("client_id"); id != "" {
		return id
	}
	return c.QueryParam("client_id")
}
