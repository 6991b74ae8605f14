// Package app is the application layer: it orchestrates the clip pipeline
// across the repository, storage backend, and transcoder ports. It is the
// only package that references more than one of them.
package app

import (
	"context"
	"io"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/rzajanckauskas/voice-web/internal/cache"
	"github.com/rzajanckauskas/voice-web/internal/domain"
	"github.com/rzajanckauskas/voice-web/internal/logging"
	"github.com/rzajanckauskas/voice-web/internal/storage"
)

const activityTimeout = 5 * time.Second

// Transcoder converts an uploaded audio stream into the canonical format.
// Codec failures surface on Read from the returned stream.
type Transcoder interface {
	Reader(ctx context.Context, src io.Reader) io.ReadCloser
}

// Service orchestrates ingestion, selection, voting, leaderboards, and
// aggregate reads. All collaborators are injected at construction; tests
// substitute doubles for each port.
type Service struct {
	clips      domain.ClipRepository
	store      storage.Backend
	transcoder Transcoder
	stats      *cache.Cache
	clock      clockwork.Clock

	maxUploadBytes int64
}

// NewService creates the application layer service. stats may be nil when
// Redis is not configured; aggregate reads are then always computed fresh.
func NewService(clips domain.ClipRepository, store storage.Backend, transcoder Transcoder, stats *cache.Cache, clock clockwork.Clock, maxUploadBytes int64) *Service {
	return &Service{
		clips:          clips,
		store:          store,
		transcoder:     transcoder,
		stats:          stats,
		clock:          clock,
		maxUploadBytes: maxUploadBytes,
	}
}

// RecordActivity notes a contribution touch for (client, locale) in the
// background. It never blocks the caller and failures are logged only.
func (s *Service) RecordActivity(clientID, locale string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), activityTimeout)
		defer cancel()

		if err := s.clips.SaveActivity(ctx, clientID, locale); err != nil {
			logging.WithClient(clientID).Error("activity save error", "locale", locale, "error", err)
		}
	}()
}
