package app

import (
	"context"
	"log/slog"

	"github.com/rzajanckauskas/voice-web/internal/domain"
	apperrors "github.com/rzajanckauskas/voice-web/internal/errors"
)

const maxClipBatch = 50

// RandomClips samples up to count clips the requesting client has not yet
// reviewed and did not submit, each resolved to a playback URL. A zero
// eligible pool yields an empty slice, not an error; callers must tolerate
// repeats across calls once the pool runs low.
func (s *Service) RandomClips(ctx context.Context, clientID, locale string, count int) ([]domain.EligibleClip, error) {
	if clientID == "" {
		return nil, apperrors.ValidationError("missing required parameter").
			WithField("client_id", "client_id is required")
	}

	if count < 1 {
		count = 1
	}
	if count > maxClipBatch {
		count = maxClipBatch
	}

	clips, err := s.clips.FindEligibleClips(ctx, clientID, locale, count)
	if err != nil {
		return nil, apperrors.InternalError("failed to find eligible clips", err)
	}

	eligible := make([]domain.EligibleClip, 0, len(clips))
	for _, clip := range clips {
		sound, err := s.store.PublicURL(ctx, clip.Path)
		if err != nil {
			// A clip we cannot resolve is dropped from the batch rather than
			// failing the whole selection.
			slog.Error("failed to resolve playback URL", "path", clip.Path, "error", err)
			continue
		}
		eligible = append(eligible, domain.EligibleClip{
			ID:    clip.ID,
			Glob:  clip.Glob(),
			Text:  clip.Sentence,
			Sound: sound,
		})
	}
	return eligible, nil
}
