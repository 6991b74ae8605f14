package app

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/rzajanckauskas/voice-web/internal/domain"
	apperrors "github.com/rzajanckauskas/voice-web/internal/errors"
	"github.com/rzajanckauskas/voice-web/internal/logging"
	"github.com/rzajanckauskas/voice-web/internal/metrics"
)

// voteMarkerKey derives the auxiliary marker object's key from the clip's
// storage glob and the voter.
func voteMarkerKey(glob, clientID string) string {
	return glob + "-by-" + clientID + ".vote"
}

// SaveVote records one client's judgment on a clip and returns the clip's
// storage glob for client-side bookkeeping.
//
// The authoritative record is the repository row; the marker object written
// afterwards is audit-only, so its failure is logged but never fails the
// vote. Repeat votes from the same client are idempotent.
func (s *Service) SaveVote(ctx context.Context, clipID uuid.UUID, clientID string, isValid bool) (string, error) {
	if clientID == "" {
		return "", apperrors.ValidationError("missing required parameter").
			WithField("client_id", "client_id is required")
	}

	clip, err := s.clips.FindClip(ctx, clipID)
	if err != nil {
		if errors.Is(err, domain.ErrClipNotFound) {
			return "", apperrors.NotFoundError("clip not found").WithField("clip_id", clipID.String())
		}
		return "", apperrors.InternalError("failed to load clip", err)
	}

	if err := s.clips.SaveVote(ctx, clipID, clientID, isValid); err != nil {
		return "", apperrors.InternalError("failed to save vote", err)
	}
	metrics.VotesRecordedTotal.WithLabelValues(strconv.FormatBool(isValid)).Inc()

	glob := clip.Glob()
	marker := voteMarkerKey(glob, clientID)
	log := logging.WithClip(clipID.String())
	if err := s.store.Put(ctx, marker, strings.NewReader(strconv.FormatBool(isValid))); err != nil {
		metrics.VoteMarkerFailures.Inc()
		log.Error("vote marker write failed", "marker", marker, "error", err)
	} else {
		log.Info("clip vote written to storage", "marker", marker)
	}

	return glob, nil
}
