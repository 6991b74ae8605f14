package app

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/rzajanckauskas/voice-web/internal/domain"
	apperrors "github.com/rzajanckauskas/voice-web/internal/errors"
	"github.com/rzajanckauskas/voice-web/internal/logging"
	"github.com/rzajanckauskas/voice-web/internal/metrics"
	"github.com/rzajanckauskas/voice-web/internal/transcode"
)

// UploadRequest is one clip submission. Body is the raw request stream;
// Base64 marks uploads whose body is base64-framed rather than raw audio.
type UploadRequest struct {
	ClientID   string
	Locale     string
	SentenceID string
	Sentence   string
	Body       io.Reader
	Base64     bool
}

// clipKey is the deterministic storage key for a (client, sentence) pair.
// Resubmission hits the same key, so retried uploads replace rather than
// duplicate.
func clipKey(clientID, sentenceID string) string {
	return clientID + "/" + sentenceID + transcode.CanonicalExt
}

// sentenceKey is the sidecar object holding the sentence text.
func sentenceKey(clientID, sentenceID string) string {
	return clientID + "/" + sentenceID + ".txt"
}

// SaveClip runs the ingestion pipeline: validate, transcode, store audio and
// sentence sidecar, persist metadata. It returns the sentence id on success.
//
// Validation failures are reported before any I/O. If the audio object is
// written but the metadata write fails (or the other way around), the
// leftover state is logged as an ingestion inconsistency for out-of-band
// reconciliation and cleanup is attempted best-effort.
func (s *Service) SaveClip(ctx context.Context, req UploadRequest) (string, error) {
	start := s.clock.Now()

	if verr := validateUpload(req); verr != nil {
		metrics.ClipsIngestedTotal.WithLabelValues("validation").Inc()
		return "", verr
	}

	src := req.Body
	if req.Base64 {
		decoded, err := s.decodeBase64Body(req.Body)
		if err != nil {
			metrics.ClipsIngestedTotal.WithLabelValues("validation").Inc()
			return "", err
		}
		src = decoded
	}

	audioKey := clipKey(req.ClientID, req.SentenceID)
	textKey := sentenceKey(req.ClientID, req.SentenceID)

	// Clear the destination key so a resubmission can never leave two audio
	// objects for the same sentence, then stream the transcoder output in.
	if err := s.deleteWithRetry(ctx, audioKey); err != nil {
		metrics.ClipsIngestedTotal.WithLabelValues("storage").Inc()
		return "", apperrors.ExternalError("failed to prepare clip destination", err)
	}

	canonical := s.transcoder.Reader(ctx, src)
	defer canonical.Close()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.store.Put(gctx, audioKey, canonical)
	})
	g.Go(func() error {
		return s.store.Put(gctx, textKey, strings.NewReader(req.Sentence))
	})

	if err := g.Wait(); err != nil {
		s.cleanupUpload(audioKey, textKey)

		var tErr *transcode.Error
		if errors.As(err, &tErr) {
			metrics.ClipsIngestedTotal.WithLabelValues("transcode").Inc()
			return "", apperrors.InternalError("failed to transcode clip", err)
		}
		metrics.ClipsIngestedTotal.WithLabelValues("storage").Inc()
		return "", apperrors.ExternalError("failed to store clip", err)
	}

	_, err := s.clips.SaveClip(ctx, domain.SaveClipRequest{
		ClientID:           req.ClientID,
		Locale:             req.Locale,
		Sentence:           req.Sentence,
		OriginalSentenceID: req.SentenceID,
		Path:               audioKey,
	})
	if err != nil {
		// Audio is on disk but metadata is not: reconciliation territory.
		metrics.IngestInconsistencies.Inc()
		metrics.ClipsIngestedTotal.WithLabelValues("metadata").Inc()
		logging.WithClient(req.ClientID).Error(
			"ingestion inconsistency: audio stored but metadata write failed",
			"path", audioKey, "error", err)
		s.cleanupUpload(audioKey, textKey)
		return "", apperrors.InternalError("failed to persist clip metadata", err)
	}

	metrics.ClipsIngestedTotal.WithLabelValues("ok").Inc()
	metrics.IngestDuration.Observe(s.clock.Since(start).Seconds())
	return req.SentenceID, nil
}

func validateUpload(req UploadRequest) *apperrors.Error {
	verr := apperrors.ValidationError("missing required parameter")
	if req.ClientID == "" {
		verr.WithField("client_id", "client_id is required")
	}
	if req.Sentence == "" {
		verr.WithField("sentence", "sentence is required")
	}
	if req.SentenceID == "" {
		verr.WithField("sentence_id", "sentence_id is required")
	}
	if len(verr.Fields) > 0 {
		return verr
	}
	return nil
}

// decodeBase64Body buffers the full body and decodes it. Transcoding cannot
// stream base64-framed uploads, so buffering is bounded by the configured
// maximum upload size. The HTTP layer wraps bodies in http.MaxBytesReader
// with the same limit, so its size error is a validation failure here, not a
// server fault.
func (s *Service) decodeBase64Body(body io.Reader) (io.Reader, error) {
	encoded, err := io.ReadAll(io.LimitReader(body, s.maxUploadBytes+1))
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, oversizeUploadError(s.maxUploadBytes)
		}
		return nil, apperrors.InternalError("failed to read upload body", err)
	}
	if int64(len(encoded)) > s.maxUploadBytes {
		return nil, oversizeUploadError(s.maxUploadBytes)
	}

	decoded, err := base64.StdEncoding.DecodeString(strings.TrimSpace(string(encoded)))
	if err != nil {
		return nil, apperrors.ValidationError("malformed base64 body").
			WithField("body", "body is not valid base64")
	}
	return bytes.NewReader(decoded), nil
}

func oversizeUploadError(limit int64) *apperrors.Error {
	return apperrors.ValidationError("upload exceeds maximum size").
		WithField("body", fmt.Sprintf("body exceeds %d bytes", limit))
}

// cleanupUpload removes whatever made it to storage after a failed
// ingestion. Failures here are the reconciliation job's problem; they are
// logged and counted, never surfaced.
func (s *Service) cleanupUpload(audioKey, textKey string) {
	ctx, cancel := context.WithTimeout(context.Background(), activityTimeout)
	defer cancel()

	for _, key := range []string{audioKey, textKey} {
		if err := s.store.Delete(ctx, key); err != nil {
			metrics.IngestInconsistencies.Inc()
			logging.WithError(err).Error(
				"ingestion inconsistency: failed to clean up partial upload", "path", key)
		}
	}
}
