package server

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"testing"

	"github.com/google/uuid"

	"github.com/rzajanckauskas/voice-web/internal/app"
	"github.com/rzajanckauskas/voice-web/internal/config"
	"github.com/rzajanckauskas/voice-web/internal/domain"
	"github.com/rzajanckauskas/voice-web/internal/storage"
)

// mockAppService is a function-field test double for AppService.
type mockAppService struct {
	saveClipFn       func(ctx context.Context, req app.UploadRequest) (string, error)
	saveVoteFn       func(ctx context.Context, clipID uuid.UUID, clientID string, isValid bool) (string, error)
	randomClipsFn    func(ctx context.Context, clientID, locale string, count int) ([]domain.EligibleClip, error)
	leaderboardFn    func(ctx context.Context, kind domain.LeaderboardKind, locale, clientID, cursor string) (*domain.LeaderboardPage, error)
	clipsStatsFn     func(ctx context.Context, locale string) ([]domain.ClipStat, error)
	voicesStatsFn    func(ctx context.Context, locale string) ([]domain.VoiceStat, error)
	dailyClipsFn     func(ctx context.Context, locale string) (int64, error)
	dailyVotesFn     func(ctx context.Context, locale string) (int64, error)
	validatedHoursFn func(ctx context.Context) (float64, error)
	recordedActivity []string
}

func (m *mockAppService) SaveClip(ctx context.Context, req app.UploadRequest) (string, error) {
	if m.saveClipFn != nil {
		return m.saveClipFn(ctx, req)
	}
	return req.SentenceID, nil
}

func (m *mockAppService) SaveVote(ctx context.Context, clipID uuid.UUID, clientID string, isValid bool) (string, error) {
	if m.saveVoteFn != nil {
		return m.saveVoteFn(ctx, clipID, clientID, isValid)
	}
	return "", nil
}

func (m *mockAppService) RandomClips(ctx context.Context, clientID, locale string, count int) ([]domain.EligibleClip, error) {
	if m.randomClipsFn != nil {
		return m.randomClipsFn(ctx, clientID, locale, count)
	}
	return []domain.EligibleClip{}, nil
}

func (m *mockAppService) Leaderboard(ctx context.Context, kind domain.LeaderboardKind, locale, clientID, cursor string) (*domain.LeaderboardPage, error) {
	if m.leaderboardFn != nil {
		return m.leaderboardFn(ctx, kind, locale, clientID, cursor)
	}
	return &domain.LeaderboardPage{Entries: []domain.LeaderboardEntry{}}, nil
}

func (m *mockAppService) ClipsStats(ctx context.Context, locale string) ([]domain.ClipStat, error) {
	if m.clipsStatsFn != nil {
		return m.clipsStatsFn(ctx, locale)
	}
	return []domain.ClipStat{}, nil
}

func (m *mockAppService) VoicesStats(ctx context.Context, locale string) ([]domain.VoiceStat, error) {
	if m.voicesStatsFn != nil {
		return m.voicesStatsFn(ctx, locale)
	}
	return []domain.VoiceStat{}, nil
}

func (m *mockAppService) DailyClipsCount(ctx context.Context, locale string) (int64, error) {
	if m.dailyClipsFn != nil {
		return m.dailyClipsFn(ctx, locale)
	}
	return 0, nil
}

func (m *mockAppService) DailyVotesCount(ctx context.Context, locale string) (int64, error) {
	if m.dailyVotesFn != nil {
		return m.dailyVotesFn(ctx, locale)
	}
	return 0, nil
}

func (m *mockAppService) ValidatedHours(ctx context.Context) (float64, error) {
	if m.validatedHoursFn != nil {
		return m.validatedHoursFn(ctx)
	}
	return 0, nil
}

func (m *mockAppService) RecordActivity(clientID, locale string) {
	m.recordedActivity = append(m.recordedActivity, clientID+"/"+locale)
}

// stubBackend serves fixed objects from memory for stream handler tests.
type stubBackend struct {
	objects map[string][]byte
}

func (b *stubBackend) Put(_ context.Context, key string, r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	b.objects[key] = data
	return nil
}

func (b *stubBackend) Open(_ context.Context, key string, rng *storage.ByteRange) (io.ReadCloser, int64, error) {
	data, ok := b.objects[key]
	if !ok {
		return nil, 0, fmt.Errorf("open %s: %w", key, os.ErrNotExist)
	}
	total := int64(len(data))
	if rng != nil {
		end := rng.End
		if end < 0 || end >= total {
			end = total - 1
		}
		data = data[rng.Start : end+1]
	}
	return io.NopCloser(bytes.NewReader(data)), total, nil
}

func (b *stubBackend) Exists(_ context.Context, key string) (bool, error) {
	_, ok := b.objects[key]
	return ok, nil
}

func (b *stubBackend) Delete(_ context.Context, key string) error {
	delete(b.objects, key)
	return nil
}

func (b *stubBackend) Size(_ context.Context, key string) (int64, error) {
	data, ok := b.objects[key]
	if !ok {
		return 0, fmt.Errorf("size %s: %w", key, os.ErrNotExist)
	}
	return int64(len(data)), nil
}

func (b *stubBackend) PublicURL(_ context.Context, key string) (string, error) {
	return "http://localhost:9000/stream?file=" + key, nil
}

type stubPinger struct {
	err error
}

func (p stubPinger) Ping(context.Context) error { return p.err }

func newTestServer(t *testing.T, svc AppService, store storage.Backend) *Server {
	t.Helper()
	if store == nil {
		store = &stubBackend{objects: map[string][]byte{}}
	}
	cfg := &config.Config{Port: "9000", MaxUploadBytes: 1 << 20}
	return NewServer(cfg, svc, store, stubPinger{}, nil)
}
