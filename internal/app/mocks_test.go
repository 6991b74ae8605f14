package app

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/google/uuid"

	"github.com/rzajanckauskas/voice-web/internal/domain"
	"github.com/rzajanckauskas/voice-web/internal/storage"
	"github.com/rzajanckauskas/voice-web/internal/transcode"
)

// memBackend is an in-memory storage.Backend for tests.
type memBackend struct {
	mu          sync.Mutex
	objects     map[string][]byte
	deleteCalls []string
	putErr      error
	urlErr      error
}

func newMemBackend() *memBackend {
	return &memBackend{objects: map[string][]byte{}}
}

func (m *memBackend) Put(_ context.Context, key string, r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	if m.putErr != nil {
		return m.putErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = data
	return nil
}

func (m *memBackend) Open(_ context.Context, key string, rng *storage.ByteRange) (io.ReadCloser, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.objects[key]
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

func (m *memBackend) Exists(_ context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.objects[key]
	return ok, nil
}

func (m *memBackend) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleteCalls = append(m.deleteCalls, key)
	delete(m.objects, key)
	return nil
}

func (m *memBackend) Size(_ context.Context, key string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.objects[key]
	if !ok {
		return 0, os.ErrNotExist
	}
	return int64(len(data)), nil
}

func (m *memBackend) PublicURL(_ context.Context, key string) (string, error) {
	if m.urlErr != nil {
		return "", m.urlErr
	}
	return "http://sound.example/" + key, nil
}

func (m *memBackend) object(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.objects[key]
	return data, ok
}

// passthroughTranscoder prefixes the input so tests can tell transcoded
// bytes from raw ones.
type passthroughTranscoder struct {
	fail error
}

func (p *passthroughTranscoder) Reader(_ context.Context, src io.Reader) io.ReadCloser {
	pr, pw := io.Pipe()
	go func() {
		if p.fail != nil {
			pw.CloseWithError(p.fail)
			return
		}
		data, err := io.ReadAll(src)
		if err != nil {
			pw.CloseWithError(&transcode.Error{Err: err})
			return
		}
		pw.Write(append([]byte("canonical:"), data...))
		pw.Close()
	}()
	return pr
}

// mockClipRepo implements domain.ClipRepository with function fields.
type mockClipRepo struct {
	saveClipFn      func(ctx context.Context, req domain.SaveClipRequest) (*domain.Clip, error)
	findClipFn      func(ctx context.Context, id uuid.UUID) (*domain.Clip, error)
	findEligibleFn  func(ctx context.Context, clientID, locale string, limit int) ([]domain.Clip, error)
	saveVoteFn      func(ctx context.Context, clipID uuid.UUID, clientID string, isValid bool) error
	saveActivityFn  func(ctx context.Context, clientID, locale string) error
	leaderboardFn   func(ctx context.Context, q domain.LeaderboardQuery) ([]domain.LeaderboardEntry, error)
	rankFn          func(ctx context.Context, kind domain.LeaderboardKind, locale, clientID string) (*domain.LeaderboardEntry, error)
	clipsStatsFn    func(ctx context.Context, locale string) ([]domain.ClipStat, error)
	voicesStatsFn   func(ctx context.Context, locale string) ([]domain.VoiceStat, error)
	dailyClipsFn    func(ctx context.Context, locale string) (int64, error)
	dailyVotesFn    func(ctx context.Context, locale string) (int64, error)
	validatedSecsFn func(ctx context.Context) (int64, error)
}

func (m *mockClipRepo) SaveClip(ctx context.Context, req domain.SaveClipRequest) (*domain.Clip, error) {
	if m.saveClipFn != nil {
		return m.saveClipFn(ctx, req)
	}
	return &domain.Clip{ID: uuid.New(), ClientID: req.ClientID, Path: req.Path}, nil
}

func (m *mockClipRepo) FindClip(ctx context.Context, id uuid.UUID) (*domain.Clip, error) {
	if m.findClipFn != nil {
		return m.findClipFn(ctx, id)
	}
	return nil, domain.ErrClipNotFound
}

func (m *mockClipRepo) FindEligibleClips(ctx context.Context, clientID, locale string, limit int) ([]domain.Clip, error) {
	if m.findEligibleFn != nil {
		return m.findEligibleFn(ctx, clientID, locale, limit)
	}
	return nil, nil
}

func (m *mockClipRepo) SaveVote(ctx context.Context, clipID uuid.UUID, clientID string, isValid bool) error {
	if m.saveVoteFn != nil {
		return m.saveVoteFn(ctx, clipID, clientID, isValid)
	}
	return nil
}

func (m *mockClipRepo) SaveActivity(ctx context.Context, clientID, locale string) error {
	if m.saveActivityFn != nil {
		return m.saveActivityFn(ctx, clientID, locale)
	}
	return nil
}

func (m *mockClipRepo) Leaderboard(ctx context.Context, q domain.LeaderboardQuery) ([]domain.LeaderboardEntry, error) {
	if m.leaderboardFn != nil {
		return m.leaderboardFn(ctx, q)
	}
	return nil, nil
}

func (m *mockClipRepo) Rank(ctx context.Context, kind domain.LeaderboardKind, locale, clientID string) (*domain.LeaderboardEntry, error) {
	if m.rankFn != nil {
		return m.rankFn(ctx, kind, locale, clientID)
	}
	return nil, domain.ErrNotFound
}

func (m *mockClipRepo) ClipsStats(ctx context.Context, locale string) ([]domain.ClipStat, error) {
	if m.clipsStatsFn != nil {
		return m.clipsStatsFn(ctx, locale)
	}
	return nil, nil
}

func (m *mockClipRepo) VoicesStats(ctx context.Context, locale string) ([]domain.VoiceStat, error) {
	if m.voicesStatsFn != nil {
		return m.voicesStatsFn(ctx, locale)
	}
	return nil, nil
}

func (m *mockClipRepo) DailyClipsCount(ctx context.Context, locale string) (int64, error) {
	if m.dailyClipsFn != nil {
		return m.dailyClipsFn(ctx, locale)
	}
	return 0, nil
}

func (m *mockClipRepo) DailyVotesCount(ctx context.Context, locale string) (int64, error) {
	if m.dailyVotesFn != nil {
		return m.dailyVotesFn(ctx, locale)
	}
	return 0, nil
}

func (m *mockClipRepo) ValidatedSeconds(ctx context.Context) (int64, error) {
	if m.validatedSecsFn != nil {
		return m.validatedSecsFn(ctx)
	}
	return 0, nil
}
