package app

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rzajanckauskas/voice-web/internal/domain"
	apperrors "github.com/rzajanckauskas/voice-web/internal/errors"
)

func TestRandomClips_MissingClient(t *testing.T) {
	svc := newTestService(nil, nil, nil)

	_, err := svc.RandomClips(context.Background(), "", "en", 3)

	var appErr *apperrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.TypeValidation, appErr.Type)
}

func TestRandomClips_EmptyPoolIsNotAnError(t *testing.T) {
	svc := newTestService(&mockClipRepo{}, nil, nil)

	clips, err := svc.RandomClips(context.Background(), "reviewer", "en", 3)
	require.NoError(t, err)
	assert.NotNil(t, clips)
	assert.Empty(t, clips)
}

func TestRandomClips_ResolvesPlaybackURLs(t *testing.T) {
	id := uuid.New()
	repo := &mockClipRepo{
		findEligibleFn: func(_ context.Context, clientID, locale string, limit int) ([]domain.Clip, error) {
			assert.Equal(t, "reviewer", clientID)
			assert.Equal(t, "en", locale)
			assert.Equal(t, 2, limit)
			return []domain.Clip{
				{ID: id, ClientID: "c1", Path: "c1/s1.wav", Sentence: "hello world"},
			}, nil
		},
	}
	svc := newTestService(repo, newMemBackend(), nil)

	clips, err := svc.RandomClips(context.Background(), "reviewer", "en", 2)
	require.NoError(t, err)
	require.Len(t, clips, 1)

	assert.Equal(t, id, clips[0].ID)
	assert.Equal(t, "c1/s1", clips[0].Glob)
	assert.Equal(t, "hello world", clips[0].Text)
	assert.Equal(t, "http://sound.example/c1/s1.wav", clips[0].Sound)
}

func TestRandomClips_ClampsCount(t *testing.T) {
	var gotLimit int
	repo := &mockClipRepo{
		findEligibleFn: func(_ context.Context, _, _ string, limit int) ([]domain.Clip, error) {
			gotLimit = limit
			return nil, nil
		},
	}
	svc := newTestService(repo, nil, nil)
	ctx := context.Background()

	_, err := svc.RandomClips(ctx, "reviewer", "en", 0)
	require.NoError(t, err)
	assert.Equal(t, 1, gotLimit)

	_, err = svc.RandomClips(ctx, "reviewer", "en", 10_000)
	require.NoError(t, err)
	assert.Equal(t, maxClipBatch, gotLimit)
}

func TestRandomClips_DropsUnresolvableClips(t *testing.T) {
	repo := &mockClipRepo{
		findEligibleFn: func(context.Context, string, string, int) ([]domain.Clip, error) {
			return []domain.Clip{{ID: uuid.New(), Path: "c1/s1.wav"}}, nil
		},
	}
	store := newMemBackend()
	store.urlErr = errors.New("presign failed")
	svc := newTestService(repo, store, nil)

	clips, err := svc.RandomClips(context.Background(), "reviewer", "en", 1)
	require.NoError(t, err)
	assert.Empty(t, clips)
}
