package app

import (
	"context"

	"github.com/rzajanckauskas/voice-web/internal/cache"
	"github.com/rzajanckauskas/voice-web/internal/domain"
)

// Aggregate reads are read-through cached when Redis is configured; the
// cache degrades to fresh computation on any Redis trouble.

func (s *Service) ClipsStats(ctx context.Context, locale string) ([]domain.ClipStat, error) {
	return cache.GetOrCompute(ctx, s.stats, "clips_stats:"+locale, func(ctx context.Context) ([]domain.ClipStat, error) {
		return s.clips.ClipsStats(ctx, locale)
	})
}

func (s *Service) VoicesStats(ctx context.Context, locale string) ([]domain.VoiceStat, error) {
	return cache.GetOrCompute(ctx, s.stats, "voices_stats:"+locale, func(ctx context.Context) ([]domain.VoiceStat, error) {
		return s.clips.VoicesStats(ctx, locale)
	})
}

func (s *Service) DailyClipsCount(ctx context.Context, locale string) (int64, error) {
	return cache.GetOrCompute(ctx, s.stats, "daily_clips:"+locale, func(ctx context.Context) (int64, error) {
		return s.clips.DailyClipsCount(ctx, locale)
	})
}

func (s *Service) DailyVotesCount(ctx context.Context, locale string) (int64, error) {
	return cache.GetOrCompute(ctx, s.stats, "daily_votes:"+locale, func(ctx context.Context) (int64, error) {
		return s.clips.DailyVotesCount(ctx, locale)
	})
}

// ValidatedHours reports the estimated hours of validated audio.
func (s *Service) ValidatedHours(ctx context.Context) (float64, error) {
	seconds, err := cache.GetOrCompute(ctx, s.stats, "validated_seconds", func(ctx context.Context) (int64, error) {
		return s.clips.ValidatedSeconds(ctx)
	})
	if err != nil {
		return 0, err
	}
	return float64(seconds) / 3600, nil
}
