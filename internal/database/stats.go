package database

import (
	"context"
	"fmt"

	"github.com/rzajanckauskas/voice-web/internal/domain"
)

// ClipsStats returns daily clip totals for the locale, counting clips with
// at least one approving vote as valid.
func (r *ClipRepo) ClipsStats(ctx context.Context, locale string) ([]domain.ClipStat, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT date_trunc('day', c.created_at) AS day,
		       COUNT(*) AS total,
		       COUNT(*) FILTER (WHERE EXISTS (
			   SELECT 1 FROM votes v WHERE v.clip_id = c.id AND v.is_valid
		       )) AS valid
		FROM clips c
		WHERE ($1 = '' OR c.locale = $1)
		GROUP BY day
		ORDER BY day
	`, locale)
	if err != nil {
		return nil, fmt.Errorf("failed to query clip stats: %w", err)
	}
	defer rows.Close()

	var stats []domain.ClipStat
	for rows.Next() {
		var s domain.ClipStat
		if err := rows.Scan(&s.Date, &s.Total, &s.Valid); err != nil {
			return nil, fmt.Errorf("failed to scan clip stat: %w", err)
		}
		stats = append(stats, s)
	}
	return stats, rows.Err()
}

// VoicesStats returns the number of distinct contributing voices per day.
func (r *ClipRepo) VoicesStats(ctx context.Context, locale string) ([]domain.VoiceStat, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT date_trunc('day', created_at) AS day,
		       COUNT(DISTINCT client_id) AS voices
		FROM clips
		WHERE ($1 = '' OR locale = $1)
		GROUP BY day
		ORDER BY day
	`, locale)
	if err != nil {
		return nil, fmt.Errorf("failed to query voice stats: %w", err)
	}
	defer rows.Close()

	var stats []domain.VoiceStat
	for rows.Next() {
		var s domain.VoiceStat
		if err := rows.Scan(&s.Date, &s.Voices); err != nil {
			return nil, fmt.Errorf("failed to scan voice stat: %w", err)
		}
		stats = append(stats, s)
	}
	return stats, rows.Err()
}

func (r *ClipRepo) DailyClipsCount(ctx context.Context, locale string) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM clips
		WHERE ($1 = '' OR locale = $1)
		  AND created_at >= date_trunc('day', NOW())
	`, locale).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count daily clips: %w", err)
	}
	return count, nil
}

func (r *ClipRepo) DailyVotesCount(ctx context.Context, locale string) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM votes v
		JOIN clips c ON c.id = v.clip_id
		WHERE ($1 = '' OR c.locale = $1)
		  AND v.created_at >= date_trunc('day', NOW())
	`, locale).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count daily votes: %w", err)
	}
	return count, nil
}

// ValidatedSeconds estimates the total validated listening time from the
// number of clips with at least one approving vote.
func (r *ClipRepo) ValidatedSeconds(ctx context.Context) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(DISTINCT clip_id) FROM votes WHERE is_valid
	`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count validated clips: %w", err)
	}
	return count * avgClipSeconds, nil
}

// Compile-time interface check.
var _ domain.ClipRepository = (*ClipRepo)(nil)
