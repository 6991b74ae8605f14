package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/rzajanckauskas/voice-web/internal/domain"
)

// countsByClient aggregates the countable contributions for a leaderboard
// kind. Votes are filtered by the voted clip's locale since votes themselves
// carry none.
func countsByClient(kind domain.LeaderboardKind) string {
	if kind == domain.LeaderboardVotes {
		return `
			SELECT v.client_id, COUNT(*) AS cnt
			FROM votes v
			JOIN clips c ON c.id = v.clip_id
			WHERE ($1 = '' OR c.locale = $1)
			GROUP BY v.client_id`
	}
	return `
		SELECT client_id, COUNT(*) AS cnt
		FROM clips
		WHERE ($1 = '' OR locale = $1)
		GROUP BY client_id`
}

// Leaderboard returns one keyset page of standings. Ranks come from a
// ROW_NUMBER over the full aggregate so they stay globally consistent across
// pages, and the (cnt, client_id) keyset predicate means a sweep through the
// cursors never skips or repeats an entry.
func (r *ClipRepo) Leaderboard(ctx context.Context, q domain.LeaderboardQuery) ([]domain.LeaderboardEntry, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT client_id, cnt, rn FROM (
			SELECT client_id, cnt,
			       ROW_NUMBER() OVER (ORDER BY cnt DESC, client_id ASC) AS rn
			FROM (`+countsByClient(q.Kind)+`) agg
		) ranked
		WHERE $2::bigint IS NULL
		   OR cnt < $2
		   OR (cnt = $2 AND client_id > $3)
		ORDER BY rn
		LIMIT $4
	`, q.Locale, q.After, q.AfterClient, q.Limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query leaderboard: %w", err)
	}
	defer rows.Close()

	var entries []domain.LeaderboardEntry
	for rows.Next() {
		var e domain.LeaderboardEntry
		var rank int64
		if err := rows.Scan(&e.ClientID, &e.Count, &rank); err != nil {
			return nil, fmt.Errorf("failed to scan leaderboard entry: %w", err)
		}
		e.Rank = int(rank)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Rank returns the requesting client's own standing.
func (r *ClipRepo) Rank(ctx context.Context, kind domain.LeaderboardKind, locale, clientID string) (*domain.LeaderboardEntry, error) {
	var e domain.LeaderboardEntry
	var rank int64
	err := r.pool.QueryRow(ctx, `
		SELECT client_id, cnt, rn FROM (
			SELECT client_id, cnt,
			       ROW_NUMBER() OVER (ORDER BY cnt DESC, client_id ASC) AS rn
			FROM (`+countsByClient(kind)+`) agg
		) ranked
		WHERE client_id = $2
	`, locale, clientID).Scan(&e.ClientID, &e.Count, &rank)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query rank: %w", err)
	}
	e.Rank = int(rank)
	return &e, nil
}
