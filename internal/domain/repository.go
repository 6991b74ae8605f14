package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ClipStat is one time bucket of per-locale clip totals.
type ClipStat struct {
	Date  time.Time `json:"date"`
	Total int64     `json:"total"`
	Valid int64     `json:"valid"`
}

// VoiceStat is one time bucket of distinct contributing voices.
type VoiceStat struct {
	Date   time.Time `json:"date"`
	Voices int64     `json:"voices"`
}

// LeaderboardQuery is a keyset-paginated leaderboard request. After/AfterClient
// describe the last entry of the previous page; a nil After means first page.
type LeaderboardQuery struct {
	Kind        LeaderboardKind
	Locale      string
	After       *int64
	AfterClient string
	Limit       int
}

// ClipRepository is the data-access port for clip metadata, votes, activity,
// and aggregate reads. Implementations must be safe for concurrent use.
type ClipRepository interface {
	// SaveClip persists clip metadata. A re-submission for the same
	// (client_id, original_sentence_id) pair updates the existing row in
	// place rather than inserting a duplicate.
	SaveClip(ctx context.Context, req SaveClipRequest) (*Clip, error)

	// FindClip returns the clip with the given id, or ErrClipNotFound.
	FindClip(ctx context.Context, id uuid.UUID) (*Clip, error)

	// FindEligibleClips returns up to limit clips in the locale that clientID
	// neither submitted nor already voted on. Order is unspecified.
	FindEligibleClips(ctx context.Context, clientID, locale string, limit int) ([]Clip, error)

	// SaveVote records a vote. A repeat vote from the same client on the same
	// clip is a no-op; the first recorded judgment stands.
	SaveVote(ctx context.Context, clipID uuid.UUID, clientID string, isValid bool) error

	// SaveActivity records a contribution touch for (client, locale).
	SaveActivity(ctx context.Context, clientID, locale string) error

	// Leaderboard returns one keyset page of (client_id, count) standings,
	// ordered by count descending, client_id ascending.
	Leaderboard(ctx context.Context, q LeaderboardQuery) ([]LeaderboardEntry, error)

	// Rank returns the requesting client's own standing, or ErrNotFound if
	// the client has no countable contributions.
	Rank(ctx context.Context, kind LeaderboardKind, locale, clientID string) (*LeaderboardEntry, error)

	// Aggregate reads.
	ClipsStats(ctx context.Context, locale string) ([]ClipStat, error)
	VoicesStats(ctx context.Context, locale string) ([]VoiceStat, error)
	DailyClipsCount(ctx context.Context, locale string) (int64, error)
	DailyVotesCount(ctx context.Context, locale string) (int64, error)
	ValidatedSeconds(ctx context.Context) (int64, error)
}
