package app

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/rzajanckauskas/voice-web/internal/domain"
	apperrors "github.com/rzajanckauskas/voice-web/internal/errors"
)

const leaderboardPageSize = 10

// leaderboardCursor is the decoded form of the opaque pagination token: the
// (count, client_id) keyset position of the last entry on the previous page.
type leaderboardCursor struct {
	Count    int64  `json:"count"`
	ClientID string `json:"client_id"`
}

func encodeCursor(c leaderboardCursor) string {
	data, _ := json.Marshal(c)
	return base64.URLEncoding.EncodeToString(data)
}

func decodeCursor(raw string) (*leaderboardCursor, error) {
	data, err := base64.URLEncoding.DecodeString(raw)
	if err != nil {
		return nil, err
	}
	var c leaderboardCursor
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// Leaderboard returns one ranked page of contribution standings. Entries are
// strictly ordered by count descending with client_id as the tie-break, so a
// sweep through the returned cursors never skips or repeats an entry.
//
// A malformed cursor degrades to the first page rather than erroring. The
// requesting client's own entry rides along separately when it falls outside
// the page.
func (s *Service) Leaderboard(ctx context.Context, kind domain.LeaderboardKind, locale, clientID, rawCursor string) (*domain.LeaderboardPage, error) {
	q := domain.LeaderboardQuery{
		Kind:   kind,
		Locale: locale,
		Limit:  leaderboardPageSize,
	}

	if rawCursor != "" {
		cur, err := decodeCursor(rawCursor)
		if err != nil {
			slog.Info("invalid leaderboard cursor, serving first page", "cursor", rawCursor, "error", err)
		} else {
			q.After = &cur.Count
			q.AfterClient = cur.ClientID
		}
	}

	entries, err := s.clips.Leaderboard(ctx, q)
	if err != nil {
		return nil, apperrors.InternalError("failed to load leaderboard", err)
	}

	page := &domain.LeaderboardPage{Entries: entries}
	if len(entries) == leaderboardPageSize {
		last := entries[len(entries)-1]
		page.Cursor = encodeCursor(leaderboardCursor{Count: last.Count, ClientID: last.ClientID})
	}

	if clientID != "" && !pageContains(entries, clientID) {
		you, err := s.clips.Rank(ctx, kind, locale, clientID)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return nil, apperrors.InternalError("failed to load requester rank", err)
		}
		page.You = you
	}

	return page, nil
}

func pageContains(entries []domain.LeaderboardEntry, clientID string) bool {
	for _, e := range entries {
		if e.ClientID == clientID {
			return true
		}
	}
	return false
}
