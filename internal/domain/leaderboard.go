package domain

// LeaderboardKind selects which contribution count a leaderboard ranks by.
type LeaderboardKind string

const (
	// LeaderboardClips ranks contributors by submitted clips.
	LeaderboardClips LeaderboardKind = "clips"
	// LeaderboardVotes ranks contributors by votes cast.
	LeaderboardVotes LeaderboardKind = "votes"
)

// LeaderboardEntry is one ranked row. Entries are derived per query, never
// stored. Ranks are strictly ordered by count descending with client_id as
// the tie-break so pagination never skips or repeats an entry.
type LeaderboardEntry struct {
	ClientID string `json:"client_id"`
	Rank     int    `json:"rank"`
	Count    int64  `json:"count"`
}

// LeaderboardPage is one page of ranked entries plus the cursor for the next
// page. Cursor is empty when there are no further pages. You, if set, is the
// requesting client's own entry when it falls outside the page.
type LeaderboardPage struct {
	Entries []LeaderboardEntry `json:"entries"`
	Cursor  string             `json:"cursor,omitempty"`
	You     *LeaderboardEntry  `json:"you,omitempty"`
}
