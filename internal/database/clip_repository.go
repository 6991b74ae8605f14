package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rzajanckauskas/voice-web/internal/domain"
)

// clipColumns must match the Scan order in scanClip.
const clipColumns = `id, client_id, locale, sentence, original_sentence_id, path, created_at`

// Clips with at least one approving vote count as validated. The repository
// estimates validated listening time from this fixed average clip length.
const avgClipSeconds = 5

// ClipRepo implements domain.ClipRepository backed by PostgreSQL.
type ClipRepo struct {
	pool *pgxpool.Pool
}

// NewClipRepo creates a ClipRepo from the shared connection pool.
func NewClipRepo(pool *pgxpool.Pool) *ClipRepo {
	return &ClipRepo{pool: pool}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanClip(row rowScanner) (*domain.Clip, error) {
	var clip domain.Clip
	err := row.Scan(
		&clip.ID, &clip.ClientID, &clip.Locale, &clip.Sentence,
		&clip.OriginalSentenceID, &clip.Path, &clip.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &clip, nil
}

func (r *ClipRepo) SaveClip(ctx context.Context, req domain.SaveClipRequest) (*domain.Clip, error) {
	clip, err := scanClip(r.pool.QueryRow(ctx, `
		INSERT INTO clips (client_id, locale, sentence, original_sentence_id, path)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (client_id, original_sentence_id) DO UPDATE SET
			locale = EXCLUDED.locale,
			sentence = EXCLUDED.sentence,
			path = EXCLUDED.path
		RETURNING `+clipColumns,
		req.ClientID, req.Locale, req.Sentence, req.OriginalSentenceID, req.Path))
	if err != nil {
		return nil, fmt.Errorf("failed to save clip: %w", err)
	}
	return clip, nil
}

func (r *ClipRepo) FindClip(ctx context.Context, id uuid.UUID) (*domain.Clip, error) {
	clip, err := scanClip(r.pool.QueryRow(ctx,
		`SELECT `+clipColumns+` FROM clips WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrClipNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find clip: %w", err)
	}
	return clip, nil
}

// FindEligibleClips samples clips the requesting client neither submitted
// nor already voted on. ORDER BY random() is fine at this table size; the
// contract promises no fairness across calls anyway.
func (r *ClipRepo) FindEligibleClips(ctx context.Context, clientID, locale string, limit int) ([]domain.Clip, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+clipColumns+` FROM clips c
		WHERE c.locale = $2
		  AND c.client_id <> $1
		  AND NOT EXISTS (
			SELECT 1 FROM votes v WHERE v.clip_id = c.id AND v.client_id = $1
		  )
		ORDER BY random()
		LIMIT $3
	`, clientID, locale, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query eligible clips: %w", err)
	}
	defer rows.Close()

	var clips []domain.Clip
	for rows.Next() {
		clip, err := scanClip(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan clip: %w", err)
		}
		clips = append(clips, *clip)
	}
	return clips, rows.Err()
}

// SaveVote records a vote. The (clip_id, client_id) primary key makes repeat
// votes a no-op, so two racing votes from the same client cannot double-count.
func (r *ClipRepo) SaveVote(ctx context.Context, clipID uuid.UUID, clientID string, isValid bool) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO votes (clip_id, client_id, is_valid)
		VALUES ($1, $2, $3)
		ON CONFLICT (clip_id, client_id) DO NOTHING
	`, clipID, clientID, isValid)
	if err != nil {
		return fmt.Errorf("failed to save vote: %w", err)
	}
	return nil
}

func (r *ClipRepo) SaveActivity(ctx context.Context, clientID, locale string) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO user_activity (client_id, locale) VALUES ($1, $2)
	`, clientID, locale)
	if err != nil {
		return fmt.Errorf("failed to save activity: %w", err)
	}
	return nil
}
