package domain

import (
	"time"

	"github.com/google/uuid"
)

// Clip is one transcoded, stored recording of a sentence by a contributor.
type Clip struct {
	ID                 uuid.UUID
	ClientID           string
	Locale             string
	Sentence           string
	OriginalSentenceID string
	Path               string
	CreatedAt          time.Time
}

// Glob is the clip's storage path with the container extension stripped.
// Vote markers and sentence sidecars are derived from it.
func (c *Clip) Glob() string {
	const ext = ".wav"
	if len(c.Path) > len(ext) && c.Path[len(c.Path)-len(ext):] == ext {
		return c.Path[:len(c.Path)-len(ext)]
	}
	return c.Path
}

// EligibleClip is a clip resolved for review by another contributor,
// including a fetchable playback URL.
type EligibleClip struct {
	ID    uuid.UUID `json:"id"`
	Glob  string    `json:"glob"`
	Text  string    `json:"text"`
	Sound string    `json:"sound"`
}

// SaveClipRequest bundles the metadata persisted alongside a stored clip.
type SaveClipRequest struct {
	ClientID           string
	Locale             string
	Sentence           string
	OriginalSentenceID string
	Path               string
}
