package domain

import (
	"time"

	"github.com/google/uuid"
)

// Vote is one client's judgment on one clip. At most one vote exists per
// (clip, client) pair; the repository enforces this with a primary key.
type Vote struct {
	ClipID    uuid.UUID
	ClientID  string
	IsValid   bool
	CreatedAt time.Time
}
