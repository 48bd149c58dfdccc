// Package session keeps the per-session analysis snapshot that grounds chat
// answers.
package session

import (
	"context"

	"github.com/spacesedan/reviewpulse/internal/models"
)

// Store holds one SessionContext per session id. Put replaces any prior
// snapshot. Get returns (nil, nil) for unknown or expired ids.
type Store interface {
	Get(ctx context.Context, id string) (*models.SessionContext, error)
	Put(ctx context.Context, id string, sc *models.SessionContext) error
}
