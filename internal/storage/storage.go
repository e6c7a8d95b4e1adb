// Package storage defines the persistence interface for profiles and swipe feedback.
package storage

import (
	"context"

	"github.com/ninerlabs/peermatch/internal/models"
)

// Storage defines profile and swipe persistence operations.
type Storage interface {
	// Profile operations
	CreateProfile(ctx context.Context, p *models.Profile) error
	GetProfile(ctx context.Context, id string) (*models.Profile, error)
	GetProfileByEmail(ctx context.Context, email string) (*models.Profile, error)
	UpsertProfile(ctx context.Context, p *models.Profile) error
	DeleteProfile(ctx context.Context, id string) error
	ListProfiles(ctx context.Context, offset, limit int) ([]*models.Profile, error)
	CountProfiles(ctx context.Context) (int64, error)

	// Swipe feedback operations
	CreateSwipe(ctx context.Context, s *models.SwipeFeedback) error
	ListSwipedIDs(ctx context.Context, swiperID string) (map[string]struct{}, error)
	CountSwipes(ctx context.Context) (int64, error)

	Close() error
}
