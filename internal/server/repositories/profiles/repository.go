// Package profiles stores the expert part of a profile: rate, weekly
// availability, preferred time slot and tags.
package profiles

import (
	"context"

	"github.com/dmitrijs2005/expertprofile/internal/models"
)

type Repository interface {
	// Get returns common.ErrorNotFound when the user has no expert profile.
	Get(ctx context.Context, userID string) (*models.ExpertProfile, error)
	// Upsert replaces the whole expert profile of userID.
	Upsert(ctx context.Context, userID string, p *models.ExpertProfile) error
}
