// Package users stores the identity part of a profile: the row that holds
// display name, wallet address and the optimistic-concurrency version.
package users

import (
	"context"

	"github.com/dmitrijs2005/expertprofile/internal/models"
)

type Repository interface {
	// Create inserts the user if absent; an existing row is left untouched.
	Create(ctx context.Context, user *models.UserInfo) error
	Get(ctx context.Context, id string) (*models.UserInfo, error)
	// Update writes the editable columns when the stored version equals
	// expectedVersion and returns the bumped version.
	Update(ctx context.Context, user *models.UserInfo, expectedVersion int64) (int64, error)
}
