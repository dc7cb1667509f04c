package client

import (
	"context"

	"github.com/dmitrijs2005/expertprofile/internal/models"
)

// Client is the profile API as seen by the page and the CLI.
type Client interface {
	Close() error
	Ping(ctx context.Context) error
	GetProfile(ctx context.Context) (*models.UserInfo, error)
	SaveProfile(ctx context.Context, u *models.UserInfo) (*models.UserInfo, error)
	RevisionURL(ctx context.Context, version int64) (string, error)
}
