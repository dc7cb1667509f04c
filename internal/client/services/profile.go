package services

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/expertprofile/internal/client/client"
	"github.com/dmitrijs2005/expertprofile/internal/logging"
	"github.com/dmitrijs2005/expertprofile/internal/models"
)

// ProfileService is the page's view of the backend. Every record the server
// confirms is kept as a local snapshot; a fetch that cannot reach the server
// is answered from that snapshot instead.
type ProfileService struct {
	client client.Client
	store  *DraftStore
	logger logging.Logger
}

func NewProfileService(c client.Client, store *DraftStore, logger logging.Logger) *ProfileService {
	return &ProfileService{client: c, store: store, logger: logger}
}

func (s *ProfileService) GetProfile(ctx context.Context) (*models.UserInfo, error) {
	u, err := s.client.GetProfile(ctx)
	if err == nil {
		s.keep(ctx, u)
		return u, nil
	}
	if !errors.Is(err, client.ErrUnavailable) {
		return nil, err
	}

	snap, serr := s.store.LoadSnapshot(ctx)
	if serr != nil {
		return nil, err
	}
	s.logger.Warn(ctx, "server unavailable, using local snapshot", "error", err, "version", snap.Version)
	return snap, nil
}

func (s *ProfileService) SaveProfile(ctx context.Context, u *models.UserInfo) (*models.UserInfo, error) {
	stored, err := s.client.SaveProfile(ctx, u)
	if err != nil {
		return nil, err
	}
	s.keep(ctx, stored)
	return stored, nil
}

func (s *ProfileService) keep(ctx context.Context, u *models.UserInfo) {
	if err := s.store.SaveSnapshot(context.WithoutCancel(ctx), u); err != nil {
		s.logger.Warn(ctx, "snapshot save failed", "error", err)
	}
}

func (s *ProfileService) RevisionURL(ctx context.Context, version int64) (string, error) {
	return s.client.RevisionURL(ctx, version)
}

// Ping proxies a liveness check to the underlying client.
func (s *ProfileService) Ping(ctx context.Context) error {
	return s.client.Ping(ctx)
}

func (s *ProfileService) Close() error {
	return s.client.Close()
}
