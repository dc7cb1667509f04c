// Package services contains server-side business logic. This file implements
// ProfileService, which reads and saves the caller's profile and fans a
// stored revision out to the cache, the archive and the event stream.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/expertprofile/internal/common"
	"github.com/dmitrijs2005/expertprofile/internal/dbx"
	"github.com/dmitrijs2005/expertprofile/internal/logging"
	"github.com/dmitrijs2005/expertprofile/internal/models"
	"github.com/dmitrijs2005/expertprofile/internal/server/auth"
	"github.com/dmitrijs2005/expertprofile/internal/server/repositories/repomanager"
)

type Cache interface {
	Get(ctx context.Context, userID string) (*models.UserInfo, error)
	Set(ctx context.Context, u *models.UserInfo) error
	SetIfAbsent(ctx context.Context, u *models.UserInfo) (bool, error)
	Delete(ctx context.Context, userID string) error
}

type Archive interface {
	Put(ctx context.Context, u *models.UserInfo) error
	PresignGet(ctx context.Context, userID string, version int64) (string, error)
}

type Publisher interface {
	PublishProfileUpdated(ctx context.Context, userID string, version int64) error
}

// Bounds for the work done after a save has committed.
const (
	cacheWriteTimeout = 2 * time.Second
	fanOutTimeout     = 30 * time.Second
)

type ProfileService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	cache       Cache
	archive     Archive
	publisher   Publisher
	logger      logging.Logger

	fanOut sync.WaitGroup
}

func NewProfileService(db *sql.DB, m repomanager.RepositoryManager, cache Cache, archive Archive,
	publisher Publisher, logger logging.Logger) *ProfileService {
	return &ProfileService{
		db:          db,
		repomanager: m,
		cache:       cache,
		archive:     archive,
		publisher:   publisher,
		logger:      logger,
	}
}

// Get returns the caller's profile. The first call for an identity creates
// the user row and an empty expert profile.
func (s *ProfileService) Get(ctx context.Context, id auth.Identity) (*models.UserInfo, error) {
	if u, err := s.cache.Get(ctx, id.UserID); err != nil {
		s.logger.Warn(ctx, "cache read failed", "user_id", id.UserID, "error", err)
	} else if u != nil {
		return u, nil
	}

	u, err := s.load(ctx, s.db, id.UserID)
	if errors.Is(err, common.ErrorNotFound) {
		u, err = s.create(ctx, id)
	}
	if err != nil {
		return nil, s.internal(ctx, "load profile", err)
	}

	if _, err := s.cache.SetIfAbsent(ctx, u); err != nil {
		s.logger.Warn(ctx, "cache fill failed", "user_id", id.UserID, "error", err)
	}
	return u, nil
}

func (s *ProfileService) load(ctx context.Context, db dbx.DBTX, userID string) (*models.UserInfo, error) {
	u, err := s.repomanager.Users(db).Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	p, err := s.repomanager.Profiles(db).Get(ctx, userID)
	switch {
	case errors.Is(err, common.ErrorNotFound):
		p = &models.ExpertProfile{}
		p.Normalize()
	case err != nil:
		return nil, err
	}
	u.ExpertProfile = p
	return u, nil
}

func (s *ProfileService) create(ctx context.Context, id auth.Identity) (*models.UserInfo, error) {
	var u *models.UserInfo
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		seed := &models.UserInfo{ID: id.UserID, Email: id.Email, Username: id.Username, Name: id.Username}
		if err := s.repomanager.Users(tx).Create(ctx, seed); err != nil {
			return err
		}

		profiles := s.repomanager.Profiles(tx)
		if _, err := profiles.Get(ctx, id.UserID); errors.Is(err, common.ErrorNotFound) {
			empty := &models.ExpertProfile{}
			empty.Normalize()
			if err := profiles.Upsert(ctx, id.UserID, empty); err != nil {
				return err
			}
		} else if err != nil {
			return err
		}

		var err error
		u, err = s.load(ctx, tx, id.UserID)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("create profile: %w", err)
	}
	s.logger.Info(ctx, "profile created", "user_id", id.UserID)
	return u, nil
}

// Validate checks what the database cannot: weekday names and a
// non-negative rate.
func Validate(u *models.UserInfo) error {
	if u.ExpertProfile == nil {
		return nil
	}
	if u.ExpertProfile.HourlyRate.IsNegative() {
		return fmt.Errorf("%w: hourly rate must not be negative", common.ErrorInvalidInput)
	}
	for _, d := range u.ExpertProfile.AvailableWeekDays {
		if !d.Valid() {
			return fmt.Errorf("%w: unknown weekday %q", common.ErrorInvalidInput, d)
		}
	}
	return nil
}

// Save replaces the caller's profile with in. in.Version must equal the
// stored version, otherwise common.ErrVersionConflict is returned and
// nothing is written. Identity fields come from the stored row.
func (s *ProfileService) Save(ctx context.Context, id auth.Identity, in *models.UserInfo) (*models.UserInfo, error) {
	if err := Validate(in); err != nil {
		return nil, err
	}

	profile := in.ExpertProfile.Clone()
	if profile == nil {
		profile = &models.ExpertProfile{}
	}
	profile.Normalize()

	var stored *models.UserInfo
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		users := s.repomanager.Users(tx)

		cur, err := users.Get(ctx, id.UserID)
		if err != nil {
			return err
		}
		if cur.Version != in.Version {
			return common.ErrVersionConflict
		}

		cur.Name = in.Name
		cur.WalletAddress = in.WalletAddress
		version, err := users.Update(ctx, cur, in.Version)
		if err != nil {
			return err
		}
		if err := s.repomanager.Profiles(tx).Upsert(ctx, id.UserID, profile); err != nil {
			return err
		}

		cur.Version = version
		cur.ExpertProfile = profile
		stored = cur
		return nil
	})
	if err != nil {
		return nil, s.internal(ctx, "save profile", err)
	}

	s.refreshCache(ctx, stored)
	s.publish(ctx, stored)
	s.logger.Info(ctx, "profile saved", "user_id", stored.ID, "version", stored.Version)
	return stored, nil
}

// refreshCache writes the committed revision through to the cache before
// Save returns, so the caller's next read sees it. If the write fails the
// entry is dropped instead.
func (s *ProfileService) refreshCache(ctx context.Context, u *models.UserInfo) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cacheWriteTimeout)
	defer cancel()

	err := s.cache.Set(ctx, u)
	if err == nil {
		return
	}
	s.logger.Warn(ctx, "cache write failed", "user_id", u.ID, "error", err)
	if err := s.cache.Delete(ctx, u.ID); err != nil {
		s.logger.Warn(ctx, "cache invalidation failed", "user_id", u.ID, "error", err)
	}
}

// publish archives the revision and emits the change event in the
// background. The work outlives the request but not fanOutTimeout; failures
// are only logged since the save has already committed.
func (s *ProfileService) publish(ctx context.Context, u *models.UserInfo) {
	ctx = context.WithoutCancel(ctx)
	u = u.Clone()

	s.fanOut.Add(1)
	go func() {
		defer s.fanOut.Done()

		ctx, cancel := context.WithTimeout(ctx, fanOutTimeout)
		defer cancel()

		if err := s.archive.Put(ctx, u); err != nil {
			s.logger.Warn(ctx, "revision archive failed", "user_id", u.ID, "version", u.Version, "error", err)
		}
		if err := s.publisher.PublishProfileUpdated(ctx, u.ID, u.Version); err != nil {
			s.logger.Warn(ctx, "event publish failed", "user_id", u.ID, "version", u.Version, "error", err)
		}
	}()
}

// Wait blocks until background work started by Save has finished.
func (s *ProfileService) Wait() {
	s.fanOut.Wait()
}

// RevisionURL returns a short-lived link to an archived revision of the
// caller's own profile.
func (s *ProfileService) RevisionURL(ctx context.Context, id auth.Identity, version int64) (string, error) {
	if version < 1 {
		return "", fmt.Errorf("%w: version must be positive", common.ErrorInvalidInput)
	}
	u, err := s.Get(ctx, id)
	if err != nil {
		return "", err
	}
	if version > u.Version {
		return "", common.ErrorNotFound
	}
	url, err := s.archive.PresignGet(ctx, id.UserID, version)
	if err != nil {
		return "", s.internal(ctx, "presign revision", err)
	}
	return url, nil
}

// internal passes the sentinels callers can act on through and replaces
// anything else with common.ErrorInternal after logging it.
func (s *ProfileService) internal(ctx context.Context, op string, err error) error {
	for _, known := range []error{common.ErrorNotFound, common.ErrVersionConflict, common.ErrorInvalidInput, common.ErrorInternal} {
		if errors.Is(err, known) {
			return err
		}
	}
	s.logger.Error(ctx, op+" failed", "error", err)
	return common.ErrorInternal
}
