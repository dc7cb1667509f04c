// Package services contains the client-side services behind the CLI: the
// sealed local store for drafts and snapshots, and the profile service that
// falls back to that store while the server is unreachable.
package services

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/expertprofile/internal/client/client"
	"github.com/dmitrijs2005/expertprofile/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/expertprofile/internal/cryptox"
	"github.com/dmitrijs2005/expertprofile/internal/dbx"
	"github.com/dmitrijs2005/expertprofile/internal/models"
)

const (
	keySalt     = "salt"
	keyDraft    = "draft"
	keySnapshot = "snapshot"
)

// DraftStore keeps the unsynced draft and the last record confirmed by the
// server in the metadata table. Both are sealed with a key derived from the
// access token, so a store written under another token reads as empty.
type DraftStore struct {
	db     *sql.DB
	secret []byte

	mu  sync.Mutex
	key []byte
}

func NewDraftStore(db *sql.DB, accessToken string) *DraftStore {
	return &DraftStore{db: db, secret: []byte(accessToken)}
}

func (s *DraftStore) repo() metadata.Repository {
	return metadata.NewSQLiteRepository(s.db)
}

// sealKey derives the sealing key on first use. The salt is created once
// and stored in the clear next to the sealed values.
func (s *DraftStore) sealKey(ctx context.Context) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.key != nil {
		return s.key, nil
	}

	var salt []byte
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := metadata.NewSQLiteRepository(tx)
		rec, err := repo.Get(ctx, keySalt)
		if err != nil {
			return err
		}
		if rec != nil {
			salt = rec.Value
			return nil
		}
		if salt, err = cryptox.NewSalt(); err != nil {
			return err
		}
		return repo.Set(ctx, &metadata.Record{Key: keySalt, Value: salt})
	})
	if err != nil {
		return nil, err
	}
	s.key = cryptox.DeriveKey(s.secret, salt)
	return s.key, nil
}

func (s *DraftStore) put(ctx context.Context, key string, u *models.UserInfo) error {
	k, err := s.sealKey(ctx)
	if err != nil {
		return fmt.Errorf("seal key: %w", err)
	}
	ct, nonce, err := cryptox.Seal(u, k)
	if err != nil {
		return fmt.Errorf("seal %s: %w", key, err)
	}
	return s.repo().Set(ctx, &metadata.Record{Key: key, Value: ct, Nonce: nonce})
}

// get returns (nil, nil) when key is absent or was sealed under another key.
func (s *DraftStore) get(ctx context.Context, key string) (*models.UserInfo, error) {
	rec, err := s.repo().Get(ctx, key)
	if err != nil || rec == nil {
		return nil, err
	}
	k, err := s.sealKey(ctx)
	if err != nil {
		return nil, fmt.Errorf("seal key: %w", err)
	}
	var u models.UserInfo
	if err := cryptox.Open(rec.Value, rec.Nonce, k, &u); err != nil {
		return nil, nil
	}
	return &u, nil
}

func (s *DraftStore) SaveDraft(ctx context.Context, u *models.UserInfo) error {
	return s.put(ctx, keyDraft, u)
}

// LoadDraft returns the stored draft or nil when there is none.
func (s *DraftStore) LoadDraft(ctx context.Context) (*models.UserInfo, error) {
	return s.get(ctx, keyDraft)
}

func (s *DraftStore) ClearDraft(ctx context.Context) error {
	return s.repo().Delete(ctx, keyDraft)
}

func (s *DraftStore) SaveSnapshot(ctx context.Context, u *models.UserInfo) error {
	return s.put(ctx, keySnapshot, u)
}

// LoadSnapshot returns the last record the server confirmed, or
// client.ErrLocalDataNotAvailable.
func (s *DraftStore) LoadSnapshot(ctx context.Context) (*models.UserInfo, error) {
	u, err := s.get(ctx, keySnapshot)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, client.ErrLocalDataNotAvailable
	}
	return u, nil
}
