package services

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/dmitrijs2005/expertprofile/internal/client/client"
	"github.com/dmitrijs2005/expertprofile/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---- helpers ----

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := client.InitDatabase(context.Background(), filepath.Join(t.TempDir(), "profile.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func sampleUser() *models.UserInfo {
	return &models.UserInfo{
		ID:      "u1",
		Name:    "Alice",
		Version: 3,
		ExpertProfile: &models.ExpertProfile{
			HourlyRate:        models.RateFromFloat(12.5),
			AvailableWeekDays: []models.WeekDay{models.Monday},
			Tags:              []string{"DevRel"},
		},
	}
}

func TestDraftStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewDraftStore(setupDB(t), "token-a")

	got, err := s.LoadDraft(ctx)
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, s.SaveDraft(ctx, sampleUser()))
	got, err = s.LoadDraft(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Alice", got.Name)
	assert.Equal(t, "12.5", got.ExpertProfile.HourlyRate.String())

	require.NoError(t, s.ClearDraft(ctx))
	got, err = s.LoadDraft(ctx)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestDraftStore_ValueIsSealed(t *testing.T) {
	ctx := context.Background()
	db := setupDB(t)
	s := NewDraftStore(db, "token-a")
	require.NoError(t, s.SaveDraft(ctx, sampleUser()))

	var value, nonce []byte
	require.NoError(t, db.QueryRow(`SELECT value, nonce FROM metadata WHERE key = ?`, keyDraft).Scan(&value, &nonce))
	assert.NotContains(t, string(value), "Alice")
	assert.Len(t, nonce, 12)
}

func TestDraftStore_OtherTokenReadsEmpty(t *testing.T) {
	ctx := context.Background()
	db := setupDB(t)
	require.NoError(t, NewDraftStore(db, "token-a").SaveDraft(ctx, sampleUser()))

	got, err := NewDraftStore(db, "token-b").LoadDraft(ctx)
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = NewDraftStore(db, "token-a").LoadDraft(ctx)
	require.NoError(t, err)
	require.NotNil(t, got, "the salt is reused across stores")
}

func TestDraftStore_Snapshot(t *testing.T) {
	ctx := context.Background()
	s := NewDraftStore(setupDB(t), "token-a")

	_, err := s.LoadSnapshot(ctx)
	require.ErrorIs(t, err, client.ErrLocalDataNotAvailable)

	require.NoError(t, s.SaveSnapshot(ctx, sampleUser()))
	got, err := s.LoadSnapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), got.Version)

	draft, err := s.LoadDraft(ctx)
	require.NoError(t, err)
	assert.Nil(t, draft, "snapshot and draft are kept apart")
}
