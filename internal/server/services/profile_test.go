package services

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/expertprofile/internal/common"
	"github.com/dmitrijs2005/expertprofile/internal/dbx"
	"github.com/dmitrijs2005/expertprofile/internal/logging"
	"github.com/dmitrijs2005/expertprofile/internal/models"
	"github.com/dmitrijs2005/expertprofile/internal/server/auth"
	"github.com/dmitrijs2005/expertprofile/internal/server/repositories/profiles"
	"github.com/dmitrijs2005/expertprofile/internal/server/repositories/users"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- fakes ---

type fakeUsers struct {
	rows      map[string]*models.UserInfo
	getErr    error
	updateErr error
	created   []string
}

func (f *fakeUsers) Create(_ context.Context, u *models.UserInfo) error {
	if _, ok := f.rows[u.ID]; !ok {
		c := *u
		c.Version = 1
		f.rows[u.ID] = &c
		f.created = append(f.created, u.ID)
	}
	return nil
}

func (f *fakeUsers) Get(_ context.Context, id string) (*models.UserInfo, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	u, ok := f.rows[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	c := *u
	return &c, nil
}

func (f *fakeUsers) Update(_ context.Context, u *models.UserInfo, expected int64) (int64, error) {
	if f.updateErr != nil {
		return 0, f.updateErr
	}
	row := f.rows[u.ID]
	if row == nil || row.Version != expected {
		return 0, common.ErrVersionConflict
	}
	row.Name, row.WalletAddress = u.Name, u.WalletAddress
	row.Version++
	return row.Version, nil
}

type fakeProfiles struct {
	rows      map[string]*models.ExpertProfile
	upsertErr error
	beforeGet func()
}

func (f *fakeProfiles) Get(_ context.Context, id string) (*models.ExpertProfile, error) {
	if hook := f.beforeGet; hook != nil {
		f.beforeGet = nil
		hook()
	}
	p, ok := f.rows[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return p.Clone(), nil
}

func (f *fakeProfiles) Upsert(_ context.Context, id string, p *models.ExpertProfile) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}
	f.rows[id] = p.Clone()
	return nil
}

type fakeRepoManager struct {
	u *fakeUsers
	p *fakeProfiles
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(dbx.DBTX) users.Repository              { return m.u }
func (m *fakeRepoManager) Profiles(dbx.DBTX) profiles.Repository        { return m.p }

type fakeCache struct {
	entries map[string]*models.UserInfo
	getErr  error
	setErr  error
	deleted []string
}

func (c *fakeCache) Get(_ context.Context, id string) (*models.UserInfo, error) {
	if c.getErr != nil {
		return nil, c.getErr
	}
	return c.entries[id], nil
}

func (c *fakeCache) Set(_ context.Context, u *models.UserInfo) error {
	if c.setErr != nil {
		return c.setErr
	}
	c.entries[u.ID] = u.Clone()
	return nil
}

func (c *fakeCache) SetIfAbsent(_ context.Context, u *models.UserInfo) (bool, error) {
	if _, ok := c.entries[u.ID]; ok {
		return false, nil
	}
	c.entries[u.ID] = u.Clone()
	return true, nil
}

func (c *fakeCache) Delete(_ context.Context, id string) error {
	delete(c.entries, id)
	c.deleted = append(c.deleted, id)
	return nil
}

type fakeArchive struct {
	put        []int64
	putErr     error
	url        string
	presignErr error
}

func (a *fakeArchive) Put(_ context.Context, u *models.UserInfo) error {
	if a.putErr != nil {
		return a.putErr
	}
	a.put = append(a.put, u.Version)
	return nil
}

func (a *fakeArchive) PresignGet(_ context.Context, id string, v int64) (string, error) {
	if a.presignErr != nil {
		return "", a.presignErr
	}
	return a.url, nil
}

type fakePublisher struct {
	versions []int64
	err      error
	started  chan struct{}
	release  chan struct{}
}

func (p *fakePublisher) PublishProfileUpdated(ctx context.Context, _ string, v int64) error {
	if p.release != nil {
		close(p.started)
		<-p.release
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if p.err != nil {
		return p.err
	}
	p.versions = append(p.versions, v)
	return nil
}

// --- helpers ---

const uid = "0b5c7b9e-7d4f-4c53-9a53-8f4d3e2a1b10"

var alice = auth.Identity{UserID: uid, Email: "alice@example.com", Username: "alice"}

type fixture struct {
	svc   *ProfileService
	mock  sqlmock.Sqlmock
	rm    *fakeRepoManager
	cache *fakeCache
	arch  *fakeArchive
	pub   *fakePublisher
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	f := &fixture{
		mock:  mock,
		rm:    &fakeRepoManager{u: &fakeUsers{rows: map[string]*models.UserInfo{}}, p: &fakeProfiles{rows: map[string]*models.ExpertProfile{}}},
		cache: &fakeCache{entries: map[string]*models.UserInfo{}},
		arch:  &fakeArchive{url: "http://minio/signed"},
		pub:   &fakePublisher{},
	}
	f.svc = NewProfileService(db, f.rm, f.cache, f.arch, f.pub, logging.Nop())
	return f
}

func (f *fixture) seed(version int64, p *models.ExpertProfile) {
	f.rm.u.rows[uid] = &models.UserInfo{ID: uid, Email: alice.Email, Username: alice.Username, Name: "Alice", Version: version}
	if p != nil {
		f.rm.p.rows[uid] = p
	}
}

// --- Get ---

func TestGet_CreatesOnFirstCall(t *testing.T) {
	f := newFixture(t)
	f.mock.ExpectBegin()
	f.mock.ExpectCommit()

	u, err := f.svc.Get(context.Background(), alice)
	require.NoError(t, err)
	assert.Equal(t, []string{uid}, f.rm.u.created)
	assert.Equal(t, "alice", u.Name)
	assert.Equal(t, int64(1), u.Version)
	require.NotNil(t, u.ExpertProfile)
	assert.Equal(t, []models.WeekDay{}, u.ExpertProfile.AvailableWeekDays)
	assert.Contains(t, f.rm.p.rows, uid)
	assert.Contains(t, f.cache.entries, uid)
	require.NoError(t, f.mock.ExpectationsWereMet())
}

func TestGet_ExistingUserNoTransaction(t *testing.T) {
	f := newFixture(t)
	f.seed(3, &models.ExpertProfile{Tags: []string{"DevRel"}})

	u, err := f.svc.Get(context.Background(), alice)
	require.NoError(t, err)
	assert.Empty(t, f.rm.u.created)
	assert.Equal(t, int64(3), u.Version)
	assert.Equal(t, []string{"DevRel"}, u.ExpertProfile.Tags)
	require.NoError(t, f.mock.ExpectationsWereMet())
}

func TestGet_MissingExpertProfileIsEmpty(t *testing.T) {
	f := newFixture(t)
	f.seed(1, nil)

	u, err := f.svc.Get(context.Background(), alice)
	require.NoError(t, err)
	assert.Equal(t, []string{}, u.ExpertProfile.Tags)
}

func TestGet_FromCache(t *testing.T) {
	f := newFixture(t)
	f.cache.entries[uid] = &models.UserInfo{ID: uid, Name: "cached", Version: 9}

	u, err := f.svc.Get(context.Background(), alice)
	require.NoError(t, err)
	assert.Equal(t, "cached", u.Name)
}

func TestGet_CacheErrorFallsThrough(t *testing.T) {
	f := newFixture(t)
	f.seed(2, nil)
	f.cache.getErr = errors.New("redis down")

	u, err := f.svc.Get(context.Background(), alice)
	require.NoError(t, err)
	assert.Equal(t, int64(2), u.Version)
}

func TestGet_RepositoryError(t *testing.T) {
	f := newFixture(t)
	f.rm.u.getErr = errors.New("db error: boom")

	_, err := f.svc.Get(context.Background(), alice)
	require.ErrorIs(t, err, common.ErrorInternal)
	assert.NotContains(t, err.Error(), "boom")
}

// --- Save ---

func TestSave_BumpsVersionAndFansOut(t *testing.T) {
	f := newFixture(t)
	f.seed(1, &models.ExpertProfile{})
	f.cache.entries[uid] = &models.UserInfo{ID: uid}
	f.mock.ExpectBegin()
	f.mock.ExpectCommit()

	in := &models.UserInfo{
		ID: "ignored", Email: "evil@example.com", Name: "Alice B", WalletAddress: "So1ana", Version: 1,
		ExpertProfile: &models.ExpertProfile{
			HourlyRate:        models.RateFromFloat(12.5),
			AvailableWeekDays: []models.WeekDay{models.Monday, models.Wednesday},
			Tags:              []string{"Solana Expert"},
		},
	}
	out, err := f.svc.Save(context.Background(), alice, in)
	require.NoError(t, err)
	f.svc.Wait()

	assert.Equal(t, int64(2), out.Version)
	assert.Equal(t, uid, out.ID)
	assert.Equal(t, "alice@example.com", out.Email)
	assert.Equal(t, "Alice B", out.Name)
	assert.Equal(t, "12.5", out.ExpertProfile.HourlyRate.String())
	assert.Equal(t, "12.5", f.rm.p.rows[uid].HourlyRate.String())

	require.Contains(t, f.cache.entries, uid)
	assert.Equal(t, int64(2), f.cache.entries[uid].Version)
	assert.Empty(t, f.cache.deleted)
	assert.Equal(t, []int64{2}, f.arch.put)
	assert.Equal(t, []int64{2}, f.pub.versions)
	require.NoError(t, f.mock.ExpectationsWereMet())
}

func TestSave_EmptyWeekdaysStoredAsEmpty(t *testing.T) {
	f := newFixture(t)
	f.seed(1, nil)
	f.mock.ExpectBegin()
	f.mock.ExpectCommit()

	out, err := f.svc.Save(context.Background(), alice, &models.UserInfo{Version: 1, ExpertProfile: &models.ExpertProfile{}})
	require.NoError(t, err)
	assert.NotNil(t, out.ExpertProfile.AvailableWeekDays)
	assert.Empty(t, out.ExpertProfile.AvailableWeekDays)
}

func TestSave_StaleVersion(t *testing.T) {
	f := newFixture(t)
	f.seed(4, nil)
	f.mock.ExpectBegin()
	f.mock.ExpectRollback()

	_, err := f.svc.Save(context.Background(), alice, &models.UserInfo{Name: "x", Version: 3})
	require.ErrorIs(t, err, common.ErrVersionConflict)
	assert.Equal(t, "Alice", f.rm.u.rows[uid].Name)
	assert.Empty(t, f.pub.versions)
	require.NoError(t, f.mock.ExpectationsWereMet())
}

func TestSave_RaceLostInUpdate(t *testing.T) {
	f := newFixture(t)
	f.seed(1, nil)
	f.rm.u.updateErr = common.ErrVersionConflict
	f.mock.ExpectBegin()
	f.mock.ExpectRollback()

	_, err := f.svc.Save(context.Background(), alice, &models.UserInfo{Version: 1})
	require.ErrorIs(t, err, common.ErrVersionConflict)
}

func TestSave_UpsertErrorRollsBack(t *testing.T) {
	f := newFixture(t)
	f.seed(1, nil)
	f.rm.p.upsertErr = errors.New("db error: check constraint")
	f.mock.ExpectBegin()
	f.mock.ExpectRollback()

	_, err := f.svc.Save(context.Background(), alice, &models.UserInfo{Version: 1})
	require.ErrorIs(t, err, common.ErrorInternal)
	assert.Empty(t, f.arch.put)
	require.NoError(t, f.mock.ExpectationsWereMet())
}

func TestSave_Validation(t *testing.T) {
	tests := []struct {
		name string
		p    *models.ExpertProfile
	}{
		{"negative rate", &models.ExpertProfile{HourlyRate: models.RateFromFloat(-1)}},
		{"unknown weekday", &models.ExpertProfile{AvailableWeekDays: []models.WeekDay{"Funday"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.seed(1, nil)

			_, err := f.svc.Save(context.Background(), alice, &models.UserInfo{Version: 1, ExpertProfile: tt.p})
			require.ErrorIs(t, err, common.ErrorInvalidInput)
			require.NoError(t, f.mock.ExpectationsWereMet())
		})
	}
}

func TestSave_SideEffectFailuresDoNotFail(t *testing.T) {
	f := newFixture(t)
	f.seed(1, nil)
	f.arch.putErr = errors.New("s3 down")
	f.pub.err = errors.New("kafka down")
	f.cache.setErr = errors.New("redis down")
	f.cache.entries[uid] = &models.UserInfo{ID: uid, Version: 1}
	f.mock.ExpectBegin()
	f.mock.ExpectCommit()

	out, err := f.svc.Save(context.Background(), alice, &models.UserInfo{Version: 1})
	require.NoError(t, err)
	f.svc.Wait()
	assert.Equal(t, int64(2), out.Version)
	assert.Equal(t, []string{uid}, f.cache.deleted, "a failed cache write drops the entry")
	assert.NotContains(t, f.cache.entries, uid)
}

func TestSave_ReturnsBeforeSlowPublisherAndKeepsPublishing(t *testing.T) {
	f := newFixture(t)
	f.seed(1, nil)
	f.pub.started = make(chan struct{})
	f.pub.release = make(chan struct{})
	f.mock.ExpectBegin()
	f.mock.ExpectCommit()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := f.svc.Save(ctx, alice, &models.UserInfo{Version: 1})
		done <- err
	}()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Save blocked on the event publisher")
	}

	<-f.pub.started
	cancel()
	close(f.pub.release)
	f.svc.Wait()

	assert.Equal(t, []int64{2}, f.pub.versions, "a cancelled request must not drop the event")
	assert.Equal(t, []int64{2}, f.arch.put)
}

func TestGet_ConcurrentSaveWinsTheCache(t *testing.T) {
	f := newFixture(t)
	f.seed(1, nil)
	f.mock.ExpectBegin()
	f.mock.ExpectCommit()

	// The save commits after Get has read the user row but before it fills
	// the cache.
	f.rm.p.beforeGet = func() {
		_, err := f.svc.Save(context.Background(), alice, &models.UserInfo{Name: "Alice B", Version: 1})
		require.NoError(t, err)
	}

	u, err := f.svc.Get(context.Background(), alice)
	require.NoError(t, err)
	f.svc.Wait()
	assert.Equal(t, int64(1), u.Version)

	require.Contains(t, f.cache.entries, uid)
	assert.Equal(t, int64(2), f.cache.entries[uid].Version)
	assert.Equal(t, "Alice B", f.cache.entries[uid].Name)
	require.NoError(t, f.mock.ExpectationsWereMet())
}

func TestSave_UnknownUser(t *testing.T) {
	f := newFixture(t)
	f.mock.ExpectBegin()
	f.mock.ExpectRollback()

	_, err := f.svc.Save(context.Background(), alice, &models.UserInfo{Version: 1})
	require.ErrorIs(t, err, common.ErrorNotFound)
}

// --- RevisionURL ---

func TestRevisionURL(t *testing.T) {
	f := newFixture(t)
	f.seed(3, nil)

	url, err := f.svc.RevisionURL(context.Background(), alice, 2)
	require.NoError(t, err)
	assert.Equal(t, "http://minio/signed", url)

	_, err = f.svc.RevisionURL(context.Background(), alice, 4)
	require.ErrorIs(t, err, common.ErrorNotFound)

	_, err = f.svc.RevisionURL(context.Background(), alice, 0)
	require.ErrorIs(t, err, common.ErrorInvalidInput)
}

func TestRevisionURL_PresignFailureIsInternal(t *testing.T) {
	f := newFixture(t)
	f.seed(3, nil)
	f.arch.presignErr = errors.New("s3: access denied")

	_, err := f.svc.RevisionURL(context.Background(), alice, 2)
	require.ErrorIs(t, err, common.ErrorInternal)
}
