package page

import (
	"testing"
	"time"

	"github.com/dmitrijs2005/expertprofile/internal/models"
	"github.com/dmitrijs2005/expertprofile/internal/timex"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseUser() *models.UserInfo {
	return &models.UserInfo{
		ID: "u1", Name: "Alice", Email: "a@example.com", Username: "alice", Version: 4,
		ExpertProfile: &models.ExpertProfile{
			HourlyRate:        models.RateFromFloat(5),
			AvailableWeekDays: []models.WeekDay{models.Monday, models.Wednesday},
			Tags:              []string{"Solana Expert"},
		},
	}
}

func TestEditSession_SnapshotIsIsolated(t *testing.T) {
	u := baseUser()
	s := newEditSession(u, timex.DefaultStart, timex.DefaultEnd)

	require.NoError(t, s.ToggleWeekDay(models.Friday))
	s.TagInput().Add("DevRel")
	u.ExpertProfile.Tags[0] = "mutated"

	assert.Equal(t, []string{"Solana Expert", "DevRel"}, s.Tags())
	assert.Equal(t, []models.WeekDay{models.Monday, models.Wednesday}, u.ExpertProfile.AvailableWeekDays)
}

func TestEditSession_ToggleTwiceRestores(t *testing.T) {
	s := newEditSession(baseUser(), timex.DefaultStart, timex.DefaultEnd)
	before := s.WeekDays()

	for _, d := range models.WeekDays {
		require.NoError(t, s.ToggleWeekDay(d))
		require.NoError(t, s.ToggleWeekDay(d))
		assert.ElementsMatch(t, before, s.WeekDays(), "day %s", d)
	}
}

func TestEditSession_RejectsInvalidInput(t *testing.T) {
	s := newEditSession(baseUser(), timex.DefaultStart, timex.DefaultEnd)

	assert.Error(t, s.ToggleWeekDay("Funday"))
	assert.Error(t, s.SetHourlyRate("twelve"))
	assert.Error(t, s.SetStartTime(timex.TimeOfDay{Hour: "13", Minute: "00", Period: timex.PM}))
	assert.Error(t, s.SetEndTime(timex.TimeOfDay{Hour: "10", Minute: "60", Period: timex.PM}))
	assert.Error(t, s.SetEndTime(timex.TimeOfDay{Hour: "10", Minute: "00", Period: "XM"}))

	assert.Equal(t, "5", s.HourlyRate().String())
	assert.Equal(t, timex.DefaultStart, s.Start())
	assert.Equal(t, timex.DefaultEnd, s.End())
}

func TestEditSession_RejectsUnpaddedTimes(t *testing.T) {
	s := newEditSession(baseUser(), timex.DefaultStart, timex.DefaultEnd)

	assert.Error(t, s.SetStartTime(timex.TimeOfDay{Hour: "8", Minute: "00", Period: timex.PM}))
	assert.Error(t, s.SetStartTime(timex.TimeOfDay{Hour: "+8", Minute: "00", Period: timex.PM}))
	assert.Error(t, s.SetEndTime(timex.TimeOfDay{Hour: "10", Minute: "+5", Period: timex.PM}))

	assert.Empty(t, s.Diff())
}

func TestEditSession_EmptyRateIsZero(t *testing.T) {
	s := newEditSession(baseUser(), timex.DefaultStart, timex.DefaultEnd)
	require.NoError(t, s.SetHourlyRate(""))
	assert.True(t, s.HourlyRate().IsZero())
}

func TestEditSession_Diff(t *testing.T) {
	s := newEditSession(baseUser(), timex.DefaultStart, timex.DefaultEnd)
	assert.Empty(t, s.Diff())

	s.SetName("Alice B")
	require.NoError(t, s.SetHourlyRate("12.5"))
	require.NoError(t, s.ToggleWeekDay(models.Monday))
	require.NoError(t, s.SetStartTime(timex.TimeOfDay{Hour: "09", Minute: "15", Period: timex.AM}))

	assert.Equal(t, []Change{
		{Field: "name", From: "Alice", To: "Alice B"},
		{Field: "hourlyRate", From: "5", To: "12.5"},
		{Field: "availableWeekDays", From: "Monday, Wednesday", To: "Wednesday"},
		{Field: "startTimeSlot", From: "08:00 PM", To: "09:15 AM"},
	}, s.Diff())
}

func TestEditSession_RateOnlyNumericallyEqualIsNoChange(t *testing.T) {
	s := newEditSession(baseUser(), timex.DefaultStart, timex.DefaultEnd)
	require.NoError(t, s.SetHourlyRate("5.00"))
	assert.Empty(t, s.Diff())
}

func TestEditSession_Merge(t *testing.T) {
	riga, err := time.LoadLocation("Europe/Riga")
	if err != nil {
		t.Skip("tzdata not available")
	}
	s := newEditSession(baseUser(), timex.DefaultStart, timex.DefaultEnd)
	s.SetWalletAddress("So1anaWa11et")
	s.SetTags([]string{"DevRel"})

	ref := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)
	u, err := s.merge(riga, ref)
	require.NoError(t, err)

	// Riga is UTC+2 in January
	assert.Equal(t, time.Date(2024, 1, 15, 18, 0, 0, 0, time.UTC), *u.ExpertProfile.StartTimeSlot)
	assert.Equal(t, time.Date(2024, 1, 15, 20, 30, 0, 0, time.UTC), *u.ExpertProfile.EndTimeSlot)
	assert.Equal(t, "So1anaWa11et", u.WalletAddress)
	assert.Equal(t, []string{"DevRel"}, u.ExpertProfile.Tags)
	assert.Equal(t, int64(4), u.Version, "the base version is sent for the server check")
	assert.Equal(t, "a@example.com", u.Email)
}

func TestEditSession_MergeFailsOnBadTime(t *testing.T) {
	s := newEditSession(baseUser(), timex.TimeOfDay{Hour: "99", Minute: "00", Period: timex.PM}, timex.DefaultEnd)

	_, err := s.merge(time.UTC, time.Now())
	require.ErrorContains(t, err, "start time")
}
