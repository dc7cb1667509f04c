package page

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/dmitrijs2005/expertprofile/internal/models"
	"github.com/dmitrijs2005/expertprofile/internal/timex"
)

// EditSession holds the unsaved edits of one edit cycle. base is a deep
// copy of the record the session was opened from and is never modified;
// its Version is what the save sends for the server-side version check.
type EditSession struct {
	base      *models.UserInfo
	baseStart timex.TimeOfDay
	baseEnd   timex.TimeOfDay

	name     string
	wallet   string
	rate     models.Rate
	weekDays []models.WeekDay
	start    timex.TimeOfDay
	end      timex.TimeOfDay
	tags     *TagInput
}

func newEditSession(u *models.UserInfo, start, end timex.TimeOfDay) *EditSession {
	base := u.Clone()
	if base.ExpertProfile == nil {
		base.ExpertProfile = &models.ExpertProfile{}
	}
	base.ExpertProfile.Normalize()

	return &EditSession{
		base:      base,
		baseStart: start,
		baseEnd:   end,
		name:      base.Name,
		wallet:    base.WalletAddress,
		rate:      base.ExpertProfile.HourlyRate,
		weekDays:  slices.Clone(base.ExpertProfile.AvailableWeekDays),
		start:     start,
		end:       end,
		tags:      NewTagInput(base.ExpertProfile.Tags),
	}
}

func (s *EditSession) SetName(name string)       { s.name = name }
func (s *EditSession) SetWalletAddress(w string) { s.wallet = w }

// SetHourlyRate parses text as a decimal number. Empty text means zero.
func (s *EditSession) SetHourlyRate(text string) error {
	r, err := models.ParseRate(text)
	if err != nil {
		return err
	}
	s.rate = r
	return nil
}

// ToggleWeekDay adds day to the selection or removes it when present.
func (s *EditSession) ToggleWeekDay(day models.WeekDay) error {
	if !day.Valid() {
		return fmt.Errorf("unknown weekday %q", day)
	}
	s.weekDays = models.ToggleWeekDay(s.weekDays, day)
	return nil
}

func (s *EditSession) SetStartTime(t timex.TimeOfDay) error {
	if err := t.Validate(); err != nil {
		return err
	}
	s.start = t
	return nil
}

func (s *EditSession) SetEndTime(t timex.TimeOfDay) error {
	if err := t.Validate(); err != nil {
		return err
	}
	s.end = t
	return nil
}

// SetTags replaces the tag list as given.
func (s *EditSession) SetTags(tags []string) { s.tags.Set(tags) }

// TagInput is the live tag editor of the session.
func (s *EditSession) TagInput() *TagInput { return s.tags }

func (s *EditSession) Name() string               { return s.name }
func (s *EditSession) WalletAddress() string      { return s.wallet }
func (s *EditSession) HourlyRate() models.Rate    { return s.rate }
func (s *EditSession) WeekDays() []models.WeekDay { return slices.Clone(s.weekDays) }
func (s *EditSession) Start() timex.TimeOfDay     { return s.start }
func (s *EditSession) End() timex.TimeOfDay       { return s.end }
func (s *EditSession) Tags() []string             { return s.tags.Tags() }
func (s *EditSession) BaseVersion() int64         { return s.base.Version }

// Change is one edited field as shown by Diff.
type Change struct {
	Field string
	From  string
	To    string
}

// Diff lists the fields that differ from the record the session started
// from, in form order.
func (s *EditSession) Diff() []Change {
	bp := s.base.ExpertProfile
	var out []Change
	add := func(field, from, to string) {
		if from != to {
			out = append(out, Change{Field: field, From: from, To: to})
		}
	}
	add("name", s.base.Name, s.name)
	add("walletAddress", s.base.WalletAddress, s.wallet)
	if !bp.HourlyRate.Equal(s.rate.Decimal) {
		out = append(out, Change{Field: "hourlyRate", From: bp.HourlyRate.String(), To: s.rate.String()})
	}
	add("availableWeekDays",
		models.JoinWeekDays(models.SortWeekDays(bp.AvailableWeekDays), ", "),
		models.JoinWeekDays(models.SortWeekDays(s.weekDays), ", "))
	add("startTimeSlot", s.baseStart.String(), s.start.String())
	add("endTimeSlot", s.baseEnd.String(), s.end.String())
	add("tags", strings.Join(bp.Tags, ", "), strings.Join(s.tags.Tags(), ", "))
	return out
}

// merge converts the time slots to UTC on the calendar day of ref in loc
// and folds every edit into a copy of the base record. Nothing is merged
// unless both conversions succeed.
func (s *EditSession) merge(loc *time.Location, ref time.Time) (*models.UserInfo, error) {
	startUTC, err := s.start.ToUTC(loc, ref)
	if err != nil {
		return nil, fmt.Errorf("start time: %w", err)
	}
	endUTC, err := s.end.ToUTC(loc, ref)
	if err != nil {
		return nil, fmt.Errorf("end time: %w", err)
	}

	u := s.base.Clone()
	u.Name = s.name
	u.WalletAddress = s.wallet

	p := u.ExpertProfile
	p.HourlyRate = s.rate
	p.StartTimeSlot = &startUTC
	p.EndTimeSlot = &endUTC
	p.AvailableWeekDays = slices.Clone(s.weekDays)
	p.Tags = s.tags.Tags()
	p.Normalize()

	return u, nil
}
