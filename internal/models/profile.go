package models

import "time"

// ExpertProfile is the bookable part of a profile. Time slots are UTC
// instants; only their time of day is meaningful to the page.
type ExpertProfile struct {
	HourlyRate        Rate       `json:"hourlyRate"`
	AvailableWeekDays []WeekDay  `json:"availableWeekDays"`
	StartTimeSlot     *time.Time `json:"startTimeSlot,omitempty"`
	EndTimeSlot       *time.Time `json:"endTimeSlot,omitempty"`
	Tags              []string   `json:"tags"`
}

// UserInfo is the profile record owned by the server. Version is bumped on
// every successful save and guards against blind overwrites.
type UserInfo struct {
	ID            string         `json:"id"`
	Name          string         `json:"name"`
	Email         string         `json:"email"`
	Username      string         `json:"username"`
	WalletAddress string         `json:"walletAddress"`
	CreatedAt     time.Time      `json:"createdAt"`
	Version       int64          `json:"version"`
	ExpertProfile *ExpertProfile `json:"expertProfile"`
}

// SaveRequest is the body of POST /api/profile.
type SaveRequest struct {
	Data UserInfo `json:"data"`
}

// Clone returns a deep copy of p.
func (p *ExpertProfile) Clone() *ExpertProfile {
	if p == nil {
		return nil
	}
	c := *p
	c.AvailableWeekDays = append([]WeekDay{}, p.AvailableWeekDays...)
	c.Tags = append([]string{}, p.Tags...)
	if p.StartTimeSlot != nil {
		t := *p.StartTimeSlot
		c.StartTimeSlot = &t
	}
	if p.EndTimeSlot != nil {
		t := *p.EndTimeSlot
		c.EndTimeSlot = &t
	}
	return &c
}

// Clone returns a deep copy of u.
func (u *UserInfo) Clone() *UserInfo {
	if u == nil {
		return nil
	}
	c := *u
	c.ExpertProfile = u.ExpertProfile.Clone()
	return &c
}

// Normalize replaces nil collections with empty ones so that an empty
// selection is stored and sent as [] rather than null.
func (p *ExpertProfile) Normalize() {
	if p.AvailableWeekDays == nil {
		p.AvailableWeekDays = []WeekDay{}
	}
	if p.Tags == nil {
		p.Tags = []string{}
	}
}
