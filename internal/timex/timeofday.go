package timex

import (
	"fmt"
	"strings"
	"time"
)

const (
	AM = "AM"
	PM = "PM"
)

// TimeOfDay is a wall-clock time in 12-hour form, as shown by the time
// selectors: Hour "01".."12", Minute "00".."59", Period "AM" or "PM".
type TimeOfDay struct {
	Hour   string `json:"hour"`
	Minute string `json:"minute"`
	Period string `json:"period"`
}

// Default slot bounds used before a profile is loaded.
var (
	DefaultStart = TimeOfDay{Hour: "08", Minute: "00", Period: PM}
	DefaultEnd   = TimeOfDay{Hour: "10", Minute: "30", Period: PM}
)

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%s:%s %s", t.Hour, t.Minute, t.Period)
}

// Clock returns the 24-hour clock values of t. Hour and Minute must be
// exactly two digits, the form TimeOfDayFromUTC produces.
func (t TimeOfDay) Clock() (hour, minute int, err error) {
	hour, ok := twoDigits(t.Hour)
	if !ok || hour < 1 || hour > 12 {
		return 0, 0, fmt.Errorf("invalid hour %q", t.Hour)
	}
	minute, ok = twoDigits(t.Minute)
	if !ok || minute > 59 {
		return 0, 0, fmt.Errorf("invalid minute %q", t.Minute)
	}
	switch t.Period {
	case AM:
		if hour == 12 {
			hour = 0
		}
	case PM:
		if hour != 12 {
			hour += 12
		}
	default:
		return 0, 0, fmt.Errorf("invalid period %q", t.Period)
	}
	return hour, minute, nil
}

func twoDigits(s string) (int, bool) {
	if len(s) != 2 || s[0] < '0' || s[0] > '9' || s[1] < '0' || s[1] > '9' {
		return 0, false
	}
	return int(s[0]-'0')*10 + int(s[1]-'0'), true
}

// Validate reports whether t is a well-formed time of day.
func (t TimeOfDay) Validate() error {
	_, _, err := t.Clock()
	return err
}

// ToUTC places t on the calendar day of ref as seen in loc and returns that
// instant in UTC. Wall times skipped by a DST transition are normalized
// forward by time.Date.
func (t TimeOfDay) ToUTC(loc *time.Location, ref time.Time) (time.Time, error) {
	hour, minute, err := t.Clock()
	if err != nil {
		return time.Time{}, err
	}
	if loc == nil {
		loc = time.Local
	}
	y, m, d := ref.In(loc).Date()
	return time.Date(y, m, d, hour, minute, 0, 0, loc).UTC(), nil
}

// TimeOfDayFromUTC converts a stored instant to the wall clock of loc.
func TimeOfDayFromUTC(instant time.Time, loc *time.Location) TimeOfDay {
	if loc == nil {
		loc = time.Local
	}
	local := instant.In(loc)
	return TimeOfDay{
		Hour:   local.Format("03"),
		Minute: local.Format("04"),
		Period: local.Format("PM"),
	}
}

// ParseTimeOfDay reads "8:30 pm", "08:30PM" or "20:30" into a TimeOfDay.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	s = strings.ToUpper(strings.Join(strings.Fields(s), ""))
	layouts := []string{"3:04PM", "03:04PM", "15:04"}
	for _, layout := range layouts {
		if v, err := time.Parse(layout, s); err == nil {
			return TimeOfDay{
				Hour:   v.Format("03"),
				Minute: v.Format("04"),
				Period: v.Format("PM"),
			}, nil
		}
	}
	return TimeOfDay{}, fmt.Errorf("invalid time of day %q, want HH:MM AM|PM", s)
}
