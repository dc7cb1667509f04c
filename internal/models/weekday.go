package models

import (
	"fmt"
	"sort"
	"strings"
)

// WeekDay is one of the seven fixed day names used for availability.
type WeekDay string

const (
	Sunday    WeekDay = "Sunday"
	Monday    WeekDay = "Monday"
	Tuesday   WeekDay = "Tuesday"
	Wednesday WeekDay = "Wednesday"
	Thursday  WeekDay = "Thursday"
	Friday    WeekDay = "Friday"
	Saturday  WeekDay = "Saturday"
)

// WeekDays lists the enumeration in display order.
var WeekDays = []WeekDay{Sunday, Monday, Tuesday, Wednesday, Thursday, Friday, Saturday}

// Index returns the position of d in WeekDays, or -1 for unknown values.
func (d WeekDay) Index() int {
	for i, w := range WeekDays {
		if w == d {
			return i
		}
	}
	return -1
}

func (d WeekDay) Valid() bool { return d.Index() >= 0 }

// ParseWeekDay accepts a full day name or its three-letter prefix in any case.
func ParseWeekDay(s string) (WeekDay, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if len(s) >= 3 {
		for _, d := range WeekDays {
			name := strings.ToLower(string(d))
			if name == s || (len(s) == 3 && strings.HasPrefix(name, s)) {
				return d, nil
			}
		}
	}
	return "", fmt.Errorf("unknown week day %q", s)
}

// ToggleWeekDay adds day to the set when absent and removes it otherwise.
// The input slice is not modified.
func ToggleWeekDay(set []WeekDay, day WeekDay) []WeekDay {
	out := make([]WeekDay, 0, len(set)+1)
	found := false
	for _, d := range set {
		if d == day {
			found = true
			continue
		}
		out = append(out, d)
	}
	if !found {
		out = append(out, day)
	}
	return out
}

// ContainsWeekDay reports whether day is in set.
func ContainsWeekDay(set []WeekDay, day WeekDay) bool {
	for _, d := range set {
		if d == day {
			return true
		}
	}
	return false
}

// SortWeekDays returns a copy of set ordered Sunday..Saturday.
func SortWeekDays(set []WeekDay) []WeekDay {
	out := make([]WeekDay, len(set))
	copy(out, set)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Index() < out[j].Index() })
	return out
}

// JoinWeekDays renders set in enumeration order separated by sep.
func JoinWeekDays(set []WeekDay, sep string) string {
	sorted := SortWeekDays(set)
	names := make([]string, len(sorted))
	for i, d := range sorted {
		names[i] = string(d)
	}
	return strings.Join(names, sep)
}
