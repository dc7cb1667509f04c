package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseWeekDay(t *testing.T) {
	tests := []struct {
		in      string
		want    WeekDay
		wantErr bool
	}{
		{in: "Monday", want: Monday},
		{in: "monday", want: Monday},
		{in: " SAT ", want: Saturday},
		{in: "wed", want: Wednesday},
		{in: "mo", wantErr: true},
		{in: "Mondays", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseWeekDay(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestToggleWeekDay_TwiceRestoresSet(t *testing.T) {
	for _, start := range [][]WeekDay{
		{},
		{Monday},
		{Friday, Monday, Wednesday},
		{Sunday, Monday, Tuesday, Wednesday, Thursday, Friday, Saturday},
	} {
		for _, d := range WeekDays {
			once := ToggleWeekDay(start, d)
			assert.NotEqual(t, ContainsWeekDay(start, d), ContainsWeekDay(once, d))

			twice := ToggleWeekDay(once, d)
			assert.ElementsMatch(t, start, twice, "toggle %s twice on %v", d, start)
		}
	}
}

func TestToggleWeekDay_DoesNotMutateInput(t *testing.T) {
	in := []WeekDay{Monday, Tuesday}
	_ = ToggleWeekDay(in, Monday)
	assert.Equal(t, []WeekDay{Monday, Tuesday}, in)
}

func TestJoinWeekDays_UsesEnumerationOrder(t *testing.T) {
	assert.Equal(t, "Sunday, Wednesday, Friday", JoinWeekDays([]WeekDay{Friday, Sunday, Wednesday}, ", "))
	assert.Equal(t, "", JoinWeekDays(nil, ", "))
}

func TestWeekDay_Valid(t *testing.T) {
	assert.True(t, Thursday.Valid())
	assert.False(t, WeekDay("Caturday").Valid())
	assert.Equal(t, 0, Sunday.Index())
	assert.Equal(t, 6, Saturday.Index())
}
