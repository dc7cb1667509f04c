package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRate(t *testing.T) {
	r, err := ParseRate("12.5")
	require.NoError(t, err)
	assert.Equal(t, "12.5", r.String())

	r, err = ParseRate("  ")
	require.NoError(t, err)
	assert.True(t, r.IsZero())

	_, err = ParseRate("abc")
	require.Error(t, err)
}

func TestRate_JSONIsBareNumber(t *testing.T) {
	b, err := json.Marshal(ExpertProfile{HourlyRate: RateFromFloat(12.5)})
	require.NoError(t, err)
	assert.Contains(t, string(b), `"hourlyRate":12.5`)

	var p ExpertProfile
	require.NoError(t, json.Unmarshal([]byte(`{"hourlyRate":5}`), &p))
	assert.Equal(t, "5", p.HourlyRate.String())

	require.NoError(t, json.Unmarshal([]byte(`{"hourlyRate":"7.25"}`), &p))
	assert.Equal(t, "7.25", p.HourlyRate.String())

	require.Error(t, json.Unmarshal([]byte(`{"hourlyRate":"x"}`), &p))
}
