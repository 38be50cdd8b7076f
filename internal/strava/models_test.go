package strava_test

import (
	"encoding/json"
	"testing"

	"github.com/2beens/stravatrack/internal/strava"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummaryActivity_TimezoneName(t *testing.T) {
	for tz, expected := range map[string]string{
		"(GMT-08:00) America/Los_Angeles": "America/Los_Angeles",
		"(GMT+01:00) Europe/Berlin":       "Europe/Berlin",
		"Europe/Berlin":                   "Europe/Berlin",
		"":                                "",
	} {
		a := strava.SummaryActivity{Timezone: tz}
		assert.Equal(t, expected, a.TimezoneName())
	}
}

func TestLatLng_Coords(t *testing.T) {
	lat, lng, ok := strava.LatLng{52.52, 13.40}.Coords()
	assert.True(t, ok)
	assert.Equal(t, 52.52, lat)
	assert.Equal(t, 13.40, lng)

	// the API sends an empty array for activities without GPS data
	_, _, ok = strava.LatLng{}.Coords()
	assert.False(t, ok)

	var payload struct {
		StartLatLng strava.LatLng `json:"start_latlng"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"start_latlng": []}`), &payload))
	_, _, ok = payload.StartLatLng.Coords()
	assert.False(t, ok)
}
