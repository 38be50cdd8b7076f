package activities_test

import (
	"testing"
	"time"

	"github.com/2beens/stravatrack/internal/activities"
	"github.com/2beens/stravatrack/internal/strava"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewActivityFromSummary(t *testing.T) {
	avgHR := 151.2
	summary := strava.SummaryActivity{
		ID:                 123456,
		Name:               "Tiergarten Loop",
		Type:               "Run",
		Distance:           10000, // meters
		MovingTime:         3000,  // 50 min
		ElapsedTime:        3120,
		TotalElevationGain: 54.5,
		// wednesday, 18:30 local
		StartDate:        time.Date(2024, 5, 15, 16, 30, 0, 0, time.UTC),
		StartDateLocal:   time.Date(2024, 5, 15, 18, 30, 0, 0, time.UTC),
		Timezone:         "(GMT+01:00) Europe/Berlin",
		StartLatLng:      strava.LatLng{52.5145, 13.3501},
		EndLatLng:        strava.LatLng{52.5147, 13.3505},
		AverageSpeed:     3.33,
		HasHeartrate:     true,
		AverageHeartrate: &avgHR,
		GearID:           "g123",
	}
	summary.Athlete.ID = 42

	a := activities.NewActivityFromSummary(summary)

	assert.Equal(t, int64(123456), a.ID)
	assert.Equal(t, int64(42), a.AthleteID)
	assert.Equal(t, "Run", a.Type)

	assert.Equal(t, float64(10000), a.DistanceMeters)
	assert.InDelta(t, 6.2137, a.DistanceMiles, 0.001)
	assert.InDelta(t, 10.0, a.DistanceKm, 0.001)
	// 50 min over ~6.21 miles is ~8:03 min/mile pace
	assert.InDelta(t, 8.047, a.AvgSpeedMinMile, 0.01)

	assert.Equal(t, 18, a.HourOfDay)
	assert.Equal(t, "Wednesday", a.DayOfWeek)
	assert.Equal(t, 2024, a.Year)
	assert.Equal(t, "Europe/Berlin", a.Timezone)

	assert.Equal(t, summary.StartDate.Add(3120*time.Second), a.EndDateUTC)
	assert.Equal(t, summary.StartDateLocal.Add(3120*time.Second), a.EndDateLocal)

	require.NotNil(t, a.StartLatitude)
	require.NotNil(t, a.StartLongitude)
	assert.Equal(t, 52.5145, *a.StartLatitude)
	assert.Equal(t, 13.3501, *a.StartLongitude)

	require.NotNil(t, a.AverageHeartrate)
	assert.Equal(t, avgHR, *a.AverageHeartrate)
	assert.Equal(t, "g123", a.GearID)
}

func TestNewActivityFromSummary_NoGPSNoDistance(t *testing.T) {
	summary := strava.SummaryActivity{
		ID:             7,
		Name:           "Treadmill Intervals",
		Type:           "Run",
		Distance:       0,
		MovingTime:     1800,
		StartDate:      time.Date(2024, 1, 8, 6, 5, 0, 0, time.UTC),
		StartDateLocal: time.Date(2024, 1, 8, 7, 5, 0, 0, time.UTC),
		StartLatLng:    strava.LatLng{}, // no GPS data
	}

	a := activities.NewActivityFromSummary(summary)

	assert.Nil(t, a.StartLatitude)
	assert.Nil(t, a.StartLongitude)
	assert.Zero(t, a.AvgSpeedMinMile, "no distance means no pace, not a division by zero")
	assert.Equal(t, 7, a.HourOfDay)
	assert.Equal(t, "Monday", a.DayOfWeek)
}

func TestActivity_ApplyDetail(t *testing.T) {
	summary := strava.SummaryActivity{
		ID:             9,
		Type:           "Run",
		StartDate:      time.Date(2024, 3, 2, 9, 0, 0, 0, time.UTC),
		StartDateLocal: time.Date(2024, 3, 2, 10, 0, 0, 0, time.UTC),
	}
	a := activities.NewActivityFromSummary(summary)

	exertion := 7.0
	a.ApplyDetail(&strava.DetailedActivity{
		SummaryActivity:   summary,
		Description:       "long run, felt strong",
		Calories:          850,
		DeviceName:        "Garmin Forerunner 255",
		PerceivedExertion: &exertion,
		Gear:              &strava.Gear{ID: "g55", Name: "Endorphin Speed"},
	})

	assert.Equal(t, "long run, felt strong", a.Description)
	assert.Equal(t, float64(850), a.Calories)
	assert.Equal(t, "Garmin Forerunner 255", a.DeviceName)
	require.NotNil(t, a.PerceivedExertion)
	assert.Equal(t, 7.0, *a.PerceivedExertion)
	// gear id was empty on the summary, the detail fills it
	assert.Equal(t, "g55", a.GearID)
}

func TestNewSplits(t *testing.T) {
	hr := 155.0
	splits := activities.NewSplits(9, activities.SplitUnitKm, []strava.Split{
		{Split: 1, Distance: 1000, ElapsedTime: 310, MovingTime: 300, AverageSpeed: 3.33, AverageHeartrate: &hr, ElevationDifference: 2.5},
		{Split: 2, Distance: 1000, ElapsedTime: 305, MovingTime: 298, AverageSpeed: 3.36},
	})

	require.Len(t, splits, 2)
	assert.Equal(t, int64(9), splits[0].ActivityID)
	assert.Equal(t, activities.SplitUnitKm, splits[0].Unit)
	assert.Equal(t, 1, splits[0].Split)
	assert.Equal(t, 300, splits[0].MovingTimeSec)
	require.NotNil(t, splits[0].AverageHeartrate)
	assert.Equal(t, hr, *splits[0].AverageHeartrate)
	assert.Nil(t, splits[1].AverageHeartrate)
}
