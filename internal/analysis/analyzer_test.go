package analysis_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/2beens/stravatrack/internal/activities"
	"github.com/2beens/stravatrack/internal/analysis"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLister struct {
	stored []activities.Activity
	err    error
}

func (f *fakeLister) List(_ context.Context, params activities.ListParams) ([]activities.Activity, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []activities.Activity
	for _, a := range f.stored {
		if params.Type != "" && a.Type != params.Type {
			continue
		}
		if params.Year != 0 && a.Year != params.Year {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

func testActivity(activityType string, start time.Time) activities.Activity {
	return activities.Activity{
		ID:             gofakeit.Int64(),
		AthleteID:      42,
		Type:           activityType,
		Name:           gofakeit.Sentence(3),
		StartDateLocal: start,
		HourOfDay:      start.Hour(),
		DayOfWeek:      start.Weekday().String(),
		Year:           start.Year(),
	}
}

func TestAnalyzer_StartTimeHeatmap(t *testing.T) {
	monday7am := time.Date(2024, 5, 13, 7, 15, 0, 0, time.UTC)
	saturday10am := time.Date(2024, 5, 18, 10, 5, 0, 0, time.UTC)

	lister := &fakeLister{}
	for i := 0; i < 10; i++ {
		lister.stored = append(lister.stored, testActivity("Run", monday7am))
	}
	for i := 0; i < 3; i++ {
		lister.stored = append(lister.stored, testActivity("Ride", saturday10am))
	}

	analyzer := analysis.NewAnalyzer(lister)
	heatmap, err := analyzer.StartTimeHeatmap(context.Background(), activities.ListParams{AthleteID: 42})
	require.NoError(t, err)

	// row 0 is Monday, row 5 is Saturday
	assert.Equal(t, 10, heatmap.Counts[0][7])
	assert.Equal(t, 3, heatmap.Counts[5][10])
	assert.Equal(t, 13, heatmap.Total())
}

func TestAnalyzer_StartTimeHeatmap_SkipsBogusRows(t *testing.T) {
	lister := &fakeLister{
		stored: []activities.Activity{
			{ID: 1, Type: "Run", DayOfWeek: "Funday", HourOfDay: 7},
			{ID: 2, Type: "Run", DayOfWeek: "Monday", HourOfDay: 99},
			{ID: 3, Type: "Run", DayOfWeek: "Monday", HourOfDay: 7},
		},
	}

	analyzer := analysis.NewAnalyzer(lister)
	heatmap, err := analyzer.StartTimeHeatmap(context.Background(), activities.ListParams{AthleteID: 42})
	require.NoError(t, err)

	assert.Equal(t, 1, heatmap.Total())
	assert.Equal(t, 1, heatmap.Counts[0][7])
}

func TestAnalyzer_StartTimeHeatmap_ListError(t *testing.T) {
	lister := &fakeLister{err: errors.New("db gone")}

	analyzer := analysis.NewAnalyzer(lister)
	_, err := analyzer.StartTimeHeatmap(context.Background(), activities.ListParams{AthleteID: 42})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db gone")
}

func TestAnalyzer_YearlyRunStats(t *testing.T) {
	run := func(start time.Time, miles float64, movingMin int) activities.Activity {
		a := testActivity("Run", start)
		a.DistanceMiles = miles
		a.MovingTimeSec = movingMin * 60
		a.AvgSpeedMinMile = float64(movingMin) / miles
		return a
	}

	lister := &fakeLister{
		stored: []activities.Activity{
			// 2023: two runs, 10 miles total
			run(time.Date(2023, 3, 1, 7, 0, 0, 0, time.UTC), 4, 32),
			run(time.Date(2023, 9, 1, 7, 0, 0, 0, time.UTC), 6, 48),
			// 2024: one run
			run(time.Date(2024, 2, 1, 7, 0, 0, 0, time.UTC), 3, 27),
			// rides are not counted
			testActivity("Ride", time.Date(2023, 4, 1, 9, 0, 0, 0, time.UTC)),
		},
	}

	analyzer := analysis.NewAnalyzer(lister)
	yearStats, err := analyzer.YearlyRunStats(context.Background(), 42)
	require.NoError(t, err)

	require.Len(t, yearStats, 2)
	assert.Equal(t, 2023, yearStats[0].Year)
	assert.Equal(t, 2024, yearStats[1].Year)

	stats2023 := yearStats[0]
	assert.Equal(t, 2, stats2023.Runs)
	assert.InDelta(t, 10.0, stats2023.TotalMiles, 0.001)
	assert.InDelta(t, 80.0/60, stats2023.TotalHours, 0.001)
	assert.InDelta(t, 5.0, stats2023.AvgDistanceMiles, 0.001)
	assert.InDelta(t, 8.0, stats2023.AvgPaceMinMile, 0.001)

	// cumulative mileage is a running sum in start order
	require.Len(t, stats2023.Cumulative, 2)
	assert.InDelta(t, 4.0, stats2023.Cumulative[0].TotalMiles, 0.001)
	assert.InDelta(t, 10.0, stats2023.Cumulative[1].TotalMiles, 0.001)

	stats2024 := yearStats[1]
	assert.Equal(t, 1, stats2024.Runs)
	assert.InDelta(t, 9.0, stats2024.AvgPaceMinMile, 0.001)
}

func TestAnalyzer_DistanceDistribution(t *testing.T) {
	lister := &fakeLister{
		stored: []activities.Activity{
			{ID: 1, Type: "Run", DistanceMiles: 3.1},
			{ID: 2, Type: "Run", DistanceMiles: 6.2},
			{ID: 3, Type: "Run", DistanceMiles: 0}, // treadmill without distance
		},
	}

	analyzer := analysis.NewAnalyzer(lister)
	distances, err := analyzer.DistanceDistribution(context.Background(), activities.ListParams{AthleteID: 42, Type: "Run"})
	require.NoError(t, err)

	assert.Equal(t, []float64{3.1, 6.2}, distances)
}
