package analysis_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/2beens/stravatrack/internal/analysis"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertPNGWritten(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
	assert.Equal(t, ".png", filepath.Ext(path))
}

func TestRenderer_StartTimeHeatmap(t *testing.T) {
	renderer, err := analysis.NewRenderer(t.TempDir())
	require.NoError(t, err)

	heatmap := &analysis.StartTimeHeatmap{}
	heatmap.Counts[0][7] = 12
	heatmap.Counts[2][18] = 4
	heatmap.Counts[5][10] = 7

	path, err := renderer.StartTimeHeatmap(heatmap, "Activity Start Times", "heatmap.png")
	require.NoError(t, err)
	assertPNGWritten(t, path)
}

func TestRenderer_YearlyCharts(t *testing.T) {
	renderer, err := analysis.NewRenderer(t.TempDir())
	require.NoError(t, err)

	stats := analysis.YearStats{
		Year:           2024,
		Runs:           3,
		TotalMiles:     15.5,
		TotalHours:     2.2,
		AvgPaceMinMile: 8.5,
		Cumulative: []analysis.CumulativePoint{
			{Date: time.Date(2024, 1, 10, 7, 0, 0, 0, time.UTC), TotalMiles: 5},
			{Date: time.Date(2024, 2, 15, 7, 0, 0, 0, time.UTC), TotalMiles: 10.2},
			{Date: time.Date(2024, 3, 20, 7, 0, 0, 0, time.UTC), TotalMiles: 15.5},
		},
		Paces: []analysis.CumulativePoint{
			{Date: time.Date(2024, 1, 10, 7, 0, 0, 0, time.UTC), TotalMiles: 8.7},
			{Date: time.Date(2024, 2, 15, 7, 0, 0, 0, time.UTC), TotalMiles: 8.5},
			{Date: time.Date(2024, 3, 20, 7, 0, 0, 0, time.UTC), TotalMiles: 8.3},
		},
	}

	mileagePath, err := renderer.YearlyMileage(stats, "mileage-2024.png")
	require.NoError(t, err)
	assertPNGWritten(t, mileagePath)

	pacePath, err := renderer.YearlyPace(stats, "pace-2024.png")
	require.NoError(t, err)
	assertPNGWritten(t, pacePath)
}

func TestRenderer_DistanceHistogram(t *testing.T) {
	renderer, err := analysis.NewRenderer(t.TempDir())
	require.NoError(t, err)

	path, err := renderer.DistanceHistogram(
		[]float64{3.1, 3.2, 5.0, 6.2, 6.3, 10.1, 13.1},
		"Run Distances",
		"distances.png",
	)
	require.NoError(t, err)
	assertPNGWritten(t, path)
}
