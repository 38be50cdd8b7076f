package analysis

import (
	"context"
	"sort"
	"time"

	"github.com/2beens/stravatrack/internal/activities"
	"github.com/2beens/stravatrack/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
)

type activitiesLister interface {
	List(ctx context.Context, params activities.ListParams) ([]activities.Activity, error)
}

// Analyzer reads the stored tables and aggregates them for the charts.
// Strictly read-only.
type Analyzer struct {
	repo activitiesLister
}

func NewAnalyzer(repo activitiesLister) *Analyzer {
	return &Analyzer{
		repo: repo,
	}
}

// Weekdays in heatmap row order.
var Weekdays = [7]string{
	"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday",
}

func dayIndex(day string) int {
	for i, d := range Weekdays {
		if d == day {
			return i
		}
	}
	return -1
}

// StartTimeHeatmap counts activity starts per day-of-week and
// hour-of-day (local time). Counts[0] is Monday.
type StartTimeHeatmap struct {
	Counts [7][24]int
}

func (hm *StartTimeHeatmap) Total() int {
	total := 0
	for _, day := range hm.Counts {
		for _, count := range day {
			total += count
		}
	}
	return total
}

func (a *Analyzer) StartTimeHeatmap(
	ctx context.Context,
	params activities.ListParams,
) (_ *StartTimeHeatmap, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "analyzer.startTimeHeatmap")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	stored, err := a.repo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	heatmap := &StartTimeHeatmap{}
	for _, activity := range stored {
		day := dayIndex(activity.DayOfWeek)
		if day < 0 || activity.HourOfDay < 0 || activity.HourOfDay > 23 {
			log.Warnf(
				"activity %d has bogus calendar fields (%q, %d), not counted",
				activity.ID, activity.DayOfWeek, activity.HourOfDay,
			)
			continue
		}
		heatmap.Counts[day][activity.HourOfDay]++
	}

	return heatmap, nil
}

type CumulativePoint struct {
	Date       time.Time
	TotalMiles float64
}

// YearStats is the yearly running summary the charts annotate.
type YearStats struct {
	Year             int
	Runs             int
	TotalMiles       float64
	TotalHours       float64
	AvgPaceMinMile   float64
	AvgDistanceMiles float64
	// Cumulative mileage over the year, one point per run.
	Cumulative []CumulativePoint
	// Pace per run, for the scatter chart.
	Paces []CumulativePoint
}

// YearlyRunStats aggregates all stored runs per calendar year,
// ascending.
func (a *Analyzer) YearlyRunStats(ctx context.Context, athleteID int64) (_ []YearStats, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "analyzer.yearlyRunStats")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	runs, err := a.repo.List(ctx, activities.ListParams{
		AthleteID: athleteID,
		Type:      "Run",
	})
	if err != nil {
		return nil, err
	}

	year2stats := make(map[int]*YearStats)
	for _, run := range runs {
		stats, ok := year2stats[run.Year]
		if !ok {
			stats = &YearStats{Year: run.Year}
			year2stats[run.Year] = stats
		}

		stats.Runs++
		stats.TotalMiles += run.DistanceMiles
		stats.TotalHours += float64(run.MovingTimeSec) / 3600

		// repo returns runs ordered by start time, so cumulative
		// mileage is a simple running sum
		stats.Cumulative = append(stats.Cumulative, CumulativePoint{
			Date:       run.StartDateLocal,
			TotalMiles: stats.TotalMiles,
		})
		if run.AvgSpeedMinMile > 0 {
			stats.Paces = append(stats.Paces, CumulativePoint{
				Date:       run.StartDateLocal,
				TotalMiles: run.AvgSpeedMinMile,
			})
		}
	}

	all := make([]YearStats, 0, len(year2stats))
	for _, stats := range year2stats {
		if stats.Runs > 0 {
			stats.AvgDistanceMiles = stats.TotalMiles / float64(stats.Runs)
		}
		if len(stats.Paces) > 0 {
			var paceSum float64
			for _, p := range stats.Paces {
				paceSum += p.TotalMiles
			}
			stats.AvgPaceMinMile = paceSum / float64(len(stats.Paces))
		}
		all = append(all, *stats)
	}

	sort.Slice(all, func(i, j int) bool {
		return all[i].Year < all[j].Year
	})

	return all, nil
}

// DistanceDistribution returns the per-activity distances in miles, for
// the histogram chart.
func (a *Analyzer) DistanceDistribution(
	ctx context.Context,
	params activities.ListParams,
) (_ []float64, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "analyzer.distanceDistribution")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	stored, err := a.repo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	distances := make([]float64, 0, len(stored))
	for _, activity := range stored {
		if activity.DistanceMiles > 0 {
			distances = append(distances, activity.DistanceMiles)
		}
	}
	return distances, nil
}
