package analysis

import (
	"fmt"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// Renderer turns analyzer aggregates into PNG charts in the output dir.
type Renderer struct {
	outputDir string
}

func NewRenderer(outputDir string) (*Renderer, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create charts dir: %w", err)
	}
	return &Renderer{
		outputDir: outputDir,
	}, nil
}

// heatmapGrid adapts StartTimeHeatmap to the plotter grid interface:
// columns are hours, rows are weekdays.
type heatmapGrid struct {
	heatmap *StartTimeHeatmap
}

func (g heatmapGrid) Dims() (c, r int)       { return 24, 7 }
func (g heatmapGrid) Z(c, r int) float64     { return float64(g.heatmap.Counts[r][c]) }
func (g heatmapGrid) X(c int) float64        { return float64(c) }
func (g heatmapGrid) Y(r int) float64        { return float64(r) }

type hourTicks struct{}

func (hourTicks) Ticks(min, max float64) []plot.Tick {
	var ticks []plot.Tick
	for h := 0; h < 24; h += 3 {
		ticks = append(ticks, plot.Tick{
			Value: float64(h),
			Label: fmt.Sprintf("%02d:00", h),
		})
	}
	return ticks
}

type dayTicks struct{}

func (dayTicks) Ticks(min, max float64) []plot.Tick {
	var ticks []plot.Tick
	for i, day := range Weekdays {
		ticks = append(ticks, plot.Tick{
			Value: float64(i),
			Label: day,
		})
	}
	return ticks
}

// StartTimeHeatmap renders the day-of-week x hour-of-day heatmap.
func (r *Renderer) StartTimeHeatmap(heatmap *StartTimeHeatmap, title, filename string) (string, error) {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Hour of Day"
	p.X.Tick.Marker = hourTicks{}
	p.Y.Tick.Marker = dayTicks{}

	p.Add(plotter.NewHeatMap(heatmapGrid{heatmap: heatmap}, palette.Heat(16, 1)))

	return r.save(p, 12*vg.Inch, 5*vg.Inch, filename)
}

// YearlyMileage renders the cumulative miles line for one year.
func (r *Renderer) YearlyMileage(stats YearStats, filename string) (string, error) {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("%d Running Mileage", stats.Year)
	p.X.Label.Text = "Date"
	p.X.Tick.Marker = plot.TimeTicks{Format: "Jan"}
	p.Y.Label.Text = "Total Miles"

	points := make(plotter.XYs, 0, len(stats.Cumulative))
	for _, cp := range stats.Cumulative {
		points = append(points, plotter.XY{
			X: float64(cp.Date.Unix()),
			Y: cp.TotalMiles,
		})
	}

	line, err := plotter.NewLine(points)
	if err != nil {
		return "", fmt.Errorf("create line: %w", err)
	}
	p.Add(line)

	annotateYear(p, stats)

	return r.save(p, 10*vg.Inch, 6*vg.Inch, filename)
}

// YearlyPace renders the per-run pace scatter for one year.
func (r *Renderer) YearlyPace(stats YearStats, filename string) (string, error) {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("%d Running Pace", stats.Year)
	p.X.Label.Text = "Date"
	p.X.Tick.Marker = plot.TimeTicks{Format: "Jan"}
	p.Y.Label.Text = "Pace (min/mile)"

	points := make(plotter.XYs, 0, len(stats.Paces))
	for _, pp := range stats.Paces {
		points = append(points, plotter.XY{
			X: float64(pp.Date.Unix()),
			Y: pp.TotalMiles,
		})
	}

	scatter, err := plotter.NewScatter(points)
	if err != nil {
		return "", fmt.Errorf("create scatter: %w", err)
	}
	p.Add(scatter)

	return r.save(p, 10*vg.Inch, 6*vg.Inch, filename)
}

// DistanceHistogram renders the distribution of activity distances.
func (r *Renderer) DistanceHistogram(milesValues []float64, title, filename string) (string, error) {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Distance (miles)"
	p.Y.Label.Text = "Activities"

	hist, err := plotter.NewHist(plotter.Values(milesValues), 20)
	if err != nil {
		return "", fmt.Errorf("create histogram: %w", err)
	}
	p.Add(hist)

	return r.save(p, 10*vg.Inch, 6*vg.Inch, filename)
}

func annotateYear(p *plot.Plot, stats YearStats) {
	p.Title.Text += fmt.Sprintf(
		" - %d runs, %.1f miles, %.1f hours, %.2f avg pace",
		stats.Runs, stats.TotalMiles, stats.TotalHours, stats.AvgPaceMinMile,
	)
}

func (r *Renderer) save(p *plot.Plot, w, h vg.Length, filename string) (string, error) {
	path := filepath.Join(r.outputDir, filename)
	if err := p.Save(w, h, path); err != nil {
		return "", fmt.Errorf("save chart %s: %w", filename, err)
	}
	return path, nil
}
