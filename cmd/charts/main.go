package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/2beens/stravatrack/internal/activities"
	"github.com/2beens/stravatrack/internal/analysis"
	"github.com/2beens/stravatrack/internal/config"
	"github.com/2beens/stravatrack/internal/db"
	"github.com/2beens/stravatrack/internal/logging"

	log "github.com/sirupsen/logrus"
)

func main() {
	env := flag.String("env", "development", "environment [prod | production | dev | development]")
	configPath := flag.String("config", "./config.toml", "path for the TOML config file")
	athleteID := flag.Int64("athlete-id", 0, "provider athlete id")
	outputDir := flag.String("out", "", "charts output dir (overrides charts_path from config)")
	flag.Parse()

	cfg, err := config.Load(*env, *configPath)
	if err != nil {
		panic(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	secrets, err := config.LoadSecrets(ctx)
	if err != nil {
		fmt.Printf("load secrets: %s\n", err)
		os.Exit(1)
	}

	logging.Setup(logging.LoggerSetupParams{
		LogFileName:      cfg.LogsPath,
		LogToStdout:      cfg.LogToStdout,
		LogLevel:         cfg.LogLevel,
		Environment:      cfg.Environment,
		SentryEnabled:    cfg.SentryEnabled,
		SentryDSN:        secrets.SentryDSN,
		SentryServerName: "stravatrack-charts",
	})

	chOsInterrupt := make(chan os.Signal, 1)
	signal.Notify(chOsInterrupt, os.Interrupt, syscall.SIGTERM)
	go func() {
		receivedSig := <-chOsInterrupt
		log.Warnf("signal [%s] received, aborting ...", receivedSig)
		cancel()
	}()

	dbPool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
		DBHost:         cfg.DBHost,
		DBPort:         cfg.DBPort,
		DBName:         cfg.DBName,
		DBUser:         cfg.DBUser,
		DBPassword:     secrets.DBPassword,
		TracingEnabled: cfg.TracingEnabled,
	})
	if err != nil {
		log.Fatalf("new db pool: %s", err)
	}
	defer dbPool.Close()

	chartsDir := cfg.ChartsPath
	if *outputDir != "" {
		chartsDir = *outputDir
	}
	if chartsDir == "" {
		log.Fatal("charts output dir not set, use -out or charts_path in config")
	}

	renderer, err := analysis.NewRenderer(chartsDir)
	if err != nil {
		log.Fatalf("new renderer: %s", err)
	}

	analyzer := analysis.NewAnalyzer(activities.NewRepo(dbPool))
	rendered, err := renderAll(ctx, analyzer, renderer, *athleteID)
	if err != nil {
		log.Fatalf("render charts: %s", err)
	}

	for _, path := range rendered {
		log.Infof("chart written: %s", path)
	}
	log.Infof("done, %d charts in %s", len(rendered), chartsDir)
}

func renderAll(
	ctx context.Context,
	analyzer *analysis.Analyzer,
	renderer *analysis.Renderer,
	athleteID int64,
) ([]string, error) {
	if athleteID == 0 {
		return nil, errors.New("-athlete-id is required")
	}

	var rendered []string

	allHeatmap, err := analyzer.StartTimeHeatmap(ctx, activities.ListParams{AthleteID: athleteID})
	if err != nil {
		return nil, fmt.Errorf("all activities heatmap: %w", err)
	}
	path, err := renderer.StartTimeHeatmap(
		allHeatmap,
		fmt.Sprintf("Activity Start Times (%d total)", allHeatmap.Total()),
		"heatmap-all.png",
	)
	if err != nil {
		return nil, err
	}
	rendered = append(rendered, path)

	runHeatmap, err := analyzer.StartTimeHeatmap(ctx, activities.ListParams{AthleteID: athleteID, Type: "Run"})
	if err != nil {
		return nil, fmt.Errorf("runs heatmap: %w", err)
	}
	path, err = renderer.StartTimeHeatmap(
		runHeatmap,
		fmt.Sprintf("Run Start Times (%d total)", runHeatmap.Total()),
		"heatmap-runs.png",
	)
	if err != nil {
		return nil, err
	}
	rendered = append(rendered, path)

	yearStats, err := analyzer.YearlyRunStats(ctx, athleteID)
	if err != nil {
		return nil, fmt.Errorf("yearly run stats: %w", err)
	}
	for _, stats := range yearStats {
		path, err = renderer.YearlyMileage(stats, fmt.Sprintf("mileage-%d.png", stats.Year))
		if err != nil {
			return nil, err
		}
		rendered = append(rendered, path)

		path, err = renderer.YearlyPace(stats, fmt.Sprintf("pace-%d.png", stats.Year))
		if err != nil {
			return nil, err
		}
		rendered = append(rendered, path)
	}

	distances, err := analyzer.DistanceDistribution(ctx, activities.ListParams{AthleteID: athleteID, Type: "Run"})
	if err != nil {
		return nil, fmt.Errorf("distance distribution: %w", err)
	}
	if len(distances) > 0 {
		path, err = renderer.DistanceHistogram(distances, "Run Distances", "distances-runs.png")
		if err != nil {
			return nil, err
		}
		rendered = append(rendered, path)
	}

	return rendered, nil
}
