package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/2beens/stravatrack/internal/activities"
	"github.com/2beens/stravatrack/internal/config"
	"github.com/2beens/stravatrack/internal/db"
	"github.com/2beens/stravatrack/internal/logging"
	"github.com/2beens/stravatrack/internal/strava"
	"github.com/2beens/stravatrack/pkg"

	log "github.com/sirupsen/logrus"
)

const (
	activityListsDir        = "activity_lists"
	individualActivitiesDir = "individual_activities"
)

// backfill loads raw API responses saved to disk by earlier tooling into
// the database: activity_lists/*.json hold listing pages (arrays of
// summaries), individual_activities/*.json hold one detail record each.
func main() {
	env := flag.String("env", "development", "environment [prod | production | dev | development]")
	configPath := flag.String("config", "./config.toml", "path for the TOML config file")
	dir := flag.String("dir", "", "backup dir with activity_lists/ and individual_activities/")
	verbose := flag.Bool("verbose", false, "log every processed file")
	flag.Parse()

	if *dir == "" {
		fmt.Println("-dir is required")
		os.Exit(1)
	}

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

	logLevel := cfg.LogLevel
	if *verbose {
		logLevel = "debug"
	}
	logging.Setup(logging.LoggerSetupParams{
		LogFileName:      "",
		LogToStdout:      true,
		LogLevel:         logLevel,
		Environment:      cfg.Environment,
		SentryEnabled:    false,
		SentryDSN:        "",
		SentryServerName: "stravatrack-backfill",
	})

	if exists, err := pkg.PathExists(*dir, true); err != nil || !exists {
		log.Fatalf("backup dir %s not found", *dir)
	}

	dbPool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
		DBHost:         cfg.DBHost,
		DBPort:         cfg.DBPort,
		DBName:         cfg.DBName,
		DBUser:         cfg.DBUser,
		DBPassword:     secrets.DBPassword,
		TracingEnabled: false,
	})
	if err != nil {
		log.Fatalf("new db pool: %s", err)
	}
	defer dbPool.Close()

	repo := activities.NewRepo(dbPool)

	summariesStored, summariesSkipped, err := backfillSummaries(ctx, repo, filepath.Join(*dir, activityListsDir))
	if err != nil {
		log.Fatalf("backfill summaries: %s", err)
	}
	log.Infof("stored %d activities from listing backups, %d skipped", summariesStored, summariesSkipped)

	detailsStored, detailsSkipped, err := backfillDetails(ctx, repo, filepath.Join(*dir, individualActivitiesDir))
	if err != nil {
		log.Fatalf("backfill details: %s", err)
	}
	log.Infof("applied %d detail records, %d skipped", detailsStored, detailsSkipped)
}

type activitiesStore interface {
	Upsert(ctx context.Context, a activities.Activity) error
	UpsertSplits(ctx context.Context, splits []activities.Split) error
	UpsertGear(ctx context.Context, gear activities.Gear) error
}

func backfillSummaries(ctx context.Context, store activitiesStore, dir string) (stored, skipped int, err error) {
	files, err := jsonFiles(dir)
	if err != nil {
		return 0, 0, err
	}

	for _, file := range files {
		content, err := os.ReadFile(file)
		if err != nil {
			log.Errorf("skip %s: %s", file, err)
			skipped++
			continue
		}

		var page []strava.SummaryActivity
		if err := json.Unmarshal(content, &page); err != nil {
			log.Errorf("skip %s, not a listing page: %s", file, err)
			continue
		}

		log.Debugf("processing %s, %d activities", file, len(page))
		for _, summary := range page {
			record := activities.NewActivityFromSummary(summary)
			if err := store.Upsert(ctx, record); err != nil {
				log.Errorf("store activity %d from %s: %s, skipping", record.ID, file, err)
				skipped++
				continue
			}
			stored++
		}
	}
	return stored, skipped, nil
}

func backfillDetails(ctx context.Context, store activitiesStore, dir string) (stored, skipped int, err error) {
	files, err := jsonFiles(dir)
	if err != nil {
		return 0, 0, err
	}

	knownGear := make(map[string]bool)
	for _, file := range files {
		content, err := os.ReadFile(file)
		if err != nil {
			log.Errorf("skip %s: %s", file, err)
			skipped++
			continue
		}

		var detail strava.DetailedActivity
		if err := json.Unmarshal(content, &detail); err != nil {
			log.Errorf("skip %s, not a detail record: %s", file, err)
			continue
		}

		log.Debugf("processing %s, activity %d", file, detail.ID)
		record := activities.NewActivityFromSummary(detail.SummaryActivity)
		record.ApplyDetail(&detail)
		if err := store.Upsert(ctx, record); err != nil {
			log.Errorf("store activity %d from %s: %s, skipping", record.ID, file, err)
			skipped++
			continue
		}

		splits := activities.NewSplits(record.ID, activities.SplitUnitMiles, detail.SplitsStandard)
		splits = append(splits, activities.NewSplits(record.ID, activities.SplitUnitKm, detail.SplitsMetric)...)
		if len(splits) > 0 {
			if err := store.UpsertSplits(ctx, splits); err != nil {
				log.Errorf("store splits for activity %d: %s", record.ID, err)
			}
		}

		if detail.Gear != nil && !knownGear[detail.Gear.ID] {
			if err := store.UpsertGear(ctx, activities.Gear{ID: detail.Gear.ID, Name: detail.Gear.Name}); err != nil {
				log.Errorf("store gear %s: %s", detail.Gear.ID, err)
			} else {
				knownGear[detail.Gear.ID] = true
			}
		}

		stored++
	}
	return stored, skipped, nil
}

func jsonFiles(dir string) ([]string, error) {
	exists, err := pkg.PathExists(dir, true)
	if err != nil {
		return nil, err
	}
	if !exists {
		log.Warnf("dir %s not found, nothing to do", dir)
		return nil, nil
	}
	return filepath.Glob(filepath.Join(dir, "*.json"))
}
