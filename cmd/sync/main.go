package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/2beens/stravatrack/internal/activities"
	"github.com/2beens/stravatrack/internal/athletes"
	"github.com/2beens/stravatrack/internal/config"
	"github.com/2beens/stravatrack/internal/db"
	"github.com/2beens/stravatrack/internal/geo"
	"github.com/2beens/stravatrack/internal/logging"
	"github.com/2beens/stravatrack/internal/strava"
	"github.com/2beens/stravatrack/internal/syncer"

	log "github.com/sirupsen/logrus"
)

func main() {
	fmt.Println("starting sync ...")

	env := flag.String("env", "development", "environment [prod | production | dev | development]")
	configPath := flag.String("config", "./config.toml", "path for the TOML config file")
	athleteID := flag.Int64("athlete-id", 0, "provider athlete id")
	athleteName := flag.String("athlete", "", "athlete first name (alternative to -athlete-id)")
	full := flag.Bool("full", false, "ignore the incremental watermark, re-fetch everything")
	details := flag.Bool("details", false, "fetch the full record per activity (splits, gear, calories)")
	streams := flag.Bool("streams", false, "fetch raw time series per activity")
	backup := flag.Bool("backup", false, "also write a CSV backup of fetched activities")
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
		SentryServerName: "stravatrack-sync",
	})

	chOsInterrupt := make(chan os.Signal, 1)
	signal.Notify(chOsInterrupt, os.Interrupt, syscall.SIGTERM)
	go func() {
		receivedSig := <-chOsInterrupt
		log.Warnf("signal [%s] received, aborting run ...", receivedSig)
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

	athletesRepo := athletes.NewRepo(dbPool)
	athlete, err := resolveAthlete(ctx, athletesRepo, *athleteID, *athleteName)
	if err != nil {
		log.Fatalf("resolve athlete: %s", err)
	}
	log.Infof("syncing activities for athlete %d [%s %s]", athlete.ID, athlete.FirstName, athlete.LastName)

	oauthConfig := strava.NewOAuthConfig(strava.OAuthParams{
		ClientID:     secrets.ClientID,
		ClientSecret: secrets.ClientSecret,
		AuthURL:      cfg.AuthURL,
		TokenURL:     cfg.TokenURL,
	})
	tokenSource := strava.NewPersistingTokenSource(ctx, oauthConfig, athlete.ID, athlete.RefreshToken, athletesRepo)
	client := strava.NewClient(cfg.APIBaseURL, tokenSource)

	locator := geo.NewLocator(
		cfg.GeocoderBaseURL,
		cfg.GeocoderUserAgent,
		cfg.GeocoderCacheSize,
		geo.NewRepo(dbPool),
	)

	backupCSVPath, err := backupPath(*backup, cfg.BackupsPath)
	if err != nil {
		log.Fatalf("prepare backup path: %s", err)
	}

	s := syncer.NewSyncer(client, activities.NewRepo(dbPool), locator)
	summary, err := s.Run(ctx, athlete.ID, syncer.Options{
		Full:             *full,
		WithDetails:      *details,
		WithStreams:      *streams,
		PageSize:         cfg.PageSize,
		DetailFetchDelay: time.Duration(cfg.DetailFetchDelayS) * time.Second,
		BackupCSVPath:    backupCSVPath,
	})
	if err != nil {
		if errors.Is(err, strava.ErrUnauthorized) {
			log.Fatalf("run aborted, credentials rejected: %s", err)
		}
		log.Errorf("run finished with errors: %s", err)
	}

	log.Infof(
		"done: %d fetched, %d stored, %d skipped",
		summary.Fetched, summary.Stored, summary.Skipped,
	)
}

func resolveAthlete(
	ctx context.Context,
	repo *athletes.Repo,
	athleteID int64,
	firstName string,
) (*athletes.Athlete, error) {
	switch {
	case athleteID != 0:
		return repo.Get(ctx, athleteID)
	case firstName != "":
		return repo.GetByFirstName(ctx, firstName)
	default:
		return nil, errors.New("either -athlete-id or -athlete is required")
	}
}

func backupPath(backup bool, backupsDir string) (string, error) {
	if !backup {
		return "", nil
	}
	if backupsDir == "" {
		return "", errors.New("backups_path not set in config")
	}
	if err := os.MkdirAll(backupsDir, 0o755); err != nil {
		return "", err
	}
	fileName := fmt.Sprintf("strava-data-%s.csv", time.Now().Format("2006-01-02-1504"))
	return filepath.Join(backupsDir, fileName), nil
}
