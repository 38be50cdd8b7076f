package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/2beens/stravatrack/internal/athletes"
	"github.com/2beens/stravatrack/internal/config"
	"github.com/2beens/stravatrack/internal/db"
	"github.com/2beens/stravatrack/internal/logging"
	"github.com/2beens/stravatrack/internal/strava"
	"github.com/2beens/stravatrack/pkg"

	log "github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
)

// one-time browser authorization: run this, open the printed URL, approve
// access, and the athlete plus refresh token land in the database.
func main() {
	env := flag.String("env", "development", "environment [prod | production | dev | development]")
	configPath := flag.String("config", "./config.toml", "path for the TOML config file")
	addr := flag.String("addr", "localhost:8484", "address for the local callback server")
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
		LogFileName:      "",
		LogToStdout:      true,
		LogLevel:         cfg.LogLevel,
		Environment:      cfg.Environment,
		SentryEnabled:    false,
		SentryDSN:        "",
		SentryServerName: "stravatrack-authorize",
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

	athletesRepo := athletes.NewRepo(dbPool)

	oauthConfig := strava.NewOAuthConfig(strava.OAuthParams{
		ClientID:     secrets.ClientID,
		ClientSecret: secrets.ClientSecret,
		AuthURL:      cfg.AuthURL,
		TokenURL:     cfg.TokenURL,
		RedirectURL:  fmt.Sprintf("http://%s/callback", *addr),
	})

	onToken := func(ctx context.Context, token *oauth2.Token) error {
		client := strava.NewClient(cfg.APIBaseURL, oauth2.StaticTokenSource(token))
		athlete, err := client.Athlete(ctx)
		if err != nil {
			return fmt.Errorf("get athlete profile: %w", err)
		}

		if err := athletesRepo.Add(ctx, athletes.Athlete{
			ID:           athlete.ID,
			Username:     athlete.Username,
			FirstName:    athlete.FirstName,
			LastName:     athlete.LastName,
			City:         athlete.City,
			Country:      athlete.Country,
			RefreshToken: token.RefreshToken,
		}); err != nil {
			return fmt.Errorf("store athlete: %w", err)
		}

		log.Infof("athlete %d [%s %s] authorized and stored", athlete.ID, athlete.FirstName, athlete.LastName)
		return nil
	}

	randStateGenerator := func() (string, error) {
		return pkg.GenerateRandomString(24)
	}

	authorizer := strava.NewAuthorizer(oauthConfig, *addr, randStateGenerator, onToken)
	if err := authorizer.Run(ctx); err != nil {
		log.Fatalf("authorization failed: %s", err)
	}

	log.Info("done, run sync next")
}
