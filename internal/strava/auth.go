package strava

import (
	"context"
	"errors"
	"fmt"
	"sync"

	log "github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
)

const (
	DefaultAuthURL  = "https://www.strava.com/oauth/authorize"
	DefaultTokenURL = "https://www.strava.com/oauth/token"

	// read profile + all activities, incl. private ones
	oauthScope = "read,activity:read_all"
)

// TokenStore persists rotated refresh tokens. Strava invalidates the old
// refresh token on every refresh, so losing the new one locks us out.
type TokenStore interface {
	SaveRefreshToken(ctx context.Context, athleteID int64, refreshToken string) error
}

type OAuthParams struct {
	ClientID     string
	ClientSecret string
	AuthURL      string
	TokenURL     string
	RedirectURL  string
}

func NewOAuthConfig(params OAuthParams) *oauth2.Config {
	if params.AuthURL == "" {
		params.AuthURL = DefaultAuthURL
	}
	if params.TokenURL == "" {
		params.TokenURL = DefaultTokenURL
	}
	return &oauth2.Config{
		ClientID:     params.ClientID,
		ClientSecret: params.ClientSecret,
		RedirectURL:  params.RedirectURL,
		Scopes:       []string{oauthScope},
		Endpoint: oauth2.Endpoint{
			AuthURL:  params.AuthURL,
			TokenURL: params.TokenURL,
			// strava wants client id / secret as POST params, not basic auth
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}
}

// PersistingTokenSource exchanges the stored refresh token for short-lived
// access tokens and writes every rotated refresh token back to the store
// before the new access token is used.
type PersistingTokenSource struct {
	athleteID int64
	store     TokenStore
	source    oauth2.TokenSource

	mu               sync.Mutex
	ctx              context.Context
	lastRefreshToken string
}

func NewPersistingTokenSource(
	ctx context.Context,
	oauthConfig *oauth2.Config,
	athleteID int64,
	refreshToken string,
	store TokenStore,
) *PersistingTokenSource {
	return &PersistingTokenSource{
		athleteID:        athleteID,
		store:            store,
		source:           oauthConfig.TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken}),
		ctx:              ctx,
		lastRefreshToken: refreshToken,
	}
}

func (s *PersistingTokenSource) Token() (*oauth2.Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	token, err := s.source.Token()
	if err != nil {
		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) {
			return nil, fmt.Errorf("refresh token: %s: %w", retrieveErr, ErrUnauthorized)
		}
		return nil, fmt.Errorf("refresh token: %w", err)
	}

	if token.RefreshToken != "" && token.RefreshToken != s.lastRefreshToken {
		if err := s.store.SaveRefreshToken(s.ctx, s.athleteID, token.RefreshToken); err != nil {
			return nil, fmt.Errorf("save rotated refresh token: %w", err)
		}
		s.lastRefreshToken = token.RefreshToken
		log.Debugf("rotated refresh token saved for athlete %d", s.athleteID)
	}

	if !token.Expiry.IsZero() {
		log.Debugf("access token for athlete %d expires at %s", s.athleteID, token.Expiry.Format("2006-01-02 15:04:05"))
	}

	return token, nil
}
