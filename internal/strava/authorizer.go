package strava

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/2beens/stravatrack/internal/telemetry/tracing"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
)

// Authorizer runs a short-lived local HTTP server for the one-time
// browser authorization dance. Once the callback delivers a token the
// server is shut down and the token handed to the OnToken callback
// (which typically stores the new athlete + refresh token).
type Authorizer struct {
	oauthConfig        *oauth2.Config
	addr               string
	randStateGenerator func() (string, error)
	onToken            func(ctx context.Context, token *oauth2.Token) error

	state string
	done  chan error
}

func NewAuthorizer(
	oauthConfig *oauth2.Config,
	addr string,
	randStateGenerator func() (string, error),
	onToken func(ctx context.Context, token *oauth2.Token) error,
) *Authorizer {
	return &Authorizer{
		oauthConfig:        oauthConfig,
		addr:               addr,
		randStateGenerator: randStateGenerator,
		onToken:            onToken,
		done:               make(chan error, 1),
	}
}

// Run blocks until the callback was handled, the context got cancelled,
// or the server failed.
func (a *Authorizer) Run(ctx context.Context) error {
	state, err := a.randStateGenerator()
	if err != nil {
		return fmt.Errorf("generate state: %w", err)
	}
	a.state = state

	router := mux.NewRouter()
	router.HandleFunc("/authorize", a.handleAuthorize).Methods(http.MethodGet)
	router.HandleFunc("/callback", a.handleCallback).Methods(http.MethodGet)

	server := &http.Server{
		Addr:    a.addr,
		Handler: router,
	}

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	log.Infof("open http://%s/authorize in a browser to authorize the app", a.addr)

	var runErr error
	select {
	case <-ctx.Done():
		runErr = ctx.Err()
	case err := <-serverErr:
		runErr = fmt.Errorf("authorize server: %w", err)
	case err := <-a.done:
		runErr = err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Errorf("authorize server shutdown: %s", err)
	}

	return runErr
}

func (a *Authorizer) handleAuthorize(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "strava.authorizer.authorize")
	defer span.End()

	redirectURL := a.oauthConfig.AuthCodeURL(a.state)
	http.Redirect(w, r, redirectURL, http.StatusFound)
}

func (a *Authorizer) handleCallback(w http.ResponseWriter, r *http.Request) {
	var err error
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "strava.authorizer.callback")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if st := r.FormValue("state"); st != a.state {
		http.Error(w, "state mismatch", http.StatusForbidden)
		a.done <- fmt.Errorf("state mismatch: %s != %s", st, a.state)
		return
	}

	code := r.FormValue("code")
	if code == "" {
		http.Error(w, "missing code", http.StatusBadRequest)
		a.done <- errors.New("callback without code")
		return
	}

	token, err := a.oauthConfig.Exchange(ctx, code)
	if err != nil {
		http.Error(w, "failed to exchange code for token", http.StatusForbidden)
		a.done <- fmt.Errorf("exchange code: %w", err)
		return
	}

	if err = a.onToken(ctx, token); err != nil {
		http.Error(w, "failed to store token", http.StatusInternalServerError)
		a.done <- fmt.Errorf("store token: %w", err)
		return
	}

	fmt.Fprintln(w, "authorized - you can close this tab now")
	a.done <- nil
}
