package strava

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/2beens/stravatrack/internal/telemetry/tracing"

	"github.com/cenkalti/backoff/v4"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/oauth2"
)

const (
	DefaultBaseURL = "https://www.strava.com/api/v3"

	defaultMaxRetries     = 5
	defaultRequestTimeout = 30 * time.Second
	// used when a 429 comes without a usable Retry-After header
	defaultRetryAfter = 30 * time.Second
)

// Client is a thin typed wrapper over the Strava REST API. All requests
// carry a bearer token obtained from the token source.
type Client struct {
	baseURL     string
	httpClient  *http.Client
	tokenSource oauth2.TokenSource
	maxRetries  int
}

func NewClient(baseURL string, tokenSource oauth2.TokenSource) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:     strings.TrimSuffix(baseURL, "/"),
		httpClient:  &http.Client{Timeout: defaultRequestTimeout},
		tokenSource: tokenSource,
		maxRetries:  defaultMaxRetries,
	}
}

// Athlete returns the profile of the authenticated athlete.
func (c *Client) Athlete(ctx context.Context) (_ *AthleteSummary, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "strava.client.athlete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	var athlete AthleteSummary
	if err := c.get(ctx, "/athlete", nil, &athlete); err != nil {
		return nil, err
	}
	return &athlete, nil
}

type ListActivitiesParams struct {
	Page    int
	PerPage int
	// After and Before filter by activity start time, zero values are omitted.
	After  time.Time
	Before time.Time
}

// ListActivities returns one page of activity summaries, most recent first.
// An empty page means the listing is exhausted.
func (c *Client) ListActivities(ctx context.Context, params ListActivitiesParams) (_ []SummaryActivity, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "strava.client.listActivities")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("page", params.Page))

	query := url.Values{}
	if params.Page > 0 {
		query.Set("page", strconv.Itoa(params.Page))
	}
	if params.PerPage > 0 {
		query.Set("per_page", strconv.Itoa(params.PerPage))
	}
	if !params.After.IsZero() {
		query.Set("after", strconv.FormatInt(params.After.Unix(), 10))
	}
	if !params.Before.IsZero() {
		query.Set("before", strconv.FormatInt(params.Before.Unix(), 10))
	}

	var activities []SummaryActivity
	if err := c.get(ctx, "/athlete/activities", query, &activities); err != nil {
		return nil, err
	}
	return activities, nil
}

// Activity returns the full detail record, which is the only place gear,
// calories, device name and splits show up.
func (c *Client) Activity(ctx context.Context, id int64) (_ *DetailedActivity, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "strava.client.activity")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int64("activity.id", id))

	var activity DetailedActivity
	if err := c.get(ctx, fmt.Sprintf("/activities/%d", id), nil, &activity); err != nil {
		return nil, err
	}
	return &activity, nil
}

// ActivityStreams returns the raw time series samples for an activity.
func (c *Client) ActivityStreams(ctx context.Context, id int64, keys []string) (_ StreamSet, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "strava.client.activityStreams")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int64("activity.id", id))

	query := url.Values{}
	query.Set("keys", strings.Join(keys, ","))
	query.Set("key_by_type", "true")

	var streams StreamSet
	if err := c.get(ctx, fmt.Sprintf("/activities/%d/streams", id), query, &streams); err != nil {
		return nil, err
	}
	return streams, nil
}

// get issues the request and retries on rate limits (honoring the
// Retry-After signal) and on transient server / transport errors
// (exponential backoff). Everything else is surfaced to the caller.
func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	expBackoff := backoff.NewExponentialBackOff()
	expBackoff.InitialInterval = 500 * time.Millisecond
	expBackoff.MaxInterval = 10 * time.Second

	for attempt := 0; ; attempt++ {
		err := c.doGet(ctx, path, query, out)
		if err == nil {
			return nil
		}

		var rateLimitErr *RateLimitError
		switch {
		case errors.As(err, &rateLimitErr):
			if attempt >= c.maxRetries {
				return err
			}
			log.Warnf("strava: rate limited on %s, waiting %s before retry", path, rateLimitErr.RetryAfter)
			if err := sleepCtx(ctx, rateLimitErr.RetryAfter); err != nil {
				return err
			}
		case isTransient(err):
			if attempt >= c.maxRetries {
				return err
			}
			wait := expBackoff.NextBackOff()
			if wait == backoff.Stop {
				return err
			}
			log.Warnf("strava: transient error on %s: %s, retrying in %s", path, err, wait)
			if err := sleepCtx(ctx, wait); err != nil {
				return err
			}
		default:
			return err
		}
	}
}

func (c *Client) doGet(ctx context.Context, path string, query url.Values, out any) error {
	token, err := c.tokenSource.Token()
	if err != nil {
		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) {
			return fmt.Errorf("get token: %s: %w", retrieveErr, ErrUnauthorized)
		}
		return fmt.Errorf("get token: %w", err)
	}

	reqURL := c.baseURL + path
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	token.SetAuthHeader(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &transientError{err: fmt.Errorf("do request: %w", err)}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response for %s: %s: %w", path, err, ErrMalformedData)
		}
		return nil
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("request %s: status %d: %w", path, resp.StatusCode, ErrUnauthorized)
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("request %s: %w", path, ErrNotFound)
	case resp.StatusCode == http.StatusTooManyRequests:
		return &RateLimitError{RetryAfter: retryAfter(resp)}
	case resp.StatusCode >= 500:
		return &transientError{err: fmt.Errorf("request %s: server error: status %d", path, resp.StatusCode)}
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("request %s: unexpected status %d: %s", path, resp.StatusCode, body)
	}
}

func retryAfter(resp *http.Response) time.Duration {
	header := resp.Header.Get("Retry-After")
	if header == "" {
		return defaultRetryAfter
	}
	seconds, err := strconv.Atoi(header)
	if err != nil || seconds < 0 {
		return defaultRetryAfter
	}
	return time.Duration(seconds) * time.Second
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
