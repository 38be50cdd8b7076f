package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/2beens/stravatrack/internal/telemetry/tracing"

	"github.com/coocood/freecache"
	log "github.com/sirupsen/logrus"
)

const (
	DefaultBaseURL = "https://nominatim.openstreetmap.org"

	// seen coordinates stay cached for a day, plenty for one batch run
	cacheExpireSeconds = 24 * 60 * 60
)

type locationsRepo interface {
	Exists(ctx context.Context, lat, lng float64) (bool, error)
	Add(ctx context.Context, location Location) error
}

// Locator reverse-geocodes activity start coordinates through the OSM
// Nominatim API and stores each distinct location once. Coordinates are
// rounded to three decimals (roughly 100m) so nearby starts share a row.
type Locator struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
	cache      *freecache.Cache
	repo       locationsRepo
}

func NewLocator(baseURL, userAgent string, cacheSizeMegabytes int, repo locationsRepo) *Locator {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if cacheSizeMegabytes <= 0 {
		cacheSizeMegabytes = 1
	}
	megabyte := 1024 * 1024
	return &Locator{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		userAgent:  userAgent,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		cache:      freecache.NewCache(cacheSizeMegabytes * megabyte),
		repo:       repo,
	}
}

// EnsureLocation makes sure the (rounded) coordinate pair has a row in
// the locations table, looking it up remotely only when needed.
func (l *Locator) EnsureLocation(ctx context.Context, lat, lng float64) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "geo.locator.ensureLocation")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	lat, lng = roundCoord(lat), roundCoord(lng)
	cacheKey := []byte(fmt.Sprintf("%.3f:%.3f", lat, lng))

	if _, err := l.cache.Get(cacheKey); err == nil {
		log.Tracef("location %.3f,%.3f found in cache", lat, lng)
		return nil
	}

	exists, err := l.repo.Exists(ctx, lat, lng)
	if err != nil {
		return fmt.Errorf("check location exists: %w", err)
	}
	if exists {
		l.setCache(cacheKey)
		return nil
	}

	location, err := l.reverse(ctx, lat, lng)
	if err != nil {
		return fmt.Errorf("reverse geocode %.3f,%.3f: %w", lat, lng, err)
	}

	if err := l.repo.Add(ctx, *location); err != nil {
		return fmt.Errorf("store location: %w", err)
	}

	l.setCache(cacheKey)
	log.Debugf("new location stored: %.3f,%.3f -> %s", lat, lng, location.Address)
	return nil
}

func (l *Locator) setCache(key []byte) {
	if err := l.cache.Set(key, []byte{1}, cacheExpireSeconds); err != nil {
		log.Errorf("failed to write location cache for %s: %s", key, err)
	}
}

// reverse response, jsonv2 format:
// https://nominatim.org/release-docs/latest/api/Reverse/
type reverseResponse struct {
	PlaceID     int64  `json:"place_id"`
	OsmID       int64  `json:"osm_id"`
	DisplayName string `json:"display_name"`
	Address     struct {
		CountryCode string `json:"country_code"`
		Country     string `json:"country"`
		State       string `json:"state"`
		City        string `json:"city"`
		Town        string `json:"town"`
		Village     string `json:"village"`
		Suburb      string `json:"suburb"`
		Road        string `json:"road"`
		Postcode    string `json:"postcode"`
	} `json:"address"`
}

func (l *Locator) reverse(ctx context.Context, lat, lng float64) (*Location, error) {
	query := url.Values{}
	query.Set("format", "jsonv2")
	query.Set("lat", fmt.Sprintf("%f", lat))
	query.Set("lon", fmt.Sprintf("%f", lng))

	reqURL := fmt.Sprintf("%s/reverse?%s", l.baseURL, query.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	// nominatim usage policy requires an identifying user agent
	if l.userAgent != "" {
		req.Header.Set("User-Agent", l.userAgent)
	}

	resp, err := l.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, body)
	}

	var reverseResp reverseResponse
	if err := json.NewDecoder(resp.Body).Decode(&reverseResp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	city := reverseResp.Address.City
	if city == "" {
		city = reverseResp.Address.Town
	}
	if city == "" {
		city = reverseResp.Address.Village
	}

	return &Location{
		Latitude:    lat,
		Longitude:   lng,
		PlaceID:     reverseResp.PlaceID,
		OsmID:       reverseResp.OsmID,
		CountryCode: strings.ToUpper(reverseResp.Address.CountryCode),
		Country:     reverseResp.Address.Country,
		State:       reverseResp.Address.State,
		City:        city,
		Suburb:      reverseResp.Address.Suburb,
		Street:      reverseResp.Address.Road,
		Postcode:    reverseResp.Address.Postcode,
		Address:     reverseResp.DisplayName,
	}, nil
}

func roundCoord(c float64) float64 {
	return math.Round(c*1000) / 1000
}
