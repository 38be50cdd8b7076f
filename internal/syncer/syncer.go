package syncer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/2beens/stravatrack/internal/activities"
	"github.com/2beens/stravatrack/internal/strava"
	"github.com/2beens/stravatrack/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/multierr"
)

// DefaultStreamKeys are the time series fetched per activity when
// stream download is on.
var DefaultStreamKeys = []string{"time", "distance", "heartrate", "velocity_smooth", "altitude"}

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=syncer_test

type stravaAPI interface {
	ListActivities(ctx context.Context, params strava.ListActivitiesParams) ([]strava.SummaryActivity, error)
	Activity(ctx context.Context, id int64) (*strava.DetailedActivity, error)
	ActivityStreams(ctx context.Context, id int64, keys []string) (strava.StreamSet, error)
}

type activitiesRepo interface {
	Upsert(ctx context.Context, a activities.Activity) error
	UpsertSplits(ctx context.Context, splits []activities.Split) error
	UpsertStream(ctx context.Context, stream activities.Stream) error
	UpsertGear(ctx context.Context, gear activities.Gear) error
	ExistingGearIDs(ctx context.Context) ([]string, error)
	LatestStartTime(ctx context.Context, athleteID int64) (time.Time, error)
}

type locator interface {
	EnsureLocation(ctx context.Context, lat, lng float64) error
}

// Syncer drives one fetch-and-store batch run: page through the
// activity listing, optionally pull details and streams per activity,
// and upsert everything. Strictly sequential, the provider rate limit
// is the bottleneck anyway.
type Syncer struct {
	api     stravaAPI
	repo    activitiesRepo
	locator locator
}

func NewSyncer(api stravaAPI, repo activitiesRepo, locator locator) *Syncer {
	return &Syncer{
		api:     api,
		repo:    repo,
		locator: locator,
	}
}

type Options struct {
	// Full ignores the incremental watermark and re-fetches everything.
	Full bool
	// WithDetails pulls the full record per activity (gear, calories,
	// device name, splits). One extra API call per activity.
	WithDetails bool
	// WithStreams pulls raw time series per activity.
	WithStreams bool
	StreamKeys  []string
	PageSize    int
	// DetailFetchDelay paces the per-activity calls to stay under the
	// provider rate limit.
	DetailFetchDelay time.Duration
	// BackupCSVPath, when set, gets a CSV dump of all fetched activities.
	BackupCSVPath string
}

type Summary struct {
	Pages         int
	Fetched       int
	Stored        int
	Skipped       int
	SplitsStored  int
	StreamsStored int
}

// Run executes one batch sync for the athlete. Per-record failures are
// logged, counted and collected; they do not stop the run. Listing
// failures abort, whatever was already stored stays stored.
func (s *Syncer) Run(ctx context.Context, athleteID int64, opts Options) (_ *Summary, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "syncer.run")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int64("athlete.id", athleteID))

	summary := &Summary{}

	var after time.Time
	if !opts.Full {
		after, err = s.repo.LatestStartTime(ctx, athleteID)
		if err != nil {
			return summary, fmt.Errorf("get latest activity time: %w", err)
		}
		if !after.IsZero() {
			log.Infof("incremental sync, fetching activities after %s", after.Format(time.RFC3339))
		}
	}

	fetched, err := s.fetchAllPages(ctx, after, opts.PageSize, summary)
	if err != nil {
		return summary, err
	}
	summary.Fetched = len(fetched)
	log.Infof("retrieved %d activities over %d pages", summary.Fetched, summary.Pages)

	knownGear, err := s.knownGearIDs(ctx)
	if err != nil {
		return summary, err
	}

	var recordErrs error
	records := make([]activities.Activity, 0, len(fetched))
	for _, summaryActivity := range fetched {
		record := activities.NewActivityFromSummary(summaryActivity)

		var detail *strava.DetailedActivity
		if opts.WithDetails {
			d, err := s.fetchDetail(ctx, &record)
			if err != nil {
				log.Errorf("activity %d: fetch details: %s, storing summary only", record.ID, err)
				recordErrs = multierr.Append(recordErrs, err)
			} else {
				detail = d
			}
			if opts.DetailFetchDelay > 0 {
				if err := sleepCtx(ctx, opts.DetailFetchDelay); err != nil {
					return summary, err
				}
			}
		}

		if err := s.repo.Upsert(ctx, record); err != nil {
			log.Errorf("activity %d: store: %s, skipping", record.ID, err)
			recordErrs = multierr.Append(recordErrs, err)
			summary.Skipped++
			continue
		}
		summary.Stored++
		records = append(records, record)

		// splits and gear reference the activity row, store them after it
		if detail != nil {
			if err := s.storeDetail(ctx, record.ID, detail, knownGear, summary); err != nil {
				log.Errorf("activity %d: store details: %s", record.ID, err)
				recordErrs = multierr.Append(recordErrs, err)
			}
		}

		if opts.WithStreams {
			if err := s.storeStreams(ctx, record.ID, opts.StreamKeys, summary); err != nil {
				log.Errorf("activity %d: streams: %s", record.ID, err)
				recordErrs = multierr.Append(recordErrs, err)
			}
		}

		if s.locator != nil && record.StartLatitude != nil && record.StartLongitude != nil {
			if err := s.locator.EnsureLocation(ctx, *record.StartLatitude, *record.StartLongitude); err != nil {
				// location bookkeeping is best effort
				log.Errorf("activity %d: location lookup: %s", record.ID, err)
			}
		}
	}

	if opts.BackupCSVPath != "" && len(records) > 0 {
		if err := writeBackupCSV(opts.BackupCSVPath, records); err != nil {
			log.Errorf("write backup csv: %s", err)
			recordErrs = multierr.Append(recordErrs, err)
		} else {
			log.Infof("backup csv written to %s", opts.BackupCSVPath)
		}
	}

	log.Infof(
		"sync done: %d fetched, %d stored, %d skipped, %d splits, %d streams",
		summary.Fetched, summary.Stored, summary.Skipped, summary.SplitsStored, summary.StreamsStored,
	)

	return summary, recordErrs
}

// fetchAllPages keeps requesting pages until an empty one comes back.
func (s *Syncer) fetchAllPages(
	ctx context.Context,
	after time.Time,
	pageSize int,
	summary *Summary,
) ([]strava.SummaryActivity, error) {
	if pageSize <= 0 {
		pageSize = 100
	}

	var all []strava.SummaryActivity
	for page := 1; ; page++ {
		batch, err := s.api.ListActivities(ctx, strava.ListActivitiesParams{
			Page:    page,
			PerPage: pageSize,
			After:   after,
		})
		if err != nil {
			return nil, fmt.Errorf("list activities page %d: %w", page, err)
		}
		if len(batch) == 0 {
			break
		}
		summary.Pages++
		all = append(all, batch...)
	}
	return all, nil
}

func (s *Syncer) knownGearIDs(ctx context.Context) (map[string]bool, error) {
	ids, err := s.repo.ExistingGearIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("get existing gear: %w", err)
	}
	known := make(map[string]bool, len(ids))
	for _, id := range ids {
		known[id] = true
	}
	return known, nil
}

func (s *Syncer) fetchDetail(
	ctx context.Context,
	record *activities.Activity,
) (*strava.DetailedActivity, error) {
	detail, err := s.api.Activity(ctx, record.ID)
	if err != nil {
		return nil, err
	}
	record.ApplyDetail(detail)
	return detail, nil
}

func (s *Syncer) storeDetail(
	ctx context.Context,
	activityID int64,
	detail *strava.DetailedActivity,
	knownGear map[string]bool,
	summary *Summary,
) error {
	splits := activities.NewSplits(activityID, activities.SplitUnitMiles, detail.SplitsStandard)
	splits = append(splits, activities.NewSplits(activityID, activities.SplitUnitKm, detail.SplitsMetric)...)
	if len(splits) > 0 {
		if err := s.repo.UpsertSplits(ctx, splits); err != nil {
			return err
		}
		summary.SplitsStored += len(splits)
	}

	if detail.Gear != nil && !knownGear[detail.Gear.ID] {
		if err := s.repo.UpsertGear(ctx, activities.Gear{ID: detail.Gear.ID, Name: detail.Gear.Name}); err != nil {
			return err
		}
		knownGear[detail.Gear.ID] = true
	}

	return nil
}

func (s *Syncer) storeStreams(ctx context.Context, activityID int64, keys []string, summary *Summary) error {
	if len(keys) == 0 {
		keys = DefaultStreamKeys
	}

	streamSet, err := s.api.ActivityStreams(ctx, activityID, keys)
	if err != nil {
		if errors.Is(err, strava.ErrNotFound) {
			// manual entries have no streams
			return nil
		}
		return err
	}

	for streamType, stream := range streamSet {
		if err := s.repo.UpsertStream(ctx, activities.Stream{
			ActivityID:   activityID,
			Type:         streamType,
			SeriesType:   stream.SeriesType,
			OriginalSize: stream.OriginalSize,
			Resolution:   stream.Resolution,
			Data:         stream.Data,
		}); err != nil {
			return err
		}
		summary.StreamsStored++
	}
	return nil
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
