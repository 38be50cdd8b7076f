package activities

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/2beens/stravatrack/internal/telemetry/tracing"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

// Upsert inserts the activity, or fully overwrites the stored row when
// the provider id is already known. Re-running a sync is therefore
// idempotent and picks up upstream edits.
func (r *Repo) Upsert(ctx context.Context, a Activity) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.activities.upsert")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int64("activity.id", a.ID))

	_, err = r.db.Exec(ctx, `
		INSERT INTO activities (
			id, athlete_id, activity_type, activity_name, activity_description,
			device_name, calories, perceived_exertion, commute, workout_type,
			distance_meters, distance_miles, distance_km,
			average_speed_ms, avg_speed_min_mile, max_speed_ms,
			start_date_utc, start_date_local, end_date_utc, end_date_local,
			timezone, moving_time_sec, elapsed_time_sec,
			hour_of_day, day_of_week, year,
			start_latitude, start_longitude, end_latitude, end_longitude,
			pr_count, achievement_count, athlete_count,
			has_heartrate, average_heartrate, max_heartrate,
			elev_high_m, elev_low_m, total_elevation_gain_m,
			average_watts, kilojoules,
			gear_id, upload_id, external_id,
			created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
			$11, $12, $13, $14, $15, $16, $17, $18, $19, $20,
			$21, $22, $23, $24, $25, $26, $27, $28, $29, $30,
			$31, $32, $33, $34, $35, $36, $37, $38, $39, $40,
			$41, $42, $43, $44, NOW(), NOW()
		)
		ON CONFLICT (id) DO UPDATE SET
			athlete_id = EXCLUDED.athlete_id,
			activity_type = EXCLUDED.activity_type,
			activity_name = EXCLUDED.activity_name,
			activity_description = EXCLUDED.activity_description,
			device_name = EXCLUDED.device_name,
			calories = EXCLUDED.calories,
			perceived_exertion = EXCLUDED.perceived_exertion,
			commute = EXCLUDED.commute,
			workout_type = EXCLUDED.workout_type,
			distance_meters = EXCLUDED.distance_meters,
			distance_miles = EXCLUDED.distance_miles,
			distance_km = EXCLUDED.distance_km,
			average_speed_ms = EXCLUDED.average_speed_ms,
			avg_speed_min_mile = EXCLUDED.avg_speed_min_mile,
			max_speed_ms = EXCLUDED.max_speed_ms,
			start_date_utc = EXCLUDED.start_date_utc,
			start_date_local = EXCLUDED.start_date_local,
			end_date_utc = EXCLUDED.end_date_utc,
			end_date_local = EXCLUDED.end_date_local,
			timezone = EXCLUDED.timezone,
			moving_time_sec = EXCLUDED.moving_time_sec,
			elapsed_time_sec = EXCLUDED.elapsed_time_sec,
			hour_of_day = EXCLUDED.hour_of_day,
			day_of_week = EXCLUDED.day_of_week,
			year = EXCLUDED.year,
			start_latitude = EXCLUDED.start_latitude,
			start_longitude = EXCLUDED.start_longitude,
			end_latitude = EXCLUDED.end_latitude,
			end_longitude = EXCLUDED.end_longitude,
			pr_count = EXCLUDED.pr_count,
			achievement_count = EXCLUDED.achievement_count,
			athlete_count = EXCLUDED.athlete_count,
			has_heartrate = EXCLUDED.has_heartrate,
			average_heartrate = EXCLUDED.average_heartrate,
			max_heartrate = EXCLUDED.max_heartrate,
			elev_high_m = EXCLUDED.elev_high_m,
			elev_low_m = EXCLUDED.elev_low_m,
			total_elevation_gain_m = EXCLUDED.total_elevation_gain_m,
			average_watts = EXCLUDED.average_watts,
			kilojoules = EXCLUDED.kilojoules,
			gear_id = EXCLUDED.gear_id,
			upload_id = EXCLUDED.upload_id,
			external_id = EXCLUDED.external_id,
			updated_at = NOW()`,
		a.ID, a.AthleteID, a.Type, a.Name, a.Description,
		a.DeviceName, a.Calories, a.PerceivedExertion, a.Commute, a.WorkoutType,
		a.DistanceMeters, a.DistanceMiles, a.DistanceKm,
		a.AverageSpeedMS, a.AvgSpeedMinMile, a.MaxSpeedMS,
		a.StartDateUTC, a.StartDateLocal, a.EndDateUTC, a.EndDateLocal,
		a.Timezone, a.MovingTimeSec, a.ElapsedTimeSec,
		a.HourOfDay, a.DayOfWeek, a.Year,
		a.StartLatitude, a.StartLongitude, a.EndLatitude, a.EndLongitude,
		a.PRCount, a.AchievementCount, a.AthleteCount,
		a.HasHeartrate, a.AverageHeartrate, a.MaxHeartrate,
		a.ElevHighM, a.ElevLowM, a.TotalElevationGainM,
		a.AverageWatts, a.Kilojoules,
		a.GearID, a.UploadID, a.ExternalID,
	)
	if err != nil {
		return fmt.Errorf("upsert activity %d: %w", a.ID, err)
	}
	return nil
}

func (r *Repo) UpsertSplits(ctx context.Context, splits []Split) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.activities.upsertSplits")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	for _, s := range splits {
		_, err = r.db.Exec(ctx, `
			INSERT INTO activity_splits (
				activity_id, unit, split, distance_meters,
				elapsed_time_sec, moving_time_sec, average_speed_ms,
				average_heartrate, elevation_difference_m
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			ON CONFLICT (activity_id, unit, split) DO UPDATE SET
				distance_meters = EXCLUDED.distance_meters,
				elapsed_time_sec = EXCLUDED.elapsed_time_sec,
				moving_time_sec = EXCLUDED.moving_time_sec,
				average_speed_ms = EXCLUDED.average_speed_ms,
				average_heartrate = EXCLUDED.average_heartrate,
				elevation_difference_m = EXCLUDED.elevation_difference_m`,
			s.ActivityID, s.Unit, s.Split, s.DistanceMeters,
			s.ElapsedTimeSec, s.MovingTimeSec, s.AverageSpeedMS,
			s.AverageHeartrate, s.ElevationDifferenceM,
		)
		if err != nil {
			return fmt.Errorf("upsert split %d/%s/%d: %w", s.ActivityID, s.Unit, s.Split, err)
		}
	}
	return nil
}

func (r *Repo) UpsertStream(ctx context.Context, stream Stream) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.activities.upsertStream")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(
		attribute.Int64("activity.id", stream.ActivityID),
		attribute.String("stream.type", stream.Type),
	)

	_, err = r.db.Exec(ctx, `
		INSERT INTO activity_streams (
			activity_id, stream_type, series_type, original_size, resolution, data
		) VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (activity_id, stream_type) DO UPDATE SET
			series_type = EXCLUDED.series_type,
			original_size = EXCLUDED.original_size,
			resolution = EXCLUDED.resolution,
			data = EXCLUDED.data`,
		stream.ActivityID, stream.Type, stream.SeriesType,
		stream.OriginalSize, stream.Resolution, stream.Data,
	)
	if err != nil {
		return fmt.Errorf("upsert stream %d/%s: %w", stream.ActivityID, stream.Type, err)
	}
	return nil
}

func (r *Repo) UpsertGear(ctx context.Context, gear Gear) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.activities.upsertGear")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	_, err = r.db.Exec(ctx, `
		INSERT INTO gear (gear_id, name)
		VALUES ($1, $2)
		ON CONFLICT (gear_id) DO UPDATE SET name = EXCLUDED.name`,
		gear.ID, gear.Name,
	)
	if err != nil {
		return fmt.Errorf("upsert gear %s: %w", gear.ID, err)
	}
	return nil
}

func (r *Repo) ExistingGearIDs(ctx context.Context) (_ []string, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.activities.existingGearIDs")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(ctx, `SELECT gear_id FROM gear`)
	if err != nil {
		return nil, fmt.Errorf("query gear: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan gear id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// LatestStartTime returns the start time of the most recent stored
// activity, used as the incremental sync watermark. Zero time when the
// athlete has no stored activities yet.
func (r *Repo) LatestStartTime(ctx context.Context, athleteID int64) (_ time.Time, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.activities.latestStartTime")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	var latest sql.NullTime
	row := r.db.QueryRow(ctx, `
		SELECT MAX(start_date_utc) FROM activities WHERE athlete_id = $1`, athleteID,
	)
	if err := row.Scan(&latest); err != nil {
		return time.Time{}, fmt.Errorf("scan row: %w", err)
	}

	if latest.Valid {
		return latest.Time, nil
	}
	return time.Time{}, nil
}

type ListParams struct {
	AthleteID int64
	Type      string
	Year      int
}

// List returns stored activities ordered by start time, oldest first.
func (r *Repo) List(ctx context.Context, params ListParams) (_ []Activity, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.activities.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	query := `
		SELECT
			id, athlete_id, activity_type, activity_name, activity_description,
			device_name, calories, perceived_exertion, commute, workout_type,
			distance_meters, distance_miles, distance_km,
			average_speed_ms, avg_speed_min_mile, max_speed_ms,
			start_date_utc, start_date_local, end_date_utc, end_date_local,
			timezone, moving_time_sec, elapsed_time_sec,
			hour_of_day, day_of_week, year,
			start_latitude, start_longitude, end_latitude, end_longitude,
			pr_count, achievement_count, athlete_count,
			has_heartrate, average_heartrate, max_heartrate,
			elev_high_m, elev_low_m, total_elevation_gain_m,
			average_watts, kilojoules,
			gear_id, upload_id, external_id
		FROM activities
		WHERE athlete_id = $1`
	args := []any{params.AthleteID}

	argPos := 2
	if params.Type != "" {
		query += fmt.Sprintf(" AND activity_type = $%d", argPos)
		args = append(args, params.Type)
		argPos++
	}
	if params.Year != 0 {
		query += fmt.Sprintf(" AND year = $%d", argPos)
		args = append(args, params.Year)
	}
	query += " ORDER BY start_date_utc"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query activities: %w", err)
	}
	defer rows.Close()

	var all []Activity
	for rows.Next() {
		var a Activity
		if err := rows.Scan(
			&a.ID, &a.AthleteID, &a.Type, &a.Name, &a.Description,
			&a.DeviceName, &a.Calories, &a.PerceivedExertion, &a.Commute, &a.WorkoutType,
			&a.DistanceMeters, &a.DistanceMiles, &a.DistanceKm,
			&a.AverageSpeedMS, &a.AvgSpeedMinMile, &a.MaxSpeedMS,
			&a.StartDateUTC, &a.StartDateLocal, &a.EndDateUTC, &a.EndDateLocal,
			&a.Timezone, &a.MovingTimeSec, &a.ElapsedTimeSec,
			&a.HourOfDay, &a.DayOfWeek, &a.Year,
			&a.StartLatitude, &a.StartLongitude, &a.EndLatitude, &a.EndLongitude,
			&a.PRCount, &a.AchievementCount, &a.AthleteCount,
			&a.HasHeartrate, &a.AverageHeartrate, &a.MaxHeartrate,
			&a.ElevHighM, &a.ElevLowM, &a.TotalElevationGainM,
			&a.AverageWatts, &a.Kilojoules,
			&a.GearID, &a.UploadID, &a.ExternalID,
		); err != nil {
			return nil, fmt.Errorf("scan activity: %w", err)
		}
		all = append(all, a)
	}

	return all, rows.Err()
}

// Count is used by tests and by the sync run summary log.
func (r *Repo) Count(ctx context.Context, athleteID int64) (_ int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.activities.count")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	var count int
	row := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM activities WHERE athlete_id = $1`, athleteID)
	if err := row.Scan(&count); err != nil {
		return 0, fmt.Errorf("scan count: %w", err)
	}
	return count, nil
}
