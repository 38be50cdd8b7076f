package athletes

import (
	"context"
	"errors"
	"fmt"

	"github.com/2beens/stravatrack/internal/telemetry/tracing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

var ErrAthleteNotFound = errors.New("athlete not found")

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

// Add inserts the athlete, or refreshes profile fields and the refresh
// token if the athlete authorized before.
func (r *Repo) Add(ctx context.Context, athlete Athlete) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.athletes.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int64("athlete.id", athlete.ID))

	_, err = r.db.Exec(ctx, `
		INSERT INTO athletes (id, username, first_name, last_name, city, country, refresh_token, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		ON CONFLICT (id) DO UPDATE SET
			username = EXCLUDED.username,
			first_name = EXCLUDED.first_name,
			last_name = EXCLUDED.last_name,
			city = EXCLUDED.city,
			country = EXCLUDED.country,
			refresh_token = EXCLUDED.refresh_token,
			updated_at = NOW()`,
		athlete.ID, athlete.Username, athlete.FirstName, athlete.LastName,
		athlete.City, athlete.Country, athlete.RefreshToken,
	)
	if err != nil {
		return fmt.Errorf("insert athlete: %w", err)
	}
	return nil
}

func (r *Repo) Get(ctx context.Context, id int64) (_ *Athlete, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.athletes.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int64("athlete.id", id))

	row := r.db.QueryRow(ctx, `
		SELECT id, username, first_name, last_name, city, country, refresh_token, created_at, updated_at
		FROM athletes
		WHERE id = $1`, id,
	)

	var athlete Athlete
	err = row.Scan(
		&athlete.ID, &athlete.Username, &athlete.FirstName, &athlete.LastName,
		&athlete.City, &athlete.Country, &athlete.RefreshToken,
		&athlete.CreatedAt, &athlete.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrAthleteNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan athlete: %w", err)
	}

	return &athlete, nil
}

// GetByFirstName exists for the single-user convenience of running
// syncs by name instead of by provider id.
func (r *Repo) GetByFirstName(ctx context.Context, firstName string) (_ *Athlete, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.athletes.getByFirstName")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	row := r.db.QueryRow(ctx, `
		SELECT id, username, first_name, last_name, city, country, refresh_token, created_at, updated_at
		FROM athletes
		WHERE first_name = $1
		ORDER BY created_at
		LIMIT 1`, firstName,
	)

	var athlete Athlete
	err = row.Scan(
		&athlete.ID, &athlete.Username, &athlete.FirstName, &athlete.LastName,
		&athlete.City, &athlete.Country, &athlete.RefreshToken,
		&athlete.CreatedAt, &athlete.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrAthleteNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan athlete: %w", err)
	}

	return &athlete, nil
}

func (r *Repo) List(ctx context.Context) (_ []Athlete, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.athletes.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(ctx, `
		SELECT id, username, first_name, last_name, city, country, refresh_token, created_at, updated_at
		FROM athletes
		ORDER BY created_at`,
	)
	if err != nil {
		return nil, fmt.Errorf("query athletes: %w", err)
	}
	defer rows.Close()

	var all []Athlete
	for rows.Next() {
		var athlete Athlete
		if err := rows.Scan(
			&athlete.ID, &athlete.Username, &athlete.FirstName, &athlete.LastName,
			&athlete.City, &athlete.Country, &athlete.RefreshToken,
			&athlete.CreatedAt, &athlete.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan athlete: %w", err)
		}
		all = append(all, athlete)
	}

	return all, rows.Err()
}

// SaveRefreshToken implements strava.TokenStore.
func (r *Repo) SaveRefreshToken(ctx context.Context, athleteID int64, refreshToken string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.athletes.saveRefreshToken")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int64("athlete.id", athleteID))

	tag, err := r.db.Exec(ctx, `
		UPDATE athletes SET refresh_token = $1, updated_at = NOW() WHERE id = $2`,
		refreshToken, athleteID,
	)
	if err != nil {
		return fmt.Errorf("update refresh token: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrAthleteNotFound
	}
	return nil
}
