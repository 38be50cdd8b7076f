package geo

import (
	"context"
	"fmt"

	"github.com/2beens/stravatrack/internal/telemetry/tracing"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) Exists(ctx context.Context, lat, lng float64) (_ bool, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.geo.exists")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	var exists bool
	row := r.db.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM locations WHERE latitude = $1 AND longitude = $2
		)`, lat, lng,
	)
	if err := row.Scan(&exists); err != nil {
		return false, fmt.Errorf("scan exists: %w", err)
	}
	return exists, nil
}

func (r *Repo) Add(ctx context.Context, location Location) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.geo.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	_, err = r.db.Exec(ctx, `
		INSERT INTO locations (
			latitude, longitude, place_id, osm_id, country_code, country,
			state_name, city, suburb, street, postal, address
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (latitude, longitude) DO NOTHING`,
		location.Latitude, location.Longitude, location.PlaceID, location.OsmID,
		location.CountryCode, location.Country, location.State, location.City,
		location.Suburb, location.Street, location.Postcode, location.Address,
	)
	if err != nil {
		return fmt.Errorf("insert location: %w", err)
	}
	return nil
}

func (r *Repo) List(ctx context.Context) (_ []Location, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.geo.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(ctx, `
		SELECT id, latitude, longitude, place_id, osm_id, country_code, country,
			state_name, city, suburb, street, postal, address
		FROM locations
		ORDER BY id`,
	)
	if err != nil {
		return nil, fmt.Errorf("query locations: %w", err)
	}
	defer rows.Close()

	var all []Location
	for rows.Next() {
		var l Location
		if err := rows.Scan(
			&l.ID, &l.Latitude, &l.Longitude, &l.PlaceID, &l.OsmID,
			&l.CountryCode, &l.Country, &l.State, &l.City,
			&l.Suburb, &l.Street, &l.Postcode, &l.Address,
		); err != nil {
			return nil, fmt.Errorf("scan location: %w", err)
		}
		all = append(all, l)
	}

	return all, rows.Err()
}
