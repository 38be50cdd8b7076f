package geo

// Location is one reverse-geocoded coordinate pair, stored once per
// rounded coordinate.
type Location struct {
	ID          int64   `db:"id"`
	Latitude    float64 `db:"latitude"`
	Longitude   float64 `db:"longitude"`
	PlaceID     int64   `db:"place_id"`
	OsmID       int64   `db:"osm_id"`
	CountryCode string  `db:"country_code"`
	Country     string  `db:"country"`
	State       string  `db:"state_name"`
	City        string  `db:"city"`
	Suburb      string  `db:"suburb"`
	Street      string  `db:"street"`
	Postcode    string  `db:"postal"`
	Address     string  `db:"address"`
}
