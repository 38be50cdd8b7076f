package strava

import (
	"encoding/json"
	"strings"
	"time"
)

// Payload structs for the subset of the Strava v3 API used here:
// https://developers.strava.com/docs/reference/

type AthleteSummary struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	FirstName string    `json:"firstname"`
	LastName  string    `json:"lastname"`
	City      string    `json:"city"`
	Country   string    `json:"country"`
	CreatedAt time.Time `json:"created_at"`
}

// LatLng comes over the wire as a two element array, or an empty
// array when the activity has no GPS data (e.g. treadmill runs).
type LatLng []float64

func (ll LatLng) Coords() (lat, lng float64, ok bool) {
	if len(ll) != 2 {
		return 0, 0, false
	}
	return ll[0], ll[1], true
}

type SummaryActivity struct {
	ID      int64 `json:"id"`
	Athlete struct {
		ID int64 `json:"id"`
	} `json:"athlete"`
	Name               string    `json:"name"`
	Distance           float64   `json:"distance"` // meters
	MovingTime         int       `json:"moving_time"`
	ElapsedTime        int       `json:"elapsed_time"`
	TotalElevationGain float64   `json:"total_elevation_gain"`
	Type               string    `json:"type"`
	WorkoutType        *int      `json:"workout_type"`
	StartDate          time.Time `json:"start_date"`
	StartDateLocal     time.Time `json:"start_date_local"`
	Timezone           string    `json:"timezone"`
	StartLatLng        LatLng    `json:"start_latlng"`
	EndLatLng          LatLng    `json:"end_latlng"`
	AchievementCount   int       `json:"achievement_count"`
	AthleteCount       int       `json:"athlete_count"`
	PRCount            int       `json:"pr_count"`
	Commute            bool      `json:"commute"`
	AverageSpeed       float64   `json:"average_speed"` // m/s
	MaxSpeed           float64   `json:"max_speed"`
	HasHeartrate       bool      `json:"has_heartrate"`
	AverageHeartrate   *float64  `json:"average_heartrate"`
	MaxHeartrate       *float64  `json:"max_heartrate"`
	ElevHigh           float64   `json:"elev_high"`
	ElevLow            float64   `json:"elev_low"`
	AverageWatts       *float64  `json:"average_watts"`
	Kilojoules         *float64  `json:"kilojoules"`
	GearID             string    `json:"gear_id"`
	UploadID           int64     `json:"upload_id"`
	ExternalID         string    `json:"external_id"`
}

// TimezoneName strips the UTC offset prefix, e.g.
// "(GMT-08:00) America/Los_Angeles" -> "America/Los_Angeles".
func (a SummaryActivity) TimezoneName() string {
	if i := strings.LastIndex(a.Timezone, ") "); i != -1 {
		return a.Timezone[i+2:]
	}
	return a.Timezone
}

type DetailedActivity struct {
	SummaryActivity
	Description       string   `json:"description"`
	Calories          float64  `json:"calories"`
	DeviceName        string   `json:"device_name"`
	PerceivedExertion *float64 `json:"perceived_exertion"`
	Gear              *Gear    `json:"gear"`
	SplitsMetric      []Split  `json:"splits_metric"`
	SplitsStandard    []Split  `json:"splits_standard"`
}

type Gear struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Split struct {
	Split               int      `json:"split"`
	Distance            float64  `json:"distance"` // meters
	ElapsedTime         int      `json:"elapsed_time"`
	MovingTime          int      `json:"moving_time"`
	AverageSpeed        float64  `json:"average_speed"`
	AverageHeartrate    *float64 `json:"average_heartrate"`
	ElevationDifference float64  `json:"elevation_difference"`
	PaceZone            int      `json:"pace_zone"`
}

// Stream keeps Data raw since the element type depends on the stream
// (ints for time, floats for velocity, pairs for latlng).
type Stream struct {
	Data         json.RawMessage `json:"data"`
	SeriesType   string          `json:"series_type"`
	OriginalSize int             `json:"original_size"`
	Resolution   string          `json:"resolution"`
}

// StreamSet is the key_by_type=true representation of activity streams.
type StreamSet map[string]Stream
