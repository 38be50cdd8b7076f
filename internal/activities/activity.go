package activities

import (
	"time"

	"github.com/2beens/stravatrack/internal/strava"
)

const (
	metersPerMile = 1609.344
	metersPerKm   = 1000.0
)

// Activity is the relational projection of one exercise session,
// including the derived distance/pace and calendar columns the
// analysis step groups by.
type Activity struct {
	ID        int64  `db:"id"`
	AthleteID int64  `db:"athlete_id"`
	Type      string `db:"activity_type"`
	Name      string `db:"activity_name"`
	// detail-only fields, empty unless the full record was fetched
	Description       string   `db:"activity_description"`
	DeviceName        string   `db:"device_name"`
	Calories          float64  `db:"calories"`
	PerceivedExertion *float64 `db:"perceived_exertion"`

	Commute     bool `db:"commute"`
	WorkoutType *int `db:"workout_type"`

	DistanceMeters  float64 `db:"distance_meters"`
	DistanceMiles   float64 `db:"distance_miles"`
	DistanceKm      float64 `db:"distance_km"`
	AverageSpeedMS  float64 `db:"average_speed_ms"`
	AvgSpeedMinMile float64 `db:"avg_speed_min_mile"`
	MaxSpeedMS      float64 `db:"max_speed_ms"`

	StartDateUTC   time.Time `db:"start_date_utc"`
	StartDateLocal time.Time `db:"start_date_local"`
	EndDateUTC     time.Time `db:"end_date_utc"`
	EndDateLocal   time.Time `db:"end_date_local"`
	Timezone       string    `db:"timezone"`
	MovingTimeSec  int       `db:"moving_time_sec"`
	ElapsedTimeSec int       `db:"elapsed_time_sec"`
	HourOfDay      int       `db:"hour_of_day"`
	DayOfWeek      string    `db:"day_of_week"`
	Year           int       `db:"year"`

	StartLatitude  *float64 `db:"start_latitude"`
	StartLongitude *float64 `db:"start_longitude"`
	EndLatitude    *float64 `db:"end_latitude"`
	EndLongitude   *float64 `db:"end_longitude"`

	PRCount          int `db:"pr_count"`
	AchievementCount int `db:"achievement_count"`
	AthleteCount     int `db:"athlete_count"`

	HasHeartrate     bool     `db:"has_heartrate"`
	AverageHeartrate *float64 `db:"average_heartrate"`
	MaxHeartrate     *float64 `db:"max_heartrate"`

	ElevHighM           float64 `db:"elev_high_m"`
	ElevLowM            float64 `db:"elev_low_m"`
	TotalElevationGainM float64 `db:"total_elevation_gain_m"`

	AverageWatts *float64 `db:"average_watts"`
	Kilojoules   *float64 `db:"kilojoules"`

	GearID     string `db:"gear_id"`
	UploadID   int64  `db:"upload_id"`
	ExternalID string `db:"external_id"`
}

// NewActivityFromSummary maps an API summary record to its DB projection
// and computes the derived columns.
func NewActivityFromSummary(s strava.SummaryActivity) Activity {
	a := Activity{
		ID:                  s.ID,
		AthleteID:           s.Athlete.ID,
		Type:                s.Type,
		Name:                s.Name,
		Commute:             s.Commute,
		WorkoutType:         s.WorkoutType,
		DistanceMeters:      s.Distance,
		DistanceMiles:       s.Distance / metersPerMile,
		DistanceKm:          s.Distance / metersPerKm,
		AverageSpeedMS:      s.AverageSpeed,
		MaxSpeedMS:          s.MaxSpeed,
		StartDateUTC:        s.StartDate,
		StartDateLocal:      s.StartDateLocal,
		Timezone:            s.TimezoneName(),
		MovingTimeSec:       s.MovingTime,
		ElapsedTimeSec:      s.ElapsedTime,
		PRCount:             s.PRCount,
		AchievementCount:    s.AchievementCount,
		AthleteCount:        s.AthleteCount,
		HasHeartrate:        s.HasHeartrate,
		AverageHeartrate:    s.AverageHeartrate,
		MaxHeartrate:        s.MaxHeartrate,
		ElevHighM:           s.ElevHigh,
		ElevLowM:            s.ElevLow,
		TotalElevationGainM: s.TotalElevationGain,
		AverageWatts:        s.AverageWatts,
		Kilojoules:          s.Kilojoules,
		GearID:              s.GearID,
		UploadID:            s.UploadID,
		ExternalID:          s.ExternalID,
	}

	elapsed := time.Duration(s.ElapsedTime) * time.Second
	a.EndDateUTC = s.StartDate.Add(elapsed)
	a.EndDateLocal = s.StartDateLocal.Add(elapsed)

	a.HourOfDay = s.StartDateLocal.Hour()
	a.DayOfWeek = s.StartDateLocal.Weekday().String()
	a.Year = s.StartDateLocal.Year()

	if a.DistanceMiles > 0 {
		a.AvgSpeedMinMile = (float64(s.MovingTime) / 60) / a.DistanceMiles
	}

	if lat, lng, ok := s.StartLatLng.Coords(); ok {
		a.StartLatitude = &lat
		a.StartLongitude = &lng
	}
	if lat, lng, ok := s.EndLatLng.Coords(); ok {
		a.EndLatitude = &lat
		a.EndLongitude = &lng
	}

	return a
}

// ApplyDetail fills in the fields only present on the full record.
func (a *Activity) ApplyDetail(d *strava.DetailedActivity) {
	a.Description = d.Description
	a.Calories = d.Calories
	a.DeviceName = d.DeviceName
	a.PerceivedExertion = d.PerceivedExertion
	if d.Gear != nil && a.GearID == "" {
		a.GearID = d.Gear.ID
	}
}

// SplitUnit distinguishes the two split flavors the API returns.
type SplitUnit string

const (
	SplitUnitMiles SplitUnit = "mi"
	SplitUnitKm    SplitUnit = "km"
)

type Split struct {
	ActivityID           int64     `db:"activity_id"`
	Unit                 SplitUnit `db:"unit"`
	Split                int       `db:"split"`
	DistanceMeters       float64   `db:"distance_meters"`
	ElapsedTimeSec       int       `db:"elapsed_time_sec"`
	MovingTimeSec        int       `db:"moving_time_sec"`
	AverageSpeedMS       float64   `db:"average_speed_ms"`
	AverageHeartrate     *float64  `db:"average_heartrate"`
	ElevationDifferenceM float64   `db:"elevation_difference_m"`
}

func NewSplits(activityID int64, unit SplitUnit, splits []strava.Split) []Split {
	out := make([]Split, 0, len(splits))
	for _, s := range splits {
		out = append(out, Split{
			ActivityID:           activityID,
			Unit:                 unit,
			Split:                s.Split,
			DistanceMeters:       s.Distance,
			ElapsedTimeSec:       s.ElapsedTime,
			MovingTimeSec:        s.MovingTime,
			AverageSpeedMS:       s.AverageSpeed,
			AverageHeartrate:     s.AverageHeartrate,
			ElevationDifferenceM: s.ElevationDifference,
		})
	}
	return out
}

// Stream is one time series of an activity, samples ordered by elapsed
// time; the raw sample array is stored as JSONB.
type Stream struct {
	ActivityID   int64  `db:"activity_id"`
	Type         string `db:"stream_type"`
	SeriesType   string `db:"series_type"`
	OriginalSize int    `db:"original_size"`
	Resolution   string `db:"resolution"`
	Data         []byte `db:"data"`
}

type Gear struct {
	ID   string `db:"gear_id"`
	Name string `db:"name"`
}
