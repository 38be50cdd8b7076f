package syncer

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/2beens/stravatrack/internal/activities"
)

var backupCSVHeader = []string{
	"activity_id", "athlete_id", "activity_type", "activity_name",
	"distance_miles", "distance_meters", "avg_speed_min_mile",
	"start_date_utc", "start_date_local", "timezone",
	"moving_time_sec", "elapsed_time_sec",
	"hour_of_day", "day_of_week", "year",
	"start_latitude", "start_longitude",
	"average_heartrate", "max_heartrate",
	"total_elevation_gain_m", "gear_id",
}

// writeBackupCSV dumps the fetched activities next to the database, the
// same belt-and-suspenders backup the old pipeline kept.
func writeBackupCSV(path string, records []activities.Activity) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create backup file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(backupCSVHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for _, a := range records {
		row := []string{
			strconv.FormatInt(a.ID, 10),
			strconv.FormatInt(a.AthleteID, 10),
			a.Type,
			a.Name,
			strconv.FormatFloat(a.DistanceMiles, 'f', 2, 64),
			strconv.FormatFloat(a.DistanceMeters, 'f', 1, 64),
			strconv.FormatFloat(a.AvgSpeedMinMile, 'f', 4, 64),
			a.StartDateUTC.Format(time.RFC3339),
			a.StartDateLocal.Format(time.RFC3339),
			a.Timezone,
			strconv.Itoa(a.MovingTimeSec),
			strconv.Itoa(a.ElapsedTimeSec),
			strconv.Itoa(a.HourOfDay),
			a.DayOfWeek,
			strconv.Itoa(a.Year),
			formatOptFloat(a.StartLatitude),
			formatOptFloat(a.StartLongitude),
			formatOptFloat(a.AverageHeartrate),
			formatOptFloat(a.MaxHeartrate),
			strconv.FormatFloat(a.TotalElevationGainM, 'f', 1, 64),
			a.GearID,
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("write row for activity %d: %w", a.ID, err)
		}
	}

	writer.Flush()
	return writer.Error()
}

func formatOptFloat(f *float64) string {
	if f == nil {
		return ""
	}
	return strconv.FormatFloat(*f, 'f', 6, 64)
}
