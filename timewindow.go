package noslack

import "time"

// All calendar arithmetic runs in a fixed UTC offset, +05:30 by default.
// Weeks run Monday 00:00:00.000 through Saturday 23:59:59.999; Sunday
// belongs to no week and resolves to the week that just ended.
const DefaultOffsetMinutes = 5*60 + 30

// Week is an offset-local Monday..Saturday range expressed in absolute time.
// Label doubles as the storage partition name for that week.
type Week struct {
	Start time.Time
	End   time.Time
	Label string
}

func offsetZone(offsetMinutes int) *time.Location {
	return time.FixedZone("", offsetMinutes*60)
}

// DayKey returns the canonical YYYY-MM-DD key of the offset-local calendar
// day containing t. Lexicographic order of keys equals chronological order.
func DayKey(t time.Time, offsetMinutes int) string {
	return t.In(offsetZone(offsetMinutes)).Format("2006-01-02")
}

// DayWindow returns the absolute-time bounds of the offset-local calendar
// day containing t, end inclusive at 23:59:59.999 local.
func DayWindow(t time.Time, offsetMinutes int) (start time.Time, end time.Time) {
	zone := offsetZone(offsetMinutes)
	local := t.In(zone)
	y, m, d := local.Date()
	start = time.Date(y, m, d, 0, 0, 0, 0, zone)
	end = start.Add(24*time.Hour - time.Millisecond)
	return start, end
}

// WeekWindow returns the offset-local week containing ref.
func WeekWindow(ref time.Time, offsetMinutes int) Week {
	zone := offsetZone(offsetMinutes)
	local := ref.In(zone)
	// Monday=0 .. Sunday=6 days since the most recent Monday.
	sinceMonday := (int(local.Weekday()) + 6) % 7
	y, m, d := local.Date()
	monday := time.Date(y, m, d-sinceMonday, 0, 0, 0, 0, zone)
	saturday := monday.AddDate(0, 0, 5).Add(24*time.Hour - time.Millisecond)
	return Week{
		Start: monday,
		End:   saturday,
		Label: monday.Format("2006-01-02") + "_to_" + saturday.Format("2006-01-02"),
	}
}
