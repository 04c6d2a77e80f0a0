package timezone

import (
	"time"
	_ "time/tzdata"
)

const DateLayout = "2006-01-02"

var defaultTimezone = "Asia/Kolkata"

// SetDefault changes the fallback zone. It is meant to be called once at
// startup; invalid names are ignored.
func SetDefault(tz string) {
	if IsValid(tz) {
		defaultTimezone = tz
	}
}

func Default() string {
	return defaultTimezone
}

func IsValid(tz string) bool {
	if tz == "" {
		return false
	}
	_, err := time.LoadLocation(tz)
	return err == nil
}

func Location(tz string) *time.Location {
	if IsValid(tz) {
		if loc, err := time.LoadLocation(tz); err == nil {
			return loc
		}
	}

	loc, err := time.LoadLocation(defaultTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func Now() time.Time {
	return time.Now().In(Location(defaultTimezone))
}

func NowIn(tz string) time.Time {
	return time.Now().In(Location(tz))
}

func Date(t time.Time) string {
	return t.Format(DateLayout)
}

func MinuteOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}
