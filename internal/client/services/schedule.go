package services

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ontrackhq/ontrack/internal/client/api"
)

// departureTime combines a trip's service date and first-stop arrival time
// into a single instant in loc. Dates are accepted in ISO ("2006-01-02") or
// compact GTFS ("20060102") form. Times are "HH:MM" or "HH:MM:SS"; GTFS
// allows hours of 24 and above, which roll into the following day.
func departureTime(t api.Trip, loc *time.Location) (time.Time, error) {
	var day time.Time
	var err error
	switch {
	case strings.Contains(t.ServiceDate, "-"):
		day, err = time.ParseInLocation("2006-01-02", t.ServiceDate, loc)
	default:
		day, err = time.ParseInLocation("20060102", t.ServiceDate, loc)
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid service date %q: %w", t.ServiceDate, err)
	}

	parts := strings.Split(t.FirstStopArrivalTime, ":")
	if len(parts) != 2 && len(parts) != 3 {
		return time.Time{}, fmt.Errorf("invalid arrival time %q", t.FirstStopArrivalTime)
	}

	nums := make([]int, 3)
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || n < 0 {
			return time.Time{}, fmt.Errorf("invalid arrival time %q", t.FirstStopArrivalTime)
		}
		nums[i] = n
	}
	if nums[1] > 59 || nums[2] > 59 {
		return time.Time{}, fmt.Errorf("invalid arrival time %q", t.FirstStopArrivalTime)
	}

	offset := time.Duration(nums[0])*time.Hour +
		time.Duration(nums[1])*time.Minute +
		time.Duration(nums[2])*time.Second
	return day.Add(offset), nil
}

// eligibleTrips filters trips down to those departing strictly after now.
// Trips whose date or time cannot be parsed are dropped, never fatal.
func eligibleTrips(trips []api.Trip, now time.Time) []api.Trip {
	eligible := make([]api.Trip, 0, len(trips))
	for _, t := range trips {
		dep, err := departureTime(t, now.Location())
		if err != nil {
			continue
		}
		if dep.After(now) {
			eligible = append(eligible, t)
		}
	}
	return eligible
}

// createdAtFormats covers the timestamp renderings the backend has used.
var createdAtFormats = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	time.RFC1123,
	time.RFC1123Z,
}

func parseCreatedAt(s string) (time.Time, bool) {
	for _, f := range createdAtFormats {
		if ts, err := time.Parse(f, s); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}
