package schedule

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidSchedule is returned (wrapped) when a day entry is not in the
// strict "HH:MM HH:MM ..." form the backend accepts.
var ErrInvalidSchedule = errors.New("schedule format error")

// Validate checks every day in s against the backend's accepted format.
// Free-form input must go through Tidy first; "1pm" is rejected here.
func Validate(s Schedule) error {
	for day, entry := range s {
		if strings.Contains(entry, ",") {
			return fmt.Errorf("%w: %s: %q", ErrInvalidSchedule, DayName(time.Weekday(day)), entry)
		}
		for _, tm := range strings.Fields(entry) {
			if _, _, err := parseHHMM(tm); err != nil {
				return fmt.Errorf("%w: %s: %v", ErrInvalidSchedule, DayName(time.Weekday(day)), err)
			}
		}
	}
	return nil
}

// Normalize returns s with every day passed through Tidy.
func Normalize(s Schedule) Schedule {
	var out Schedule
	for i, d := range s {
		out[i] = Tidy(d)
	}
	return out
}

// FromSlice copies up to seven day entries into a Schedule; missing days stay empty.
func FromSlice(days []string) Schedule {
	var s Schedule
	copy(s[:], days)
	return s
}

// ParseLocation resolves a schedule timezone. Empty means time.Local.
func ParseLocation(name string) (*time.Location, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", name, err)
	}
	return loc, nil
}

func parseHHMM(s string) (hour int, minute int, err error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid time %q, expected HH:MM", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, 0, fmt.Errorf("invalid hour in %q", s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, 0, fmt.Errorf("invalid minute in %q", s)
	}
	return h, m, nil
}
