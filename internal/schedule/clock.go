package schedule

import (
	"strconv"
	"strings"
	"time"
)

const (
	secondsPerDay  = 86400
	secondsPerWeek = 7 * secondsPerDay
)

// Schedule is a weekly posting schedule indexed by time.Weekday (0 = Sunday).
// Each entry is a canonical time list as produced by Tidy.
type Schedule [7]string

// Day returns the entry for the given weekday.
func (s Schedule) Day(d time.Weekday) string { return s[int(d)%7] }

// Empty reports whether no day has any time on it.
func (s Schedule) Empty() bool {
	for _, d := range s {
		if len(Fields(d)) > 0 {
			return false
		}
	}
	return true
}

// Occurrence is the next firing of a Schedule.
type Occurrence struct {
	Weekday      time.Weekday
	Time         string // canonical "HH:MM"
	DaysAhead    int    // 0 = later today, 7 = same weekday next week
	SecondsUntil int
}

// Delay returns SecondsUntil as a duration.
func (o Occurrence) Delay() time.Duration { return time.Duration(o.SecondsUntil) * time.Second }

// Clock evaluates a Schedule against a now source in a fixed location.
// The zero value uses time.Now in time.Local.
type Clock struct {
	now func() time.Time
	loc *time.Location
}

// NewClock returns a Clock reading now from fn (time.Now when nil) and
// evaluating wall-clock fields in loc (time.Local when nil).
func NewClock(fn func() time.Time, loc *time.Location) *Clock {
	return &Clock{now: fn, loc: loc}
}

// Location returns the timezone the clock evaluates in.
func (c *Clock) Location() *time.Location {
	if c == nil || c.loc == nil {
		return time.Local
	}
	return c.loc
}

// In returns a copy of c that evaluates in loc and reads the same now source.
func (c *Clock) In(loc *time.Location) *Clock {
	out := &Clock{loc: loc}
	if c != nil {
		out.now = c.now
	}
	return out
}

// Now returns the current instant in the clock's location.
func (c *Clock) Now() time.Time {
	fn := time.Now
	if c != nil && c.now != nil {
		fn = c.now
	}
	return fn().In(c.Location())
}

// Next returns the next occurrence of s as seen offsetSeconds before now.
// A positive offset evaluates the schedule from an earlier instant, a
// negative one from a later instant ("N seconds before the event").
// ok is false when the whole week is empty.
func (c *Clock) Next(s Schedule, offsetSeconds int) (Occurrence, bool) {
	now := c.Now().Add(-time.Duration(offsetSeconds) * time.Second)
	return NextAt(s, now)
}

// NextAt is Next for an explicit instant; wall-clock fields are read in now's location.
func NextAt(s Schedule, now time.Time) (Occurrence, bool) {
	today := now.Weekday()
	todayTimes := Fields(s.Day(today))

	cur := pad2(now.Hour()) + ":" + pad2(now.Minute())
	for _, t := range todayTimes {
		if t > cur {
			return Occurrence{Weekday: today, Time: t, DaysAhead: 0, SecondsUntil: TimeDifference(t, now)}, true
		}
	}

	for days := 1; days < 7; days++ {
		dow := time.Weekday((int(today) + days) % 7)
		times := Fields(s.Day(dow))
		if len(times) > 0 {
			return Occurrence{
				Weekday:      dow,
				Time:         times[0],
				DaysAhead:    days,
				SecondsUntil: days*secondsPerDay + TimeDifference(times[0], now),
			}, true
		}
	}

	// Everything today is already behind us: go all the way round the week.
	if len(todayTimes) > 0 {
		return Occurrence{
			Weekday:      today,
			Time:         todayTimes[0],
			DaysAhead:    7,
			SecondsUntil: secondsPerWeek + TimeDifference(todayTimes[0], now),
		}, true
	}
	return Occurrence{}, false
}

// TimeDifference returns the signed number of seconds from t's time of day
// to clockTime ("HH:MM") on the same day. Negative when clockTime is earlier.
func TimeDifference(clockTime string, t time.Time) int {
	hr, mm, _ := strings.Cut(clockTime, ":")
	h, _ := strconv.Atoi(hr)
	m, _ := strconv.Atoi(mm)
	secs := t.Hour()*3600 + t.Minute()*60 + t.Second()
	return (h*60+m)*60 - secs
}
