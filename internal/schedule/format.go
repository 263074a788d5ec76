package schedule

import (
	"fmt"
	"time"
)

var dayNames = [7]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// DayName returns the three-letter abbreviation for d.
func DayName(d time.Weekday) string { return dayNames[int(d)%7] }

// Format renders the next occurrence (see Next) for display.
// ok is false when the schedule is empty; callers render their own fallback.
func (c *Clock) Format(s Schedule, offsetSeconds int) (string, bool) {
	o, ok := c.Next(s, offsetSeconds)
	if !ok {
		return "", false
	}
	return FormatOccurrence(o), true
}

// FormatOccurrence renders o as "<Day> <HH:MM> ==> <H:MM:SS>".
func FormatOccurrence(o Occurrence) string {
	return fmt.Sprintf("%s %s ==> %s", DayLabel(o), o.Time, FormatDelay(o.SecondsUntil))
}

// DayLabel is "Today", "Tomorrow", "Next <Day>" (a full week out) or "<Day>".
func DayLabel(o Occurrence) string {
	name := DayName(o.Weekday)
	switch o.DaysAhead {
	case 0:
		return "Today"
	case 1:
		return "Tomorrow"
	case 7:
		return "Next " + name
	default:
		return name
	}
}

// FormatDelay renders a non-negative number of seconds as H:MM:SS with
// unpadded hours. Next never produces a negative delay.
func FormatDelay(secs int) string {
	return fmt.Sprintf("%d:%s:%s", secs/3600, pad2(secs/60%60), pad2(secs%60))
}
