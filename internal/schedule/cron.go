package schedule

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
)

// CronParser accepts the 5-field specs produced by CronSpecs.
var CronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// Slot is one weekly firing: a weekday plus a canonical time.
type Slot struct {
	Weekday time.Weekday
	Time    string
	Spec    string // "M H * * DOW"
}

// CronSpecs expands s into one cron spec per slot, Sunday first.
// The schedule must pass Validate; out-of-range tokens such as "25:99" are rejected.
func CronSpecs(s Schedule) ([]Slot, error) {
	if err := Validate(s); err != nil {
		return nil, err
	}
	var out []Slot
	for day, entry := range s {
		for _, tm := range Fields(entry) {
			h, m, err := parseHHMM(tm)
			if err != nil {
				return nil, err
			}
			spec := fmt.Sprintf("%d %d * * %d", m, h, day)
			if _, err := CronParser.Parse(spec); err != nil {
				return nil, fmt.Errorf("cron spec %q: %w", spec, err)
			}
			out = append(out, Slot{Weekday: time.Weekday(day), Time: tm, Spec: spec})
		}
	}
	return out, nil
}
