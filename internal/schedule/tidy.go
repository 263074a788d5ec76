package schedule

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

var (
	// Matches "", "am", "pm" and "ampm" in any case. The empty match is relied upon.
	reMeridiem = regexp.MustCompile(`(?i)^(AM)?(PM)?$`)

	// AM and PM are separate optional groups so that both can be inspected
	// under one case-insensitive flag. "2:30AMPM" therefore matches; PM wins.
	reClock = regexp.MustCompile(`(?i)^([0-9][0-9]?)(?::([0-9][0-9]?))?(AM)?(PM)?$`)
)

// Tidy parses a free-form list of clock times into a canonical, sorted,
// space-separated "HH:MM" string. Unrecognised tokens are dropped.
//
// Only the first comma counts as a separator. A bare "AM"/"PM" token
// modifies the token right before it, so "9 pm" is "21:00"; "9  pm" is not
// (the empty token between the spaces is consumed instead).
func Tidy(raw string) string {
	times := strings.Split(strings.Replace(raw, ",", " ", 1), " ")
	for i, tm := range times {
		if m := reMeridiem.FindStringSubmatch(tm); m != nil && i > 0 && times[i-1] != "" {
			hr, mm, _ := strings.Cut(times[i-1], ":")
			if hr == "12" {
				hr = "00"
			}
			if m[2] != "" {
				h, _ := strconv.Atoi(hr)
				hr = pad2(h + 12)
			}
			times[i-1] = hr + ":" + mm
			times[i] = ""
			continue
		}

		parts := reClock.FindStringSubmatch(tm)
		if parts == nil {
			times[i] = ""
			continue
		}
		hour, _ := strconv.Atoi(parts[1])
		minute := 0
		if parts[2] != "" {
			minute, _ = strconv.Atoi(parts[2])
		}
		if parts[3] != "" || parts[4] != "" {
			if hour == 12 {
				hour = 0
			}
			if parts[4] != "" {
				hour += 12
			}
		}
		times[i] = pad2(hour) + ":" + pad2(minute)
	}
	sort.Strings(times)
	return strings.TrimSpace(strings.Join(times, " "))
}

// pad2 keeps the last two characters of "0"+n: 7 -> "07", 21 -> "21", 111 -> "11".
func pad2(n int) string {
	s := "0" + strconv.Itoa(n)
	return s[len(s)-2:]
}

// Fields splits a canonical day entry into its non-empty time tokens.
func Fields(day string) []string {
	out := make([]string, 0, 4)
	for _, t := range strings.Split(day, " ") {
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}
