package dashboard

import "testing"

func TestResolveTimezone(t *testing.T) {
	t.Parallel()
	tests := []struct {
		saved, local string
		tz, note     string
	}{
		{"", "Europe/London", "Europe/London", ""},
		{"Europe/London", "Europe/London", "Europe/London", ""},
		{"America/New_York", "Europe/London", "America/New_York", "(Your browser's preferred timezone is: Europe/London)"},
		{"UTC", "", "UTC", ""},
	}
	for _, tt := range tests {
		tz, note := ResolveTimezone(tt.saved, tt.local)
		if tz != tt.tz || note != tt.note {
			t.Fatalf("ResolveTimezone(%q, %q) = %q, %q", tt.saved, tt.local, tz, note)
		}
	}
}
