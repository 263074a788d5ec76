package dashboard

import (
	"testing"
	"time"

	"streamboard/internal/schedule"
)

func TestNewSessionInitialisesForm(t *testing.T) {
	t.Parallel()
	st := State{
		Channel:   Channel{ID: "42", Game: "Chess", Status: "Blitz night", Tags: "English, Strategy"},
		Schedule:  schedule.Schedule{time.Monday: "9 pm", time.Friday: "18:00 8"},
		Checklist: "  mic\r\n\ncamera\n",
	}
	s, _ := newTestSession(st, &fakeBackend{})

	f := s.Form()
	if f.Category != "Chess" || f.Title != "Blitz night" || f.Tags != "English, Strategy" || f.Tweet != "" {
		t.Fatalf("form = %+v", f)
	}
	want := schedule.Schedule{time.Monday: "21:00", time.Friday: "08:00 18:00"}
	if got := s.Schedule(); got != want {
		t.Fatalf("schedule = %q, want %q", got, want)
	}
	if got := s.Checklist(); len(got) != 2 || got[0] != "mic" || got[1] != "camera" {
		t.Fatalf("checklist = %q", got)
	}
}

func TestSetDay(t *testing.T) {
	t.Parallel()
	s, _ := newTestSession(State{}, &fakeBackend{})
	if got := s.SetDay(time.Tuesday, "9:30,14"); got != "09:30 14:00" {
		t.Fatalf("SetDay = %q", got)
	}
	if got := s.Schedule()[time.Tuesday]; got != "09:30 14:00" {
		t.Fatalf("stored = %q", got)
	}

	// The returned copy is detached from the session.
	sc := s.Schedule()
	sc[time.Tuesday] = ""
	if s.Schedule()[time.Tuesday] == "" {
		t.Fatal("Schedule returned a shared array")
	}
}

func TestReplaceSchedule(t *testing.T) {
	t.Parallel()
	s, _ := newTestSession(State{Schedule: schedule.Schedule{time.Monday: "10:00"}}, &fakeBackend{})
	s.ReplaceSchedule(schedule.Schedule{time.Sunday: "11 pm"})
	if got := s.Schedule(); got != (schedule.Schedule{time.Sunday: "23:00"}) {
		t.Fatalf("schedule = %q", got)
	}
}

func TestNextScheduled(t *testing.T) {
	t.Parallel()
	s, mc := newTestSession(State{}, &fakeBackend{})
	if got := s.NextScheduled(); got != NoneScheduled {
		t.Fatalf("empty NextScheduled = %q", got)
	}
	s.SetDay(time.Sunday, "11:01")
	if got := s.NextScheduled(); got != "Today 11:01 ==> 1:01:00" {
		t.Fatalf("NextScheduled = %q", got)
	}
	mc.Advance(time.Second)
	if got := s.NextScheduled(); got != "Today 11:01 ==> 1:00:59" {
		t.Fatalf("NextScheduled after tick = %q", got)
	}
}

func TestTweetSchedule(t *testing.T) {
	t.Parallel()
	s, _ := newTestSession(State{Schedule: schedule.Schedule{time.Sunday: "10:03"}}, &fakeBackend{})
	tests := []struct {
		value string
		want  string
	}{
		{"now", Immediate},
		{"", "Today 10:03 ==> 0:03:00"},
		{"0", "Today 10:03 ==> 0:03:00"},
		{"300", "Today 10:03 ==> 0:08:00"},
		{"-120", "Today 10:03 ==> 0:01:00"},
		{"-300", "Next Sun 10:03 ==> 167:58:00"},
		{"1.5", "Today 10:03 ==> 0:03:02"},
		{"soon", NeedSchedule},
		{"NaN", NeedSchedule},
		{"1e300", NeedSchedule},
	}
	for _, tt := range tests {
		if got := s.TweetSchedule(tt.value); got != tt.want {
			t.Fatalf("TweetSchedule(%q) = %q, want %q", tt.value, got, tt.want)
		}
	}

	empty, _ := newTestSession(State{}, &fakeBackend{})
	if got := empty.TweetSchedule("-300"); got != NeedSchedule {
		t.Fatalf("TweetSchedule on empty schedule = %q", got)
	}
	if got := empty.TweetSchedule("now"); got != Immediate {
		t.Fatalf("TweetSchedule now on empty schedule = %q", got)
	}
}

func TestTweetLength(t *testing.T) {
	t.Parallel()
	s, _ := newTestSession(State{}, &fakeBackend{})
	s.SetTweet("going live")
	if got := s.TweetLength(); got != 10 {
		t.Fatalf("TweetLength = %d", got)
	}
	// Astral characters count twice, as in a browser text field.
	s.SetTweet("live 🎮")
	if got := s.TweetLength(); got != 7 {
		t.Fatalf("TweetLength emoji = %d", got)
	}
}

func TestSessionTimezone(t *testing.T) {
	t.Parallel()
	s := NewSession(State{Timezone: "UTC"}, &fakeBackend{}, WithLocalTimezone("Europe/Berlin"))
	tz, note := s.Timezone()
	if tz != "UTC" || note != "(Your browser's preferred timezone is: Europe/Berlin)" {
		t.Fatalf("Timezone = %q, %q", tz, note)
	}
	if s.Clock().Location().String() != "UTC" {
		t.Fatalf("clock location = %v", s.Clock().Location())
	}

	s = NewSession(State{}, &fakeBackend{}, WithLocalTimezone("UTC"))
	if tz, note := s.Timezone(); tz != "UTC" || note != "" {
		t.Fatalf("default Timezone = %q, %q", tz, note)
	}

	s = NewSession(State{Timezone: "Nowhere/Special"}, &fakeBackend{})
	if s.Clock().Location() != time.Local {
		t.Fatalf("bad zone should fall back to local, got %v", s.Clock().Location())
	}
}

func TestSetTimezoneMovesClock(t *testing.T) {
	t.Parallel()
	s, _ := newTestSession(State{Schedule: schedule.Schedule{time.Sunday: "11:00"}}, &fakeBackend{})
	if got := s.NextScheduled(); got != "Today 11:00 ==> 1:00:00" {
		t.Fatalf("NextScheduled UTC = %q", got)
	}
	// 10:00 UTC is 11:00 in Berlin in January, so 11:00 has just passed.
	if err := s.SetTimezone("Europe/Berlin"); err != nil {
		t.Fatalf("SetTimezone: %v", err)
	}
	if got := s.NextScheduled(); got != "Next Sun 11:00 ==> 168:00:00" {
		t.Fatalf("NextScheduled Berlin = %q", got)
	}
	if tz, _ := s.Timezone(); tz != "Europe/Berlin" {
		t.Fatalf("Timezone = %q", tz)
	}
	if err := s.SetTimezone("Nowhere/Special"); err == nil {
		t.Fatal("expected an error for an unknown zone")
	}
	if tz, _ := s.Timezone(); tz != "Europe/Berlin" {
		t.Fatalf("Timezone after bad zone = %q", tz)
	}
}
