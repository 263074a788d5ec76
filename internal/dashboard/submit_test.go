package dashboard

import (
	"context"
	"errors"
	"testing"
	"time"

	"streamboard/internal/schedule"
)

func TestSubmitSchedule(t *testing.T) {
	t.Parallel()
	b := &fakeBackend{reply: Messages{Success: "Schedule saved"}}
	s := NewSession(State{Timezone: "UTC", Schedule: schedule.Schedule{time.Monday: "9 pm"}}, b)

	msgs, err := s.SubmitSchedule(context.Background())
	if err != nil || msgs.Success != "Schedule saved" {
		t.Fatalf("SubmitSchedule = %+v, %v", msgs, err)
	}
	call := b.submits[0]
	if call.path != PathSchedule || call.fields["sched1"] != "21:00" || call.fields["sched0"] != "" || call.fields["sched_tz"] != "UTC" {
		t.Fatalf("submit call = %+v", call)
	}
	if len(call.fields) != 8 {
		t.Fatalf("fields = %d, want 8", len(call.fields))
	}
}

func TestSubmitScheduleRejectsOutOfRange(t *testing.T) {
	t.Parallel()
	b := &fakeBackend{}
	s, _ := newTestSession(State{}, b)
	s.SetDay(time.Friday, "25:99")
	if _, err := s.SubmitSchedule(context.Background()); !errors.Is(err, schedule.ErrInvalidSchedule) {
		t.Fatalf("err = %v, want ErrInvalidSchedule", err)
	}
	if len(b.submits) != 0 {
		t.Fatal("invalid schedule reached the backend")
	}
}

func TestUpdateChannelAndChecklist(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	b := &fakeBackend{reply: Messages{Warning: "Tags partially applied"}}
	s, _ := newTestSession(State{Channel: Channel{Game: "Chess", Status: "Blitz", Tags: "English"}}, b)

	msgs, err := s.UpdateChannel(ctx)
	if err != nil || msgs.Warning == "" || msgs.Empty() {
		t.Fatalf("UpdateChannel = %+v, %v", msgs, err)
	}
	if f := b.submits[0].fields; f["category"] != "Chess" || f["title"] != "Blitz" || f["tags"] != "English" {
		t.Fatalf("fields = %v", f)
	}

	if _, err := s.SubmitChecklist(ctx, "water\r\n\nstretch\n"); err != nil {
		t.Fatalf("SubmitChecklist: %v", err)
	}
	if got := b.submits[1].fields["checklist"]; got != "water\n\nstretch" {
		t.Fatalf("checklist sent = %q", got)
	}
	if got := s.Checklist(); len(got) != 2 || got[1] != "stretch" {
		t.Fatalf("checklist = %q", got)
	}
}

func TestSubmitTweet(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	b := &fakeBackend{}
	s, _ := newTestSession(State{}, b)

	if msgs, _ := s.SubmitTweet(ctx, "now"); msgs.Error != "Nothing to tweet" {
		t.Fatalf("empty tweet = %+v", msgs)
	}
	s.SetTweet("live now")
	if msgs, _ := s.SubmitTweet(ctx, "-300"); msgs.Error != "Can't schedule tweets without a schedule!" {
		t.Fatalf("no schedule = %+v", msgs)
	}

	// Sunday 10:00, a 10:20 slot and a 300s offset: the tweet goes out in 25 minutes.
	s.SetDay(time.Sunday, "10:20")
	if _, err := s.SubmitTweet(ctx, "300"); err != nil {
		t.Fatalf("SubmitTweet: %v", err)
	}
	// Same offset rule puts this one eight hours out.
	s.SetDay(time.Sunday, "20:00")
	if msgs, _ := s.SubmitTweet(ctx, "-7200"); msgs.Error == "" {
		t.Fatal("expected refusal for a tweet more than half an hour ahead")
	}
	if _, err := s.SubmitTweet(ctx, "now"); err != nil {
		t.Fatalf("SubmitTweet now: %v", err)
	}

	if len(b.submits) != 2 {
		t.Fatalf("submits = %d, want 2", len(b.submits))
	}
	if f := b.submits[0].fields; f["tweet"] != "live now" || f["tweetschedule"] != "300" {
		t.Fatalf("scheduled fields = %v", f)
	}
	if f := b.submits[1].fields; f["tweetschedule"] != "now" {
		t.Fatalf("immediate fields = %v", f)
	}
}

func TestSubmitBackendError(t *testing.T) {
	t.Parallel()
	boom := errors.New("offline")
	s, _ := newTestSession(State{}, &fakeBackend{failWith: boom})
	if _, err := s.Submit(context.Background(), "/update/", nil); !errors.Is(err, boom) {
		t.Fatalf("err = %v", err)
	}
}
