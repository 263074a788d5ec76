package dashboard

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"streamboard/internal/schedule"
	logx "streamboard/pkg/logx"
)

// Form paths the dashboard submits to.
const (
	PathUpdate    = "update"
	PathSchedule  = "schedule"
	PathChecklist = "checklist"
	PathTweet     = "tweet"
)

// Submit posts a form to the backend and returns its messages.
func (s *Session) Submit(ctx context.Context, path string, fields map[string]string) (Messages, error) {
	path = strings.Trim(path, "/")
	msgs, err := s.backend.Submit(ctx, path, fields)
	if err != nil {
		s.log.Warn("submit failed", logx.String("path", path), logx.Err(err))
		return Messages{}, fmt.Errorf("submit %s: %w", path, err)
	}
	s.log.Debug("submitted", logx.String("path", path), logx.Bool("error", msgs.Error != ""))
	return msgs, nil
}

// UpdateChannel submits the form's category, title and tags.
func (s *Session) UpdateChannel(ctx context.Context) (Messages, error) {
	f := s.Form()
	return s.Submit(ctx, PathUpdate, map[string]string{
		"category": f.Category,
		"title":    f.Title,
		"tags":     f.Tags,
	})
}

// SubmitSchedule sends the week and timezone. The schedule is checked
// locally first so the backend never sees a format it would reject.
func (s *Session) SubmitSchedule(ctx context.Context) (Messages, error) {
	sc := s.Schedule()
	if err := schedule.Validate(sc); err != nil {
		return Messages{}, err
	}
	tz, _ := s.Timezone()
	fields := make(map[string]string, 8)
	for day, entry := range sc {
		fields[fmt.Sprintf("sched%d", day)] = entry
	}
	fields["sched_tz"] = tz
	return s.Submit(ctx, PathSchedule, fields)
}

// SubmitChecklist saves checklist text and re-parses it for display.
func (s *Session) SubmitChecklist(ctx context.Context, text string) (Messages, error) {
	text = strings.TrimSpace(strings.ReplaceAll(text, "\r", ""))
	msgs, err := s.Submit(ctx, PathChecklist, map[string]string{"checklist": text})
	if err != nil {
		return msgs, err
	}
	s.SetChecklist(text)
	return msgs, nil
}

// MaxTweetLead is how far ahead a tweet may be scheduled.
const MaxTweetLead = 30 * time.Minute

// SubmitTweet sends the form's tweet with a schedule value: "now" or an
// offset in seconds from the next scheduled slot (see TweetSchedule).
// Scheduled tweets are refused locally when there is no schedule or the
// send time is more than MaxTweetLead away.
func (s *Session) SubmitTweet(ctx context.Context, when string) (Messages, error) {
	f := s.Form()
	if strings.TrimSpace(f.Tweet) == "" {
		return Messages{Error: "Nothing to tweet"}, nil
	}
	if when != "now" {
		offset, err := strconv.Atoi(strings.TrimSpace(when))
		if err != nil {
			return Messages{Error: "Bad tweet schedule: " + when}, nil
		}
		o, ok := s.Clock().Next(s.Schedule(), offset)
		if !ok {
			return Messages{Error: "Can't schedule tweets without a schedule!"}, nil
		}
		if o.Delay() > MaxTweetLead {
			return Messages{Error: "Refusing to schedule a tweet more than half an hour in advance"}, nil
		}
		when = strconv.Itoa(offset)
	}
	return s.Submit(ctx, PathTweet, map[string]string{"tweet": f.Tweet, "tweetschedule": when})
}
