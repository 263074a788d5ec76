package dashboard

import (
	"math"
	"strconv"
	"strings"
	"sync"
	"time"
	"unicode/utf16"

	"streamboard/internal/schedule"
	logx "streamboard/pkg/logx"
)

// Widget fallbacks.
const (
	NoneScheduled = "(none)"
	NeedSchedule  = "(need schedule)"
	Immediate     = "Immediate"
)

// Session is one open dashboard. It is safe for concurrent use; the
// runner polls the widgets while user operations mutate the form.
type Session struct {
	backend Backend
	clock   *schedule.Clock
	log     logx.Logger
	localTZ string

	mu        sync.Mutex
	channel   Channel
	form      Form
	setups    []Setup
	sched     schedule.Schedule
	timezone  string
	tzNote    string
	checklist []string

	deleting int
	deleteAt time.Time
}

type Option func(*Session)

// WithClock overrides the clock used for the schedule widgets and the
// delete confirmation. Its location wins over the saved timezone.
func WithClock(c *schedule.Clock) Option {
	return func(s *Session) { s.clock = c }
}

func WithLogger(log logx.Logger) Option {
	return func(s *Session) { s.log = log }
}

// WithLocalTimezone sets the operator's own timezone name, used as the
// default when nothing is saved and for the mismatch note.
func WithLocalTimezone(name string) Option {
	return func(s *Session) { s.localTZ = name }
}

// NewSession initialises a dashboard from st. The form starts from the
// channel's current metadata and every schedule day is tidied.
func NewSession(st State, b Backend, opts ...Option) *Session {
	s := &Session{backend: b, deleting: -1}
	for _, o := range opts {
		o(s)
	}
	if s.log.IsZero() {
		s.log = logx.Nop()
	}

	s.channel = st.Channel
	s.form = Form{Category: st.Channel.Game, Title: st.Channel.Status, Tags: st.Channel.Tags}
	s.setups = append([]Setup(nil), st.Setups...)
	s.sched = schedule.Normalize(st.Schedule)
	s.checklist = ParseChecklist(st.Checklist)
	s.timezone, s.tzNote = ResolveTimezone(st.Timezone, s.localTZ)

	if s.clock == nil {
		loc, err := schedule.ParseLocation(s.timezone)
		if err != nil {
			s.log.Warn("schedule timezone not loadable; using local time", logx.String("tz", s.timezone), logx.Err(err))
			loc = time.Local
		}
		s.clock = schedule.NewClock(nil, loc)
	}
	return s
}

func (s *Session) Channel() Channel {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.channel
}

func (s *Session) Clock() *schedule.Clock {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clock
}

func (s *Session) Form() Form {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.form
}

func (s *Session) SetCategory(v string) {
	s.mu.Lock()
	s.form.Category = v
	s.mu.Unlock()
}

func (s *Session) SetTitle(v string) {
	s.mu.Lock()
	s.form.Title = v
	s.mu.Unlock()
}

func (s *Session) SetTags(v string) {
	s.mu.Lock()
	s.form.Tags = v
	s.mu.Unlock()
}

func (s *Session) SetTweet(v string) {
	s.mu.Lock()
	s.form.Tweet = v
	s.mu.Unlock()
}

// TweetLength is the tweet length as the page counter shows it (UTF-16 units).
func (s *Session) TweetLength() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(utf16.Encode([]rune(s.form.Tweet)))
}

// Timezone returns the schedule timezone and, when it differs from the
// operator's own, a note saying so.
func (s *Session) Timezone() (tz, note string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.timezone, s.tzNote
}

// SetTimezone switches the schedule timezone, moving the clock with it.
// The now source is kept.
func (s *Session) SetTimezone(tz string) error {
	resolved, note := ResolveTimezone(tz, s.localTZ)
	loc, err := schedule.ParseLocation(resolved)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.timezone, s.tzNote = resolved, note
	s.clock = s.clock.In(loc)
	s.mu.Unlock()
	return nil
}

// SetChecklist replaces the checklist with the lines of text.
func (s *Session) SetChecklist(text string) {
	items := ParseChecklist(text)
	s.mu.Lock()
	s.checklist = items
	s.mu.Unlock()
}

func (s *Session) Checklist() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.checklist...)
}

// SetDay tidies raw, stores it as the entry for day and returns the tidied
// value for the input field.
func (s *Session) SetDay(day time.Weekday, raw string) string {
	v := schedule.Tidy(raw)
	s.mu.Lock()
	s.sched[int(day)%7] = v
	s.mu.Unlock()
	return v
}

// Schedule returns a copy of the current schedule.
func (s *Session) Schedule() schedule.Schedule {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sched
}

// ReplaceSchedule swaps in a whole week, tidying every day.
func (s *Session) ReplaceSchedule(sc schedule.Schedule) {
	n := schedule.Normalize(sc)
	s.mu.Lock()
	s.sched = n
	s.mu.Unlock()
}

// NextScheduled renders the next scheduled slot, or "(none)".
func (s *Session) NextScheduled() string {
	out, ok := s.Clock().Format(s.Schedule(), 0)
	if !ok {
		return NoneScheduled
	}
	return out
}

// TweetSchedule renders when a tweet with the given schedule value would go
// out. "now" is immediate; anything else is a signed offset in seconds
// (fractions allowed, empty means 0). Values that are not numbers render
// the same as an empty schedule.
func (s *Session) TweetSchedule(value string) string {
	if value == "now" {
		return Immediate
	}
	offset, ok := parseOffset(value)
	if !ok {
		return NeedSchedule
	}
	o, ok := schedule.NextAt(s.Schedule(), s.Clock().Now().Add(-offset))
	if !ok {
		return NeedSchedule
	}
	return schedule.FormatOccurrence(o)
}

// Beyond this a time.Duration would overflow.
const maxOffsetSeconds = float64(math.MaxInt64 / int64(time.Second))

func parseOffset(v string) (time.Duration, bool) {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0, true
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(f) || math.Abs(f) > maxOffsetSeconds {
		return 0, false
	}
	// Offsets are kept to the millisecond.
	return time.Duration(math.Round(f*1000)) * time.Millisecond, true
}
