// Package alarm turns the weekly stream schedule into cron entries and
// publishes an eventbus.ScheduleAlarm when a slot is reached.
package alarm

import (
	"context"
	"runtime/debug"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"streamboard/internal/eventbus"
	"streamboard/internal/schedule"
	logx "streamboard/pkg/logx"
)

type Service struct {
	bus eventbus.Bus
	log logx.Logger
	now func() time.Time

	mu    sync.Mutex
	sched schedule.Schedule
	loc   *time.Location
	slots []schedule.Slot
	c     *cron.Cron
}

type Option func(*Service)

func WithLogger(log logx.Logger) Option {
	return func(s *Service) { s.log = log }
}

// WithNow overrides the timestamp put on published alarms.
func WithNow(fn func() time.Time) Option {
	return func(s *Service) { s.now = fn }
}

func New(bus eventbus.Bus, opts ...Option) *Service {
	s := &Service{bus: bus, now: time.Now, loc: time.Local}
	for _, o := range opts {
		o(s)
	}
	if s.log.IsZero() {
		s.log = logx.Nop()
	}
	return s
}

// Apply swaps in a new schedule and location. A running service is
// restarted with the new entries. An invalid schedule leaves the previous
// one in effect.
func (s *Service) Apply(sc schedule.Schedule, loc *time.Location) error {
	slots, err := schedule.CronSpecs(sc)
	if err != nil {
		return err
	}
	if loc == nil {
		loc = time.Local
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sched, s.loc, s.slots = sc, loc, slots
	if s.c != nil {
		s.stopLocked()
		s.startLocked()
	}
	s.log.Debug("alarm schedule applied", logx.String("tz", loc.String()), logx.Int("slots", len(slots)))
	return nil
}

// Slots returns the registered weekly slots, Sunday first.
func (s *Service) Slots() []schedule.Slot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]schedule.Slot(nil), s.slots...)
}

// Running reports whether the cron loop is active.
func (s *Service) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.c != nil
}

// Start begins firing alarms. It is a no-op when already running.
func (s *Service) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.c != nil || ctx.Err() != nil {
		return
	}
	s.startLocked()
	s.log.Info("alarms started", logx.String("tz", s.loc.String()), logx.Int("slots", len(s.slots)))
}

// Stop halts the cron loop and waits for a firing alarm to finish, or ctx.
func (s *Service) Stop(ctx context.Context) {
	s.mu.Lock()
	c := s.c
	s.c = nil
	s.mu.Unlock()
	if c == nil {
		return
	}
	select {
	case <-c.Stop().Done():
		s.log.Info("alarms stopped")
	case <-ctx.Done():
	}
}

func (s *Service) startLocked() {
	c := cron.New(cron.WithParser(schedule.CronParser), cron.WithLocation(s.loc))
	for _, slot := range s.slots {
		slot := slot
		if _, err := c.AddFunc(slot.Spec, func() { s.fire(slot) }); err != nil {
			// CronSpecs already parsed every spec.
			s.log.Error("alarm register failed", logx.String("spec", slot.Spec), logx.Err(err))
		}
	}
	c.Start()
	s.c = c
}

func (s *Service) stopLocked() {
	if s.c == nil {
		return
	}
	s.c.Stop()
	s.c = nil
}

func (s *Service) fire(slot schedule.Slot) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("panic in alarm", logx.Any("panic", r), logx.String("stack", string(debug.Stack())))
		}
	}()
	s.log.Info("scheduled slot reached", logx.String("day", schedule.DayName(slot.Weekday)), logx.String("time", slot.Time))
	s.bus.Publish(eventbus.Event{
		Type: eventbus.ScheduleAlarm,
		Time: s.now(),
		Data: eventbus.Alarm{Weekday: slot.Weekday, Time: slot.Time},
	})
}
