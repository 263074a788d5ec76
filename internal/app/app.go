// Package app wires the config, logging, backend client, dashboard session,
// picker and schedule alarms together and runs the widget loop.
package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"streamboard/internal/alarm"
	"streamboard/internal/api"
	"streamboard/internal/config"
	"streamboard/internal/dashboard"
	"streamboard/internal/eventbus"
	"streamboard/internal/observability/statusz"
	"streamboard/internal/picker"
	"streamboard/internal/runtime/supervisor"
	"streamboard/internal/schedule"
	logx "streamboard/pkg/logx"
)

const searchBurst = 2

type App struct {
	cfgm *config.Manager

	log  logx.Logger
	logs *logx.Service
	bus  eventbus.Bus

	backend dashboard.Backend
	session *dashboard.Session
	picker  *picker.Picker
	alarms  *alarm.Service
	status  *statusz.Service
	clock   *schedule.Clock
	out     io.Writer

	sup       *supervisor.Supervisor
	startedAt time.Time

	mu     sync.Mutex
	cfg    *config.Config // last applied
	last   eventbus.Widgets
	pollCh chan time.Duration
}

type Option func(*App)

// WithBackend replaces the HTTP client built from the backend section.
func WithBackend(b dashboard.Backend) Option {
	return func(a *App) { a.backend = b }
}

// WithClock overrides the dashboard clock.
func WithClock(c *schedule.Clock) Option {
	return func(a *App) { a.clock = c }
}

// WithOutput sets where the widgets are rendered. Default is stdout.
func WithOutput(w io.Writer) Option {
	return func(a *App) { a.out = w }
}

// WithLogger uses log instead of a logging service built from config.
// Logging config reloads are then ignored.
func WithLogger(log logx.Logger) Option {
	return func(a *App) { a.log = log }
}

func NewApp(cfgPath string, opts ...Option) (*App, error) {
	a := &App{
		cfgm:   config.NewManager(cfgPath),
		bus:    eventbus.New(),
		out:    os.Stdout,
		pollCh: make(chan time.Duration, 1),
	}
	for _, o := range opts {
		o(a)
	}

	cfg, err := a.cfgm.Load(context.Background())
	if err != nil {
		return nil, err
	}
	a.cfg = cfg

	if a.log.IsZero() {
		a.logs, a.log = logx.NewService(cfg.Logging.Logx())
	}
	log := a.log
	a.log = log.With(logx.String("comp", "app"))

	if a.backend == nil {
		timeout, err := cfg.Backend.TimeoutOrDefault()
		if err != nil {
			return nil, err
		}
		c, err := api.New(cfg.Backend.BaseURL, cfg.Backend.ChannelID,
			api.WithTimeout(timeout),
			api.WithLogger(log.With(logx.String("comp", "api"))))
		if err != nil {
			return nil, err
		}
		a.backend = c
	}

	sopts := []dashboard.Option{
		dashboard.WithLogger(log.With(logx.String("comp", "dashboard"))),
		dashboard.WithLocalTimezone(cfg.Dashboard.LocalTimezone),
	}
	if a.clock != nil {
		sopts = append(sopts, dashboard.WithClock(a.clock))
	}
	a.session = dashboard.NewSession(cfg.State(), a.backend, sopts...)

	a.picker = picker.New(a.session, a.backend,
		picker.WithRate(rate.Limit(cfg.Backend.SearchRateOrDefault()), searchBurst),
		picker.WithLogger(log.With(logx.String("comp", "picker"))))

	a.alarms = alarm.New(a.bus, alarm.WithLogger(log.With(logx.String("comp", "alarm"))))
	if err := a.alarms.Apply(a.session.Schedule(), a.session.Clock().Location()); err != nil {
		return nil, fmt.Errorf("dashboard.schedule: %w", err)
	}

	a.status = statusz.New(statusConfig(cfg), a.Status, log.With(logx.String("comp", "statusz")))
	return a, nil
}

func statusConfig(cfg *config.Config) statusz.Config {
	return statusz.Config{
		Enabled:       cfg.Status.Enabled,
		Addr:          cfg.Status.Addr,
		Token:         cfg.Status.Token,
		AllowInsecure: cfg.Status.AllowInsecure,
	}
}

// Status is the snapshot served on /status.
func (a *App) Status() statusz.Status {
	a.mu.Lock()
	w := a.last
	alarms := a.cfg.Dashboard.Alarms
	a.mu.Unlock()
	tz, _ := a.session.Timezone()
	return statusz.Status{
		Next:      w.Next,
		Tweet:     w.Tweet,
		Timezone:  tz,
		Slots:     len(a.alarms.Slots()),
		Alarms:    alarms && a.alarms.Running(),
		Setups:    len(a.session.Setups()),
		StartedAt: a.startedAt,
	}
}

func (a *App) Session() *dashboard.Session { return a.session }
func (a *App) Picker() *picker.Picker      { return a.picker }
func (a *App) Bus() eventbus.Bus           { return a.bus }
func (a *App) Alarms() *alarm.Service      { return a.alarms }

// Config returns the config currently applied.
func (a *App) Config() *config.Config {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.cfg
}

// Done is closed when the app context is canceled (fatal error or Stop).
func (a *App) Done() <-chan struct{} {
	if a.sup == nil {
		ch := make(chan struct{})
		close(ch)
		return ch
	}
	return a.sup.Context().Done()
}

// Err returns the first fatal error seen by the supervisor.
func (a *App) Err() error {
	if a.sup == nil {
		return nil
	}
	return a.sup.Err()
}

func (a *App) Start(ctx context.Context) error {
	a.sup = supervisor.New(ctx, supervisor.WithLogger(a.log), supervisor.WithCancelOnError(true))
	a.cfgm.SetLogger(a.log.With(logx.String("comp", "config")))
	run := a.sup.Context()

	a.startedAt = time.Now()
	cfg := a.Config()
	if cfg.Dashboard.Alarms {
		a.alarms.Start(run)
	}
	a.status.Start(run)
	a.publishSchedule()

	a.sup.Go0("setups.load", func(c context.Context) {
		if err := a.session.Refresh(c); err != nil {
			a.log.Warn("loading setups failed", logx.Err(err))
			return
		}
		a.log.Debug("setups loaded", logx.Int("count", len(a.session.Setups())))
	})

	a.sup.Go0("widgets.render", a.renderLoop)

	events, unsub := a.bus.Subscribe(64)
	a.sup.Go0("eventbus.log", func(c context.Context) {
		defer unsub()
		for {
			select {
			case <-c.Done():
				return
			case e, ok := <-events:
				if !ok {
					return
				}
				a.log.Debug("event", logx.String("type", e.Type), logx.Time("time", e.Time))
			}
		}
	})

	sub := a.cfgm.Subscribe(8)
	a.sup.Go0("config.reload", func(c context.Context) {
		defer a.cfgm.Unsubscribe(sub)
		for {
			select {
			case <-c.Done():
				return
			case newCfg, ok := <-sub:
				if !ok {
					return
				}
				a.applyConfig(c, latest(sub, newCfg))
			}
		}
	})

	a.sup.Go("config.watch", a.cfgm.Watch)

	tz, note := a.session.Timezone()
	a.log.Info("app started", logx.String("tz", tz), logx.String("tz_note", note), logx.Int("slots", len(a.alarms.Slots())))
	return nil
}

// latest drains sub and returns the newest config, cfg if none is queued.
func latest(sub <-chan *config.Config, cfg *config.Config) *config.Config {
	for {
		select {
		case newer, ok := <-sub:
			if !ok {
				return cfg
			}
			if newer != nil {
				cfg = newer
			}
		default:
			return cfg
		}
	}
}

// applyConfig moves the running app to newCfg. Sections that cannot change
// live (backend, channel) only log that a restart is needed.
func (a *App) applyConfig(ctx context.Context, newCfg *config.Config) {
	if newCfg == nil {
		return
	}
	a.mu.Lock()
	old := a.cfg
	a.cfg = newCfg
	a.mu.Unlock()

	sections, fields := config.SummarizeChange(old, newCfg)
	if len(sections) == 0 {
		a.log.Debug("config reload received, but no effective changes detected")
		return
	}

	if a.logs != nil {
		a.logs.Apply(newCfg.Logging.Logx())
	}

	for _, s := range sections {
		if s == "backend" || s == "channel" {
			a.log.Warn("config section changed; restart required for changes to take effect", logx.String("section", s))
		}
	}

	od, nd := old.Dashboard, newCfg.Dashboard
	if strings.TrimSpace(od.Timezone) != strings.TrimSpace(nd.Timezone) {
		if err := a.session.SetTimezone(strings.TrimSpace(nd.Timezone)); err != nil {
			a.log.Warn("invalid timezone; keeping previous", logx.Err(err))
		}
	}
	if od.Checklist != nd.Checklist {
		a.session.SetChecklist(nd.Checklist)
	}
	if config.ScheduleChanged(old, newCfg) {
		a.session.ReplaceSchedule(nd.WeekSchedule())
		if err := a.alarms.Apply(a.session.Schedule(), a.session.Clock().Location()); err != nil {
			a.log.Warn("invalid schedule for alarms; keeping previous", logx.Err(err))
		}
		a.publishSchedule()
	}

	switch {
	case od.Alarms && !nd.Alarms:
		a.log.Info("alarms disabled via config")
		stopCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		a.alarms.Stop(stopCtx)
		cancel()
	case !od.Alarms && nd.Alarms:
		a.log.Info("alarms enabled via config")
		a.alarms.Start(ctx)
	}

	if strings.TrimSpace(od.PollInterval) != strings.TrimSpace(nd.PollInterval) {
		if d, err := nd.PollEvery(); err == nil {
			a.setPoll(d)
		}
	}

	if old.Status != newCfg.Status {
		a.status.Reconfigure(ctx, statusConfig(newCfg))
	}

	a.bus.Publish(eventbus.Event{Type: eventbus.ConfigReloaded, Data: sections})
	fields = append([]logx.Field{logx.String("changed", strings.Join(sections, ","))}, fields...)
	a.log.Info("config applied", fields...)
}

func (a *App) publishSchedule() {
	tz, _ := a.session.Timezone()
	a.bus.Publish(eventbus.Event{
		Type: eventbus.ScheduleUpdated,
		Data: eventbus.ScheduleUpdate{Timezone: tz, Slots: len(a.alarms.Slots())},
	})
}

// setPoll hands a new interval to the render loop, replacing any not yet taken.
func (a *App) setPoll(d time.Duration) {
	for {
		select {
		case a.pollCh <- d:
			return
		default:
		}
		select {
		case <-a.pollCh:
		default:
		}
	}
}

func (a *App) Stop(ctx context.Context, reason StopReason) error {
	if a.sup == nil {
		return nil
	}
	a.log.Info("stopping", logx.String("reason", string(reason)))
	a.sup.Cancel()

	step := func(name string, limit time.Duration, fn func(context.Context) error) {
		stepCtx, cancel := context.WithTimeout(ctx, limit)
		defer cancel()
		start := time.Now()
		if err := fn(stepCtx); err != nil {
			a.log.Warn("stop step error", logx.String("name", name), logx.Err(err))
		}
		a.log.Debug("stop step end", logx.String("name", name), logx.Duration("took", time.Since(start)))
	}

	step("alarms", 2*time.Second, func(c context.Context) error { a.alarms.Stop(c); return nil })
	step("statusz", time.Second, func(c context.Context) error { a.status.Stop(c); return nil })
	step("supervisor", 2*time.Second, func(c context.Context) error { return a.sup.Wait(c) })

	a.log.Info("stopped")
	if a.logs != nil {
		return a.logs.Close()
	}
	return nil
}
