package config

import (
	"time"

	"streamboard/internal/dashboard"
	"streamboard/internal/schedule"
	logx "streamboard/pkg/logx"
)

type Config struct {
	Logging   LoggingConfig   `json:"logging"`
	Backend   BackendConfig   `json:"backend"`
	Channel   ChannelConfig   `json:"channel"`
	Dashboard DashboardConfig `json:"dashboard"`
	Status    StatusConfig    `json:"status"`
}

type LoggingConfig struct {
	Level   string      `json:"level" validate:"omitempty,oneof=trace debug info warn warning error"`
	Console bool        `json:"console"`
	File    LoggingFile `json:"file"`
}

type LoggingFile struct {
	Enabled bool   `json:"enabled"`
	Path    string `json:"path"`
}

// BackendConfig points at the dashboard server.
//
// Timeout is a Go duration string (e.g. "10s"). Empty means 10s.
type BackendConfig struct {
	BaseURL   string `json:"base_url" validate:"required,url"`
	ChannelID string `json:"channel_id" validate:"required"`
	Timeout   string `json:"timeout,omitempty"`
	// SearchRate is searches per second for the picker. 0 means 4.
	SearchRate float64 `json:"search_rate,omitempty" validate:"gte=0"`
}

// ChannelConfig is the channel's current metadata, used to seed the form.
type ChannelConfig struct {
	Game   string `json:"game"`
	Status string `json:"status"`
	Tags   string `json:"tags"`
}

// DashboardConfig is the schedule and widget state normally served on page load.
//
// Schedule is indexed by weekday, Sunday first; free-form times are tidied
// on load. PollInterval is a Go duration string; empty means 1s.
type DashboardConfig struct {
	Timezone      string   `json:"timezone,omitempty"`
	LocalTimezone string   `json:"local_timezone,omitempty"`
	Schedule      []string `json:"schedule" validate:"max=7"`
	Checklist     string   `json:"checklist,omitempty"`
	TweetSchedule string   `json:"tweet_schedule,omitempty"`
	PollInterval  string   `json:"poll_interval,omitempty"`
	Alarms        bool     `json:"alarms"`
}

// StatusConfig is the optional local HTTP server with /healthz, /status
// and pprof. Addr defaults to 127.0.0.1:6060; other hosts need a token
// or allow_insecure.
type StatusConfig struct {
	Enabled       bool   `json:"enabled"`
	Addr          string `json:"addr,omitempty"`
	Token         string `json:"token,omitempty"`
	AllowInsecure bool   `json:"allow_insecure,omitempty"`
}

const (
	DefaultPollInterval   = time.Second
	DefaultBackendTimeout = 10 * time.Second
	DefaultSearchRate     = 4.0
)

func (c LoggingConfig) Logx() logx.Config {
	return logx.Config{
		Level:   c.Level,
		Console: c.Console,
		File:    logx.FileConfig{Enabled: c.File.Enabled, Path: c.File.Path},
	}
}

// WeekSchedule returns the configured week, tidied.
func (c DashboardConfig) WeekSchedule() schedule.Schedule {
	return schedule.Normalize(schedule.FromSlice(c.Schedule))
}

// State builds the dashboard load state from cfg.
func (c *Config) State() dashboard.State {
	return dashboard.State{
		Channel: dashboard.Channel{
			ID:     c.Backend.ChannelID,
			Game:   c.Channel.Game,
			Status: c.Channel.Status,
			Tags:   c.Channel.Tags,
		},
		Schedule:  c.Dashboard.WeekSchedule(),
		Timezone:  c.Dashboard.Timezone,
		Checklist: c.Dashboard.Checklist,
	}
}

func (c DashboardConfig) PollEvery() (time.Duration, error) {
	return ParseDurationOrDefault("dashboard.poll_interval", c.PollInterval, DefaultPollInterval)
}

func (c BackendConfig) TimeoutOrDefault() (time.Duration, error) {
	return ParseDurationOrDefault("backend.timeout", c.Timeout, DefaultBackendTimeout)
}

func (c BackendConfig) SearchRateOrDefault() float64 {
	if c.SearchRate <= 0 {
		return DefaultSearchRate
	}
	return c.SearchRate
}
