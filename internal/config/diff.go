package config

import (
	"reflect"
	"strings"

	logx "streamboard/pkg/logx"
)

// SummarizeChange lists the sections that differ between two configs and
// returns log fields describing the new values. A nil config counts as empty.
func SummarizeChange(oldCfg, newCfg *Config) ([]string, []logx.Field) {
	if oldCfg == nil {
		oldCfg = &Config{}
	}
	if newCfg == nil {
		newCfg = &Config{}
	}

	changed := make([]string, 0, 5)
	fields := make([]logx.Field, 0, 12)

	if oldCfg.Logging != newCfg.Logging {
		changed = append(changed, "logging")
		fields = append(fields,
			logx.String("logging.level", newCfg.Logging.Level),
			logx.Bool("logging.console", newCfg.Logging.Console),
			logx.Bool("logging.file_enabled", newCfg.Logging.File.Enabled),
		)
	}

	if oldCfg.Backend != newCfg.Backend {
		changed = append(changed, "backend")
		fields = append(fields,
			logx.String("backend.base_url", strings.TrimSpace(newCfg.Backend.BaseURL)),
			logx.String("backend.channel_id", newCfg.Backend.ChannelID),
			logx.String("backend.timeout", strings.TrimSpace(newCfg.Backend.Timeout)),
		)
	}

	if oldCfg.Channel != newCfg.Channel {
		changed = append(changed, "channel")
		fields = append(fields, logx.String("channel.game", newCfg.Channel.Game))
	}

	od, nd := oldCfg.Dashboard, newCfg.Dashboard
	scheduleChanged := od.WeekSchedule() != nd.WeekSchedule()
	if scheduleChanged || strings.TrimSpace(od.Timezone) != strings.TrimSpace(nd.Timezone) ||
		od.LocalTimezone != nd.LocalTimezone ||
		od.Checklist != nd.Checklist ||
		od.TweetSchedule != nd.TweetSchedule ||
		strings.TrimSpace(od.PollInterval) != strings.TrimSpace(nd.PollInterval) ||
		od.Alarms != nd.Alarms ||
		!reflect.DeepEqual(od.Schedule, nd.Schedule) {
		changed = append(changed, "dashboard")
		fields = append(fields,
			logx.Bool("dashboard.schedule_changed", scheduleChanged),
			logx.String("dashboard.timezone", strings.TrimSpace(nd.Timezone)),
			logx.String("dashboard.poll_interval", strings.TrimSpace(nd.PollInterval)),
			logx.Bool("dashboard.alarms", nd.Alarms),
		)
	}

	if oldCfg.Status != newCfg.Status {
		changed = append(changed, "status")
		fields = append(fields,
			logx.Bool("status.enabled", newCfg.Status.Enabled),
			logx.String("status.addr", strings.TrimSpace(newCfg.Status.Addr)),
			logx.Bool("status.token_set", newCfg.Status.Token != ""),
		)
	}

	return changed, fields
}

// ScheduleChanged reports whether the tidied week or its timezone differs.
func ScheduleChanged(oldCfg, newCfg *Config) bool {
	if oldCfg == nil || newCfg == nil {
		return oldCfg != newCfg
	}
	return oldCfg.Dashboard.WeekSchedule() != newCfg.Dashboard.WeekSchedule() ||
		strings.TrimSpace(oldCfg.Dashboard.Timezone) != strings.TrimSpace(newCfg.Dashboard.Timezone)
}
