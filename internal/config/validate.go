package config

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/go-playground/validator/v10"

	"streamboard/internal/schedule"
)

var validate = validator.New()

// Validate checks cfg before it is committed: struct tags first, then the
// fields that need parsing (durations, timezone, schedule times).
func Validate(_ context.Context, cfg *Config) error {
	if cfg == nil {
		return errors.New("config is nil")
	}
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("invalid config: %s", formatValidationErrors(err))
	}
	if _, err := cfg.Backend.TimeoutOrDefault(); err != nil {
		return err
	}
	if _, err := cfg.Dashboard.PollEvery(); err != nil {
		return err
	}
	if _, err := schedule.ParseLocation(cfg.Dashboard.Timezone); err != nil {
		return fmt.Errorf("dashboard.timezone: %w", err)
	}
	if err := schedule.Validate(cfg.Dashboard.WeekSchedule()); err != nil {
		return fmt.Errorf("dashboard.schedule: %w", err)
	}
	if addr := strings.TrimSpace(cfg.Status.Addr); addr != "" {
		if _, _, err := net.SplitHostPort(addr); err != nil {
			return fmt.Errorf("status.addr: %w", err)
		}
	}
	return nil
}

func formatValidationErrors(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := strings.ToLower(strings.TrimPrefix(fe.Namespace(), "Config."))
		msg := "is invalid"
		switch fe.Tag() {
		case "required":
			msg = "is required"
		case "url":
			msg = "must be a URL"
		case "oneof":
			msg = "must be one of " + strings.Join(strings.Fields(fe.Param()), ", ")
		case "max":
			msg = "must have at most " + fe.Param() + " entries"
		case "gte":
			msg = "must be >= " + fe.Param()
		}
		parts = append(parts, field+" "+msg)
	}
	return strings.Join(parts, ", ")
}
