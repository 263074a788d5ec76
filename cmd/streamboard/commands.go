package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"streamboard/internal/api"
	"streamboard/internal/app"
	"streamboard/internal/config"
	"streamboard/internal/dashboard"
	"streamboard/internal/schedule"
	logx "streamboard/pkg/logx"
)

const defaultConfigPath = "./streamboard.yaml"

func newRootCmd() *cobra.Command {
	var cfgPath string

	root := &cobra.Command{
		Use:           "streamboard",
		Short:         "Stream dashboard controller",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.Version = appVersion
	root.SetVersionTemplate("streamboard v{{.Version}}\n")
	root.PersistentFlags().StringVarP(&cfgPath, "config", "c", defaultConfigPath, "path to config (yaml or json)")

	root.AddCommand(
		newTidyCmd(),
		newNextCmd(&cfgPath),
		newCheckCmd(&cfgPath),
		newRunCmd(&cfgPath),
		newTimersCmd(&cfgPath),
	)
	return root
}

func newTidyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tidy TIMES...",
		Short: "Normalise free-form times into the canonical HH:MM list",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), schedule.Tidy(strings.Join(args, " ")))
			return nil
		},
	}
}

func newNextCmd(cfgPath *string) *cobra.Command {
	var (
		offset int
		at     string
	)
	cmd := &cobra.Command{
		Use:   "next",
		Short: "Show the next scheduled slot and the time until it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd.Context(), *cfgPath)
			if err != nil {
				return err
			}
			loc, err := schedule.ParseLocation(cfg.Dashboard.Timezone)
			if err != nil {
				return err
			}
			now := time.Now
			if strings.TrimSpace(at) != "" {
				t, err := time.Parse(time.RFC3339, at)
				if err != nil {
					return fmt.Errorf("--at: %w", err)
				}
				now = func() time.Time { return t }
			}
			out, ok := schedule.NewClock(now, loc).Format(cfg.Dashboard.WeekSchedule(), offset)
			if !ok {
				out = dashboard.NoneScheduled
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
	cmd.Flags().IntVar(&offset, "offset", 0, "seconds before the event (negative) or after (positive) to evaluate from")
	cmd.Flags().StringVar(&at, "at", "", "evaluate at this RFC3339 instant instead of now")
	return cmd
}

func newCheckCmd(cfgPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Validate the config and list the alarm slots it produces",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd.Context(), *cfgPath)
			if err != nil {
				return err
			}
			slots, err := schedule.CronSpecs(cfg.Dashboard.WeekSchedule())
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "config ok: %s\n", *cfgPath)
			for _, s := range slots {
				fmt.Fprintf(w, "%s %s  %s\n", schedule.DayName(s.Weekday), s.Time, s.Spec)
			}
			return nil
		},
	}
}

func newRunCmd(cfgPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the dashboard widgets, alarms and config hot reload",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			a, err := app.NewApp(*cfgPath, app.WithOutput(cmd.OutOrStdout()))
			if err != nil {
				return err
			}
			if err := a.Start(ctx); err != nil {
				return err
			}

			reason := app.StopSignal
			select {
			case <-ctx.Done():
			case <-a.Done():
				reason = app.StopFatalError
			}

			stopCtx, stopCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer stopCancel()
			if err := a.Stop(stopCtx, reason); err != nil {
				return err
			}
			return a.Err()
		},
	}
}

func newTimersCmd(cfgPath *string) *cobra.Command {
	timers := &cobra.Command{
		Use:   "timers",
		Short: "Adjust or force the channel's countdown timers",
	}
	timers.AddCommand(
		&cobra.Command{
			Use:   "adjust DELTA",
			Short: "Shift every timer by DELTA (seconds, or M:SS; prefix - to subtract)",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				delta, err := dashboard.ParseDelta(args[0])
				if err != nil {
					return err
				}
				s, err := newSession(cmd.Context(), *cfgPath)
				if err != nil {
					return err
				}
				if err := s.AdjustTimers(cmd.Context(), delta); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "timers adjusted by %ds\n", delta)
				return nil
			},
		},
		&cobra.Command{
			Use:   "force MM[:SS]",
			Short: "Set every timer to MM:SS (at most one hour)",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				s, err := newSession(cmd.Context(), *cfgPath)
				if err != nil {
					return err
				}
				sent, err := s.ForceTimers(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if !sent {
					return errors.New("timer value must be between 0:01 and 60:00")
				}
				fmt.Fprintf(cmd.OutOrStdout(), "timers forced to %s\n", args[0])
				return nil
			},
		},
	)
	return timers
}

func loadConfig(ctx context.Context, path string) (*config.Config, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	return config.NewManager(path).Load(ctx)
}

// newSession builds a dashboard session talking to the configured backend.
func newSession(ctx context.Context, path string) (*dashboard.Session, error) {
	cfg, err := loadConfig(ctx, path)
	if err != nil {
		return nil, err
	}
	log := logx.NewConsole(cfg.Logging.Level)
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
	return dashboard.NewSession(cfg.State(), c,
		dashboard.WithLogger(log.With(logx.String("comp", "dashboard"))),
		dashboard.WithLocalTimezone(cfg.Dashboard.LocalTimezone)), nil
}
