package dashboard

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	logx "streamboard/pkg/logx"
)

// MaxForceSeconds is the largest countdown ForceTimers will send.
const MaxForceSeconds = 3600

var ErrBadTimerValue = errors.New("bad timer value")

// ParseTimerValue parses "MM" or "MM:SS" into seconds. A bare number is
// minutes. Anything after a second colon is ignored.
func ParseTimerValue(v string) (int, error) {
	parts := strings.Split(strings.TrimSpace(v), ":")
	m, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrBadTimerValue, v)
	}
	sec := 0
	if len(parts) > 1 && parts[1] != "" {
		if sec, err = strconv.Atoi(strings.TrimSpace(parts[1])); err != nil {
			return 0, fmt.Errorf("%w: %q", ErrBadTimerValue, v)
		}
	}
	return m*60 + sec, nil
}

// ParseDelta parses a timer adjustment. A bare number is seconds, "M:SS"
// is minutes and seconds and a leading "-" negates either form.
// Empty is zero.
func ParseDelta(v string) (int, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0, nil
	}
	if !strings.Contains(v, ":") {
		n, err := strconv.Atoi(v)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrBadTimerValue, v)
		}
		return n, nil
	}
	neg := strings.HasPrefix(v, "-")
	mm, ss, ok := strings.Cut(strings.Trim(v, "-"), ":")
	m, err1 := strconv.Atoi(mm)
	sec, err2 := strconv.Atoi(ss)
	if !ok || err1 != nil || err2 != nil {
		return 0, fmt.Errorf("%w: %q", ErrBadTimerValue, v)
	}
	t := m*60 + sec
	if neg {
		return -t, nil
	}
	return t, nil
}

// ForceTimers sets every countdown on the channel to the parsed value.
// Values outside (0, MaxForceSeconds] are ignored and report false.
func (s *Session) ForceTimers(ctx context.Context, value string) (bool, error) {
	secs, err := ParseTimerValue(value)
	if err != nil {
		return false, err
	}
	if secs <= 0 || secs > MaxForceSeconds {
		s.log.Debug("force timers ignored", logx.String("value", value), logx.Int("secs", secs))
		return false, nil
	}
	if err := s.backend.ForceTimers(ctx, secs); err != nil {
		s.log.Error("force timers failed", logx.Int("secs", secs), logx.Err(err))
		return false, fmt.Errorf("force timers: %w", err)
	}
	return true, nil
}

// AdjustTimers shifts every countdown on the channel by delta seconds.
func (s *Session) AdjustTimers(ctx context.Context, delta int) error {
	if err := s.backend.AdjustTimers(ctx, delta); err != nil {
		s.log.Error("adjust timers failed", logx.Int("delta", delta), logx.Err(err))
		return fmt.Errorf("adjust timers: %w", err)
	}
	return nil
}
