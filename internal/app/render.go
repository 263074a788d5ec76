package app

import (
	"context"
	"fmt"
	"time"

	"streamboard/internal/config"
	"streamboard/internal/eventbus"
	logx "streamboard/pkg/logx"
)

// Render evaluates the two schedule widgets, writes them to the output
// and publishes a WidgetsRendered event when the text changed.
func (a *App) Render() eventbus.Widgets {
	a.mu.Lock()
	when := a.cfg.Dashboard.TweetSchedule
	a.mu.Unlock()

	w := eventbus.Widgets{
		Next:  a.session.NextScheduled(),
		Tweet: a.session.TweetSchedule(when),
	}
	if _, err := fmt.Fprintf(a.out, "Next: %s | Tweet: %s\n", w.Next, w.Tweet); err != nil {
		a.log.Warn("widget write failed", logx.Err(err))
	}

	a.mu.Lock()
	changed := w != a.last
	a.last = w
	a.mu.Unlock()
	if changed {
		a.log.Trace("widgets changed", logx.String("next", w.Next), logx.String("tweet", w.Tweet))
		a.bus.Publish(eventbus.Event{Type: eventbus.WidgetsRendered, Data: w})
	}
	return w
}

// renderLoop ticks at the configured poll interval until ctx ends. Ticks
// are not coalesced with anything; every one renders.
func (a *App) renderLoop(ctx context.Context) {
	every, err := a.Config().Dashboard.PollEvery()
	if err != nil {
		every = config.DefaultPollInterval
	}
	t := time.NewTicker(every)
	defer t.Stop()

	a.Render()
	for {
		select {
		case <-ctx.Done():
			return
		case d := <-a.pollCh:
			a.log.Debug("poll interval changed", logx.Duration("every", d))
			t.Reset(d)
		case <-t.C:
			a.Render()
		}
	}
}
