// Package eventbus is an in-memory, non-blocking fanout of small events
// between the runner, the alarm service and whoever is watching them.
package eventbus

import (
	"sync"
	"sync/atomic"
	"time"
)

// Event types.
const (
	// ScheduleUpdated carries a ScheduleUpdate after the week or its timezone changed.
	ScheduleUpdated = "schedule.updated"
	// ScheduleAlarm carries an Alarm when a scheduled slot is reached.
	ScheduleAlarm = "schedule.alarm"
	// ConfigReloaded carries the names of the changed config sections ([]string).
	ConfigReloaded = "config.reloaded"
	// WidgetsRendered carries a Widgets snapshot whenever the rendered text changes.
	WidgetsRendered = "widgets.rendered"
)

// Event is a small signal. Publish never blocks; a subscriber whose
// buffer is full misses the event.
type Event struct {
	Type string
	Time time.Time
	Data any
}

// ScheduleUpdate describes the schedule now in effect.
type ScheduleUpdate struct {
	Timezone string
	Slots    int
}

// Alarm is one scheduled slot firing.
type Alarm struct {
	Weekday time.Weekday
	Time    string
}

// Widgets is the rendered text of the polled dashboard widgets.
type Widgets struct {
	Next  string
	Tweet string
}

type Bus interface {
	Publish(e Event)
	Subscribe(buffer int) (ch <-chan Event, unsubscribe func())
}

// New returns an in-memory bus. It runs no goroutines of its own.
func New() Bus {
	return &memBus{subs: map[uint64]chan Event{}}
}

type memBus struct {
	mu   sync.RWMutex
	subs map[uint64]chan Event
	seq  atomic.Uint64
}

func (b *memBus) Publish(e Event) {
	if e.Time.IsZero() {
		e.Time = time.Now()
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, ch := range b.subs {
		select {
		case ch <- e:
		default:
		}
	}
}

func (b *memBus) Subscribe(buffer int) (<-chan Event, func()) {
	if buffer <= 0 {
		buffer = 8
	}
	ch := make(chan Event, buffer)
	id := b.seq.Add(1)

	b.mu.Lock()
	b.subs[id] = ch
	b.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			// Holding the write lock means no Publish is mid-send on ch.
			b.mu.Lock()
			delete(b.subs, id)
			close(ch)
			b.mu.Unlock()
		})
	}
}
