package dashboard

import (
	"context"
	"errors"
	"sync"
	"time"

	"streamboard/internal/schedule"
)

type fakeBackend struct {
	mu       sync.Mutex
	setups   []Setup
	nextID   int64
	deleted  []int64
	adjusted []int
	forced   []int
	submits  []submitCall
	reply    Messages
	failWith error
}

type submitCall struct {
	path   string
	fields map[string]string
}

func (f *fakeBackend) ListSetups(context.Context) ([]Setup, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return nil, f.failWith
	}
	return append([]Setup(nil), f.setups...), nil
}

func (f *fakeBackend) CreateSetup(_ context.Context, s Setup) (Setup, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return Setup{}, f.failWith
	}
	f.nextID++
	s.ID = f.nextID
	f.setups = append(f.setups, s)
	return s, nil
}

func (f *fakeBackend) DeleteSetup(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return f.failWith
	}
	for i, s := range f.setups {
		if s.ID == id {
			f.setups = append(f.setups[:i], f.setups[i+1:]...)
			f.deleted = append(f.deleted, id)
			return nil
		}
	}
	return errors.New("not found")
}

func (f *fakeBackend) Search(context.Context, SearchKind, string) ([]SearchResult, error) {
	return nil, nil
}

func (f *fakeBackend) AdjustTimers(_ context.Context, delta int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.adjusted = append(f.adjusted, delta)
	return f.failWith
}

func (f *fakeBackend) ForceTimers(_ context.Context, secs int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.forced = append(f.forced, secs)
	return f.failWith
}

func (f *fakeBackend) Submit(_ context.Context, path string, fields map[string]string) (Messages, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return Messages{}, f.failWith
	}
	f.submits = append(f.submits, submitCall{path: path, fields: fields})
	return f.reply, nil
}

// manualClock is a settable now source.
type manualClock struct {
	mu  sync.Mutex
	now time.Time
}

func (m *manualClock) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

func (m *manualClock) Advance(d time.Duration) {
	m.mu.Lock()
	m.now = m.now.Add(d)
	m.mu.Unlock()
}

// 2024-01-07 10:00 UTC is a Sunday.
func newTestSession(st State, b Backend) (*Session, *manualClock) {
	mc := &manualClock{now: time.Date(2024, time.January, 7, 10, 0, 0, 0, time.UTC)}
	return NewSession(st, b, WithClock(schedule.NewClock(mc.Now, time.UTC))), mc
}
