// Package picker is the searchable category and tag chooser.
//
// Searches coalesce: while one is in flight, new queries only replace the
// pending text, and when the flight lands the search is repeated if the
// text moved on. At most one request per picker is outstanding.
package picker

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/time/rate"

	"streamboard/internal/dashboard"
	logx "streamboard/pkg/logx"
)

// Pick is one selectable search result.
type Pick struct {
	Value string // what gets stored in the form
	Label string
	Image string // game box art; empty for tags
}

// Heading returns the dialog heading for kind.
func Heading(kind dashboard.SearchKind) string {
	if kind == dashboard.SearchGame {
		return "Pick a category:"
	}
	return "Select tags:"
}

// Map converts raw search rows into picks for kind.
func Map(kind dashboard.SearchKind, rows []dashboard.SearchResult) []Pick {
	out := make([]Pick, 0, len(rows))
	for _, r := range rows {
		switch kind {
		case dashboard.SearchGame:
			p := Pick{Value: r.LocalizedName, Label: r.LocalizedName}
			if r.Box != nil {
				p.Image = r.Box.Small
			}
			out = append(out, p)
		default:
			out = append(out, Pick{Value: r.EnglishName, Label: r.EnglishName + ": " + r.EnglishDesc})
		}
	}
	return out
}

type Picker struct {
	session *dashboard.Session
	backend dashboard.Backend
	limiter *rate.Limiter
	log     logx.Logger

	mu        sync.Mutex
	kind      dashboard.SearchKind
	open      bool
	query     string
	searching bool
	results   []Pick
	gen       uint64
}

type Option func(*Picker)

// WithRate paces outgoing searches. rate.Inf disables pacing.
func WithRate(r rate.Limit, burst int) Option {
	return func(p *Picker) { p.limiter = rate.NewLimiter(r, burst) }
}

func WithLogger(log logx.Logger) Option {
	return func(p *Picker) { p.log = log }
}

func New(s *dashboard.Session, b dashboard.Backend, opts ...Option) *Picker {
	p := &Picker{
		session: s,
		backend: b,
		limiter: rate.NewLimiter(rate.Limit(4), 2),
		log:     logx.Nop(),
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Open shows the picker for kind with an empty query and runs the initial search.
func (p *Picker) Open(ctx context.Context, kind dashboard.SearchKind) error {
	if kind != dashboard.SearchGame && kind != dashboard.SearchTag {
		return fmt.Errorf("picker: unknown kind %q", kind)
	}
	p.mu.Lock()
	p.kind = kind
	p.open = true
	p.query = ""
	p.results = nil
	p.gen++
	p.mu.Unlock()
	return p.Search(ctx, "")
}

func (p *Picker) Close() {
	p.mu.Lock()
	p.open = false
	p.mu.Unlock()
}

func (p *Picker) IsOpen() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.open
}

func (p *Picker) Kind() dashboard.SearchKind {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.kind
}

func (p *Picker) Results() []Pick {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]Pick(nil), p.results...)
}

// Search updates the query. If a search is already running it returns at
// once and the running loop picks the new text up; otherwise it searches
// until the results match the latest query.
func (p *Picker) Search(ctx context.Context, q string) error {
	p.mu.Lock()
	p.query = q
	if p.searching {
		p.mu.Unlock()
		return nil
	}
	p.searching = true
	p.mu.Unlock()

	for {
		p.mu.Lock()
		val, kind, gen := p.query, p.kind, p.gen
		p.mu.Unlock()

		picks, err := p.fetch(ctx, kind, val)

		p.mu.Lock()
		if err != nil {
			p.searching = false
			p.mu.Unlock()
			p.log.Warn("picker search failed", logx.String("kind", string(kind)), logx.String("q", val), logx.Err(err))
			return err
		}
		if gen == p.gen {
			p.results = picks
		}
		if p.query == val && gen == p.gen {
			p.searching = false
			p.mu.Unlock()
			return nil
		}
		p.mu.Unlock()
	}
}

func (p *Picker) fetch(ctx context.Context, kind dashboard.SearchKind, q string) ([]Pick, error) {
	// The game search upstream fails on an empty query.
	if kind == dashboard.SearchGame && q == "" {
		return nil, nil
	}
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	rows, err := p.backend.Search(ctx, kind, q)
	if err != nil {
		return nil, fmt.Errorf("search %s: %w", kind, err)
	}
	return Map(kind, rows), nil
}

// Choose applies a pick. A category is stored and closes the picker; a
// tag is merged into the tag field and the picker stays open. It reports
// whether the picker closed.
func (p *Picker) Choose(pick Pick) bool {
	p.mu.Lock()
	kind := p.kind
	p.mu.Unlock()

	if kind == dashboard.SearchGame {
		p.session.SetCategory(pick.Value)
		p.Close()
		return true
	}
	if !p.session.AddTag(pick.Value) {
		p.log.Debug("tag already present", logx.String("tag", pick.Value))
	}
	return false
}
