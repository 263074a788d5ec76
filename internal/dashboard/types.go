package dashboard

import (
	"context"
	"errors"

	"streamboard/internal/schedule"
)

var (
	// ErrSetupIncomplete is returned by Save when category or title is empty.
	ErrSetupIncomplete = errors.New("setup incomplete")
	// ErrNoSetup is returned for a setup index outside the current list.
	ErrNoSetup = errors.New("no such setup")
)

// Channel is the stream channel the dashboard edits.
type Channel struct {
	ID     string `json:"_id"`
	Game   string `json:"game"`
	Status string `json:"status"`
	Tags   string `json:"tags"`
}

// Setup is a saved preset of stream metadata.
type Setup struct {
	ID       int64  `json:"id,omitempty"`
	Category string `json:"category" validate:"required"`
	Title    string `json:"title" validate:"required"`
	Tags     string `json:"tags"`
	Tweet    string `json:"tweet"`
}

// Form is the editable stream metadata plus the pending tweet.
type Form struct {
	Category string
	Title    string
	Tags     string
	Tweet    string
}

// State is everything the backend provides when a dashboard is opened.
type State struct {
	Channel   Channel
	Setups    []Setup
	Schedule  schedule.Schedule
	Timezone  string
	Checklist string
}

// Messages is the outcome of a form submission. Any field may be empty.
type Messages struct {
	Error   string `json:"error,omitempty"`
	Warning string `json:"warning,omitempty"`
	Success string `json:"success,omitempty"`
}

// Empty reports whether no message is set.
func (m Messages) Empty() bool { return m.Error == "" && m.Warning == "" && m.Success == "" }

// SearchKind selects a picker search endpoint.
type SearchKind string

const (
	SearchGame SearchKind = "game"
	SearchTag  SearchKind = "tag"
)

// BoxArt holds category artwork URLs.
type BoxArt struct {
	Small  string `json:"small,omitempty"`
	Medium string `json:"medium,omitempty"`
	Large  string `json:"large,omitempty"`
}

// SearchResult is one row of a picker search. Game results fill Name,
// LocalizedName and Box; tag results fill EnglishName and EnglishDesc.
type SearchResult struct {
	Name          string  `json:"name,omitempty"`
	LocalizedName string  `json:"localized_name,omitempty"`
	Box           *BoxArt `json:"box,omitempty"`
	EnglishName   string  `json:"english_name,omitempty"`
	EnglishDesc   string  `json:"english_desc,omitempty"`
}

// Backend is the request/response boundary to the dashboard server.
// Implementations are scoped to a single channel.
type Backend interface {
	ListSetups(ctx context.Context) ([]Setup, error)
	CreateSetup(ctx context.Context, s Setup) (Setup, error)
	DeleteSetup(ctx context.Context, id int64) error
	Search(ctx context.Context, kind SearchKind, q string) ([]SearchResult, error)
	AdjustTimers(ctx context.Context, delta int) error
	ForceTimers(ctx context.Context, secs int) error
	Submit(ctx context.Context, path string, fields map[string]string) (Messages, error)
}
