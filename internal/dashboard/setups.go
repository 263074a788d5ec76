package dashboard

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	logx "streamboard/pkg/logx"
)

var validate = validator.New()

// DeleteResult reports what TryDelete did.
type DeleteResult int

const (
	DeleteNone DeleteResult = iota
	// DeleteArmed means the first click landed; the next one on the same row deletes.
	DeleteArmed
	// DeleteTooSoon means the confirming click came in the same instant as the arming one.
	DeleteTooSoon
	Deleted
)

func (r DeleteResult) String() string {
	switch r {
	case DeleteNone:
		return "none"
	case DeleteArmed:
		return "armed"
	case DeleteTooSoon:
		return "too_soon"
	case Deleted:
		return "deleted"
	default:
		return fmt.Sprintf("DeleteResult(%d)", int(r))
	}
}

// Rows renders the setup table: category, title, tags, tweet.
func (s *Session) Rows() [][4]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	rows := make([][4]string, 0, len(s.setups))
	for _, st := range s.setups {
		rows = append(rows, [4]string{st.Category, st.Title, st.Tags, st.Tweet})
	}
	return rows
}

func (s *Session) Setups() []Setup {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Setup(nil), s.setups...)
}

// Pick copies setup i into the form. Out of range is a no-op.
func (s *Session) Pick(i int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i < 0 || i >= len(s.setups) {
		return false
	}
	st := s.setups[i]
	s.form = Form{Category: st.Category, Title: st.Title, Tags: st.Tags, Tweet: st.Tweet}
	return true
}

// DeletePending returns the armed row, or -1.
func (s *Session) DeletePending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deleting
}

// TryDelete is the two-click delete. The first call for row i arms it and
// disarms any other row. A second call for the same row, strictly after the
// arming instant, deletes through the backend and reloads the list.
func (s *Session) TryDelete(ctx context.Context, i int) (DeleteResult, error) {
	s.mu.Lock()
	if i < 0 || i >= len(s.setups) {
		s.mu.Unlock()
		return DeleteNone, fmt.Errorf("%w: %d", ErrNoSetup, i)
	}
	now := s.clock.Now()
	if s.deleting != i {
		s.deleting = i
		s.deleteAt = now.Add(time.Millisecond)
		s.mu.Unlock()
		return DeleteArmed, nil
	}
	if now.Before(s.deleteAt) {
		s.mu.Unlock()
		return DeleteTooSoon, nil
	}
	s.deleting = -1
	id := s.setups[i].ID
	s.mu.Unlock()

	if err := s.backend.DeleteSetup(ctx, id); err != nil {
		s.log.Warn("delete setup failed", logx.Int64("id", id), logx.Err(err))
		return DeleteNone, fmt.Errorf("delete setup %d: %w", id, err)
	}
	if err := s.Refresh(ctx); err != nil {
		return Deleted, err
	}
	s.log.Info("setup deleted", logx.Int64("id", id))
	return Deleted, nil
}

// Refresh reloads the setup list from the backend.
func (s *Session) Refresh(ctx context.Context) error {
	list, err := s.backend.ListSetups(ctx)
	if err != nil {
		return fmt.Errorf("list setups: %w", err)
	}
	s.mu.Lock()
	s.setups = list
	if s.deleting >= len(list) {
		s.deleting = -1
	}
	s.mu.Unlock()
	return nil
}

// Save stores the current form as a new setup and appends what the backend
// returns. Category and title are required.
func (s *Session) Save(ctx context.Context) (Setup, error) {
	f := s.Form()
	in := Setup{Category: f.Category, Title: f.Title, Tags: f.Tags, Tweet: f.Tweet}
	if err := checkSetup(in); err != nil {
		return Setup{}, err
	}
	out, err := s.backend.CreateSetup(ctx, in)
	if err != nil {
		return Setup{}, fmt.Errorf("create setup: %w", err)
	}
	s.mu.Lock()
	s.setups = append(s.setups, out)
	s.mu.Unlock()
	s.log.Info("setup saved", logx.Int64("id", out.ID), logx.String("category", out.Category))
	return out, nil
}

func checkSetup(st Setup) error {
	err := validate.Struct(st)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	missing := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		missing = append(missing, strings.ToLower(fe.Field()))
	}
	sort.Strings(missing)
	return fmt.Errorf("%w: missing %s", ErrSetupIncomplete, strings.Join(missing, ", "))
}
