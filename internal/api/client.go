// Package api is the HTTP implementation of dashboard.Backend.
package api

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"

	"streamboard/internal/dashboard"
	logx "streamboard/pkg/logx"
)

const (
	HeaderRequestID = "X-Request-ID"
	mimeJSON        = "application/json"

	defaultTimeout = 10 * time.Second
	// Error bodies are kept for diagnostics, truncated to this size.
	maxErrBody = 512
)

var (
	ErrBadRequest = errors.New("bad request")
	ErrNotFound   = errors.New("not found")
)

// StatusError is returned for non-2xx responses.
type StatusError struct {
	Method    string
	Path      string
	Code      int
	Body      string
	RequestID string
}

func (e *StatusError) Error() string {
	msg := fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.Code, http.StatusText(e.Code))
	if e.Body != "" {
		msg += ": " + e.Body
	}
	return msg
}

func (e *StatusError) Is(target error) bool {
	switch target {
	case ErrBadRequest:
		return e.Code == http.StatusBadRequest
	case ErrNotFound:
		return e.Code == http.StatusNotFound
	}
	return false
}

// Client talks to the dashboard server on behalf of one channel.
type Client struct {
	base      *url.URL
	channelID string
	hc        *http.Client
	log       logx.Logger
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.hc = hc
		}
	}
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.hc = &http.Client{Timeout: d, Transport: c.hc.Transport}
		}
	}
}

func WithLogger(log logx.Logger) Option {
	return func(c *Client) { c.log = log }
}

// New returns a client for baseURL scoped to channelID.
func New(baseURL, channelID string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(strings.TrimSpace(baseURL), "/"))
	if err != nil {
		return nil, fmt.Errorf("backend url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("backend url %q: scheme must be http or https", baseURL)
	}
	c := &Client{
		base:      u,
		channelID: channelID,
		hc:        &http.Client{Timeout: defaultTimeout},
		log:       logx.Nop(),
	}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

var _ dashboard.Backend = (*Client)(nil)

func (c *Client) ListSetups(ctx context.Context) ([]dashboard.Setup, error) {
	var out []dashboard.Setup
	if err := c.do(ctx, http.MethodGet, "/api/setups", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateSetup(ctx context.Context, s dashboard.Setup) (dashboard.Setup, error) {
	s.ID = 0
	var out dashboard.Setup
	if err := c.do(ctx, http.MethodPost, "/api/setups", nil, s, &out); err != nil {
		return dashboard.Setup{}, err
	}
	return out, nil
}

func (c *Client) DeleteSetup(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, "/api/setups/"+strconv.FormatInt(id, 10), nil, nil, nil)
}

func (c *Client) Search(ctx context.Context, kind dashboard.SearchKind, q string) ([]dashboard.SearchResult, error) {
	var out []dashboard.SearchResult
	path := "/search/" + url.PathEscape(string(kind))
	if err := c.do(ctx, http.MethodGet, path, url.Values{"q": {q}}, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) AdjustTimers(ctx context.Context, delta int) error {
	return c.do(ctx, http.MethodGet, "/timer-adjust-all/"+strconv.Itoa(delta), nil, nil, nil)
}

func (c *Client) ForceTimers(ctx context.Context, secs int) error {
	return c.do(ctx, http.MethodGet, "/timer-force-all/"+strconv.Itoa(secs), nil, nil, nil)
}

// Submit posts fields as JSON to /api/<path>. A non-2xx reply that still
// carries messages is returned as messages, not as an error.
func (c *Client) Submit(ctx context.Context, path string, fields map[string]string) (dashboard.Messages, error) {
	if fields == nil {
		fields = map[string]string{}
	}
	var msgs dashboard.Messages
	err := c.do(ctx, http.MethodPost, "/api/"+strings.Trim(path, "/"), nil, fields, &msgs)
	var se *StatusError
	if errors.As(err, &se) {
		if m, ok := decodeMessages(se.Body); ok {
			return m, nil
		}
	}
	return msgs, err
}

func decodeMessages(body string) (dashboard.Messages, bool) {
	var m dashboard.Messages
	if err := json.Unmarshal([]byte(body), &m); err != nil || m.Empty() {
		return dashboard.Messages{}, false
	}
	return m, true
}

func (c *Client) endpoint(path string, q url.Values) string {
	u := *c.base
	u.Path = c.base.Path + path
	if q == nil {
		q = url.Values{}
	}
	if c.channelID != "" {
		q.Set("channelid", c.channelID)
	}
	u.RawQuery = q.Encode()
	return u.String()
}

func (c *Client) do(ctx context.Context, method, path string, q url.Values, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path, q), body)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, path, err)
	}
	rid := uuid.NewString()
	req.Header.Set(HeaderRequestID, rid)
	req.Header.Set("Accept", mimeJSON)
	if in != nil {
		req.Header.Set("Content-Type", mimeJSON)
	}

	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		c.log.Warn("backend request failed", logx.String("method", method), logx.String("path", path), logx.String("request_id", rid), logx.Err(err))
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	c.log.Debug("backend request",
		logx.String("method", method),
		logx.String("path", path),
		logx.Int("status", resp.StatusCode),
		logx.Duration("took", time.Since(start)),
		logx.String("request_id", rid),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrBody))
		return &StatusError{
			Method:    method,
			Path:      path,
			Code:      resp.StatusCode,
			Body:      strings.TrimSpace(string(b)),
			RequestID: rid,
		}
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}
