package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
)

func writeConfig(t *testing.T, baseURL string) string {
	t.Helper()
	body := `
backend:
  base_url: ` + baseURL + `
  channel_id: "42"
dashboard:
  timezone: UTC
  schedule: ["23:59", "9 pm", "", "", "", "", ""]
`
	p := filepath.Join(t.TempDir(), "streamboard.yaml")
	if err := os.WriteFile(p, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return p
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestTidyCmd(t *testing.T) {
	t.Parallel()
	out, err := execute(t, "tidy", "9", "pm,", "14:30")
	if err != nil {
		t.Fatalf("tidy: %v", err)
	}
	if out != "14:30 21:00\n" {
		t.Fatalf("tidy output = %q", out)
	}
}

func TestNextCmd(t *testing.T) {
	t.Parallel()
	cfg := writeConfig(t, "https://dash.example.com")
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"later today", []string{"--at", "2024-01-07T10:00:00Z"}, "Today 23:59 ==> 13:59:00\n"},
		{"tomorrow", []string{"--at", "2024-01-07T23:59:30Z"}, "Tomorrow 21:00 ==> 21:00:30\n"},
		{"offset", []string{"--at", "2024-01-07T23:55:00Z", "--offset=-300"}, "Today 21:00 ==> 21:00:00\n"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			out, err := execute(t, append([]string{"next", "--config", cfg}, tt.args...)...)
			if err != nil {
				t.Fatalf("next: %v", err)
			}
			if out != tt.want {
				t.Fatalf("next output = %q, want %q", out, tt.want)
			}
		})
	}
}

func TestCheckCmd(t *testing.T) {
	t.Parallel()
	cfg := writeConfig(t, "https://dash.example.com")
	out, err := execute(t, "check", "--config", cfg)
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	for _, want := range []string{"config ok", "Sun 23:59  59 23 * * 0", "Mon 21:00  0 21 * * 1"} {
		if !strings.Contains(out, want) {
			t.Fatalf("check output %q missing %q", out, want)
		}
	}
}

func TestCheckCmdRejectsBadConfig(t *testing.T) {
	t.Parallel()
	if _, err := execute(t, "check", "--config", filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected an error for a missing config")
	}
}

func TestTimersCmd(t *testing.T) {
	t.Parallel()
	var (
		mu    sync.Mutex
		calls []string
	)
	r := chi.NewRouter()
	r.Get("/timer-adjust-all/{delta}", func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		calls = append(calls, "adjust "+chi.URLParam(r, "delta")+" "+r.URL.Query().Get("channelid"))
		mu.Unlock()
		w.WriteHeader(http.StatusOK)
	})
	r.Get("/timer-force-all/{tm}", func(w http.ResponseWriter, r *http.Request) {
		tm, _ := strconv.Atoi(chi.URLParam(r, "tm"))
		mu.Lock()
		calls = append(calls, "force "+strconv.Itoa(tm))
		mu.Unlock()
		w.WriteHeader(http.StatusOK)
	})
	srv := httptest.NewServer(r)
	defer srv.Close()
	cfg := writeConfig(t, srv.URL)

	if _, err := execute(t, "timers", "adjust", "--config", cfg, "--", "-1:30"); err != nil {
		t.Fatalf("adjust: %v", err)
	}
	if _, err := execute(t, "timers", "force", "5:00", "--config", cfg); err != nil {
		t.Fatalf("force: %v", err)
	}
	if _, err := execute(t, "timers", "force", "61", "--config", cfg); err == nil {
		t.Fatal("expected force beyond an hour to fail")
	}

	mu.Lock()
	defer mu.Unlock()
	want := []string{"adjust -90 42", "force 300"}
	if strings.Join(calls, "|") != strings.Join(want, "|") {
		t.Fatalf("calls = %q, want %q", calls, want)
	}
}
