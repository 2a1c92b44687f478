package metrics

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dshills/keyhint/internal/input/mode"
	"github.com/dshills/keyhint/internal/traverse"
)

func scrape(t *testing.T, m *Metrics) string {
	t.Helper()
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	return rec.Body.String()
}

func TestSessions(t *testing.T) {
	m := New()
	m.SessionStarted(mode.ModeHints)
	m.SessionEnded(mode.ModeHints, mode.OutcomeCommitted, 300*time.Millisecond)
	m.SessionStarted(mode.ModeGrid)

	out := scrape(t, m)
	for _, want := range []string{
		`keyhint_sessions_total{mode="hints",outcome="committed"} 1`,
		`keyhint_sessions_open{mode="hints"} 0`,
		`keyhint_sessions_open{mode="grid"} 1`,
		`keyhint_session_duration_seconds_count{mode="hints"} 1`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q", want)
		}
	}
}

func TestObserveWalkAndProbe(t *testing.T) {
	m := New()
	m.ObserveWalk(traverse.Stats{Visited: 40, Pruned: 3, Hintable: 12, Elapsed: 20 * time.Millisecond})
	m.ObserveProbe(4)

	out := scrape(t, m)
	for _, want := range []string{
		"keyhint_traversal_nodes_visited_total 40",
		"keyhint_traversal_nodes_pruned_total 3",
		"keyhint_traversal_hintable_nodes 12",
		"keyhint_traversal_duration_seconds_count 1",
		"keyhint_menu_probes_total 1",
		"keyhint_menu_probe_items 4",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q", want)
		}
	}
}

func TestRouter(t *testing.T) {
	r := New().Router()

	tests := []struct {
		method string
		path   string
		code   int
		body   string
	}{
		{http.MethodGet, "/healthz", http.StatusOK, "ok"},
		{http.MethodGet, "/metrics", http.StatusOK, "keyhint_menu_probes_total"},
		{http.MethodPost, "/metrics", http.StatusMethodNotAllowed, ""},
		{http.MethodGet, "/nope", http.StatusNotFound, ""},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))
			if rec.Code != tt.code {
				t.Errorf("status = %d, want %d", rec.Code, tt.code)
			}
			if tt.body != "" && !strings.Contains(rec.Body.String(), tt.body) {
				t.Errorf("body = %q, want %q", rec.Body.String(), tt.body)
			}
		})
	}
}

func TestServe(t *testing.T) {
	m := New()
	ln := httptest.NewServer(nil)
	addr := ln.Listener.Addr().String()
	ln.Close()

	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- m.Serve(ctx, addr, nil) }()

	var body string
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		resp, err := http.Get("http://" + addr + "/metrics")
		if err == nil {
			b, _ := io.ReadAll(resp.Body)
			resp.Body.Close()
			body = string(b)
			break
		}
		time.Sleep(20 * time.Millisecond)
	}
	if !strings.Contains(body, "keyhint_menu_probes_total") {
		t.Errorf("metrics not served: %q", body)
	}

	cancel()
	select {
	case err := <-errc:
		if err != nil {
			t.Errorf("Serve() error = %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("Serve did not stop")
	}
}
