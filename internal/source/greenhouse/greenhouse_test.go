package greenhouse

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"jobsift-engine/internal/source"
)

const boardJSON = `{
  "jobs": [
    {
      "id": 101,
      "title": "Backend Engineer",
      "absolute_url": "https://boards.greenhouse.io/acme/jobs/101?utm_source=feed",
      "updated_at": "2026-08-20T10:00:00-04:00",
      "content": "Go, distributed systems",
      "location": {"name": "Remote"}
    },
    {
      "id": 102,
      "title": "Designer",
      "absolute_url": "",
      "location": {"name": "NYC"}
    }
  ]
}`

func TestFetchMapsPostings(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/acme/jobs" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("content") != "true" {
			t.Errorf("expected content=true, got %q", r.URL.Query().Get("content"))
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(boardJSON))
	}))
	defer srv.Close()

	oldBase := apiBase
	apiBase = srv.URL
	defer func() { apiBase = oldBase }()

	f := New("acme", nil)
	jobs, err := f.Fetch(context.Background())
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}

	// The second posting has no absolute_url and is dropped at the boundary.
	if len(jobs) != 1 {
		t.Fatalf("got %d jobs, want 1", len(jobs))
	}

	j := jobs[0]
	if j.Source != "greenhouse" || j.Company != "acme" {
		t.Errorf("identity fields: source=%q company=%q", j.Source, j.Company)
	}
	if j.URL != "https://boards.greenhouse.io/acme/jobs/101" {
		t.Errorf("url not canonicalized: %q", j.URL)
	}
	if j.PostedAt == nil || j.PostedAt.UTC().Hour() != 14 {
		t.Errorf("posted_at not canonical UTC: %v", j.PostedAt)
	}
	if !j.FirstSeenAt.IsZero() {
		t.Error("adapter must leave FirstSeenAt unset")
	}
	if len(j.RawPayload) == 0 {
		t.Error("raw payload missing")
	}
}

func TestFetchClassifiesServerErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}))
	defer srv.Close()

	oldBase := apiBase
	apiBase = srv.URL
	defer func() { apiBase = oldBase }()

	_, err := New("acme", nil).Fetch(context.Background())
	if !errors.Is(err, source.ErrUnavailable) {
		t.Errorf("want ErrUnavailable, got %v", err)
	}
}

func TestFetchClassifiesMalformedBodies(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>not json</html>`))
	}))
	defer srv.Close()

	oldBase := apiBase
	apiBase = srv.URL
	defer func() { apiBase = oldBase }()

	_, err := New("acme", nil).Fetch(context.Background())
	if !errors.Is(err, source.ErrBadResponse) {
		t.Errorf("want ErrBadResponse, got %v", err)
	}
}
