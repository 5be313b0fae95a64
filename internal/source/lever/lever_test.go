package lever

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"jobsift-engine/internal/source"
)

func TestFetchMapsPostings(t *testing.T) {
	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	defer srv.Close()

	postingPage := srv.URL + "/initech/abc-123"

	mux.HandleFunc("/initech", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("mode") != "json" {
			t.Errorf("expected mode=json, got %q", r.URL.Query().Get("mode"))
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `[
  {
    "id": "abc-123",
    "text": "Platform Engineer",
    "hostedUrl": %q,
    "createdAt": 1755684000000,
    "categories": {"location": "Remote - US"},
    "descriptionPlain": "Go and Kubernetes"
  },
  {
    "id": "def-456",
    "text": "Office Manager",
    "hostedUrl": "",
    "applyUrl": ""
  }
]`, postingPage)
	})

	oldBase := apiBase
	apiBase = srv.URL
	defer func() { apiBase = oldBase }()

	jobs, err := New("initech", nil).Fetch(context.Background())
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(jobs) != 1 {
		t.Fatalf("got %d jobs, want 1 (url-less posting dropped)", len(jobs))
	}

	j := jobs[0]
	if j.Source != "lever" || j.Company != "initech" {
		t.Errorf("identity fields: source=%q company=%q", j.Source, j.Company)
	}
	if j.Title != "Platform Engineer" || j.Location != "Remote - US" {
		t.Errorf("mapped fields: title=%q location=%q", j.Title, j.Location)
	}
	if j.PostedAt == nil {
		t.Error("epoch millis should map to posted_at")
	}
	if j.Description != "Go and Kubernetes" {
		t.Errorf("description: %q", j.Description)
	}
}

func TestFetchHydratesMissingLocation(t *testing.T) {
	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	defer srv.Close()

	posting := srv.URL + "/posting/xyz"
	mux.HandleFunc("/initech", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `[{"id":"xyz","text":"SRE","hostedUrl":%q,"categories":{}}]`, posting)
	})
	mux.HandleFunc("/posting/xyz", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body><div class="posting-categories"><div class="location">Austin,  TX</div></div></body></html>`)
	})

	oldBase := apiBase
	apiBase = srv.URL
	defer func() { apiBase = oldBase }()

	jobs, err := New("initech", nil).Fetch(context.Background())
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(jobs) != 1 {
		t.Fatalf("got %d jobs", len(jobs))
	}
	if jobs[0].Location != "Austin, TX" {
		t.Errorf("hydrated location = %q, want %q", jobs[0].Location, "Austin, TX")
	}
}

func TestFetchClassifiesTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // refuse connections

	oldBase := apiBase
	apiBase = srv.URL
	defer func() { apiBase = oldBase }()

	_, err := New("initech", nil).Fetch(context.Background())
	if !errors.Is(err, source.ErrUnavailable) {
		t.Errorf("want ErrUnavailable, got %v", err)
	}
}
