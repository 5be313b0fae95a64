package smartrecruiters

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
)

func TestFetchPagesThroughAllPostings(t *testing.T) {
	total := pageSize + 2

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/globex/postings" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

		n := pageSize
		if offset+n > total {
			n = total - offset
		}

		fmt.Fprintf(w, `{"totalFound": %d, "offset": %d, "limit": %d, "content": [`, total, offset, pageSize)
		for i := 0; i < n; i++ {
			if i > 0 {
				fmt.Fprint(w, ",")
			}
			fmt.Fprintf(w, `{"id": "p%d", "name": "Engineer %d", "releasedDate": "2026-08-01T00:00:00Z",
				"location": {"city": "Austin", "region": "TX", "country": "us"}}`, offset+i, offset+i)
		}
		fmt.Fprint(w, `]}`)
	}))
	defer srv.Close()

	oldBase := apiBase
	apiBase = srv.URL
	defer func() { apiBase = oldBase }()

	jobs, err := New("globex", nil).Fetch(context.Background())
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(jobs) != total {
		t.Fatalf("got %d jobs, want %d", len(jobs), total)
	}

	j := jobs[0]
	if j.Source != "smartrecruiters" || j.Company != "globex" {
		t.Errorf("identity fields: source=%q company=%q", j.Source, j.Company)
	}
	if j.URL != "https://jobs.smartrecruiters.com/globex/p0" {
		t.Errorf("posting url: %q", j.URL)
	}
	if j.Location != "Austin, TX, us" {
		t.Errorf("location: %q", j.Location)
	}
	if j.PostedAt == nil {
		t.Error("releasedDate should map to posted_at")
	}
}

func TestRemoteLocationFlag(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"totalFound": 1, "content": [{"id": "p1", "name": "SRE", "location": {"remote": true, "city": "Lisbon"}}]}`)
	}))
	defer srv.Close()

	oldBase := apiBase
	apiBase = srv.URL
	defer func() { apiBase = oldBase }()

	jobs, err := New("globex", nil).Fetch(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(jobs) != 1 || jobs[0].Location != "Remote" {
		t.Errorf("remote flag not honored: %+v", jobs)
	}
}
