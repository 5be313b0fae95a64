package normalize

import (
	"testing"
	"time"

	"jobsift-engine/internal/domain"
)

func TestCanonicalTime(t *testing.T) {
	cases := []struct {
		in   string
		want string // RFC3339 UTC, "" means nil
	}{
		{"2024-03-01T10:30:00Z", "2024-03-01T10:30:00Z"},
		{"2024-03-01T10:30:00-05:00", "2024-03-01T15:30:00Z"},
		{"2024-03-01", "2024-03-01T00:00:00Z"},
		{"Fri, 01 Mar 2024 10:30:00 +0000", "2024-03-01T10:30:00Z"},
		{"1709289000", "2024-03-01T10:30:00Z"},    // epoch seconds
		{"1709289000000", "2024-03-01T10:30:00Z"}, // epoch millis
		{"", ""},
		{"yesterday-ish", ""},
		{"-42", ""},
	}

	for _, c := range cases {
		got := CanonicalTime(c.in)
		if c.want == "" {
			if got != nil {
				t.Errorf("CanonicalTime(%q) = %v, want nil", c.in, got)
			}
			continue
		}
		if got == nil {
			t.Errorf("CanonicalTime(%q) = nil, want %s", c.in, c.want)
			continue
		}
		if got.Format(time.RFC3339) != c.want {
			t.Errorf("CanonicalTime(%q) = %s, want %s", c.in, got.Format(time.RFC3339), c.want)
		}
		if got.Location() != time.UTC {
			t.Errorf("CanonicalTime(%q) not UTC", c.in)
		}
	}
}

func TestCollapse(t *testing.T) {
	got := Collapse("  Senior\tGo Engineer \n Remote ")
	want := "senior go engineer remote"
	if got != want {
		t.Errorf("Collapse = %q, want %q", got, want)
	}
}

func TestMatchTextTreatsMissingFieldsAsEmpty(t *testing.T) {
	j := domain.Job{Title: "Backend  Engineer"}
	if got := MatchText(j); got != "backend engineer" {
		t.Errorf("MatchText = %q", got)
	}

	j = domain.Job{Title: "Backend Engineer", Location: "Remote", Description: "Go,  distributed systems"}
	want := "backend engineer remote go, distributed systems"
	if got := MatchText(j); got != want {
		t.Errorf("MatchText = %q, want %q", got, want)
	}
}

func TestMatchTextDeterministic(t *testing.T) {
	j := domain.Job{Title: "SRE", Location: "Austin, TX", Description: "<p>Terraform</p>"}
	if MatchText(j) != MatchText(j) {
		t.Fatal("MatchText not deterministic")
	}
}
