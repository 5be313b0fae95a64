package filter

import (
	"testing"

	"jobsift-engine/internal/domain"
)

func TestEmptyGroupsPassEverything(t *testing.T) {
	jobs := []domain.Job{
		{Title: "Backend Engineer", URL: "https://x/1"},
		{Title: "Pastry Chef", Location: "Paris", URL: "https://x/2", Description: "croissants"},
	}
	for _, j := range jobs {
		if !Passes(j, Config{}) {
			t.Errorf("job %q rejected with empty filter config", j.Title)
		}
	}
}

func TestKeywordGroup(t *testing.T) {
	cfg := Config{KeywordsAny: []string{"Go", "kubernetes"}}

	j := domain.Job{Title: "Backend Engineer", Description: "Go, distributed systems"}
	if !Passes(j, cfg) {
		t.Error("keyword in description should pass")
	}

	j = domain.Job{Title: "Account Executive", Description: "sales pipeline"}
	if Passes(j, cfg) {
		t.Error("no keyword hit should reject")
	}
}

func TestLocationFieldMatch(t *testing.T) {
	cfg := Config{LocationAny: []string{"remote", "austin"}}

	j := domain.Job{Title: "SRE", Location: "Remote - US"}
	if !Passes(j, cfg) {
		t.Error("location field hit should pass")
	}
}

func TestLocationFallsBackToFullText(t *testing.T) {
	cfg := Config{LocationAny: []string{"remote"}}

	// Non-matching location field, but the description mentions remote.
	j := domain.Job{Title: "SRE", Location: "New York, NY", Description: "This role is remote-friendly"}
	if !Passes(j, cfg) {
		t.Error("full-text fallback should rescue a partial location field")
	}

	// Nothing mentions an accepted location anywhere.
	j = domain.Job{Title: "SRE", Location: "New York, NY", Description: "onsite only"}
	if Passes(j, cfg) {
		t.Error("no location hit anywhere should reject")
	}
}

func TestEmptyLocationFieldChecksFullText(t *testing.T) {
	cfg := Config{LocationAny: []string{"remote"}}

	j := domain.Job{Title: "SRE", Description: "fully remote team"}
	if !Passes(j, cfg) {
		t.Error("empty location field with text hit should pass")
	}

	j = domain.Job{Title: "SRE", Description: "downtown office"}
	if Passes(j, cfg) {
		t.Error("empty location field with no text hit should reject")
	}
}

func TestGroupsAreANDed(t *testing.T) {
	cfg := Config{KeywordsAny: []string{"go"}, LocationAny: []string{"remote"}}

	j := domain.Job{Title: "Backend Engineer", Location: "Remote", Description: "Go, distributed systems"}
	if !Passes(j, cfg) {
		t.Error("both groups hit should pass")
	}

	j = domain.Job{Title: "Backend Engineer", Location: "Remote", Description: "Java only"}
	if Passes(j, cfg) {
		t.Error("keyword miss should reject even with location hit")
	}
}

func TestBlankNeedlesAreIgnored(t *testing.T) {
	cfg := Config{KeywordsAny: []string{"  ", ""}}
	j := domain.Job{Title: "Backend Engineer"}
	if !Passes(j, cfg) {
		t.Error("a keyword group of blank terms should not reject")
	}
}
