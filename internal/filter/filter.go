package filter

import (
	"strings"

	"jobsift-engine/internal/domain"
	"jobsift-engine/internal/normalize"
)

// Config holds the two predicate groups evaluated against every candidate.
// An empty group imposes no constraint; it never means "reject all".
type Config struct {
	KeywordsAny []string
	LocationAny []string
}

// Passes reports whether a job clears both predicate groups. Keywords match
// anywhere in the normalized text; location terms first try the location
// field on its own and then fall back to the full text, so a blank or
// partial location field does not reject a posting whose description says
// "remote".
func Passes(j domain.Job, cfg Config) bool {
	text := normalize.MatchText(j)

	if kws := cleanTerms(cfg.KeywordsAny); len(kws) > 0 && !containsAny(text, kws) {
		return false
	}

	if locs := cleanTerms(cfg.LocationAny); len(locs) > 0 {
		loc := normalize.Collapse(j.Location)
		if loc != "" {
			if !containsAny(loc, locs) && !containsAny(text, locs) {
				return false
			}
		} else if !containsAny(text, locs) {
			return false
		}
	}

	return true
}

func cleanTerms(terms []string) []string {
	out := make([]string, 0, len(terms))
	for _, t := range terms {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		out = append(out, t)
	}
	return out
}

func containsAny(text string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(text, n) {
			return true
		}
	}
	return false
}
