package config

import (
	"errors"
	"fmt"
	"strings"
)

var knownProviders = map[string]bool{
	"greenhouse":      true,
	"lever":           true,
	"smartrecruiters": true,
}

type Validation struct {
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

func (v *Validation) addErr(format string, args ...any) {
	v.Errors = append(v.Errors, fmt.Sprintf(format, args...))
}
func (v *Validation) addWarn(format string, args ...any) {
	v.Warnings = append(v.Warnings, fmt.Sprintf(format, args...))
}
func (v Validation) OK() bool { return len(v.Errors) == 0 }

// Err folds validation failures into one error; nil when the config is usable.
func (v Validation) Err() error {
	if v.OK() {
		return nil
	}
	return errors.New("config validation failed:\n- " + strings.Join(v.Errors, "\n- "))
}

// NormalizeAndValidate returns a normalized copy plus everything wrong with
// it. Any entry in Errors is fatal: the caller must not start a run.
func NormalizeAndValidate(cfg Config) (Config, Validation) {
	out := cfg
	var res Validation

	trimList := func(xs []string) []string {
		seen := map[string]bool{}
		var ys []string
		for _, x := range xs {
			x = strings.TrimSpace(x)
			if x == "" {
				continue
			}
			key := strings.ToLower(x)
			if seen[key] {
				continue
			}
			seen[key] = true
			ys = append(ys, x)
		}
		return ys
	}

	out.Filters.KeywordsAny = trimList(out.Filters.KeywordsAny)
	out.Filters.LocationAny = trimList(out.Filters.LocationAny)
	out.Email.SearchSubjectAny = trimList(out.Email.SearchSubjectAny)

	// ---- Defaults ----

	if out.Dedupe.MaxAgeDays == 0 {
		out.Dedupe.MaxAgeDays = 30
	}
	if out.Fetch.TimeoutSeconds == 0 {
		out.Fetch.TimeoutSeconds = 45
	}
	if out.Fetch.HostRatePerSec == 0 {
		out.Fetch.HostRatePerSec = 1.0
	}
	if out.Fetch.HostBurst == 0 {
		out.Fetch.HostBurst = 2
	}

	// ---- Validation rules ----

	if len(out.Sources) == 0 && !out.Email.Enabled {
		res.addWarn("no sources configured; a run will only prune.")
	}

	seenSource := map[string]bool{}
	for i, s := range out.Sources {
		provider := strings.ToLower(strings.TrimSpace(s.Provider))
		key := strings.TrimSpace(s.Key)
		out.Sources[i] = SourceRef{Provider: provider, Key: key}

		if provider == "" {
			res.addErr("sources[%d].provider is required", i)
			continue
		}
		if !knownProviders[provider] {
			res.addErr("sources[%d].provider %q is not a supported provider", i, provider)
		}
		if key == "" {
			res.addErr("sources[%d].key is required", i)
		}
		ident := provider + ":" + strings.ToLower(key)
		if key != "" && seenSource[ident] {
			res.addWarn("duplicate source %q", ident)
		}
		seenSource[ident] = true
	}

	if out.Dedupe.MaxAgeDays < 0 {
		res.addErr("dedupe.max_age_days must be >= 0")
	}
	if out.Fetch.TimeoutSeconds < 0 {
		res.addErr("fetch.timeout_seconds must be >= 0")
	} else if out.Fetch.TimeoutSeconds > 0 && out.Fetch.TimeoutSeconds < 5 {
		res.addWarn("fetch.timeout_seconds is very low (%d); slow boards will look unavailable.", out.Fetch.TimeoutSeconds)
	}
	if out.Fetch.HostRatePerSec < 0 {
		res.addErr("fetch.host_rate_per_sec must be >= 0")
	}

	if out.Email.Enabled {
		if strings.TrimSpace(out.Email.IMAPHost) == "" {
			res.addErr("email.imap_host is required when email.enabled=true")
		}
		if strings.TrimSpace(out.Email.Username) == "" {
			res.addErr("email.username is required when email.enabled=true")
		}
		if len(out.Email.SearchSubjectAny) == 0 {
			res.addWarn("email.search_subject_any is empty; every unread message will be scanned for links.")
		}
	}

	if len(out.Filters.KeywordsAny) == 0 && len(out.Filters.LocationAny) == 0 {
		res.addWarn("both filter groups are empty; every fetched posting will be kept.")
	}

	return out, res
}
