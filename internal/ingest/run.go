package ingest

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"jobsift-engine/internal/config"
	"jobsift-engine/internal/domain"
	"jobsift-engine/internal/filter"
	"jobsift-engine/internal/identity"
	"jobsift-engine/internal/source"
	"jobsift-engine/internal/source/email"
	"jobsift-engine/internal/source/greenhouse"
	"jobsift-engine/internal/source/lever"
	"jobsift-engine/internal/source/smartrecruiters"
	"jobsift-engine/internal/source/util"
	"jobsift-engine/internal/store"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// Summary is the observable result of one ingestion run: every candidate
// considered (including dropped and filtered ones), new records written, and
// stale records removed by the retention sweep.
type Summary struct {
	Checked  int
	Inserted int
	Pruned   int
}

// BuildFetchers maps the configured sources onto provider adapters. Config
// validation has already rejected unknown providers, so an unexpected tag
// here is a programming error.
func BuildFetchers(cfg config.Config) ([]source.Fetcher, error) {
	limiter := util.NewHostLimiter(cfg.Fetch.HostRatePerSec, cfg.Fetch.HostBurst)

	fetchers := make([]source.Fetcher, 0, len(cfg.Sources)+1)
	for _, s := range cfg.Sources {
		switch s.Provider {
		case "greenhouse":
			fetchers = append(fetchers, greenhouse.New(s.Key, limiter))
		case "lever":
			fetchers = append(fetchers, lever.New(s.Key, limiter))
		case "smartrecruiters":
			fetchers = append(fetchers, smartrecruiters.New(s.Key, limiter))
		default:
			return nil, fmt.Errorf("unsupported provider %q", s.Provider)
		}
	}

	if cfg.Email.Enabled {
		fetchers = append(fetchers, email.New(email.Config{
			IMAPHost:         cfg.Email.IMAPHost,
			IMAPPort:         cfg.Email.IMAPPort,
			Username:         cfg.Email.Username,
			Mailbox:          cfg.Email.Mailbox,
			SearchSubjectAny: cfg.Email.SearchSubjectAny,
			MaxMessages:      cfg.Email.MaxMessages,
		}))
	}

	return fetchers, nil
}

// Run performs one ingestion pass: fetch all sources, reconcile candidates
// into the store, prune by age, report counters.
func Run(ctx context.Context, db *sql.DB, cfg config.Config) (Summary, error) {
	fetchers, err := BuildFetchers(cfg)
	if err != nil {
		return Summary{}, err
	}
	return RunWith(ctx, db, cfg, fetchers)
}

type batch struct {
	source string
	jobs   []domain.Job
}

// RunWith is Run with the fetcher set injected; tests use it to stand in
// fake sources.
//
// Every source runs in its own errgroup task with its own deadline, and a
// source failure is logged and swallowed: one dead board must not starve the
// others. All candidates share one firstSeenAt stamped at run start, so jobs
// discovered together age out together. Reconciliation happens in this
// goroutine only, which serializes store writes; a store error is fatal to
// the run and skips pruning rather than reporting partial counters as
// success.
func RunWith(ctx context.Context, db *sql.DB, cfg config.Config, fetchers []source.Fetcher) (Summary, error) {
	runStart := time.Now().UTC()
	firstSeen := runStart

	fcfg := filter.Config{
		KeywordsAny: cfg.Filters.KeywordsAny,
		LocationAny: cfg.Filters.LocationAny,
	}

	results := make(chan batch, len(fetchers))
	var g errgroup.Group

	for _, f := range fetchers {
		f := f
		g.Go(func() error {
			fctx := ctx
			if t := cfg.FetchTimeout(); t > 0 {
				var cancel context.CancelFunc
				fctx, cancel = context.WithTimeout(ctx, t)
				defer cancel()
			}

			log.Info().Str("source", f.Name()).Msg("fetching")
			jobs, err := f.Fetch(fctx)
			if err != nil {
				log.Warn().Str("source", f.Name()).Err(err).Msg("source failed; continuing with the rest")
				return nil
			}
			log.Info().Str("source", f.Name()).Int("candidates", len(jobs)).Msg("fetched")
			results <- batch{source: f.Name(), jobs: jobs}
			return nil
		})
	}

	_ = g.Wait()
	close(results)

	var sum Summary
	for b := range results {
		for _, j := range b.jobs {
			sum.Checked++

			if strings.TrimSpace(j.Title) == "" || strings.TrimSpace(j.URL) == "" {
				log.Debug().Str("source", b.source).Str("url", j.URL).Msg("dropped invalid candidate")
				continue
			}
			if !filter.Passes(j, fcfg) {
				log.Debug().Str("source", b.source).Str("title", j.Title).Msg("filtered out")
				continue
			}

			j.ID = identity.JobID(j.Source, j.Company, j.URL)
			j.FirstSeenAt = firstSeen

			inserted, err := store.TryInsert(ctx, db, j)
			if err != nil {
				return sum, fmt.Errorf("insert %s: %w", j.ID, err)
			}
			if inserted {
				sum.Inserted++
			}
		}
	}

	cutoff := runStart.AddDate(0, 0, -cfg.Dedupe.MaxAgeDays)
	pruned, err := store.PruneOlderThan(ctx, db, cutoff)
	if err != nil {
		return sum, fmt.Errorf("prune: %w", err)
	}
	sum.Pruned = int(pruned)

	log.Info().
		Int("checked", sum.Checked).
		Int("inserted", sum.Inserted).
		Int("pruned", sum.Pruned).
		Dur("took", time.Since(runStart)).
		Msg("run done")

	return sum, nil
}
