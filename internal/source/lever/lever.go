package lever

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"jobsift-engine/internal/domain"
	"jobsift-engine/internal/source"
	"jobsift-engine/internal/source/util"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog/log"
)

// Public Lever postings API (no auth).
var apiBase = "https://api.lever.co/v0/postings"

type Fetcher struct {
	handle  string // api.lever.co/v0/postings/<handle>
	hc      *http.Client
	limiter *util.HostLimiter
}

func New(handle string, limiter *util.HostLimiter) *Fetcher {
	return &Fetcher{
		handle:  strings.TrimSpace(handle),
		hc:      &http.Client{Timeout: 20 * time.Second},
		limiter: limiter,
	}
}

func (f *Fetcher) Name() string { return "lever:" + f.handle }

type posting struct {
	ID         string `json:"id"`
	Text       string `json:"text"` // title
	HostedURL  string `json:"hostedUrl"`
	ApplyURL   string `json:"applyUrl"`
	CreatedAt  int64  `json:"createdAt"` // ms epoch
	Categories struct {
		Location string `json:"location"`
		Team     string `json:"team"`
	} `json:"categories"`
	Description      string `json:"description"` // html
	DescriptionPlain string `json:"descriptionPlain"`
}

func (f *Fetcher) Fetch(ctx context.Context) ([]domain.Job, error) {
	apiURL := fmt.Sprintf("%s/%s?mode=json", apiBase, f.handle)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return nil, fmt.Errorf("lever request: %w", err)
	}
	req.Header.Set("User-Agent", "JobSift/1.0 (+local)")

	if f.limiter != nil {
		if err := f.limiter.WaitURL(ctx, apiURL); err != nil {
			return nil, fmt.Errorf("lever wait: %w: %v", source.ErrUnavailable, err)
		}
	}

	res, err := f.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("lever get: %w: %v", source.ErrUnavailable, err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return nil, source.StatusError("lever", res.StatusCode)
	}

	var postings []posting
	if err := json.NewDecoder(res.Body).Decode(&postings); err != nil {
		return nil, fmt.Errorf("lever decode: %w: %v", source.ErrBadResponse, err)
	}

	out := make([]domain.Job, 0, len(postings))
	for _, p := range postings {
		jobURL := p.HostedURL
		if jobURL == "" {
			jobURL = p.ApplyURL
		}
		jobURL = util.CanonicalURL(jobURL)
		if !util.IsAbsoluteURL(jobURL) {
			continue
		}

		var postedAt *time.Time
		if p.CreatedAt > 0 {
			t := time.UnixMilli(p.CreatedAt).UTC()
			postedAt = &t
		}

		desc := p.DescriptionPlain
		if desc == "" {
			desc = p.Description
		}

		raw, _ := json.Marshal(p)

		out = append(out, domain.Job{
			Source:      domain.SourceLever,
			Company:     f.handle,
			Title:       strings.TrimSpace(p.Text),
			Location:    strings.TrimSpace(p.Categories.Location),
			URL:         jobURL,
			PostedAt:    postedAt,
			Description: desc,
			RawPayload:  raw,
		})
	}

	// Best-effort: a handful of boards omit the location category; pull it
	// from the hosted posting page instead.
	for i := range out {
		if out[i].Location != "" {
			continue
		}
		if err := f.hydrateLocation(ctx, &out[i]); err != nil {
			log.Debug().Str("source", f.Name()).Str("url", out[i].URL).Err(err).Msg("location hydrate failed")
		}
	}

	return out, nil
}

var locationSelectors = []string{
	"[itemprop='jobLocation']",
	"[data-qa='location']",
	".location",
	".posting-categories .location",
	".posting-categories li",
}

func (f *Fetcher) hydrateLocation(ctx context.Context, j *domain.Job) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, j.URL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", "JobSift/1.0 (+local)")

	if f.limiter != nil {
		if err := f.limiter.WaitURL(ctx, j.URL); err != nil {
			return err
		}
	}

	res, err := f.hc.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.StatusCode >= 400 {
		return fmt.Errorf("posting page status %d", res.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(res.Body)
	if err != nil {
		return err
	}

	for _, sel := range locationSelectors {
		if t := cleanText(doc.Find(sel).First().Text()); t != "" {
			j.Location = t
			return nil
		}
	}
	return nil
}

func cleanText(s string) string {
	s = strings.ReplaceAll(s, " ", " ")
	return strings.Join(strings.Fields(s), " ")
}
