package smartrecruiters

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"jobsift-engine/internal/domain"
	"jobsift-engine/internal/normalize"
	"jobsift-engine/internal/source"
	"jobsift-engine/internal/source/util"
)

// Public SmartRecruiters postings API (no auth), paged via limit/offset.
var (
	apiBase   = "https://api.smartrecruiters.com/v1/companies"
	boardBase = "https://jobs.smartrecruiters.com"
)

const pageSize = 100

type Fetcher struct {
	slug    string // jobs.smartrecruiters.com/<slug>
	hc      *http.Client
	limiter *util.HostLimiter
}

func New(slug string, limiter *util.HostLimiter) *Fetcher {
	return &Fetcher{
		slug:    strings.TrimSpace(slug),
		hc:      &http.Client{Timeout: 25 * time.Second},
		limiter: limiter,
	}
}

func (f *Fetcher) Name() string { return "smartrecruiters:" + f.slug }

// Response schema (public API) is typically:
// { "content": [...], "totalFound": N, "offset": O, "limit": L }
// but we defensively parse only what we need.
type postingsResponse struct {
	Content    []posting `json:"content"`
	TotalFound int       `json:"totalFound"`
	Offset     int       `json:"offset"`
	Limit      int       `json:"limit"`
}

type posting struct {
	ID           string `json:"id"`
	UUID         string `json:"uuid"`
	Name         string `json:"name"`
	ReleasedDate string `json:"releasedDate"`
	Location     struct {
		City    string `json:"city"`
		Region  string `json:"region"`
		Country string `json:"country"`
		Remote  bool   `json:"remote"`
	} `json:"location"`
}

func (f *Fetcher) Fetch(ctx context.Context) ([]domain.Job, error) {
	var out []domain.Job

	for offset := 0; ; offset += pageSize {
		page, err := f.fetchPage(ctx, offset)
		if err != nil {
			return nil, err
		}

		for _, p := range page.Content {
			if p.ID == "" {
				continue
			}
			jobURL := util.CanonicalURL(fmt.Sprintf("%s/%s/%s", boardBase, f.slug, p.ID))

			raw, _ := json.Marshal(p)

			out = append(out, domain.Job{
				Source:     domain.SourceSmartRecruiters,
				Company:    f.slug,
				Title:      strings.TrimSpace(p.Name),
				Location:   formatLocation(p),
				URL:        jobURL,
				PostedAt:   normalize.CanonicalTime(p.ReleasedDate),
				RawPayload: raw,
			})
		}

		if len(page.Content) == 0 || offset+len(page.Content) >= page.TotalFound {
			break
		}
	}

	return out, nil
}

func (f *Fetcher) fetchPage(ctx context.Context, offset int) (postingsResponse, error) {
	apiURL := fmt.Sprintf("%s/%s/postings?limit=%d&offset=%d", apiBase, f.slug, pageSize, offset)

	var page postingsResponse

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return page, fmt.Errorf("smartrecruiters request: %w", err)
	}
	req.Header.Set("User-Agent", "JobSift/1.0 (+local)")

	if f.limiter != nil {
		if err := f.limiter.WaitURL(ctx, apiURL); err != nil {
			return page, fmt.Errorf("smartrecruiters wait: %w: %v", source.ErrUnavailable, err)
		}
	}

	res, err := f.hc.Do(req)
	if err != nil {
		return page, fmt.Errorf("smartrecruiters get: %w: %v", source.ErrUnavailable, err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return page, source.StatusError("smartrecruiters", res.StatusCode)
	}

	if err := json.NewDecoder(res.Body).Decode(&page); err != nil {
		return page, fmt.Errorf("smartrecruiters decode: %w: %v", source.ErrBadResponse, err)
	}
	return page, nil
}

func formatLocation(p posting) string {
	if p.Location.Remote {
		return "Remote"
	}
	parts := make([]string, 0, 3)
	for _, s := range []string{p.Location.City, p.Location.Region, p.Location.Country} {
		if s = strings.TrimSpace(s); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, ", ")
}
