package greenhouse

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

// Public Greenhouse board API (no auth). content=true inlines the posting
// body so filtering can see it without a second request per job.
var apiBase = "https://boards-api.greenhouse.io/v1/boards"

// SetAPIBase points the adapter at a different board endpoint and returns a
// func restoring the previous one. Tests aim it at a mock server.
func SetAPIBase(base string) (restore func()) {
	old := apiBase
	apiBase = base
	return func() { apiBase = old }
}

type Fetcher struct {
	board   string // board token, boards-api.greenhouse.io/v1/boards/<token>
	hc      *http.Client
	limiter *util.HostLimiter
}

func New(board string, limiter *util.HostLimiter) *Fetcher {
	return &Fetcher{
		board:   strings.TrimSpace(board),
		hc:      &http.Client{Timeout: 30 * time.Second},
		limiter: limiter,
	}
}

func (f *Fetcher) Name() string { return "greenhouse:" + f.board }

type boardResponse struct {
	Jobs []posting `json:"jobs"`
}

type posting struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	AbsoluteURL string `json:"absolute_url"`
	UpdatedAt   string `json:"updated_at"`
	CreatedAt   string `json:"created_at"`
	Content     string `json:"content"`
	Location    struct {
		Name string `json:"name"`
	} `json:"location"`
}

func (f *Fetcher) Fetch(ctx context.Context) ([]domain.Job, error) {
	apiURL := fmt.Sprintf("%s/%s/jobs?content=true", apiBase, f.board)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return nil, fmt.Errorf("greenhouse request: %w", err)
	}
	req.Header.Set("User-Agent", "JobSift/1.0 (+local)")

	if f.limiter != nil {
		if err := f.limiter.WaitURL(ctx, apiURL); err != nil {
			return nil, fmt.Errorf("greenhouse wait: %w: %v", source.ErrUnavailable, err)
		}
	}

	res, err := f.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("greenhouse get board: %w: %v", source.ErrUnavailable, err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return nil, source.StatusError("greenhouse", res.StatusCode)
	}

	var body boardResponse
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("greenhouse decode: %w: %v", source.ErrBadResponse, err)
	}

	out := make([]domain.Job, 0, len(body.Jobs))
	for _, p := range body.Jobs {
		jobURL := util.CanonicalURL(p.AbsoluteURL)
		if !util.IsAbsoluteURL(jobURL) {
			continue
		}

		dateText := p.UpdatedAt
		if dateText == "" {
			dateText = p.CreatedAt
		}

		raw, _ := json.Marshal(p)

		out = append(out, domain.Job{
			Source:      domain.SourceGreenhouse,
			Company:     f.board,
			Title:       strings.TrimSpace(p.Title),
			Location:    strings.TrimSpace(p.Location.Name),
			URL:         jobURL,
			PostedAt:    normalize.CanonicalTime(dateText),
			Description: p.Content,
			RawPayload:  raw,
		})
	}
	return out, nil
}
