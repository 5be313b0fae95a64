package email

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"jobsift-engine/internal/domain"
	"jobsift-engine/internal/secrets"
	"jobsift-engine/internal/source"
	"jobsift-engine/internal/source/util"

	"github.com/emersion/go-imap/v2"
	"github.com/rs/zerolog/log"
)

// Config describes one job-alert mailbox.
type Config struct {
	IMAPHost         string
	IMAPPort         int
	Username         string
	Mailbox          string
	SearchSubjectAny []string
	MaxMessages      int
}

// passwordFor is swapped out in tests; by default credentials come from the
// OS keychain, never from the config file.
var passwordFor = func(username, host string) (string, error) {
	return secrets.GetIMAPPassword(secrets.IMAPAccount(username, host))
}

// Fetcher turns unseen job-alert emails into posting candidates: it pulls
// unread mail whose subject matches the configured needles, extracts posting
// links from the body, and derives one candidate per link. Processed mail is
// marked \Seen so the next run starts where this one stopped.
type Fetcher struct {
	cfg Config
}

func New(cfg Config) *Fetcher {
	if cfg.Mailbox == "" {
		cfg.Mailbox = "INBOX"
	}
	if cfg.MaxMessages <= 0 {
		cfg.MaxMessages = 20
	}
	return &Fetcher{cfg: cfg}
}

func (f *Fetcher) Name() string { return "email:" + f.cfg.Username }

func (f *Fetcher) Fetch(ctx context.Context) ([]domain.Job, error) {
	const maxLinksPerMessage = 10

	pass, err := passwordFor(f.cfg.Username, f.cfg.IMAPHost)
	if err != nil {
		return nil, fmt.Errorf("email credentials: %w", err)
	}

	addr := f.cfg.IMAPHost
	if !strings.Contains(addr, ":") {
		port := f.cfg.IMAPPort
		if port == 0 {
			port = 993
		}
		addr = fmt.Sprintf("%s:%d", addr, port)
	}

	c, err := dialAndLogin(ctx, addr, f.cfg.Username, pass)
	if err != nil {
		return nil, fmt.Errorf("email connect: %w: %v", source.ErrUnavailable, err)
	}
	defer logoutAndClose(c)

	if _, err := c.Select(f.cfg.Mailbox, nil).Wait(); err != nil {
		return nil, fmt.Errorf("imap select %q: %w: %v", f.cfg.Mailbox, source.ErrBadResponse, err)
	}

	msgs, err := fetchUnseen(ctx, c, f.cfg.MaxMessages)
	if err != nil {
		return nil, fmt.Errorf("email fetch: %w: %v", source.ErrUnavailable, err)
	}

	var out []domain.Job
	processed := make([]imap.UID, 0, len(msgs))
	for _, m := range msgs {
		processed = append(processed, m.UID)

		if len(f.cfg.SearchSubjectAny) > 0 && !containsAnyCI(m.Subject, f.cfg.SearchSubjectAny) {
			continue
		}

		urls := extractURLs(bodyText(m.Raw))
		kept := 0
		for _, u := range urls {
			if kept >= maxLinksPerMessage {
				break
			}
			u = util.CanonicalURL(u)
			if !util.IsAbsoluteURL(u) || !looksLikeJobURL(u) {
				continue
			}
			kept++

			var postedAt *time.Time
			if !m.Date.IsZero() {
				d := m.Date.UTC()
				postedAt = &d
			}

			raw, _ := json.Marshal(map[string]string{
				"from":    m.From,
				"subject": m.Subject,
				"url":     u,
			})

			out = append(out, domain.Job{
				Source:     domain.SourceEmail,
				Company:    senderDomain(m.From),
				Title:      strings.Join(strings.Fields(m.Subject), " "),
				URL:        u,
				PostedAt:   postedAt,
				RawPayload: raw,
			})
		}
	}

	if err := markSeen(c, processed); err != nil {
		// Candidates are still good; the worst case is re-reading this mail
		// next run, and dedup absorbs that.
		log.Warn().Str("source", f.Name()).Err(err).Msg("mark seen failed")
	}

	return out, nil
}
