package source

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"jobsift-engine/internal/domain"
)

// Fetcher is the shared capability every provider adapter implements: pull
// the provider's current posting list and map it into candidate Jobs, with
// FirstSeenAt left unset. New providers are added by implementing Fetcher,
// never by touching the ingest run. Adapters must not write to the store.
type Fetcher interface {
	Name() string
	Fetch(ctx context.Context) ([]domain.Job, error)
}

// ErrUnavailable marks network/transport failures reaching a provider,
// including per-source timeouts. ErrBadResponse marks responses whose shape
// violates the adapter's expectations. Both are isolated per source by the
// ingest run; neither aborts it.
var (
	ErrUnavailable = errors.New("source unavailable")
	ErrBadResponse = errors.New("unexpected provider response")
)

// StatusError classifies a non-2xx provider status. Server-side trouble and
// throttling count as unavailability; anything else means we asked for
// something the provider does not recognize.
func StatusError(provider string, code int) error {
	if code >= http.StatusInternalServerError || code == http.StatusTooManyRequests {
		return fmt.Errorf("%s: status %d: %w", provider, code, ErrUnavailable)
	}
	return fmt.Errorf("%s: status %d: %w", provider, code, ErrBadResponse)
}
