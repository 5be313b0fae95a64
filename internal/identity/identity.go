package identity

import (
	"crypto/sha1"
	"encoding/hex"

	"jobsift-engine/internal/domain"
)

// JobID derives the content-addressed identifier for a posting: the hex sha1
// of "source|company|url". It is a pure function of the triple, so the same
// posting observed on different runs (or by different processes) always maps
// to the same id, which is what makes re-ingestion idempotent.
func JobID(source domain.Source, company, url string) string {
	sum := sha1.Sum([]byte(string(source) + "|" + company + "|" + url))
	return hex.EncodeToString(sum[:])
}
