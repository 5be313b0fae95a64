package domain

import (
	"encoding/json"
	"time"
)

// Source tags the provider adapter that produced a record.
type Source string

const (
	SourceGreenhouse      Source = "greenhouse"
	SourceLever           Source = "lever"
	SourceSmartRecruiters Source = "smartrecruiters"
	SourceEmail           Source = "email"
)

// Job is one posting observed from one source during one run.
//
// Adapters build Jobs with ID and FirstSeenAt unset; the ingest run derives
// the id from (Source, Company, URL) and stamps FirstSeenAt at insert time.
// FirstSeenAt is never updated afterwards; it drives retention.
type Job struct {
	ID          string
	Source      Source
	Company     string // provider-specific company key (board token, handle, slug)
	Title       string
	Location    string
	URL         string
	PostedAt    *time.Time // nil when the provider date was absent or unparseable
	FirstSeenAt time.Time
	Description string          // provider-native content, HTML or plain
	RawPayload  json.RawMessage // original provider record, kept for audit
}
