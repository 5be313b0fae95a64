package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// SourceRef names one configured source: a provider tag plus the
// provider-specific key (board token, handle, slug).
type SourceRef struct {
	Provider string `yaml:"provider"`
	Key      string `yaml:"key"`
}

type Email struct {
	Enabled          bool     `yaml:"enabled"`
	IMAPHost         string   `yaml:"imap_host"`
	IMAPPort         int      `yaml:"imap_port"`
	Username         string   `yaml:"username"`
	Mailbox          string   `yaml:"mailbox"`
	SearchSubjectAny []string `yaml:"search_subject_any"`
	MaxMessages      int      `yaml:"max_messages"`
}

type Config struct {
	Sources []SourceRef `yaml:"sources"`

	Email Email `yaml:"email"`

	Filters struct {
		KeywordsAny []string `yaml:"keywords_any"`
		LocationAny []string `yaml:"location_any"`
	} `yaml:"filters"`

	Dedupe struct {
		MaxAgeDays int `yaml:"max_age_days"`
	} `yaml:"dedupe"`

	Fetch struct {
		TimeoutSeconds int     `yaml:"timeout_seconds"`
		HostRatePerSec float64 `yaml:"host_rate_per_sec"`
		HostBurst      int     `yaml:"host_burst"`
	} `yaml:"fetch"`
}

func Load(path string) (Config, error) {
	var cfg Config
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	err = yaml.Unmarshal(b, &cfg)
	return cfg, err
}

// FetchTimeout is the per-source deadline; a source that blows it is treated
// as unavailable for this run only.
func (c Config) FetchTimeout() time.Duration {
	return time.Duration(c.Fetch.TimeoutSeconds) * time.Second
}
