// internal/workers/organization/apply-relevance-ranking/config.go
package applyrelevanceranking

import "time"

type Config struct {
	// WarnAfter is the ranking duration above which a warning is logged.
	WarnAfter time.Duration
}

func LoadConfig() *Config {
	return &Config{
		WarnAfter: 500 * time.Millisecond,
	}
}
