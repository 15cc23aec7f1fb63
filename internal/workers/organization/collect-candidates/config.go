// internal/workers/organization/collect-candidates/config.go
package collectcandidates

import "time"

type Config struct {
	// SourceTimeout bounds each source call on top of the HTTP client
	// timeout. Zero leaves only the client timeout.
	SourceTimeout time.Duration
}

func LoadConfig() *Config {
	return &Config{}
}
