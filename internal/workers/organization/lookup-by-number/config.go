// internal/workers/organization/lookup-by-number/config.go
package lookupbynumber

import "time"

type Config struct {
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 30 * time.Second,
	}
}
