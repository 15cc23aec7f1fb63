// internal/workers/organization/search-by-name/config.go
package searchbyname

import "time"

type Config struct {
	MinNameLength int
	Timeout       time.Duration
}

func LoadConfig() *Config {
	return &Config{
		MinNameLength: 3,
		Timeout:       30 * time.Second,
	}
}
