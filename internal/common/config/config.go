// internal/common/config/config.go
package config

// Config is the main application configuration struct.
type Config struct {
	App           AppConfig           `mapstructure:"app"`
	BRREG         BRREGConfig         `mapstructure:"brreg"`
	Search        SearchConfig        `mapstructure:"search"`
	Lookup        LookupConfig        `mapstructure:"lookup"`
	Logging       LoggingConfig       `mapstructure:"logging"`
	Observability ObservabilityConfig `mapstructure:"observability"`

	// Files the values were read from, empty when none was found.
	ConfigFile string `mapstructure:"-"`
	EnvFile    string `mapstructure:"-"`
}

// --- Core App Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

// BRREGConfig holds settings for the Enhetsregisteret API client.
type BRREGConfig struct {
	BaseURL    string  `mapstructure:"base_url"`
	Timeout    int     `mapstructure:"timeout"` // milliseconds, per request
	MaxResults int     `mapstructure:"max_results"`
	UserAgent  string  `mapstructure:"user_agent"`
	MaxRetries int     `mapstructure:"max_retries"`
	RateLimit  float64 `mapstructure:"rate_limit"` // requests per second
	RateBurst  int     `mapstructure:"rate_burst"`
}

// SearchConfig holds settings for the search-by-name handler.
type SearchConfig struct {
	MinNameLength int `mapstructure:"min_name_length"`
	Timeout       int `mapstructure:"timeout"` // milliseconds, whole operation
	RankWarnAfter int `mapstructure:"rank_warn_after"` // milliseconds
}

// LookupConfig holds settings for the lookup-by-number handler.
type LookupConfig struct {
	Timeout int `mapstructure:"timeout"` // milliseconds, whole operation
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// ObservabilityConfig holds metrics and tracing settings. Empty values disable the feature.
type ObservabilityConfig struct {
	ServiceName    string `mapstructure:"service_name"`
	MetricsFile    string `mapstructure:"metrics_file"`
	JaegerEndpoint string `mapstructure:"jaeger_endpoint"`
}
