// internal/common/config/loader.go
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const appDirName = "brreg-lookup"

// defaults are registered with viper so every key is known to AutomaticEnv.
var defaults = map[string]interface{}{
	"app.name":        "brreg-lookup",
	"app.version":     "2.0.0",
	"app.environment": "development",

	"brreg.base_url":    "https://data.brreg.no/enhetsregisteret/api",
	"brreg.timeout":     10000,
	"brreg.max_results": 20,
	"brreg.user_agent":  "",
	"brreg.max_retries": 1,
	"brreg.rate_limit":  5.0,
	"brreg.rate_burst":  2,

	"search.min_name_length": 3,
	"search.timeout":         30000,
	"search.rank_warn_after": 500,

	"lookup.timeout": 30000,

	"logging.level":  "error",
	"logging.format": "console",
	"logging.output": "stderr",

	"observability.service_name":    "brreg-lookup",
	"observability.metrics_file":    "",
	"observability.jaeger_endpoint": "",
}

// Load reads config.yaml from the standard locations, layered with
// config.<APP_ENVIRONMENT>.yaml, a .env file and the process environment.
func Load() (*Config, error) {
	envFile := loadEnvFile()

	v := newViper()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	for _, p := range configPaths() {
		v.AddConfigPath(p)
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}

	env := os.Getenv("APP_ENVIRONMENT")
	if env == "" {
		env = "development"
	}
	v.SetConfigName(fmt.Sprintf("config.%s", env))
	if err := v.MergeInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading %s config: %w", env, err)
		}
	}

	return finish(v, envFile)
}

// LoadFromFile loads configuration from a specific file path
func LoadFromFile(path string) (*Config, error) {
	envFile := loadEnvFile()

	v := newViper()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	return finish(v, envFile)
}

func newViper() *viper.Viper {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	// brreg.base_url can be overridden with BRREG_BASE_URL
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	return v
}

func finish(v *viper.Viper, envFile string) (*Config, error) {
	expandEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)
	cfg.EnvFile = envFile
	cfg.ConfigFile = v.ConfigFileUsed()

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func configPaths() []string {
	paths := []string{"./configs", "."}
	if dir, err := os.UserConfigDir(); err == nil {
		paths = append(paths, filepath.Join(dir, appDirName))
	}
	return paths
}

// loadEnvFile loads the first .env found. Existing environment variables win.
func loadEnvFile() string {
	possiblePaths := []string{".env"}
	if dir, err := os.UserConfigDir(); err == nil {
		possiblePaths = append(possiblePaths, filepath.Join(dir, appDirName, ".env"))
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return path
			}
		}
	}
	return ""
}

// expandEnvVars resolves ${VAR} placeholders in string values.
func expandEnvVars(v *viper.Viper) {
	for _, key := range v.AllKeys() {
		strVal, ok := v.Get(key).(string)
		if !ok {
			continue
		}
		if strings.Contains(strVal, "${") || (strings.HasPrefix(strVal, "$") && len(strVal) > 1) {
			expanded := os.ExpandEnv(strVal)
			if expanded != strVal && expanded != "" {
				v.Set(key, expanded)
			}
		}
	}
}

// applyDefaults fills values that were explicitly zeroed in a config file
func applyDefaults(cfg *Config) {
	if cfg.BRREG.Timeout <= 0 {
		cfg.BRREG.Timeout = 10000
	}
	if cfg.BRREG.UserAgent == "" {
		cfg.BRREG.UserAgent = fmt.Sprintf("%s/%s", cfg.App.Name, cfg.App.Version)
	}
	if cfg.BRREG.MaxRetries < 0 {
		cfg.BRREG.MaxRetries = 0
	}
	if cfg.BRREG.RateBurst <= 0 {
		cfg.BRREG.RateBurst = 1
	}
	if cfg.Search.Timeout <= 0 {
		cfg.Search.Timeout = 30000
	}
	if cfg.Search.RankWarnAfter <= 0 {
		cfg.Search.RankWarnAfter = 500
	}
	if cfg.Lookup.Timeout <= 0 {
		cfg.Lookup.Timeout = 30000
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stderr"
	}
	if cfg.Observability.ServiceName == "" {
		cfg.Observability.ServiceName = cfg.App.Name
	}
}

// Validate checks critical configuration fields. It runs on load and again
// after command line overrides.
func Validate(cfg *Config) error {
	return validateConfig(cfg)
}

// validateConfig validates critical configuration fields
func validateConfig(cfg *Config) error {
	if cfg.BRREG.BaseURL == "" {
		return fmt.Errorf("brreg.base_url is required")
	}
	u, err := url.Parse(cfg.BRREG.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("brreg.base_url must be an absolute http(s) URL, got %q", cfg.BRREG.BaseURL)
	}
	if cfg.BRREG.MaxResults < 1 || cfg.BRREG.MaxResults > 1000 {
		return fmt.Errorf("brreg.max_results must be between 1 and 1000, got %d", cfg.BRREG.MaxResults)
	}
	if cfg.BRREG.RateLimit < 0 {
		return fmt.Errorf("brreg.rate_limit must not be negative")
	}
	if cfg.Search.MinNameLength < 1 {
		return fmt.Errorf("search.min_name_length must be at least 1")
	}

	switch cfg.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be one of debug, info, warn, error, got %q", cfg.Logging.Level)
	}
	switch cfg.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("logging.format must be json or console, got %q", cfg.Logging.Format)
	}

	return nil
}

// GetDuration converts milliseconds from config to time.Duration
func GetDuration(milliseconds int) time.Duration {
	return time.Duration(milliseconds) * time.Millisecond
}
