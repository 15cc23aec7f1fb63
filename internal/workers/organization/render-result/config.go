// internal/workers/organization/render-result/config.go
package renderresult

const (
	FormatText = "text"
	FormatJSON = "json"
)

type Config struct {
	Format  string
	Version string
	// ScoresShown is how many leading results always print their score.
	ScoresShown int
}

func LoadConfig() *Config {
	return &Config{
		Format:      FormatText,
		Version:     "2.0.0",
		ScoresShown: 3,
	}
}
