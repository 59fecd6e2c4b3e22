// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Layer file and environment overrides via Load.
// - External errors are wrapped with this package's sentinel kinds.
package config

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8880".
	Addr string `koanf:"addr"`

	// DBPath is the SQLite database file.
	DBPath string `koanf:"db_path"`

	// DeleteSecret authorizes match deletion.
	DeleteSecret string `koanf:"delete_secret"`

	// WebDir, when set, is served as the static web UI under /web/.
	WebDir string `koanf:"web_dir"`

	// RatingMu and RatingSigma set the skill prior.
	RatingMu    float64 `koanf:"rating_mu"`
	RatingSigma float64 `koanf:"rating_sigma"`

	// RatingBeta is the performance variance; zero means sigma/2.
	RatingBeta float64 `koanf:"rating_beta"`

	// RatingTau is the dynamics factor; negative disables it.
	RatingTau float64 `koanf:"rating_tau"`
}

// New creates a Config with defaults matching the reference deployment.
func New() *Config {
	return &Config{
		LogLevel:     "info",
		Addr:         ":8880",
		DBPath:       "padel_ranking.db",
		DeleteSecret: "password",
		WebDir:       "",
		RatingMu:     25.0,
		RatingSigma:  25.0 / 3.0,
		RatingBeta:   0,
		RatingTau:    25.0 / 300.0,
	}
}
