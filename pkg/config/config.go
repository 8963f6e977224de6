// Package config is svdkit's ambient configuration surface: the resolver's
// strict-mode toggle, round-limit and diagnostics verbosity, loadable from
// a YAML file or environment variables. Shaped after jimyag-jvp's
// internal/jvp/config (a plain struct plus a New() that prefers env vars,
// falling back to defaults) with a YAML file layered underneath, since
// svdkit's config surface is file-shareable in a way jvp's connection
// string is not.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds the same knobs as resolve.Options and cmd/svdresolve's
// --strict/--max-rounds/--verbose flags; neither of those reads a Config.
type Config struct {
	// Strict escalates resolver warnings into fatal errors.
	Strict bool `yaml:"strict"`
	// MaxRounds bounds the resolver's fixed-point loop; zero means the
	// resolver's own default.
	MaxRounds int `yaml:"maxRounds"`
	// Verbose enables per-round slog tracing.
	Verbose bool `yaml:"verbose"`
}

// Default returns the zero-value configuration: non-strict, default round
// limit, no tracing.
func Default() Config {
	return Config{}
}

// Load reads a YAML config file at path, then overlays any of
// SVDKIT_STRICT, SVDKIT_MAX_ROUNDS, SVDKIT_VERBOSE present in the
// environment — env vars win, matching jvp's own env-first precedence. An
// empty path skips the file and returns the environment overlay applied to
// Default().
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}
	applyEnv(&cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("SVDKIT_STRICT"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Strict = b
		}
	}
	if v := os.Getenv("SVDKIT_MAX_ROUNDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.MaxRounds = n
		}
	}
	if v := os.Getenv("SVDKIT_VERBOSE"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Verbose = b
		}
	}
}
