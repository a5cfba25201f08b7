// Package config loads jsrevive's process-wide configuration: cache
// location, default output shape, and logging level. Values come from the
// environment first, then an optional YAML file, matching how the teacher's
// own CLI layered flags over mna/mainer's env-var support.
package config

import (
	"os"

	"github.com/caarlos0/env/v6"
	"gopkg.in/yaml.v3"
)

// Config holds the settings every jsrevive component reads at startup.
type Config struct {
	// CacheDir holds the instrumentation cache (runtime/cache). Empty
	// disables caching.
	CacheDir string `env:"JSREVIVE_CACHE_DIR" yaml:"cacheDir"`

	// CacheVersion is embedded in the cache filename so incompatible
	// instrumenter versions never read each other's entries.
	CacheVersion string `env:"JSREVIVE_CACHE_VERSION" yaml:"cacheVersion" envDefault:"1"`

	// Format is the default serialize() output format: cjs, esm, js or exec.
	Format string `env:"JSREVIVE_FORMAT" yaml:"format" envDefault:"cjs"`

	// Minify, Mangle and Inline mirror the serialize() options of the same
	// name (§6) when the caller doesn't override them explicitly. Mangle is
	// one of "readable", "short" or "none".
	Minify bool   `env:"JSREVIVE_MINIFY" yaml:"minify"`
	Mangle string `env:"JSREVIVE_MANGLE" yaml:"mangle" envDefault:"readable"`
	Inline bool   `env:"JSREVIVE_INLINE" yaml:"inline" envDefault:"true"`

	// LogLevel is one of zap's level names (debug, info, warn, error).
	LogLevel string `env:"JSREVIVE_LOG_LEVEL" yaml:"logLevel" envDefault:"info"`
}

// Load reads the environment, then overlays path (if non-empty and
// present) as a YAML file on top. Fields absent from the file keep their
// env/default value.
func Load(path string) (Config, error) {
	var c Config
	if err := env.Parse(&c); err != nil {
		return Config{}, err
	}
	if path == "" {
		return c, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return c, nil
		}
		return Config{}, err
	}
	if err := yaml.Unmarshal(b, &c); err != nil {
		return Config{}, err
	}
	return c, nil
}
