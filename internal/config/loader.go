// Package config provides configuration loading, defaults, and validation for
// ChemDraw AI.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// envPrefix is the environment variable prefix for every setting.
const envPrefix = "CHEMDRAW"

// Provider API key variables consulted when intelligence.api_key is empty,
// in order.
var apiKeyEnv = map[Provider][]string{
	ProviderGemini: {"GEMINI_API_KEY", "GOOGLE_API_KEY", "GOOGLE_GENAI_API_KEY"},
	ProviderOpenAI: {"OPENAI_API_KEY"},
}

// newViper builds a Viper instance with YAML type, CHEMDRAW_ env prefix and
// "." → "_" key mapping, so "cache.addr" resolves to CHEMDRAW_CACHE_ADDR.
// Scalar keys are registered up front; viper only consults the environment
// for keys it already knows about.
func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	registerKeys(v)
	return v
}

func registerKeys(v *viper.Viper) {
	d := NewDefaultConfig()
	defaults := map[string]interface{}{
		"server.port":              d.Server.Port,
		"server.read_timeout":      d.Server.ReadTimeout,
		"server.write_timeout":     d.Server.WriteTimeout,
		"server.shutdown_timeout":  d.Server.ShutdownTimeout,
		"server.max_body_size":     d.Server.MaxBodySize,
		"server.session_ttl":       d.Server.SessionTTL,
		"server.rate_limit_rps":    d.Server.RateLimitRPS,
		"server.rate_limit_burst":  d.Server.RateLimitBurst,
		"log.level":                d.Log.Level,
		"log.format":               d.Log.Format,
		"intelligence.provider":    string(d.Intelligence.Provider),
		"intelligence.api_key":     "",
		"intelligence.base_url":    "",
		"intelligence.output_mode": string(d.Intelligence.OutputMode),
		"intelligence.temperature": d.Intelligence.Temperature,
		"images.placeholder_url":   d.Images.PlaceholderURL,
		"cache.enabled":            false,
		"cache.addr":               d.Cache.Addr,
		"cache.password":           "",
		"cache.db":                 0,
		"cache.ttl":                d.Cache.TTL,
		"storage.enabled":          false,
		"storage.endpoint":         d.Storage.Endpoint,
		"storage.access_key":       "",
		"storage.secret_key":       "",
		"storage.use_ssl":          false,
		"storage.bucket":           d.Storage.Bucket,
		"download.timeout":         d.Download.Timeout,
		"download.max_bytes":       d.Download.MaxBytes,
		"metrics.enabled":          d.Metrics.Enabled,
		"metrics.namespace":        d.Metrics.Namespace,
		"metrics.path":             d.Metrics.Path,
		"metrics.port":             0,
	}
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	// The model default depends on the provider, so it is resolved in
	// ApplyDefaults rather than registered with a value here.
	v.SetDefault("intelligence.model", "")
}

// LoadDotEnv loads KEY=VALUE pairs from the given files (".env" when none are
// given) into the process environment.  Variables that are already set win.
// Missing files are ignored.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("config: failed to load %s: %w", p, err)
		}
	}
	return nil
}

// Load reads the YAML file at configPath, merges CHEMDRAW_* overrides,
// applies defaults and validates.
func Load(configPath string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("config: failed to read config file %q: %w", configPath, err)
	}

	return unmarshalAndFinalize(v)
}

// LoadFromEnv builds a Config from CHEMDRAW_* variables and defaults only.
//
//	CHEMDRAW_<SECTION>_<FIELD>   e.g.  CHEMDRAW_INTELLIGENCE_OUTPUT_MODE
func LoadFromEnv() (*Config, error) {
	return unmarshalAndFinalize(newViper())
}

func unmarshalAndFinalize(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to unmarshal configuration: %w", err)
	}

	ApplyDefaults(cfg)
	resolveAPIKey(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validation failed: %w", err)
	}
	return cfg, nil
}

func resolveAPIKey(cfg *Config) {
	if cfg.Intelligence.APIKey != "" {
		return
	}
	for _, name := range apiKeyEnv[cfg.Intelligence.Provider] {
		if key := os.Getenv(name); key != "" {
			cfg.Intelligence.APIKey = key
			return
		}
	}
}

// Watch invokes onChange with the re-parsed Config whenever configPath
// changes on disk.  A change that fails to parse or validate is reported to
// onError (when non-nil) and onChange is skipped.  Watch does not block.
func Watch(configPath string, onChange func(*Config), onError func(error)) error {
	v := newViper()
	v.SetConfigFile(configPath)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("config: failed to read config file %q: %w", configPath, err)
	}

	v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		cfg, err := unmarshalAndFinalize(v)
		if err != nil {
			if onError != nil {
				onError(err)
			}
			return
		}
		onChange(cfg)
	})
	v.WatchConfig()
	return nil
}

// MustLoad wraps Load and panics on error.  For main() only.
func MustLoad(configPath string) *Config {
	cfg, err := Load(configPath)
	if err != nil {
		panic(fmt.Sprintf("config: MustLoad failed: %v", err))
	}
	return cfg
}

//Personal.AI order the ending
