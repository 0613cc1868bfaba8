// Package config defines the configuration structures for ChemDraw AI.
// No I/O lives here, only plain data types and validation.
package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/turtacn/ChemDraw-AI/internal/infrastructure/monitoring/logging"
)

// ─────────────────────────────────────────────────────────────────────────────
// Enumerations
// ─────────────────────────────────────────────────────────────────────────────

// OutputMode selects which Generation Service contract a deployment uses.
// A deployment serves exactly one mode.
type OutputMode string

const (
	OutputModeDiagramURL    OutputMode = "diagram_url"
	OutputModeMolecularData OutputMode = "molecular_data"
)

// IsValid reports whether m is a known mode.
func (m OutputMode) IsValid() bool {
	return m == OutputModeDiagramURL || m == OutputModeMolecularData
}

// Provider names the generative-AI backend.
type Provider string

const (
	ProviderGemini Provider = "gemini"
	ProviderOpenAI Provider = "openai"
)

// ─────────────────────────────────────────────────────────────────────────────
// Sub-configuration structs
// ─────────────────────────────────────────────────────────────────────────────

// ServerConfig holds HTTP server tunables.
type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	MaxBodySize     int64         `mapstructure:"max_body_size"`
	SessionTTL      time.Duration `mapstructure:"session_ttl"`
	CORSOrigins     []string      `mapstructure:"cors_origins"`
	RateLimitRPS    float64       `mapstructure:"rate_limit_rps"`
	RateLimitBurst  int           `mapstructure:"rate_limit_burst"`
}

// IntelligenceConfig selects and parameterises the AI provider.
type IntelligenceConfig struct {
	Provider    Provider   `mapstructure:"provider"`
	Model       string     `mapstructure:"model"`
	APIKey      string     `mapstructure:"api_key"`
	BaseURL     string     `mapstructure:"base_url"`
	OutputMode  OutputMode `mapstructure:"output_mode"`
	Temperature float64    `mapstructure:"temperature"`
}

// ImagePattern is one entry of the remote image allow-list.
type ImagePattern struct {
	Host       string `mapstructure:"host"`
	PathPrefix string `mapstructure:"path_prefix"`
}

// ImagesConfig controls which remote diagram URLs may be displayed.
type ImagesConfig struct {
	Allowed        []ImagePattern `mapstructure:"allowed"`
	PlaceholderURL string         `mapstructure:"placeholder_url"`
}

// ViewerConfig fixes the 3D viewer presentation.
type ViewerConfig struct {
	Width        int           `mapstructure:"width"`
	Height       int           `mapstructure:"height"`
	Background   string        `mapstructure:"background"`
	SphereRadius float64       `mapstructure:"sphere_radius"`
	ZoomFactor   float64       `mapstructure:"zoom_factor"`
	ZoomDuration time.Duration `mapstructure:"zoom_duration"`
}

// CacheConfig holds Redis parameters for the generation result cache.
type CacheConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	Addr         string        `mapstructure:"addr"`
	Password     string        `mapstructure:"password"`
	DB           int           `mapstructure:"db"`
	PoolSize     int           `mapstructure:"pool_size"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	KeyPrefix    string        `mapstructure:"key_prefix"`
	TTL          time.Duration `mapstructure:"ttl"`
}

// StorageConfig holds MinIO parameters for the diagram archive.
type StorageConfig struct {
	Enabled       bool          `mapstructure:"enabled"`
	Endpoint      string        `mapstructure:"endpoint"`
	AccessKey     string        `mapstructure:"access_key"`
	SecretKey     string        `mapstructure:"secret_key"`
	UseSSL        bool          `mapstructure:"use_ssl"`
	Region        string        `mapstructure:"region"`
	Bucket        string        `mapstructure:"bucket"`
	PresignExpiry time.Duration `mapstructure:"presign_expiry"`
}

// DownloadConfig bounds the diagram download action.
type DownloadConfig struct {
	Timeout  time.Duration `mapstructure:"timeout"`
	MaxBytes int64         `mapstructure:"max_bytes"`
}

// MetricsConfig configures the Prometheus endpoint.  A zero Port serves it
// on the API listener.
type MetricsConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Namespace string `mapstructure:"namespace"`
	Path      string `mapstructure:"path"`
	Port      int    `mapstructure:"port"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Root
// ─────────────────────────────────────────────────────────────────────────────

// Config is the root configuration object.
type Config struct {
	Server       ServerConfig       `mapstructure:"server"`
	Log          logging.LogConfig  `mapstructure:"log"`
	Intelligence IntelligenceConfig `mapstructure:"intelligence"`
	Images       ImagesConfig       `mapstructure:"images"`
	Viewer       ViewerConfig       `mapstructure:"viewer"`
	Cache        CacheConfig        `mapstructure:"cache"`
	Storage      StorageConfig      `mapstructure:"storage"`
	Download     DownloadConfig     `mapstructure:"download"`
	Metrics      MetricsConfig      `mapstructure:"metrics"`
}

// Validate checks invariants that defaults cannot repair.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("config: server.port %d out of range", c.Server.Port)
	}
	if c.Server.RateLimitRPS < 0 {
		return fmt.Errorf("config: server.rate_limit_rps must not be negative")
	}

	switch c.Intelligence.Provider {
	case ProviderGemini, ProviderOpenAI:
	default:
		return fmt.Errorf("config: intelligence.provider %q must be gemini or openai", c.Intelligence.Provider)
	}
	if !c.Intelligence.OutputMode.IsValid() {
		return fmt.Errorf("config: intelligence.output_mode %q must be diagram_url or molecular_data", c.Intelligence.OutputMode)
	}
	if strings.TrimSpace(c.Intelligence.Model) == "" {
		return fmt.Errorf("config: intelligence.model is required")
	}
	if c.Intelligence.Temperature < 0 || c.Intelligence.Temperature > 2 {
		return fmt.Errorf("config: intelligence.temperature must be within [0, 2]")
	}

	for i, p := range c.Images.Allowed {
		if strings.TrimSpace(p.Host) == "" {
			return fmt.Errorf("config: images.allowed[%d].host is required", i)
		}
		if p.PathPrefix != "" && !strings.HasPrefix(p.PathPrefix, "/") {
			return fmt.Errorf("config: images.allowed[%d].path_prefix must start with '/'", i)
		}
	}
	if u, err := url.Parse(c.Images.PlaceholderURL); err != nil || u.Scheme != "https" || u.Host == "" {
		return fmt.Errorf("config: images.placeholder_url %q must be an absolute https URL", c.Images.PlaceholderURL)
	}

	if c.Viewer.Width <= 0 || c.Viewer.Height <= 0 {
		return fmt.Errorf("config: viewer dimensions must be positive")
	}
	if c.Viewer.ZoomFactor <= 0 {
		return fmt.Errorf("config: viewer.zoom_factor must be positive")
	}

	if c.Cache.Enabled && c.Cache.Addr == "" {
		return fmt.Errorf("config: cache.addr is required when the cache is enabled")
	}
	if c.Storage.Enabled {
		if c.Storage.Endpoint == "" || c.Storage.Bucket == "" {
			return fmt.Errorf("config: storage.endpoint and storage.bucket are required when storage is enabled")
		}
	}
	if c.Download.MaxBytes <= 0 {
		return fmt.Errorf("config: download.max_bytes must be positive")
	}
	if c.Metrics.Enabled && c.Metrics.Namespace == "" {
		return fmt.Errorf("config: metrics.namespace is required when metrics are enabled")
	}
	if c.Metrics.Port < 0 || c.Metrics.Port > 65535 {
		return fmt.Errorf("config: metrics.port %d out of range", c.Metrics.Port)
	}
	if c.Metrics.Port != 0 && c.Metrics.Port == c.Server.Port {
		return fmt.Errorf("config: metrics.port must differ from server.port")
	}
	return nil
}

//Personal.AI order the ending
