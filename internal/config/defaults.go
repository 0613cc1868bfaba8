package config

import "time"

// ─────────────────────────────────────────────────────────────────────────────
// Default value constants
// ─────────────────────────────────────────────────────────────────────────────

const (
	DefaultServerPort      = 8080
	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 120 * time.Second
	DefaultShutdownTimeout = 30 * time.Second
	DefaultMaxBodySize     = 1 << 20
	DefaultSessionTTL      = 2 * time.Hour
	DefaultRateLimitRPS    = 5.0
	DefaultRateLimitBurst  = 10

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"

	DefaultProvider     = ProviderGemini
	DefaultGeminiModel  = "gemini-2.0-flash"
	DefaultOpenAIModel  = "gpt-4o-mini"
	DefaultOutputMode   = OutputModeMolecularData
	DefaultTemperature  = 0.2
	DefaultPlaceholder  = "https://picsum.photos/500/300"
	DefaultViewerWidth  = 500
	DefaultViewerHeight = 300
	DefaultBackground   = "white"
	DefaultSphereRadius = 0.3
	DefaultZoomFactor   = 1.2
	DefaultZoomDuration = time.Second

	DefaultRedisAddr   = "localhost:6379"
	DefaultRedisPool   = 10
	DefaultCachePrefix = "chemdraw:"
	DefaultCacheTTL    = 24 * time.Hour

	DefaultMinIOEndpoint = "localhost:9000"
	DefaultMinIOBucket   = "chemdraw-diagrams"
	DefaultPresignExpiry = 15 * time.Minute

	DefaultDownloadTimeout  = 30 * time.Second
	DefaultDownloadMaxBytes = 10 << 20

	DefaultMetricsNamespace = "chemdraw"
	DefaultMetricsPath      = "/metrics"
)

// DefaultImagePatterns is the built-in remote image allow-list: chemical
// structure providers, the CAS common chemistry site, a general image CDN
// and the Wikimedia media host.
func DefaultImagePatterns() []ImagePattern {
	return []ImagePattern{
		{Host: "pubchem.ncbi.nlm.nih.gov"},
		{Host: "cactus.nci.nih.gov", PathPrefix: "/chemical/structure/"},
		{Host: "www.commonchemistry.org"},
		{Host: "picsum.photos"},
		{Host: "upload.wikimedia.org"},
	}
}

// NewDefaultConfig returns a Config with every default applied.  Metrics are
// on; the cache and object storage stay off until configured.
func NewDefaultConfig() *Config {
	cfg := &Config{Metrics: MetricsConfig{Enabled: true}}
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults fills zero-value fields in cfg.  Explicit values win.
func ApplyDefaults(cfg *Config) {
	if cfg == nil {
		return
	}

	// ── Server ────────────────────────────────────────────────────────────────
	if cfg.Server.Port == 0 {
		cfg.Server.Port = DefaultServerPort
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = DefaultReadTimeout
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = DefaultWriteTimeout
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = DefaultShutdownTimeout
	}
	if cfg.Server.MaxBodySize == 0 {
		cfg.Server.MaxBodySize = DefaultMaxBodySize
	}
	if cfg.Server.SessionTTL == 0 {
		cfg.Server.SessionTTL = DefaultSessionTTL
	}
	if cfg.Server.RateLimitRPS == 0 {
		cfg.Server.RateLimitRPS = DefaultRateLimitRPS
	}
	if cfg.Server.RateLimitBurst == 0 {
		cfg.Server.RateLimitBurst = DefaultRateLimitBurst
	}

	// ── Log ───────────────────────────────────────────────────────────────────
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultLogFormat
	}

	// ── Intelligence ──────────────────────────────────────────────────────────
	if cfg.Intelligence.Provider == "" {
		cfg.Intelligence.Provider = DefaultProvider
	}
	if cfg.Intelligence.Model == "" {
		cfg.Intelligence.Model = DefaultGeminiModel
		if cfg.Intelligence.Provider == ProviderOpenAI {
			cfg.Intelligence.Model = DefaultOpenAIModel
		}
	}
	if cfg.Intelligence.OutputMode == "" {
		cfg.Intelligence.OutputMode = DefaultOutputMode
	}
	if cfg.Intelligence.Temperature == 0 {
		cfg.Intelligence.Temperature = DefaultTemperature
	}

	// ── Images / Viewer ───────────────────────────────────────────────────────
	if len(cfg.Images.Allowed) == 0 {
		cfg.Images.Allowed = DefaultImagePatterns()
	}
	if cfg.Images.PlaceholderURL == "" {
		cfg.Images.PlaceholderURL = DefaultPlaceholder
	}
	if cfg.Viewer.Width == 0 {
		cfg.Viewer.Width = DefaultViewerWidth
	}
	if cfg.Viewer.Height == 0 {
		cfg.Viewer.Height = DefaultViewerHeight
	}
	if cfg.Viewer.Background == "" {
		cfg.Viewer.Background = DefaultBackground
	}
	if cfg.Viewer.SphereRadius == 0 {
		cfg.Viewer.SphereRadius = DefaultSphereRadius
	}
	if cfg.Viewer.ZoomFactor == 0 {
		cfg.Viewer.ZoomFactor = DefaultZoomFactor
	}
	if cfg.Viewer.ZoomDuration == 0 {
		cfg.Viewer.ZoomDuration = DefaultZoomDuration
	}

	// ── Cache ─────────────────────────────────────────────────────────────────
	if cfg.Cache.Addr == "" {
		cfg.Cache.Addr = DefaultRedisAddr
	}
	if cfg.Cache.PoolSize == 0 {
		cfg.Cache.PoolSize = DefaultRedisPool
	}
	if cfg.Cache.KeyPrefix == "" {
		cfg.Cache.KeyPrefix = DefaultCachePrefix
	}
	if cfg.Cache.TTL == 0 {
		cfg.Cache.TTL = DefaultCacheTTL
	}

	// ── Storage ───────────────────────────────────────────────────────────────
	if cfg.Storage.Endpoint == "" {
		cfg.Storage.Endpoint = DefaultMinIOEndpoint
	}
	if cfg.Storage.Bucket == "" {
		cfg.Storage.Bucket = DefaultMinIOBucket
	}
	if cfg.Storage.PresignExpiry == 0 {
		cfg.Storage.PresignExpiry = DefaultPresignExpiry
	}

	// ── Download ──────────────────────────────────────────────────────────────
	if cfg.Download.Timeout == 0 {
		cfg.Download.Timeout = DefaultDownloadTimeout
	}
	if cfg.Download.MaxBytes == 0 {
		cfg.Download.MaxBytes = DefaultDownloadMaxBytes
	}

	// ── Metrics ───────────────────────────────────────────────────────────────
	if cfg.Metrics.Namespace == "" {
		cfg.Metrics.Namespace = DefaultMetricsNamespace
	}
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = DefaultMetricsPath
	}
}

//Personal.AI order the ending
