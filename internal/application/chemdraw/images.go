package chemdraw

import (
	"net/url"
	"path"
	"strings"
	"sync"

	"github.com/turtacn/ChemDraw-AI/internal/config"
)

// ImagePolicy decides which remote diagram URLs may be displayed directly.
// Safe for concurrent use; Update swaps the list on config reload.
type ImagePolicy struct {
	mu          sync.RWMutex
	patterns    []config.ImagePattern
	placeholder string
}

// NewImagePolicy builds a policy from cfg.  An empty list or placeholder
// falls back to the defaults.
func NewImagePolicy(cfg config.ImagesConfig) *ImagePolicy {
	p := &ImagePolicy{}
	p.Update(cfg)
	return p
}

// Update replaces the allow-list and placeholder.
func (p *ImagePolicy) Update(cfg config.ImagesConfig) {
	patterns := cfg.Allowed
	if len(patterns) == 0 {
		patterns = config.DefaultImagePatterns()
	}
	placeholder := cfg.PlaceholderURL
	if placeholder == "" {
		placeholder = config.DefaultPlaceholder
	}
	p.mu.Lock()
	p.patterns = append([]config.ImagePattern(nil), patterns...)
	p.placeholder = placeholder
	p.mu.Unlock()
}

// Placeholder returns the substitute image URL.
func (p *ImagePolicy) Placeholder() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.placeholder
}

// Allowed reports whether raw is an https URL on an allowed host and, when
// the pattern has one, under its path prefix.
func (p *ImagePolicy) Allowed(raw string) bool {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Scheme != "https" || u.Host == "" || u.User != nil {
		return false
	}
	host := strings.ToLower(u.Hostname())
	if u.Port() != "" && u.Port() != "443" {
		return false
	}

	clean := cleanPath(u.Path)

	p.mu.RLock()
	defer p.mu.RUnlock()
	for _, pat := range p.patterns {
		if !strings.EqualFold(pat.Host, host) {
			continue
		}
		if pat.PathPrefix == "" || strings.HasPrefix(clean, pat.PathPrefix) {
			return true
		}
	}
	return false
}

// cleanPath resolves dot segments in a decoded URL path, keeping a trailing
// slash.
func cleanPath(p string) string {
	if p == "" {
		return "/"
	}
	clean := path.Clean("/" + p)
	if strings.HasSuffix(p, "/") && clean != "/" {
		clean += "/"
	}
	return clean
}

// Resolve returns the URL to display for raw and whether it was substituted
// with the placeholder.
func (p *ImagePolicy) Resolve(raw string) (src string, rejected bool) {
	if p.Allowed(raw) {
		return strings.TrimSpace(raw), false
	}
	return p.Placeholder(), true
}

//Personal.AI order the ending
