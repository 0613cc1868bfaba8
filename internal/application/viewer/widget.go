// Package viewer renders molecular structure payloads through an injected 3D
// engine.  The widget owns at most one engine viewer at a time and discards it
// before every new payload.
package viewer

import (
	"context"
	"sync"
	"time"

	"github.com/turtacn/ChemDraw-AI/internal/config"
	"github.com/turtacn/ChemDraw-AI/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/ChemDraw-AI/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/ChemDraw-AI/pkg/errors"
)

// FormatSDF is the only payload format the widget hands to the engine.
const FormatSDF = "sdf"

// Selector picks atoms; the empty selector picks all of them.
type Selector map[string]interface{}

// StickStyle draws bonds as sticks.
type StickStyle struct {
	Radius float64
}

// SphereStyle draws atoms as spheres.
type SphereStyle struct {
	Radius float64
}

// Style is a visual style applied to selected atoms.
type Style struct {
	Stick  *StickStyle
	Sphere *SphereStyle
}

// ViewerOptions configures a new engine viewer.
type ViewerOptions struct {
	Width           int
	Height          int
	BackgroundColor string
}

// Container is the fixed-size region a viewer draws into.
type Container interface {
	Clear()
}

// Viewer3D is one engine viewer bound to a container.
type Viewer3D interface {
	AddModel(data, format string) error
	SetStyle(sel Selector, style Style)
	ZoomTo()
	Render()
	Zoom(factor float64, duration time.Duration)
	// Clear drops every model and releases the viewer's drawing state.
	Clear()
}

// Engine creates viewers.
type Engine interface {
	CreateViewer(container Container, opts ViewerOptions) (Viewer3D, error)
}

// EngineLoader resolves the engine on demand.  It may fail when the engine is
// not available.
type EngineLoader func(ctx context.Context) (Engine, error)

// StaticLoader returns a loader that always yields e.
func StaticLoader(e Engine) EngineLoader {
	return func(context.Context) (Engine, error) { return e, nil }
}

// Widget renders one payload at a time into its container.
type Widget struct {
	loader    EngineLoader
	container Container
	cfg       config.ViewerConfig
	metrics   *prometheus.AppMetrics
	logger    logging.Logger

	mu      sync.Mutex
	current Viewer3D
}

// Option configures a Widget.
type Option func(*Widget)

// WithMetrics records renders on m.
func WithMetrics(m *prometheus.AppMetrics) Option {
	return func(w *Widget) { w.metrics = m }
}

// WithLogger sets the logger.
func WithLogger(l logging.Logger) Option {
	return func(w *Widget) { w.logger = l }
}

// NewWidget binds a widget to container.  Zero fields of cfg take the
// package defaults.
func NewWidget(loader EngineLoader, container Container, cfg config.ViewerConfig, opts ...Option) *Widget {
	w := &Widget{
		loader:    loader,
		container: container,
		cfg:       withDefaults(cfg),
		metrics:   prometheus.NewNoopAppMetrics(),
		logger:    logging.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

func withDefaults(cfg config.ViewerConfig) config.ViewerConfig {
	full := config.NewDefaultConfig().Viewer
	if cfg.Width > 0 {
		full.Width = cfg.Width
	}
	if cfg.Height > 0 {
		full.Height = cfg.Height
	}
	if cfg.Background != "" {
		full.Background = cfg.Background
	}
	if cfg.SphereRadius > 0 {
		full.SphereRadius = cfg.SphereRadius
	}
	if cfg.ZoomFactor > 0 {
		full.ZoomFactor = cfg.ZoomFactor
	}
	if cfg.ZoomDuration > 0 {
		full.ZoomDuration = cfg.ZoomDuration
	}
	return full
}

// Render shows payload.  An empty payload clears the container and renders
// nothing.  An engine that fails to load is logged and leaves the container
// empty; Render then returns nil.  Payload content is not validated here.
func (w *Widget) Render(ctx context.Context, payload string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.discard()
	w.container.Clear()

	if payload == "" {
		prometheus.RecordRender(w.metrics, "cleared")
		return nil
	}

	engine, err := w.loader(ctx)
	if err != nil {
		rerr := errors.RenderError("3D engine failed to load").WithCause(err)
		w.logger.Error("molecule viewer unavailable", logging.Err(rerr))
		prometheus.RecordRender(w.metrics, "engine_unavailable")
		return nil
	}

	v, err := engine.CreateViewer(w.container, ViewerOptions{
		Width:           w.cfg.Width,
		Height:          w.cfg.Height,
		BackgroundColor: w.cfg.Background,
	})
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeRenderFailed, "failed to create viewer")
	}
	w.current = v

	if err := v.AddModel(payload, FormatSDF); err != nil {
		return errors.Wrap(err, errors.ErrCodeRenderFailed, "failed to load model")
	}
	v.SetStyle(Selector{}, Style{
		Stick:  &StickStyle{},
		Sphere: &SphereStyle{Radius: w.cfg.SphereRadius},
	})
	v.ZoomTo()
	v.Render()
	v.Zoom(w.cfg.ZoomFactor, w.cfg.ZoomDuration)

	prometheus.RecordRender(w.metrics, "rendered")
	return nil
}

// Close discards the current viewer and clears the container.
func (w *Widget) Close() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.discard()
	w.container.Clear()
}

func (w *Widget) discard() {
	if w.current != nil {
		w.current.Clear()
		w.current = nil
	}
}

//Personal.AI order the ending
