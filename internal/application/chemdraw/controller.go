package chemdraw

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/turtacn/ChemDraw-AI/internal/application/viewer"
	"github.com/turtacn/ChemDraw-AI/internal/config"
	"github.com/turtacn/ChemDraw-AI/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/ChemDraw-AI/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/ChemDraw-AI/pkg/errors"
	"github.com/turtacn/ChemDraw-AI/pkg/types/chem"
)

// Dependencies are shared by every controller of a process.
type Dependencies struct {
	Generation GenerationService
	Correction CorrectionService
	Policy     *ImagePolicy
	Downloader *Downloader
	// Engine loads the 3D engine for the per-session viewer.  Nil uses the
	// server-side scene engine.
	Engine  viewer.EngineLoader
	Viewer  config.ViewerConfig
	Metrics *prometheus.AppMetrics
	Logger  logging.Logger
}

func (d Dependencies) withDefaults() Dependencies {
	if d.Metrics == nil {
		d.Metrics = prometheus.NewNoopAppMetrics()
	}
	if d.Logger == nil {
		d.Logger = logging.NewNopLogger()
	}
	if d.Policy == nil {
		d.Policy = NewImagePolicy(config.ImagesConfig{})
	}
	if d.Engine == nil {
		d.Engine = viewer.StaticLoader(viewer.NewSceneEngine(d.Logger))
	}
	return d
}

// Controller drives one session through generate, then correct on failure.
// It is safe for concurrent use; a second Generate while one is in flight is
// rejected.
type Controller struct {
	id     string
	deps   Dependencies
	scene  *viewer.SceneContainer
	widget *viewer.Widget
	logger logging.Logger

	mu          sync.Mutex
	formula     string
	phase       chem.Phase
	loading     bool
	result      *chem.GenerationResult
	message     string
	suggestions []string
	touched     time.Time
}

// NewController creates an idle controller for session id.
func NewController(id string, deps Dependencies) *Controller {
	deps = deps.withDefaults()
	scene := viewer.NewSceneContainer()
	logger := deps.Logger.With(logging.String("session_id", id))
	return &Controller{
		id:    id,
		deps:  deps,
		scene: scene,
		widget: viewer.NewWidget(deps.Engine, scene, deps.Viewer,
			viewer.WithMetrics(deps.Metrics), viewer.WithLogger(logger.Named("viewer"))),
		logger:  logger,
		phase:   chem.PhaseIdle,
		touched: time.Now(),
	}
}

// ID returns the session id.
func (c *Controller) ID() string { return c.id }

// SetFormula replaces the formula text.
func (c *Controller) SetFormula(formula string) chem.SessionView {
	c.mu.Lock()
	c.formula = formula
	c.touched = time.Now()
	c.mu.Unlock()
	return c.View()
}

// Generate runs one generation attempt for the current formula and returns
// the resulting view.  Service failures end in a terminal phase, not an
// error; the only error is ErrCodeGenerationInFlight.
func (c *Controller) Generate(ctx context.Context) (chem.SessionView, error) {
	c.mu.Lock()
	if c.loading {
		c.mu.Unlock()
		return chem.SessionView{}, errors.New(errors.ErrCodeGenerationInFlight, "generation already in progress")
	}
	c.loading = true
	c.phase = chem.PhaseGenerating
	c.result = nil
	c.message = ""
	c.suggestions = nil
	c.touched = time.Now()
	formula := c.formula
	c.mu.Unlock()

	settled := false
	defer func() {
		if settled {
			return
		}
		c.mu.Lock()
		c.loading = false
		c.mu.Unlock()
	}()

	// Both AI calls run to completion even if the caller goes away.
	ctx = context.WithoutCancel(ctx)

	c.render(ctx, "")
	end := c.run(ctx, formula)

	c.mu.Lock()
	c.phase = end.phase
	c.result = end.result
	c.message = end.message
	c.suggestions = end.suggestions
	c.mu.Unlock()

	if end.result != nil && end.result.MolecularData != "" {
		c.render(ctx, end.result.MolecularData)
	}

	c.mu.Lock()
	c.loading = false
	c.mu.Unlock()
	settled = true
	prometheus.RecordControllerOutcome(c.deps.Metrics, string(end.phase))

	c.logger.Info("generation settled",
		logging.String("formula", formula),
		logging.String("phase", string(end.phase)),
		logging.Int("suggestions", len(end.suggestions)))
	return c.View(), nil
}

// run is the generate-then-correct pipeline.
func (c *Controller) run(ctx context.Context, formula string) terminal {
	gen := Attempt(func() (*chem.GenerationResult, error) {
		return c.deps.Generation.Generate(ctx, formula)
	})
	if gen.OK() {
		return terminal{phase: chem.PhaseSuccess, result: gen.Value}
	}

	genMsg := generationMessage(gen.Err)
	c.mu.Lock()
	c.phase = chem.PhaseCorrecting
	c.message = genMsg
	c.mu.Unlock()

	cor := Attempt(func() (*chem.CorrectionResult, error) {
		return c.deps.Correction.SuggestCorrections(ctx, formula)
	})
	if !cor.OK() {
		c.logger.Warn("correction failed after generation failure",
			logging.String("generation_error", genMsg), logging.Err(cor.Err))
	}
	return settleCorrection(genMsg, cor)
}

func (c *Controller) render(ctx context.Context, payload string) {
	if err := c.widget.Render(ctx, payload); err != nil {
		c.logger.Warn("molecule render failed", logging.Err(err))
	}
}

// ApplySuggestion copies suggestion index into the formula.  It neither
// generates nor clears the current error.
func (c *Controller) ApplySuggestion(index int) (chem.SessionView, error) {
	c.mu.Lock()
	if index < 0 || index >= len(c.suggestions) {
		n := len(c.suggestions)
		c.mu.Unlock()
		return chem.SessionView{}, errors.Newf(errors.ErrCodeSuggestionNotFound, "suggestion %d not found", index).
			WithDetail(fmt.Sprintf("%d available", n))
	}
	c.formula = c.suggestions[index]
	c.touched = time.Now()
	c.mu.Unlock()
	return c.View(), nil
}

// View returns a snapshot of the session.
func (c *Controller) View() chem.SessionView {
	c.mu.Lock()
	v := chem.SessionView{
		ID:          c.id,
		Formula:     c.formula,
		Phase:       c.phase,
		Loading:     c.loading,
		Error:       c.message,
		Suggestions: append([]string{}, c.suggestions...),
	}
	if c.result != nil {
		r := *c.result
		v.Result = &r
	}
	c.mu.Unlock()

	v.Display = c.display(v.Result)
	return v
}

func (c *Controller) display(r *chem.GenerationResult) chem.Display {
	switch {
	case r == nil:
		return chem.Display{Kind: chem.DisplayNone}
	case r.DiagramURL != "":
		src, rejected := c.deps.Policy.Resolve(r.DiagramURL)
		return chem.Display{Kind: chem.DisplayImage, ImageSrc: src, Rejected: rejected}
	case r.MolecularData != "":
		return chem.Display{Kind: chem.DisplayViewer, Scene: c.scene.Scene()}
	}
	return chem.Display{Kind: chem.DisplayNone}
}

// Download fetches the current result for saving.
func (c *Controller) Download(ctx context.Context) (*File, error) {
	c.mu.Lock()
	var r *chem.GenerationResult
	if c.result != nil {
		cp := *c.result
		r = &cp
	}
	formula := c.formula
	c.touched = time.Now()
	c.mu.Unlock()

	if c.deps.Downloader == nil {
		return nil, errors.New(errors.ErrCodeServiceUnavailable, "download is not configured")
	}
	return c.deps.Downloader.Download(ctx, r, formula)
}

// LastActive is the time of the last state-changing call.
func (c *Controller) LastActive() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.touched
}

// Loading reports whether a generation is in flight.
func (c *Controller) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

// Close releases the viewer.
func (c *Controller) Close() {
	c.widget.Close()
}

//Personal.AI order the ending
