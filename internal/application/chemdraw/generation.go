// Package chemdraw implements the formula-to-structure workflow: the
// generation and correction services, the per-session controller with its
// generate-then-correct fallback, and diagram download.
package chemdraw

import (
	"context"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"

	"github.com/turtacn/ChemDraw-AI/internal/config"
	"github.com/turtacn/ChemDraw-AI/internal/infrastructure/database/redis"
	"github.com/turtacn/ChemDraw-AI/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/ChemDraw-AI/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/ChemDraw-AI/internal/intelligence/llm"
	"github.com/turtacn/ChemDraw-AI/pkg/errors"
	"github.com/turtacn/ChemDraw-AI/pkg/types/chem"
)

// GenerationService turns a formula into a diagram URL or a structure
// payload, depending on the deployment's output mode.
type GenerationService interface {
	Generate(ctx context.Context, formula string) (*chem.GenerationResult, error)
	Mode() config.OutputMode
}

// ServiceOption configures the generation and correction services.
type ServiceOption func(*serviceOptions)

type serviceOptions struct {
	cache       redis.Cache
	cacheTTL    time.Duration
	temperature float64
	metrics     *prometheus.AppMetrics
	logger      logging.Logger
}

func defaultServiceOptions() serviceOptions {
	return serviceOptions{
		temperature: config.DefaultTemperature,
		metrics:     prometheus.NewNoopAppMetrics(),
		logger:      logging.NewNopLogger(),
	}
}

// WithCache caches successful generations for ttl.
func WithCache(c redis.Cache, ttl time.Duration) ServiceOption {
	return func(o *serviceOptions) {
		o.cache = c
		o.cacheTTL = ttl
	}
}

// WithTemperature sets the sampling temperature of the prompts.
func WithTemperature(t float64) ServiceOption {
	return func(o *serviceOptions) { o.temperature = t }
}

// WithMetrics records calls on m.
func WithMetrics(m *prometheus.AppMetrics) ServiceOption {
	return func(o *serviceOptions) { o.metrics = m }
}

// WithLogger sets the logger.
func WithLogger(l logging.Logger) ServiceOption {
	return func(o *serviceOptions) { o.logger = l }
}

type generationService struct {
	mode     config.OutputMode
	urlP     *llm.Prompt[llm.FormulaInput, llm.DiagramURLOutput]
	molP     *llm.Prompt[llm.FormulaInput, llm.MolecularDataOutput]
	cache    redis.Cache
	cacheTTL time.Duration
	metrics  *prometheus.AppMetrics
	logger   logging.Logger
}

// NewGenerationService builds the service for mode on model.
func NewGenerationService(model llm.Model, mode config.OutputMode, opts ...ServiceOption) (GenerationService, error) {
	if !mode.IsValid() {
		return nil, errors.Newf(errors.ErrCodeInvalidConfig, "unknown output mode %q", mode)
	}
	o := defaultServiceOptions()
	for _, opt := range opts {
		opt(&o)
	}
	popts := []llm.PromptOption{llm.WithTemperature(o.temperature), llm.WithMetrics(o.metrics), llm.WithLogger(o.logger)}

	s := &generationService{
		mode:     mode,
		cache:    o.cache,
		cacheTTL: o.cacheTTL,
		metrics:  o.metrics,
		logger:   o.logger.Named("generation"),
	}
	var err error
	switch mode {
	case config.OutputModeDiagramURL:
		s.urlP, err = llm.NewPrompt[llm.FormulaInput, llm.DiagramURLOutput](llm.GenerationDefinition(mode), model, popts...)
	default:
		s.molP, err = llm.NewPrompt[llm.FormulaInput, llm.MolecularDataOutput](llm.GenerationDefinition(mode), model, popts...)
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (s *generationService) Mode() config.OutputMode { return s.mode }

// CacheKey normalises formula for caching only; the model always sees the
// formula as typed.  NFKC folds full-width digits and letters.
func CacheKey(mode config.OutputMode, formula string) string {
	return "gen:" + string(mode) + ":" + norm.NFKC.String(strings.TrimSpace(formula))
}

func (s *generationService) Generate(ctx context.Context, formula string) (*chem.GenerationResult, error) {
	if s.cache == nil {
		return s.generate(ctx, formula)
	}

	var res chem.GenerationResult
	loaded := false
	err := s.cache.GetOrSet(ctx, CacheKey(s.mode, formula), &res, s.cacheTTL, func(ctx context.Context) (interface{}, error) {
		loaded = true
		return s.generate(ctx, formula)
	})
	if err != nil {
		return nil, err
	}
	prometheus.RecordCacheAccess(s.metrics, "generation", !loaded)
	return &res, nil
}

func (s *generationService) generate(ctx context.Context, formula string) (*chem.GenerationResult, error) {
	in := llm.FormulaInput{Formula: formula}
	var res chem.GenerationResult

	switch s.mode {
	case config.OutputModeDiagramURL:
		out, err := s.urlP.Run(ctx, in)
		if err != nil {
			return nil, s.fail(formula, err)
		}
		res.DiagramURL = strings.TrimSpace(*out.DiagramURL)
	default:
		out, err := s.molP.Run(ctx, in)
		if err != nil {
			return nil, s.fail(formula, err)
		}
		if strings.TrimSpace(*out.MolecularData) != "" {
			res.MolecularData = *out.MolecularData
		}
	}

	if res.IsEmpty() {
		s.logger.Info("formula not interpretable", logging.String("formula", formula))
		return nil, errors.New(errors.ErrCodeFormulaUninterpretable, "Invalid chemical formula")
	}
	return &res, nil
}

// fail maps a prompt error to a generation error.
func (s *generationService) fail(formula string, err error) error {
	s.logger.Warn("generation failed", logging.String("formula", formula), logging.Err(err))
	if errors.IsCode(err, errors.ErrCodeAIOutputMalformed) {
		return errors.Wrap(err, errors.ErrCodeGenerationOutputInvalid, "AI output failed schema validation")
	}
	return errors.Wrap(err, errors.ErrCodeGenerationFailed, "Failed to generate diagram: "+errors.Message(err))
}

//Personal.AI order the ending
