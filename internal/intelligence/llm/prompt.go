package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"text/template"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/turtacn/ChemDraw-AI/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/ChemDraw-AI/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/ChemDraw-AI/pkg/errors"
)

// validate is shared; validator.Validate caches struct metadata and is safe
// for concurrent use.
var validate = validator.New(validator.WithRequiredStructEnabled())

// PromptDefinition declares a structured prompt.
type PromptDefinition struct {
	Name     string
	System   string
	Template string
	Schema   *Schema
}

// Prompt renders In through its template and decodes the model's JSON
// answer into Out, which is then checked against its `validate` tags.
type Prompt[In any, Out any] struct {
	def         PromptDefinition
	tmpl        *template.Template
	model       Model
	temperature float64
	metrics     *prometheus.AppMetrics
	logger      logging.Logger
}

// PromptOption configures NewPrompt.
type PromptOption func(*promptOptions)

type promptOptions struct {
	temperature float64
	metrics     *prometheus.AppMetrics
	logger      logging.Logger
}

// WithTemperature sets the sampling temperature.
func WithTemperature(t float64) PromptOption {
	return func(o *promptOptions) { o.temperature = t }
}

// WithMetrics records every call on m.
func WithMetrics(m *prometheus.AppMetrics) PromptOption {
	return func(o *promptOptions) { o.metrics = m }
}

// WithLogger sets the logger.
func WithLogger(l logging.Logger) PromptOption {
	return func(o *promptOptions) { o.logger = l }
}

// NewPrompt parses def.Template.  The template sees In as its dot.
func NewPrompt[In any, Out any](def PromptDefinition, model Model, opts ...PromptOption) (*Prompt[In, Out], error) {
	o := promptOptions{logger: logging.NewNopLogger(), metrics: prometheus.NewNoopAppMetrics()}
	for _, opt := range opts {
		opt(&o)
	}
	tmpl, err := template.New(def.Name).Option("missingkey=error").Parse(def.Template)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInvalidConfig, "invalid prompt template").WithDetail(def.Name)
	}
	return &Prompt[In, Out]{
		def:         def,
		tmpl:        tmpl,
		model:       model,
		temperature: o.temperature,
		metrics:     o.metrics,
		logger:      o.logger.With(logging.String("prompt", def.Name)),
	}, nil
}

// Name returns the prompt name.
func (p *Prompt[In, Out]) Name() string { return p.def.Name }

// Render returns the user message for in.
func (p *Prompt[In, Out]) Render(in In) (string, error) {
	var buf bytes.Buffer
	if err := p.tmpl.Execute(&buf, in); err != nil {
		return "", errors.Wrap(err, errors.ErrCodeInternal, "failed to render prompt").WithDetail(p.def.Name)
	}
	return buf.String(), nil
}

// Run executes the prompt once.  Model failures carry ErrCodeAIInferenceFailed;
// answers that are not JSON or fail validation carry ErrCodeAIOutputMalformed.
func (p *Prompt[In, Out]) Run(ctx context.Context, in In) (Out, error) {
	var out Out

	user, err := p.Render(in)
	if err != nil {
		return out, err
	}

	start := time.Now()
	resp, err := p.model.Complete(ctx, &Request{
		Prompt:      p.def.Name,
		System:      p.def.System,
		User:        user,
		Schema:      p.def.Schema,
		Temperature: p.temperature,
	})
	elapsed := time.Since(start)
	if err != nil {
		prometheus.RecordLLMCall(p.metrics, p.model.Name(), p.def.Name, false, elapsed, 0, 0)
		p.logger.Warn("model call failed", logging.Duration("elapsed", elapsed), logging.Err(err))
		if errors.GetCode(err) == errors.CodeUnknown {
			return out, errors.Wrap(err, errors.ErrCodeAIInferenceFailed, "model call failed").WithDetail(p.def.Name)
		}
		return out, err
	}

	decodeErr := decodeOutput(resp.Text, &out)
	prometheus.RecordLLMCall(p.metrics, p.model.Name(), p.def.Name, decodeErr == nil, elapsed, resp.InputTokens, resp.OutputTokens)
	if decodeErr != nil {
		p.logger.Warn("model output rejected", logging.Err(decodeErr), logging.Int("length", len(resp.Text)))
		var zero Out
		return zero, decodeErr
	}

	p.logger.Debug("prompt completed", logging.Duration("elapsed", elapsed))
	return out, nil
}

// decodeOutput strips a markdown code fence, decodes JSON and validates.
func decodeOutput(text string, out interface{}) error {
	body := StripCodeFence(text)
	if body == "" {
		return errors.New(errors.ErrCodeAIOutputMalformed, "model returned an empty answer")
	}
	if err := json.Unmarshal([]byte(body), out); err != nil {
		return errors.Wrap(err, errors.ErrCodeAIOutputMalformed, "model answer is not valid JSON")
	}
	if err := validate.Struct(out); err != nil {
		return errors.Wrap(err, errors.ErrCodeAIOutputMalformed, "model answer failed schema validation").WithDetail(err.Error())
	}
	return nil
}

// StripCodeFence removes a surrounding ``` or ```json fence.
func StripCodeFence(text string) string {
	s := strings.TrimSpace(text)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	} else {
		s = strings.TrimPrefix(s, "json")
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

//Personal.AI order the ending
