package chemdraw

import (
	"context"
	"strings"

	"github.com/turtacn/ChemDraw-AI/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/ChemDraw-AI/internal/intelligence/llm"
	"github.com/turtacn/ChemDraw-AI/pkg/errors"
	"github.com/turtacn/ChemDraw-AI/pkg/types/chem"
)

// CorrectionService proposes valid formulas for one the generator rejected.
type CorrectionService interface {
	SuggestCorrections(ctx context.Context, formula string) (*chem.CorrectionResult, error)
}

type correctionService struct {
	prompt *llm.Prompt[llm.FormulaInput, llm.CorrectionOutput]
	logger logging.Logger
}

// NewCorrectionService builds the service on model.  The cache option is
// ignored; corrections are always asked fresh.
func NewCorrectionService(model llm.Model, opts ...ServiceOption) (CorrectionService, error) {
	o := defaultServiceOptions()
	for _, opt := range opts {
		opt(&o)
	}
	p, err := llm.NewPrompt[llm.FormulaInput, llm.CorrectionOutput](llm.CorrectionDefinition(), model,
		llm.WithTemperature(o.temperature), llm.WithMetrics(o.metrics), llm.WithLogger(o.logger))
	if err != nil {
		return nil, err
	}
	return &correctionService{prompt: p, logger: o.logger.Named("correction")}, nil
}

// SuggestCorrections returns the model's ranked corrections with blank entries
// dropped.  An empty list is a valid answer.
func (s *correctionService) SuggestCorrections(ctx context.Context, formula string) (*chem.CorrectionResult, error) {
	out, err := s.prompt.Run(ctx, llm.FormulaInput{Formula: formula})
	if err != nil {
		s.logger.Warn("correction failed", logging.String("formula", formula), logging.Err(err))
		if errors.IsCode(err, errors.ErrCodeAIOutputMalformed) {
			return nil, errors.Wrap(err, errors.ErrCodeCorrectionOutputInvalid, "AI output failed schema validation")
		}
		return nil, errors.Wrap(err, errors.ErrCodeCorrectionFailed, "Failed to suggest corrections: "+errors.Message(err))
	}

	res := &chem.CorrectionResult{CorrectedFormulas: make([]string, 0, len(out.CorrectedFormulas))}
	for _, f := range out.CorrectedFormulas {
		if f = strings.TrimSpace(f); f != "" {
			res.CorrectedFormulas = append(res.CorrectedFormulas, f)
		}
	}
	if out.Interpretation != nil {
		res.Interpretation = strings.TrimSpace(*out.Interpretation)
	}
	return res, nil
}

//Personal.AI order the ending
