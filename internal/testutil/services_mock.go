package testutil

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/turtacn/ChemDraw-AI/internal/config"
	"github.com/turtacn/ChemDraw-AI/pkg/types/chem"
)

// MockGenerationService is a testify mock of chemdraw.GenerationService.
type MockGenerationService struct {
	mock.Mock
	OutputMode config.OutputMode
}

func (m *MockGenerationService) Generate(ctx context.Context, formula string) (*chem.GenerationResult, error) {
	args := m.Called(ctx, formula)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*chem.GenerationResult), args.Error(1)
}

func (m *MockGenerationService) Mode() config.OutputMode {
	if m.OutputMode == "" {
		return config.OutputModeDiagramURL
	}
	return m.OutputMode
}

// MockCorrectionService is a testify mock of chemdraw.CorrectionService.
type MockCorrectionService struct {
	mock.Mock
}

func (m *MockCorrectionService) SuggestCorrections(ctx context.Context, formula string) (*chem.CorrectionResult, error) {
	args := m.Called(ctx, formula)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*chem.CorrectionResult), args.Error(1)
}

//Personal.AI order the ending
