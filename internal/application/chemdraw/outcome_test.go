package chemdraw

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/turtacn/ChemDraw-AI/pkg/errors"
	"github.com/turtacn/ChemDraw-AI/pkg/types/chem"
)

func TestAttempt(t *testing.T) {
	ok := Attempt(func() (int, error) { return 7, nil })
	assert.True(t, ok.OK())
	assert.Equal(t, 7, ok.Value)

	failed := Attempt(func() (int, error) { return 0, fmt.Errorf("boom") })
	assert.False(t, failed.OK())
	assert.EqualError(t, failed.Err, "boom")
}

func TestGenerationMessage(t *testing.T) {
	assert.Equal(t, "Invalid chemical formula", generationMessage(errors.GenerationError("Invalid chemical formula")))
	assert.Equal(t, "timeout", generationMessage(fmt.Errorf("timeout")))
	assert.Equal(t, MsgGenerationFallback, generationMessage(errors.GenerationError("")))
}

func TestSettleCorrection(t *testing.T) {
	tests := []struct {
		name        string
		outcome     Outcome[*chem.CorrectionResult]
		phase       chem.Phase
		message     string
		suggestions []string
	}{
		{
			name:        "suggestions",
			outcome:     Outcome[*chem.CorrectionResult]{Value: &chem.CorrectionResult{CorrectedFormulas: []string{"C6H12O6"}}},
			phase:       chem.PhaseSuggestionsShown,
			message:     MsgSuggestionsProvided,
			suggestions: []string{"C6H12O6"},
		},
		{
			name:    "empty list",
			outcome: Outcome[*chem.CorrectionResult]{Value: &chem.CorrectionResult{}},
			phase:   chem.PhaseInvalidFormula,
			message: MsgInvalidFormula,
		},
		{
			name:    "nil result",
			outcome: Outcome[*chem.CorrectionResult]{},
			phase:   chem.PhaseInvalidFormula,
			message: MsgInvalidFormula,
		},
		{
			name:    "failure",
			outcome: Outcome[*chem.CorrectionResult]{Err: errors.CorrectionError("rate limited")},
			phase:   chem.PhaseFailed,
			message: "Failed to generate diagram or suggestions. Original error: gen failed, Suggestion error: rate limited",
		},
		{
			name:    "failure without message",
			outcome: Outcome[*chem.CorrectionResult]{Err: errors.CorrectionError("")},
			phase:   chem.PhaseFailed,
			message: "Failed to generate diagram or suggestions. Original error: gen failed, Suggestion error: Unknown error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := settleCorrection("gen failed", tt.outcome)
			assert.Equal(t, tt.phase, got.phase)
			assert.Equal(t, tt.message, got.message)
			assert.Equal(t, tt.suggestions, got.suggestions)
			assert.Nil(t, got.result)
		})
	}
}

func TestSettleCorrection_CopiesList(t *testing.T) {
	list := []string{"H2O"}
	got := settleCorrection("x", Outcome[*chem.CorrectionResult]{Value: &chem.CorrectionResult{CorrectedFormulas: list}})
	list[0] = "changed"
	assert.Equal(t, []string{"H2O"}, got.suggestions)
}

//Personal.AI order the ending
