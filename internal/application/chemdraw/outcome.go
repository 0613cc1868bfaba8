package chemdraw

import (
	"fmt"

	"github.com/turtacn/ChemDraw-AI/pkg/errors"
	"github.com/turtacn/ChemDraw-AI/pkg/types/chem"
)

// User-facing messages of the terminal phases.
const (
	MsgSuggestionsProvided = "Invalid chemical formula. Suggestions provided."
	MsgInvalidFormula      = "Invalid chemical formula."
	MsgGenerationFallback  = "Failed to generate diagram."
	MsgUnknownError        = "Unknown error"
	msgDoubleFailure       = "Failed to generate diagram or suggestions. Original error: %s, Suggestion error: %s"
)

// Outcome is the settled result of one service call.
type Outcome[T any] struct {
	Value T
	Err   error
}

// Attempt runs fn and captures its result.
func Attempt[T any](fn func() (T, error)) Outcome[T] {
	v, err := fn()
	return Outcome[T]{Value: v, Err: err}
}

// OK reports whether the call succeeded.
func (o Outcome[T]) OK() bool { return o.Err == nil }

// terminal is the state a generation attempt ends in.
type terminal struct {
	phase       chem.Phase
	result      *chem.GenerationResult
	message     string
	suggestions []string
}

// generationMessage is the text recorded when generation fails.
func generationMessage(err error) string {
	if msg := errors.Message(err); msg != "" {
		return msg
	}
	return MsgGenerationFallback
}

// settleCorrection maps the correction outcome onto a terminal state.  genMsg
// is the already recorded generation failure.
func settleCorrection(genMsg string, cor Outcome[*chem.CorrectionResult]) terminal {
	if !cor.OK() {
		corMsg := errors.Message(cor.Err)
		if corMsg == "" {
			corMsg = MsgUnknownError
		}
		return terminal{phase: chem.PhaseFailed, message: fmt.Sprintf(msgDoubleFailure, genMsg, corMsg)}
	}

	var list []string
	if cor.Value != nil {
		list = cor.Value.CorrectedFormulas
	}
	if len(list) == 0 {
		return terminal{phase: chem.PhaseInvalidFormula, message: MsgInvalidFormula}
	}
	return terminal{
		phase:       chem.PhaseSuggestionsShown,
		message:     MsgSuggestionsProvided,
		suggestions: append([]string(nil), list...),
	}
}

//Personal.AI order the ending
