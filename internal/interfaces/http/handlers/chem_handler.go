package handlers

import (
	"net/http"

	"github.com/turtacn/ChemDraw-AI/internal/application/chemdraw"
	"github.com/turtacn/ChemDraw-AI/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/ChemDraw-AI/pkg/types/chem"
)

// ChemHandler exposes the generation and correction services directly,
// without session state.
type ChemHandler struct {
	generation chemdraw.GenerationService
	correction chemdraw.CorrectionService
	logger     logging.Logger
}

// NewChemHandler creates a ChemHandler.
func NewChemHandler(gen chemdraw.GenerationService, cor chemdraw.CorrectionService, logger logging.Logger) *ChemHandler {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &ChemHandler{generation: gen, correction: cor, logger: logger}
}

// Generate handles POST /api/v1/generations.  The formula is passed through
// unvalidated.
func (h *ChemHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req chem.GenerateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeAppError(w, r, h.logger, err)
		return
	}
	res, err := h.generation.Generate(r.Context(), req.Formula)
	if err != nil {
		writeAppError(w, r, h.logger, err)
		return
	}
	writeData(w, r, http.StatusOK, res)
}

// SuggestCorrections handles POST /api/v1/corrections.
func (h *ChemHandler) SuggestCorrections(w http.ResponseWriter, r *http.Request) {
	var req chem.CorrectionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeAppError(w, r, h.logger, err)
		return
	}
	res, err := h.correction.SuggestCorrections(r.Context(), req.Formula)
	if err != nil {
		writeAppError(w, r, h.logger, err)
		return
	}
	writeData(w, r, http.StatusOK, res)
}

//Personal.AI order the ending
