package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/ChemDraw-AI/internal/testutil"
	"github.com/turtacn/ChemDraw-AI/pkg/errors"
	"github.com/turtacn/ChemDraw-AI/pkg/types/chem"
)

const waterURL = "https://pubchem.ncbi.nlm.nih.gov/image/imgsrv.fcgi?cid=962"

func postJSON(path, body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestChemHandler_Generate(t *testing.T) {
	gen := new(testutil.MockGenerationService)
	gen.On("Generate", mock.Anything, "H2O").Return(&chem.GenerationResult{DiagramURL: waterURL}, nil)
	h := NewChemHandler(gen, new(testutil.MockCorrectionService), nil)

	rec := httptest.NewRecorder()
	h.Generate(rec, postJSON("/api/v1/generations", `{"formula":"H2O"}`))

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeEnvelope[chem.GenerationResult](t, rec)
	assert.True(t, resp.Success)
	assert.Equal(t, waterURL, resp.Data.DiagramURL)
	gen.AssertExpectations(t)
}

func TestChemHandler_Generate_PassesFormulaThroughUnvalidated(t *testing.T) {
	gen := new(testutil.MockGenerationService)
	gen.On("Generate", mock.Anything, "  ").
		Return(nil, errors.New(errors.ErrCodeFormulaUninterpretable, "Invalid chemical formula"))
	h := NewChemHandler(gen, new(testutil.MockCorrectionService), nil)

	rec := httptest.NewRecorder()
	h.Generate(rec, postJSON("/api/v1/generations", `{"formula":"  "}`))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	resp := decodeEnvelope[any](t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "GEN_003", resp.Error.Code)
	assert.Equal(t, "Invalid chemical formula", resp.Error.Message)
}

func TestChemHandler_Generate_MalformedBody(t *testing.T) {
	gen := new(testutil.MockGenerationService)
	h := NewChemHandler(gen, new(testutil.MockCorrectionService), nil)

	rec := httptest.NewRecorder()
	h.Generate(rec, postJSON("/api/v1/generations", `{"formula":`))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	gen.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything)
}

func TestChemHandler_SuggestCorrections(t *testing.T) {
	cor := new(testutil.MockCorrectionService)
	cor.On("SuggestCorrections", mock.Anything, "XyZ123").
		Return(&chem.CorrectionResult{CorrectedFormulas: []string{"C6H12O6"}}, nil)
	h := NewChemHandler(new(testutil.MockGenerationService), cor, nil)

	rec := httptest.NewRecorder()
	h.SuggestCorrections(rec, postJSON("/api/v1/corrections", `{"formula":"XyZ123"}`))

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeEnvelope[chem.CorrectionResult](t, rec)
	assert.Equal(t, []string{"C6H12O6"}, resp.Data.CorrectedFormulas)
}

func TestChemHandler_SuggestCorrections_ProviderFailure(t *testing.T) {
	cor := new(testutil.MockCorrectionService)
	cor.On("SuggestCorrections", mock.Anything, "H2O").
		Return(nil, errors.New(errors.ErrCodeCorrectionFailed, "Failed to suggest corrections: timeout"))
	h := NewChemHandler(new(testutil.MockGenerationService), cor, nil)

	rec := httptest.NewRecorder()
	h.SuggestCorrections(rec, postJSON("/api/v1/corrections", `{"formula":"H2O"}`))

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	resp := decodeEnvelope[any](t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "COR_001", resp.Error.Code)
}

//Personal.AI order the ending
