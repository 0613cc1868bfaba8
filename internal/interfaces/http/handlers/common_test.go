package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/ChemDraw-AI/internal/testutil"
	"github.com/turtacn/ChemDraw-AI/pkg/errors"
	"github.com/turtacn/ChemDraw-AI/pkg/types/common"
)

func decodeEnvelope[T any](t *testing.T, rec *httptest.ResponseRecorder) common.APIResponse[T] {
	t.Helper()
	var resp common.APIResponse[T]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp), rec.Body.String())
	return resp
}

func TestWriteAppError_MapsCodeToStatus(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   string
	}{
		{errors.New(errors.ErrCodeFormulaUninterpretable, "Invalid chemical formula"), http.StatusUnprocessableEntity, "GEN_003"},
		{errors.New(errors.ErrCodeGenerationFailed, "Failed to generate diagram: quota"), http.StatusBadGateway, "GEN_001"},
		{errors.New(errors.ErrCodeSessionNotFound, "session not found"), http.StatusNotFound, "SES_001"},
		{errors.New(errors.ErrCodeGenerationInFlight, "busy"), http.StatusConflict, "GEN_004"},
		{errors.New(errors.ErrCodeDownloadTooLarge, "too big"), http.StatusRequestEntityTooLarge, "DL_003"},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeAppError(rec, httptest.NewRequest(http.MethodGet, "/", nil), testutil.NewMockLogger(), tt.err)

			assert.Equal(t, tt.status, rec.Code)
			resp := decodeEnvelope[any](t, rec)
			assert.False(t, resp.Success)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.code, resp.Error.Code)
			assert.Equal(t, errors.Message(tt.err), resp.Error.Message)
		})
	}
}

func TestWriteAppError_MasksForeignErrors(t *testing.T) {
	logger := testutil.NewMockLogger()
	rec := httptest.NewRecorder()

	writeAppError(rec, httptest.NewRequest(http.MethodGet, "/", nil), logger, assert.AnError)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	resp := decodeEnvelope[any](t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "COMMON_001", resp.Error.Code)
	assert.Equal(t, "internal server error", resp.Error.Message)
	assert.NotContains(t, rec.Body.String(), assert.AnError.Error())
	assert.True(t, logger.HasMessage("error", "request failed"))
}

func TestDecodeJSON(t *testing.T) {
	type body struct {
		Formula string `json:"formula"`
	}

	t.Run("valid", func(t *testing.T) {
		var b body
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"formula":"H2O"}`))
		require.NoError(t, decodeJSON(req, &b))
		assert.Equal(t, "H2O", b.Formula)
	})

	t.Run("empty body", func(t *testing.T) {
		var b body
		err := decodeJSON(httptest.NewRequest(http.MethodPost, "/", strings.NewReader("")), &b)
		assert.True(t, errors.IsCode(err, errors.ErrCodeBadRequest))
	})

	t.Run("unknown field", func(t *testing.T) {
		var b body
		err := decodeJSON(httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"smiles":"O"}`)), &b)
		assert.True(t, errors.IsCode(err, errors.ErrCodeBadRequest))
	})

	t.Run("wrong content type", func(t *testing.T) {
		var b body
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"formula":"H2O"}`))
		req.Header.Set("Content-Type", "text/plain")
		err := decodeJSON(req, &b)
		assert.True(t, errors.IsCode(err, errors.ErrCodeBadRequest))
	})
}

//Personal.AI order the ending
