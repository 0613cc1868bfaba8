// Package errors_test covers the AppError type, its factories and the
// error-chain helpers.
package errors_test

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/turtacn/ChemDraw-AI/pkg/errors"
)

// ─────────────────────────────────────────────────────────────────────────────
// TestNew
// ─────────────────────────────────────────────────────────────────────────────

func TestNew_FieldsAreSetCorrectly(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		code    errors.ErrorCode
		message string
	}{
		{"internal error", errors.CodeInternal, "unexpected failure"},
		{"uninterpretable formula", errors.ErrCodeFormulaUninterpretable, "Invalid chemical formula"},
		{"invalid param", errors.CodeInvalidParam, "formula is required"},
		{"rate limit", errors.CodeRateLimit, "too many requests"},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ae := errors.New(tc.code, tc.message)

			require.NotNil(t, ae)
			assert.Equal(t, tc.code, ae.Code)
			assert.Equal(t, tc.message, ae.Message)
			assert.Empty(t, ae.Detail)
			assert.Nil(t, ae.Cause)
		})
	}
}

func TestNewf_FormatsMessage(t *testing.T) {
	t.Parallel()

	ae := errors.Newf(errors.ErrCodeDownloadFailed, "HTTP error! status: %d", 404)
	assert.Equal(t, "HTTP error! status: 404", ae.Message)
}

// ─────────────────────────────────────────────────────────────────────────────
// TestWrap
// ─────────────────────────────────────────────────────────────────────────────

func TestWrap_NilErrReturnsNil(t *testing.T) {
	t.Parallel()

	assert.Nil(t, errors.Wrap(nil, errors.CodeInternal, "should not matter"))
}

func TestWrap_CauseChainIsPreserved(t *testing.T) {
	t.Parallel()

	root := stderrors.New("dial tcp: connection refused")
	wrapped := errors.Wrap(root, errors.ErrCodeCacheError, "redis unavailable")

	require.NotNil(t, wrapped)
	assert.Equal(t, errors.ErrCodeCacheError, wrapped.Code)
	assert.Equal(t, root, stderrors.Unwrap(wrapped))
	assert.True(t, stderrors.Is(wrapped, root))
}

func TestWrap_PreservesOriginalCodeWhenCodeUnknown(t *testing.T) {
	t.Parallel()

	inner := errors.New(errors.ErrCodeSessionNotFound, "not found")
	outer := errors.Wrap(inner, errors.CodeUnknown, "adding context")

	assert.Equal(t, errors.ErrCodeSessionNotFound, outer.Code)
}

func TestWrap_OverridesCodeWhenExplicit(t *testing.T) {
	t.Parallel()

	inner := errors.New(errors.ErrCodeSessionNotFound, "not found")
	outer := errors.Wrap(inner, errors.CodeInternal, "unexpected state")

	assert.Equal(t, errors.CodeInternal, outer.Code)
}

// ─────────────────────────────────────────────────────────────────────────────
// TestError_Method
// ─────────────────────────────────────────────────────────────────────────────

func TestError_FormatWithoutDetail(t *testing.T) {
	t.Parallel()

	s := errors.New(errors.ErrCodeFormulaUninterpretable, "Invalid chemical formula").Error()

	assert.Equal(t, "[GEN_003] Invalid chemical formula", s)
	assert.Equal(t, 0, strings.Count(s, ": "))
}

func TestError_FormatWithDetail(t *testing.T) {
	t.Parallel()

	s := errors.New(errors.ErrCodeGenerationOutputInvalid, "AI output failed schema validation").
		WithDetail("field=molecularData").Error()

	assert.Equal(t, "[GEN_002] AI output failed schema validation: field=molecularData", s)
}

func TestWithDetail_NilReceiverReturnsNil(t *testing.T) {
	t.Parallel()

	var ae *errors.AppError
	assert.Nil(t, ae.WithDetail("x"))
	assert.Nil(t, ae.WithCause(stderrors.New("x")))
}

func TestWithDetail_DoesNotMutateOriginal(t *testing.T) {
	t.Parallel()

	original := errors.NotFound("session missing")
	detailed := original.WithDetail("id=42")

	assert.Empty(t, original.Detail)
	assert.Equal(t, "id=42", detailed.Detail)
}

// ─────────────────────────────────────────────────────────────────────────────
// Chain helpers
// ─────────────────────────────────────────────────────────────────────────────

func TestIsCode_TraversesFmtWrapping(t *testing.T) {
	t.Parallel()

	base := errors.New(errors.ErrCodeGenerationInFlight, "busy")
	err := fmt.Errorf("handler: %w", base)

	assert.True(t, errors.IsCode(err, errors.ErrCodeGenerationInFlight))
	assert.False(t, errors.IsCode(err, errors.CodeInternal))
	assert.True(t, errors.IsConflict(err))
}

func TestGetCode(t *testing.T) {
	t.Parallel()

	assert.Equal(t, errors.CodeOK, errors.GetCode(nil))
	assert.Equal(t, errors.CodeUnknown, errors.GetCode(stderrors.New("plain")))
	assert.Equal(t, errors.ErrCodeDownloadFailed, errors.GetCode(errors.DownloadError("x")))
}

func TestMessage(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "", errors.Message(nil))
	assert.Equal(t, "plain", errors.Message(stderrors.New("plain")))
	assert.Equal(t, "Invalid chemical formula",
		errors.Message(fmt.Errorf("wrapped: %w", errors.New(errors.ErrCodeFormulaUninterpretable, "Invalid chemical formula"))))
}

func TestKindPredicates(t *testing.T) {
	t.Parallel()

	assert.True(t, errors.IsGenerationError(errors.GenerationError("boom")))
	assert.True(t, errors.IsGenerationError(errors.New(errors.ErrCodeGenerationOutputInvalid, "bad schema")))
	assert.True(t, errors.IsCorrectionError(errors.CorrectionError("boom")))
	assert.True(t, errors.IsDownloadError(errors.DownloadError("boom")))
	assert.True(t, errors.IsRenderError(errors.RenderError("boom")))

	assert.False(t, errors.IsGenerationError(errors.CorrectionError("boom")))
	assert.False(t, errors.IsDownloadError(stderrors.New("plain")))
	assert.False(t, errors.IsRenderError(nil))
}

func TestIsNotFoundAndValidation(t *testing.T) {
	t.Parallel()

	assert.True(t, errors.IsNotFound(errors.New(errors.ErrCodeSuggestionNotFound, "x")))
	assert.True(t, errors.IsNotFound(errors.NotFound("x")))
	assert.False(t, errors.IsNotFound(errors.Internal("x")))
	assert.True(t, errors.IsValidation(errors.InvalidParam("x")))
	assert.False(t, errors.IsValidation(errors.RateLimit("x")))
}

//Personal.AI order the ending
