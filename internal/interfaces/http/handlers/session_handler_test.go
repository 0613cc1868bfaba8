package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/ChemDraw-AI/internal/application/chemdraw"
	"github.com/turtacn/ChemDraw-AI/internal/config"
	"github.com/turtacn/ChemDraw-AI/internal/testutil"
	"github.com/turtacn/ChemDraw-AI/pkg/errors"
	"github.com/turtacn/ChemDraw-AI/pkg/types/chem"
)

const waterSDF = "water\n  ChemDraw3D\n\n  1  0  0  0  0  0  0  0  0  0999 V2000\n    0.0000    0.0000    0.0000 O   0  0\nM  END\n"

func newTestStore(gen *testutil.MockGenerationService, cor *testutil.MockCorrectionService) *chemdraw.SessionStore {
	policy := chemdraw.NewImagePolicy(config.ImagesConfig{})
	return chemdraw.NewSessionStore(chemdraw.Dependencies{
		Generation: gen,
		Correction: cor,
		Policy:     policy,
		Downloader: chemdraw.NewDownloader(config.DownloadConfig{}, policy),
	}, config.DefaultSessionTTL)
}

func sessionRouter(h *SessionHandler) http.Handler {
	r := chi.NewRouter()
	r.Post("/sessions", h.Create)
	r.Route("/sessions/{id}", func(s chi.Router) {
		s.Get("/", h.Get)
		s.Delete("/", h.Delete)
		s.Put("/formula", h.SetFormula)
		s.Post("/generate", h.Generate)
		s.Post("/suggestions/{index}/apply", h.ApplySuggestion)
		s.Get("/download", h.Download)
	})
	return r
}

func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestSessionHandler_CreateAndGet(t *testing.T) {
	store := newTestStore(new(testutil.MockGenerationService), new(testutil.MockCorrectionService))
	r := sessionRouter(NewSessionHandler(store, nil))

	rec := serve(r, httptest.NewRequest(http.MethodPost, "/sessions", nil))
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decodeEnvelope[chem.SessionView](t, rec)
	require.NotEmpty(t, created.Data.ID)
	assert.Equal(t, "/api/v1/sessions/"+created.Data.ID, rec.Header().Get("Location"))
	assert.Equal(t, chem.PhaseIdle, created.Data.Phase)

	rec = serve(r, httptest.NewRequest(http.MethodGet, "/sessions/"+created.Data.ID, nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, created.Data.ID, decodeEnvelope[chem.SessionView](t, rec).Data.ID)
}

func TestSessionHandler_UnknownSession(t *testing.T) {
	store := newTestStore(new(testutil.MockGenerationService), new(testutil.MockCorrectionService))
	r := sessionRouter(NewSessionHandler(store, nil))

	rec := serve(r, httptest.NewRequest(http.MethodGet, "/sessions/nope", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	resp := decodeEnvelope[any](t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "SES_001", resp.Error.Code)
	assert.Equal(t, "nope", resp.Error.Detail)
}

func TestSessionHandler_GenerateFailureShowsSuggestions(t *testing.T) {
	gen := new(testutil.MockGenerationService)
	cor := new(testutil.MockCorrectionService)
	gen.On("Generate", mock.Anything, "XyZ123").
		Return(nil, errors.New(errors.ErrCodeFormulaUninterpretable, "Invalid chemical formula"))
	cor.On("SuggestCorrections", mock.Anything, "XyZ123").
		Return(&chem.CorrectionResult{CorrectedFormulas: []string{"C6H12O6", "C6H6"}}, nil)
	store := newTestStore(gen, cor)
	r := sessionRouter(NewSessionHandler(store, nil))
	id := store.Create().ID()

	rec := serve(r, postJSONMethod(http.MethodPut, "/sessions/"+id+"/formula", `{"formula":"XyZ123"}`))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = serve(r, httptest.NewRequest(http.MethodPost, "/sessions/"+id+"/generate", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	view := decodeEnvelope[chem.SessionView](t, rec).Data
	assert.Equal(t, chem.PhaseSuggestionsShown, view.Phase)
	assert.Equal(t, "Invalid chemical formula. Suggestions provided.", view.Error)
	assert.Equal(t, []string{"C6H12O6", "C6H6"}, view.Suggestions)
	assert.False(t, view.Loading)

	rec = serve(r, httptest.NewRequest(http.MethodPost, "/sessions/"+id+"/suggestions/1/apply", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	view = decodeEnvelope[chem.SessionView](t, rec).Data
	assert.Equal(t, "C6H6", view.Formula)
	assert.Equal(t, []string{"C6H12O6", "C6H6"}, view.Suggestions)
	gen.AssertNumberOfCalls(t, "Generate", 1)
}

func TestSessionHandler_ApplySuggestion_BadIndex(t *testing.T) {
	store := newTestStore(new(testutil.MockGenerationService), new(testutil.MockCorrectionService))
	r := sessionRouter(NewSessionHandler(store, nil))
	id := store.Create().ID()

	rec := serve(r, httptest.NewRequest(http.MethodPost, "/sessions/"+id+"/suggestions/first/apply", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = serve(r, httptest.NewRequest(http.MethodPost, "/sessions/"+id+"/suggestions/3/apply", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "SES_002", decodeEnvelope[any](t, rec).Error.Code)
}

func TestSessionHandler_DownloadStructure(t *testing.T) {
	gen := &testutil.MockGenerationService{OutputMode: config.OutputModeMolecularData}
	gen.On("Generate", mock.Anything, "H2O").Return(&chem.GenerationResult{MolecularData: waterSDF}, nil)
	store := newTestStore(gen, new(testutil.MockCorrectionService))
	r := sessionRouter(NewSessionHandler(store, nil))
	c := store.Create()
	c.SetFormula("H2O")
	_, err := c.Generate(t.Context())
	require.NoError(t, err)

	rec := serve(r, httptest.NewRequest(http.MethodGet, "/sessions/"+c.ID()+"/download", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "chemical/x-mdl-sdfile", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="chemical_structure.sdf"`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, waterSDF, rec.Body.String())
	assert.Empty(t, rec.Header().Get(ArchiveURLHeader))
}

func TestSessionHandler_DownloadWithoutResult(t *testing.T) {
	store := newTestStore(new(testutil.MockGenerationService), new(testutil.MockCorrectionService))
	r := sessionRouter(NewSessionHandler(store, nil))
	id := store.Create().ID()

	rec := serve(r, httptest.NewRequest(http.MethodGet, "/sessions/"+id+"/download", nil))

	assert.Equal(t, http.StatusConflict, rec.Code)
	resp := decodeEnvelope[any](t, rec)
	assert.Equal(t, "DL_002", resp.Error.Code)
	assert.Equal(t, "No valid diagram to download", resp.Error.Message)
}

func TestSessionHandler_Delete(t *testing.T) {
	store := newTestStore(new(testutil.MockGenerationService), new(testutil.MockCorrectionService))
	r := sessionRouter(NewSessionHandler(store, nil))
	id := store.Create().ID()

	rec := serve(r, httptest.NewRequest(http.MethodDelete, "/sessions/"+id, nil))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, 0, store.Len())
}

func postJSONMethod(method, path, body string) *http.Request {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

//Personal.AI order the ending
