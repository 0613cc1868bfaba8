package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/turtacn/ChemDraw-AI/internal/application/chemdraw"
	"github.com/turtacn/ChemDraw-AI/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/ChemDraw-AI/pkg/errors"
	"github.com/turtacn/ChemDraw-AI/pkg/types/chem"
)

// ArchiveURLHeader carries the presigned URL of an archived download.
const ArchiveURLHeader = "X-Archive-URL"

// SessionHandler exposes controller sessions over JSON.
type SessionHandler struct {
	store  *chemdraw.SessionStore
	logger logging.Logger
}

// NewSessionHandler creates a SessionHandler.
func NewSessionHandler(store *chemdraw.SessionStore, logger logging.Logger) *SessionHandler {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &SessionHandler{store: store, logger: logger}
}

func (h *SessionHandler) session(w http.ResponseWriter, r *http.Request) (*chemdraw.Controller, bool) {
	c, err := h.store.Get(chi.URLParam(r, "id"))
	if err != nil {
		writeAppError(w, r, h.logger, err)
		return nil, false
	}
	return c, true
}

// Create handles POST /api/v1/sessions.
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	c := h.store.Create()
	w.Header().Set("Location", "/api/v1/sessions/"+c.ID())
	writeData(w, r, http.StatusCreated, c.View())
}

// Get handles GET /api/v1/sessions/{id}.
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	c, ok := h.session(w, r)
	if !ok {
		return
	}
	writeData(w, r, http.StatusOK, c.View())
}

// Delete handles DELETE /api/v1/sessions/{id}.
func (h *SessionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.session(w, r); !ok {
		return
	}
	h.store.Delete(chi.URLParam(r, "id"))
	w.WriteHeader(http.StatusNoContent)
}

// SetFormula handles PUT /api/v1/sessions/{id}/formula.
func (h *SessionHandler) SetFormula(w http.ResponseWriter, r *http.Request) {
	c, ok := h.session(w, r)
	if !ok {
		return
	}
	var req chem.SetFormulaRequest
	if err := decodeJSON(r, &req); err != nil {
		writeAppError(w, r, h.logger, err)
		return
	}
	writeData(w, r, http.StatusOK, c.SetFormula(req.Formula))
}

// Generate handles POST /api/v1/sessions/{id}/generate.  Failures that end
// in a terminal phase are part of the view and answer 200; only a rejected
// concurrent attempt is an error.
func (h *SessionHandler) Generate(w http.ResponseWriter, r *http.Request) {
	c, ok := h.session(w, r)
	if !ok {
		return
	}
	view, err := c.Generate(r.Context())
	if err != nil {
		writeAppError(w, r, h.logger, err)
		return
	}
	writeData(w, r, http.StatusOK, view)
}

// ApplySuggestion handles POST /api/v1/sessions/{id}/suggestions/{index}/apply.
func (h *SessionHandler) ApplySuggestion(w http.ResponseWriter, r *http.Request) {
	c, ok := h.session(w, r)
	if !ok {
		return
	}
	idx, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		writeAppError(w, r, h.logger, errors.InvalidParam("suggestion index must be an integer"))
		return
	}
	view, err := c.ApplySuggestion(idx)
	if err != nil {
		writeAppError(w, r, h.logger, err)
		return
	}
	writeData(w, r, http.StatusOK, view)
}

// Download handles GET /api/v1/sessions/{id}/download.
func (h *SessionHandler) Download(w http.ResponseWriter, r *http.Request) {
	c, ok := h.session(w, r)
	if !ok {
		return
	}
	f, err := c.Download(r.Context())
	if err != nil {
		writeAppError(w, r, h.logger, err)
		return
	}
	writeFile(w, f)
}

// writeFile sends f as an attachment.
func writeFile(w http.ResponseWriter, f *chemdraw.File) {
	w.Header().Set("Content-Type", f.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", f.Name))
	w.Header().Set("Content-Length", strconv.Itoa(len(f.Data)))
	if f.Archive != nil && f.Archive.URL != "" {
		w.Header().Set(ArchiveURLHeader, f.Archive.URL)
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(f.Data)
}

//Personal.AI order the ending
