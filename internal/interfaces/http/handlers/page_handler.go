package handlers

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"
	"strconv"
	"strings"

	"github.com/turtacn/ChemDraw-AI/internal/application/chemdraw"
	"github.com/turtacn/ChemDraw-AI/internal/config"
	"github.com/turtacn/ChemDraw-AI/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/ChemDraw-AI/pkg/errors"
	"github.com/turtacn/ChemDraw-AI/pkg/types/chem"
)

// SessionCookie names the cookie that binds a browser to its session.
const SessionCookie = "chemdraw_session"

//go:embed templates/page.html
var templateFS embed.FS

var pageTemplate = template.Must(template.New("page.html").Funcs(template.FuncMap{
	"ms": func(c config.ViewerConfig) int64 { return c.ZoomDuration.Milliseconds() },
}).ParseFS(templateFS, "templates/page.html"))

type pageData struct {
	View        chem.SessionView
	Viewer      config.ViewerConfig
	CanGenerate bool
	CanDownload bool
	Notice      string
}

// PageHandler serves the single-page UI.  All state lives in the session
// named by the cookie; the form actions redirect back to the page.
type PageHandler struct {
	store  *chemdraw.SessionStore
	viewer config.ViewerConfig
	secure bool
	logger logging.Logger
}

// PageOption configures a PageHandler.
type PageOption func(*PageHandler)

// WithSecureCookie marks the session cookie Secure.
func WithSecureCookie(secure bool) PageOption {
	return func(h *PageHandler) { h.secure = secure }
}

// NewPageHandler creates a PageHandler.
func NewPageHandler(store *chemdraw.SessionStore, viewer config.ViewerConfig, logger logging.Logger, opts ...PageOption) *PageHandler {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	h := &PageHandler{store: store, viewer: viewer, logger: logger}
	for _, o := range opts {
		o(h)
	}
	return h
}

func (h *PageHandler) controller(w http.ResponseWriter, r *http.Request) *chemdraw.Controller {
	var id string
	if ck, err := r.Cookie(SessionCookie); err == nil {
		id = ck.Value
	}
	c, created := h.store.GetOrCreate(id)
	if created {
		http.SetCookie(w, &http.Cookie{
			Name:     SessionCookie,
			Value:    c.ID(),
			Path:     "/",
			HttpOnly: true,
			Secure:   h.secure,
			SameSite: http.SameSiteLaxMode,
		})
	}
	return c
}

// Index handles GET /.
func (h *PageHandler) Index(w http.ResponseWriter, r *http.Request) {
	c := h.controller(w, r)
	h.render(w, http.StatusOK, c.View(), "")
}

// Generate handles POST /ui/generate.
func (h *PageHandler) Generate(w http.ResponseWriter, r *http.Request) {
	c := h.controller(w, r)
	if err := r.ParseForm(); err != nil {
		h.render(w, http.StatusBadRequest, c.View(), "The form could not be read.")
		return
	}
	c.SetFormula(r.PostForm.Get("formula"))
	if _, err := c.Generate(r.Context()); err != nil {
		h.render(w, errors.HTTPStatusForCode(errors.GetCode(err)), c.View(), errors.Message(err))
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Apply handles POST /ui/apply.  Only the formula changes; the page keeps
// showing the error and the suggestions until the next Generate.
func (h *PageHandler) Apply(w http.ResponseWriter, r *http.Request) {
	c := h.controller(w, r)
	if err := r.ParseForm(); err != nil {
		h.render(w, http.StatusBadRequest, c.View(), "The form could not be read.")
		return
	}
	idx, err := strconv.Atoi(strings.TrimSpace(r.PostForm.Get("index")))
	if err != nil {
		h.render(w, http.StatusBadRequest, c.View(), "Unknown suggestion.")
		return
	}
	if _, err := c.ApplySuggestion(idx); err != nil {
		h.render(w, errors.HTTPStatusForCode(errors.GetCode(err)), c.View(), errors.Message(err))
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Download handles GET /ui/download.  A failure re-renders the page with
// the download error as a notice.
func (h *PageHandler) Download(w http.ResponseWriter, r *http.Request) {
	c := h.controller(w, r)
	f, err := c.Download(r.Context())
	if err != nil {
		h.logger.Warn("page download failed", logging.String("session_id", c.ID()), logging.Err(err))
		h.render(w, errors.HTTPStatusForCode(errors.GetCode(err)), c.View(), errors.Message(err))
		return
	}
	writeFile(w, f)
}

func (h *PageHandler) render(w http.ResponseWriter, status int, v chem.SessionView, notice string) {
	data := pageData{
		View:        v,
		Viewer:      h.viewer,
		CanGenerate: !v.Loading,
		CanDownload: v.Result != nil && !v.Result.IsEmpty(),
		Notice:      notice,
	}
	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, data); err != nil {
		h.logger.Error("page render failed", logging.Err(err))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

//Personal.AI order the ending
