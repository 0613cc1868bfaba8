// Package chem defines the request, response and view types of the ChemDraw
// AI API.  Plain data only; safe to import from any layer and from SDK users.
package chem

// ─────────────────────────────────────────────────────────────────────────────
// Service contracts
// ─────────────────────────────────────────────────────────────────────────────

// GenerateRequest asks for a diagram or structure for Formula.  The formula is
// opaque; no validation is applied before it reaches the model.
type GenerateRequest struct {
	Formula string `json:"formula"`
}

// GenerationResult carries exactly one representation.  Which one is fixed by
// the deployment's output mode.
type GenerationResult struct {
	DiagramURL    string `json:"diagramUrl,omitempty"`
	MolecularData string `json:"molecularData,omitempty"`
}

// IsEmpty reports whether neither representation is present.
func (r GenerationResult) IsEmpty() bool {
	return r.DiagramURL == "" && r.MolecularData == ""
}

// CorrectionRequest asks for formula corrections.
type CorrectionRequest struct {
	Formula string `json:"formula"`
}

// CorrectionResult lists corrected formulas in the order the model ranked
// them.  An empty list means the input was judged valid.
type CorrectionResult struct {
	CorrectedFormulas []string `json:"correctedFormulas"`
	Interpretation    string   `json:"interpretation,omitempty"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Controller session
// ─────────────────────────────────────────────────────────────────────────────

// Phase is the controller's position in the generate/correct sequence.
type Phase string

const (
	PhaseIdle             Phase = "idle"
	PhaseGenerating       Phase = "generating"
	PhaseCorrecting       Phase = "correcting"
	PhaseSuccess          Phase = "success"
	PhaseSuggestionsShown Phase = "suggestions_shown"
	PhaseInvalidFormula   Phase = "invalid_formula"
	PhaseFailed           Phase = "failed"
)

// IsTerminal reports whether p ends a generation attempt.
func (p Phase) IsTerminal() bool {
	switch p {
	case PhaseSuccess, PhaseSuggestionsShown, PhaseInvalidFormula, PhaseFailed:
		return true
	}
	return false
}

// DisplayKind says how the current result is shown.
type DisplayKind string

const (
	DisplayNone   DisplayKind = "none"
	DisplayImage  DisplayKind = "image"
	DisplayViewer DisplayKind = "viewer"
)

// Display is what the page shows for the current result.
type Display struct {
	Kind DisplayKind `json:"kind"`
	// ImageSrc is the allow-listed diagram URL or the placeholder.
	ImageSrc string `json:"imageSrc,omitempty"`
	// Rejected is true when the model's URL failed the allow-list.
	Rejected bool   `json:"rejected,omitempty"`
	Scene    *Scene `json:"scene,omitempty"`
}

// SessionView is a snapshot of one controller session.
type SessionView struct {
	ID          string            `json:"id"`
	Formula     string            `json:"formula"`
	Phase       Phase             `json:"phase"`
	Loading     bool              `json:"loading"`
	Result      *GenerationResult `json:"result,omitempty"`
	Error       string            `json:"error,omitempty"`
	Suggestions []string          `json:"suggestions"`
	Display     Display           `json:"display"`
}

// SetFormulaRequest replaces the formula text of a session.
type SetFormulaRequest struct {
	Formula string `json:"formula"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Viewer scene
// ─────────────────────────────────────────────────────────────────────────────

// SceneAtom is one sphere.
type SceneAtom struct {
	Element string  `json:"elem"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Z       float64 `json:"z"`
}

// SceneBond is one stick between atoms referenced by zero-based index.
type SceneBond struct {
	From  int `json:"from"`
	To    int `json:"to"`
	Order int `json:"order"`
}

// SceneStyle mirrors the viewer's stick/sphere style.
type SceneStyle struct {
	Stick        bool    `json:"stick"`
	SphereRadius float64 `json:"sphereRadius"`
}

// SceneCamera describes the fitted view and the closing zoom animation.
type SceneCamera struct {
	Center       [3]float64 `json:"center"`
	Radius       float64    `json:"radius"`
	Zoom         float64    `json:"zoom"`
	ZoomDuration int64      `json:"zoomDurationMs"`
}

// Scene is the rendered state of the molecule viewer.
type Scene struct {
	Width      int         `json:"width"`
	Height     int         `json:"height"`
	Background string      `json:"background"`
	Format     string      `json:"format"`
	Data       string      `json:"data"`
	Atoms      []SceneAtom `json:"atoms"`
	Bonds      []SceneBond `json:"bonds"`
	Style      SceneStyle  `json:"style"`
	Camera     SceneCamera `json:"camera"`
	Frames     int         `json:"frames"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Download
// ─────────────────────────────────────────────────────────────────────────────

// DownloadKind distinguishes diagram images from structure files.
type DownloadKind string

const (
	DownloadDiagram   DownloadKind = "diagram"
	DownloadStructure DownloadKind = "structure"
)

// ArchiveLink points at an archived copy of a download.
type ArchiveLink struct {
	URL       string `json:"url"`
	ObjectKey string `json:"objectKey"`
}

//Personal.AI order the ending
