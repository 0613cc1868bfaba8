package viewer

import (
	"fmt"
	"sync"
	"time"

	"github.com/turtacn/ChemDraw-AI/internal/domain/molecule"
	"github.com/turtacn/ChemDraw-AI/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/ChemDraw-AI/pkg/types/chem"
)

// SceneContainer holds the last frame rendered into it.  The HTTP layer reads
// the frame and the page replays it client side.
type SceneContainer struct {
	mu    sync.RWMutex
	scene *chem.Scene
}

// NewSceneContainer returns an empty container.
func NewSceneContainer() *SceneContainer {
	return &SceneContainer{}
}

// Clear removes the current frame.
func (c *SceneContainer) Clear() {
	c.mu.Lock()
	c.scene = nil
	c.mu.Unlock()
}

func (c *SceneContainer) mount(s chem.Scene) {
	c.mu.Lock()
	c.scene = &s
	c.mu.Unlock()
}

// Scene returns a copy of the current frame, or nil.
func (c *SceneContainer) Scene() *chem.Scene {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.scene == nil {
		return nil
	}
	s := *c.scene
	return &s
}

// SceneEngine builds scenes from SDF payloads with the molecule parser.  It
// only draws into *SceneContainer.
type SceneEngine struct {
	logger logging.Logger
}

// NewSceneEngine returns the built-in engine.
func NewSceneEngine(log logging.Logger) *SceneEngine {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &SceneEngine{logger: log}
}

func (e *SceneEngine) CreateViewer(container Container, opts ViewerOptions) (Viewer3D, error) {
	sc, ok := container.(*SceneContainer)
	if !ok {
		return nil, fmt.Errorf("scene engine cannot draw into %T", container)
	}
	return &sceneViewer{
		container: sc,
		logger:    e.logger,
		scene: chem.Scene{
			Width:      opts.Width,
			Height:     opts.Height,
			Background: opts.BackgroundColor,
			Camera:     chem.SceneCamera{Zoom: 1},
		},
	}, nil
}

type sceneViewer struct {
	container *SceneContainer
	logger    logging.Logger
	mol       *molecule.Molecule
	scene     chem.Scene
	cleared   bool
}

func (v *sceneViewer) AddModel(data, format string) error {
	if format != FormatSDF {
		return fmt.Errorf("unsupported model format %q", format)
	}
	v.scene.Format = format
	v.scene.Data = data

	mol, err := molecule.ParseSDF(data)
	if err != nil {
		// Malformed payloads render as an empty model.
		v.logger.Debug("payload did not parse as SDF", logging.Err(err))
		mol = &molecule.Molecule{}
	}
	v.mol = mol
	v.scene.Atoms = make([]chem.SceneAtom, len(mol.Atoms))
	for i, a := range mol.Atoms {
		v.scene.Atoms[i] = chem.SceneAtom{Element: a.Element, X: a.X, Y: a.Y, Z: a.Z}
	}
	v.scene.Bonds = make([]chem.SceneBond, len(mol.Bonds))
	for i, b := range mol.Bonds {
		v.scene.Bonds[i] = chem.SceneBond{From: b.From, To: b.To, Order: b.Order}
	}
	return nil
}

func (v *sceneViewer) SetStyle(_ Selector, style Style) {
	v.scene.Style = chem.SceneStyle{Stick: style.Stick != nil}
	if style.Sphere != nil {
		v.scene.Style.SphereRadius = style.Sphere.Radius
	}
}

func (v *sceneViewer) ZoomTo() {
	if v.mol == nil {
		return
	}
	v.scene.Camera.Center = v.mol.Centroid()
	v.scene.Camera.Radius = v.mol.BoundingRadius()
}

func (v *sceneViewer) Render() {
	if v.cleared {
		return
	}
	v.scene.Frames++
	v.container.mount(v.scene)
}

func (v *sceneViewer) Zoom(factor float64, duration time.Duration) {
	if v.cleared {
		return
	}
	v.scene.Camera.Zoom *= factor
	v.scene.Camera.ZoomDuration = duration.Milliseconds()
	v.container.mount(v.scene)
}

func (v *sceneViewer) Clear() {
	v.cleared = true
	v.mol = nil
	v.scene.Atoms = nil
	v.scene.Bonds = nil
}

//Personal.AI order the ending
