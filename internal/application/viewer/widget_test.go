package viewer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/turtacn/ChemDraw-AI/internal/config"
	"github.com/turtacn/ChemDraw-AI/internal/infrastructure/monitoring/logging"
	pkgerrors "github.com/turtacn/ChemDraw-AI/pkg/errors"
)

// recorder collects calls from the fake engine in order.
type recorder struct {
	calls []string
}

func (r *recorder) add(format string, args ...interface{}) {
	r.calls = append(r.calls, fmt.Sprintf(format, args...))
}

type fakeContainer struct{ rec *recorder }

func (c *fakeContainer) Clear() { c.rec.add("container.Clear") }

type fakeEngine struct {
	rec       *recorder
	createErr error
	addErr    error
	created   int
}

func (e *fakeEngine) CreateViewer(_ Container, opts ViewerOptions) (Viewer3D, error) {
	if e.createErr != nil {
		return nil, e.createErr
	}
	e.created++
	id := e.created
	e.rec.add("CreateViewer#%d %dx%d %s", id, opts.Width, opts.Height, opts.BackgroundColor)
	return &fakeViewer{id: id, rec: e.rec, addErr: e.addErr}, nil
}

type fakeViewer struct {
	id     int
	rec    *recorder
	addErr error
}

func (v *fakeViewer) AddModel(data, format string) error {
	v.rec.add("#%d AddModel %s %s", v.id, format, data)
	return v.addErr
}

func (v *fakeViewer) SetStyle(sel Selector, style Style) {
	v.rec.add("#%d SetStyle sel=%d stick=%t sphere=%.1f", v.id, len(sel), style.Stick != nil, style.Sphere.Radius)
}
func (v *fakeViewer) ZoomTo() { v.rec.add("#%d ZoomTo", v.id) }
func (v *fakeViewer) Render() { v.rec.add("#%d Render", v.id) }
func (v *fakeViewer) Zoom(f float64, d time.Duration) {
	v.rec.add("#%d Zoom %.1f %s", v.id, f, d)
}
func (v *fakeViewer) Clear() { v.rec.add("#%d Clear", v.id) }

func newFakeWidget(engine *fakeEngine, rec *recorder, loads *int) *Widget {
	loader := func(context.Context) (Engine, error) {
		*loads++
		return engine, nil
	}
	return NewWidget(loader, &fakeContainer{rec: rec}, config.ViewerConfig{})
}

func TestWidget_RenderSequence(t *testing.T) {
	rec := &recorder{}
	loads := 0
	w := newFakeWidget(&fakeEngine{rec: rec}, rec, &loads)

	require.NoError(t, w.Render(context.Background(), "MOL"))
	assert.Equal(t, 1, loads)
	assert.Equal(t, []string{
		"container.Clear",
		"CreateViewer#1 500x300 white",
		"#1 AddModel sdf MOL",
		"#1 SetStyle sel=0 stick=true sphere=0.3",
		"#1 ZoomTo",
		"#1 Render",
		"#1 Zoom 1.2 1s",
	}, rec.calls)
}

func TestWidget_RerenderDiscardsPreviousViewer(t *testing.T) {
	rec := &recorder{}
	loads := 0
	w := newFakeWidget(&fakeEngine{rec: rec}, rec, &loads)

	require.NoError(t, w.Render(context.Background(), "A"))
	rec.calls = nil
	require.NoError(t, w.Render(context.Background(), "B"))

	require.GreaterOrEqual(t, len(rec.calls), 3)
	assert.Equal(t, "#1 Clear", rec.calls[0])
	assert.Equal(t, "container.Clear", rec.calls[1])
	assert.Equal(t, "CreateViewer#2 500x300 white", rec.calls[2])
	for _, c := range rec.calls[2:] {
		assert.False(t, strings.HasPrefix(c, "#1"), c)
	}
}

func TestWidget_EmptyPayloadClears(t *testing.T) {
	rec := &recorder{}
	loads := 0
	w := newFakeWidget(&fakeEngine{rec: rec}, rec, &loads)

	require.NoError(t, w.Render(context.Background(), "A"))
	rec.calls = nil
	require.NoError(t, w.Render(context.Background(), ""))

	assert.Equal(t, []string{"#1 Clear", "container.Clear"}, rec.calls)
	assert.Equal(t, 1, loads)
}

func TestWidget_EngineLoadFailureIsLoggedOnly(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	rec := &recorder{}
	loader := func(context.Context) (Engine, error) { return nil, errors.New("module not found") }
	w := NewWidget(loader, &fakeContainer{rec: rec}, config.ViewerConfig{}, WithLogger(logging.NewLoggerFromCore(core)))

	assert.NoError(t, w.Render(context.Background(), "A"))
	assert.Equal(t, []string{"container.Clear"}, rec.calls)

	entries := logs.FilterMessage("molecule viewer unavailable").All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.ErrorLevel, entries[0].Level)
}

func TestWidget_EngineErrors(t *testing.T) {
	rec := &recorder{}
	loads := 0
	w := newFakeWidget(&fakeEngine{rec: rec, createErr: errors.New("no webgl")}, rec, &loads)
	err := w.Render(context.Background(), "A")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.ErrCodeRenderFailed))

	w = newFakeWidget(&fakeEngine{rec: rec, addErr: errors.New("bad format")}, rec, &loads)
	err = w.Render(context.Background(), "A")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.ErrCodeRenderFailed))
}

func TestWidget_CustomConfig(t *testing.T) {
	rec := &recorder{}
	loads := 0
	loader := func(context.Context) (Engine, error) { loads++; return &fakeEngine{rec: rec}, nil }
	w := NewWidget(loader, &fakeContainer{rec: rec}, config.ViewerConfig{Width: 800, Background: "black", ZoomFactor: 2})

	require.NoError(t, w.Render(context.Background(), "A"))
	assert.Contains(t, rec.calls, "CreateViewer#1 800x300 black")
	assert.Contains(t, rec.calls, "#1 Zoom 2.0 1s")
}

func TestWidget_Close(t *testing.T) {
	rec := &recorder{}
	loads := 0
	w := newFakeWidget(&fakeEngine{rec: rec}, rec, &loads)
	require.NoError(t, w.Render(context.Background(), "A"))
	rec.calls = nil

	w.Close()
	assert.Equal(t, []string{"#1 Clear", "container.Clear"}, rec.calls)
}

//Personal.AI order the ending
