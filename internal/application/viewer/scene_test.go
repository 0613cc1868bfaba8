package viewer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/ChemDraw-AI/internal/config"
)

const waterSDF = `water
  ChemDraw3D

  3  2  0  0  0  0  0  0  0  0999 V2000
    0.0000    0.0000    0.1173 O   0  0  0  0  0  0  0  0  0  0  0  0
    0.0000    0.7572   -0.4692 H   0  0  0  0  0  0  0  0  0  0  0  0
    0.0000   -0.7572   -0.4692 H   0  0  0  0  0  0  0  0  0  0  0  0
  1  2  1  0  0  0  0
  1  3  1  0  0  0  0
M  END
$$$$
`

func TestSceneEngine_RendersWater(t *testing.T) {
	container := NewSceneContainer()
	w := NewWidget(StaticLoader(NewSceneEngine(nil)), container, config.ViewerConfig{})

	require.NoError(t, w.Render(context.Background(), waterSDF))
	scene := container.Scene()
	require.NotNil(t, scene)

	assert.Equal(t, 500, scene.Width)
	assert.Equal(t, 300, scene.Height)
	assert.Equal(t, "white", scene.Background)
	assert.Equal(t, "sdf", scene.Format)
	assert.Equal(t, waterSDF, scene.Data)
	assert.Len(t, scene.Atoms, 3)
	assert.Len(t, scene.Bonds, 2)
	assert.True(t, scene.Style.Stick)
	assert.Equal(t, 0.3, scene.Style.SphereRadius)
	assert.InDelta(t, 1.2, scene.Camera.Zoom, 1e-9)
	assert.Equal(t, int64(1000), scene.Camera.ZoomDuration)
	assert.Greater(t, scene.Camera.Radius, 0.0)
	assert.Equal(t, 1, scene.Frames)
}

func TestSceneEngine_MalformedPayloadRendersEmptyModel(t *testing.T) {
	container := NewSceneContainer()
	w := NewWidget(StaticLoader(NewSceneEngine(nil)), container, config.ViewerConfig{})

	require.NoError(t, w.Render(context.Background(), "HETATM garbage"))
	scene := container.Scene()
	require.NotNil(t, scene)
	assert.Empty(t, scene.Atoms)
	assert.Equal(t, "HETATM garbage", scene.Data)
}

func TestSceneEngine_NewPayloadReplacesScene(t *testing.T) {
	container := NewSceneContainer()
	w := NewWidget(StaticLoader(NewSceneEngine(nil)), container, config.ViewerConfig{})
	ctx := context.Background()

	require.NoError(t, w.Render(ctx, waterSDF))
	require.NoError(t, w.Render(ctx, "junk"))
	scene := container.Scene()
	require.NotNil(t, scene)
	assert.Empty(t, scene.Atoms)
	assert.Equal(t, 1, scene.Frames)
	assert.InDelta(t, 1.2, scene.Camera.Zoom, 1e-9)

	require.NoError(t, w.Render(ctx, ""))
	assert.Nil(t, container.Scene())
}

func TestSceneEngine_RejectsForeignContainer(t *testing.T) {
	_, err := NewSceneEngine(nil).CreateViewer(&fakeContainer{rec: &recorder{}}, ViewerOptions{})
	assert.Error(t, err)
}

func TestSceneViewer_UnsupportedFormat(t *testing.T) {
	v, err := NewSceneEngine(nil).CreateViewer(NewSceneContainer(), ViewerOptions{})
	require.NoError(t, err)
	assert.Error(t, v.AddModel("x", "pdb"))
}

//Personal.AI order the ending
