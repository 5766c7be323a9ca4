package uiparticle

import (
	"github.com/gekko3d/uiparticle/core"
	"github.com/gekko3d/uiparticle/uitree"
	"github.com/go-gl/mathgl/mgl32"
)

const bakingCameraName = "[UIParticle] Baking Camera"

// CameraProvider hands out the camera used to orient particle bakes. Overlay
// canvases get a hidden orthographic camera per canvas; scene cameras are
// returned as-is and never modified. A nil canvas shares one hidden camera.
type CameraProvider struct {
	hidden map[*uitree.Canvas]*core.Camera
}

func NewCameraProvider() *CameraProvider {
	return &CameraProvider{hidden: make(map[*uitree.Canvas]*core.Camera)}
}

func (p *CameraProvider) BakingCamera(canvas *uitree.Canvas) *core.Camera {
	if canvas != nil && canvas.RenderMode != uitree.ScreenSpaceOverlay && canvas.WorldCamera != nil {
		return canvas.WorldCamera
	}

	pos := mgl32.Vec3{}
	if canvas != nil {
		pos = canvas.Root.Position()
	}
	cam, ok := p.hidden[canvas]
	if !ok {
		cam = core.NewOrthographicCamera(bakingCameraName, pos, 10)
		p.hidden[canvas] = cam
	}
	// Follow the canvas so the view volume stays centered on it.
	cam.Position = pos
	return cam
}

// Release drops the hidden camera of canvas.
func (p *CameraProvider) Release(canvas *uitree.Canvas) {
	delete(p.hidden, canvas)
}

// Reset drops every hidden camera.
func (p *CameraProvider) Reset() {
	clear(p.hidden)
}

// Len is the number of hidden cameras alive.
func (p *CameraProvider) Len() int {
	return len(p.hidden)
}
