package uitree

import (
	"github.com/gekko3d/uiparticle/core"
	"github.com/go-gl/mathgl/mgl32"
)

type RenderMode int

const (
	// ScreenSpaceOverlay canvases are composited straight onto the display.
	ScreenSpaceOverlay RenderMode = iota
	ScreenSpaceCamera
	WorldSpace
)

// Canvas is the root of a UI hierarchy. Its root transform's local scale is
// the canvas scaler output.
type Canvas struct {
	Root        Ref
	RenderMode  RenderMode
	WorldCamera *core.Camera
}

func NewCanvas(root Ref, mode RenderMode) *Canvas {
	return &Canvas{Root: root, RenderMode: mode}
}

// Scale is the root canvas local scale; (1,1,1) for a canvas without root.
func (c *Canvas) Scale() mgl32.Vec3 {
	if c == nil || !c.Root.Valid() {
		return mgl32.Vec3{1, 1, 1}
	}
	return c.Root.Local().Scale
}
