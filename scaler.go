package uiparticle

import (
	"github.com/gekko3d/uiparticle/core"
	"github.com/go-gl/mathgl/mgl32"
)

// compensateCanvasScale undoes the root canvas scale on n's transform when n
// ignores the canvas scaler. It reports whether the local scale was written.
// Proxies inherit their owner's compensation through the transform tree.
func compensateCanvasScale(n *Node) bool {
	if !n.ignoreCanvasScaler || n.isTrailProxy || n.canvas == nil || !n.transform.Valid() {
		return false
	}
	want := core.SafeReciprocal3(n.canvas.Scale())
	if approximately3(n.transform.Local().Scale, want) {
		return false
	}
	n.transform.Tree().SetLocalScale(n.transform.Id(), want)
	return true
}

func approximately3(a, b mgl32.Vec3) bool {
	return core.Approximately(a.X(), b.X()) && core.Approximately(a.Y(), b.Y()) && core.Approximately(a.Z(), b.Z())
}
