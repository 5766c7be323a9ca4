package uiparticle

import "github.com/gekko3d/uiparticle/core"

// resolveMainTexture picks the texture uploaded with n's mesh: the first
// sprite of the primary source's sprite sheet, then the renderer material's
// main texture (the trail material for proxies), then opaque white.
func resolveMainTexture(n *Node) *core.Texture {
	if len(n.sources) == 0 {
		return core.WhiteTexture()
	}
	ps, r := n.sources[0].Particles, n.sources[0].Renderer

	if !n.isTrailProxy && ps != nil {
		sheet := ps.TextureSheet()
		if sheet != nil && sheet.Enabled && sheet.Mode == core.SheetAnimationSprites && sheet.SpriteCount() > 0 {
			if tex := sheet.Sprite(0); tex != nil {
				return tex
			}
		}
	}

	if r != nil {
		mat := r.Material()
		if n.isTrailProxy {
			mat = r.TrailMaterial()
		}
		if mat != nil && mat.HasMainTexture && mat.MainTexture != nil {
			return mat.MainTexture
		}
	}
	return core.WhiteTexture()
}
