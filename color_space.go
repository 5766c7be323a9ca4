package uiparticle

// applyColorSpace converts the combined mesh to linear colors when the
// display pipeline is linear.
func (s *System) applyColorSpace(n *Node) {
	if s.cfg.ColorSpace != ColorSpaceLinear || n.activeSlots.Empty() {
		return
	}
	n.bakedMesh.ModifyColorSpaceToLinear()
}
