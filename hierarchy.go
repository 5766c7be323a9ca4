package uiparticle

import (
	"fmt"
	"slices"

	"github.com/gekko3d/uiparticle/uitree"
)

// Hierarchy links nodes by following the UI transform tree. Links are ids;
// a parent never owns its children.
type Hierarchy struct {
	nodes *nodeArena
}

// ResolveParent walks up the transform chain, skipping transforms without a
// node, and returns the nearest enabled ancestor node.
func (h *Hierarchy) ResolveParent(id NodeId) NodeId {
	n := h.nodes.get(id)
	if n == nil || !n.enabled || n.ignoreParentScale {
		return NoNode
	}
	for t := n.transform.Parent(); t.Valid(); t = t.Parent() {
		pid, ok := h.nodes.at(t.Id())
		if !ok {
			continue
		}
		if p := h.nodes.get(pid); p != nil && p.enabled {
			return pid
		}
	}
	return NoNode
}

// SetParent moves id from its current parent's child set to newParent's.
// Destroyed entries found in either child set are pruned.
func (h *Hierarchy) SetParent(id, newParent NodeId) error {
	n := h.nodes.get(id)
	if n == nil {
		return fmt.Errorf("set parent of %d: %w", id, ErrUnknownNode)
	}
	if h.nodes.get(newParent) == nil {
		newParent = NoNode
	}
	if newParent != NoNode && newParent != id && h.isDescendant(newParent, id) {
		return fmt.Errorf("set parent of %d to %d: %w", id, newParent, ErrNodeCycle)
	}

	if n.parent != newParent && id != newParent {
		if old := h.nodes.get(n.parent); old != nil {
			old.children = h.prune(slices.DeleteFunc(old.children, func(c NodeId) bool { return c == id }))
		}
		n.parent = newParent
	}

	if p := h.nodes.get(n.parent); p != nil && !slices.Contains(p.children, id) {
		p.children = append(h.prune(p.children), id)
	}
	return nil
}

func (h *Hierarchy) prune(children []NodeId) []NodeId {
	return slices.DeleteFunc(children, func(c NodeId) bool { return h.nodes.get(c) == nil })
}

// isDescendant reports whether candidate is id or sits below it.
func (h *Hierarchy) isDescendant(candidate, id NodeId) bool {
	for steps := 0; candidate != NoNode && steps <= len(h.nodes.nodes); steps++ {
		if candidate == id {
			return true
		}
		c := h.nodes.get(candidate)
		if c == nil {
			return false
		}
		candidate = c.parent
	}
	return false
}

// TransformParentChanged re-resolves id's parent.
func (h *Hierarchy) TransformParentChanged(id NodeId) error {
	return h.SetParent(id, h.ResolveParent(id))
}

// Reresolve re-resolves every node in the transform subtree of id, deepest first.
func (h *Hierarchy) Reresolve(id NodeId) error {
	n := h.nodes.get(id)
	if n == nil {
		return fmt.Errorf("reresolve %d: %w", id, ErrUnknownNode)
	}
	return h.ReresolveTransform(n.transform.Tree(), n.transform.Id())
}

// ReresolveTransform re-resolves every node at or below transform t, deepest
// first. Transforms without a node are walked through.
func (h *Hierarchy) ReresolveTransform(tree *uitree.Tree, t uitree.TransformId) error {
	subtree := tree.Descendants(t)
	for i := len(subtree) - 1; i >= 0; i-- {
		if cid, ok := h.nodes.at(subtree[i]); ok {
			if err := h.TransformParentChanged(cid); err != nil {
				return err
			}
		}
	}
	return nil
}

// EffectiveScale is the root ancestor's own scale. Scale is inherited, not
// multiplied; a node ignoring its parent uses its own.
func (h *Hierarchy) EffectiveScale(id NodeId) float32 {
	n := h.nodes.get(id)
	if n == nil {
		return 1
	}
	for steps := 0; steps <= len(h.nodes.nodes); steps++ {
		if n.ignoreParentScale {
			return n.scale
		}
		p := h.nodes.get(n.parent)
		if p == nil {
			return n.scale
		}
		n = p
	}
	return n.scale
}
