package uiparticle

import (
	"errors"
	"fmt"
	"slices"

	"github.com/gekko3d/uiparticle/core"
	"github.com/gekko3d/uiparticle/uitree"
	"github.com/go-gl/mathgl/mgl32"
)

// NodeId addresses a node in a System. Ids of destroyed nodes are not reused.
type NodeId uint32

const NoNode NodeId = ^NodeId(0)

var (
	ErrUnknownNode       = errors.New("uiparticle: unknown node")
	ErrNodeDestroyed     = errors.New("uiparticle: node destroyed")
	ErrTransformOccupied = errors.New("uiparticle: transform already carries a node")
	ErrForeignTransform  = errors.New("uiparticle: transform belongs to another tree")
	ErrNodeCycle         = errors.New("uiparticle: node would become its own ancestor")
)

const trailProxyName = "[UIParticle] Trail"

// NodeOptions are fixed at construction; sources are injected, never looked up.
type NodeOptions struct {
	Name      string
	Transform uitree.Ref
	Canvas    *uitree.Canvas
	Sources   []Source
	// Scale defaults to 1 when zero; use SetScale for an explicit zero.
	Scale              float32
	IgnoreParentScale  bool
	IgnoreCanvasScaler bool
}

// Node bakes one or more particle sources into a single UI mesh.
type Node struct {
	id        NodeId
	name      string
	transform uitree.Ref
	canvas    *uitree.Canvas
	sources   []Source

	scale              float32
	ignoreParentScale  bool
	ignoreCanvasScaler bool
	isTrailProxy       bool
	enabled            bool

	cachedPosition mgl32.Vec3
	activeSlots    SlotMask
	bakedMesh      *core.Mesh

	parent   NodeId
	children []NodeId
	trail    NodeId
}

func (n *Node) Id() NodeId                 { return n.id }
func (n *Node) Name() string               { return n.name }
func (n *Node) Transform() uitree.Ref      { return n.transform }
func (n *Node) Canvas() *uitree.Canvas     { return n.canvas }
func (n *Node) Sources() []Source          { return slices.Clone(n.sources) }
func (n *Node) OwnScale() float32          { return n.scale }
func (n *Node) IgnoreParentScale() bool    { return n.ignoreParentScale }
func (n *Node) IgnoreCanvasScaler() bool   { return n.ignoreCanvasScaler }
func (n *Node) IsTrailProxy() bool         { return n.isTrailProxy }
func (n *Node) Enabled() bool              { return n.enabled }
func (n *Node) CachedPosition() mgl32.Vec3 { return n.cachedPosition }
func (n *Node) Parent() NodeId             { return n.parent }
func (n *Node) Children() []NodeId         { return slices.Clone(n.children) }
func (n *Node) TrailProxy() NodeId         { return n.trail }
func (n *Node) IsRoot() bool               { return n.parent == NoNode }

// ActiveSlots is the slot set that made up the last combined mesh.
func (n *Node) ActiveSlots() SlotMask { return n.activeSlots.Clone() }

// BakedMesh is nil while the node is disabled.
func (n *Node) BakedMesh() *core.Mesh { return n.bakedMesh }

// nodeArena stores nodes by id and indexes them by transform.
type nodeArena struct {
	nodes       []*Node
	byTransform map[uitree.TransformId]NodeId
}

func newNodeArena() nodeArena {
	return nodeArena{byTransform: make(map[uitree.TransformId]NodeId)}
}

func (a *nodeArena) get(id NodeId) *Node {
	if id == NoNode || int(id) >= len(a.nodes) {
		return nil
	}
	return a.nodes[id]
}

// at finds the node carrying t. Entries whose transform was removed from
// the tree, and possibly reused, are dropped.
func (a *nodeArena) at(t uitree.TransformId) (NodeId, bool) {
	id, ok := a.byTransform[t]
	if !ok {
		return NoNode, false
	}
	if n := a.get(id); n == nil || !n.transform.Valid() {
		delete(a.byTransform, t)
		return NoNode, false
	}
	return id, true
}

func (a *nodeArena) insert(tree *uitree.Tree, opts NodeOptions) (*Node, error) {
	if !opts.Transform.Valid() {
		return nil, fmt.Errorf("node %q: %w", opts.Name, uitree.ErrUnknownTransform)
	}
	if opts.Transform.Tree() != tree {
		return nil, fmt.Errorf("node %q: %w", opts.Name, ErrForeignTransform)
	}
	if other, ok := a.at(opts.Transform.Id()); ok {
		return nil, fmt.Errorf("node %q on transform %d (node %d): %w", opts.Name, opts.Transform.Id(), other, ErrTransformOccupied)
	}
	scale := opts.Scale
	if scale == 0 {
		scale = 1
	}
	n := &Node{
		id:                 NodeId(len(a.nodes)),
		name:               opts.Name,
		transform:          opts.Transform,
		canvas:             opts.Canvas,
		sources:            slices.Clone(opts.Sources),
		scale:              scale,
		ignoreParentScale:  opts.IgnoreParentScale,
		ignoreCanvasScaler: opts.IgnoreCanvasScaler,
		parent:             NoNode,
		trail:              NoNode,
	}
	a.nodes = append(a.nodes, n)
	a.byTransform[opts.Transform.Id()] = n.id
	return n, nil
}

func (a *nodeArena) remove(id NodeId) {
	n := a.get(id)
	if n == nil {
		return
	}
	if cur, ok := a.byTransform[n.transform.Id()]; ok && cur == id {
		delete(a.byTransform, n.transform.Id())
	}
	a.nodes[id] = nil
}
