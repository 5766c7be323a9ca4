package uiparticle

import (
	"errors"
	"fmt"
	"slices"

	"github.com/gekko3d/uiparticle/core"
	"github.com/gekko3d/uiparticle/uitree"
	"github.com/go-gl/mathgl/mgl32"
)

var (
	ErrNodePanic = errors.New("uiparticle: node update panicked")
	ErrBakePanic = errors.New("uiparticle: bake panicked")
)

// NodeError is one node's failed update in a frame.
type NodeError struct {
	Node NodeId
	Name string
	Err  error
}

func (e *NodeError) Error() string {
	return fmt.Sprintf("node %d (%q): %v", e.Node, e.Name, e.Err)
}

func (e *NodeError) Unwrap() error { return e.Err }

// FrameReport summarizes one Tick.
type FrameReport struct {
	Frame    uint64
	Updated  int
	Failures []*NodeError
}

// System owns the nodes of one UI tree and updates them once per Tick. It is
// not safe for concurrent use; scratch buffers are shared across nodes.
type System struct {
	cfg Config
	log Logger

	tree      *uitree.Tree
	nodes     nodeArena
	hierarchy *Hierarchy
	registry  *Registry
	cameras   *CameraProvider
	slots     *SlotPool
	patch     *PatchBuffer
	output    CanvasRenderer

	frame uint64
}

func NewSystem(tree *uitree.Tree, output CanvasRenderer, cfg Config) *System {
	if tree == nil {
		panic("uiparticle: NewSystem requires a tree")
	}
	cfg = cfg.withDefaults()
	s := &System{
		cfg:     cfg,
		log:     cfg.Logger,
		tree:    tree,
		nodes:   newNodeArena(),
		cameras: NewCameraProvider(),
		slots:   NewSlotPool(),
		patch:   NewPatchBuffer(cfg.PatchBufferCapacity),
		output:  output,
	}
	s.hierarchy = &Hierarchy{nodes: &s.nodes}

	hooks := cfg.Hooks
	s.registry = NewRegistry(RegistryHooks{
		Install: func() {
			s.log.Debugf("first node active, frame hook installed")
			if hooks.Install != nil {
				hooks.Install()
			}
		},
		Teardown: func() {
			s.log.Debugf("last node inactive, frame hook torn down")
			s.cameras.Reset()
			if hooks.Teardown != nil {
				hooks.Teardown()
			}
		},
	})
	return s
}

func (s *System) Tree() *uitree.Tree        { return s.tree }
func (s *System) Hierarchy() *Hierarchy     { return s.hierarchy }
func (s *System) Registry() *Registry       { return s.registry }
func (s *System) Cameras() *CameraProvider  { return s.cameras }
func (s *System) PatchBuffer() *PatchBuffer { return s.patch }
func (s *System) Frame() uint64             { return s.frame }

// NewNode creates a disabled node on opts.Transform.
func (s *System) NewNode(opts NodeOptions) (NodeId, error) {
	n, err := s.nodes.insert(s.tree, opts)
	if err != nil {
		return NoNode, err
	}
	s.log.Debugf("node %d %q created on transform %d", n.id, n.name, n.transform.Id())
	return n.id, nil
}

func (s *System) Node(id NodeId) (*Node, error) {
	if id == NoNode || int(id) >= len(s.nodes.nodes) {
		return nil, fmt.Errorf("node %d: %w", id, ErrUnknownNode)
	}
	n := s.nodes.get(id)
	if n == nil {
		return nil, fmt.Errorf("node %d: %w", id, ErrNodeDestroyed)
	}
	return n, nil
}

// NodeAt returns the node carried by transform t.
func (s *System) NodeAt(t uitree.TransformId) (NodeId, bool) {
	return s.nodes.at(t)
}

// Enable registers id and creates its mesh. The node's transform subtree is
// re-resolved so descendants pick it up as their parent.
func (s *System) Enable(id NodeId) error {
	n, err := s.Node(id)
	if err != nil {
		return err
	}
	if n.enabled {
		return nil
	}
	n.enabled = true
	n.bakedMesh = core.NewMesh(n.name)
	n.cachedPosition = n.transform.Position()
	n.activeSlots.Reset()
	s.registry.Register(id)

	if err := s.hierarchy.Reresolve(id); err != nil {
		return fmt.Errorf("enable %q: %w", n.name, err)
	}
	return s.checkTrail(n)
}

// Disable unregisters id and releases its mesh. Its children move to its own
// parent so the node tree stays connected.
func (s *System) Disable(id NodeId) error {
	n, err := s.Node(id)
	if err != nil {
		return err
	}
	if !n.enabled {
		return nil
	}
	if p := s.nodes.get(n.trail); p != nil && p.enabled {
		if err := s.Disable(p.id); err != nil {
			return err
		}
	}

	n.enabled = false
	s.registry.Unregister(id)
	if !s.canvasInUse(n.canvas) {
		s.cameras.Release(n.canvas)
	}

	for _, c := range slices.Clone(n.children) {
		if err := s.hierarchy.SetParent(c, n.parent); err != nil {
			return fmt.Errorf("disable %q: %w", n.name, err)
		}
	}
	if err := s.hierarchy.SetParent(id, NoNode); err != nil {
		return fmt.Errorf("disable %q: %w", n.name, err)
	}
	n.children = nil

	n.bakedMesh = nil
	n.activeSlots.Reset()
	if s.output != nil {
		s.output.SetMesh(id, nil)
	}
	return nil
}

// canvasInUse reports whether any active node bakes under canvas.
func (s *System) canvasInUse(canvas *uitree.Canvas) bool {
	for i := 0; i < s.registry.Len(); i++ {
		if n := s.nodes.get(s.registry.At(i)); n != nil && n.canvas == canvas {
			return true
		}
	}
	return false
}

// Destroy disables and frees id together with its trail proxy. The proxy's
// synthesized transform is removed from the tree.
func (s *System) Destroy(id NodeId) error {
	n, err := s.Node(id)
	if err != nil {
		return err
	}
	if err := s.Disable(id); err != nil {
		return err
	}
	if p := s.nodes.get(n.trail); p != nil {
		if err := s.Destroy(p.id); err != nil {
			return err
		}
		n.trail = NoNode
	}
	if n.isTrailProxy && n.transform.Valid() {
		s.tree.Remove(n.transform.Id())
	}
	s.nodes.remove(id)
	s.log.Debugf("node %d %q destroyed", id, n.name)
	return nil
}

// SetScale sets id's own scale. Zero is kept; drift correction skips it.
func (s *System) SetScale(id NodeId, scale float32) error {
	n, err := s.Node(id)
	if err != nil {
		return err
	}
	n.scale = scale
	return nil
}

func (s *System) SetIgnoreParentScale(id NodeId, ignore bool) error {
	n, err := s.Node(id)
	if err != nil {
		return err
	}
	if n.ignoreParentScale == ignore {
		return nil
	}
	n.ignoreParentScale = ignore
	return s.hierarchy.Reresolve(id)
}

// SetIgnoreCanvasScaler toggles canvas scaler compensation. Turning it off
// restores a unit local scale.
func (s *System) SetIgnoreCanvasScaler(id NodeId, ignore bool) error {
	n, err := s.Node(id)
	if err != nil {
		return err
	}
	if n.ignoreCanvasScaler == ignore {
		return nil
	}
	n.ignoreCanvasScaler = ignore
	if p := s.nodes.get(n.trail); p != nil {
		p.ignoreCanvasScaler = ignore
	}
	if !ignore && n.transform.Valid() {
		s.tree.SetLocalScale(n.transform.Id(), mgl32.Vec3{1, 1, 1})
	}
	return nil
}

// TransformParentChanged re-resolves every node at or below transform t.
// Call it after changing the tree outside of Reparent.
func (s *System) TransformParentChanged(t uitree.TransformId) error {
	return s.hierarchy.ReresolveTransform(s.tree, t)
}

// Reparent moves transform t under parent and re-resolves the nodes below it.
func (s *System) Reparent(t, parent uitree.TransformId) error {
	if err := s.tree.SetParent(t, parent); err != nil {
		return err
	}
	return s.TransformParentChanged(t)
}

// checkTrail keeps n's trail proxy in line with its primary source's trail flag.
func (s *System) checkTrail(n *Node) error {
	if n.isTrailProxy || !n.enabled || !s.cfg.TrailProxies || len(n.sources) == 0 {
		return nil
	}
	primary := n.sources[0].Particles
	want := primary != nil && primary.TrailsEnabled()
	proxy := s.nodes.get(n.trail)

	if !want {
		if proxy != nil && proxy.enabled {
			return s.Disable(proxy.id)
		}
		return nil
	}

	if proxy == nil {
		p, err := s.newTrailProxy(n)
		if err != nil {
			return err
		}
		proxy = p
	}
	if !proxy.enabled {
		return s.Enable(proxy.id)
	}
	return nil
}

func (s *System) newTrailProxy(owner *Node) (*Node, error) {
	t, err := s.tree.Add(trailProxyName, owner.transform.Id(), core.IdentityTransform())
	if err != nil {
		return nil, fmt.Errorf("trail proxy for %q: %w", owner.name, err)
	}
	p, err := s.nodes.insert(s.tree, NodeOptions{
		Name:               trailProxyName,
		Transform:          s.tree.Ref(t),
		Canvas:             owner.canvas,
		Sources:            owner.sources[:1],
		Scale:              owner.scale,
		IgnoreCanvasScaler: owner.ignoreCanvasScaler,
	})
	if err != nil {
		s.tree.Remove(t)
		return nil, fmt.Errorf("trail proxy for %q: %w", owner.name, err)
	}
	p.isTrailProxy = true
	owner.trail = p.id
	s.log.Debugf("node %d %q: trail proxy %d created", owner.id, owner.name, p.id)
	return p, nil
}

// UpdateNode runs one node's full frame update. Panics from collaborators
// are returned as errors wrapping ErrNodePanic.
func (s *System) UpdateNode(id NodeId) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrNodePanic, r)
		}
	}()

	n, err := s.Node(id)
	if err != nil {
		return err
	}
	if !n.enabled {
		return nil
	}
	if !n.transform.Valid() {
		return fmt.Errorf("node %q: transform removed: %w", n.name, uitree.ErrUnknownTransform)
	}
	if err := s.checkTrail(n); err != nil {
		return err
	}
	compensateCanvasScale(n)

	scale := s.hierarchy.EffectiveScale(id)
	if err := s.bakeNode(n, scale); err != nil {
		return err
	}
	s.applyColorSpace(n)

	if s.output != nil {
		s.output.SetMesh(id, n.bakedMesh)
		s.output.SetTexture(id, resolveMainTexture(n))
	}
	return nil
}

// Tick updates every active node in registration order. A failing node is
// logged and reported; the remaining nodes still update. Nodes registered
// during the tick are updated in the same frame.
func (s *System) Tick() FrameReport {
	s.frame++
	report := FrameReport{Frame: s.frame}
	if !s.registry.Installed() {
		return report
	}
	for i := 0; i < s.registry.Len(); i++ {
		id := s.registry.At(i)
		if err := s.UpdateNode(id); err != nil {
			ne := &NodeError{Node: id, Err: err}
			if n := s.nodes.get(id); n != nil {
				ne.Name = n.name
			}
			WithNode(s.log, s.frame, id, ne.Name).Errorf("update failed: %v", err)
			report.Failures = append(report.Failures, ne)
			continue
		}
		report.Updated++
	}
	return report
}
