package uiparticle

import (
	"github.com/gekko3d/uiparticle/core"
	"github.com/go-gl/mathgl/mgl32"
)

// SlotPool holds reusable scratch meshes. Slot 2*i carries the main geometry
// of source i and slot 2*i+1 its trail. Only slots in the active mask hold
// valid geometry; the rest may keep stale data from earlier bakes.
type SlotPool struct {
	meshes    []*core.Mesh
	matrices  []mgl32.Mat4
	active    SlotMask
	current   int
	transform mgl32.Mat4
}

func NewSlotPool() *SlotPool {
	return &SlotPool{current: -1, transform: mgl32.Ident4()}
}

// Clear empties every slot and the active mask.
func (p *SlotPool) Clear() {
	for _, m := range p.meshes {
		m.Clear()
	}
	p.active.Reset()
	p.current = -1
	p.transform = mgl32.Ident4()
}

// SetTransform sets the matrix recorded for slots handed out next.
func (p *SlotPool) SetTransform(m mgl32.Mat4) {
	p.transform = m
}

// Temporary returns slot index cleared and marked active.
func (p *SlotPool) Temporary(index int) *core.Mesh {
	for len(p.meshes) <= index {
		p.meshes = append(p.meshes, core.NewMesh("slot"))
		p.matrices = append(p.matrices, mgl32.Ident4())
	}
	m := p.meshes[index]
	m.Clear()
	p.matrices[index] = p.transform
	p.active.Set(index)
	p.current = index
	return m
}

// Discard deactivates the slot most recently handed out by Temporary.
func (p *SlotPool) Discard() {
	if p.current < 0 {
		return
	}
	p.active.Unset(p.current)
	p.meshes[p.current].Clear()
	p.current = -1
}

func (p *SlotPool) Active() SlotMask {
	return p.active.Clone()
}

// Slot returns the scratch mesh at index, or nil if it was never allocated.
func (p *SlotPool) Slot(index int) *core.Mesh {
	if index < 0 || index >= len(p.meshes) {
		return nil
	}
	return p.meshes[index]
}

// Combine rebuilds dst from the active slots in ascending index order. An
// empty mask yields an empty dst.
func (p *SlotPool) Combine(dst *core.Mesh) {
	CombineSlots(dst, p.meshes, p.matrices, p.active)
}

// CombineSlots concatenates slots[i] transformed by matrices[i] for every i in active.
func CombineSlots(dst *core.Mesh, slots []*core.Mesh, matrices []mgl32.Mat4, active SlotMask) {
	dst.Clear()
	for _, i := range active.Indices() {
		if i >= len(slots) || slots[i] == nil {
			continue
		}
		mat := mgl32.Ident4()
		if i < len(matrices) {
			mat = matrices[i]
		}
		dst.AppendTransformed(slots[i], mat)
	}
}
