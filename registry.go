package uiparticle

import "slices"

// RegistryHooks run when the registry becomes non-empty and when it empties.
type RegistryHooks struct {
	Install  func()
	Teardown func()
}

// Registry is the ordered set of active nodes. Install fires on the 0->1
// transition and Teardown on 1->0, so a host never holds a frame callback
// with nothing to update.
type Registry struct {
	hooks     RegistryHooks
	active    []NodeId
	installed bool
}

func NewRegistry(hooks RegistryHooks) *Registry {
	return &Registry{hooks: hooks}
}

// Register appends id; false when it was already registered.
func (r *Registry) Register(id NodeId) bool {
	if slices.Contains(r.active, id) {
		return false
	}
	r.active = append(r.active, id)
	if len(r.active) == 1 && !r.installed {
		r.installed = true
		if r.hooks.Install != nil {
			r.hooks.Install()
		}
	}
	return true
}

// Unregister removes id keeping the order of the rest; false when absent.
func (r *Registry) Unregister(id NodeId) bool {
	i := slices.Index(r.active, id)
	if i < 0 {
		return false
	}
	r.active = slices.Delete(r.active, i, i+1)
	if len(r.active) == 0 && r.installed {
		r.installed = false
		if r.hooks.Teardown != nil {
			r.hooks.Teardown()
		}
	}
	return true
}

func (r *Registry) Len() int         { return len(r.active) }
func (r *Registry) At(i int) NodeId  { return r.active[i] }
func (r *Registry) Installed() bool  { return r.installed }
func (r *Registry) Active() []NodeId { return slices.Clone(r.active) }

func (r *Registry) Contains(id NodeId) bool {
	return slices.Contains(r.active, id)
}
