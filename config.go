package uiparticle

type ColorSpace int

const (
	ColorSpaceGamma ColorSpace = iota
	ColorSpaceLinear
)

const defaultPatchBufferCapacity = 2048

// Config is passed to NewSystem. Start from DefaultConfig; the zero value
// disables trail proxies and logs nothing.
type Config struct {
	// ColorSpace of the display pipeline. Linear converts combined vertex
	// colors from gamma before upload.
	ColorSpace ColorSpace

	// PatchBufferCapacity is the initial size of the shared particle buffer
	// used by drift correction. It grows to the next power of two on demand.
	PatchBufferCapacity int

	// TrailProxies delegates the primary source's trail geometry to a
	// synthesized child node instead of baking it into the owner's mesh.
	TrailProxies bool

	Logger Logger
	Hooks  RegistryHooks
}

func DefaultConfig() Config {
	return Config{
		ColorSpace:          ColorSpaceGamma,
		PatchBufferCapacity: defaultPatchBufferCapacity,
		TrailProxies:        true,
	}
}

func (c Config) withDefaults() Config {
	if c.PatchBufferCapacity <= 0 {
		c.PatchBufferCapacity = defaultPatchBufferCapacity
	}
	if c.Logger == nil {
		c.Logger = NewNopLogger()
	}
	return c
}
