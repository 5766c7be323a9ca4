// Command uiparticle-demo drives particle emitters through the UI particle
// pipeline, either headless for a fixed number of frames or in a window
// where the cursor moves the emitting nodes.
package main

import (
	"flag"
	"os"
	"time"

	"github.com/gekko3d/uiparticle"
	"github.com/gekko3d/uiparticle/core"
)

type options struct {
	scene       string
	frames      int
	window      bool
	width       int
	height      int
	linear      bool
	noProxies   bool
	debug       bool
	reportEvery int
}

func main() {
	var opts options
	flag.StringVar(&opts.scene, "scene", "", "scene YAML file (built-in scene when empty)")
	flag.IntVar(&opts.frames, "frames", 300, "frames to run headless")
	flag.BoolVar(&opts.window, "window", false, "open a window and follow the cursor")
	flag.IntVar(&opts.width, "width", 1280, "window width")
	flag.IntVar(&opts.height, "height", 720, "window height")
	flag.BoolVar(&opts.linear, "linear", false, "convert vertex colors to linear space")
	flag.BoolVar(&opts.noProxies, "no-trail-proxies", false, "bake trails into the owning node")
	flag.BoolVar(&opts.debug, "debug", false, "enable debug logging")
	flag.IntVar(&opts.reportEvery, "report-every", 60, "log frame stats every N frames")
	flag.Parse()

	log := uiparticle.NewDefaultLogger("uiparticle-demo", opts.debug)
	if err := run(opts, log); err != nil {
		log.Errorf("%v", err)
		os.Exit(1)
	}
}

func run(opts options, log uiparticle.Logger) error {
	def, err := LoadScene(opts.scene)
	if err != nil {
		return err
	}

	cfg := uiparticle.DefaultConfig()
	cfg.Logger = log
	cfg.TrailProxies = !opts.noProxies
	if opts.linear {
		cfg.ColorSpace = uiparticle.ColorSpaceLinear
	}
	cfg.Hooks = uiparticle.RegistryHooks{
		Install:  func() { log.Infof("frame hook installed") },
		Teardown: func() { log.Infof("frame hook torn down") },
	}

	stats := newStatsRenderer()
	sc, err := def.Build(stats, cfg)
	if err != nil {
		return err
	}
	log.Infof("scene: %d nodes, %d emitters", len(sc.Nodes), len(sc.Emitters))

	if opts.window {
		return runWindow(opts, sc, stats, log)
	}
	return runHeadless(opts, sc, stats, log)
}

func runHeadless(opts options, sc *Scene, stats *statsRenderer, log uiparticle.Logger) error {
	clock := newFixedClock(time.Second / 60)
	for i := 0; i < opts.frames; i++ {
		step(sc, clock, stats, opts.reportEvery, log)
	}
	return nil
}

// step simulates every emitter and bakes one frame.
func step(sc *Scene, clock Clock, stats *statsRenderer, reportEvery int, log uiparticle.Logger) uiparticle.FrameReport {
	dt := clock.Tick()
	for _, e := range sc.Emitters {
		e.Simulate(float32(dt.Seconds()))
	}
	report := sc.System.Tick()
	if reportEvery > 0 && report.Frame%uint64(reportEvery) == 0 {
		log.Infof("frame %d: %d nodes updated, %d failed, %d vertices, %d textures",
			report.Frame, report.Updated, len(report.Failures), stats.Vertices(), stats.Textures())
	}
	return report
}

// statsRenderer is a CanvasRenderer that keeps only what it needs to report.
type statsRenderer struct {
	vertices map[uiparticle.NodeId]int
	textures map[uiparticle.NodeId]core.AssetId
}

func newStatsRenderer() *statsRenderer {
	return &statsRenderer{
		vertices: make(map[uiparticle.NodeId]int),
		textures: make(map[uiparticle.NodeId]core.AssetId),
	}
}

func (r *statsRenderer) SetMesh(id uiparticle.NodeId, m *core.Mesh) {
	if m == nil {
		delete(r.vertices, id)
		delete(r.textures, id)
		return
	}
	r.vertices[id] = m.VertexCount()
}

func (r *statsRenderer) SetTexture(id uiparticle.NodeId, tex *core.Texture) {
	r.textures[id] = tex.Id
}

func (r *statsRenderer) Vertices() int {
	n := 0
	for _, v := range r.vertices {
		n += v
	}
	return n
}

// Textures is the number of distinct textures bound this frame.
func (r *statsRenderer) Textures() int {
	seen := make(map[core.AssetId]struct{}, len(r.textures))
	for _, id := range r.textures {
		seen[id] = struct{}{}
	}
	return len(seen)
}
