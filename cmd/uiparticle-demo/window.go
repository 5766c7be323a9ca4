package main

import (
	"fmt"
	"runtime"

	"github.com/gekko3d/uiparticle"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
)

// unitsPerHalfHeight maps the window onto a canvas spanning [-10, 10] vertically.
const unitsPerHalfHeight = 10

type windowState struct {
	win    *glfw.Window
	width  int
	height int
}

func createWindowState(width, height int, title string) (*windowState, error) {
	runtime.LockOSThread()
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("init glfw: %w", err)
	}

	// Nothing is drawn through GLFW; the window only feeds the cursor.
	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	glfw.WindowHint(glfw.Resizable, glfw.True)

	win, err := glfw.CreateWindow(width, height, title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("create window: %w", err)
	}
	return &windowState{win: win, width: width, height: height}, nil
}

func (s *windowState) destroy() {
	s.win.Destroy()
	glfw.Terminate()
}

// cursorCanvasPosition converts the cursor to canvas units, y up, origin centered.
func (s *windowState) cursorCanvasPosition() mgl32.Vec3 {
	s.width, s.height = s.win.GetSize()
	x, y := s.win.GetCursorPos()
	if s.height == 0 {
		return mgl32.Vec3{}
	}
	scale := float64(unitsPerHalfHeight) / (float64(s.height) / 2)
	return mgl32.Vec3{
		float32((x - float64(s.width)/2) * scale),
		float32((float64(s.height)/2 - y) * scale),
		0,
	}
}

func runWindow(opts options, sc *Scene, stats *statsRenderer, log uiparticle.Logger) error {
	ws, err := createWindowState(opts.width, opts.height, "uiparticle")
	if err != nil {
		return err
	}
	defer ws.destroy()

	clock := newWallClock()
	for !ws.win.ShouldClose() {
		glfw.PollEvents()
		if ws.win.GetKey(glfw.KeyEscape) == glfw.Press {
			ws.win.SetShouldClose(true)
		}

		pos := ws.cursorCanvasPosition()
		for _, t := range sc.Followers {
			sc.Tree.SetLocalPosition(t, pos)
		}
		step(sc, clock, stats, opts.reportEvery, log)
	}
	return nil
}
