// Package platform wraps GLFW and OpenGL resource handling so the rest
// of the viewer stays free of graphics-API types.
package platform

import (
	"fmt"

	"github.com/go-gl/gl/v4.6-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/halverson/go-mapview/pkg/input"
)

// keyMap translates the viewer's key set to GLFW key codes.
var keyMap = map[input.Key]glfw.Key{
	input.KeyW:          glfw.KeyW,
	input.KeyA:          glfw.KeyA,
	input.KeyS:          glfw.KeyS,
	input.KeyD:          glfw.KeyD,
	input.KeyLeftShift:  glfw.KeyLeftShift,
	input.KeySpace:      glfw.KeySpace,
	input.KeyArrowUp:    glfw.KeyUp,
	input.KeyArrowDown:  glfw.KeyDown,
	input.KeyArrowLeft:  glfw.KeyLeft,
	input.KeyArrowRight: glfw.KeyRight,
}

// Window handles GLFW window creation and management. It implements the
// frame loop's Surface and the input package's KeySource.
type Window struct {
	glfwWindow *glfw.Window
	width      int
	height     int
	title      string
}

// NewWindow creates a GLFW window with an OpenGL 4.6 core context and
// initializes OpenGL state. The caller must have the OS thread locked.
func NewWindow(width, height int, title string, vsync bool) (*Window, error) {
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize GLFW: %w", err)
	}

	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 6)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.Resizable, glfw.True)

	glfwWindow, err := glfw.CreateWindow(width, height, title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("failed to create GLFW window: %w", err)
	}

	glfwWindow.MakeContextCurrent()
	if vsync {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}

	if err := gl.Init(); err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)

	w := &Window{
		glfwWindow: glfwWindow,
		width:      width,
		height:     height,
		title:      title,
	}
	glfwWindow.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		w.width = width
		w.height = height
		gl.Viewport(0, 0, int32(width), int32(height))
	})

	return w, nil
}

// AspectRatio returns the current framebuffer width/height ratio. It is
// zero while the window is minimized.
func (w *Window) AspectRatio() float32 {
	if w.height == 0 {
		return 0
	}
	return float32(w.width) / float32(w.height)
}

// KeyHeld reports whether the given key is currently pressed.
func (w *Window) KeyHeld(key input.Key) bool {
	glfwKey, ok := keyMap[key]
	if !ok {
		return false
	}
	return w.glfwWindow.GetKey(glfwKey) == glfw.Press
}

// ShouldClose reports whether a quit was requested.
func (w *Window) ShouldClose() bool {
	return w.glfwWindow.ShouldClose()
}

// RequestClose asks the window to close at the next tick boundary.
func (w *Window) RequestClose() {
	w.glfwWindow.SetShouldClose(true)
}

// Present swaps the front and back buffers. With vsync enabled this is
// the one call that may block to pace the frame rate.
func (w *Window) Present() {
	w.glfwWindow.SwapBuffers()
}

// PollEvents processes pending window and input events without blocking.
func (w *Window) PollEvents() {
	glfw.PollEvents()
}

// SetTitle sets the window title.
func (w *Window) SetTitle(title string) {
	w.title = title
	w.glfwWindow.SetTitle(title)
}

// Size returns the current framebuffer dimensions.
func (w *Window) Size() (width, height int) {
	return w.width, w.height
}

// Time returns seconds since GLFW initialization, suitable as the frame
// loop's wall clock.
func (w *Window) Time() float64 {
	return glfw.GetTime()
}

// Close releases the window and terminates GLFW.
func (w *Window) Close() {
	glfw.Terminate()
}
