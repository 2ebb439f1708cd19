// Package render defines the backend-agnostic bridge between the frame
// loop and a graphics backend, plus the OpenGL implementation of it.
package render

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/halverson/go-mapview/pkg/scene"
)

// Frame carries the per-frame camera transforms and scene light.
type Frame struct {
	View       mgl32.Mat4
	Projection mgl32.Mat4
	Light      mgl32.Vec3
}

// DrawItem is one object to draw: a mesh handle and its model matrix.
type DrawItem struct {
	Mesh  scene.MeshID
	Model mgl32.Mat4
}

// SubmitError reports a recoverable per-frame backend failure. The frame
// loop logs it and retries on the next tick; it never aborts the run.
type SubmitError struct {
	Reason string
	Err    error
}

func (e *SubmitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("render submit failed: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("render submit failed: %s", e.Reason)
}

func (e *SubmitError) Unwrap() error {
	return e.Err
}

// Bridge is the capability the frame loop needs from a graphics backend.
// Prepare uploads scene geometry once after load; Submit draws one frame.
// The camera/scene/loop core has no dependency on any graphics API beyond
// this interface.
type Bridge interface {
	Prepare(s *scene.Scene) error
	Submit(frame Frame, items []DrawItem) error
}

// BuildDrawItems assembles the per-frame draw list from the scene's
// object view. The dst slice is reused across frames to avoid per-tick
// allocation churn.
func BuildDrawItems(dst []DrawItem, objects []scene.Object) []DrawItem {
	dst = dst[:0]
	for _, obj := range objects {
		dst = append(dst, DrawItem{Mesh: obj.Mesh, Model: obj.ModelMatrix()})
	}
	return dst
}
