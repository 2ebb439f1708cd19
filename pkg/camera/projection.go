package camera

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// ConfigError reports an invalid projection parameter. Degenerate
// parameters are rejected at configuration time rather than clamped,
// since a bad projection matrix corrupts every frame silently.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid camera config: %s %s", e.Field, e.Reason)
}

// ProjectionParams holds the fixed perspective projection parameters.
// Aspect ratio is deliberately absent: it belongs to the output surface
// and is supplied fresh on every ProjectionMatrix call.
type ProjectionParams struct {
	FOV  float32 // vertical field of view, radians
	Near float32
	Far  float32
}

// DefaultProjection returns a 90 degree FOV with near 0.1 and far 100.
func DefaultProjection() ProjectionParams {
	return ProjectionParams{
		FOV:  mgl32.DegToRad(90),
		Near: 0.1,
		Far:  100,
	}
}

// Validate rejects degenerate projection parameters.
func (p ProjectionParams) Validate() error {
	if p.FOV <= 0 {
		return &ConfigError{Field: "fov", Reason: "must be positive"}
	}
	if p.FOV >= math.Pi {
		return &ConfigError{Field: "fov", Reason: "must be less than 180 degrees"}
	}
	if p.Near <= 0 {
		return &ConfigError{Field: "near", Reason: "must be positive"}
	}
	if p.Near >= p.Far {
		return &ConfigError{Field: "near", Reason: "must be less than far"}
	}
	return nil
}

// ProjectionMatrix builds the perspective projection for the current
// surface aspect ratio. Params are assumed validated; aspect must be
// positive (the frame loop skips frames on a degenerate surface).
func ProjectionMatrix(p ProjectionParams, aspect float32) mgl32.Mat4 {
	return mgl32.Perspective(p.FOV, aspect, p.Near, p.Far)
}
